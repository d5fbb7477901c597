// Package internal holds profiling helpers for deduplab commands.
package internal

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"go.uber.org/zap"
)

func writeProfIfNExist(path string, name string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		var fprof *os.File
		fprof, err = os.Create(path)
		if err != nil {
			return err
		}
		defer fprof.Close()
		err = pprof.Lookup(name).WriteTo(fprof, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

// StartCPUProfile starts profiling the CPU to some file. The returned function stops profiling.
func StartCPUProfile(path string) (func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err = pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}

// WriteMemProfiles writes heap and allocation profiles to {destDir}/{namePrefix}.mem.prof and .alloc.prof.
//
// Existing profiles are left untouched.
func WriteMemProfiles(destDir, namePrefix string) error {
	if err := os.MkdirAll(destDir, 0700); err != nil {
		return err
	}
	basePath := filepath.Join(destDir, namePrefix)
	if err := writeProfIfNExist(basePath+".mem.prof", "heap"); err != nil {
		return err
	}
	return writeProfIfNExist(basePath+".alloc.prof", "allocs")
}

// MemPollParams tunes MemPoll
type MemPollParams struct {
	Poll    time.Duration
	LoopLog time.Duration
	Logger  *zap.Logger
}

func memPollDefaults(params MemPollParams) MemPollParams {
	if params.Poll == 0 {
		params.Poll = 50 * time.Millisecond
	}
	if params.Logger == nil {
		params.Logger = zap.NewNop()
	}
	return params
}

// MemPoll logs the growth of the heap until the context is done. It returns the largest heap observed, in bytes.
func MemPoll(ctx context.Context, params MemPollParams) uint64 {
	params = memPollDefaults(params)
	mstats := new(runtime.MemStats)
	var maxHeapThusFar uint64
	var sinceLog time.Duration
	ticker := time.NewTicker(params.Poll)
	defer ticker.Stop()

	for {
		runtime.ReadMemStats(mstats)
		if params.LoopLog != 0 && sinceLog >= params.LoopLog {
			params.Logger.Info("mempoll",
				zap.Uint64("MiB for heap (un-GC)", mstats.Alloc/1024/1024),
				zap.Uint64("MiB for heap (max ever)", mstats.HeapSys/1024/1024),
				zap.Int("num go routines", runtime.NumGoroutine()),
			)
			sinceLog = 0
		}
		if mstats.HeapSys > maxHeapThusFar {
			maxHeapThusFar = mstats.HeapSys
			params.Logger.Debug("grew heap",
				zap.Uint64("MiB for heap (un-GC)", mstats.Alloc/1024/1024),
				zap.Uint64("MiB for heap (max ever)", mstats.HeapSys/1024/1024),
			)
		}
		select {
		case <-ctx.Done():
			return maxHeapThusFar
		case <-ticker.C:
			sinceLog += params.Poll
		}
	}
}
