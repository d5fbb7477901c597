package cmd

import (
	"context"
	"time"

	units "github.com/docker/go-units"
	"github.com/oneconcern/deduplab/internal"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const memPollLogInterval = 10 * time.Second

type profiler struct {
	stopCPU func() error
	stopMem func() uint64
}

var prof profiler

// start profiles the command, as requested by the --cpu-prof and --mem-prof-dir flags
func (p *profiler) start() error {
	if path := deduplabFlags.root.cpuProfPath; path != "" {
		stop, err := internal.StartCPUProfile(path)
		if err != nil {
			return err
		}
		p.stopCPU = stop
	}
	if deduplabFlags.root.memProfPath != "" {
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan uint64, 1)
		go func() {
			done <- internal.MemPoll(ctx, internal.MemPollParams{LoopLog: memPollLogInterval, Logger: logger})
		}()
		p.stopMem = func() uint64 {
			cancel()
			return <-done
		}
	}
	return nil
}

func (p *profiler) stop(cmd *cobra.Command) error {
	var err error
	if p.stopCPU != nil {
		err = multierr.Append(err, p.stopCPU())
		p.stopCPU = nil
	}
	if p.stopMem != nil {
		maxHeap := p.stopMem()
		p.stopMem = nil
		logger.Info("heap profile",
			zap.String("command", cmd.Name()),
			zap.String("max heap", units.BytesSize(float64(maxHeap))),
		)
		err = multierr.Append(err, internal.WriteMemProfiles(deduplabFlags.root.memProfPath, cmd.Name()))
	}
	return err
}
