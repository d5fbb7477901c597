package cmd

import (
	"fmt"
	"time"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var maintainCmd = &cobra.Command{
	Use:   "maintain",
	Short: "Runs maintenance on a backend",
	Long: `Runs the maintenance operations of a backend, outside of any experiment, and reports
its physical size before and after.

SQLite databases are vacuumed, reindexed and their write-ahead log is truncated.
Badger databases are compacted then their value log is garbage collected.`,
	Example: `% deduplab maintain --driver sqlite --database ./deduplab.db
before: page_count=1204, freelist_count=1180
VACUUM: ok
REINDEX: ok
PRAGMA wal_checkpoint(TRUNCATE): 0|0|0
after: page_count=24, freelist_count=0
physical size: 4.703MiB -> 96KiB`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		b, err := openBackend(ctx)
		if err != nil {
			wrapFatalln("open backend", err)
			return
		}
		defer func() {
			_ = b.Close()
		}()

		before, err := b.PhysicalSize(ctx)
		if err != nil {
			wrapFatalln("measure backend", err)
			return
		}
		t0 := time.Now()
		report, err := b.Maintain(ctx)
		fmt.Fprint(cmd.OutOrStdout(), report)
		if err != nil {
			wrapFatalln("maintain backend", err)
			return
		}
		after, err := b.PhysicalSize(ctx)
		if err != nil {
			wrapFatalln("measure backend", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "physical size: %s -> %s\n", units.BytesSize(float64(before)), units.BytesSize(float64(after)))
		logger.Info("maintenance done",
			zap.String("system", b.Name()),
			zap.Int64("before", before),
			zap.Int64("after", after),
			zap.Duration("duration", time.Since(t0)),
		)
	},
}

func init() {
	addDriverFlag(maintainCmd)
	addDatabaseFlag(maintainCmd)
	addSystemNameFlag(maintainCmd)
	rootCmd.AddCommand(maintainCmd)
}
