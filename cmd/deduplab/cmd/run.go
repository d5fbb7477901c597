package cmd

import (
	"context"
	"fmt"

	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/experiment"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/results"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs the experiment stages against a backend",
	Long: `Loads the corpora of each grade into a backend and measures its physical size.

For every grade, the backend is reset, then driven through the stages:
  - ingest: bulk load of all corpora of the grade
  - per-record: the same entries, inserted one by one
  - delete: records deleted one by one, then maintenance (e.g. VACUUM, compaction)

One record per stage and grade is written under {stage}/{system}_{grade}.json in the results location.

With --stage, a single stage runs on the backend as it is, without any reset.`,
	Example: `% deduplab run --corpus ./corpus --results ./results --driver sqlite --grades U0,U90
SYSTEM	GRADE	SIZE DELTA (MiB)	DURATION (s)
sqlite	U0   	48.21           	3.10`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		grades, err := parseGrades()
		if err != nil {
			wrapFatalln("invalid grades", err)
			return
		}
		corpusStore, err := openStore(ctx, deduplabFlags.corpus.root)
		if err != nil {
			wrapFatalln("open corpus store", err)
			return
		}
		resultStore, err := openResults(ctx)
		if err != nil {
			wrapFatalln("open results store", err)
			return
		}
		b, err := openBackend(ctx)
		if err != nil {
			wrapFatalln("open backend", err)
			return
		}
		defer func() {
			if erc := b.Close(); erc != nil {
				logger.Sugar().Warnf("closing backend %s: %v", b.Name(), erc)
			}
		}()

		opts := []experiment.Option{
			experiment.Corpus(corpusStore),
			experiment.Results(resultStore),
			experiment.Replicas(deduplabFlags.backend.replicas),
			experiment.Volume(deduplabFlags.backend.volume),
			experiment.Rate(deduplabFlags.experiment.rate),
			experiment.Logger(logger),
		}
		if deduplabFlags.corpus.seed != 0 {
			opts = append(opts, experiment.Entropy(rand.New(deduplabFlags.corpus.seed)))
		}
		runner, err := experiment.New(b, opts...)
		if err != nil {
			wrapFatalln("configure experiment", err)
			return
		}

		var records []model.Record
		if stage := deduplabFlags.experiment.stage; stage != "" {
			if err = b.Setup(ctx); err == nil {
				records, err = runStage(ctx, runner, stage, grades)
			}
		} else {
			records, err = runner.Run(ctx, grades)
		}
		if ert := results.WriteTable(cmd.OutOrStdout(), records); ert != nil {
			err = multierr.Append(err, ert)
		}
		if err != nil {
			wrapFatalln("run experiment", err)
			return
		}
	},
}

func runStage(ctx context.Context, runner *experiment.Runner, stage string, grades []model.Grade) ([]model.Record, error) {
	records := make([]model.Record, 0, len(grades))
	for _, grade := range grades {
		rec, err := runner.RunStage(ctx, stage, grade)
		if err != nil {
			return records, fmt.Errorf("stage %s: %w", stage, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func init() {
	addCorpusFlag(runCmd)
	addResultsFlag(runCmd)
	addMirrorFlags(runCmd)
	addRateFlag(runCmd)
	addGradesFlag(runCmd)
	addSeedFlag(runCmd)
	addRunStageFlag(runCmd)
	addDriverFlag(runCmd)
	addDatabaseFlag(runCmd)
	addSystemNameFlag(runCmd)
	addReplicasFlag(runCmd)
	addVolumeFlag(runCmd)
	rootCmd.AddCommand(runCmd)
}
