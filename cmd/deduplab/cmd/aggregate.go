package cmd

import (
	"fmt"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/results"
	"github.com/spf13/cobra"
)

const (
	policyLastWriteWins  = "last-write-wins"
	policyFirstWriteWins = "first-write-wins"
)

func mergePolicy(name string) (results.MergePolicy, error) {
	switch name {
	case policyLastWriteWins, "":
		return results.LastWriteWins, nil
	case policyFirstWriteWins:
		return results.FirstWriteWins, nil
	default:
		return nil, fmt.Errorf("unknown merge policy %q", name)
	}
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Aggregates experiment records into a stage summary",
	Long: `Reads all records found in a directory of the results location, keeps those of the requested
stage (or all of them with --stage all), and folds them by system then grade into a stage summary.

When several records exist for the same system and grade, the last one in file name order wins.

The summary is written as {stage}_summary.json at the root of the results location, and a table
of all aggregated records is printed.`,
	Example: `% deduplab aggregate --results ./results --stage ingest
SYSTEM	GRADE	SIZE DELTA (MiB)	DURATION (s)
sqlite	U0   	48.21           	3.10
sqlite	U90  	5.02            	2.95`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		stage := deduplabFlags.results.stage
		inputDir := deduplabFlags.results.inputDir
		if inputDir == "" {
			if stage == model.StageAll {
				wrapFatalln("an input directory is required to aggregate all stages", nil)
				return
			}
			inputDir = model.GetStageDir(stage)
		}
		output := deduplabFlags.results.output
		if output == "" {
			output = model.GetPathToSummary(stage)
		}
		policy, err := mergePolicy(deduplabFlags.results.policy)
		if err != nil {
			wrapFatalln("invalid policy", err)
			return
		}
		store, err := openResults(ctx)
		if err != nil {
			wrapFatalln("open results store", err)
			return
		}

		_, records, err := results.Aggregate(ctx, results.Aggregation{
			Input:     store,
			InputDir:  inputDir,
			Output:    store,
			OutputKey: output,
			Stage:     stage,
			Policy:    policy,
			Logger:    logger,
		})
		if err != nil {
			wrapFatalln("aggregate results", err)
			return
		}
		if err = results.WriteTable(cmd.OutOrStdout(), records); err != nil {
			wrapFatalln("print results", err)
			return
		}
	},
}

func init() {
	addResultsFlag(aggregateCmd)
	addMirrorFlags(aggregateCmd)
	addStageFlag(aggregateCmd)
	addInputDirFlag(aggregateCmd)
	addOutputFlag(aggregateCmd)
	addPolicyFlag(aggregateCmd)
	rootCmd.AddCommand(aggregateCmd)
}
