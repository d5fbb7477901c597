package cmd

import (
	"fmt"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Synthesizes a report from stage summaries",
	Long: `Combines the stage summaries found in the results location into a report.

A stage is reported when both its records directory and its summary exist. Other stages are skipped.

The following artifacts are regenerated in the report directory:
  - ` + model.SummaryTextFile + `: the human readable report
  - ` + model.MetricsEnvFile + `: {STAGE}_{SYSTEM}_{GRADE}_DELTA and _EDR variables
  - ` + model.MetricsPromFile + `: the same metrics, in the Prometheus text format
  - ` + model.ChartDataFile + `: size delta and EDR per stage, system and grade`,
	Example: `% deduplab report --results ./results --report-dir ./report`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		in, err := openStore(ctx, deduplabFlags.results.root)
		if err != nil {
			wrapFatalln("open results store", err)
			return
		}
		out, err := openStore(ctx, deduplabFlags.report.dir)
		if err != nil {
			wrapFatalln("open report store", err)
			return
		}

		rep, err := report.New(
			report.Title(deduplabFlags.report.title),
			report.Stages(deduplabFlags.report.stages...),
			report.Logger(logger),
		).Generate(ctx, in, out)
		if err != nil {
			wrapFatalln("generate report", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), rep.Text())
	},
}

func init() {
	addResultsFlag(reportCmd)
	addReportDirFlag(reportCmd)
	addTitleFlag(reportCmd)
	addStagesFlag(reportCmd)
	rootCmd.AddCommand(reportCmd)
}
