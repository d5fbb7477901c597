package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/deduplab/pkg/corpus"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verifies generated corpora",
	Long: `Reads back corpora, checks every entry against the fingerprint in its name, and recounts
duplicates from content.

The command fails when some entry does not match its name.`,
	Example: `% deduplab verify --corpus ./corpus --grades U90 --types event
GRADE	TYPE 	FILES	DISTINCT	DUP %	CHECKSUM        	STATUS
U90  	event	1000 	97      	90.3 	5e0d6f8a0b2c41d7	OK`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptible()
		defer cancel()

		grades, err := parseGrades()
		if err != nil {
			wrapFatalln("invalid grades", err)
			return
		}
		types, err := parseTypes()
		if err != nil {
			wrapFatalln("invalid payload types", err)
			return
		}
		store, err := openStore(ctx, deduplabFlags.corpus.root)
		if err != nil {
			wrapFatalln("open corpus store", err)
			return
		}

		table := uitable.New()
		table.AddRow("GRADE", "TYPE", "FILES", "DISTINCT", "DUP %", "CHECKSUM", "STATUS")
		failed := 0
		for _, grade := range grades {
			for _, typ := range types {
				v, err := corpus.Verify(ctx, store, grade, typ)
				if err != nil {
					wrapFatalln(fmt.Sprintf("verify corpus %s/%s", grade, typ), err)
					return
				}
				status := color.GreenString("OK")
				if !v.OK() {
					failed++
					status = color.RedString("%d MISMATCHES", len(v.Mismatches))
				}
				if v.Files == 0 {
					status = color.YellowString("EMPTY")
				}
				table.AddRow(v.Grade, v.Type, v.Files, v.Distinct,
					fmt.Sprintf("%.1f", 100*v.DuplicateFraction()), shortChecksum(v.Checksum), status)
				for _, key := range v.Mismatches {
					logger.Sugar().Warnf("entry %s does not match its fingerprint", key)
				}
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), table)
		if failed > 0 {
			wrapFatalWithCodef(1, "%d corpora failed verification", failed)
		}
	},
}

func shortChecksum(checksum string) string {
	const size = 16
	if len(checksum) > size {
		return checksum[:size]
	}
	return checksum
}

func init() {
	addCorpusFlag(verifyCmd)
	addGradesFlag(verifyCmd)
	addTypesFlag(verifyCmd)
	rootCmd.AddCommand(verifyCmd)
}
