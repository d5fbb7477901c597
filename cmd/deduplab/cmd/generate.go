package cmd

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/deduplab/internal/rand"
	"github.com/oneconcern/deduplab/pkg/corpus"
	"github.com/oneconcern/deduplab/pkg/payload"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates corpora with a controlled share of duplicates",
	Long: `Generates one corpus per duplication grade and payload type.

Entries are stored under {grade}/{payload type}/{index}_{fingerprint}.dat. With a grade ratio p,
each entry after the first one copies an earlier payload of the same corpus with probability p.

Existing entries are never rewritten: generating again in the same location counts name
collisions instead.`,
	Example: `% deduplab generate --corpus ./corpus --files 200 --grades U0,U90 --types text,event --seed 42
GRADE	TYPE	FILES	UNIQUE	DUPLICATES	DUP %	SIZE
U0   	text	200  	200   	0         	0.0  	2MiB`,
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

		opts := []corpus.Option{
			corpus.Store(store),
			corpus.Logger(logger),
			corpus.PayloadOptions(payload.WithTextSize(int(deduplabFlags.corpus.textSize))),
		}
		if deduplabFlags.corpus.seed != 0 {
			opts = append(opts, corpus.Entropy(rand.New(deduplabFlags.corpus.seed)))
		}

		stats, err := corpus.New(opts...).BuildAll(ctx, grades, types, deduplabFlags.corpus.files)
		printStats(cmd, stats)
		if err != nil {
			wrapFatalln("generate corpus", err)
			return
		}
	},
}

func printStats(cmd *cobra.Command, stats []corpus.Stats) {
	table := uitable.New()
	table.AddRow("GRADE", "TYPE", "FILES", "UNIQUE", "DUPLICATES", "DUP %", "SIZE", "COLLISIONS")
	for _, s := range stats {
		table.AddRow(
			s.Grade, s.Type, s.Files, s.Unique, s.Duplicates,
			fmt.Sprintf("%.1f", 100*s.DuplicateFraction()),
			units.BytesSize(float64(s.Bytes)),
			s.Collisions,
		)
	}
	fmt.Fprintln(cmd.OutOrStdout(), table)
}

func init() {
	addCorpusFlag(generateCmd)
	addFilesFlag(generateCmd)
	addGradesFlag(generateCmd)
	addTypesFlag(generateCmd)
	addSeedFlag(generateCmd)
	addTextSizeFlag(generateCmd)
	rootCmd.AddCommand(generateCmd)
}
