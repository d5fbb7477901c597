// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	units "github.com/docker/go-units"
	"github.com/oneconcern/deduplab/pkg/backend/sqlbackend"
	"github.com/oneconcern/deduplab/pkg/dlogger"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/payload"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagsT struct {
	root struct {
		logLevel    string
		cpuProfPath string
		memProfPath string
	}
	corpus struct {
		root     string
		files    int
		grades   []string
		types    []string
		seed     int64
		textSize kibSize
	}
	results struct {
		root     string
		stage    string
		inputDir string
		output   string
		policy   string

		mirrors         []string
		tolerateMirrors bool
	}
	experiment struct {
		stage string
		rate  float64
	}
	report struct {
		dir    string
		title  string
		stages []string
	}
	backend struct {
		driver   string
		database string
		name     string
		replicas int
		volume   string
	}
	s3 struct {
		endpoint string
		region   string
	}
	gcs struct {
		credentials string
	}
}

var deduplabFlags = flagsT{}

const (
	corpusFlag   = "corpus"
	resultsFlag  = "results"
	gradesFlag   = "grades"
	typesFlag    = "types"
	filesFlag    = "files"
	seedFlag     = "seed"
	textSizeFlag = "text-size"
	driverFlag   = "driver"
	databaseFlag = "database"
	replicasFlag = "replicas"
	reportFlag   = "report-dir"
	stageFlag    = "stage"
)

func defaultGrades() []string {
	out := make([]string, 0, 3)
	for _, g := range []model.Grade{model.GradeU0, model.GradeU50, model.GradeU90} {
		out = append(out, g.String())
	}
	return out
}

func defaultTypes() []string {
	types := model.PayloadTypes()
	out := make([]string, 0, len(types))
	for _, t := range types {
		out = append(out, string(t))
	}
	return out
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().StringVar(&deduplabFlags.root.logLevel, loglevel, dlogger.LogLevelInfo,
		"The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addCPUProfPath(cmd *cobra.Command) string {
	cpuProf := "cpu-prof"
	cmd.PersistentFlags().StringVar(&deduplabFlags.root.cpuProfPath, cpuProf, "", "Write a CPU profile of the command to this file")
	return cpuProf
}

func addMemProfPath(cmd *cobra.Command) string {
	memProf := "mem-prof-dir"
	cmd.PersistentFlags().StringVar(&deduplabFlags.root.memProfPath, memProf, "",
		"Write heap and allocation profiles of the command to this directory, and log the growth of the heap")
	return memProf
}

func addCorpusFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.corpus.root, corpusFlag, "corpus",
		"The root of the corpus: a local directory, some S3 (s3://<bucket>/<prefix>) or GCS (gs://<bucket>/<prefix>) location")
	return corpusFlag
}

func addResultsFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.results.root, resultsFlag, "results",
		"The root of the experiment results: a local directory, some S3 (s3://<bucket>/<prefix>) or GCS (gs://<bucket>/<prefix>) location")
	return resultsFlag
}

func addMirrorFlags(cmd *cobra.Command) string {
	mirror := "mirror"
	cmd.Flags().StringSliceVar(&deduplabFlags.results.mirrors, mirror, nil,
		"Additional locations receiving a copy of every result written")
	cmd.Flags().BoolVar(&deduplabFlags.results.tolerateMirrors, "tolerate-mirror-failures", false,
		"Do not fail when writing to some mirror fails")
	return mirror
}

func addFilesFlag(cmd *cobra.Command) string {
	cmd.Flags().IntVar(&deduplabFlags.corpus.files, filesFlag, 1000, "Number of files per payload type per grade")
	return filesFlag
}

func addGradesFlag(cmd *cobra.Command) string {
	cmd.Flags().StringSliceVar(&deduplabFlags.corpus.grades, gradesFlag, defaultGrades(), "The duplication grades")
	return gradesFlag
}

func addTypesFlag(cmd *cobra.Command) string {
	cmd.Flags().StringSliceVar(&deduplabFlags.corpus.types, typesFlag, defaultTypes(),
		"The payload types (short names json, uuid and bank are accepted)")
	return typesFlag
}

func addSeedFlag(cmd *cobra.Command) string {
	cmd.Flags().Int64Var(&deduplabFlags.corpus.seed, seedFlag, 0, "Seed of the random source. When 0, the source is seeded from the clock")
	return seedFlag
}

func addTextSizeFlag(cmd *cobra.Command) string {
	deduplabFlags.corpus.textSize = kibSize(payload.DefaultTextSizeKiB)
	cmd.Flags().Var(&deduplabFlags.corpus.textSize, textSizeFlag, "The size of text payloads (in KiB, MiB, ...)")
	return textSizeFlag
}

func addStageFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.results.stage, stageFlag, model.StageAll,
		"The stage to aggregate: ingest, per-record, delete or all")
	return stageFlag
}

func addRunStageFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.experiment.stage, stageFlag, "", "Run a single stage: ingest, per-record or delete")
	return stageFlag
}

func addRateFlag(cmd *cobra.Command) string {
	rateFlag := "rate"
	cmd.Flags().Float64Var(&deduplabFlags.experiment.rate, rateFlag, 0,
		"Maximum number of per-record inserts and deletes per second. 0 means unbounded")
	return rateFlag
}

func addInputDirFlag(cmd *cobra.Command) string {
	inputDir := "input-dir"
	cmd.Flags().StringVar(&deduplabFlags.results.inputDir, inputDir, "",
		"The directory of the records to aggregate, relative to the results root. Defaults to the stage directory")
	return inputDir
}

func addOutputFlag(cmd *cobra.Command) string {
	output := "output"
	cmd.Flags().StringVar(&deduplabFlags.results.output, output, "",
		"The key of the stage summary, relative to the results root. Defaults to {stage}_summary.json")
	return output
}

func addPolicyFlag(cmd *cobra.Command) string {
	policy := "policy"
	cmd.Flags().StringVar(&deduplabFlags.results.policy, policy, policyLastWriteWins,
		"How to merge records for the same system and grade: last-write-wins or first-write-wins")
	return policy
}

func addReportDirFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.report.dir, reportFlag, "report", "The destination of the report artifacts")
	return reportFlag
}

func addTitleFlag(cmd *cobra.Command) string {
	title := "title"
	cmd.Flags().StringVar(&deduplabFlags.report.title, title, "", "The title of the report")
	return title
}

func addStagesFlag(cmd *cobra.Command) string {
	stages := "stages"
	cmd.Flags().StringSliceVar(&deduplabFlags.report.stages, stages, model.DefaultStages(), "The stages to report on, in order")
	return stages
}

func addDriverFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.backend.driver, driverFlag, sqlbackend.DriverPureGo,
		"The backend under measurement: sqlite3 (cgo SQLite), sqlite (pure go SQLite) or badger")
	return driverFlag
}

func addDatabaseFlag(cmd *cobra.Command) string {
	cmd.Flags().StringVar(&deduplabFlags.backend.database, databaseFlag, "",
		"The path to the database file (SQLite) or directory (badger). Defaults to deduplab.db or deduplab.kv")
	return databaseFlag
}

func addSystemNameFlag(cmd *cobra.Command) string {
	system := "system"
	cmd.Flags().StringVar(&deduplabFlags.backend.name, system, "", "The system name on records. Defaults to the driver")
	return system
}

func addReplicasFlag(cmd *cobra.Command) string {
	cmd.Flags().IntVar(&deduplabFlags.backend.replicas, replicasFlag, 1, "The number of replicas kept by the storage layer")
	return replicasFlag
}

func addVolumeFlag(cmd *cobra.Command) string {
	volume := "volume"
	cmd.Flags().StringVar(&deduplabFlags.backend.volume, volume, "", "The name of the volume backing the system, for the record")
	return volume
}

func addS3Flags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&deduplabFlags.s3.endpoint, "s3-endpoint", "",
		"The endpoint of some S3-compatible service, e.g. http://localhost:9000 for MinIO")
	cmd.PersistentFlags().StringVar(&deduplabFlags.s3.region, "s3-region", "", "The AWS region of S3 locations")
}

func addGCSFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&deduplabFlags.gcs.credentials, "gcs-credentials", "",
		"The credential file for GCS locations (gs://<bucket>/<prefix>). Defaults to GOOGLE_APPLICATION_CREDENTIALS")
}

// kibSize is a size flag with a KiB granularity, set from human readable sizes as in 10KiB or 1MiB
type kibSize int

var _ pflag.Value = new(kibSize)

func (k *kibSize) Set(value string) error {
	b, err := units.RAMInBytes(value)
	if err != nil {
		return err
	}
	if b < units.KiB {
		return fmt.Errorf("size must be at least 1KiB, got %s", value)
	}
	*k = kibSize(b / units.KiB)
	return nil
}

func (k *kibSize) String() string {
	return units.BytesSize(float64(*k) * units.KiB)
}

func (k *kibSize) Type() string {
	return "size"
}

func parseGrades() ([]model.Grade, error) {
	return model.ParseGrades(deduplabFlags.corpus.grades)
}

func parseTypes() ([]model.PayloadType, error) {
	return model.ParsePayloadTypes(deduplabFlags.corpus.types)
}
