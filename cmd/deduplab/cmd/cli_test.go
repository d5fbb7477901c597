package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oneconcern/deduplab/pkg/corpus"
	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type ExitMocks struct {
	mock.Mock
	fatalCalls int
	exitCodes  []int
}

func (m *ExitMocks) Fatalf(format string, v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Fatalln(v ...interface{}) {
	m.fatalCalls++
}

func (m *ExitMocks) Exit(code int) {
	m.exitCodes = append(m.exitCodes, code)
}

func setupTests(t *testing.T) *ExitMocks {
	t.Helper()
	exitMocks := new(ExitMocks)
	logFatalf = exitMocks.Fatalf
	logFatalln = exitMocks.Fatalln
	osExit = exitMocks.Exit
	t.Setenv("DEDUPLAB_CONFIG", "")
	return exitMocks
}

// resetFlags restores flag defaults between two executions of the root command.
// Slice values append once changed: they get a fresh value.
func resetFlags(t *testing.T) {
	t.Helper()
	slices := map[string]*[]string{
		gradesFlag: &deduplabFlags.corpus.grades,
		typesFlag:  &deduplabFlags.corpus.types,
		"stages":   &deduplabFlags.report.stages,
		"mirror":   &deduplabFlags.results.mirrors,
	}
	reset := func(f *pflag.Flag) {
		if target, ok := slices[f.Name]; ok {
			defaults := strings.Trim(f.DefValue, "[]")
			var values []string
			if defaults != "" {
				values = strings.Split(defaults, ",")
			}
			fresh := pflag.NewFlagSet(f.Name, pflag.ContinueOnError)
			fresh.StringSliceVar(target, f.Name, values, f.Usage)
			f.Value = fresh.Lookup(f.Name).Value
		} else {
			require.NoError(t, f.Value.Set(f.DefValue), f.Name)
		}
		f.Changed = false
	}
	for _, c := range append([]*cobra.Command{rootCmd}, rootCmd.Commands()...) {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func execCmd(t *testing.T, args ...string) string {
	t.Helper()
	resetFlags(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--loglevel", "none"))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func generateArgs(corpusDir string, grades string) []string {
	return []string{"generate",
		"--corpus", corpusDir,
		"--files", "20",
		"--grades", grades,
		"--types", "text,uuid",
		"--seed", "42",
		"--text-size", "1KiB",
	}
}

func TestGenerateVerify(t *testing.T) {
	exitMocks := setupTests(t)
	corpusDir := filepath.Join(t.TempDir(), "corpus")

	out := execCmd(t, generateArgs(corpusDir, "U0,U90")...)
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "COLLISIONS")
	assert.Contains(t, out, "identifier-list")

	entries, err := corpus.TypeEntries(context.Background(), localfs.NewAt(corpusDir), model.GradeU90, model.PayloadText)
	require.NoError(t, err)
	assert.Len(t, entries, 20)

	out = execCmd(t, "verify", "--corpus", corpusDir, "--grades", "U0,U90", "--types", "text,identifier-list")
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Empty(t, exitMocks.exitCodes)
	assert.Equal(t, 4, strings.Count(out, "OK"))
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)

	// generating again collides on every name, and rewrites nothing
	out = execCmd(t, generateArgs(corpusDir, "U0")...)
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "20")

	// tampered entries are detected
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, filepath.FromSlash(entries[3].Key)), []byte("tampered"), 0600))
	out = execCmd(t, "verify", "--corpus", corpusDir, "--grades", "U90", "--types", "text")
	rows := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, rows, 2, out)
	assert.Contains(t, rows[1], "U90")
	assert.Contains(t, rows[1], "text")
	assert.Contains(t, rows[1], "1 MISMATCHES")
	assert.Equal(t, []int{1}, exitMocks.exitCodes)
}

func TestGenerateInvalid(t *testing.T) {
	exitMocks := setupTests(t)
	corpusDir := filepath.Join(t.TempDir(), "corpus")

	_ = execCmd(t, "generate", "--corpus", corpusDir, "--grades", "U42", "--types", "text", "--files", "1")
	assert.Equal(t, 1, exitMocks.fatalCalls)

	_ = execCmd(t, "generate", "--corpus", corpusDir, "--grades", "U0", "--types", "video", "--files", "1")
	assert.Equal(t, 2, exitMocks.fatalCalls)

	resetFlags(t)
	rootCmd.SetArgs([]string{"generate", "--text-size", "12", "--loglevel", "none"})
	require.Error(t, rootCmd.Execute())
}

func TestExperiment(t *testing.T) {
	exitMocks := setupTests(t)
	root := t.TempDir()
	corpusDir := filepath.Join(root, "corpus")
	resultsDir := filepath.Join(root, "results")
	reportDir := filepath.Join(root, "report")
	mirrorDir := filepath.Join(root, "mirror")

	_ = execCmd(t, generateArgs(corpusDir, "U0,U90")...)
	require.Equal(t, 0, exitMocks.fatalCalls)

	out := execCmd(t, "run",
		"--corpus", corpusDir,
		"--results", resultsDir,
		"--grades", "U0,U90",
		"--driver", "sqlite",
		"--database", filepath.Join(root, "lab.db"),
		"--system", "lab",
		"--stage", "",
		"--mirror", mirrorDir,
	)
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "SIZE DELTA (MiB)")
	assert.FileExists(t, filepath.Join(mirrorDir, "ingest", "lab_U90.json"))

	for _, stage := range model.DefaultStages() {
		for _, grade := range []string{"U0", "U90"} {
			assert.FileExists(t, filepath.Join(resultsDir, stage, "lab_"+grade+".json"))
		}
		out = execCmd(t, "aggregate", "--results", resultsDir, "--stage", stage, "--input-dir", "", "--output", "", "--policy", "last-write-wins", "--mirror", "")
		require.Equal(t, 0, exitMocks.fatalCalls)
		assert.Equal(t, 2, strings.Count(out, "lab"), out)
		assert.FileExists(t, filepath.Join(resultsDir, stage+"_summary.json"))
	}

	out = execCmd(t, "report", "--results", resultsDir, "--report-dir", reportDir, "--title", "CLI test", "--stages", "ingest,per-record,delete")
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "CLI test")
	assert.Contains(t, out, "  PER-RECORD: per-record")
	for _, artifact := range []string{model.SummaryTextFile, model.MetricsEnvFile, model.MetricsPromFile, model.ChartDataFile} {
		assert.FileExists(t, filepath.Join(reportDir, artifact))
	}
	env, err := os.ReadFile(filepath.Join(reportDir, model.MetricsEnvFile))
	require.NoError(t, err)
	assert.Contains(t, string(env), "INGEST_LAB_U90_DELTA=")
	assert.Contains(t, string(env), "PER_RECORD_LAB_U0_DELTA=")

	out = execCmd(t, "maintain", "--driver", "sqlite", "--database", filepath.Join(root, "lab.db"))
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "VACUUM: ok")
	assert.Contains(t, out, "physical size:")
}

func TestAggregateAllRequiresInputDir(t *testing.T) {
	exitMocks := setupTests(t)
	_ = execCmd(t, "aggregate", "--results", t.TempDir(), "--stage", "all", "--input-dir", "")
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestUnsupportedDriver(t *testing.T) {
	exitMocks := setupTests(t)
	_ = execCmd(t, "maintain", "--driver", "postgres", "--database", filepath.Join(t.TempDir(), "x"))
	assert.Equal(t, 1, exitMocks.fatalCalls)
}

func TestMergePolicy(t *testing.T) {
	_, err := mergePolicy(policyFirstWriteWins)
	require.NoError(t, err)
	_, err = mergePolicy("merge")
	require.Error(t, err)
}

func TestKiBSize(t *testing.T) {
	var k kibSize
	require.NoError(t, k.Set("2MiB"))
	assert.Equal(t, kibSize(2048), k)
	assert.Equal(t, "2MiB", k.String())
	require.NoError(t, k.Set("10k"))
	assert.Equal(t, kibSize(10), k)
	require.Error(t, k.Set("512"))
	require.Error(t, k.Set("big"))
}

func TestConfigFile(t *testing.T) {
	exitMocks := setupTests(t)
	dir := t.TempDir()
	cfg := filepath.Join(dir, "deduplab.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("corpus: "+filepath.Join(dir, "from-config")+"\nfiles: 3\nratios:\n  U25: 0.25\n"), 0600))
	t.Setenv("DEDUPLAB_CONFIG", cfg)
	t.Cleanup(viper.Reset)

	out := execCmd(t, "config")
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "files: 3")
	assert.Contains(t, out, "# from "+cfg)

	ratio, err := model.Grade("U25").Ratio()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, ratio, 1e-9)

	out = execCmd(t, "generate", "--grades", "U25", "--types", "text", "--seed", "7", "--text-size", "1KiB")
	require.Equal(t, 0, exitMocks.fatalCalls)
	assert.Contains(t, out, "U25")
	entries, err := corpus.TypeEntries(context.Background(), localfs.NewAt(filepath.Join(dir, "from-config")), model.Grade("U25"), model.PayloadText)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestReadRatios(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "deduplab.yaml", []byte("files: 3\nratios:\n  U25: 0.25\n  Ux: 0.5\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, "deduplab.json", []byte(`{"ratios": {"U75": 0.75}}`), 0600))
	require.NoError(t, afero.WriteFile(fs, "deduplab.toml", []byte("[ratios]\nU10 = 0.1\n"), 0600))
	require.NoError(t, afero.WriteFile(fs, "broken.yaml", []byte("ratios: [\n"), 0600))

	ratios, err := readRatios(fs, "deduplab.yaml")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"U25": 0.25, "Ux": 0.5}, ratios)

	ratios, err = readRatios(fs, "deduplab.json")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"U75": 0.75}, ratios)

	ratios, err = readRatios(fs, "deduplab.toml")
	require.NoError(t, err)
	assert.Nil(t, ratios)

	_, err = readRatios(fs, "broken.yaml")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	setupTests(t)
	out := execCmd(t, "version")
	assert.Contains(t, out, "Version: dev")
}

func TestProfiling(t *testing.T) {
	setupTests(t)
	dir := t.TempDir()
	t.Cleanup(func() {
		deduplabFlags.root.cpuProfPath = ""
		deduplabFlags.root.memProfPath = ""
	})

	_ = execCmd(t, "version", "--cpu-prof", filepath.Join(dir, "cpu.prof"), "--mem-prof-dir", filepath.Join(dir, "mem"))
	assert.FileExists(t, filepath.Join(dir, "cpu.prof"))
	assert.FileExists(t, filepath.Join(dir, "mem", "version.mem.prof"))
	assert.FileExists(t, filepath.Join(dir, "mem", "version.alloc.prof"))
}
