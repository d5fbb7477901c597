package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	// viper maps keys on field names: keep them the same as the serialized names
	Corpus   string             `json:"corpus,omitempty" yaml:"corpus,omitempty"`     // Root of the corpus
	Results  string             `json:"results,omitempty" yaml:"results,omitempty"`   // Root of the experiment results
	Report   string             `json:"report,omitempty" yaml:"report,omitempty"`     // Destination of report artifacts
	Files    int                `json:"files,omitempty" yaml:"files,omitempty"`       // Files per payload type per grade
	Grades   []string           `json:"grades,omitempty" yaml:"grades,omitempty"`     // Duplication grades
	Types    []string           `json:"types,omitempty" yaml:"types,omitempty"`       // Payload types
	Seed     int64              `json:"seed,omitempty" yaml:"seed,omitempty"`         // Seed of the random source
	TextSize string             `json:"textsize,omitempty" yaml:"textsize,omitempty"` // Size of text payloads
	LogLevel string             `json:"loglevel,omitempty" yaml:"loglevel,omitempty"` // Logging level
	Driver   string             `json:"driver,omitempty" yaml:"driver,omitempty"`     // Backend under measurement
	Database string             `json:"database,omitempty" yaml:"database,omitempty"` // Database location
	Replicas int                `json:"replicas,omitempty" yaml:"replicas,omitempty"` // Replicas kept by the storage layer
	Endpoint string             `json:"endpoint,omitempty" yaml:"endpoint,omitempty"` // S3-compatible endpoint
	Region   string             `json:"region,omitempty" yaml:"region,omitempty"`     // AWS region
	Mirrors  []string           `json:"mirrors,omitempty" yaml:"mirrors,omitempty"`   // Mirror locations of results
	GCSCreds string             `json:"gcscreds,omitempty" yaml:"gcscreds,omitempty"` // GCS credential file
	Ratios   map[string]float64 `json:"ratios,omitempty" yaml:"ratios,omitempty"`     // Additional duplication grades
}

func newConfig() (*CLIConfig, error) {
	var config CLIConfig
	err := viper.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	// viper lowercases map keys: grade labels are read again from the file, as written
	if used := viper.ConfigFileUsed(); used != "" {
		ratios, err := readRatios(afero.NewOsFs(), used)
		if err != nil {
			return nil, err
		}
		if ratios != nil {
			config.Ratios = ratios
		}
	}
	return &config, nil
}

// readRatios decodes the ratios of a YAML or JSON configuration file, keeping the case of labels.
// Other formats yield nil.
func readRatios(fs afero.Fs, path string) (map[string]float64, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Ratios map[string]float64 `yaml:"ratios"`
	}
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode ratios from %s: %w", path, err)
	}
	return raw.Ratios, nil
}

// registerGrades adds the duplication grades defined by the configuration
func (c *CLIConfig) registerGrades() error {
	for label, ratio := range c.Ratios {
		if err := model.RegisterGrade(label, ratio); err != nil {
			return err
		}
	}
	return nil
}

// setParams fills in flags which have not been set on the command line with configured values
func (c *CLIConfig) setParams(cmd *cobra.Command, flags *flagsT) error {
	unset := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && !f.Changed
	}
	setString := func(name string, target *string, value string) {
		if value != "" && unset(name) {
			*target = value
		}
	}
	setInt := func(name string, target *int, value int) {
		if value != 0 && unset(name) {
			*target = value
		}
	}
	setList := func(name string, target *[]string, value []string) {
		if len(value) > 0 && unset(name) {
			*target = value
		}
	}

	setString(corpusFlag, &flags.corpus.root, c.Corpus)
	setString(resultsFlag, &flags.results.root, c.Results)
	setString(reportFlag, &flags.report.dir, c.Report)
	setInt(filesFlag, &flags.corpus.files, c.Files)
	setList(gradesFlag, &flags.corpus.grades, c.Grades)
	setList(typesFlag, &flags.corpus.types, c.Types)
	if c.Seed != 0 && unset(seedFlag) {
		flags.corpus.seed = c.Seed
	}
	setString("loglevel", &flags.root.logLevel, c.LogLevel)
	setString(driverFlag, &flags.backend.driver, c.Driver)
	setString(databaseFlag, &flags.backend.database, c.Database)
	setInt(replicasFlag, &flags.backend.replicas, c.Replicas)
	setString("s3-endpoint", &flags.s3.endpoint, c.Endpoint)
	setString("s3-region", &flags.s3.region, c.Region)
	setList("mirror", &flags.results.mirrors, c.Mirrors)
	setString("gcs-credentials", &flags.gcs.credentials, c.GCSCreds)
	if c.TextSize != "" && unset(textSizeFlag) {
		return flags.corpus.textSize.Set(c.TextSize)
	}
	return nil
}

// configCmd prints the configuration in effect
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the configuration in effect",
	Long: `Prints the configuration in effect, as YAML.

Configuration is read from deduplab.yaml, in the current directory, $HOME/.deduplab or /etc/deduplab,
or from the file pointed to by DEDUPLAB_CONFIG. Every key may be overridden by an environment variable
prefixed by DEDUPLAB_ (e.g. DEDUPLAB_CORPUS), then by command line flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		b, err := yaml.Marshal(config)
		if err != nil {
			wrapFatalln("marshal configuration", err)
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		if used := viper.ConfigFileUsed(); used != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "# from", used)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
