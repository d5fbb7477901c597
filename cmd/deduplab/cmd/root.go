// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/oneconcern/deduplab/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "deduplab",
	Short: "deduplab measures how storage systems absorb duplicated data",
	Long: `deduplab measures how storage systems physically reclaim space under workloads with
a varying share of duplicate content.

A typical session generates a corpus for each duplication grade, runs the experiment stages
against a backend, aggregates the results of each stage, then synthesizes a report:

  deduplab generate --corpus ./corpus --files 1000
  deduplab run --corpus ./corpus --results ./results --driver sqlite
  deduplab aggregate --results ./results --stage ingest
  deduplab report --results ./results --report-dir ./report
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if config == nil {
			config = new(CLIConfig)
		}
		if err := config.setParams(cmd, &deduplabFlags); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		l, err := dlogger.GetLogger(deduplabFlags.root.logLevel, dlogger.Console(), dlogger.ToPaths("stderr"))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", deduplabFlags.root.logLevel, err)
		}
		logger = l
		return prof.start()
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if err := prof.stop(cmd); err != nil {
			logger.Warn("profiling", zap.Error(err))
		}
		_ = logger.Sync()
	},
}

var (
	config *CLIConfig
	logger = zap.NewNop()
)

// configuration keys, as found in config files or as environment variables (e.g. DEDUPLAB_CORPUS)
var configKeys = []string{
	"corpus", "results", "report", "files", "grades", "types", "seed", "textsize",
	"loglevel", "driver", "database", "replicas", "endpoint", "region", "mirrors", "gcscreds",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevel(rootCmd)
	addCPUProfPath(rootCmd)
	addMemProfPath(rootCmd)
	addS3Flags(rootCmd)
	addGCSFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv("DEDUPLAB_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv("DEDUPLAB_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.deduplab")
		viper.AddConfigPath("/etc/deduplab")
		viper.SetConfigName("deduplab")
	}

	viper.SetEnvPrefix("deduplab")
	for _, key := range configKeys {
		_ = viper.BindEnv(key)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			wrapFatalln("read config file", err)
			return
		}
	}
	var err error
	config, err = newConfig()
	if err != nil {
		wrapFatalln("decode configuration", err)
		return
	}
	if err = config.registerGrades(); err != nil {
		wrapFatalln("register duplication grades", err)
	}
}
