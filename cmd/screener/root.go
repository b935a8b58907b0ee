package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/logger"
)

const appName = "screener"

// Actual version can be specified in build command.
var version = "unknown"

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:          appName,
		Short:        "screener extracts candidate details from resumes and scores them against required skills",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = v.BindEnv("debug", "LOG_DEBUG")
	_ = v.BindEnv("json", "LOG_JSON")

	rootCmd.AddCommand(
		newProcessCmd(v),
		newExportCmd(v),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds a logger writing to stderr so
// stdout stays reserved for command output.
func setup(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.NewWithOutput(v.GetBool("json"), v.GetBool("debug"), "stderr")
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	return cfg, log, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", appName, version)
		},
	}
}
