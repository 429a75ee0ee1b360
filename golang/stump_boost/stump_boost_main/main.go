package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tarstars/stump_boosting/golang/stump_boost/logging"
)

var (
	logger   = slog.Default()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:           "stump_boost",
	Short:         "AdaBoost over decision stumps for cascade detectors",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		level, _ := flags.GetString("log-level")
		file, _ := flags.GetString("log-file")
		cfg := logging.Config{Level: level, File: file, MaxSize: 100, MaxBackups: 3}
		if err := validate.Struct(cfg); err != nil {
			return err
		}
		logger, closeLog = logging.New(cfg)
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		return closeLog()
	},
}

func main() {
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(rocCmd)
	rootCmd.AddCommand(lcurveCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(thresholdCmd)

	rootCmd.PersistentFlags().String("config", "stump_config.json", "a config file for the run of the program")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-file", "", "write JSON logs into a rotating file instead of stderr")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
