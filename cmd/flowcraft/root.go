package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/flowcraft/internal/config"
	"github.com/aretw0/flowcraft/internal/logging"
	"github.com/spf13/cobra"
)

// errProblemsFound makes the process exit with status 1 without printing usage.
var errProblemsFound = errors.New("problems found")

var (
	cfg    = config.Default()
	logger = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "flowcraft",
	Short:         "flowcraft edits and checks chatbot flows",
	Long:          `flowcraft works with chatbot flow documents: directed graphs of message, question, variable, condition and API nodes hanging off a single start node.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
		applyFlagOverrides(cmd)

		level := logging.ParseLevel(cfg.Log.Level)
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			level = slog.LevelDebug
		}
		logger = logging.NewWithFormat(cmd.ErrOrStderr(), level, cfg.Log.Format)
		return cfg.Validate()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errProblemsFound) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("storage", "", "Document store driver: memory, file or redis")
	rootCmd.PersistentFlags().String("storage-dir", "", "Directory of the file document store")
	rootCmd.PersistentFlags().String("redis-addr", "", "Address of the redis document store")
}

// applyFlagOverrides lets explicit flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("storage") {
		cfg.Storage.Driver, _ = flags.GetString("storage")
	}
	if flags.Changed("storage-dir") {
		cfg.Storage.Dir, _ = flags.GetString("storage-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.Storage.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Changed("addr") {
		cfg.Server.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("flow") {
		cfg.Flow.Name, _ = flags.GetString("flow")
	}
}
