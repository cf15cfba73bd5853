package main

import (
	"log/slog"
	"os"
	"strings"

	"restaurant/internal/config"

	"github.com/spf13/cobra"
)

var (
	envFile string
	python  string

	rootCmd = &cobra.Command{
		Use:           "api",
		Short:         "Restaurant ordering API with association-rule analysis",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  runServe,
	}

	depsCmd = &cobra.Command{
		Use:   "deps",
		Short: "Manage the analysis engine's Python dependencies",
	}
	depsCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "Probe whether pandas and mlxtend can be imported",
		RunE:  runDepsCheck,
	}
	depsInstallCmd = &cobra.Command{
		Use:   "install",
		Short: "Install pandas and mlxtend with pip (user, global, then pip3)",
		RunE:  runDepsInstall,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment (missing file is ignored)")

	rootCmd.AddCommand(serveCmd)

	depsInstallCmd.Flags().StringVar(&python, "python", "", "python interpreter used for pip (defaults to ENGINE_PROBE_COMMAND)")
	depsCmd.AddCommand(depsCheckCmd)
	depsCmd.AddCommand(depsInstallCmd)
	rootCmd.AddCommand(depsCmd)
}

// 設定とロガー（JSON、レベルはLOG_LEVEL）
func setup() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(level string) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv}))
}
