package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"domovoice/config"
	"domovoice/internal/infra/domoticz"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "domovoice",
	Short: "Voice commands for a Domoticz server",
	Long: `domovoice turns spoken or typed commands into Domoticz actions.

Examples:
  domovoice serve
  domovoice say "turn on the kitchen light"
  domovoice list scenes`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(serveCmd, sayCmd, validCmd, listCmd, logCmd, sunCmd, roomCmd, sceneCmd)
}

// session is what every subcommand needs: the loaded config, a logger and a
// Domoticz client reading credentials from the config file.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	client *domoticz.Client
}

// newSession loads the config. Subcommands that print results log to stderr
// so stdout carries only the answer.
func newSession(logOut io.Writer) (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:    cfg,
		logger: setupLogger(cfg.Log, logOut),
		client: domoticz.NewClient(cfg, cfg.DomoticzTimeout()),
	}, nil
}

func setupLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func stderrSession() (*session, error) {
	return newSession(os.Stderr)
}
