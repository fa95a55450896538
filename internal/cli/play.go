package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mcoot/dotriacontordle/internal/config"
	"github.com/mcoot/dotriacontordle/internal/factory"
	"github.com/mcoot/dotriacontordle/internal/model"
	"github.com/mcoot/dotriacontordle/internal/tui"
)

// localPlayer owns the games saved by the offline client
const localPlayer model.PlayerID = "local"

func newPlayCmd() *cobra.Command {
	var (
		dbPath   string
		inMemory bool
		logPath  string
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal without a server",
		Long: `Play opens a full-screen game backed by a local SQLite file.
Progress is saved as you type and restored the next time you play.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := os.MkdirAll(DataDir(), 0o700); err != nil {
				return fmt.Errorf("failed to create data dir: %w", err)
			}

			appCfg := config.Default()
			appCfg.Storage.Type = config.StorageSQLite
			appCfg.Storage.SQLitePath = dbPath
			if inMemory {
				appCfg.Storage.Type = config.StorageMemory
			}

			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer logFile.Close()

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{Level: level}))

			app, err := factory.New(ctx, appCfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close(ctx) }()

			controller, err := app.Sessions.ControllerFor(ctx, localPlayer)
			if err != nil {
				return err
			}

			return tui.Run(ctx, controller, controller.Settings(ctx), app.Clock)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", filepath.Join(DataDir(), "play.db"), "SQLite file for saved games")
	cmd.Flags().BoolVar(&inMemory, "memory", false, "Keep games in memory only")
	cmd.Flags().StringVar(&logPath, "log", filepath.Join(DataDir(), "play.log"), "Log file")

	return cmd
}
