// Package commands implements the walletdash command line.
package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"walletdash/internal/config"
	"walletdash/internal/log"
	"walletdash/internal/services/dataloader"
	"walletdash/internal/services/donut"
	"walletdash/internal/services/storage"
	"walletdash/internal/services/view"
	"walletdash/internal/version"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	dataDir    string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:     "walletdash",
		Short:   "Personal finance dashboard renderer",
		Version: version.Get().Short(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default walletdash.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data", "", "data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log loading details")

	rootCmd.AddCommand(
		newChartCommand(&flags),
		newSummaryCommand(&flags),
		newListCommand(&flags),
		newValidateCommand(),
	)

	return rootCmd
}

// session is the loaded configuration and dashboard for one command run
type session struct {
	cfg  *config.Config
	dash *view.Dashboard
}

// openSession loads configuration and the dataset. Data problems are
// reported on stderr and the dashboard falls back to sample data.
func openSession(cmd *cobra.Command, flags *globalFlags, chart donut.Options) (*session, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDirectory = flags.dataDir
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level, Component: "cli", Output: cmd.ErrOrStderr()})

	store, err := storage.New(cfg.DataDirectory)
	if err != nil {
		logger.Warn("Data directory unavailable, using sample data", "error", err)
		store = nil
	} else if store.IsEncrypted() {
		pass, err := storage.Passphrase(cfg.Passphrase, os.Stdin, cmd.ErrOrStderr())
		if err != nil {
			return nil, err
		}
		if err := store.Unlock(pass); err != nil {
			return nil, err
		}
	}

	loader := dataloader.New(store, logger)
	if err := loader.Load(); err != nil {
		logger.Warn("Dataset not loaded, using sample data", "error", err)
	}

	if chart.LineWidth <= 0 {
		chart.LineWidth = cfg.Chart.LineWidth
	}
	if chart.PixelRatio <= 0 {
		chart.PixelRatio = cfg.Chart.PixelRatio
	}
	chart.PixelRatio = donut.ClampPixelRatio(chart.PixelRatio)

	return &session{
		cfg:  cfg,
		dash: view.New(loader, chart, logger).WithRecentLimit(cfg.RecentLimit),
	}, nil
}
