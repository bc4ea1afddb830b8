package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/studiowebux/hac/internal/config"
	"github.com/studiowebux/hac/internal/executor"
	"github.com/studiowebux/hac/internal/history"
	"github.com/studiowebux/hac/internal/keybinds"
	"github.com/studiowebux/hac/internal/logging"
	"github.com/studiowebux/hac/internal/tui"
	"github.com/studiowebux/hac/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hac",
	Short: "hac - terminal HTTP client",
	Long: `hac is a terminal HTTP client. Requests are organised in collections,
stored as JSON, JSONC or YAML files in the collections directory.

Examples:
  hac                                  # Start the interactive client
  hac --dry-run                        # Never write to the collections directory
  hac --config-dump                    # Print the effective settings
  hac import-curl -c api "curl ..."    # Add a cURL command to a collection
  hac history --limit 20               # Show recent executions`,
	Version:       version.Current,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		if flagConfigDump {
			return config.Dump(os.Stdout, settings)
		}

		closer, err := logging.Init(config.LogFile, settings.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		defer closer.Close()

		return runTUI(cmd.Context(), settings)
	},
}

// Flags for the root command, shared by subcommands
var (
	flagConfigDir  string
	flagDataDir    string
	flagDryRun     bool
	flagDebug      bool
	flagConfigDump bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "Configuration directory (default $HAC_CONFIG or ~/.config/hac)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.local/share/hac)")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Keep every collection change in memory")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log at debug level")
	rootCmd.Flags().BoolVar(&flagConfigDump, "config-dump", false, "Print the effective settings and exit")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(importCurlCmd)
	rootCmd.AddCommand(importHARCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings resolves directories and reads hac.toml, then applies flags
func loadSettings() (config.Settings, error) {
	if err := config.Initialize(flagConfigDir, flagDataDir); err != nil {
		return config.Settings{}, fmt.Errorf("failed to initialize config: %w", err)
	}

	settings, err := config.Load(config.ConfigFile)
	if err != nil {
		return settings, err
	}
	if flagDryRun {
		settings.DryRun = true
	}
	if flagDebug {
		settings.LogLevel = "debug"
	}
	return settings, nil
}

// runTUI wires history and keybindings then hands the terminal to the client
func runTUI(ctx context.Context, settings config.Settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	keys, err := keybinds.LoadOrDefault(config.KeybindsFile)
	if err != nil {
		return err
	}
	result := keybinds.NewValidator().ValidateRegistry(keys)
	if result.HasErrors() {
		return fmt.Errorf("invalid keybindings in %s:\n%s", config.KeybindsFile, result)
	}
	if result.HasWarnings() {
		log.Warn("keybinding warnings", "file", config.KeybindsFile, "details", result.String())
	}

	dir, err := config.ResolveCollectionsDir(settings)
	if err != nil {
		return err
	}

	var recorder executor.Recorder
	if settings.HistoryEnabled {
		manager, err := history.NewManager(config.DatabasePath)
		if err != nil {
			// history is optional; the client still works without it
			log.Error("history disabled", "err", err)
		} else {
			defer manager.Close()
			recorder = manager
		}
	}

	log.Info("starting", "version", version.Current, "collections", dir, "dry_run", settings.DryRun)
	return tui.Run(ctx, tui.Options{
		Settings:       settings,
		CollectionsDir: dir,
		Keys:           keys,
		Recorder:       recorder,
	})
}

var flagCheckUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version, optionally checking for a newer release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "hac %s\n", version.Current)
		if !flagCheckUpdate {
			return nil
		}

		update, err := version.NewChecker().Check(cmd.Context(), version.Current)
		if err != nil {
			return err
		}
		if update.Available {
			fmt.Fprintf(cmd.OutOrStdout(), "A newer version is available: %s (%s)\n", update.Latest, update.URL)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "You are running the latest version")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "Query the latest published release")
}
