package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"sortviz/internal/config"
	"sortviz/internal/coordinator"
	"sortviz/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Logger for non-interactive commands
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sortviz",
	Short: "sortviz - animated sorting in the terminal",
	Long: `sortviz animates shell, insertion, bubble and quick sort over a row of bars.

Every comparison and write is highlighted and paced so you can follow it.
Only one sort runs at a time; randomize is refused while a sort is running.

Run without arguments to start the interactive view.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive view owns the terminal
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVisualizer()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .sortviz/config.yaml)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(kindsCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// loadConfig loads, validates and applies the logging section.
func loadConfig() (*config.Config, error) {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if err := logging.Initialize(config.LogsDir(path), cfg.Logging.Options()); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("config loaded from %s", path)
	if logging.IsDebugMode() {
		logger.Debug("file logging enabled", zap.String("dir", config.LogsDir(path)))
	}
	return cfg, nil
}

// offerLatest hands c to the view. A config still waiting in ch is stale and
// gets replaced. ch must have a buffer of one and a single sender.
func offerLatest(ch chan *config.Config, c *config.Config) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case stale := <-ch:
			logging.ConfigDebug("dropping superseded reload (count=%d)", stale.Sequence.Count)
		default:
		}
	}
}

func timingFrom(cfg *config.Config) coordinator.Timing {
	return coordinator.Timing{
		StepDelay: cfg.GetStepDelay(),
		SwapDelay: cfg.GetSwapDelay(),
		Speed:     cfg.GetSpeed(),
	}
}

// runVisualizer starts the interactive bar view
func runVisualizer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	coord, err := newCoordinator(cfg, nil, 0)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Hot reload is best effort
	reloads := make(chan *config.Config, 1)
	watcher, err := config.NewWatcher(resolveConfigPath(), func(c *config.Config) {
		offerLatest(reloads, c)
	})
	if err == nil {
		logging.BootDebug("watching %s", resolveConfigPath())
		if err := watcher.Start(ctx); err != nil {
			logging.BootError("config watcher not started: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	m := newModel(ctx, cancel, coord, cfg, reloads)
	p := tea.NewProgram(m, tea.WithAltScreen())

	logging.Boot("starting interactive view")
	_, err = p.Run()
	return err
}
