package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bestfit/cmd/bestfit/tui"
	"bestfit/cmd/bestfit/ui"
	"bestfit/internal/config"
	"bestfit/internal/logging"
	"bestfit/internal/recommend"
	"bestfit/internal/usage"
	"bestfit/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg     *config.Config
	logger  *zap.Logger
	tracker *usage.Tracker
)

// errExit ends the process with status 1 after the command has already
// reported the problem itself.
var errExit = errors.New("exit")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bestfit",
	Short: "BEST FIT - AI gear recommendations tailored to your biomechanics",
	Long: `BEST FIT recommends footwear and gear from your body, feet, activities and
priorities.

Run without arguments to start the interactive five-step wizard. Use
"bestfit session" for the linear consultation with three price tiers, or
"bestfit serve" to expose the wizard over HTTP.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadRuntime,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tracker != nil {
			if err := tracker.Save(); err != nil {
				logging.BootWarn("failed to save usage: %v", err)
			}
		}
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runWizard,
}

// wizardCmd is the explicit name for the default interactive mode
var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Start the interactive five-step wizard",
	Args:  cobra.NoArgs,
	RunE:  runWizard,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// loadRuntime loads configuration and sets up both loggers.
func loadRuntime(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c

	if err := logging.Initialize(logging.Options{
		DebugMode:  cfg.Logging.DebugMode || verbose,
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		Categories: cfg.Logging.Categories,
	}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logging.Boot("config loaded from %s (provider=%s)", configPath, cfg.LLM.Provider)

	tracker, err = usage.NewTracker(cfg.Usage.File)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(usage.NewContext(ctx, tracker))
	logging.BootDebug("usage tracker file=%q", cfg.Usage.File)

	// The interactive wizard owns the terminal; it only gets the file logger.
	if isInteractive(cmd) {
		logger = zap.NewNop()
		return nil
	}

	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err = zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func isInteractive(cmd *cobra.Command) bool {
	return cmd == rootCmd || cmd == wizardCmd
}

// newService builds the recommendation service. The wizard reloads the
// config on every fetch so a key added mid-session is picked up.
func newService(clients recommend.ClientSource) *recommend.Service {
	return recommend.NewService(clients, cfg.Wizard, cfg.Session)
}

// runWizard launches the Bubble Tea wizard.
func runWizard(cmd *cobra.Command, args []string) error {
	ctl := wizard.New(newService(recommend.ConfigClient(configPath)))
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	p := tea.NewProgram(tui.New(cmd.Context(), ctl, styles), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard exited: %w", err)
	}
	return nil
}
