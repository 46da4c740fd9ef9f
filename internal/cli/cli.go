package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paddocknews/f1news/internal/config"
	"github.com/paddocknews/f1news/internal/logger"
	"github.com/paddocknews/f1news/internal/notifier"
	"github.com/paddocknews/f1news/internal/pipeline"
	"github.com/paddocknews/f1news/internal/scraper"
	"github.com/paddocknews/f1news/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var version = "dev"

var (
	flagConfig  string
	flagDataDir string
	flagFormat  string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "f1news",
		Short: "Check BBC Sport for new Formula 1 stories",
		Long: `A CLI tool to check the BBC Sport Formula 1 page for new stories.
Keeps the latest listing in a CSV archive and emails the stories that were not
there on the previous run.`,
		SilenceUsage: true,
		RunE:         runCheck,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config file (or env: F1NEWS_CONFIG)")
	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for the archive (default $XDG_DATA_HOME/f1news)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print the email instead of sending it")

	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads configuration and configures the default logger
func setup() (config.Config, OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return config.Config{}, "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		cfg.Archive.DataDir = flagDataDir
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, format, nil
}

// newRunner wires the pipeline collaborators from the configuration
func newRunner(cfg config.Config, dryRun bool, out io.Writer) (*pipeline.Runner, error) {
	archive, err := storage.New(cfg.Archive.DataDir, cfg.Archive.File)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	var n notifier.Notifier
	if dryRun {
		n = notifier.NewDryRunNotifier(out)
	} else {
		if !cfg.Mail.Configured() {
			logger.Warn("Mail credentials not configured, new stories will not be emailed", nil)
		}
		n = notifier.NewEmailNotifier(cfg.Mail)
	}

	return pipeline.New(pipeline.Deps{
		Fetcher:  scraper.New(cfg.Source),
		Archive:  archive,
		Notifier: n,
		Logger:   logger.Default(),
	}), nil
}

// dryRunWriter is where dry-run emails go. JSON output keeps stdout to the
// result document alone.
func dryRunWriter(cmd *cobra.Command, format OutputFormat) io.Writer {
	if format == FormatJSON {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, format, err := setup()
	if err != nil {
		return err
	}

	logger.Info("Checking for new stories", logger.Fields{
		"url":     cfg.Source.URL,
		"archive": cfg.Archive.Path(),
	})

	runner, err := newRunner(cfg, flagDryRun, dryRunWriter(cmd, format))
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := WriteOutput(cmd.OutOrStdout(), NewOutputResult(result), format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "f1news %s\n", version)
		},
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
