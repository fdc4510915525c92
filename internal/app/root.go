package app

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/bouquinsctl/internal/catalog"
	"github.com/blackwell-systems/bouquinsctl/internal/config"
	"github.com/blackwell-systems/bouquinsctl/internal/logging"
	"github.com/blackwell-systems/bouquinsctl/internal/transport"
	"github.com/blackwell-systems/bouquinsctl/internal/tui"
)

var (
	cfg       *config.Config
	log       *logrus.Logger
	logCloser io.Closer
	client    *transport.Client
	registry  *prometheus.Registry

	flagNoColor       bool
	flagNoInteractive bool
	flagConfig        string
	flagLogLevel      string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bouquinsctl",
		Short: "Browse and search a bouquins book catalog",
		Long: `bouquinsctl talks to a bouquins server and lists, sorts, pages
through and searches its books, authors and series.

Run 'bouquinsctl' with no arguments to launch the interactive browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: browse when attached to a terminal
			if tui.ShouldUseTUI(cmd) {
				return runBrowser(catalog.Books, "", "")
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flagNoInteractive, "no-interactive", false, "Disable interactive TUI mode")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/bouquinsctl/config.yml)")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		tui.InitColor(flagNoColor)

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			// Let config init replace a broken file.
			if cmd.Name() != "init" || cmd.Parent() == nil || cmd.Parent().Name() != "config" {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = config.Default()
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}

		// The TUI owns the screen; log only to a file there.
		interactive := cmd.Name() == "browse" || (cmd == cmd.Root() && tui.ShouldUseTUI(cmd))
		log, logCloser, err = logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			File:   cfg.Log.File,
			Quiet:  interactive,
		})
		if err != nil {
			return err
		}

		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		client = transport.New(cfg.Server.BaseURL,
			transport.WithTimeout(cfg.Server.Timeout),
			transport.WithRateLimit(cfg.Server.RateLimit, cfg.Server.Burst),
			transport.WithMetrics(transport.NewMetrics(registry)),
			transport.WithLogger(log),
		)
		log.WithField("server", client.BaseURL()).Debug("client ready")
		return nil
	}

	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	}

	root.AddCommand(
		newListCmd(),
		newSearchCmd(),
		newBrowseCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}
