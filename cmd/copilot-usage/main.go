package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/copilot-usage/internal/config"
	"github.com/janekbaraniewski/copilot-usage/internal/logging"
)

// app carries what every subcommand shares once the root has initialized.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	newLogger func(verbose bool) (*zap.Logger, error)
	verbose   bool
}

func newApp() *app {
	return &app{logger: zap.NewNop(), newLogger: logging.New}
}

// exitError carries a process exit status. A nil err exits silently.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func main() {
	a := newApp()
	cmd, err := execute(a, newRootCommand(a))
	if err == nil {
		return
	}

	code := 1
	if cmd != nil && cmd.Name() == "drift" {
		code = 2
	}
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
		if ee.err == nil {
			os.Exit(code)
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(code)
}

// execute runs root and flushes the logger whether or not the command failed.
func execute(a *app, root *cobra.Command) (*cobra.Command, error) {
	cmd, err := root.ExecuteC()
	_ = a.logger.Sync()
	return cmd, err
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "copilot-usage",
		Short:         "Aggregate GitHub Copilot usage exports into adoption, model and cost reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, err := a.newLogger(a.verbose)
			if err != nil {
				return err
			}
			a.logger = logger

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config %s: %w", config.ConfigPath(), err)
			}
			a.cfg = cfg
			a.logger.Debug("config loaded",
				zap.String("path", config.ConfigPath()),
				zap.String("range", cfg.DefaultRange),
				zap.Float64("pru_price", cfg.PRUPrice),
			)
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging on stderr")

	root.AddCommand(newReportCommand(a))
	root.AddCommand(newImportCommand(a))
	root.AddCommand(newDriftCommand(a))
	root.AddCommand(newVersionCommand())

	return root
}
