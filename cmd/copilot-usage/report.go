package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
	"github.com/janekbaraniewski/copilot-usage/internal/metrics"
	"github.com/janekbaraniewski/copilot-usage/internal/report"
)

type reportOptions struct {
	rangeName              string
	removeUnknownLanguages bool
	format                 string
	csvTable               string
	modelsPath             string
	dbPath                 string
	watch                  bool
	noCharts               bool
}

func newReportCommand(a *app) *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:   "report [file.ndjson|-]",
		Short: "Aggregate a usage export and print a summary, JSON bundle or CSV table",
		Long: `Reads newline-delimited Copilot usage records from a file, stdin ("-"), or the
SQLite archive (--db), and renders the aggregated metrics. With no file and no
--db, the configured archive written by "import" is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("range") {
				opts.rangeName = a.cfg.DefaultRange
			} else if _, ok := core.LookupDateFilter(opts.rangeName); !ok {
				return fmt.Errorf("unknown range %q (want %s)", opts.rangeName, rangeNames())
			}
			if !cmd.Flags().Changed("remove-unknown-languages") {
				opts.removeUnknownLanguages = a.cfg.RemoveUnknownLanguages
			}

			source := ""
			if len(args) == 1 {
				source = args[0]
			}
			if source != "" && opts.dbPath != "" {
				return fmt.Errorf("pass either an input file or --db, not both")
			}
			if source == "" && opts.dbPath == "" {
				if _, err := os.Stat(a.cfg.DBPath); a.cfg.DBPath == "" || err != nil {
					return fmt.Errorf("no input: pass a file, \"-\" for stdin, or --db (no archive at %q)", a.cfg.DBPath)
				}
				opts.dbPath = a.cfg.DBPath
			}
			if opts.watch && (source == "" || source == "-") {
				return fmt.Errorf("--watch needs an input file")
			}
			return runReport(cmd.Context(), a, cmd, source, opts)
		},
	}

	cmd.Flags().StringVar(&opts.rangeName, "range", string(core.DateFilterAll), "date range: "+rangeNames())
	cmd.Flags().BoolVar(&opts.removeUnknownLanguages, "remove-unknown-languages", false, "drop blank and unknown languages from language stats")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, json, csv")
	cmd.Flags().StringVar(&opts.csvTable, "csv-table", string(report.TableDaily), "table for --format csv: users, daily, languages, models")
	cmd.Flags().StringVar(&opts.modelsPath, "models", "", "model classification table (YAML or JSON)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "read records from this SQLite archive instead of a file (default: the configured archive)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-render whenever the input file changes")
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "omit ASCII charts from text output")

	return cmd
}

func rangeNames() string {
	names := lo.Map(core.ValidDateFilters, func(f core.DateFilter, _ int) string { return string(f) })
	return strings.Join(names, ", ")
}

func runReport(ctx context.Context, a *app, cmd *cobra.Command, source string, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format := strings.ToLower(strings.TrimSpace(opts.format))
	var table report.Table
	switch format {
	case "text", "json":
	case "csv":
		t, err := report.ParseTable(opts.csvTable)
		if err != nil {
			return err
		}
		table = t
	default:
		return fmt.Errorf("unknown format %q (want text, json or csv)", opts.format)
	}

	models, err := a.modelTable(opts.modelsPath)
	if err != nil {
		return err
	}
	filter := core.ParseDateFilter(opts.rangeName)
	aggOpts := metrics.Options{
		DateFilter:             filter,
		RemoveUnknownLanguages: opts.removeUnknownLanguages,
		Models:                 models,
		PRUPrice:               a.cfg.PRUPrice,
	}

	load := func() ([]core.UsageRecord, error) {
		if opts.dbPath != "" {
			return a.loadArchive(ctx, opts.dbPath)
		}
		res, err := a.parseSource(source, cmd.InOrStdin())
		return res.Records, err
	}

	render := func(w io.Writer) error {
		records, err := load()
		if err != nil {
			return err
		}

		b := metrics.Aggregate(records, aggOpts)
		switch format {
		case "json":
			return report.WriteJSON(w, b)
		case "csv":
			return report.WriteCSV(w, b, table)
		default:
			return report.WriteSummary(w, b, report.SummaryOptions{Filter: filter, Charts: !opts.noCharts})
		}
	}

	out := cmd.OutOrStdout()
	if err := render(out); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchFile(ctx, a.logger, source, func() {
		fmt.Fprintf(out, "\n--- %s changed, refreshed %s ---\n\n", filepath.Base(source), time.Now().Format(time.Kitchen))
		if err := render(out); err != nil {
			a.logger.Error("re-render failed", zap.Error(err))
		}
	})
}

// watchFile calls onChange, debounced, after each write to path until ctx ends.
// The parent directory is watched so editors that replace the file still
// trigger a refresh.
func watchFile(ctx context.Context, logger *zap.Logger, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	logger.Debug("watching input", zap.String("path", path))

	const debounceInterval = 200 * time.Millisecond
	var debounce *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceInterval, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		}
	}
}
