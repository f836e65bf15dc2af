package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/janekbaraniewski/copilot-usage/internal/core"
	"github.com/janekbaraniewski/copilot-usage/internal/parsers"
	"github.com/janekbaraniewski/copilot-usage/internal/store"
)

// parseSource parses an NDJSON export from path, or from stdin when path is "-".
func (a *app) parseSource(path string, stdin io.Reader) (parsers.ParseResult, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return parsers.ParseResult{}, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	res, err := parsers.ParseRecords(r)
	if err != nil {
		return res, fmt.Errorf("reading %s: %w", path, err)
	}
	for _, d := range res.Diagnostics {
		a.logger.Warn("skipped malformed line",
			zap.String("source", path),
			zap.Int("line", d.Line),
			zap.String("reason", d.Reason),
		)
	}
	a.logger.Debug("parsed usage export",
		zap.String("source", path),
		zap.Int("lines", res.Lines),
		zap.Int("records", len(res.Records)),
		zap.Int("skipped", len(res.Diagnostics)),
	)
	return res, nil
}

func (a *app) loadArchive(ctx context.Context, dbPath string) ([]core.UsageRecord, error) {
	s, err := store.OpenStore(dbPath)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	records, err := s.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded archive", zap.String("db", dbPath), zap.Int("records", len(records)))
	return records, nil
}

func (a *app) modelTable(override string) (*core.ModelTable, error) {
	cfg := a.cfg
	if override != "" {
		cfg.ModelsPath = override
	}
	return cfg.ModelTable()
}
