package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/copilot-usage/internal/drift"
)

func newDriftCommand(a *app) *cobra.Command {
	var (
		outputPath string
		modelsPath string
	)

	cmd := &cobra.Command{
		Use:   "drift <extracted.json>",
		Short: "Compare extracted model pricing against the classification table",
		Long: `Reads a JSON list of {displayName, paidMultiplier} entries and writes a
Markdown report of premium models missing from the classification table and
multipliers that disagree with it.

Exit status is 0 when the table is in sync, 1 when discrepancies were found,
and 2 when the check could not run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := drift.LoadEntries(args[0])
			if err != nil {
				return &exitError{code: 2, err: err}
			}
			table, err := a.modelTable(modelsPath)
			if err != nil {
				return &exitError{code: 2, err: err}
			}

			result := drift.Check(entries, table)
			a.logger.Debug("drift check finished",
				zap.Int("checked", result.Checked),
				zap.Int("missing", len(result.Missing)),
				zap.Int("mismatched", len(result.Mismatched)),
			)

			if outputPath != "" {
				err = writeDriftReport(outputPath, result)
			} else {
				err = result.WriteMarkdown(cmd.OutOrStdout())
			}
			if err != nil {
				return &exitError{code: 2, err: fmt.Errorf("writing report: %w", err)}
			}

			if result.HasDiscrepancies() {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the Markdown report to this file instead of stdout")
	cmd.Flags().StringVar(&modelsPath, "models", "", "classification table to check (YAML or JSON, default built-in)")
	return cmd
}

// writeDriftReport writes the Markdown report to path. An error closing the
// file is returned like a write error.
func writeDriftReport(path string, result drift.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return result.WriteMarkdown(f)
}
