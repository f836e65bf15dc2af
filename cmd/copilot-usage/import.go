package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/janekbaraniewski/copilot-usage/internal/store"
)

func newImportCommand(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <file.ndjson|->",
		Short: "Archive a usage export in the local SQLite database",
		Long: `Parses an export and upserts its records keyed by (day, user_id), so
overlapping exports can be imported repeatedly without double counting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = a.cfg.DBPath
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			res, err := a.parseSource(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			s, err := store.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()

			up, err := s.Upsert(ctx, res.Records)
			if err != nil {
				return err
			}
			a.logger.Info("import finished",
				zap.String("db", dbPath),
				zap.Int("inserted", up.Inserted),
				zap.Int("updated", up.Updated),
				zap.Int("unchanged", up.Unchanged),
			)

			stats, err := s.Stats(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "imported %d records into %s: %d inserted, %d updated, %d unchanged",
				len(res.Records), dbPath, up.Inserted, up.Updated, up.Unchanged)
			if n := len(res.Diagnostics); n > 0 {
				fmt.Fprintf(out, " (%d malformed lines skipped)", n)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "archive holds %d records for %d users", stats.Records, stats.Users)
			if stats.FirstDay != "" {
				fmt.Fprintf(out, " from %s to %s", stats.FirstDay, stats.LastDay)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite archive path (default from config)")
	return cmd
}
