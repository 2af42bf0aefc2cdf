package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/adapters/storage"
	"github.com/emiliopalmerini/pausa/internal/domain"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old outcomes and intentions",
	Long: `Delete outcomes and intention logs recorded before a date. The daily
counter is not touched.

With --archive, the intentions about to be deleted are first saved as a
zstd-compressed JSONL file in the data directory.

Examples:
  pausa prune --before 2024-01-01              # Delete everything before 2024
  pausa prune --before 2024-01-01 --archive    # Archive, then delete
  pausa prune --before 2024-01-01 --dry-run    # Preview what would be deleted`,
	RunE: runPrune,
}

// Flags
var (
	pruneBefore  string
	pruneArchive bool
	pruneDryRun  bool
)

func init() {
	rootCmd.AddCommand(pruneCmd)

	pruneCmd.Flags().StringVar(&pruneBefore, "before", "", "Delete records before date (YYYY-MM-DD)")
	pruneCmd.Flags().BoolVar(&pruneArchive, "archive", false, "Archive intentions before deleting them")
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "Preview what would be deleted")
}

func runPrune(cmd *cobra.Command, args []string) error {
	if pruneBefore == "" {
		return fmt.Errorf("--before is required")
	}
	beforeDate, err := parseDate(pruneBefore)
	if err != nil {
		return err
	}
	before := domain.FormatTimestamp(beforeDate)

	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() {
		app.Sync()
		_ = app.Close()
	}()

	all, err := app.Outcomes.ListIntentionLogs(ctx, "")
	if err != nil {
		return err
	}
	var old []domain.IntentionLog
	for _, l := range all {
		if l.RecordedAt.Before(beforeDate) {
			old = append(old, l)
		}
	}

	if pruneDryRun {
		fmt.Printf("Would delete %d intention(s) and their outcomes before %s\n", len(old), pruneBefore)
		return nil
	}

	if pruneArchive && len(old) > 0 {
		archive, err := storage.NewArchiveStorage()
		if err != nil {
			return fmt.Errorf("failed to initialize archive storage: %w", err)
		}
		path, err := archive.Store(ctx, "intentions-before-"+pruneBefore, old)
		if err != nil {
			return fmt.Errorf("failed to archive intentions: %w", err)
		}
		fmt.Printf("Archived %d intention(s) to %s\n", len(old), path)
	}

	deleted, err := app.Outcomes.DeleteBefore(ctx, before)
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %d record(s)\n", deleted)
	return nil
}
