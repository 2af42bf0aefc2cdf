package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/pausa/internal/adapters/storage"
	"github.com/emiliopalmerini/pausa/internal/domain"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the intention log as JSON lines",
	Long: `Export declared intentions for external analysis, one JSON object per line.

Examples:
  pausa export                                  # Everything to stdout
  pausa export --since 2024-06-01 -o june.jsonl
  pausa export --zstd -o intentions.jsonl.zst   # zstd-compressed`,
	RunE: runExport,
}

// Flags
var (
	exportSince  string
	exportOutput string
	exportZstd   bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only export intentions recorded on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().BoolVar(&exportZstd, "zstd", false, "Compress the output with zstd")
}

func runExport(cmd *cobra.Command, args []string) error {
	since := ""
	if exportSince != "" {
		t, err := parseDate(exportSince)
		if err != nil {
			return err
		}
		since = domain.FormatTimestamp(t)
	}

	ctx := context.Background()

	app, err := NewAppContext(ctx, true)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	logs, err := app.Outcomes.ListIntentionLogs(ctx, since)
	if err != nil {
		return err
	}

	output, err := openOutput(exportOutput)
	if err != nil {
		return err
	}
	defer func() { _ = output.Close() }()

	if err := storage.WriteJSONL(output, logs, exportZstd); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if exportOutput != "" {
		fmt.Fprintf(os.Stderr, "Exported %d intentions to %s\n", len(logs), exportOutput)
	}
	return nil
}
