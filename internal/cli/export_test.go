package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/pausa/internal/adapters/storage"
	"github.com/emiliopalmerini/pausa/internal/domain"
)

// seedHistory records one dismissed session per day, starting at first.
func seedHistory(t *testing.T, app *AppContext, first time.Time, days int) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < days; i++ {
		at := first.AddDate(0, 0, i)
		o := domain.InterventionOutcome{
			SessionID:   "sess-" + at.Format("0102"),
			Intention:   domain.IntentionBored,
			AppName:     "Instagram",
			AppPackage:  "com.instagram.android",
			OpenCount:   i,
			WaitSeconds: domain.WaitSecondsForCount(i),
			DecidedAt:   at,
		}
		if err := app.Outcomes.RecordOutcome(ctx, o.OutcomeRecord()); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
		log, _ := o.IntentionLog()
		if err := app.Outcomes.RecordIntention(ctx, log); err != nil {
			t.Fatalf("RecordIntention failed: %v", err)
		}
	}
}

func setExport(t *testing.T, since, output string, zstd bool) {
	t.Helper()
	exportSince, exportOutput, exportZstd = since, output, zstd
	t.Cleanup(func() { exportSince, exportOutput, exportZstd = "", "", false })
}

func TestExport_SinceToCompressedFile(t *testing.T) {
	app := testApp(t)
	seedHistory(t, app, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), 5)

	out := filepath.Join(t.TempDir(), "intentions.jsonl.zst")
	setExport(t, "2024-06-03", out, true)

	if err := runExport(nil, nil); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer f.Close()

	logs, err := storage.ReadJSONL(f, true)
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 intentions since June 3rd, got %d", len(logs))
	}
	if logs[0].SessionID != "sess-0603" {
		t.Errorf("expected oldest first, got %s", logs[0].SessionID)
	}
}

func TestExport_Stdout(t *testing.T) {
	app := testApp(t)
	seedHistory(t, app, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), 2)
	setExport(t, "", "", false)

	out, err := captureStdout(t, func() error { return runExport(nil, nil) })
	if err != nil {
		t.Fatalf("runExport failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], `"intention_id":"bored"`) {
		t.Errorf("unexpected line: %s", lines[0])
	}
}

func TestExport_InvalidSince(t *testing.T) {
	testEnv(t)
	setExport(t, "june", "", false)

	if err := runExport(nil, nil); err == nil {
		t.Error("expected error for invalid date")
	}
}

func setPrune(t *testing.T, before string, archive, dryRun bool) {
	t.Helper()
	pruneBefore, pruneArchive, pruneDryRun = before, archive, dryRun
	t.Cleanup(func() { pruneBefore, pruneArchive, pruneDryRun = "", false, false })
}

func countRows(t *testing.T, app *AppContext, table string) int {
	t.Helper()
	var n int
	if err := app.SQL().QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

func TestPrune_DryRunKeepsData(t *testing.T) {
	app := testApp(t)
	seedHistory(t, app, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), 4)
	setPrune(t, "2024-06-03", false, true)

	out, err := captureStdout(t, func() error { return runPrune(nil, nil) })
	if err != nil {
		t.Fatalf("runPrune failed: %v", err)
	}
	if !strings.Contains(out, "Would delete 2") {
		t.Errorf("unexpected output: %q", out)
	}
	if n := countRows(t, app, "intention_logs"); n != 4 {
		t.Errorf("dry run deleted data: %d intentions left", n)
	}
}

func TestPrune_ArchiveThenDelete(t *testing.T) {
	app := testApp(t)
	seedHistory(t, app, time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local), 4)
	setPrune(t, "2024-06-03", true, false)

	out, err := captureStdout(t, func() error { return runPrune(nil, nil) })
	if err != nil {
		t.Fatalf("runPrune failed: %v", err)
	}
	if !strings.Contains(out, "Deleted 4 record(s)") {
		t.Errorf("expected 2 outcomes and 2 intentions deleted, got %q", out)
	}
	if n := countRows(t, app, "intention_logs"); n != 2 {
		t.Errorf("expected 2 intentions left, got %d", n)
	}
	if n := countRows(t, app, "intervention_outcomes"); n != 2 {
		t.Errorf("expected 2 outcomes left, got %d", n)
	}

	archive, err := storage.NewArchiveStorage()
	if err != nil {
		t.Fatalf("NewArchiveStorage failed: %v", err)
	}
	archived, err := archive.Get(context.Background(), "intentions-before-2024-06-03")
	if err != nil {
		t.Fatalf("archive.Get failed: %v", err)
	}
	if len(archived) != 2 {
		t.Errorf("expected 2 archived intentions, got %d", len(archived))
	}
}

func TestPrune_RequiresBefore(t *testing.T) {
	setPrune(t, "", false, false)
	if err := runPrune(nil, nil); err == nil {
		t.Error("expected error without --before")
	}
}
