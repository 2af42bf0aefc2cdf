package turso_test

import (
	"context"
	"testing"
	"time"

	"github.com/emiliopalmerini/pausa/internal/adapters/turso"
	"github.com/emiliopalmerini/pausa/internal/domain"
)

var day = time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

func TestOutcomeRepository_RecordAndList(t *testing.T) {
	db := testDB(t)
	repo := turso.NewOutcomeRepository(db)
	ctx := context.Background()

	logs := []domain.IntentionLog{
		{SessionID: "s1", IntentionID: domain.IntentionBored, AppPackage: "com.instagram.android", RecordedAt: day.Add(9 * time.Hour)},
		{SessionID: "s2", IntentionID: domain.IntentionOther, CustomText: "check the recipe", Proceeded: true, RecordedAt: day.Add(10 * time.Hour)},
		{SessionID: "s0", IntentionID: domain.IntentionNoReason, RecordedAt: day.Add(-2 * time.Hour)},
	}
	for _, l := range logs {
		if err := repo.RecordIntention(ctx, l); err != nil {
			t.Fatalf("RecordIntention(%s): %v", l.SessionID, err)
		}
	}

	got, err := repo.ListIntentionLogs(ctx, domain.FormatTimestamp(day))
	if err != nil {
		t.Fatalf("ListIntentionLogs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d logs, want 2", len(got))
	}
	if got[0].SessionID != "s1" || got[1].SessionID != "s2" {
		t.Errorf("order = %s, %s", got[0].SessionID, got[1].SessionID)
	}
	if got[0].AppPackage != "com.instagram.android" || got[0].Proceeded {
		t.Errorf("first log = %+v", got[0])
	}
	if got[1].CustomText != "check the recipe" || !got[1].Proceeded {
		t.Errorf("second log = %+v", got[1])
	}
	if !got[1].RecordedAt.Equal(day.Add(10 * time.Hour)) {
		t.Errorf("RecordedAt = %v", got[1].RecordedAt)
	}

	all, err := repo.ListIntentionLogs(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("got %d logs with no lower bound, want 3", len(all))
	}
}

func TestOutcomeRepository_DuplicateOutcome(t *testing.T) {
	db := testDB(t)
	repo := turso.NewOutcomeRepository(db)
	ctx := context.Background()

	rec := domain.OutcomeRecord{SessionID: "s1", Proceeded: true, RecordedAt: day}
	if err := repo.RecordOutcome(ctx, rec); err != nil {
		t.Fatalf("RecordOutcome: %v", err)
	}
	if err := repo.RecordOutcome(ctx, rec); err == nil {
		t.Error("expected error recording the same session twice")
	}
}

func TestOutcomeRepository_DeleteBefore(t *testing.T) {
	db := testDB(t)
	repo := turso.NewOutcomeRepository(db)
	ctx := context.Background()

	old := day.Add(-48 * time.Hour)
	if err := repo.RecordOutcome(ctx, domain.OutcomeRecord{SessionID: "old", RecordedAt: old}); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordIntention(ctx, domain.IntentionLog{SessionID: "old", IntentionID: domain.IntentionBored, RecordedAt: old}); err != nil {
		t.Fatal(err)
	}
	if err := repo.RecordOutcome(ctx, domain.OutcomeRecord{SessionID: "new", RecordedAt: day}); err != nil {
		t.Fatal(err)
	}

	n, err := repo.DeleteBefore(ctx, domain.FormatTimestamp(day.Add(-time.Hour)))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d rows, want 2", n)
	}

	var remaining int
	if err := db.QueryRow(`SELECT COUNT(*) FROM intervention_outcomes`).Scan(&remaining); err != nil {
		t.Fatal(err)
	}
	if remaining != 1 {
		t.Errorf("remaining outcomes = %d, want 1", remaining)
	}
}
