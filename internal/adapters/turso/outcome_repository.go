package turso

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/emiliopalmerini/pausa/internal/domain"
	"github.com/emiliopalmerini/pausa/internal/util"
)

type OutcomeRepository struct {
	db *sql.DB
}

func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

func (r *OutcomeRepository) RecordOutcome(ctx context.Context, rec domain.OutcomeRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO intervention_outcomes (
			session_id, proceeded, intention_id, app_name, app_package,
			open_count, wait_seconds, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.SessionID,
		util.BoolToInt64(rec.Proceeded),
		util.NullString(string(rec.IntentionID)),
		util.NullString(rec.AppName),
		util.NullString(rec.AppPackage),
		rec.OpenCount,
		rec.WaitSeconds,
		domain.FormatTimestamp(rec.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome %s: %w", rec.SessionID, err)
	}
	return nil
}

func (r *OutcomeRepository) RecordIntention(ctx context.Context, log domain.IntentionLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO intention_logs (
			session_id, intention_id, proceeded, custom_text, app_package, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		log.SessionID,
		string(log.IntentionID),
		util.BoolToInt64(log.Proceeded),
		util.NullString(log.CustomText),
		util.NullString(log.AppPackage),
		domain.FormatTimestamp(log.RecordedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to record intention for %s: %w", log.SessionID, err)
	}
	return nil
}

// ListIntentionLogs returns intention logs recorded at or after since, oldest
// first. An empty since lists everything.
func (r *OutcomeRepository) ListIntentionLogs(ctx context.Context, since string) ([]domain.IntentionLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT session_id, intention_id, proceeded, custom_text, app_package, recorded_at
		FROM intention_logs
		WHERE recorded_at >= ?
		ORDER BY recorded_at, id
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list intention logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.IntentionLog
	for rows.Next() {
		var (
			log        domain.IntentionLog
			intention  string
			proceeded  int64
			customText sql.NullString
			appPackage sql.NullString
			recordedAt string
		)
		if err := rows.Scan(&log.SessionID, &intention, &proceeded, &customText, &appPackage, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan intention log: %w", err)
		}
		log.IntentionID = domain.IntentionID(intention)
		log.Proceeded = proceeded != 0
		log.CustomText = customText.String
		log.AppPackage = appPackage.String
		if t, ok := domain.ParseTimestamp(recordedAt); ok {
			log.RecordedAt = t
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list intention logs: %w", err)
	}
	return logs, nil
}

// DeleteBefore removes outcomes and intention logs recorded before the given
// timestamp and returns how many rows went.
func (r *OutcomeRepository) DeleteBefore(ctx context.Context, before string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var total int64
	for _, table := range []string{"intention_logs", "intervention_outcomes"} {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE recorded_at < ?`, before)
		if err != nil {
			return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit cleanup: %w", err)
	}
	return total, nil
}
