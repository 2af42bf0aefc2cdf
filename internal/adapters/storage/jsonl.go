package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// ExportRecord is one intention log line in an export.
type ExportRecord struct {
	SessionID   string `json:"session_id"`
	IntentionID string `json:"intention_id"`
	Proceeded   bool   `json:"proceeded"`
	CustomText  string `json:"custom_text,omitempty"`
	AppPackage  string `json:"app_package,omitempty"`
	RecordedAt  string `json:"recorded_at"`
}

func toRecord(l domain.IntentionLog) ExportRecord {
	return ExportRecord{
		SessionID:   l.SessionID,
		IntentionID: string(l.IntentionID),
		Proceeded:   l.Proceeded,
		CustomText:  l.CustomText,
		AppPackage:  l.AppPackage,
		RecordedAt:  l.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func (r ExportRecord) toLog() (domain.IntentionLog, error) {
	id, ok := domain.ParseIntentionID(r.IntentionID)
	if !ok {
		return domain.IntentionLog{}, fmt.Errorf("unknown intention %q", r.IntentionID)
	}
	l := domain.IntentionLog{
		SessionID:   r.SessionID,
		IntentionID: id,
		Proceeded:   r.Proceeded,
		CustomText:  r.CustomText,
		AppPackage:  r.AppPackage,
	}
	if t, ok := domain.ParseTimestamp(r.RecordedAt); ok {
		l.RecordedAt = t
	}
	return l, nil
}

// WriteJSONL writes one JSON object per log. With compress set the stream is
// zstd-compressed.
func WriteJSONL(w io.Writer, logs []domain.IntentionLog, compress bool) error {
	if !compress {
		return encodeAll(w, logs)
	}

	encoder, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}
	if err := encodeAll(encoder, logs); err != nil {
		encoder.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}
	return nil
}

func encodeAll(w io.Writer, logs []domain.IntentionLog) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, l := range logs {
		if err := enc.Encode(toRecord(l)); err != nil {
			return fmt.Errorf("encode %s: %w", l.SessionID, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL reads logs written by WriteJSONL.
func ReadJSONL(r io.Reader, compressed bool) ([]domain.IntentionLog, error) {
	if compressed {
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		defer decoder.Close()
		r = decoder
	}

	var logs []domain.IntentionLog
	dec := json.NewDecoder(r)
	for {
		var rec ExportRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode line %d: %w", len(logs)+1, err)
		}
		l, err := rec.toLog()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", len(logs)+1, err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
