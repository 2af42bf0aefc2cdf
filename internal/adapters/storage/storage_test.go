package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

var sampleLogs = []domain.IntentionLog{
	{SessionID: "s1", IntentionID: domain.IntentionBored, AppPackage: "com.tiktok", RecordedAt: time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)},
	{SessionID: "s2", IntentionID: domain.IntentionOther, CustomText: "grocery list", Proceeded: true, RecordedAt: time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC)},
}

func TestWriteJSONL_Plain(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, sampleLogs, false); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	want := `{"session_id":"s1","intention_id":"bored","proceeded":false,"app_package":"com.tiktok","recorded_at":"2024-06-10T09:00:00Z"}`
	if lines[0] != want {
		t.Errorf("line 0:\ngot:  %s\nwant: %s", lines[0], want)
	}
	if !strings.Contains(lines[1], `"custom_text":"grocery list"`) {
		t.Errorf("line 1 missing custom text: %s", lines[1])
	}
}

func TestWriteJSONL_CompressedRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSONL(&buf, sampleLogs, true); err != nil {
		t.Fatalf("WriteJSONL: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("grocery")) {
		t.Error("compressed output contains plain text")
	}

	got, err := ReadJSONL(&buf, true)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(got) != len(sampleLogs) {
		t.Fatalf("got %d logs, want %d", len(got), len(sampleLogs))
	}
	for i := range got {
		g, w := got[i], sampleLogs[i]
		if !g.RecordedAt.Equal(w.RecordedAt) {
			t.Errorf("log %d: RecordedAt = %v, want %v", i, g.RecordedAt, w.RecordedAt)
		}
		g.RecordedAt, w.RecordedAt = time.Time{}, time.Time{}
		if g != w {
			t.Errorf("log %d: got %+v, want %+v", i, g, w)
		}
	}
}

func TestReadJSONL_BadLine(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"session_id\":\"s1\",\"intention_id\":\"bored\"}\nnot json\n"), false)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("err = %v, want decode error on line 2", err)
	}
}

func TestReadJSONL_UnknownIntention(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown id", `{"session_id":"s1","intention_id":"doomscroll"}`},
		{"missing id", `{"session_id":"s1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSONL(strings.NewReader(tt.input+"\n"), false)
			if err == nil || !strings.Contains(err.Error(), "unknown intention") {
				t.Errorf("err = %v, want unknown intention error", err)
			}
		})
	}
}

func TestArchiveStorage(t *testing.T) {
	s, err := NewArchiveStorageAt(t.TempDir())
	if err != nil {
		t.Fatalf("NewArchiveStorageAt: %v", err)
	}
	ctx := context.Background()

	exists, err := s.Exists(ctx, "2024-06")
	if err != nil || exists {
		t.Fatalf("Exists before store = %v, %v", exists, err)
	}

	path, err := s.Store(ctx, "2024-06", sampleLogs)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !strings.HasSuffix(path, "2024-06.jsonl.zst") {
		t.Errorf("path = %s", path)
	}

	got, err := s.Get(ctx, "2024-06")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 2 || got[1].CustomText != "grocery list" {
		t.Errorf("got %+v", got)
	}

	if err := s.Delete(ctx, "2024-06"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "2024-06"); err != nil {
		t.Errorf("Delete of missing archive should not error: %v", err)
	}
	if exists, _ := s.Exists(ctx, "2024-06"); exists {
		t.Error("archive still exists after delete")
	}
}
