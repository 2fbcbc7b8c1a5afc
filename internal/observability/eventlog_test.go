package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndReadBack(t *testing.T) {
	log, _ := newTestLog(t)

	events := []Event{
		{Time: time.Now().UTC(), Type: "auth.login", Message: "session established"},
		{Time: time.Now().UTC(), Type: "task.created", Message: "Fix the bug", Data: map[string]any{"task_id": "t1"}},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("read %d events, want 2", len(got))
	}
	if got[0].Type != "auth.login" || got[1].Type != "task.created" {
		t.Errorf("events out of order: %+v", got)
	}
	if got[1].Data["task_id"] != "t1" {
		t.Errorf("event data not preserved: %+v", got[1].Data)
	}
}

func TestEventLog_FilterByTypeAndTime(t *testing.T) {
	log, _ := newTestLog(t)

	old := time.Now().UTC().Add(-48 * time.Hour)
	recent := time.Now().UTC()
	_ = log.Write(Event{Time: old, Type: "auth.login"})
	_ = log.Write(Event{Time: recent, Type: "auth.login"})
	_ = log.Write(Event{Time: recent, Type: "task.created"})

	since := time.Now().UTC().Add(-time.Hour)
	got, err := log.Read(EventFilter{Since: &since, Type: "auth.login"})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("read %d events, want 1 recent login", len(got))
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := newTestLog(t)

	_ = log.Write(Event{Time: time.Now().UTC(), Type: "auth.login"})

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening log for corruption: %v", err)
	}
	if _, err := f.WriteString("not json at all\n"); err != nil {
		t.Fatalf("writing garbage: %v", err)
	}
	_ = f.Close()

	_ = log.Write(Event{Time: time.Now().UTC(), Type: "auth.logout"})

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d events, want 2 valid ones around the garbage line", len(got))
	}
}

func TestEventLog_ReadMissingFileReturnsEmpty(t *testing.T) {
	l := &jsonlEventLog{path: filepath.Join(t.TempDir(), "never-written.jsonl")}

	got, err := l.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("read %d events from missing file", len(got))
	}
}

func TestEmit_NilLogIsNoOp(t *testing.T) {
	// Must not panic.
	Emit(nil, "auth.login", "ignored", nil)
}
