package cli

import (
	"testing"
	"time"
)

func TestParseDeadline(t *testing.T) {
	got, err := parseDeadline("")
	if err != nil || got != nil {
		t.Errorf("empty deadline: got %v, %v", got, err)
	}

	got, err = parseDeadline("2026-09-30")
	if err != nil {
		t.Fatalf("date form failed: %v", err)
	}
	want := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed %v, want %v", got, want)
	}

	got, err = parseDeadline("2026-09-30T18:30:00Z")
	if err != nil {
		t.Fatalf("RFC 3339 form failed: %v", err)
	}
	if got.Hour() != 18 {
		t.Errorf("parsed %v, want time preserved", got)
	}

	if _, err := parseDeadline("next tuesday"); err == nil {
		t.Error("expected error for unparseable deadline")
	}
}

func TestFormatDeadline(t *testing.T) {
	if got := formatDeadline(nil); got != "-" {
		t.Errorf("nil deadline = %q, want dash", got)
	}
	d := time.Date(2026, 9, 30, 18, 30, 0, 0, time.UTC)
	if got := formatDeadline(&d); got != "2026-09-30" {
		t.Errorf("deadline = %q", got)
	}
}
