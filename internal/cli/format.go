package cli

import (
	"fmt"
	"time"
)

// parseDeadline parses a --deadline flag value. Empty means no deadline.
// Accepts a date or a full RFC 3339 timestamp; bare dates become midnight UTC.
func parseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("parsing deadline %q: expected YYYY-MM-DD or RFC 3339", value)
	}
	return &t, nil
}

// formatDeadline renders a deadline for table output.
func formatDeadline(deadline *time.Time) string {
	if deadline == nil {
		return "-"
	}
	return deadline.Format("2006-01-02")
}
