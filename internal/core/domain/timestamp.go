// internal/core/domain/timestamp.go
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp decodes backend timestamps leniently and keeps the raw string.
// An unknown layout leaves Time zero instead of failing the whole payload.
type Timestamp struct {
	time.Time
	Raw string
}

// NewTimestamp wraps t, using RFC3339 as its raw form.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t, Raw: t.Format(time.RFC3339)}
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = Timestamp{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	*t = Timestamp{Raw: s}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			break
		}
	}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Raw == "" && t.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

// String returns the raw backend value when present.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Date renders the calendar date, or the raw value if it never parsed.
func (t Timestamp) Date() string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format("2006-01-02")
}
