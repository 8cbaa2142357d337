package parserutil

import (
	"fmt"
	"time"
)

// timestampLayouts are tried in order. ISO-8601 with or without
// fractional seconds and a timezone offset, plus the "YYYY-MM-DD
// HH:MM:SS" local-time form some desktop apps emit (spec §4.2).
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
}

// NormalizeTimestamp parses s against the accepted layouts and returns
// the instant in UTC to millisecond precision. The bare "YYYY-MM-DD
// HH:MM:SS" form (no offset, no 'Z') is interpreted in loc (pass
// time.Local for the desktop-app sources, which record local time).
// Anything that matches none of the layouts is rejected (spec §4.2).
func NormalizeTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.UTC().Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("parserutil: unrecognized timestamp format: %q", s)
}
