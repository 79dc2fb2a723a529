package extract

import (
	"encoding/json"
	"strings"
	"time"
)

// dateLayouts are tried in order for free-text dates. Slash and dash layouts
// are day-first: the source data writes 15/03/2024 for March 15th.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// monthYearLayouts match period-only dates like "March 2024"; the day
// defaults to the 1st.
var monthYearLayouts = []string{
	"January 2006",
	"January, 2006",
	"Jan 2006",
	"Jan, 2006",
}

// ParseDate normalizes a heterogeneous date representation to a calendar
// date. It returns false when the value carries no recognizable date; it
// never guesses and never fails loudly.
func ParseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if d.IsZero() {
			return time.Time{}, false
		}
		return d.UTC(), true
	case float64:
		return fromUnix(int64(d))
	case int:
		return fromUnix(int64(d))
	case int64:
		return fromUnix(d)
	case json.Number:
		if n, err := d.Int64(); err == nil {
			return fromUnix(n)
		}
		return parseDateText(d.String())
	case string:
		return parseDateText(d)
	default:
		return time.Time{}, false
	}
}

func parseDateText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if isDigits(s) && len(s) >= 10 && len(s) <= 13 {
		var n int64
		for _, r := range s {
			n = n*10 + int64(r-'0')
		}
		return fromUnix(n)
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	for _, layout := range monthYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// fromUnix interprets a numeric timestamp: 10 digits are seconds, 11 to 13
// digits are milliseconds. Anything outside that range is not a date.
func fromUnix(n int64) (time.Time, bool) {
	switch {
	case n >= 1_000_000_000 && n < 10_000_000_000:
		return time.Unix(n, 0).UTC(), true
	case n >= 10_000_000_000 && n < 10_000_000_000_000:
		return time.UnixMilli(n).UTC(), true
	default:
		return time.Time{}, false
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
