package normalize

import (
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order for string timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RubyDate, // Twitter: "Mon Jan 02 15:04:05 -0700 2006"
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
	"Jan 2, 2006",
}

// ParseTime converts a loosely typed timestamp into UTC.
// Numbers are unix seconds, or milliseconds when larger than 1e12.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case string:
		return parseTimeString(t)
	case nil:
		return time.Time{}, false
	default:
		f := ToFloat(v)
		if f <= 0 {
			return time.Time{}, false
		}
		return fromUnix(f), true
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return fromUnix(f), true
	}
	return time.Time{}, false
}

func fromUnix(f float64) time.Time {
	if f > 1e12 {
		return time.UnixMilli(int64(f)).UTC()
	}
	return time.Unix(int64(f), 0).UTC()
}
