package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeDateRe = regexp.MustCompile(`^(\d+)\s+(\w+)`)

// ParseRelativeDate turns a relative timestamp like "3 days ago" into unix
// milliseconds against the supplied clock. Months count as 30 days and years
// as 365. Unrecognized text maps to 0.
func ParseRelativeDate(text string, now time.Time) int64 {
	m := relativeDateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}

	var unit time.Duration
	switch {
	case strings.HasPrefix(m[2], "sec"):
		unit = time.Second
	case strings.HasPrefix(m[2], "min"):
		unit = time.Minute
	case strings.HasPrefix(m[2], "hour"):
		unit = time.Hour
	case strings.HasPrefix(m[2], "day"):
		unit = 24 * time.Hour
	case strings.HasPrefix(m[2], "week"):
		unit = 7 * 24 * time.Hour
	case strings.HasPrefix(m[2], "month"):
		unit = 30 * 24 * time.Hour
	case strings.HasPrefix(m[2], "year"):
		unit = 365 * 24 * time.Hour
	default:
		return 0
	}
	return now.Add(-time.Duration(value) * unit).UnixMilli()
}
