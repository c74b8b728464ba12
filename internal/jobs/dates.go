package jobs

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var postedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

var relativeDate = regexp.MustCompile(`(?i)^(\d+)\s+(minute|hour|day|week|month)s?\s+ago`)

// ParsePostedDate parses the date formats providers put into posted_date,
// including relative ones such as "3 days ago". The second result is false
// when the value cannot be understood.
func ParsePostedDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	if m := relativeDate.FindStringSubmatch(value); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		var unit time.Duration
		switch strings.ToLower(m[2]) {
		case "minute":
			unit = time.Minute
		case "hour":
			unit = time.Hour
		case "day":
			unit = 24 * time.Hour
		case "week":
			unit = 7 * 24 * time.Hour
		case "month":
			unit = 30 * 24 * time.Hour
		}
		return now.Add(-time.Duration(amount) * unit), true
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// WithinWindow reports whether a posting date lies within window of now.
// Dates that cannot be parsed are treated as recent.
func WithinWindow(value string, window time.Duration, now time.Time) bool {
	posted, ok := ParsePostedDate(value, now)
	if !ok {
		return true
	}
	return now.Sub(posted) <= window
}
