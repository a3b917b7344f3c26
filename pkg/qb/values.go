package qb

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/r9s-ai/sdmxrest/pkg/sdmxerr"
)

// Int returns a pointer to n, for optional count fields.
func Int(n int) *int { return &n }

// Time returns a pointer to t, for optional datetime fields.
func Time(t time.Time) *time.Time { return &t }

const isoLayout = "2006-01-02T15:04:05-07:00"

// formatTime renders t in UTC with an explicit offset, ready for a query
// string.
func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return strings.ReplaceAll(t.UTC().Format(isoLayout), "+", "%2B")
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDateTime reads an ISO-8601 datetime. Values without an offset are read
// as UTC. Anything else is Invalid, so callers taking strings from users can
// report "TIME_PERIOD is not a datetime" the same way the builder does.
func ParseDateTime(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, sdmxerr.Invalid("Invalid datetime", "%s=%q is not an ISO-8601 datetime", field, s).WithField(field)
}

func validateTime(field string, t *time.Time) error {
	if t != nil && t.IsZero() {
		return sdmxerr.Invalid("Invalid datetime", "%s must not be the zero time", field).WithField(field)
	}
	return nil
}

func validateCount(field string, n *int) error {
	if n != nil && *n < 0 {
		return sdmxerr.Invalid("Negative count", "%s must be non-negative, got %d", field, *n).WithField(field)
	}
	return nil
}

func formatCount(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

var yearStartDay = regexp.MustCompile(`^--(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

func validateYearStartDay(s string) error {
	if s == "" || s == RestAll || yearStartDay.MatchString(s) {
		return nil
	}
	return sdmxerr.Invalid("Invalid reportingYearStartDay", "%q is not a --MM-DD day", s).WithField("reportingYearStartDay")
}

func validateName(field, s string) error {
	if strings.ContainsAny(s, "/?&#[] ") {
		return sdmxerr.ClientError("Malformed value", "%s value %q contains a reserved character", field, s).WithField(field)
	}
	return nil
}
