package domain

import "time"

// DateLayout is the calendar-date wire format for Session.Date
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form. Callers that order
// or compare records by date must exclude values that fail to parse
// instead of failing the whole computation.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
