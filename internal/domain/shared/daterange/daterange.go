package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout is the calendar day key format used across the service.
const Layout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("daterange: invalid calendar date")
	ErrInvalidRange = errors.New("daterange: range bounds are required")
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
}

// Truncate keeps the calendar date of t as seen in its own location and drops the rest.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDay accepts a YYYY-MM-DD date or a timestamp and returns midnight UTC of the written date.
func ParseDay(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}
	if t, err := time.Parse(Layout, value); err == nil {
		return t, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return Truncate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}

// Key formats the calendar date of t.
func Key(t time.Time) string {
	return t.Format(Layout)
}

// DateRange is a closed interval of calendar days [Start, End].
type DateRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) DateRange {
	return DateRange{Start: Truncate(start), End: Truncate(end)}
}

// Parse builds a range from two calendar date strings.
func Parse(start, end string) (DateRange, error) {
	from, err := ParseDay(start)
	if err != nil {
		return DateRange{}, fmt.Errorf("start: %w", err)
	}
	to, err := ParseDay(end)
	if err != nil {
		return DateRange{}, fmt.Errorf("end: %w", err)
	}
	return DateRange{Start: from, End: to}, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	return nil
}

// Inverted reports whether End precedes Start. An inverted range holds no days.
func (r DateRange) Inverted() bool {
	return r.End.Before(r.Start)
}

// Len is the number of calendar days in the range, both ends included.
func (r DateRange) Len() int {
	if r.Inverted() {
		return 0
	}
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) Contains(day time.Time) bool {
	day = Truncate(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

// Overlaps reports whether the two closed ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	if r.Inverted() || other.Inverted() {
		return false
	}
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Intersect returns the days shared by both ranges.
func (r DateRange) Intersect(other DateRange) (DateRange, bool) {
	if !r.Overlaps(other) {
		return DateRange{}, false
	}
	start := r.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := r.End
	if other.End.Before(end) {
		end = other.End
	}
	return DateRange{Start: start, End: end}, true
}

// Days lists every calendar day of the range in chronological order.
func (r DateRange) Days() []time.Time {
	n := r.Len()
	if n == 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for day := r.Start; !day.After(r.End); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}

func (r DateRange) String() string {
	return Key(r.Start) + ".." + Key(r.End)
}
