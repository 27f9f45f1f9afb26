package availability

import (
	"errors"
	"fmt"
	"time"

	"loftcal/internal/domain/shared/daterange"
)

var (
	ErrMalformedDate    = errors.New("availability: malformed calendar date")
	ErrInvertedInterval = errors.New("availability: check-out precedes check-in")
	ErrPropertyNotFound = errors.New("availability: property not found")
	ErrOverrideNotFound = errors.New("availability: override not found")
	ErrInvalidWindow    = errors.New("availability: invalid window")
)

type PropertyID string

// Property is the read-only view of a loft the engine renders.
type Property struct {
	ID               PropertyID
	Name             string
	NightlyRateCents int64
	OwnerID          string
	ZoneID           string
}

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationPending   ReservationStatus = "pending"
)

// Occupies reports whether a reservation in this status holds its days.
func (s ReservationStatus) Occupies() bool {
	return s == ReservationConfirmed || s == ReservationPending
}

// ReservationInterval is a guest stay as delivered by storage. Dates are raw
// calendar strings and may be malformed.
type ReservationInterval struct {
	ID         string
	PropertyID PropertyID
	CheckIn    string
	CheckOut   string
	Status     ReservationStatus
}

// ManualOverride is an owner/operator assertion about a single day.
type ManualOverride struct {
	PropertyID  PropertyID
	Date        string
	IsAvailable bool
	Reason      string
}

// Day is a timezone-naive calendar key (YYYY-MM-DD).
type Day string

func DayOf(t time.Time) Day {
	return Day(daterange.Key(t))
}

// ParseDay normalizes a raw date string into a Day key.
func ParseDay(raw string) (Day, error) {
	t, err := daterange.ParseDay(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedDate, err)
	}
	return DayOf(t), nil
}

func (d Day) Time() (time.Time, error) {
	return daterange.ParseDay(string(d))
}

func (d Day) String() string { return string(d) }

// NewWindow parses the requested bounds. An inverted window is accepted and renders no days.
func NewWindow(from, to string) (daterange.DateRange, error) {
	window, err := daterange.Parse(from, to)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return window, nil
}
