package availability

import (
	"fmt"
	"sort"

	"loftcal/internal/domain/shared/daterange"
)

// BookedDays is the set of days held by qualifying reservations for one property.
type BookedDays map[Day]struct{}

func (b BookedDays) Has(day Day) bool {
	_, ok := b[day]
	return ok
}

func (b BookedDays) Len() int { return len(b) }

// Sorted returns the days in chronological order.
func (b BookedDays) Sorted() []Day {
	out := make([]Day, 0, len(b))
	for d := range b {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stay parses the reservation dates into a closed day range, check-out day included.
func (r ReservationInterval) Stay() (daterange.DateRange, error) {
	checkIn, err := daterange.ParseDay(r.CheckIn)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("%w: check-in: %w", ErrMalformedDate, err)
	}
	checkOut, err := daterange.ParseDay(r.CheckOut)
	if err != nil {
		return daterange.DateRange{}, fmt.Errorf("%w: check-out: %w", ErrMalformedDate, err)
	}
	if checkOut.Before(checkIn) {
		return daterange.DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvertedInterval, daterange.Key(checkIn), daterange.Key(checkOut))
	}
	return daterange.DateRange{Start: checkIn, End: checkOut}, nil
}

// ExpandReservation lists the window days occupied by r.
func ExpandReservation(r ReservationInterval, window daterange.DateRange) (BookedDays, error) {
	stay, err := r.Stay()
	if err != nil {
		return nil, err
	}
	booked := make(BookedDays)
	booked.addStay(stay, window)
	return booked, nil
}

// touchesWindow is the coarse filter applied before expansion:
// checkIn < windowEnd and checkOut >= windowStart.
func touchesWindow(stay, window daterange.DateRange) bool {
	return stay.Start.Before(window.End) && !stay.End.Before(window.Start)
}

func (b BookedDays) addStay(stay, window daterange.DateRange) {
	if !touchesWindow(stay, window) {
		return
	}
	overlap, ok := stay.Intersect(window)
	if !ok {
		return
	}
	for _, day := range overlap.Days() {
		b[DayOf(day)] = struct{}{}
	}
}
