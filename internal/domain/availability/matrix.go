package availability

import (
	"time"

	"loftcal/internal/domain/shared/daterange"
)

type RowKind string

const (
	RowReservation RowKind = "reservation"
	RowOverride    RowKind = "override"
)

// SkippedRow is an input row that could not be used. Ref identifies the row
// (reservation id, or the raw override date).
type SkippedRow struct {
	Kind       RowKind
	PropertyID PropertyID
	Ref        string
	Err        error
}

// DayCell is one entry of a property calendar.
type DayCell struct {
	Day    Day
	Status DayStatus
}

// AvailabilityMatrix is the calendar of one property over the requested window.
//
// IsOccupiedToday checks today against every stay of the property, ignoring the
// window. Days only come from stays that pass the window pre-filter
// (check-in before the window end), so a stay checking in on the last day of
// the window marks today occupied while that day's cell stays available.
type AvailabilityMatrix struct {
	Property        Property
	Days            []DayCell
	IsOccupiedToday bool

	index map[Day]int
}

// Status looks up a day of the matrix.
func (m AvailabilityMatrix) Status(day Day) (DayStatus, bool) {
	if m.index != nil {
		i, ok := m.index[day]
		if !ok {
			return DayStatus{}, false
		}
		return m.Days[i].Status, true
	}
	for _, cell := range m.Days {
		if cell.Day == day {
			return cell.Status, true
		}
	}
	return DayStatus{}, false
}

// Input is everything BuildMatrix needs. Today is the caller's current calendar date;
// the zero value means the current UTC date.
type Input struct {
	Properties   []Property
	Reservations []ReservationInterval
	Overrides    []ManualOverride
	Window       daterange.DateRange
	Today        time.Time
}

// Result holds one matrix per input property (same order) and the rows that
// were skipped or collided while building them.
type Result struct {
	Matrices   []AvailabilityMatrix
	Skipped    []SkippedRow
	Duplicates []DuplicateOverride
}

// BuildMatrix resolves every day of the window for every property. Bad rows are
// skipped and reported; they never abort the computation. An inverted window
// yields properties with no days.
func BuildMatrix(in Input) Result {
	today := in.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = daterange.Truncate(today)

	var result Result
	stays := make(map[PropertyID][]daterange.DateRange)
	for _, r := range in.Reservations {
		stay, err := r.Stay()
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Kind: RowReservation, PropertyID: r.PropertyID, Ref: r.ID, Err: err})
			continue
		}
		stays[r.PropertyID] = append(stays[r.PropertyID], stay)
	}

	index, skipped, duplicates := IndexOverrides(in.Overrides)
	result.Skipped = append(result.Skipped, skipped...)
	result.Duplicates = duplicates

	windowDays := in.Window.Days()
	result.Matrices = make([]AvailabilityMatrix, 0, len(in.Properties))
	for _, p := range in.Properties {
		booked := make(BookedDays)
		occupiedToday := false
		for _, stay := range stays[p.ID] {
			booked.addStay(stay, in.Window)
			if stay.Contains(today) {
				occupiedToday = true
			}
		}

		overrides := index.ForProperty(p.ID)
		m := AvailabilityMatrix{
			Property:        p,
			Days:            make([]DayCell, 0, len(windowDays)),
			IsOccupiedToday: occupiedToday,
			index:           make(map[Day]int, len(windowDays)),
		}
		for _, t := range windowDays {
			day := DayOf(t)
			m.index[day] = len(m.Days)
			m.Days = append(m.Days, DayCell{Day: day, Status: ResolveDay(day, booked, overrides)})
		}
		result.Matrices = append(result.Matrices, m)
	}
	return result
}

// Summary counts cells per status string across all matrices.
func (r Result) Summary() map[string]int {
	counts := make(map[string]int)
	for _, m := range r.Matrices {
		for _, cell := range m.Days {
			counts[cell.Status.String()]++
		}
	}
	return counts
}
