package dto

import (
	"loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
)

// AvailabilityBoard is the multi-loft calendar returned by the availability endpoints.
type AvailabilityBoard struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	Today      string         `json:"today"`
	Locale     string         `json:"locale"`
	Lofts      []LoftCalendar `json:"lofts"`
	Summary    map[string]int `json:"summary"`
	Skipped    int            `json:"skipped_rows"`
	Duplicates int            `json:"duplicate_overrides"`
}

type LoftCalendar struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	OwnerID          string     `json:"owner_id,omitempty"`
	ZoneID           string     `json:"zone_id,omitempty"`
	NightlyRateCents int64      `json:"nightly_rate_cents"`
	IsOccupiedToday  bool       `json:"is_occupied_today"`
	Days             []DayEntry `json:"days"`
}

// DayEntry is one calendar cell. Title is set on non-available days only.
type DayEntry struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Title  string `json:"title,omitempty"`
}

// MapBoard renders a build result for locale. Lofts keep the result order.
func MapBoard(window daterange.DateRange, today string, locale availability.Locale, result availability.Result, translate availability.Translator) AvailabilityBoard {
	board := AvailabilityBoard{
		From:       daterange.Key(window.Start),
		To:         daterange.Key(window.End),
		Today:      today,
		Locale:     string(locale),
		Lofts:      make([]LoftCalendar, 0, len(result.Matrices)),
		Summary:    result.Summary(),
		Skipped:    len(result.Skipped),
		Duplicates: len(result.Duplicates),
	}
	for _, m := range result.Matrices {
		board.Lofts = append(board.Lofts, MapLoftCalendar(m, locale, translate))
	}
	return board
}

func MapLoftCalendar(m availability.AvailabilityMatrix, locale availability.Locale, translate availability.Translator) LoftCalendar {
	cal := LoftCalendar{
		ID:               string(m.Property.ID),
		Name:             m.Property.Name,
		OwnerID:          m.Property.OwnerID,
		ZoneID:           m.Property.ZoneID,
		NightlyRateCents: m.Property.NightlyRateCents,
		IsOccupiedToday:  m.IsOccupiedToday,
		Days:             make([]DayEntry, 0, len(m.Days)),
	}
	for _, cell := range m.Days {
		entry := DayEntry{Date: cell.Day.String(), Status: cell.Status.String()}
		if !cell.Status.IsAvailable() {
			entry.Title = availability.FormatTitle(availability.TitleInput{
				Status:       cell.Status,
				PropertyName: m.Property.Name,
				PropertyID:   m.Property.ID,
				Locale:       locale,
			}, translate)
		}
		cal.Days = append(cal.Days, entry)
	}
	return cal
}

// OverrideResult acknowledges an override change.
type OverrideResult struct {
	LoftID      string `json:"loft_id"`
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
	Cleared     bool   `json:"cleared,omitempty"`
}

// ExportResult points at an uploaded board.
type ExportResult struct {
	Key   string `json:"key"`
	URL   string `json:"url"`
	Lofts int    `json:"lofts"`
	From  string `json:"from"`
	To    string `json:"to"`
}
