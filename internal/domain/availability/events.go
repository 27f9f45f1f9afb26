package availability

import (
	"time"

	"loftcal/internal/domain/shared/daterange"
)

type OverrideSet struct {
	PropertyID  string    `json:"property_id"`
	Day         string    `json:"day"`
	IsAvailable bool      `json:"is_available"`
	Reason      string    `json:"reason,omitempty"`
	Category    string    `json:"category,omitempty"`
	Actor       string    `json:"actor,omitempty"`
	At          time.Time `json:"at"`
}

func (e OverrideSet) EventName() string     { return "override.set" }
func (e OverrideSet) AggregateID() string   { return e.PropertyID }
func (e OverrideSet) OccurredAt() time.Time { return e.At }

type OverrideCleared struct {
	PropertyID string    `json:"property_id"`
	Day        string    `json:"day"`
	Actor      string    `json:"actor,omitempty"`
	At         time.Time `json:"at"`
}

func (e OverrideCleared) EventName() string     { return "override.cleared" }
func (e OverrideCleared) AggregateID() string   { return e.PropertyID }
func (e OverrideCleared) OccurredAt() time.Time { return e.At }

// IntegrityFlagged reports rows a matrix build had to skip or tie-break.
type IntegrityFlagged struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Skipped    []string  `json:"skipped,omitempty"`
	Duplicates []string  `json:"duplicates,omitempty"`
	At         time.Time `json:"at"`
}

func (e IntegrityFlagged) EventName() string     { return "availability.integrity_flagged" }
func (e IntegrityFlagged) AggregateID() string   { return e.From + ".." + e.To }
func (e IntegrityFlagged) OccurredAt() time.Time { return e.At }

func OverrideSetEvent(o ManualOverride, day Day, actor string, at time.Time) OverrideSet {
	ev := OverrideSet{PropertyID: string(o.PropertyID), Day: string(day), IsAvailable: o.IsAvailable, Reason: o.Reason, Actor: actor, At: at.UTC()}
	if !o.IsAvailable {
		ev.Category = ClassifyReason(o.Reason).String()
	}
	return ev
}

func OverrideClearedEvent(id PropertyID, day Day, actor string, at time.Time) OverrideCleared {
	return OverrideCleared{PropertyID: string(id), Day: string(day), Actor: actor, At: at.UTC()}
}

// IntegrityEvent summarises a result's data problems; ok is false when there is nothing to report.
func IntegrityEvent(window daterange.DateRange, r Result, at time.Time) (IntegrityFlagged, bool) {
	if len(r.Skipped) == 0 && len(r.Duplicates) == 0 {
		return IntegrityFlagged{}, false
	}
	ev := IntegrityFlagged{From: daterange.Key(window.Start), To: daterange.Key(window.End), At: at.UTC()}
	for _, s := range r.Skipped {
		ev.Skipped = append(ev.Skipped, string(s.Kind)+":"+string(s.PropertyID)+":"+s.Ref)
	}
	for _, d := range r.Duplicates {
		ev.Duplicates = append(ev.Duplicates, string(d.PropertyID)+":"+string(d.Day))
	}
	return ev, true
}
