package availability

import (
	"errors"
	"testing"
	"time"
)

func TestOverrideSetEventCategory(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
	ev := OverrideSetEvent(ManualOverride{PropertyID: "loft-1", IsAvailable: false, Reason: "Rénovation cuisine"}, "2024-05-04", "ops", at)
	if ev.Category != "renovation" {
		t.Fatalf("expected renovation category, got %q", ev.Category)
	}
	if ev.EventName() != "override.set" || ev.AggregateID() != "loft-1" {
		t.Fatalf("unexpected event identity %s/%s", ev.EventName(), ev.AggregateID())
	}
	if ev.OccurredAt().Location() != time.UTC {
		t.Fatalf("event time must be UTC")
	}

	open := OverrideSetEvent(ManualOverride{PropertyID: "loft-1", IsAvailable: true, Reason: "maintenance"}, "2024-05-04", "ops", at)
	if open.Category != "" {
		t.Fatalf("available override must not carry a category, got %q", open.Category)
	}
}

func TestIntegrityEvent(t *testing.T) {
	window := mustWindow(t, "2024-05-01", "2024-05-03")
	if _, ok := IntegrityEvent(window, Result{}, time.Now()); ok {
		t.Fatalf("clean result must not produce an event")
	}
	res := Result{
		Skipped:    []SkippedRow{{Kind: RowReservation, PropertyID: "p1", Ref: "r9", Err: ErrMalformedDate}},
		Duplicates: []DuplicateOverride{{PropertyID: "p1", Day: "2024-05-02"}},
	}
	ev, ok := IntegrityEvent(window, res, time.Now())
	if !ok {
		t.Fatalf("expected an event")
	}
	if ev.AggregateID() != "2024-05-01..2024-05-03" {
		t.Fatalf("unexpected aggregate %q", ev.AggregateID())
	}
	if len(ev.Skipped) != 1 || ev.Skipped[0] != "reservation:p1:r9" {
		t.Fatalf("unexpected skipped refs %v", ev.Skipped)
	}
	if len(ev.Duplicates) != 1 || ev.Duplicates[0] != "p1:2024-05-02" {
		t.Fatalf("unexpected duplicate refs %v", ev.Duplicates)
	}
}

func TestNewWindow(t *testing.T) {
	w, err := NewWindow("2024-05-07", "2024-05-01")
	if err != nil {
		t.Fatalf("inverted window must be accepted: %v", err)
	}
	if !w.Inverted() {
		t.Fatalf("expected inverted window")
	}
	if _, err := NewWindow("2024-13-01", "2024-05-01"); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}
