package availability

import (
	"errors"
	"testing"

	"loftcal/internal/domain/shared/daterange"
)

func mustWindow(t *testing.T, from, to string) daterange.DateRange {
	t.Helper()
	w, err := daterange.Parse(from, to)
	if err != nil {
		t.Fatalf("window %s..%s: %v", from, to, err)
	}
	return w
}

func TestExpandReservation(t *testing.T) {
	window := mustWindow(t, "2024-05-01", "2024-05-05")
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     []Day
	}{
		{name: "inclusive endpoints", checkIn: "2024-05-01", checkOut: "2024-05-03", want: []Day{"2024-05-01", "2024-05-02", "2024-05-03"}},
		{name: "same day", checkIn: "2024-05-02", checkOut: "2024-05-02", want: []Day{"2024-05-02"}},
		{name: "clipped to window", checkIn: "2024-04-28", checkOut: "2024-05-02", want: []Day{"2024-05-01", "2024-05-02"}},
		{name: "ends on window start", checkIn: "2024-04-20", checkOut: "2024-05-01", want: []Day{"2024-05-01"}},
		{name: "entirely before", checkIn: "2024-04-01", checkOut: "2024-04-10", want: nil},
		{name: "entirely after", checkIn: "2024-05-10", checkOut: "2024-05-12", want: nil},
		{name: "starts on window end is filtered", checkIn: "2024-05-05", checkOut: "2024-05-08", want: nil},
		{name: "timestamps", checkIn: "2024-05-04T15:00:00Z", checkOut: "2024-05-09T11:00:00Z", want: []Day{"2024-05-04", "2024-05-05"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booked, err := ExpandReservation(ReservationInterval{ID: "r1", PropertyID: "p1", CheckIn: tt.checkIn, CheckOut: tt.checkOut, Status: ReservationConfirmed}, window)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := booked.Sorted()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestExpandReservationErrors(t *testing.T) {
	window := mustWindow(t, "2024-05-01", "2024-05-05")
	if _, err := ExpandReservation(ReservationInterval{CheckIn: "05/01/2024", CheckOut: "2024-05-02"}, window); !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
	if _, err := ExpandReservation(ReservationInterval{CheckIn: "2024-05-01", CheckOut: ""}, window); !errors.Is(err, ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate for empty check-out, got %v", err)
	}
	if _, err := ExpandReservation(ReservationInterval{CheckIn: "2024-05-04", CheckOut: "2024-05-02"}, window); !errors.Is(err, ErrInvertedInterval) {
		t.Fatalf("expected ErrInvertedInterval, got %v", err)
	}
}

func TestReservationStatusOccupies(t *testing.T) {
	if !ReservationConfirmed.Occupies() || !ReservationPending.Occupies() {
		t.Fatalf("confirmed and pending must occupy")
	}
	for _, s := range []ReservationStatus{"cancelled", "completed", ""} {
		if s.Occupies() {
			t.Fatalf("%q must not occupy", s)
		}
	}
}
