package daterange

import (
	"errors"
	"testing"
	"time"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDay(raw)
	if err != nil {
		t.Fatalf("ParseDay(%q): %v", raw, err)
	}
	return d
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "iso date", raw: "2024-05-01", want: "2024-05-01"},
		{name: "padded", raw: "  2024-05-01 ", want: "2024-05-01"},
		{name: "rfc3339 keeps written date", raw: "2024-05-01T23:30:00+02:00", want: "2024-05-01"},
		{name: "utc timestamp", raw: "2024-05-01T00:00:00Z", want: "2024-05-01"},
		{name: "naive timestamp", raw: "2024-05-01 10:00:00", want: "2024-05-01"},
		{name: "empty", raw: "", wantErr: true},
		{name: "garbage", raw: "tomorrow", wantErr: true},
		{name: "impossible date", raw: "2024-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if Key(got) != tt.want {
				t.Fatalf("got %s, want %s", Key(got), tt.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("expected UTC location, got %v", got.Location())
			}
		})
	}
}

func TestDaysInclusive(t *testing.T) {
	r := New(day(t, "2024-02-27"), day(t, "2024-03-02"))
	days := r.Days()
	want := []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}
	if len(days) != len(want) || r.Len() != len(want) {
		t.Fatalf("expected %d days, got %d (Len=%d)", len(want), len(days), r.Len())
	}
	for i, d := range days {
		if Key(d) != want[i] {
			t.Fatalf("day %d: got %s want %s", i, Key(d), want[i])
		}
	}
}

func TestInvertedRangeIsEmpty(t *testing.T) {
	r := New(day(t, "2024-05-05"), day(t, "2024-05-01"))
	if !r.Inverted() {
		t.Fatalf("expected inverted range")
	}
	if r.Len() != 0 || len(r.Days()) != 0 {
		t.Fatalf("inverted range should hold no days")
	}
	if r.Overlaps(New(day(t, "2024-05-01"), day(t, "2024-05-10"))) {
		t.Fatalf("inverted range must not overlap anything")
	}
}

func TestIntersect(t *testing.T) {
	a := New(day(t, "2024-05-01"), day(t, "2024-05-10"))
	b := New(day(t, "2024-05-08"), day(t, "2024-05-20"))
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatalf("expected overlap")
	}
	if got.String() != "2024-05-08..2024-05-10" {
		t.Fatalf("unexpected intersection %s", got)
	}

	c := New(day(t, "2024-05-11"), day(t, "2024-05-12"))
	if _, ok := a.Intersect(c); ok {
		t.Fatalf("adjacent ranges must not intersect")
	}
	single := New(day(t, "2024-05-10"), day(t, "2024-05-10"))
	if got, ok := a.Intersect(single); !ok || got.Len() != 1 {
		t.Fatalf("expected shared boundary day, got %v %v", got, ok)
	}
}

func TestParseRange(t *testing.T) {
	if _, err := Parse("2024-05-01", "nope"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate for bad end, got %v", err)
	}
	r, err := Parse("2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !r.Contains(time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected range to contain mid-day timestamp")
	}
	if (DateRange{}).Validate() == nil {
		t.Fatalf("zero range should not validate")
	}
}
