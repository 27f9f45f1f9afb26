package memory

import (
	"context"
	"errors"
	"testing"

	domain "loftcal/internal/domain/availability"
)

func TestPropertyRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewPropertyRepository()
	for _, p := range []domain.Property{
		{ID: "b", OwnerID: "o1", ZoneID: "z1"},
		{ID: "a", OwnerID: "o2", ZoneID: "z1"},
		{ID: "c", OwnerID: "o1", ZoneID: "z2"},
	} {
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	tests := []struct {
		name   string
		filter domain.PropertyFilter
		want   []domain.PropertyID
	}{
		{name: "all in insertion order", want: []domain.PropertyID{"b", "a", "c"}},
		{name: "owner", filter: domain.PropertyFilter{OwnerID: "o1"}, want: []domain.PropertyID{"b", "c"}},
		{name: "zone and owner", filter: domain.PropertyFilter{OwnerID: "o1", ZoneID: "z1"}, want: []domain.PropertyID{"b"}},
		{name: "ids", filter: domain.PropertyFilter{IDs: []domain.PropertyID{"c", "a"}}, want: []domain.PropertyID{"a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			ids := domain.PropertyIDs(got)
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", ids, tt.want)
				}
			}
		})
	}
	if _, err := repo.ByID(ctx, "zz"); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestReservationRepositoryIntersecting(t *testing.T) {
	ctx := context.Background()
	repo := NewReservationRepository()
	rows := []domain.ReservationInterval{
		{ID: "inside", PropertyID: "p", CheckIn: "2024-05-02", CheckOut: "2024-05-04", Status: domain.ReservationConfirmed},
		{ID: "before", PropertyID: "p", CheckIn: "2024-04-01", CheckOut: "2024-04-05", Status: domain.ReservationConfirmed},
		{ID: "broken", PropertyID: "p", CheckIn: "soon", CheckOut: "2024-05-02", Status: domain.ReservationPending},
		{ID: "other", PropertyID: "q", CheckIn: "2024-05-02", CheckOut: "2024-05-03", Status: domain.ReservationConfirmed},
	}
	for _, r := range rows {
		if err := repo.Save(ctx, r); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	window, _ := domain.NewWindow("2024-05-01", "2024-05-10")
	got, err := repo.Intersecting(ctx, []domain.PropertyID{"p"}, window)
	if err != nil {
		t.Fatalf("intersecting: %v", err)
	}
	ids := map[string]bool{}
	for _, r := range got {
		ids[r.ID] = true
	}
	if len(got) != 2 || !ids["inside"] || !ids["broken"] {
		t.Fatalf("expected inside and unparsable rows, got %+v", got)
	}

	if err := repo.Delete(ctx, "inside"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("deleting an unknown id must be a no-op, got %v", err)
	}
}

func TestOverrideRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewOverrideRepository()
	for _, o := range []domain.ManualOverride{
		{PropertyID: "p", Date: "2024-05-09", Reason: "travaux"},
		{PropertyID: "p", Date: "2024-05-02", Reason: "maintenance"},
		{PropertyID: "p", Date: "2024-06-01", Reason: "outside"},
		{PropertyID: "p", Date: "2024-05-02", Reason: "replaced"},
	} {
		if err := repo.Save(ctx, o); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	window, _ := domain.NewWindow("2024-05-01", "2024-05-31")
	got, err := repo.InWindow(ctx, []domain.PropertyID{"p"}, window)
	if err != nil {
		t.Fatalf("in window: %v", err)
	}
	if len(got) != 2 || got[0].Date != "2024-05-02" || got[0].Reason != "replaced" || got[1].Date != "2024-05-09" {
		t.Fatalf("unexpected overrides %+v", got)
	}
	if err := repo.Delete(ctx, "p", "2024-05-09"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "p", "2024-05-09"); !errors.Is(err, domain.ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound, got %v", err)
	}
}
