package availability

import (
	"context"

	"loftcal/internal/domain/shared/daterange"
)

// PropertyFilter narrows the lofts shown on a board. Empty fields match everything.
type PropertyFilter struct {
	IDs     []PropertyID
	OwnerID string
	ZoneID  string
}

type PropertyRepository interface {
	List(ctx context.Context, filter PropertyFilter) ([]Property, error)
	ByID(ctx context.Context, id PropertyID) (Property, error)
	Save(ctx context.Context, p Property) error
}

// ReservationRepository serves confirmed and pending reservations only.
type ReservationRepository interface {
	// Intersecting returns rows of the given properties whose stay touches window.
	Intersecting(ctx context.Context, ids []PropertyID, window daterange.DateRange) ([]ReservationInterval, error)
	Save(ctx context.Context, r ReservationInterval) error
	Delete(ctx context.Context, id string) error
}

type OverrideRepository interface {
	// InWindow returns rows of the given properties whose date falls inside window.
	InWindow(ctx context.Context, ids []PropertyID, window daterange.DateRange) ([]ManualOverride, error)
	Save(ctx context.Context, o ManualOverride) error
	Delete(ctx context.Context, id PropertyID, day Day) error
}

// PropertyIDs extracts identifiers preserving order.
func PropertyIDs(props []Property) []PropertyID {
	ids := make([]PropertyID, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	return ids
}
