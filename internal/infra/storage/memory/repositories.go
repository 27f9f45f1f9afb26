package memory

import (
	"context"
	"sort"
	"sync"

	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
)

// PropertyRepository keeps lofts in insertion order.
type PropertyRepository struct {
	mu    sync.RWMutex
	order []domain.PropertyID
	items map[domain.PropertyID]domain.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{items: make(map[domain.PropertyID]domain.Property)}
}

func (r *PropertyRepository) List(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var wanted map[domain.PropertyID]struct{}
	if len(filter.IDs) > 0 {
		wanted = make(map[domain.PropertyID]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			wanted[id] = struct{}{}
		}
	}
	out := make([]domain.Property, 0, len(r.order))
	for _, id := range r.order {
		p := r.items[id]
		if wanted != nil {
			if _, ok := wanted[id]; !ok {
				continue
			}
		}
		if filter.OwnerID != "" && p.OwnerID != filter.OwnerID {
			continue
		}
		if filter.ZoneID != "" && p.ZoneID != filter.ZoneID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PropertyRepository) ByID(ctx context.Context, id domain.PropertyID) (domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return domain.Property{}, domain.ErrPropertyNotFound
	}
	return p, nil
}

func (r *PropertyRepository) Save(ctx context.Context, p domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.items[p.ID] = p
	return nil
}

// ReservationRepository is the in-memory reservation projection.
type ReservationRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.ReservationInterval
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[string]domain.ReservationInterval)}
}

// Intersecting returns occupying reservations of ids that touch window. Rows
// whose dates do not parse are returned as well so the builder can report them.
func (r *ReservationRepository) Intersecting(ctx context.Context, ids []domain.PropertyID, window daterange.DateRange) ([]domain.ReservationInterval, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := idSet(ids)
	var out []domain.ReservationInterval
	for _, key := range r.order {
		res := r.items[key]
		if _, ok := wanted[res.PropertyID]; !ok || !res.Status.Occupies() {
			continue
		}
		stay, err := res.Stay()
		if err == nil && !stay.Overlaps(window) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res domain.ReservationInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[res.ID]; !exists {
		r.order = append(r.order, res.ID)
	}
	r.items[res.ID] = res
	return nil
}

// Delete is a no-op for unknown ids.
func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[id]; !exists {
		return nil
	}
	delete(r.items, id)
	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type overrideKey struct {
	property domain.PropertyID
	day      string
}

// OverrideRepository holds at most one override per loft and day.
type OverrideRepository struct {
	mu    sync.RWMutex
	items map[overrideKey]domain.ManualOverride
}

func NewOverrideRepository() *OverrideRepository {
	return &OverrideRepository{items: make(map[overrideKey]domain.ManualOverride)}
}

// InWindow returns overrides ordered by loft and day. Rows with unparsable
// dates are included.
func (r *OverrideRepository) InWindow(ctx context.Context, ids []domain.PropertyID, window daterange.DateRange) ([]domain.ManualOverride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wanted := idSet(ids)
	var out []domain.ManualOverride
	for key, o := range r.items {
		if _, ok := wanted[key.property]; !ok {
			continue
		}
		if day, err := daterange.ParseDay(o.Date); err == nil && !window.Contains(day) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PropertyID != out[j].PropertyID {
			return out[i].PropertyID < out[j].PropertyID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (r *OverrideRepository) Save(ctx context.Context, o domain.ManualOverride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[overrideKey{property: o.PropertyID, day: o.Date}] = o
	return nil
}

func (r *OverrideRepository) Delete(ctx context.Context, id domain.PropertyID, day domain.Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := overrideKey{property: id, day: day.String()}
	if _, ok := r.items[key]; !ok {
		return domain.ErrOverrideNotFound
	}
	delete(r.items, key)
	return nil
}

func idSet(ids []domain.PropertyID) map[domain.PropertyID]struct{} {
	set := make(map[domain.PropertyID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

var (
	_ domain.PropertyRepository    = (*PropertyRepository)(nil)
	_ domain.ReservationRepository = (*ReservationRepository)(nil)
	_ domain.OverrideRepository    = (*OverrideRepository)(nil)
)
