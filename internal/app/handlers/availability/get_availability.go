package availability

import (
	"context"

	"loftcal/internal/app/dto"
	"loftcal/internal/app/queries"
	domain "loftcal/internal/domain/availability"
)

const getAvailabilityKey = "availability.board"

// GetAvailabilityQuery renders the calendar of every loft matching the filter.
type GetAvailabilityQuery struct {
	PropertyIDs []string
	OwnerID     string
	ZoneID      string
	From        string
	To          string
	Locale      string
}

func (GetAvailabilityQuery) Key() string { return getAvailabilityKey }

func (q GetAvailabilityQuery) Window() (string, string) { return q.From, q.To }

type GetAvailabilityHandler struct {
	Renderer *Renderer
}

func (h *GetAvailabilityHandler) Handle(ctx context.Context, q GetAvailabilityQuery) (dto.AvailabilityBoard, error) {
	return h.Renderer.Render(ctx, Request{
		Filter: domain.PropertyFilter{IDs: toPropertyIDs(q.PropertyIDs), OwnerID: q.OwnerID, ZoneID: q.ZoneID},
		From:   q.From,
		To:     q.To,
		Locale: q.Locale,
	})
}

var _ queries.Handler[GetAvailabilityQuery, dto.AvailabilityBoard] = (*GetAvailabilityHandler)(nil)
