package availability

import (
	"context"
	"fmt"

	"loftcal/internal/app/dto"
	"loftcal/internal/app/queries"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

const getCalendarKey = "availability.loft_calendar"

type GetLoftCalendarQuery struct {
	PropertyID string
	From       string
	To         string
	Locale     string
}

func (GetLoftCalendarQuery) Key() string { return getCalendarKey }

func (q GetLoftCalendarQuery) Window() (string, string) { return q.From, q.To }

type GetLoftCalendarHandler struct {
	Renderer *Renderer
}

// Handle renders one loft. Unknown lofts fail with domain.ErrPropertyNotFound.
func (h *GetLoftCalendarHandler) Handle(ctx context.Context, q GetLoftCalendarQuery) (dto.LoftCalendar, error) {
	unit, ctx, release, err := uow.Reuse(ctx, h.Renderer.UoWFactory)
	if err != nil {
		return dto.LoftCalendar{}, err
	}
	defer release()

	id := domain.PropertyID(q.PropertyID)
	if _, err := unit.Properties().ByID(ctx, id); err != nil {
		return dto.LoftCalendar{}, err
	}
	board, err := h.Renderer.Render(ctx, Request{
		Filter: domain.PropertyFilter{IDs: []domain.PropertyID{id}},
		From:   q.From,
		To:     q.To,
		Locale: q.Locale,
	})
	if err != nil {
		return dto.LoftCalendar{}, err
	}
	if len(board.Lofts) != 1 {
		return dto.LoftCalendar{}, fmt.Errorf("%w: %s", domain.ErrPropertyNotFound, id)
	}
	return board.Lofts[0], nil
}

var _ queries.Handler[GetLoftCalendarQuery, dto.LoftCalendar] = (*GetLoftCalendarHandler)(nil)
