package overrides

import (
	"context"
	"strings"
	"time"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/dto"
	"loftcal/internal/app/outbox"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

const clearOverrideKey = "overrides.clear"

type ClearOverrideCommand struct {
	PropertyID string
	Date       string
	Actor      string
}

func (ClearOverrideCommand) Key() string { return clearOverrideKey }

func (c ClearOverrideCommand) ActorID() string { return c.Actor }

type ClearOverrideHandler struct {
	Now func() time.Time
}

// Handle removes the override so the day falls back to reservations only.
// A missing override fails with domain.ErrOverrideNotFound.
func (h *ClearOverrideHandler) Handle(ctx context.Context, cmd ClearOverrideCommand) (dto.OverrideResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return dto.OverrideResult{}, uow.ErrUnitOfWorkMissing
	}
	day, err := domain.ParseDay(cmd.Date)
	if err != nil {
		return dto.OverrideResult{}, err
	}
	id := domain.PropertyID(strings.TrimSpace(cmd.PropertyID))
	if _, err := unit.Properties().ByID(ctx, id); err != nil {
		return dto.OverrideResult{}, err
	}
	if err := unit.Overrides().Delete(ctx, id, day); err != nil {
		return dto.OverrideResult{}, err
	}
	outbox.Raise(ctx, domain.OverrideClearedEvent(id, day, cmd.Actor, now(h.Now)))
	return dto.OverrideResult{LoftID: string(id), Date: day.String(), IsAvailable: true, Cleared: true}, nil
}

var _ commands.Handler[ClearOverrideCommand, dto.OverrideResult] = (*ClearOverrideHandler)(nil)
