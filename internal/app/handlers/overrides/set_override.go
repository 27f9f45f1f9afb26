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

const setOverrideKey = "overrides.set"

// SetOverrideCommand records an owner assertion for one loft day, replacing any
// existing one.
type SetOverrideCommand struct {
	PropertyID  string
	Date        string
	IsAvailable bool
	Reason      string
	Actor       string
}

func (SetOverrideCommand) Key() string { return setOverrideKey }

func (c SetOverrideCommand) ActorID() string { return c.Actor }

type SetOverrideHandler struct {
	Now func() time.Time
}

func (h *SetOverrideHandler) Handle(ctx context.Context, cmd SetOverrideCommand) (dto.OverrideResult, error) {
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

	override := domain.ManualOverride{
		PropertyID:  id,
		Date:        day.String(),
		IsAvailable: cmd.IsAvailable,
		Reason:      strings.TrimSpace(cmd.Reason),
	}
	if err := unit.Overrides().Save(ctx, override); err != nil {
		return dto.OverrideResult{}, err
	}
	outbox.Raise(ctx, domain.OverrideSetEvent(override, day, cmd.Actor, now(h.Now)))

	status := domain.Available
	if !override.IsAvailable {
		status = domain.Blocked(domain.ClassifyReason(override.Reason))
	}
	return dto.OverrideResult{
		LoftID:      string(id),
		Date:        day.String(),
		IsAvailable: override.IsAvailable,
		Reason:      override.Reason,
		Status:      status.String(),
	}, nil
}

func now(fn func() time.Time) time.Time {
	if fn != nil {
		return fn()
	}
	return time.Now()
}

var _ commands.Handler[SetOverrideCommand, dto.OverrideResult] = (*SetOverrideHandler)(nil)
