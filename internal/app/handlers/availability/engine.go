package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loftcal/internal/app/dto"
	"loftcal/internal/app/outbox"
	"loftcal/internal/app/policies"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/daterange"
	"loftcal/internal/domain/shared/events"
)

var ErrWindowTooLarge = errors.New("availability: window exceeds maximum length")

// Renderer loads lofts, reservations and overrides through a unit of work and
// runs the matrix builder over them. It is shared by the board, calendar and
// export handlers. Location decides which calendar date counts as today.
//
// Builds that skip or tie-break rows raise an integrity event. The same report
// is raised at most once per IntegrityQuiet (an hour when zero).
type Renderer struct {
	UoWFactory    uow.UoWFactory
	Translate     domain.Translator
	DefaultLocale domain.Locale
	Location      *time.Location
	MaxWindowDays int
	Observer      policies.BuildObserver
	Outbox        outbox.Outbox
	Encoder       outbox.EventEncoder
	Logger        *slog.Logger
	Now           func() time.Time

	IntegrityQuiet time.Duration

	integrity integrityGuard
}

// Request selects lofts and a window. Locale is a raw tag or Accept-Language value.
type Request struct {
	Filter domain.PropertyFilter
	From   string
	To     string
	Locale string
}

func (r *Renderer) Render(ctx context.Context, req Request) (dto.AvailabilityBoard, error) {
	window, err := domain.NewWindow(req.From, req.To)
	if err != nil {
		return dto.AvailabilityBoard{}, err
	}
	if r.MaxWindowDays > 0 && window.Len() > r.MaxWindowDays {
		return dto.AvailabilityBoard{}, fmt.Errorf("%w: %d days requested, %d allowed", ErrWindowTooLarge, window.Len(), r.MaxWindowDays)
	}
	locale := domain.ParseLocale(req.Locale, r.DefaultLocale)
	today := r.today()

	// The read unit may be a snapshot transaction that is rolled back; events
	// are recorded against the caller's context instead.
	caller := ctx
	unit, ctx, release, err := uow.Reuse(ctx, r.UoWFactory)
	if err != nil {
		return dto.AvailabilityBoard{}, err
	}
	defer release()

	props, err := unit.Properties().List(ctx, req.Filter)
	if err != nil {
		return dto.AvailabilityBoard{}, fmt.Errorf("list lofts: %w", err)
	}
	ids := domain.PropertyIDs(props)

	var (
		reservations []domain.ReservationInterval
		overrides    []domain.ManualOverride
	)
	if len(ids) > 0 {
		reservations, err = unit.Reservations().Intersecting(ctx, ids, fetchWindow(window, today))
		if err != nil {
			return dto.AvailabilityBoard{}, fmt.Errorf("load reservations: %w", err)
		}
		if !window.Inverted() {
			overrides, err = unit.Overrides().InWindow(ctx, ids, window)
			if err != nil {
				return dto.AvailabilityBoard{}, fmt.Errorf("load overrides: %w", err)
			}
		}
	}

	start := time.Now()
	result := domain.BuildMatrix(domain.Input{
		Properties:   props,
		Reservations: reservations,
		Overrides:    overrides,
		Window:       window,
		Today:        today,
	})
	r.observer().ObserveBuild(result, time.Since(start))
	r.reportIntegrity(caller, window, result)

	return dto.MapBoard(window, daterange.Key(today), locale, result, r.Translate), nil
}

// fetchWindow widens the window to today so the occupied-today flag sees
// reservations outside the rendered days.
func fetchWindow(window daterange.DateRange, today time.Time) daterange.DateRange {
	if window.Inverted() {
		return daterange.DateRange{Start: today, End: today}
	}
	fetch := window
	if today.Before(fetch.Start) {
		fetch.Start = today
	}
	if today.After(fetch.End) {
		fetch.End = today
	}
	return fetch
}

func (r *Renderer) reportIntegrity(ctx context.Context, window daterange.DateRange, result domain.Result) {
	logger := r.logger()
	for _, s := range result.Skipped {
		logger.WarnContext(ctx, "availability row skipped", "kind", s.Kind, "loft_id", s.PropertyID, "ref", s.Ref, "error", s.Err)
	}
	for _, d := range result.Duplicates {
		logger.WarnContext(ctx, "duplicate override", "loft_id", d.PropertyID, "day", d.Day, "replaced_reason", d.Replaced.Reason, "kept_reason", d.Kept.Reason)
	}
	now := r.now()
	ev, ok := domain.IntegrityEvent(window, result, now)
	if !ok {
		return
	}
	// Inside a command the event commits with the command's unit of work.
	if outbox.Raise(ctx, ev) {
		return
	}
	if r.Outbox == nil {
		return
	}
	fp, fresh := r.integrity.claim(ev, now, r.IntegrityQuiet)
	if !fresh {
		logger.DebugContext(ctx, "integrity event suppressed", "from", ev.From, "to", ev.To)
		return
	}
	if err := outbox.RecordDomainEvents(ctx, r.Outbox, r.Encoder, []events.DomainEvent{ev}); err != nil {
		r.integrity.release(fp)
		logger.ErrorContext(ctx, "integrity event not recorded", "error", err)
		return
	}
	if err := r.Outbox.Flush(ctx); err != nil {
		logger.ErrorContext(ctx, "outbox flush failed", "error", err)
	}
}

func (r *Renderer) today() time.Time {
	now := r.now()
	if r.Location != nil {
		now = now.In(r.Location)
	}
	return daterange.Truncate(now)
}

func (r *Renderer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Renderer) observer() policies.BuildObserver {
	if r.Observer == nil {
		return policies.NopObserver{}
	}
	return r.Observer
}

func (r *Renderer) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func toPropertyIDs(raw []string) []domain.PropertyID {
	if len(raw) == 0 {
		return nil
	}
	ids := make([]domain.PropertyID, 0, len(raw))
	for _, id := range raw {
		if id != "" {
			ids = append(ids, domain.PropertyID(id))
		}
	}
	return ids
}
