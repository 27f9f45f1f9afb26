package reservations

import (
	"context"
	"errors"
	"strings"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

const projectBookingKey = "reservations.project"

var ErrInvalidReservation = errors.New("reservations: booking event lacks id or loft")

// ProjectBookingCommand mirrors one booking change into the reservation
// projection the calendar reads from.
type ProjectBookingCommand struct {
	BookingID  string
	PropertyID string
	CheckIn    string
	CheckOut   string
	Status     string
	Deleted    bool
}

func (ProjectBookingCommand) Key() string { return projectBookingKey }

type Projection string

const (
	ProjectionUpserted Projection = "upserted"
	ProjectionRemoved  Projection = "removed"
)

type ProjectBookingHandler struct{}

// Handle stores bookings that hold their days and drops every other status.
func (h *ProjectBookingHandler) Handle(ctx context.Context, cmd ProjectBookingCommand) (Projection, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		return "", uow.ErrUnitOfWorkMissing
	}
	id := strings.TrimSpace(cmd.BookingID)
	if id == "" {
		return "", ErrInvalidReservation
	}
	status := domain.ReservationStatus(strings.ToLower(strings.TrimSpace(cmd.Status)))
	if cmd.Deleted || !status.Occupies() {
		if err := unit.Reservations().Delete(ctx, id); err != nil {
			return "", err
		}
		return ProjectionRemoved, nil
	}
	if strings.TrimSpace(cmd.PropertyID) == "" {
		return "", ErrInvalidReservation
	}
	err := unit.Reservations().Save(ctx, domain.ReservationInterval{
		ID:         id,
		PropertyID: domain.PropertyID(strings.TrimSpace(cmd.PropertyID)),
		CheckIn:    cmd.CheckIn,
		CheckOut:   cmd.CheckOut,
		Status:     status,
	})
	if err != nil {
		return "", err
	}
	return ProjectionUpserted, nil
}

var _ commands.Handler[ProjectBookingCommand, Projection] = (*ProjectBookingHandler)(nil)
