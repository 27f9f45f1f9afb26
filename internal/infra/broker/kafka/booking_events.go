package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IBM/sarama"

	"loftcal/internal/app/commands"
	reservationsapp "loftcal/internal/app/handlers/reservations"
)

var ErrMalformedEvent = errors.New("kafka: malformed booking event")

// Inbox remembers which events were already applied.
type Inbox interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// BookingEvent is the CloudEvents envelope the booking system publishes.
type BookingEvent struct {
	ID   string           `json:"id"`
	Type string           `json:"type"`
	Data BookingEventData `json:"data"`
}

type BookingEventData struct {
	BookingID string `json:"booking_id"`
	LoftID    string `json:"loft_id"`
	ListingID string `json:"listing_id"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Status    string `json:"status"`
}

func DecodeBookingEvent(raw []byte) (BookingEvent, error) {
	var ev BookingEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return BookingEvent{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if strings.TrimSpace(ev.ID) == "" || strings.TrimSpace(ev.Type) == "" {
		return BookingEvent{}, fmt.Errorf("%w: id and type are required", ErrMalformedEvent)
	}
	return ev, nil
}

// action is the event type without its namespace and version:
// "booking.cancelled.v1" -> "cancelled".
func (e BookingEvent) action() string {
	name := strings.TrimSuffix(strings.ToLower(e.Type), ".v1")
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}

// Command maps the event onto the reservation projection. An explicit status
// in the payload wins over the one implied by the event type.
func (e BookingEvent) Command() reservationsapp.ProjectBookingCommand {
	loft := e.Data.LoftID
	if loft == "" {
		loft = e.Data.ListingID
	}
	cmd := reservationsapp.ProjectBookingCommand{
		BookingID:  e.Data.BookingID,
		PropertyID: loft,
		CheckIn:    e.Data.CheckIn,
		CheckOut:   e.Data.CheckOut,
		Status:     e.Data.Status,
	}
	switch e.action() {
	case "cancelled", "declined", "expired", "deleted":
		cmd.Deleted = true
	case "requested":
		if cmd.Status == "" {
			cmd.Status = "pending"
		}
	case "accepted", "confirmed":
		if cmd.Status == "" {
			cmd.Status = "confirmed"
		}
	}
	return cmd
}

// BookingEvents applies booking events to the reservation projection once per event id.
type BookingEvents struct {
	Commands commands.Bus
	Inbox    Inbox
	Logger   *slog.Logger
}

func (h BookingEvents) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	ev, err := DecodeBookingEvent(msg.Value)
	if err != nil {
		return err
	}
	if h.Inbox != nil {
		seen, err := h.Inbox.Seen(ctx, ev.ID)
		if err != nil {
			return err
		}
		if seen {
			h.log().DebugContext(ctx, "booking event already applied", "event_id", ev.ID)
			return nil
		}
	}
	outcome, err := commands.Dispatch[reservationsapp.ProjectBookingCommand, reservationsapp.Projection](ctx, h.Commands, ev.Command())
	if err != nil {
		if h.Inbox != nil {
			if forgetErr := h.Inbox.Forget(ctx, ev.ID); forgetErr != nil {
				err = errors.Join(err, forgetErr)
			}
		}
		return fmt.Errorf("apply %s %s: %w", ev.Type, ev.ID, err)
	}
	h.log().InfoContext(ctx, "reservation projected", "event_id", ev.ID, "booking_id", ev.Data.BookingID, "outcome", outcome)
	return nil
}

func (h BookingEvents) log() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

var _ MessageHandler = BookingEvents{}
