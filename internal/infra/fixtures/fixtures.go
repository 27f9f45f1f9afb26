// Package fixtures seeds storage from a JSON snapshot of lofts, reservations
// and overrides. Rows are stored as given; malformed dates surface later as
// skipped rows when a board is rendered.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
)

type Snapshot struct {
	Lofts        []Loft        `json:"lofts"`
	Reservations []Reservation `json:"reservations"`
	Overrides    []Override    `json:"overrides"`
}

type Loft struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	OwnerID          string `json:"owner_id"`
	ZoneID           string `json:"zone_id"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
}

type Reservation struct {
	ID       string `json:"id"`
	LoftID   string `json:"loft_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
}

type Override struct {
	LoftID      string `json:"loft_id"`
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason"`
}

// Counts reports how many rows of each kind were stored.
type Counts struct {
	Lofts        int
	Reservations int
	Overrides    int
}

func Decode(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode fixtures: %w", err)
	}
	return snap, nil
}

// ReadFile decodes path. A missing file yields an empty snapshot and found=false.
func ReadFile(path string) (snap Snapshot, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("read fixtures: %w", err)
	}
	defer f.Close()
	snap, err = Decode(f)
	if err != nil {
		return Snapshot{}, true, err
	}
	return snap, true, nil
}

// Apply stores the snapshot through unit. Rows the repositories reject are
// logged and skipped.
func (s Snapshot) Apply(ctx context.Context, unit uow.UnitOfWork, logger *slog.Logger) (Counts, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var counts Counts
	for _, l := range s.Lofts {
		if l.ID == "" {
			logger.Warn("fixture loft without id skipped", "name", l.Name)
			continue
		}
		err := unit.Properties().Save(ctx, domain.Property{
			ID:               domain.PropertyID(l.ID),
			Name:             l.Name,
			OwnerID:          l.OwnerID,
			ZoneID:           l.ZoneID,
			NightlyRateCents: l.NightlyRateCents,
		})
		if err != nil {
			return counts, fmt.Errorf("store loft %s: %w", l.ID, err)
		}
		counts.Lofts++
	}
	for _, r := range s.Reservations {
		status := domain.ReservationStatus(r.Status)
		if status == "" {
			status = domain.ReservationConfirmed
		}
		if !status.Occupies() {
			logger.Info("fixture reservation not occupying, skipped", "reservation_id", r.ID, "status", r.Status)
			continue
		}
		err := unit.Reservations().Save(ctx, domain.ReservationInterval{
			ID:         r.ID,
			PropertyID: domain.PropertyID(r.LoftID),
			CheckIn:    r.CheckIn,
			CheckOut:   r.CheckOut,
			Status:     status,
		})
		if err != nil {
			return counts, fmt.Errorf("store reservation %s: %w", r.ID, err)
		}
		counts.Reservations++
	}
	for _, o := range s.Overrides {
		err := unit.Overrides().Save(ctx, domain.ManualOverride{
			PropertyID:  domain.PropertyID(o.LoftID),
			Date:        o.Date,
			IsAvailable: o.IsAvailable,
			Reason:      o.Reason,
		})
		if err != nil {
			return counts, fmt.Errorf("store override %s/%s: %w", o.LoftID, o.Date, err)
		}
		counts.Overrides++
	}
	return counts, nil
}

// Load reads path and applies it inside one unit from factory.
func Load(ctx context.Context, factory uow.UoWFactory, path string, logger *slog.Logger) (Counts, error) {
	snap, found, err := ReadFile(path)
	if err != nil || !found {
		return Counts{}, err
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return Counts{}, err
	}
	counts, err := snap.Apply(uow.Bind(ctx, unit), unit, logger)
	if err != nil {
		_ = unit.Rollback(ctx)
		return counts, err
	}
	return counts, unit.Commit(ctx)
}
