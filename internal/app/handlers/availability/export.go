package availability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"loftcal/internal/app/commands"
	"loftcal/internal/app/dto"
	"loftcal/internal/app/policies"
	domain "loftcal/internal/domain/availability"
)

const exportAvailabilityKey = "availability.export"

var ErrExportUnavailable = errors.New("availability: export storage not configured")

// ExportAvailabilityCommand uploads a rendered board as a JSON document.
type ExportAvailabilityCommand struct {
	PropertyIDs []string `json:"property_ids,omitempty"`
	OwnerID     string   `json:"owner_id,omitempty"`
	ZoneID      string   `json:"zone_id,omitempty"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Locale      string   `json:"locale,omitempty"`
	RequestKey  string   `json:"-"`
}

func (ExportAvailabilityCommand) Key() string { return exportAvailabilityKey }

func (c ExportAvailabilityCommand) IdempotencyKey() string { return c.RequestKey }

func (ExportAvailabilityCommand) ResultPrototype() any { return &dto.ExportResult{} }

type ExportAvailabilityHandler struct {
	Renderer *Renderer
	Store    policies.ObjectStore
	KeyGen   func() string
}

func (h *ExportAvailabilityHandler) Handle(ctx context.Context, cmd ExportAvailabilityCommand) (dto.ExportResult, error) {
	if h.Store == nil {
		return dto.ExportResult{}, ErrExportUnavailable
	}
	board, err := h.Renderer.Render(ctx, Request{
		Filter: domain.PropertyFilter{IDs: toPropertyIDs(cmd.PropertyIDs), OwnerID: cmd.OwnerID, ZoneID: cmd.ZoneID},
		From:   cmd.From,
		To:     cmd.To,
		Locale: cmd.Locale,
	})
	if err != nil {
		return dto.ExportResult{}, err
	}
	body, err := json.Marshal(board)
	if err != nil {
		return dto.ExportResult{}, fmt.Errorf("encode board: %w", err)
	}
	key := fmt.Sprintf("exports/availability/%s_%s/%s.json", board.From, board.To, h.newKey())
	url, err := h.Store.Upload(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return dto.ExportResult{}, err
	}
	return dto.ExportResult{Key: key, URL: url, Lofts: len(board.Lofts), From: board.From, To: board.To}, nil
}

func (h *ExportAvailabilityHandler) newKey() string {
	if h.KeyGen != nil {
		return h.KeyGen()
	}
	return uuid.NewString()
}

var _ commands.Handler[ExportAvailabilityCommand, dto.ExportResult] = (*ExportAvailabilityHandler)(nil)
