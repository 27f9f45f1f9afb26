package overrides

import (
	"context"
	"errors"
	"testing"
	"time"

	"loftcal/internal/app/outbox"
	"loftcal/internal/app/uow"
	domain "loftcal/internal/domain/availability"
	"loftcal/internal/domain/shared/events"
	"loftcal/internal/infra/storage/memory"
)

func TestSetAndClearOverride(t *testing.T) {
	factory := memory.NewFactory()
	ctx := context.Background()
	if err := factory.Properties.Save(ctx, domain.Property{ID: "loft-1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	unit, _ := factory.Begin(ctx, uow.TxOptions{})
	batch := &events.Batch{}
	ctx = outbox.ContextWithBatch(uow.Bind(ctx, unit), batch)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	set := &SetOverrideHandler{Now: func() time.Time { return at }}
	res, err := set.Handle(ctx, SetOverrideCommand{PropertyID: " loft-1 ", Date: "2024-05-04", Reason: "  Usage personnel ", Actor: "ops"})
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if res.Status != "personal" || res.Reason != "Usage personnel" || res.LoftID != "loft-1" {
		t.Fatalf("unexpected result %+v", res)
	}

	clearer := &ClearOverrideHandler{Now: func() time.Time { return at }}
	if _, err := clearer.Handle(ctx, ClearOverrideCommand{PropertyID: "loft-1", Date: "2024-05-04", Actor: "ops"}); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := clearer.Handle(ctx, ClearOverrideCommand{PropertyID: "loft-1", Date: "2024-05-04", Actor: "ops"}); !errors.Is(err, domain.ErrOverrideNotFound) {
		t.Fatalf("expected ErrOverrideNotFound, got %v", err)
	}

	names := events.Names(batch.Drain())
	if len(names) != 2 || names[0] != "override.set" || names[1] != "override.cleared" {
		t.Fatalf("unexpected raised events %v", names)
	}

	if _, err := set.Handle(ctx, SetOverrideCommand{PropertyID: "ghost", Date: "2024-05-04", Actor: "ops"}); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
	if _, err := set.Handle(ctx, SetOverrideCommand{PropertyID: "loft-1", Date: "4 May", Actor: "ops"}); !errors.Is(err, domain.ErrMalformedDate) {
		t.Fatalf("expected ErrMalformedDate, got %v", err)
	}
}
