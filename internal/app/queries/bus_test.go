package queries

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type boardQuery struct{ From, To string }

func (boardQuery) Key() string { return "test.board" }

func TestAskTyped(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[boardQuery, string](bus, boardQuery{}.Key(), HandlerFunc[boardQuery, string](func(_ context.Context, q boardQuery) (string, error) {
		return q.From + ".." + q.To, nil
	}))

	got, err := Ask[boardQuery, string](context.Background(), bus, boardQuery{From: "2024-05-01", To: "2024-05-07"})
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got != "2024-05-01..2024-05-07" {
		t.Fatalf("unexpected result %q", got)
	}

	_, err = Ask[boardQuery, int](context.Background(), bus, boardQuery{})
	if !errors.Is(err, ErrResultType) || !strings.Contains(err.Error(), "test.board") {
		t.Fatalf("expected ErrResultType naming the query, got %v", err)
	}
	if _, err := Ask[boardQuery, string](context.Background(), nil, boardQuery{}); !errors.Is(err, ErrNilBus) {
		t.Fatalf("expected ErrNilBus, got %v", err)
	}
}

func TestAskUnknownQuery(t *testing.T) {
	bus := NewInMemoryBus()
	if _, err := Ask[boardQuery, string](context.Background(), bus, boardQuery{}); !errors.Is(err, ErrHandlerNotFound) {
		t.Fatalf("expected ErrHandlerNotFound, got %v", err)
	}
}
