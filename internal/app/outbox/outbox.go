package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loftcal/internal/domain/shared/events"
)

// EventRecord is an encoded domain event waiting to be relayed to the broker.
type EventRecord struct {
	ID         string
	Name       string
	Payload    []byte
	OccurredAt time.Time
	Aggregate  string
	Headers    map[string]string
}

type Outbox interface {
	Add(ctx context.Context, record EventRecord) error
	Flush(ctx context.Context) error
}

type EventEncoder interface {
	Encode(ev events.DomainEvent) (EventRecord, error)
}

// JSONEventEncoder marshals the event as its payload. Headers are copied onto every record.
type JSONEventEncoder struct {
	IDGenerator func() string
	Headers     map[string]string
}

func (e JSONEventEncoder) Encode(ev events.DomainEvent) (EventRecord, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return EventRecord{}, fmt.Errorf("outbox: encode %s: %w", ev.EventName(), err)
	}
	idGen := e.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	headers := make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		headers[k] = v
	}
	return EventRecord{
		ID:         idGen(),
		Name:       ev.EventName(),
		Payload:    payload,
		OccurredAt: ev.OccurredAt().UTC(),
		Aggregate:  ev.AggregateID(),
		Headers:    headers,
	}, nil
}

type headersKey struct{}

// WithHeaders attaches headers (request id, trace parent) that RecordDomainEvents
// copies onto every record written under ctx.
func WithHeaders(ctx context.Context, headers map[string]string) context.Context {
	return context.WithValue(ctx, headersKey{}, headers)
}

func headersFrom(ctx context.Context) map[string]string {
	h, _ := ctx.Value(headersKey{}).(map[string]string)
	return h
}

// RecordDomainEvents encodes evs and appends them to box in order.
func RecordDomainEvents(ctx context.Context, box Outbox, encoder EventEncoder, evs []events.DomainEvent) error {
	if box == nil || len(evs) == 0 {
		return nil
	}
	if encoder == nil {
		encoder = JSONEventEncoder{}
	}
	extra := headersFrom(ctx)
	for _, ev := range evs {
		rec, err := encoder.Encode(ev)
		if err != nil {
			return err
		}
		for k, v := range extra {
			if _, set := rec.Headers[k]; !set {
				if rec.Headers == nil {
					rec.Headers = map[string]string{}
				}
				rec.Headers[k] = v
			}
		}
		if err := box.Add(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

type batchKey struct{}

// ContextWithBatch lets command handlers raise events that the outbox middleware
// records once the handler succeeded.
func ContextWithBatch(ctx context.Context, batch *events.Batch) context.Context {
	return context.WithValue(ctx, batchKey{}, batch)
}

// Raise appends evs to the batch bound to ctx. It reports false when no batch is bound.
func Raise(ctx context.Context, evs ...events.DomainEvent) bool {
	batch, ok := ctx.Value(batchKey{}).(*events.Batch)
	if !ok || batch == nil {
		return false
	}
	batch.Add(evs...)
	return true
}
