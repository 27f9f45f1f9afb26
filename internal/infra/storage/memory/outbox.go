package memory

import (
	"context"
	"sync"
	"time"

	appoutbox "loftcal/internal/app/outbox"
	infraoutbox "loftcal/internal/infra/outbox"
)

// Outbox keeps rows in memory and serves them to the relay worker in insertion order.
type Outbox struct {
	mu   sync.Mutex
	rows []*infraoutbox.EventDocument
	now  func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	doc := infraoutbox.NewDocument(record, o.now().UTC())
	o.rows = append(o.rows, &doc)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	return nil
}

// Claim hands out the oldest due row.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	for _, row := range o.rows {
		if row.State != infraoutbox.StateNew && row.State != infraoutbox.StateFailed {
			continue
		}
		if row.NextAttempt.After(now) {
			continue
		}
		row.State = infraoutbox.StateClaimed
		row.ClaimedBy = workerID
		row.ClaimedAt = now
		claimed := *row
		return &claimed, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(ctx context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if row := o.find(id); row != nil {
		row.State = infraoutbox.StateSent
		row.SentAt = o.now().UTC()
	}
	return nil
}

func (o *Outbox) MarkFailed(ctx context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if row := o.find(id); row != nil {
		row.State = infraoutbox.StateFailed
		row.NextAttempt = next
		row.LastError = errMsg
		row.Attempts++
	}
	return nil
}

// Pending lists rows not yet relayed.
func (o *Outbox) Pending() []infraoutbox.EventDocument {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []infraoutbox.EventDocument
	for _, row := range o.rows {
		if row.State != infraoutbox.StateSent {
			out = append(out, *row)
		}
	}
	return out
}

func (o *Outbox) find(id string) *infraoutbox.EventDocument {
	for _, row := range o.rows {
		if row.ID == id {
			return row
		}
	}
	return nil
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Queue = (*Outbox)(nil)
)
