package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"loftcal/internal/app/commands"
)

// IdempotentCommand is implemented by commands whose side effects must not repeat
// when a client retries with the same key.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	// ResultPrototype returns a pointer to a zero value of the handler result.
	ResultPrototype() any
}

type IdempotencyRecord struct {
	Key         string
	Fingerprint string
	Payload     []byte
	OccurredAt  time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

var (
	ErrIdempotencyConflict = errors.New("middleware: idempotency key reused with a different request")
	errMissingPrototype    = errors.New("middleware: idempotent command requires result prototype")
)

// Idempotency replays the stored result of a command already handled under the
// same key. Failed attempts are not stored, so clients may retry them. Records
// older than ttl are ignored; a zero ttl keeps them forever.
func Idempotency(store IdempotencyStore, ttl time.Duration) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return next.Dispatch(ctx, cmd)
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()
			fingerprint, err := fingerprintOf(cmd)
			if err != nil {
				return nil, err
			}

			rec, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if found && (ttl <= 0 || time.Since(rec.OccurredAt) < ttl) {
				if rec.Fingerprint != fingerprint {
					return nil, ErrIdempotencyConflict
				}
				return replay(idCmd, rec)
			}

			result, err := next.Dispatch(ctx, cmd)
			if err != nil {
				return nil, err
			}
			payload, err := json.Marshal(result)
			if err != nil {
				return nil, fmt.Errorf("middleware: encode idempotent result: %w", err)
			}
			record := IdempotencyRecord{Key: key, Fingerprint: fingerprint, Payload: payload, OccurredAt: time.Now().UTC()}
			if err := store.Save(ctx, record); err != nil {
				return nil, err
			}
			return result, nil
		})
	}
}

func replay(cmd IdempotentCommand, rec IdempotencyRecord) (any, error) {
	proto := cmd.ResultPrototype()
	if proto == nil {
		return nil, errMissingPrototype
	}
	if err := json.Unmarshal(rec.Payload, proto); err != nil {
		return nil, fmt.Errorf("middleware: decode idempotent result: %w", err)
	}
	return normalizePrototype(proto), nil
}

func fingerprintOf(cmd commands.Command) (string, error) {
	raw, err := json.Marshal(cmd)
	if err != nil {
		return "", fmt.Errorf("middleware: fingerprint command: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// normalizePrototype dereferences the prototype when the handler returns values.
func normalizePrototype(proto any) any {
	rv := reflect.ValueOf(proto)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return proto
}
