package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"feepay/internal/infra/dbx"
)

type EventKind string

const (
	EventInitiated    EventKind = "initiated"
	EventCallback     EventKind = "callback"
	EventTransition   EventKind = "transition"
	EventNotification EventKind = "notification"
	EventArchived     EventKind = "archived"
)

// Event is one entry in a payment's audit trail.
type Event struct {
	ID        int64           `json:"id"`
	PaymentID string          `json:"payment_id"`
	Kind      EventKind       `json:"kind"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type EventLog interface {
	Append(ctx context.Context, paymentID string, kind EventKind, payload any) error
	// Events returns a payment's events, oldest first.
	Events(ctx context.Context, paymentID string) ([]Event, error)
}

var (
	_ EventLog = (*EventRepository)(nil)
	_ EventLog = (*MemoryEventLog)(nil)
)

func encodePayload(payload any) (json.RawMessage, error) {
	if payload == nil {
		return nil, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event payload: %w", err)
	}
	return b, nil
}

// EventRepository stores events in the payment_events table.
type EventRepository struct{ q dbx.Querier }

func NewEventRepository(q dbx.Querier) *EventRepository {
	return &EventRepository{q: q}
}

func (r *EventRepository) Append(ctx context.Context, paymentID string, kind EventKind, payload any) error {
	jb, err := encodePayload(payload)
	if err != nil {
		return err
	}

	_, err = r.q.Exec(ctx, `
		INSERT INTO payment_events (payment_id, kind, payload)
		VALUES ($1, $2, $3)
	`, paymentID, string(kind), []byte(jb))
	if err != nil {
		return fmt.Errorf("insert payment_event: %w", err)
	}
	return nil
}

func (r *EventRepository) Events(ctx context.Context, paymentID string) ([]Event, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, payment_id, kind, payload, created_at
		FROM payment_events
		WHERE payment_id = $1
		ORDER BY id
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("list payment_events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			kind    string
			payload []byte
		)
		if err := rows.Scan(&e.ID, &e.PaymentID, &kind, &payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment_event: %w", err)
		}
		e.Kind = EventKind(kind)
		if len(payload) > 0 {
			e.Payload = json.RawMessage(payload)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list payment_events: %w", err)
	}
	return out, nil
}

// MemoryEventLog keeps events in process memory.
type MemoryEventLog struct {
	mu     sync.RWMutex
	events map[string][]Event
	nextID int64
	now    func() time.Time
}

func NewMemoryEventLog() *MemoryEventLog {
	return &MemoryEventLog{events: make(map[string][]Event), now: time.Now}
}

func (l *MemoryEventLog) Append(ctx context.Context, paymentID string, kind EventKind, payload any) error {
	jb, err := encodePayload(payload)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.events[paymentID] = append(l.events[paymentID], Event{
		ID:        l.nextID,
		PaymentID: paymentID,
		Kind:      kind,
		Payload:   jb,
		CreatedAt: l.now().UTC(),
	})
	return nil
}

func (l *MemoryEventLog) Events(ctx context.Context, paymentID string) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.events[paymentID]
	out := make([]Event, len(src))
	copy(out, src)
	return out, nil
}
