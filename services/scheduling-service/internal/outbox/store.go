package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	otelx "github.com/brotasbeauty/scheduler/libs/otel"
)

// Store persists events until a publish callback accepts them.
type Store interface {
	Insert(ctx context.Context, evt Event) error
	// Drain hands up to limit unpublished records to publish and marks them published
	// only when publish succeeds.
	Drain(ctx context.Context, limit int, publish func(context.Context, []Record) error) (int, error)
}

// MemoryStore keeps the outbox in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	lastID  int64
	pending []Record
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Insert(ctx context.Context, evt Event) error {
	traceparent, tracestate := otelx.TraceContextStrings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	s.pending = append(s.pending, Record{
		ID:            s.lastID,
		EventID:       uuid.NewString(),
		AggregateType: evt.AggregateType,
		AggregateID:   evt.AggregateID,
		EventType:     evt.EventType,
		Payload:       evt.Payload,
		Traceparent:   traceparent,
		Tracestate:    tracestate,
		CreatedAt:     s.now(),
	})
	return nil
}

func (s *MemoryStore) Drain(ctx context.Context, limit int, publish func(context.Context, []Record) error) (int, error) {
	s.mu.Lock()
	n := min(limit, len(s.pending))
	batch := make([]Record, n)
	copy(batch, s.pending[:n])
	s.mu.Unlock()

	if n == 0 {
		return 0, nil
	}
	if err := publish(ctx, batch); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Inserts only append, so the published batch is still the head of the queue.
	s.pending = s.pending[n:]
	return n, nil
}

// Pending returns a copy of the unpublished records.
func (s *MemoryStore) Pending() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.pending))
	copy(out, s.pending)
	return out
}
