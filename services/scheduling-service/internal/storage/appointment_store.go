package storage

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

// AppointmentStore is the in-memory owner of the active appointment set.
// Every mutation runs its collision check and write under one lock.
type AppointmentStore struct {
	mu     sync.RWMutex
	lastID int64
	items  map[int64]model.Appointment
}

func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{items: make(map[int64]model.Appointment)}
}

func (s *AppointmentStore) Create(draft model.Draft, now time.Time) (model.Appointment, error) {
	d, err := draft.Normalize()
	if err != nil {
		return model.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if other, ok := s.occupantLocked(d.Date, d.Time, 0); ok {
		return model.Appointment{}, fmt.Errorf("%s %s held by appointment %d: %w", d.Date, d.Time, other.ID, ErrSlotConflict)
	}
	appt := model.Appointment{
		ID:        s.nextIDLocked(),
		Status:    model.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}.WithDraft(d)
	s.items[appt.ID] = appt
	return appt, nil
}

func (s *AppointmentStore) Update(id int64, patch model.Patch, now time.Time) (model.Appointment, error) {
	if patch.Status != nil && *patch.Status != model.StatusPending && *patch.Status != model.StatusConfirmed {
		return model.Appointment{}, &model.ValidationError{Field: "status", Reason: "must be pending or confirmed"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.items[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	next := patch.Apply(current)
	d, err := next.Draft().Normalize()
	if err != nil {
		return model.Appointment{}, err
	}
	next = next.WithDraft(d)

	if next.Date != current.Date || next.Time != current.Time {
		if other, ok := s.occupantLocked(next.Date, next.Time, id); ok {
			return model.Appointment{}, fmt.Errorf("%s %s held by appointment %d: %w", next.Date, next.Time, other.ID, ErrSlotConflict)
		}
	}
	next.ID = current.ID
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = now
	s.items[id] = next
	return next, nil
}

// Confirm is idempotent for already confirmed appointments.
func (s *AppointmentStore) Confirm(id int64, now time.Time) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.items[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	appt.Status = model.StatusConfirmed
	appt.UpdatedAt = now
	s.items[id] = appt
	return appt, nil
}

// Cancel removes the appointment and returns it with status cancelled.
func (s *AppointmentStore) Cancel(id int64, now time.Time) (model.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.items[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	delete(s.items, id)
	appt.Status = model.StatusCancelled
	appt.UpdatedAt = now
	return appt, nil
}

func (s *AppointmentStore) Find(id int64) (model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.items[id]
	if !ok {
		return model.Appointment{}, ErrNotFound
	}
	return appt, nil
}

func (s *AppointmentStore) List(f Filter) []model.Appointment {
	s.mu.RLock()
	out := make([]model.Appointment, 0, len(s.items))
	for _, a := range s.items {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	SortAppointments(out, f.Order)
	return out
}

// Snapshot returns a copy of the active set, newest first.
func (s *AppointmentStore) Snapshot() []model.Appointment {
	return s.List(Filter{})
}

func (s *AppointmentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sync merges an offline batch, last write wins per sync id. Each record commits or fails on
// its own; acknowledgements follow input order. merged holds the state each successful record
// wrote, in the same order, captured under the lock.
func (s *AppointmentStore) Sync(batch []model.SyncRecord, lastSync, now time.Time) (res model.SyncResult, merged []model.Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res = model.SyncResult{
		Updates:  make([]model.SyncAck, 0, len(batch)),
		Changes:  []model.Appointment{},
		SyncedAt: now,
	}
	touched := make(map[int64]bool, len(batch))
	for _, rec := range batch {
		appt, err := s.mergeLocked(rec, now)
		ack := model.SyncAck{SyncID: strings.TrimSpace(rec.SyncID)}
		if err != nil {
			ack.Error = err.Error()
		} else {
			ack.ID = appt.ID
			ack.Synced = true
			touched[appt.ID] = true
			merged = append(merged, appt)
		}
		res.Updates = append(res.Updates, ack)
	}

	if !lastSync.IsZero() {
		for _, a := range s.items {
			if !touched[a.ID] && a.UpdatedAt.After(lastSync) {
				res.Changes = append(res.Changes, a)
			}
		}
		SortAppointments(res.Changes, OrderCreatedAsc)
	}
	return res, merged
}

func (s *AppointmentStore) mergeLocked(rec model.SyncRecord, now time.Time) (model.Appointment, error) {
	syncID := strings.TrimSpace(rec.SyncID)
	if syncID == "" {
		return model.Appointment{}, &model.ValidationError{Field: "sync_id", Reason: "is required"}
	}
	d, err := rec.Draft.Normalize()
	if err != nil {
		return model.Appointment{}, err
	}
	if rec.Status != "" && rec.Status != model.StatusPending && rec.Status != model.StatusConfirmed {
		return model.Appointment{}, &model.ValidationError{Field: "status", Reason: "must be pending or confirmed"}
	}

	existing, found := s.bySyncIDLocked(syncID)
	var self int64
	if found {
		self = existing.ID
	}
	if other, ok := s.occupantLocked(d.Date, d.Time, self); ok {
		return model.Appointment{}, fmt.Errorf("%s %s held by appointment %d: %w", d.Date, d.Time, other.ID, ErrSlotConflict)
	}

	var appt model.Appointment
	if found {
		appt = existing.WithDraft(d)
		if rec.Status != "" {
			appt.Status = rec.Status
		}
	} else {
		appt = model.Appointment{
			ID:        s.nextIDLocked(),
			SyncID:    syncID,
			Status:    model.StatusPending,
			CreatedAt: now,
		}.WithDraft(d)
		if rec.Status != "" {
			appt.Status = rec.Status
		}
		if !rec.CreatedAt.IsZero() && !rec.CreatedAt.After(now) {
			appt.CreatedAt = rec.CreatedAt
		}
	}
	appt.Synced = true
	appt.UpdatedAt = now
	s.items[appt.ID] = appt
	return appt, nil
}

func (s *AppointmentStore) occupantLocked(date, clock string, except int64) (model.Appointment, bool) {
	for id, a := range s.items {
		if id != except && a.Occupies() && a.SameSlot(date, clock) {
			return a, true
		}
	}
	return model.Appointment{}, false
}

func (s *AppointmentStore) bySyncIDLocked(syncID string) (model.Appointment, bool) {
	for _, a := range s.items {
		if a.SyncID == syncID {
			return a, true
		}
	}
	return model.Appointment{}, false
}

func (s *AppointmentStore) nextIDLocked() int64 {
	s.lastID++
	return s.lastID
}
