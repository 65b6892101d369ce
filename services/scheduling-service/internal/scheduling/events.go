package scheduling

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/outbox"
)

type appointmentEvent struct {
	EventType   string            `json:"event_type"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Appointment model.Appointment `json:"appointment"`
}

// emit never fails the caller; a lost event is logged.
func (f *Facade) emit(ctx context.Context, eventType string, appt model.Appointment) {
	if f.events == nil {
		return
	}
	payload, err := json.Marshal(appointmentEvent{EventType: eventType, OccurredAt: f.now(), Appointment: appt})
	if err != nil {
		f.logger.Error("encode event failed", "err", err, "event_type", eventType)
		return
	}
	evt := outbox.Event{
		AggregateType: outbox.AggregateAppointment,
		AggregateID:   strconv.FormatInt(appt.ID, 10),
		EventType:     eventType,
		Payload:       payload,
	}
	if err := f.events.Insert(ctx, evt); err != nil {
		f.logger.Error("outbox insert failed", "err", err, "event_type", eventType, "appointment_id", appt.ID)
	}
}
