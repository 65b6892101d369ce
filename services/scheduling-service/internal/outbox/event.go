package outbox

import "time"

const (
	AggregateAppointment = "appointment"

	EventAppointmentBooked    = "scheduling.appointment.booked.v1"
	EventAppointmentUpdated   = "scheduling.appointment.updated.v1"
	EventAppointmentConfirmed = "scheduling.appointment.confirmed.v1"
	EventAppointmentCancelled = "scheduling.appointment.cancelled.v1"
	EventAppointmentSynced    = "scheduling.appointment.synced.v1"
)

// Event is the domain event envelope. The Kafka topic equals EventType.
type Event struct {
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// Record is a stored event awaiting publication.
type Record struct {
	ID            int64
	EventID       string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	Traceparent   string
	Tracestate    string
	CreatedAt     time.Time
}
