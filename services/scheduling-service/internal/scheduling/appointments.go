package scheduling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/availability"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/outbox"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

// Booking is a stored appointment plus the message announcing it.
type Booking struct {
	Appointment  model.Appointment `json:"appointment"`
	Notification Notification      `json:"notification"`
}

func (f *Facade) CreateAppointment(ctx context.Context, draft model.Draft) (booking Booking, err error) {
	ctx, span := f.start(ctx, "CreateAppointment")
	defer func() { endSpan(span, err) }()

	d, err := draft.Normalize()
	if err != nil {
		return Booking{}, err
	}
	if err := f.checkHours(d.Time); err != nil {
		return Booking{}, err
	}
	appt, err := f.store.Create(d, f.now())
	if err != nil {
		return Booking{}, err
	}
	span.SetAttributes(attribute.Int64("appointment.id", appt.ID))
	f.logger.Info("appointment booked", "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time, "service", appt.Service)
	f.emit(ctx, outbox.EventAppointmentBooked, appt)

	return Booking{Appointment: appt, Notification: f.notification(appt)}, nil
}

func (f *Facade) UpdateAppointment(ctx context.Context, id int64, patch model.Patch) (appt model.Appointment, err error) {
	ctx, span := f.start(ctx, "UpdateAppointment", attribute.Int64("appointment.id", id))
	defer func() { endSpan(span, err) }()

	if patch.Time != nil {
		clock, err := model.NormalizeTime(*patch.Time)
		if err != nil {
			return model.Appointment{}, err
		}
		if err := f.checkHours(clock); err != nil {
			return model.Appointment{}, err
		}
	}
	appt, err = f.store.Update(id, patch, f.now())
	if err != nil {
		return model.Appointment{}, err
	}
	f.logger.Info("appointment updated", "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)
	f.emit(ctx, outbox.EventAppointmentUpdated, appt)
	return appt, nil
}

func (f *Facade) ConfirmAppointment(ctx context.Context, id int64) (appt model.Appointment, err error) {
	ctx, span := f.start(ctx, "ConfirmAppointment", attribute.Int64("appointment.id", id))
	defer func() { endSpan(span, err) }()

	appt, err = f.store.Confirm(id, f.now())
	if err != nil {
		return model.Appointment{}, err
	}
	f.logger.Info("appointment confirmed", "appointment_id", appt.ID)
	f.emit(ctx, outbox.EventAppointmentConfirmed, appt)
	return appt, nil
}

func (f *Facade) CancelAppointment(ctx context.Context, id int64) (appt model.Appointment, err error) {
	ctx, span := f.start(ctx, "CancelAppointment", attribute.Int64("appointment.id", id))
	defer func() { endSpan(span, err) }()

	appt, err = f.store.Cancel(id, f.now())
	if err != nil {
		return model.Appointment{}, err
	}
	f.logger.Info("appointment cancelled", "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)
	f.emit(ctx, outbox.EventAppointmentCancelled, appt)
	return appt, nil
}

func (f *Facade) GetAppointment(_ context.Context, id int64) (model.Appointment, error) {
	return f.store.Find(id)
}

func (f *Facade) ListAppointments(_ context.Context, filter storage.Filter) []model.Appointment {
	return f.store.List(filter)
}

// TodayAppointments lists today's bookings in schedule order.
func (f *Facade) TodayAppointments(ctx context.Context) []model.Appointment {
	return f.ListAppointments(ctx, storage.Filter{
		Range: model.Single(f.Today()),
		Order: storage.OrderSchedule,
	})
}

func (f *Facade) SyncAppointments(ctx context.Context, batch []model.SyncRecord, lastSync time.Time) model.SyncResult {
	ctx, span := f.start(ctx, "SyncAppointments", attribute.Int("sync.records", len(batch)))
	defer span.End()

	res, merged := f.store.Sync(batch, lastSync, f.now())
	for _, appt := range merged {
		f.emit(ctx, outbox.EventAppointmentSynced, appt)
	}
	f.logger.Info("sync batch merged", "records", len(batch), "synced", len(merged), "changes", len(res.Changes))
	return res
}

func (f *Facade) checkHours(clock string) error {
	if !availability.Contains(f.cfg.Hours.Times(), clock) {
		return &model.ValidationError{Field: "time", Reason: "outside business hours"}
	}
	return nil
}

func dayFilter(date string) storage.Filter {
	d, err := model.ParseDate(date)
	if err != nil {
		return storage.Filter{}
	}
	return storage.Filter{Range: model.Single(d)}
}
