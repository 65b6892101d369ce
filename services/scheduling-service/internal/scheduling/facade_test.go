package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/availability"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/catalog"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/outbox"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/reporting"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

var fixedNow = time.Date(2024, 12, 20, 13, 0, 0, 0, time.UTC) // 10:00 in São Paulo

type failingSink struct{}

func (failingSink) Insert(context.Context, outbox.Event) error { return errors.New("db down") }

func newFacade(t *testing.T, opts ...Option) (*Facade, *outbox.MemoryStore) {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.FixedZone("BRT", -3*60*60)
	}
	events := outbox.NewMemoryStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithEvents(events)}, opts...)
	f := New(
		storage.NewAppointmentStore(),
		reporting.NewEngine(100, reporting.DefaultStaticStats()),
		catalog.Default(),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		Config{Hours: availability.DefaultBusinessHours(), Location: loc},
		opts...,
	)
	return f, events
}

func draft(date, clock string) model.Draft {
	return model.Draft{ClientName: "Maria Silva", ClientPhone: "14991234567", Service: model.ServiceNails, Date: date, Time: clock}
}

func TestCreateAppointment_BuildsNotification(t *testing.T) {
	f, events := newFacade(t)
	b, err := f.CreateAppointment(context.Background(), draft("2024-12-20", "10:00"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Appointment.ID != 1 || !b.Appointment.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected appointment: %+v", b.Appointment)
	}
	if !strings.Contains(b.Notification.Text, "Maria Silva") || !strings.Contains(b.Notification.Text, "Service: Nails") {
		t.Fatalf("unexpected notification text: %q", b.Notification.Text)
	}
	prefix := "https://wa.me/" + DefaultWhatsAppNumber + "?text="
	if !strings.HasPrefix(b.Notification.Link, prefix) {
		t.Fatalf("unexpected link: %s", b.Notification.Link)
	}
	if strings.Contains(b.Notification.Link, "+") {
		t.Fatalf("spaces must be encoded as %%20: %s", b.Notification.Link)
	}
	decoded, err := url.QueryUnescape(strings.TrimPrefix(b.Notification.Link, prefix))
	if err != nil || decoded != b.Notification.Text {
		t.Fatalf("link does not round-trip: %q (%v)", decoded, err)
	}

	pending := events.Pending()
	if len(pending) != 1 || pending[0].EventType != outbox.EventAppointmentBooked || pending[0].AggregateID != "1" {
		t.Fatalf("unexpected events: %+v", pending)
	}
	var payload struct {
		Appointment model.Appointment `json:"appointment"`
	}
	if err := json.Unmarshal(pending[0].Payload, &payload); err != nil || payload.Appointment.ID != 1 {
		t.Fatalf("unexpected payload %s (%v)", pending[0].Payload, err)
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	f, events := newFacade(t)
	ctx := context.Background()
	if _, err := f.CreateAppointment(ctx, draft("2024-12-20", "10:00")); err != nil {
		t.Fatalf("create A: %v", err)
	}
	if _, err := f.CreateAppointment(ctx, draft("2024-12-20", "10:00")); !storage.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if n := len(f.ListAppointments(ctx, storage.Filter{})); n != 1 {
		t.Fatalf("expected 1 appointment, got %d", n)
	}
	if len(events.Pending()) != 1 {
		t.Fatalf("failed create must not emit events")
	}
}

func TestCreateAppointment_RejectsOutsideHours(t *testing.T) {
	f, _ := newFacade(t)
	for _, clock := range []string{"07:30", "12:00", "18:00", "10:15"} {
		_, err := f.CreateAppointment(context.Background(), draft("2024-12-20", clock))
		if !model.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", clock, err)
		}
	}
}

func TestCreateAppointment_ShortPhone(t *testing.T) {
	f, _ := newFacade(t)
	d := draft("2024-12-20", "10:00")
	d.ClientPhone = "123"
	if _, err := f.CreateAppointment(context.Background(), d); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOutboxFailureDoesNotFailBooking(t *testing.T) {
	f, _ := newFacade(t, WithEvents(failingSink{}))
	if _, err := f.CreateAppointment(context.Background(), draft("2024-12-20", "10:00")); err != nil {
		t.Fatalf("create should succeed without outbox: %v", err)
	}
}

func TestLifecycle(t *testing.T) {
	f, events := newFacade(t)
	ctx := context.Background()
	b, _ := f.CreateAppointment(ctx, draft("2024-12-20", "10:00"))
	id := b.Appointment.ID

	clock := "12:30"
	if _, err := f.UpdateAppointment(ctx, id, model.Patch{Time: &clock}); !model.IsValidation(err) {
		t.Fatalf("break time should be rejected, got %v", err)
	}
	clock = "9:00"
	updated, err := f.UpdateAppointment(ctx, id, model.Patch{Time: &clock})
	if err != nil || updated.Time != "09:00" {
		t.Fatalf("update: %+v %v", updated, err)
	}
	confirmed, err := f.ConfirmAppointment(ctx, id)
	if err != nil || confirmed.Status != model.StatusConfirmed {
		t.Fatalf("confirm: %+v %v", confirmed, err)
	}

	day, _ := f.AvailableSlots(ctx, "2024-12-20")
	if day.Available != day.Total-1 {
		t.Fatalf("expected one booked slot, got %d/%d", day.Available, day.Total)
	}

	cancelled, err := f.CancelAppointment(ctx, id)
	if err != nil || cancelled.Status != model.StatusCancelled {
		t.Fatalf("cancel: %+v %v", cancelled, err)
	}
	if _, err := f.GetAppointment(ctx, id); !storage.IsNotFound(err) {
		t.Fatalf("expected not found after cancel, got %v", err)
	}
	day, _ = f.AvailableSlots(ctx, "2024-12-20")
	if day.Available != day.Total || day.Total != 18 {
		t.Fatalf("expected all 18 slots free, got %d/%d", day.Available, day.Total)
	}

	var types []string
	for _, e := range events.Pending() {
		types = append(types, e.EventType)
	}
	want := []string{outbox.EventAppointmentBooked, outbox.EventAppointmentUpdated, outbox.EventAppointmentConfirmed, outbox.EventAppointmentCancelled}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected events %v", types)
	}
}

func TestTodayUsesBusinessLocation(t *testing.T) {
	late := time.Date(2024, 12, 21, 1, 0, 0, 0, time.UTC) // still the 20th in São Paulo
	f, _ := newFacade(t, WithClock(func() time.Time { return late }))
	ctx := context.Background()
	f.CreateAppointment(ctx, draft("2024-12-20", "15:00"))
	f.CreateAppointment(ctx, draft("2024-12-20", "09:00"))
	f.CreateAppointment(ctx, draft("2024-12-21", "09:00"))

	today := f.TodayAppointments(ctx)
	if len(today) != 2 || today[0].Time != "09:00" {
		t.Fatalf("unexpected today list: %+v", today)
	}
	dash := f.Dashboard(ctx, time.Time{})
	if dash.AsOf != "2024-12-20" || dash.Stats.TodayBookings != 2 {
		t.Fatalf("unexpected dashboard: %+v", dash.Stats)
	}
}

func TestSyncAppointments(t *testing.T) {
	f, events := newFacade(t)
	ctx := context.Background()
	batch := []model.SyncRecord{
		{SyncID: "dev-1", Draft: draft("2024-12-20", "10:00")},
		{SyncID: "dev-2", Draft: draft("2024-12-20", "bad")},
	}
	res := f.SyncAppointments(ctx, batch, time.Time{})
	if len(res.Updates) != 2 || !res.Updates[0].Synced || res.Updates[1].Synced {
		t.Fatalf("unexpected acks: %+v", res.Updates)
	}
	if !res.SyncedAt.Equal(fixedNow) {
		t.Fatalf("unexpected synced_at: %v", res.SyncedAt)
	}
	if n := len(events.Pending()); n != 1 {
		t.Fatalf("expected one synced event, got %d", n)
	}
}

func TestSyncAppointments_EventsCarryMergedState(t *testing.T) {
	f, events := newFacade(t)
	ctx := context.Background()
	first := model.SyncRecord{SyncID: "dev-1", Draft: draft("2024-12-20", "10:00")}
	second := first
	second.ClientName = "Maria S."

	f.SyncAppointments(ctx, []model.SyncRecord{first, second}, time.Time{})
	name := "Ana Paula"
	if _, err := f.UpdateAppointment(ctx, 1, model.Patch{ClientName: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var synced []string
	for _, rec := range events.Pending() {
		if rec.EventType != outbox.EventAppointmentSynced {
			continue
		}
		var evt appointmentEvent
		if err := json.Unmarshal(rec.Payload, &evt); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		synced = append(synced, evt.Appointment.ClientName)
	}
	if strings.Join(synced, ",") != "Maria Silva,Maria S." {
		t.Fatalf("unexpected synced event states: %v", synced)
	}
}

func TestReport(t *testing.T) {
	f, _ := newFacade(t)
	ctx := context.Background()
	f.CreateAppointment(ctx, draft("2024-12-20", "10:00"))
	f.CreateAppointment(ctx, draft("2024-12-21", "10:00"))
	r, _ := model.ParseDateRange("2024-12-20", "2024-12-20")
	rep := f.Report(ctx, reporting.TypeMonthly, r)
	if rep.Summary.Total != 1 || rep.Summary.Revenue != 100 {
		t.Fatalf("unexpected report: %+v", rep.Summary)
	}
}

func TestAvailableSlots_InvalidDate(t *testing.T) {
	f, _ := newFacade(t)
	if _, err := f.AvailableSlots(context.Background(), ""); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
