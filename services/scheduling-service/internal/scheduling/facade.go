package scheduling

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	otelx "github.com/brotasbeauty/scheduler/libs/otel"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/availability"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/catalog"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/outbox"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/reporting"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

const DefaultWhatsAppNumber = "5514991244578"

type Config struct {
	Hours          availability.BusinessHours
	Location       *time.Location
	WhatsAppNumber string
}

// EventSink receives domain events after successful mutations.
type EventSink interface {
	Insert(ctx context.Context, evt outbox.Event) error
}

type Option func(*Facade)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) { f.now = now }
}

func WithEvents(sink EventSink) Option {
	return func(f *Facade) { f.events = sink }
}

// Facade is the single entry point used by the HTTP and Kafka layers.
type Facade struct {
	store   *storage.AppointmentStore
	reports *reporting.Engine
	catalog *catalog.Catalog
	events  EventSink
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
	tracer  trace.Tracer
}

func New(store *storage.AppointmentStore, reports *reporting.Engine, cat *catalog.Catalog, logger *slog.Logger, cfg Config, opts ...Option) *Facade {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WhatsAppNumber == "" {
		cfg.WhatsAppNumber = DefaultWhatsAppNumber
	}
	f := &Facade{
		store:   store,
		reports: reports,
		catalog: cat,
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
		tracer:  otelx.Tracer("scheduling"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) Hours() availability.BusinessHours {
	return f.cfg.Hours
}

// Today is the current calendar day in the business location.
func (f *Facade) Today() time.Time {
	return model.CivilDate(f.now(), f.cfg.Location)
}

func (f *Facade) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return f.tracer.Start(ctx, "scheduling."+op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
