package scheduling

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/availability"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/reporting"
)

type DayAvailability struct {
	Date      string                     `json:"date"`
	Hours     availability.BusinessHours `json:"business_hours"`
	Slots     []availability.Slot        `json:"slots"`
	Total     int                        `json:"total"`
	Available int                        `json:"available"`
}

func (f *Facade) AvailableSlots(ctx context.Context, date string) (day DayAvailability, err error) {
	_, span := f.start(ctx, "AvailableSlots", attribute.String("date", date))
	defer func() { endSpan(span, err) }()

	times, err := availability.GenerateSlots(date, f.cfg.Hours)
	if err != nil {
		return DayAvailability{}, err
	}
	slots, err := availability.Availability(date, times, f.store.List(dayFilter(date)))
	if err != nil {
		return DayAvailability{}, err
	}
	day = DayAvailability{Date: date, Hours: f.cfg.Hours, Slots: slots, Total: len(slots)}
	for _, s := range slots {
		if s.Available {
			day.Available++
		}
	}
	return day, nil
}

// Dashboard summarizes the store as of asOf; a zero asOf means today.
func (f *Facade) Dashboard(ctx context.Context, asOf time.Time) reporting.DashboardSummary {
	_, span := f.start(ctx, "Dashboard")
	defer span.End()

	if asOf.IsZero() {
		asOf = f.Today()
	}
	return f.reports.Dashboard(f.store.Snapshot(), asOf)
}

func (f *Facade) Report(ctx context.Context, typ reporting.Type, r model.DateRange) reporting.Report {
	_, span := f.start(ctx, "Report", attribute.String("report.type", string(typ)))
	defer span.End()

	return f.reports.Report(f.store.Snapshot(), typ, r)
}
