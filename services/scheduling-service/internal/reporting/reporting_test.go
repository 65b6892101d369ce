package reporting

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

func appt(id int64, date, clock string, svc model.Service, status model.Status) model.Appointment {
	return model.Appointment{
		ID:          id,
		ClientName:  "Client",
		ClientPhone: "1499100000" + string(rune('0'+id%10)),
		Service:     svc,
		Date:        date,
		Time:        clock,
		Status:      status,
		CreatedAt:   time.Date(2024, 12, 1, 0, 0, int(id), 0, time.UTC),
	}
}

// December 2024: the 2nd is a Monday, the 8th a Sunday.
func sample() []model.Appointment {
	return []model.Appointment{
		appt(1, "2024-12-02", "08:00", model.ServiceNails, model.StatusPending),
		appt(2, "2024-12-03", "08:30", model.ServiceNails, model.StatusConfirmed),
		appt(3, "2024-12-04", "10:00", model.ServiceLashes, model.StatusConfirmed),
		appt(4, "2024-12-07", "17:30", model.ServiceSkincare, model.StatusPending),
		appt(5, "2024-12-09", "14:00", model.ServiceEyebrows, model.StatusPending),
		appt(6, "2024-12-20", "09:00", model.ServiceNails, model.StatusPending),
		appt(7, "2025-01-02", "09:00", model.ServiceNails, model.StatusPending),
	}
}

func sum(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += b.Count
	}
	return n
}

func december(t *testing.T) model.DateRange {
	t.Helper()
	r, err := model.ParseDateRange("2024-12-01", "2024-12-31")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return r
}

func TestReport_Daily(t *testing.T) {
	rep := NewEngine(100, DefaultStaticStats()).Report(sample(), TypeDaily, december(t))
	if rep.Summary.Total != 6 {
		t.Fatalf("expected total 6, got %d", rep.Summary.Total)
	}
	if len(rep.ByHour) != 10 || rep.ByHour[0].Key != "08:00" || rep.ByHour[9].Key != "17:00" {
		t.Fatalf("unexpected hour buckets: %+v", rep.ByHour)
	}
	if rep.ByHour[0].Count != 2 || rep.ByHour[9].Count != 1 {
		t.Fatalf("unexpected hour counts: %+v", rep.ByHour)
	}
	if sum(rep.ByHour) != rep.Summary.Total {
		t.Fatalf("hour buckets sum %d, total %d", sum(rep.ByHour), rep.Summary.Total)
	}
	if c := rep.Summary.StatusCounts; c == nil || c.Confirmed != 2 || c.Pending != 4 {
		t.Fatalf("unexpected status counts: %+v", c)
	}
}

func TestReport_WeeklySumsToTotal(t *testing.T) {
	rep := NewEngine(100, DefaultStaticStats()).Report(sample(), TypeWeekly, december(t))
	if len(rep.ByDay) != 6 || rep.ByDay[0].Key != "Monday" || rep.ByDay[5].Key != "Saturday" {
		t.Fatalf("unexpected day buckets: %+v", rep.ByDay)
	}
	if sum(rep.ByDay) != rep.Summary.Total {
		t.Fatalf("day buckets sum %d, total %d", sum(rep.ByDay), rep.Summary.Total)
	}
	n := 0
	for _, c := range rep.Summary.ByService {
		n += c
	}
	if n != rep.Summary.Total || rep.Summary.ByService[model.ServiceNails] != 3 {
		t.Fatalf("unexpected service breakdown: %+v", rep.Summary.ByService)
	}
}

func TestReport_WeeklySkipsSunday(t *testing.T) {
	appts := []model.Appointment{appt(1, "2024-12-08", "10:00", model.ServiceNails, model.StatusPending)}
	rep := NewEngine(100, DefaultStaticStats()).Report(appts, TypeWeekly, model.DateRange{})
	if rep.Summary.Total != 1 || sum(rep.ByDay) != 0 {
		t.Fatalf("sunday should count in total only: %+v", rep)
	}
}

func TestReport_Monthly(t *testing.T) {
	rep := NewEngine(100, DefaultStaticStats()).Report(sample(), TypeMonthly, december(t))
	if sum(rep.ByWeek) != rep.Summary.Total {
		t.Fatalf("week buckets sum %d, total %d", sum(rep.ByWeek), rep.Summary.Total)
	}
	if rep.Summary.Estimate == nil || rep.Summary.Revenue != 600 || rep.Summary.AveragePerDay != 0.2 {
		t.Fatalf("unexpected estimate: %+v", rep.Summary.Estimate)
	}
	// Dec 2-7 fall in week 49, Dec 9 in week 50, Dec 20 in week 51.
	want := []Bucket{{"49", 4}, {"50", 1}, {"51", 1}}
	if len(rep.ByWeek) != len(want) {
		t.Fatalf("unexpected weeks: %+v", rep.ByWeek)
	}
	for i := range want {
		if rep.ByWeek[i] != want[i] {
			t.Fatalf("week %d: got %+v want %+v", i, rep.ByWeek[i], want[i])
		}
	}
}

func TestReport_DefaultShape(t *testing.T) {
	rep := NewEngine(100, DefaultStaticStats()).Report(sample(), ParseType("bogus"), model.DateRange{})
	if rep.Type != TypeSummary || rep.Summary.Total != 7 {
		t.Fatalf("unexpected summary report: %+v", rep)
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"by_service":{}`) || !strings.Contains(string(raw), `"by_day":{}`) {
		t.Fatalf("expected empty groupings in %s", raw)
	}
	if strings.Contains(string(raw), "by_hour") || strings.Contains(string(raw), "revenue") {
		t.Fatalf("unexpected fields in %s", raw)
	}
}

func TestReport_IsPure(t *testing.T) {
	e := NewEngine(100, DefaultStaticStats())
	a, _ := json.Marshal(e.Report(sample(), TypeMonthly, december(t)))
	b, _ := json.Marshal(e.Report(sample(), TypeMonthly, december(t)))
	if string(a) != string(b) {
		t.Fatalf("reports differ:\n%s\n%s", a, b)
	}
}

func TestWeekNumber(t *testing.T) {
	cases := map[string]int{
		"2024-01-01": 1, // Monday
		"2024-01-06": 1,
		"2024-01-07": 2, // first Sunday starts week 2
		"2023-01-01": 1, // Sunday
		"2023-01-08": 2,
		"2024-12-31": 53,
	}
	for date, want := range cases {
		d, _ := time.Parse(model.DateLayout, date)
		if got := WeekNumber(d); got != want {
			t.Fatalf("%s: week %d, want %d", date, got, want)
		}
	}
}

func TestDashboard(t *testing.T) {
	appts := sample()
	appts = append(appts, appt(8, "2024-12-20", "10:00", model.ServiceLashes, model.StatusConfirmed))
	appts[7].ClientPhone = appts[5].ClientPhone

	asOf := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)
	d := NewEngine(100, DefaultStaticStats()).Dashboard(appts, asOf)
	if d.Stats.TodayBookings != 2 || d.Stats.PendingConfirmations != 1 {
		t.Fatalf("unexpected today stats: %+v", d.Stats)
	}
	// window is Dec 14-20
	if d.Stats.WeekBookings != 2 {
		t.Fatalf("expected 2 bookings in week, got %d", d.Stats.WeekBookings)
	}
	if d.Stats.TotalClients != 7 || d.Stats.TotalAppointments != 8 {
		t.Fatalf("unexpected totals: %+v", d.Stats)
	}
	if len(d.RecentBookings) != 8 || d.RecentBookings[0].ID != 8 {
		t.Fatalf("unexpected recent bookings order: %+v", d.RecentBookings)
	}
	if d.Revenue != 12500 || d.AverageRating != 4.8 || len(d.PopularServices) != 4 {
		t.Fatalf("unexpected static figures: %+v", d)
	}
}

func TestDashboard_RecentCapped(t *testing.T) {
	var appts []model.Appointment
	for i := int64(1); i <= 15; i++ {
		appts = append(appts, appt(i, "2024-12-20", "10:00", model.ServiceNails, model.StatusPending))
	}
	d := NewEngine(100, DefaultStaticStats()).Dashboard(appts, time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC))
	if len(d.RecentBookings) != 10 || d.RecentBookings[0].ID != 15 || d.RecentBookings[9].ID != 6 {
		t.Fatalf("unexpected recent bookings: %d", len(d.RecentBookings))
	}
}
