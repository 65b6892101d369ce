package reporting

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

type Type string

const (
	TypeDaily   Type = "daily"
	TypeWeekly  Type = "weekly"
	TypeMonthly Type = "monthly"
	TypeSummary Type = "summary"
)

// ParseType maps unknown or empty selectors to the generic summary.
func ParseType(raw string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(raw))); t {
	case TypeDaily, TypeWeekly, TypeMonthly:
		return t
	}
	return TypeSummary
}

const (
	firstReportHour = 8
	lastReportHour  = 17
	averageDays     = 30
)

var reportWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday,
}

type Bucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type StatusCounts struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
}

type Estimate struct {
	Revenue       float64 `json:"revenue"`
	AveragePerDay float64 `json:"average_per_day"`
}

// Summary flattens whichever of the optional groups are set.
type Summary struct {
	Total int `json:"total"`
	*StatusCounts
	*Estimate
	ByService map[model.Service]int `json:"by_service,omitzero"`
	ByDay     map[string]int        `json:"by_day,omitzero"`
}

// Report is built once and never mutated.
type Report struct {
	Type      Type                  `json:"type"`
	StartDate string                `json:"start_date,omitempty"`
	EndDate   string                `json:"end_date,omitempty"`
	Summary   Summary               `json:"summary"`
	ByHour    []Bucket              `json:"by_hour,omitzero"`
	ByDay     []Bucket              `json:"by_day,omitzero"`
	ByWeek    []Bucket              `json:"by_week,omitzero"`
	ByService map[model.Service]int `json:"by_service,omitzero"`
}

// Engine derives reports from read-only appointment snapshots.
type Engine struct {
	RatePerAppointment float64
	Static             StaticStats
}

func NewEngine(rate float64, static StaticStats) *Engine {
	return &Engine{RatePerAppointment: rate, Static: static}
}

func (e *Engine) Report(appts []model.Appointment, typ Type, r model.DateRange) Report {
	in := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if r.ContainsDate(a.Date) {
			in = append(in, a)
		}
	}

	rep := Report{Type: typ, Summary: Summary{Total: len(in)}}
	if !r.From.IsZero() {
		rep.StartDate = r.From.Format(model.DateLayout)
	}
	if !r.To.IsZero() {
		rep.EndDate = r.To.Format(model.DateLayout)
	}

	switch typ {
	case TypeDaily:
		rep.Summary.StatusCounts = countStatuses(in)
		rep.ByHour = byHour(in)
	case TypeWeekly:
		rep.Summary.ByService = byService(in)
		rep.ByDay = byWeekday(in)
	case TypeMonthly:
		rep.Summary.Estimate = &Estimate{
			Revenue:       e.RatePerAppointment * float64(len(in)),
			AveragePerDay: math.Round(float64(len(in))/averageDays*100) / 100,
		}
		rep.ByWeek = byWeek(in)
		rep.ByService = byService(in)
	default:
		rep.Type = TypeSummary
		rep.Summary.ByService = map[model.Service]int{}
		rep.Summary.ByDay = map[string]int{}
	}
	return rep
}

func countStatuses(appts []model.Appointment) *StatusCounts {
	var c StatusCounts
	for _, a := range appts {
		switch a.Status {
		case model.StatusConfirmed:
			c.Confirmed++
		case model.StatusPending:
			c.Pending++
		case model.StatusCancelled:
			c.Cancelled++
		}
	}
	return &c
}

func byHour(appts []model.Appointment) []Bucket {
	counts := make(map[int]int)
	for _, a := range appts {
		h, ok := hourOf(a.Time)
		if ok {
			counts[h]++
		}
	}
	out := make([]Bucket, 0, lastReportHour-firstReportHour+1)
	for h := firstReportHour; h <= lastReportHour; h++ {
		out = append(out, Bucket{Key: twoDigits(h) + ":00", Count: counts[h]})
	}
	return out
}

func hourOf(clock string) (int, bool) {
	head, _, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, false
	}
	h, err := strconv.Atoi(head)
	return h, err == nil
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// byWeekday buckets Monday through Saturday; Sunday bookings are not counted.
func byWeekday(appts []model.Appointment) []Bucket {
	counts := make(map[time.Weekday]int)
	for _, a := range appts {
		d, err := time.Parse(model.DateLayout, a.Date)
		if err == nil {
			counts[d.Weekday()]++
		}
	}
	out := make([]Bucket, 0, len(reportWeekdays))
	for _, wd := range reportWeekdays {
		out = append(out, Bucket{Key: wd.String(), Count: counts[wd]})
	}
	return out
}

func byWeek(appts []model.Appointment) []Bucket {
	counts := make(map[int]int)
	for _, a := range appts {
		d, err := time.Parse(model.DateLayout, a.Date)
		if err == nil {
			counts[WeekNumber(d)]++
		}
	}
	weeks := make([]int, 0, len(counts))
	for w := range counts {
		weeks = append(weeks, w)
	}
	slices.Sort(weeks)

	out := make([]Bucket, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, Bucket{Key: strconv.Itoa(w), Count: counts[w]})
	}
	return out
}

func byService(appts []model.Appointment) map[model.Service]int {
	out := make(map[model.Service]int)
	for _, a := range appts {
		out[a.Service]++
	}
	return out
}

// WeekNumber counts Sunday-started weeks from January 1st, which is always in week 1.
func WeekNumber(day time.Time) int {
	jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, day.Location())
	past := day.YearDay() - 1
	return (past+int(jan1.Weekday())+1+6)/7
}

func newestFirst(appts []model.Appointment) []model.Appointment {
	out := slices.Clone(appts)
	slices.SortFunc(out, func(a, b model.Appointment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
