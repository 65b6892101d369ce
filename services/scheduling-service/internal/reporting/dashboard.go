package reporting

import (
	"time"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

const recentLimit = 10

type Popularity struct {
	Name    string        `json:"name"`
	Service model.Service `json:"service"`
	Count   int           `json:"count"`
	Revenue float64       `json:"revenue"`
}

// StaticStats are configured figures shown on the dashboard as-is.
type StaticStats struct {
	TotalRevenue    float64      `json:"total_revenue"`
	AverageRating   float64      `json:"average_rating"`
	PopularServices []Popularity `json:"popular_services"`
}

func DefaultStaticStats() StaticStats {
	return StaticStats{
		TotalRevenue:  12500,
		AverageRating: 4.8,
		PopularServices: []Popularity{
			{Name: "Nails", Service: model.ServiceNails, Count: 45, Revenue: 4500},
			{Name: "Eyebrows", Service: model.ServiceEyebrows, Count: 32, Revenue: 2400},
			{Name: "Lashes", Service: model.ServiceLashes, Count: 28, Revenue: 4200},
			{Name: "Skincare", Service: model.ServiceSkincare, Count: 15, Revenue: 1400},
		},
	}
}

type DashboardStats struct {
	TodayBookings        int `json:"today_bookings"`
	WeekBookings         int `json:"week_bookings"`
	TotalClients         int `json:"total_clients"`
	PendingConfirmations int `json:"pending_confirmations"`
	TotalAppointments    int `json:"total_appointments"`
}

type DashboardSummary struct {
	AsOf            string                `json:"as_of"`
	Stats           DashboardStats        `json:"stats"`
	ByService       map[model.Service]int `json:"by_service"`
	Revenue         float64               `json:"revenue"`
	AverageRating   float64               `json:"average_rating"`
	PopularServices []Popularity          `json:"popular_services"`
	RecentBookings  []model.Appointment   `json:"recent_bookings"`
}

// Dashboard summarizes appts as of the calendar day asOf.
func (e *Engine) Dashboard(appts []model.Appointment, asOf time.Time) DashboardSummary {
	today := asOf.Format(model.DateLayout)
	week := model.LastDays(model.CivilDate(asOf, nil), 7)

	var stats DashboardStats
	clients := make(map[string]struct{})
	for _, a := range appts {
		if a.Date == today {
			stats.TodayBookings++
			if a.Status == model.StatusPending {
				stats.PendingConfirmations++
			}
		}
		if week.ContainsDate(a.Date) {
			stats.WeekBookings++
		}
		clients[a.ClientPhone] = struct{}{}
	}
	stats.TotalClients = len(clients)
	stats.TotalAppointments = len(appts)

	recent := newestFirst(appts)
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	popular := make([]Popularity, len(e.Static.PopularServices))
	copy(popular, e.Static.PopularServices)

	return DashboardSummary{
		AsOf:            today,
		Stats:           stats,
		ByService:       byService(appts),
		Revenue:         e.Static.TotalRevenue,
		AverageRating:   e.Static.AverageRating,
		PopularServices: popular,
		RecentBookings:  recent,
	}
}
