package storage

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

type Order string

const (
	OrderCreatedDesc Order = "created_desc"
	OrderCreatedAsc  Order = "created_asc"
	OrderSchedule    Order = "schedule"
)

func ParseOrder(raw string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(raw))); o {
	case "", OrderCreatedDesc:
		return OrderCreatedDesc, nil
	case OrderCreatedAsc, OrderSchedule:
		return o, nil
	}
	return "", &model.ValidationError{Field: "order", Reason: fmt.Sprintf("unknown order %q", raw)}
}

// Filter restricts List results. Zero-valued dimensions do not restrict.
type Filter struct {
	Range   model.DateRange
	Service model.Service
	Status  model.Status
	Order   Order
}

func (f Filter) Match(a model.Appointment) bool {
	if f.Service != "" && a.Service != f.Service {
		return false
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if !f.Range.IsZero() && !f.Range.ContainsDate(a.Date) {
		return false
	}
	return true
}

// SortAppointments orders appts in place.
func SortAppointments(appts []model.Appointment, order Order) {
	switch order {
	case OrderCreatedAsc:
		slices.SortFunc(appts, func(a, b model.Appointment) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.ID, b.ID)
		})
	case OrderSchedule:
		slices.SortFunc(appts, func(a, b model.Appointment) int {
			return cmp.Or(cmp.Compare(a.Date, b.Date), cmp.Compare(a.Time, b.Time), cmp.Compare(a.ID, b.ID))
		})
	default:
		slices.SortFunc(appts, func(a, b model.Appointment) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(b.ID, a.ID)
		})
	}
}
