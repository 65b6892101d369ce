package catalog

import (
	"errors"
	"strings"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

var ErrUnknownService = errors.New("service not found")

type Offering struct {
	ID              model.Service `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	DurationMinutes int           `json:"duration_minutes"`
	Price           float64       `json:"price"`
	Category        string        `json:"category"`
	Available       bool          `json:"available"`
	Professionals   []string      `json:"professionals"`
}

// Catalog is a fixed, read-only list of offerings.
type Catalog struct {
	offerings []Offering
}

func New(offerings []Offering) *Catalog {
	return &Catalog{offerings: offerings}
}

func Default() *Catalog {
	return New([]Offering{
		{ID: model.ServiceNails, Name: "Nails", Description: "Full manicure and pedicure", DurationMinutes: 60, Price: 45, Category: "beauty", Available: true, Professionals: []string{"Ana", "Maria"}},
		{ID: model.ServiceEyebrows, Name: "Eyebrows", Description: "Design and henna", DurationMinutes: 45, Price: 35, Category: "facial", Available: true, Professionals: []string{"Carla"}},
		{ID: model.ServiceLashes, Name: "Lashes", Description: "Extension and lifting", DurationMinutes: 90, Price: 120, Category: "facial", Available: true, Professionals: []string{"Juliana"}},
		{ID: model.ServiceSkincare, Name: "Skincare", Description: "Facial skin cleansing", DurationMinutes: 80, Price: 90, Category: "facial", Available: true, Professionals: []string{"Beatriz"}},
	})
}

func (c *Catalog) List() []Offering {
	out := make([]Offering, len(c.offerings))
	copy(out, c.offerings)
	return out
}

func (c *Catalog) Get(id string) (Offering, error) {
	key := model.Service(strings.ToLower(strings.TrimSpace(id)))
	for _, o := range c.offerings {
		if o.ID == key {
			return o, nil
		}
	}
	return Offering{}, ErrUnknownService
}

// Name returns the display name for svc, falling back to its identifier.
func (c *Catalog) Name(svc model.Service) string {
	if o, err := c.Get(string(svc)); err == nil {
		return o.Name
	}
	return string(svc)
}
