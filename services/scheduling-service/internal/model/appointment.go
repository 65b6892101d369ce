package model

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

type Service string

const (
	ServiceNails    Service = "nails"
	ServiceEyebrows Service = "eyebrows"
	ServiceLashes   Service = "lashes"
	ServiceSkincare Service = "skincare"
)

// Services lists the bookable categories in catalog order.
var Services = []Service{ServiceNails, ServiceEyebrows, ServiceLashes, ServiceSkincare}

func (s Service) Valid() bool {
	for _, known := range Services {
		if s == known {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID          int64     `json:"id"`
	SyncID      string    `json:"sync_id,omitempty"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ClientEmail string    `json:"client_email,omitempty"`
	Service     Service   `json:"service"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes,omitempty"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Synced      bool      `json:"synced"`
}

// Occupies reports whether the appointment holds its (date, time) slot.
func (a Appointment) Occupies() bool {
	return a.Status != StatusCancelled
}

// SameSlot reports whether both appointments sit on the same date and time.
func (a Appointment) SameSlot(date, clock string) bool {
	return a.Date == date && a.Time == clock
}

// Draft is the caller-supplied part of a new appointment.
type Draft struct {
	ClientName  string  `json:"client_name"`
	ClientPhone string  `json:"client_phone"`
	ClientEmail string  `json:"client_email,omitempty"`
	Service     Service `json:"service"`
	Date        string  `json:"date"`
	Time        string  `json:"time"`
	Notes       string  `json:"notes,omitempty"`
}

// Patch carries optional replacements for an existing appointment.
type Patch struct {
	ClientName  *string  `json:"client_name,omitempty"`
	ClientPhone *string  `json:"client_phone,omitempty"`
	ClientEmail *string  `json:"client_email,omitempty"`
	Service     *Service `json:"service,omitempty"`
	Date        *string  `json:"date,omitempty"`
	Time        *string  `json:"time,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	Status      *Status  `json:"status,omitempty"`
}

// Apply returns a copy of appt with the patch fields applied. Nothing is validated here.
func (p Patch) Apply(appt Appointment) Appointment {
	if p.ClientName != nil {
		appt.ClientName = *p.ClientName
	}
	if p.ClientPhone != nil {
		appt.ClientPhone = *p.ClientPhone
	}
	if p.ClientEmail != nil {
		appt.ClientEmail = *p.ClientEmail
	}
	if p.Service != nil {
		appt.Service = *p.Service
	}
	if p.Date != nil {
		appt.Date = *p.Date
	}
	if p.Time != nil {
		appt.Time = *p.Time
	}
	if p.Notes != nil {
		appt.Notes = *p.Notes
	}
	if p.Status != nil {
		appt.Status = *p.Status
	}
	return appt
}

// SyncRecord is one appointment captured by an offline client.
type SyncRecord struct {
	SyncID string `json:"sync_id"`
	Draft
	Status    Status    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// SyncAck acknowledges one SyncRecord, in input order.
type SyncAck struct {
	SyncID string `json:"sync_id"`
	ID     int64  `json:"id,omitempty"`
	Synced bool   `json:"synced"`
	Error  string `json:"error,omitempty"`
}

type SyncResult struct {
	Updates  []SyncAck     `json:"updates"`
	Changes  []Appointment `json:"changes"`
	SyncedAt time.Time     `json:"synced_at"`
}

// SyncBatch is the upload body shared by the HTTP and Kafka sync paths.
type SyncBatch struct {
	Records  []SyncRecord `json:"records"`
	LastSync time.Time    `json:"last_sync,omitzero"`
}
