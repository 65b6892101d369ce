package model

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)
)

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NormalizeTime accepts H:MM or HH:MM on a 24-hour clock and returns zero-padded HH:MM.
func NormalizeTime(raw string) (string, error) {
	m := timePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", invalid("time", "must be HH:MM on a 24-hour clock")
	}
	hour, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", hour, m[2]), nil
}

// Normalize trims the draft and returns the canonical form, or the first validation failure.
func (d Draft) Normalize() (Draft, error) {
	d.ClientName = strings.TrimSpace(d.ClientName)
	d.ClientPhone = strings.TrimSpace(d.ClientPhone)
	d.ClientEmail = strings.TrimSpace(d.ClientEmail)
	d.Notes = strings.TrimSpace(d.Notes)
	d.Date = strings.TrimSpace(d.Date)
	d.Service = Service(strings.ToLower(strings.TrimSpace(string(d.Service))))

	if d.ClientName == "" {
		return Draft{}, invalid("client_name", "is required")
	}
	if d.ClientPhone == "" {
		return Draft{}, invalid("client_phone", "is required")
	}
	if !phonePattern.MatchString(d.ClientPhone) {
		return Draft{}, invalid("client_phone", "must be 10 or 11 digits")
	}
	if d.ClientEmail != "" {
		addr, err := mail.ParseAddress(d.ClientEmail)
		if err != nil || addr.Address != d.ClientEmail {
			return Draft{}, invalid("client_email", "must be a plain email address")
		}
	}
	if d.Service == "" {
		return Draft{}, invalid("service", "is required")
	}
	if !d.Service.Valid() {
		return Draft{}, invalid("service", fmt.Sprintf("unknown service %q", d.Service))
	}
	if d.Date == "" {
		return Draft{}, invalid("date", "is required")
	}
	if _, err := ParseDate(d.Date); err != nil {
		return Draft{}, err
	}
	if strings.TrimSpace(d.Time) == "" {
		return Draft{}, invalid("time", "is required")
	}
	t, err := NormalizeTime(d.Time)
	if err != nil {
		return Draft{}, err
	}
	d.Time = t
	return d, nil
}

// Draft extracts the caller-editable fields of an appointment.
func (a Appointment) Draft() Draft {
	return Draft{
		ClientName:  a.ClientName,
		ClientPhone: a.ClientPhone,
		ClientEmail: a.ClientEmail,
		Service:     a.Service,
		Date:        a.Date,
		Time:        a.Time,
		Notes:       a.Notes,
	}
}

// WithDraft overwrites the caller-editable fields of a.
func (a Appointment) WithDraft(d Draft) Appointment {
	a.ClientName = d.ClientName
	a.ClientPhone = d.ClientPhone
	a.ClientEmail = d.ClientEmail
	a.Service = d.Service
	a.Date = d.Date
	a.Time = d.Time
	a.Notes = d.Notes
	return a
}
