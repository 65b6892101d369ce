package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/brotasbeauty/scheduler/libs/httpx"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/scheduling"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

type AppointmentHandler struct {
	facade *scheduling.Facade
	logger *slog.Logger
}

func NewAppointmentHandler(facade *scheduling.Facade, logger *slog.Logger) *AppointmentHandler {
	return &AppointmentHandler{facade: facade, logger: logger}
}

type listResponse struct {
	Count        int                 `json:"count"`
	Appointments []model.Appointment `json:"appointments"`
}

type cancelResponse struct {
	Appointment model.Appointment `json:"appointment"`
	Message     string            `json:"message"`
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d model.Draft
	if err := httpx.DecodeJSON(r, &d); err != nil {
		writeBadBody(w, err)
		return
	}
	booking, err := h.facade.CreateAppointment(r.Context(), d)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, booking)
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	appts := h.facade.ListAppointments(r.Context(), filter)
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: len(appts), Appointments: appts})
}

func (h *AppointmentHandler) Today(w http.ResponseWriter, r *http.Request) {
	appts := h.facade.TodayAppointments(r.Context())
	httpx.WriteJSON(w, http.StatusOK, listResponse{Count: len(appts), Appointments: appts})
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appt, err := h.facade.GetAppointment(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p model.Patch
	if err := httpx.DecodeJSON(r, &p); err != nil {
		writeBadBody(w, err)
		return
	}
	appt, err := h.facade.UpdateAppointment(r.Context(), id, p)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appt, err := h.facade.ConfirmAppointment(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appt, err := h.facade.CancelAppointment(r.Context(), id)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cancelResponse{Appointment: appt, Message: "appointment cancelled"})
}

func (h *AppointmentHandler) Sync(w http.ResponseWriter, r *http.Request) {
	var batch model.SyncBatch
	if err := httpx.DecodeJSON(r, &batch); err != nil {
		writeBadBody(w, err)
		return
	}
	if batch.Records == nil {
		httpx.WriteError(w, http.StatusBadRequest, codeInvalidRequest, "records is required")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.facade.SyncAppointments(r.Context(), batch.Records, batch.LastSync))
}

func (h *AppointmentHandler) Slots(w http.ResponseWriter, r *http.Request) {
	day, err := h.facade.AvailableSlots(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, day)
}

// parseFilter reads date, start_date, end_date, service, status and order.
func parseFilter(r *http.Request) (storage.Filter, error) {
	q := r.URL.Query()
	var f storage.Filter

	from, to := q.Get("start_date"), q.Get("end_date")
	if date := strings.TrimSpace(q.Get("date")); date != "" {
		from, to = date, date
	}
	rng, err := model.ParseDateRange(from, to)
	if err != nil {
		return storage.Filter{}, err
	}
	f.Range = rng

	if raw := strings.ToLower(strings.TrimSpace(q.Get("service"))); raw != "" {
		f.Service = model.Service(raw)
		if !f.Service.Valid() {
			return storage.Filter{}, &model.ValidationError{Field: "service", Reason: "unknown service " + raw}
		}
	}
	if raw := strings.ToLower(strings.TrimSpace(q.Get("status"))); raw != "" {
		f.Status = model.Status(raw)
		if !f.Status.Valid() {
			return storage.Filter{}, &model.ValidationError{Field: "status", Reason: "unknown status " + raw}
		}
	}
	if f.Order, err = storage.ParseOrder(q.Get("order")); err != nil {
		return storage.Filter{}, err
	}
	return f, nil
}
