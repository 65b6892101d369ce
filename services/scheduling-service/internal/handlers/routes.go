package handlers

import (
	"net/http"

	"github.com/brotasbeauty/scheduler/libs/httpx"
)

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var endpoints = []endpoint{
	{"GET", "/api/v1/services", "list services"},
	{"GET", "/api/v1/services/{id}", "get a service"},
	{"GET", "/api/v1/slots?date=YYYY-MM-DD", "slot availability for a day"},
	{"GET", "/api/v1/appointments", "list appointments"},
	{"GET", "/api/v1/appointments/today", "today's appointments"},
	{"POST", "/api/v1/appointments", "book an appointment"},
	{"GET", "/api/v1/appointments/{id}", "get an appointment"},
	{"PUT", "/api/v1/appointments/{id}", "update an appointment"},
	{"PUT", "/api/v1/appointments/{id}/confirm", "confirm an appointment"},
	{"DELETE", "/api/v1/appointments/{id}", "cancel an appointment"},
	{"POST", "/api/v1/appointments/sync", "merge an offline batch"},
	{"POST", "/api/v1/admin/login", "administrator login"},
	{"GET", "/api/v1/admin/dashboard", "dashboard (admin)"},
	{"GET", "/api/v1/admin/reports", "reports (admin)"},
}

type indexResponse struct {
	Service   string     `json:"service"`
	Endpoints []endpoint `json:"endpoints"`
}

// Register mounts every API route on mux.
func Register(mux *http.ServeMux, service string, appts *AppointmentHandler, cat *CatalogHandler, admin *AdminHandler) {
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, indexResponse{Service: service, Endpoints: endpoints})
	})

	mux.HandleFunc("GET /api/v1/services", cat.List)
	mux.HandleFunc("GET /api/v1/services/{id}", cat.Get)
	mux.HandleFunc("GET /api/v1/slots", appts.Slots)

	mux.HandleFunc("GET /api/v1/appointments", appts.List)
	mux.HandleFunc("POST /api/v1/appointments", appts.Create)
	mux.HandleFunc("GET /api/v1/appointments/today", appts.Today)
	mux.HandleFunc("POST /api/v1/appointments/sync", appts.Sync)
	mux.HandleFunc("GET /api/v1/appointments/{id}", appts.Get)
	mux.HandleFunc("PUT /api/v1/appointments/{id}", appts.Update)
	mux.HandleFunc("DELETE /api/v1/appointments/{id}", appts.Cancel)
	mux.HandleFunc("PUT /api/v1/appointments/{id}/confirm", appts.Confirm)

	mux.HandleFunc("POST /api/v1/admin/login", admin.Login)
	mux.Handle("GET /api/v1/admin/dashboard", admin.RequireAdmin(http.HandlerFunc(admin.Dashboard)))
	mux.Handle("GET /api/v1/admin/reports", admin.RequireAdmin(http.HandlerFunc(admin.Reports)))
}
