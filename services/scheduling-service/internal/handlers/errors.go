package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brotasbeauty/scheduler/libs/httpx"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/storage"
)

const (
	codeInvalidRequest = "invalid_request"
	codeNotFound       = "not_found"
	codeSlotConflict   = "slot_conflict"
	codeUnauthorized   = "unauthorized"
	codeForbidden      = "forbidden"
	codeInternal       = "internal_error"
)

// writeDomainError maps core failures to HTTP statuses. Unknown errors are logged, not echoed.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		httpx.WriteError(w, http.StatusBadRequest, codeInvalidRequest, verr.Error())
	case storage.IsNotFound(err):
		httpx.WriteError(w, http.StatusNotFound, codeNotFound, "appointment not found")
	case storage.IsConflict(err):
		httpx.WriteError(w, http.StatusConflict, codeSlotConflict, "time slot is already booked")
	default:
		logger.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func writeBadBody(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, codeInvalidRequest, "invalid json body: "+err.Error())
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, codeInvalidRequest, "invalid appointment id")
		return 0, false
	}
	return id, true
}
