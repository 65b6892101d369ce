package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/brotasbeauty/scheduler/libs/auth"
	"github.com/brotasbeauty/scheduler/libs/httpx"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/reporting"
	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/scheduling"
)

const RoleAdmin = "admin"

// AdminConfig describes the single administrator identity.
type AdminConfig struct {
	Username     string
	DisplayName  string
	PasswordHash string
	TokenSecret  string
	TokenTTL     time.Duration
}

type AdminHandler struct {
	facade *scheduling.Facade
	logger *slog.Logger
	cfg    AdminConfig
	now    func() time.Time
}

func NewAdminHandler(facade *scheduling.Facade, logger *slog.Logger, cfg AdminConfig) *AdminHandler {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	return &AdminHandler{facade: facade, logger: logger, cfg: cfg, now: time.Now}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type adminUser struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      adminUser `json:"user"`
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadBody(w, err)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, codeInvalidRequest, "username and password are required")
		return
	}
	if req.Username != h.cfg.Username || auth.VerifyPassword(h.cfg.PasswordHash, req.Password) != nil {
		h.logger.Warn("admin login rejected", "username", req.Username)
		httpx.WriteError(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials")
		return
	}

	now := h.now()
	exp := now.Add(h.cfg.TokenTTL)
	token, err := auth.SignHS256(auth.Claims{
		ID:   uuid.NewString(),
		Sub:  h.cfg.Username,
		Name: h.cfg.DisplayName,
		Role: RoleAdmin,
		Iat:  now.Unix(),
		Exp:  exp.Unix(),
	}, h.cfg.TokenSecret)
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	h.logger.Info("admin logged in", "username", req.Username)
	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: time.Unix(exp.Unix(), 0).UTC(),
		User:      adminUser{Username: h.cfg.Username, Name: h.cfg.DisplayName, Role: RoleAdmin},
	})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var asOf time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		d, err := model.ParseDate(raw)
		if err != nil {
			writeDomainError(w, h.logger, err)
			return
		}
		asOf = d
	}
	httpx.WriteJSON(w, http.StatusOK, h.facade.Dashboard(r.Context(), asOf))
}

func (h *AdminHandler) Reports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rng, err := model.ParseDateRange(q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeDomainError(w, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h.facade.Report(r.Context(), reporting.ParseType(q.Get("type")), rng))
}

type claimsKey struct{}

// ClaimsFromContext returns the verified admin claims set by RequireAdmin.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RequireAdmin admits requests carrying a valid admin bearer token.
func (h *AdminHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if !strings.HasPrefix(header, "Bearer ") || token == "" {
			httpx.WriteError(w, http.StatusUnauthorized, codeUnauthorized, "missing or invalid Authorization header")
			return
		}
		claims, err := auth.ParseAndVerifyHS256(token, h.cfg.TokenSecret, h.now())
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
			return
		}
		if claims.Role != RoleAdmin {
			httpx.WriteError(w, http.StatusForbidden, codeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}
