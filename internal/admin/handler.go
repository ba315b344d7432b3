package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/auth"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/config"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/httpx"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/middleware"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/transport"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/validation"
)

const (
	accessCookie  = "bsp_access"
	refreshCookie = "bsp_refresh"
)

type Handler struct {
	cfg *config.Config
	val *validation.Validator
	log *slog.Logger
}

func NewHandler(cfg *config.Config, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		cfg: cfg,
		val: val,
		log: log,
	}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if !h.configured() {
		log.Warn("admin login: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	if req.Username != h.cfg.AdminUser || !h.passwordMatches(req.Password) {
		log.Warn("admin login: invalid credentials", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	manager := h.manager()
	accessToken, err := manager.NewAccessToken("admin")
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refreshToken, err := manager.NewRefreshToken("admin")
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	setAuthCookies(w, accessToken, refreshToken, manager.AccessTTL, manager.RefreshTTL, h.cfg.CookieSecure)
	log.Info("admin login: ok", slog.String("username", req.Username))
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	if h.cfg.JWTSecret == "" {
		log.Warn("admin refresh: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}

	cookie, err := r.Cookie(refreshCookie)
	if err != nil || cookie.Value == "" {
		log.Warn("admin refresh: missing refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "missing refresh token", nil)
		return
	}

	manager := h.manager()
	claims, err := manager.Parse(cookie.Value)
	if err != nil || claims.Role != "admin" {
		log.Warn("admin refresh: invalid refresh token")
		transport.WriteError(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}

	accessToken, err := manager.NewAccessToken("admin")
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}
	refreshToken, err := manager.NewRefreshToken("admin")
	if err != nil {
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	setAuthCookies(w, accessToken, refreshToken, manager.AccessTTL, manager.RefreshTTL, h.cfg.CookieSecure)
	log.Info("admin refresh: ok")
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	clearAuthCookies(w, h.cfg.CookieSecure)
	log.Info("admin logout: ok")
	transport.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Editor settings the admin frontend needs before rendering: the rich-text
// widget key and the public site URL for preview links.
func (h *Handler) EditorConfig(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"tinymce_api_key": h.cfg.TinyMCEAPIKey,
		"site_url":        h.cfg.SiteURL,
	})
}

func (h *Handler) configured() bool {
	if h.cfg.JWTSecret == "" {
		return false
	}
	return h.cfg.AdminPasswordHash != "" || h.cfg.AdminPassword != ""
}

// passwordMatches prefers the bcrypt hash; the plain-text variable only
// exists for local development.
func (h *Handler) passwordMatches(password string) bool {
	if h.cfg.AdminPasswordHash != "" {
		return auth.ComparePassword(h.cfg.AdminPasswordHash, password) == nil
	}
	return h.cfg.AdminPassword != "" && password == h.cfg.AdminPassword
}

func (h *Handler) manager() *auth.Manager {
	return &auth.Manager{
		Secret:     []byte(h.cfg.JWTSecret),
		AccessTTL:  time.Duration(h.cfg.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(h.cfg.RefreshTTLMinutes) * time.Minute,
		Issuer:     "bsp-media-backend",
	}
}

func setAuthCookies(w http.ResponseWriter, access, refresh string, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    access,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(accessTTL.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     "/api/admin",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshTTL.Seconds()),
	})
}

func clearAuthCookies(w http.ResponseWriter, secure bool) {
	expire := time.Now().Add(-1 * time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/api/admin",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expire,
		MaxAge:   -1,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
