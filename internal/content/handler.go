package content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/httpx"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/middleware"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/sections"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/transport"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/validation"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	gateway *Gateway
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(gateway *Gateway, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		val:     val,
		log:     log,
	}
}

type SaveRequest struct {
	Section string                 `json:"section" validate:"required,sectionkey"`
	Page    string                 `json:"page" validate:"omitempty,slug"`
	Content map[string]interface{} `json:"content" validate:"required"`
}

// AdminGet serves GET /api/admin/content?section=&page=. Without a section
// it returns every registered section for the page, never-saved ones filled
// with registry defaults.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	sectionKey := strings.TrimSpace(r.URL.Query().Get("section"))
	pageSlug := strings.TrimSpace(r.URL.Query().Get("page"))

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if sectionKey != "" {
		doc, found, err := h.gateway.Get(ctx, sectionKey, pageSlug)
		if err != nil {
			if errors.Is(err, sections.ErrUnknownKey) {
				log.Warn("admin content get: unknown section", slog.String("section", sectionKey))
				transport.WriteError(w, http.StatusBadRequest, "unknown section", nil)
				return
			}
			log.Error("admin content get: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		log.Info("admin content get: ok", slog.String("section", sectionKey), slog.Bool("found", found))
		transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"section": sectionKey,
			"content": doc,
			"found":   found,
		})
		return
	}

	out := make(map[string]interface{}, len(sections.Keys()))
	for _, key := range sections.Keys() {
		doc, _, err := h.gateway.Get(ctx, key, pageSlug)
		if err != nil {
			log.Error("admin content get: database error",
				slog.String("section", key),
				slog.String("error", err.Error()),
			)
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
			return
		}
		out[key] = doc
	}
	log.Info("admin content get: ok", slog.Int("sections", len(out)))
	transport.WriteJSON(w, http.StatusOK, out)
}

// AdminSave serves POST /api/admin/content.
func (h *Handler) AdminSave(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SaveRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin content save: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin content save: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.gateway.Save(ctx, req.Section, req.Content, req.Page); err != nil {
		if errors.Is(err, sections.ErrUnknownKey) {
			log.Warn("admin content save: unknown section", slog.String("section", req.Section))
			transport.WriteError(w, http.StatusBadRequest, "unknown section", nil)
			return
		}
		if errors.Is(err, ErrPageNotFound) {
			log.Warn("admin content save: page not found", slog.String("page", req.Page))
			transport.WriteError(w, http.StatusNotFound, "page not found", nil)
			return
		}
		var shapeErr *sections.ShapeError
		if errors.As(err, &shapeErr) {
			log.Warn("admin content save: shape error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		log.Error("admin content save: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin content save: ok",
		slog.String("section", req.Section),
		slog.String("page", req.Page),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// PublicGet serves GET /api/content/{section}, the home-page singleton read.
func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	sectionKey := strings.TrimSpace(chi.URLParam(r, "section"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	doc, _, err := h.gateway.Get(ctx, sectionKey, HomeSlug)
	if err != nil {
		if errors.Is(err, sections.ErrUnknownKey) {
			log.Warn("content get: unknown section", slog.String("section", sectionKey))
			transport.WriteError(w, http.StatusNotFound, "unknown section", nil)
			return
		}
		log.Error("content get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("content get: ok", slog.String("section", sectionKey))
	transport.WriteJSON(w, http.StatusOK, doc)
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
