package pages

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
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.List(ctx)
	if err != nil {
		log.Error("admin pages list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin pages list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSections, err := h.service.GetWithSections(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin pages get: not found", slog.String("page_id", id))
			transport.WriteError(w, http.StatusNotFound, "page not found", nil)
			return
		}
		log.Error("admin pages get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin pages get: ok", slog.String("page_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"page":     page,
		"sections": pageSections,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("pages create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("pages create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	page, pageSections, err := h.service.Create(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "pages create", err)
		return
	}

	log.Info("pages create: ok", slog.String("page_id", page.ID), slog.String("slug", page.Slug))
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"page":     page,
		"sections": pageSections,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("pages update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("pages update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	page, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log, "pages update", err)
		return
	}

	log.Info("pages update: ok", slog.String("page_id", id))
	transport.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("pages delete: not found", slog.String("page_id", id))
			transport.WriteError(w, http.StatusNotFound, "page not found", nil)
			return
		}
		log.Error("pages delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("pages delete: ok", slog.String("page_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) PublicSections(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}
	sectionKey := strings.TrimSpace(r.URL.Query().Get("section_key"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page, pageSections, err := h.service.PublicSections(ctx, slug, sectionKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("pages public sections: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "page not found", nil)
			return
		}
		log.Error("pages public sections: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("pages public sections: ok",
		slog.String("slug", slug),
		slog.Int("count", len(pageSections)),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"page":     page,
		"sections": pageSections,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	var shapeErr *sections.ShapeError
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "page not found", nil)
	case errors.Is(err, ErrSlugExists):
		log.Warn(op + ": slug exists")
		transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
	case errors.Is(err, ErrInvalidSlug):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
	case errors.Is(err, ErrNoFields):
		transport.WriteError(w, http.StatusBadRequest, "no fields to update", nil)
	case errors.Is(err, sections.ErrUnknownKey):
		log.Warn(op + ": unknown section key")
		transport.WriteError(w, http.StatusBadRequest, "unknown section key", nil)
	case errors.As(err, &shapeErr):
		log.Warn(op+": invalid section content", slog.String("section", shapeErr.Key))
		transport.WriteError(w, http.StatusBadRequest, "invalid section content", map[string]string{shapeErr.Key: shapeErr.Reason})
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
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
