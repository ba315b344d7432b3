package cases

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/httpx"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/middleware"
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

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	filter := PublicListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.ListPublic(ctx, filter)
	if err != nil {
		log.Error("cases public list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("cases public list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
	})
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("cases public get: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("cases public get: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("cases public get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	images, err := h.service.ListImages(ctx, item.ID)
	if err != nil {
		log.Error("cases public get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	videos, err := h.service.ListVideos(ctx, item.ID)
	if err != nil {
		log.Error("cases public get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("cases public get: ok", slog.String("slug", slug))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"case":   item,
		"images": images,
		"videos": videos,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("cases create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("cases create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrSlugExists) {
			log.Warn("cases create: slug exists")
			transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
			return
		}
		if errors.Is(err, ErrInvalidSlug) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
			return
		}
		log.Error("cases create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("cases create: ok", slog.String("case_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteJSON(w, http.StatusCreated, item)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 50, 200)
	if err != nil {
		log.Warn("admin cases list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := AdminListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		log.Error("admin cases list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin cases list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
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

	item, err := h.service.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin cases get: not found", slog.String("case_id", id))
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("admin cases get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	images, err := h.service.ListImages(ctx, id)
	if err != nil {
		log.Error("admin cases get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	videos, err := h.service.ListVideos(ctx, id)
	if err != nil {
		log.Error("admin cases get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin cases get: ok", slog.String("case_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"case":   item,
		"images": images,
		"videos": videos,
	})
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin cases update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin cases update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin cases update: not found", slog.String("case_id", id))
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
		case errors.Is(err, ErrSlugExists):
			log.Warn("admin cases update: slug exists")
			transport.WriteError(w, http.StatusConflict, "slug already exists", nil)
		case errors.Is(err, ErrInvalidSlug):
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"slug": "invalid"})
		case errors.Is(err, ErrNoFields):
			transport.WriteError(w, http.StatusBadRequest, "no fields to update", nil)
		default:
			log.Error("admin cases update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("admin cases update: ok", slog.String("case_id", id))
	transport.WriteJSON(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
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
			log.Warn("admin cases delete: not found", slog.String("case_id", id))
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("admin cases delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin cases delete: ok", slog.String("case_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AdminReorder(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ReorderRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin cases reorder: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin cases reorder: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Reorder(ctx, req.IDs); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin cases reorder: unknown id in list")
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("admin cases reorder: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin cases reorder: ok", slog.Int("count", len(req.IDs)))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *Handler) AttachImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req AttachImageRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("case images attach: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("case images attach: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	image, err := h.service.AttachImage(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("case images attach: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("case images attach: ok", slog.String("case_id", id), slog.String("image_id", image.ID))
	transport.WriteJSON(w, http.StatusCreated, image)
}

func (h *Handler) ReorderImages(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req ReorderRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("case images reorder: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("case images reorder: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.ReorderImages(ctx, id, req.IDs); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			log.Warn("case images reorder: unknown id in list", slog.String("case_id", id))
			transport.WriteError(w, http.StatusNotFound, "case image not found", nil)
			return
		}
		log.Error("case images reorder: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("case images reorder: ok", slog.String("case_id", id), slog.Int("count", len(req.IDs)))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

func (h *Handler) DetachImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	imageID := strings.TrimSpace(r.URL.Query().Get("image_id"))
	if imageID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing image_id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DetachImage(ctx, id, imageID); err != nil {
		if errors.Is(err, ErrImageNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case image not found", nil)
			return
		}
		log.Error("case images detach: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("case images detach: ok", slog.String("case_id", id), slog.String("image_id", imageID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AttachVideo(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req AttachVideoRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("case videos attach: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("case videos attach: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	video, err := h.service.AttachVideo(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case not found", nil)
			return
		}
		log.Error("case videos attach: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("case videos attach: ok", slog.String("case_id", id), slog.String("video_id", video.ID))
	transport.WriteJSON(w, http.StatusCreated, video)
}

func (h *Handler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	videoID := strings.TrimSpace(chi.URLParam(r, "videoId"))

	var req UpdateVideoRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("case videos update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("case videos update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	video, err := h.service.UpdateVideo(ctx, id, videoID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrVideoNotFound):
			transport.WriteError(w, http.StatusNotFound, "case video not found", nil)
		case errors.Is(err, ErrNoFields):
			transport.WriteError(w, http.StatusBadRequest, "no fields to update", nil)
		default:
			log.Error("case videos update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("case videos update: ok", slog.String("case_id", id), slog.String("video_id", videoID))
	transport.WriteJSON(w, http.StatusOK, video)
}

func (h *Handler) DetachVideo(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	videoID := strings.TrimSpace(chi.URLParam(r, "videoId"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.DetachVideo(ctx, id, videoID); err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			transport.WriteError(w, http.StatusNotFound, "case video not found", nil)
			return
		}
		log.Error("case videos detach: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("case videos detach: ok", slog.String("case_id", id), slog.String("video_id", videoID))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
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
