package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dertobiunddasbo/bsp-media-sub001/internal/middleware"
	"github.com/dertobiunddasbo/bsp-media-sub001/internal/transport"
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type Handler struct {
	storage  Storage
	maxBytes int64
	log      *slog.Logger
}

func NewHandler(storage Storage, maxBytes int64, log *slog.Logger) *Handler {
	return &Handler{
		storage:  storage,
		maxBytes: maxBytes,
		log:      log,
	}
}

// UploadImage accepts a multipart form with a "file" part. The content type
// is sniffed from the bytes, not trusted from the client header.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+4096)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge) {
			log.Warn("upload: body too large", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusRequestEntityTooLarge, "file too large", nil)
			return
		}
		log.Warn("upload: malformed multipart body", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Warn("upload: missing file part")
		transport.WriteError(w, http.StatusBadRequest, "missing file", nil)
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		log.Warn("upload: file too large", slog.Int64("size", header.Size))
		transport.WriteError(w, http.StatusRequestEntityTooLarge, "file too large", nil)
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		log.Error("upload: read failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !allowedTypes[contentType] {
		log.Warn("upload: unsupported type", slog.String("content_type", contentType))
		transport.WriteError(w, http.StatusBadRequest, "unsupported image type", nil)
		return
	}

	reader := io.MultiReader(bytes.NewReader(head), file)

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	objectPath, url, err := h.storage.PutImage(ctx, header.Filename, contentType, reader, header.Size)
	if err != nil {
		log.Error("upload: storage failed", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "upload failed", nil)
		return
	}

	log.Info("upload: ok",
		slog.String("path", objectPath),
		slog.Int64("size", header.Size),
		slog.String("content_type", contentType),
	)
	transport.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"path":    objectPath,
		"url":     url,
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
