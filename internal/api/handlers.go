package api

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/recap-flow/internal/processor"
	"github.com/nguyentantai21042004/recap-flow/internal/store"
)

type processResponse struct {
	Notes     string   `json:"notes"`
	VideoPath string   `json:"video_path"`
	Session   string   `json:"session"`
	Degraded  []string `json:"degraded,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// process accepts multipart fields screen (required), system and mic.
func (h *handler) process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes)
	}
	if err := r.ParseMultipartForm(uploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload_too_large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_multipart", err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	var (
		uploads processor.Uploads
		opened  []multipart.File
	)
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for field, dst := range map[string]**processor.Upload{
		"screen": &uploads.Screen,
		"system": &uploads.System,
		"mic":    &uploads.Mic,
	} {
		headers := r.MultipartForm.File[field]
		if len(headers) == 0 {
			continue
		}
		f, err := headers[0].Open()
		if err != nil {
			h.logger.Warn(ctx, "open upload %s: %v", field, err)
			continue
		}
		opened = append(opened, f)
		*dst = &processor.Upload{Filename: headers[0].Filename, Body: f}
	}

	res, err := h.processor.Process(ctx, uploads)
	if err != nil {
		switch {
		case errors.Is(err, processor.ErrMissingRequiredInput):
			writeError(w, http.StatusBadRequest, "missing_required_input", err.Error())
		case errors.Is(err, processor.ErrFatalMux):
			writeError(w, http.StatusInternalServerError, "mux_failed", err.Error())
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "cancelled", err.Error())
		default:
			h.logger.Error(ctx, "process request failed: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, processResponse{
		Notes:     res.Notes,
		VideoPath: res.VideoPath,
		Session:   res.SessionID,
		Degraded:  res.Degraded,
	})
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", "session id must be a UUID")
		return
	}
	if h.store == nil {
		writeError(w, http.StatusNotFound, "not_found", "session records are disabled")
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		h.logger.Error(r.Context(), "get session %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, rec)
}
