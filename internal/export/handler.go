package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/session"
	"github.com/inamate/composer/internal/typeid"
)

// DocumentSource yields the current document of a session.
type DocumentSource interface {
	Snapshot(ctx context.Context, sessionID string) (document.Document, error)
}

type Handler struct {
	docs         DocumentSource
	raster       *Rasterizer
	defaultScale float64
}

func NewHandler(docs DocumentSource, raster *Rasterizer, defaultScale float64) *Handler {
	return &Handler{docs: docs, raster: raster, defaultScale: defaultScale}
}

// Export handles POST /api/sessions/{sessionId}/export?scale=&format=.
// The body is the encoded bitmap.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	scale := h.defaultScale
	if v := r.URL.Query().Get("scale"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scale must be a number"})
			return
		}
		scale = parsed
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	doc, err := h.docs.Snapshot(r.Context(), sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}
	if err != nil {
		slog.Error("export snapshot", "error", err, "session", sessionID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "session unavailable"})
		return
	}

	var buf bytes.Buffer
	if err := h.raster.Encode(&buf, doc, scale, format); err != nil {
		if errors.Is(err, ErrInvalidScale) || errors.Is(err, ErrCanvasTooLarge) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		slog.Error("export render", "error", err, "session", sessionID, "scale", scale, "format", format)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "export failed"})
		return
	}

	size := buf.Len()
	name := fmt.Sprintf("composition-%s.%s", typeid.NewExportID(), format.Ext())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(size))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write export", "error", err, "session", sessionID)
		return
	}

	slog.Info("export rendered", "session", sessionID, "scale", scale, "format", format, "file", name, "bytes", size)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
