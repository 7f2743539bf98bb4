package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/composer/internal/document"
)

// Handler serves the read-only template catalog and the canvas presets.
type Handler struct {
	templates *document.Catalog
}

func NewHandler(templates *document.Catalog) *Handler {
	return &Handler{templates: templates}
}

type templateSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Elements int    `json:"elementCount"`
}

// List handles GET /templates. An optional ?category= narrows the result.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	templates := h.templates.Templates
	if category := r.URL.Query().Get("category"); category != "" {
		templates = h.templates.ByCategory()[category]
	}

	summaries := make([]templateSummary, 0, len(templates))
	for _, t := range templates {
		summaries = append(summaries, templateSummary{
			ID:       t.ID,
			Name:     t.Name,
			Category: t.Category,
			Width:    t.Canvas.Width,
			Height:   t.Canvas.Height,
			Elements: len(t.Elements),
		})
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.templates.Lookup(mux.Vars(r)["templateId"])
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "template not found"})
		return
	}

	writeJSON(w, http.StatusOK, t)
}

type presetsResponse struct {
	Sizes     []document.SizePreset     `json:"sizes"`
	Gradients []document.GradientPreset `json:"gradients"`
}

// Presets handles GET /presets.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetsResponse{
		Sizes:     document.SizePresets,
		Gradients: document.GradientPresets,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
