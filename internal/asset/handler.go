package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/webp"

	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/typeid"
)

const maxUploadSize = 10 << 20 // 10MB

// accepted maps sniffed MIME types to the extension the file is stored
// under.
var accepted = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// UploadResponse is returned from the upload endpoint. Width and Height
// are the natural size fitted within geom.MaxImportEdge, ready to use as
// the element size.
type UploadResponse struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	NaturalWidth  int     `json:"naturalWidth"`
	NaturalHeight int     `json:"naturalHeight"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Type          string  `json:"type"`
	Name          string  `json:"name"`
}

// Handler serves asset upload and retrieval endpoints.
type Handler struct {
	dir string // directory to store asset files
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// The type is sniffed from the content, never taken from the client's
// header.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file too large (max 10MB)"})
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing file field"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "read upload"})
		return
	}

	kind, err := filetype.Match(data)
	ext, ok := accepted[kind.MIME.Value]
	if err != nil || !ok {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": "only PNG, JPEG, GIF and WebP images are supported"})
		return
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid image"})
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + "." + ext
	if err := os.WriteFile(filepath.Join(h.dir, filename), data, 0644); err != nil {
		slog.Error("write asset file", "error", err, "asset", assetID)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save file"})
		return
	}

	fitted := geom.FitWithin(geom.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, geom.MaxImportEdge)
	slog.Info("asset uploaded", "asset", assetID, "type", kind.MIME.Value, "bytes", len(data))

	writeJSON(w, http.StatusCreated, UploadResponse{
		ID:            assetID,
		URL:           fmt.Sprintf("/assets/%s", filename),
		NaturalWidth:  cfg.Width,
		NaturalHeight: cfg.Height,
		Width:         fitted.Width,
		Height:        fitted.Height,
		Type:          ext,
		Name:          header.Filename,
	})
}

// Serve returns an http.Handler that serves stored asset files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
