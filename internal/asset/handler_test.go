package asset

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAndServe(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(dir)

	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "photo.png", pngOf(t, 1600, 800)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ID, "asset_"))
	assert.Equal(t, "/assets/"+resp.ID+".png", resp.URL)
	assert.Equal(t, 1600, resp.NaturalWidth)
	assert.Equal(t, 800, resp.NaturalHeight)
	assert.Equal(t, 400.0, resp.Width)
	assert.Equal(t, 200.0, resp.Height)
	assert.Equal(t, "photo.png", resp.Name)

	_, err := os.Stat(filepath.Join(dir, resp.ID+".png"))
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	h.Serve().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, resp.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Cache-Control"), "immutable")
	cfg, _, err := image.DecodeConfig(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 1600, cfg.Width)
}

func TestUploadSniffsContent(t *testing.T) {
	h := NewHandler(t.TempDir())

	// A text file with an image name is still a text file.
	rec := httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "fake.png", []byte("hello, not an image")))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	// A PNG signature followed by garbage fails to decode.
	broken := append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0}, 32)...)
	rec = httptest.NewRecorder()
	h.Upload(rec, uploadRequest(t, "broken.png", broken))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadMissingField(t *testing.T) {
	h := NewHandler(t.TempDir())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"missing file field"}`, rec.Body.String())
}
