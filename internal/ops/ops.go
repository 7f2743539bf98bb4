// Package ops defines the editor commands clients submit and applies them
// to an engine.
package ops

import (
	"encoding/json"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
)

// Operation types.
const (
	ElementAdd       = "element.add"
	ElementAddImage  = "element.addImage"
	ElementUpdate    = "element.update"
	ElementDelete    = "element.delete"
	ElementDuplicate = "element.duplicate"
	ElementFront     = "element.front"
	ElementBack      = "element.back"
	ElementAlign     = "element.align"
	ElementSelect    = "element.select"
	TemplateApply    = "template.apply"
	CanvasUpdate     = "canvas.update"
	CanvasClear      = "canvas.clear"
	HistoryUndo      = "history.undo"
	HistoryRedo      = "history.redo"
	SnapToggle       = "snap.toggle"
)

// Operation is one editor command in its wire form. Which fields are read
// depends on Type.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ElementID string `json:"elementId,omitempty"`

	// For element.add: either a full element, or a type (and shape kind)
	// to build from the toolbar defaults.
	Element     json.RawMessage      `json:"element,omitempty"`
	ElementType document.ElementType `json:"elementType,omitempty"`
	Shape       document.ShapeKind   `json:"shape,omitempty"`

	// For element.addImage
	Image *ImageSource `json:"image,omitempty"`

	// For element.update
	Position *geom.Point     `json:"position,omitempty"`
	Size     *geom.Size      `json:"size,omitempty"`
	ZIndex   *int            `json:"zIndex,omitempty"`
	Props    json.RawMessage `json:"props,omitempty"`

	// For element.align
	Alignment string `json:"alignment,omitempty"`

	// For template.apply
	TemplateID string `json:"templateId,omitempty"`

	// For canvas.update
	Canvas *document.CanvasPatch `json:"canvas,omitempty"`

	// For snap.toggle; nil flips the current value.
	Enabled *bool `json:"enabled,omitempty"`
}

// ImageSource describes an uploaded image whose natural size is known.
type ImageSource struct {
	URL    string  `json:"url"`
	Alt    string  `json:"alt"`
	Width  float64 `json:"naturalWidth"`
	Height float64 `json:"naturalHeight"`
}
