package document

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/inamate/composer/internal/geom"
)

type ElementType string

const (
	ElementTypeText  ElementType = "text"
	ElementTypeImage ElementType = "image"
	ElementTypeShape ElementType = "shape"
)

// Props holds the type-specific attributes of an element. It is sealed:
// TextProps, ImageProps and ShapeProps are the only implementations, and
// all of them are plain values so copying an Element copies its props.
type Props interface {
	ElementType() ElementType
	isProps()
}

type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

type TextProps struct {
	Content    string    `json:"content" yaml:"content"`
	FontSize   float64   `json:"fontSize" yaml:"fontSize"`
	FontWeight string    `json:"fontWeight" yaml:"fontWeight"`
	Color      string    `json:"color" yaml:"color"`
	FontFamily string    `json:"fontFamily" yaml:"fontFamily"`
	TextAlign  TextAlign `json:"textAlign" yaml:"textAlign"`
}

type ImageProps struct {
	URL          string  `json:"url" yaml:"url"`
	Alt          string  `json:"alt" yaml:"alt"`
	BorderRadius float64 `json:"borderRadius" yaml:"borderRadius"`
	BorderWidth  float64 `json:"borderWidth" yaml:"borderWidth"`
	BorderColor  string  `json:"borderColor" yaml:"borderColor"`
}

type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
	ShapeTriangle  ShapeKind = "triangle"
)

type ShapeProps struct {
	Shape           ShapeKind `json:"shape" yaml:"shape"`
	BackgroundColor string    `json:"backgroundColor" yaml:"backgroundColor"`
	BorderColor     string    `json:"borderColor" yaml:"borderColor"`
	BorderWidth     float64   `json:"borderWidth" yaml:"borderWidth"`
	BorderRadius    float64   `json:"borderRadius" yaml:"borderRadius"`
}

func (TextProps) ElementType() ElementType  { return ElementTypeText }
func (ImageProps) ElementType() ElementType { return ElementTypeImage }
func (ShapeProps) ElementType() ElementType { return ElementTypeShape }

func (TextProps) isProps()  {}
func (ImageProps) isProps() {}
func (ShapeProps) isProps() {}

// Element is one placeable item on the canvas. Elements are values: the
// engine replaces them wholesale instead of mutating them in place.
type Element struct {
	ID       string
	Position geom.Point
	Size     geom.Size
	ZIndex   int
	Props    Props
}

// Type returns the element's variant, or "" when it has no props.
func (e Element) Type() ElementType {
	if e.Props == nil {
		return ""
	}
	return e.Props.ElementType()
}

// Bounds returns the element's axis-aligned box in canvas space.
func (e Element) Bounds() geom.Rect {
	return geom.RectOf(e.Position, e.Size)
}

// ElementPatch is a partial update. Nil fields are left untouched.
type ElementPatch struct {
	Position *geom.Point
	Size     *geom.Size
	ZIndex   *int
	// Props replaces the element's props when it is of the same variant.
	// Props of another variant are ignored.
	Props Props
}

// Apply returns a copy of e with the patch merged in.
func (e Element) Apply(p ElementPatch) Element {
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Size != nil {
		e.Size = *p.Size
	}
	if p.ZIndex != nil {
		e.ZIndex = *p.ZIndex
	}
	if p.Props != nil && p.Props.ElementType() == e.Type() {
		e.Props = p.Props
	}
	return e
}

// MergeProps decodes a JSON object of props fields over a copy of base.
// Fields absent from raw keep their current value.
func MergeProps(base Props, raw json.RawMessage) (Props, error) {
	switch p := base.(type) {
	case TextProps:
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("merge text props: %w", err)
		}
		return p, nil
	case ImageProps:
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("merge image props: %w", err)
		}
		return p, nil
	case ShapeProps:
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("merge shape props: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("merge props: unknown element variant %T", base)
	}
}

type elementWire struct {
	ID       string          `json:"id"`
	Type     ElementType     `json:"type"`
	Position geom.Point      `json:"position"`
	Size     geom.Size       `json:"size"`
	ZIndex   int             `json:"zIndex"`
	Props    json.RawMessage `json:"props"`
}

func (e Element) MarshalJSON() ([]byte, error) {
	props, err := json.Marshal(e.Props)
	if err != nil {
		return nil, err
	}
	return json.Marshal(elementWire{
		ID:       e.ID,
		Type:     e.Type(),
		Position: e.Position,
		Size:     e.Size,
		ZIndex:   e.ZIndex,
		Props:    props,
	})
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var w elementWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	props, err := ZeroProps(w.Type)
	if err != nil {
		return err
	}
	if len(w.Props) > 0 && string(w.Props) != "null" {
		if props, err = MergeProps(props, w.Props); err != nil {
			return err
		}
	}
	*e = Element{
		ID:       w.ID,
		Position: w.Position,
		Size:     w.Size,
		ZIndex:   w.ZIndex,
		Props:    props,
	}
	return nil
}

// ZeroProps returns the empty props value of the given variant.
func ZeroProps(t ElementType) (Props, error) {
	switch t {
	case ElementTypeText:
		return TextProps{}, nil
	case ElementTypeImage:
		return ImageProps{}, nil
	case ElementTypeShape:
		return ShapeProps{}, nil
	default:
		return nil, fmt.Errorf("unknown element type %q", t)
	}
}

// Document is the full editable state: elements, selection, canvas.
type Document struct {
	Elements          []Element      `json:"elements"`
	SelectedElementID string         `json:"selectedElementId,omitempty"`
	Canvas            CanvasSettings `json:"canvasSettings"`
	SnapEnabled       bool           `json:"snapEnabled"`
}

// PaintOrder returns the elements sorted by ascending zIndex. Ties keep
// collection order, so later elements paint above earlier ones.
func PaintOrder(elements []Element) []Element {
	ordered := slices.Clone(elements)
	slices.SortStableFunc(ordered, func(a, b Element) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return ordered
}
