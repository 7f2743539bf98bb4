package document

import "github.com/inamate/composer/internal/geom"

// NewText returns a text element with the toolbar defaults.
func NewText(id string) Element {
	return Element{
		ID:       id,
		Position: geom.Point{X: 100, Y: 100},
		Size:     geom.Size{Width: 300, Height: 80},
		ZIndex:   1,
		Props: TextProps{
			Content:    "Double click to edit",
			FontSize:   32,
			FontWeight: "600",
			Color:      "#000000",
			FontFamily: "Inter, system-ui, sans-serif",
			TextAlign:  TextAlignLeft,
		},
	}
}

// NewShape returns a shape element with the toolbar defaults. Rectangles
// get rounded corners, other shapes do not.
func NewShape(id string, kind ShapeKind) Element {
	radius := 0.0
	if kind == ShapeRectangle {
		radius = 8
	}
	return Element{
		ID:       id,
		Position: geom.Point{X: 150, Y: 150},
		Size:     geom.Size{Width: 200, Height: 200},
		ZIndex:   0,
		Props: ShapeProps{
			Shape:           kind,
			BackgroundColor: "#3b82f6",
			BorderColor:     "#1e40af",
			BorderWidth:     0,
			BorderRadius:    radius,
		},
	}
}

// NewImage returns an image element sized from the decoded natural
// dimensions, scaled down to fit geom.MaxImportEdge.
func NewImage(id, url, alt string, natural geom.Size) Element {
	return Element{
		ID:       id,
		Position: geom.Point{X: 100, Y: 100},
		Size:     geom.FitWithin(natural, geom.MaxImportEdge),
		ZIndex:   0,
		Props: ImageProps{
			URL:         url,
			Alt:         alt,
			BorderColor: "#000000",
		},
	}
}
