package geom

import "math"

// SnapThreshold is the distance, in canvas units, under which two edges or
// centers are treated as aligned.
const SnapThreshold = 5.0

// Orientation tells which axis an alignment guide runs along.
type Orientation string

const (
	// Vertical guides mark an x coordinate.
	Vertical Orientation = "vertical"
	// Horizontal guides mark a y coordinate.
	Horizontal Orientation = "horizontal"
)

// Guide is a transient alignment marker produced while dragging.
type Guide struct {
	Position    float64     `json:"position"`
	Orientation Orientation `json:"type"`
}

// SnapInput is everything Snap needs to place a dragged element.
type SnapInput struct {
	Candidate Point
	Size      Size
	// Siblings are the other elements' bounds in collection order. Order
	// matters: a later sibling's match overrides an earlier one.
	Siblings []Rect
	Canvas   Size
	Enabled  bool
}

// SnapResult is the adjusted position and every guide that fired.
type SnapResult struct {
	Position Point
	Guides   []Guide
}

// Snap adjusts a candidate top-left position toward nearby alignments.
//
// Each axis is handled independently. The canvas center is tested first,
// then each sibling in order: left edges, else right edges, else centers.
// Every satisfied test emits a guide and overwrites the snapped coordinate,
// so the last match wins while the guide list keeps all of them.
func Snap(in SnapInput) SnapResult {
	if !in.Enabled {
		return SnapResult{Position: in.Candidate}
	}

	x, y := in.Candidate.X, in.Candidate.Y
	w, h := in.Size.Width, in.Size.Height
	snappedX, snappedY := x, y
	var guides []Guide

	centerX := x + w/2
	centerY := y + h/2
	right := x + w
	bottom := y + h

	canvasCenterX := in.Canvas.Width / 2
	canvasCenterY := in.Canvas.Height / 2

	if near(centerX, canvasCenterX) {
		snappedX = canvasCenterX - w/2
		guides = append(guides, Guide{Position: canvasCenterX, Orientation: Vertical})
	}
	if near(centerY, canvasCenterY) {
		snappedY = canvasCenterY - h/2
		guides = append(guides, Guide{Position: canvasCenterY, Orientation: Horizontal})
	}

	for _, other := range in.Siblings {
		otherCenterX, otherCenterY := other.Center()

		switch {
		case near(x, other.X):
			snappedX = other.X
			guides = append(guides, Guide{Position: other.X, Orientation: Vertical})
		case near(right, other.Right()):
			snappedX = other.Right() - w
			guides = append(guides, Guide{Position: other.Right(), Orientation: Vertical})
		case near(centerX, otherCenterX):
			snappedX = otherCenterX - w/2
			guides = append(guides, Guide{Position: otherCenterX, Orientation: Vertical})
		}

		switch {
		case near(y, other.Y):
			snappedY = other.Y
			guides = append(guides, Guide{Position: other.Y, Orientation: Horizontal})
		case near(bottom, other.Bottom()):
			snappedY = other.Bottom() - h
			guides = append(guides, Guide{Position: other.Bottom(), Orientation: Horizontal})
		case near(centerY, otherCenterY):
			snappedY = otherCenterY - h/2
			guides = append(guides, Guide{Position: otherCenterY, Orientation: Horizontal})
		}
	}

	return SnapResult{Position: Point{X: snappedX, Y: snappedY}, Guides: guides}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < SnapThreshold
}
