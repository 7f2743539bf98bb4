package geom

import "fmt"

// MinElementSize is the floor applied to both dimensions after a resize.
const MinElementSize = 50.0

// MaxImportEdge caps the longest edge of a newly imported image.
const MaxImportEdge = 400.0

// HandleRadius is the half-extent of a handle's hit region.
const HandleRadius = 8.0

// Handle identifies one of the eight resize grips on a selected element.
type Handle string

const (
	HandleTopLeft     Handle = "top-left"
	HandleTopRight    Handle = "top-right"
	HandleBottomLeft  Handle = "bottom-left"
	HandleBottomRight Handle = "bottom-right"
	HandleTop         Handle = "top"
	HandleBottom      Handle = "bottom"
	HandleLeft        Handle = "left"
	HandleRight       Handle = "right"
)

// Handles lists every handle in hit-test priority order (corners first).
var Handles = []Handle{
	HandleBottomRight, HandleTopRight, HandleBottomLeft, HandleTopLeft,
	HandleTop, HandleBottom, HandleLeft, HandleRight,
}

// ParseHandle validates a handle name coming from a client.
func ParseHandle(s string) (Handle, error) {
	for _, h := range Handles {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown resize handle %q", s)
}

// IsCorner reports whether h is one of the four corner handles.
func (h Handle) IsCorner() bool {
	switch h {
	case HandleTopLeft, HandleTopRight, HandleBottomLeft, HandleBottomRight:
		return true
	}
	return false
}

// anchorsLeft reports whether dragging h moves the left edge.
func (h Handle) anchorsLeft() bool {
	return h == HandleTopLeft || h == HandleBottomLeft || h == HandleLeft
}

// anchorsTop reports whether dragging h moves the top edge.
func (h Handle) anchorsTop() bool {
	return h == HandleTopLeft || h == HandleTopRight || h == HandleTop
}

func (h Handle) resizesWidth() bool {
	return h != HandleTop && h != HandleBottom
}

func (h Handle) resizesHeight() bool {
	return h != HandleLeft && h != HandleRight
}

// HandlePoint returns the center of handle h on rect r.
func HandlePoint(r Rect, h Handle) Point {
	cx, cy := r.Center()
	switch h {
	case HandleTopLeft:
		return Point{X: r.X, Y: r.Y}
	case HandleTopRight:
		return Point{X: r.Right(), Y: r.Y}
	case HandleBottomLeft:
		return Point{X: r.X, Y: r.Bottom()}
	case HandleBottomRight:
		return Point{X: r.Right(), Y: r.Bottom()}
	case HandleTop:
		return Point{X: cx, Y: r.Y}
	case HandleBottom:
		return Point{X: cx, Y: r.Bottom()}
	case HandleLeft:
		return Point{X: r.X, Y: cy}
	default:
		return Point{X: r.Right(), Y: cy}
	}
}

// HandleAt returns the handle whose square hit region of half-extent
// radius contains p.
func HandleAt(r Rect, p Point, radius float64) (Handle, bool) {
	for _, h := range Handles {
		c := HandlePoint(r, h)
		hit := Rect{X: c.X - radius, Y: c.Y - radius, Width: 2 * radius, Height: 2 * radius}
		if hit.Contains(p.X, p.Y) {
			return h, true
		}
	}
	return "", false
}

// ResizeStart is the geometry captured when a resize gesture begins.
type ResizeStart struct {
	Pointer  Point
	Position Point
	Size     Size
}

// Resize computes the element geometry for handle h with the pointer at p.
//
// The result depends only on start and p, so repeated moves never drift.
// With keepAspect set, corner handles follow the horizontal pointer delta
// and derive the height from the aspect ratio captured at start.
func Resize(start ResizeStart, h Handle, p Point, keepAspect bool) (Point, Size) {
	dx := p.X - start.Pointer.X
	dy := p.Y - start.Pointer.Y

	w, ht := start.Size.Width, start.Size.Height

	if keepAspect && h.IsCorner() {
		aspect := start.Size.AspectRatio()
		if h.anchorsLeft() {
			w = start.Size.Width - dx
		} else {
			w = start.Size.Width + dx
		}
		w = max(MinElementSize, w)
		ht = w / aspect
		if ht < MinElementSize {
			ht = MinElementSize
			w = ht * aspect
		}
	} else {
		if h.resizesWidth() {
			if h.anchorsLeft() {
				w = max(MinElementSize, start.Size.Width-dx)
			} else {
				w = max(MinElementSize, start.Size.Width+dx)
			}
		}
		if h.resizesHeight() {
			if h.anchorsTop() {
				ht = max(MinElementSize, start.Size.Height-dy)
			} else {
				ht = max(MinElementSize, start.Size.Height+dy)
			}
		}
	}

	pos := start.Position
	if h.anchorsLeft() {
		pos.X = start.Position.X + (start.Size.Width - w)
	}
	if h.anchorsTop() {
		pos.Y = start.Position.Y + (start.Size.Height - ht)
	}

	return pos, Size{Width: w, Height: ht}
}
