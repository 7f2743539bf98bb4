package geom

// Point is a position in canvas-local units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Size is a width/height pair in canvas units.
type Size struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// AspectRatio returns width/height, or 1 for a degenerate height.
func (s Size) AspectRatio() float64 {
	if s.Height == 0 {
		return 1
	}
	return s.Width / s.Height
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// RectOf builds the rect covering an element placed at pos with size.
func RectOf(pos Point, size Size) Rect {
	return Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Right is the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom is the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point of the rect.
func (r Rect) Center() (float64, float64) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// FitWithin scales natural down so neither edge exceeds maxEdge, keeping
// its aspect ratio. Sizes already within bounds are returned unchanged.
func FitWithin(natural Size, maxEdge float64) Size {
	if natural.Width <= maxEdge && natural.Height <= maxEdge {
		return natural
	}
	aspect := natural.AspectRatio()
	if natural.Width > natural.Height {
		return Size{Width: maxEdge, Height: maxEdge / aspect}
	}
	return Size{Width: maxEdge * aspect, Height: maxEdge}
}
