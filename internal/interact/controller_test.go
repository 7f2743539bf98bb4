package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/engine"
	"github.com/inamate/composer/internal/geom"
)

func shapeAt(id string, x, y float64) document.Element {
	el := document.NewShape(id, document.ShapeRectangle)
	el.Position = geom.Point{X: x, Y: y}
	return el
}

func at(x, y float64) PointerEvent { return PointerEvent{X: x, Y: y} }

func TestDragSnapsToSiblingLeftEdge(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("a", 100, 100))
	e.AddElement(shapeAt("b", 100, 400))

	var published [][]geom.Guide
	c := New(e, WithGuideListener(func(g []geom.Guide) { published = append(published, g) }))

	require.True(t, c.Press(at(150, 450)))
	assert.Equal(t, Dragging, c.State())
	assert.Equal(t, "b", e.SelectedID())

	require.True(t, c.Move(at(153, 300)))
	b, _ := e.Element("b")
	assert.Equal(t, geom.Point{X: 100, Y: 250}, b.Position)
	assert.Equal(t, []geom.Guide{{Position: 100, Orientation: geom.Vertical}}, c.Guides())

	c.Release(at(153, 300))
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Guides())
	require.Len(t, published, 2)
	assert.Empty(t, published[1])

	b, _ = e.Element("b")
	assert.Equal(t, geom.Point{X: 100, Y: 250}, b.Position)
}

func TestDragSnapsToCanvasCenter(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("s", 0, 0))
	c := New(e)

	require.True(t, c.Press(at(10, 10)))

	// Center x would be 604: within the threshold of 600.
	c.Move(at(514, 50))
	s, _ := e.Element("s")
	assert.Equal(t, 500.0, s.Position.X)

	// Center x 606: six units away, left alone.
	c.Move(at(516, 50))
	s, _ = e.Element("s")
	assert.Equal(t, 506.0, s.Position.X)
}

func TestDragClampsToCanvasOrigin(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("s", 300, 300))
	e.SetSnapEnabled(false)
	c := New(e)

	c.Press(at(310, 310))
	c.Move(at(-100, 200))
	s, _ := e.Element("s")
	assert.Equal(t, geom.Point{X: 0, Y: 190}, s.Position)
	assert.Empty(t, c.Guides())
}

func TestDragIsIdempotent(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("s", 300, 300))
	e.SetSnapEnabled(false)
	c := New(e)

	c.Press(at(310, 310))
	c.Move(at(400, 420))
	first, _ := e.Element("s")
	c.Move(at(700, 20))
	c.Move(at(400, 420))
	again, _ := e.Element("s")
	assert.Equal(t, first.Position, again.Position)
}

func TestPressIgnoredDuringGesture(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("a", 0, 0))
	e.AddElement(shapeAt("b", 500, 300))
	c := New(e)

	require.True(t, c.Press(at(10, 10)))
	assert.False(t, c.Press(at(510, 310)))
	assert.False(t, c.PressElement("b", at(510, 310)))
	assert.Equal(t, "a", c.Target())
	assert.Equal(t, "a", e.SelectedID())
}

func TestPressSecondaryButton(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("a", 0, 0))
	c := New(e)

	assert.False(t, c.Press(PointerEvent{X: 10, Y: 10, Button: 2}))
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, e.SelectedID())
}

func TestPressEmptyCanvasClearsSelection(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("a", 0, 0))
	e.SelectElement("a")
	c := New(e)

	assert.False(t, c.Press(at(900, 600)))
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, Idle, c.State())
}

func TestResizeFromHandle(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("s", 100, 100))
	e.SelectElement("s")
	c := New(e)

	// Top-left handle of the 200x200 shape sits on (100, 100).
	require.True(t, c.Press(at(102, 101)))
	assert.Equal(t, Resizing, c.State())

	c.Move(at(132, 141))
	s, _ := e.Element("s")
	assert.Equal(t, geom.Point{X: 130, Y: 140}, s.Position)
	assert.Equal(t, geom.Size{Width: 170, Height: 160}, s.Size)
	assert.Empty(t, c.Guides())

	c.Release(at(0, 0))
	assert.Equal(t, Idle, c.State())
}

func TestResizeImageKeepsAspect(t *testing.T) {
	e := engine.New()
	e.AddElement(document.NewImage("img", "/assets/a.png", "", geom.Size{Width: 300, Height: 200}))
	e.SelectElement("img")
	c := New(e)

	require.True(t, c.PressHandle(geom.HandleBottomRight, at(400, 300)))
	for _, p := range []PointerEvent{at(460, 250), at(120, 900), at(1000, 1000)} {
		c.Move(p)
		img, _ := e.Element("img")
		assert.InDelta(t, 1.5, img.Size.Width/img.Size.Height, 1e-9)
		assert.Equal(t, geom.Point{X: 100, Y: 100}, img.Position)
	}
}

func TestResizeImageEdgeIsFree(t *testing.T) {
	e := engine.New()
	e.AddElement(document.NewImage("img", "/assets/a.png", "", geom.Size{Width: 300, Height: 200}))
	e.SelectElement("img")
	c := New(e)

	require.True(t, c.PressHandle(geom.HandleBottom, at(250, 300)))
	c.Move(at(250, 360))
	img, _ := e.Element("img")
	assert.Equal(t, geom.Size{Width: 300, Height: 260}, img.Size)
}

func TestPressHandleNeedsSelection(t *testing.T) {
	c := New(engine.New())
	assert.False(t, c.PressHandle(geom.HandleTop, at(0, 0)))
}

func TestGestureEndsWhenTargetDisappears(t *testing.T) {
	e := engine.New()
	e.AddElement(shapeAt("s", 0, 0))
	c := New(e)

	require.True(t, c.Press(at(10, 10)))
	e.Undo()
	assert.False(t, c.Move(at(50, 50)))
	assert.Equal(t, Idle, c.State())
}

func TestMoveWhileIdle(t *testing.T) {
	e := engine.New()
	c := New(e)
	assert.False(t, c.Move(at(5, 5)))
	assert.Equal(t, 1, e.HistoryLen())
}
