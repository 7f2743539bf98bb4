// Package interact turns pointer gestures into drag and resize edits.
package interact

import (
	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
)

// Document is the part of the engine a Controller reads and writes.
type Document interface {
	Element(id string) (document.Element, bool)
	Elements() []document.Element
	SelectedID() string
	SelectElement(id string)
	UpdateElement(id string, patch document.ElementPatch)
	HitTest(x, y float64) string
	Canvas() document.CanvasSettings
	SnapEnabled() bool
}

// State is the phase of the current gesture.
type State int

const (
	Idle State = iota
	Dragging
	Resizing
)

func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case Resizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Button identifies a pointer button, numbered like DOM mouse events.
type Button int

const ButtonPrimary Button = 0

// PointerEvent is a pointer position in canvas space.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button Button  `json:"button"`
}

func (ev PointerEvent) point() geom.Point { return geom.Point{X: ev.X, Y: ev.Y} }

// Controller runs one gesture at a time against a Document. It is not safe
// for concurrent use.
type Controller struct {
	doc      Document
	onGuides func([]geom.Guide)

	state  State
	target string

	// Dragging: pointer minus element origin at press time.
	offset geom.Point

	// Resizing: geometry captured at press time.
	handle     geom.Handle
	start      geom.ResizeStart
	keepAspect bool

	guides []geom.Guide
}

// Option configures a Controller.
type Option func(*Controller)

// WithGuideListener registers fn to receive the guide list after every
// drag move and an empty list when a gesture ends.
func WithGuideListener(fn func([]geom.Guide)) Option {
	return func(c *Controller) { c.onGuides = fn }
}

func New(doc Document, opts ...Option) *Controller {
	c := &Controller{doc: doc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State { return c.state }

// Target returns the id of the element being dragged or resized.
func (c *Controller) Target() string { return c.target }

// Guides returns the alignment guides from the latest drag move.
func (c *Controller) Guides() []geom.Guide { return c.guides }

// Press starts a gesture. Handles of the selected element are tested
// first, then element bodies from the top down. A press on empty canvas
// clears the selection. It reports whether a gesture started.
func (c *Controller) Press(ev PointerEvent) bool {
	if c.state != Idle || ev.Button != ButtonPrimary {
		return false
	}

	if sel, ok := c.doc.Element(c.doc.SelectedID()); ok {
		if h, ok := geom.HandleAt(sel.Bounds(), ev.point(), geom.HandleRadius); ok {
			c.beginResize(sel, h, ev)
			return true
		}
	}

	id := c.doc.HitTest(ev.X, ev.Y)
	if id == "" {
		c.doc.SelectElement("")
		return false
	}
	return c.PressElement(id, ev)
}

// PressElement starts dragging the element with the given id.
func (c *Controller) PressElement(id string, ev PointerEvent) bool {
	if c.state != Idle || ev.Button != ButtonPrimary {
		return false
	}
	el, ok := c.doc.Element(id)
	if !ok {
		return false
	}

	c.doc.SelectElement(id)
	c.state = Dragging
	c.target = id
	c.offset = ev.point().Sub(el.Position)
	return true
}

// PressHandle starts resizing the selected element from handle h.
func (c *Controller) PressHandle(h geom.Handle, ev PointerEvent) bool {
	if c.state != Idle || ev.Button != ButtonPrimary {
		return false
	}
	el, ok := c.doc.Element(c.doc.SelectedID())
	if !ok {
		return false
	}
	c.beginResize(el, h, ev)
	return true
}

func (c *Controller) beginResize(el document.Element, h geom.Handle, ev PointerEvent) {
	c.state = Resizing
	c.target = el.ID
	c.handle = h
	c.start = geom.ResizeStart{
		Pointer:  ev.point(),
		Position: el.Position,
		Size:     el.Size,
	}
	c.keepAspect = el.Type() == document.ElementTypeImage && h.IsCorner()
}

// Move updates the active gesture for the pointer at ev. Every move is
// computed from the state captured at press time. It reports whether the
// document was written.
func (c *Controller) Move(ev PointerEvent) bool {
	if c.state == Idle {
		return false
	}
	el, ok := c.doc.Element(c.target)
	if !ok {
		c.end()
		return false
	}

	switch c.state {
	case Dragging:
		c.drag(el, ev)
	case Resizing:
		pos, size := geom.Resize(c.start, c.handle, ev.point(), c.keepAspect)
		c.doc.UpdateElement(el.ID, document.ElementPatch{Position: &pos, Size: &size})
	}
	return true
}

func (c *Controller) drag(el document.Element, ev PointerEvent) {
	var siblings []geom.Rect
	for _, other := range c.doc.Elements() {
		if other.ID != el.ID {
			siblings = append(siblings, other.Bounds())
		}
	}
	canvas := c.doc.Canvas()

	res := geom.Snap(geom.SnapInput{
		Candidate: ev.point().Sub(c.offset),
		Size:      el.Size,
		Siblings:  siblings,
		Canvas:    geom.Size{Width: float64(canvas.Width), Height: float64(canvas.Height)},
		Enabled:   c.doc.SnapEnabled(),
	})

	pos := geom.Point{X: max(0, res.Position.X), Y: max(0, res.Position.Y)}
	c.doc.UpdateElement(el.ID, document.ElementPatch{Position: &pos})
	c.publish(res.Guides)
}

// Release ends the active gesture. The last computed geometry stays.
func (c *Controller) Release(PointerEvent) {
	if c.state == Idle {
		return
	}
	c.end()
}

func (c *Controller) end() {
	c.state = Idle
	c.target = ""
	c.publish(nil)
}

func (c *Controller) publish(guides []geom.Guide) {
	c.guides = guides
	if c.onGuides != nil {
		c.onGuides(guides)
	}
}
