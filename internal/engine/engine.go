package engine

import (
	"fmt"
	"slices"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/typeid"
)

// DuplicateOffset is how far a duplicate is shifted from its source.
const DuplicateOffset = 20.0

// Engine owns the document state: the element collection, the selection,
// the canvas settings and the undo history. It is not safe for concurrent
// use; callers confine it to a single goroutine.
type Engine struct {
	elements []document.Element
	selected string
	canvas   document.CanvasSettings
	snap     bool

	history *History
	newID   func(document.ElementType) string
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator replaces the id source used for duplicated elements.
func WithIDGenerator(fn func(document.ElementType) string) Option {
	return func(e *Engine) { e.newID = fn }
}

// WithCanvas sets the initial canvas settings.
func WithCanvas(c document.CanvasSettings) Option {
	return func(e *Engine) { e.canvas = c.Clone() }
}

// New creates an engine holding an empty document.
func New(opts ...Option) *Engine {
	e := &Engine{
		canvas: document.DefaultCanvas(),
		snap:   true,
		newID: func(t document.ElementType) string {
			return typeid.NewElementID(string(t))
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.history = newHistory(nil)
	return e
}

// --- History-tracked commands ---

// AddElement appends el to the collection. The element is not selected.
func (e *Engine) AddElement(el document.Element) {
	e.elements = append(e.elements, el)
	e.commit("add")
}

// UpdateElement merges patch into the element with the given id. An
// unknown id leaves the collection as is but still records a step.
func (e *Engine) UpdateElement(id string, patch document.ElementPatch) {
	if i := e.indexOf(id); i >= 0 {
		e.elements[i] = e.elements[i].Apply(patch)
	}
	e.commit("update")
}

// DeleteElement removes the element. Its selection, if any, is cleared.
func (e *Engine) DeleteElement(id string) {
	e.elements = slices.DeleteFunc(e.elements, func(el document.Element) bool {
		return el.ID == id
	})
	if e.selected == id {
		e.selected = ""
	}
	e.commit("delete")
}

// DuplicateElement appends a copy of the element shifted by
// DuplicateOffset on both axes and returns its id. It returns "" and
// records nothing when id is unknown.
func (e *Engine) DuplicateElement(id string) string {
	i := e.indexOf(id)
	if i < 0 {
		return ""
	}
	dup := e.elements[i]
	dup.ID = e.freshID(dup.Type())
	dup.Position = dup.Position.Add(DuplicateOffset, DuplicateOffset)
	e.elements = append(e.elements, dup)
	e.commit("duplicate")
	return dup.ID
}

// BringToFront puts the element above every other one.
func (e *Engine) BringToFront(id string) {
	i := e.indexOf(id)
	if i < 0 {
		return
	}
	top := 0
	for _, el := range e.elements {
		top = max(top, el.ZIndex)
	}
	z := top + 1
	e.elements[i] = e.elements[i].Apply(document.ElementPatch{ZIndex: &z})
	e.commit("front")
}

// SendToBack puts the element below every other one.
func (e *Engine) SendToBack(id string) {
	i := e.indexOf(id)
	if i < 0 {
		return
	}
	bottom := 0
	for _, el := range e.elements {
		bottom = min(bottom, el.ZIndex)
	}
	z := bottom - 1
	e.elements[i] = e.elements[i].Apply(document.ElementPatch{ZIndex: &z})
	e.commit("back")
}

// Alignment names an edge or center line of the canvas.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignTop    Alignment = "top"
	AlignMiddle Alignment = "middle"
	AlignBottom Alignment = "bottom"
)

// ParseAlignment validates an alignment name coming from a client.
func ParseAlignment(s string) (Alignment, error) {
	switch a := Alignment(s); a {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return a, nil
	}
	return "", fmt.Errorf("unknown alignment %q", s)
}

// AlignElement moves the element so the chosen edge or center line meets
// the same line of the canvas.
func (e *Engine) AlignElement(id string, a Alignment) {
	i := e.indexOf(id)
	if i < 0 {
		return
	}
	el := e.elements[i]
	cw, ch := float64(e.canvas.Width), float64(e.canvas.Height)
	pos := el.Position

	switch a {
	case AlignLeft:
		pos.X = 0
	case AlignCenter:
		pos.X = (cw - el.Size.Width) / 2
	case AlignRight:
		pos.X = cw - el.Size.Width
	case AlignTop:
		pos.Y = 0
	case AlignMiddle:
		pos.Y = (ch - el.Size.Height) / 2
	case AlignBottom:
		pos.Y = ch - el.Size.Height
	default:
		return
	}
	e.elements[i] = el.Apply(document.ElementPatch{Position: &pos})
	e.commit("align")
}

// ApplyTemplate replaces the canvas settings and every element with the
// template's, as a single step, and clears the selection.
func (e *Engine) ApplyTemplate(t document.Template) {
	t = t.Clone()
	e.canvas = t.Canvas
	e.elements = t.Elements
	e.selected = ""
	e.commit("template")
}

// ClearCanvas removes every element.
func (e *Engine) ClearCanvas() {
	e.elements = nil
	e.selected = ""
	e.commit("clear")
}

// Undo restores the previous snapshot. It is a no-op at the first one.
func (e *Engine) Undo() {
	if els, ok := e.history.Undo(); ok {
		e.restore(els)
	}
}

// Redo restores the next snapshot. It is a no-op at the last one.
func (e *Engine) Redo() {
	if els, ok := e.history.Redo(); ok {
		e.restore(els)
	}
}

func (e *Engine) restore(els []document.Element) {
	e.elements = els
	if e.selected != "" && e.indexOf(e.selected) < 0 {
		e.selected = ""
	}
}

func (e *Engine) commit(action string) {
	e.history.Save(action, e.elements)
}

// --- Untracked commands ---

// SelectElement selects the element with the given id. An empty id clears
// the selection; an unknown id is ignored.
func (e *Engine) SelectElement(id string) {
	if id != "" && e.indexOf(id) < 0 {
		return
	}
	e.selected = id
}

// UpdateCanvasSettings merges patch into the canvas settings.
func (e *Engine) UpdateCanvasSettings(patch document.CanvasPatch) {
	e.canvas = e.canvas.Apply(patch)
}

func (e *Engine) SetSnapEnabled(on bool) { e.snap = on }

func (e *Engine) ToggleSnap() { e.snap = !e.snap }

// --- Queries ---

// Elements returns a copy of the element collection.
func (e *Engine) Elements() []document.Element {
	return slices.Clone(e.elements)
}

// Element returns the element with the given id.
func (e *Engine) Element(id string) (document.Element, bool) {
	if i := e.indexOf(id); i >= 0 {
		return e.elements[i], true
	}
	return document.Element{}, false
}

func (e *Engine) SelectedID() string               { return e.selected }
func (e *Engine) Canvas() document.CanvasSettings { return e.canvas.Clone() }
func (e *Engine) SnapEnabled() bool               { return e.snap }
func (e *Engine) HistoryIndex() int               { return e.history.Idx }
func (e *Engine) HistoryLen() int                 { return e.history.Len() }
func (e *Engine) CanUndo() bool                   { return e.history.CanUndo() }
func (e *Engine) CanRedo() bool                   { return e.history.CanRedo() }

// LastAction labels the step an Undo would revert, e.g. "align".
func (e *Engine) LastAction() string { return e.history.Action() }

// Document returns a snapshot of the full state that shares no memory
// with the engine.
func (e *Engine) Document() document.Document {
	return document.Document{
		Elements:          e.Elements(),
		SelectedElementID: e.selected,
		Canvas:            e.Canvas(),
		SnapEnabled:       e.snap,
	}
}

// SelectionBounds returns the box of the selected element.
func (e *Engine) SelectionBounds() (geom.Rect, bool) {
	el, ok := e.Element(e.selected)
	if !ok {
		return geom.Rect{}, false
	}
	return el.Bounds(), true
}

// HitTest returns the id of the topmost element containing (x, y), or "".
func (e *Engine) HitTest(x, y float64) string {
	ordered := document.PaintOrder(e.elements)
	for i := len(ordered) - 1; i >= 0; i-- {
		if ordered[i].Bounds().Contains(x, y) {
			return ordered[i].ID
		}
	}
	return ""
}

func (e *Engine) indexOf(id string) int {
	return slices.IndexFunc(e.elements, func(el document.Element) bool {
		return el.ID == id
	})
}

// freshID asks the generator for an id until it gets one not in use.
func (e *Engine) freshID(t document.ElementType) string {
	for {
		id := e.newID(t)
		if e.indexOf(id) < 0 {
			return id
		}
	}
}
