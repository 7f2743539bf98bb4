package engine

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
)

func counterIDs() Option {
	n := 0
	return WithIDGenerator(func(t document.ElementType) string {
		n++
		return fmt.Sprintf("%s_%d", t, n)
	})
}

func ptr[T any](v T) *T { return &v }

func TestAddUpdateUndoRedoScenario(t *testing.T) {
	e := New()
	require.Equal(t, 1, e.HistoryLen())
	require.Equal(t, 0, e.HistoryIndex())

	e.AddElement(document.NewText("t1"))
	assert.Equal(t, 2, e.HistoryLen())
	assert.Equal(t, 1, e.HistoryIndex())
	assert.Empty(t, e.SelectedID())

	e.UpdateElement("t1", document.ElementPatch{Position: &geom.Point{X: 0, Y: 0}})
	assert.Equal(t, 3, e.HistoryLen())
	assert.Equal(t, 2, e.HistoryIndex())

	e.Undo()
	el, ok := e.Element("t1")
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 100, Y: 100}, el.Position)

	e.Undo()
	assert.Empty(t, e.Elements())

	e.Redo()
	e.Redo()
	el, ok = e.Element("t1")
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, el.Position)
}

func TestHistoryGrowsOnePerCommand(t *testing.T) {
	e := New(counterIDs())
	e.AddElement(document.NewShape("s", document.ShapeRectangle))

	steps := []func(){
		func() { e.AddElement(document.NewText("t")) },
		func() { e.UpdateElement("s", document.ElementPatch{ZIndex: ptr(3)}) },
		func() { e.DuplicateElement("s") },
		func() { e.AlignElement("t", AlignCenter) },
		func() { e.BringToFront("t") },
		func() { e.SendToBack("s") },
		func() { e.DeleteElement("t") },
		func() { e.ApplyTemplate(document.Template{Canvas: document.DefaultCanvas()}) },
		func() { e.ClearCanvas() },
	}
	for i, step := range steps {
		before := e.HistoryIndex()
		step()
		assert.Equal(t, before+1, e.HistoryIndex(), "step %d", i)
		assert.Equal(t, e.HistoryIndex()+1, e.HistoryLen(), "step %d", i)
	}
}

func TestNewCommandDiscardsRedoBranch(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("a"))
	e.AddElement(document.NewText("b"))
	e.Undo()
	require.True(t, e.CanRedo())

	e.AddElement(document.NewText("c"))
	assert.False(t, e.CanRedo())
	assert.Equal(t, 3, e.HistoryLen())
	assert.Equal(t, 2, e.HistoryIndex())

	_, ok := e.Element("b")
	assert.False(t, ok)

	e.Redo()
	assert.Equal(t, 2, e.HistoryIndex())
}

func TestUndoRedoRestoresExactCollection(t *testing.T) {
	e := New(counterIDs())
	e.AddElement(document.NewText("t"))
	e.AddElement(document.NewShape("s", document.ShapeCircle))
	e.DuplicateElement("s")
	e.UpdateElement("t", document.ElementPatch{Size: &geom.Size{Width: 10, Height: 10}})

	for e.CanUndo() {
		before := e.Elements()
		e.Undo()
		e.Redo()
		assert.Equal(t, before, e.Elements())
		e.Undo()
	}
}

func TestHistoryBoundsAreNoOps(t *testing.T) {
	e := New()
	e.Undo()
	assert.Equal(t, 0, e.HistoryIndex())

	e.AddElement(document.NewText("t"))
	e.Redo()
	assert.Equal(t, 1, e.HistoryIndex())
	assert.Len(t, e.Elements(), 1)
}

func TestSnapshotsAreIndependent(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("t"))

	els := e.Elements()
	els[0].Position = geom.Point{X: 999, Y: 999}

	e.BringToFront("t")
	e.Undo()
	el, _ := e.Element("t")
	assert.Equal(t, geom.Point{X: 100, Y: 100}, el.Position)
	assert.Equal(t, 1, el.ZIndex)
}

func TestUpdateUnknownRecordsIdenticalStep(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("t"))
	before := e.Elements()

	e.UpdateElement("missing", document.ElementPatch{Position: &geom.Point{}})
	assert.Equal(t, 3, e.HistoryLen())
	assert.Equal(t, before, e.Elements())
}

func TestDeleteClearsSelection(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("a"))
	e.AddElement(document.NewText("b"))

	e.SelectElement("a")
	e.DeleteElement("b")
	assert.Equal(t, "a", e.SelectedID())

	e.DeleteElement("a")
	assert.Empty(t, e.SelectedID())
}

func TestSelectElement(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("a"))

	e.SelectElement("a")
	assert.Equal(t, "a", e.SelectedID())

	e.SelectElement("ghost")
	assert.Equal(t, "a", e.SelectedID())

	e.SelectElement("")
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, 2, e.HistoryLen())
}

func TestUndoClearsDanglingSelection(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("a"))
	e.SelectElement("a")
	e.Undo()
	assert.Empty(t, e.SelectedID())
}

func TestDuplicateElement(t *testing.T) {
	e := New(counterIDs())
	src := document.NewShape("shape_src", document.ShapeTriangle)
	e.AddElement(src)

	id := e.DuplicateElement("shape_src")
	require.NotEmpty(t, id)
	assert.NotEqual(t, "shape_src", id)

	els := e.Elements()
	require.Len(t, els, 2)
	assert.Equal(t, id, els[1].ID)
	assert.Equal(t, src.Position.Add(20, 20), els[1].Position)
	assert.Equal(t, src.Size, els[1].Size)
	assert.Equal(t, src.ZIndex, els[1].ZIndex)
	assert.Equal(t, src.Props, els[1].Props)

	// Same zIndex, later in the collection: paints above the source.
	cmds := e.DrawCommands()
	assert.Equal(t, id, cmds[len(cmds)-1].ObjectID)
}

func TestDuplicateUnknown(t *testing.T) {
	e := New()
	assert.Empty(t, e.DuplicateElement("nope"))
	assert.Equal(t, 1, e.HistoryLen())
}

func TestDuplicateSkipsTakenIDs(t *testing.T) {
	e := New(counterIDs())
	e.AddElement(document.NewText("text_1"))
	id := e.DuplicateElement("text_1")
	assert.Equal(t, "text_2", id)
}

func TestDefaultIDGeneratorKeepsTypePrefix(t *testing.T) {
	e := New()
	e.AddElement(document.NewImage("img", "/assets/a.png", "", geom.Size{Width: 10, Height: 10}))
	id := e.DuplicateElement("img")
	assert.Regexp(t, `^image_`, id)
}

func TestZOrder(t *testing.T) {
	e := New()
	e.AddElement(document.Element{ID: "a", ZIndex: 3, Props: document.ShapeProps{}})
	e.AddElement(document.Element{ID: "b", ZIndex: 7, Props: document.ShapeProps{}})
	e.AddElement(document.Element{ID: "c", ZIndex: 2, Props: document.ShapeProps{}})

	e.BringToFront("a")
	a, _ := e.Element("a")
	assert.Equal(t, 8, a.ZIndex)

	e.SendToBack("b")
	b, _ := e.Element("b")
	// The minimum includes 0 even when every zIndex is positive.
	assert.Equal(t, -1, b.ZIndex)

	e.Undo()
	b, _ = e.Element("b")
	assert.Equal(t, 7, b.ZIndex)

	before := e.HistoryLen()
	e.BringToFront("ghost")
	assert.Equal(t, before, e.HistoryLen())
}

func TestAlignElement(t *testing.T) {
	tests := []struct {
		align Alignment
		want  geom.Point
	}{
		{AlignLeft, geom.Point{X: 0, Y: 100}},
		{AlignCenter, geom.Point{X: 450, Y: 100}},
		{AlignRight, geom.Point{X: 900, Y: 100}},
		{AlignTop, geom.Point{X: 100, Y: 0}},
		{AlignMiddle, geom.Point{X: 100, Y: 275}},
		{AlignBottom, geom.Point{X: 100, Y: 550}},
	}
	for _, tt := range tests {
		t.Run(string(tt.align), func(t *testing.T) {
			e := New()
			e.AddElement(document.NewText("t"))
			e.AlignElement("t", tt.align)
			el, _ := e.Element("t")
			assert.Equal(t, tt.want, el.Position)
			assert.Equal(t, 3, e.HistoryLen())
		})
	}

	e := New()
	e.AlignElement("ghost", AlignLeft)
	assert.Equal(t, 1, e.HistoryLen())

	_, err := ParseAlignment("diagonal")
	assert.Error(t, err)
}

func TestReorderAndAlignKeepEarlierSnapshots(t *testing.T) {
	e := New()
	e.AddElement(document.Element{ID: "a", ZIndex: 1, Position: geom.Point{X: 40, Y: 40}, Size: geom.Size{Width: 10, Height: 10}, Props: document.ShapeProps{}})
	e.AddElement(document.Element{ID: "b", ZIndex: 2, Props: document.ShapeProps{}})
	assert.Equal(t, "add", e.LastAction())

	e.BringToFront("a")
	assert.Equal(t, "front", e.LastAction())
	e.SendToBack("b")
	assert.Equal(t, "back", e.LastAction())
	e.AlignElement("a", AlignLeft)
	assert.Equal(t, "align", e.LastAction())

	a, _ := e.Element("a")
	assert.Equal(t, geom.Point{X: 0, Y: 40}, a.Position)
	assert.Equal(t, 3, a.ZIndex)

	e.Undo()
	e.Undo()
	e.Undo()
	assert.Equal(t, "add", e.LastAction())
	a, _ = e.Element("a")
	b, _ := e.Element("b")
	assert.Equal(t, geom.Point{X: 40, Y: 40}, a.Position)
	assert.Equal(t, 1, a.ZIndex)
	assert.Equal(t, 2, b.ZIndex)

	e.Redo()
	assert.Equal(t, "front", e.LastAction())
}

func TestApplyTemplate(t *testing.T) {
	cat, err := document.BuiltinCatalog()
	require.NoError(t, err)
	tpl, ok := cat.Lookup("youtube-thumbnail")
	require.True(t, ok)

	e := New()
	e.AddElement(document.NewText("t"))
	e.SelectElement("t")

	e.ApplyTemplate(tpl)
	assert.Equal(t, 1280, e.Canvas().Width)
	assert.Len(t, e.Elements(), len(tpl.Elements))
	assert.Empty(t, e.SelectedID())
	assert.Equal(t, 3, e.HistoryLen())

	// Canvas settings are not versioned.
	e.Undo()
	assert.Equal(t, 1280, e.Canvas().Width)
	_, ok = e.Element("t")
	assert.True(t, ok)
}

func TestClearCanvas(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("t"))
	e.SelectElement("t")
	e.ClearCanvas()
	assert.Empty(t, e.Elements())
	assert.Empty(t, e.SelectedID())
	e.Undo()
	assert.Len(t, e.Elements(), 1)
}

func TestCanvasAndSnapAreUntracked(t *testing.T) {
	e := New(WithCanvas(document.CanvasSettings{Width: 800, Height: 600}))
	assert.Equal(t, 800, e.Canvas().Width)
	assert.True(t, e.SnapEnabled())

	e.UpdateCanvasSettings(document.CanvasPatch{Height: ptr(400), BackgroundColor: ptr("#000000")})
	e.ToggleSnap()
	assert.Equal(t, 400, e.Canvas().Height)
	assert.Equal(t, "#000000", e.Canvas().BackgroundColor)
	assert.False(t, e.SnapEnabled())
	assert.Equal(t, 1, e.HistoryLen())

	e.SetSnapEnabled(true)
	assert.True(t, e.SnapEnabled())
}

func TestHitTestTopmost(t *testing.T) {
	e := New()
	e.AddElement(document.Element{ID: "high", ZIndex: 5, Position: geom.Point{X: 0, Y: 0}, Size: geom.Size{Width: 100, Height: 100}, Props: document.ShapeProps{}})
	e.AddElement(document.Element{ID: "low", ZIndex: 1, Position: geom.Point{X: 50, Y: 50}, Size: geom.Size{Width: 100, Height: 100}, Props: document.ShapeProps{}})
	e.AddElement(document.Element{ID: "tie", ZIndex: 5, Position: geom.Point{X: 80, Y: 80}, Size: geom.Size{Width: 10, Height: 10}, Props: document.ShapeProps{}})

	assert.Equal(t, "high", e.HitTest(60, 60))
	assert.Equal(t, "tie", e.HitTest(85, 85))
	assert.Equal(t, "low", e.HitTest(140, 140))
	assert.Empty(t, e.HitTest(500, 500))
}

func TestRenderJSON(t *testing.T) {
	e := New()
	assert.Equal(t, "[]", e.Render())

	e.AddElement(document.NewText("t"))
	e.SelectElement("t")

	var cmds []map[string]any
	require.NoError(t, json.Unmarshal([]byte(e.Render()), &cmds))
	require.Len(t, cmds, 1)
	assert.Equal(t, "text", cmds[0]["op"])
	assert.Equal(t, "t", cmds[0]["objectId"])
	assert.Equal(t, true, cmds[0]["selected"])
	assert.Equal(t, 300.0, cmds[0]["width"])
}

func TestDocumentSnapshot(t *testing.T) {
	e := New()
	e.AddElement(document.NewText("t"))
	e.SelectElement("t")

	doc := e.Document()
	doc.Canvas.Gradient.Colors[0].Color = "#000000"
	doc.Elements[0].ID = "changed"

	assert.Equal(t, "#ff6b6b", e.Canvas().Gradient.Colors[0].Color)
	_, ok := e.Element("t")
	assert.True(t, ok)
	assert.Equal(t, "t", doc.SelectedElementID)

	bounds, ok := e.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, geom.Rect{X: 100, Y: 100, Width: 300, Height: 80}, bounds)
}
