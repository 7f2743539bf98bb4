package engine

import (
	"slices"

	"github.com/inamate/composer/internal/document"
)

// Rec is one history record: the label of the action that produced it and
// the element collection right after it.
type Rec struct {
	Action   string
	Elements []document.Element
}

// History is a linear list of element snapshots with a cursor.
// Idx always satisfies 0 <= Idx < len(Recs).
type History struct {
	Idx  int
	Recs []Rec
}

func newHistory(initial []document.Element) *History {
	return &History{Recs: []Rec{{Action: "init", Elements: slices.Clone(initial)}}}
}

// Save records a new snapshot after the current one, discarding any redo
// branch. Elements are values, so a shallow clone of the slice is a fully
// independent snapshot.
func (h *History) Save(action string, elements []document.Element) {
	h.Recs = append(h.Recs[:h.Idx+1], Rec{Action: action, Elements: slices.Clone(elements)})
	h.Idx++
}

// Undo moves the cursor back and returns the snapshot there. At the first
// record it reports false and leaves the cursor alone.
func (h *History) Undo() ([]document.Element, bool) {
	if h.Idx == 0 {
		return nil, false
	}
	h.Idx--
	return slices.Clone(h.Recs[h.Idx].Elements), true
}

// Redo moves the cursor forward and returns the snapshot there.
func (h *History) Redo() ([]document.Element, bool) {
	if h.Idx >= len(h.Recs)-1 {
		return nil, false
	}
	h.Idx++
	return slices.Clone(h.Recs[h.Idx].Elements), true
}

func (h *History) CanUndo() bool { return h.Idx > 0 }
func (h *History) CanRedo() bool { return h.Idx < len(h.Recs)-1 }
func (h *History) Len() int      { return len(h.Recs) }

// Action returns the label of the current record.
func (h *History) Action() string { return h.Recs[h.Idx].Action }
