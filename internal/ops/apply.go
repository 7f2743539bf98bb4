package ops

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/engine"
	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/typeid"
)

var ErrUnknown = errors.New("unknown operation type")

// Apply runs op against eng and returns the id of the element it created,
// if any. Errors only come from payloads the engine cannot take; unknown
// element ids are absorbed by the engine itself.
func Apply(eng *engine.Engine, catalog *document.Catalog, op Operation) (string, error) {
	switch op.Type {
	case ElementAdd:
		return applyAdd(eng, op)
	case ElementAddImage:
		return applyAddImage(eng, op)
	case ElementUpdate:
		return "", applyUpdate(eng, op)
	case ElementDelete:
		eng.DeleteElement(op.ElementID)
	case ElementDuplicate:
		return eng.DuplicateElement(op.ElementID), nil
	case ElementFront:
		eng.BringToFront(op.ElementID)
	case ElementBack:
		eng.SendToBack(op.ElementID)
	case ElementAlign:
		a, err := engine.ParseAlignment(op.Alignment)
		if err != nil {
			return "", err
		}
		eng.AlignElement(op.ElementID, a)
	case ElementSelect:
		eng.SelectElement(op.ElementID)
	case TemplateApply:
		t, ok := catalog.Lookup(op.TemplateID)
		if !ok {
			return "", fmt.Errorf("unknown template %q", op.TemplateID)
		}
		eng.ApplyTemplate(t)
	case CanvasUpdate:
		if op.Canvas == nil {
			return "", errors.New("canvas.update requires canvas")
		}
		eng.UpdateCanvasSettings(*op.Canvas)
	case CanvasClear:
		eng.ClearCanvas()
	case HistoryUndo:
		eng.Undo()
	case HistoryRedo:
		eng.Redo()
	case SnapToggle:
		if op.Enabled != nil {
			eng.SetSnapEnabled(*op.Enabled)
		} else {
			eng.ToggleSnap()
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknown, op.Type)
	}
	return "", nil
}

func applyAdd(eng *engine.Engine, op Operation) (string, error) {
	var el document.Element
	switch {
	case len(op.Element) > 0:
		if err := json.Unmarshal(op.Element, &el); err != nil {
			return "", fmt.Errorf("invalid element: %w", err)
		}
		if el.ID == "" {
			el.ID = typeid.NewElementID(string(el.Type()))
		}
		if _, exists := eng.Element(el.ID); exists {
			return "", fmt.Errorf("element %q already exists", el.ID)
		}
	case op.ElementType == document.ElementTypeText:
		el = document.NewText(typeid.NewElementID(string(op.ElementType)))
	case op.ElementType == document.ElementTypeShape:
		kind := op.Shape
		if kind == "" {
			kind = document.ShapeRectangle
		}
		el = document.NewShape(typeid.NewElementID(string(op.ElementType)), kind)
	default:
		return "", fmt.Errorf("element.add requires element or a text/shape elementType, got %q", op.ElementType)
	}

	eng.AddElement(el)
	eng.SelectElement(el.ID)
	return el.ID, nil
}

func applyAddImage(eng *engine.Engine, op Operation) (string, error) {
	if op.Image == nil || op.Image.URL == "" {
		return "", errors.New("element.addImage requires image.url")
	}
	if op.Image.Width <= 0 || op.Image.Height <= 0 {
		return "", errors.New("element.addImage requires the natural image size")
	}
	el := document.NewImage(
		typeid.NewElementID(string(document.ElementTypeImage)),
		op.Image.URL,
		op.Image.Alt,
		geom.Size{Width: op.Image.Width, Height: op.Image.Height},
	)
	eng.AddElement(el)
	eng.SelectElement(el.ID)
	return el.ID, nil
}

func applyUpdate(eng *engine.Engine, op Operation) error {
	patch := document.ElementPatch{
		Position: op.Position,
		Size:     op.Size,
		ZIndex:   op.ZIndex,
	}
	if len(op.Props) > 0 {
		if el, ok := eng.Element(op.ElementID); ok {
			props, err := document.MergeProps(el.Props, op.Props)
			if err != nil {
				return err
			}
			patch.Props = props
		}
	}
	eng.UpdateElement(op.ElementID, patch)
	return nil
}
