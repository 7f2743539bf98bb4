package engine

import (
	"encoding/json"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/geom"
)

// DrawCommand is a single absolutely positioned element for a renderer to
// paint. A list of them is in painter's order (back to front).
type DrawCommand struct {
	Op       document.ElementType `json:"op"`
	ObjectID string               `json:"objectId"`
	X        float64              `json:"x"`
	Y        float64              `json:"y"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	ZIndex   int                  `json:"zIndex"`
	Props    document.Props       `json:"props"`
	Selected bool                 `json:"selected,omitempty"`
}

// CompileDrawCommands generates the draw list for a document.
func CompileDrawCommands(doc document.Document) []DrawCommand {
	ordered := document.PaintOrder(doc.Elements)
	commands := make([]DrawCommand, 0, len(ordered))
	for _, el := range ordered {
		commands = append(commands, DrawCommand{
			Op:       el.Type(),
			ObjectID: el.ID,
			X:        el.Position.X,
			Y:        el.Position.Y,
			Width:    el.Size.Width,
			Height:   el.Size.Height,
			ZIndex:   el.ZIndex,
			Props:    el.Props,
			Selected: el.ID == doc.SelectedElementID,
		})
	}
	return commands
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

// DrawCommands returns the current draw list.
func (e *Engine) DrawCommands() []DrawCommand {
	return CompileDrawCommands(e.Document())
}

// Render returns the current draw list as JSON.
func (e *Engine) Render() string {
	result, _ := DrawCommandsToJSON(e.DrawCommands())
	return result
}

// RectToJSON serializes a Rect to JSON.
func RectToJSON(r geom.Rect) string {
	data, _ := json.Marshal(map[string]float64{
		"x":      r.X,
		"y":      r.Y,
		"width":  r.Width,
		"height": r.Height,
	})
	return string(data)
}
