//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/engine"
	"github.com/inamate/composer/internal/geom"
	"github.com/inamate/composer/internal/interact"
	"github.com/inamate/composer/internal/ops"
)

var (
	eng     *engine.Engine
	ctrl    *interact.Controller
	catalog *document.Catalog
)

func main() {
	var err error
	catalog, err = document.BuiltinCatalog()
	if err != nil {
		js.Global().Get("console").Call("error", "load templates: "+err.Error())
		return
	}

	eng = engine.New()
	ctrl = interact.New(eng)

	// Create the engine API object
	composerEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	composerEngine.Set("applyOperation", js.FuncOf(applyOperation))
	composerEngine.Set("pointerDown", js.FuncOf(pointerDown))
	composerEngine.Set("pointerMove", js.FuncOf(pointerMove))
	composerEngine.Set("pointerUp", js.FuncOf(pointerUp))

	// --- Queries (frontend ← backend) ---
	composerEngine.Set("render", js.FuncOf(render))
	composerEngine.Set("hitTest", js.FuncOf(hitTest))
	composerEngine.Set("getSelectionBounds", js.FuncOf(getSelectionBounds))
	composerEngine.Set("getGuides", js.FuncOf(getGuides))
	composerEngine.Set("getDocument", js.FuncOf(getDocument))
	composerEngine.Set("getHistory", js.FuncOf(getHistory))
	composerEngine.Set("getGestureState", js.FuncOf(getGestureState))

	// Register on global scope
	js.Global().Set("composerEngine", composerEngine)

	// Signal that WASM is ready
	js.Global().Set("composerWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

func applyOperation(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing operation JSON"})
	}

	var op ops.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	elementID, err := ops.Apply(eng, catalog, op)
	if err != nil {
		return js.ValueOf(map[string]interface{}{"error": err.Error()})
	}

	return js.ValueOf(map[string]interface{}{"ok": true, "elementId": elementID})
}

func pointerEvent(args []js.Value) (interact.PointerEvent, bool) {
	if len(args) < 2 {
		return interact.PointerEvent{}, false
	}
	ev := interact.PointerEvent{X: args[0].Float(), Y: args[1].Float()}
	if len(args) > 2 {
		ev.Button = interact.Button(args[2].Int())
	}
	return ev, true
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	ev, ok := pointerEvent(args)
	if !ok {
		return nil
	}
	return js.ValueOf(ctrl.Press(ev))
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	ev, ok := pointerEvent(args)
	if !ok {
		return nil
	}
	return js.ValueOf(ctrl.Move(ev))
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	ev, _ := pointerEvent(args)
	ctrl.Release(ev)
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.Null()
	}
	id := eng.HitTest(args[0].Float(), args[1].Float())
	if id == "" {
		return js.Null()
	}
	return js.ValueOf(id)
}

func getSelectionBounds(this js.Value, args []js.Value) interface{} {
	bounds, ok := eng.SelectionBounds()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(engine.RectToJSON(bounds))
}

func getGuides(this js.Value, args []js.Value) interface{} {
	guides := ctrl.Guides()
	if guides == nil {
		guides = []geom.Guide{}
	}
	return js.ValueOf(toJSON(guides))
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(toJSON(eng.Document()))
}

func getHistory(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(map[string]interface{}{
		"index":      eng.HistoryIndex(),
		"length":     eng.HistoryLen(),
		"canUndo":    eng.CanUndo(),
		"canRedo":    eng.CanRedo(),
		"lastAction": eng.LastAction(),
	})
}

func getGestureState(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ctrl.State().String())
}

func toJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
