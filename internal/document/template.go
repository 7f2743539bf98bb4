package document

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/inamate/composer/internal/geom"
)

// Template is a ready-made composition: canvas settings plus elements.
type Template struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Category string         `json:"category" yaml:"category"`
	Canvas   CanvasSettings `json:"canvasSettings" yaml:"canvasSettings"`
	Elements []Element      `json:"elements" yaml:"elements"`
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	t.Canvas = t.Canvas.Clone()
	t.Elements = slices.Clone(t.Elements)
	return t
}

// Catalog is an ordered set of templates.
type Catalog struct {
	Templates []Template `json:"templates" yaml:"templates"`
}

// Lookup finds a template by id.
func (c *Catalog) Lookup(id string) (Template, bool) {
	for _, t := range c.Templates {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return Template{}, false
}

// ByCategory groups templates by category, keeping catalog order.
func (c *Catalog) ByCategory() map[string][]Template {
	groups := make(map[string][]Template)
	for _, t := range c.Templates {
		groups[t.Category] = append(groups[t.Category], t)
	}
	return groups
}

// LoadCatalog parses a YAML template catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadCatalogFile parses the YAML catalog at path.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open template catalog: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

func (c *Catalog) validate() error {
	seen := make(map[string]bool, len(c.Templates))
	for _, t := range c.Templates {
		if t.ID == "" {
			return errors.New("template without id")
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
		if t.Canvas.Width <= 0 || t.Canvas.Height <= 0 {
			return fmt.Errorf("template %q: canvas must have a positive size", t.ID)
		}
	}
	return nil
}

//go:embed templates.yaml
var builtinTemplates []byte

var builtinCatalog = sync.OnceValues(func() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(builtinTemplates))
})

// BuiltinCatalog returns the templates shipped with the binary.
func BuiltinCatalog() (*Catalog, error) {
	return builtinCatalog()
}

type elementYAML struct {
	ID       string      `yaml:"id"`
	Type     ElementType `yaml:"type"`
	Position geom.Point  `yaml:"position"`
	Size     geom.Size   `yaml:"size"`
	ZIndex   int         `yaml:"zIndex"`
	Props    yaml.Node   `yaml:"props"`
}

func (e *Element) UnmarshalYAML(value *yaml.Node) error {
	var w elementYAML
	if err := value.Decode(&w); err != nil {
		return err
	}

	var props Props
	switch w.Type {
	case ElementTypeText:
		var p TextProps
		if err := decodeProps(&w.Props, &p); err != nil {
			return err
		}
		props = p
	case ElementTypeImage:
		var p ImageProps
		if err := decodeProps(&w.Props, &p); err != nil {
			return err
		}
		props = p
	case ElementTypeShape:
		var p ShapeProps
		if err := decodeProps(&w.Props, &p); err != nil {
			return err
		}
		props = p
	default:
		return fmt.Errorf("line %d: unknown element type %q", value.Line, w.Type)
	}

	*e = Element{
		ID:       w.ID,
		Position: w.Position,
		Size:     w.Size,
		ZIndex:   w.ZIndex,
		Props:    props,
	}
	return nil
}

func decodeProps(n *yaml.Node, into any) error {
	if n.Kind == 0 {
		return nil
	}
	return n.Decode(into)
}
