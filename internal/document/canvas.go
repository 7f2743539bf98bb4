package document

import "slices"

type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
)

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// ColorStop places a color along a gradient. Position is a percentage,
// 0 to 100.
type ColorStop struct {
	Color    string  `json:"color" yaml:"color"`
	Position float64 `json:"position" yaml:"position"`
}

type Gradient struct {
	Type GradientType `json:"type" yaml:"type"`
	// Angle is in degrees, CSS convention: 0 points up, 90 points right.
	Angle  float64     `json:"angle" yaml:"angle"`
	Colors []ColorStop `json:"colors" yaml:"colors"`
}

// Clone returns a copy that shares no memory with g.
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	c := *g
	c.Colors = slices.Clone(g.Colors)
	return &c
}

type CanvasSettings struct {
	Width           int            `json:"width" yaml:"width"`
	Height          int            `json:"height" yaml:"height"`
	BackgroundType  BackgroundType `json:"backgroundType" yaml:"backgroundType"`
	BackgroundColor string         `json:"backgroundColor" yaml:"backgroundColor"`
	Gradient        *Gradient      `json:"gradient,omitempty" yaml:"gradient,omitempty"`
	BackgroundImage string         `json:"backgroundImage,omitempty" yaml:"backgroundImage,omitempty"`
	Padding         float64        `json:"padding" yaml:"padding"`
}

// Clone returns a deep copy of the settings.
func (c CanvasSettings) Clone() CanvasSettings {
	c.Gradient = c.Gradient.Clone()
	return c
}

// DefaultCanvas returns the settings of a fresh document.
func DefaultCanvas() CanvasSettings {
	return CanvasSettings{
		Width:           1200,
		Height:          630,
		BackgroundType:  BackgroundSolid,
		BackgroundColor: "#ffffff",
		Gradient: &Gradient{
			Type:  GradientLinear,
			Angle: 135,
			Colors: []ColorStop{
				{Color: "#ff6b6b", Position: 0},
				{Color: "#feca57", Position: 100},
			},
		},
		Padding: 0,
	}
}

// CanvasPatch is a partial update of the canvas settings.
type CanvasPatch struct {
	Width           *int            `json:"width,omitempty"`
	Height          *int            `json:"height,omitempty"`
	BackgroundType  *BackgroundType `json:"backgroundType,omitempty"`
	BackgroundColor *string         `json:"backgroundColor,omitempty"`
	Gradient        *Gradient       `json:"gradient,omitempty"`
	BackgroundImage *string         `json:"backgroundImage,omitempty"`
	Padding         *float64        `json:"padding,omitempty"`
}

// Apply returns a copy of c with the patch merged in.
func (c CanvasSettings) Apply(p CanvasPatch) CanvasSettings {
	c = c.Clone()
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.Height != nil {
		c.Height = *p.Height
	}
	if p.BackgroundType != nil {
		c.BackgroundType = *p.BackgroundType
	}
	if p.BackgroundColor != nil {
		c.BackgroundColor = *p.BackgroundColor
	}
	if p.Gradient != nil {
		c.Gradient = p.Gradient.Clone()
	}
	if p.BackgroundImage != nil {
		c.BackgroundImage = *p.BackgroundImage
	}
	if p.Padding != nil {
		c.Padding = *p.Padding
	}
	return c
}
