package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"

	"github.com/inamate/composer/internal/document"
)

var (
	ErrInvalidScale        = errors.New("invalid export scale")
	ErrCanvasTooLarge      = errors.New("export canvas too large")
	ErrUnsupportedImageURL = errors.New("unsupported image url")
)

const (
	// textPadding is the inset of text inside its element box.
	textPadding = 8
	jpegQuality = 92
	boldWeight  = 600
	assetPrefix = "/assets/"

	// DefaultMaxPixels caps the bitmap area of a single export.
	DefaultMaxPixels = 40_000_000
)

type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

func (f Format) ContentType() string {
	if f == FormatJPEG {
		return "image/jpeg"
	}
	return "image/png"
}

func (f Format) Ext() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return "png"
}

// ImageLoader resolves an element or background image url.
type ImageLoader func(url string) (image.Image, error)

// Rasterizer draws documents into bitmaps.
type Rasterizer struct {
	load     ImageLoader
	regular  *text.FontSource
	bold      *text.FontSource
	maxScale  float64
	maxPixels float64
}

type RasterizerOption func(*Rasterizer)

// WithImageLoader replaces the default data:/asset-dir image resolution.
func WithImageLoader(load ImageLoader) RasterizerOption {
	return func(r *Rasterizer) {
		r.load = load
	}
}

// WithMaxPixels sets the largest width*height an export may allocate.
func WithMaxPixels(n int) RasterizerOption {
	return func(r *Rasterizer) {
		if n > 0 {
			r.maxPixels = float64(n)
		}
	}
}

func NewRasterizer(assetDir string, maxScale float64, opts ...RasterizerOption) (*Rasterizer, error) {
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	r := &Rasterizer{
		load:      AssetLoader(assetDir),
		regular:   regular,
		bold:      bold,
		maxScale:  maxScale,
		maxPixels: DefaultMaxPixels,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// AssetLoader resolves data: urls and /assets/ paths under dir.
func AssetLoader(dir string) ImageLoader {
	return func(url string) (image.Image, error) {
		var rd io.Reader
		switch {
		case strings.HasPrefix(url, "data:"):
			data, err := decodeDataURL(url)
			if err != nil {
				return nil, err
			}
			rd = bytes.NewReader(data)
		case strings.HasPrefix(url, assetPrefix):
			name := filepath.Base(strings.TrimPrefix(url, assetPrefix))
			f, err := os.Open(filepath.Join(dir, name))
			if err != nil {
				return nil, fmt.Errorf("open asset: %w", err)
			}
			defer f.Close()
			rd = f
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedImageURL, url)
		}

		img, _, err := image.Decode(rd)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return img, nil
	}
}

func decodeDataURL(url string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(url, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("%w: data url must be base64", ErrUnsupportedImageURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data url: %w", err)
	}
	return data, nil
}

// Rasterize draws doc at scale. The bitmap is Width*scale by Height*scale.
func (r *Rasterizer) Rasterize(doc document.Document, scale float64) (image.Image, error) {
	if scale <= 0 || scale > r.maxScale || math.IsNaN(scale) {
		return nil, fmt.Errorf("%w: %v (max %v)", ErrInvalidScale, scale, r.maxScale)
	}
	fw := math.Round(float64(doc.Canvas.Width) * scale)
	fh := math.Round(float64(doc.Canvas.Height) * scale)
	if fw <= 0 || fh <= 0 {
		return nil, fmt.Errorf("canvas %dx%d has no area", doc.Canvas.Width, doc.Canvas.Height)
	}
	// Checked in float64 so huge canvases never reach the int conversion.
	if fw*fh > r.maxPixels {
		return nil, fmt.Errorf("%w: %.0fx%.0f exceeds %.0f pixels", ErrCanvasTooLarge, fw, fh, r.maxPixels)
	}
	w, h := int(fw), int(fh)

	dc := gg.NewContext(w, h)
	defer dc.Close()

	p := &painter{r: r, dc: dc, s: scale, w: w, h: h}
	if err := p.background(doc.Canvas); err != nil {
		return nil, err
	}
	for _, el := range document.PaintOrder(doc.Elements) {
		if err := p.element(el); err != nil {
			return nil, fmt.Errorf("draw element %s: %w", el.ID, err)
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush gpu: %w", err)
	}
	return dc.Image(), nil
}

// Encode rasterizes doc and writes it to w in the given format.
func (r *Rasterizer) Encode(w io.Writer, doc document.Document, scale float64, format Format) error {
	img, err := r.Rasterize(doc, scale)
	if err != nil {
		return err
	}
	dc := gg.NewContextForImage(img)
	defer dc.Close()

	switch format {
	case FormatJPEG:
		err = dc.EncodeJPEG(w, jpegQuality)
	default:
		err = dc.EncodePNG(w)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func (r *Rasterizer) face(weight string, size float64) text.Face {
	src := r.regular
	if isBold(weight) {
		src = r.bold
	}
	return src.Face(size)
}

func isBold(weight string) bool {
	switch strings.ToLower(weight) {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(weight)
	return err == nil && n >= boldWeight
}

// painter carries one rasterization. Coordinates are canvas units and
// are multiplied by s on the way to the context, since gg draws text
// and images in device space regardless of the transform.
type painter struct {
	r    *Rasterizer
	dc   *gg.Context
	s    float64
	w, h int
}

func (p *painter) background(c document.CanvasSettings) error {
	p.dc.SetHexColor("#ffffff")
	p.dc.DrawRectangle(0, 0, float64(p.w), float64(p.h))
	if err := p.dc.Fill(); err != nil {
		return err
	}

	if c.BackgroundType == document.BackgroundGradient && c.Gradient != nil && len(c.Gradient.Colors) > 0 {
		p.dc.SetFillBrush(gradientBrush(*c.Gradient, float64(p.w), float64(p.h)))
		p.dc.DrawRectangle(0, 0, float64(p.w), float64(p.h))
		return p.dc.Fill()
	}

	if visible(c.BackgroundColor) {
		p.dc.SetHexColor(c.BackgroundColor)
		p.dc.DrawRectangle(0, 0, float64(p.w), float64(p.h))
		if err := p.dc.Fill(); err != nil {
			return err
		}
	}
	if c.BackgroundImage != "" {
		img, err := p.r.load(c.BackgroundImage)
		if err != nil {
			return fmt.Errorf("background image: %w", err)
		}
		p.cover(img, image.Rect(0, 0, p.w, p.h))
		p.dc.DrawRectangle(0, 0, float64(p.w), float64(p.h))
		return p.dc.Fill()
	}
	return nil
}

// gradientBrush follows CSS geometry: a linear gradient line passes
// through the center at the given angle and is long enough for the
// corners to reach the end stops; a circular radial gradient reaches the
// farthest corner.
func gradientBrush(g document.Gradient, w, h float64) gg.Brush {
	cx, cy := w/2, h/2
	if g.Type == document.GradientRadial {
		b := gg.NewRadialGradientBrush(cx, cy, 0, math.Hypot(cx, cy))
		for _, stop := range g.Colors {
			b.AddColorStop(stop.Position/100, gg.Hex(stop.Color))
		}
		return b
	}

	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	half := (math.Abs(w*dx) + math.Abs(h*dy)) / 2
	b := gg.NewLinearGradientBrush(cx-dx*half, cy-dy*half, cx+dx*half, cy+dy*half)
	for _, stop := range g.Colors {
		b.AddColorStop(stop.Position/100, gg.Hex(stop.Color))
	}
	return b
}

func (p *painter) element(el document.Element) error {
	x, y := el.Position.X*p.s, el.Position.Y*p.s
	w, h := el.Size.Width*p.s, el.Size.Height*p.s
	if w <= 0 || h <= 0 {
		return nil
	}

	switch props := el.Props.(type) {
	case document.ShapeProps:
		return p.shape(props, x, y, w, h)
	case document.ImageProps:
		return p.image(props, x, y, w, h)
	case document.TextProps:
		p.text(props, x, y, w, h)
		return nil
	default:
		return errors.New("element has no props")
	}
}

func (p *painter) shape(props document.ShapeProps, x, y, w, h float64) error {
	if props.Shape == document.ShapeTriangle {
		if !visible(props.BackgroundColor) {
			return nil
		}
		p.dc.SetHexColor(props.BackgroundColor)
		p.dc.MoveTo(x+w/2, y)
		p.dc.LineTo(x+w, y+h)
		p.dc.LineTo(x, y+h)
		p.dc.ClosePath()
		return p.dc.Fill()
	}

	outline := func(inset float64) {
		if props.Shape == document.ShapeCircle {
			p.dc.DrawEllipse(x+w/2, y+h/2, w/2-inset, h/2-inset)
			return
		}
		p.roundedRect(x+inset, y+inset, w-2*inset, h-2*inset, props.BorderRadius*p.s-inset)
	}

	if visible(props.BackgroundColor) {
		p.dc.SetHexColor(props.BackgroundColor)
		outline(0)
		if err := p.dc.Fill(); err != nil {
			return err
		}
	}
	return p.border(props.BorderWidth, props.BorderColor, outline)
}

func (p *painter) image(props document.ImageProps, x, y, w, h float64) error {
	img, err := p.r.load(props.URL)
	if err != nil {
		return err
	}
	dst := image.Rect(int(math.Round(x)), int(math.Round(y)), int(math.Round(x+w)), int(math.Round(y+h)))
	p.cover(img, dst)
	p.roundedRect(x, y, w, h, props.BorderRadius*p.s)
	if err := p.dc.Fill(); err != nil {
		return err
	}
	return p.border(props.BorderWidth, props.BorderColor, func(inset float64) {
		p.roundedRect(x+inset, y+inset, w-2*inset, h-2*inset, props.BorderRadius*p.s-inset)
	})
}

// border strokes an outline inset by half the line width so the border
// stays inside the element box.
func (p *painter) border(width float64, color string, outline func(inset float64)) error {
	if width <= 0 || !visible(color) {
		return nil
	}
	lw := width * p.s
	p.dc.SetHexColor(color)
	p.dc.SetLineWidth(lw)
	outline(lw / 2)
	return p.dc.Stroke()
}

func (p *painter) roundedRect(x, y, w, h, r float64) {
	r = min(r, w/2, h/2)
	if r <= 0 {
		p.dc.DrawRectangle(x, y, w, h)
		return
	}
	p.dc.DrawRoundedRectangle(x, y, w, h, r)
}

// cover scales img to fill dst, cropping the overflow around the center,
// and installs it as the fill pattern.
func (p *painter) cover(img image.Image, dst image.Rectangle) {
	layer := image.NewRGBA(image.Rect(0, 0, p.w, p.h))
	draw.CatmullRom.Scale(layer, dst, img, coverSource(img.Bounds(), dst), draw.Src, nil)
	p.dc.SetFillPattern(p.dc.CreateImagePattern(gg.ImageBufFromImage(layer), 0, 0, p.w, p.h))
}

func coverSource(src, dst image.Rectangle) image.Rectangle {
	if src.Empty() || dst.Empty() {
		return src
	}
	sw, sh := float64(src.Dx()), float64(src.Dy())
	k := max(float64(dst.Dx())/sw, float64(dst.Dy())/sh)
	cw, ch := float64(dst.Dx())/k, float64(dst.Dy())/k
	x0 := float64(src.Min.X) + (sw-cw)/2
	y0 := float64(src.Min.Y) + (sh-ch)/2
	return image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x0+cw)), int(math.Round(y0+ch)))
}

func (p *painter) text(props document.TextProps, x, y, w, h float64) {
	if props.Content == "" || props.FontSize <= 0 {
		return
	}
	p.dc.SetFont(p.r.face(props.FontWeight, props.FontSize*p.s))
	if visible(props.Color) {
		p.dc.SetHexColor(props.Color)
	} else {
		p.dc.SetHexColor("#000000")
	}

	pad := textPadding * p.s
	lines := p.wrap(props.Content, w-2*pad)
	_, lh := p.dc.MeasureString("Mg")
	top := y + (h-lh*float64(len(lines)))/2

	ax, tx := 0.0, x+pad
	switch props.TextAlign {
	case document.TextAlignCenter:
		ax, tx = 0.5, x+w/2
	case document.TextAlignRight:
		ax, tx = 1, x+w-pad
	}
	for i, line := range lines {
		p.dc.DrawStringAnchored(line, tx, top+lh*float64(i)+lh/2, ax, 0.5)
	}
}

// wrap breaks s into lines no wider than limit, on explicit newlines and
// then greedily on spaces. A single word wider than limit gets its own line.
func (p *painter) wrap(s string, limit float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if cw, _ := p.dc.MeasureString(candidate); cw > limit {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

func visible(color string) bool {
	return color != "" && color != "transparent" && color != "none"
}
