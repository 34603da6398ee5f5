// Package paint is an external-painter consumer of the display list built
// by internal/displaylist (spec §4.12, §6 "expected ... an output mode
// (display-list JSON or rendered PNG)"). It never walks the DOM or the box
// tree directly — a rasterizer-swap only requires a new consumer of
// []displaylist.Item, never a change to layout or cascade.
package paint

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"gocko/internal/displaylist"
	"gocko/internal/style/values"
)

// FontSource is the shared text face source; callers set it once at
// startup (e.g. from an embedded ttf), mirroring the teacher's
// render.SetFontSource idiom. A nil source makes Rasterize skip text runs
// rather than panic, since fixtures may run headless in CI without a font.
var FontSource *text.GoTextFaceSource

// SetFontSource installs the face source used by subsequent Rasterize calls.
func SetFontSource(src *text.GoTextFaceSource) { FontSource = src }

// Rasterize paints items onto a freshly allocated width x height image,
// honoring stacking-context opacity by compositing each context's items
// into an offscreen image first (spec §4.12's Begin/EndStackingContext
// pairing).
func Rasterize(items []displaylist.Item, width, height int) *ebiten.Image {
	target := ebiten.NewImage(width, height)
	p := &painter{width: width, height: height}
	p.stack = []*ebiten.Image{target}
	p.opacity = []float64{1}
	for _, it := range items {
		p.paintOne(it)
	}
	return target
}

// EncodePNG rasterizes items and encodes the result as PNG bytes, the
// backing format for `gocko run --out png` (spec §6).
func EncodePNG(items []displaylist.Item, width, height int) ([]byte, error) {
	img := Rasterize(items, width, height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, imageFrom(img)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func imageFrom(img *ebiten.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	img.ReadPixels(out.Pix)
	return out
}

type painter struct {
	width, height int
	stack         []*ebiten.Image
	opacity       []float64
}

func (p *painter) top() *ebiten.Image { return p.stack[len(p.stack)-1] }

func (p *painter) paintOne(it displaylist.Item) {
	switch it.Kind {
	case displaylist.ItemBeginStackingContext:
		layer := ebiten.NewImage(p.width, p.height)
		p.stack = append(p.stack, layer)
		p.opacity = append(p.opacity, it.Opacity)
	case displaylist.ItemEndStackingContext:
		if len(p.stack) < 2 {
			return
		}
		layer := p.stack[len(p.stack)-1]
		opacity := p.opacity[len(p.opacity)-1]
		p.stack = p.stack[:len(p.stack)-1]
		p.opacity = p.opacity[:len(p.opacity)-1]
		op := &ebiten.DrawImageOptions{}
		op.ColorScale.ScaleAlpha(float32(opacity))
		p.top().DrawImage(layer, op)
	case displaylist.ItemRect:
		paintRect(p.top(), it)
	case displaylist.ItemBorder:
		paintBorder(p.top(), it)
	case displaylist.ItemBoxShadow:
		paintBoxShadow(p.top(), it)
	case displaylist.ItemText:
		paintText(p.top(), it)
	case displaylist.ItemImage:
		paintImage(p.top(), it)
	case displaylist.ItemLinearGradient:
		paintLinearGradient(p.top(), it)
	case displaylist.ItemBeginClip, displaylist.ItemEndClip:
		// Clip regions are not yet enforced by this consumer; emitted
		// markers are structurally valid but have no visual effect.
	}
}

func paintRect(screen *ebiten.Image, it displaylist.Item) {
	r := it.Rect
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(r.Height), it.Color.ToRGBA(), false)
}

func paintBorder(screen *ebiten.Image, it displaylist.Item) {
	r := it.Rect
	e := it.BorderEdges
	if e.TopWidth > 0 && e.TopStyle != "none" {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.Width), float32(e.TopWidth), e.TopColor.ToRGBA(), false)
	}
	if e.BottomWidth > 0 && e.BottomStyle != "none" {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y+r.Height-e.BottomWidth), float32(r.Width), float32(e.BottomWidth), e.BottomColor.ToRGBA(), false)
	}
	if e.LeftWidth > 0 && e.LeftStyle != "none" {
		vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(e.LeftWidth), float32(r.Height), e.LeftColor.ToRGBA(), false)
	}
	if e.RightWidth > 0 && e.RightStyle != "none" {
		vector.DrawFilledRect(screen, float32(r.X+r.Width-e.RightWidth), float32(r.Y), float32(e.RightWidth), float32(r.Height), e.RightColor.ToRGBA(), false)
	}
}

// paintBoxShadow is a flat approximation: the blur radius pads the shadow
// rect rather than being diffused, matching the teacher's complete lack of
// shadow support (`gocko/paint/painter.go` has none at all).
func paintBoxShadow(screen *ebiten.Image, it displaylist.Item) {
	r := it.Rect
	x := float32(r.X + it.ShadowDX - it.ShadowBlur/2)
	y := float32(r.Y + it.ShadowDY - it.ShadowBlur/2)
	w := float32(r.Width + it.ShadowBlur)
	h := float32(r.Height + it.ShadowBlur)
	shadow := it.ShadowColor.WithAlpha(it.ShadowColor.A / 2)
	vector.DrawFilledRect(screen, x, y, w, h, shadow.ToRGBA(), false)
}

func paintText(screen *ebiten.Image, it displaylist.Item) {
	if FontSource == nil {
		return
	}
	face := &text.GoTextFace{Source: FontSource, Size: it.FontSize}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(it.Rect.X), float64(it.Baseline))
	op.ColorScale.ScaleWithColor(it.Color.ToRGBA())
	text.Draw(screen, it.Text, face, op)
}

// imageCache caches images fetched for ItemImage by URL, mirroring
// render.ImageCache from the teacher (render/draw.go) but scoped to one
// process-wide singleton since a headless CLI invocation has no browser
// session lifecycle to bound it to.
type imageCache struct {
	mu     sync.Mutex
	images map[string]*ebiten.Image
}

var sharedImageCache = &imageCache{images: make(map[string]*ebiten.Image)}

func paintImage(screen *ebiten.Image, it displaylist.Item) {
	img := fetchImage(it.ImageURL)
	if img == nil {
		placeholder := values.RGBA(230, 230, 235, 255)
		vector.DrawFilledRect(screen, float32(it.Rect.X), float32(it.Rect.Y), float32(it.Rect.Width), float32(it.Rect.Height), placeholder.ToRGBA(), false)
		return
	}
	bounds := img.Bounds()
	scaleX := float64(it.Rect.Width) / float64(bounds.Dx())
	scaleY := float64(it.Rect.Height) / float64(bounds.Dy())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scaleX, scaleY)
	op.GeoM.Translate(float64(it.Rect.X), float64(it.Rect.Y))
	screen.DrawImage(img, op)
}

func fetchImage(imgURL string) *ebiten.Image {
	if imgURL == "" || !strings.HasPrefix(imgURL, "http") {
		return nil
	}
	sharedImageCache.mu.Lock()
	if img, ok := sharedImageCache.images[imgURL]; ok {
		sharedImageCache.mu.Unlock()
		return img
	}
	sharedImageCache.mu.Unlock()

	if _, err := url.Parse(imgURL); err != nil {
		return nil
	}
	resp, err := http.Get(imgURL)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	decoded, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil
	}
	img := ebiten.NewImageFromImage(decoded)
	sharedImageCache.mu.Lock()
	sharedImageCache.images[imgURL] = img
	sharedImageCache.mu.Unlock()
	return img
}

// paintLinearGradient renders a top-to-bottom interpolation across the stop
// list. GradientAngle is carried on Item but unused here, matching the
// minimal-stop-extractor scope of displaylist.parseGradientStops.
func paintLinearGradient(screen *ebiten.Image, it displaylist.Item) {
	stops := it.GradientStops
	if len(stops) < 2 {
		return
	}
	r := it.Rect
	gradImg := ebiten.NewImage(r.Width, r.Height)
	for y := 0; y < r.Height; y++ {
		t := float64(y) / float64(r.Height)
		c := interpolate(stops, t)
		for x := 0; x < r.Width; x++ {
			gradImg.Set(x, y, c.ToRGBA())
		}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(r.X), float64(r.Y))
	screen.DrawImage(gradImg, op)
}

func interpolate(stops []displaylist.GradientStop, t float64) values.Color {
	if t <= stops[0].Offset {
		return stops[0].Color
	}
	last := stops[len(stops)-1]
	if t >= last.Offset {
		return last.Color
	}
	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if t >= a.Offset && t <= b.Offset {
			span := b.Offset - a.Offset
			if span == 0 {
				span = 0.001
			}
			lt := (t - a.Offset) / span
			return values.RGBA(
				lerp(a.Color.R, b.Color.R, lt),
				lerp(a.Color.G, b.Color.G, lt),
				lerp(a.Color.B, b.Color.B, lt),
				lerp(a.Color.A, b.Color.A, lt),
			)
		}
	}
	return values.Black()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
