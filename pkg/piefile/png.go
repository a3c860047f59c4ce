// PNG rendering of chart frames.

package piefile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

// PNGOptions configures raster rendering.
type PNGOptions struct {
	Background  color.RGBA
	LabelColor  color.RGBA
	TitleColor  color.RGBA
	FontSize    float64 // label size in points; 0 scales with the canvas
	Title       string
	Supersample int // 0 means 4, 1 disables it
}

// DefaultPNGOptions returns white background, white labels and 4x supersampling.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Background:  colorWhite,
		LabelColor:  colorWhite,
		TitleColor:  colorText,
		Supersample: 4,
	}
}

var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorText  = color.RGBA{51, 51, 51, 255} // #333
)

// labelFontSize returns the label size for a canvas, in points at 1x.
func labelFontSize(opts PNGOptions, m pie.Metrics) float64 {
	if opts.FontSize > 0 {
		return opts.FontSize
	}
	return math.Max(8, m.StrokeWidth/6)
}

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// faceFor returns a Go Regular face of the given size. Faces are shared
// between renders, GIF encoding asks for the same size on every frame.
func faceFor(size float64) (font.Face, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	if goRegularErr != nil {
		return nil, goRegularErr
	}

	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(goRegular, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		return nil, err
	}
	faces[size] = f
	return f, nil
}

// renderContext holds the target image and its supersampling factor.
type renderContext struct {
	img   *image.RGBA
	scale float64
	face  font.Face
}

// RenderPNG renders a frame to PNG.
func RenderPNG(w io.Writer, f scene.Frame, opts PNGOptions) error {
	img, err := Rasterize(f, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Rasterize draws a frame at its own size. The frame is drawn
// Supersample times larger and scaled down for smooth edges.
func Rasterize(f scene.Frame, opts PNGOptions) (*image.RGBA, error) {
	scale := opts.Supersample
	if scale <= 0 {
		scale = 4
	}
	large, err := rasterizeAt(f, opts, scale)
	if err != nil || scale == 1 {
		return large, err
	}
	final := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func rasterizeAt(f scene.Frame, opts PNGOptions, scale int) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, f.Width*scale, f.Height*scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	face, err := faceFor(labelFontSize(opts, f.Metrics) * float64(scale))
	if err != nil {
		return nil, err
	}
	ctx := &renderContext{img: img, scale: float64(scale), face: face}

	drawArcs(ctx, f)

	for _, l := range f.VisibleLabels() {
		drawTextCentered(ctx, l.At.X*ctx.scale, l.At.Y*ctx.scale, l.Text, opts.LabelColor)
	}
	if opts.Title != "" {
		y := (f.Metrics.Center.Y - f.Metrics.OuterRadius()) / 2
		drawTextCentered(ctx, f.Metrics.Center.X*ctx.scale, y*ctx.scale, opts.Title, opts.TitleColor)
	}
	return img, nil
}

// drawArcs fills every pixel of the ring that a revealed arc covers.
func drawArcs(ctx *renderContext, f scene.Frame) {
	if len(f.Arcs) == 0 {
		return
	}
	m := f.Metrics
	outer := m.OuterRadius()
	for _, a := range f.Arcs {
		outer = math.Max(outer, a.Path.Radius+a.StrokeWidth/2)
	}
	bounds := image.Rect(
		int((m.Center.X-outer)*ctx.scale)-1,
		int((m.Center.Y-outer)*ctx.scale)-1,
		int((m.Center.X+outer)*ctx.scale)+2,
		int((m.Center.Y+outer)*ctx.scale)+2,
	).Intersect(ctx.img.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := pie.Point{
				X: (float64(x) + 0.5) / ctx.scale,
				Y: (float64(y) + 0.5) / ctx.scale,
			}
			if c, ok := f.ColorAt(p); ok {
				ctx.img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawTextCentered draws text centered on (x, y), in image pixels.
func drawTextCentered(ctx *renderContext, x, y float64, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text)

	// Center on the cap height, digits and capitals carry no descent.
	metrics := ctx.face.Metrics()
	capHeight := metrics.CapHeight
	if capHeight <= 0 {
		capHeight = metrics.Ascent * 7 / 10
	}

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x*64) - width/2,
			Y: fixed.Int26_6(y*64) + capHeight/2,
		},
	}
	d.DrawString(text)
}
