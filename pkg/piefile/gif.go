package piefile

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

// GIFOptions configures animated GIF output.
type GIFOptions struct {
	Width, Height int
	FPS           int           // frames per second; 0 means 25
	Hold          time.Duration // how long the finished chart stays up before looping
	LoopCount     int           // as in image/gif: 0 loops forever, -1 plays once
	Frame         PNGOptions
}

// DefaultGIFOptions returns a 400x400, 25 fps, one second hold setup.
func DefaultGIFOptions() GIFOptions {
	return GIFOptions{
		Width:  400,
		Height: 400,
		FPS:    25,
		Hold:   time.Second,
		Frame:  DefaultPNGOptions(),
	}
}

// RenderGIF plays the chart from start to finish and encodes one frame
// per tick as an animated GIF.
func RenderGIF(w io.Writer, slices []pie.Slice, chart pie.Options, opts GIFOptions) error {
	frames, err := GIFFrames(slices, chart, opts)
	if err != nil {
		return err
	}
	return EncodeGIF(w, frames)
}

// EncodeGIF writes frames built by GIFFrames.
func EncodeGIF(w io.Writer, frames *gif.GIF) error {
	return gif.EncodeAll(w, frames)
}

// GIFFrames builds the animation without encoding it.
func GIFFrames(slices []pie.Slice, chart pie.Options, opts GIFOptions) (*gif.GIF, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("gif: invalid size %dx%d", opts.Width, opts.Height)
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 25
	}
	tick := time.Second / time.Duration(fps)
	delay := max(1, 100/fps) // hundredths of a second

	p := scene.NewPlayer(slices, opts.Width, opts.Height, chart)
	if err := p.Play(); err != nil {
		return nil, err
	}
	pal := gifPalette(p.Chart.Slices(), opts.Frame)

	out := &gif.GIF{LoopCount: opts.LoopCount}
	limit := int(p.Duration()/tick) + 2
	for i := 0; ; i++ {
		img, err := Rasterize(p.Frame(), opts.Frame)
		if err != nil {
			return nil, err
		}
		out.Image = append(out.Image, quantize(img, pal))
		out.Delay = append(out.Delay, delay)

		if p.Done() {
			break
		}
		if i >= limit {
			return nil, fmt.Errorf("gif: animation still running after %d frames", i+1)
		}
		p.Step(tick)
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	out.Delay[len(out.Delay)-1] += int(opts.Hold / (10 * time.Millisecond))
	return out, nil
}

// gifPalette puts the chart's own colors first so strokes stay exact,
// then fills up with Plan 9 colors for the antialiased edges.
func gifPalette(slices []pie.Slice, opts PNGOptions) color.Palette {
	pal := color.Palette{opts.Background, opts.LabelColor, opts.TitleColor}
	for _, s := range slices {
		if len(pal) == 256 {
			return pal
		}
		pal = append(pal, opaque(s.Color))
	}
	for _, c := range palette.Plan9 {
		if len(pal) == 256 {
			break
		}
		pal = append(pal, c)
	}
	return pal
}

func quantize(img *image.RGBA, pal color.Palette) *image.Paletted {
	pm := image.NewPaletted(img.Bounds(), pal)
	draw.FloydSteinberg.Draw(pm, img.Bounds(), img, image.Point{})
	return pm
}
