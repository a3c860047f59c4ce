package piefile

import (
	"encoding/xml"
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"
	"time"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/scene"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Background color.RGBA
	LabelColor color.RGBA
	TitleColor color.RGBA
	FontSize   float64 // label size in pixels; 0 scales with the canvas
	Title      string
}

// DefaultSVGOptions mirrors DefaultPNGOptions.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Background: colorWhite,
		LabelColor: colorWhite,
		TitleColor: colorText,
	}
}

// errWriter remembers the first write error, svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// RenderSVG writes a still SVG of a frame.
func RenderSVG(w io.Writer, f scene.Frame, opts SVGOptions) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	startCanvas(canvas, f, opts)

	for i, a := range f.Arcs {
		if a.Progress <= 0 {
			continue
		}
		canvas.Path(arcData(a.Visible()), fmt.Sprintf(`id="slice-%d"`, i), strokeStyle(a.Arc))
	}
	size := labelFontSize(PNGOptions{FontSize: opts.FontSize}, f.Metrics)
	for _, l := range f.VisibleLabels() {
		canvas.Text(round(l.At.X), round(l.At.Y), l.Text, textStyle(size, opts.LabelColor))
	}
	canvas.End()
	return ew.err
}

// RenderAnimatedSVG writes an SVG that plays the whole animation with
// SMIL: each arc's stroke is unrolled over its slice's duration, starting
// when the previous slice ends, and labels appear when the chart shows them.
func RenderAnimatedSVG(w io.Writer, slices []pie.Slice, width, height int, chart pie.Options, opts SVGOptions) error {
	p := scene.NewPlayer(slices, width, height, chart)
	if err := p.Seek(p.Duration()); err != nil {
		return err
	}
	if !p.Done() {
		return fmt.Errorf("animation did not finish in %v", p.Duration())
	}
	f := p.Frame()
	steps := p.Chart.History()

	// Start and end of each slice, in chart order.
	starts := make([]time.Duration, len(steps))
	ends := make([]time.Duration, len(steps))
	var at time.Duration
	for i, s := range steps {
		starts[i] = at
		at += s.Duration
		ends[i] = at
	}

	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	startCanvas(canvas, f, opts)

	for i, a := range f.Arcs {
		length := a.Path.Length()
		fmt.Fprintf(canvas.Writer, `<path id="slice-%d" d="%s" style="%s;stroke-dasharray:%.3f;stroke-dashoffset:%.3f">`+"\n",
			i, arcData(a.Path), strokeStyle(a.Arc), length, length)
		fmt.Fprintf(canvas.Writer, `<animate attributeName="stroke-dashoffset" from="%.3f" to="0" begin="%s" dur="%s" fill="freeze"/>`+"\n",
			length, seconds(starts[i]), seconds(steps[i].Duration))
		fmt.Fprintln(canvas.Writer, `</path>`)
	}

	size := labelFontSize(PNGOptions{FontSize: opts.FontSize}, f.Metrics)
	for _, l := range f.Labels {
		show := at
		if chart.LabelReveal == pie.RevealPerSlice && l.Index < len(ends) {
			show = ends[l.Index]
		}
		fmt.Fprintf(canvas.Writer, `<text x="%d" y="%d" visibility="hidden" style="%s">`,
			round(l.At.X), round(l.At.Y), textStyle(size, opts.LabelColor))
		xml.EscapeText(canvas.Writer, []byte(l.Text))
		fmt.Fprintf(canvas.Writer, `<set attributeName="visibility" to="visible" begin="%s" fill="freeze"/></text>`+"\n", seconds(show))
	}
	canvas.End()
	return ew.err
}

func startCanvas(canvas *svg.SVG, f scene.Frame, opts SVGOptions) {
	canvas.Start(f.Width, f.Height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, f.Width, f.Height, "fill:"+hexColor(opts.Background))
	if opts.Title != "" {
		m := f.Metrics
		y := (m.Center.Y - m.OuterRadius()) / 2
		size := labelFontSize(PNGOptions{FontSize: opts.FontSize}, m)
		canvas.Text(round(m.Center.X), round(y), opts.Title, textStyle(size, opts.TitleColor))
	}
}

// arcData returns SVG path data for an arc. A full circle is written as
// two half arcs in one subpath, a single arc command cannot close on itself.
func arcData(a pie.ArcPath) string {
	start := a.PointAt(0)
	if a.Sweep >= 2*math.Pi-1e-9 {
		half := a.PointAt(0.5)
		return fmt.Sprintf("M %.3f %.3f A %.3f %.3f 0 1 1 %.3f %.3f A %.3f %.3f 0 1 1 %.3f %.3f",
			start.X, start.Y, a.Radius, a.Radius, half.X, half.Y, a.Radius, a.Radius, start.X, start.Y)
	}
	end := a.PointAt(1)
	large := 0
	if a.Sweep > math.Pi {
		large = 1
	}
	// Sweep flag 1 is clockwise on screen, the direction slices advance.
	return fmt.Sprintf("M %.3f %.3f A %.3f %.3f 0 %d 1 %.3f %.3f",
		start.X, start.Y, a.Radius, a.Radius, large, end.X, end.Y)
}

func strokeStyle(a pie.Arc) string {
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.3f", hexColor(a.Color), a.StrokeWidth)
}

func textStyle(size float64, c color.RGBA) string {
	return strings.Join([]string{
		"text-anchor:middle",
		"dominant-baseline:central",
		"font-family:sans-serif",
		fmt.Sprintf("font-size:%.1fpx", size),
		"fill:" + hexColor(c),
	}, ";")
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3fs", d.Seconds())
}

func round(v float64) int {
	return int(math.Round(v))
}
