// Package scene implements pie.Surface on top of a timeline, recording
// arcs and labels so that renderers can draw any moment of an animation.
package scene

import (
	"errors"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/timeline"
)

// ErrClosed is returned by every Surface call after Close.
var ErrClosed = errors.New("scene closed")

type arcEntry struct {
	arc    pie.Arc
	reveal *timeline.Reveal
}

// LabelState is a label as currently placed on the scene.
type LabelState struct {
	Index   int
	Text    string
	At      pie.Point
	Visible bool
}

// Scene is a drawing surface backed by a timeline.
type Scene struct {
	tl     *timeline.Timeline
	width  int
	height int
	arcs   []*arcEntry
	labels map[int]*LabelState
	closed bool
}

// New creates a scene of the given pixel size driven by tl.
func New(tl *timeline.Timeline, width, height int) *Scene {
	return &Scene{
		tl:     tl,
		width:  width,
		height: height,
		labels: make(map[int]*LabelState),
	}
}

// Metrics returns the chart metrics for the scene's canvas.
func (s *Scene) Metrics() pie.Metrics {
	return pie.MetricsFor(float64(s.width), float64(s.height))
}

// Size returns the canvas size in pixels.
func (s *Scene) Size() (width, height int) {
	return s.width, s.height
}

// Resize changes the canvas size. Arcs already drawn keep their geometry.
func (s *Scene) Resize(width, height int) {
	s.width, s.height = width, height
}

// Clear removes every arc and label, cancelling reveals still running.
func (s *Scene) Clear() error {
	if s.closed {
		return ErrClosed
	}
	arcs := s.arcs
	s.arcs = nil
	s.labels = make(map[int]*LabelState)
	for _, e := range arcs {
		e.reveal.Cancel()
	}
	return nil
}

// Reveal adds arc to the scene and animates its stroke over d. A reveal
// cut short by Close reports ErrClosed.
func (s *Scene) Reveal(arc pie.Arc, d time.Duration, done func(finished bool, err error)) (pie.Reveal, error) {
	if s.closed {
		return nil, ErrClosed
	}
	r := s.tl.Start(d, func(finished bool) {
		if !finished && s.closed {
			done(false, ErrClosed)
			return
		}
		done(finished, nil)
	})
	s.arcs = append(s.arcs, &arcEntry{arc: arc, reveal: r})
	return r, nil
}

// SetLabel places label index at the given center.
func (s *Scene) SetLabel(index int, text string, at pie.Point) error {
	if s.closed {
		return ErrClosed
	}
	l, ok := s.labels[index]
	if !ok {
		l = &LabelState{Index: index}
		s.labels[index] = l
	}
	l.Text = text
	l.At = at
	return nil
}

// SetLabelVisible shows or hides a label.
func (s *Scene) SetLabelVisible(index int, visible bool) error {
	if s.closed {
		return ErrClosed
	}
	l, ok := s.labels[index]
	if !ok {
		l = &LabelState{Index: index}
		s.labels[index] = l
	}
	l.Visible = visible
	return nil
}

// Close detaches the scene from its backend. Running reveals end with
// ErrClosed and later calls fail with it.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for _, e := range s.arcs {
		e.reveal.Cancel()
	}
}

// FrameArc is an arc and how much of it has been revealed.
type FrameArc struct {
	pie.Arc
	Progress float64
}

// Visible returns the revealed part of the arc's path.
func (a FrameArc) Visible() pie.ArcPath {
	return a.Path.Partial(a.Progress)
}

// Frame is a snapshot of the scene at one timeline instant.
type Frame struct {
	Width, Height int
	Metrics       pie.Metrics
	Time          time.Duration
	Arcs          []FrameArc
	Labels        []LabelState // ordered by index
}

// Frame captures the current state of the scene.
func (s *Scene) Frame() Frame {
	f := Frame{
		Width:   s.width,
		Height:  s.height,
		Metrics: s.Metrics(),
		Time:    s.tl.Now(),
	}
	for _, e := range s.arcs {
		f.Arcs = append(f.Arcs, FrameArc{Arc: e.arc, Progress: e.reveal.Progress()})
	}
	for _, l := range s.labels {
		f.Labels = append(f.Labels, *l)
	}
	sort.Slice(f.Labels, func(i, j int) bool {
		return f.Labels[i].Index < f.Labels[j].Index
	})
	return f
}

// VisibleLabels returns the labels that are shown.
func (f Frame) VisibleLabels() []LabelState {
	var out []LabelState
	for _, l := range f.Labels {
		if l.Visible {
			out = append(out, l)
		}
	}
	return out
}

// ColorAt returns the stroke color covering p, if any. Later arcs are
// drawn over earlier ones.
func (f Frame) ColorAt(p pie.Point) (color.RGBA, bool) {
	for i := len(f.Arcs) - 1; i >= 0; i-- {
		a := f.Arcs[i]
		if a.Progress <= 0 {
			continue
		}
		m := pie.Metrics{Center: a.Path.Center, Radius: a.Path.Radius, StrokeWidth: a.StrokeWidth}
		dist, angle := m.Polar(p)
		if dist < m.InnerRadius() || dist > m.OuterRadius() {
			continue
		}
		if a.Visible().Contains(angle) {
			return a.Color, true
		}
	}
	return color.RGBA{}, false
}

// Revealed returns the fraction of the circle currently drawn.
func (f Frame) Revealed() float64 {
	total := 0.0
	for _, a := range f.Arcs {
		total += a.Visible().Sweep
	}
	return total / (2 * math.Pi)
}
