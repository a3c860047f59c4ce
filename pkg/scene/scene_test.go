package scene

import (
	"errors"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
)

var (
	red    = color.RGBA{255, 0, 0, 255}
	blue   = color.RGBA{0, 0, 255, 255}
	purple = color.RGBA{128, 0, 128, 255}
	green  = color.RGBA{0, 255, 0, 255}
)

func demo() []pie.Slice {
	return []pie.Slice{
		{Percent: 0.4, Color: red},
		{Percent: 0.3, Color: blue},
		{Percent: 0.2, Color: purple},
		{Percent: 0.1, Color: green},
	}
}

func TestPlayerRunsToCompletion(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if p.Duration() != 1400*time.Millisecond {
		t.Fatalf("Duration = %v, want 1.4s", p.Duration())
	}
	if err := p.Play(); err != nil {
		t.Fatalf("Play: %v", err)
	}

	for i := 0; i < 100 && !p.Done(); i++ {
		p.Step(16 * time.Millisecond)
	}
	if !p.Done() || p.Err() != nil {
		t.Fatalf("done=%v err=%v", p.Done(), p.Err())
	}

	f := p.Frame()
	if len(f.Arcs) != 4 {
		t.Fatalf("arcs = %d, want 4", len(f.Arcs))
	}
	if got := len(f.VisibleLabels()); got != 4 {
		t.Errorf("visible labels = %d, want 4", got)
	}
	if r := f.Revealed(); math.Abs(r-1) > 1e-9 {
		t.Errorf("revealed = %v, want 1", r)
	}
}

func TestFrameMidway(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())

	// 700ms into 1.4s: slice 0 (560ms) done, slice 1 one third drawn.
	if err := p.Seek(700 * time.Millisecond); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	f := p.Frame()
	if len(f.Arcs) != 2 {
		t.Fatalf("arcs = %d, want 2", len(f.Arcs))
	}
	if f.Arcs[0].Progress != 1 {
		t.Errorf("slice 0 progress = %v, want 1", f.Arcs[0].Progress)
	}
	if math.Abs(f.Arcs[1].Progress-1.0/3) > 1e-6 {
		t.Errorf("slice 1 progress = %v, want 1/3", f.Arcs[1].Progress)
	}
	if math.Abs(f.Revealed()-0.5) > 1e-6 {
		t.Errorf("revealed = %v, want 0.5", f.Revealed())
	}
	if len(f.VisibleLabels()) != 0 {
		t.Errorf("labels visible before the end")
	}
	if p.Chart.State() != pie.StateAnimating || p.Chart.Index() != 1 {
		t.Errorf("chart state=%v index=%d", p.Chart.State(), p.Chart.Index())
	}
}

func TestColorAt(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if err := p.Seek(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	f := p.Frame()
	m := f.Metrics

	tests := []struct {
		percent float64
		radius  float64
		want    color.RGBA
		ok      bool
	}{
		{0.2, m.Radius, red, true},
		{0.55, m.Radius, blue, true},
		{0.8, m.Radius, purple, true},
		{0.95, m.Radius, green, true},
		{0.2, m.InnerRadius() - 5, color.RGBA{}, false},
		{0.2, m.OuterRadius() + 5, color.RGBA{}, false},
	}
	for _, tt := range tests {
		pt := pie.PointOnCircle(m.Center, tt.radius, pie.PercentToAngle(tt.percent))
		got, ok := f.ColorAt(pt)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ColorAt(%v @ %.0f) = %v %v, want %v %v", tt.percent, tt.radius, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorAtPartialReveal(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	// Half of slice 0.
	if err := p.Seek(280 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	f := p.Frame()
	m := f.Metrics
	at := func(percent float64) pie.Point {
		return pie.PointOnCircle(m.Center, m.Radius, pie.PercentToAngle(percent))
	}
	if _, ok := f.ColorAt(at(0.1)); !ok {
		t.Error("10% should be drawn")
	}
	if _, ok := f.ColorAt(at(0.3)); ok {
		t.Error("30% should not be drawn yet")
	}
}

func TestRestartClearsScene(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if err := p.Seek(900 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	f := p.Frame()
	if len(f.Arcs) != 1 || f.Arcs[0].Progress != 0 {
		t.Fatalf("after restart arcs=%d", len(f.Arcs))
	}
	if p.Timeline.Active() != 1 {
		t.Errorf("active reveals = %d, want 1", p.Timeline.Active())
	}
	p.Step(600 * time.Millisecond)
	if p.Chart.Index() != 1 || math.Abs(p.Chart.CumulativePercent()-0.4) > 1e-9 {
		t.Errorf("index=%d cumulative=%v", p.Chart.Index(), p.Chart.CumulativePercent())
	}
}

func TestClosedSceneFails(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if err := p.Seek(100 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	p.Scene.Close()

	err := p.Play()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Play after Close = %v, want ErrClosed", err)
	}
	var serr *pie.SurfaceError
	if !errors.As(err, &serr) || serr.Op != "clear" {
		t.Errorf("error = %v, want surface clear error", err)
	}
	if p.Chart.State() != pie.StateIdle {
		t.Errorf("state = %v, want idle", p.Chart.State())
	}
}

func TestElapsedCountsFromPlay(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	p.Step(3 * time.Second)
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	p.Step(250 * time.Millisecond)
	if p.Elapsed() != 250*time.Millisecond || p.Timeline.Now() != 3250*time.Millisecond {
		t.Errorf("elapsed=%v now=%v", p.Elapsed(), p.Timeline.Now())
	}
}

func TestCloseMidRun(t *testing.T) {
	p := NewPlayer(demo(), 400, 400, pie.DefaultOptions())
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	p.Step(100 * time.Millisecond)
	p.Scene.Close()

	if !p.Done() {
		t.Fatal("closing the scene should end the run")
	}
	if !errors.Is(p.Err(), ErrClosed) {
		t.Errorf("Err = %v, want ErrClosed", p.Err())
	}
	if p.Chart.State() != pie.StateIdle {
		t.Errorf("state = %v, want idle", p.Chart.State())
	}

	p.Step(5 * time.Second)
	if p.Chart.State() != pie.StateIdle || p.Timeline.Active() != 0 {
		t.Errorf("after close: state=%v active=%d", p.Chart.State(), p.Timeline.Active())
	}
}

func TestEmptyPlayer(t *testing.T) {
	p := NewPlayer(nil, 200, 200, pie.DefaultOptions())
	if err := p.Play(); err != nil {
		t.Fatal(err)
	}
	if !p.Done() || len(p.Frame().Arcs) != 0 {
		t.Errorf("empty chart: done=%v arcs=%d", p.Done(), len(p.Frame().Arcs))
	}
}
