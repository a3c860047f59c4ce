package pie

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func TestPercentToAngle(t *testing.T) {
	tests := []struct {
		percent float64
		want    float64
		desc    string
	}{
		{0.0, 3 * math.Pi / 2, "start at 12 o'clock"},
		{0.25, 0, "quarter at 3 o'clock"},
		{0.5, math.Pi / 2, "half at 6 o'clock"},
		{0.75, math.Pi, "three quarters at 9 o'clock"},
		{1.0, 3 * math.Pi / 2, "full circle back at top"},
		{0.1, (270.0 + 36.0) * math.Pi / 180, "ten percent"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got := PercentToAngle(tt.percent)
			if math.Abs(got-tt.want) > eps {
				t.Errorf("PercentToAngle(%v) = %.6f, want %.6f", tt.percent, got, tt.want)
			}
		})
	}
}

func TestPercentToAngleNormalized(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := float64(i) / 1000
		a := PercentToAngle(p)
		if a < 0 || a >= 2*math.Pi {
			t.Fatalf("PercentToAngle(%v) = %v outside [0, 2π)", p, a)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0}, {270, 270}, {360, 0}, {630, 270}, {-90, 270}, {720.5, 0.5},
	}
	for _, tt := range tests {
		if got := NormalizeDegrees(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("NormalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSliceArcPath(t *testing.T) {
	center := Point{100, 100}
	arc := SliceArcPath(center, 75, 0.4, 0.7)

	if math.Abs(arc.Start-PercentToAngle(0.4)) > eps {
		t.Errorf("Start = %v, want %v", arc.Start, PercentToAngle(0.4))
	}
	if math.Abs(arc.End()-PercentToAngle(0.7)) > eps {
		t.Errorf("End = %v, want %v", arc.End(), PercentToAngle(0.7))
	}
	if math.Abs(arc.Sweep-0.3*2*math.Pi) > eps {
		t.Errorf("Sweep = %v, want %v", arc.Sweep, 0.3*2*math.Pi)
	}

	// Start point sits on the circle.
	p := arc.PointAt(0)
	if d := math.Hypot(p.X-center.X, p.Y-center.Y); math.Abs(d-75) > eps {
		t.Errorf("PointAt(0) is %.4f from center, want 75", d)
	}
}

func TestSliceArcPathFullCircle(t *testing.T) {
	arc := SliceArcPath(Point{}, 10, 0, 1)
	if math.Abs(arc.Sweep-2*math.Pi) > eps {
		t.Errorf("full slice sweep = %v, want 2π", arc.Sweep)
	}
	if !arc.Contains(math.Pi / 3) {
		t.Error("full circle should contain every angle")
	}
}

func TestArcContains(t *testing.T) {
	// [0.2, 0.3] wraps across angle 0 at 3 o'clock.
	arc := SliceArcPath(Point{}, 10, 0.2, 0.3)
	tests := []struct {
		percent float64
		want    bool
	}{
		{0.25, true},
		{0.21, true},
		{0.5, false},
		{0.35, false},
	}
	for _, tt := range tests {
		if got := arc.Contains(PercentToAngle(tt.percent)); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.percent, got, tt.want)
		}
	}

	half := arc.Partial(0.5)
	if !half.Contains(PercentToAngle(0.22)) || half.Contains(PercentToAngle(0.28)) {
		t.Error("partial arc should cover only the leading half")
	}
}

func TestLabelAnchor(t *testing.T) {
	center := Point{200, 200}
	radius := 150.0

	// Slice [0, 0.5) is labelled at 25%, 3 o'clock.
	got := LabelAnchor(center, radius, 0, 0.5)
	want := PointOnCircle(center, radius, PercentToAngle(0.25))
	if math.Abs(got.X-want.X) > eps || math.Abs(got.Y-want.Y) > eps {
		t.Errorf("LabelAnchor = %+v, want %+v", got, want)
	}
	if math.Abs(got.X-350) > 1e-6 || math.Abs(got.Y-200) > 1e-6 {
		t.Errorf("LabelAnchor = %+v, want (350, 200)", got)
	}

	off := LabelOffset(center, radius, 0, 0.5)
	if math.Abs(off.X-150) > 1e-6 || math.Abs(off.Y) > 1e-6 {
		t.Errorf("LabelOffset = %+v, want (150, 0)", off)
	}
}

func TestMetricsFor(t *testing.T) {
	m := MetricsFor(400, 400)
	if m.Center != (Point{200, 200}) {
		t.Errorf("Center = %+v", m.Center)
	}
	if m.Radius != 150 || m.StrokeWidth != 100 {
		t.Errorf("Radius/Stroke = %v/%v, want 150/100", m.Radius, m.StrokeWidth)
	}
	// Band spans 2/8 to 4/8 of the canvas from the center.
	if m.InnerRadius() != 100 || m.OuterRadius() != 200 {
		t.Errorf("band = [%v, %v], want [100, 200]", m.InnerRadius(), m.OuterRadius())
	}

	wide := MetricsFor(800, 400)
	if wide.Radius != 150 {
		t.Errorf("wide canvas radius = %v, want 150 (smaller side)", wide.Radius)
	}
	tall := MetricsFor(400, 800)
	if tall.Radius != 150 || tall.StrokeWidth != 100 || tall.Center != (Point{200, 400}) {
		t.Errorf("tall canvas = %+v, want width-based radius 150", tall)
	}
}

func TestPolar(t *testing.T) {
	m := MetricsFor(100, 100)
	d, a := m.Polar(Point{50, 10})
	if math.Abs(d-40) > eps || math.Abs(a-PercentToAngle(0)) > eps {
		t.Errorf("Polar(top) = %v, %v", d, a)
	}
}

func TestDurationsSumToTotal(t *testing.T) {
	sets := [][]Slice{
		{{Percent: 0.4}, {Percent: 0.3}, {Percent: 0.2}, {Percent: 0.1}},
		{{Percent: 0.5}},
		{{Percent: 0.33}, {Percent: 0.33}, {Percent: 0.33}},
		{},
	}
	total := DefaultTotalDuration
	for _, slices := range sets {
		got := TotalDuration(slices, total)
		want := time.Duration(Sum(slices) * float64(total))
		// each slice truncates to a whole nanosecond
		diff := want - got
		if diff < 0 {
			diff = -diff
		}
		if diff > time.Duration(len(slices)+1) {
			t.Errorf("TotalDuration(%v) = %v, want %v", slices, got, want)
		}
	}

	if d := Duration(Slice{Percent: 0.4}, total); d != 560*time.Millisecond {
		t.Errorf("Duration(40%%) = %v, want 560ms", d)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.4, "40%"}, {0.3, "30%"}, {0.2, "20%"}, {0.1, "10%"},
		{0.29, "29%"}, {0.575, "57%"}, {0, "0%"}, {1, "100%"},
	}
	for _, tt := range tests {
		if got := FormatPercent(tt.in); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
