// Polar geometry for pie chart rendering.
// Angles are in radians, measured in screen space (Y grows downward),
// so increasing angles run clockwise and 3π/2 points at 12 o'clock.

package pie

import "math"

const (
	// StartDegrees rotates percent 0 from the positive X axis to the top.
	StartDegrees = 270.0

	// RadiusRatio is the arc radius as a fraction of the canvas size, the
	// shorter of its width and height (see MetricsFor). On a square canvas
	// that is the width.
	RadiusRatio = 3.0 / 8.0

	// StrokeRatio is the arc stroke width as a fraction of the same size.
	// With RadiusRatio 3/8 the band spans 2/8 to 4/8 from the center.
	StrokeRatio = 2.0 / 8.0
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// NormalizeDegrees maps any angle into [0,360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// NormalizeAngle maps any angle in radians into [0,2π).
func NormalizeAngle(rad float64) float64 {
	rad = math.Mod(rad, 2*math.Pi)
	if rad < 0 {
		rad += 2 * math.Pi
	}
	if rad >= 2*math.Pi {
		rad = 0
	}
	return rad
}

// PercentToAngle converts a position on the circle (0.0 - 1.0) to a
// drawing angle in radians. Percent 0 is the top of the circle and
// positions advance clockwise.
func PercentToAngle(percent float64) float64 {
	deg := NormalizeDegrees(StartDegrees + percent*360)
	return deg * math.Pi / 180.0
}

// PointOnCircle returns the point at angle on the circle.
func PointOnCircle(center Point, radius, angle float64) Point {
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}

// ArcPath describes a clockwise circular arc.
type ArcPath struct {
	Center Point
	Radius float64
	Start  float64 // start angle in [0,2π)
	Sweep  float64 // clockwise extent, 0 - 2π
}

// SliceArcPath returns the arc covering [fromPercent, toPercent].
// The sweep is taken from the percentages rather than the end angle so a
// slice of 100% is a full circle instead of an empty arc.
func SliceArcPath(center Point, radius, fromPercent, toPercent float64) ArcPath {
	sweep := (toPercent - fromPercent) * 2 * math.Pi
	if sweep < 0 {
		sweep = 0
	}
	if sweep > 2*math.Pi {
		sweep = 2 * math.Pi
	}
	return ArcPath{
		Center: center,
		Radius: radius,
		Start:  PercentToAngle(fromPercent),
		Sweep:  sweep,
	}
}

// End returns the end angle normalised into [0,2π).
func (a ArcPath) End() float64 {
	return NormalizeAngle(a.Start + a.Sweep)
}

// PointAt returns the point at fraction t (0 - 1) along the arc.
func (a ArcPath) PointAt(t float64) Point {
	return PointOnCircle(a.Center, a.Radius, a.Start+t*a.Sweep)
}

// Partial returns the leading fraction of the arc, as drawn by a stroke
// reveal that has completed the given fraction.
func (a ArcPath) Partial(fraction float64) ArcPath {
	fraction = math.Max(0, math.Min(1, fraction))
	a.Sweep *= fraction
	return a
}

// Contains reports whether angle lies within the arc's angular span.
func (a ArcPath) Contains(angle float64) bool {
	if a.Sweep <= 0 {
		return false
	}
	if a.Sweep >= 2*math.Pi {
		return true
	}
	return NormalizeAngle(angle-a.Start) <= a.Sweep
}

// Length returns the arc length.
func (a ArcPath) Length() float64 {
	return a.Radius * a.Sweep
}

// LabelAnchor returns the label center for the slice covering
// [fromPercent, toPercent]: the point on the circle at its angular midpoint.
func LabelAnchor(center Point, radius, fromPercent, toPercent float64) Point {
	mid := fromPercent + (toPercent-fromPercent)/2
	return PointOnCircle(center, radius, PercentToAngle(mid))
}

// LabelOffset is LabelAnchor relative to the center, for hosts that
// position labels by offset constraints.
func LabelOffset(center Point, radius, fromPercent, toPercent float64) Point {
	return LabelAnchor(center, radius, fromPercent, toPercent).Sub(center)
}

// Metrics holds the chart dimensions derived from the canvas size.
type Metrics struct {
	Center      Point
	Radius      float64 // arc radius, center of the stroke band
	StrokeWidth float64
}

// MetricsFor derives chart metrics for a canvas. The smaller side is used
// as the canvas size so the band always fits.
func MetricsFor(width, height float64) Metrics {
	size := math.Min(width, height)
	return Metrics{
		Center:      Point{width / 2, height / 2},
		Radius:      size * RadiusRatio,
		StrokeWidth: size * StrokeRatio,
	}
}

// InnerRadius returns the inner edge of the stroke band.
func (m Metrics) InnerRadius() float64 { return m.Radius - m.StrokeWidth/2 }

// OuterRadius returns the outer edge of the stroke band.
func (m Metrics) OuterRadius() float64 { return m.Radius + m.StrokeWidth/2 }

// Polar returns the distance and angle of p from the chart center.
func (m Metrics) Polar(p Point) (dist, angle float64) {
	d := p.Sub(m.Center)
	return math.Hypot(d.X, d.Y), NormalizeAngle(math.Atan2(d.Y, d.X))
}
