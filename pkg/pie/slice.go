// Package pie provides the pie chart model, its polar geometry and the
// sequencer that animates slices one after another.
package pie

import (
	"fmt"
	"image/color"
	"math"
)

// SumTolerance is how far the slice percentages may exceed 1.0 before
// Validate reports the set as invalid.
const SumTolerance = 1e-6

// Slice is one proportional segment of the chart.
type Slice struct {
	Percent float64    // share of the circle, 0.0 - 1.0
	Color   color.RGBA // stroke color of the arc
}

// Sum returns the total percentage of the slices.
func Sum(slices []Slice) float64 {
	total := 0.0
	for _, s := range slices {
		total += s.Percent
	}
	return total
}

// Validate checks that every percent is within [0,1] and that the
// percentages add up to at most a full circle.
func Validate(slices []Slice) error {
	for i, s := range slices {
		if math.IsNaN(s.Percent) || s.Percent < 0 || s.Percent > 1 {
			return &SliceError{Index: i, Reason: fmt.Sprintf("percent %v outside [0,1]", s.Percent)}
		}
	}
	if total := Sum(slices); total > 1+SumTolerance {
		return &SliceError{Index: -1, Reason: fmt.Sprintf("percentages sum to %.4f", total)}
	}
	return nil
}

// FormatPercent formats a slice share as a label such as "40%".
// The value is truncated to a whole percent.
func FormatPercent(percent float64) string {
	// 0.29*100 is 28.999999999999996 in float64
	return fmt.Sprintf("%d%%", int(percent*100+1e-9))
}

// Copy returns an independent copy of the slices.
func Copy(slices []Slice) []Slice {
	if slices == nil {
		return nil
	}
	out := make([]Slice, len(slices))
	copy(out, slices)
	return out
}
