package pie

import "time"

// DefaultTotalDuration is the time a full circle takes to draw.
const DefaultTotalDuration = 1400 * time.Millisecond

// Duration returns the reveal duration for a slice: its share of the
// total. A slice that is 40% of the circle animates for 40% of total.
func Duration(s Slice, total time.Duration) time.Duration {
	return time.Duration(s.Percent * float64(total))
}

// TotalDuration returns how long the whole sequence takes to animate.
func TotalDuration(slices []Slice, total time.Duration) time.Duration {
	var d time.Duration
	for _, s := range slices {
		d += Duration(s, total)
	}
	return d
}
