package pie

import (
	"image/color"
	"time"
)

// Arc is a stroked arc graphic handed to a Surface.
type Arc struct {
	Slice       int // index of the slice it draws
	Path        ArcPath
	Color       color.RGBA
	StrokeWidth float64
}

// Reveal is a running stroke reveal on a Surface.
type Reveal interface {
	// Cancel stops the reveal. The completion is reported as not finished.
	Cancel()
}

// Surface is the drawing target of a Chart. Implementations provide the
// time base: a reveal animates the arc's stroke completion linearly from
// 0 to 1 over d and then calls done exactly once. finished is false if the
// reveal was cancelled; err is set when the surface lost the reveal and
// cannot continue.
type Surface interface {
	Clear() error
	Reveal(arc Arc, d time.Duration, done func(finished bool, err error)) (Reveal, error)
	SetLabel(index int, text string, at Point) error
	SetLabelVisible(index int, visible bool) error
}
