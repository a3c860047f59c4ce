package pie

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// MaxSlices is the label capacity of the fixed-slot layout. Charts only
// enforce it when Options.LabelSlots is set.
const MaxSlices = 5

// State is the sequencer state.
type State int

const (
	StateIdle      State = iota // nothing running
	StateAnimating              // revealing slice Index()
	StateDone                   // every slice drawn, labels shown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// LabelReveal selects when slice labels become visible.
type LabelReveal int

const (
	RevealAtEnd    LabelReveal = iota // all labels together once the last slice is drawn
	RevealPerSlice                    // each label as soon as its slice is drawn
)

func (r LabelReveal) String() string {
	if r == RevealPerSlice {
		return "per-slice"
	}
	return "at-end"
}

// Options configures a Chart.
type Options struct {
	// TotalDuration is the time a full circle takes. Default: 1.4s.
	TotalDuration time.Duration
	// LabelSlots limits the number of labels. 0 means one label per slice.
	LabelSlots int
	// ClampOverflow animates only the first LabelSlots slices instead of
	// failing with ErrOutOfCapacity.
	ClampOverflow bool
	// Validate rejects slice sets that do not fit in a circle.
	Validate bool
	// LabelReveal selects when labels are shown.
	LabelReveal LabelReveal
	// Logger receives sequencer events. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		TotalDuration: DefaultTotalDuration,
		LabelReveal:   RevealAtEnd,
	}
}

// Drawn returns the slices a run with these options animates: all of
// them, or the first LabelSlots when ClampOverflow drops the rest.
func (o Options) Drawn(slices []Slice) []Slice {
	if o.LabelSlots > 0 && o.ClampOverflow && len(slices) > o.LabelSlots {
		return slices[:o.LabelSlots]
	}
	return slices
}

// Label is a percentage label bound to a slice.
type Label struct {
	Index   int
	Text    string
	Anchor  Point // absolute label center
	Offset  Point // Anchor relative to the chart center
	Visible bool
}

// Step records one completed slice.
type Step struct {
	Slice    int
	From     float64 // cumulative percent before the slice
	To       float64 // cumulative percent after the slice
	Duration time.Duration
}

// Chart animates a pie chart on a Surface, one slice at a time.
// It is not safe for concurrent use: AnimateChart and the surface's
// completion callbacks must run on the same goroutine.
type Chart struct {
	surface Surface
	metrics Metrics
	opts    Options
	log     *zap.Logger

	slices []Slice // configured slices
	run    []Slice // slices of the current run

	state      State
	index      int
	cumulative float64
	seq        uint64 // identifies the current run
	pending    Reveal
	labels     []Label
	dropped    []int
	history    []Step
	onFinish   func(error)
}

// New creates a chart drawing on surface with the given metrics.
func New(surface Surface, m Metrics, opts Options) *Chart {
	if opts.TotalDuration <= 0 {
		opts.TotalDuration = DefaultTotalDuration
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Chart{
		surface: surface,
		metrics: m,
		opts:    opts,
		log:     log,
	}
}

// SetSlices replaces the slices drawn by the next AnimateChart.
// A run already in progress keeps its own copy.
func (c *Chart) SetSlices(slices []Slice) {
	c.slices = Copy(slices)
}

// Slices returns the configured slices.
func (c *Chart) Slices() []Slice {
	return Copy(c.slices)
}

// SetLabelReveal changes when labels are shown. It applies from the next run.
func (c *Chart) SetLabelReveal(r LabelReveal) {
	c.opts.LabelReveal = r
}

// Options returns the chart configuration.
func (c *Chart) Options() Options {
	return c.opts
}

// Metrics returns the chart dimensions.
func (c *Chart) Metrics() Metrics {
	return c.metrics
}

// OnFinish registers fn to be called when a run reaches StateDone (with a
// nil error) or fails while advancing between slices.
func (c *Chart) OnFinish(fn func(error)) {
	c.onFinish = fn
}

// AnimateChart starts drawing the chart from the first slice. A run in
// progress is cancelled and its pending completion is ignored.
func (c *Chart) AnimateChart() error {
	c.seq++
	c.cancelPending()
	c.reset()

	run := Copy(c.slices)
	c.log.Debug("animate chart",
		zap.Uint64("run", c.seq),
		zap.Int("slices", len(run)),
		zap.Float64("sum", Sum(run)))

	if err := c.surface.Clear(); err != nil {
		return c.fail(&SurfaceError{Op: "clear", Slice: -1, Err: err})
	}

	if c.opts.Validate {
		if err := Validate(run); err != nil {
			c.log.Warn("rejected slice set", zap.Error(err))
			return err
		}
	}

	if slots := c.opts.LabelSlots; slots > 0 && len(run) > slots {
		dropped := make([]int, 0, len(run)-slots)
		for i := slots; i < len(run); i++ {
			dropped = append(dropped, i)
		}
		if !c.opts.ClampOverflow {
			err := &CapacityError{Slots: slots, Dropped: dropped}
			c.log.Warn("too many slices", zap.Error(err))
			return err
		}
		c.log.Warn("dropping slices beyond label capacity",
			zap.Int("slots", slots),
			zap.Ints("dropped", dropped))
		c.dropped = dropped
		run = run[:slots]
	}

	c.run = run
	if len(run) == 0 {
		c.state = StateDone
		c.notify(nil)
		return nil
	}

	if err := c.drawSlice(0); err != nil {
		return c.fail(err)
	}
	return nil
}

// Cancel stops a run in progress and returns the chart to StateIdle.
// Arcs already drawn stay on the surface.
func (c *Chart) Cancel() {
	c.seq++
	c.cancelPending()
	c.reset()
}

// drawSlice binds the label of slice i and starts revealing its arc.
func (c *Chart) drawSlice(i int) error {
	s := c.run[i]
	from, to := c.cumulative, c.cumulative+s.Percent
	center, radius := c.metrics.Center, c.metrics.Radius

	label := Label{
		Index:  i,
		Text:   FormatPercent(s.Percent),
		Anchor: LabelAnchor(center, radius, from, to),
	}
	label.Offset = label.Anchor.Sub(center)
	if err := c.surface.SetLabel(i, label.Text, label.Anchor); err != nil {
		return &SurfaceError{Op: "label", Slice: i, Err: err}
	}
	if err := c.surface.SetLabelVisible(i, false); err != nil {
		return &SurfaceError{Op: "label", Slice: i, Err: err}
	}
	c.labels = append(c.labels, label)

	arc := Arc{
		Slice:       i,
		Path:        SliceArcPath(center, radius, from, to),
		Color:       s.Color,
		StrokeWidth: c.metrics.StrokeWidth,
	}
	d := Duration(s, c.opts.TotalDuration)

	c.state = StateAnimating
	c.index = i
	seq := c.seq
	c.log.Debug("reveal slice",
		zap.Uint64("run", seq),
		zap.Int("slice", i),
		zap.Float64("from", from),
		zap.Float64("to", to),
		zap.Duration("duration", d))

	r, err := c.surface.Reveal(arc, d, func(finished bool, err error) {
		c.complete(seq, i, finished, err)
	})
	if err != nil {
		return &SurfaceError{Op: "reveal", Slice: i, Err: err}
	}
	// The surface may have completed the reveal synchronously.
	if c.seq == seq && c.state == StateAnimating && c.index == i {
		c.pending = r
	}
	return nil
}

// complete handles the end of slice i's reveal in run seq.
func (c *Chart) complete(seq uint64, i int, finished bool, err error) {
	if seq != c.seq || c.state != StateAnimating || i != c.index {
		c.log.Debug("ignoring stale completion",
			zap.Uint64("run", seq),
			zap.Uint64("current", c.seq),
			zap.Int("slice", i))
		return
	}
	if err != nil {
		c.pending = nil
		c.notify(c.fail(&SurfaceError{Op: "reveal", Slice: i, Err: err}))
		return
	}
	if !finished {
		c.log.Debug("reveal interrupted", zap.Int("slice", i))
		return
	}

	c.pending = nil
	s := c.run[i]
	c.history = append(c.history, Step{
		Slice:    i,
		From:     c.cumulative,
		To:       c.cumulative + s.Percent,
		Duration: Duration(s, c.opts.TotalDuration),
	})
	c.cumulative += s.Percent
	c.index++

	if c.opts.LabelReveal == RevealPerSlice {
		if err := c.showLabel(i); err != nil {
			c.notify(c.fail(err))
			return
		}
	}

	if c.index < len(c.run) {
		if err := c.drawSlice(c.index); err != nil {
			c.notify(c.fail(err))
		}
		return
	}

	for j := range c.labels {
		if c.labels[j].Visible {
			continue
		}
		if err := c.showLabel(j); err != nil {
			c.notify(c.fail(err))
			return
		}
	}
	c.state = StateDone
	c.log.Debug("chart done", zap.Uint64("run", seq), zap.Int("slices", len(c.run)))
	c.notify(nil)
}

func (c *Chart) showLabel(i int) error {
	if err := c.surface.SetLabelVisible(i, true); err != nil {
		return &SurfaceError{Op: "show", Slice: i, Err: err}
	}
	c.labels[i].Visible = true
	return nil
}

// fail resets the chart after a surface error and returns err.
func (c *Chart) fail(err error) error {
	c.log.Error("chart animation failed", zap.Uint64("run", c.seq), zap.Error(err))
	c.seq++
	c.cancelPending()
	c.reset()
	return err
}

func (c *Chart) notify(err error) {
	if c.onFinish != nil {
		c.onFinish(err)
	}
}

func (c *Chart) cancelPending() {
	if c.pending == nil {
		return
	}
	r := c.pending
	c.pending = nil
	r.Cancel()
}

func (c *Chart) reset() {
	c.state = StateIdle
	c.index = 0
	c.cumulative = 0
	c.run = nil
	c.labels = nil
	c.dropped = nil
	c.history = nil
}

// State returns the sequencer state.
func (c *Chart) State() State {
	return c.state
}

// Index returns the slice being animated, or the number of slices drawn
// once the run is done.
func (c *Chart) Index() int {
	return c.index
}

// CumulativePercent returns the share of the circle fully drawn so far.
func (c *Chart) CumulativePercent() float64 {
	return c.cumulative
}

// Labels returns the labels bound in the current run.
func (c *Chart) Labels() []Label {
	out := make([]Label, len(c.labels))
	copy(out, c.labels)
	return out
}

// Dropped returns the slices left out by ClampOverflow.
func (c *Chart) Dropped() []int {
	return append([]int(nil), c.dropped...)
}

// History returns the slices completed in the current run.
func (c *Chart) History() []Step {
	return append([]Step(nil), c.history...)
}

// Status returns a one-line description of the sequencer.
func (c *Chart) Status() string {
	switch c.state {
	case StateAnimating:
		return fmt.Sprintf("State: animating slice %d/%d [%s drawn]",
			c.index+1, len(c.run), FormatPercent(c.cumulative))
	case StateDone:
		status := fmt.Sprintf("State: done [%d slices, %s]", len(c.run), FormatPercent(c.cumulative))
		if len(c.dropped) > 0 {
			status += fmt.Sprintf(" dropped %v", c.dropped)
		}
		return status
	}
	return "State: idle"
}
