package scene

import (
	"time"

	"github.com/ha1tch/pie-toolkit/pkg/pie"
	"github.com/ha1tch/pie-toolkit/pkg/timeline"
)

// Player bundles a chart with the scene and timeline it animates on.
type Player struct {
	Timeline *timeline.Timeline
	Scene    *Scene
	Chart    *pie.Chart

	start    time.Duration // timeline time of the last Play
	finished bool
	err      error
}

// NewPlayer creates a player for slices on a canvas of the given size.
func NewPlayer(slices []pie.Slice, width, height int, opts pie.Options) *Player {
	tl := timeline.New()
	sc := New(tl, width, height)
	c := pie.New(sc, sc.Metrics(), opts)
	c.SetSlices(slices)

	p := &Player{Timeline: tl, Scene: sc, Chart: c}
	c.OnFinish(func(err error) {
		p.finished = true
		p.err = err
	})
	return p
}

// Play starts, or restarts, the animation.
func (p *Player) Play() error {
	p.start = p.Timeline.Now()
	p.finished = false
	p.err = nil
	return p.Chart.AnimateChart()
}

// Elapsed returns the time since the current run was started.
func (p *Player) Elapsed() time.Duration {
	return p.Timeline.Now() - p.start
}

// Step advances the animation by dt.
func (p *Player) Step(dt time.Duration) {
	p.Timeline.Advance(dt)
}

// Seek restarts the animation and advances it to at.
func (p *Player) Seek(at time.Duration) error {
	if err := p.Play(); err != nil {
		return err
	}
	p.Step(at)
	return p.err
}

// Done reports whether the current run has finished, successfully or not.
func (p *Player) Done() bool {
	return p.finished
}

// Err returns the error that ended the current run, if any.
func (p *Player) Err() error {
	return p.err
}

// Frame captures the scene.
func (p *Player) Frame() Frame {
	return p.Scene.Frame()
}

// Duration returns how long a full run takes.
func (p *Player) Duration() time.Duration {
	opts := p.Chart.Options()
	return pie.TotalDuration(opts.Drawn(p.Chart.Slices()), opts.TotalDuration)
}
