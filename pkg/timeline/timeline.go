// Package timeline provides a frame-driven animation clock.
//
// A Timeline never reads the wall clock on its own: the host advances it,
// typically once per rendered frame, and completions fire from inside
// Advance on the caller's goroutine.
package timeline

import (
	"context"
	"time"
)

// Reveal is a linear 0 to 1 animation running on a Timeline.
type Reveal struct {
	tl       *Timeline
	id       uint64
	start    time.Duration
	duration time.Duration
	done     func(finished bool)

	finished  bool
	cancelled bool
	stopped   time.Duration // clock time of Cancel
}

// Progress returns the completed fraction of the reveal, 0.0 - 1.0.
// A cancelled reveal keeps the progress it had when cancelled.
func (r *Reveal) Progress() float64 {
	if r.finished {
		return 1
	}
	now := r.tl.now
	if r.cancelled {
		now = r.stopped
	}
	if r.duration <= 0 {
		return 0
	}
	p := float64(now-r.start) / float64(r.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// End returns the timeline time at which the reveal completes.
func (r *Reveal) End() time.Duration {
	return r.start + r.duration
}

// Done reports whether the reveal has completed or been cancelled.
func (r *Reveal) Done() bool {
	return r.finished || r.cancelled
}

// Finished reports whether the reveal ran to completion.
func (r *Reveal) Finished() bool {
	return r.finished
}

// Cancel stops the reveal and reports it as not finished. Cancelling a
// reveal that already ended does nothing.
func (r *Reveal) Cancel() {
	if r.Done() {
		return
	}
	r.cancelled = true
	r.stopped = r.tl.now
	r.tl.remove(r)
	if r.done != nil {
		r.done(false)
	}
}

// Timeline schedules reveals against a virtual clock.
type Timeline struct {
	now    time.Duration
	nextID uint64
	active []*Reveal
}

// New creates a timeline at time zero.
func New() *Timeline {
	return &Timeline{}
}

// Now returns the current timeline time.
func (t *Timeline) Now() time.Duration {
	return t.now
}

// Active returns the number of running reveals.
func (t *Timeline) Active() int {
	return len(t.active)
}

// Start begins a reveal of length d at the current time. done is called
// once: with true from Advance when the reveal completes, or with false
// from Cancel. A reveal of zero length completes on the next Advance.
func (t *Timeline) Start(d time.Duration, done func(finished bool)) *Reveal {
	if d < 0 {
		d = 0
	}
	t.nextID++
	r := &Reveal{
		tl:       t,
		id:       t.nextID,
		start:    t.now,
		duration: d,
		done:     done,
	}
	t.active = append(t.active, r)
	return r
}

// Advance moves the clock forward by dt and fires the completions that
// fall within it, in end-time order. Before each completion the clock is
// set to that reveal's end, so a reveal started from a completion begins
// exactly where the previous one ended.
func (t *Timeline) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := t.now + dt
	for {
		r := t.nextDue(target)
		if r == nil {
			break
		}
		t.now = r.End()
		r.finished = true
		t.remove(r)
		if r.done != nil {
			r.done(true)
		}
	}
	t.now = target
}

// AdvanceToIdle advances until no reveals are running, up to limit.
// It returns the time advanced.
func (t *Timeline) AdvanceToIdle(limit time.Duration) time.Duration {
	start := t.now
	for len(t.active) > 0 && t.now-start < limit {
		next := t.active[0].End()
		for _, r := range t.active[1:] {
			if r.End() < next {
				next = r.End()
			}
		}
		step := next - t.now
		if remaining := limit - (t.now - start); step > remaining {
			step = remaining
		}
		t.Advance(step)
	}
	return t.now - start
}

// nextDue returns the earliest reveal ending at or before target.
func (t *Timeline) nextDue(target time.Duration) *Reveal {
	var due *Reveal
	for _, r := range t.active {
		if r.End() > target {
			continue
		}
		if due == nil || r.End() < due.End() || (r.End() == due.End() && r.id < due.id) {
			due = r
		}
	}
	return due
}

func (t *Timeline) remove(r *Reveal) {
	for i, a := range t.active {
		if a == r {
			t.active = append(t.active[:i], t.active[i+1:]...)
			return
		}
	}
}

// Run advances the timeline by wall-clock time on every tick of interval
// and calls frame after each advance. It returns when ctx is done.
// Run must be called from the goroutine that owns the timeline.
func (t *Timeline) Run(ctx context.Context, interval time.Duration, frame func(now time.Duration)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case tick := <-ticker.C:
			t.Advance(tick.Sub(last))
			last = tick
			if frame != nil {
				frame(t.now)
			}
		}
	}
}
