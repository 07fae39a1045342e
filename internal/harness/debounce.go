package harness

import "time"

// coalescer folds a burst of high-frequency signals into a single firing
// after a quiet period. Owned by the harness loop; not safe for concurrent
// use.
type coalescer struct {
	window  time.Duration
	timer   *time.Timer
	timerCh <-chan time.Time
	pending int
}

func newCoalescer(window time.Duration) *coalescer {
	if window <= 0 {
		window = 300 * time.Millisecond
	}
	return &coalescer{window: window}
}

// bump registers one signal and (re)starts the quiet-period timer.
func (c *coalescer) bump() {
	c.pending++
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.NewTimer(c.window)
	c.timerCh = c.timer.C
}

// timerC is the channel that fires when the quiet period elapses. Nil when
// nothing is pending, which blocks forever in a select.
func (c *coalescer) timerC() <-chan time.Time {
	return c.timerCh
}

// fire resets the coalescer and returns how many signals were folded into
// this firing.
func (c *coalescer) fire() int {
	n := c.pending
	c.pending = 0
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
		c.timerCh = nil
	}
	return n
}
