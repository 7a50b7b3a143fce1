package scheduler

import "time"

// WallClock is a Clock backed by the monotonic system clock, counting
// from its creation. Hosts without an audio device use it.
type WallClock struct {
	origin time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{origin: time.Now()}
}

func (c *WallClock) CurrentTime() float64 {
	return time.Since(c.origin).Seconds()
}
