// Package scheduler turns an audio clock into bar events ahead of time.
//
// A Scheduler polls the clock on a short ticker and hands every bar that
// starts within the lookahead window to the bar callback, together with
// its absolute start time. Hosts schedule sound against that time, so
// audio stays drift-free even though polling is not. Presentation
// callbacks are delivered later, close to when the bar is heard.
package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/logger"
)

const (
	DefaultPollInterval = 25 * time.Millisecond
	DefaultLookahead    = 100 * time.Millisecond
	DefaultStepsPerBar  = 16

	beatsPerBar = 4
)

// ErrCallbackPanic wraps a panic raised by a bar callback
var ErrCallbackPanic = errors.New("bar callback panicked")

// Clock reports the current audio time in seconds
type Clock interface {
	CurrentTime() float64
}

// BarEvent is one bar handed to the host ahead of time
type BarEvent struct {
	BarIndex     int     `json:"barIndex"`
	BarStartTime float64 `json:"barStartTime"`
}

// Callbacks are the host hooks. Only OnBar is required. None of them may
// block.
type Callbacks struct {
	OnBar func(BarEvent)

	// Presentation hooks, called from the visual goroutine
	OnVisualBar  func(barIndex int)
	OnVisualStep func(barIndex, step int)

	// OnError receives recovered callback panics. Defaults to logging.
	OnError func(ev BarEvent, err error)
}

// Config tunes timing. Zero values select the defaults.
type Config struct {
	PollInterval time.Duration
	Lookahead    time.Duration
	StepsPerBar  int
}

// Scheduler is a lookahead bar scheduler. It is stopped until Start.
type Scheduler struct {
	clock Clock
	cb    Callbacks

	pollInterval time.Duration
	lookahead    float64

	mu          sync.Mutex
	running     bool
	generation  uint64
	bpm         float64
	totalBars   int
	stepsPerBar int
	startTime   float64
	nextBar     int
	done        chan struct{}
	visuals     *visualQueue
}

// New creates a stopped scheduler reading time from clock
func New(clock Clock, cfg Config, cb Callbacks) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Lookahead <= 0 {
		cfg.Lookahead = DefaultLookahead
	}
	if cfg.StepsPerBar <= 0 {
		cfg.StepsPerBar = DefaultStepsPerBar
	}
	if cb.OnError == nil {
		cb.OnError = logCallbackError
	}

	return &Scheduler{
		clock:        clock,
		cb:           cb,
		pollInterval: cfg.PollInterval,
		lookahead:    cfg.Lookahead.Seconds(),
		stepsPerBar:  cfg.StepsPerBar,
	}
}

// BarDuration is the length of one 4/4 bar in seconds
func BarDuration(bpm float64) float64 {
	return 60 / bpm * beatsPerBar
}

// Start begins scheduling from the current clock time. A running
// scheduler is stopped first. The first poll happens before Start returns.
func (s *Scheduler) Start(bpm float64, totalBars int) {
	s.Stop()

	s.mu.Lock()
	s.bpm = bpm
	s.totalBars = max(1, totalBars)
	s.startTime = s.clock.CurrentTime()
	s.nextBar = 0
	s.running = true
	s.generation++
	s.done = make(chan struct{})
	s.visuals = newVisualQueue()
	done, visuals := s.done, s.visuals
	s.mu.Unlock()

	go visuals.run(done, func(r any) {
		logger.Warn("Visual callback panicked", logger.Fields{"panic": fmt.Sprint(r)})
	})
	go s.loop(done)

	s.Poll()
}

// Stop halts polling and drops pending presentation callbacks. Sound
// already handed to the host is not recalled.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.generation++
	close(s.done)
	s.visuals.clear()
}

// IsRunning reports whether the scheduler is started
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// UpdateBPM changes the tempo from the next poll on
func (s *Scheduler) UpdateBPM(bpm float64) {
	s.mu.Lock()
	s.bpm = bpm
	s.mu.Unlock()
}

// UpdateTotalBars changes the loop length from the next poll on
func (s *Scheduler) UpdateTotalBars(totalBars int) {
	s.mu.Lock()
	s.totalBars = max(1, totalBars)
	s.mu.Unlock()
}

// SetStepsPerBar sets how many visual steps each bar is divided into
func (s *Scheduler) SetStepsPerBar(steps int) {
	if steps <= 0 {
		steps = DefaultStepsPerBar
	}
	s.mu.Lock()
	s.stepsPerBar = steps
	s.mu.Unlock()
}

func (s *Scheduler) loop(done <-chan struct{}) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.Poll()
		}
	}
}

type pollResult struct {
	generation  uint64
	now         float64
	barDuration float64
	stepsPerBar int
	visuals     *visualQueue
	due         []BarEvent
}

// advance claims every bar starting inside the lookahead window. The
// counter moves before any callback runs, so a failing callback cannot
// make a bar repeat.
func (s *Scheduler) advance() (pollResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.bpm <= 0 {
		return pollResult{}, false
	}

	res := pollResult{
		generation:  s.generation,
		now:         s.clock.CurrentTime(),
		barDuration: BarDuration(s.bpm),
		stepsPerBar: s.stepsPerBar,
		visuals:     s.visuals,
	}

	for {
		barStart := s.startTime + float64(s.nextBar)*res.barDuration
		if barStart > res.now+s.lookahead {
			break
		}
		res.due = append(res.due, BarEvent{
			BarIndex:     s.nextBar % s.totalBars,
			BarStartTime: barStart,
		})

		s.nextBar++
		if s.nextBar >= s.totalBars {
			// re-base the origin once per loop
			s.startTime += float64(s.nextBar) * res.barDuration
			s.nextBar = 0
		}
	}
	return res, true
}

func (s *Scheduler) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.generation == generation
}

// Poll hands out every bar due within the lookahead window. The ticker
// calls it; hosts and tests may call it directly.
func (s *Scheduler) Poll() {
	res, ok := s.advance()
	if !ok {
		return
	}

	for _, ev := range res.due {
		if !s.current(res.generation) {
			return
		}
		s.dispatch(ev)
		s.scheduleVisuals(res, ev)
	}
}

func (s *Scheduler) dispatch(ev BarEvent) {
	if s.cb.OnBar == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.cb.OnError(ev, fmt.Errorf("%w: bar %d: %v", ErrCallbackPanic, ev.BarIndex, r))
		}
	}()
	s.cb.OnBar(ev)
}

func (s *Scheduler) scheduleVisuals(res pollResult, ev BarEvent) {
	if s.cb.OnVisualBar == nil && s.cb.OnVisualStep == nil {
		return
	}

	untilBar := math.Max(0, ev.BarStartTime-res.now)
	if s.cb.OnVisualBar != nil {
		res.visuals.push(seconds(untilBar), func() { s.cb.OnVisualBar(ev.BarIndex) })
	}
	if s.cb.OnVisualStep == nil {
		return
	}

	stepDuration := res.barDuration / float64(res.stepsPerBar)
	for step := 0; step < res.stepsPerBar; step++ {
		res.visuals.push(seconds(untilBar+float64(step)*stepDuration), func() {
			s.cb.OnVisualStep(ev.BarIndex, step)
		})
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func logCallbackError(ev BarEvent, err error) {
	logger.Error("Scheduler bar callback failed", err, logger.Fields{
		"bar_index":      ev.BarIndex,
		"bar_start_time": ev.BarStartTime,
	})
}
