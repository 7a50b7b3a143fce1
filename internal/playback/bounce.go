package playback

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/scheduler"
)

const (
	DefaultLoops = 1
	MaxLoops     = 16
	DefaultTail  = 2 * time.Second
	MaxDuration  = 10 * time.Minute

	// frames rendered between scheduler polls
	bounceChunk = 512
)

// ErrTooLong is returned when a bounce would exceed MaxLoops or MaxDuration
var ErrTooLong = errors.New("bounce too long")

// BounceOptions configures an offline render
type BounceOptions struct {
	Loops      int
	Tail       time.Duration // release time after the last bar
	Instrument engine.Instrument
	Pack       genre.PackID // empty renders synth drums
	Samples    *engine.SampleCache
	Mix        *engine.MixState
	SampleRate beep.SampleRate
	Rand       func() float64
}

// BounceDuration is the audio length of loops of prog followed by tail
func BounceDuration(prog *models.Progression, loops int, tail time.Duration) time.Duration {
	secs := float64(loops*totalBars(prog)) * scheduler.BarDuration(tempo(prog))
	if secs > MaxDuration.Seconds()*2 {
		// keeps the conversion within Duration range
		return 2*MaxDuration + tail
	}
	return time.Duration(secs*float64(time.Second)) + tail
}

// Bounce renders loops of prog and melody to a WAV file in memory. It
// runs the same scheduler and host as live playback, polling the
// scheduler from the render loop instead of a wall-clock ticker.
func Bounce(ctx context.Context, prog *models.Progression, melody []models.MelodyNote, opts BounceOptions) ([]byte, error) {
	if opts.Loops <= 0 {
		opts.Loops = DefaultLoops
	}
	if opts.Loops > MaxLoops {
		return nil, fmt.Errorf("%w: %d loops, max %d", ErrTooLong, opts.Loops, MaxLoops)
	}
	if opts.Tail <= 0 {
		opts.Tail = DefaultTail
	}
	if d := BounceDuration(prog, opts.Loops, opts.Tail); d > MaxDuration {
		return nil, fmt.Errorf("%w: %s of audio, max %s", ErrTooLong, d.Round(time.Second), MaxDuration)
	}

	e := engine.New(engine.Config{SampleRate: opts.SampleRate, Samples: opts.Samples, Rand: opts.Rand})
	if opts.Instrument != "" {
		e.SetInstrument(opts.Instrument)
	}
	if opts.Mix != nil {
		e.SetMix(*opts.Mix)
	}
	if opts.Pack != "" {
		if err := e.LoadPack(ctx, opts.Pack); err != nil && errors.Is(err, engine.ErrUnknownPack) {
			return nil, err
		}
	}

	host := NewHost(e)
	host.Load(prog, melody)
	bars := host.TotalBars()
	bpm := host.Tempo()

	budget := int64(opts.Loops * bars)
	var claimed atomic.Int64
	sched := scheduler.New(e, scheduler.Config{PollInterval: time.Hour}, scheduler.Callbacks{
		OnBar: func(ev scheduler.BarEvent) {
			if claimed.Add(1) <= budget {
				host.OnBar(ev)
			}
		},
	})

	length := BounceDuration(prog, opts.Loops, opts.Tail)
	frames := e.SampleRate().N(length)

	sched.Start(bpm, bars)
	defer sched.Stop()

	driven := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if ctx.Err() != nil {
			return 0, false
		}
		sched.Poll()
		return e.Stream(samples[:min(len(samples), bounceChunk)])
	})

	var out engine.WAVBuffer
	if err := engine.EncodeWAV(&out, beep.Take(frames, driven), e.Format()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bounce cancelled: %w", err)
	}

	logger.Debug("Bounced progression", logger.Fields{
		"bars":   budget,
		"bpm":    bpm,
		"frames": frames,
		"bytes":  len(out.Bytes()),
	})
	return out.Bytes(), nil
}
