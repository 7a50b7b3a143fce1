package main

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/playback"
	"github.com/Conceptual-Machines/groove-api/internal/scheduler"
)

const (
	bpmStep   = 5
	minBPM    = 40
	maxBPM    = 240
	hitFlash  = 120 * time.Millisecond
	gridSteps = scheduler.DefaultStepsPerBar
)

var partKeys = []playback.Part{playback.PartChords, playback.PartBass, playback.PartDrums, playback.PartMelody}

// player ties the engine, host and scheduler together and keeps the state
// the view draws
type player struct {
	engine *engine.Engine
	host   *playback.Host
	sched  *scheduler.Scheduler
	opts   songOptions
	pack   genre.PackID // empty follows the song's genre
	redraw func()
	now    func() time.Time

	mu        sync.Mutex
	presetIdx int
	song      *song
	bar       int
	step      int
	hits      map[models.DrumType]time.Time
}

func newPlayer(e *engine.Engine, timing scheduler.Config, opts songOptions, pack genre.PackID, presetIdx int, redraw func()) *player {
	if redraw == nil {
		redraw = func() {}
	}
	p := &player{
		engine:    e,
		host:      playback.NewHost(e),
		opts:      opts,
		pack:      pack,
		redraw:    redraw,
		now:       time.Now,
		presetIdx: presetIdx,
		bar:       -1,
		step:      -1,
		hits:      map[models.DrumType]time.Time{},
	}
	p.sched = scheduler.New(e, timing, scheduler.Callbacks{
		OnBar:        p.host.OnBar,
		OnVisualBar:  p.onVisualBar,
		OnVisualStep: p.onVisualStep,
	})
	p.host.Bus().OnDrumHit(playback.AnyDrum, p.onHit)
	return p
}

// load builds the current preset and hands it to the host
func (p *player) load(ctx context.Context) error {
	p.mu.Lock()
	idx := p.presetIdx
	p.mu.Unlock()

	s, err := buildSong(idx, p.opts)
	if err != nil {
		return err
	}
	if len(s.Warnings) > 0 {
		logger.LogCorrections(s.Prog.Genre, s.Warnings, nil)
	}

	if s.Intensity > 0 {
		mix := p.engine.Mix()
		if mix.AutoMix {
			mix.DrumIntensity = s.Intensity
			p.engine.SetMix(mix)
		}
	}

	// A failed sample load still falls back to synth drums
	pack := p.pack
	if pack == "" {
		pack = genre.PackForGenre(s.Prog.Genre)
	}
	if p.engine.Pack() != pack {
		if err := p.engine.LoadPack(ctx, pack); err != nil {
			logger.Warn("Drum pack not fully loaded", logger.Fields{"pack": string(pack), "error": err.Error()})
		}
	}

	p.host.Load(s.Prog, s.Melody)
	p.mu.Lock()
	p.song = s
	p.mu.Unlock()

	if p.sched.IsRunning() {
		p.sched.UpdateBPM(p.host.Tempo())
		p.sched.UpdateTotalBars(p.host.TotalBars())
	}
	p.redraw()
	return nil
}

func (p *player) togglePlay() {
	if p.sched.IsRunning() {
		p.stop()
		return
	}
	p.sched.Start(p.host.Tempo(), p.host.TotalBars())
	p.redraw()
}

func (p *player) stop() {
	p.sched.Stop()
	p.mu.Lock()
	p.bar, p.step = -1, -1
	p.mu.Unlock()
	p.redraw()
}

func (p *player) toggleMute(part playback.Part) {
	p.host.SetMuted(part, !p.host.Muted(part))
	p.redraw()
}

func (p *player) nudgeBPM(delta float64) {
	p.mu.Lock()
	bpm := p.song.Prog.Tempo + delta
	bpm = min(maxBPM, max(minBPM, bpm))
	p.song.Prog.Tempo = bpm
	prog, melody := p.song.Prog, p.song.Melody
	p.mu.Unlock()

	p.opts.BPM = bpm
	p.host.Load(prog, melody)
	if p.sched.IsRunning() {
		p.sched.UpdateBPM(bpm)
	}
	p.redraw()
}

func (p *player) nextPreset(ctx context.Context) error {
	p.mu.Lock()
	p.presetIdx = (p.presetIdx + 1) % len(models.Presets())
	p.mu.Unlock()
	p.opts.BPM = 0
	return p.load(ctx)
}

func (p *player) nextInstrument() {
	i := slices.Index(engine.Instruments, p.engine.Instrument())
	p.engine.SetInstrument(engine.Instruments[(i+1)%len(engine.Instruments)])
	p.redraw()
}

func (p *player) onVisualBar(bar int) {
	p.mu.Lock()
	p.bar = bar
	p.mu.Unlock()
	p.redraw()
}

func (p *player) onVisualStep(bar, step int) {
	p.mu.Lock()
	p.bar, p.step = bar, step
	p.mu.Unlock()
	p.redraw()
}

// onHit runs when the host schedules a hit; the flash starts when it sounds
func (p *player) onHit(hit playback.DrumHit) {
	delay := time.Duration((hit.Time - p.engine.CurrentTime()) * float64(time.Second))
	p.mu.Lock()
	p.hits[hit.Drum] = p.now().Add(max(0, delay))
	p.mu.Unlock()
}

// viewState is a snapshot for drawing
type viewState struct {
	Title      string
	Genre      string
	Source     string
	BPM        float64
	Chords     []string
	Bar        int
	Step       int
	Playing    bool
	Grid       map[models.DrumType][]bool
	Flashing   map[models.DrumType]bool
	Muted      map[playback.Part]bool
	Instrument engine.Instrument
	Pack       genre.PackID
	Warnings   []string
	Voices     int
}

func (p *player) snapshot() viewState {
	p.mu.Lock()
	defer p.mu.Unlock()

	v := viewState{
		Bar:        p.bar,
		Step:       p.step,
		Playing:    p.sched.IsRunning(),
		Flashing:   map[models.DrumType]bool{},
		Muted:      map[playback.Part]bool{},
		Instrument: p.engine.Instrument(),
		Pack:       p.engine.Pack(),
		Voices:     p.engine.ActiveVoices(),
	}
	if s := p.song; s != nil {
		v.Title = s.Prog.Label
		v.Genre = s.Prog.Genre
		v.Source = s.Source
		v.BPM = s.Prog.Tempo
		v.Chords = s.Prog.Chords
		v.Grid = gridRows(s.Prog.Drums, gridSteps)
		v.Warnings = s.Warnings
	}

	now := p.now()
	for d, at := range p.hits {
		if !now.Before(at) && now.Sub(at) < hitFlash {
			v.Flashing[d] = true
		}
	}
	for _, part := range partKeys {
		v.Muted[part] = p.host.Muted(part)
	}
	return v
}
