// Package playback turns scheduler bar events into renderer calls for
// the chords, bass line, drums and melody of a progression.
package playback

import (
	"math"
	"sync"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/scheduler"
	"github.com/Conceptual-Machines/groove-api/internal/theory"
)

const (
	defaultTempo   = 120
	beatsPerBar    = 4
	melodyVelocity = 0.8

	// distance from an off-beat eighth within which a hit swings
	swingTolerance = 0.02
)

// Renderer produces sound at absolute audio-clock times. None of its
// methods may block.
type Renderer interface {
	Play(d models.DrumType, at, velocity float64)
	PlayChord(notes []int, at, dur float64)
	PlayBass(note int, at, dur float64)
	PlayMelody(note int, at, dur, velocity float64)
}

// Part is one independently mutable layer of the arrangement
type Part string

const (
	PartChords Part = "chords"
	PartBass   Part = "bass"
	PartDrums  Part = "drums"
	PartMelody Part = "melody"
)

// Host is the scheduler's bar callback. The loaded song can be swapped
// while playing; the change is heard from the next scheduled bar.
type Host struct {
	r   Renderer
	bus *Bus

	mu     sync.RWMutex
	prog   *models.Progression
	melody map[int][]models.MelodyNote
	muted  map[Part]bool
}

// NewHost creates a host rendering into r
func NewHost(r Renderer) *Host {
	return &Host{
		r:     r,
		bus:   NewBus(),
		muted: make(map[Part]bool),
	}
}

// Bus returns the drum-hit bus
func (h *Host) Bus() *Bus {
	return h.bus
}

// Load replaces the song. The host keeps its own copy of prog; nil
// unloads it.
func (h *Host) Load(prog *models.Progression, melody []models.MelodyNote) {
	if prog != nil {
		prog = prog.Clone()
	}
	byBar := make(map[int][]models.MelodyNote)
	for _, n := range melody {
		byBar[n.Bar] = append(byBar[n.Bar], n)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.prog = prog
	h.melody = byBar
}

// SetMuted silences or restores one part
func (h *Host) SetMuted(p Part, muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted[p] = muted
}

// Muted reports whether p is silenced
func (h *Host) Muted(p Part) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.muted[p]
}

// Tempo is the loaded tempo, defaulting to 120
func (h *Host) Tempo() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return tempo(h.prog)
}

// TotalBars is the loop length of the loaded song
func (h *Host) TotalBars() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return totalBars(h.prog)
}

func tempo(p *models.Progression) float64 {
	if p == nil || p.Tempo <= 0 {
		return defaultTempo
	}
	return p.Tempo
}

func totalBars(p *models.Progression) int {
	switch {
	case p == nil:
		return 1
	case len(p.Chords) > 0:
		return len(p.Chords)
	case p.Bars > 0:
		return p.Bars
	}
	return 1
}

// OnBar renders one bar
func (h *Host) OnBar(ev scheduler.BarEvent) {
	h.mu.RLock()
	prog := h.prog
	notes := h.melody[ev.BarIndex]
	muted := map[Part]bool{}
	for p, m := range h.muted {
		muted[p] = m
	}
	h.mu.RUnlock()

	if prog == nil {
		return
	}

	spb := 60 / tempo(prog)
	barDur := spb * beatsPerBar

	if len(prog.Chords) > 0 {
		chord := prog.Chords[ev.BarIndex%len(prog.Chords)]
		if !muted[PartChords] {
			if midi := theory.ChordToMIDI(chord); len(midi) > 0 {
				h.r.PlayChord(midi, ev.BarStartTime, barDur)
			}
		}
		if !muted[PartBass] {
			if root, ok := theory.BassNote(chord); ok {
				h.r.PlayBass(root, ev.BarStartTime, barDur)
			}
		}
	}

	if prog.Drums != nil && !muted[PartDrums] {
		h.playDrums(prog.Drums, prog.Swing, ev.BarStartTime, spb)
	}

	if !muted[PartMelody] {
		for _, n := range notes {
			h.r.PlayMelody(n.MIDI, ev.BarStartTime+n.BeatOffset*spb, n.DurationBeats*spb, melodyVelocity)
		}
	}
}

func (h *Host) playDrums(d *models.DrumPattern, swing, barStart, spb float64) {
	length := d.LengthBeats()
	for _, dt := range models.AllDrumTypes {
		positions, _ := d.Track(dt)
		for i, pos := range positions {
			beat := math.Mod(pos, length)
			at := barStart + beat*spb + SwingOffset(beat, swing, spb)
			vel := d.Velocity(dt, i)

			h.r.Play(dt, at, vel)
			h.bus.Emit(DrumHit{Drum: dt, Velocity: vel, Time: at})
		}
	}
}

// SwingOffset delays off-beat eighths by up to a third of a beat
func SwingOffset(beat, swing, spb float64) float64 {
	if swing <= 0 {
		return 0
	}
	for _, off := range []float64{0.5, 1.5, 2.5, 3.5} {
		if math.Abs(beat-off) < swingTolerance {
			return swing / 100 * spb / 3
		}
	}
	return 0
}
