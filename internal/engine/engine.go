// Package engine renders scheduled drum hits, chords, bass and melody
// into a stereo beep.Streamer. The number of frames it has rendered is
// the audio clock the scheduler reads.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/theory"
)

// DefaultSampleRate matches the generated sample packs
const DefaultSampleRate beep.SampleRate = 44100

const chokeFade = 5 * time.Millisecond

// ErrUnknownPack is returned by LoadPack for ids with no manifest
var ErrUnknownPack = errors.New("unknown sample pack")

// Config configures an Engine
type Config struct {
	SampleRate beep.SampleRate
	// Samples supplies pack samples. Nil plays every drum on the synth.
	Samples *SampleCache
	// Rand drives synth noise. Nil uses a time-seeded source.
	Rand func() float64
}

type voice struct {
	start    int64 // frame the voice begins at
	buf      Buffer
	gain     float64
	pan      float64
	chokeAt  int64 // -1 when not choked
	chokeLen int64
}

func (v *voice) end() int64 {
	end := v.start + int64(len(v.buf))
	if v.chokeAt >= 0 && v.chokeAt+v.chokeLen < end {
		return v.chokeAt + v.chokeLen
	}
	return end
}

// Engine mixes voices scheduled at absolute audio-clock times. It is safe
// for concurrent use: the speaker pulls frames on its own goroutine while
// playback code schedules hits.
type Engine struct {
	rate    beep.SampleRate
	samples *SampleCache
	rnd     func() float64

	mu         sync.Mutex
	rendered   int64
	drums      []*voice
	music      []*voice
	scratch    [][2]float64
	mix        MixState
	comp       *compressor
	instrument Instrument
	pack       *genre.Manifest
	roundRobin map[models.DrumType]int
	synth      map[models.DrumType]Buffer
	openHat    *voice
	closedHats []int64 // start frames of closed hats not yet rendered
}

// New creates an engine at rest at time zero
func New(cfg Config) *Engine {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano())).Float64
	}
	mix := DefaultMix()
	return &Engine{
		rate:       cfg.SampleRate,
		samples:    cfg.Samples,
		rnd:        cfg.Rand,
		mix:        mix,
		comp:       newCompressor(mix, float64(cfg.SampleRate)),
		instrument: DefaultInstrument,
		roundRobin: make(map[models.DrumType]int),
		synth:      make(map[models.DrumType]Buffer),
	}
}

// SampleRate returns the output rate
func (e *Engine) SampleRate() beep.SampleRate {
	return e.rate
}

// Format is the stereo 16-bit format the engine renders
func (e *Engine) Format() beep.Format {
	return beep.Format{SampleRate: e.rate, NumChannels: 2, Precision: 2}
}

// CurrentTime returns the audio clock in seconds
func (e *Engine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return float64(e.rendered) / float64(e.rate)
}

// frameAt converts a clock time to a frame, never earlier than now
func (e *Engine) frameAt(at float64) int64 {
	f := int64(math.Round(at * float64(e.rate)))
	if f < e.rendered {
		return e.rendered
	}
	return f
}

// SetMix replaces the mix controls
func (e *Engine) SetMix(m MixState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mix = m
	e.comp.configure(m, float64(e.rate))
}

// Mix returns the current mix controls
func (e *Engine) Mix() MixState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mix
}

// SetInstrument selects the chord voice for subsequent chords
func (e *Engine) SetInstrument(in Instrument) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.instrument = in
}

// Instrument returns the chord voice
func (e *Engine) Instrument() Instrument {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.instrument
}

// LoadPack preloads the samples of pack id and routes drums through it.
// Round-robin counters restart. If some samples fail to load the pack is
// still selected and those hits fall back to the synth.
func (e *Engine) LoadPack(ctx context.Context, id genre.PackID) error {
	m, ok := genre.Pack(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPack, id)
	}

	var err error
	if e.samples != nil {
		err = e.samples.PreloadPack(ctx, m)
		if err != nil {
			logger.Warn("Sample pack partially loaded, using synth fallback", logger.Fields{
				"pack":  string(id),
				"error": err.Error(),
			})
		}
	}

	e.mu.Lock()
	e.pack = m
	clear(e.roundRobin)
	e.mu.Unlock()
	return err
}

// ClearPack routes every drum back to the synth
func (e *Engine) ClearPack() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pack = nil
	clear(e.roundRobin)
}

// Pack returns the selected pack id, or "" when drums are synthesized
func (e *Engine) Pack() genre.PackID {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pack == nil {
		return ""
	}
	return e.pack.ID
}

// Play schedules drum d at clock time at. Hits in the past play
// immediately. Play never blocks on sample loading.
func (e *Engine) Play(d models.DrumType, at, velocity float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	buf, gain := e.drumBuffer(d)
	if len(buf) == 0 {
		return
	}
	v := &voice{
		start:   e.frameAt(at),
		buf:     buf,
		gain:    math.Pow(clamp(velocity, 0, 1), 1.5) * gain * e.mix.voiceGain(d),
		chokeAt: -1,
	}

	hihatPan, ohatPan := e.mix.HatPan()
	switch d {
	case models.Hihat:
		v.pan = hihatPan
		e.choke(v.start)
		e.closedHats = append(e.closedHats, v.start)
	case models.Ohat:
		v.pan = ohatPan
		e.openHat = v
		for _, at := range e.closedHats {
			e.choke(at)
		}
	}
	e.drums = append(e.drums, v)
}

// choke fades the ringing open hat out when a closed hat lands
func (e *Engine) choke(at int64) {
	oh := e.openHat
	if oh == nil || oh.start > at || oh.end() <= at {
		return
	}
	if oh.chokeAt < 0 || oh.chokeAt > at {
		oh.chokeAt = at
		oh.chokeLen = int64(e.rate.N(chokeFade))
	}
}

// drumBuffer picks the next round-robin sample of d from the active pack,
// falling back to the synth voice.
func (e *Engine) drumBuffer(d models.DrumType) (Buffer, float64) {
	if e.pack != nil && e.samples != nil {
		if entries := e.pack.Drums[d]; len(entries) > 0 {
			entry := entries[e.roundRobin[d]%len(entries)]
			e.roundRobin[d]++
			if buf, ok := e.samples.Get(entry.Path); ok {
				gain := entry.Gain
				if gain == 0 {
					gain = 1
				}
				return repitch(buf, cents(entry.PitchCents)), gain
			}
		}
	}
	return e.synthVoice(d), 1
}

func (e *Engine) synthVoice(d models.DrumType) Buffer {
	if buf, ok := e.synth[d]; ok {
		return buf
	}
	buf := SynthesizeDrum(d, VoiceParams(genre.PackCommon, d), e.rate, e.rnd)
	e.synth[d] = buf
	return buf
}

// PlayChord schedules the MIDI notes of a chord on the chord voice
func (e *Engine) PlayChord(notes []int, at, dur float64) {
	e.mu.Lock()
	in := e.instrument
	e.mu.Unlock()

	for _, n := range notes {
		buf := RenderNote(in, theory.Frequency(n), dur, e.rate)
		e.addMusic(buf, at, 1)
	}
}

// PlayBass schedules one bass note
func (e *Engine) PlayBass(note int, at, dur float64) {
	e.addMusic(renderBass(theory.Frequency(note), dur, e.rate), at, 1)
}

// PlayMelody schedules one melody note
func (e *Engine) PlayMelody(note int, at, dur, velocity float64) {
	e.addMusic(RenderMelodyNote(theory.Frequency(note), dur, e.rate), at, clamp(velocity, 0, 1))
}

func (e *Engine) addMusic(buf Buffer, at, gain float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.music = append(e.music, &voice{start: e.frameAt(at), buf: buf, gain: gain, chokeAt: -1})
}

// Reset drops every scheduled and sounding voice. The clock keeps running.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drums = nil
	e.music = nil
	e.openHat = nil
	e.closedHats = nil
}

// ActiveVoices returns how many voices are scheduled or sounding
func (e *Engine) ActiveVoices() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.drums) + len(e.music)
}

// Stream renders the next frames and advances the clock. It never ends.
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if cap(e.scratch) < len(samples) {
		e.scratch = make([][2]float64, len(samples))
	}
	drumBus := e.scratch[:len(samples)]
	for i := range samples {
		samples[i] = [2]float64{}
		drumBus[i] = [2]float64{}
	}

	from := e.rendered
	e.drums = mixVoices(e.drums, drumBus, from)
	e.music = mixVoices(e.music, samples, from)
	to := from + int64(len(samples))
	if e.openHat != nil && e.openHat.end() <= to {
		e.openHat = nil
	}
	e.closedHats = slices.DeleteFunc(e.closedHats, func(at int64) bool { return at < to })

	busGain := e.mix.DrumBusGain()
	for i, frame := range drumBus {
		l, r := frame[0]*busGain, frame[1]*busGain
		g := e.comp.gain(math.Max(math.Abs(l), math.Abs(r)))
		samples[i][0] = limit(samples[i][0] + l*g)
		samples[i][1] = limit(samples[i][1] + r*g)
	}

	e.rendered += int64(len(samples))
	return len(samples), true
}

// Err always returns nil
func (e *Engine) Err() error {
	return nil
}

// mixVoices adds every voice overlapping [from, from+len(out)) into out
// and returns the voices still sounding afterwards.
func mixVoices(voices []*voice, out [][2]float64, from int64) []*voice {
	to := from + int64(len(out))
	remaining := voices[:0]

	for _, v := range voices {
		end := v.end()
		lo := max(v.start, from)
		hi := min(end, to)
		left, right := math.Min(1, 1-v.pan), math.Min(1, 1+v.pan)

		for t := lo; t < hi; t++ {
			s := v.buf[t-v.start] * v.gain
			if v.chokeAt >= 0 && t >= v.chokeAt {
				s *= 1 - float64(t-v.chokeAt)/float64(v.chokeLen)
			}
			out[t-from][0] += s * left
			out[t-from][1] += s * right
		}
		if end > to {
			remaining = append(remaining, v)
		}
	}

	// release references held past the new length
	for i := len(remaining); i < len(voices); i++ {
		voices[i] = nil
	}
	return remaining
}

// limit soft-knees peaks above 0.8 and hard-clips at 1
func limit(v float64) float64 {
	switch {
	case v > 0.8:
		v = 0.8 + 0.2*(1-1/(1+(v-0.8)*5))
	case v < -0.8:
		v = -0.8 - 0.2*(1-1/(1+(-v-0.8)*5))
	}
	return clamp(v, -1, 1)
}
