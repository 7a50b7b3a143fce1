package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/gopxl/beep"
)

// Instrument selects the chord voice
type Instrument string

const (
	Piano  Instrument = "piano"
	Synth  Instrument = "synth"
	Pad    Instrument = "pad"
	Organ  Instrument = "organ"
	Bells  Instrument = "bells"
	Pluck  Instrument = "pluck"
	Bass   Instrument = "bass"
	EPiano Instrument = "epiano"
)

// DefaultInstrument is used when none is chosen
const DefaultInstrument = Piano

// Instruments lists every chord voice in menu order
var Instruments = []Instrument{Piano, Synth, Pad, Organ, Bells, Pluck, Bass, EPiano}

// ParseInstrument maps a name to an instrument, case-insensitively
func ParseInstrument(s string) (Instrument, error) {
	in := Instrument(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Instruments {
		if in == known {
			return in, nil
		}
	}
	return "", fmt.Errorf("unknown instrument %q", s)
}

// point is one envelope breakpoint. exp segments approach the target
// exponentially and must not cross zero.
type point struct {
	t   float64
	v   float64
	exp bool
}

// envelope evaluates a breakpoint list at t seconds. Before the first
// point the level is zero and after the last it holds.
func envelope(pts []point, t float64) float64 {
	prev := point{}
	for _, p := range pts {
		if t < p.t {
			span := p.t - prev.t
			if span <= 0 {
				return p.v
			}
			x := (t - prev.t) / span
			if p.exp && prev.v > 0 && p.v > 0 {
				return prev.v * math.Pow(p.v/prev.v, x)
			}
			return prev.v + (p.v-prev.v)*x
		}
		prev = p
	}
	return prev.v
}

func applyEnvelope(in Buffer, pts []point, rate beep.SampleRate) Buffer {
	for i := range in {
		in[i] *= envelope(pts, float64(i)/float64(rate))
	}
	return in
}

func seconds(rate beep.SampleRate, s float64) int {
	return int(math.Ceil(s * float64(rate)))
}

// RenderNote renders one note of instrument at freq for dur seconds,
// including its release tail.
func RenderNote(in Instrument, freq, dur float64, rate beep.SampleRate) Buffer {
	switch in {
	case Synth:
		return renderSynth(freq, dur, rate)
	case Pad:
		return renderPad(freq, dur, rate)
	case Organ:
		return renderOrgan(freq, dur, rate)
	case Bells:
		return renderBells(freq, dur, rate)
	case Pluck:
		return renderPluck(freq, rate)
	case Bass:
		return renderBass(freq/2, dur, rate)
	case EPiano:
		return renderEPiano(freq, dur, rate)
	}
	return renderPiano(freq, dur, rate)
}

func renderPiano(freq, dur float64, rate beep.SampleRate) Buffer {
	end := dur + math.Min(dur*0.4, 1.8)
	n := seconds(rate, end)
	out := oscillate(sine, freq, n, rate)
	mixInto(out, oscillate(triangle, freq*2.001, n, rate), 0, 0.08)
	return applyEnvelope(out, []point{
		{t: 0.005, v: 0.32},
		{t: 0.12, v: 0.14, exp: true},
		{t: math.Max(dur-0.05, 0.12), v: 0.08, exp: true},
		{t: end, v: 0.0001, exp: true},
	}, rate)
}

func renderSynth(freq, dur float64, rate beep.SampleRate) Buffer {
	end := dur + 0.25
	n := seconds(rate, end)
	out := make(Buffer, n)
	for _, c := range []float64{0, 7, -7, 12} {
		mixInto(out, oscillate(sawtooth, freq*cents(c), n, rate), 0, 0.18)
	}
	out = sweepLowPass(out, 200, freq*8, 0.4, rate)
	return applyEnvelope(out, []point{
		{t: 0.08, v: 0.55},
		{t: dur, v: 0.55},
		{t: end, v: 0.0001, exp: true},
	}, rate)
}

// sweepLowPass is a one-pole low-pass whose cutoff glides exponentially
// from start to end over sweepSec.
func sweepLowPass(in Buffer, start, end, sweepSec float64, rate beep.SampleRate) Buffer {
	out := make(Buffer, len(in))
	dt := 1 / float64(rate)
	var y float64
	for i, x := range in {
		t := float64(i) * dt
		cutoff := end
		if t < sweepSec {
			cutoff = start * math.Pow(end/start, t/sweepSec)
		}
		rc := 1 / (2 * math.Pi * cutoff)
		y += dt / (rc + dt) * (x - y)
		out[i] = y
	}
	return out
}

func renderPad(freq, dur float64, rate beep.SampleRate) Buffer {
	attack := math.Min(dur*0.35, 1.2)
	end := dur + math.Min(dur*0.5, 2)
	n := seconds(rate, end)
	out := make(Buffer, n)
	for i, c := range []float64{-14, -7, 0, 7, 14} {
		w := sine
		if i%2 == 1 {
			w = triangle
		}
		mixInto(out, oscillate(w, freq*cents(c), n, rate), 0, 0.14)
	}
	out = lowPass(out, freq*4, rate)
	return applyEnvelope(out, []point{
		{t: attack, v: 0.5},
		{t: dur, v: 0.5},
		{t: end, v: 0},
	}, rate)
}

func renderOrgan(freq, dur float64, rate beep.SampleRate) Buffer {
	end := dur + 0.05
	n := seconds(rate, end)
	out := make(Buffer, n)
	harmonics := []struct{ mult, gain float64 }{{1, 0.35}, {2, 0.25}, {3, 0.15}, {4, 0.1}, {6, 0.06}}
	for _, h := range harmonics {
		mixInto(out, oscillate(sine, freq*h.mult, n, rate), 0, h.gain)
	}
	return applyEnvelope(out, []point{
		{t: 0.012, v: 0.55},
		{t: dur, v: 0.55},
		{t: end, v: 0},
	}, rate)
}

func renderBells(freq, dur float64, rate beep.SampleRate) Buffer {
	partials := []struct{ ratio, gain, decay float64 }{
		{1, 0.5, dur + 1.5},
		{2.76, 0.25, dur * 0.6},
		{5.4, 0.15, dur * 0.4},
	}
	n := seconds(rate, dur+1.5)
	out := make(Buffer, n)
	for _, p := range partials {
		tone := applyEnvelope(oscillate(sine, freq*p.ratio, n, rate), []point{
			{t: 0.002, v: 1},
			{t: math.Max(p.decay, 0.01), v: 0.0001, exp: true},
			{t: math.Max(p.decay, 0.01) + 0.001, v: 0},
		}, rate)
		mixInto(out, tone, 0, p.gain*0.45)
	}
	return out
}

func renderPluck(freq float64, rate beep.SampleRate) Buffer {
	const end = 0.55
	out := oscillate(sawtooth, freq, seconds(rate, end), rate)
	return applyEnvelope(out, []point{
		{t: 0.003, v: 0.7},
		{t: end, v: 0.0001, exp: true},
	}, rate)
}

func renderBass(freq, dur float64, rate beep.SampleRate) Buffer {
	end := math.Max(math.Min(dur*0.5, 1), 0.01)
	out := lowPass(oscillate(sine, freq, seconds(rate, end), rate), 500, rate)
	return applyEnvelope(out, []point{
		{t: 0.005, v: 0.9},
		{t: end, v: 0.0001, exp: true},
	}, rate)
}

// renderEPiano is a two-operator FM tone whose modulation index decays
func renderEPiano(freq, dur float64, rate beep.SampleRate) Buffer {
	end := dur + 0.35
	n := seconds(rate, end)
	out := make(Buffer, n)
	modIndex := []point{{t: 0, v: freq * 5}, {t: 0.3, v: freq * 0.5, exp: true}}

	var carrier, modulator float64
	dt := 1 / float64(rate)
	for i := range out {
		t := float64(i) * dt
		dev := envelope(modIndex, t) * math.Sin(modulator)
		out[i] = math.Sin(carrier)
		carrier += 2 * math.Pi * (freq + dev) * dt
		modulator += 2 * math.Pi * freq * 14 * dt
	}
	return applyEnvelope(out, []point{
		{t: 0.007, v: 0.38},
		{t: dur, v: 0.2, exp: true},
		{t: end, v: 0.0001, exp: true},
	}, rate)
}

// RenderMelodyNote renders the lead voice used for melody lines
func RenderMelodyNote(freq, dur float64, rate beep.SampleRate) Buffer {
	attack := math.Min(0.015, dur*0.08)
	end := dur + math.Min(dur*0.35, 0.5)
	out := oscillate(triangle, freq, seconds(rate, end), rate)
	return applyEnvelope(out, []point{
		{t: attack, v: 0.75},
		{t: dur, v: 0.6},
		{t: end, v: 0},
	}, rate)
}
