package engine

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// DrumParams shapes a synthesized drum hit. Fields a voice does not use
// are ignored; zero values pick the voice default.
type DrumParams struct {
	FreqStart float64       `json:"freqStart,omitempty"` // kick/tom sweep start, Hz
	FreqEnd   float64       `json:"freqEnd,omitempty"`
	Sweep     time.Duration `json:"sweep,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	ClickGain float64       `json:"clickGain,omitempty"`
	HPF       float64       `json:"hpf,omitempty"` // noise high-pass, Hz
	BPF       float64       `json:"bpf,omitempty"` // clap band centre, Hz
	BPFQ      float64       `json:"bpfQ,omitempty"`
	NoiseGain float64       `json:"noiseGain,omitempty"`
	BodyGain  float64       `json:"bodyGain,omitempty"`
	Gain      float64       `json:"gain,omitempty"`
}

func or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

var voiceDefaults = map[models.DrumType]DrumParams{
	models.Kick:     {FreqStart: 150, FreqEnd: 45, Sweep: 80 * time.Millisecond, Duration: 200 * time.Millisecond, ClickGain: 0.3},
	models.Snare:    {HPF: 2500, Duration: 200 * time.Millisecond, NoiseGain: 0.8, BodyGain: 0.4},
	models.Hihat:    {HPF: 7000, Duration: 50 * time.Millisecond, Gain: 0.5},
	models.Ohat:     {HPF: 6000, Duration: 150 * time.Millisecond, Gain: 0.5},
	models.Clap:     {BPF: 2200, BPFQ: 0.8, Duration: 120 * time.Millisecond, Gain: 0.7},
	models.Crash:    {HPF: 4500, Duration: 1200 * time.Millisecond, Gain: 0.45},
	models.Ride:     {HPF: 5500, Duration: 600 * time.Millisecond, Gain: 0.35},
	models.HighTom:  {FreqStart: 260, FreqEnd: 190, Sweep: 120 * time.Millisecond, Duration: 300 * time.Millisecond},
	models.MidTom:   {FreqStart: 200, FreqEnd: 140, Sweep: 140 * time.Millisecond, Duration: 340 * time.Millisecond},
	models.FloorTom: {FreqStart: 140, FreqEnd: 95, Sweep: 160 * time.Millisecond, Duration: 400 * time.Millisecond},
}

// PackVoices holds the synthesis parameters of one sample pack's core voices
type PackVoices map[models.DrumType]DrumParams

var packVoices = map[genre.PackID]PackVoices{
	genre.PackCommon: {},
	genre.PackTrap: {
		models.Kick:  {FreqStart: 160, FreqEnd: 38, Sweep: 90 * time.Millisecond, Duration: 250 * time.Millisecond},
		models.Snare: {HPF: 2800, BodyGain: 0.3},
		models.Hihat: {HPF: 8000, Duration: 35 * time.Millisecond, Gain: 0.45},
		models.Ohat:  {HPF: 6500, Duration: 120 * time.Millisecond},
		models.Clap:  {BPF: 2400, Gain: 0.75},
	},
	genre.PackLofi: {
		models.Kick:  {FreqStart: 130, FreqEnd: 50, Duration: 180 * time.Millisecond, ClickGain: 0.15},
		models.Snare: {HPF: 2000, NoiseGain: 0.6, BodyGain: 0.35},
		models.Hihat: {HPF: 5500, Duration: 45 * time.Millisecond, Gain: 0.35},
		models.Ohat:  {HPF: 5000, Duration: 130 * time.Millisecond, Gain: 0.35},
		models.Clap:  {BPF: 2000, Gain: 0.55},
	},
	genre.PackBoomBap: {
		models.Kick:  {FreqStart: 155, FreqEnd: 42, Sweep: 85 * time.Millisecond, Duration: 220 * time.Millisecond},
		models.Snare: {HPF: 2200, NoiseGain: 0.85, BodyGain: 0.45},
		models.Hihat: {HPF: 6500, Duration: 55 * time.Millisecond, Gain: 0.5},
		models.Ohat:  {HPF: 5500, Duration: 160 * time.Millisecond, Gain: 0.5},
		models.Clap:  {BPF: 2100, Gain: 0.7},
	},
	genre.PackDrill: {
		models.Kick:  {FreqStart: 170, FreqEnd: 35, Sweep: 95 * time.Millisecond, Duration: 260 * time.Millisecond},
		models.Snare: {HPF: 3000, NoiseGain: 0.9, BodyGain: 0.3},
		models.Hihat: {HPF: 8500, Duration: 30 * time.Millisecond, Gain: 0.4},
		models.Ohat:  {HPF: 7000, Duration: 100 * time.Millisecond, Gain: 0.4},
		models.Clap:  {BPF: 2500, Gain: 0.8},
	},
	genre.PackJazz: {
		models.Kick:  {FreqStart: 120, FreqEnd: 55, Sweep: 60 * time.Millisecond, Duration: 150 * time.Millisecond, ClickGain: 0.15},
		models.Snare: {HPF: 2000, NoiseGain: 0.5, BodyGain: 0.3, Duration: 160 * time.Millisecond},
		models.Hihat: {HPF: 6000, Duration: 40 * time.Millisecond, Gain: 0.3},
		models.Ohat:  {HPF: 5000, Duration: 140 * time.Millisecond, Gain: 0.3},
		models.Clap:  {BPF: 1800, Gain: 0.4},
	},
	genre.PackGospel: {
		models.Kick:  {FreqStart: 140, FreqEnd: 48, Duration: 200 * time.Millisecond},
		models.Snare: {HPF: 2300, NoiseGain: 0.75, BodyGain: 0.4},
		models.Hihat: {HPF: 6500, Duration: 50 * time.Millisecond, Gain: 0.45},
		models.Ohat:  {HPF: 5500, Duration: 150 * time.Millisecond, Gain: 0.45},
		models.Clap:  {BPF: 2200, Gain: 0.65},
	},
	genre.PackHouse: {
		models.Kick:  {FreqStart: 160, FreqEnd: 40, Sweep: 100 * time.Millisecond, Duration: 240 * time.Millisecond, ClickGain: 0.35},
		models.Snare: {HPF: 2600, NoiseGain: 0.7},
		models.Hihat: {HPF: 7500, Duration: 40 * time.Millisecond, Gain: 0.4},
		models.Ohat:  {HPF: 6000, Duration: 160 * time.Millisecond, Gain: 0.45},
		models.Clap:  {BPF: 2300, Gain: 0.7},
	},
	genre.PackRnB: {
		models.Kick:  {FreqStart: 135, FreqEnd: 48, Duration: 190 * time.Millisecond, ClickGain: 0.2},
		models.Snare: {HPF: 2200, NoiseGain: 0.65, BodyGain: 0.35},
		models.Hihat: {HPF: 6000, Duration: 45 * time.Millisecond, Gain: 0.35},
		models.Ohat:  {HPF: 5500, Duration: 140 * time.Millisecond, Gain: 0.35},
		models.Clap:  {BPF: 2100, Gain: 0.6},
	},
	genre.PackAfrobeats: {
		models.Kick:  {FreqStart: 145, FreqEnd: 44, Sweep: 75 * time.Millisecond, Duration: 200 * time.Millisecond},
		models.Snare: {HPF: 2400, NoiseGain: 0.7, BodyGain: 0.4},
		models.Hihat: {HPF: 7000, Duration: 45 * time.Millisecond, Gain: 0.45},
		models.Ohat:  {HPF: 6000, Duration: 140 * time.Millisecond, Gain: 0.45},
		models.Clap:  {BPF: 2200, Gain: 0.65},
	},
	genre.PackFunk: {
		models.Kick:  {FreqStart: 150, FreqEnd: 46, Sweep: 70 * time.Millisecond, Duration: 190 * time.Millisecond, ClickGain: 0.35},
		models.Snare: {HPF: 2500, NoiseGain: 0.8, BodyGain: 0.45},
		models.Hihat: {HPF: 7000, Duration: 48 * time.Millisecond, Gain: 0.5},
		models.Ohat:  {HPF: 6000, Duration: 145 * time.Millisecond, Gain: 0.5},
		models.Clap:  {BPF: 2300, Gain: 0.7},
	},
}

// VoiceParams returns the synthesis parameters of d in pack id, falling
// back to the generic voice for unknown packs or extended voices.
func VoiceParams(id genre.PackID, d models.DrumType) DrumParams {
	p := packVoices[id][d]
	def := voiceDefaults[d]
	return DrumParams{
		FreqStart: or(p.FreqStart, def.FreqStart),
		FreqEnd:   or(p.FreqEnd, def.FreqEnd),
		Sweep:     or(p.Sweep, def.Sweep),
		Duration:  or(p.Duration, def.Duration),
		ClickGain: or(p.ClickGain, def.ClickGain),
		HPF:       or(p.HPF, def.HPF),
		BPF:       or(p.BPF, def.BPF),
		BPFQ:      or(p.BPFQ, def.BPFQ),
		NoiseGain: or(p.NoiseGain, def.NoiseGain),
		BodyGain:  or(p.BodyGain, def.BodyGain),
		Gain:      or(p.Gain, def.Gain),
	}
}

// RoundRobin nudges p for the n-th (1-based) round-robin variant so that
// repeated hits do not sound identical.
func RoundRobin(d models.DrumType, p DrumParams, n int) DrumParams {
	k := float64(n - 1)
	switch d {
	case models.Kick:
		p.FreqStart += 5 * k
		p.FreqEnd += 2 * k
	case models.Snare:
		p.HPF += 100 * k
	case models.Hihat, models.Ohat:
		p.HPF += 200 * k
	case models.Clap:
		p.BPF += 80 * k
	}
	return p
}

// SynthesizeDrum renders one hit of d at unit velocity
func SynthesizeDrum(d models.DrumType, p DrumParams, rate beep.SampleRate, rnd func() float64) Buffer {
	switch d {
	case models.Kick:
		return synthKick(p, rate, rnd)
	case models.Snare:
		return synthSnare(p, rate, rnd)
	case models.Hihat:
		return synthHat(p, 40, rate, rnd)
	case models.Ohat:
		return synthHat(p, 10, rate, rnd)
	case models.Clap:
		return synthClap(p, rate, rnd)
	case models.Crash:
		return synthHat(p, 3, rate, rnd)
	case models.Ride:
		return synthRide(p, rate, rnd)
	case models.HighTom, models.MidTom, models.FloorTom:
		return synthTom(p, rate)
	}
	return nil
}

// sweep renders a sine gliding exponentially from start to end over
// sweepN samples and holding there, under an exponential decay.
func sweep(start, end float64, sweepN, n int, rate beep.SampleRate) Buffer {
	out := make(Buffer, n)
	var phase float64
	for i := range out {
		freq := end
		if t := float64(i) / float64(sweepN); t < 1 {
			freq = start * math.Pow(end/start, t)
		}
		out[i] = math.Sin(phase) * expDecay(i, n)
		phase += 2 * math.Pi * freq / float64(rate)
	}
	return out
}

func synthKick(p DrumParams, rate beep.SampleRate, rnd func() float64) Buffer {
	n := samplesFor(rate, p.Duration)
	out := sweep(p.FreqStart, p.FreqEnd, samplesFor(rate, p.Sweep), n, rate)

	clickN := samplesFor(rate, 10*time.Millisecond)
	click := bandPass(noise(clickN, rnd), 3500, 2, rate)
	for i := 0; i < clickN && i < n; i++ {
		out[i] += click[i] * p.ClickGain * expDecay(i, clickN)
	}
	return fadeIn(out, rate)
}

func synthSnare(p DrumParams, rate beep.SampleRate, rnd func() float64) Buffer {
	n := samplesFor(rate, p.Duration)
	out := scale(decay(highPass(noise(n, rnd), p.HPF, rate), 15, rate), p.NoiseGain)

	bodyN := samplesFor(rate, 50*time.Millisecond)
	mixInto(out, sweep(200, 130, bodyN, bodyN, rate), 0, p.BodyGain)
	return fadeIn(out, rate)
}

func synthHat(p DrumParams, decayRate float64, rate beep.SampleRate, rnd func() float64) Buffer {
	n := samplesFor(rate, p.Duration)
	out := decay(highPass(noise(n, rnd), p.HPF, rate), decayRate, rate)
	return fadeIn(scale(out, p.Gain), rate)
}

// synthRide layers a bell partial over a filtered noise wash
func synthRide(p DrumParams, rate beep.SampleRate, rnd func() float64) Buffer {
	out := synthHat(p, 6, rate, rnd)
	bell := decay(oscillate(sine, 3150, len(out), rate), 8, rate)
	mixInto(out, bell, 0, p.Gain*0.3)
	return out
}

func synthTom(p DrumParams, rate beep.SampleRate) Buffer {
	n := samplesFor(rate, p.Duration)
	out := sweep(p.FreqStart, p.FreqEnd, samplesFor(rate, p.Sweep), n, rate)
	return fadeIn(scale(out, 0.8), rate)
}

// synthClap is three band-passed noise bursts 12ms apart, the last loudest
func synthClap(p DrumParams, rate beep.SampleRate, rnd func() float64) Buffer {
	n := samplesFor(rate, p.Duration)
	out := make(Buffer, n)
	tapDelay := samplesFor(rate, 12*time.Millisecond)
	tapN := samplesFor(rate, 100*time.Millisecond)

	for i, tapGain := range []float64{0.5, 0.5, 1.0} {
		tap := decay(bandPass(noise(tapN, rnd), p.BPF, p.BPFQ, rate), 20, rate)
		mixInto(out, tap, i*tapDelay, tapGain*p.Gain)
	}
	return fadeIn(out, rate)
}
