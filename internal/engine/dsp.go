package engine

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Buffer is a mono block of samples in [-1, 1]
type Buffer []float64

func samplesFor(rate beep.SampleRate, d time.Duration) int {
	return int(math.Ceil(d.Seconds() * float64(rate)))
}

func noise(n int, rnd func() float64) Buffer {
	out := make(Buffer, n)
	for i := range out {
		out[i] = rnd()*2 - 1
	}
	return out
}

// expDecay falls from 1 to e^-5 over total samples
func expDecay(i, total int) float64 {
	return math.Exp(-5 * float64(i) / float64(total))
}

// highPass is a one-pole high-pass filter
func highPass(in Buffer, cutoff float64, rate beep.SampleRate) Buffer {
	out := make(Buffer, len(in))
	if len(in) == 0 {
		return out
	}
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / float64(rate)
	alpha := rc / (rc + dt)

	out[0] = in[0]
	for i := 1; i < len(in); i++ {
		out[i] = alpha * (out[i-1] + in[i] - in[i-1])
	}
	return out
}

// lowPass is a one-pole low-pass filter
func lowPass(in Buffer, cutoff float64, rate beep.SampleRate) Buffer {
	out := make(Buffer, len(in))
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * cutoff)
	alpha := dt / (rc + dt)

	var y float64
	for i, x := range in {
		y += alpha * (x - y)
		out[i] = y
	}
	return out
}

// bandPass is an RBJ biquad band-pass with constant peak gain
func bandPass(in Buffer, center, q float64, rate beep.SampleRate) Buffer {
	w0 := 2 * math.Pi * center / float64(rate)
	alpha := math.Sin(w0) / (2 * q)
	b0, b2 := alpha, -alpha
	a0, a1, a2 := 1+alpha, -2*math.Cos(w0), 1-alpha

	out := make(Buffer, len(in))
	var x1, x2, y1, y2 float64
	for i, x0 := range in {
		y := (b0*x0 + b2*x2 - a1*y1 - a2*y2) / a0
		out[i] = y
		x2, x1 = x1, x0
		y2, y1 = y1, y
	}
	return out
}

// decay multiplies by e^(-rate*t)
func decay(in Buffer, perSecond float64, rate beep.SampleRate) Buffer {
	for i := range in {
		in[i] *= math.Exp(-perSecond * float64(i) / float64(rate))
	}
	return in
}

// fadeIn ramps the first couple of milliseconds to avoid clicks
func fadeIn(in Buffer, rate beep.SampleRate) Buffer {
	n := rate.N(2 * time.Millisecond)
	for i := 0; i < n && i < len(in); i++ {
		in[i] *= float64(i) / float64(n)
	}
	return in
}

func scale(in Buffer, g float64) Buffer {
	for i := range in {
		in[i] *= g
	}
	return in
}

// mixInto adds src*gain into dst starting at offset, growing nothing
func mixInto(dst, src Buffer, offset int, gain float64) {
	for i, v := range src {
		j := i + offset
		if j >= len(dst) {
			return
		}
		dst[j] += v * gain
	}
}

type waveform int

const (
	sine waveform = iota
	triangle
	sawtooth
)

func (w waveform) at(phase float64) float64 {
	switch w {
	case triangle:
		return 1 - 4*math.Abs(phase-0.5)
	case sawtooth:
		return 2 * (phase - 0.5)
	}
	return math.Sin(2 * math.Pi * phase)
}

// oscillate renders n samples of a fixed-frequency waveform
func oscillate(w waveform, freq float64, n int, rate beep.SampleRate) Buffer {
	out := make(Buffer, n)
	var phase float64
	step := freq / float64(rate)
	for i := range out {
		out[i] = w.at(phase)
		phase += step
		phase -= math.Floor(phase)
	}
	return out
}

// cents converts a detune in cents to a frequency ratio
func cents(c float64) float64 {
	return math.Pow(2, c/1200)
}
