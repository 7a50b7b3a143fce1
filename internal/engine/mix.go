package engine

import (
	"math"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// MixState holds the user-facing mix controls
type MixState struct {
	DrumIntensity  float64 `json:"drumIntensity"`  // 0..1
	MelodyPriority bool    `json:"melodyPriority"` // scoop the drum mids under a melody
	AutoMix        bool    `json:"autoMix"`        // follow the suggested intensity
	DrumBusVolume  float64 `json:"drumBusVolume"`
	HatStereoWidth float64 `json:"hatStereoWidth"` // 0..1
}

// DefaultMix returns the initial mix
func DefaultMix() MixState {
	return MixState{
		DrumIntensity:  0.7,
		MelodyPriority: true,
		AutoMix:        true,
		DrumBusVolume:  0.6,
		HatStereoWidth: 0.25,
	}
}

const (
	referenceBusVolume = 0.6
	maxHatPan          = 1.6 // pan at full width
	midScoopDB         = -4
)

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// DrumBusGain is the linear gain of the drum bus
func (m MixState) DrumBusGain() float64 {
	return clamp((0.25+m.DrumIntensity*0.35)*(m.DrumBusVolume/referenceBusVolume), 0, 1)
}

// CompressorTimes returns the drum bus compressor attack and release in
// seconds. Softer settings get slower, gentler compression.
func (m MixState) CompressorTimes() (attack, release float64) {
	soft := 1 - clamp(m.DrumIntensity, 0, 1)
	return 0.003 + soft*0.012, 0.06 + soft*0.06
}

// HatPan returns the stereo position of the closed and open hats
func (m MixState) HatPan() (hihat, ohat float64) {
	p := clamp(m.HatStereoWidth, 0, 1) * maxHatPan
	return p, -p
}

// voiceGain is the extra per-voice gain the mix applies. Snare and clap
// sit in the melody's range and are scooped when it has priority.
func (m MixState) voiceGain(d models.DrumType) float64 {
	if m.MelodyPriority && (d == models.Snare || d == models.Clap) {
		return math.Pow(10, midScoopDB/20.0)
	}
	return 1
}

// compressor is a feed-forward peak compressor on the drum bus
type compressor struct {
	threshold float64 // linear
	ratio     float64
	attack    float64 // per-sample smoothing coefficients
	release   float64
	env       float64
}

func newCompressor(m MixState, rate float64) *compressor {
	c := &compressor{threshold: math.Pow(10, -18/20.0), ratio: 4}
	c.configure(m, rate)
	return c
}

func (c *compressor) configure(m MixState, rate float64) {
	attack, release := m.CompressorTimes()
	c.attack = math.Exp(-1 / (attack * rate))
	c.release = math.Exp(-1 / (release * rate))
}

// gain tracks the level of x and returns the gain to apply to it
func (c *compressor) gain(x float64) float64 {
	level := math.Abs(x)
	coef := c.release
	if level > c.env {
		coef = c.attack
	}
	c.env = coef*c.env + (1-coef)*level
	if c.env <= c.threshold {
		return 1
	}
	over := c.env / c.threshold
	return math.Pow(over, 1/c.ratio-1)
}
