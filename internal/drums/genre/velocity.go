package genre

import (
	"math"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

const (
	velocityJitter = 0.04
	minVelocity    = 0.05
	maxVelocity    = 1.0
)

// Profile is a repeating accent shape per voice family. Open hats share
// the hat shape.
type Profile struct {
	Kick  []float64 `json:"kick"`
	Snare []float64 `json:"snare"`
	Hat   []float64 `json:"hat"`
	Clap  []float64 `json:"clap"`
}

// DefaultProfile is used for genres without their own profile
const DefaultProfile = "default"

var profiles = map[string]Profile{
	"trap": {
		Kick:  []float64{1.0, 0.55, 0.7, 0.85, 0.6},
		Snare: []float64{0.95, 0.9},
		Hat:   []float64{0.85, 0.4, 0.7, 0.4, 0.9, 0.35, 0.7, 0.4},
		Clap:  []float64{0.85, 0.9},
	},
	"boomBap": {
		Kick:  []float64{0.95, 0.65, 0.8, 0.7},
		Snare: []float64{0.9, 0.85},
		Hat:   []float64{0.75, 0.5, 0.8, 0.45, 0.7, 0.5, 0.75, 0.4},
		Clap:  []float64{0.7, 0.75},
	},
	"drill": {
		Kick:  []float64{1.0, 0.7, 0.8, 0.65, 0.75},
		Snare: []float64{0.95, 0.95},
		Hat:   []float64{0.8, 0.35, 0.7, 0.35, 0.85, 0.3, 0.7, 0.35},
		Clap:  []float64{0.9, 0.95},
	},
	"lofi": {
		Kick:  []float64{0.72, 0.62},
		Snare: []float64{0.62, 0.68},
		Hat:   []float64{0.55, 0.3, 0.5, 0.3, 0.6, 0.28, 0.52, 0.35},
		Clap:  []float64{0.58, 0.62},
	},
	"hiphop": {
		Kick:  []float64{0.9, 0.65, 0.75, 0.7},
		Snare: []float64{0.88, 0.85},
		Hat:   []float64{0.75, 0.45, 0.7, 0.45, 0.8, 0.4, 0.7, 0.45},
		Clap:  []float64{0.75, 0.8},
	},
	"rnb": {
		Kick:  []float64{0.9, 0.6, 0.75, 0.65},
		Snare: []float64{0.88, 0.9},
		Hat:   []float64{0.7, 0.4, 0.65, 0.4, 0.75, 0.35, 0.65, 0.45},
		Clap:  []float64{0.82, 0.85},
	},
	"afrobeats": {
		Kick:  []float64{0.95, 0.65, 0.8, 0.7},
		Snare: []float64{0.85, 0.8},
		Hat:   []float64{0.8, 0.5, 0.75, 0.45, 0.8, 0.5, 0.7, 0.55},
		Clap:  []float64{0.75, 0.7},
	},
	"amapiano": {
		Kick:  []float64{0.9, 0.6, 0.75},
		Snare: []float64{0.8, 0.78},
		Hat:   []float64{0.7, 0.4, 0.65, 0.4, 0.75, 0.35, 0.65, 0.4},
		Clap:  []float64{0.7, 0.72},
	},
	"gospel": {
		Kick:  []float64{0.95, 0.7, 0.8},
		Snare: []float64{0.9, 0.92},
		Hat:   []float64{0.72, 0.45, 0.68, 0.4, 0.75, 0.42, 0.7, 0.48},
		Clap:  []float64{0.9, 0.92},
	},
	"jazz": {
		Kick:  []float64{0.55, 0.45, 0.5},
		Snare: []float64{0.45, 0.4},
		Hat:   []float64{0.55, 0.3, 0.5, 0.28, 0.55, 0.3, 0.48, 0.28},
		Clap:  []float64{0.45, 0.45},
	},
	"house": {
		Kick:  []float64{1.0, 1.0, 1.0, 1.0},
		Snare: []float64{0.9, 0.9},
		Hat:   []float64{0.75, 0.55, 0.75, 0.55, 0.8, 0.55, 0.75, 0.55},
		Clap:  []float64{0.85, 0.9},
	},
	"soul": {
		Kick:  []float64{0.88, 0.65, 0.75},
		Snare: []float64{0.85, 0.88},
		Hat:   []float64{0.7, 0.42, 0.66, 0.38, 0.72, 0.4, 0.65, 0.45},
		Clap:  []float64{0.82, 0.85},
	},
	"reggaeton": {
		Kick:  []float64{1.0, 0.6, 0.85, 0.6, 0.8, 0.65},
		Snare: []float64{0.9, 0.95, 0.9, 0.95},
		Hat: []float64{
			0.7, 0.4, 0.65, 0.4, 0.75, 0.4, 0.65, 0.4,
			0.7, 0.4, 0.65, 0.4, 0.75, 0.4, 0.65, 0.4,
		},
		Clap: []float64{0.85, 0.88},
	},
	"dancehall": {
		Kick:  []float64{0.95, 0.7, 0.8},
		Snare: []float64{0.88, 0.85},
		Hat:   []float64{0.75, 0.45, 0.7, 0.4, 0.78, 0.42, 0.68, 0.45},
		Clap:  []float64{0.8, 0.82},
	},
	"funk": {
		Kick:  []float64{1.0, 0.65, 0.75, 0.6, 0.7},
		Snare: []float64{0.9, 0.92},
		Hat:   []float64{0.8, 0.5, 0.75, 0.45, 0.82, 0.5, 0.7, 0.48},
		Clap:  []float64{0.85, 0.88},
	},
	DefaultProfile: {
		Kick:  []float64{0.9, 0.65, 0.75},
		Snare: []float64{0.9, 0.85},
		Hat:   []float64{0.75, 0.4, 0.7, 0.4, 0.8, 0.38, 0.7, 0.42},
		Clap:  []float64{0.8, 0.82},
	},
}

var profileIndex = func() map[string]Profile {
	out := make(map[string]Profile, len(profiles))
	for k, p := range profiles {
		out[strings.ToLower(k)] = p
	}
	return out
}()

// ProfileFor returns the velocity profile of genre, or the default one.
// Lookup ignores case.
func ProfileFor(genre string) Profile {
	if p, ok := profileIndex[strings.ToLower(strings.TrimSpace(genre))]; ok {
		return p
	}
	return profiles[DefaultProfile]
}

func (p Profile) shape(d models.DrumType) []float64 {
	switch d {
	case models.Kick:
		return p.Kick
	case models.Snare:
		return p.Snare
	case models.Hihat, models.Ohat:
		return p.Hat
	case models.Clap:
		return p.Clap
	}
	return nil
}

// HumanizeVelocities returns a copy of drums whose core voices carry the
// genre's accent profile, cycled over the hits and jittered by up to
// ±0.04. Extended voices keep their velocities. rnd returns values in
// [0, 1).
func HumanizeVelocities(drums *models.DrumPattern, genre string, rnd func() float64) *models.DrumPattern {
	if drums == nil {
		return nil
	}
	p := ProfileFor(genre)
	out := drums.Clone()

	for _, d := range models.CoreDrumTypes {
		pos, _ := out.Track(d)
		shape := p.shape(d)
		vels := make([]float64, len(pos))
		for i := range pos {
			v := shape[i%len(shape)] + rnd()*2*velocityJitter - velocityJitter
			vels[i] = math.Min(maxVelocity, math.Max(minVelocity, v))
		}
		out.SetTrack(d, pos, vels)
	}
	return out
}
