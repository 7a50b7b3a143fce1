// Package recommend ranks catalogue drum patterns against the musical
// features of a chord progression.
package recommend

import (
	"math"
	"regexp"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// KeyMode is major or minor
type KeyMode string

const (
	Major KeyMode = "major"
	Minor KeyMode = "minor"
)

const (
	defaultBPM  = 120
	defaultKey  = "C major"
	defaultBars = 4

	// notes per bar at which melody density saturates
	densityCeiling = 8
)

// Features are the musical properties of a progression used for scoring
type Features struct {
	BPM                float64                `json:"bpm"`
	TimeSignature      patterns.TimeSignature `json:"timeSignature"`
	Genre              string                 `json:"genre"`
	GenreConfidence    float64                `json:"genreConfidence"`
	RhythmicDensity    float64                `json:"rhythmicDensity"`
	SyncopationScore   float64                `json:"syncopationScore"`
	HarmonicComplexity float64                `json:"harmonicComplexity"`
	SwingAmount        float64                `json:"swingAmount"`
	KeyMode            KeyMode                `json:"keyMode"`
	Mood               string                 `json:"mood"`
}

var extendedChord = regexp.MustCompile(`(?i)(?:maj7|min7|m7|7|9|11|13|dim|aug|sus|add|6|\+|°|ø)`)

// Analyze extracts scoring features from a progression and an optional melody
func Analyze(prog *models.Progression, melody []models.MelodyNote) Features {
	f := Features{
		BPM:           prog.Tempo,
		TimeSignature: patterns.TimeSignature{Numerator: 4, Denominator: 4},
		Genre:         strings.ToLower(strings.TrimSpace(prog.Genre)),
		Mood:          strings.ToLower(strings.TrimSpace(prog.Mood)),
		SwingAmount:   prog.Swing,
	}
	if f.BPM == 0 {
		f.BPM = defaultBPM
	}

	key := prog.Key
	if key == "" {
		key = defaultKey
	}
	f.KeyMode = parseKeyMode(key)

	f.GenreConfidence = 0.1
	if f.Genre != "" {
		f.GenreConfidence = 0.9
	}

	if len(prog.Chords) > 0 {
		extended := 0
		for _, c := range prog.Chords {
			if extendedChord.MatchString(c) {
				extended++
			}
		}
		f.HarmonicComplexity = float64(extended) / float64(len(prog.Chords))
	}

	if len(melody) > 0 {
		bars := prog.Bars
		if bars == 0 {
			bars = len(prog.Chords)
		}
		if bars == 0 {
			bars = defaultBars
		}
		perBar := float64(len(melody)) / float64(bars)
		f.RhythmicDensity = math.Min(1, perBar/densityCeiling)

		offBeat := 0
		for _, n := range melody {
			if isOffBeat(n.BeatOffset) {
				offBeat++
			}
		}
		f.SyncopationScore = float64(offBeat) / float64(len(melody))
	}

	return f
}

// isOffBeat reports whether a beat offset sits away from a quarter-note boundary
func isOffBeat(beat float64) bool {
	rem := math.Mod(beat, 1)
	return rem > 0.1 && rem < 0.9
}

func parseKeyMode(key string) KeyMode {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "min") || strings.HasSuffix(lower, "m") {
		return Minor
	}
	return Major
}
