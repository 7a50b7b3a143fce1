package recommend

import "math"

const (
	defaultIntensity = 0.7
	minIntensity     = 0.2
	maxIntensity     = 1.0
)

// SuggestIntensity proposes a drum intensity in [0.2, 1] for the features.
// Dense melodies and rich harmony pull the drums back.
func SuggestIntensity(f Features) float64 {
	base, ok := moodIntensity[f.Mood]
	if !ok {
		base = defaultIntensity
	}

	base -= f.RhythmicDensity * 0.2
	base -= f.HarmonicComplexity * 0.1

	if f.BPM > 160 || f.BPM < 80 {
		base -= 0.05
	}

	return math.Max(minIntensity, math.Min(maxIntensity, base))
}
