package recommend

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
)

// Sub-score weights. They sum to 100.
const (
	weightGenre   = 25
	weightBPM     = 20
	weightTimeSig = 20
	weightDensity = 15
	weightSwing   = 10
	weightMood    = 10

	bpmFalloff     = 40 // BPM distance at which the tempo score reaches zero
	swingThreshold = 30
)

// Breakdown holds the six weighted sub-scores
type Breakdown struct {
	Genre   float64 `json:"genre"`
	BPM     float64 `json:"bpm"`
	TimeSig float64 `json:"timeSig"`
	Density float64 `json:"density"`
	Swing   float64 `json:"swing"`
	Mood    float64 `json:"mood"`
}

// Total is the unrounded sum of all sub-scores
func (b Breakdown) Total() float64 {
	return b.Genre + b.BPM + b.TimeSig + b.Density + b.Swing + b.Mood
}

// PatternScore is one ranked pattern
type PatternScore struct {
	Pattern   *patterns.StepGridPattern `json:"pattern"`
	Score     int                       `json:"score"`
	Reasoning string                    `json:"reasoning"`
	Breakdown Breakdown                 `json:"breakdown"`
}

// ScorePatterns scores every pattern against f and returns them best first.
// Equal scores keep their input order.
func ScorePatterns(pats []*patterns.StepGridPattern, f Features) []PatternScore {
	out := make([]PatternScore, 0, len(pats))
	for _, p := range pats {
		b := Breakdown{
			Genre:   scoreGenre(p, f),
			BPM:     scoreBPM(p, f),
			TimeSig: scoreTimeSig(p, f),
			Density: scoreDensity(p, f),
			Swing:   scoreSwing(p, f),
			Mood:    scoreMood(p, f),
		}
		out = append(out, PatternScore{
			Pattern:   p,
			Score:     int(math.Round(b.Total())),
			Reasoning: reasoning(p, b, f),
			Breakdown: b,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func lowerTags(p *patterns.StepGridPattern) []string {
	tags := make([]string, len(p.GenreTags))
	for i, t := range p.GenreTags {
		tags[i] = strings.ToLower(t)
	}
	return tags
}

func scoreGenre(p *patterns.StepGridPattern, f Features) float64 {
	if f.Genre == "" {
		return 5
	}

	tags := lowerTags(p)
	if slices.Contains(tags, f.Genre) {
		return weightGenre * f.GenreConfidence
	}

	for _, tag := range tags {
		if related(f.Genre, tag) {
			return 15 * f.GenreConfidence
		}
		if related(tag, f.Genre) {
			return 12 * f.GenreConfidence
		}
	}
	return 2
}

func scoreBPM(p *patterns.StepGridPattern, f Features) float64 {
	lo, hi := p.BPMRange[0], p.BPMRange[1]
	if f.BPM >= lo && f.BPM <= hi {
		return weightBPM
	}

	distance := f.BPM - hi
	if f.BPM < lo {
		distance = lo - f.BPM
	}
	return weightBPM * math.Max(0, 1-distance/bpmFalloff)
}

func scoreTimeSig(p *patterns.StepGridPattern, f Features) float64 {
	if p.TimeSignature == f.TimeSignature {
		return weightTimeSig
	}
	return 0
}

// scoreDensity rewards patterns whose busyness complements the melody
func scoreDensity(p *patterns.StepGridPattern, f Features) float64 {
	if f.RhythmicDensity == 0 {
		return weightDensity * 0.7
	}
	complement := 1 - math.Abs(f.RhythmicDensity-(1-p.Density()))
	return weightDensity * complement
}

func scoreSwing(p *patterns.StepGridPattern, f Features) float64 {
	wantsSwing := f.SwingAmount > swingThreshold
	switch {
	case wantsSwing && p.SwingCapable:
		return weightSwing
	case !wantsSwing && !p.SwingCapable:
		return weightSwing * 0.8
	case wantsSwing && !p.SwingCapable:
		return weightSwing * 0.3
	default:
		return weightSwing * 0.7
	}
}

func scoreMood(p *patterns.StepGridPattern, f Features) float64 {
	if f.Mood == "" {
		return weightMood * 0.5
	}
	genres := genresForMood(f.Mood)
	if len(genres) == 0 {
		return weightMood * 0.5
	}

	for _, tag := range lowerTags(p) {
		if slices.Contains(genres, tag) {
			return weightMood
		}
		for _, g := range genres {
			if related(tag, g) {
				return weightMood * 0.7
			}
		}
	}
	return weightMood * 0.2
}

func reasoning(p *patterns.StepGridPattern, b Breakdown, f Features) string {
	var parts []string

	switch {
	case b.Genre >= 20:
		parts = append(parts, fmt.Sprintf("Strong %s genre match", f.Genre))
	case b.Genre >= 12:
		parts = append(parts, fmt.Sprintf("Related genre to %s", f.Genre))
	}

	bpm := formatBPM(f.BPM)
	switch {
	case b.BPM >= 18:
		parts = append(parts, fmt.Sprintf("BPM %s is within range", bpm))
	case b.BPM >= 10:
		parts = append(parts, fmt.Sprintf("BPM %s is close to range", bpm))
	case b.BPM > 0:
		parts = append(parts, fmt.Sprintf("BPM %s is outside ideal range", bpm))
	}

	if b.TimeSig == 0 {
		parts = append(parts, "Time signature mismatch")
	}
	if b.Mood >= 8 {
		parts = append(parts, fmt.Sprintf("Fits %s mood", f.Mood))
	}
	if p.SwingCapable && f.SwingAmount > swingThreshold {
		parts = append(parts, "Swing-compatible")
	}

	if len(parts) == 0 {
		return p.Name
	}
	return strings.Join(parts, ". ")
}

func formatBPM(bpm float64) string {
	if bpm == math.Trunc(bpm) {
		return fmt.Sprintf("%d", int(bpm))
	}
	return fmt.Sprintf("%g", bpm)
}
