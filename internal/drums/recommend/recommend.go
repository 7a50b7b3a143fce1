package recommend

import (
	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// DefaultTopN is the number of scores returned when the caller asks for none
const DefaultTopN = 3

// Recommendation is the result of ranking the library for one progression
type Recommendation struct {
	Scores             []PatternScore `json:"scores"`
	SuggestedIntensity float64        `json:"suggestedIntensity"`
	Features           Features       `json:"features"`
}

// Recommend analyzes prog (and melody, if any), ranks the whole pattern
// library and returns the best topN together with a suggested intensity.
func Recommend(prog *models.Progression, melody []models.MelodyNote, topN int) Recommendation {
	if topN <= 0 {
		topN = DefaultTopN
	}

	f := Analyze(prog, melody)
	scores := ScorePatterns(patterns.Library(), f)
	if len(scores) > topN {
		scores = scores[:topN]
	}

	return Recommendation{
		Scores:             scores,
		SuggestedIntensity: SuggestIntensity(f),
		Features:           f,
	}
}
