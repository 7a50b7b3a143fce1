package recommend

import (
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSuggestIntensity(t *testing.T) {
	tests := []struct {
		name string
		f    Features
		want float64
	}{
		{"unmapped mood", Features{BPM: 120}, 0.7},
		{"chill with rich harmony", Features{BPM: 85, Mood: "chill", HarmonicComplexity: 1}, 0.35},
		{"dense melody", Features{BPM: 120, Mood: "groovy", RhythmicDensity: 1}, 0.5},
		{"fast tempo penalty", Features{BPM: 170, Mood: "happy"}, 0.7},
		{"slow tempo penalty", Features{BPM: 70, Mood: "sad"}, 0.45},
		{"floor", Features{BPM: 60, Mood: "dreamy", RhythmicDensity: 1, HarmonicComplexity: 1}, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SuggestIntensity(tt.f), 1e-9)
		})
	}
}

func TestRecommend(t *testing.T) {
	rec := Recommend(lofiChill(), nil, 0)

	assert.Len(t, rec.Scores, DefaultTopN)
	assert.Equal(t, "lofi", rec.Features.Genre)
	assert.InDelta(t, 0.35, rec.SuggestedIntensity, 1e-9)
	for i := 1; i < len(rec.Scores); i++ {
		assert.GreaterOrEqual(t, rec.Scores[i-1].Score, rec.Scores[i].Score)
	}
}

func TestRecommendTopNLargerThanLibrary(t *testing.T) {
	rec := Recommend(&models.Progression{Genre: "house", Tempo: 124}, nil, 500)
	assert.Len(t, rec.Scores, 31)
	assert.Equal(t, "house-beat", rec.Scores[0].Pattern.ID)
}
