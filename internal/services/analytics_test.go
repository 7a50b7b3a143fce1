package services

import (
	"context"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/drums/recommend"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecommendationLog(t *testing.T) {
	prog := &models.Progression{
		Chords: []string{"Am7", "Dm7", "G7", "Cmaj7"},
		Tempo:  85,
		Genre:  "Lofi",
		Mood:   "chill",
	}
	melody := []models.MelodyNote{{Bar: 0, MIDI: 69, DurationBeats: 1}}
	rec := recommend.Recommend(prog, melody, 3)
	require.NotEmpty(t, rec.Scores)

	entry := NewRecommendationLog(RequestInfo{RequestID: "req-1", UserID: "u-1"}, prog, melody, rec)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "u-1", entry.UserID)
	assert.Equal(t, "lofi", entry.Genre)
	assert.Equal(t, 85.0, entry.Tempo)
	assert.Equal(t, 4, entry.ChordCount)
	assert.Equal(t, 1, entry.MelodyNotes)
	assert.Equal(t, rec.Scores[0].Pattern.ID, entry.TopPatternID)
	assert.Equal(t, rec.Scores[0].Score, entry.TopScore)
	assert.Equal(t, rec.SuggestedIntensity, entry.SuggestedIntensity)
}

func TestNewRecommendationLogWithoutScores(t *testing.T) {
	entry := NewRecommendationLog(RequestInfo{}, &models.Progression{}, nil, recommend.Recommendation{})
	assert.Empty(t, entry.TopPatternID)
	assert.Zero(t, entry.TopScore)
}

func TestNewValidationLog(t *testing.T) {
	entry := NewValidationLog(RequestInfo{RequestID: "r"}, " Reggaeton ", []string{"a", "b"})
	assert.Equal(t, "reggaeton", entry.Genre)
	assert.Equal(t, 2, entry.WarningCount)
	assert.Equal(t, "a\nb", entry.Warnings)
}

func TestDisabledServiceIsNoop(t *testing.T) {
	s := NewAnalyticsService(nil)
	ctx := context.Background()

	assert.False(t, s.Enabled())
	assert.NoError(t, s.LogRecommendation(ctx, &models.RecommendationLog{}))
	assert.NoError(t, s.LogValidation(ctx, &models.ValidationLog{}))

	genres, err := s.TopGenres(ctx, 5)
	assert.NoError(t, err)
	assert.Nil(t, genres)

	assert.NotPanics(t, func() {
		s.RecordRecommendation(&models.RecommendationLog{})
		s.RecordValidation(&models.ValidationLog{})
	})
}
