package handlers

import (
	"net/http"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReggaeton(t *testing.T) {
	drums := models.NewDrumPattern(4)
	drums.Kicks = []float64{0, 2}
	drums.Snares = []float64{1, 3}
	drums.Hihats = []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 2.25, 2.5, 2.75, 3, 3.25, 3.5, 3.75}
	drums.Claps = []float64{0.5, 2.5}

	w := doJSON(t, setupTestRouter(), http.MethodPost, "/api/v1/progressions/validate", &models.Progression{
		Chords: []string{"Am", "F", "C", "G"},
		Tempo:  95,
		Genre:  "reggaeton",
		Swing:  40,
		Drums:  drums,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[ValidateResponse](t, w)
	assert.True(t, resp.Corrected)
	assert.Equal(t, []string{
		"missing-dembow: correcting snare to canonical dembow pattern",
		"reggaeton-swing-correction: swing forced to 0",
	}, resp.Warnings)
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, resp.Progression.Drums.Snares)
	assert.Zero(t, resp.Progression.Swing)
	assert.Equal(t, []string{"Am", "F", "C", "G"}, resp.Progression.Chords)
}

func TestValidateIsIdempotent(t *testing.T) {
	router := setupTestRouter()

	drums := models.NewDrumPattern(4)
	drums.Kicks = []float64{0, 1, 2, 3}
	drums.Snares = []float64{1, 3}
	drums.Hihats = []float64{0.5}
	first := decode[ValidateResponse](t, doJSON(t, router, http.MethodPost, "/api/v1/progressions/validate", &models.Progression{
		Genre: "house",
		Swing: 30,
		Drums: drums,
	}))
	require.True(t, first.Corrected)

	second := decode[ValidateResponse](t, doJSON(t, router, http.MethodPost, "/api/v1/progressions/validate", first.Progression))
	assert.False(t, second.Corrected)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, first.Progression.Drums, second.Progression.Drums)
}

func TestValidateWithoutDrums(t *testing.T) {
	w := doJSON(t, setupTestRouter(), http.MethodPost, "/api/v1/progressions/validate", &models.Progression{
		Chords: []string{"C"},
		Genre:  "jazz",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ValidateResponse](t, w)
	assert.False(t, resp.Corrected)
	assert.Empty(t, resp.Warnings)
}

func TestHumanize(t *testing.T) {
	router := setupTestRouter()
	drums := models.NewDrumPattern(4)
	drums.Kicks = []float64{0, 1, 2, 3}
	drums.Snares = []float64{1, 3}

	seed := int64(3)
	body := HumanizeRequest{Drums: drums, Genre: "trap", Seed: &seed}

	a := doJSON(t, router, http.MethodPost, "/api/v1/progressions/humanize", body)
	b := doJSON(t, router, http.MethodPost, "/api/v1/progressions/humanize", body)
	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())

	resp := decode[struct {
		Drums   *models.DrumPattern `json:"drums"`
		Profile genre.Profile       `json:"profile"`
	}](t, a)
	assert.Equal(t, drums.Kicks, resp.Drums.Kicks)
	require.Len(t, resp.Drums.KickVels, 4)
	assert.Equal(t, genre.ProfileFor("trap"), resp.Profile)

	w := doJSON(t, router, http.MethodPost, "/api/v1/progressions/humanize", map[string]any{"genre": "trap"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
