package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestGenerateMelody(t *testing.T) {
	router := setupTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/melody", MelodyRequest{
		Chords: []string{"Am", "F", "C", "G"},
		Key:    "A minor",
		Style:  "arpeggio",
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Style  string              `json:"style"`
		Scale  []int               `json:"scale"`
		Melody []models.MelodyNote `json:"melody"`
	}](t, w)
	assert.Equal(t, "arpeggio", resp.Style)
	assert.Equal(t, []int{9, 11, 0, 2, 4, 5, 7}, resp.Scale)
	require.NotEmpty(t, resp.Melody)
	for _, n := range resp.Melody {
		assert.GreaterOrEqual(t, n.Bar, 0)
		assert.Less(t, n.Bar, 4)
	}

	tests := []struct {
		name string
		body any
	}{
		{name: "unknown style", body: MelodyRequest{Chords: []string{"C"}, Style: "polka"}},
		{name: "no chords", body: MelodyRequest{Chords: []string{}}},
		{name: "missing chords", body: map[string]any{"style": "lead"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodPost, "/api/v1/melody", tt.body).Code)
		})
	}
}

func TestDetectGenre(t *testing.T) {
	router := setupTestRouter()

	tests := []struct {
		text string
		want string
	}{
		{text: "dark+latin+trap+vibes", want: `{"detected":true,"genre":"reggaeton","pack":"trap"}`},
		{text: "smooth+jazz", want: `{"detected":true,"genre":"jazz","pack":"jazz"}`},
		{text: "polka", want: `{"detected":false,"genre":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			w := doJSON(t, router, http.MethodGet, "/api/v1/genres/detect?text="+tt.text, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/genres/detect", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPacks(t *testing.T) {
	w := doJSON(t, setupTestRouter(), http.MethodGet, "/api/v1/packs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"boom_bap"`)
}

func TestExportMIDI(t *testing.T) {
	router := setupTestRouter()
	trap, ok := models.Preset("Dark Trap")
	require.True(t, ok)

	for _, part := range []string{"chords", "bass", "drums", "all"} {
		t.Run(part, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/v1/export/midi/"+part, trap)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, contentTypeMIDI, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), "groove-"+part+".mid")

			file, err := smf.ReadFrom(bytes.NewReader(w.Body.Bytes()))
			require.NoError(t, err)
			assert.NotEmpty(t, file.Tracks)
		})
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/export/midi/vocals", trap)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/export/midi/drums", &models.Progression{Chords: []string{"C"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRender(t *testing.T) {
	router := setupTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/render", RenderRequest{
		Progression: &models.Progression{
			Chords: []string{"Am"},
			Tempo:  240,
			Genre:  "trap",
			Drums:  &models.DrumPattern{PatternLengthBeats: 4, Kicks: []float64{0}},
		},
		Pack:   "auto",
		TailMs: 100,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, contentTypeWAV, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("RIFF")))
	// one bar at 240 bpm plus the tail, 16-bit stereo
	assert.Greater(t, w.Body.Len(), 44100*4)
}

func TestRenderRejectsBadInput(t *testing.T) {
	router := setupTestRouter()
	prog := &models.Progression{Chords: []string{"C"}}

	tests := []struct {
		name string
		req  any
	}{
		{name: "no chords", req: RenderRequest{Progression: &models.Progression{}}},
		{name: "too many loops", req: RenderRequest{Progression: prog, Loops: 99}},
		{name: "tail too long", req: RenderRequest{Progression: prog, TailMs: 60000}},
		{name: "unknown instrument", req: RenderRequest{Progression: prog, Instrument: "kazoo"}},
		{name: "unknown pack", req: RenderRequest{Progression: prog, Pack: "dubstep"}},
		{name: "no progression", req: map[string]any{"loops": 1}},
		{name: "audio too long", req: RenderRequest{
			Progression: &models.Progression{Chords: []string{"C", "F", "G", "C"}, Tempo: 1},
			Loops:       16,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, doJSON(t, router, http.MethodPost, "/api/v1/render", tt.req).Code)
		})
	}
}
