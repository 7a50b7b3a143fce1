package theory

import (
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceLead(t *testing.T) {
	assert.Equal(t, 67, VoiceLead(72, []int{60, 64, 67}))
	assert.Equal(t, 64, VoiceLead(64, []int{60, 64}))
	// nothing within a fifth
	assert.Equal(t, 60, VoiceLead(50, []int{60, 64, 67}))
}

func TestGenerateMelodySimple(t *testing.T) {
	notes := GenerateMelody([]string{"C", "Am"}, StyleSimple)
	require.Len(t, notes, 8)

	for i, n := range notes[:4] {
		assert.Equal(t, models.MelodyNote{Bar: 0, BeatOffset: float64(i), MIDI: 67, DurationBeats: 0.9}, n)
	}
	for _, n := range notes[4:] {
		assert.Equal(t, 1, n.Bar)
		assert.Equal(t, 69, n.MIDI)
	}
}

func TestGenerateMelodyArpeggio(t *testing.T) {
	notes := GenerateMelody([]string{"Cmaj7"}, StyleArpeggio)
	require.Len(t, notes, 8)

	var pitches []int
	for i, n := range notes {
		assert.Equal(t, float64(i)*0.5, n.BeatOffset)
		assert.Equal(t, 0.45, n.DurationBeats)
		pitches = append(pitches, n.MIDI)
	}
	assert.Equal(t, []int{60, 64, 67, 71, 64, 67, 60, 64}, pitches)
}

func TestGenerateMelodyShapes(t *testing.T) {
	tests := []struct {
		style   Style
		perBar  int
		lastDur float64
	}{
		{StyleAmbient, 1, 4},
		{StyleLead, 4, 1},
		{StyleRhythmic, 6, 0.22},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			notes := GenerateMelody([]string{"Dm7", "G7"}, tt.style)
			require.Len(t, notes, 2*tt.perBar)
			assert.Equal(t, tt.lastDur, notes[len(notes)-1].DurationBeats)
			for _, n := range notes {
				assert.GreaterOrEqual(t, n.MIDI, 60)
				assert.LessOrEqual(t, n.MIDI, 84)
				assert.Less(t, n.BeatOffset, 4.0)
			}
		})
	}

	ambient := GenerateMelody([]string{"Dm7", "G7"}, StyleAmbient)
	assert.Equal(t, 62, ambient[0].MIDI)
	assert.Equal(t, 67, ambient[1].MIDI)
}

func TestParseStyle(t *testing.T) {
	s, err := ParseStyle("lead")
	assert.NoError(t, err)
	assert.Equal(t, StyleLead, s)

	_, err = ParseStyle("bebop")
	assert.Error(t, err)
}

func TestGenerateMelodyEmpty(t *testing.T) {
	assert.Empty(t, GenerateMelody(nil, StyleSimple))
}
