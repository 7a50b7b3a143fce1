package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/models"
)

func TestVoiceParamsMergesPackOverDefaults(t *testing.T) {
	p := VoiceParams(genre.PackTrap, models.Kick)
	assert.Equal(t, 160.0, p.FreqStart)
	assert.Equal(t, 38.0, p.FreqEnd)
	assert.Equal(t, 250*time.Millisecond, p.Duration)
	assert.Equal(t, 0.3, p.ClickGain)

	snare := VoiceParams(genre.PackCommon, models.Snare)
	assert.Equal(t, DrumParams{HPF: 2500, Duration: 200 * time.Millisecond, NoiseGain: 0.8, BodyGain: 0.4}, snare)

	assert.Equal(t, voiceDefaults[models.Clap], VoiceParams("nope", models.Clap))
}

func TestRoundRobin(t *testing.T) {
	tests := []struct {
		drum  models.DrumType
		n     int
		check func(t *testing.T, p DrumParams)
	}{
		{models.Kick, 3, func(t *testing.T, p DrumParams) {
			assert.Equal(t, 160.0, p.FreqStart)
			assert.Equal(t, 49.0, p.FreqEnd)
		}},
		{models.Snare, 2, func(t *testing.T, p DrumParams) { assert.Equal(t, 2600.0, p.HPF) }},
		{models.Hihat, 4, func(t *testing.T, p DrumParams) { assert.Equal(t, 7600.0, p.HPF) }},
		{models.Ohat, 2, func(t *testing.T, p DrumParams) { assert.Equal(t, 6200.0, p.HPF) }},
		{models.Clap, 2, func(t *testing.T, p DrumParams) { assert.Equal(t, 2280.0, p.BPF) }},
		{models.Kick, 1, func(t *testing.T, p DrumParams) { assert.Equal(t, 150.0, p.FreqStart) }},
	}
	for _, tt := range tests {
		t.Run(string(tt.drum), func(t *testing.T) {
			tt.check(t, RoundRobin(tt.drum, VoiceParams(genre.PackCommon, tt.drum), tt.n))
		})
	}
}

func TestSynthesizeEveryVoice(t *testing.T) {
	for _, d := range models.AllDrumTypes {
		t.Run(string(d), func(t *testing.T) {
			p := VoiceParams(genre.PackCommon, d)
			buf := SynthesizeDrum(d, p, 44100, seeded(7))
			assert.Len(t, buf, samplesFor(44100, p.Duration))
			assert.Greater(t, peak(buf), 0.01)
			assert.Less(t, peak(buf), 2.0)
			assert.Equal(t, 0.0, buf[0], "fade-in starts silent")
		})
	}
}

func TestSynthesizeUnknownVoice(t *testing.T) {
	assert.Nil(t, SynthesizeDrum("cowbell", DrumParams{}, 44100, seeded(1)))
}

func TestEveryPackHasCoreVoices(t *testing.T) {
	for _, m := range genre.Packs() {
		for _, d := range models.CoreDrumTypes {
			p := VoiceParams(m.ID, d)
			assert.True(t, p.Duration > 0, "%s/%s", m.ID, d)
		}
	}
}
