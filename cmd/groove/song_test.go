package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetIndex(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		want    int
		wantErr bool
	}{
		{name: "empty picks first", label: "", want: 0},
		{name: "exact", label: "Chill Lo-Fi", want: 1},
		{name: "case-insensitive", label: "gospel soul", want: 4},
		{name: "unknown", label: "Polka Party", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := presetIndex(tt.label)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Dark Trap")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildSongPreset(t *testing.T) {
	s, err := buildSong(0, songOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Dark Trap", s.Prog.Label)
	assert.Equal(t, "preset", s.Source)
	assert.Empty(t, s.Melody)
	assert.Zero(t, s.Intensity)

	// the preset table is not modified
	s.Prog.Tempo = 1
	assert.Equal(t, 140.0, models.Presets()[0].Tempo)
}

func TestBuildSongWrapsIndex(t *testing.T) {
	s, err := buildSong(len(models.Presets())+1, songOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Chill Lo-Fi", s.Prog.Label)
}

func TestBuildSongOverrides(t *testing.T) {
	s, err := buildSong(1, songOptions{BPM: 92, MelodyStyle: "arpeggio", PatternID: "boom-bap"})
	require.NoError(t, err)
	assert.Equal(t, 92.0, s.Prog.Tempo)
	assert.Equal(t, "Boom Bap", s.Source)
	assert.NotEmpty(t, s.Melody)
	require.NotNil(t, s.Prog.Drums)
	assert.NotEmpty(t, s.Prog.Drums.Kicks)
}

func TestBuildSongRecommend(t *testing.T) {
	s, err := buildSong(0, songOptions{Recommend: true})
	require.NoError(t, err)
	assert.NotEqual(t, "preset", s.Source)
	assert.Greater(t, s.Intensity, 0.0)
	assert.LessOrEqual(t, s.Intensity, 1.0)
}

func TestBuildSongGridFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beat.txt")
	src := strings.Join([]string{
		"name: Four Floor",
		"kick:  X...|X...|X...|X...",
		"snare: ....|x...|....|x...",
		"hihat: x.x.|x.x.|x.x.|x.x.",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	s, err := buildSong(2, songOptions{GridFile: path})
	require.NoError(t, err)
	assert.Equal(t, "Four Floor", s.Source)
	assert.Len(t, s.Prog.Drums.Kicks, 4)
}

func TestBuildSongErrors(t *testing.T) {
	tests := []struct {
		name string
		opts songOptions
	}{
		{name: "unknown pattern", opts: songOptions{PatternID: "polka"}},
		{name: "unknown melody style", opts: songOptions{MelodyStyle: "yodel"}},
		{name: "missing grid file", opts: songOptions{GridFile: filepath.Join(t.TempDir(), "nope.txt")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildSong(0, tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestGridRows(t *testing.T) {
	d := models.NewDrumPattern(4)
	d.Kicks = []float64{0, 2.5}
	d.Snares = []float64{1.02, 3}

	rows := gridRows(d, 16)
	require.Contains(t, rows, models.Kick)
	require.Contains(t, rows, models.Snare)
	assert.NotContains(t, rows, models.Hihat)

	var kicks []int
	for i, on := range rows[models.Kick] {
		if on {
			kicks = append(kicks, i)
		}
	}
	assert.Equal(t, []int{0, 10}, kicks)
	// near-grid positions snap to the closest step
	assert.True(t, rows[models.Snare][4])
	assert.True(t, rows[models.Snare][12])

	assert.Empty(t, gridRows(nil, 16))
	assert.Empty(t, gridRows(d, 0))
}
