package coherence

import (
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sixteenths() []float64 {
	return append([]float64(nil), straightSixteen...)
}

func groove(kicks, snares, hihats, claps []float64) *models.DrumPattern {
	d := models.NewDrumPattern(4)
	d.Kicks, d.Snares, d.Hihats, d.Claps = kicks, snares, hihats, claps
	return d
}

func TestValidateWithoutDrums(t *testing.T) {
	res := Validate(&models.Progression{Genre: "house", Swing: 40})
	assert.Empty(t, res.Warnings)
	assert.Nil(t, res.Drums)
	assert.Equal(t, 40.0, res.Swing)
}

func TestHouseFourOnFloorIsIdempotent(t *testing.T) {
	prog := &models.Progression{
		Genre: "House",
		Drums: groove([]float64{0, 1, 1.5}, []float64{1, 3}, []float64{0.5, 1.5}, []float64{1, 3}),
	}

	first := Validate(prog)
	assert.Equal(t, []string{"missing-four-on-floor: correcting kick"}, first.Warnings)
	assert.Equal(t, []float64{0, 1, 2, 3}, first.Drums.Kicks)
	assert.Equal(t, []float64{1, 1, 1, 1}, first.Drums.KickVels)

	// input untouched
	assert.Equal(t, []float64{0, 1, 1.5}, prog.Drums.Kicks)

	prog.Drums = first.Drums
	second := Validate(prog)
	assert.Empty(t, second.Warnings)
	assert.Equal(t, first.Drums, second.Drums)
}

func TestHouseAddsClapsAndCapsSwing(t *testing.T) {
	prog := &models.Progression{
		Genre: "house",
		Swing: 30,
		Drums: groove([]float64{0, 1, 2, 3}, []float64{1, 3}, []float64{0.5}, []float64{}),
	}

	res := Validate(prog)
	assert.Equal(t, []string{
		"house-swing-correction: swing capped at 10",
		"house-claps: adding default clap pattern",
	}, res.Warnings)
	assert.Equal(t, 10.0, res.Swing)
	assert.Equal(t, []float64{1, 3}, res.Drums.Claps)
	assert.Equal(t, 30.0, prog.Swing)
}

func TestReggaetonDembow(t *testing.T) {
	prog := &models.Progression{
		Genre: "reggaeton",
		Swing: 40,
		Drums: groove([]float64{0, 2}, []float64{1, 3}, sixteenths(), []float64{0.5, 2.5}),
	}

	res := Validate(prog)
	assert.Equal(t, []string{
		"missing-dembow: correcting snare to canonical dembow pattern",
		"reggaeton-swing-correction: swing forced to 0",
	}, res.Warnings)
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, res.Drums.Snares)
	assert.Len(t, res.Drums.SnareVels, 4)
	assert.Zero(t, res.Swing)
}

func TestReggaetonFillsHatsAndClaps(t *testing.T) {
	prog := &models.Progression{
		Genre: "reggaeton",
		Drums: groove([]float64{0}, []float64{0.5, 1.55, 2.5, 3.4}, []float64{0, 1, 2, 3}, nil),
	}

	res := Validate(prog)
	assert.Equal(t, []string{
		"reggaeton-hats: filling to straight 16ths",
		"reggaeton-claps: adding default clap pattern",
	}, res.Warnings)
	assert.Equal(t, straightSixteen, res.Drums.Hihats)
	assert.Equal(t, []float64{0.5, 2.5}, res.Drums.Claps)
}

// Thinning and the reggaeton hat fill undo each other, so repeated Apply
// calls alternate between 8 and 16 hats instead of settling.
func TestReggaetonComplexChordsAlternate(t *testing.T) {
	prog := &models.Progression{
		Genre:  "reggaeton",
		Chords: []string{"Cmaj9", "Dm11", "G7alt", "C"},
		Drums:  groove([]float64{0}, []float64{0.5, 1.55, 2.5, 3.4}, sixteenths(), []float64{0.5, 2.5}),
	}

	for pass, want := range []struct {
		hats    int
		warning string
	}{
		{hats: 8, warning: "complexity-overload: 3 complex chords + 16 hats, thinning hats"},
		{hats: 16, warning: "reggaeton-hats: filling to straight 16ths"},
		{hats: 8, warning: "complexity-overload: 3 complex chords + 16 hats, thinning hats"},
	} {
		warnings := Apply(prog)
		require.Equal(t, []string{want.warning}, warnings, "pass %d", pass)
		assert.Len(t, prog.Drums.Hihats, want.hats, "pass %d", pass)
	}
}

func TestDrillRemovesBeatThreeKick(t *testing.T) {
	d := groove([]float64{0.5, 2.05, 3}, []float64{1, 3}, []float64{0, 1}, []float64{1, 3})
	d.KickVels = []float64{0.8, 0.7, 0.6}
	prog := &models.Progression{Genre: "drill", Drums: d}

	res := Validate(prog)
	assert.Equal(t, []string{
		"no-beat0-kick: injecting downbeat anchor",
		"drill-beat3-kick: removing kick from beat 3",
	}, res.Warnings)
	assert.Equal(t, []float64{0, 0.5, 3}, res.Drums.Kicks)
	assert.Equal(t, []float64{1, 0.8, 0.6}, res.Drums.KickVels)
}

func TestGenericRules(t *testing.T) {
	tests := []struct {
		name      string
		prog      *models.Progression
		warnings  []string
		checkFunc func(t *testing.T, d *models.DrumPattern)
	}{
		{
			name: "missing downbeat and snare",
			prog: &models.Progression{Drums: groove([]float64{1.5}, nil, nil, nil)},
			warnings: []string{
				"no-beat0-kick: injecting downbeat anchor",
				"no-snare: adding default backbeat",
			},
			checkFunc: func(t *testing.T, d *models.DrumPattern) {
				assert.Equal(t, []float64{0, 1.5}, d.Kicks)
				assert.Equal(t, []float64{1, 3}, d.Snares)
				assert.Equal(t, []float64{0.9, 0.9}, d.SnareVels)
			},
		},
		{
			name: "early kick counts as downbeat",
			prog: &models.Progression{Drums: groove([]float64{0.2}, []float64{1}, nil, nil)},
		},
		{
			name: "complex harmony thins dense hats",
			prog: &models.Progression{
				Chords: []string{"Cmaj9", "Dm11", "E7alt", "G7"},
				Drums:  groove([]float64{0}, []float64{1, 3}, sixteenths(), nil),
			},
			warnings: []string{"complexity-overload: 3 complex chords + 16 hats, thinning hats"},
			checkFunc: func(t *testing.T, d *models.DrumPattern) {
				assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5}, d.Hihats)
				assert.Len(t, d.HihatVels, 8)
			},
		},
		{
			name: "simple harmony keeps hats",
			prog: &models.Progression{
				Chords: []string{"C", "Am", "F", "G"},
				Drums:  groove([]float64{0}, []float64{1, 3}, sixteenths(), nil),
			},
		},
		{
			name:     "gospel expects claps",
			prog:     &models.Progression{Genre: "gospel", Drums: groove([]float64{0}, []float64{1, 3}, nil, nil)},
			warnings: []string{"gospel-claps: adding default clap pattern"},
			checkFunc: func(t *testing.T, d *models.DrumPattern) {
				assert.Equal(t, []float64{1, 3}, d.Claps)
			},
		},
		{
			name: "trap does not expect claps",
			prog: &models.Progression{Genre: "trap", Drums: groove([]float64{0}, []float64{2}, nil, nil)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.prog)
			if tt.warnings == nil {
				assert.Empty(t, res.Warnings)
			} else {
				assert.Equal(t, tt.warnings, res.Warnings)
			}
			require.NotNil(t, res.Drums)
			for _, d := range models.AllDrumTypes {
				pos, vels := res.Drums.Track(d)
				if vels != nil {
					assert.Len(t, vels, len(pos), string(d))
				}
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, res.Drums)
			}
		})
	}
}

func TestApplyWritesBack(t *testing.T) {
	prog := &models.Progression{
		Genre: "house",
		Swing: 50,
		Drums: groove([]float64{0}, []float64{1, 3}, nil, []float64{1, 3}),
	}

	warnings := Apply(prog)
	assert.Len(t, warnings, 2)
	assert.Equal(t, []float64{0, 1, 2, 3}, prog.Drums.Kicks)
	assert.Equal(t, 10.0, prog.Swing)
	assert.Empty(t, Apply(prog))
}
