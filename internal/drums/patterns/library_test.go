package patterns

import (
	"errors"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryShape(t *testing.T) {
	lib := Library()
	require.Len(t, lib, 31)

	for _, p := range lib {
		t.Run(p.ID, func(t *testing.T) {
			assert.Equal(t, p.TimeSignature.Numerator*p.StepsPerBeat, p.TotalSteps)
			assert.LessOrEqual(t, p.BPMRange[0], p.BPMRange[1])
			assert.NotEmpty(t, p.GenreTags)
			for _, d := range models.CoreDrumTypes {
				tr := p.Track(d)
				require.NotNil(t, tr, "missing core track %s", d)
				assert.GreaterOrEqual(t, len(tr.Steps), p.TotalSteps)
				for _, s := range tr.Steps {
					assert.GreaterOrEqual(t, s.Velocity, 0.0)
					assert.LessOrEqual(t, s.Velocity, 1.0)
					assert.GreaterOrEqual(t, s.Probability, 0.0)
					assert.LessOrEqual(t, s.Probability, 1.0)
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	p, err := Lookup("boom-bap")
	require.NoError(t, err)
	assert.Equal(t, "Boom Bap", p.Name)
	assert.True(t, p.SwingCapable)

	_, err = Lookup("polka")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFind(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "time signature 3/4",
			filter:  Filter{TimeSignature: "3/4"},
			wantIDs: []string{"waltz"},
		},
		{
			name:    "query matches tag case-insensitively",
			filter:  Filter{Query: "DEMBOW"},
			wantIDs: []string{"reggaeton"},
		},
		{
			name:    "query matches name",
			filter:  Filter{Query: "amen"},
			wantIDs: []string{"amen-break"},
		},
		{
			name:    "category and query",
			filter:  Filter{Category: CategoryHipHop, Query: "westcoast"},
			wantIDs: []string{"g-funk"},
		},
		{
			name:    "category mismatch",
			filter:  Filter{Category: CategoryMisc, Query: "trap"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, p := range Find(tt.filter) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFindEmptyFilterReturnsAll(t *testing.T) {
	assert.Len(t, Find(Filter{}), len(Library()))
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 6)
	assert.Equal(t, "Rock / Pop", cats[0].Label)
	assert.Equal(t, CategoryMisc, cats[5].ID)
}

func TestDensity(t *testing.T) {
	p, err := Lookup("reggae-one-drop")
	require.NoError(t, err)
	// kick 1 + snare 1 + hats 8 over 5 tracks of 16
	assert.InDelta(t, 10.0/80.0, p.Density(), 1e-9)
}
