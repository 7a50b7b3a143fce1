// Package patterns holds the step-grid drum pattern catalogue and the
// conversion from step grids to beat-position drum patterns.
package patterns

import (
	"fmt"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// StepData is one grid slot: a velocity (0 means silent) and the chance the
// slot plays when probability gating is enabled.
type StepData struct {
	Velocity    float64 `json:"velocity"`
	Probability float64 `json:"probability"`
}

// StepTrack is the ordered list of grid slots for one drum voice
type StepTrack struct {
	Steps []StepData `json:"steps"`
}

// TimeSignature is a meter such as 4/4 or 6/8
type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

func (ts TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator)
}

// Category groups patterns for browsing
type Category string

const (
	CategoryRockPop    Category = "rock-pop"
	CategoryHipHop     Category = "hip-hop"
	CategoryElectronic Category = "electronic"
	CategoryLatin      Category = "latin"
	CategoryJazzWorld  Category = "jazz-world"
	CategoryMisc       Category = "misc"
)

// Difficulty is a rough playing difficulty
type Difficulty string

const (
	DifficultyBasic        Difficulty = "basic"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Metadata carries optional descriptive fields for a pattern
type Metadata struct {
	Description    string      `json:"description,omitempty"`
	Difficulty     Difficulty  `json:"difficulty,omitempty"`
	IntensityRange *[2]float64 `json:"intensityRange,omitempty"`
}

// StepGridPattern is an immutable catalogue entry
type StepGridPattern struct {
	ID            string                         `json:"id"`
	Name          string                         `json:"name"`
	GenreTags     []string                       `json:"genreTags"`
	Category      Category                       `json:"category"`
	TimeSignature TimeSignature                  `json:"timeSignature"`
	BPMRange      [2]float64                     `json:"bpmRange"`
	SwingCapable  bool                           `json:"swingCapable"`
	StepsPerBeat  int                            `json:"stepsPerBeat"`
	TotalSteps    int                            `json:"totalSteps"`
	Tracks        map[models.DrumType]*StepTrack `json:"tracks"`
	Metadata      *Metadata                      `json:"metadata,omitempty"`
}

// Track returns the step track for d, or nil when the pattern has none
func (p *StepGridPattern) Track(d models.DrumType) *StepTrack {
	return p.Tracks[d]
}

// Density is the fraction of active slots across every track the pattern carries
func (p *StepGridPattern) Density() float64 {
	active, total := 0, 0
	for _, d := range models.AllDrumTypes {
		t := p.Tracks[d]
		if t == nil {
			continue
		}
		for _, s := range t.Steps {
			total++
			if s.Velocity > 0 {
				active++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(active) / float64(total)
}

// ConversionOptions tunes ToDrumPattern. The zero value converts the grid
// as written except that IntensityScale and HumanizeAmount are defaulted.
type ConversionOptions struct {
	IntensityScale   float64 `json:"intensityScale,omitempty"` // 0 means 1.0
	Humanize         bool    `json:"humanize,omitempty"`
	HumanizeAmount   float64 `json:"humanizeAmount,omitempty"` // 0 means 0.5
	SwingPercent     float64 `json:"swingPercent,omitempty"`
	ApplyProbability bool    `json:"applyProbability,omitempty"`

	// Rand supplies uniform draws in [0,1). Nil uses math/rand.
	Rand func() float64 `json:"-"`
}
