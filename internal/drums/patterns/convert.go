package patterns

import (
	"math"
	"math/rand"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

const (
	minVelocity = 0.05
	maxVelocity = 1.0

	humanizeTiming   = 0.15 // fraction of a step
	humanizeVelocity = 0.08
)

// ToDrumPattern projects a step grid onto beat positions. Every grid slot
// with a positive velocity becomes one hit, subject to probability gating,
// swing and humanization. Tracks the pattern does not carry are left empty.
func ToDrumPattern(p *StepGridPattern, opts ConversionOptions) *models.DrumPattern {
	scale := opts.IntensityScale
	if scale == 0 {
		scale = 1.0
	}
	amount := opts.HumanizeAmount
	if amount == 0 {
		amount = 0.5
	}
	draw := opts.Rand
	if draw == nil {
		draw = rand.Float64
	}

	stepDur := 1 / float64(p.StepsPerBeat)
	out := models.NewDrumPattern(float64(p.TimeSignature.Numerator))

	for _, d := range models.AllDrumTypes {
		t := p.Tracks[d]
		if t == nil {
			continue
		}

		n := min(len(t.Steps), p.TotalSteps)
		positions := make([]float64, 0, n)
		velocities := make([]float64, 0, n)

		for step := 0; step < n; step++ {
			s := t.Steps[step]
			if s.Velocity <= 0 {
				continue
			}
			if opts.ApplyProbability && s.Probability < 1.0 && draw() > s.Probability {
				continue
			}

			pos := float64(step) * stepDur
			if opts.SwingPercent > 0 && p.StepsPerBeat == 4 && step%2 == 1 {
				pos += opts.SwingPercent / 100 * stepDur * 0.5
			}

			vel := s.Velocity * scale
			if opts.Humanize {
				pos += (draw() - 0.5) * 2 * stepDur * humanizeTiming * amount
				pos = math.Max(0, pos)
				vel = clampVelocity(vel + (draw()-0.5)*2*humanizeVelocity*amount)
			}
			vel = clampVelocity(vel)

			positions = append(positions, round(pos, 4))
			velocities = append(velocities, round(vel, 3))
		}

		out.SetTrack(d, positions, velocities)
	}

	return out
}

func clampVelocity(v float64) float64 {
	return math.Max(minVelocity, math.Min(maxVelocity, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
