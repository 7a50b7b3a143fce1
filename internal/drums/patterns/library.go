package patterns

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// ErrNotFound is returned by Lookup for an unknown pattern id
var ErrNotFound = errors.New("pattern not found")

type hits map[int]StepData

// on is a slot that always plays
func on(vel float64) StepData { return StepData{Velocity: vel, Probability: 1.0} }

// maybe is a slot gated by prob when probability gating is enabled
func maybe(vel, prob float64) StepData { return StepData{Velocity: vel, Probability: prob} }

// track expands a sparse slot map into a full grid of n slots. Slots past n
// are dropped.
func track(n int, h hits) *StepTrack {
	steps := make([]StepData, n)
	for idx, s := range h {
		if idx >= 0 && idx < n {
			steps[idx] = s
		}
	}
	return &StepTrack{Steps: steps}
}

func empty(n int) *StepTrack { return track(n, nil) }

// alternating fills every slot of a 16-step grid, strong on even slots
func alternating(strong, weak float64) hits {
	h := hits{}
	for i := 0; i < 16; i++ {
		if i%2 == 0 {
			h[i] = on(strong)
		} else {
			h[i] = on(weak)
		}
	}
	return h
}

// eighths fills the even slots of a 16-step grid, alternating accent
func eighths(accent, off float64) hits {
	h := hits{}
	for i := 0; i < 16; i += 2 {
		if i%4 == 0 {
			h[i] = on(accent)
		} else {
			h[i] = on(off)
		}
	}
	return h
}

// tripletRide is the swung ride figure on a 12-step triplet grid
func tripletRide(beat, skip float64) hits {
	return hits{0: on(beat), 2: on(skip), 3: on(beat), 5: on(skip), 6: on(beat), 8: on(skip), 9: on(beat), 11: on(skip)}
}

func intensity(lo, hi float64) *[2]float64 { return &[2]float64{lo, hi} }

var fourFour = TimeSignature{Numerator: 4, Denominator: 4}

func core(kick, snare, hihat, clap, ohat *StepTrack) map[models.DrumType]*StepTrack {
	return map[models.DrumType]*StepTrack{
		models.Kick:  kick,
		models.Snare: snare,
		models.Hihat: hihat,
		models.Clap:  clap,
		models.Ohat:  ohat,
	}
}

var library = []*StepGridPattern{
	{
		ID: "rock-beat", Name: "Rock Beat", GenreTags: []string{"rock", "pop", "alternative"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{80, 140},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 8: on(1.0)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, eighths(0.8, 0.6)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Classic rock backbeat", Difficulty: DifficultyBasic, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "four-on-floor", Name: "Four-on-the-Floor", GenreTags: []string{"dance", "pop", "disco", "edm"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{115, 135},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(1.0), 8: on(1.0), 12: on(1.0)}),
			empty(16),
			track(16, hits{2: on(0.7), 6: on(0.7), 10: on(0.7), 14: on(0.7)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			empty(16)),
		Metadata: &Metadata{Description: "Dance floor staple", Difficulty: DifficultyBasic, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "boom-bap", Name: "Boom Bap", GenreTags: []string{"hiphop", "boomBap", "rap"},
		Category: CategoryHipHop, TimeSignature: fourFour, BPMRange: [2]float64{80, 100},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 5: on(0.7), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 12: on(1.0), 7: maybe(0.3, 0.6)}),
			track(16, eighths(0.8, 0.6)),
			empty(16),
			track(16, hits{6: maybe(0.5, 0.7)})),
		Metadata: &Metadata{Description: "Classic hip-hop groove with syncopated kick", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.4, 0.9)},
	},
	{
		ID: "trap-beat", Name: "Trap Beat", GenreTags: []string{"trap", "hiphop", "rap"},
		Category: CategoryHipHop, TimeSignature: fourFour, BPMRange: [2]float64{120, 160},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 7: on(0.8), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, alternating(0.9, 0.5)),
			track(16, hits{4: on(0.9), 12: on(0.9)}),
			empty(16)),
		Metadata: &Metadata{Description: "Modern trap with rapid hi-hat rolls", Difficulty: DifficultyBasic, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "funk-groove", Name: "Funk Groove", GenreTags: []string{"funk", "soul", "rnb"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{90, 115},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 3: on(0.6), 6: on(0.7), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 12: on(1.0), 7: maybe(0.25, 0.8), 11: maybe(0.25, 0.7), 15: maybe(0.3, 0.6)}),
			track(16, hits{
				0: on(0.8), 1: on(0.4), 2: on(0.7), 3: on(0.4), 4: on(0.8), 5: on(0.4), 6: on(0.7), 7: on(0.4),
				8: on(0.8), 9: on(0.4), 10: on(0.7), 11: on(0.4), 12: on(0.8), 13: on(0.4), 14: on(0.7), 15: on(0.4),
			}),
			empty(16),
			track(16, hits{2: maybe(0.5, 0.5)})),
		Metadata: &Metadata{Description: "Tight 16th-note funk with ghost snares", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "shuffle", Name: "Shuffle", GenreTags: []string{"blues", "rock", "shuffle"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{100, 140},
		SwingCapable: true, StepsPerBeat: 3, TotalSteps: 12,
		Tracks: core(
			track(12, hits{0: on(1.0), 6: on(1.0)}),
			track(12, hits{3: on(1.0), 9: on(1.0)}),
			track(12, tripletRide(0.8, 0.5)),
			empty(12), empty(12)),
		Metadata: &Metadata{Description: "Triplet-feel shuffle groove", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.4, 0.9)},
	},
	{
		ID: "half-time-shuffle", Name: "Half-Time Shuffle", GenreTags: []string{"blues", "jazz", "fusion"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{60, 100},
		SwingCapable: true, StepsPerBeat: 3, TotalSteps: 12,
		Tracks: core(
			track(12, hits{0: on(1.0), 8: maybe(0.6, 0.7)}),
			track(12, hits{6: on(1.0), 2: maybe(0.2, 0.6), 5: maybe(0.25, 0.7), 8: maybe(0.2, 0.5), 11: maybe(0.25, 0.6)}),
			track(12, hits{0: on(0.8), 2: on(0.4), 3: on(0.7), 5: on(0.4), 6: on(0.8), 8: on(0.4), 9: on(0.7), 11: on(0.4)}),
			empty(12), empty(12)),
		Metadata: &Metadata{Description: "Rosanna/Purdie-style half-time shuffle", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.3, 0.8)},
	},
	{
		ID: "jazz-swing", Name: "Jazz Swing", GenreTags: []string{"jazz", "swing", "bebop"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{100, 200},
		SwingCapable: true, StepsPerBeat: 3, TotalSteps: 12,
		Tracks: core(
			track(12, hits{0: maybe(0.5, 0.7), 5: maybe(0.4, 0.5), 8: maybe(0.5, 0.6)}),
			track(12, hits{5: maybe(0.3, 0.5), 11: maybe(0.3, 0.5)}),
			track(12, tripletRide(0.8, 0.5)),
			empty(12), empty(12)),
		Metadata: &Metadata{Description: "Ride cymbal jazz swing with kick comping", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.2, 0.7)},
	},
	{
		ID: "bossa-nova", Name: "Bossa Nova", GenreTags: []string{"bossa", "bossaNova", "latin", "jazz"},
		Category: CategoryLatin, TimeSignature: fourFour, BPMRange: [2]float64{120, 145},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(0.8), 3: on(0.6), 6: on(0.8), 10: on(0.7), 12: on(0.6)}),
			track(16, hits{2: on(0.4), 6: on(0.4), 10: on(0.4), 14: on(0.4)}),
			track(16, eighths(0.6, 0.5)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Brazilian bossa nova with cross-stick and syncopated kick", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.3, 0.7)},
	},
	{
		ID: "samba", Name: "Samba", GenreTags: []string{"samba", "brazilian", "latin"},
		Category: CategoryLatin, TimeSignature: fourFour, BPMRange: [2]float64{90, 110},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 2: on(0.5), 4: on(0.7), 6: on(0.5), 8: on(1.0), 10: on(0.5), 12: on(0.7), 14: on(0.5)}),
			track(16, hits{2: on(0.6), 4: on(0.7), 6: on(0.4), 10: on(0.6), 12: on(0.7), 14: on(0.4)}),
			track(16, hits{
				0: on(0.7), 1: on(0.4), 2: on(0.6), 3: on(0.4), 4: on(0.7), 5: on(0.4), 6: on(0.6), 7: on(0.4),
				8: on(0.7), 9: on(0.4), 10: on(0.6), 11: on(0.4), 12: on(0.7), 13: on(0.4), 14: on(0.6), 15: on(0.4),
			}),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Dense samba groove with surdo kick pattern", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "reggae-one-drop", Name: "Reggae One Drop", GenreTags: []string{"reggae", "dub", "roots"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{65, 85},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{8: on(1.0)}),
			track(16, hits{8: on(0.9)}),
			track(16, eighths(0.6, 0.5)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "No beat 1 kick, the iconic reggae one drop", Difficulty: DifficultyBasic, IntensityRange: intensity(0.3, 0.7)},
	},
	{
		ID: "reggae-steppers", Name: "Reggae Steppers", GenreTags: []string{"reggae", "dub"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{70, 90},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(0.9), 8: on(1.0), 12: on(0.9)}),
			track(16, hits{8: on(1.0)}),
			track(16, eighths(0.6, 0.5)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Driving reggae steppers with four-on-floor kick", Difficulty: DifficultyBasic, IntensityRange: intensity(0.4, 0.8)},
	},
	{
		ID: "reggaeton", Name: "Reggaeton (Dembow)", GenreTags: []string{"reggaeton", "latin", "dembow"},
		Category: CategoryLatin, TimeSignature: fourFour, BPMRange: [2]float64{88, 98},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 8: on(1.0)}),
			track(16, hits{3: on(0.9), 7: on(0.9), 11: on(0.9), 15: on(0.9)}),
			track(16, alternating(0.7, 0.4)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Dembow riddim with off-beat snare pattern", Difficulty: DifficultyBasic, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "disco-beat", Name: "Disco Beat", GenreTags: []string{"disco", "dance", "funk"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{110, 130},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(1.0), 8: on(1.0), 12: on(1.0)}),
			track(16, hits{4: on(0.9), 12: on(0.9)}),
			track(16, eighths(0.8, 0.7)),
			empty(16),
			track(16, hits{2: on(0.7), 6: on(0.7), 10: on(0.7), 14: on(0.7)})),
		Metadata: &Metadata{Description: "Classic disco with open hat off-beats", Difficulty: DifficultyBasic, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "motown-groove", Name: "Motown Groove", GenreTags: []string{"motown", "soul", "rnb"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{95, 120},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 8: on(0.9)}),
			empty(16),
			track(16, eighths(0.6, 0.5)),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			empty(16)),
		Metadata: &Metadata{Description: "Motown backbeat with clap and tambourine", Difficulty: DifficultyBasic, IntensityRange: intensity(0.4, 0.9)},
	},
	{
		ID: "punk-dbeat", Name: "Punk (D-Beat)", GenreTags: []string{"punk", "hardcore"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{150, 200},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 2: on(0.9), 4: on(0.8), 6: on(0.9), 8: on(1.0), 10: on(0.9), 12: on(0.8), 14: on(0.9)}),
			track(16, hits{2: on(0.9), 6: on(0.9), 10: on(0.9), 14: on(0.9)}),
			track(16, eighths(0.9, 0.8)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Driving punk D-beat with aggressive 8th-note kick", Difficulty: DifficultyBasic, IntensityRange: intensity(0.8, 1.0)},
	},
	{
		ID: "metal-double-bass", Name: "Metal Double Bass", GenreTags: []string{"metal", "heavyMetal"},
		Category: CategoryRockPop, TimeSignature: fourFour, BPMRange: [2]float64{120, 180},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, alternating(1.0, 0.8)),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, eighths(0.9, 0.7)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Relentless 16th-note double bass kicks", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.8, 1.0)},
	},
	{
		ID: "breakbeat", Name: "Breakbeat", GenreTags: []string{"breakbeat", "breaks", "electronic"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{110, 140},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 6: on(0.8), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 11: on(0.8), 14: maybe(0.6, 0.7)}),
			track(16, eighths(0.7, 0.6)),
			empty(16),
			track(16, hits{8: maybe(0.5, 0.6)})),
		Metadata: &Metadata{Description: "Broken beat pattern with displaced snare", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "amen-break", Name: "Amen Break", GenreTags: []string{"jungle", "dnb", "breakbeat"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{130, 180},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(0.7), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 7: on(0.7), 10: on(0.8), 14: on(0.9)}),
			track(16, hits{0: on(0.8), 2: on(0.7), 4: on(0.6), 6: on(0.8), 8: on(0.7), 10: on(0.6), 12: on(0.8), 14: on(0.7)}),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Iconic Amen break kick/snare/hat interplay", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "drum-and-bass", Name: "Drum and Bass", GenreTags: []string{"dnb", "jungle", "electronic"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{160, 180},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 10: on(0.9)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, alternating(0.7, 0.4)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Fast two-step DnB with driving hats", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "afrobeat", Name: "Afrobeat", GenreTags: []string{"afrobeat", "african", "afrobeats"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{95, 115},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 3: on(0.6), 7: on(0.7), 10: on(0.9), 14: maybe(0.5, 0.7)}),
			track(16, hits{4: on(0.9), 12: on(0.9), 7: maybe(0.3, 0.6)}),
			track(16, hits{
				0: on(0.7), 1: on(0.3), 2: on(0.6), 3: on(0.3), 4: on(0.7), 5: on(0.3), 6: on(0.6), 7: on(0.3),
				8: on(0.7), 9: on(0.3), 10: on(0.6), 11: on(0.3), 12: on(0.7), 13: on(0.3), 14: on(0.6), 15: on(0.3),
			}),
			track(16, hits{4: maybe(0.6, 0.5), 12: maybe(0.6, 0.5)}),
			track(16, hits{6: maybe(0.4, 0.6), 14: maybe(0.4, 0.6)})),
		Metadata: &Metadata{Description: "Polyrhythmic afrobeat with asymmetric kick", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "second-line", Name: "New Orleans Second Line", GenreTags: []string{"secondLine", "newOrleans", "funk"},
		Category: CategoryJazzWorld, TimeSignature: fourFour, BPMRange: [2]float64{100, 130},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 8: on(0.9)}),
			track(16, hits{3: on(0.6), 4: on(1.0), 6: on(0.5), 7: on(0.4), 10: on(0.5), 11: on(0.6), 12: on(1.0), 15: on(0.5)}),
			track(16, eighths(0.7, 0.5)),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Syncopated New Orleans second line snare pattern", Difficulty: DifficultyAdvanced, IntensityRange: intensity(0.5, 1.0)},
	},
	{
		ID: "waltz", Name: "Waltz", GenreTags: []string{"waltz", "classical", "folk"},
		Category: CategoryMisc, TimeSignature: TimeSignature{Numerator: 3, Denominator: 4}, BPMRange: [2]float64{80, 140},
		StepsPerBeat: 4, TotalSteps: 12,
		Tracks: core(
			track(12, hits{0: on(1.0)}),
			empty(12),
			track(12, hits{4: on(0.6), 8: on(0.6)}),
			empty(12), empty(12)),
		Metadata: &Metadata{Description: "Simple waltz in 3/4 time", Difficulty: DifficultyBasic, IntensityRange: intensity(0.3, 0.7)},
	},
	{
		ID: "6-8-ballad", Name: "6/8 Ballad", GenreTags: []string{"ballad", "slow", "6/8"},
		Category: CategoryMisc, TimeSignature: TimeSignature{Numerator: 6, Denominator: 8}, BPMRange: [2]float64{50, 80},
		StepsPerBeat: 2, TotalSteps: 12,
		Tracks: core(
			track(12, hits{0: on(1.0), 6: on(0.8)}),
			track(12, hits{6: maybe(0.4, 0.6)}),
			track(12, hits{0: on(0.7), 2: on(0.5), 4: on(0.5), 6: on(0.7), 8: on(0.5), 10: on(0.5)}),
			empty(12), empty(12)),
		Metadata: &Metadata{Description: "6/8 time ballad feel with two groups of three", Difficulty: DifficultyBasic, IntensityRange: intensity(0.2, 0.6)},
	},
	{
		ID: "soca", Name: "Soca", GenreTags: []string{"soca", "caribbean", "dancehall"},
		Category: CategoryLatin, TimeSignature: fourFour, BPMRange: [2]float64{140, 165},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(0.8), 8: on(1.0), 12: on(0.8)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, hits{
				0: on(0.8), 1: on(0.4), 2: on(0.7), 3: on(0.4), 4: on(0.8), 5: on(0.4), 6: on(0.7), 7: on(0.4),
				8: on(0.8), 9: on(0.4), 10: on(0.7), 11: on(0.4), 12: on(0.8), 13: on(0.4), 14: on(0.7), 15: on(0.4),
			}),
			empty(16), empty(16)),
		Metadata: &Metadata{Description: "Driving soca party beat", Difficulty: DifficultyBasic, IntensityRange: intensity(0.7, 1.0)},
	},
	{
		ID: "calypso", Name: "Calypso", GenreTags: []string{"calypso", "caribbean", "tropical"},
		Category: CategoryLatin, TimeSignature: fourFour, BPMRange: [2]float64{100, 130},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(0.9), 6: on(0.6), 10: on(0.7)}),
			track(16, hits{4: on(0.8), 12: on(0.8)}),
			track(16, eighths(0.6, 0.5)),
			empty(16),
			track(16, hits{6: maybe(0.4, 0.6), 14: maybe(0.4, 0.6)})),
		Metadata: &Metadata{Description: "Lighter calypso groove with subtle syncopation", Difficulty: DifficultyBasic, IntensityRange: intensity(0.4, 0.8)},
	},
	{
		ID: "g-funk", Name: "G-Funk", GenreTags: []string{"gfunk", "hiphop", "westcoast"},
		Category: CategoryHipHop, TimeSignature: fourFour, BPMRange: [2]float64{80, 100},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 6: on(0.7), 10: on(0.8)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, eighths(0.7, 0.5)),
			track(16, hits{4: on(0.8), 12: on(0.8)}),
			track(16, hits{2: maybe(0.4, 0.5)})),
		Metadata: &Metadata{Description: "Laid-back West Coast bouncy groove", Difficulty: DifficultyBasic, IntensityRange: intensity(0.4, 0.8)},
	},
	{
		ID: "uk-garage", Name: "UK Garage (2-Step)", GenreTags: []string{"ukGarage", "2step", "garage"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{130, 140},
		SwingCapable: true, StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{2: on(0.9), 10: on(0.8)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, hits{0: on(0.7), 3: on(0.5), 4: on(0.7), 7: on(0.5), 8: on(0.7), 11: on(0.5), 12: on(0.7), 15: on(0.5)}),
			empty(16),
			track(16, hits{6: maybe(0.5, 0.7), 14: maybe(0.5, 0.7)})),
		Metadata: &Metadata{Description: "2-step garage with shuffled hats and displaced kick", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.5, 0.9)},
	},
	{
		ID: "jersey-club", Name: "Jersey Club", GenreTags: []string{"jerseyClub", "club", "dance"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{130, 145},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 8: on(0.9)}),
			track(16, hits{2: on(0.7), 3: on(0.6), 4: on(1.0), 6: on(0.5), 7: on(0.6), 10: on(0.7), 11: on(0.6), 12: on(1.0), 14: on(0.5), 15: on(0.6)}),
			track(16, eighths(0.7, 0.6)),
			track(16, hits{4: on(0.8), 12: on(0.8)}),
			empty(16)),
		Metadata: &Metadata{Description: "Jersey club with rapid snare rolls", Difficulty: DifficultyIntermediate, IntensityRange: intensity(0.7, 1.0)},
	},
	{
		ID: "house-beat", Name: "House Beat", GenreTags: []string{"house", "deepHouse", "electronic"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{120, 130},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(1.0), 8: on(1.0), 12: on(1.0)}),
			empty(16),
			track(16, hits{2: on(0.7), 6: on(0.7), 10: on(0.7), 14: on(0.7)}),
			track(16, hits{4: on(1.0), 12: on(1.0)}),
			track(16, hits{2: maybe(0.4, 0.5), 6: maybe(0.4, 0.5), 10: maybe(0.4, 0.5), 14: maybe(0.4, 0.5)})),
		Metadata: &Metadata{Description: "Classic house beat with four-on-floor and claps", Difficulty: DifficultyBasic, IntensityRange: intensity(0.6, 1.0)},
	},
	{
		ID: "techno-beat", Name: "Techno Beat", GenreTags: []string{"techno", "industrial", "electronic"},
		Category: CategoryElectronic, TimeSignature: fourFour, BPMRange: [2]float64{125, 145},
		StepsPerBeat: 4, TotalSteps: 16,
		Tracks: core(
			track(16, hits{0: on(1.0), 4: on(1.0), 8: on(1.0), 12: on(1.0)}),
			track(16, hits{4: on(0.7), 12: on(0.7)}),
			track(16, eighths(0.8, 0.8)),
			track(16, hits{4: on(0.9), 12: on(0.9)}),
			track(16, hits{2: maybe(0.5, 0.6), 14: maybe(0.5, 0.6)})),
		Metadata: &Metadata{Description: "Mechanical techno four-on-floor", Difficulty: DifficultyBasic, IntensityRange: intensity(0.7, 1.0)},
	},
}

var byID = func() map[string]*StepGridPattern {
	m := make(map[string]*StepGridPattern, len(library))
	for _, p := range library {
		if _, dup := m[p.ID]; dup {
			panic(fmt.Sprintf("patterns: duplicate id %q", p.ID))
		}
		m[p.ID] = p
	}
	return m
}()

// CategoryInfo is a category id with its display label
type CategoryInfo struct {
	ID    Category `json:"id"`
	Label string   `json:"label"`
}

var categories = []CategoryInfo{
	{ID: CategoryRockPop, Label: "Rock / Pop"},
	{ID: CategoryHipHop, Label: "Hip-Hop"},
	{ID: CategoryElectronic, Label: "Electronic"},
	{ID: CategoryLatin, Label: "Latin"},
	{ID: CategoryJazzWorld, Label: "Jazz / World"},
	{ID: CategoryMisc, Label: "Misc"},
}

// Library returns every pattern in catalogue order. Callers must not
// modify the returned patterns.
func Library() []*StepGridPattern {
	out := make([]*StepGridPattern, len(library))
	copy(out, library)
	return out
}

// Categories returns the browsable categories in display order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// Lookup returns the pattern with the given id
func Lookup(id string) (*StepGridPattern, error) {
	p, ok := byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}

// Filter narrows the catalogue. Empty fields match everything.
type Filter struct {
	Category      Category
	Query         string // case-insensitive, matched against name and genre tags
	TimeSignature string // e.g. "4/4"
}

// Match reports whether p satisfies every non-empty criterion of f
func (f Filter) Match(p *StepGridPattern) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.TimeSignature != "" && p.TimeSignature.String() != f.TimeSignature {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	for _, tag := range p.GenreTags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Find returns the catalogue patterns matching f, in catalogue order
func Find(f Filter) []*StepGridPattern {
	var out []*StepGridPattern
	for _, p := range library {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
