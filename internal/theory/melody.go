package theory

import (
	"fmt"
	"slices"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// Style selects the rhythm and contour of a generated melody
type Style string

const (
	StyleSimple   Style = "simple"
	StyleArpeggio Style = "arpeggio"
	StyleAmbient  Style = "ambient"
	StyleLead     Style = "lead"
	StyleRhythmic Style = "rhythmic"
)

// Styles lists every melody style
var Styles = []Style{StyleSimple, StyleArpeggio, StyleAmbient, StyleLead, StyleRhythmic}

// ParseStyle validates s
func ParseStyle(s string) (Style, error) {
	st := Style(s)
	if !slices.Contains(Styles, st) {
		return "", fmt.Errorf("unknown melody style %q", s)
	}
	return st, nil
}

const (
	melodyStart    = 72
	maxLeadingStep = 7
)

// VoiceLead picks the tone closest to prev, provided it is within a fifth.
// Otherwise the first tone wins.
func VoiceLead(prev int, tones []int) int {
	best, bestDist := tones[0], 99
	for _, m := range tones {
		d := abs(m - prev)
		if d < bestDist && d <= maxLeadingStep {
			best, bestDist = m, d
		}
	}
	return best
}

type noteShape struct {
	beat, dur float64
}

var (
	simpleShape   = []noteShape{{0, 0.9}, {1, 0.9}, {2, 0.9}, {3, 0.9}}
	leadShape     = []noteShape{{0, 1.0}, {1.5, 0.5}, {2, 0.75}, {3, 1.0}}
	rhythmicShape = []noteShape{{0, 0.22}, {0.75, 0.22}, {1.5, 0.22}, {2, 0.22}, {2.75, 0.22}, {3.5, 0.22}}

	arpeggioOrder = []int{0, 1, 2, 3, 1, 2, 0, 1}
)

func barMelody(style Style, bar int, tones []int, prev int) []models.MelodyNote {
	note := func(beat float64, midi int, dur float64) models.MelodyNote {
		return models.MelodyNote{Bar: bar, BeatOffset: beat, MIDI: midi, DurationBeats: dur}
	}
	led := func(shape []noteShape) []models.MelodyNote {
		out := make([]models.MelodyNote, len(shape))
		for i, s := range shape {
			out[i] = note(s.beat, VoiceLead(prev, tones), s.dur)
		}
		return out
	}

	switch style {
	case StyleSimple:
		return led(simpleShape)
	case StyleLead:
		return led(leadShape)
	case StyleRhythmic:
		return led(rhythmicShape)
	case StyleAmbient:
		return []models.MelodyNote{note(0, tones[0], 4)}
	case StyleArpeggio:
		sorted := slices.Clone(tones)
		slices.Sort(sorted)
		out := make([]models.MelodyNote, len(arpeggioOrder))
		for i, ti := range arpeggioOrder {
			out[i] = note(float64(i)*0.5, sorted[ti%len(sorted)], 0.45)
		}
		return out
	}
	return nil
}

// GenerateMelody writes one bar of melody per chord. Each bar starts from
// the last note of the previous one so lines move by small steps.
func GenerateMelody(chords []string, style Style) []models.MelodyNote {
	prev := melodyStart
	var notes []models.MelodyNote
	for bar, chord := range chords {
		barNotes := barMelody(style, bar, ChordTones(chord), prev)
		notes = append(notes, barNotes...)
		if len(barNotes) > 0 {
			prev = barNotes[len(barNotes)-1].MIDI
		}
	}
	return notes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
