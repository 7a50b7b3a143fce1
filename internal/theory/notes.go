// Package theory has the small amount of harmony the player needs: chord
// symbols to MIDI notes, keys to scales and a rule-based melody writer.
package theory

import (
	"math"
	"regexp"
)

// noteMIDI maps note names to MIDI numbers in the octave above middle C
var noteMIDI = map[string]int{
	"C": 60, "C#": 61, "Db": 61, "D": 62, "D#": 63, "Eb": 63,
	"E": 64, "F": 65, "F#": 66, "Gb": 66, "G": 67, "G#": 68,
	"Ab": 68, "A": 69, "A#": 70, "Bb": 70, "B": 71,
}

var rootPattern = regexp.MustCompile(`^[A-G][#b]?`)

// Root returns the MIDI number (60-71) of the chord or key root at the
// start of name. ok is false when name does not start with a note.
func Root(name string) (midi int, ok bool) {
	m := rootPattern.FindString(name)
	if m == "" {
		return 0, false
	}
	return noteMIDI[m], true
}

// Frequency converts a MIDI note number to Hz at A4 = 440
func Frequency(midi int) float64 {
	return 440 * math.Pow(2, float64(midi-69)/12)
}

// Fold moves midi by octaves until it lies within [lo, hi]
func Fold(midi, lo, hi int) int {
	for midi < lo {
		midi += 12
	}
	for midi > hi {
		midi -= 12
	}
	return midi
}
