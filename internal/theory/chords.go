package theory

import (
	"regexp"
	"strings"
)

// ChordToMIDI voices a chord symbol from its root upward. Unknown
// qualities fall back to a major triad; a symbol without a root yields nil.
func ChordToMIDI(chord string) []int {
	r, ok := Root(chord)
	if !ok {
		return nil
	}

	has := func(s string) bool { return strings.Contains(chord, s) }
	switch {
	case has("m7") && !has("maj"):
		return []int{r, r + 3, r + 7, r + 10}
	case has("maj7") || has("maj9"):
		return []int{r, r + 4, r + 7, r + 11}
	case has("9"):
		return []int{r, r + 4, r + 7, r + 10, r + 14}
	case has("7"):
		return []int{r, r + 4, r + 7, r + 10}
	case has("dim"):
		return []int{r, r + 3, r + 6}
	case has("aug"):
		return []int{r, r + 4, r + 8}
	case has("sus2"):
		return []int{r, r + 2, r + 7}
	case has("sus4"):
		return []int{r, r + 5, r + 7}
	case has("m"):
		return []int{r, r + 3, r + 7}
	}
	return []int{r, r + 4, r + 7}
}

// ChordTones returns the melody-range tones (C4..C6) of a chord. A symbol
// without a root yields a C major triad.
func ChordTones(chord string) []int {
	root, ok := Root(chord)
	if !ok {
		return []int{60, 64, 67}
	}

	var intervals []int
	switch {
	case strings.Contains(chord, "maj7"):
		intervals = []int{0, 4, 7, 11}
	case strings.Contains(chord, "m7"):
		intervals = []int{0, 3, 7, 10}
	case strings.Contains(chord, "7"):
		intervals = []int{0, 4, 7, 10}
	case strings.Contains(chord, "m"):
		intervals = []int{0, 3, 7}
	default:
		intervals = []int{0, 4, 7}
	}

	tones := make([]int, len(intervals))
	for i, iv := range intervals {
		tones[i] = Fold(root+iv, 60, 84)
	}
	return tones
}

// BassNote is the chord root an octave below the voicing, or false when
// the symbol has no root.
func BassNote(chord string) (int, bool) {
	r, ok := Root(chord)
	if !ok {
		return 0, false
	}
	return r - 12, true
}

var keyPattern = regexp.MustCompile(`(?i)^\s*([A-G][#b]?)\s*(.*)$`)

var (
	majorSteps = []int{0, 2, 4, 5, 7, 9, 11}
	minorSteps = []int{0, 2, 3, 5, 7, 8, 10}
)

// KeyScale returns the seven pitch classes of a key such as "A minor",
// "F#m" or "Bb major". Unparseable keys give C major.
func KeyScale(key string) []int {
	root, minor := 60, false
	if m := keyPattern.FindStringSubmatch(key); m != nil {
		name := strings.ToUpper(m[1][:1]) + m[1][1:]
		if midi, ok := noteMIDI[name]; ok {
			root = midi
		}
		minor = isMinorQuality(m[2])
	}

	steps := majorSteps
	if minor {
		steps = minorSteps
	}
	pc := root % 12
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = (pc + s) % 12
	}
	return out
}

func isMinorQuality(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	return strings.HasPrefix(q, "m") && !strings.HasPrefix(q, "maj")
}
