package models

// Presets are the built-in starter progressions
func Presets() []*Progression {
	eighths := func() []float64 { return []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5} }
	groove := func(kicks, claps, ohats []float64) *DrumPattern {
		d := NewDrumPattern(DefaultPatternLengthBeats)
		d.Kicks = kicks
		d.Snares = []float64{1, 3}
		d.Hihats = eighths()
		d.Claps = claps
		d.Ohats = ohats
		return d
	}

	return []*Progression{
		{
			Label: "Dark Trap", Tempo: 140, Key: "C minor", Genre: "trap", Mood: "dark",
			Chords: []string{"Cm", "Ab", "Bb", "G"},
			Drums:  groove([]float64{0, 2}, []float64{}, []float64{}),
		},
		{
			Label: "Chill Lo-Fi", Tempo: 85, Key: "F major", Genre: "lofi", Mood: "chill", Swing: 60,
			Chords: []string{"Fmaj7", "Dm7", "Gm7", "C7"},
			Drums:  groove([]float64{0, 2.5}, []float64{}, []float64{0.5, 2.5}),
		},
		{
			Label: "Sad R&B", Tempo: 75, Key: "A minor", Genre: "rnb", Mood: "sad", Swing: 30,
			Chords: []string{"Am7", "Fmaj7", "C", "G"},
			Drums:  groove([]float64{0, 2}, []float64{1, 3}, []float64{}),
		},
		{
			Label: "Jazz Fusion", Tempo: 100, Key: "D minor", Genre: "jazz", Mood: "smooth", Swing: 70,
			Chords: []string{"Dm7", "G7", "Cmaj7", "Am7"},
			Drums:  groove([]float64{0, 2.5}, []float64{}, []float64{}),
		},
		{
			Label: "Gospel Soul", Tempo: 95, Key: "Bb major", Genre: "gospel", Mood: "uplifting", Swing: 50,
			Chords: []string{"Bbmaj7", "Gm7", "Ebmaj7", "F7"},
			Drums:  groove([]float64{0, 1.5, 3}, []float64{1, 3}, []float64{}),
		},
	}
}

// Preset returns the built-in progression with the given label
func Preset(label string) (*Progression, bool) {
	for _, p := range Presets() {
		if p.Label == label {
			return p, true
		}
	}
	return nil, false
}
