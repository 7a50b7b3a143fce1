package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/drums/coherence"
	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
	"github.com/Conceptual-Machines/groove-api/internal/drums/recommend"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/theory"
)

// songOptions pick what gets played
type songOptions struct {
	Preset      string
	PatternID   string
	GridFile    string
	Recommend   bool
	MelodyStyle string
	BPM         float64
}

// song is a fully prepared progression ready for the host
type song struct {
	Prog      *models.Progression
	Melody    []models.MelodyNote
	Source    string // where the drums came from
	Warnings  []string
	Intensity float64 // suggested drum intensity, 0 when not computed
}

func presetIndex(label string) (int, error) {
	presets := models.Presets()
	if label == "" {
		return 0, nil
	}
	for i, p := range presets {
		if strings.EqualFold(p.Label, label) {
			return i, nil
		}
	}
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Label
	}
	return 0, fmt.Errorf("unknown preset %q (expected one of: %s)", label, strings.Join(names, ", "))
}

// buildSong loads preset idx and replaces its drums as opts ask, then runs
// the coherence rules over the result
func buildSong(idx int, opts songOptions) (*song, error) {
	presets := models.Presets()
	prog := presets[idx%len(presets)].Clone()
	if opts.BPM > 0 {
		prog.Tempo = opts.BPM
	}

	s := &song{Prog: prog, Source: "preset"}

	if opts.MelodyStyle != "" {
		style, err := theory.ParseStyle(opts.MelodyStyle)
		if err != nil {
			return nil, err
		}
		s.Melody = theory.GenerateMelody(prog.Chords, style)
	}

	conv := patterns.ConversionOptions{SwingPercent: prog.Swing, Humanize: true}

	switch {
	case opts.GridFile != "":
		data, err := os.ReadFile(opts.GridFile)
		if err != nil {
			return nil, err
		}
		p, err := patterns.ParseNotation(string(data))
		if err != nil {
			return nil, err
		}
		prog.Drums = patterns.ToDrumPattern(p, conv)
		s.Source = p.Name
	case opts.PatternID != "":
		p, err := patterns.Lookup(opts.PatternID)
		if err != nil {
			return nil, err
		}
		prog.Drums = patterns.ToDrumPattern(p, conv)
		s.Source = p.Name
	case opts.Recommend:
		rec := recommend.Recommend(prog, s.Melody, 1)
		if len(rec.Scores) > 0 {
			top := rec.Scores[0]
			prog.Drums = patterns.ToDrumPattern(top.Pattern, conv)
			s.Source = fmt.Sprintf("%s (%d)", top.Pattern.Name, top.Score)
		}
		s.Intensity = rec.SuggestedIntensity
	}

	s.Warnings = coherence.Apply(prog)
	return s, nil
}

// gridRows marks, per voice, which of steps slots of one bar hold a hit
func gridRows(d *models.DrumPattern, steps int) map[models.DrumType][]bool {
	rows := map[models.DrumType][]bool{}
	if d == nil || steps <= 0 {
		return rows
	}
	length := d.LengthBeats()
	stepBeats := length / float64(steps)

	for _, dt := range models.AllDrumTypes {
		positions, _ := d.Track(dt)
		if len(positions) == 0 {
			continue
		}
		row := make([]bool, steps)
		for _, pos := range positions {
			i := int((pos + stepBeats/2) / stepBeats)
			if i >= 0 && i < steps {
				row[i] = true
			}
		}
		rows[dt] = row
	}
	return rows
}
