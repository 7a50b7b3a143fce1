// Package export writes progressions as Standard MIDI Files.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/theory"
)

// TicksPerBeat is the file resolution
const TicksPerBeat = 480

const (
	chordChannel = 0
	bassChannel  = 1
	drumChannel  = 9

	chordVelocity     = 90
	bassVelocity      = 95
	bassPushVelocity  = 80
	drumVelocity      = 100
	releaseGap        = 20 // ticks of silence before the next bar
	defaultTempo      = 120
	beatsPerBar       = 4
	drumLengthPerBeat = 0.45
)

// Part selects what to export
type Part string

const (
	PartChords Part = "chords"
	PartBass   Part = "bass"
	PartDrums  Part = "drums"
	PartAll    Part = "all"
)

// ErrUnknownPart is returned for part names other than the Part constants
var ErrUnknownPart = errors.New("unknown export part")

// ErrNoDrums is returned when drums are requested from a progression
// without a drum pattern
var ErrNoDrums = errors.New("progression has no drum pattern")

// ParsePart validates a part name
func ParsePart(s string) (Part, error) {
	switch p := Part(s); p {
	case PartChords, PartBass, PartDrums, PartAll:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPart, s)
}

// Filename is the suggested download name for part
func Filename(p Part) string {
	return fmt.Sprintf("groove-%s.mid", p)
}

type event struct {
	tick uint32
	msg  midi.Message
	off  bool
}

type track struct {
	name   string
	events []event
}

func (t *track) note(ch, key, vel uint8, on, off uint32) {
	t.events = append(t.events,
		event{tick: on, msg: midi.NoteOn(ch, key, vel)},
		event{tick: off, msg: midi.NoteOff(ch, key), off: true},
	)
}

// build converts absolute ticks to deltas. At equal ticks note-offs go
// first so that back-to-back notes on one key do not cut each other.
func (t *track) build(bpm float64) smf.Track {
	sort.SliceStable(t.events, func(i, j int) bool {
		a, b := t.events[i], t.events[j]
		if a.tick != b.tick {
			return a.tick < b.tick
		}
		return a.off && !b.off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(t.name))
	tr.Add(0, smf.MetaTempo(bpm))
	var last uint32
	for _, ev := range t.events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	tr.Close(0)
	return tr
}

func bars(prog *models.Progression) int {
	if len(prog.Chords) > 0 {
		return len(prog.Chords)
	}
	if prog.Bars > 0 {
		return prog.Bars
	}
	return 1
}

func tempo(prog *models.Progression) float64 {
	if prog.Tempo > 0 {
		return prog.Tempo
	}
	return defaultTempo
}

func barTick(b int) uint32 {
	return uint32(b * beatsPerBar * TicksPerBeat)
}

func chordTrack(prog *models.Progression) *track {
	t := &track{name: "Chords"}
	for b, chord := range prog.Chords {
		start := barTick(b)
		for _, n := range theory.ChordToMIDI(chord) {
			t.note(chordChannel, uint8(n), chordVelocity, start, start+beatsPerBar*TicksPerBeat-releaseGap)
		}
	}
	return t
}

// bassTrack plays the root for two beats, then pushes it again softer
func bassTrack(prog *models.Progression) *track {
	t := &track{name: "Bass"}
	const half = beatsPerBar / 2 * TicksPerBeat
	for b, chord := range prog.Chords {
		root, ok := theory.BassNote(chord)
		if !ok {
			continue
		}
		start := barTick(b)
		t.note(bassChannel, uint8(root), bassVelocity, start, start+half)
		t.note(bassChannel, uint8(root), bassPushVelocity, start+half, start+beatsPerBar*TicksPerBeat-releaseGap)
	}
	return t
}

func drumTrack(prog *models.Progression) *track {
	t := &track{name: "Drums"}
	d := prog.Drums
	length := d.LengthBeats()
	dur := uint32(math.Round(TicksPerBeat * drumLengthPerBeat))

	for b := 0; b < bars(prog); b++ {
		for _, dt := range models.AllDrumTypes {
			positions, _ := d.Track(dt)
			for _, pos := range positions {
				beat := float64(b*beatsPerBar) + math.Mod(pos, length)
				tick := uint32(math.Round(beat * TicksPerBeat))
				t.note(drumChannel, dt.GMNote(), drumVelocity, tick, tick+dur)
			}
		}
	}
	return t
}

// Write encodes part of prog as a format 1 SMF to w
func Write(w io.Writer, prog *models.Progression, part Part) error {
	var tracks []*track
	switch part {
	case PartChords:
		tracks = append(tracks, chordTrack(prog))
	case PartBass:
		tracks = append(tracks, bassTrack(prog))
	case PartDrums:
		if prog.Drums == nil {
			return ErrNoDrums
		}
		tracks = append(tracks, drumTrack(prog))
	case PartAll:
		tracks = append(tracks, chordTrack(prog), bassTrack(prog))
		if prog.Drums != nil {
			tracks = append(tracks, drumTrack(prog))
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPart, part)
	}

	file := smf.NewSMF1()
	file.TimeFormat = smf.MetricTicks(TicksPerBeat)
	for _, t := range tracks {
		if err := file.Add(t.build(tempo(prog))); err != nil {
			return fmt.Errorf("add %s track: %w", t.name, err)
		}
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("write midi: %w", err)
	}
	return nil
}

// Bytes encodes part of prog in memory
func Bytes(prog *models.Progression, part Part) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, prog, part); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
