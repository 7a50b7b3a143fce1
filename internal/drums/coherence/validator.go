// Package coherence repairs generated drum patterns that break basic
// musical expectations or the hard rules of their genre.
package coherence

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// Velocities given to hits the rules inject
const (
	anchorVelocity = 1.0
	backbeatVel    = 0.9
	fillHatVel     = 0.7
)

const (
	downbeatWindow    = 0.25
	grooveTolerance   = 0.15
	drillKickWindow   = 0.1
	complexChordLimit = 3
	denseHatCount     = 14

	reggaetonMaxSwing = 10
	houseMaxSwing     = 15
	houseSwingCap     = 10
)

var (
	complexChord = regexp.MustCompile(`maj9|m11|\b13\b|alt|#11|b9|#9|add9`)

	dembowSnares    = []float64{0.5, 1.5, 2.5, 3.5}
	fourOnFloor     = []float64{0, 1, 2, 3}
	defaultBackbeat = []float64{1, 3}
	dembowClaps     = []float64{0.5, 2.5}
	straightSixteen = []float64{
		0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75,
		2, 2.25, 2.5, 2.75, 3, 3.25, 3.5, 3.75,
	}

	clapGenres = []string{"reggaeton", "house", "gospel", "rnb", "soul", "funk", "drill"}
)

// Result is a corrected copy of a progression's groove
type Result struct {
	Drums    *models.DrumPattern `json:"drums"`
	Swing    float64             `json:"swing"`
	Warnings []string            `json:"warnings"`
}

// Changed reports whether any rule fired
func (r Result) Changed() bool {
	return len(r.Warnings) > 0
}

// track is one voice with a velocity for every hit
type track struct {
	pos []float64
	vel []float64
}

func readTrack(p *models.DrumPattern, d models.DrumType) track {
	pos, _ := p.Track(d)
	t := track{pos: slices.Clone(pos), vel: make([]float64, len(pos))}
	for i := range pos {
		t.vel[i] = p.Velocity(d, i)
	}
	return t
}

func uniform(pos []float64, v float64) track {
	t := track{pos: slices.Clone(pos), vel: make([]float64, len(pos))}
	for i := range t.vel {
		t.vel[i] = v
	}
	return t
}

func (t track) has(match func(float64) bool) bool {
	return slices.ContainsFunc(t.pos, match)
}

func (t track) covers(beats []float64, tol float64) bool {
	for _, b := range beats {
		if !t.has(func(x float64) bool { return math.Abs(x-b) < tol }) {
			return false
		}
	}
	return true
}

func (t track) filter(keep func(i int, pos float64) bool) track {
	var out track
	for i, x := range t.pos {
		if keep(i, x) {
			out.pos = append(out.pos, x)
			out.vel = append(out.vel, t.vel[i])
		}
	}
	if out.pos == nil {
		out.pos, out.vel = []float64{}, []float64{}
	}
	return out
}

// withDownbeat prepends a hit at 0 and re-sorts, carrying velocities along
func (t track) withDownbeat() track {
	out := track{
		pos: append([]float64{0}, t.pos...),
		vel: append([]float64{anchorVelocity}, t.vel...),
	}
	sort.Stable(out)
	return out
}

func (t track) Len() int           { return len(t.pos) }
func (t track) Less(i, j int) bool { return t.pos[i] < t.pos[j] }
func (t track) Swap(i, j int) {
	t.pos[i], t.pos[j] = t.pos[j], t.pos[i]
	t.vel[i], t.vel[j] = t.vel[j], t.vel[i]
}

// Validate checks prog against the coherence rules and returns the
// corrected drums and swing together with one warning per rule that fired.
// prog is not modified. A progression without drums yields no warnings.
//
// Every rule inspects the voices as they were before any rule ran, except
// that the house and drill kick rules see the downbeat anchor.
func Validate(prog *models.Progression) Result {
	res := Result{Swing: prog.Swing, Warnings: []string{}}
	if prog.Drums == nil {
		return res
	}

	drums := prog.Drums.Clone()
	res.Drums = drums
	genre := strings.ToLower(prog.Genre)

	kicks := readTrack(drums, models.Kick)
	snares := readTrack(drums, models.Snare)
	hihats := readTrack(drums, models.Hihat)
	claps := readTrack(drums, models.Clap)

	warn := func(format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
	}
	set := func(d models.DrumType, t track) {
		drums.SetTrack(d, t.pos, t.vel)
	}

	if !kicks.has(func(x float64) bool { return x < downbeatWindow }) {
		warn("no-beat0-kick: injecting downbeat anchor")
		kicks = kicks.withDownbeat()
		set(models.Kick, kicks)
	}

	if snares.Len() == 0 {
		warn("no-snare: adding default backbeat")
		set(models.Snare, uniform(defaultBackbeat, backbeatVel))
	}

	complexCount := 0
	for _, c := range prog.Chords {
		if complexChord.MatchString(c) {
			complexCount++
		}
	}
	if complexCount >= complexChordLimit && hihats.Len() >= denseHatCount {
		warn("complexity-overload: %d complex chords + %d hats, thinning hats", complexCount, hihats.Len())
		set(models.Hihat, hihats.filter(func(i int, _ float64) bool { return i%2 == 0 }))
	}

	switch genre {
	case "reggaeton":
		if !snares.covers(dembowSnares, grooveTolerance) {
			warn("missing-dembow: correcting snare to canonical dembow pattern")
			set(models.Snare, uniform(dembowSnares, backbeatVel))
		}
		if res.Swing > reggaetonMaxSwing {
			warn("reggaeton-swing-correction: swing forced to 0")
			res.Swing = 0
		}
		if hihats.Len() < denseHatCount {
			warn("reggaeton-hats: filling to straight 16ths")
			set(models.Hihat, uniform(straightSixteen, fillHatVel))
		}

	case "house":
		if !kicks.covers(fourOnFloor, grooveTolerance) {
			warn("missing-four-on-floor: correcting kick")
			set(models.Kick, uniform(fourOnFloor, anchorVelocity))
		}
		if res.Swing > houseMaxSwing {
			warn("house-swing-correction: swing capped at 10")
			res.Swing = houseSwingCap
		}

	case "drill":
		onBeat3 := func(x float64) bool { return math.Abs(x-2) < drillKickWindow }
		if kicks.has(onBeat3) {
			warn("drill-beat3-kick: removing kick from beat 3")
			set(models.Kick, kicks.filter(func(_ int, x float64) bool { return !onBeat3(x) }))
		}
	}

	if slices.Contains(clapGenres, genre) && claps.Len() == 0 {
		warn("%s-claps: adding default clap pattern", genre)
		pattern := defaultBackbeat
		if genre == "reggaeton" {
			pattern = dembowClaps
		}
		set(models.Clap, uniform(pattern, backbeatVel))
	}

	return res
}

// Apply runs Validate and writes the corrections back into prog. The
// caller must own prog exclusively.
func Apply(prog *models.Progression) []string {
	res := Validate(prog)
	if res.Changed() {
		prog.Drums = res.Drums
		prog.Swing = res.Swing
	}
	return res.Warnings
}
