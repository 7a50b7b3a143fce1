package patterns

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// Step symbols of the text notation
const (
	symAccent = 'X'
	symHit    = 'x'
	symGhost  = 'o'
	symMaybe  = '?'
	symRest   = '.'
	symRest2  = '-'
	symBar    = '|'

	accentVel = 1.0
	hitVel    = 0.8
	ghostVel  = 0.4
	maybeVel  = 0.7
	maybeProb = 0.5

	maxNumerator    = 16
	maxDenominator  = 32
	maxStepsPerBeat = 8
)

// ErrNotation is wrapped by every ParseNotation error
var ErrNotation = errors.New("invalid pattern notation")

// ParseNotation reads a pattern written one voice per line:
//
//	name: Basic Rock
//	ts: 4/4
//	kick:  X...|....|X...|....
//	snare: ....|X...|....|X...
//	hihat: x.x.|x.x.|x.x.|x.x.
//
// X is an accent, x a hit, o a ghost note and ? a hit that plays half the
// time. '.' and '-' are rests, '|' is ignored. Header keys are name, ts,
// steps (per beat 1-8, default 4), bpm (lo-hi) and tags (comma separated).
// Missing core voices are filled with rests.
func ParseNotation(src string) (*StepGridPattern, error) {
	p := &StepGridPattern{
		ID:            "custom",
		Name:          "Custom",
		Category:      CategoryMisc,
		TimeSignature: fourFour,
		BPMRange:      [2]float64{60, 180},
		StepsPerBeat:  4,
		Tracks:        map[models.DrumType]*StepTrack{},
	}

	rows := map[models.DrumType]string{}
	var order []models.DrumType

	sc := bufio.NewScanner(strings.NewReader(src))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: expected \"key: value\"", ErrNotation, lineNo)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := p.applyHeader(key, value); err == nil {
			continue
		} else if !errors.Is(err, errNotHeader) {
			return nil, fmt.Errorf("%w: line %d: %v", ErrNotation, lineNo, err)
		}

		d, err := models.ParseDrumType(key)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrNotation, lineNo, err)
		}
		if _, dup := rows[d]; dup {
			return nil, fmt.Errorf("%w: line %d: %s given twice", ErrNotation, lineNo, d)
		}
		rows[d] = value
		order = append(order, d)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotation, err)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: no drum lines", ErrNotation)
	}

	p.TotalSteps = p.TimeSignature.Numerator * p.StepsPerBeat
	for _, d := range order {
		tr, err := parseSteps(rows[d], p.TotalSteps)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNotation, d, err)
		}
		p.Tracks[d] = tr
	}
	for _, d := range models.CoreDrumTypes {
		if p.Tracks[d] == nil {
			p.Tracks[d] = empty(p.TotalSteps)
		}
	}
	if len(p.GenreTags) == 0 {
		p.GenreTags = []string{"custom"}
	}
	return p, nil
}

var errNotHeader = errors.New("not a header")

func (p *StepGridPattern) applyHeader(key, value string) error {
	switch key {
	case "name":
		p.Name = value
		if id := slug(value); id != "" {
			p.ID = id
		}
	case "ts":
		num, den, ok := strings.Cut(value, "/")
		n, err1 := strconv.Atoi(strings.TrimSpace(num))
		d, err2 := strconv.Atoi(strings.TrimSpace(den))
		if !ok || err1 != nil || err2 != nil || n <= 0 || d <= 0 || n > maxNumerator || d > maxDenominator {
			return fmt.Errorf("bad time signature %q", value)
		}
		p.TimeSignature = TimeSignature{Numerator: n, Denominator: d}
	case "steps":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > maxStepsPerBeat {
			return fmt.Errorf("bad steps per beat %q", value)
		}
		p.StepsPerBeat = n
	case "bpm":
		lo, hi, ok := strings.Cut(value, "-")
		l, err1 := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		h, err2 := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if !ok || err1 != nil || err2 != nil || l <= 0 || h < l {
			return fmt.Errorf("bad bpm range %q", value)
		}
		p.BPMRange = [2]float64{l, h}
	case "tags":
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				p.GenreTags = append(p.GenreTags, t)
			}
		}
	case "swing":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("bad swing flag %q", value)
		}
		p.SwingCapable = b
	default:
		return errNotHeader
	}
	return nil
}

func parseSteps(row string, want int) (*StepTrack, error) {
	steps := make([]StepData, 0, want)
	for _, r := range row {
		switch r {
		case symBar, ' ', '\t':
		case symRest, symRest2:
			steps = append(steps, StepData{Probability: 1})
		case symAccent:
			steps = append(steps, on(accentVel))
		case symHit:
			steps = append(steps, on(hitVel))
		case symGhost:
			steps = append(steps, on(ghostVel))
		case symMaybe:
			steps = append(steps, maybe(maybeVel, maybeProb))
		default:
			return nil, fmt.Errorf("unexpected %q", r)
		}
		if len(steps) > want {
			return nil, fmt.Errorf("more than %d steps", want)
		}
	}
	if len(steps) != want {
		return nil, fmt.Errorf("got %d steps, want %d", len(steps), want)
	}
	return &StepTrack{Steps: steps}, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// FormatNotation writes p in the notation ParseNotation reads, one bar
// separator per beat
func FormatNotation(p *StepGridPattern) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name: %s\n", p.Name)
	fmt.Fprintf(&b, "ts: %s\n", p.TimeSignature)
	if p.StepsPerBeat != 4 {
		fmt.Fprintf(&b, "steps: %d\n", p.StepsPerBeat)
	}

	width := 0
	for _, d := range models.AllDrumTypes {
		if p.Tracks[d] != nil && len(d) > width {
			width = len(d)
		}
	}
	for _, d := range models.AllDrumTypes {
		tr := p.Tracks[d]
		if tr == nil {
			continue
		}
		fmt.Fprintf(&b, "%-*s ", width+1, string(d)+":")
		for i := 0; i < p.TotalSteps; i++ {
			if i > 0 && p.StepsPerBeat > 0 && i%p.StepsPerBeat == 0 {
				b.WriteByte(symBar)
			}
			var s StepData
			if i < len(tr.Steps) {
				s = tr.Steps[i]
			}
			b.WriteRune(stepSymbol(s))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func stepSymbol(s StepData) rune {
	switch {
	case s.Velocity <= 0:
		return symRest
	case s.Probability < 1:
		return symMaybe
	case s.Velocity >= 0.95:
		return symAccent
	case s.Velocity >= 0.6:
		return symHit
	default:
		return symGhost
	}
}
