package models

// DefaultPatternLengthBeats is the bar length used when a pattern does not state one
const DefaultPatternLengthBeats = 4

// DrumPattern is the flat beat-position representation shared by the
// converter, the coherence rules, the exporters and playback. For each
// drum voice it holds beat offsets within one bar and a parallel slice of
// velocities. Velocity slices may be absent, in which case every hit plays
// at full velocity.
type DrumPattern struct {
	PatternLengthBeats float64 `json:"patternLengthBeats"`

	Kicks  []float64 `json:"kicks"`
	Snares []float64 `json:"snares"`
	Hihats []float64 `json:"hihats"`
	Claps  []float64 `json:"claps"`
	Ohats  []float64 `json:"ohats"`

	KickVels  []float64 `json:"kickVels,omitempty"`
	SnareVels []float64 `json:"snareVels,omitempty"`
	HihatVels []float64 `json:"hihatVels,omitempty"`
	ClapVels  []float64 `json:"clapVels,omitempty"`
	OhatVels  []float64 `json:"ohatVels,omitempty"`

	Crashes   []float64 `json:"crashes,omitempty"`
	Rides     []float64 `json:"rides,omitempty"`
	HighToms  []float64 `json:"highToms,omitempty"`
	MidToms   []float64 `json:"midToms,omitempty"`
	FloorToms []float64 `json:"floorToms,omitempty"`

	CrashVels    []float64 `json:"crashVels,omitempty"`
	RideVels     []float64 `json:"rideVels,omitempty"`
	HighTomVels  []float64 `json:"highTomVels,omitempty"`
	MidTomVels   []float64 `json:"midTomVels,omitempty"`
	FloorTomVels []float64 `json:"floorTomVels,omitempty"`
}

// NewDrumPattern returns an empty pattern with the core tracks allocated
func NewDrumPattern(lengthBeats float64) *DrumPattern {
	return &DrumPattern{
		PatternLengthBeats: lengthBeats,
		Kicks:              []float64{},
		Snares:             []float64{},
		Hihats:             []float64{},
		Claps:              []float64{},
		Ohats:              []float64{},
	}
}

func (p *DrumPattern) fields(d DrumType) (*[]float64, *[]float64) {
	switch d {
	case Kick:
		return &p.Kicks, &p.KickVels
	case Snare:
		return &p.Snares, &p.SnareVels
	case Hihat:
		return &p.Hihats, &p.HihatVels
	case Clap:
		return &p.Claps, &p.ClapVels
	case Ohat:
		return &p.Ohats, &p.OhatVels
	case Crash:
		return &p.Crashes, &p.CrashVels
	case Ride:
		return &p.Rides, &p.RideVels
	case HighTom:
		return &p.HighToms, &p.HighTomVels
	case MidTom:
		return &p.MidToms, &p.MidTomVels
	case FloorTom:
		return &p.FloorToms, &p.FloorTomVels
	}
	return nil, nil
}

// Track returns the positions and velocities stored for d. The returned
// slices alias the pattern.
func (p *DrumPattern) Track(d DrumType) (positions, velocities []float64) {
	pos, vels := p.fields(d)
	if pos == nil {
		return nil, nil
	}
	return *pos, *vels
}

// SetTrack replaces the positions and velocities stored for d
func (p *DrumPattern) SetTrack(d DrumType, positions, velocities []float64) {
	pos, vels := p.fields(d)
	if pos == nil {
		return
	}
	*pos = positions
	*vels = velocities
}

// Velocity returns the velocity of hit i on d, defaulting to 1.0 when no
// velocity was recorded for it.
func (p *DrumPattern) Velocity(d DrumType, i int) float64 {
	_, vels := p.Track(d)
	if i < len(vels) {
		return vels[i]
	}
	return 1.0
}

// LengthBeats returns the bar length in beats, falling back to 4
func (p *DrumPattern) LengthBeats() float64 {
	if p.PatternLengthBeats > 0 {
		return p.PatternLengthBeats
	}
	return DefaultPatternLengthBeats
}

// HitCount returns the number of hits across all voices
func (p *DrumPattern) HitCount() int {
	n := 0
	for _, d := range AllDrumTypes {
		pos, _ := p.Track(d)
		n += len(pos)
	}
	return n
}

// Clone returns a deep copy of the pattern
func (p *DrumPattern) Clone() *DrumPattern {
	if p == nil {
		return nil
	}
	out := &DrumPattern{PatternLengthBeats: p.PatternLengthBeats}
	for _, d := range AllDrumTypes {
		pos, vels := p.Track(d)
		out.SetTrack(d, cloneFloats(pos), cloneFloats(vels))
	}
	return out
}

func cloneFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}

// Progression is a chord progression with its tempo, style metadata and drum groove
type Progression struct {
	Chords      []string     `json:"chords"`
	Tempo       float64      `json:"tempo"`
	Key         string       `json:"key"`
	Genre       string       `json:"genre"`
	Mood        string       `json:"mood"`
	Bars        int          `json:"bars,omitempty"`
	Description string       `json:"description,omitempty"`
	Label       string       `json:"label,omitempty"`
	Swing       float64      `json:"swing"`
	Drums       *DrumPattern `json:"drums,omitempty"`
}

// Clone returns a copy of the progression that shares no slices with p
func (p *Progression) Clone() *Progression {
	out := *p
	out.Chords = append([]string(nil), p.Chords...)
	out.Drums = p.Drums.Clone()
	return &out
}

// MelodyNote is a single melody note placed within a bar
type MelodyNote struct {
	Bar           int     `json:"bar"`
	BeatOffset    float64 `json:"beatOffset"`
	MIDI          int     `json:"midi"`
	DurationBeats float64 `json:"durationBeats"`
}
