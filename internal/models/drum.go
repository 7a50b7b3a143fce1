package models

import (
	"errors"
	"fmt"
)

// DrumType identifies one percussion voice. The set is closed; use
// ParseDrumType to turn untrusted input into a DrumType.
type DrumType string

const (
	Kick     DrumType = "kick"
	Snare    DrumType = "snare"
	Hihat    DrumType = "hihat"
	Ohat     DrumType = "ohat"
	Clap     DrumType = "clap"
	Crash    DrumType = "crash"
	Ride     DrumType = "ride"
	HighTom  DrumType = "high_tom"
	MidTom   DrumType = "mid_tom"
	FloorTom DrumType = "floor_tom"
)

// ErrUnknownDrumType is returned when a string does not name a drum voice
var ErrUnknownDrumType = errors.New("unknown drum type")

// CoreDrumTypes are the five voices every pattern and sample pack carries
var CoreDrumTypes = []DrumType{Kick, Snare, Hihat, Ohat, Clap}

// AllDrumTypes lists every drum voice in canonical order
var AllDrumTypes = []DrumType{Kick, Snare, Hihat, Ohat, Clap, Crash, Ride, HighTom, MidTom, FloorTom}

// ParseDrumType validates s against the closed set of drum voices
func ParseDrumType(s string) (DrumType, error) {
	d := DrumType(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDrumType, s)
	}
	return d, nil
}

// Valid reports whether d is one of the known drum voices
func (d DrumType) Valid() bool {
	switch d {
	case Kick, Snare, Hihat, Ohat, Clap, Crash, Ride, HighTom, MidTom, FloorTom:
		return true
	}
	return false
}

// IsCore reports whether d is one of the five core voices
func (d DrumType) IsCore() bool {
	switch d {
	case Kick, Snare, Hihat, Ohat, Clap:
		return true
	}
	return false
}

// UnmarshalText rejects unknown drum names
func (d *DrumType) UnmarshalText(text []byte) error {
	parsed, err := ParseDrumType(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GMNote returns the General MIDI percussion key for d
func (d DrumType) GMNote() uint8 {
	switch d {
	case Kick:
		return 36
	case Snare:
		return 38
	case Hihat:
		return 42
	case Ohat:
		return 46
	case Clap:
		return 39
	case Crash:
		return 49
	case Ride:
		return 51
	case HighTom:
		return 50
	case MidTom:
		return 47
	case FloorTom:
		return 43
	}
	return 0
}
