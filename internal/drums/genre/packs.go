package genre

import (
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// PackID names a drum sample pack
type PackID string

const (
	PackCommon    PackID = "common"
	PackTrap      PackID = "trap"
	PackLofi      PackID = "lofi"
	PackBoomBap   PackID = "boom_bap"
	PackDrill     PackID = "drill"
	PackJazz      PackID = "jazz"
	PackGospel    PackID = "gospel"
	PackHouse     PackID = "house"
	PackRnB       PackID = "rnb"
	PackAfrobeats PackID = "afrobeats"
	PackFunk      PackID = "funk"
)

// SampleEntry is one round-robin sample of a drum voice
type SampleEntry struct {
	Path       string  `json:"path"`
	Gain       float64 `json:"gain,omitempty"`       // 0 means 1
	PitchCents float64 `json:"pitchCents,omitempty"` // base offset
}

// Manifest lists the samples of one pack. Every core voice has at least
// one entry.
type Manifest struct {
	ID    PackID                            `json:"id"`
	Label string                            `json:"label"`
	Drums map[models.DrumType][]SampleEntry `json:"drums"`
}

// Paths returns every sample path in the manifest
func (m *Manifest) Paths() []string {
	var out []string
	for _, d := range models.AllDrumTypes {
		for _, e := range m.Drums[d] {
			out = append(out, e.Path)
		}
	}
	return out
}

type voiceCounts map[models.DrumType]int

var defaultCounts = voiceCounts{
	models.Kick:  2,
	models.Snare: 2,
	models.Hihat: 3,
	models.Ohat:  2,
	models.Clap:  2,
}

func manifest(id PackID, label string, overrides voiceCounts) *Manifest {
	m := &Manifest{ID: id, Label: label, Drums: map[models.DrumType][]SampleEntry{}}
	for _, d := range models.CoreDrumTypes {
		n := defaultCounts[d]
		if o, ok := overrides[d]; ok {
			n = o
		}
		entries := make([]SampleEntry, n)
		for i := range entries {
			entries[i] = SampleEntry{Path: SamplePath(id, d, i+1)}
		}
		m.Drums[d] = entries
	}
	return m
}

// SamplePath is the pack-relative path of round-robin variant n (1-based)
func SamplePath(id PackID, d models.DrumType, n int) string {
	return fmt.Sprintf("%s/%s_%d.wav", id, d, n)
}

var packOrder = []*Manifest{
	manifest(PackCommon, "Common", nil),
	manifest(PackTrap, "Trap", voiceCounts{models.Kick: 3, models.Hihat: 4}),
	manifest(PackLofi, "Lo-Fi", nil),
	manifest(PackBoomBap, "Boom Bap", nil),
	manifest(PackDrill, "Drill", voiceCounts{models.Hihat: 4}),
	manifest(PackJazz, "Jazz", nil),
	manifest(PackGospel, "Gospel", nil),
	manifest(PackHouse, "House", nil),
	manifest(PackRnB, "R&B", nil),
	manifest(PackAfrobeats, "Afrobeats", nil),
	manifest(PackFunk, "Funk", nil),
}

var registry = func() map[PackID]*Manifest {
	out := make(map[PackID]*Manifest, len(packOrder))
	for _, m := range packOrder {
		out[m.ID] = m
	}
	return out
}()

// Packs returns every manifest in registry order
func Packs() []*Manifest {
	return packOrder
}

// Pack returns the manifest for id
func Pack(id PackID) (*Manifest, bool) {
	m, ok := registry[id]
	return m, ok
}

var genrePacks = map[string]PackID{
	"trap":      PackTrap,
	"drill":     PackDrill,
	"lofi":      PackLofi,
	"lo-fi":     PackLofi,
	"boombap":   PackBoomBap,
	"boom bap":  PackBoomBap,
	"hiphop":    PackBoomBap,
	"hip-hop":   PackBoomBap,
	"hip hop":   PackBoomBap,
	"rnb":       PackRnB,
	"r&b":       PackRnB,
	"soul":      PackRnB,
	"jazz":      PackJazz,
	"gospel":    PackGospel,
	"house":     PackHouse,
	"funk":      PackFunk,
	"afrobeats": PackAfrobeats,
	"amapiano":  PackAfrobeats,
	"reggaeton": PackTrap,
	"dancehall": PackBoomBap,
}

// PackForGenre picks the sample pack for a genre, falling back to common
func PackForGenre(genre string) PackID {
	if id, ok := genrePacks[strings.ToLower(strings.TrimSpace(genre))]; ok {
		return id
	}
	return PackCommon
}
