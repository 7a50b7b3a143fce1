package playback

import (
	"sync"

	"github.com/Conceptual-Machines/groove-api/internal/models"
)

// AnyDrum subscribes to every drum type
const AnyDrum = "*"

// DrumHit is published for every drum hit handed to the renderer
type DrumHit struct {
	Drum     models.DrumType `json:"drum"`
	Velocity float64         `json:"velocity"`
	Time     float64         `json:"time"` // audio-clock seconds the hit sounds at
}

// Bus fans drum hits out to listeners. Hits are published when they are
// scheduled, ahead of Time.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[string]map[int]func(DrumHit)
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{listeners: make(map[string]map[int]func(DrumHit))}
}

// OnDrumHit registers fn for hits of drum, or for every hit when drum is
// AnyDrum. The returned function removes the listener and is safe to
// call more than once.
func (b *Bus) OnDrumHit(drum string, fn func(DrumHit)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	if b.listeners[drum] == nil {
		b.listeners[drum] = make(map[int]func(DrumHit))
	}
	b.listeners[drum][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners[drum], id)
	}
}

// Emit notifies the listeners of hit.Drum and then the wildcard listeners
func (b *Bus) Emit(hit DrumHit) {
	b.mu.RLock()
	fns := make([]func(DrumHit), 0, len(b.listeners[string(hit.Drum)])+len(b.listeners[AnyDrum]))
	for _, key := range []string{string(hit.Drum), AnyDrum} {
		for _, fn := range b.listeners[key] {
			fns = append(fns, fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(hit)
	}
}
