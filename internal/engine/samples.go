package engine

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
)

const (
	resampleQuality = 4
	preloadWorkers  = 4
	decodeChunk     = 512
)

// SampleCache decodes WAV samples from a file system, converts them to
// mono at the engine rate and keeps them in memory. Concurrent loads of
// the same path share one decode.
type SampleCache struct {
	fsys fs.FS
	rate beep.SampleRate

	mu      sync.RWMutex
	buffers map[string]Buffer

	inflight singleflight.Group
}

// NewSampleCache creates a cache reading pack-relative paths from fsys
func NewSampleCache(fsys fs.FS, rate beep.SampleRate) *SampleCache {
	return &SampleCache{
		fsys:    fsys,
		rate:    rate,
		buffers: make(map[string]Buffer),
	}
}

// Get returns a loaded sample without blocking
func (c *SampleCache) Get(path string) (Buffer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	buf, ok := c.buffers[path]
	return buf, ok
}

// Load returns the sample at path, decoding it on first use
func (c *SampleCache) Load(ctx context.Context, path string) (Buffer, error) {
	if buf, ok := c.Get(path); ok {
		return buf, nil
	}

	ch := c.inflight.DoChan(path, func() (interface{}, error) {
		// Double-check after winning the flight
		if buf, ok := c.Get(path); ok {
			return buf, nil
		}
		buf, err := c.decode(path)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.buffers[path] = buf
		c.mu.Unlock()
		return buf, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Buffer), nil
	}
}

func (c *SampleCache) decode(path string) (Buffer, error) {
	f, err := c.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sample %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sample %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != c.rate {
		s = beep.Resample(resampleQuality, format.SampleRate, c.rate, streamer)
	}

	var out Buffer
	chunk := make([][2]float64, decodeChunk)
	for {
		n, ok := s.Stream(chunk)
		for _, frame := range chunk[:n] {
			out = append(out, (frame[0]+frame[1])/2)
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read sample %s: %w", path, err)
	}
	return out, nil
}

// PreloadPack loads every sample of m. The first failure cancels the rest.
func (c *SampleCache) PreloadPack(ctx context.Context, m *genre.Manifest) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(preloadWorkers)
	for _, path := range m.Paths() {
		g.Go(func() error {
			_, err := c.Load(ctx, path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("preload pack %s: %w", m.ID, err)
	}
	return nil
}

// IsPackLoaded reports whether every sample of m is in memory
func (c *SampleCache) IsPackLoaded(m *genre.Manifest) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, path := range m.Paths() {
		if _, ok := c.buffers[path]; !ok {
			return false
		}
	}
	return true
}

// repitch plays buf back at ratio times its speed with linear interpolation
func repitch(buf Buffer, ratio float64) Buffer {
	if ratio == 1 || ratio <= 0 || len(buf) == 0 {
		return buf
	}
	n := int(float64(len(buf)) / ratio)
	out := make(Buffer, n)
	for i := range out {
		x := float64(i) * ratio
		j := int(x)
		if j+1 >= len(buf) {
			out[i] = buf[len(buf)-1]
			continue
		}
		frac := x - float64(j)
		out[i] = buf[j]*(1-frac) + buf[j+1]*frac
	}
	return out
}
