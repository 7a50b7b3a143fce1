package engine

import (
	"context"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
)

// wavBytes encodes a constant-level stereo WAV of n frames
func wavBytes(t *testing.T, rate beep.SampleRate, level float64, n int) []byte {
	t.Helper()
	left := n
	s := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if left == 0 {
			return 0, false
		}
		k := min(len(samples), left)
		for i := range samples[:k] {
			samples[i] = [2]float64{level, level}
		}
		left -= k
		return k, true
	})
	var buf WAVBuffer
	require.NoError(t, EncodeWAV(&buf, s, beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}))
	return buf.Bytes()
}

// packFS holds every sample of pack id, each at level
func packFS(t *testing.T, id genre.PackID, level float64) fstest.MapFS {
	t.Helper()
	m, ok := genre.Pack(id)
	require.True(t, ok)
	fsys := fstest.MapFS{}
	for _, p := range m.Paths() {
		fsys[p] = &fstest.MapFile{Data: wavBytes(t, 44100, level, 100)}
	}
	return fsys
}

type countingFS struct {
	fs.FS
	opens atomic.Int32
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

func TestSampleCacheLoad(t *testing.T) {
	fsys := fstest.MapFS{"a.wav": {Data: wavBytes(t, 44100, 0.5, 300)}}
	c := NewSampleCache(fsys, 44100)

	_, ok := c.Get("a.wav")
	assert.False(t, ok)

	buf, err := c.Load(context.Background(), "a.wav")
	require.NoError(t, err)
	require.Len(t, buf, 300)
	assert.InDelta(t, 0.5, buf[10], 1e-3)

	cached, ok := c.Get("a.wav")
	assert.True(t, ok)
	assert.Equal(t, buf, cached)
}

func TestSampleCacheResamples(t *testing.T) {
	fsys := fstest.MapFS{"slow.wav": {Data: wavBytes(t, 22050, 0.25, 1000)}}
	c := NewSampleCache(fsys, 44100)

	buf, err := c.Load(context.Background(), "slow.wav")
	require.NoError(t, err)
	assert.InDelta(t, 2000, len(buf), 20)
}

func TestSampleCacheDecodesOnce(t *testing.T) {
	fsys := &countingFS{FS: fstest.MapFS{"a.wav": {Data: wavBytes(t, 44100, 0.5, 2000)}}}
	c := NewSampleCache(fsys, 44100)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Load(context.Background(), "a.wav")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), fsys.opens.Load())
}

func TestSampleCacheErrors(t *testing.T) {
	c := NewSampleCache(fstest.MapFS{"bad.wav": {Data: []byte("not a wav")}}, 44100)

	_, err := c.Load(context.Background(), "missing.wav")
	assert.ErrorContains(t, err, "open sample missing.wav")

	_, err = c.Load(context.Background(), "bad.wav")
	assert.ErrorContains(t, err, "decode sample bad.wav")
}

func TestPreloadPack(t *testing.T) {
	m, _ := genre.Pack(genre.PackLofi)
	c := NewSampleCache(packFS(t, genre.PackLofi, 0.3), 44100)

	assert.False(t, c.IsPackLoaded(m))
	require.NoError(t, c.PreloadPack(context.Background(), m))
	assert.True(t, c.IsPackLoaded(m))

	trap, _ := genre.Pack(genre.PackTrap)
	assert.False(t, c.IsPackLoaded(trap))
	err := c.PreloadPack(context.Background(), trap)
	assert.ErrorContains(t, err, "preload pack trap")
}

func TestRepitch(t *testing.T) {
	buf := Buffer{0, 1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, buf, repitch(buf, 1))
	assert.Equal(t, Buffer{0, 2, 4, 6}, repitch(buf, 2))
	assert.Equal(t, Buffer{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6, 6.5, 7, 7}, repitch(buf, 0.5))
}
