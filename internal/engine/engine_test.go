package engine

import (
	"context"
	"errors"
	"math"
	"testing"
	"testing/fstest"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/models"
)

func render(e *Engine, frames int) [][2]float64 {
	out := make([][2]float64, frames)
	n, ok := e.Stream(out)
	if n != frames || !ok {
		panic("engine stream ended")
	}
	return out
}

func framePeak(frames [][2]float64) float64 {
	var p float64
	for _, f := range frames {
		p = math.Max(p, math.Max(math.Abs(f[0]), math.Abs(f[1])))
	}
	return p
}

func newTestEngine(samples *SampleCache) *Engine {
	return New(Config{SampleRate: 44100, Samples: samples, Rand: seeded(3)})
}

func TestEngineClock(t *testing.T) {
	e := newTestEngine(nil)
	assert.Equal(t, 0.0, e.CurrentTime())

	render(e, 44100)
	assert.InDelta(t, 1.0, e.CurrentTime(), 1e-12)
	render(e, 22050)
	assert.InDelta(t, 1.5, e.CurrentTime(), 1e-12)
	assert.NoError(t, e.Err())
}

func TestEngineSilentWithoutVoices(t *testing.T) {
	e := newTestEngine(nil)
	assert.Equal(t, 0.0, framePeak(render(e, 1024)))
}

func TestSynthKickIsAudible(t *testing.T) {
	e := newTestEngine(nil)
	e.Play(models.Kick, 0, 1)
	assert.Greater(t, framePeak(render(e, 4410)), 0.05)

	// the kick has finished after its 200ms
	render(e, 44100)
	assert.Equal(t, 0, e.ActiveVoices())
}

func TestFutureHitWaitsForItsTime(t *testing.T) {
	e := newTestEngine(nil)
	e.Play(models.Snare, 0.5, 1)

	assert.Equal(t, 0.0, framePeak(render(e, 4410)))
	assert.Equal(t, 1, e.ActiveVoices())

	render(e, 18000) // up to ~0.51s
	assert.Greater(t, framePeak(render(e, 4410)), 0.01)
}

func TestPastHitPlaysNow(t *testing.T) {
	e := newTestEngine(nil)
	render(e, 44100)
	e.Play(models.Clap, 0.2, 1)
	assert.Greater(t, framePeak(render(e, 4410)), 0.01)
}

func TestZeroVelocityIsSilent(t *testing.T) {
	e := newTestEngine(nil)
	e.Play(models.Kick, 0, 0)
	assert.Equal(t, 0.0, framePeak(render(e, 4410)))
}

func TestUnknownDrumIsIgnored(t *testing.T) {
	e := newTestEngine(nil)
	e.Play("cowbell", 0, 1)
	assert.Equal(t, 0, e.ActiveVoices())
}

func TestHatPanning(t *testing.T) {
	e := newTestEngine(nil)
	e.Play(models.Hihat, 0, 1)
	out := render(e, 2205)

	var left, right float64
	for _, f := range out {
		left += math.Abs(f[0])
		right += math.Abs(f[1])
	}
	// closed hat sits right of centre
	assert.Greater(t, right, left)
}

func TestClosedHatChokesOpenHat(t *testing.T) {
	e := newTestEngine(nil)
	e.Play(models.Ohat, 0, 1)
	e.Play(models.Hihat, 0.01, 1)

	require.NotNil(t, e.openHat)
	assert.Equal(t, int64(441), e.openHat.chokeAt)
	assert.Equal(t, int64(441+e.rate.N(chokeFade)), e.openHat.end())

	// a closed hat before the open hat starts leaves it alone
	e2 := newTestEngine(nil)
	e2.Play(models.Ohat, 0.5, 1)
	e2.Play(models.Hihat, 0.1, 1)
	assert.Equal(t, int64(-1), e2.openHat.chokeAt)
}

func TestOpenHatChokedByEarlierScheduledClosedHat(t *testing.T) {
	e := newTestEngine(nil)
	// a bar's closed hats are scheduled before its open hats
	e.Play(models.Hihat, 0, 1)
	e.Play(models.Hihat, 0.02, 1)
	e.Play(models.Ohat, 0.01, 1)

	require.NotNil(t, e.openHat)
	assert.Equal(t, int64(882), e.openHat.chokeAt)

	// rendered closed hats are forgotten
	render(e, 2205)
	assert.Empty(t, e.closedHats)
	e.Play(models.Ohat, 0, 1)
	assert.Equal(t, int64(-1), e.openHat.chokeAt)
}

func TestLoadPackUnknown(t *testing.T) {
	e := newTestEngine(nil)
	err := e.LoadPack(context.Background(), "polka")
	assert.True(t, errors.Is(err, ErrUnknownPack))
	assert.Equal(t, genre.PackID(""), e.Pack())
}

func TestPackRoundRobin(t *testing.T) {
	fsys := fstest.MapFS{}
	for n, level := range []float64{0.5, -0.5, 0.25} {
		fsys[genre.SamplePath(genre.PackTrap, models.Kick, n+1)] = &fstest.MapFile{Data: wavBytes(t, 44100, level, 100)}
	}
	cache := NewSampleCache(fsys, 44100)
	for path := range fsys {
		_, err := cache.Load(context.Background(), path)
		require.NoError(t, err)
	}
	e := newTestEngine(cache)
	err := e.LoadPack(context.Background(), genre.PackTrap)
	require.Error(t, err, "only kicks are present")
	assert.Equal(t, genre.PackTrap, e.Pack())

	first := func() float64 {
		e.Play(models.Kick, 0, 1)
		out := render(e, 100)
		e.Reset()
		return out[10][0]
	}
	assert.Greater(t, first(), 0.0)
	assert.Less(t, first(), 0.0)
	assert.Greater(t, first(), 0.0)
	assert.Greater(t, first(), 0.0, "wraps to the first variant")

	// LoadPack restarts the rotation
	_ = e.LoadPack(context.Background(), genre.PackTrap)
	assert.Greater(t, first(), 0.0)
	assert.Less(t, first(), 0.0)
}

func TestUnloadedSampleFallsBackToSynth(t *testing.T) {
	e := newTestEngine(NewSampleCache(fstest.MapFS{}, 44100))
	require.Error(t, e.LoadPack(context.Background(), genre.PackLofi))

	e.Play(models.Snare, 0, 1)
	assert.Greater(t, framePeak(render(e, 4410)), 0.01)

	e.ClearPack()
	assert.Equal(t, genre.PackID(""), e.Pack())
}

func TestPackSampleGainUsesVelocityCurve(t *testing.T) {
	e := newTestEngine(NewSampleCache(packFS(t, genre.PackCommon, 0.1), 44100))
	require.NoError(t, e.LoadPack(context.Background(), genre.PackCommon))
	e.SetMix(MixState{DrumIntensity: 1, DrumBusVolume: 0.6})

	e.Play(models.Kick, 0, 0.25)
	out := render(e, 100)
	// 0.1 * 0.25^1.5 * bus gain 0.6, well under the compressor threshold
	assert.InDelta(t, 0.1*0.125*0.6, out[50][0], 1e-3)
}

func TestChordBassMelodyAreAudible(t *testing.T) {
	tests := []struct {
		name string
		play func(e *Engine)
	}{
		{"chord", func(e *Engine) { e.PlayChord([]int{60, 64, 67}, 0, 0.5) }},
		{"bass", func(e *Engine) { e.PlayBass(48, 0, 0.5) }},
		{"melody", func(e *Engine) { e.PlayMelody(72, 0, 0.5, 0.8) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(nil)
			tt.play(e)
			assert.Greater(t, framePeak(render(e, 4410)), 0.01)
		})
	}
}

func TestInstrumentAndMix(t *testing.T) {
	e := newTestEngine(nil)
	assert.Equal(t, Piano, e.Instrument())
	e.SetInstrument(Organ)
	assert.Equal(t, Organ, e.Instrument())

	assert.Equal(t, DefaultMix(), e.Mix())
	m := DefaultMix()
	m.DrumIntensity = 0.2
	e.SetMix(m)
	assert.Equal(t, m, e.Mix())
}

func TestFormat(t *testing.T) {
	e := newTestEngine(nil)
	assert.Equal(t, beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}, e.Format())
}

func TestLimit(t *testing.T) {
	assert.Equal(t, 0.5, limit(0.5))
	assert.Less(t, limit(0.95), 0.95)
	assert.Greater(t, limit(0.95), 0.8)
	assert.Equal(t, -limit(0.95), limit(-0.95))
	assert.LessOrEqual(t, limit(100), 1.0)
}

func TestWAVBufferSeek(t *testing.T) {
	var b WAVBuffer
	_, _ = b.Write([]byte("abcdef"))
	_, err := b.Seek(1, 0)
	require.NoError(t, err)
	_, _ = b.Write([]byte("XY"))
	assert.Equal(t, "aXYdef", string(b.Bytes()))

	pos, err := b.Seek(-1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), pos)

	_, err = b.Seek(-10, 0)
	assert.Error(t, err)
}

func TestBufferStreamer(t *testing.T) {
	buf := Buffer{0.1, -0.2, 0.3}
	s := buf.Streamer()

	out := make([][2]float64, 2)
	n, ok := s.Stream(out)
	require.True(t, ok)
	require.Equal(t, 2, n)
	assert.Equal(t, [2]float64{0.1, 0.1}, out[0])
	assert.Equal(t, [2]float64{-0.2, -0.2}, out[1])

	n, ok = s.Stream(out)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = s.Stream(out)
	assert.False(t, ok)
	assert.Zero(t, n)
}
