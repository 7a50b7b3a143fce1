package engine

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// DefaultLatency is the speaker buffer length
const DefaultLatency = 100 * time.Millisecond

// StartSpeaker opens the default audio device and starts pulling frames
// from e. The engine clock then follows the device.
func StartSpeaker(e *Engine, latency time.Duration) error {
	if latency <= 0 {
		latency = DefaultLatency
	}
	if err := speaker.Init(e.rate, e.rate.N(latency)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(e)
	return nil
}

// StopSpeaker detaches every streamer and closes the device
func StopSpeaker() {
	speaker.Clear()
	speaker.Close()
}

// EncodeWAV writes s as a 16-bit stereo WAV at format f
func EncodeWAV(w io.WriteSeeker, s beep.Streamer, f beep.Format) error {
	if err := wav.Encode(w, s, f); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// WAVBuffer is an in-memory io.WriteSeeker for encoding WAV files, which
// need to seek back and patch their header.
type WAVBuffer struct {
	buf []byte
	pos int
}

func (b *WAVBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *WAVBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.pos) + offset
	case io.SeekEnd:
		abs = int64(len(b.buf)) + offset
	default:
		return 0, errors.New("wav buffer: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("wav buffer: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

// Bytes returns the encoded file
func (b *WAVBuffer) Bytes() []byte {
	return b.buf
}

// Streamer plays b once with the same signal on both channels
func (b Buffer) Streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(b) {
			return 0, false
		}
		n := min(len(samples), len(b)-pos)
		for i := 0; i < n; i++ {
			samples[i][0] = b[pos+i]
			samples[i][1] = b[pos+i]
		}
		pos += n
		return n, true
	})
}
