package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/playback"
	"github.com/gin-gonic/gin"
)

const (
	packAuto    = "auto"
	maxTailMs   = 5000
	renderFile  = "groove.wav"
	defaultPack = genre.PackID("")
)

type RenderHandler struct {
	samples       *engine.SampleCache
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

// NewRenderHandler creates the bounce handler. samples may be nil, in which
// case every pack renders with synthesized drums.
func NewRenderHandler(samples *engine.SampleCache, cw *metrics.Client) *RenderHandler {
	return &RenderHandler{
		samples:       samples,
		cloudwatch:    cw,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

type RenderRequest struct {
	Progression *models.Progression `json:"progression" binding:"required"`
	Melody      []models.MelodyNote `json:"melody"`
	Loops       int                 `json:"loops"`
	Instrument  string              `json:"instrument"`
	Pack        string              `json:"pack"` // pack id, "auto" for the genre's pack, empty for synth
	Mix         *engine.MixState    `json:"mix,omitempty"`
	TailMs      int                 `json:"tailMs"`
}

func (r *RenderRequest) options() (playback.BounceOptions, error) {
	opts := playback.BounceOptions{
		Loops: r.Loops,
		Mix:   r.Mix,
		Pack:  defaultPack,
	}

	if err := validateProgression(r.Progression); err != nil {
		return opts, err
	}
	if len(r.Progression.Chords) == 0 {
		return opts, errors.New("progression has no chords")
	}
	if len(r.Melody) > maxMelodyNotes {
		return opts, fmt.Errorf("melody has more than %d notes", maxMelodyNotes)
	}
	if r.Loops < 0 || r.Loops > playback.MaxLoops {
		return opts, fmt.Errorf("loops must be within [0, %d]", playback.MaxLoops)
	}
	if r.TailMs < 0 || r.TailMs > maxTailMs {
		return opts, fmt.Errorf("tailMs must be within [0, %d]", maxTailMs)
	}
	opts.Tail = time.Duration(r.TailMs) * time.Millisecond

	if r.Instrument != "" {
		in, err := engine.ParseInstrument(r.Instrument)
		if err != nil {
			return opts, err
		}
		opts.Instrument = in
	}

	switch r.Pack {
	case "":
	case packAuto:
		opts.Pack = genre.PackForGenre(r.Progression.Genre)
	default:
		id := genre.PackID(r.Pack)
		if _, ok := genre.Pack(id); !ok {
			return opts, fmt.Errorf("%w: %s", engine.ErrUnknownPack, r.Pack)
		}
		opts.Pack = id
	}
	return opts, nil
}

// Render bounces loops of the posted progression to a WAV file
func (h *RenderHandler) Render(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.options()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.Samples = h.samples

	ctx, cancel := context.WithTimeout(c.Request.Context(), renderTimeoutSecs*time.Second)
	defer cancel()

	log.Printf("🎛️  Render request: %d chords, %d loops, pack %q", len(req.Progression.Chords), opts.Loops, opts.Pack)

	start := time.Now()
	data, err := playback.Bounce(ctx, req.Progression, req.Melody, opts)
	duration := time.Since(start)

	h.sentryMetrics.RecordRenderDuration(c.Request.Context(), duration, err == nil)
	if h.cloudwatch != nil {
		h.cloudwatch.RecordRenderDuration(duration, err == nil)
	}

	switch {
	case errors.Is(err, playback.ErrTooLong), errors.Is(err, engine.ErrUnknownPack):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "render timed out"})
		return
	case err != nil:
		logger.Error("Render failed", err, logger.RequestFields(c))
		internalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", renderFile))
	c.Data(http.StatusOK, contentTypeWAV, data)
}
