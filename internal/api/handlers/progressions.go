package handlers

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/drums/coherence"
	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ProgressionHandler struct {
	analytics     *services.AnalyticsService
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

// NewProgressionHandler wires the optional analytics sinks; cw may be nil
func NewProgressionHandler(analytics *services.AnalyticsService, cw *metrics.Client) *ProgressionHandler {
	return &ProgressionHandler{
		analytics:     analytics,
		cloudwatch:    cw,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

type ValidateResponse struct {
	Progression *models.Progression `json:"progression"`
	Warnings    []string            `json:"warnings"`
	Corrected   bool                `json:"corrected"`
}

// Validate runs the coherence rules and returns the corrected progression
func (h *ProgressionHandler) Validate(c *gin.Context) {
	var prog models.Progression
	if err := c.ShouldBindJSON(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateProgression(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	warnings := coherence.Apply(&prog)

	logger.LogCorrections(prog.Genre, warnings, logger.RequestFields(c))
	h.sentryMetrics.RecordCorrections(c.Request.Context(), prog.Genre, warnings)
	if h.cloudwatch != nil {
		h.cloudwatch.RecordCorrections(prog.Genre, len(warnings))
	}
	h.analytics.RecordValidation(services.NewValidationLog(requestInfo(c), prog.Genre, warnings))

	c.JSON(http.StatusOK, ValidateResponse{
		Progression: &prog,
		Warnings:    warnings,
		Corrected:   len(warnings) > 0,
	})
}

type HumanizeRequest struct {
	Drums *models.DrumPattern `json:"drums" binding:"required"`
	Genre string              `json:"genre"`
	Seed  *int64              `json:"seed,omitempty"`
}

// Humanize applies the genre's velocity profile to a drum pattern
func (h *ProgressionHandler) Humanize(c *gin.Context) {
	var req HumanizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rnd := rand.New(rand.NewSource(seed)).Float64

	c.JSON(http.StatusOK, gin.H{
		"drums":   genre.HumanizeVelocities(req.Drums, req.Genre, rnd),
		"profile": genre.ProfileFor(req.Genre),
	})
}
