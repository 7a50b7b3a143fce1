package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/api/middleware"
	"github.com/Conceptual-Machines/groove-api/internal/drums/recommend"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/Conceptual-Machines/groove-api/internal/services"
	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	analytics     *services.AnalyticsService
	cloudwatch    *metrics.Client
	sentryMetrics *metrics.SentryMetrics
}

// NewRecommendationHandler wires the optional analytics sinks; cw may be nil
func NewRecommendationHandler(analytics *services.AnalyticsService, cw *metrics.Client) *RecommendationHandler {
	return &RecommendationHandler{
		analytics:     analytics,
		cloudwatch:    cw,
		sentryMetrics: metrics.NewSentryMetrics(),
	}
}

type RecommendationRequest struct {
	Progression *models.Progression `json:"progression" binding:"required"`
	Melody      []models.MelodyNote `json:"melody"`
	TopN        int                 `json:"topN"`
}

func (r *RecommendationRequest) validate() error {
	if err := validateProgression(r.Progression); err != nil {
		return err
	}
	if len(r.Melody) > maxMelodyNotes {
		return fmt.Errorf("melody has more than %d notes", maxMelodyNotes)
	}
	if r.TopN < 0 || r.TopN > maxTopN {
		return fmt.Errorf("topN must be within [0, %d]", maxTopN)
	}
	return nil
}

// Recommend ranks the pattern library against a progression
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	rec := recommend.Recommend(req.Progression, req.Melody, req.TopN)
	duration := time.Since(start)

	var topID string
	var topScore int
	if len(rec.Scores) > 0 {
		topID, topScore = rec.Scores[0].Pattern.ID, rec.Scores[0].Score
	}

	logger.LogRecommendation(c.Request.Context(), rec.Features.Genre, duration, topID, topScore, logger.Fields{
		"request_id": c.GetString("request_id"),
		"chords":     len(req.Progression.Chords),
		"intensity":  rec.SuggestedIntensity,
	})
	h.sentryMetrics.RecordRecommendation(c.Request.Context(), rec.Features.Genre, topID, topScore, rec.SuggestedIntensity)
	if h.cloudwatch != nil {
		h.cloudwatch.RecordRecommendation(rec.Features.Genre, topScore, duration)
	}
	h.analytics.RecordRecommendation(services.NewRecommendationLog(requestInfo(c), req.Progression, req.Melody, rec))

	c.JSON(http.StatusOK, rec)
}

// TopGenres reports the most requested genres from the analytics store
func (h *RecommendationHandler) TopGenres(c *gin.Context) {
	if !h.analytics.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analytics store not configured"})
		return
	}

	genres, err := h.analytics.TopGenres(c.Request.Context(), 10)
	if err != nil {
		logger.Error("Failed to query top genres", err, logger.RequestFields(c))
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"genres": genres})
}

func requestInfo(c *gin.Context) services.RequestInfo {
	userID, _ := middleware.UserID(c)
	return services.RequestInfo{
		RequestID: c.GetString("request_id"),
		UserID:    userID,
	}
}

func validateProgression(p *models.Progression) error {
	switch {
	case p == nil:
		return errors.New("progression is required")
	case len(p.Chords) > maxChords:
		return fmt.Errorf("progression has more than %d chords", maxChords)
	case p.Tempo < 0 || p.Tempo > 400:
		return errors.New("tempo must be within [0, 400]")
	case p.Swing < 0 || p.Swing > 100:
		return errors.New("swing must be within [0, 100]")
	case p.Bars < 0 || p.Bars > maxRenderBars:
		return fmt.Errorf("bars must be within [0, %d]", maxRenderBars)
	}
	return nil
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":      "Internal server error",
		"request_id": c.GetString("request_id"),
	})
}
