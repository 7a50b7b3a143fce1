package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/drums/recommend"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"gorm.io/gorm"
)

// AnalyticsService stores recommendation and validation requests.
// With a nil db every method is a no-op.
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Enabled reports whether requests are being stored
func (s *AnalyticsService) Enabled() bool {
	return s.db != nil
}

// RequestInfo identifies the request a log row belongs to
type RequestInfo struct {
	RequestID string
	UserID    string
}

// NewRecommendationLog builds the row for one recommendation
func NewRecommendationLog(info RequestInfo, prog *models.Progression, melody []models.MelodyNote, rec recommend.Recommendation) *models.RecommendationLog {
	entry := &models.RecommendationLog{
		RequestID:          info.RequestID,
		UserID:             info.UserID,
		Genre:              rec.Features.Genre,
		Mood:               rec.Features.Mood,
		Tempo:              rec.Features.BPM,
		ChordCount:         len(prog.Chords),
		MelodyNotes:        len(melody),
		SuggestedIntensity: rec.SuggestedIntensity,
	}
	if len(rec.Scores) > 0 {
		entry.TopPatternID = rec.Scores[0].Pattern.ID
		entry.TopScore = rec.Scores[0].Score
	}
	return entry
}

// NewValidationLog builds the row for one coherence pass
func NewValidationLog(info RequestInfo, genre string, warnings []string) *models.ValidationLog {
	return &models.ValidationLog{
		RequestID:    info.RequestID,
		UserID:       info.UserID,
		Genre:        strings.ToLower(strings.TrimSpace(genre)),
		WarningCount: len(warnings),
		Warnings:     strings.Join(warnings, "\n"),
	}
}

// LogRecommendation stores entry
func (s *AnalyticsService) LogRecommendation(ctx context.Context, entry *models.RecommendationLog) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log recommendation: %w", err)
	}
	return nil
}

// LogValidation stores entry
func (s *AnalyticsService) LogValidation(ctx context.Context, entry *models.ValidationLog) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to log validation: %w", err)
	}
	return nil
}

// GenreCount is the number of recommendations made for one genre
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

// TopGenres returns the most requested genres, most frequent first
func (s *AnalyticsService) TopGenres(ctx context.Context, limit int) ([]GenreCount, error) {
	if s.db == nil {
		return nil, nil
	}

	var out []GenreCount
	err := s.db.WithContext(ctx).
		Model(&models.RecommendationLog{}).
		Select("genre, count(*) as count").
		Group("genre").
		Order("count desc").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top genres: %w", err)
	}
	return out, nil
}

// logAsync stores a row off the request path; failures are only logged
func logAsync(what string, fn func(context.Context) error) {
	go func() {
		if err := fn(context.Background()); err != nil {
			logger.Error("Analytics write failed", err, logger.Fields{"kind": what})
		}
	}()
}

// RecordRecommendation stores a recommendation without blocking the caller
func (s *AnalyticsService) RecordRecommendation(entry *models.RecommendationLog) {
	if s.db == nil {
		return
	}
	logAsync("recommendation", func(ctx context.Context) error {
		return s.LogRecommendation(ctx, entry)
	})
}

// RecordValidation stores a validation without blocking the caller
func (s *AnalyticsService) RecordValidation(entry *models.ValidationLog) {
	if s.db == nil {
		return
	}
	logAsync("validation", func(ctx context.Context) error {
		return s.LogValidation(ctx, entry)
	})
}
