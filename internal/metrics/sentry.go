package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics records domain operations as Sentry spans on the request
// transaction
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a Sentry metrics recorder. Spans are dropped
// when Sentry is not configured.
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{enabled: true}
}

// spanOptions describe one finished span
type spanOptions struct {
	op          string
	description string
	tags        map[string]string
	data        map[string]interface{}
	failed      bool
}

func (m *SentryMetrics) record(ctx context.Context, o spanOptions) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, o.op)
	defer span.Finish()

	span.Description = o.description
	for k, v := range o.tags {
		span.SetTag(k, v)
	}
	for k, v := range o.data {
		span.SetData(k, v)
	}
	span.Status = sentry.SpanStatusOK
	if o.failed {
		span.Status = sentry.SpanStatusInternalError
	}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	ok := statusCode < http.StatusBadRequest
	m.record(ctx, spanOptions{
		op:          "api.request",
		description: "API Request: " + endpoint,
		tags: map[string]string{
			"endpoint":    endpoint,
			"status_code": strconv.Itoa(statusCode),
			"success":     strconv.FormatBool(ok),
		},
		data:   map[string]interface{}{"duration_ms": duration.Milliseconds()},
		failed: !ok,
	})
}

// RecordRecommendation tags the request transaction with the winning
// pattern and records a recommendation span
func (m *SentryMetrics) RecordRecommendation(ctx context.Context, genre string, topPattern string, topScore int, suggestedIntensity float64) {
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("drums.genre", genre)
		transaction.SetTag("drums.top_pattern", topPattern)
		transaction.SetData("drums.top_score", topScore)
	}

	m.record(ctx, spanOptions{
		op:          "drums.recommendation",
		description: "Recommendation: " + genre,
		tags:        map[string]string{"genre": genre, "top_pattern": topPattern},
		data: map[string]interface{}{
			"top_score":           topScore,
			"suggested_intensity": suggestedIntensity,
		},
	})
}

// RecordCorrections records the coherence rules that fired
func (m *SentryMetrics) RecordCorrections(ctx context.Context, genre string, warnings []string) {
	m.record(ctx, spanOptions{
		op:          "drums.coherence",
		description: fmt.Sprintf("Coherence: %d corrections", len(warnings)),
		tags: map[string]string{
			"genre":     genre,
			"corrected": strconv.FormatBool(len(warnings) > 0),
		},
		data: map[string]interface{}{
			"corrections": len(warnings),
			"warnings":    warnings,
		},
	})
}

// RecordRenderDuration records an offline bounce
func (m *SentryMetrics) RecordRenderDuration(ctx context.Context, duration time.Duration, success bool) {
	m.record(ctx, spanOptions{
		op:          "render.bounce",
		description: "Render",
		tags:        map[string]string{"success": strconv.FormatBool(success)},
		data:        map[string]interface{}{"duration_ms": duration.Milliseconds()},
		failed:      !success,
	})
}

// RecordPerformanceMetric records a timed operation with free-form data
func (m *SentryMetrics) RecordPerformanceMetric(ctx context.Context, operation string, duration time.Duration, metadata map[string]interface{}) {
	data := map[string]interface{}{"duration_ms": duration.Milliseconds()}
	for k, v := range metadata {
		data[k] = v
	}
	m.record(ctx, spanOptions{op: operation, description: operation, data: data})
}
