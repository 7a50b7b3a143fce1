package logger

import (
	"context"
	"fmt"
	"log"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// Fields represents structured log fields
type Fields map[string]interface{}

// Keys promoted to Sentry tags when present
var tagKeys = []string{"request_id", "genre", "pack", "pattern", "part"}

// RequestFields returns the request id, method, route and user of c
func RequestFields(c *gin.Context) Fields {
	fields := Fields{
		"request_id": c.GetString("request_id"),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
	}
	if userID, exists := c.Get("user_id"); exists {
		fields["user_id"] = userID
	}
	return fields
}

// Info logs an informational message with structured fields
func Info(msg string, fields Fields) {
	write("INFO", msg, fields)
	breadcrumb(sentry.LevelInfo, "info", msg, fields)
}

// Warn logs a warning message with structured fields
func Warn(msg string, fields Fields) {
	write("WARN", msg, fields)
	breadcrumb(sentry.LevelWarning, "warning", msg, fields)
}

// Debug logs a debug message with structured fields
func Debug(msg string, fields Fields) {
	write("DEBUG", msg, fields)
	breadcrumb(sentry.LevelDebug, "debug", msg, fields)
}

// Error logs an error message with structured fields and sends to Sentry
func Error(msg string, err error, fields Fields) {
	log.Printf("[ERROR] %s: %v %s", msg, err, formatFields(fields))

	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		applyScope(scope, fields)
		hub.CaptureException(err)
	})
}

// LogRecommendation logs a completed pattern recommendation
func LogRecommendation(ctx context.Context, genre string, duration time.Duration, topPattern string, topScore int, fields Fields) {
	fields = with(fields, Fields{
		"genre":       genre,
		"duration_ms": duration.Milliseconds(),
		"top_pattern": topPattern,
		"top_score":   topScore,
	})
	Info("Recommendation completed", fields)

	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		span := sentry.StartSpan(ctx, "drums.recommend")
		span.Description = genre
		span.SetData("top_pattern", topPattern)
		span.SetData("top_score", topScore)
		span.Finish()
	}
}

// LogCorrections logs the coherence corrections applied to a progression.
// Nothing is logged when no rule fired.
func LogCorrections(genre string, warnings []string, fields Fields) {
	if len(warnings) == 0 {
		return
	}
	fields = with(fields, Fields{
		"genre":       genre,
		"corrections": len(warnings),
	})
	for i, w := range warnings {
		fields[fmt.Sprintf("correction_%d", i)] = w
	}
	Warn("Drum pattern corrected", fields)
}

func with(fields, extra Fields) Fields {
	if fields == nil {
		fields = Fields{}
	}
	maps.Copy(fields, extra)
	return fields
}

func write(level, msg string, fields Fields) {
	if len(fields) == 0 {
		log.Printf("[%s] %s", level, msg)
		return
	}
	log.Printf("[%s] %s %s", level, msg, formatFields(fields))
}

func breadcrumb(level sentry.Level, kind, msg string, fields Fields) {
	if sentry.CurrentHub().Client() == nil {
		return
	}
	sentry.AddBreadcrumb(&sentry.Breadcrumb{
		Type:     kind,
		Category: "log",
		Message:  msg,
		Data:     map[string]interface{}(maps.Clone(fields)),
		Level:    level,
	})
}

func applyScope(scope *sentry.Scope, fields Fields) {
	for key, value := range fields {
		scope.SetContext(key, map[string]interface{}{"value": value})
	}
	for _, key := range tagKeys {
		if v, ok := fields[key].(string); ok && v != "" {
			scope.SetTag(key, v)
		}
	}
}

// formatFields renders fields as {k=v, ...} in key order
func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range slices.Sorted(maps.Keys(fields)) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteByte('}')
	return b.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.2f", val)
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
