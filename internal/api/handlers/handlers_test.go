package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Conceptual-Machines/groove-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setupTestRouter mounts every handler without auth or persistence
func setupTestRouter() *gin.Engine {
	router := gin.New()
	analytics := services.NewAnalyticsService(nil)

	router.GET("/health", NewHealthHandler(nil).HealthCheck)
	router.GET("/api/metrics", NewMetricsHandler("test").GetMetrics)

	v1 := router.Group("/api/v1")
	p := NewPatternsHandler()
	v1.GET("/patterns", p.List)
	v1.GET("/patterns/categories", p.Categories)
	v1.GET("/patterns/:id", p.Get)
	v1.POST("/patterns/:id/convert", p.Convert)
	v1.POST("/patterns/parse", p.ParseNotation)

	r := NewRecommendationHandler(analytics, nil)
	v1.POST("/recommendations", r.Recommend)
	v1.GET("/recommendations/genres", r.TopGenres)

	pr := NewProgressionHandler(analytics, nil)
	v1.POST("/progressions/validate", pr.Validate)
	v1.POST("/progressions/humanize", pr.Humanize)

	v1.POST("/melody", GenerateMelody)
	v1.GET("/genres/detect", DetectGenre)
	v1.GET("/packs", ListPacks)
	v1.POST("/export/midi/:part", ExportMIDI)
	v1.POST("/render", NewRenderHandler(nil, nil).Render)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
