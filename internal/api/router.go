package api

import (
	"github.com/Conceptual-Machines/groove-api/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/groove-api/internal/api/middleware"
	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/Conceptual-Machines/groove-api/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps are the optional collaborators of the router. Nil fields disable
// the matching feature.
type Deps struct {
	DB         *gorm.DB
	CloudWatch *metrics.Client
	Samples    *engine.SampleCache
}

func SetupRouter(deps Deps, cfg *config.Config, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.CloudWatch))

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(deps.DB)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", apimiddleware.OptionalAuth(cfg), metricsHandler.GetMetrics)

	analytics := services.NewAnalyticsService(deps.DB)

	v1 := router.Group("/api/v1")
	v1.Use(apimiddleware.Auth(cfg))
	{
		// Pattern library
		patternsHandler := handlers.NewPatternsHandler()
		v1.GET("/patterns", patternsHandler.List)
		v1.GET("/patterns/categories", patternsHandler.Categories)
		v1.GET("/patterns/:id", patternsHandler.Get)
		v1.POST("/patterns/:id/convert", patternsHandler.Convert)
		v1.POST("/patterns/parse", patternsHandler.ParseNotation)

		// Recommendations
		recommendationHandler := handlers.NewRecommendationHandler(analytics, deps.CloudWatch)
		v1.POST("/recommendations", recommendationHandler.Recommend)
		v1.GET("/recommendations/genres", recommendationHandler.TopGenres)

		// Progressions
		progressionHandler := handlers.NewProgressionHandler(analytics, deps.CloudWatch)
		v1.POST("/progressions/validate", progressionHandler.Validate)
		v1.POST("/progressions/humanize", progressionHandler.Humanize)

		v1.POST("/melody", handlers.GenerateMelody)
		v1.GET("/genres/detect", handlers.DetectGenre)
		v1.GET("/packs", handlers.ListPacks)

		// Output
		v1.POST("/export/midi/:part", handlers.ExportMIDI)
		renderHandler := handlers.NewRenderHandler(deps.Samples, deps.CloudWatch)
		v1.POST("/render", renderHandler.Render)
	}

	return router
}
