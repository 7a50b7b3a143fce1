package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/api"
	"github.com/Conceptual-Machines/groove-api/internal/config"
	"github.com/Conceptual-Machines/groove-api/internal/database"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 30 * time.Second
	readTimeout        = 30 * time.Second
	// renders can take up to a minute
	writeTimeout = 90 * time.Second
	idleTimeout  = 60 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"x-api-key":     true,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if flush := initSentry(cfg); flush != nil {
		defer flush()
	}

	if err := run(cfg); err != nil {
		sentry.CaptureException(err)
		sentry.Flush(sentryFlushTimeout)
		log.Fatal(err)
	}
}

func run(cfg *config.Config) error {
	db, err := openAnalytics(cfg)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// CloudWatch is production only and never fatal
	cw, err := metrics.NewClient(context.Background(), cfg.Environment)
	if err != nil {
		log.Printf("⚠️  CloudWatch metrics unavailable: %v", err)
	}

	router := api.SetupRouter(api.Deps{
		DB:         db,
		CloudWatch: cw,
		Samples:    sampleCache(cfg),
	}, cfg, GetVersion())

	return serve(&http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	})
}

// initSentry configures error tracking and returns its flush func, or nil
// when Sentry is off
func initSentry(cfg *config.Config) func() {
	if cfg.SentryDSN == "" {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		Release:          "groove-api@" + releaseVersion,
		EnableTracing:    true,
		TracesSampleRate: 1.0,
		EnableLogs:       true,
		Debug:            !cfg.IsProduction(),
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			if event.Request != nil {
				event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
			}
			return event
		},
	})
	if err != nil {
		log.Printf("Failed to initialize Sentry: %v", err)
		return nil
	}

	log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
	return func() { sentry.Flush(sentryFlushTimeout) }
}

// openAnalytics connects and migrates the optional analytics store
func openAnalytics(cfg *config.Config) (*gorm.DB, error) {
	if !cfg.DatabaseEnabled() {
		log.Println("🗄️  DATABASE_URL not set, analytics log disabled")
		return nil, nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	log.Println("🗄️  Analytics log connected")
	return db, nil
}

// sampleCache reads packs from SAMPLES_DIR, or returns nil for synth drums
func sampleCache(cfg *config.Config) *engine.SampleCache {
	if cfg.SamplesDir == "" {
		log.Println("🥁 SAMPLES_DIR not set, rendering with synthesized drums")
		return nil
	}
	log.Printf("🥁 Sample packs read from %s", cfg.SamplesDir)
	return engine.NewSampleCache(os.DirFS(cfg.SamplesDir), engine.DefaultSampleRate)
}

// serve runs srv until SIGINT or SIGTERM, then drains open requests
func serve(srv *http.Server) error {
	done := make(chan error, 1)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		log.Println("🛑 Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		done <- srv.Shutdown(ctx)
	}()

	log.Printf("🚀 Starting server on %s", srv.Addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitiveHeaders[strings.ToLower(k)] {
			v = "[REDACTED]"
		}
		filtered[k] = v
	}
	return filtered
}
