package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
	"github.com/Conceptual-Machines/groove-api/internal/engine"
	"github.com/Conceptual-Machines/groove-api/internal/theory"
	"github.com/gin-gonic/gin"
)

const bytesToMB = 1024 * 1024

// MetricsHandler reports process and catalogue statistics
type MetricsHandler struct {
	startTime time.Time
	version   string
}

func NewMetricsHandler(version string) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
	}
}

type MetricsResponse struct {
	Status    string           `json:"status"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version"`
	StartTime string           `json:"start_time"`
	System    SystemMetrics    `json:"system"`
	Catalogue CatalogueMetrics `json:"catalogue"`
}

type SystemMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
	MemTotalMB   uint64 `json:"mem_total_mb"`
	NumGC        uint32 `json:"num_gc"`
}

// CatalogueMetrics counts what the API can serve
type CatalogueMetrics struct {
	Patterns     int `json:"patterns"`
	Categories   int `json:"categories"`
	Packs        int `json:"packs"`
	Instruments  int `json:"instruments"`
	MelodyStyles int `json:"melody_styles"`
}

func catalogue() CatalogueMetrics {
	return CatalogueMetrics{
		Patterns:     len(patterns.Library()),
		Categories:   len(patterns.Categories()),
		Packs:        len(genre.Packs()),
		Instruments:  len(engine.Instruments),
		MelodyStyles: len(theory.Styles),
	}
}

// formatUptime renders d as 1h2m3.45s, dropping leading zero units
func formatUptime(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := (d % time.Minute).Seconds()

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	default:
		return fmt.Sprintf("%.2fs", seconds)
	}
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	c.JSON(http.StatusOK, MetricsResponse{
		Status:    "healthy",
		Uptime:    formatUptime(time.Since(h.startTime)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		System: SystemMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   mem.Alloc / bytesToMB,
			MemTotalMB:   mem.TotalAlloc / bytesToMB,
			NumGC:        mem.NumGC,
		},
		Catalogue: catalogue(),
	})
}
