package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Conceptual-Machines/groove-api/internal/export"
	"github.com/Conceptual-Machines/groove-api/internal/logger"
	"github.com/Conceptual-Machines/groove-api/internal/metrics"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/gin-gonic/gin"
)

var exportMetrics = metrics.NewSentryMetrics()

// ExportMIDI writes one part of the posted progression as a Standard MIDI File
func ExportMIDI(c *gin.Context) {
	start := time.Now()
	part, err := export.ParsePart(c.Param("part"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var prog models.Progression
	if err := c.ShouldBindJSON(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validateProgression(&prog); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := export.Bytes(&prog, part)
	if errors.Is(err, export.ErrNoDrums) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		fields := logger.RequestFields(c)
		fields["part"] = string(part)
		logger.Error("MIDI export failed", err, fields)
		internalError(c)
		return
	}

	exportMetrics.RecordPerformanceMetric(c.Request.Context(), "export.midi", time.Since(start), map[string]interface{}{
		"part":  string(part),
		"bytes": len(data),
	})

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(part)))
	c.Data(http.StatusOK, contentTypeMIDI, data)
}
