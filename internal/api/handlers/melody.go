package handlers

import (
	"fmt"
	"net/http"

	"github.com/Conceptual-Machines/groove-api/internal/theory"
	"github.com/gin-gonic/gin"
)

type MelodyRequest struct {
	Chords []string `json:"chords" binding:"required"`
	Key    string   `json:"key"`
	Style  string   `json:"style"`
}

// GenerateMelody builds a melody over the given chords
func GenerateMelody(c *gin.Context) {
	var req MelodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Chords) == 0 || len(req.Chords) > maxChords {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("between 1 and %d chords required", maxChords)})
		return
	}

	style := theory.StyleSimple
	if req.Style != "" {
		st, err := theory.ParseStyle(req.Style)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		style = st
	}

	c.JSON(http.StatusOK, gin.H{
		"style":  style,
		"key":    req.Key,
		"scale":  theory.KeyScale(req.Key),
		"melody": theory.GenerateMelody(req.Chords, style),
	})
}
