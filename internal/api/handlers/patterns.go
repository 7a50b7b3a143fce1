package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/groove-api/internal/drums/patterns"
	"github.com/Conceptual-Machines/groove-api/internal/models"
	"github.com/gin-gonic/gin"
)

type PatternsHandler struct{}

func NewPatternsHandler() *PatternsHandler {
	return &PatternsHandler{}
}

type PatternListResponse struct {
	Patterns []*patterns.StepGridPattern `json:"patterns"`
	Count    int                         `json:"count"`
}

// List returns the catalogue filtered by ?category=&q=&ts=
func (h *PatternsHandler) List(c *gin.Context) {
	filter := patterns.Filter{
		Category:      patterns.Category(c.Query("category")),
		Query:         c.Query("q"),
		TimeSignature: c.Query("ts"),
	}

	found := patterns.Find(filter)
	if found == nil {
		found = []*patterns.StepGridPattern{}
	}
	c.JSON(http.StatusOK, PatternListResponse{Patterns: found, Count: len(found)})
}

func (h *PatternsHandler) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": patterns.Categories()})
}

func (h *PatternsHandler) Get(c *gin.Context) {
	p, ok := lookupPattern(c)
	if !ok {
		return
	}

	if c.Query("format") == "notation" {
		c.String(http.StatusOK, patterns.FormatNotation(p))
		return
	}
	c.JSON(http.StatusOK, p)
}

// ConvertRequest is ConversionOptions plus an optional seed that makes
// humanization and probability gating reproducible
type ConvertRequest struct {
	patterns.ConversionOptions
	Seed *int64 `json:"seed,omitempty"`
}

func (r *ConvertRequest) validate() error {
	switch {
	case r.IntensityScale < 0:
		return errors.New("intensityScale must not be negative")
	case r.HumanizeAmount < 0 || r.HumanizeAmount > 1:
		return errors.New("humanizeAmount must be within [0, 1]")
	case r.SwingPercent < 0 || r.SwingPercent > 100:
		return errors.New("swingPercent must be within [0, 100]")
	}
	return nil
}

func (r *ConvertRequest) options() patterns.ConversionOptions {
	opts := r.ConversionOptions
	if r.Seed != nil {
		opts.Rand = rand.New(rand.NewSource(*r.Seed)).Float64
	}
	return opts
}

// Convert projects a catalogue pattern onto beat positions
func (h *PatternsHandler) Convert(c *gin.Context) {
	p, ok := lookupPattern(c)
	if !ok {
		return
	}

	var req ConvertRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patternId": p.ID,
		"drums":     patterns.ToDrumPattern(p, req.options()),
	})
}

type ParseNotationRequest struct {
	Notation string `json:"notation" binding:"required"`
	ConvertRequest
}

type ParseNotationResponse struct {
	Pattern *patterns.StepGridPattern `json:"pattern"`
	Drums   *models.DrumPattern       `json:"drums"`
}

// ParseNotation reads a text-notation pattern and converts it
func (h *PatternsHandler) ParseNotation(c *gin.Context) {
	var req ParseNotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Notation) > maxNotationLen {
		c.JSON(http.StatusBadRequest, gin.H{"error": "notation too long"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := patterns.ParseNotation(req.Notation)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParseNotationResponse{
		Pattern: p,
		Drums:   patterns.ToDrumPattern(p, req.options()),
	})
}

func lookupPattern(c *gin.Context) (*patterns.StepGridPattern, bool) {
	p, err := patterns.Lookup(strings.TrimSpace(c.Param("id")))
	if errors.Is(err, patterns.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return p, true
}
