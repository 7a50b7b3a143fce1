package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/groove-api/internal/drums/genre"
	"github.com/gin-gonic/gin"
)

// DetectGenre finds the genre named in ?text= and the sample pack it maps to
func DetectGenre(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text query parameter is required"})
		return
	}

	g, ok := genre.Detect(text)
	resp := gin.H{"detected": ok, "genre": g}
	if ok {
		resp["pack"] = genre.PackForGenre(g)
	}
	c.JSON(http.StatusOK, resp)
}

// ListPacks returns the drum sample pack manifests
func ListPacks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packs": genre.Packs()})
}
