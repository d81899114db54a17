package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PresetsHandler lists the preset names.
func (h *Handler) PresetsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"presets": h.presets.Names()})
}

// PresetHandler returns one preset as a render state.
func (h *Handler) PresetHandler(c *gin.Context) {
	s, ok := h.presets.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown preset"})
		return
	}
	c.JSON(http.StatusOK, s)
}
