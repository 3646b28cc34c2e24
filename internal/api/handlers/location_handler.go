package handlers

import (
	"net/http"

	"github.com/andresuchdata/stockalert/internal/square"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type LocationHandler struct {
	provider square.Provider
}

func NewLocationHandler(provider square.Provider) *LocationHandler {
	return &LocationHandler{provider: provider}
}

// GetLocations lists every location known to the provider.
func (h *LocationHandler) GetLocations(c *gin.Context) {
	locations, err := h.provider.ListLocations(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("api: location listing failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list locations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// GetLocation returns a single location by ID.
func (h *LocationHandler) GetLocation(c *gin.Context) {
	locationID := c.Param("id")

	locations, err := h.provider.ListLocations(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("api: location listing failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to list locations"})
		return
	}

	for _, location := range locations {
		if location.ID == locationID {
			c.JSON(http.StatusOK, location)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "location " + locationID + " not found"})
}
