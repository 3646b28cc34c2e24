package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/stockalert/internal/monitor"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service *monitor.Service
}

func NewInventoryHandler(service *monitor.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

func requireLocationID(c *gin.Context) (string, bool) {
	locationID := strings.TrimSpace(c.Query("location_id"))
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id query parameter is required"})
		return "", false
	}

	return locationID, true
}

// GetStockLevels returns current stock levels for all products at a
// location, with velocity and reorder suggestions.
func (h *InventoryHandler) GetStockLevels(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	snapshots := h.service.CheckStockLevels(c.Request.Context(), locationID)

	c.JSON(http.StatusOK, snapshots)
}

// GetLowStock returns only items with low, critical or out-of-stock
// status.
func (h *InventoryHandler) GetLowStock(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	snapshots := h.service.LowStock(c.Request.Context(), locationID)

	c.JSON(http.StatusOK, snapshots)
}

// GetSummary returns aggregate stock statistics for a location.
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	snapshots := h.service.CheckStockLevels(c.Request.Context(), locationID)

	c.JSON(http.StatusOK, monitor.Summarize(locationID, snapshots))
}

// GetAnomalies returns velocity anomalies detected at a location.
func (h *InventoryHandler) GetAnomalies(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	anomalies := h.service.DetectAnomalies(c.Request.Context(), locationID)

	c.JSON(http.StatusOK, gin.H{"anomalies": anomalies})
}

// GetOptimalLevels returns derived min/max stock and reorder point for
// one product.
func (h *InventoryHandler) GetOptimalLevels(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	productID := strings.TrimSpace(c.Query("product_id"))
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id query parameter is required"})
		return
	}

	serviceLevel := 0.95
	if raw := strings.TrimSpace(c.Query("service_level")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			serviceLevel = parsed
		}
	}

	levels := h.service.OptimalLevels(c.Request.Context(), locationID, productID, serviceLevel)

	c.JSON(http.StatusOK, levels)
}

// SyncInventory forces a fresh monitoring pass for a location.
func (h *InventoryHandler) SyncInventory(c *gin.Context) {
	locationID, ok := requireLocationID(c)
	if !ok {
		return
	}

	snapshots := h.service.Refresh(c.Request.Context(), locationID)

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"message":     fmt.Sprintf("Synced %d products", len(snapshots)),
		"location_id": locationID,
	})
}
