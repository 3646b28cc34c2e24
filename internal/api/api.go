// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockalert/internal/api/handlers"
	"github.com/andresuchdata/stockalert/internal/api/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Services bundles everything the HTTP surface needs.
type Services struct {
	Inventory *handlers.InventoryHandler
	Alerts    *handlers.AlertHandler
	Locations *handlers.LocationHandler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Inventory != nil {
			inventoryGroup := apiGroup.Group("/inventory")
			{
				inventoryGroup.GET("/stock-levels", services.Inventory.GetStockLevels)
				inventoryGroup.GET("/low-stock", services.Inventory.GetLowStock)
				inventoryGroup.GET("/summary", services.Inventory.GetSummary)
				inventoryGroup.GET("/anomalies", services.Inventory.GetAnomalies)
				inventoryGroup.GET("/optimal-levels", services.Inventory.GetOptimalLevels)
				inventoryGroup.POST("/sync", services.Inventory.SyncInventory)
			}
		}

		if services.Alerts != nil {
			alertGroup := apiGroup.Group("/alerts")
			{
				alertGroup.GET("", services.Alerts.GetAlerts)
				alertGroup.POST("/check", services.Alerts.CheckAndAlert)
				alertGroup.POST("/:id/acknowledge", services.Alerts.AcknowledgeAlert)
			}
		}

		if services.Locations != nil {
			locationGroup := apiGroup.Group("/locations")
			{
				locationGroup.GET("", services.Locations.GetLocations)
				locationGroup.GET("/:id", services.Locations.GetLocation)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
