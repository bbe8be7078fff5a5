package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axewhyzed/get-that-phone/internal/ingest"
	"github.com/axewhyzed/get-that-phone/internal/store"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, st store.Store, svc *ingest.Service) {
	handlers := NewHandlers(st, svc)

	r.Use(CORS())

	v1 := r.Group("/api")
	{
		// Health check (handle both GET and HEAD)
		v1.GET("/health", handlers.HealthCheck)
		v1.HEAD("/health", handlers.HealthCheck)

		// Ingestion
		v1.POST("/parse", handlers.ParsePhone)

		// Catalog reads
		v1.GET("/brands", handlers.GetBrands)
		v1.GET("/phones", handlers.GetPhones)
		v1.GET("/phones/:id", handlers.GetPhoneDetail)
	}
}

// CORS sets the permissive cross-origin headers the frontend expects and
// short-circuits preflight requests
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
