// Package server provides HTTP server setup and configuration.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"github.com/fleetintel/connectivity-intel/internal/config"
	"github.com/fleetintel/connectivity-intel/internal/handlers"
	"github.com/fleetintel/connectivity-intel/internal/models"
	"github.com/fleetintel/connectivity-intel/internal/store"
	"github.com/fleetintel/connectivity-intel/internal/synth"
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if request ID already exists in header
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			// Generate new UUID for request ID
			requestID = uuid.New().String()
		}

		// Set request ID in context and response header
		c.Set("RequestID", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}

// NewRateLimitMiddleware creates a rate limiting middleware using
// ulule/limiter with an in-memory store.
func NewRateLimitMiddleware(perMinute int64) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  perMinute,
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance)
}

// Dependencies holds all dependencies needed to create a server
type Dependencies struct {
	Config      *config.Config
	Store       store.SnapshotStore
	Synthesizer *synth.Synthesizer
	Fleet       []models.FleetVehicle
	Logger      *zap.Logger
	Metrics     *Metrics // Optional: nil disables /metrics
}

// New creates a new Gin router with all routes configured
func New(deps *Dependencies) *gin.Engine {
	// Release mode keeps ANSI color codes out of the logs
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	// CORS so the hosted add-in page can call the API from its own origin
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(RequestIDMiddleware())
	router.Use(NewRateLimitMiddleware(deps.Config.Server.RateLimitPerMinute))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Initialize handlers
	fleetHandler := handlers.NewFleetHandler(deps.Store)
	lookupHandler := handlers.NewLookupHandler(deps.Store)
	exportHandler := handlers.NewExportHandler(deps.Store)
	regenHandler := handlers.NewRegenerateHandler(deps.Store, deps.Synthesizer, deps.Fleet, deps.Logger)

	if deps.Metrics != nil {
		regenHandler.OnSwap = func(snapshot *models.FleetSnapshot) {
			deps.Metrics.ObserveSnapshot(snapshot)
			deps.Metrics.ObserveRegeneration()
		}
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthHandler)

		fleet := v1.Group("/fleet")
		{
			fleet.GET("", fleetHandler.List)
			fleet.GET("/summary", fleetHandler.Summary)
			fleet.GET("/:id", fleetHandler.Get)
		}

		v1.GET("/alerts", fleetHandler.Alerts)
		v1.GET("/errors", fleetHandler.Errors)
		v1.GET("/towers", fleetHandler.Towers)
		v1.GET("/map/markers", fleetHandler.MapMarkers)
		v1.GET("/globe/markers", fleetHandler.GlobeMarkers)
		v1.GET("/lookup", lookupHandler.Query)
		v1.GET("/export/csv", exportHandler.CSV)
		v1.POST("/regenerate", regenHandler.Regenerate)
	}

	return router
}
