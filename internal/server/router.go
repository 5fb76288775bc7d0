package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/scoutdash/personalization-backend/internal/handlers"
	"github.com/scoutdash/personalization-backend/internal/middleware"
)

type RouterConfig struct {
	AuthMiddleware         *middleware.AuthMiddleware
	PersonalizationHandler *handlers.PersonalizationHandler
	PreferenceHandler      *handlers.PreferenceHandler
	StreamHandler          *handlers.StreamHandler
	AllowOrigins           []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		personalization := api.Group("/personalization")
		personalization.GET("/workspace", cfg.PersonalizationHandler.GetWorkspace)
		personalization.POST("/track", cfg.PersonalizationHandler.TrackAction)
		personalization.POST("/recommendations/:id/state", cfg.PersonalizationHandler.SetRecommendationState)
		personalization.GET("/preferences", cfg.PreferenceHandler.GetPreferences)
		personalization.PATCH("/preferences", cfg.PreferenceHandler.UpdatePreferences)
		personalization.GET("/stream", cfg.StreamHandler.Stream)
	}

	return router
}

// SplitOrigins parses the comma-separated CORS_ALLOW_ORIGINS value.
func SplitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
