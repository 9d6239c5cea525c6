// Package server exposes the wizard over a JSON HTTP API. Each session id
// owns one wizard controller held in memory.
package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Handler        *Handler
	AllowedOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	router.Use(cors.New(corsCfg))

	h := cfg.Handler
	router.GET("/healthz", h.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/options", h.Options)
		api.GET("/usage", h.Usage)
		api.POST("/sessions", h.CreateSession)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.DeleteSession)
		api.PATCH("/sessions/:id/profile", h.UpdateProfile)
		api.POST("/sessions/:id/advance", h.Advance)
		api.POST("/sessions/:id/retreat", h.Retreat)
		api.POST("/sessions/:id/restart", h.Restart)
		api.POST("/sessions/:id/login", h.Login)
		api.POST("/sessions/:id/logout", h.Logout)
	}

	return router
}
