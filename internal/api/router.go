package api

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/p5math/internal/logger"
	"github.com/abhisek/p5math/internal/metrics"
)

// Options configures NewRouter.
type Options struct {
	// AllowedOrigins for CORS. "*" or an empty list allows any origin.
	AllowedOrigins []string

	// RateLimiter guards the AI-backed routes. Nil disables limiting.
	RateLimiter *RateLimiter
}

// NewRouter builds the gin engine with middleware and all routes. The
// routes are mounted at the root and again under /api.
func NewRouter(h *Handler, opts Options) *gin.Engine {
	metrics.Init()

	r := gin.New()
	r.Use(logger.GinMiddleware())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware(opts.AllowedOrigins))
	r.Use(metrics.MetricsMiddleware())

	r.GET("/health", h.Health)
	r.GET("/metrics", metrics.PrometheusHandler())

	registerRoutes(r.Group(""), h, opts.RateLimiter)
	registerRoutes(r.Group("/api"), h, opts.RateLimiter)

	return r
}

func registerRoutes(g *gin.RouterGroup, h *Handler, rl *RateLimiter) {
	problems := g.Group("/math-problem")

	ai := []gin.HandlerFunc{}
	if rl != nil {
		ai = append(ai, rl.Middleware())
	}

	problems.POST("", append(ai, h.GenerateProblem)...)
	problems.POST("/submit", append(ai, h.SubmitAnswer)...)
	problems.GET("/history", h.History)
	problems.GET("/syllabus", h.Syllabus)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
