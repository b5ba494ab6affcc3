package api

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/querycache"
	"storefront/internal/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	deps          views.Deps
	cache         *querycache.Cache
	renderTimeout time.Duration
	logger        *zap.Logger
	checks        []readinessCheck
}

type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

// NewHandler creates the storefront HTTP handler. Page requests wait up to
// renderTimeout for catalog data before rendering the loading placeholder.
func NewHandler(deps views.Deps, cache *querycache.Cache, renderTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		deps:          deps,
		cache:         cache,
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger(h.logger))

	router.SetHTMLTemplate(mustParseTemplates())
	router.StaticFS("/static", staticFiles())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/login", h.page)
	router.POST("/login", h.submitLogin)
	router.POST("/login/blur", h.blurLogin)
	router.GET("/products", h.page)
	router.GET("/products/:id", h.page)
	router.NoRoute(h.page)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// AddReadinessCheck registers a dependency checked by /ready.
func (h *Handler) AddReadinessCheck(name string, check func(ctx context.Context) error) {
	h.checks = append(h.checks, readinessCheck{name: name, check: check})
}

// readinessCheck reports readiness along with query cache occupancy.
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	deps := gin.H{}
	for _, rc := range h.checks {
		if err := rc.check(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", rc.name), zap.Error(err))
			deps[rc.name] = err.Error()
			status, code = "not ready", http.StatusServiceUnavailable
			continue
		}
		deps[rc.name] = "ok"
	}

	c.JSON(code, gin.H{
		"status":       status,
		"time":         time.Now().Unix(),
		"cache":        h.cache.Stats(),
		"dependencies": deps,
	})
}
