package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency the health check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping implements Pinger
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthController reports dependency health
type HealthController struct {
	db    Pinger
	cache Pinger
}

// NewHealthController creates a health controller. cache may be nil when Redis is not configured.
func NewHealthController(db Pinger, cache Pinger) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Health
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service healthy"
// @Failure 503 {object} dto.HealthResponse "Database unavailable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up"}
	status := http.StatusOK

	if err := c.db.Ping(reqCtx); err != nil {
		resp.Status = "degraded"
		resp.Database = "down"
		status = http.StatusServiceUnavailable
	}

	if c.cache != nil {
		resp.Cache = "up"
		// Cache failures degrade performance only
		if err := c.cache.Ping(reqCtx); err != nil {
			resp.Cache = "down"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}

	ctx.JSON(status, resp)
}
