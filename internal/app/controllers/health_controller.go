package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/programhub/internal/app/models/dto"
)

// PingFunc checks one backing dependency.
type PingFunc func(ctx context.Context) error

// HealthController reports liveness and readiness
type HealthController struct {
	checks  map[string]PingFunc
	timeout time.Duration
}

// NewHealthController creates a HealthController. Nil checks are skipped.
func NewHealthController(checks map[string]PingFunc) *HealthController {
	active := make(map[string]PingFunc, len(checks))
	for name, fn := range checks {
		if fn != nil {
			active[name] = fn
		}
	}
	return &HealthController{checks: active, timeout: 2 * time.Second}
}

// Live always answers while the process serves requests
func (c *HealthController) Live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
}

// Ready pings every dependency and answers 503 if any is down
func (c *HealthController) Ready(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	statuses := make(map[string]string, len(c.checks))
	healthy := true
	for name, ping := range c.checks {
		if err := ping(reqCtx); err != nil {
			statuses[name] = err.Error()
			healthy = false
			continue
		}
		statuses[name] = "ok"
	}

	if !healthy {
		detail := dto.NewErrorDetail(dto.ErrorCodeStorageUnavailable, "Dependency unavailable").WithDetails(statuses)
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(detail))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(statuses))
}
