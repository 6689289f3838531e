package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-insights/internal/adapter/dto/common"
)

// Pinger checks one dependency
type Pinger func(ctx context.Context) error

// Health reports dependency health
type Health struct {
	checks  map[string]Pinger
	timeout time.Duration
	logger  *zap.Logger
}

// NewHealthHandler creates a health handler over the named checks
func NewHealthHandler(checks map[string]Pinger, logger *zap.Logger) *Health {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Health{checks: checks, timeout: 2 * time.Second, logger: logger}
}

// Check handles GET /health; any failing dependency answers 503
func (h *Health) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := common.HealthResponse{Status: "ok", Checks: map[string]string{}, Time: time.Now().UTC()}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, resp)
}
