package handlers

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "anonchat-api"
	Version     = "0.1.0"
)

// Check проверка зависимости для /health
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
	now    func() time.Time
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks, now: time.Now}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var failed []string
	for _, name := range slices.Sorted(maps.Keys(h.checks)) {
		if err := h.checks[name](ctx); err != nil {
			failed = append(failed, name)
		}
	}

	body := gin.H{
		"status":    "ok",
		"message":   serviceName + " is running",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
		"version":   Version,
	}
	status := http.StatusOK
	if len(failed) > 0 {
		body["status"] = "degraded"
		body["failed"] = failed
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, body)
}

func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        serviceName,
		"version":     Version,
		"description": "Anonymous room chat API",
		"endpoint": gin.H{
			"health": "/health",
			"info":   "/api/info",
		},
	})
}
