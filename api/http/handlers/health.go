package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumebuilder/pkg/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc     health.ReadinessUseCase
	timeout time.Duration
}

// NewHealthHandler bounds every readiness probe by timeout (2s when unset).
func NewHealthHandler(svc health.ReadinessUseCase, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{svc: svc, timeout: timeout}
}

type readiness struct {
	Status string   `json:"status"`
	Failed []string `json:"failed,omitempty"`
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} map[string]string
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// Ready checks the database schema and, when configured, the broker. Every
// failing dependency is listed as "<name>: <reason>".
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} readiness
// @Failure 503 {object} readiness
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(readiness{
			Status: "not_ready",
			Failed: strings.Split(err.Error(), "\n"),
		})
	}
	return c.Status(fiber.StatusOK).JSON(readiness{Status: "ready"})
}
