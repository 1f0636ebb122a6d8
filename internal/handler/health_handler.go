package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moveright/assessadmin-api/internal/config"
	"github.com/moveright/assessadmin-api/internal/utils"
)

var processStart = time.Now()

// HealthResponse is the payload served by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Uptime      string    `json:"uptime"`
}

// HealthCheck reports liveness for load balancer probes.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Uptime:      time.Since(processStart).Round(time.Second).String(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
