package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unilancer-labs/unilancer-api/internal/config"
	"github.com/unilancer-labs/unilancer-api/internal/utils"
)

var bootTime = time.Now().UTC()

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Uptime      string    `json:"uptime"`
}

// HealthCheck reports process liveness. It intentionally touches neither the
// database nor the cache; a degraded dependency shows up in the metrics, not
// here.
func HealthCheck(cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Uptime:      time.Since(bootTime).Round(time.Second).String(),
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
