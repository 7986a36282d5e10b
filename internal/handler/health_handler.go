package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/moonbase-api/internal/config"
	"github.com/noah-isme/moonbase-api/internal/utils"
)

const healthProbeTimeout = 2 * time.Second

// HealthProbe reports whether one backing dependency is reachable.
type HealthProbe struct {
	Name string
	// Critical probes turn the whole report unavailable when they fail.
	Critical bool
	Check    func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthCheck runs every probe and reports ok, degraded or unavailable.
func HealthCheck(cfg config.Config, probes ...HealthProbe) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthProbeTimeout)
		defer cancel()

		report := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		status := fiber.StatusOK
		for _, probe := range probes {
			if report.Checks == nil {
				report.Checks = make(map[string]string, len(probes))
			}
			if err := probe.Check(ctx); err != nil {
				report.Checks[probe.Name] = err.Error()
				if probe.Critical {
					report.Status = "unavailable"
					status = fiber.StatusServiceUnavailable
				} else if report.Status == "ok" {
					report.Status = "degraded"
				}
				continue
			}
			report.Checks[probe.Name] = "ok"
		}

		return utils.SendSuccessWithStatus(c, status, report)
	}
}
