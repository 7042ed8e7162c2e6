package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/internal/pkg/statistics"
)

type AdminStatsController struct {
	stats *statistics.Service
}

func NewAdminStatsController(stats *statistics.Service) *AdminStatsController {
	return &AdminStatsController{stats: stats}
}

// HandleStats returns the dashboard summary. ?refresh=1 bypasses the cache.
func (sc *AdminStatsController) HandleStats(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	data, err := sc.stats.Get(ctx, c.QueryBool("refresh"))
	if err != nil {
		return internalError(c, "Failed to load statistics", err)
	}
	return c.JSON(data)
}
