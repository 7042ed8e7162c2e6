package controllers

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/forecast"
)

// HistoryController serves forecast history and its analytics.
type HistoryController struct {
	svc *forecast.Service
}

func NewHistoryController(svc *forecast.Service) *HistoryController {
	return &HistoryController{svc: svc}
}

func historyContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// HandleListForecasts lists forecasts newest first.
func (hc *HistoryController) HandleListForecasts(c *fiber.Ctx) error {
	status := c.Query("status")
	switch status {
	case "", models.ForecastStatusPending, models.ForecastStatusSuccess, models.ForecastStatusFailed:
	default:
		return badRequest(c, "status must be pending, success or failed")
	}

	ctx, cancel := historyContext()
	defer cancel()

	records, err := hc.svc.List(ctx, forecast.ListFilter{
		Market: c.Query("market"),
		Status: status,
		Limit:  queryLimit(c, forecast.DefaultListLimit),
	})
	if err != nil {
		return internalError(c, "Failed to load forecasts", err)
	}
	return c.JSON(records)
}

func (hc *HistoryController) HandleGetForecast(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	record, err := hc.svc.Get(ctx, c.Params("id"))
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Forecast not found")
		}
		return internalError(c, "Failed to load forecast", err)
	}
	return c.JSON(record)
}

func (hc *HistoryController) HandleSummary(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	summary, err := hc.svc.Summary(ctx, c.Query("market"))
	if err != nil {
		return internalError(c, "Failed to compute summary", err)
	}
	return c.JSON(summary)
}

func (hc *HistoryController) HandlePerformance(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	perf, err := hc.svc.Performance(ctx, c.Query("market"))
	if err != nil {
		return internalError(c, "Failed to compute performance", err)
	}
	return c.JSON(perf)
}

func (hc *HistoryController) HandleCumulative(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	points, err := hc.svc.Cumulative(ctx, c.Query("market"))
	if err != nil {
		return internalError(c, "Failed to compute cumulative returns", err)
	}
	return c.JSON(points)
}

// HandleCumulativeChart renders the cumulative series as PNG.
func (hc *HistoryController) HandleCumulativeChart(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	points, err := hc.svc.Cumulative(ctx, c.Query("market"))
	if err != nil {
		return internalError(c, "Failed to compute cumulative returns", err)
	}

	var buf bytes.Buffer
	if err := forecast.RenderCumulativeChart(points, &buf); err != nil {
		if errors.Is(err, forecast.ErrNoChartData) {
			return notFound(c, "No completed forecasts to chart")
		}
		return internalError(c, "Failed to render chart", err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(buf.Bytes())
}

// HandleCreateForecast stores a new forecast.
func (hc *HistoryController) HandleCreateForecast(c *fiber.Ctx) error {
	var in models.ForecastCreate
	if err := decodeStrict(c, &in); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := historyContext()
	defer cancel()

	record, err := hc.svc.Create(ctx, in)
	if err != nil {
		return forecastError(c, err, "Failed to create forecast")
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

// HandleRecordResult sets the outcome of a forecast.
func (hc *HistoryController) HandleRecordResult(c *fiber.Ctx) error {
	var in models.ForecastUpdate
	if err := decodeStrict(c, &in); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := historyContext()
	defer cancel()

	record, err := hc.svc.RecordResult(ctx, c.Params("id"), in)
	if err != nil {
		return forecastError(c, err, "Failed to record forecast result")
	}
	return c.JSON(record)
}

func (hc *HistoryController) HandleDeleteForecast(c *fiber.Ctx) error {
	ctx, cancel := historyContext()
	defer cancel()

	if err := hc.svc.Delete(ctx, c.Params("id")); err != nil {
		return forecastError(c, err, "Failed to delete forecast")
	}
	return c.JSON(fiber.Map{"message": "Forecast deleted"})
}

func forecastError(c *fiber.Ctx, err error, message string) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return validationFailed(c, err)
	case forecast.IsInputError(err):
		return badRequest(c, err.Error())
	case isNotFound(err):
		return notFound(c, "Forecast not found")
	default:
		return internalError(c, message, err)
	}
}
