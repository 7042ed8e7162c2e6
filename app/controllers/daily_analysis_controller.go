package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/sheets"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

const (
	defaultDailyAnalysisLimit = 200
	maxDailyAnalysisLimit     = 1000
)

// DailyAnalysisReader lists persisted sheet rows.
type DailyAnalysisReader interface {
	List(ctx context.Context, filter repository.DailyAnalysisFilter) ([]models.DailyAnalysis, error)
	LatestUpdatedAt(ctx context.Context) (*time.Time, error)
}

// SheetSyncer runs one ingestion pass.
type SheetSyncer interface {
	Sync(ctx context.Context, rangeSpec string) (*sheets.SyncResult, error)
}

// LastSyncReader returns the time of the last successful sync, nil if unknown.
type LastSyncReader interface {
	LastSynced(ctx context.Context) (*time.Time, error)
}

// DailyAnalysisController serves the daily analysis views and the admin sync.
type DailyAnalysisController struct {
	store        DailyAnalysisReader
	syncer       SheetSyncer
	lastSync     LastSyncReader
	defaultRange string
	syncTimeout  time.Duration
}

func NewDailyAnalysisController(store DailyAnalysisReader, syncer SheetSyncer, lastSync LastSyncReader, defaultRange string, syncTimeout time.Duration) *DailyAnalysisController {
	if syncTimeout <= 0 {
		syncTimeout = 60 * time.Second
	}
	return &DailyAnalysisController{
		store:        store,
		syncer:       syncer,
		lastSync:     lastSync,
		defaultRange: defaultRange,
		syncTimeout:  syncTimeout,
	}
}

type syncRequest struct {
	Range string `json:"range" validate:"omitempty,max=200"`
}

func (dc *DailyAnalysisController) records(c *fiber.Ctx, limit int) ([]models.DailyAnalysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return dc.store.List(ctx, repository.DailyAnalysisFilter{
		Market:         c.Query("market"),
		InstrumentCode: c.Query("instrument"),
		Limit:          limit,
	})
}

// HandleList returns records newest first, filtered by ?market= and ?instrument=.
func (dc *DailyAnalysisController) HandleList(c *fiber.Ctx) error {
	limit := queryLimit(c, defaultDailyAnalysisLimit)
	if limit > maxDailyAnalysisLimit {
		limit = maxDailyAnalysisLimit
	}
	records, err := dc.records(c, limit)
	if err != nil {
		return internalError(c, "Failed to load daily analysis", err)
	}
	return c.JSON(records)
}

// HandleChartData returns the latest numeric price per instrument.
func (dc *DailyAnalysisController) HandleChartData(c *fiber.Ctx) error {
	records, err := dc.records(c, 0)
	if err != nil {
		return internalError(c, "Failed to load daily analysis", err)
	}
	return c.JSON(sheets.ChartData(records))
}

// HandleLineChartData returns numeric prices in ascending datetime order.
func (dc *DailyAnalysisController) HandleLineChartData(c *fiber.Ctx) error {
	records, err := dc.records(c, 0)
	if err != nil {
		return internalError(c, "Failed to load daily analysis", err)
	}
	return c.JSON(sheets.LineChartData(records))
}

// HandleLastSync reports when the data last changed. The stored marker wins; without it
// the newest updated_at of the table is used.
func (dc *DailyAnalysisController) HandleLastSync(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var last *time.Time
	if dc.lastSync != nil {
		t, err := dc.lastSync.LastSynced(ctx)
		if err != nil {
			log.Warnf("[DailyAnalysis] last sync marker unavailable: %v", err)
		}
		last = t
	}
	if last == nil {
		t, err := dc.store.LatestUpdatedAt(ctx)
		if err != nil {
			return internalError(c, "Failed to load last sync time", err)
		}
		last = t
	}

	var value interface{}
	if last != nil {
		value = last.UTC().Format(time.RFC3339)
	}
	return c.JSON(fiber.Map{"last_sync": value})
}

// HandleSync pulls the sheet into the store. Source failures map to 5xx codes so the
// caller can tell them apart from per-row skips, which are reported in the result.
func (dc *DailyAnalysisController) HandleSync(c *fiber.Ctx) error {
	var in syncRequest
	if len(c.Body()) > 0 {
		if handled, err := decodeAndValidate(c, &in); handled {
			return err
		}
	}
	rangeSpec := in.Range
	if rangeSpec == "" {
		rangeSpec = dc.defaultRange
	}

	ctx, cancel := context.WithTimeout(context.Background(), dc.syncTimeout)
	defer cancel()

	log.Infof("[DailyAnalysis] Sync of %q requested by %s", rangeSpec, usercontext.GetUserID(c))
	result, err := dc.syncer.Sync(ctx, rangeSpec)
	if err != nil {
		return syncError(c, err)
	}
	return c.JSON(result)
}

func syncError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, sheets.ErrMissingCredentials):
		return jsonError(c, fiber.StatusServiceUnavailable, "source_not_configured", "Google Sheets credentials are not configured")
	case errors.Is(err, context.DeadlineExceeded):
		return jsonError(c, fiber.StatusGatewayTimeout, "source_timeout", "Timed out while reading the sheet")
	case errors.Is(err, sheets.ErrSourceUnauthorized):
		log.Warnf("[DailyAnalysis] sheet source rejected credentials: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "source_unauthorized", "Google Sheets rejected the configured credentials")
	case errors.Is(err, sheets.ErrSourceUnavailable):
		log.Warnf("[DailyAnalysis] sheet source unavailable: %v", err)
		return jsonError(c, fiber.StatusBadGateway, "source_unavailable", "Google Sheets is unavailable")
	default:
		return internalError(c, "Sync failed", err)
	}
}
