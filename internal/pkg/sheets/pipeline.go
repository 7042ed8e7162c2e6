package sheets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/tahlil-one/tahlil/app/models"
)

// Store persists normalized rows by natural key.
type Store interface {
	FindByNaturalKey(ctx context.Context, market, instrumentCode, analysisDatetime string) (*models.DailyAnalysis, error)
	Upsert(ctx context.Context, record *models.DailyAnalysis) error
}

// SyncMarker records when the last successful sync finished.
type SyncMarker interface {
	MarkSynced(ctx context.Context, at time.Time) error
}

// Pipeline normalizes source rows into daily analysis records.
type Pipeline struct {
	source RowSource
	store  Store
	marker SyncMarker
	now    func() time.Time
}

func NewPipeline(source RowSource, store Store, marker SyncMarker) *Pipeline {
	return &Pipeline{source: source, store: store, marker: marker, now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Sync fetches rangeSpec and upserts every valid row. Bad rows are skipped and
// reported in the result; only source failures abort the run.
func (p *Pipeline) Sync(ctx context.Context, rangeSpec string) (*SyncResult, error) {
	rows, err := p.source.FetchRows(ctx, rangeSpec)
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}

	result := newSyncResult()
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data found in sheet")
		return result, nil
	}

	for i, cells := range rows {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("sync interrupted before row %d: %w", i+2, err)
		}
		result.TotalRows++
		p.syncRow(ctx, i+2, cells, result)
	}

	log.Infof("[Sheets] Sync finished: %d rows, %d inserted, %d updated, %d skipped",
		result.TotalRows, result.Inserted, result.Updated, result.Skipped)

	if p.marker != nil {
		if err := p.marker.MarkSynced(ctx, p.now().UTC()); err != nil {
			log.Warnf("[Sheets] Failed to store last sync time: %v", err)
		}
	}
	return result, nil
}

func (p *Pipeline) syncRow(ctx context.Context, n int, cells []string, result *SyncResult) {
	defer func() {
		if r := recover(); r != nil {
			result.skip("Row %d: Unexpected error: %v", n, r)
		}
	}()

	if len(cells) < columnCount {
		result.skip("Row %d: Insufficient columns (expected %d, got %d)", n, columnCount, len(cells))
		return
	}

	var c [columnCount]string
	for i := range c {
		c[i] = strings.TrimSpace(cells[i])
	}
	market, instrument, insight, rawDatetime := c[0], c[1], c[2], c[3]
	if market == "" || instrument == "" || insight == "" || rawDatetime == "" {
		result.skip("Row %d: Missing required fields", n)
		return
	}

	analysisDatetime, err := ParseAnalysisDatetime(rawDatetime)
	if err != nil {
		result.skip("Row %d: Invalid datetime format: %s. Expected DD.MM.YYYY [HH:MM:SS]", n, rawDatetime)
		return
	}

	existing, err := p.store.FindByNaturalKey(ctx, market, instrument, analysisDatetime)
	if err != nil {
		result.skip("Row %d: Failed to save record: %v", n, err)
		return
	}

	now := p.now().UTC()
	record := &models.DailyAnalysis{
		Market:           market,
		InstrumentCode:   instrument,
		AnalysisDatetime: analysisDatetime,
		InsightType:      insight,
		AnalysisPrice:    c[4],
		TargetPrice:      c[5],
		CriticalLevel:    c[6],
		Source:           models.DailyAnalysisSourceGoogleSheets,
		UpdatedAt:        now,
	}
	if existing != nil {
		record.RecordID = existing.RecordID
		record.CreatedAt = existing.CreatedAt
	} else {
		record.RecordID = models.NewID("daily")
		record.CreatedAt = now
	}

	if err := p.store.Upsert(ctx, record); err != nil {
		result.skip("Row %d: Failed to save record: %v", n, err)
		return
	}
	if existing != nil {
		result.Updated++
	} else {
		result.Inserted++
	}
}
