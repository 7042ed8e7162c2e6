package forecast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2/log"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/app/repository"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	dateLayout = "2006-01-02"
)

var ErrInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

// Store is the persistence used by the service. repository.ForecastRepository satisfies it.
type Store interface {
	Create(ctx context.Context, record *models.ForecastRecord) error
	Save(ctx context.Context, record *models.ForecastRecord) error
	GetByID(ctx context.Context, id string) (*models.ForecastRecord, error)
	List(ctx context.Context, filter repository.ForecastFilter) ([]models.ForecastRecord, error)
	Delete(ctx context.Context, id string) error
}

// ListFilter narrows forecast listings.
type ListFilter struct {
	Market string
	Status string
	Limit  int
}

// Service manages forecast history and its analytics views.
type Service struct {
	store    Store
	validate *validator.Validate
	now      func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New(), now: time.Now}
}

// WithClock replaces the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IsInputError reports whether err was caused by invalid caller input.
func IsInputError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, ErrZeroEntryPrice) ||
		errors.Is(err, ErrInvalidDirection) ||
		errors.Is(err, ErrInvalidDate)
}

// Create stores a new forecast, deriving P/L and status when a result is supplied.
func (s *Service) Create(ctx context.Context, in models.ForecastCreate) (*models.ForecastRecord, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	forecastDate, err := normalizeDate(in.ForecastDate)
	if err != nil {
		return nil, fmt.Errorf("forecast_date: %w", err)
	}
	pl, status, err := Derive(in.ForecastDirection, in.EntryPrice, in.ForecastTargetPrice, in.ActualResultPrice)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record := &models.ForecastRecord{
		RecordID:            models.NewID("forecast"),
		InstrumentCode:      strings.TrimSpace(in.InstrumentCode),
		Market:              strings.TrimSpace(in.Market),
		ForecastDate:        forecastDate,
		ForecastDirection:   in.ForecastDirection,
		EntryPrice:          in.EntryPrice,
		ForecastTargetPrice: in.ForecastTargetPrice,
		ActualResultPrice:   in.ActualResultPrice,
		CalculatedPlPercent: pl,
		Status:              status,
		Notes:               in.Notes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if in.ActualResultPrice != nil {
		resultDate, err := s.resultDate(in.ResultDate)
		if err != nil {
			return nil, err
		}
		record.ResultDate = &resultDate
	}

	if err := s.store.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create forecast: %w", err)
	}
	log.Infof("[Forecast] Created %s for %s/%s (%s)", record.RecordID, record.Market, record.InstrumentCode, record.Status)
	return record, nil
}

// RecordResult sets the outcome of a forecast and replaces its derived P/L and status.
func (s *Service) RecordResult(ctx context.Context, id string, in models.ForecastUpdate) (*models.ForecastRecord, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	resultDate, err := normalizeDate(in.ResultDate)
	if err != nil {
		return nil, fmt.Errorf("result_date: %w", err)
	}

	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	actual := in.ActualResultPrice
	pl, status, err := Derive(record.ForecastDirection, record.EntryPrice, record.ForecastTargetPrice, &actual)
	if err != nil {
		return nil, err
	}

	record.ActualResultPrice = &actual
	record.ResultDate = &resultDate
	record.CalculatedPlPercent = pl
	record.Status = status
	if in.Notes != nil {
		record.Notes = in.Notes
	}
	record.UpdatedAt = s.now().UTC()

	if err := s.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("save forecast result: %w", err)
	}
	log.Infof("[Forecast] Recorded result for %s: %s %.2f%%", record.RecordID, record.Status, *pl)
	return record, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.ForecastRecord, error) {
	return s.store.GetByID(ctx, id)
}

// List returns forecasts newest first. The limit defaults to DefaultListLimit and is
// capped at MaxListLimit.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.ForecastRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.store.List(ctx, repository.ForecastFilter{Market: filter.Market, Status: filter.Status, Limit: limit})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	log.Infof("[Forecast] Deleted %s", id)
	return nil
}

// Performance returns the per instrument view, optionally for one market.
func (s *Service) Performance(ctx context.Context, market string) ([]InstrumentPerformance, error) {
	records, err := s.all(ctx, market)
	if err != nil {
		return nil, err
	}
	return PerformanceByInstrument(records), nil
}

// Cumulative returns the running return series, optionally for one market.
func (s *Service) Cumulative(ctx context.Context, market string) ([]CumulativePoint, error) {
	records, err := s.all(ctx, market)
	if err != nil {
		return nil, err
	}
	return CumulativeSeries(records), nil
}

// Summary returns the headline numbers, optionally for one market.
func (s *Service) Summary(ctx context.Context, market string) (Summary, error) {
	records, err := s.all(ctx, market)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

func (s *Service) all(ctx context.Context, market string) ([]models.ForecastRecord, error) {
	return s.store.List(ctx, repository.ForecastFilter{Market: market})
}

func (s *Service) resultDate(raw *string) (string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return s.now().UTC().Format(dateLayout), nil
	}
	d, err := normalizeDate(*raw)
	if err != nil {
		return "", fmt.Errorf("result_date: %w", err)
	}
	return d, nil
}

// normalizeDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the UTC date.
func normalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(dateLayout), nil
	}
	return "", ErrInvalidDate
}
