package forecast

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/app/repository"
	"gorm.io/gorm"
)

type memoryStore struct {
	records map[string]models.ForecastRecord
	last    repository.ForecastFilter
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]models.ForecastRecord{}}
}

func (m *memoryStore) Create(ctx context.Context, r *models.ForecastRecord) error {
	m.records[r.RecordID] = *r
	return nil
}

func (m *memoryStore) Save(ctx context.Context, r *models.ForecastRecord) error {
	if _, ok := m.records[r.RecordID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.records[r.RecordID] = *r
	return nil
}

func (m *memoryStore) GetByID(ctx context.Context, id string) (*models.ForecastRecord, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (m *memoryStore) List(ctx context.Context, f repository.ForecastFilter) ([]models.ForecastRecord, error) {
	m.last = f
	out := []models.ForecastRecord{}
	for _, r := range m.records {
		if f.Market != "" && r.Market != f.Market {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ForecastDate > out[j].ForecastDate })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

var serviceNow = time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC)

func newTestService() (*Service, *memoryStore) {
	store := newMemoryStore()
	return NewService(store).WithClock(func() time.Time { return serviceNow }), store
}

func bullishInput() models.ForecastCreate {
	return models.ForecastCreate{
		InstrumentCode:      "XAUUSD",
		Market:              "Forex",
		ForecastDate:        "2024-04-01",
		ForecastDirection:   models.DirectionBullish,
		EntryPrice:          2000,
		ForecastTargetPrice: 2050,
	}
}

func TestCreatePending(t *testing.T) {
	svc, store := newTestService()

	rec, err := svc.Create(context.Background(), bullishInput())
	require.NoError(t, err)
	assert.Equal(t, models.ForecastStatusPending, rec.Status)
	assert.Nil(t, rec.CalculatedPlPercent)
	assert.Nil(t, rec.ResultDate)
	assert.Regexp(t, `^forecast_[0-9a-f]{12}$`, rec.RecordID)
	assert.Contains(t, store.records, rec.RecordID)
}

func TestCreateWithResult(t *testing.T) {
	svc, _ := newTestService()
	in := bullishInput()
	in.ForecastDate = "2024-04-01T10:00:00Z"
	in.ActualResultPrice = f64(2100)

	rec, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01", rec.ForecastDate)
	assert.Equal(t, models.ForecastStatusSuccess, rec.Status)
	require.NotNil(t, rec.CalculatedPlPercent)
	assert.Equal(t, 5.0, *rec.CalculatedPlPercent)
	require.NotNil(t, rec.ResultDate)
	assert.Equal(t, "2024-04-02", *rec.ResultDate)
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc, store := newTestService()

	in := bullishInput()
	in.EntryPrice = 0
	_, err := svc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, IsInputError(err))

	in = bullishInput()
	in.ForecastDirection = "Sideways"
	_, err = svc.Create(context.Background(), in)
	assert.True(t, IsInputError(err))

	in = bullishInput()
	in.ForecastDate = "01.04.2024"
	_, err = svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.True(t, IsInputError(err))

	assert.Empty(t, store.records)
}

func TestRecordResultReplacesDerivedFields(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	rec, err := svc.Create(ctx, bullishInput())
	require.NoError(t, err)

	updated, err := svc.RecordResult(ctx, rec.RecordID, models.ForecastUpdate{ActualResultPrice: 1900, ResultDate: "2024-04-05"})
	require.NoError(t, err)
	assert.Equal(t, models.ForecastStatusFailed, updated.Status)
	assert.Equal(t, -5.0, *updated.CalculatedPlPercent)

	notes := "target hit after retest"
	updated, err = svc.RecordResult(ctx, rec.RecordID, models.ForecastUpdate{ActualResultPrice: 2060, ResultDate: "2024-04-06", Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.ForecastStatusSuccess, updated.Status)
	assert.Equal(t, 3.0, *updated.CalculatedPlPercent)
	assert.Equal(t, "2024-04-06", *updated.ResultDate)

	stored := store.records[rec.RecordID]
	assert.Equal(t, notes, *stored.Notes)
	assert.Equal(t, models.ForecastStatusSuccess, stored.Status)
}

func TestRecordResultUnknownForecast(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RecordResult(context.Background(), "forecast_missing", models.ForecastUpdate{ActualResultPrice: 10, ResultDate: "2024-04-05"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListAppliesLimits(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultListLimit, store.last.Limit)

	_, err = svc.List(ctx, ListFilter{Limit: 10000, Market: "Forex", Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, repository.ForecastFilter{Market: "Forex", Status: "pending", Limit: MaxListLimit}, store.last)
}

func TestViewsFilterByMarket(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, in := range []models.ForecastCreate{
		{InstrumentCode: "XAUUSD", Market: "Forex", ForecastDate: "2024-04-01", ForecastDirection: models.DirectionBullish, EntryPrice: 100, ForecastTargetPrice: 110, ActualResultPrice: f64(110)},
		{InstrumentCode: "BTCUSD", Market: "Crypto", ForecastDate: "2024-04-01", ForecastDirection: models.DirectionBearish, EntryPrice: 100, ForecastTargetPrice: 90, ActualResultPrice: f64(105)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, "Forex")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalForecasts)
	assert.Equal(t, 10.0, summary.TotalReturnPercent)

	perf, err := svc.Performance(ctx, "")
	require.NoError(t, err)
	require.Len(t, perf, 2)
	assert.Equal(t, "XAUUSD", perf[0].InstrumentCode)

	series, err := svc.Cumulative(ctx, "Crypto")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, -5.0, series[0].CumulativeReturn)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	rec, err := svc.Create(ctx, bullishInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rec.RecordID))
	assert.Empty(t, store.records)
	assert.ErrorIs(t, svc.Delete(ctx, rec.RecordID), gorm.ErrRecordNotFound)
}
