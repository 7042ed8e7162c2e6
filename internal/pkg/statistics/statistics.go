package statistics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
)

const (
	CacheKey        = "statistics:dashboard"
	CacheExpiration = 5 * time.Minute
)

// Data is the admin dashboard summary.
type Data struct {
	TotalUsers           int64     `json:"total_users"`
	ActiveSubscriptions  int64     `json:"active_subscriptions"`
	ExpiredSubscriptions int64     `json:"expired_subscriptions"`
	DailyAnalysisRecords int64     `json:"daily_analysis_records"`
	ForecastsTotal       int64     `json:"forecasts_total"`
	ForecastsPending     int64     `json:"forecasts_pending"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// Source counts the rows behind Data.
type Source interface {
	Collect(ctx context.Context) (*Data, error)
}

// KV is the cache the summary is kept in. cache.KV satisfies it.
type KV interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
}

type gormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) Source {
	return &gormSource{db: db}
}

func (s *gormSource) Collect(ctx context.Context) (*Data, error) {
	db := s.db.WithContext(ctx)
	data := &Data{}

	counts := []struct {
		name  string
		query *gorm.DB
		dst   *int64
	}{
		{"users", db.Model(&models.User{}), &data.TotalUsers},
		{"active subscriptions", db.Model(&models.User{}).Where("subscription_status = ?", entitlements.StatusActive), &data.ActiveSubscriptions},
		{"expired subscriptions", db.Model(&models.User{}).Where("subscription_status = ?", entitlements.StatusExpired), &data.ExpiredSubscriptions},
		{"daily analysis", db.Model(&models.DailyAnalysis{}), &data.DailyAnalysisRecords},
		{"forecasts", db.Model(&models.ForecastRecord{}), &data.ForecastsTotal},
		{"pending forecasts", db.Model(&models.ForecastRecord{}).Where("status = ?", models.ForecastStatusPending), &data.ForecastsPending},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	return data, nil
}

// Service serves the summary from the cache and recomputes it when missing.
type Service struct {
	src Source
	kv  KV
	ttl time.Duration
	now func() time.Time

	// serializes recomputation so concurrent misses hit the database once
	mu sync.Mutex
}

func NewService(src Source, kv KV) *Service {
	return &Service{src: src, kv: kv, ttl: CacheExpiration, now: time.Now}
}

// Get returns the cached summary, computing and caching it on a miss. With refresh the
// cached value is dropped first.
func (s *Service) Get(ctx context.Context, refresh bool) (*Data, error) {
	if refresh {
		if err := s.kv.Delete(CacheKey); err != nil {
			log.Warnf("[Statistics] Failed to drop cached summary: %v", err)
		}
	} else if data, ok := s.cached(); ok {
		return data, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh {
		if data, ok := s.cached(); ok {
			return data, nil
		}
	}

	data, err := s.src.Collect(ctx)
	if err != nil {
		return nil, err
	}
	data.GeneratedAt = s.now().UTC()

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(CacheKey, string(raw), s.ttl); err != nil {
		log.Warnf("[Statistics] Failed to cache summary: %v", err)
	}
	return data, nil
}

func (s *Service) cached() (*Data, bool) {
	raw, err := s.kv.Get(CacheKey)
	if err != nil || raw == "" {
		return nil, false
	}
	var data Data
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		log.Warnf("[Statistics] Ignoring unreadable cached summary: %v", err)
		return nil, false
	}
	return &data, true
}
