package router

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/sheets"
	"github.com/tahlil-one/tahlil/internal/pkg/statistics"
)

// userStore implements repository.UserRepository and subscription.Repository.
type userStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (s *userStore) get(id string) (*models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *userStore) GetByID(id string) (*models.User, error) {
	u, ok := s.get(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetUser(id string) (*models.User, error) { return s.GetByID(id) }

func (s *userStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userStore) List(offset, limit int) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if offset >= len(out) {
		return []models.User{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *userStore) Count() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *userStore) UpdateAccessLevel(id, level string) error { return s.SaveAccessLevel(id, level) }

func (s *userStore) MarkExpired(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.SubscriptionStatus != entitlements.StatusActive {
		return false, nil
	}
	u.SubscriptionStatus = entitlements.StatusExpired
	return true, nil
}

func (s *userStore) SaveSubscription(id string, tier entitlements.Tier, status string, start, end *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.SubscriptionType = string(tier)
	u.SubscriptionStatus = status
	u.SubscriptionStartDate = start
	u.SubscriptionEndDate = end
	return nil
}

func (s *userStore) SaveAccessLevel(id, level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.AccessLevel = level
	return nil
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.UserSession
}

func (s *sessionStore) GetByToken(token string) (*models.UserSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &sess, nil
}

func (s *sessionStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *sessionStore) DeleteExpired(before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, v := range s.sessions {
		if v.ExpiresAt.Before(before) {
			delete(s.sessions, k)
			n++
		}
	}
	return n, nil
}

type catalogStore struct {
	markets  map[string]models.Market
	assets   map[string]models.Asset
	analyses map[string]models.Analysis
}

func (s *catalogStore) marketRepo() *marketRepo     { return &marketRepo{s} }
func (s *catalogStore) assetRepo() *assetRepo       { return &assetRepo{s} }
func (s *catalogStore) analysisRepo() *analysisRepo { return &analysisRepo{s} }

type marketRepo struct{ s *catalogStore }

func (r *marketRepo) Create(m *models.Market) error { r.s.markets[m.MarketID] = *m; return nil }
func (r *marketRepo) GetByID(id string) (*models.Market, error) {
	m, ok := r.s.markets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}
func (r *marketRepo) List() ([]models.Market, error) {
	out := []models.Market{}
	for _, m := range r.s.markets {
		out = append(out, m)
	}
	return out, nil
}

type assetRepo struct{ s *catalogStore }

func (r *assetRepo) Create(a *models.Asset) error { r.s.assets[a.AssetID] = *a; return nil }
func (r *assetRepo) GetByID(id string) (*models.Asset, error) {
	a, ok := r.s.assets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}
func (r *assetRepo) ListByMarket(marketID string) ([]models.Asset, error) {
	out := []models.Asset{}
	for _, a := range r.s.assets {
		if marketID == "" || a.MarketID == marketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type analysisRepo struct{ s *catalogStore }

func (r *analysisRepo) GetByAssetID(assetID string) (*models.Analysis, error) {
	a, ok := r.s.analyses[assetID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}
func (r *analysisRepo) UpsertByAsset(a *models.Analysis) error {
	if cur, ok := r.s.analyses[a.AssetID]; ok {
		a.AnalysisID = cur.AnalysisID
	}
	r.s.analyses[a.AssetID] = *a
	return nil
}

type dailyStore struct {
	mu      sync.Mutex
	records []models.DailyAnalysis
	lists   int
}

func (s *dailyStore) FindByNaturalKey(ctx context.Context, market, instrument, datetime string) (*models.DailyAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.Market == market && r.InstrumentCode == instrument && r.AnalysisDatetime == datetime {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *dailyStore) Upsert(ctx context.Context, rec *models.DailyAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.Market == rec.Market && r.InstrumentCode == rec.InstrumentCode && r.AnalysisDatetime == rec.AnalysisDatetime {
			s.records[i] = *rec
			return nil
		}
	}
	s.records = append(s.records, *rec)
	return nil
}

func (s *dailyStore) List(ctx context.Context, f repository.DailyAnalysisFilter) ([]models.DailyAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	out := []models.DailyAnalysis{}
	for _, r := range s.records {
		if f.Market != "" && r.Market != f.Market {
			continue
		}
		if f.InstrumentCode != "" && r.InstrumentCode != f.InstrumentCode {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnalysisDatetime > out[j].AnalysisDatetime })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *dailyStore) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.records)), nil
}

func (s *dailyStore) LatestUpdatedAt(ctx context.Context) (*time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *time.Time
	for _, r := range s.records {
		t := r.UpdatedAt
		if latest == nil || t.After(*latest) {
			latest = &t
		}
	}
	return latest, nil
}

type forecastStore struct {
	mu      sync.Mutex
	records map[string]models.ForecastRecord
}

func (s *forecastStore) Create(ctx context.Context, r *models.ForecastRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.RecordID] = *r
	return nil
}

func (s *forecastStore) Save(ctx context.Context, r *models.ForecastRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[r.RecordID] = *r
	return nil
}

func (s *forecastStore) GetByID(ctx context.Context, id string) (*models.ForecastRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (s *forecastStore) List(ctx context.Context, f repository.ForecastFilter) ([]models.ForecastRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ForecastRecord{}
	for _, r := range s.records {
		if f.Market != "" && r.Market != f.Market {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordID < out[j].RecordID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *forecastStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, id)
	return nil
}

type stubSyncer struct {
	result *sheets.SyncResult
	err    error
	ranges []string
}

func (s *stubSyncer) Sync(ctx context.Context, rangeSpec string) (*sheets.SyncResult, error) {
	s.ranges = append(s.ranges, rangeSpec)
	return s.result, s.err
}

type stubLastSync struct {
	at *time.Time
}

func (s stubLastSync) LastSynced(ctx context.Context) (*time.Time, error) { return s.at, nil }

type statsSource struct {
	users *userStore
}

func (s *statsSource) Collect(ctx context.Context) (*statistics.Data, error) {
	s.users.mu.Lock()
	defer s.users.mu.Unlock()
	data := &statistics.Data{TotalUsers: int64(len(s.users.users))}
	for _, u := range s.users.users {
		switch u.SubscriptionStatus {
		case entitlements.StatusActive:
			data.ActiveSubscriptions++
		case entitlements.StatusExpired:
			data.ExpiredSubscriptions++
		}
	}
	return data, nil
}

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Set(key string, value interface{}, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return nil
}

func (m *memoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
