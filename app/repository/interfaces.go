package repository

import (
	"context"
	"time"

	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	UpdateAccessLevel(id, accessLevel string) error
}

// SessionRepository reads sessions issued by the OAuth collaborator
type SessionRepository interface {
	GetByToken(token string) (*models.UserSession, error)
	Delete(token string) error
	DeleteExpired(before time.Time) (int64, error)
}

// MarketRepository defines the interface for market-related database operations
type MarketRepository interface {
	Create(market *models.Market) error
	GetByID(id string) (*models.Market, error)
	List() ([]models.Market, error)
}

// AssetRepository defines the interface for asset-related database operations
type AssetRepository interface {
	Create(asset *models.Asset) error
	GetByID(id string) (*models.Asset, error)
	ListByMarket(marketID string) ([]models.Asset, error)
}

// AnalysisRepository stores the single editorial analysis per asset
type AnalysisRepository interface {
	GetByAssetID(assetID string) (*models.Analysis, error)
	UpsertByAsset(analysis *models.Analysis) error
}

// DailyAnalysisFilter narrows daily analysis listings. Zero values mean "no filter".
type DailyAnalysisFilter struct {
	Market         string
	InstrumentCode string
	Limit          int
}

// DailyAnalysisRepository persists normalized sheet rows keyed by their natural key
type DailyAnalysisRepository interface {
	FindByNaturalKey(ctx context.Context, market, instrumentCode, analysisDatetime string) (*models.DailyAnalysis, error)
	Upsert(ctx context.Context, record *models.DailyAnalysis) error
	List(ctx context.Context, filter DailyAnalysisFilter) ([]models.DailyAnalysis, error)
	Count(ctx context.Context) (int64, error)
	LatestUpdatedAt(ctx context.Context) (*time.Time, error)
}

// ForecastFilter narrows forecast listings. Zero values mean "no filter".
type ForecastFilter struct {
	Market string
	Status string
	Limit  int
}

// ForecastRepository defines the interface for forecast history operations
type ForecastRepository interface {
	Create(ctx context.Context, record *models.ForecastRecord) error
	Save(ctx context.Context, record *models.ForecastRecord) error
	GetByID(ctx context.Context, id string) (*models.ForecastRecord, error)
	List(ctx context.Context, filter ForecastFilter) ([]models.ForecastRecord, error)
	Delete(ctx context.Context, id string) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Market        MarketRepository
	Asset         AssetRepository
	Analysis      AnalysisRepository
	DailyAnalysis DailyAnalysisRepository
	Forecast      ForecastRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Market:        NewMarketRepository(db),
		Asset:         NewAssetRepository(db),
		Analysis:      NewAnalysisRepository(db),
		DailyAnalysis: NewDailyAnalysisRepository(db),
		Forecast:      NewForecastRepository(db),
	}
}
