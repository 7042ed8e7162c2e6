package repository

import (
	"github.com/tahlil-one/tahlil/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCatalogRows = 100

// marketRepository implements the MarketRepository interface
type marketRepository struct {
	db *gorm.DB
}

// NewMarketRepository creates a new market repository instance
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

func (r *marketRepository) Create(market *models.Market) error {
	return r.db.Create(market).Error
}

func (r *marketRepository) GetByID(id string) (*models.Market, error) {
	var market models.Market
	err := r.db.Where("market_id = ?", id).First(&market).Error
	if err != nil {
		return nil, err
	}
	return &market, nil
}

func (r *marketRepository) List() ([]models.Market, error) {
	var markets []models.Market
	err := r.db.Order("created_at ASC").Limit(maxCatalogRows).Find(&markets).Error
	return markets, err
}

// assetRepository implements the AssetRepository interface
type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository creates a new asset repository instance
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(asset *models.Asset) error {
	return r.db.Create(asset).Error
}

func (r *assetRepository) GetByID(id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.db.Where("asset_id = ?", id).First(&asset).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListByMarket returns assets of one market, or all assets when marketID is empty
func (r *assetRepository) ListByMarket(marketID string) ([]models.Asset, error) {
	var assets []models.Asset
	query := r.db.Order("created_at ASC").Limit(maxCatalogRows)
	if marketID != "" {
		query = query.Where("market_id = ?", marketID)
	}
	err := query.Find(&assets).Error
	return assets, err
}

// analysisRepository implements the AnalysisRepository interface
type analysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new analysis repository instance
func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) GetByAssetID(assetID string) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.db.Where("asset_id = ?", assetID).First(&analysis).Error
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// UpsertByAsset replaces the analysis of an asset, keeping one row per asset
func (r *analysisRepository) UpsertByAsset(analysis *models.Analysis) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "asset_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"analysis_id",
			"market_id",
			"bias",
			"key_levels",
			"scenario_text",
			"insight_text",
			"risk_note",
			"confidence_level",
			"updated_at",
			"created_by",
		}),
	}).Create(analysis).Error; err != nil {
		return err
	}

	return r.db.Where("asset_id = ?", analysis.AssetID).First(analysis).Error
}
