package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tahlil-one/tahlil/app/models"
	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/usercontext"
)

// CatalogController serves markets, assets and the editorial analysis per asset.
type CatalogController struct {
	markets  repository.MarketRepository
	assets   repository.AssetRepository
	analyses repository.AnalysisRepository
}

func NewCatalogController(markets repository.MarketRepository, assets repository.AssetRepository, analyses repository.AnalysisRepository) *CatalogController {
	return &CatalogController{markets: markets, assets: assets, analyses: analyses}
}

type marketInput struct {
	NameAr string `json:"name_ar" validate:"required,max=150"`
	NameEn string `json:"name_en" validate:"required,max=150"`
	Region string `json:"region" validate:"required,max=100"`
}

type assetInput struct {
	MarketID string `json:"market_id" validate:"required,max=64"`
	NameAr   string `json:"name_ar" validate:"required,max=150"`
	NameEn   string `json:"name_en" validate:"required,max=150"`
	Type     string `json:"type" validate:"required,max=50"`
}

type analysisInput struct {
	AssetID         string  `json:"asset_id" validate:"required,max=64"`
	Bias            string  `json:"bias" validate:"required,max=50"`
	KeyLevels       string  `json:"key_levels" validate:"required"`
	ScenarioText    string  `json:"scenario_text" validate:"required"`
	InsightText     *string `json:"insight_text"`
	RiskNote        *string `json:"risk_note"`
	ConfidenceLevel string  `json:"confidence_level" validate:"required,max=50"`
}

func (cc *CatalogController) HandleListMarkets(c *fiber.Ctx) error {
	markets, err := cc.markets.List()
	if err != nil {
		return internalError(c, "Failed to load markets", err)
	}
	return c.JSON(markets)
}

func (cc *CatalogController) HandleListAssets(c *fiber.Ctx) error {
	assets, err := cc.assets.ListByMarket(c.Query("market_id"))
	if err != nil {
		return internalError(c, "Failed to load assets", err)
	}
	return c.JSON(assets)
}

// HandleGetAnalysis returns the analysis of an asset.
func (cc *CatalogController) HandleGetAnalysis(c *fiber.Ctx) error {
	analysis, err := cc.analyses.GetByAssetID(c.Params("asset_id"))
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Analysis not found")
		}
		return internalError(c, "Failed to load analysis", err)
	}
	return c.JSON(analysis)
}

func (cc *CatalogController) HandleCreateMarket(c *fiber.Ctx) error {
	var in marketInput
	if handled, err := decodeAndValidate(c, &in); handled {
		return err
	}

	market := &models.Market{
		MarketID:  models.NewID("market"),
		NameAr:    strings.TrimSpace(in.NameAr),
		NameEn:    strings.TrimSpace(in.NameEn),
		Region:    strings.TrimSpace(in.Region),
		CreatedAt: time.Now().UTC(),
	}
	if err := cc.markets.Create(market); err != nil {
		return internalError(c, "Failed to create market", err)
	}
	return c.Status(fiber.StatusCreated).JSON(market)
}

func (cc *CatalogController) HandleCreateAsset(c *fiber.Ctx) error {
	var in assetInput
	if handled, err := decodeAndValidate(c, &in); handled {
		return err
	}
	if _, err := cc.markets.GetByID(in.MarketID); err != nil {
		if isNotFound(err) {
			return notFound(c, "Market not found")
		}
		return internalError(c, "Failed to load market", err)
	}

	asset := &models.Asset{
		AssetID:   models.NewID("asset"),
		MarketID:  in.MarketID,
		NameAr:    strings.TrimSpace(in.NameAr),
		NameEn:    strings.TrimSpace(in.NameEn),
		Type:      strings.TrimSpace(in.Type),
		CreatedAt: time.Now().UTC(),
	}
	if err := cc.assets.Create(asset); err != nil {
		return internalError(c, "Failed to create asset", err)
	}
	return c.Status(fiber.StatusCreated).JSON(asset)
}

// HandleUpsertAnalysis replaces the analysis of an asset.
func (cc *CatalogController) HandleUpsertAnalysis(c *fiber.Ctx) error {
	var in analysisInput
	if handled, err := decodeAndValidate(c, &in); handled {
		return err
	}
	asset, err := cc.assets.GetByID(in.AssetID)
	if err != nil {
		if isNotFound(err) {
			return notFound(c, "Asset not found")
		}
		return internalError(c, "Failed to load asset", err)
	}

	analysis := &models.Analysis{
		AnalysisID:      models.NewID("analysis"),
		AssetID:         asset.AssetID,
		MarketID:        asset.MarketID,
		Bias:            in.Bias,
		KeyLevels:       in.KeyLevels,
		ScenarioText:    in.ScenarioText,
		InsightText:     in.InsightText,
		RiskNote:        in.RiskNote,
		ConfidenceLevel: in.ConfidenceLevel,
		UpdatedAt:       time.Now().UTC(),
		CreatedBy:       usercontext.GetUserID(c),
	}
	if err := cc.analyses.UpsertByAsset(analysis); err != nil {
		return internalError(c, "Failed to save analysis", err)
	}
	return c.JSON(analysis)
}
