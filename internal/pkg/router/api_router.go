package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/tahlil-one/tahlil/app/controllers"
	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/forecast"
	"github.com/tahlil-one/tahlil/internal/pkg/middleware"
	"github.com/tahlil-one/tahlil/internal/pkg/statistics"
	"github.com/tahlil-one/tahlil/internal/pkg/subscription"
)

// Tiers holds the subscription tier each gated area requires.
type Tiers struct {
	DailyAnalysis entitlements.Tier
	History       entitlements.Tier
	Analysis      entitlements.Tier
}

// Deps are the collaborators of the API routes.
type Deps struct {
	Repos         *repository.Repositories
	Subscriptions *subscription.Service
	Forecasts     *forecast.Service
	Stats         *statistics.Service
	Syncer        controllers.SheetSyncer
	LastSync      controllers.LastSyncReader
	Tiers         Tiers
	SheetRange    string
	SyncTimeout   time.Duration

	// LimiterStorage backs the rate limiter; nil keeps counters in memory.
	LimiterStorage fiber.Storage
	LimiterMax     int
}

type ApiRouter struct {
	deps Deps
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	d := h.deps
	max := d.LimiterMax
	if max <= 0 {
		max = 120
	}

	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1", limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		Storage:    d.LimiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "too_many_requests",
				"message": "rate limit exceeded",
			})
		},
	}))
	v1.Use(middleware.SessionAuthMiddleware(d.Repos.Session, d.Repos.User, d.Subscriptions))

	authCtrl := controllers.NewAuthController(d.Repos.Session, d.Subscriptions)
	adminUserCtrl := controllers.NewAdminUserController(d.Repos.User, d.Subscriptions)
	catalogCtrl := controllers.NewCatalogController(d.Repos.Market, d.Repos.Asset, d.Repos.Analysis)
	dailyCtrl := controllers.NewDailyAnalysisController(d.Repos.DailyAnalysis, d.Syncer, d.LastSync, d.SheetRange, d.SyncTimeout)
	historyCtrl := controllers.NewHistoryController(d.Forecasts)
	statsCtrl := controllers.NewAdminStatsController(d.Stats)

	// account
	v1.Get("/auth/me", middleware.RequireAuth, authCtrl.HandleMe)
	v1.Post("/auth/logout", middleware.RequireAuth, authCtrl.HandleLogout)
	v1.Get("/subscriptions/status", middleware.RequireAuth, authCtrl.HandleSubscriptionStatus)

	// public catalog
	v1.Get("/markets", catalogCtrl.HandleListMarkets)
	v1.Get("/assets", catalogCtrl.HandleListAssets)

	// subscriber content
	v1.Get("/analysis/:asset_id", middleware.RequireSubscription(d.Tiers.Analysis), catalogCtrl.HandleGetAnalysis)

	daily := v1.Group("/daily-analysis", middleware.RequireSubscription(d.Tiers.DailyAnalysis))
	daily.Get("/", dailyCtrl.HandleList)
	daily.Get("/chart-data", dailyCtrl.HandleChartData)
	daily.Get("/line-chart-data", dailyCtrl.HandleLineChartData)
	daily.Get("/last-sync", dailyCtrl.HandleLastSync)

	history := v1.Group("/history", middleware.RequireSubscription(d.Tiers.History))
	history.Get("/forecasts", historyCtrl.HandleListForecasts)
	history.Get("/forecasts/:id", historyCtrl.HandleGetForecast)
	history.Get("/summary", historyCtrl.HandleSummary)
	history.Get("/performance", historyCtrl.HandlePerformance)
	history.Get("/cumulative", historyCtrl.HandleCumulative)
	history.Get("/cumulative/chart.png", historyCtrl.HandleCumulativeChart)

	// admin
	admin := v1.Group("/admin", middleware.RequireAdmin)
	admin.Post("/daily-analysis/sync", dailyCtrl.HandleSync)
	admin.Post("/history/forecasts", historyCtrl.HandleCreateForecast)
	admin.Put("/history/forecasts/:id/result", historyCtrl.HandleRecordResult)
	admin.Delete("/history/forecasts/:id", historyCtrl.HandleDeleteForecast)
	admin.Post("/markets", catalogCtrl.HandleCreateMarket)
	admin.Post("/assets", catalogCtrl.HandleCreateAsset)
	admin.Post("/analysis", catalogCtrl.HandleUpsertAnalysis)
	admin.Get("/stats", statsCtrl.HandleStats)
	admin.Get("/users", adminUserCtrl.HandleListUsers)
	admin.Put("/users/:id/subscription", adminUserCtrl.HandleGrantSubscription)
	admin.Delete("/users/:id/subscription", adminUserCtrl.HandleRevokeSubscription)
	admin.Put("/users/:id/access-level", adminUserCtrl.HandleSetAccessLevel)
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}
