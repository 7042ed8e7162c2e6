package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tahlil-one/tahlil/app/repository"
	"github.com/tahlil-one/tahlil/internal/pkg/cache"
	"github.com/tahlil-one/tahlil/internal/pkg/database"
	"github.com/tahlil-one/tahlil/internal/pkg/entitlements"
	"github.com/tahlil-one/tahlil/internal/pkg/env"
	"github.com/tahlil-one/tahlil/internal/pkg/forecast"
	"github.com/tahlil-one/tahlil/internal/pkg/router"
	"github.com/tahlil-one/tahlil/internal/pkg/session"
	"github.com/tahlil-one/tahlil/internal/pkg/sheets"
	"github.com/tahlil-one/tahlil/internal/pkg/statistics"
	"github.com/tahlil-one/tahlil/internal/pkg/subscription"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/tahlil to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public/docs"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     env.GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// fiber metrics
	app.Get("/metrics", basicauth.New(basicauth.Config{
		Users: map[string]string{
			env.GetEnv("METRICS_USER", "admin"): env.GetEnv("METRICS_PASSWORD", "change-me"),
		},
	}), monitor.New())

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	db := database.GetDB()
	repository.InitializeFactory(db)
	repos := repository.GetGlobalRepositories()

	syncStore := cache.NewSyncStore(cache.GetClient())
	source := sheets.NewGoogleSheetsSource(sheets.ConfigFromEnv())
	if !source.Configured() {
		log.Printf("Google Sheets source is not configured, sync requests will answer 503")
	}

	session.StartCleanup(context.Background(), repos.Session, time.Hour)

	// ROUTER
	router.InstallRouter(app, router.Deps{
		Repos:         repos,
		Subscriptions: subscription.NewServiceFromDB(db),
		Forecasts:     forecast.NewService(repos.Forecast),
		Stats:         statistics.NewService(statistics.NewGormSource(db), cache.KV{}),
		Syncer:        sheets.NewPipeline(source, repos.DailyAnalysis, syncStore),
		LastSync:      syncStore,
		Tiers: router.Tiers{
			DailyAnalysis: requiredTier("DAILY_ANALYSIS_REQUIRED_TIER"),
			History:       requiredTier("HISTORY_REQUIRED_TIER"),
			Analysis:      requiredTier("ANALYSIS_REQUIRED_TIER"),
		},
		SheetRange:     sheets.RangeFromEnv(),
		SyncTimeout:    sheets.SyncTimeoutFromEnv(),
		LimiterStorage: session.NewRedisStorage(session.LimiterDatabase),
		LimiterMax:     env.GetEnvInt("RATE_LIMIT_PER_MINUTE", 120),
	})

	return app
}

func requiredTier(key string) entitlements.Tier {
	raw := env.GetEnv(key, string(entitlements.TierAny))
	tier := entitlements.ParseTier(raw)
	if tier == entitlements.TierNone {
		log.Printf("Unknown tier %q in %s, falling back to %s", raw, key, entitlements.TierAny)
		return entitlements.TierAny
	}
	return tier
}
