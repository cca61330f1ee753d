package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"team-ops-system/config"
	"team-ops-system/handlers"
	"team-ops-system/logging"
	"team-ops-system/middleware"
	"team-ops-system/models"
	"team-ops-system/services"
	"team-ops-system/utils"
	"team-ops-system/workers"

	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func fatal(format string, args ...interface{}) {
	logging.Logger().Errorf(format, args...)
	os.Exit(1)
}

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Logger().Infof("no .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("invalid configuration: %v", err)
	}
	logging.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		fatal("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Lineup{},
		&models.PlayerProfile{},
		&models.Team{},
		&models.RivalPlayer{},
		&models.Match{},
		&models.MatchParticipant{},
		&models.TierList{},
		&models.TierListEntry{},
		&models.ChampionDefinition{},
		&models.DraftSession{},
	); err != nil {
		fatal("failed to migrate database: %v", err)
	}

	var cache services.ReportCache = services.NopReportCache{}
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			fatal("invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logging.Logger().Warnf("redis unreachable, scouting cache errors will be logged: %v", err)
		}
		cache = services.NewRedisReportCache(rdb, cfg.ScoutingCacheTTL)
	}

	var uploader services.ReportUploader
	if cfg.R2.Enabled() {
		r2, err := utils.NewR2Client(ctx, cfg.R2)
		if err != nil {
			fatal("failed to initialize R2 client: %v", err)
		}
		uploader = r2
	} else {
		logging.Logger().Infof("R2 bucket not configured, report export disabled")
	}

	repo := services.NewGormRepository(db)
	statsService := services.NewStatsService(repo)
	scoutingService := services.NewScoutingService(repo, cache, uploader)
	draftService := services.NewDraftService(repo)
	matchService := services.NewMatchService(db, repo, scoutingService)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.CookieSecure)

	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		fatal("failed to bootstrap admin: %v", err)
	}

	catalogWorker := workers.NewCatalogSyncWorker(
		workers.GormCatalogStore{DB: db},
		cfg.DDragonBaseURL, cfg.DDragonLocale, cfg.CatalogSyncInterval, utils.HTTPClient,
	)
	catalogWorker.Start(ctx)

	var warmer gocron.Scheduler
	if cfg.RedisURL != "" {
		warmer, err = scoutingService.StartReportWarmer(ctx, services.WarmInterval(cfg.ScoutingCacheTTL))
		if err != nil {
			fatal("failed to start report warmer: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 8 * 1024 * 1024,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID, X-Cache",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	session := middleware.SessionMiddleware(cfg.JWTSecret, authService)
	handlers.SetupHealthRoutes(app)
	handlers.SetupAuthRoutes(app, session, authService)
	handlers.SetupAnalyticsRoutes(app, session, statsService, scoutingService, draftService)
	handlers.SetupMatchRoutes(app, session, middleware.ServiceTokenMiddleware(cfg.ServiceToken), matchService)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logging.Logger().Errorf("server error: %v", err)
			stop()
		}
	}()

	logging.Logger().Infof("server running on :%s", cfg.Port)
	logging.Logger().Infof("CORS configured for origins: %s", strings.Join(cfg.AllowedOrigins, ","))

	<-ctx.Done()
	logging.Logger().Infof("shutting down server...")

	if warmer != nil {
		if err := warmer.Shutdown(); err != nil {
			logging.Logger().Warnf("scheduler shutdown: %v", err)
		}
	}
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logging.Logger().Warnf("server shutdown: %v", err)
	}
}
