package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/programhub/internal/app/controllers"
	appMigrations "github.com/yigit/programhub/internal/app/migrations"
	appRepos "github.com/yigit/programhub/internal/app/repositories"
	appRoutes "github.com/yigit/programhub/internal/app/routes"
	appServices "github.com/yigit/programhub/internal/app/services"
	"github.com/yigit/programhub/internal/config"
	"github.com/yigit/programhub/internal/db"
	appMiddleware "github.com/yigit/programhub/internal/middleware"
	pkgAuth "github.com/yigit/programhub/internal/pkg/auth"
	"github.com/yigit/programhub/internal/pkg/helpers"
	"github.com/yigit/programhub/internal/pkg/logger"
	"github.com/yigit/programhub/internal/pkg/metrics"
	"github.com/yigit/programhub/internal/pkg/ratelimiter"
	"github.com/yigit/programhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Metrics        *metrics.Metrics
	LoginLimiter   *ratelimiter.MapLimiter
	Redis          *redis.Client
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrator"))
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// SetupRedis connects to Redis when an address is configured. A nil client
// means token revocation is disabled.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if !cfg.RedisEnabled() {
		lgr.Warn().Msg("Redis not configured, logout will not revoke tokens")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(database)
	deps.Metrics = metrics.New()

	var revocation pkgAuth.RevocationStore = pkgAuth.NoopRevocationStore{}
	if redisClient != nil {
		revocation = pkgAuth.NewRedisRevocationStore(redisClient)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	hasher := pkgAuth.NewHasher(pkgAuth.HasherConfig{
		Algorithm:     strings.ToLower(cfg.Security.HashAlgorithm),
		ArgonTime:     cfg.Security.ArgonTime,
		ArgonMemoryKB: cfg.Security.ArgonMemoryKB,
		ArgonThreads:  cfg.Security.ArgonThreads,
		BcryptCost:    cfg.Security.BcryptCost,
		Concurrency:   cfg.Security.HashConcurrency,
	})

	deps.Services = appServices.New(appServices.Deps{
		Repos:      deps.Repos,
		Hasher:     hasher,
		Tokens:     deps.JWTService,
		Revocation: revocation,
		Observer:   deps.Metrics,
		Logger:     lgr,
	})

	deps.LoginLimiter = ratelimiter.New(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst,
		helpers.ParseDuration(cfg.RateLimit.IdleTTL, 10*time.Minute))

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, revocation, deps.Services.Authorization)

	checks := map[string]appControllers.PingFunc{"postgres": database.Ping}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.Auth, deps.Services.Identity, lgr),
		Staff:        appControllers.NewStaffController(deps.Services.Identity),
		Participants: appControllers.NewParticipantController(deps.Services.Identity),
		Catalog:      appControllers.NewCatalogController(deps.Services.Catalog),
		Applications: appControllers.NewApplicationController(deps.Services.Applications),
		Interests:    appControllers.NewInterestController(deps.Services.Interests),
		Health:       appControllers.NewHealthController(checks),
	}

	return deps, nil
}

// SeedDefaultData creates the configured admin account. Failures are logged
// and startup continues.
func SeedDefaultData(cfg *config.Config, deps *Dependencies) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := seed.CreateDefaultData(ctx, cfg, deps.Services.Identity, deps.Logger); err != nil {
		deps.Logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.Metrics(deps.Metrics),
	)

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.LoginLimiter, deps.Metrics)

	return router
}
