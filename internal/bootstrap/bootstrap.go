package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/scholarhub/internal/app/controllers"
	appMigrations "github.com/yigit/scholarhub/internal/app/migrations"
	appRepos "github.com/yigit/scholarhub/internal/app/repositories"
	appRoutes "github.com/yigit/scholarhub/internal/app/routes"
	appServices "github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/config"
	"github.com/yigit/scholarhub/internal/db"
	appMiddleware "github.com/yigit/scholarhub/internal/middleware"
	pkgAuth "github.com/yigit/scholarhub/internal/pkg/auth"
	"github.com/yigit/scholarhub/internal/pkg/cache"
	"github.com/yigit/scholarhub/internal/pkg/email"
	"github.com/yigit/scholarhub/internal/pkg/filestorage"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
	"github.com/yigit/scholarhub/internal/pkg/logger"
	"github.com/yigit/scholarhub/internal/pkg/metrics"
	"github.com/yigit/scholarhub/internal/pkg/payment"
	"github.com/yigit/scholarhub/internal/pkg/websocket"
	"github.com/yigit/scholarhub/internal/seed"
)

// Dependencies holds all the application dependencies. It replaces any
// process-wide state: everything a request needs is reachable from here.
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	PaymentLimiter appMiddleware.Limiter
	Hub            *websocket.Hub
	Redis          *redis.Client
	FileStorage    *filestorage.LocalStorage
	Notifier       *appServices.NotificationDispatcher
	Logger         zerolog.Logger

	stopHub context.CancelFunc
}

// Close stops background workers, lets queued e-mails finish and releases
// the Redis connection
func (d *Dependencies) Close() {
	if d.Notifier != nil {
		d.Notifier.Wait()
	}
	if d.stopHub != nil {
		d.stopHub()
		select {
		case <-d.Hub.Done():
		case <-time.After(5 * time.Second):
			d.Logger.Warn().Msg("Timed out waiting for websocket hub to stop")
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	lgr := logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  strings.ToLower(cfg.Logging.Format) == "text",
		Service: "scholarhub",
	})

	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.Migrate(context.Background(), os.DirFS(migrationsDir)); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// SetupRedis connects to Redis when an address is configured. A nil client
// means caching and distributed rate limiting are disabled.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	client, err := cache.Connect(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, continuing without cache")
		return nil
	}
	if client == nil {
		lgr.Info().Msg("Redis not configured, caching disabled")
		return nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// NewTokenVerifier selects the identity provider named by the configuration
func NewTokenVerifier(ctx context.Context, cfg *config.Config) (pkgAuth.TokenVerifier, error) {
	switch strings.ToLower(cfg.Auth.Provider) {
	case config.AuthProviderJWT:
		return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
			SecretKey:   cfg.Auth.JWTSecret,
			TokenExp:    helpers.ParseDuration(cfg.Auth.JWTExpiration, 24*time.Hour),
			TokenIssuer: cfg.Auth.JWTIssuer,
		}), nil
	default:
		return pkgAuth.NewFirebaseVerifier(ctx, cfg.Auth.FirebaseServiceKey)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	fileStorageBaseURL := cfg.PublicBaseURL() + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL, int64(cfg.Server.MaxUploadMB)<<20)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	verifier, err := NewTokenVerifier(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Str("provider", cfg.Auth.Provider).Msg("Failed to initialize identity verifier")
		return nil, fmt.Errorf("failed to initialize identity verifier: %w", err)
	}

	deps.Hub = websocket.NewHub(lgr)
	hubCtx, stopHub := context.WithCancel(context.Background())
	deps.stopHub = stopHub
	go deps.Hub.Run(hubCtx)

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  "ScholarHub",
		FromEmail: cfg.SMTP.From,
		UseTLS:    cfg.SMTP.Port == 465,
		Timeout:   helpers.ParseDuration(cfg.SMTP.Timeout, email.DefaultTimeout),
	}, lgr)
	notifier := appServices.NewNotificationDispatcher(deps.Hub, mailer, cfg.Payment.Currency, lgr)
	deps.Notifier = notifier

	scholarshipCache := cache.NewRedisCache(redisClient, helpers.ParseDuration(cfg.Redis.CacheTTL, 5*time.Minute), lgr)

	gateway := payment.NewStripeGateway(cfg.Payment.StripeSecretKey, lgr)
	paymentService := appServices.NewPaymentService(gateway, deps.Repos.ScholarshipRepository, appServices.PaymentConfig{
		Currency:   cfg.Payment.Currency,
		SuccessURL: cfg.PaymentSuccessURL(),
		CancelURL:  cfg.PaymentCancelURL(),
	}, lgr)

	deps.Services = &appServices.Services{
		Scholarship: appServices.NewScholarshipService(deps.Repos.ScholarshipRepository, scholarshipCache, deps.FileStorage, lgr),
		Review:      appServices.NewReviewService(deps.Repos.ReviewRepository, deps.Repos.ScholarshipRepository, deps.Repos.ApplicationRepository, lgr),
		User:        appServices.NewUserService(deps.Repos.UserRepository, lgr),
		Payment:     paymentService,
		Analytics:   appServices.NewAnalyticsService(deps.Repos.AnalyticsRepository),
		Application: appServices.NewApplicationService(
			deps.Repos.ApplicationRepository,
			deps.Repos.ScholarshipRepository,
			paymentService,
			notifier,
			appServices.ApplicationOptions{StrictTransitions: cfg.Applications.StrictTransitions},
			lgr,
		),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(verifier, deps.Services.User)

	rateWindow := helpers.ParseDuration(cfg.Payment.RateWindow, time.Minute)
	if limiter := appMiddleware.NewRedisLimiter(redisClient, cfg.Payment.RateLimit, rateWindow, "ratelimit:payments"); limiter != nil {
		deps.PaymentLimiter = limiter
	} else {
		deps.PaymentLimiter = appMiddleware.NewLocalLimiter(cfg.Payment.RateLimit, rateWindow)
	}

	var cachePinger appControllers.Pinger
	if redisClient != nil {
		cachePinger = appControllers.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	deps.Controllers = appRoutes.Controllers{
		Scholarship:  appControllers.NewScholarshipController(deps.Services.Scholarship),
		Application:  appControllers.NewApplicationController(deps.Services.Application),
		Payment:      appControllers.NewPaymentController(deps.Services.Payment, deps.Services.Application),
		Review:       appControllers.NewReviewController(deps.Services.Review),
		User:         appControllers.NewUserController(deps.Services.User),
		Analytics:    appControllers.NewAnalyticsController(deps.Services.Analytics),
		Notification: appControllers.NewNotificationController(deps.Hub, cfg.AllowedOrigins(), deps.Services.User, lgr),
		Health:       appControllers.NewHealthController(dbPool, cachePinger),
	}

	return deps, nil
}

// SeedData creates the bootstrap admin and sample catalogue when enabled
func SeedData(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) {
	if !cfg.Seed.Enabled {
		return
	}
	if err := seed.CreateDefaultData(context.Background(), deps.Services.User, deps.Services.Scholarship, cfg.Auth.AdminEmail, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))
	router.Use(appMiddleware.RequestID(), appMiddleware.RequestLogger(lgr), metrics.GinMiddleware())

	appRoutes.SetupSwagger(router)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.PaymentLimiter)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ScholarHub server is running", "status": "success"})
	})

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", appMiddleware.HeaderRequestID},
		ExposeHeaders:    []string{appMiddleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		c.AllowOrigins = origins
	} else {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	}
	return c
}
