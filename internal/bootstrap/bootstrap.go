package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/scholarpath/internal/app/controllers"
	appJobs "github.com/yigit/scholarpath/internal/app/jobs"
	appMigrations "github.com/yigit/scholarpath/internal/app/migrations"
	appRepos "github.com/yigit/scholarpath/internal/app/repositories"
	appRoutes "github.com/yigit/scholarpath/internal/app/routes"
	appServices "github.com/yigit/scholarpath/internal/app/services"
	"github.com/yigit/scholarpath/internal/config"
	"github.com/yigit/scholarpath/internal/db"
	appMiddleware "github.com/yigit/scholarpath/internal/middleware"
	pkgAuth "github.com/yigit/scholarpath/internal/pkg/auth"
	"github.com/yigit/scholarpath/internal/pkg/email"
	"github.com/yigit/scholarpath/internal/pkg/filestorage"
	"github.com/yigit/scholarpath/internal/pkg/lock"
	"github.com/yigit/scholarpath/internal/pkg/logger"
	"github.com/yigit/scholarpath/internal/pkg/websocket"
	"github.com/yigit/scholarpath/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Mailer         *email.EmailServiceImpl
	Reminder       *appJobs.DeadlineReminder
	Hub            *websocket.Hub
	Redis          *goredis.Client // nil when no Redis is configured
	Logger         zerolog.Logger
}

// Close releases what BuildDependencies opened
func (d *Dependencies) Close() {
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close Redis client")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Format: cfg.Logging.Format,
	})

	lgr := logger.Default()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the admin account.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Str("dir", cfg.Database.MigrationsDir).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.EnsureAdmin(ctx, appRepos.NewUserRepository(database.Pool), cfg.Admin, lgr); err != nil {
		// Startup continues; the admin can be created on the next boot
		lgr.Error().Err(err).Msg("Failed to seed admin account, proceeding anyway...")
	}

	return database, nil
}

// NewMailer builds the SMTP mailer from configuration
func NewMailer(cfg *config.Config, lgr zerolog.Logger) *email.EmailServiceImpl {
	return email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		Timeout:   config.MustDuration(cfg.SMTP.Timeout),
		BaseURL:   cfg.Server.FrontendURL,
	}, lgr.With().Str("component", "email").Logger())
}

// NewDeadlineReminder builds the sweep job. When Redis is configured and reachable every sweep
// holds a lease; otherwise sweeps run unguarded. The returned client is nil without Redis.
func NewDeadlineReminder(
	ctx context.Context,
	cfg *config.Config,
	repos *appRepos.Repositories,
	mailer email.Sender,
	lgr zerolog.Logger,
	extra ...appJobs.DeadlineReminderOption,
) (*appJobs.DeadlineReminder, *goredis.Client) {
	opts := append([]appJobs.DeadlineReminderOption{}, extra...)
	var rdb *goredis.Client

	if cfg.Redis.Addr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unavailable, deadline sweeps run without a lease")
		} else {
			rdb = client
			opts = append(opts, appJobs.WithLocker(
				lock.NewRedisLocker(client, "scholarpath:lock:"),
				config.MustDuration(cfg.Reminder.LockTTL),
			))
		}
	}

	reminder := appJobs.NewDeadlineReminder(
		repos.SavedScholarshipRepository,
		repos.NotificationRepository,
		mailer,
		lgr,
		opts...,
	)
	return reminder, rdb
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.MustDuration(cfg.JWT.AccessTokenExpiration),
		VerifyTokenExp: config.MustDuration(cfg.JWT.VerifyTokenExpiration),
		ResetTokenExp:  config.MustDuration(cfg.JWT.ResetTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.Mailer = NewMailer(cfg, lgr)
	if !deps.Mailer.Configured() {
		lgr.Warn().Msg("SMTP credentials missing, emails will be logged instead of sent")
	}

	storage, err := filestorage.NewLocalStorage(cfg.Storage.UploadDir, int64(cfg.Storage.MaxUploadMB)<<20)
	if err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}

	repos := deps.Repos
	deps.Services = &appServices.Services{
		Auth: appServices.NewAuthService(
			repos.UserRepository,
			repos.StudentProfileRepository,
			deps.JWTService,
			deps.Mailer,
			lgr,
		),
		Student:     appServices.NewStudentService(repos.UserRepository, repos.StudentProfileRepository, lgr),
		Scholarship: appServices.NewScholarshipService(repos.ScholarshipRepository, repos.StudentProfileRepository, lgr),
		SavedScholarship: appServices.NewSavedScholarshipService(
			repos.SavedScholarshipRepository,
			repos.ScholarshipRepository,
			repos.StudentProfileRepository,
			lgr,
		),
		Notification: appServices.NewNotificationService(repos.NotificationRepository, lgr),
		Document:     appServices.NewDocumentService(repos.DocumentRepository, storage, lgr),
	}

	deps.Hub = websocket.NewHub(lgr)
	deps.Reminder, deps.Redis = NewDeadlineReminder(ctx, cfg, repos, deps.Mailer, lgr, appJobs.WithPublisher(deps.Hub))

	if err := appMiddleware.RegisterValidators(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = appRoutes.Controllers{
		Auth:             appControllers.NewAuthController(svc.Auth, lgr),
		Student:          appControllers.NewStudentController(svc.Student, svc.Scholarship),
		Scholarship:      appControllers.NewScholarshipController(svc.Scholarship),
		SavedScholarship: appControllers.NewSavedScholarshipController(svc.SavedScholarship),
		Notification:     appControllers.NewNotificationController(svc.Notification),
		Document:         appControllers.NewDocumentController(svc.Document),
		Stream:           websocket.NewHandler(deps.Hub, cfg.Server.FrontendURL, lgr),
	}

	return deps, nil
}

// NewScheduler wraps the reminder in a cron scheduler, or returns nil when reminders are disabled
func NewScheduler(cfg *config.Config, reminder *appJobs.DeadlineReminder, lgr zerolog.Logger) (*appJobs.Scheduler, error) {
	if !cfg.Reminder.Enabled {
		lgr.Info().Msg("Deadline reminders disabled")
		return nil, nil
	}
	return appJobs.NewScheduler(reminder, cfg.Reminder.Cron, config.MustDuration(cfg.Reminder.StartupDelay), lgr)
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
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
