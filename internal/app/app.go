package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pod360_backend/internal/config"
	"pod360_backend/internal/controller"
	"pod360_backend/internal/repository"
	"pod360_backend/internal/service"
	"pod360_backend/internal/util"
	"pod360_backend/pkg/database"
	"pod360_backend/pkg/logger"
	"pod360_backend/pkg/monitoring"
	"pod360_backend/pkg/security"
	"pod360_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	cors           *security.CORSPolicy
	tracerShutdown func(context.Context) error
}

type repositories struct {
	user         *repository.UserRepository
	invitation   *repository.InvitationRepository
	notification *repository.NotificationRepository
	orgstat      *repository.OrgStatRepository
	progress     repository.ProgressStore
}

type services struct {
	auth         *service.AuthService
	user         *service.UserService
	session      *service.SessionService
	invitation   *service.InvitationService
	notification *service.NotificationService
	report       *service.ReportService
	storage      *service.StorageService
}

type controllers struct {
	auth         *controller.AuthController
	user         *controller.UserController
	session      *controller.SessionController
	invitation   *controller.InvitationController
	notification *controller.NotificationController
	report       *controller.ReportController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		invitation:   repository.NewInvitationRepository(db),
		notification: repository.NewNotificationRepository(db, rdb),
		orgstat:      repository.NewOrgStatRepository(db),
		progress:     repository.NewRedisProgressStore(rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.invitation = service.NewInvitationService(repos.invitation, repos.notification, cfg)
	s.notification = service.NewNotificationService(repos.notification)
	s.report = service.NewReportService(repos.orgstat, repos.notification, s.storage)

	bank := service.NewQuestionBankClient(cfg.Upstream)
	s.session = service.NewSessionService(bank, repos.progress, repos.invitation, repos.notification, repos.orgstat, cfg)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		session:      controller.NewSessionController(s.session),
		invitation:   controller.NewInvitationController(s.invitation),
		notification: controller.NewNotificationController(s.notification),
		report:       controller.NewReportController(s.report),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	a.cors = security.NewCORSPolicy(cfg.CORS.AllowedOrigins)
	router.Use(a.cors.Middleware())
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// ApplyConfig is the config watcher's reload hook. Only the parts that are
// safe to swap at runtime are applied.
func (a *App) ApplyConfig(cfg *config.Config) {
	if a.cors != nil {
		a.cors.Update(cfg.CORS.AllowedOrigins)
		logger.Log.Info("CORS origins reloaded",
			zap.Strings("origins", cfg.CORS.AllowedOrigins))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("pod360-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
