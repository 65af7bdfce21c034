package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexandre-rezende616/spacelearn/internal/config"
	"github.com/alexandre-rezende616/spacelearn/internal/controller"
	"github.com/alexandre-rezende616/spacelearn/internal/repository"
	"github.com/alexandre-rezende616/spacelearn/internal/service"
	"github.com/alexandre-rezende616/spacelearn/pkg/database"
	"github.com/alexandre-rezende616/spacelearn/pkg/logger"
	"github.com/alexandre-rezende616/spacelearn/pkg/monitoring"
	"github.com/alexandre-rezende616/spacelearn/pkg/notify"
	"github.com/alexandre-rezende616/spacelearn/pkg/security"
	"github.com/alexandre-rezende616/spacelearn/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	profile  *repository.ProfileRepository
	mission  *repository.MissionRepository
	class    *repository.ClassRepository
	attempt  *repository.AttemptRepository
	progress *repository.ProgressRepository
	medal    *repository.MedalRepository
	purchase *repository.PurchaseRepository
	message  *repository.MessageRepository
}

type services struct {
	auth      *service.AuthService
	mission   *service.MissionService
	authoring *service.AuthoringService
	medal     *service.MedalService
	class     *service.ClassService
	store     *service.StoreService
	profile   *service.ProfileService
	message   *service.MessageService
	storage   *service.StorageService
}

type controllers struct {
	auth    *controller.AuthController
	play    *controller.PlayController
	mission *controller.MissionController
	class   *controller.ClassController
	medal   *controller.MedalController
	store   *controller.StoreController
	profile *controller.ProfileController
	message *controller.MessageController
	events  *controller.EventsController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) ApplyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		profile:  repository.NewProfileRepository(db),
		mission:  repository.NewMissionRepository(db),
		class:    repository.NewClassRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		progress: repository.NewProgressRepository(db),
		medal:    repository.NewMedalRepository(db),
		purchase: repository.NewPurchaseRepository(db),
		message:  repository.NewMessageRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	notifier := notify.NewPublisher(rdb)

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.profile, cfg)
	s.mission = service.NewMissionService(repos.mission, repos.class, repos.attempt, repos.progress, db, rdb, notifier)
	s.authoring = service.NewAuthoringService(repos.mission, repos.class, s.mission, notifier)
	s.medal = service.NewMedalService(repos.medal, repos.progress)
	s.class = service.NewClassService(repos.class, repos.profile, repos.progress, repos.mission, notifier)
	s.store = service.NewStoreService(repos.purchase, repos.profile, db, notifier)
	s.profile = service.NewProfileService(repos.profile, repos.progress, repos.purchase, storage, notifier)
	s.message = service.NewMessageService(repos.message, repos.class, notifier)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		play:    controller.NewPlayController(s.mission, s.medal),
		mission: controller.NewMissionController(s.authoring),
		class:   controller.NewClassController(s.class),
		medal:   controller.NewMedalController(s.medal),
		store:   controller.NewStoreController(s.store),
		profile: controller.NewProfileController(s.profile),
		message: controller.NewMessageController(s.message),
		events:  controller.NewEventsController(rdb),
		health:  controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("logger initialized")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// The engine runs without redis: no content cache, no change feed.
		logger.Log.Warn("redis unavailable, caching and change feed disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("spacelearn", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
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

	log.Println("Server exiting")
}
