package app

import (
	"aksara_backend/internal/config"
	"aksara_backend/internal/controller"
	"aksara_backend/internal/ledger"
	"aksara_backend/internal/repository"
	"aksara_backend/internal/service"
	"aksara_backend/pkg/configwatcher"
	"aksara_backend/pkg/database"
	"aksara_backend/pkg/logger"
	"aksara_backend/pkg/monitoring"
	"aksara_backend/pkg/security"
	"aksara_backend/pkg/tracing"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	Grantor         *ledger.Grantor
	tracer          *sdktrace.TracerProvider
	done            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	module      *repository.ModuleRepository
	progress    *repository.ProgressRepository
	quiz        *repository.QuizRepository
	game        *repository.GameRepository
	artwork     *repository.ArtworkRepository
	leaderboard *repository.LeaderboardCache
	ledger      *repository.GormLedgerStore
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	profile     *service.ProfileService
	module      *service.ModuleService
	progress    *service.ProgressService
	ledger      *service.LedgerService
	leaderboard *service.LeaderboardService
	artwork     *service.ArtworkService
}

type controllers struct {
	auth        *controller.AuthController
	profile     *controller.ProfileController
	module      *controller.ModuleController
	progress    *controller.ProgressController
	quiz        *controller.QuizController
	game        *controller.GameController
	leaderboard *controller.LeaderboardController
	artwork     *controller.ArtworkController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		module:      repository.NewModuleRepository(db),
		progress:    repository.NewProgressRepository(db),
		quiz:        repository.NewQuizRepository(db),
		game:        repository.NewGameRepository(db),
		artwork:     repository.NewArtworkRepository(db),
		leaderboard: repository.NewLeaderboardCache(rdb),
		ledger:      repository.NewGormLedgerStore(db),
	}
}

func (a *App) initServices(ctx context.Context, repos *repositories, cfg *config.Config) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.user, s.auth, s.storage)
	s.module = service.NewModuleService(repos.module, repos.progress)
	s.progress = service.NewProgressService(repos.progress, repos.quiz, repos.game, a.Grantor)
	s.leaderboard = service.NewLeaderboardService(repos.user, repos.leaderboard)
	s.ledger = service.NewLedgerService(repos.ledger, repos.module, a.Grantor, s.leaderboard)
	s.artwork = service.NewArtworkService(repos.artwork, repos.user)

	return s, nil
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		profile:     controller.NewProfileController(s.auth, s.profile),
		module:      controller.NewModuleController(s.module),
		progress:    controller.NewProgressController(s.progress, s.ledger),
		quiz:        controller.NewQuizController(s.ledger, s.progress),
		game:        controller.NewGameController(s.ledger),
		leaderboard: controller.NewLeaderboardController(s.leaderboard),
		artwork:     controller.NewArtworkController(s.artwork),
		health:      controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	limiter := security.NewIPLimiter(cfg.RateLimit)
	go limiter.Run(a.done)
	router.Use(limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// shouldMigrate release 模式下只有显式指定 -migrate 才建表
func shouldMigrate(cfg *config.Config) bool {
	return cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		return nil, err
	}

	if shouldMigrate(cfg) {
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		if err := database.Seed(db); err != nil {
			return nil, err
		}
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Grantor: ledger.NewGrantor(service.NewRewardPolicy(&cfg.Reward)),
		done:    make(chan struct{}),
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 排行榜可以回退到数据库
		logger.Log.Warn("Failed to initialize redis, continuing without cache", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repos := app.initRepositories(db, rdb)
	services, err := app.initServices(ctx, repos, cfg)
	if err != nil {
		return nil, err
	}
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, err
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// 奖励策略热更新
	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.Grantor.SetPolicy(service.NewRewardPolicy(&newCfg.Reward))
		logger.Log.Info("Reward policy reloaded",
			zap.Int("moduleRead", newCfg.Reward.ModuleRead),
			zap.Int("video", newCfg.Reward.Video),
			zap.Int("passThreshold", newCfg.Reward.PassThreshold),
		)
	})

	return app, nil
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) Run(configFile string) {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configwatcher.WatchConfig(watchCtx, configFile, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher disabled", zap.Error(err))
		}
	}()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 释放后台任务和外部连接
func (a *App) Close(ctx context.Context) {
	close(a.done)

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
