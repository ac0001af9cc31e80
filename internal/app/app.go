package app

import (
	"campus_quest_backend/internal/config"
	"campus_quest_backend/internal/controller"
	"campus_quest_backend/internal/repository"
	"campus_quest_backend/internal/service"
	"campus_quest_backend/internal/util"
	"campus_quest_backend/pkg/database"
	"campus_quest_backend/pkg/logger"
	"campus_quest_backend/pkg/monitoring"
	"campus_quest_backend/pkg/security"
	"campus_quest_backend/pkg/tracing"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	tracer   *sdktrace.TracerProvider
	services *services
}

type repositories struct {
	user         *repository.UserRepository
	quest        *repository.QuestRepository
	attempt      *repository.QuestAttemptRepository
	post         *repository.PostRepository
	reaction     *repository.ReactionRepository
	verification *repository.VerificationRepository
	achievement  *repository.AchievementRepository
	friendship   *repository.FriendshipRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	image        *service.ImageService
	achievement  *service.AchievementService
	quest        *service.QuestService
	attempt      *service.QuestAttemptService
	post         *service.PostService
	verification *service.VerificationService
	friendship   *service.FriendshipService
}

type controllers struct {
	auth         *controller.AuthController
	quest        *controller.QuestController
	post         *controller.PostController
	verification *controller.VerificationController
	friendship   *controller.FriendshipController
	achievement  *controller.AchievementController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*repositories, error) {
	questRepo, err := repository.NewQuestRepository(db, cfg.Quests.CacheSize)
	if err != nil {
		return nil, err
	}

	return &repositories{
		user:         repository.NewUserRepository(db),
		quest:        questRepo,
		attempt:      repository.NewQuestAttemptRepository(db),
		post:         repository.NewPostRepository(db),
		reaction:     repository.NewReactionRepository(db),
		verification: repository.NewVerificationRepository(db),
		achievement:  repository.NewAchievementRepository(db),
		friendship:   repository.NewFriendshipRepository(db, rdb),
	}, nil
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, catalog service.MilestoneCatalog) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.image = service.NewImageService(cfg.Upload.MaxImageBytes)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.achievement = service.NewAchievementService(
		db,
		repos.achievement,
		repos.user,
		repos.attempt,
		repos.post,
		repos.verification,
		repos.friendship,
		catalog,
	)
	s.quest = service.NewQuestService(repos.quest, repos.attempt)
	s.attempt = service.NewQuestAttemptService(
		db,
		repos.quest,
		repos.attempt,
		repos.post,
		repos.reaction,
		repos.verification,
		repos.user,
		s.storage,
		s.achievement,
	)
	s.post = service.NewPostService(
		db,
		repos.quest,
		repos.attempt,
		repos.post,
		repos.reaction,
		repos.friendship,
		repos.user,
		s.storage,
		s.image,
		s.achievement,
	)
	s.verification = service.NewVerificationService(db, repos.attempt, repos.verification, s.achievement)
	s.friendship = service.NewFriendshipService(repos.friendship, repos.user, s.achievement)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		quest:        controller.NewQuestController(s.quest, s.attempt),
		post:         controller.NewPostController(s.post, s.attempt, a.Config.Upload.MaxImageBytes),
		verification: controller.NewVerificationController(s.verification),
		friendship:   controller.NewFriendshipController(s.friendship),
		achievement:  controller.NewAchievementController(s.achievement),
		health:       controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// prepareDatabase 迁移表结构并写入成就目录
func prepareDatabase(db *gorm.DB, cfg *config.Config, catalog service.MilestoneCatalog) error {
	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}
	return database.SeedAchievements(db, catalog.Achievements())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	catalog := service.DefaultMilestoneCatalog()
	if err := prepareDatabase(db, cfg, catalog); err != nil {
		logger.Log.Fatal("Failed to prepare database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担缓存，连接失败时降级为直接查库
		logger.Log.Warn("Redis unavailable, friend cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos, err := app.initRepositories(db, rdb, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize repositories", zap.Error(err))
	}
	app.services = app.initServices(repos, cfg, db, catalog)
	controllers := app.initControllers(app.services)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		if err := os.MkdirAll(cfg.Storage.LocalPath, 0755); err != nil {
			logger.Log.Fatal("Failed to create upload directory", zap.Error(err))
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
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

	logger.Log.Info("Server exiting")
}
