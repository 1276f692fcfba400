package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboarding_backend/internal/config"
	"onboarding_backend/internal/controller"
	"onboarding_backend/internal/progression"
	"onboarding_backend/internal/repository"
	"onboarding_backend/internal/service"
	"onboarding_backend/internal/util"
	"onboarding_backend/pkg/database"
	"onboarding_backend/pkg/logger"
	"onboarding_backend/pkg/monitoring"
	"onboarding_backend/pkg/security"
	"onboarding_backend/pkg/tracing"

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
	services        *services
	tracer          *sdktrace.TracerProvider
	stop            chan struct{}
	configCallbacks []func(*config.Config)
}

type repositories struct {
	course     *repository.CourseRepository
	assignment *repository.AssignmentRepository
	progress   *repository.ModuleProgressRepository
	template   *repository.DocumentTemplateRepository
}

type services struct {
	storage      *service.StorageService
	certificate  *service.CertificateService
	course       *service.CourseService
	assignment   *service.AssignmentService
	progression  *service.CourseProgressionService
	memorySweeps *service.MemoryGateSessionStore
}

type controllers struct {
	training   *controller.TrainingController
	course     *controller.CourseController
	assignment *controller.AssignmentController
	template   *controller.TemplateController
	health     *controller.HealthController
}

// RegisterConfigCallback 配置热加载后依次调用
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 供配置监听器调用
func (a *App) ApplyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func rulesFromConfig(p config.ProgressionConfig) progression.Rules {
	return progression.Rules{
		SeekToleranceSeconds: p.SeekToleranceSeconds,
		VideoCompletionPct:   p.VideoCompletionPct,
		ReadingCompletionPct: p.ReadingCompletionPct,
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		course:     repository.NewCourseRepository(db),
		assignment: repository.NewAssignmentRepository(db),
		progress:   repository.NewModuleProgressRepository(db),
		template:   repository.NewDocumentTemplateRepository(db),
	}
}

func (a *App) sessionStore(cfg *config.Config, s *services) service.GateSessionStore {
	ttl := cfg.Progression.SessionTTL()
	switch cfg.Progression.SessionStore {
	case util.SessionStoreMemory:
		logger.Log.Warn("gate sessions kept in process memory, do not run multiple instances")
	default:
		if a.Redis != nil {
			return service.NewRedisGateSessionStore(a.Redis, ttl)
		}
	}
	mem := service.NewMemoryGateSessionStore(ttl)
	s.memorySweeps = mem
	return mem
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.certificate = service.NewCertificateService(repos.template, s.storage)

	var prober service.VideoProber
	if cfg.Progression.ProbeVideoDuration {
		prober = service.NewFFmpegProber(cfg.Storage.LocalPath)
	}
	s.course = service.NewCourseService(repos.course, repos.template, prober)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.course)

	s.progression = service.NewCourseProgressionService(
		db,
		repos.course,
		repos.assignment,
		repos.progress,
		s.certificate,
		a.sessionStore(cfg, s),
		rulesFromConfig(cfg.Progression),
	)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		rules := rulesFromConfig(newCfg.Progression)
		s.progression.SetRules(rules)
		logger.Log.Info("Progression rules reloaded",
			zap.Float64("seek_tolerance_seconds", rules.SeekToleranceSeconds),
			zap.Float64("video_completion_pct", rules.VideoCompletionPct),
			zap.Float64("reading_completion_pct", rules.ReadingCompletionPct),
		)
	})

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		training:   controller.NewTrainingController(s.progression, s.assignment),
		course:     controller.NewCourseController(s.course),
		assignment: controller.NewAssignmentController(s.assignment),
		template:   controller.NewTemplateController(s.certificate),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	if s.memorySweeps == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-a.stop:
				return
			case <-ticker.C:
				if n := s.memorySweeps.Sweep(); n > 0 {
					logger.Log.Debug("expired gate sessions swept", zap.Int("count", n))
				}
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		stop:   make(chan struct{}),
	}

	if cfg.MigrateOnly {
		return app
	}

	if cfg.Progression.SessionStore == util.SessionStoreRedis {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
		app.Redis = rdb
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db)
	app.services = services
	controllers := app.initControllers(services)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("onboarding-training", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
		router.Static("/api/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	close(a.stop)

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
