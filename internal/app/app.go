package app

import (
	"arogya_backend/internal/config"
	"arogya_backend/internal/controller"
	"arogya_backend/internal/repository"
	"arogya_backend/internal/service"
	"arogya_backend/pkg/database"
	"arogya_backend/pkg/logger"
	"arogya_backend/pkg/monitoring"
	"arogya_backend/pkg/security"
	"arogya_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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

	tunables *config.ChatTunables
}

type repositories struct {
	user       *repository.UserRepository
	session    *repository.SessionRepository
	document   *repository.DocumentRepository
	audit      *repository.AuditRepository
	assessment repository.AssessmentStore
}

type services struct {
	ai         *service.AIService
	storage    *service.StorageService
	auth       *service.AuthService
	intent     *service.IntentService
	assessment *service.AssessmentService
	docQA      *service.DocQAService
	advisory   *service.AdvisoryService
	workflow   *service.WorkflowService
	document   *service.DocumentService
	speech     *service.SpeechService
}

type controllers struct {
	auth     *controller.AuthController
	chat     *controller.ChatController
	session  *controller.SessionController
	document *controller.DocumentController
	voice    *controller.VoiceController
	health   *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	var store repository.AssessmentStore
	if rdb != nil {
		ttl := time.Duration(cfg.Chat.AssessmentTTLHours) * time.Hour
		store = repository.NewRedisAssessmentStore(rdb, ttl)
	} else {
		store = repository.NewMemoryAssessmentStore()
	}

	return &repositories{
		user:       repository.NewUserRepository(db),
		session:    repository.NewSessionRepository(db),
		document:   repository.NewDocumentRepository(db),
		audit:      repository.NewAuditRepository(db),
		assessment: store,
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	cipher, err := security.NewFieldCipher(cfg.Encryption.DocumentKey)
	if err != nil {
		logger.Log.Fatal("invalid document encryption key", zap.Error(err))
	}

	s.ai = service.NewAIService(cfg.AI)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.audit, cfg, logger.Log)
	// Chat services read tunables through this snapshot holder, so a
	// config reload takes effect without a restart and without racing
	// in-flight requests.
	a.tunables = config.NewChatTunables(cfg.Chat)
	chat := a.tunables

	s.intent = service.NewIntentService(s.ai)
	s.assessment = service.NewAssessmentService(s.ai, repos.assessment, chat)
	s.docQA = service.NewDocQAService(repos.document, s.ai, cipher, chat)
	s.advisory = service.NewAdvisoryService(repos.user, repos.document, s.ai, logger.Log, chat)
	s.workflow = service.NewWorkflowService(
		repos.session,
		repos.audit,
		s.intent,
		s.assessment,
		s.docQA,
		s.advisory,
		logger.Log,
		chat,
	)
	s.document = service.NewDocumentService(repos.document, repos.audit, s.storage, s.ai, cipher)
	s.speech = service.NewSpeechService(s.ai, repos.audit, cfg, logger.Log)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		chat:     controller.NewChatController(s.workflow),
		session:  controller.NewSessionController(repos.session, repos.audit),
		document: controller.NewDocumentController(s.document),
		voice:    controller.NewVoiceController(s.speech, s.workflow),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("logger initialized")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Assessment state falls back to the in-process store.
		logger.Log.Warn("redis unavailable, using in-memory assessment store", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("arogya-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Synthesized replies are served as static mp3 files.
	if _, err := os.Stat(cfg.Storage.AudioPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.Storage.AudioPath, os.ModePerm)
	}
	router.Static("/audio", cfg.Storage.AudioPath)

	return app
}

// ReloadConfig applies a reloaded configuration. Only the chat tunables
// are swapped live; connection settings still require a restart.
func (a *App) ReloadConfig(newCfg *config.Config) {
	a.tunables.Update(newCfg.Chat)
	logger.Log.Info("config reloaded",
		zap.Int("history_window", newCfg.Chat.HistoryWindow),
		zap.Int("assessment_max_turns", newCfg.Chat.AssessmentMaxTurns),
		zap.Int("doc_excerpt_chars", newCfg.Chat.DocExcerptChars))
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
