package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/archmich514/kiog/pkg/validator"

	"github.com/archmich514/kiog/internal/adapter/handler"
	"github.com/archmich514/kiog/internal/adapter/repository"
	"github.com/archmich514/kiog/internal/infrastructure/cache"
	"github.com/archmich514/kiog/internal/infrastructure/database"
	"github.com/archmich514/kiog/internal/infrastructure/storage"
	answerUsecase "github.com/archmich514/kiog/internal/usecase/answer"
	"github.com/archmich514/kiog/internal/usecase/notify"
	questionUsecase "github.com/archmich514/kiog/internal/usecase/question"
	recordingUsecase "github.com/archmich514/kiog/internal/usecase/recording"
	reportUsecase "github.com/archmich514/kiog/internal/usecase/report"
	unitUsecase "github.com/archmich514/kiog/internal/usecase/unit"
	"github.com/archmich514/kiog/internal/worker"
	pkgai "github.com/archmich514/kiog/pkg/ai"
	"github.com/archmich514/kiog/pkg/config"
	"github.com/archmich514/kiog/pkg/push"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize MongoDB
	log.Println("📦 Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize MinIO for audio blobs
	log.Println("🗄️  Connecting to object storage...")
	blobStore, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	unitRepo := repository.NewUnitRepository(db)
	userRepo := repository.NewUserRepository(db)
	recordingRepo := repository.NewRecordingRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	reportRepo := repository.NewReportRepository(db)
	currentRepo := repository.NewCurrentQuestionsRepository(db)

	// Initialize task client (broker for the worker process)
	log.Println("📨 Initializing task client...")
	taskClient := worker.NewClient(cfg)
	defer taskClient.Close()

	loc := cfg.Location()

	// Initialize AI clients and push dispatcher
	log.Println("🤖 Initializing AI components...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	anthropicClient := pkgai.NewAnthropicClient(&cfg.Anthropic)
	fcmClient, err := push.NewFCMClient(&cfg.FCM)
	if err != nil {
		log.Fatalf("Failed to initialize FCM client: %v", err)
	}
	dispatcher := notify.NewDispatcher(userRepo, fcmClient, logger)

	// Initialize services
	log.Println("✨ Initializing services...")
	catalog := repository.NewCachedQuestionCatalog(
		repository.NewQuestionRepository(db), redisClient, cfg.Rotation.CatalogCacheTTL, logger)

	unitService := unitUsecase.NewUnitService(unitRepo, userRepo, logger)
	recordingService := recordingUsecase.NewRecordingService(recordingRepo, unitRepo, blobStore, logger)
	answerService := answerUsecase.NewAnswerService(answerRepo, unitRepo, userRepo, taskClient, dispatcher, loc, logger)
	questionService := questionUsecase.NewQuestionService(
		unitRepo,
		catalog,
		repository.NewQuestionStatsRepository(db),
		currentRepo,
		reportRepo,
		anthropicClient,
		dispatcher,
		cfg.Rotation.MasterCount,
		loc,
		logger,
	)
	synthesizer := reportUsecase.NewSynthesizer(anthropicClient, logger)
	reportService := reportUsecase.NewReportService(
		unitRepo, userRepo, recordingRepo, answerRepo, reportRepo,
		blobStore, geminiClient, synthesizer, dispatcher, loc, logger,
	)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	unitHandler := handler.NewUnitHandler(unitService, logger)
	recordingHandler := handler.NewRecordingHandler(recordingService, logger)
	answerHandler := handler.NewAnswerHandler(answerService, loc, logger)
	questionHandler := handler.NewQuestionHandler(questionService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	debugHandler := handler.NewDebugHandler(taskClient, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, unitHandler, recordingHandler, answerHandler, questionHandler, reportHandler, debugHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
