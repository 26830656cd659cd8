package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/adapter/repository"
	"github.com/archmich514/kiog/internal/infrastructure/cache"
	"github.com/archmich514/kiog/internal/infrastructure/database"
	"github.com/archmich514/kiog/internal/infrastructure/storage"
	answerUsecase "github.com/archmich514/kiog/internal/usecase/answer"
	"github.com/archmich514/kiog/internal/usecase/notify"
	questionUsecase "github.com/archmich514/kiog/internal/usecase/question"
	reportUsecase "github.com/archmich514/kiog/internal/usecase/report"
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

	// Initialize Redis (catalog cache; the broker connects on its own)
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
	statsRepo := repository.NewQuestionStatsRepository(db)
	catalog := repository.NewCachedQuestionCatalog(
		repository.NewQuestionRepository(db), redisClient, cfg.Rotation.CatalogCacheTTL, logger)

	// Initialize AI clients and push dispatcher
	log.Println("🤖 Initializing AI components...")
	geminiClient := pkgai.NewGeminiClient(&cfg.Gemini)
	anthropicClient := pkgai.NewAnthropicClient(&cfg.Anthropic)
	fcmClient, err := push.NewFCMClient(&cfg.FCM)
	if err != nil {
		log.Fatalf("Failed to initialize FCM client: %v", err)
	}
	dispatcher := notify.NewDispatcher(userRepo, fcmClient, logger)

	// Initialize task client for in-worker enqueues
	taskClient := worker.NewClient(cfg)
	defer taskClient.Close()

	loc := cfg.Location()

	// Initialize pipeline services
	log.Println("✨ Initializing services...")
	synthesizer := reportUsecase.NewSynthesizer(anthropicClient, logger)
	reportService := reportUsecase.NewReportService(
		unitRepo, userRepo, recordingRepo, answerRepo, reportRepo,
		blobStore, geminiClient, synthesizer, dispatcher, loc, logger,
	)
	questionService := questionUsecase.NewQuestionService(
		unitRepo, catalog, statsRepo, currentRepo, reportRepo,
		anthropicClient, dispatcher, cfg.Rotation.MasterCount, loc, logger,
	)
	answerService := answerUsecase.NewAnswerService(
		answerRepo, unitRepo, userRepo, taskClient, dispatcher, loc, logger,
	)

	// Start the cron scheduler
	log.Println("⏰ Starting scheduler...")
	stopScheduler, err := worker.StartScheduler(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer stopScheduler()

	// Start the task server
	srv := worker.NewServer(cfg, reportService, questionService, answerService, logger)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	log.Printf("🚀 Worker running (concurrency=%d, timezone=%s)", cfg.Schedule.WorkerConcurrency, cfg.Schedule.Timezone)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down worker...")
	srv.Shutdown()
	log.Println("✅ Worker stopped gracefully")
}
