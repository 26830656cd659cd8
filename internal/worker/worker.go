package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/usecase/answer"
	"github.com/archmich514/kiog/internal/usecase/question"
	"github.com/archmich514/kiog/internal/usecase/report"
	"github.com/archmich514/kiog/pkg/config"
)

// asynqLoggerAdapter wraps zap.Logger to implement asynq.Logger
type asynqLoggerAdapter struct {
	logger *zap.SugaredLogger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) { a.logger.Debug(args...) }
func (a *asynqLoggerAdapter) Info(args ...interface{})  { a.logger.Info(args...) }
func (a *asynqLoggerAdapter) Warn(args ...interface{})  { a.logger.Warn(args...) }
func (a *asynqLoggerAdapter) Error(args ...interface{}) { a.logger.Error(args...) }
func (a *asynqLoggerAdapter) Fatal(args ...interface{}) { a.logger.Fatal(args...) }

// Server executes the pipeline tasks: report runs, question runs and
// answer-created reactions.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer builds the worker with handlers bound to the usecases
func NewServer(
	cfg *config.Config,
	reportSvc report.Service,
	questionSvc question.Service,
	answerSvc answer.Service,
	logger *zap.Logger,
) *Server {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency:     cfg.Schedule.WorkerConcurrency,
			ShutdownTimeout: 30 * time.Second,
			Logger:          &asynqLoggerAdapter{logger: logger.Sugar()},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logger.Error("task execution failed",
					zap.String("task_type", task.Type()),
					zap.Int("retry_count", retried),
					zap.Int("max_retry", maxRetry),
					zap.Error(err),
				)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskReportGenerateAll, handleReportGenerateAll(reportSvc, cfg.Schedule.InvocationTimeout))
	mux.HandleFunc(TaskReportGenerateUnit, handleReportGenerateUnit(reportSvc, cfg.Schedule.InvocationTimeout))
	mux.HandleFunc(TaskQuestionsGenerate, handleQuestionsGenerate(questionSvc, cfg.Schedule.InvocationTimeout))
	mux.HandleFunc(TaskAnswerCreated, handleAnswerCreated(answerSvc))

	return &Server{srv: srv, mux: mux}
}

// Run starts the worker and blocks until a shutdown signal
func (s *Server) Run() error {
	return s.srv.Run(s.mux)
}

// Start starts the worker in non-blocking mode
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

// Shutdown stops the worker gracefully
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func handleReportGenerateAll(svc report.Service, timeout time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return svc.GenerateDailyReports(ctx)
	}
}

func handleReportGenerateUnit(svc report.Service, timeout time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload reportUnitPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		if payload.UnitID == "" {
			return fmt.Errorf("unitId is required: %w", asynq.SkipRetry)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return svc.GenerateForUnit(ctx, payload.UnitID)
	}
}

func handleQuestionsGenerate(svc question.Service, timeout time.Duration) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload questionsPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		slot := entities.TimeSlot(payload.TimeSlot)
		if !slot.Valid() {
			return fmt.Errorf("unknown time slot %q: %w", payload.TimeSlot, asynq.SkipRetry)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return svc.GenerateForAllUnits(ctx, slot)
	}
}

func handleAnswerCreated(svc answer.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload answerCreatedPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}
		return svc.HandleAnswerCreated(ctx, payload.AnswerID)
	}
}
