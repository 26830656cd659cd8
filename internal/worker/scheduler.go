package worker

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/pkg/config"
)

// StartScheduler registers the four time-based triggers (one daily
// report run, three question slots) in the configured civil timezone
// and starts the scheduler. Returns a stop function.
func StartScheduler(cfg *config.Config, logger *zap.Logger) (stop func(), err error) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		&asynq.SchedulerOpts{
			Location: cfg.Location(),
			Logger:   &asynqLoggerAdapter{logger: logger.Sugar()},
		},
	)

	reportTask := asynq.NewTask(TaskReportGenerateAll, nil,
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(time.Hour),
	)
	if _, err := scheduler.Register(cfg.Schedule.ReportCron, reportTask); err != nil {
		return nil, fmt.Errorf("failed to register report schedule: %w", err)
	}

	slots := []struct {
		cron string
		slot entities.TimeSlot
	}{
		{cfg.Schedule.MorningCron, entities.TimeSlotMorning},
		{cfg.Schedule.AfternoonCron, entities.TimeSlotAfternoon},
		{cfg.Schedule.EveningCron, entities.TimeSlotEvening},
	}
	for _, s := range slots {
		payload, err := json.Marshal(questionsPayload{TimeSlot: string(s.slot)})
		if err != nil {
			return nil, err
		}
		task := asynq.NewTask(TaskQuestionsGenerate, payload,
			asynq.MaxRetry(2),
			asynq.Timeout(5*time.Minute),
			asynq.Retention(24*time.Hour),
			asynq.Unique(time.Hour),
		)
		if _, err := scheduler.Register(s.cron, task); err != nil {
			return nil, fmt.Errorf("failed to register %s questions schedule: %w", s.slot, err)
		}
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("scheduler started",
		zap.String("timezone", cfg.Schedule.Timezone),
		zap.String("report_cron", cfg.Schedule.ReportCron),
	)
	return func() { scheduler.Shutdown() }, nil
}
