package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/pkg/config"
)

// Task type constants
const (
	TaskReportGenerateAll  = "report:generate_all"
	TaskReportGenerateUnit = "report:generate_unit"
	TaskQuestionsGenerate  = "questions:generate"
	TaskAnswerCreated      = "answer:created"
)

type reportUnitPayload struct {
	UnitID string `json:"unitId"`
}

type questionsPayload struct {
	TimeSlot string `json:"timeSlot"`
}

type answerCreatedPayload struct {
	AnswerID string `json:"answerId"`
}

// Client enqueues background tasks. It is injected wherever enqueueing
// is needed; there is no package-level instance.
type Client struct {
	client *asynq.Client
}

// NewClient creates a task client on the shared Redis broker
func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.GetRedisAddr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
	}
}

// Close releases the broker connection
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueReportForUnit schedules an on-demand report run for one unit
func (c *Client) EnqueueReportForUnit(ctx context.Context, unitID string) error {
	payload, err := json.Marshal(reportUnitPayload{UnitID: unitID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskReportGenerateUnit, payload,
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// EnqueueQuestions schedules an on-demand question run for one slot
func (c *Client) EnqueueQuestions(ctx context.Context, slot entities.TimeSlot) error {
	payload, err := json.Marshal(questionsPayload{TimeSlot: string(slot)})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskQuestionsGenerate, payload,
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

// EnqueueAnswerCreated schedules the reaction to a freshly created answer
func (c *Client) EnqueueAnswerCreated(ctx context.Context, answerID string) error {
	payload, err := json.Marshal(answerCreatedPayload{AnswerID: answerID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskAnswerCreated, payload,
		asynq.MaxRetry(3),
		asynq.Timeout(time.Minute),
		asynq.Retention(6*time.Hour),
	)
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}
