package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/hibiken/asynq"
)

// TaskBrandRegistered is sent once for every newly created brand.
const TaskBrandRegistered = "brand:registered"

// BrandRegisteredPayload is the JSON payload of TaskBrandRegistered.
type BrandRegisteredPayload struct {
	BrandID string `json:"brand_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// NewBrandRegisteredTask builds the notification task for b.
//
// The task id is derived from the brand id so a retried create never
// produces two emails.
func NewBrandRegisteredTask(b *brand.Brand) (*asynq.Task, error) {
	payload, err := json.Marshal(BrandRegisteredPayload{
		BrandID: b.ID.Hex(),
		Name:    b.Name,
		Email:   b.Email,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBrandRegistered,
		payload,
		asynq.TaskID(TaskBrandRegistered+":"+b.ID.Hex()),
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}

// EnqueueBrandRegistered schedules the registration email for b.
func (j *JobService) EnqueueBrandRegistered(ctx context.Context, b *brand.Brand) error {
	task, err := NewBrandRegisteredTask(b)
	if err != nil {
		return fmt.Errorf("build %s task: %w", TaskBrandRegistered, err)
	}

	info, err := j.Client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue %s task: %w", TaskBrandRegistered, err)
	}

	j.logger.Debug().
		Str("task_id", info.ID).
		Str("queue", info.Queue).
		Msg("enqueued brand registered task")
	return nil
}

func (j *JobService) handleBrandRegisteredTask(ctx context.Context, t *asynq.Task) error {
	var p BrandRegisteredPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal brand registered payload: %v: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Str("type", TaskBrandRegistered).
		Str("brand_id", p.BrandID).
		Str("to", p.Email).
		Msg("Processing brand registered task")

	if err := j.mailer.SendBrandRegisteredEmail(p.Email, p.Name); err != nil {
		j.logger.Error().
			Str("type", TaskBrandRegistered).
			Str("brand_id", p.BrandID).
			Err(err).
			Msg("Failed to send brand registered email")
		return err
	}

	j.logger.Info().
		Str("type", TaskBrandRegistered).
		Str("brand_id", p.BrandID).
		Msg("Successfully sent brand registered email")

	return nil
}
