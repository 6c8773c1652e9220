package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ReviewJob is the unit of background review work. Jobs are delivered
// at most once: a job popped from the queue is never requeued.
type ReviewJob struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	InterviewID  uuid.UUID `json:"interview_id"`
	ProblemID    uuid.UUID `json:"problem_id"`
}

// ReviewQueue pushes review jobs onto a Redis list consumed by Worker.
type ReviewQueue struct {
	client    *redis.Client
	queueName string
	logger    *zap.Logger
}

// NewReviewQueue creates a new review queue
func NewReviewQueue(client *redis.Client, queueName string, logger *zap.Logger) *ReviewQueue {
	return &ReviewQueue{
		client:    client,
		queueName: queueName,
		logger:    logger,
	}
}

// Enqueue serializes the job and pushes it for background processing.
func (q *ReviewQueue) Enqueue(ctx context.Context, job ReviewJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal review job: %w", err)
	}
	if err := q.client.LPush(ctx, q.queueName, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue review job: %w", err)
	}
	q.logger.Debug("review job enqueued",
		zap.String("submission_id", job.SubmissionID.String()),
		zap.String("queue", q.queueName))
	return nil
}
