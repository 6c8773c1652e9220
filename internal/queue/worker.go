package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/domain"
)

const popTimeout = 5 * time.Second

// Reviewer produces a structured review for a (problem, code) pair.
type Reviewer interface {
	Review(ctx context.Context, req domain.ReviewRequest) (*domain.Review, error)
}

// Worker consumes review jobs and writes the results back onto the
// submission row. Failures mark the submission failed and are logged;
// jobs are never retried.
type Worker struct {
	client      *redis.Client
	queueName   string
	reviewer    Reviewer
	submissions domain.SubmissionRepository
	logger      *zap.Logger
}

// NewWorker creates a new review worker
func NewWorker(
	client *redis.Client,
	queueName string,
	reviewer Reviewer,
	submissions domain.SubmissionRepository,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		client:      client,
		queueName:   queueName,
		reviewer:    reviewer,
		submissions: submissions,
		logger:      logger,
	}
}

// Start blocks consuming jobs until the context is cancelled. Run it in
// its own goroutine.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("review worker started", zap.String("queue", w.queueName))
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("review worker stopped")
			return
		default:
		}

		result, err := w.client.BRPop(ctx, popTimeout, w.queueName).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			w.logger.Error("failed to pop review job", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		// BRPop returns [key, value]
		if len(result) < 2 {
			continue
		}

		var job ReviewJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			w.logger.Error("discarding malformed review job", zap.Error(err))
			continue
		}
		w.process(ctx, job)
	}
}

func (w *Worker) process(ctx context.Context, job ReviewJob) {
	logger := w.logger.With(
		zap.String("submission_id", job.SubmissionID.String()),
		zap.String("interview_id", job.InterviewID.String()))

	submission, err := w.submissions.FindByID(job.SubmissionID)
	if err != nil {
		logger.Error("failed to load submission for review", zap.Error(err))
		return
	}
	if submission.Status != domain.SubmissionStatusPending {
		logger.Debug("submission already processed",
			zap.String("status", string(submission.Status)))
		return
	}

	req := domain.ReviewRequest{
		Problem: domain.ReviewProblem{
			Title:       submission.Problem.Title,
			Description: submission.Problem.Description,
			Constraints: submission.Problem.Constraints,
			Examples:    submission.Problem.Examples,
		},
		Submission: domain.ReviewSubmission{
			Code:     submission.Code,
			Language: submission.Language,
		},
	}

	review, err := w.reviewer.Review(ctx, req)
	if err != nil {
		logger.Error("background review failed", zap.Error(err))
		w.markFailed(submission, logger)
		return
	}

	submission.Status = domain.SubmissionStatusReviewed
	submission.Score = review.Score
	submission.TimeComplexity = review.Performance.Time
	submission.SpaceComplexity = review.Performance.Space
	submission.Feedback = review.OverallFeedback
	submission.Suggestions = review.Improvements
	if err := w.submissions.Update(submission); err != nil {
		logger.Error("failed to store review result", zap.Error(err))
		return
	}
	logger.Info("background review completed", zap.Int("score", review.Score))
}

func (w *Worker) markFailed(submission *domain.Submission, logger *zap.Logger) {
	submission.Status = domain.SubmissionStatusFailed
	if err := w.submissions.Update(submission); err != nil {
		logger.Error("failed to mark submission failed", zap.Error(err))
	}
}
