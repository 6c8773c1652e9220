package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/cache"
	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/infrastructure"
	"github.com/algoprep/backend/internal/llm"
)

// ReviewService produces structured code reviews. Results are cached for a
// short TTL keyed on (problem title, code hash) so repeated submissions of the
// same code do not hit the upstream model twice.
type ReviewService struct {
	llmClient llm.Client
	cache     *cache.ReviewCache
	metrics   *infrastructure.TelemetryMetrics
	tracer    trace.Tracer
	logger    *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	llmClient llm.Client,
	reviewCache *cache.ReviewCache,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		llmClient: llmClient,
		cache:     reviewCache,
		metrics:   metrics,
		tracer:    tracer,
		logger:    logger,
	}
}

// fullReviewResponse is the JSON shape requested from the model for the
// detailed pass
type fullReviewResponse struct {
	Score           int                        `json:"score"`
	Approach        domain.ReviewApproach      `json:"approach"`
	Performance     domain.ReviewPerformance   `json:"performance"`
	BestPractices   domain.ReviewBestPractices `json:"bestPractices"`
	Improvements    []string                   `json:"improvements"`
	OverallFeedback string                     `json:"overallFeedback"`
}

// Review returns a structured review for the given (problem, code) pair,
// serving from cache when the same code was reviewed recently
func (s *ReviewService) Review(ctx context.Context, req domain.ReviewRequest) (*domain.Review, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.Review")
	defer span.End()

	key := CacheKey(req.Problem.Title, req.Submission.Code)
	span.SetAttributes(
		attribute.String("review.cache_key", key),
		attribute.String("problem.title", req.Problem.Title),
	)

	if cached, ok := s.cache.Get(key); ok {
		span.SetAttributes(attribute.Bool("review.cache_hit", true))
		if s.metrics != nil {
			s.metrics.ReviewCacheHits.Add(ctx, 1)
		}
		s.logger.Debug("review cache hit", zap.String("key", key))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("review.cache_hit", false))
	if s.metrics != nil {
		s.metrics.ReviewCacheMisses.Add(ctx, 1)
	}

	start := time.Now()

	quick, err := s.quickReview(ctx, req)
	if err != nil {
		return nil, err
	}

	full, err := s.fullReview(ctx, req)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		Score:           full.Score,
		Approach:        full.Approach,
		Performance:     full.Performance,
		BestPractices:   full.BestPractices,
		Improvements:    full.Improvements,
		OverallFeedback: full.OverallFeedback,
		Metadata: domain.ReviewMetadata{
			ProblemID:     slug.Make(req.Problem.Title),
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			ExecutionTime: time.Since(start).String(),
		},
		Submission:  req.Submission,
		QuickReview: *quick,
	}

	s.cache.Put(key, review)

	s.logger.Info("review computed",
		zap.String("problem", req.Problem.Title),
		zap.Int("score", review.Score),
		zap.Duration("elapsed", time.Since(start)),
	)

	return review, nil
}

func (s *ReviewService) quickReview(ctx context.Context, req domain.ReviewRequest) (*domain.QuickReview, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.quickReview")
	defer span.End()

	prompt := fmt.Sprintf(`Give a quick first-pass assessment of this solution.

Problem: %s
%s

Submitted code (%s):
%s

Respond with JSON matching exactly:
{
  "score": <0-100>,
  "initialFeedback": "<one or two sentences>",
  "timeComplexity": "<big-O>",
  "spaceComplexity": "<big-O>"
}`,
		req.Problem.Title,
		req.Problem.Description,
		req.Submission.Language,
		req.Submission.Code,
	)

	var quick domain.QuickReview
	if err := s.llmClient.GenerateJSON(ctx, llm.ReviewSystemPrompt, prompt, &quick); err != nil {
		return nil, err
	}
	return &quick, nil
}

func (s *ReviewService) fullReview(ctx context.Context, req domain.ReviewRequest) (*fullReviewResponse, error) {
	ctx, span := s.tracer.Start(ctx, "ReviewService.fullReview")
	defer span.End()

	constraints := ""
	for _, c := range req.Problem.Constraints {
		constraints += "- " + c + "\n"
	}
	expected := ""
	if ec := req.Problem.ExpectedComplexity; ec != nil {
		expected = fmt.Sprintf("Expected complexity: time %s, space %s\n", ec.Time, ec.Space)
	}

	prompt := fmt.Sprintf(`Review this solution in depth.

Problem: %s
%s
%s%s
Submitted code (%s):
%s

Respond with JSON matching exactly:
{
  "score": <0-100>,
  "approach": {"rating": "good"|"fair"|"poor", "feedback": "<summary>", "details": "<longer analysis>"},
  "performance": {"time": "<big-O>", "space": "<big-O>", "feedback": "<summary>", "analysis": "<longer analysis>"},
  "bestPractices": {"pros": ["..."], "cons": ["..."], "details": "<summary>"},
  "improvements": ["<concrete suggestion>", ...],
  "overallFeedback": "<two or three sentences>"
}`,
		req.Problem.Title,
		req.Problem.Description,
		constraints,
		expected,
		req.Submission.Language,
		req.Submission.Code,
	)

	var full fullReviewResponse
	if err := s.llmClient.GenerateJSON(ctx, llm.ReviewSystemPrompt, prompt, &full); err != nil {
		return nil, err
	}
	return &full, nil
}

// CacheKey derives the review cache key from the problem title and a rolling
// hash of the code. The hash runs in 32-bit space and collisions are
// tolerated: a collision serves a wrong-but-plausible review for at most the
// cache TTL. Language is deliberately not part of the key; identical text in
// two languages maps to the same entry.
func CacheKey(problemTitle, code string) string {
	return problemTitle + "-" + strconv.FormatInt(int64(codeHash(code)), 10)
}

// codeHash is a 31-based rolling hash over the UTF-16 code units of s,
// accumulated in int32 with wraparound
func codeHash(s string) int32 {
	var h int32
	for _, r := range s {
		if r > 0xFFFF {
			// Supplementary planes hash as surrogate pairs
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			h = h<<5 - h + int32(hi)
			h = h<<5 - h + int32(lo)
			continue
		}
		h = h<<5 - h + int32(r)
	}
	return h
}
