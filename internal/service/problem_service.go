package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/domain"
)

// ProblemService handles problem-related business logic, including problem
// selection for interviews
type ProblemService struct {
	problemRepo  domain.ProblemRepository
	taxonomyRepo domain.TaxonomyRepository
	tracer       trace.Tracer
	logger       *zap.Logger
	rng          *rand.Rand
	rngMu        sync.Mutex // Protects rng for concurrent access
}

// NewProblemService creates a new problem service
func NewProblemService(
	problemRepo domain.ProblemRepository,
	taxonomyRepo domain.TaxonomyRepository,
	tracer trace.Tracer,
	logger *zap.Logger,
) *ProblemService {
	return &ProblemService{
		problemRepo:  problemRepo,
		taxonomyRepo: taxonomyRepo,
		tracer:       tracer,
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateProblem stores a new problem authored through the admin form
func (s *ProblemService) CreateProblem(ctx context.Context, req *domain.CreateProblemRequest) (*domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.CreateProblem")
	defer span.End()

	span.SetAttributes(
		attribute.String("problem.title", req.Title),
		attribute.String("problem.difficulty", string(req.Difficulty)),
	)

	if !req.Difficulty.Valid() {
		return nil, domain.ErrInvalidDifficulty
	}

	topicIDs, err := parseUUIDs(req.TopicIDs)
	if err != nil {
		return nil, domain.ErrBadRequest
	}
	patternIDs, err := parseUUIDs(req.PatternIDs)
	if err != nil {
		return nil, domain.ErrBadRequest
	}

	problem := &domain.Problem{
		Title:           req.Title,
		Slug:            slug.Make(req.Title),
		Description:     req.Description,
		Difficulty:      req.Difficulty,
		Category:        req.Category,
		Examples:        req.Examples,
		Constraints:     req.Constraints,
		TestCases:       req.TestCases,
		TimeComplexity:  req.TimeComplexity,
		SpaceComplexity: req.SpaceComplexity,
		Context:         req.Context,
	}

	if err := s.problemRepo.Create(problem, topicIDs, patternIDs); err != nil {
		s.logger.Error("Failed to create problem", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Problem created",
		zap.String("problem_id", problem.ID.String()),
		zap.String("slug", problem.Slug),
	)

	return s.problemRepo.FindByID(problem.ID)
}

// GetProblemByID returns a specific problem
func (s *ProblemService) GetProblemByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetProblemByID")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))
	return s.problemRepo.FindByID(id)
}

// GetProblems returns all problems, optionally filtered by topic and/or
// pattern
func (s *ProblemService) GetProblems(ctx context.Context, topicID, patternID *uuid.UUID) ([]domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetProblems")
	defer span.End()

	if topicID == nil && patternID == nil {
		return s.problemRepo.FindAll()
	}
	return s.problemRepo.FindFiltered(topicID, patternID)
}

// DeleteProblem removes a problem and its topic/pattern associations
func (s *ProblemService) DeleteProblem(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "ProblemService.DeleteProblem")
	defer span.End()

	span.SetAttributes(attribute.String("problem.id", id.String()))

	if err := s.problemRepo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("Problem deleted", zap.String("problem_id", id.String()))
	return nil
}

// GetTopics returns the full topic taxonomy
func (s *ProblemService) GetTopics(ctx context.Context) ([]domain.Topic, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetTopics")
	defer span.End()

	return s.taxonomyRepo.FindAllTopics()
}

// GetPatterns returns the full pattern taxonomy
func (s *ProblemService) GetPatterns(ctx context.Context) ([]domain.Pattern, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.GetPatterns")
	defer span.End()

	return s.taxonomyRepo.FindAllPatterns()
}

// MatchProblems selects candidate problems for an interview by relaxing the
// match criteria in tiers until something usable comes back:
//  1. Problems matching both the requested difficulty and at least one topic
//  2. Fewer than 3 matches: problems matching any requested topic, regardless
//     of difficulty
//  3. Still fewer than 3: append problems sharing a pattern with the
//     topic-matched ones
//  4. Nothing at all: any problem of the requested difficulty
//  5. Still nothing: the first five problems in the store
//
// The returned pool preserves tier order; callers shuffle and truncate.
func (s *ProblemService) MatchProblems(ctx context.Context, difficulty domain.Difficulty, topicIDs []string) ([]domain.Problem, error) {
	ctx, span := s.tracer.Start(ctx, "ProblemService.MatchProblems")
	defer span.End()

	span.SetAttributes(
		attribute.String("difficulty", string(difficulty)),
		attribute.Int("topic.count", len(topicIDs)),
	)

	all, err := s.problemRepo.FindAll()
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}

	// Tier 1: difficulty + topic
	var matched []domain.Problem
	for _, p := range all {
		if p.Difficulty == difficulty && p.HasAnyTopic(topicIDs) {
			matched = append(matched, p)
		}
	}

	// Tier 2: topic only
	if len(matched) < 3 {
		matched = matched[:0]
		for _, p := range all {
			if p.HasAnyTopic(topicIDs) {
				matched = append(matched, p)
			}
		}
	}

	// Tier 3: widen via shared patterns of the topic-matched problems
	if len(matched) > 0 && len(matched) < 3 {
		patternIDs := make(map[string]struct{})
		for _, p := range matched {
			for _, pt := range p.Patterns {
				patternIDs[pt.ID.String()] = struct{}{}
			}
		}
		seen := make(map[uuid.UUID]struct{}, len(matched))
		for _, p := range matched {
			seen[p.ID] = struct{}{}
		}
		for _, p := range all {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			if p.HasAnyPattern(patternIDs) {
				matched = append(matched, p)
			}
		}
	}

	// Tier 4: any problem of the requested difficulty
	if len(matched) == 0 {
		for _, p := range all {
			if p.Difficulty == difficulty {
				matched = append(matched, p)
			}
		}
	}

	// Tier 5: first five problems, whatever they are
	if len(matched) == 0 {
		n := len(all)
		if n > 5 {
			n = 5
		}
		matched = append(matched, all[:n]...)
	}

	span.SetAttributes(attribute.Int("matched.count", len(matched)))
	return matched, nil
}

// Shuffle returns a shuffled copy of the given problems (thread-safe
// Fisher-Yates)
func (s *ProblemService) Shuffle(problems []domain.Problem) []domain.Problem {
	shuffled := make([]domain.Problem, len(problems))
	copy(shuffled, problems)

	s.rngMu.Lock()
	for i := len(shuffled) - 1; i > 0; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	s.rngMu.Unlock()

	return shuffled
}

// RandomQuestionCount picks how many questions an interview gets (1 to 3)
func (s *ProblemService) RandomQuestionCount() int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return 1 + s.rng.Intn(3)
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
