package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/algoprep/backend/internal/data"
	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/infrastructure"
	"github.com/algoprep/backend/internal/queue"
)

const (
	mockInterviewDuration   = 30
	mockInterviewDifficulty = domain.DifficultyMedium
)

// ReviewEnqueuer hands a submission off for background review
type ReviewEnqueuer interface {
	Enqueue(ctx context.Context, job queue.ReviewJob) error
}

// InterviewService handles interview sessions: creation with problem
// matching, mock fallback, submission intake and completion feedback
type InterviewService struct {
	interviewRepo  domain.InterviewRepository
	problemRepo    domain.ProblemRepository
	submissionRepo domain.SubmissionRepository
	taxonomyRepo   domain.TaxonomyRepository
	problemService *ProblemService
	catalog        *data.Catalog
	enqueuer       ReviewEnqueuer
	metrics        *infrastructure.TelemetryMetrics
	tracer         trace.Tracer
	logger         *zap.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	interviewRepo domain.InterviewRepository,
	problemRepo domain.ProblemRepository,
	submissionRepo domain.SubmissionRepository,
	taxonomyRepo domain.TaxonomyRepository,
	problemService *ProblemService,
	catalog *data.Catalog,
	enqueuer ReviewEnqueuer,
	metrics *infrastructure.TelemetryMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		interviewRepo:  interviewRepo,
		problemRepo:    problemRepo,
		submissionRepo: submissionRepo,
		taxonomyRepo:   taxonomyRepo,
		problemService: problemService,
		catalog:        catalog,
		enqueuer:       enqueuer,
		metrics:        metrics,
		tracer:         tracer,
		logger:         logger,
	}
}

// CreateInterview builds an interview session for the user. When the store
// yields at least 3 candidate problems, 1-3 of them are selected at random and
// the interview is persisted. A thinner pool keeps whatever real problems
// matched and fills up to exactly 3 questions from the mock catalog; such
// interviews get a synthetic identifier and are never persisted.
func (s *InterviewService) CreateInterview(ctx context.Context, userID uuid.UUID, req *domain.CreateInterviewRequest) (*domain.InterviewPlan, error) {
	ctx, span := s.tracer.Start(ctx, "InterviewService.CreateInterview")
	defer span.End()

	span.SetAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("difficulty", string(req.Difficulty)),
		attribute.Int("topic.count", len(req.Topics)),
	)

	if len(req.Topics) == 0 {
		return nil, domain.ErrNoTopicsSelected
	}
	if !req.Difficulty.Valid() {
		return nil, domain.ErrInvalidDifficulty
	}

	topicNames, err := s.topicNames()
	if err != nil {
		return nil, err
	}

	count, err := s.problemRepo.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrNoProblemsInStore
	}

	pool, err := s.problemService.MatchProblems(ctx, req.Difficulty, req.Topics)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	shuffled := s.problemService.Shuffle(pool)

	if len(shuffled) >= 3 {
		return s.createRealInterview(ctx, userID, req, shuffled, startTime)
	}
	return s.createMockInterview(req, shuffled, topicNames, startTime), nil
}

func (s *InterviewService) createRealInterview(ctx context.Context, userID uuid.UUID, req *domain.CreateInterviewRequest, pool []domain.Problem, startTime time.Time) (*domain.InterviewPlan, error) {
	selected := pool[:s.problemService.RandomQuestionCount()]

	problemIDs := make([]string, len(selected))
	questions := make([]domain.InterviewQuestion, len(selected))
	for i, p := range selected {
		problemIDs[i] = p.ID.String()
		questions[i] = realQuestion(&p)
	}

	interview := &domain.Interview{
		UserID:          userID,
		Duration:        req.Duration,
		Difficulty:      req.Difficulty,
		Topics:          req.Topics,
		ProblemIDs:      problemIDs,
		CompanyType:     req.CompanyType,
		TargetCompanies: req.TargetCompanies,
		StartTime:       startTime,
		Status:          domain.InterviewStatusInProgress,
	}
	if err := s.interviewRepo.Create(interview); err != nil {
		s.logger.Error("Failed to create interview", zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.InterviewsCreated.Add(ctx, 1)
	}
	s.logger.Info("Interview created",
		zap.String("interview_id", interview.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("question_count", len(questions)),
	)

	return &domain.InterviewPlan{
		ID:              interview.ID.String(),
		Duration:        req.Duration,
		Questions:       questions,
		StartTime:       startTime,
		IsMockInterview: false,
		CompanyType:     req.CompanyType,
		TargetCompanies: req.TargetCompanies,
		QuestionCount: &domain.QuestionCount{
			Real:  len(questions),
			Mock:  0,
			Total: len(questions),
		},
	}, nil
}

func (s *InterviewService) createMockInterview(req *domain.CreateInterviewRequest, pool []domain.Problem, topicNames map[string]string, startTime time.Time) *domain.InterviewPlan {
	questions := make([]domain.InterviewQuestion, 0, 3)
	for i := range pool {
		questions = append(questions, realQuestion(&pool[i]))
	}
	realCount := len(questions)

	topicKeys := make([]string, len(req.Topics))
	for i, topic := range req.Topics {
		name := topic
		if n, ok := topicNames[topic]; ok {
			name = n
		}
		topicKeys[i] = data.TopicKey(name)
	}

	for i := 0; len(questions) < 3; i++ {
		key := topicKeys[i%len(topicKeys)]
		questions = append(questions, s.mockQuestion(key, i, req.Difficulty))
	}

	id := fmt.Sprintf("%s-%d-%s",
		domain.MockInterviewPrefix, startTime.UnixMilli(), strings.Join(topicKeys, "-"))

	s.logger.Info("Mock interview generated",
		zap.String("interview_id", id),
		zap.Int("real_questions", realCount),
		zap.Int("mock_questions", len(questions)-realCount),
	)

	return &domain.InterviewPlan{
		ID:              id,
		Duration:        req.Duration,
		Questions:       questions,
		StartTime:       startTime,
		IsMockInterview: true,
		CompanyType:     req.CompanyType,
		TargetCompanies: req.TargetCompanies,
		QuestionCount: &domain.QuestionCount{
			Real:  realCount,
			Mock:  len(questions) - realCount,
			Total: len(questions),
		},
	}
}

// GetInterview fetches a session by identifier. Mock identifiers embed their
// topic keys, so their question set is regenerated from the catalog without
// touching the store; persisted interviews require ownership.
func (s *InterviewService) GetInterview(ctx context.Context, userID uuid.UUID, id string) (*domain.InterviewPlan, error) {
	ctx, span := s.tracer.Start(ctx, "InterviewService.GetInterview")
	defer span.End()

	span.SetAttributes(attribute.String("interview.id", id))

	if strings.HasPrefix(id, domain.MockInterviewPrefix) {
		return s.regenerateMockInterview(id), nil
	}

	interviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInterviewNotFound
	}
	interview, err := s.interviewRepo.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}

	problemIDs, err := parseUUIDs(interview.ProblemIDs)
	if err != nil {
		return nil, domain.ErrInternalServer
	}
	problems, err := s.problemRepo.FindByIDs(problemIDs)
	if err != nil {
		return nil, err
	}
	if len(problems) == 0 {
		return nil, domain.ErrProblemNotFound
	}

	questions := make([]domain.InterviewQuestion, len(problems))
	for i := range problems {
		questions[i] = realQuestion(&problems[i])
	}

	return &domain.InterviewPlan{
		ID:              interview.ID.String(),
		Duration:        interview.Duration,
		Questions:       questions,
		StartTime:       interview.StartTime,
		IsMockInterview: false,
		CompanyType:     interview.CompanyType,
		TargetCompanies: interview.TargetCompanies,
	}, nil
}

// regenerateMockInterview rebuilds a mock session's questions from the topic
// keys embedded in its identifier (mock-interview-<timestamp>-<key>...)
func (s *InterviewService) regenerateMockInterview(id string) *domain.InterviewPlan {
	plan := &domain.InterviewPlan{
		ID:              id,
		Duration:        mockInterviewDuration,
		StartTime:       time.Now(),
		IsMockInterview: true,
		IsRegenerated:   true,
	}

	parts := strings.Split(id, "-")
	if len(parts) <= 3 {
		return plan
	}

	topicKeys := parts[3:]
	if len(topicKeys) > 3 {
		topicKeys = topicKeys[:3]
	}
	for i, key := range topicKeys {
		plan.Questions = append(plan.Questions, s.mockQuestion(key, i, mockInterviewDifficulty))
	}
	return plan
}

// SubmitSolution records a code submission and hands it off for background
// review. Submissions against mock interviews or mock problems are accepted
// and dropped; the client keeps those locally.
func (s *InterviewService) SubmitSolution(ctx context.Context, userID uuid.UUID, id string, req *domain.SubmitSolutionRequest) error {
	ctx, span := s.tracer.Start(ctx, "InterviewService.SubmitSolution")
	defer span.End()

	span.SetAttributes(
		attribute.String("interview.id", id),
		attribute.String("problem.id", req.ProblemID),
	)

	if strings.HasPrefix(id, domain.MockInterviewPrefix) {
		return nil
	}

	interviewID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInterviewNotFound
	}
	interview, err := s.interviewRepo.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return err
	}
	if interview.Status == domain.InterviewStatusCompleted {
		return domain.ErrInterviewCompleted
	}

	if strings.HasPrefix(req.ProblemID, "mock-") {
		return nil
	}
	problemID, err := uuid.Parse(req.ProblemID)
	if err != nil {
		return domain.ErrBadRequest
	}

	submission := &domain.Submission{
		InterviewID: interviewID,
		ProblemID:   problemID,
		Code:        req.Code,
		Language:    req.Language,
		SubmittedAt: time.Now(),
		Status:      domain.SubmissionStatusPending,
	}
	if err := s.submissionRepo.Create(submission); err != nil {
		s.logger.Error("Failed to create submission", zap.Error(err))
		return err
	}

	job := queue.ReviewJob{
		SubmissionID: submission.ID,
		InterviewID:  interviewID,
		ProblemID:    problemID,
	}
	if err := s.enqueuer.Enqueue(ctx, job); err != nil {
		// The submission stands; it just never gets reviewed
		s.logger.Error("Failed to enqueue review job",
			zap.String("submission_id", submission.ID.String()),
			zap.Error(err),
		)
		submission.Status = domain.SubmissionStatusFailed
		if updateErr := s.submissionRepo.Update(submission); updateErr != nil {
			s.logger.Error("Failed to mark submission failed", zap.Error(updateErr))
		}
		return nil
	}
	if s.metrics != nil {
		s.metrics.ReviewJobsQueued.Add(ctx, 1)
	}

	s.logger.Info("Solution submitted",
		zap.String("interview_id", id),
		zap.String("submission_id", submission.ID.String()),
	)
	return nil
}

// CompleteInterview closes an interview and attaches a one-shot feedback
// report derived from its submissions. Completion is one-way: a completed
// interview cannot be completed again.
func (s *InterviewService) CompleteInterview(ctx context.Context, userID uuid.UUID, id string) (*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "InterviewService.CompleteInterview")
	defer span.End()

	span.SetAttributes(attribute.String("interview.id", id))

	interviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInterviewNotFound
	}
	interview, err := s.interviewRepo.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}
	if interview.Status == domain.InterviewStatusCompleted {
		return nil, domain.ErrInterviewCompleted
	}

	submissions, err := s.submissionRepo.FindByInterviewID(interviewID)
	if err != nil {
		return nil, err
	}
	if len(submissions) == 0 {
		return nil, domain.ErrNoSubmissions
	}

	report := buildFeedbackReport(interview, submissions)

	now := time.Now()
	interview.Status = domain.InterviewStatusCompleted
	interview.CompletedAt = &now
	interview.Feedback = report
	if err := s.interviewRepo.Update(interview); err != nil {
		s.logger.Error("Failed to complete interview", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Interview completed",
		zap.String("interview_id", id),
		zap.Int("overall_score", report.OverallScore),
	)
	return interview, nil
}

// GetFeedback returns the feedback report of a completed interview
func (s *InterviewService) GetFeedback(ctx context.Context, userID uuid.UUID, id string) (*domain.Interview, error) {
	ctx, span := s.tracer.Start(ctx, "InterviewService.GetFeedback")
	defer span.End()

	span.SetAttributes(attribute.String("interview.id", id))

	interviewID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInterviewNotFound
	}
	interview, err := s.interviewRepo.FindByIDAndUser(interviewID, userID)
	if err != nil {
		return nil, err
	}
	if interview.Status != domain.InterviewStatusCompleted || interview.Feedback == nil {
		return nil, domain.ErrInterviewNotCompleted
	}
	return interview, nil
}

// buildFeedbackReport derives the completion report from the interview's
// submissions: per-question results from the background reviews plus
// rule-based strengths, improvements and recommendations
func buildFeedbackReport(interview *domain.Interview, submissions []domain.Submission) *domain.FeedbackReport {
	questionFeedback := make([]domain.QuestionFeedback, len(submissions))
	totalScore := 0
	totalTimeSpent := 0
	optimalComplexity := 0
	goodSolutions := 0

	for i, sub := range submissions {
		qf := domain.QuestionFeedback{
			ID:          sub.ProblemID.String(),
			Title:       sub.Problem.Title,
			Status:      string(sub.Status),
			TimeSpent:   minutesBetween(interview.StartTime, sub.SubmittedAt),
			Feedback:    sub.Feedback,
			Suggestions: sub.Suggestions,
			Score:       sub.Score,
		}
		if qf.Feedback == "" {
			qf.Feedback = "Review pending"
		}
		if qf.Suggestions == nil {
			qf.Suggestions = []string{}
		}
		qf.Complexity.Time = orNA(sub.TimeComplexity)
		qf.Complexity.Space = orNA(sub.SpaceComplexity)

		totalScore += qf.Score
		totalTimeSpent += qf.TimeSpent
		if qf.Score >= 80 {
			goodSolutions++
		}
		if qf.Complexity.Time != "N/A" && !strings.Contains(qf.Complexity.Time, "suboptimal") {
			optimalComplexity++
		}
		questionFeedback[i] = qf
	}

	overallScore := int(math.Round(float64(totalScore) / float64(len(submissions))))

	strengths := []string{}
	improvements := []string{}

	if totalTimeSpent <= interview.Duration*8/10 {
		strengths = append(strengths, "Good time management - completed within allocated time")
	} else if totalTimeSpent > interview.Duration {
		improvements = append(improvements, "Work on time management - exceeded allocated time")
	}

	if goodSolutions == len(submissions) {
		strengths = append(strengths, "Consistently high-quality solutions across all problems")
	} else if goodSolutions == 0 {
		improvements = append(improvements, "Focus on improving solution quality and correctness")
	}

	if optimalComplexity == len(submissions) {
		strengths = append(strengths, "Optimal time and space complexity in solutions")
	} else {
		improvements = append(improvements, "Work on optimizing solution complexity")
	}

	recommendations := []string{}
	if overallScore < 70 {
		recommendations = append(recommendations,
			"Practice more problems in similar difficulty level",
			"Review fundamental data structures and algorithms")
	}
	if totalTimeSpent > interview.Duration {
		recommendations = append(recommendations, "Practice solving problems under time constraints")
	}
	if optimalComplexity < len(submissions) {
		recommendations = append(recommendations, "Study common optimization techniques and patterns")
	}

	return &domain.FeedbackReport{
		OverallScore:     overallScore,
		TimeSpent:        totalTimeSpent,
		QuestionFeedback: questionFeedback,
		Strengths:        strengths,
		Improvements:     improvements,
		Recommendations:  recommendations,
	}
}

func (s *InterviewService) mockQuestion(key string, index int, difficulty domain.Difficulty) domain.InterviewQuestion {
	label := data.TopicLabel(key)
	mp, ok := s.catalog.Lookup(key, index)
	if !ok {
		mp = data.MockProblem{
			Title: fmt.Sprintf("%s Problem %d", label, index+1),
			Description: fmt.Sprintf(
				"This is a mock %s difficulty problem for %s. Implement a solution that solves the problem efficiently.",
				difficulty, label),
			Template: "def solve(input):\n    # Your solution here\n    pass",
		}
	}
	return domain.InterviewQuestion{
		ID:          fmt.Sprintf("mock-%d-%d", index, time.Now().UnixMilli()),
		Title:       mp.Title,
		Description: mp.Description,
		Difficulty:  difficulty,
		Template:    mp.Template,
	}
}

// realQuestion converts a stored problem into an interview question. Stored
// problems carry no starter code, so a default template is generated.
func realQuestion(p *domain.Problem) domain.InterviewQuestion {
	return domain.InterviewQuestion{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  p.Difficulty,
		Template:    fmt.Sprintf("def solve(input):\n    # Your solution here for: %s\n    pass", p.Title),
	}
}

func (s *InterviewService) topicNames() (map[string]string, error) {
	topics, err := s.taxonomyRepo.FindAllTopics()
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(topics))
	for _, t := range topics {
		names[t.ID.String()] = t.Name
	}
	return names, nil
}

func minutesBetween(start, end time.Time) int {
	return int(math.Round(end.Sub(start).Minutes()))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
