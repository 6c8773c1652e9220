package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/algoprep/backend/internal/data"
	"github.com/algoprep/backend/internal/domain"
)

type interviewFixture struct {
	svc            *InterviewService
	interviewRepo  *fakeInterviewRepo
	problemRepo    *fakeProblemRepo
	submissionRepo *fakeSubmissionRepo
	taxonomyRepo   *fakeTaxonomyRepo
	enqueuer       *fakeEnqueuer
}

func newInterviewFixture(t *testing.T, problems []domain.Problem, topics []domain.Topic) *interviewFixture {
	t.Helper()

	catalog, err := data.NewCatalog()
	if err != nil {
		t.Fatalf("failed to load catalog: %v", err)
	}

	f := &interviewFixture{
		interviewRepo:  newFakeInterviewRepo(),
		problemRepo:    &fakeProblemRepo{problems: problems},
		submissionRepo: &fakeSubmissionRepo{},
		taxonomyRepo:   &fakeTaxonomyRepo{topics: topics},
		enqueuer:       &fakeEnqueuer{},
	}
	problemService := NewProblemService(f.problemRepo, f.taxonomyRepo, testTracer, testLogger)
	f.svc = NewInterviewService(
		f.interviewRepo,
		f.problemRepo,
		f.submissionRepo,
		f.taxonomyRepo,
		problemService,
		catalog,
		f.enqueuer,
		nil,
		testTracer,
		testLogger,
	)
	return f
}

func mediumArrayProblems(topic domain.Topic, n int) []domain.Problem {
	problems := make([]domain.Problem, n)
	for i := range problems {
		problems[i] = testProblem("Array Problem", domain.DifficultyMedium, []domain.Topic{topic}, nil)
	}
	return problems
}

func TestCreateInterviewRequiresTopics(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	_, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: domain.DifficultyMedium,
	})
	if err != domain.ErrNoTopicsSelected {
		t.Errorf("got %v, want ErrNoTopicsSelected", err)
	}
}

func TestCreateInterviewRejectsUnknownDifficulty(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	_, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: "brutal",
		Topics:     []string{uuid.New().String()},
	})
	if err != domain.ErrInvalidDifficulty {
		t.Errorf("got %v, want ErrInvalidDifficulty", err)
	}
}

func TestCreateInterviewEmptyStore(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	_, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: domain.DifficultyMedium,
		Topics:     []string{uuid.New().String()},
	})
	if err != domain.ErrNoProblemsInStore {
		t.Errorf("got %v, want ErrNoProblemsInStore", err)
	}
}

func TestCreateInterviewPersistsWithFullPool(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	f := newInterviewFixture(t, mediumArrayProblems(arrays, 5), []domain.Topic{arrays})

	plan, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: domain.DifficultyMedium,
		Topics:     []string{arrays.ID.String()},
	})
	if err != nil {
		t.Fatal(err)
	}

	if plan.IsMockInterview {
		t.Error("a full pool must yield a real interview")
	}
	if f.interviewRepo.created != 1 {
		t.Errorf("got %d persisted interviews, want 1", f.interviewRepo.created)
	}
	if n := len(plan.Questions); n < 1 || n > 3 {
		t.Errorf("got %d questions, want 1..3", n)
	}
	if _, err := uuid.Parse(plan.ID); err != nil {
		t.Errorf("real interview id %q should be a UUID", plan.ID)
	}
	if plan.QuestionCount == nil || plan.QuestionCount.Mock != 0 {
		t.Errorf("got question count %+v, want zero mock questions", plan.QuestionCount)
	}
	for _, q := range plan.Questions {
		if !strings.Contains(q.Template, q.Title) {
			t.Errorf("template for %q should reference the problem title", q.Title)
		}
	}
}

func TestCreateInterviewThinPoolFillsWithMocks(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	f := newInterviewFixture(t, mediumArrayProblems(arrays, 2), []domain.Topic{arrays})

	plan, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: domain.DifficultyMedium,
		Topics:     []string{arrays.ID.String()},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !plan.IsMockInterview {
		t.Error("a thin pool must yield a mock interview")
	}
	if f.interviewRepo.created != 0 {
		t.Error("mock interviews must not be persisted")
	}
	if len(plan.Questions) != 3 {
		t.Fatalf("got %d questions, want exactly 3", len(plan.Questions))
	}
	if !strings.HasPrefix(plan.ID, domain.MockInterviewPrefix+"-") {
		t.Errorf("mock interview id %q missing prefix", plan.ID)
	}
	if !strings.HasSuffix(plan.ID, "-arrays") {
		t.Errorf("mock interview id %q should embed the topic key", plan.ID)
	}
	if plan.QuestionCount == nil || plan.QuestionCount.Real != 2 || plan.QuestionCount.Mock != 1 {
		t.Errorf("got question count %+v, want 2 real + 1 mock", plan.QuestionCount)
	}
}

func TestCreateInterviewMockFillFromCatalog(t *testing.T) {
	graphs := domain.Topic{ID: uuid.New(), Name: "Graphs"}
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	// Nothing matches the requested topic or difficulty, so the last-resort
	// tier yields a single problem and the catalog fills the remaining two
	// questions for the requested topic
	problems := []domain.Problem{
		testProblem("Lonely", domain.DifficultyEasy, []domain.Topic{arrays}, nil),
	}
	f := newInterviewFixture(t, problems, []domain.Topic{graphs, arrays})

	plan, err := f.svc.CreateInterview(context.Background(), uuid.New(), &domain.CreateInterviewRequest{
		Duration:   45,
		Difficulty: domain.DifficultyHard,
		Topics:     []string{graphs.ID.String()},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !plan.IsMockInterview {
		t.Error("expected a mock interview")
	}
	if len(plan.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(plan.Questions))
	}
	// Mock questions for graphs come from the catalog, cycling its entries
	if plan.Questions[1].Title != "Number of Islands" {
		t.Errorf("got title %q, want the graphs catalog problem", plan.Questions[1].Title)
	}
	if plan.Questions[1].Difficulty != domain.DifficultyHard {
		t.Errorf("mock question difficulty %q, want the requested one", plan.Questions[1].Difficulty)
	}
}

func TestGetInterviewRegeneratesMockSession(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	plan, err := f.svc.GetInterview(context.Background(), uuid.Nil, "mock-interview-1700000000000-arrays-strings")
	if err != nil {
		t.Fatal(err)
	}

	if !plan.IsMockInterview || !plan.IsRegenerated {
		t.Error("regenerated session must be flagged mock and regenerated")
	}
	if plan.Duration != 30 {
		t.Errorf("got duration %d, want the fixed mock duration 30", plan.Duration)
	}
	if len(plan.Questions) != 2 {
		t.Fatalf("got %d questions, want one per embedded topic key", len(plan.Questions))
	}
	if plan.Questions[0].Title != "Two Sum" && plan.Questions[0].Title != "Maximum Subarray" {
		t.Errorf("got %q, want an arrays catalog problem", plan.Questions[0].Title)
	}
	for _, q := range plan.Questions {
		if q.Difficulty != domain.DifficultyMedium {
			t.Errorf("regenerated question difficulty %q, want medium", q.Difficulty)
		}
		if !strings.HasPrefix(q.ID, "mock-") {
			t.Errorf("mock question id %q missing prefix", q.ID)
		}
	}
}

func TestGetInterviewCapsRegeneratedTopics(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	plan, err := f.svc.GetInterview(context.Background(), uuid.Nil,
		"mock-interview-1700000000000-arrays-strings-trees-graphs-heaps")
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Questions) != 3 {
		t.Errorf("got %d questions, want at most 3", len(plan.Questions))
	}
}

func TestGetInterviewUnknownID(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	if _, err := f.svc.GetInterview(context.Background(), uuid.New(), "not-a-uuid"); err != domain.ErrInterviewNotFound {
		t.Errorf("got %v, want ErrInterviewNotFound for a malformed id", err)
	}
	if _, err := f.svc.GetInterview(context.Background(), uuid.New(), uuid.New().String()); err != domain.ErrInterviewNotFound {
		t.Errorf("got %v, want ErrInterviewNotFound for an unknown id", err)
	}
}

func seedInterview(f *interviewFixture, userID uuid.UUID, status domain.InterviewStatus) *domain.Interview {
	interview := &domain.Interview{
		ID:        uuid.New(),
		UserID:    userID,
		Duration:  60,
		StartTime: time.Now().Add(-time.Hour),
		Status:    status,
	}
	f.interviewRepo.interviews[interview.ID] = interview
	return interview
}

func TestSubmitSolutionEnqueuesReview(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	problems := mediumArrayProblems(arrays, 1)
	f := newInterviewFixture(t, problems, []domain.Topic{arrays})

	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	err := f.svc.SubmitSolution(context.Background(), userID, interview.ID.String(), &domain.SubmitSolutionRequest{
		ProblemID: problems[0].ID.String(),
		Code:      "def solve(): pass",
		Language:  "python",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(f.submissionRepo.submissions) != 1 {
		t.Fatalf("got %d submissions, want 1", len(f.submissionRepo.submissions))
	}
	sub := f.submissionRepo.submissions[0]
	if sub.Status != domain.SubmissionStatusPending {
		t.Errorf("got status %q, want pending", sub.Status)
	}
	if len(f.enqueuer.jobs) != 1 {
		t.Fatalf("got %d queued jobs, want 1", len(f.enqueuer.jobs))
	}
	if f.enqueuer.jobs[0].SubmissionID != sub.ID {
		t.Error("queued job should reference the created submission")
	}
}

func TestSubmitSolutionMockSessionIsNoop(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)

	err := f.svc.SubmitSolution(context.Background(), uuid.New(), "mock-interview-1-arrays", &domain.SubmitSolutionRequest{
		ProblemID: "mock-0-1",
		Code:      "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.submissionRepo.submissions) != 0 || len(f.enqueuer.jobs) != 0 {
		t.Error("mock session submissions must not be stored or queued")
	}
}

func TestSubmitSolutionMockProblemIsNoop(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	err := f.svc.SubmitSolution(context.Background(), userID, interview.ID.String(), &domain.SubmitSolutionRequest{
		ProblemID: "mock-1-1700000000000",
		Code:      "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.submissionRepo.submissions) != 0 {
		t.Error("mock problem submissions must not be stored")
	}
}

func TestSubmitSolutionCompletedInterview(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusCompleted)

	err := f.svc.SubmitSolution(context.Background(), userID, interview.ID.String(), &domain.SubmitSolutionRequest{
		ProblemID: uuid.New().String(),
		Code:      "x",
	})
	if err != domain.ErrInterviewCompleted {
		t.Errorf("got %v, want ErrInterviewCompleted", err)
	}
}

func TestSubmitSolutionSurvivesQueueFailure(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	problems := mediumArrayProblems(arrays, 1)
	f := newInterviewFixture(t, problems, []domain.Topic{arrays})
	f.enqueuer.err = errors.New("redis down")

	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	err := f.svc.SubmitSolution(context.Background(), userID, interview.ID.String(), &domain.SubmitSolutionRequest{
		ProblemID: problems[0].ID.String(),
		Code:      "x",
	})
	if err != nil {
		t.Fatalf("a queue failure must not fail the submit: %v", err)
	}
	if f.submissionRepo.submissions[0].Status != domain.SubmissionStatusFailed {
		t.Errorf("got status %q, want failed after enqueue error", f.submissionRepo.submissions[0].Status)
	}
}

func TestCompleteInterviewBuildsReport(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	start := interview.StartTime
	f.submissionRepo.submissions = []domain.Submission{
		{
			ID:             uuid.New(),
			InterviewID:    interview.ID,
			ProblemID:      uuid.New(),
			Status:         domain.SubmissionStatusReviewed,
			Score:          90,
			TimeComplexity: "O(n)", SpaceComplexity: "O(1)",
			Feedback:    "Clean hash map solution",
			SubmittedAt: start.Add(20 * time.Minute),
			Problem:     domain.Problem{Title: "Two Sum"},
		},
		{
			ID:             uuid.New(),
			InterviewID:    interview.ID,
			ProblemID:      uuid.New(),
			Status:         domain.SubmissionStatusReviewed,
			Score:          85,
			TimeComplexity: "O(n log n)", SpaceComplexity: "O(n)",
			Feedback:    "Sorting works here",
			SubmittedAt: start.Add(25 * time.Minute),
			Problem:     domain.Problem{Title: "Maximum Subarray"},
		},
	}

	completed, err := f.svc.CompleteInterview(context.Background(), userID, interview.ID.String())
	if err != nil {
		t.Fatal(err)
	}

	if completed.Status != domain.InterviewStatusCompleted || completed.CompletedAt == nil {
		t.Error("interview should be marked completed with a timestamp")
	}
	report := completed.Feedback
	if report == nil {
		t.Fatal("completion must attach a feedback report")
	}
	if report.OverallScore != 88 {
		t.Errorf("got overall score %d, want round(87.5) = 88", report.OverallScore)
	}
	if report.TimeSpent != 45 {
		t.Errorf("got time spent %d, want 45 minutes", report.TimeSpent)
	}

	wantStrengths := []string{
		"Good time management - completed within allocated time",
		"Consistently high-quality solutions across all problems",
		"Optimal time and space complexity in solutions",
	}
	for _, want := range wantStrengths {
		if !containsString(report.Strengths, want) {
			t.Errorf("missing strength %q in %v", want, report.Strengths)
		}
	}
	if len(report.Recommendations) != 0 {
		t.Errorf("a strong run should get no recommendations, got %v", report.Recommendations)
	}
	if len(report.QuestionFeedback) != 2 {
		t.Fatalf("got %d question entries, want 2", len(report.QuestionFeedback))
	}
	if report.QuestionFeedback[0].Title != "Two Sum" {
		t.Errorf("got title %q, want the submission's problem title", report.QuestionFeedback[0].Title)
	}
}

func TestCompleteInterviewWeakRun(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	// One pending submission handed in well past the allocated hour
	f.submissionRepo.submissions = []domain.Submission{{
		ID:          uuid.New(),
		InterviewID: interview.ID,
		ProblemID:   uuid.New(),
		Status:      domain.SubmissionStatusPending,
		SubmittedAt: interview.StartTime.Add(90 * time.Minute),
	}}

	completed, err := f.svc.CompleteInterview(context.Background(), userID, interview.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	report := completed.Feedback

	if !containsString(report.Improvements, "Work on time management - exceeded allocated time") {
		t.Errorf("missing time-management improvement in %v", report.Improvements)
	}
	if !containsString(report.Improvements, "Focus on improving solution quality and correctness") {
		t.Errorf("missing quality improvement in %v", report.Improvements)
	}
	if !containsString(report.Recommendations, "Practice solving problems under time constraints") {
		t.Errorf("missing time recommendation in %v", report.Recommendations)
	}
	if !containsString(report.Recommendations, "Review fundamental data structures and algorithms") {
		t.Errorf("missing fundamentals recommendation in %v", report.Recommendations)
	}

	qf := report.QuestionFeedback[0]
	if qf.Feedback != "Review pending" {
		t.Errorf("got feedback %q, want the pending placeholder", qf.Feedback)
	}
	if qf.Complexity.Time != "N/A" || qf.Complexity.Space != "N/A" {
		t.Errorf("unreviewed complexity should read N/A, got %+v", qf.Complexity)
	}
	if qf.Suggestions == nil {
		t.Error("suggestions must serialize as an empty list, not null")
	}
}

func TestCompleteInterviewGuards(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()

	if _, err := f.svc.CompleteInterview(context.Background(), userID, "mock-interview-1-arrays"); err != domain.ErrInterviewNotFound {
		t.Errorf("mock sessions are client-local: got %v, want ErrInterviewNotFound", err)
	}

	empty := seedInterview(f, userID, domain.InterviewStatusInProgress)
	if _, err := f.svc.CompleteInterview(context.Background(), userID, empty.ID.String()); err != domain.ErrNoSubmissions {
		t.Errorf("got %v, want ErrNoSubmissions", err)
	}

	done := seedInterview(f, userID, domain.InterviewStatusCompleted)
	if _, err := f.svc.CompleteInterview(context.Background(), userID, done.ID.String()); err != domain.ErrInterviewCompleted {
		t.Errorf("got %v, want ErrInterviewCompleted; completion is one-way", err)
	}
}

func TestGetFeedbackRequiresCompletion(t *testing.T) {
	f := newInterviewFixture(t, nil, nil)
	userID := uuid.New()
	interview := seedInterview(f, userID, domain.InterviewStatusInProgress)

	if _, err := f.svc.GetFeedback(context.Background(), userID, interview.ID.String()); err != domain.ErrInterviewNotCompleted {
		t.Errorf("got %v, want ErrInterviewNotCompleted", err)
	}

	interview.Status = domain.InterviewStatusCompleted
	interview.Feedback = &domain.FeedbackReport{OverallScore: 75}
	got, err := f.svc.GetFeedback(context.Background(), userID, interview.ID.String())
	if err != nil {
		t.Fatal(err)
	}
	if got.Feedback.OverallScore != 75 {
		t.Errorf("got score %d, want the stored report", got.Feedback.OverallScore)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
