package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/algoprep/backend/internal/domain"
	"github.com/algoprep/backend/internal/queue"
)

var (
	testTracer = otel.Tracer("test")
	testLogger = zap.NewNop()
)

// fakeProblemRepo is an in-memory domain.ProblemRepository
type fakeProblemRepo struct {
	problems []domain.Problem
}

func (r *fakeProblemRepo) Create(problem *domain.Problem, topicIDs, patternIDs []uuid.UUID) error {
	problem.ID = uuid.New()
	r.problems = append(r.problems, *problem)
	return nil
}

func (r *fakeProblemRepo) FindByID(id uuid.UUID) (*domain.Problem, error) {
	for i := range r.problems {
		if r.problems[i].ID == id {
			return &r.problems[i], nil
		}
	}
	return nil, domain.ErrProblemNotFound
}

func (r *fakeProblemRepo) FindAll() ([]domain.Problem, error) {
	return r.problems, nil
}

func (r *fakeProblemRepo) FindFiltered(topicID, patternID *uuid.UUID) ([]domain.Problem, error) {
	var out []domain.Problem
	for _, p := range r.problems {
		if topicID != nil && !p.HasAnyTopic([]string{topicID.String()}) {
			continue
		}
		if patternID != nil && !p.HasAnyPattern(map[string]struct{}{patternID.String(): {}}) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProblemRepo) FindByIDs(ids []uuid.UUID) ([]domain.Problem, error) {
	var out []domain.Problem
	for _, id := range ids {
		for _, p := range r.problems {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r *fakeProblemRepo) Delete(id uuid.UUID) error {
	for i := range r.problems {
		if r.problems[i].ID == id {
			r.problems = append(r.problems[:i], r.problems[i+1:]...)
			return nil
		}
	}
	return domain.ErrProblemNotFound
}

func (r *fakeProblemRepo) Count() (int64, error) {
	return int64(len(r.problems)), nil
}

// fakeTaxonomyRepo is an in-memory domain.TaxonomyRepository
type fakeTaxonomyRepo struct {
	topics   []domain.Topic
	patterns []domain.Pattern
}

func (r *fakeTaxonomyRepo) FindAllTopics() ([]domain.Topic, error)     { return r.topics, nil }
func (r *fakeTaxonomyRepo) FindAllPatterns() ([]domain.Pattern, error) { return r.patterns, nil }

func (r *fakeTaxonomyRepo) CreateTopics(topics []domain.Topic) error {
	r.topics = append(r.topics, topics...)
	return nil
}

func (r *fakeTaxonomyRepo) CreatePatterns(patterns []domain.Pattern) error {
	r.patterns = append(r.patterns, patterns...)
	return nil
}

func (r *fakeTaxonomyRepo) CountTopics() (int64, error)   { return int64(len(r.topics)), nil }
func (r *fakeTaxonomyRepo) CountPatterns() (int64, error) { return int64(len(r.patterns)), nil }

// fakeInterviewRepo is an in-memory domain.InterviewRepository
type fakeInterviewRepo struct {
	interviews map[uuid.UUID]*domain.Interview
	created    int
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[uuid.UUID]*domain.Interview)}
}

func (r *fakeInterviewRepo) Create(interview *domain.Interview) error {
	interview.ID = uuid.New()
	r.interviews[interview.ID] = interview
	r.created++
	return nil
}

func (r *fakeInterviewRepo) FindByIDAndUser(id, userID uuid.UUID) (*domain.Interview, error) {
	interview, ok := r.interviews[id]
	if !ok || interview.UserID != userID {
		return nil, domain.ErrInterviewNotFound
	}
	return interview, nil
}

func (r *fakeInterviewRepo) Update(interview *domain.Interview) error {
	if _, ok := r.interviews[interview.ID]; !ok {
		return domain.ErrInterviewNotFound
	}
	r.interviews[interview.ID] = interview
	return nil
}

// fakeSubmissionRepo is an in-memory domain.SubmissionRepository
type fakeSubmissionRepo struct {
	submissions []domain.Submission
}

func (r *fakeSubmissionRepo) Create(submission *domain.Submission) error {
	submission.ID = uuid.New()
	r.submissions = append(r.submissions, *submission)
	return nil
}

func (r *fakeSubmissionRepo) FindByID(id uuid.UUID) (*domain.Submission, error) {
	for i := range r.submissions {
		if r.submissions[i].ID == id {
			return &r.submissions[i], nil
		}
	}
	return nil, domain.ErrSubmissionNotFound
}

func (r *fakeSubmissionRepo) FindByInterviewID(interviewID uuid.UUID) ([]domain.Submission, error) {
	var out []domain.Submission
	for _, s := range r.submissions {
		if s.InterviewID == interviewID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubmissionRepo) Update(submission *domain.Submission) error {
	for i := range r.submissions {
		if r.submissions[i].ID == submission.ID {
			r.submissions[i] = *submission
			return nil
		}
	}
	return domain.ErrSubmissionNotFound
}

// fakeEnqueuer captures review jobs instead of touching redis
type fakeEnqueuer struct {
	jobs []queue.ReviewJob
	err  error
}

func (e *fakeEnqueuer) Enqueue(ctx context.Context, job queue.ReviewJob) error {
	if e.err != nil {
		return e.err
	}
	e.jobs = append(e.jobs, job)
	return nil
}

// fakeLLM is an llm.Client whose behavior is set per test
type fakeLLM struct {
	jsonCalls int
	textCalls int
	jsonFn    func(out interface{}) error
	textFn    func(system, prompt string) (string, error)
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, prompt string, out interface{}) error {
	f.jsonCalls++
	if f.jsonFn == nil {
		return errors.New("no jsonFn configured")
	}
	return f.jsonFn(out)
}

func (f *fakeLLM) GenerateText(ctx context.Context, system, prompt string) (string, error) {
	f.textCalls++
	if f.textFn == nil {
		return "", errors.New("no textFn configured")
	}
	return f.textFn(system, prompt)
}

// fakeResumeRepo is an in-memory domain.ResumeRepository
type fakeResumeRepo struct {
	resumes      map[uuid.UUID]*domain.Resume
	versions     []domain.ResumeVersion
	coverLetters []domain.CoverLetter
	lastContent  datatypes.JSON
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: make(map[uuid.UUID]*domain.Resume)}
}

func (r *fakeResumeRepo) FindByIDAndUser(id, userID uuid.UUID) (*domain.Resume, error) {
	resume, ok := r.resumes[id]
	if !ok || resume.UserID != userID {
		return nil, domain.ErrResumeNotFound
	}
	return resume, nil
}

func (r *fakeResumeRepo) UpdateContent(id, userID uuid.UUID, content datatypes.JSON) error {
	resume, err := r.FindByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	resume.Content = content
	r.lastContent = content
	return nil
}

func (r *fakeResumeRepo) SaveVersion(version *domain.ResumeVersion) error {
	version.ID = uuid.New()
	r.versions = append(r.versions, *version)
	return nil
}

func (r *fakeResumeRepo) SaveCoverLetter(letter *domain.CoverLetter) error {
	letter.ID = uuid.New()
	r.coverLetters = append(r.coverLetters, *letter)
	return nil
}

func (r *fakeResumeRepo) Delete(id, userID uuid.UUID) error {
	if _, err := r.FindByIDAndUser(id, userID); err != nil {
		return err
	}
	delete(r.resumes, id)
	return nil
}
