package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/algoprep/backend/internal/domain"
)

func testProblem(title string, difficulty domain.Difficulty, topics []domain.Topic, patterns []domain.Pattern) domain.Problem {
	return domain.Problem{
		ID:         uuid.New(),
		Title:      title,
		Difficulty: difficulty,
		Topics:     topics,
		Patterns:   patterns,
	}
}

func newTestProblemService(repo *fakeProblemRepo) *ProblemService {
	return NewProblemService(repo, &fakeTaxonomyRepo{}, testTracer, testLogger)
}

func containsProblem(pool []domain.Problem, id uuid.UUID) bool {
	for _, p := range pool {
		if p.ID == id {
			return true
		}
	}
	return false
}

func TestMatchProblemsDifficultyAndTopic(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	trees := domain.Topic{ID: uuid.New(), Name: "Trees"}

	repo := &fakeProblemRepo{problems: []domain.Problem{
		testProblem("A", domain.DifficultyMedium, []domain.Topic{arrays}, nil),
		testProblem("B", domain.DifficultyMedium, []domain.Topic{arrays}, nil),
		testProblem("C", domain.DifficultyMedium, []domain.Topic{arrays}, nil),
		testProblem("D", domain.DifficultyHard, []domain.Topic{arrays}, nil),
		testProblem("E", domain.DifficultyMedium, []domain.Topic{trees}, nil),
	}}
	svc := newTestProblemService(repo)

	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyMedium, []string{arrays.ID.String()})
	if err != nil {
		t.Fatal(err)
	}

	if len(pool) != 3 {
		t.Fatalf("got %d problems, want the 3 medium array problems", len(pool))
	}
	for _, p := range pool {
		if p.Difficulty != domain.DifficultyMedium || !p.HasAnyTopic([]string{arrays.ID.String()}) {
			t.Errorf("problem %s does not match difficulty+topic", p.Title)
		}
	}
}

func TestMatchProblemsRelaxesToTopicOnly(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}

	// Only one problem matches difficulty+topic, so matching falls back to
	// topic regardless of difficulty
	repo := &fakeProblemRepo{problems: []domain.Problem{
		testProblem("A", domain.DifficultyMedium, []domain.Topic{arrays}, nil),
		testProblem("B", domain.DifficultyEasy, []domain.Topic{arrays}, nil),
		testProblem("C", domain.DifficultyHard, []domain.Topic{arrays}, nil),
		testProblem("D", domain.DifficultyHard, []domain.Topic{arrays}, nil),
	}}
	svc := newTestProblemService(repo)

	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyMedium, []string{arrays.ID.String()})
	if err != nil {
		t.Fatal(err)
	}

	if len(pool) != 4 {
		t.Errorf("got %d problems, want all 4 array problems", len(pool))
	}
}

func TestMatchProblemsWidensViaSharedPatterns(t *testing.T) {
	arrays := domain.Topic{ID: uuid.New(), Name: "Arrays"}
	strings := domain.Topic{ID: uuid.New(), Name: "Strings"}
	twoPointers := domain.Pattern{ID: uuid.New(), Name: "Two Pointers"}

	tagged := testProblem("A", domain.DifficultyMedium, []domain.Topic{arrays}, []domain.Pattern{twoPointers})
	related := testProblem("B", domain.DifficultyEasy, []domain.Topic{strings}, []domain.Pattern{twoPointers})
	unrelated := testProblem("C", domain.DifficultyEasy, []domain.Topic{strings}, nil)

	repo := &fakeProblemRepo{problems: []domain.Problem{tagged, related, unrelated}}
	svc := newTestProblemService(repo)

	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyMedium, []string{arrays.ID.String()})
	if err != nil {
		t.Fatal(err)
	}

	if !containsProblem(pool, tagged.ID) {
		t.Error("topic-matched problem missing from pool")
	}
	if !containsProblem(pool, related.ID) {
		t.Error("pattern-sharing problem should widen the pool")
	}
	if containsProblem(pool, unrelated.ID) {
		t.Error("problem sharing neither topic nor pattern must not appear")
	}
}

func TestMatchProblemsFallsBackToDifficulty(t *testing.T) {
	ghost := uuid.New() // topic no problem carries

	repo := &fakeProblemRepo{problems: []domain.Problem{
		testProblem("A", domain.DifficultyHard, nil, nil),
		testProblem("B", domain.DifficultyMedium, nil, nil),
	}}
	svc := newTestProblemService(repo)

	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyHard, []string{ghost.String()})
	if err != nil {
		t.Fatal(err)
	}

	if len(pool) != 1 || pool[0].Title != "A" {
		t.Errorf("got %v, want only the hard problem", pool)
	}
}

func TestMatchProblemsLastResortTakesFirstFive(t *testing.T) {
	ghost := uuid.New()

	var problems []domain.Problem
	for i := 0; i < 7; i++ {
		problems = append(problems, testProblem("P", domain.DifficultyEasy, nil, nil))
	}
	repo := &fakeProblemRepo{problems: problems}
	svc := newTestProblemService(repo)

	// No topic match and no problem of the requested difficulty
	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyHard, []string{ghost.String()})
	if err != nil {
		t.Fatal(err)
	}

	if len(pool) != 5 {
		t.Errorf("got %d problems, want the first 5 as last resort", len(pool))
	}
}

func TestMatchProblemsEmptyStore(t *testing.T) {
	svc := newTestProblemService(&fakeProblemRepo{})

	pool, err := svc.MatchProblems(context.Background(), domain.DifficultyMedium, []string{uuid.New().String()})
	if err != nil {
		t.Fatal(err)
	}
	if len(pool) != 0 {
		t.Errorf("got %d problems from an empty store", len(pool))
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	repo := &fakeProblemRepo{}
	svc := newTestProblemService(repo)

	var pool []domain.Problem
	for i := 0; i < 10; i++ {
		pool = append(pool, testProblem("P", domain.DifficultyEasy, nil, nil))
	}

	shuffled := svc.Shuffle(pool)
	if len(shuffled) != len(pool) {
		t.Fatalf("shuffle changed length: %d != %d", len(shuffled), len(pool))
	}
	for _, p := range pool {
		if !containsProblem(shuffled, p.ID) {
			t.Errorf("problem %s lost in shuffle", p.ID)
		}
	}
	// The input slice must be left alone
	if &pool[0] == &shuffled[0] {
		t.Error("shuffle must copy, not mutate the input")
	}
}

func TestRandomQuestionCountRange(t *testing.T) {
	svc := newTestProblemService(&fakeProblemRepo{})
	for i := 0; i < 100; i++ {
		n := svc.RandomQuestionCount()
		if n < 1 || n > 3 {
			t.Fatalf("got question count %d, want 1..3", n)
		}
	}
}

func TestCreateProblemValidation(t *testing.T) {
	svc := newTestProblemService(&fakeProblemRepo{})

	_, err := svc.CreateProblem(context.Background(), &domain.CreateProblemRequest{
		Title:       "Two Sum",
		Description: "desc",
		Difficulty:  "impossible",
	})
	if err != domain.ErrInvalidDifficulty {
		t.Errorf("got %v, want ErrInvalidDifficulty", err)
	}

	_, err = svc.CreateProblem(context.Background(), &domain.CreateProblemRequest{
		Title:       "Two Sum",
		Description: "desc",
		Difficulty:  domain.DifficultyEasy,
		TopicIDs:    []string{"not-a-uuid"},
	})
	if err != domain.ErrBadRequest {
		t.Errorf("got %v, want ErrBadRequest for malformed topic id", err)
	}
}

func TestCreateProblemSlugsTitle(t *testing.T) {
	repo := &fakeProblemRepo{}
	svc := newTestProblemService(repo)

	problem, err := svc.CreateProblem(context.Background(), &domain.CreateProblemRequest{
		Title:       "Valid Palindrome II",
		Description: "desc",
		Difficulty:  domain.DifficultyEasy,
	})
	if err != nil {
		t.Fatal(err)
	}
	if problem.Slug != "valid-palindrome-ii" {
		t.Errorf("got slug %q, want %q", problem.Slug, "valid-palindrome-ii")
	}
}
