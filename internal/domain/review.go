package domain

// ApproachRating grades the overall algorithmic approach of a submission
type ApproachRating string

const (
	ApproachGood ApproachRating = "good"
	ApproachFair ApproachRating = "fair"
	ApproachPoor ApproachRating = "poor"
)

// ReviewProblem is the problem descriptor sent with a review request
type ReviewProblem struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Constraints []string  `json:"constraints,omitempty"`
	Examples    []Example `json:"examples,omitempty"`

	ExpectedComplexity *struct {
		Time  string `json:"time,omitempty"`
		Space string `json:"space,omitempty"`
	} `json:"expectedComplexity,omitempty"`
}

// ReviewSubmission is the code portion of a review request
type ReviewSubmission struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language" binding:"required"`
}

// ReviewRequest asks for a structured review of a (problem, code) pair
type ReviewRequest struct {
	Problem    ReviewProblem    `json:"problem" binding:"required"`
	Submission ReviewSubmission `json:"submission" binding:"required"`
}

// QuickReview is the fast first pass of the two-step review flow
type QuickReview struct {
	Score           int    `json:"score"`
	InitialFeedback string `json:"initialFeedback"`
	TimeComplexity  string `json:"timeComplexity"`
	SpaceComplexity string `json:"spaceComplexity"`
}

// ReviewApproach grades the chosen algorithm
type ReviewApproach struct {
	Rating   ApproachRating `json:"rating"`
	Feedback string         `json:"feedback"`
	Details  string         `json:"details"`
}

// ReviewPerformance covers the complexity analysis of the full review
type ReviewPerformance struct {
	Time     string `json:"time"`
	Space    string `json:"space"`
	Feedback string `json:"feedback"`
	Analysis string `json:"analysis"`
}

// ReviewBestPractices lists code-quality observations
type ReviewBestPractices struct {
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
	Details string   `json:"details"`
}

// ReviewMetadata stamps where and when a review was produced
type ReviewMetadata struct {
	ProblemID     string `json:"problemId"`
	Timestamp     string `json:"timestamp"`
	ExecutionTime string `json:"executionTime"`
}

// Review is the merged quick+full review for a (problem, code) pair. It is
// ephemeral: held only in the in-process review cache, never persisted.
type Review struct {
	Score           int                 `json:"score"`
	Approach        ReviewApproach      `json:"approach"`
	Performance     ReviewPerformance   `json:"performance"`
	BestPractices   ReviewBestPractices `json:"bestPractices"`
	Improvements    []string            `json:"improvements"`
	OverallFeedback string              `json:"overallFeedback"`
	Metadata        ReviewMetadata      `json:"metadata"`
	Submission      ReviewSubmission    `json:"submission"`
	QuickReview     QuickReview         `json:"quickReview"`
}
