package domain

import "errors"

// Domain errors - business logic errors that the handler layer translates
// to HTTP status codes

var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Problem errors
	ErrProblemNotFound   = errors.New("problem not found")
	ErrNoProblemsInStore = errors.New("no problems found in the database")
	ErrInvalidDifficulty = errors.New("invalid difficulty level")

	// Interview errors
	ErrInterviewNotFound     = errors.New("interview not found")
	ErrNoTopicsSelected      = errors.New("please select at least one topic")
	ErrInterviewNotCompleted = errors.New("interview feedback not available yet")
	ErrInterviewCompleted    = errors.New("interview is already completed")
	ErrNoSubmissions         = errors.New("no submissions found for this interview")

	// Submission / review errors
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrReviewUpstream     = errors.New("review service unavailable")

	// Resume errors
	ErrResumeNotFound = errors.New("resume not found")

	// General errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
)
