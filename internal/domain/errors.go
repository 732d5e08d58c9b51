package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrNoQuestions is returned when a session would be built from an empty question list.
	ErrNoQuestions = errors.New("no questions available for this quiz")
	// ErrQuestionFetch wraps every failure to load questions from the provider.
	ErrQuestionFetch = errors.New("failed to fetch quiz questions")
	// ErrInvalidCategory indicates a category id that is not in the category list.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrInvalidDifficulty indicates a difficulty outside easy, medium, hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	// ErrScoreRequired is returned when a score notification carries no score.
	ErrScoreRequired = errors.New("score is required")
)
