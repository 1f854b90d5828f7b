package quiz

import "errors"

var (
	// ErrInvalidTransition is returned for an operation the current state does not allow.
	ErrInvalidTransition = errors.New("quiz: invalid transition")
	// ErrUnknownQuestion is returned when a question id is not in the loaded set.
	ErrUnknownQuestion = errors.New("quiz: unknown question id")
	// ErrInvalidQuestionSet is returned when a question set fails validation.
	ErrInvalidQuestionSet = errors.New("quiz: invalid question set")
)
