package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySubmission is returned when a submission contains no answers.
	ErrEmptySubmission = errors.New("submission contains no answers")
	// ErrDuplicateAnswer indicates the same question was answered twice.
	ErrDuplicateAnswer = errors.New("duplicate answer")
	// ErrUnknownQuestion indicates a submitted question ID is not in the catalog.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrUnknownOption indicates a submitted option does not belong to its question.
	ErrUnknownOption = errors.New("unknown option")
	// ErrAlreadyCompleted is returned when a user who already holds a result submits again.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	// ErrResultNotFound indicates no result exists for the given token.
	ErrResultNotFound = errors.New("result not found")
	// ErrNotOwner is returned when a user fetches a result they do not own.
	ErrNotOwner = errors.New("result belongs to another user")
	// ErrCatalogUnavailable indicates the question catalog is empty or could not be loaded.
	ErrCatalogUnavailable = errors.New("question catalog unavailable")
	// ErrStoreUnavailable indicates the result store or attempt gate failed.
	ErrStoreUnavailable = errors.New("result store unavailable")
)

// DuplicateAnswerError wraps ErrDuplicateAnswer with the offending question ID.
func DuplicateAnswerError(questionID string) error {
	return fmt.Errorf("%w: question %q", ErrDuplicateAnswer, questionID)
}

// UnknownQuestionError wraps ErrUnknownQuestion with the offending question ID.
func UnknownQuestionError(questionID string) error {
	return fmt.Errorf("%w: question %q", ErrUnknownQuestion, questionID)
}

// UnknownOptionError wraps ErrUnknownOption with both offending IDs.
func UnknownOptionError(questionID, optionID string) error {
	return fmt.Errorf("%w: option %q on question %q", ErrUnknownOption, optionID, questionID)
}
