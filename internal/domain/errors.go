package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrEmptyBank is returned for a bank without questions.
	ErrEmptyBank = errors.New("question bank is empty")
	// ErrUnknownField is returned for a domain tag outside the five fixed domains.
	ErrUnknownField = errors.New("unknown interest field")
	// ErrInvalidQuestionID indicates a question ID outside the bank.
	ErrInvalidQuestionID = errors.New("invalid question id")
	// ErrInvalidOption indicates answer text that matches none of the question's options.
	ErrInvalidOption = errors.New("invalid option")
	// ErrQuestionSkipped is returned when answering a skipped question; unskip it first.
	ErrQuestionSkipped = fmt.Errorf("%w: question is skipped", ErrInvalidOption)
	// ErrInvalidPage indicates a page index outside [0, totalPages).
	ErrInvalidPage = errors.New("invalid page")
	// ErrMalformedSnapshot is returned when a progress file fails structural validation.
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	// ErrSessionCompleted is returned for mutations while the report is shown.
	ErrSessionCompleted = errors.New("session is completed")
	// ErrNotCompleted is returned when a report is requested before submission.
	ErrNotCompleted = errors.New("session is not completed")
)

// IncompleteError rejects a submission that still has open questions.
type IncompleteError struct {
	Remaining int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d questions remaining", e.Remaining)
}
