package http

import (
	"errors"
	"net/http"

	"interest-quiz-service/internal/domain"
)

type errorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining,omitempty"`
}

// toErrorPayload converts a use-case error into the message shown to the test taker.
func toErrorPayload(err error) errorPayload {
	var incomplete *domain.IncompleteError
	switch {
	case errors.As(err, &incomplete):
		return errorPayload{Code: "incomplete", Message: err.Error(), Remaining: incomplete.Remaining}
	case errors.Is(err, domain.ErrMalformedSnapshot):
		return errorPayload{Code: "malformed_snapshot", Message: err.Error()}
	case errors.Is(err, domain.ErrQuestionSkipped):
		return errorPayload{Code: "question_skipped", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidOption):
		return errorPayload{Code: "invalid_option", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidQuestionID):
		return errorPayload{Code: "invalid_question", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidPage):
		return errorPayload{Code: "invalid_page", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionCompleted):
		return errorPayload{Code: "session_completed", Message: err.Error()}
	case errors.Is(err, domain.ErrNotCompleted):
		return errorPayload{Code: "not_completed", Message: err.Error()}
	case errors.Is(err, domain.ErrSessionNotFound):
		return errorPayload{Code: "session_not_found", Message: err.Error()}
	case errors.Is(err, domain.ErrBankNotFound):
		return errorPayload{Code: "bank_not_found", Message: err.Error()}
	default:
		return errorPayload{Code: "internal", Message: err.Error()}
	}
}

func statusFor(code string) int {
	switch code {
	case "malformed_snapshot", "invalid_page", "invalid_question", "invalid_option", "question_skipped":
		return http.StatusBadRequest
	case "bank_not_found", "session_not_found":
		return http.StatusNotFound
	case "incomplete", "session_completed", "not_completed":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
