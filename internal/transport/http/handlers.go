package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"interest-quiz-service/internal/app"
)

// maxSnapshotBytes bounds POST /score bodies.
const maxSnapshotBytes = 1 << 20

type QuestionsHandler struct {
	service *app.QuizService
}

func NewQuestionsHandler(service *app.QuizService) *QuestionsHandler {
	return &QuestionsHandler{service: service}
}

// ServeQuestions returns one page of the bank. The page defaults to 0.
func (h *QuestionsHandler) ServeQuestions(w http.ResponseWriter, r *http.Request) {
	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorPayload{Code: "invalid_page", Message: "page must be an integer"})
			return
		}
		page = n
	}
	out, err := h.service.Questions(r.Context(), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ServeScore scores a snapshot posted as the request body and returns the
// report along with the exported result.
func (h *QuestionsHandler) ServeScore(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSnapshotBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorPayload{Code: "too_large", Message: err.Error()})
		return
	}
	report, err := h.service.ScoreSnapshot(r.Context(), raw)
	observeAction("score", err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report": report,
		"result": app.Export(report),
	})
}

func writeError(w http.ResponseWriter, err error) {
	payload := toErrorPayload(err)
	writeJSON(w, statusFor(payload.Code), payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
