package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter for websocket actions
	quizActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_actions_total",
			Help: "Total number of quiz actions received over websocket",
		},
		[]string{"type", "status"}, // status: ok/error
	)

	// Counter for submissions
	quizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of test submissions",
		},
		[]string{"outcome"}, // outcome: completed/incomplete
	)

	// Gauge for connected test takers
	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quiz_active_sessions_current",
			Help: "Current number of connected quiz sessions",
		},
	)
)

// knownActions bounds the type label; anything else is counted as "unknown".
var knownActions = map[string]struct{}{
	"answer": {}, "skip": {}, "unskip": {}, "page": {}, "submit": {},
	"edit": {}, "retake": {}, "save": {}, "load": {}, "result": {},
	"score": {},
}

func observeAction(typ string, err error) {
	if _, ok := knownActions[typ]; !ok {
		typ = "unknown"
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	quizActions.WithLabelValues(typ, status).Inc()
}
