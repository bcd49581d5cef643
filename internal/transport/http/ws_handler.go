package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"interest-quiz-service/internal/app"
	"interest-quiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type questionPayload struct {
	QuestionID int    `json:"questionId"`
	Option     string `json:"option"`
}

type pagePayload struct {
	Page int `json:"page"`
}

type loadPayload struct {
	Snapshot json.RawMessage `json:"snapshot"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// errBadPayload is reported when an inbound payload does not decode.
var errBadPayload = errors.New("invalid payload")

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// Each connection drives one session; the session is dropped when the socket closes.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	view, err := h.service.Start(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	defer h.service.Close(context.Background(), sessionID)

	activeSessions.Inc()
	defer activeSessions.Dec()

	if err := conn.WriteJSON(outboundMessage[any]{Type: "state", Payload: view}); err != nil {
		log.Printf("ws write error: %v", err)
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg, err := h.dispatch(ctx, sessionID, inbound)
		observeAction(inbound.Type, err)
		if err != nil {
			msg = outboundMessage[any]{Type: "error", Payload: toErrorPayload(err)}
		}
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}

func (h *WSHandler) dispatch(ctx context.Context, sessionID string, inbound inboundMessage) (outboundMessage[any], error) {
	state := func(view domain.SessionView, err error) (outboundMessage[any], error) {
		return outboundMessage[any]{Type: "state", Payload: view}, err
	}

	switch inbound.Type {
	case "answer":
		var payload questionPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{}, err
		}
		return state(h.service.Answer(ctx, sessionID, payload.QuestionID, payload.Option))
	case "skip", "unskip":
		var payload questionPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{}, err
		}
		if inbound.Type == "skip" {
			return state(h.service.Skip(ctx, sessionID, payload.QuestionID))
		}
		return state(h.service.Unskip(ctx, sessionID, payload.QuestionID))
	case "page":
		var payload pagePayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{}, err
		}
		return state(h.service.GoToPage(ctx, sessionID, payload.Page))
	case "submit":
		report, err := h.service.Submit(ctx, sessionID)
		if err != nil {
			quizSubmissions.WithLabelValues("incomplete").Inc()
			return outboundMessage[any]{}, err
		}
		quizSubmissions.WithLabelValues("completed").Inc()
		return outboundMessage[any]{Type: "report", Payload: report}, nil
	case "edit":
		return state(h.service.Edit(ctx, sessionID))
	case "retake":
		return state(h.service.Retake(ctx, sessionID))
	case "save":
		snap, err := h.service.Save(ctx, sessionID)
		if err != nil {
			return outboundMessage[any]{}, err
		}
		return outboundMessage[any]{Type: "snapshot", Payload: snap}, nil
	case "load":
		var payload loadPayload
		if err := decodePayload(inbound.Payload, &payload); err != nil {
			return outboundMessage[any]{}, err
		}
		return state(h.service.Load(ctx, sessionID, payload.Snapshot))
	case "result":
		result, err := h.service.Result(ctx, sessionID)
		if err != nil {
			return outboundMessage[any]{}, err
		}
		return outboundMessage[any]{Type: "result", Payload: result}, nil
	default:
		return outboundMessage[any]{}, errors.New("unsupported message type")
	}
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}
