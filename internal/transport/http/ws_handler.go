package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"survey-flow-service/internal/app"
	"survey-flow-service/internal/domain"

	"github.com/gorilla/websocket"
)

// WSHandler runs a respondent session over one websocket connection:
// the server sends the current page, the client answers it, and so on
// until the session reaches a terminal state.
type WSHandler struct {
	sessions  *app.SessionService
	responses *app.ResponseService
	upgrader  websocket.Upgrader
}

func NewWSHandler(sessions *app.SessionService, responses *app.ResponseService) *WSHandler {
	return &WSHandler{
		sessions:  sessions,
		responses: responses,
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

type answersPayload struct {
	Answers domain.ResponseData `json:"answers"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startedPayload struct {
	SessionID string           `json:"sessionId"`
	Page      app.RenderedPage `json:"page"`
}

type fieldError struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

type validationPayload struct {
	Errors []fieldError `json:"errors"`
}

type finishedPayload struct {
	Status      string `json:"status"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// ServeWS upgrades the request and drives the page loop until the
// respondent finishes, disconnects, or is disqualified.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	surveyID := r.URL.Query().Get("surveyId")
	if surveyID == "" {
		http.Error(w, "missing surveyId", http.StatusBadRequest)
		return
	}
	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if key == "surveyId" || len(values) == 0 {
			continue
		}
		params[key] = values[0]
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session, err := h.sessions.Start(r.Context(), surveyID, params)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: startErrorMessage(err)}})
		return
	}
	defer h.sessions.Close(session.ID)

	// Single writer: all frames go through send so nothing else ever
	// writes to the connection concurrently.
	send := make(chan any, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	page, err := session.CurrentPage()
	if err != nil {
		send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		close(send)
		<-writerDone
		return
	}
	send <- outboundMessage[startedPayload]{Type: "started", Payload: startedPayload{SessionID: session.ID, Page: page}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answers":
			var payload answersPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid answers payload"}}
				continue
			}
			if finished := h.handleAnswers(r, session, payload.Answers, send); finished {
				close(send)
				<-writerDone
				return
			}
		default:
			send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(send)
	<-writerDone
}

// handleAnswers advances the session one page and reports the outcome.
// Returns true when the session reached a terminal state.
func (h *WSHandler) handleAnswers(r *http.Request, session *app.Session, answers domain.ResponseData, send chan<- any) bool {
	step, err := h.sessions.Advance(r.Context(), session.ID, answers)
	if err != nil {
		send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
		return false
	}

	if len(step.Errors) > 0 {
		out := make([]fieldError, len(step.Errors))
		for i, ve := range step.Errors {
			out[i] = fieldError{QuestionID: ve.QuestionID, Message: ve.Message}
		}
		send <- outboundMessage[validationPayload]{Type: "validationErrors", Payload: validationPayload{Errors: out}}
		return false
	}

	switch step.Status {
	case app.SessionCompleted:
		result, err := h.responses.Submit(r.Context(), session.SurveyID, submissionFromSession(session))
		if err != nil {
			send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			return true
		}
		status := "completed"
		if result.Disqualified {
			status = "disqualified"
		} else if result.Closed {
			status = "quota_full"
		}
		send <- outboundMessage[finishedPayload]{Type: "finished", Payload: finishedPayload{Status: status, RedirectURL: result.RedirectURL}}
		return true
	case app.SessionDisqualified:
		result, err := h.responses.SubmitDisqualified(r.Context(), session.SurveyID, submissionFromSession(session))
		if err != nil {
			send <- outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			return true
		}
		send <- outboundMessage[finishedPayload]{Type: "finished", Payload: finishedPayload{Status: "disqualified", RedirectURL: result.RedirectURL}}
		return true
	default:
		send <- outboundMessage[app.RenderedPage]{Type: "page", Payload: *step.Page}
		return false
	}
}

func submissionFromSession(session *app.Session) app.Submission {
	return app.Submission{
		Data:          session.Answers(),
		RespondentUID: session.RespondentUID,
		Params:        session.Params,
		Duration:      session.Duration(),
		PageHistory:   session.PageHistory(),
	}
}

func startErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSurveyNotFound):
		return "survey not found"
	case errors.Is(err, domain.ErrSurveyNotPublished):
		return "survey is not accepting responses"
	case errors.Is(err, domain.ErrMissingParams):
		return "missing required respondent parameters"
	case errors.Is(err, domain.ErrDuplicateResponse):
		return "a response has already been recorded"
	default:
		return err.Error()
	}
}
