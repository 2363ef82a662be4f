package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"survey-flow-service/internal/app"
	"survey-flow-service/internal/domain"
)

// RESTHandler exposes the submit and admin endpoints.
type RESTHandler struct {
	surveys   *app.SurveyService
	responses *app.ResponseService
	webhooks  *app.WebhookService
}

func NewRESTHandler(surveys *app.SurveyService, responses *app.ResponseService, webhooks *app.WebhookService) *RESTHandler {
	return &RESTHandler{surveys: surveys, responses: responses, webhooks: webhooks}
}

// Register mounts all routes on the mux.
func (h *RESTHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /surveys/{id}", h.getSurvey)
	mux.HandleFunc("POST /surveys/{id}/publish", h.togglePublish)
	mux.HandleFunc("POST /surveys/{id}/responses", h.submitResponse)
	mux.HandleFunc("GET /surveys/{id}/responses", h.listResponses)
	mux.HandleFunc("DELETE /surveys/{id}/responses", h.resetResponses)
	mux.HandleFunc("GET /surveys/{id}/duplicate-check", h.duplicateCheck)
	mux.HandleFunc("POST /surveys/{id}/webhooks/{webhookId}/test", h.testWebhook)
}

type submitRequest struct {
	Data          domain.ResponseData `json:"data"`
	RespondentUID string              `json:"respondentUid"`
	Params        map[string]string   `json:"params"`
	Duration      int                 `json:"duration"`
	PageHistory   []string            `json:"pageHistory"`
}

func (h *RESTHandler) submitResponse(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Data == nil {
		writeError(w, http.StatusBadRequest, "data is required")
		return
	}

	result, err := h.responses.Submit(r.Context(), r.PathValue("id"), app.Submission{
		Data:          req.Data,
		RespondentUID: req.RespondentUID,
		Params:        req.Params,
		Duration:      req.Duration,
		PageHistory:   req.PageHistory,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *RESTHandler) getSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.surveys.GetSurvey(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

func (h *RESTHandler) togglePublish(w http.ResponseWriter, r *http.Request) {
	status, err := h.surveys.TogglePublish(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

type listResponsesResult struct {
	Responses []domain.Response `json:"responses"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}

func (h *RESTHandler) listResponses(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 50)

	responses, total, err := h.surveys.ListResponses(r.Context(), r.PathValue("id"), page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if responses == nil {
		responses = []domain.Response{}
	}
	writeJSON(w, http.StatusOK, listResponsesResult{
		Responses: responses,
		Total:     total,
		Page:      page,
		Limit:     limit,
	})
}

func (h *RESTHandler) resetResponses(w http.ResponseWriter, r *http.Request) {
	if err := h.surveys.ResetResponses(r.Context(), r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *RESTHandler) duplicateCheck(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		writeError(w, http.StatusBadRequest, "uid is required")
		return
	}
	duplicate, err := h.surveys.CheckDuplicate(r.Context(), r.PathValue("id"), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"duplicate": duplicate})
}

func (h *RESTHandler) testWebhook(w http.ResponseWriter, r *http.Request) {
	result, err := h.webhooks.TestSend(r.Context(), r.PathValue("id"), r.PathValue("webhookId"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSurveyNotFound), errors.Is(err, domain.ErrWebhookNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrSurveyNotPublished):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrDuplicateResponse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMissingParams):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
