package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"survey-flow-service/internal/domain"
)

const defaultComputedTimeout = 5000 * time.Millisecond

// ComputedRunner executes computed variables: a single blocking
// request-with-timeout per triggered variable per page-leave event.
// A timeout, non-2xx or decode error falls back to the configured
// default values instead of propagating, so a flaky endpoint never
// blocks page navigation.
type ComputedRunner struct {
	client *http.Client
}

func NewComputedRunner(client *http.Client) *ComputedRunner {
	if client == nil {
		client = &http.Client{}
	}
	return &ComputedRunner{client: client}
}

// OnPageLeave runs every enabled variable triggered by leaving pageID
// and returns the produced answers keyed _cv.<variableId>.
func (r *ComputedRunner) OnPageLeave(ctx context.Context, survey domain.Survey, pageID string, answers domain.ResponseData) domain.ResponseData {
	out := domain.ResponseData{}
	for _, cv := range survey.ComputedVariables {
		if !cv.Enabled || cv.Trigger.Type != domain.TriggerPageLeave || cv.Trigger.PageID != pageID {
			continue
		}
		for variableID, value := range r.invoke(ctx, cv, answers) {
			out[domain.ComputedKeyPrefix+variableID] = domain.StringValue(value)
		}
	}
	return out
}

func (r *ComputedRunner) invoke(ctx context.Context, cv domain.ComputedVariable, answers domain.ResponseData) map[string]string {
	body := make(map[string]json.RawMessage, len(cv.InputMapping))
	for _, input := range cv.InputMapping {
		raw, err := json.Marshal(answers.Get(input.QuestionID))
		if err != nil {
			raw = []byte("null")
		}
		body[input.ParamName] = raw
	}
	encoded, err := json.Marshal(body)
	if err != nil {
		return fallback(cv)
	}

	timeout := defaultComputedTimeout
	if cv.TimeoutMS > 0 {
		timeout = time.Duration(cv.TimeoutMS) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cv.Endpoint, bytes.NewReader(encoded))
	if err != nil {
		log.Printf("computed variable %s: build request: %v", cv.Name, err)
		return fallback(cv)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("computed variable %s: call failed: %v", cv.Name, err)
		return fallback(cv)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("computed variable %s: HTTP %d", cv.Name, resp.StatusCode)
		return fallback(cv)
	}

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&decoded); err != nil {
		log.Printf("computed variable %s: decode response: %v", cv.Name, err)
		return fallback(cv)
	}

	result := make(map[string]string, len(cv.OutputMapping))
	for _, output := range cv.OutputMapping {
		result[output.VariableID] = stringifyRaw(decoded[output.ResponseKey])
	}
	return result
}

func fallback(cv domain.ComputedVariable) map[string]string {
	out := make(map[string]string, len(cv.FallbackValues))
	for k, v := range cv.FallbackValues {
		out[k] = v
	}
	return out
}

// stringifyRaw flattens a JSON value to the string form conditions
// compare against. Missing keys become empty strings.
func stringifyRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return fmt.Sprintf("%v", n)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return fmt.Sprintf("%v", b)
	}
	return string(raw)
}
