// Package webhook delivers completed-response payloads to configured
// endpoints with HMAC signing and bounded exponential-backoff retries.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"survey-flow-service/internal/domain"
)

// SignatureHeader carries the hex HMAC-SHA256 of the request body.
const SignatureHeader = "X-Webhook-Signature"

// Doer is the pluggable HTTP transport; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the per-webhook delivery outcome. One webhook's failure
// never fails the others; callers aggregate Results as-is.
type Result struct {
	WebhookID  string `json:"webhookId,omitempty"`
	URL        string `json:"url"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode,omitempty"`
	Attempts   int    `json:"attempts"`
	Error      string `json:"error,omitempty"`
}

// Dispatcher sends webhook payloads. The sleep func is injected so
// tests can observe backoff without waiting.
type Dispatcher struct {
	client Doer
	sleep  func(time.Duration)
}

func NewDispatcher(client Doer) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Dispatcher{client: client, sleep: time.Sleep}
}

// NewDispatcherWithSleep is test-only for deterministic backoff.
func NewDispatcherWithSleep(client Doer, sleep func(time.Duration)) *Dispatcher {
	d := NewDispatcher(client)
	d.sleep = sleep
	return d
}

// Signature computes the hex HMAC-SHA256 of body under secret.
func Signature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Send delivers one payload to one target. The body is serialized and
// signed once; every retry sends the same bytes and signature. A 2xx
// returns success immediately; a non-429 4xx is terminal (retrying a
// client error would not help); anything else retries up to RetryCount
// more times, attempt k waiting RetryInterval * 2^(k-1) ms first.
func (d *Dispatcher) Send(ctx context.Context, cfg domain.WebhookConfig, payload domain.WebhookPayload) Result {
	result := Result{WebhookID: cfg.ID, URL: cfg.URL}

	body, err := json.Marshal(payload)
	if err != nil {
		result.Error = fmt.Sprintf("marshal payload: %v", err)
		return result
	}

	method := cfg.Method
	if method == "" {
		method = http.MethodPost
	}

	signature := ""
	if cfg.Secret != "" {
		signature = Signature(body, cfg.Secret)
	}

	for attempt := 0; attempt <= cfg.RetryCount; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(cfg.RetryInterval) * time.Millisecond << (attempt - 1)
			d.sleep(backoff)
		}
		result.Attempts = attempt + 1

		req, err := http.NewRequestWithContext(ctx, method, cfg.URL, bytes.NewReader(body))
		if err != nil {
			result.Error = fmt.Sprintf("build request: %v", err)
			return result
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range cfg.Headers {
			req.Header.Set(k, v)
		}
		if signature != "" {
			req.Header.Set(SignatureHeader, signature)
		}

		resp, err := d.client.Do(req)
		if err != nil {
			result.Error = err.Error()
			continue
		}
		resp.Body.Close()

		result.StatusCode = resp.StatusCode
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			result.Success = true
			result.Error = ""
			return result
		}

		result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return result
		}
	}

	return result
}

// DispatchAll fans a payload out to every enabled config concurrently
// and returns results in config order. Disabled configs are skipped
// entirely (no result entry).
func (d *Dispatcher) DispatchAll(ctx context.Context, configs []domain.WebhookConfig, payload domain.WebhookPayload) []Result {
	enabled := make([]domain.WebhookConfig, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Enabled {
			enabled = append(enabled, cfg)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	results := make([]Result, len(enabled))
	var wg sync.WaitGroup
	for i, cfg := range enabled {
		wg.Add(1)
		go func(i int, cfg domain.WebhookConfig) {
			defer wg.Done()
			results[i] = d.Send(ctx, cfg, payload)
			if !results[i].Success {
				log.Printf("webhook %s delivery failed after %d attempts: %s", cfg.URL, results[i].Attempts, results[i].Error)
			}
		}(i, cfg)
	}
	wg.Wait()
	return results
}
