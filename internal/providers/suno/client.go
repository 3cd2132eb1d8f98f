// Package suno calls the Suno music generation API. Generation is
// asynchronous: Submit only obtains the provider's acknowledgment and task
// id, the audio arrives later through the callback webhook.
package suno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scottrhay/AIAMusic/internal/infra"
	"github.com/scottrhay/AIAMusic/internal/providers"
)

// DefaultStyle is used when a request references no style prompt.
const DefaultStyle = "pop"

// Options configures the Suno client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	CallbackURL    string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Suno generation endpoint.
type Client struct {
	apiKey      string
	baseURL     string
	model       string
	callbackURL string
	httpClient  *http.Client
	logger      *infra.Logger
}

// SubmitRequest captures the song fields the provider call depends on.
type SubmitRequest struct {
	Title       string
	Lyrics      string
	Prompt      string
	StylePrompt string
	VocalGender string
}

// CustomMode reports whether the request is fully specified. Non-blank
// lyrics select custom mode (lyrics, title and style pass verbatim);
// otherwise the provider synthesizes everything from a free-form prompt.
func (r SubmitRequest) CustomMode() bool {
	return strings.TrimSpace(r.Lyrics) != ""
}

type generatePayload struct {
	CustomMode   bool   `json:"customMode"`
	Instrumental bool   `json:"instrumental"`
	Model        string `json:"model"`
	CallBackURL  string `json:"callBackUrl"`
	Prompt       string `json:"prompt"`
	Title        string `json:"title,omitempty"`
	Style        string `json:"style"`
	StyleWeight  int    `json:"styleWeight"`
	VocalGender  string `json:"vocalGender,omitempty"`
}

// vocalGenderVocab maps internal selectors to the provider's single-letter
// vocabulary. Unknown values pass through unchanged.
var vocalGenderVocab = map[string]string{
	"male":   "m",
	"female": "f",
}

// taskIDKeys lists the known spellings of the correlation id, tried in
// order: nested result object first, then top level, then the first element
// when the result is a list.
var taskIDKeys = []string{"taskId", "task_id", "id", "ID"}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			// Submission is an acknowledgment only; generation happens
			// out of band, so the bound stays short.
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.sunoapi.org/api/v1/generate"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "V5"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:      strings.TrimSpace(opts.APIKey),
		baseURL:     baseURL,
		model:       model,
		callbackURL: strings.TrimSpace(opts.CallbackURL),
		httpClient:  httpClient,
		logger:      logger,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Submit sends one generation request and returns the provider task id.
// Exactly one provider call per invocation; retry policy belongs to the
// caller. The error, if any, is one of the providers package sentinels
// wrapped with detail.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if !c.HasCredentials() {
		return "", fmt.Errorf("%w: SUNO_API_KEY is not set, contact the administrator", providers.ErrUnconfigured)
	}

	payload := c.buildPayload(req)
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("suno: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("suno: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", providers.ErrBadResponse, err)
	}
	c.logger.Info().Int("status", resp.StatusCode).Msg("suno: submission response")

	if err := classifyStatus(resp.StatusCode, raw); err != nil {
		return "", err
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", providers.ErrBadResponse, err)
	}
	if err := bodyError(decoded); err != nil {
		return "", err
	}

	taskID := extractTaskID(decoded)
	if taskID == "" {
		c.logger.Warn().RawJSON("response", raw).Msg("suno: no task id in response")
		return "", fmt.Errorf("%w: no task id returned, the request may have failed", providers.ErrBadResponse)
	}
	c.logger.Info().Str("task_id", taskID).Msg("suno: submission accepted")
	return taskID, nil
}

func (c *Client) buildPayload(req SubmitRequest) generatePayload {
	payload := generatePayload{
		CustomMode:   req.CustomMode(),
		Instrumental: false,
		Model:        c.model,
		CallBackURL:  c.callbackURL,
		StyleWeight:  1,
	}
	if payload.CustomMode {
		payload.Prompt = req.Lyrics
		payload.Title = req.Title
		if payload.Title == "" {
			payload.Title = "Untitled Song"
		}
	} else {
		payload.Prompt = req.Prompt
		if payload.Prompt == "" {
			payload.Prompt = req.Title
		}
		if payload.Prompt == "" {
			payload.Prompt = "Create a song"
		}
	}
	if gender := strings.TrimSpace(req.VocalGender); gender != "" {
		if mapped, ok := vocalGenderVocab[gender]; ok {
			payload.VocalGender = mapped
		} else {
			payload.VocalGender = gender
		}
	}
	payload.Style = strings.TrimSpace(req.StylePrompt)
	if payload.Style == "" {
		payload.Style = DefaultStyle
	}
	return payload
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: the service may be slow, try again", providers.ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: the service may be slow, try again", providers.ErrTimeout)
	}
	return fmt.Errorf("%w: %v", providers.ErrUnavailable, err)
}

func classifyStatus(status int, raw []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: the API key may be invalid or expired", providers.ErrAuthFailed)
	case status == http.StatusPaymentRequired || status == http.StatusForbidden:
		detail := providerMessage(raw)
		if detail != "" {
			return fmt.Errorf("%w: %s", providers.ErrQuotaExceeded, detail)
		}
		return fmt.Errorf("%w: you may be out of credits or your subscription has expired", providers.ErrQuotaExceeded)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: wait a few minutes and try again", providers.ErrRateLimited)
	case status >= 500:
		return fmt.Errorf("%w: the service may be down, try again later", providers.ErrUnavailable)
	case status >= 300:
		return fmt.Errorf("%w: unexpected status %d", providers.ErrRejected, status)
	}
	return nil
}

// bodyError surfaces errors that the provider encodes inside an HTTP
// success response: a numeric code field of 400 or above, or an explicit
// error/status-error field.
func bodyError(decoded map[string]any) error {
	if code, ok := numberField(decoded, "code"); ok && code >= 400 {
		return fmt.Errorf("%w: %s", providers.ErrRejected, messageField(decoded))
	}
	if v, ok := decoded["error"]; ok && truthyValue(v) {
		return fmt.Errorf("%w: %s", providers.ErrRejected, messageField(decoded))
	}
	if status, _ := decoded["status"].(string); status == "error" {
		return fmt.Errorf("%w: %s", providers.ErrRejected, messageField(decoded))
	}
	return nil
}

func extractTaskID(decoded map[string]any) string {
	data := decoded["data"]
	if nested, ok := data.(map[string]any); ok {
		if id := stringField(nested, taskIDKeys...); id != "" {
			return id
		}
	}
	if id := stringField(decoded, taskIDKeys...); id != "" {
		return id
	}
	if list, ok := data.([]any); ok && len(list) > 0 {
		if first, ok := list[0].(map[string]any); ok {
			return stringField(first, taskIDKeys...)
		}
	}
	return ""
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// truthyValue filters out placeholder error fields. An explicit null, empty
// string, false, zero, or empty collection is not an error report.
func truthyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case bool:
		return t
	case float64:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	}
	return true
}

// providerMessage pulls a human-readable detail out of an undecoded error
// body. Empty when the body is not JSON or carries no message.
func providerMessage(raw []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ""
	}
	return stringField(decoded, "msg", "message", "error")
}

func messageField(m map[string]any) string {
	for _, key := range []string{"msg", "message", "error"} {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return "unknown error from Suno API"
}
