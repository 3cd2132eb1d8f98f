package suno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/scottrhay/AIAMusic/internal/providers"
)

func newTestClient(transport http.RoundTripper) *Client {
	return NewClient(Options{
		APIKey:      "test-key",
		BaseURL:     "https://suno.test/api/v1/generate",
		CallbackURL: "https://app.test/api/v1/webhooks/suno-callback",
		HTTPClient:  &http.Client{Transport: transport},
	})
}

func TestSubmitPromptDrivenMode(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse(200, map[string]any{
		"data": map[string]any{"taskId": "task-123"},
	})
	client := newTestClient(transport)

	taskID, err := client.Submit(context.Background(), SubmitRequest{
		Prompt: "lofi beat",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if taskID != "task-123" {
		t.Fatalf("task id = %q, want task-123", taskID)
	}

	payload := transport.decodeBody(t)
	if payload["customMode"] != false {
		t.Fatalf("customMode = %v, want false", payload["customMode"])
	}
	if payload["prompt"] != "lofi beat" {
		t.Fatalf("prompt = %v, want lofi beat", payload["prompt"])
	}
	if _, ok := payload["title"]; ok {
		t.Fatalf("title should be omitted in prompt-driven mode")
	}
	if payload["style"] != DefaultStyle {
		t.Fatalf("style = %v, want %s", payload["style"], DefaultStyle)
	}
}

func TestSubmitFullySpecifiedMode(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse(200, map[string]any{"taskId": "task-9"})
	client := newTestClient(transport)

	_, err := client.Submit(context.Background(), SubmitRequest{
		Title:       "Song A",
		Lyrics:      "La la la",
		Prompt:      "ignored in custom mode",
		StylePrompt: "dark synthwave",
		VocalGender: "female",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	payload := transport.decodeBody(t)
	if payload["customMode"] != true {
		t.Fatalf("customMode = %v, want true", payload["customMode"])
	}
	if payload["prompt"] != "La la la" {
		t.Fatalf("prompt = %v, want the verbatim lyrics", payload["prompt"])
	}
	if payload["title"] != "Song A" {
		t.Fatalf("title = %v, want Song A", payload["title"])
	}
	if payload["style"] != "dark synthwave" {
		t.Fatalf("style = %v, want dark synthwave", payload["style"])
	}
	if payload["vocalGender"] != "f" {
		t.Fatalf("vocalGender = %v, want f", payload["vocalGender"])
	}
}

func TestSubmitPassesUnknownVocalGenderThrough(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse(200, map[string]any{"task_id": "t"})
	client := newTestClient(transport)

	if _, err := client.Submit(context.Background(), SubmitRequest{
		Prompt:      "a song",
		VocalGender: "robotic",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	payload := transport.decodeBody(t)
	if payload["vocalGender"] != "robotic" {
		t.Fatalf("vocalGender = %v, want robotic", payload["vocalGender"])
	}
}

func TestSubmitTaskIDExtractionFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body map[string]any
		want string
	}{
		{"nested snake case", map[string]any{"data": map[string]any{"task_id": "a"}}, "a"},
		{"top level id", map[string]any{"id": "b"}, "b"},
		{"data as list", map[string]any{"data": []any{map[string]any{"taskId": "c"}}}, "c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transport := &captureTransport{}
			transport.setJSONResponse(200, tc.body)
			client := newTestClient(transport)
			taskID, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if taskID != tc.want {
				t.Fatalf("task id = %q, want %q", taskID, tc.want)
			}
		})
	}
}

func TestSubmitNoTaskIDIsBadResponse(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse(200, map[string]any{"data": map[string]any{}})
	client := newTestClient(transport)

	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
	if !errors.Is(err, providers.ErrBadResponse) {
		t.Fatalf("err = %v, want ErrBadResponse", err)
	}
}

func TestSubmitBodyLevelErrorIsRejected(t *testing.T) {
	cases := []map[string]any{
		{"code": float64(455), "msg": "maintenance"},
		{"error": "boom"},
		{"status": "error", "message": "nope"},
	}
	for _, body := range cases {
		transport := &captureTransport{}
		transport.setJSONResponse(200, body)
		client := newTestClient(transport)
		_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
		if !errors.Is(err, providers.ErrRejected) {
			t.Fatalf("body %v: err = %v, want ErrRejected", body, err)
		}
	}
}

func TestSubmitPlaceholderErrorFieldIsNotRejected(t *testing.T) {
	cases := []map[string]any{
		{"error": nil, "data": map[string]any{"taskId": "task-ok"}},
		{"error": "", "data": map[string]any{"taskId": "task-ok"}},
	}
	for _, body := range cases {
		transport := &captureTransport{}
		transport.setJSONResponse(200, body)
		client := newTestClient(transport)
		taskID, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
		if err != nil {
			t.Fatalf("body %v: err = %v, want success", body, err)
		}
		if taskID != "task-ok" {
			t.Fatalf("body %v: task id = %q, want task-ok", body, taskID)
		}
	}
}

func TestSubmitQuotaDetailFromErrorBody(t *testing.T) {
	transport := &captureTransport{}
	transport.setJSONResponse(402, map[string]any{"msg": "credits exhausted, top up your plan"})
	client := newTestClient(transport)

	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
	if !errors.Is(err, providers.ErrQuotaExceeded) {
		t.Fatalf("err = %v, want ErrQuotaExceeded", err)
	}
	if !strings.Contains(err.Error(), "credits exhausted, top up your plan") {
		t.Fatalf("err = %v, want the provider detail included", err)
	}
}

func TestSubmitStatusCodeTaxonomy(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{401, providers.ErrAuthFailed},
		{402, providers.ErrQuotaExceeded},
		{403, providers.ErrQuotaExceeded},
		{429, providers.ErrRateLimited},
		{500, providers.ErrUnavailable},
		{503, providers.ErrUnavailable},
	}
	for _, tc := range cases {
		transport := &captureTransport{}
		transport.setJSONResponse(tc.status, map[string]any{"message": "credits exhausted"})
		client := newTestClient(transport)
		_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
		if !errors.Is(err, tc.want) {
			t.Fatalf("status %d: err = %v, want %v", tc.status, err, tc.want)
		}
	}
}

func TestSubmitWithoutAPIKey(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.Submit(context.Background(), SubmitRequest{Prompt: "x"})
	if !errors.Is(err, providers.ErrUnconfigured) {
		t.Fatalf("err = %v, want ErrUnconfigured", err)
	}
}

type captureTransport struct {
	status   int
	body     []byte
	lastBody []byte
}

func (c *captureTransport) setJSONResponse(status int, payload any) {
	body, _ := json.Marshal(payload)
	c.status = status
	c.body = body
}

func (c *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		req.Body.Close()
		c.lastBody = body
	}
	status := c.status
	if status == 0 {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(c.body)),
	}, nil
}

func (c *captureTransport) decodeBody(t *testing.T) map[string]any {
	t.Helper()
	if c.lastBody == nil {
		t.Fatalf("expected payload to be captured")
	}
	var payload map[string]any
	if err := json.Unmarshal(c.lastBody, &payload); err != nil {
		t.Fatalf("decode payload: %v\n%s", err, strings.TrimSpace(string(c.lastBody)))
	}
	return payload
}
