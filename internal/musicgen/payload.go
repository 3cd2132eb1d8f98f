package musicgen

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Provider callbacks arrive in several loosely related shapes. The decoder
// is schema-tolerant: each field is resolved by an ordered table of known
// key paths, first hit wins, so a new provider quirk means a new table entry
// rather than new control flow.
var (
	notifyTaskIDKeys       = []string{"task_id", "taskId", "id"}
	notifyNestedTaskIDKeys = []string{"task_id", "taskId"}
	resultWrapperKeys      = []string{"data", "songs", "clips", "results"}
	resultURLKeys          = []string{"audio_url", "audioUrl", "url", "audio"}

	successTokens   = []string{"completed", "success", "done"}
	failureTokens   = []string{"failed", "error", "failure"}
	successWordings = []string{"successfully", "complete"}
)

// Notification is the normalized form of one provider callback.
type Notification struct {
	TaskID  string
	Status  string
	Message string
	Results []Result
}

// Result is one delivered rendering.
type Result struct {
	URL string
}

// IsFailure reports an explicit failure status.
func (n Notification) IsFailure() bool {
	status := strings.ToLower(strings.TrimSpace(n.Status))
	for _, token := range failureTokens {
		if status == token {
			return true
		}
	}
	return false
}

// IsSuccess reports success either as an enumerated status token or as
// success wording embedded in the free-text message.
func (n Notification) IsSuccess() bool {
	status := strings.ToLower(strings.TrimSpace(n.Status))
	for _, token := range successTokens {
		if status == token {
			return true
		}
	}
	message := strings.ToLower(n.Message)
	for _, wording := range successWordings {
		if strings.Contains(message, wording) {
			return true
		}
	}
	return false
}

// ParseNotification decodes a raw callback body. Only a missing task id is
// an error; everything else degrades to an interpretable-or-not question
// answered later by the reconciler.
func ParseNotification(raw []byte) (*Notification, error) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode callback: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty callback payload")
	}

	n := &Notification{
		TaskID:  extractNotificationTaskID(payload),
		Message: firstString(payload, "msg", "message"),
	}
	if status, ok := payload["status"].(string); ok {
		n.Status = status
	}
	if n.TaskID == "" {
		return nil, fmt.Errorf("callback payload carries no task id")
	}

	for _, item := range normalizeResults(payload["data"]) {
		n.Results = append(n.Results, Result{URL: firstString(item, resultURLKeys...)})
	}
	return n, nil
}

func extractNotificationTaskID(payload map[string]any) string {
	if id := firstString(payload, notifyTaskIDKeys...); id != "" {
		return id
	}
	if nested, ok := payload["data"].(map[string]any); ok {
		if id := firstString(nested, notifyNestedTaskIDKeys...); id != "" {
			return id
		}
	}
	return ""
}

// normalizeResults flattens the results collection to a list of objects.
// The collection may be a direct list, an object wrapping a list under one
// of several key names, or a single object standing in for a one-item list.
func normalizeResults(data any) []map[string]any {
	switch v := data.(type) {
	case []any:
		return objectItems(v)
	case map[string]any:
		for _, key := range resultWrapperKeys {
			if inner, ok := v[key]; ok {
				switch wrapped := inner.(type) {
				case []any:
					return objectItems(wrapped)
				case map[string]any:
					// A single object standing in for a one-item list.
					return []map[string]any{wrapped}
				}
			}
		}
		// A bare object: treat it as the single result unless it only
		// carried the nested task id.
		if firstString(v, resultURLKeys...) != "" {
			return []map[string]any{v}
		}
		return nil
	default:
		return nil
	}
}

func objectItems(list []any) []map[string]any {
	var items []map[string]any
	for _, entry := range list {
		if obj, ok := entry.(map[string]any); ok {
			items = append(items, obj)
		}
	}
	return items
}

func firstString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
