package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const jsonRPCVersion = "2.0"

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func decodeRPCResponse(payload []byte, expectedID int64) (any, bool, error) {
	var envelope map[string]any
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, false, fmt.Errorf("decode json-rpc response: %w", err)
	}

	// Notifications without an ID can be ignored while waiting for the response.
	if _, hasID := envelope["id"]; !hasID {
		return nil, false, nil
	}

	if normalizeRPCID(envelope["id"]) != normalizeRPCID(expectedID) {
		return nil, false, nil
	}

	if errValue, ok := envelope["error"]; ok && errValue != nil {
		parsedErr := rpcError{}
		if raw, err := json.Marshal(errValue); err == nil {
			_ = json.Unmarshal(raw, &parsedErr)
		}
		msg := strings.TrimSpace(parsedErr.Message)
		if msg == "" {
			msg = strings.TrimSpace(fmt.Sprint(errValue))
		}
		if msg == "" {
			msg = "json-rpc request failed"
		}
		return nil, true, errors.New(msg)
	}

	return envelope["result"], true, nil
}

func normalizeRPCID(id any) string {
	switch value := id.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(value)
	case float64:
		return fmt.Sprintf("%.0f", value)
	case int:
		return fmt.Sprintf("%d", value)
	case int64:
		return fmt.Sprintf("%d", value)
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}

// decodeCallResult maps an MCP tools/call result onto success text or an
// error. Text content wins; structuredContent is the fallback.
func decodeCallResult(result any) (string, error) {
	obj, ok := result.(map[string]any)
	if !ok {
		return stringify(result), nil
	}

	isErr, _ := obj["isError"].(bool)
	if text := extractTextContent(obj["content"]); text != "" {
		if isErr {
			return "", errors.New(text)
		}
		return text, nil
	}
	if isErr {
		return "", fmt.Errorf("tool call failed")
	}

	if structured, ok := obj["structuredContent"]; ok && structured != nil {
		return stringify(structured), nil
	}
	return stringify(result), nil
}

func extractTextContent(v any) string {
	items, ok := v.([]any)
	if !ok {
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if strings.ToLower(strings.TrimSpace(stringValue(obj["type"]))) != "text" {
			continue
		}
		text := strings.TrimSpace(stringValue(obj["text"]))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	switch value := v.(type) {
	case string:
		return value
	default:
		return fmt.Sprint(v)
	}
}

func stringify(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}

func buildInitializeParams() map[string]any {
	return map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    "steward",
			"version": "v0.1.0",
		},
	}
}
