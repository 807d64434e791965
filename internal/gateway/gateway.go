package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/davrd/steward/internal/intent"
	"github.com/davrd/steward/internal/tools"
)

// Result is the tagged outcome of a single tool invocation. Exactly one of
// Value or Err is meaningful, selected by OK.
type Result struct {
	OK    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
}

// Ok builds a success result.
func Ok(value string) Result {
	return Result{OK: true, Value: value}
}

// Errf builds a failure result.
func Errf(format string, args ...any) Result {
	return Result{OK: false, Err: fmt.Sprintf(format, args...)}
}

// Client is the synchronous boundary to the tool provider. Invoke performs
// exactly one call with no internal retry; provider and transport failures
// are normalized into a failed Result. The error return is reserved for
// contract violations (a tool name outside the static registry), which are
// programmer errors rather than runtime outcomes.
type Client interface {
	Invoke(ctx context.Context, in intent.Intent) (Result, error)
	Close() error
}

// InProcessClient executes intents against a local tool registry. It is the
// default deployment and the test fixture.
type InProcessClient struct {
	registry *tools.Registry
}

// NewInProcessClient wraps an already-populated registry.
func NewInProcessClient(registry *tools.Registry) (*InProcessClient, error) {
	for _, name := range intent.AllTools {
		if _, ok := registry.Get(string(name)); !ok {
			return nil, fmt.Errorf("registry missing tool %s", name)
		}
	}
	return &InProcessClient{registry: registry}, nil
}

// Invoke runs one tool call against the registry.
func (c *InProcessClient) Invoke(ctx context.Context, in intent.Intent) (Result, error) {
	if !intent.Known(in.Tool) {
		return Result{}, fmt.Errorf("unknown tool reached gateway: %s", in.Tool)
	}

	argsJSON, err := json.Marshal(in.Args)
	if err != nil {
		return Errf("encode tool args: %v", err), nil
	}

	output, err := c.registry.Execute(ctx, string(in.Tool), string(argsJSON))
	if err != nil {
		return Errf("%s", err.Error()), nil
	}
	return Ok(normalizeValue(output)), nil
}

// Close is a no-op for the in-process client.
func (c *InProcessClient) Close() error {
	return nil
}

// normalizeValue unwraps a JSON-encoded string result so user-facing
// output does not carry quoting; anything else passes through as-is.
func normalizeValue(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		return s
	}
	return raw
}
