// Package tools holds the deterministic advisory tools the agents draw on:
// Fibonacci retracement, market sentiment, a Regulation M screen, and market
// snapshots. Tools are framework-agnostic: a name, JSON schemas, and an
// Invoke method, registered in a plain map.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Tool is one invokable advisory tool
type Tool interface {
	// Name returns the tool's unique identifier
	Name() string

	// Description explains what the tool computes
	Description() string

	// InputSchema returns the JSON Schema of the input payload
	InputSchema() json.RawMessage

	// OutputSchema returns the JSON Schema of the output payload
	OutputSchema() json.RawMessage

	// Invoke runs the tool against a JSON input payload
	Invoke(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry is a plain map of tools keyed by name
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering a duplicate name is an error.
func (r *Registry) Register(t Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool %q already registered", t.Name())
	}
	r.tools[t.Name()] = t
	return nil
}

// Get looks up a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools sorted by name
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

func marshalOutput(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool output: %w", err)
	}
	return raw, nil
}
