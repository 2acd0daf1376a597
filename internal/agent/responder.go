// Package agent implements the hierarchical responder tree: a root router
// delegating to an observability router or an alerting leaf, with each leaf
// bound to one disjoint toolset.
package agent

import (
	"context"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/security"
)

// Outcome is the only value passed back up the router chain. Composite
// responders never inspect or transform a child's Outcome; they only choose
// which child to invoke.
type Outcome struct {
	Text string
}

// Responder turns request text plus security context into an Outcome,
// either directly (leaf) or by delegating to exactly one child (composite).
type Responder interface {
	Name() string
	Respond(ctx context.Context, request string, sec security.Context) (Outcome, error)
}

// LLM is the model-provider surface the responders consume.
type LLM interface {
	Generate(ctx context.Context, systemPrompt, userMsg string, tools []adapter.Tool) (*adapter.Response, error)
}
