package agent

import (
	"context"
	"fmt"
	"strings"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/security"
	"netscope-copilot/internal/tools"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// maxToolDepth bounds the generate/execute loop so tool calls that keep
// producing more tool calls cannot spin forever.
const maxToolDepth = 3

// ToolExecutor runs one tool call under the request's security context.
type ToolExecutor interface {
	Execute(ctx context.Context, sec security.Context, call adapter.ToolCall) *tools.ToolResult
}

// LeafResponder is a terminal responder bound to exactly one toolset. It
// asks its model what to do, executes any requested tool calls through the
// retrieval layer (or alert writer), then asks the model to compose the
// final answer from the tool results.
type LeafResponder struct {
	name         string
	model        LLM
	systemPrompt string
	toolset      []adapter.Tool
	executor     ToolExecutor
	logger       *zap.Logger
}

// NewLeafResponder builds a leaf bound to a toolset.
func NewLeafResponder(name string, model LLM, systemPrompt string, toolset []adapter.Tool, executor ToolExecutor) *LeafResponder {
	return &LeafResponder{
		name:         name,
		model:        model,
		systemPrompt: systemPrompt,
		toolset:      toolset,
		executor:     executor,
		logger:       logger.Get(),
	}
}

// Name returns the leaf's identifier.
func (l *LeafResponder) Name() string {
	return l.name
}

// Respond runs the bounded tool loop and returns the final Outcome. It
// fails with a DelegationError only when the model selects neither a tool
// nor an answer; the request is never silently dropped.
func (l *LeafResponder) Respond(ctx context.Context, request string, sec security.Context) (Outcome, error) {
	message := request

	for depth := 0; depth < maxToolDepth; depth++ {
		resp, err := l.model.Generate(ctx, l.systemPrompt, message, l.toolset)
		if err != nil {
			return Outcome{}, err
		}

		if len(resp.ToolCalls) == 0 {
			if resp.Content == "" {
				return Outcome{}, errors.NewDelegationError(l.name, "model selected neither a tool nor an answer")
			}
			return Outcome{Text: resp.Content}, nil
		}

		var toolResults []string
		for _, call := range resp.ToolCalls {
			result := l.executor.Execute(ctx, sec, call)
			if result.Success {
				l.logger.Debug("Tool executed",
					zap.String("leaf", l.name),
					zap.String("tool", call.Name),
				)
				toolResults = append(toolResults, fmt.Sprintf("[%s]: %s", call.Name, result.Message))
			} else {
				l.logger.Warn("Tool execution failed",
					zap.String("leaf", l.name),
					zap.String("tool", call.Name),
					zap.String("error", result.Error),
				)
				toolResults = append(toolResults, fmt.Sprintf("[%s] ERROR: %s", call.Name, result.Error))
			}
		}

		if resp.Content != "" {
			// The model already answered alongside its tool calls.
			return Outcome{Text: resp.Content}, nil
		}

		if depth == maxToolDepth-1 {
			// Out of turns: surface the raw tool output rather than dropping it.
			return Outcome{Text: strings.Join(toolResults, "\n")}, nil
		}

		message = fmt.Sprintf("%s\n\n[Tool Results]:\n%s\n\nCompose the final answer for the user from these results.",
			request, strings.Join(toolResults, "\n"))
	}

	return Outcome{}, errors.NewDelegationError(l.name, "tool loop exhausted without an answer")
}
