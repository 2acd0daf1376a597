package tools

import (
	"context"
	"fmt"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/graph"
	"netscope-copilot/internal/security"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// Retriever is the retrieval layer surface the executor needs.
type Retriever interface {
	Lookup(ctx context.Context, kind graph.EntityKind, sec security.Context, deviceID string) (graph.Result, error)
	Search(ctx context.Context, kind graph.EntityKind, sec security.Context, queryText string, topK int, deviceID string) (graph.Result, error)
}

// AlertWriter writes one alert artifact.
type AlertWriter interface {
	Write(tenantID, summary string) (string, error)
}

// ToolResult represents the result of a tool execution
type ToolResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Executor routes tool calls to the retrieval layer or the alert writer.
// The tenant id is always taken from the security context; a tenant id
// smuggled into tool arguments is ignored.
type Executor struct {
	retriever Retriever
	alerts    AlertWriter
	logger    *zap.Logger
}

// NewExecutor creates a tool executor.
func NewExecutor(retriever Retriever, alerts AlertWriter) *Executor {
	return &Executor{
		retriever: retriever,
		alerts:    alerts,
		logger:    logger.Get(),
	}
}

// Execute runs a tool call and returns the result
func (e *Executor) Execute(ctx context.Context, sec security.Context, call adapter.ToolCall) *ToolResult {
	e.logger.Debug("Executing tool",
		zap.String("tool", call.Name),
		zap.String("tenant_id", sec.TenantID),
	)

	switch call.Name {
	case ToolFlowLookup:
		return e.executeLookup(ctx, sec, graph.EntityFlow, call.Arguments)
	case ToolLogLookup:
		return e.executeLookup(ctx, sec, graph.EntityLog, call.Arguments)
	case ToolTelemetryLookup:
		return e.executeLookup(ctx, sec, graph.EntityTelemetry, call.Arguments)

	case ToolFlowSearch:
		return e.executeSearch(ctx, sec, graph.EntityFlow, call.Arguments)
	case ToolLogSearch:
		return e.executeSearch(ctx, sec, graph.EntityLog, call.Arguments)
	case ToolTelemetrySearch:
		return e.executeSearch(ctx, sec, graph.EntityTelemetry, call.Arguments)

	case ToolCreateAlert:
		return e.executeCreateAlert(sec, call.Arguments)
	}

	return &ToolResult{
		Success: false,
		Error:   fmt.Sprintf("unknown tool: %s", call.Name),
	}
}

func (e *Executor) executeLookup(ctx context.Context, sec security.Context, kind graph.EntityKind, args map[string]any) *ToolResult {
	deviceID := stringArg(args, "device_id")

	result, err := e.retriever.Lookup(ctx, kind, sec, deviceID)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}
	if result.Failed() {
		return &ToolResult{Success: false, Error: retrievalErrorText(kind, result)}
	}
	if len(result) == 0 {
		return &ToolResult{Success: true, Message: noResultsText(kind, sec.TenantID, deviceID)}
	}

	return &ToolResult{Success: true, Message: formatLookupResult(kind, sec.TenantID, deviceID, result)}
}

func (e *Executor) executeSearch(ctx context.Context, sec security.Context, kind graph.EntityKind, args map[string]any) *ToolResult {
	text := stringArg(args, "text")
	if text == "" {
		return &ToolResult{Success: false, Error: "missing required argument: text"}
	}
	topK := intArg(args, "top_k")
	deviceID := stringArg(args, "device_id")

	result, err := e.retriever.Search(ctx, kind, sec, text, topK, deviceID)
	if err != nil {
		return &ToolResult{Success: false, Error: err.Error()}
	}
	if result.Failed() {
		return &ToolResult{Success: false, Error: retrievalErrorText(kind, result)}
	}
	if len(result) == 0 {
		return &ToolResult{Success: true, Message: fmt.Sprintf("No %s matched the query for org_id=%s.", pluralName(kind), sec.TenantID)}
	}

	return &ToolResult{Success: true, Message: formatSearchResult(kind, sec.TenantID, result)}
}

func (e *Executor) executeCreateAlert(sec security.Context, args map[string]any) *ToolResult {
	summary := stringArg(args, "summary")
	if summary == "" {
		return &ToolResult{Success: false, Error: "missing required argument: summary"}
	}

	path, err := e.alerts.Write(sec.TenantID, summary)
	if err != nil {
		e.logger.Error("Alert creation failed",
			zap.String("tenant_id", sec.TenantID),
			zap.Error(err),
		)
		return &ToolResult{Success: false, Error: fmt.Sprintf("failed to create alert: %v", err)}
	}

	return &ToolResult{Success: true, Message: fmt.Sprintf("Alert created at %s", path)}
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

// intArg reads an integer argument. JSON numbers decode as float64.
func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
