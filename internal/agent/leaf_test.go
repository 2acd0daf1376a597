package agent

import (
	"context"
	"strings"
	"testing"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/security"
	"netscope-copilot/internal/tools"
	"netscope-copilot/pkg/errors"
)

// recordingExecutor returns a canned result per tool name.
type recordingExecutor struct {
	results map[string]*tools.ToolResult
	calls   []adapter.ToolCall
	lastSec security.Context
}

func (r *recordingExecutor) Execute(_ context.Context, sec security.Context, call adapter.ToolCall) *tools.ToolResult {
	r.calls = append(r.calls, call)
	r.lastSec = sec
	if res, ok := r.results[call.Name]; ok {
		return res
	}
	return &tools.ToolResult{Success: false, Error: "unknown tool: " + call.Name}
}

func TestLeafAnswersDirectly(t *testing.T) {
	model := &scriptedLLM{responses: []*adapter.Response{
		{Content: "Direct answer without tools."},
	}}
	executor := &recordingExecutor{}
	leaf := NewLeafResponder(ChildInsights, model, insightsPrompt, tools.GetInsightsTools(), executor)

	outcome, err := leaf.Respond(context.Background(), "hello", routerSec(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Text != "Direct answer without tools." {
		t.Fatalf("unexpected outcome: %q", outcome.Text)
	}
	if len(executor.calls) != 0 {
		t.Fatal("no tool may run when the model answers directly")
	}
}

func TestLeafRunsToolThenComposes(t *testing.T) {
	model := &scriptedLLM{responses: []*adapter.Response{
		{ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolFlowLookup, Arguments: map[string]any{"device_id": "dev-1"}}}},
		{Content: "dev-1 moved 512 bytes across one flow."},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolFlowLookup: {Success: true, Message: "Flows from device_id=dev-1 in org_id=org-123:\n  flow_id=flow-001, bytes=512"},
	}}
	leaf := NewLeafResponder(ChildInsights, model, insightsPrompt, tools.GetInsightsTools(), executor)

	outcome, err := leaf.Respond(context.Background(), "list flows for dev-1", routerSec(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Text != "dev-1 moved 512 bytes across one flow." {
		t.Fatalf("unexpected outcome: %q", outcome.Text)
	}
	if len(executor.calls) != 1 || executor.calls[0].Name != tools.ToolFlowLookup {
		t.Fatalf("expected one flow_lookup call, got %+v", executor.calls)
	}
	if executor.lastSec.TenantID != "org-123" {
		t.Fatal("tool execution must carry the request's security context")
	}
	// The second model turn must carry the tool output.
	if model.calls != 2 || !strings.Contains(model.messages[1], "[Tool Results]") {
		t.Fatalf("tool results not fed back to the model: %q", model.messages)
	}
}

func TestLeafToolFailureFedBackAsError(t *testing.T) {
	model := &scriptedLLM{responses: []*adapter.Response{
		{ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolLogSearch, Arguments: map[string]any{"text": "ddos"}}}},
		{Content: "Log retrieval is currently unavailable."},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolLogSearch: {Success: false, Error: "logs retrieval failed: retrieval failed: similarity search"},
	}}
	leaf := NewLeafResponder(ChildResearch, model, researchPrompt, tools.GetResearchTools(), executor)

	outcome, err := leaf.Respond(context.Background(), "search logs about ddos", routerSec(t))
	if err != nil {
		t.Fatalf("operational faults must not abort the turn: %v", err)
	}
	if outcome.Text != "Log retrieval is currently unavailable." {
		t.Fatalf("unexpected outcome: %q", outcome.Text)
	}
	if !strings.Contains(model.messages[1], "ERROR") {
		t.Fatalf("tool failure not reported to the model: %q", model.messages[1])
	}
}

func TestLeafNeitherToolNorAnswer(t *testing.T) {
	model := &scriptedLLM{responses: []*adapter.Response{{}}}
	leaf := NewLeafResponder(ChildInsights, model, insightsPrompt, tools.GetInsightsTools(), &recordingExecutor{})

	_, err := leaf.Respond(context.Background(), "anything", routerSec(t))
	if err == nil {
		t.Fatal("expected a delegation error")
	}
	if !errors.IsErrorType(err, errors.ErrorTypeRouting) {
		t.Fatalf("expected a routing error, got %v", err)
	}
}

func TestLeafDepthExhaustionReturnsToolOutput(t *testing.T) {
	// The model keeps requesting tools on every turn; at the depth limit the
	// leaf surfaces the raw tool output instead of dropping the request.
	toolResp := &adapter.Response{ToolCalls: []adapter.ToolCall{
		{ID: "1", Name: tools.ToolFlowLookup, Arguments: map[string]any{}},
	}}
	model := &scriptedLLM{responses: []*adapter.Response{toolResp, toolResp, toolResp}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolFlowLookup: {Success: true, Message: "No devices or flows found for org_id=org-123."},
	}}
	leaf := NewLeafResponder(ChildInsights, model, insightsPrompt, tools.GetInsightsTools(), executor)

	outcome, err := leaf.Respond(context.Background(), "list flows", routerSec(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(outcome.Text, "No devices or flows found") {
		t.Fatalf("raw tool output not surfaced: %q", outcome.Text)
	}
	if model.calls != maxToolDepth {
		t.Fatalf("loop must stop at the depth bound: %d calls", model.calls)
	}
}

func TestLeafContentAlongsideToolCallsWins(t *testing.T) {
	model := &scriptedLLM{responses: []*adapter.Response{
		{
			Content:   "Answer already composed.",
			ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolFlowLookup, Arguments: map[string]any{}}},
		},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolFlowLookup: {Success: true, Message: "data"},
	}}
	leaf := NewLeafResponder(ChildInsights, model, insightsPrompt, tools.GetInsightsTools(), executor)

	outcome, err := leaf.Respond(context.Background(), "list flows", routerSec(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Text != "Answer already composed." {
		t.Fatalf("unexpected outcome: %q", outcome.Text)
	}
	if model.calls != 1 {
		t.Fatalf("content alongside tool calls ends the turn, got %d model calls", model.calls)
	}
}
