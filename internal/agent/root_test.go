package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/tools"
)

type persistedTurn struct {
	UserID         string
	ConversationID string
	Role           string
	Content        string
}

// fakeTurnStore records StoreTurn calls; it is safe for the detached
// persistence goroutine.
type fakeTurnStore struct {
	mu    sync.Mutex
	turns []persistedTurn
	err   error
}

func (f *fakeTurnStore) StoreTurn(_ context.Context, userID, conversationID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, persistedTurn{userID, conversationID, role, content})
	return f.err
}

func (f *fakeTurnStore) recorded() []persistedTurn {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]persistedTurn, len(f.turns))
	copy(out, f.turns)
	return out
}

func newTestRoot(child Responder, store TurnStore) *RootRouter {
	classify := fixedClassifier(child.Name())
	if child.Name() == ChildAlerting {
		return NewRootRouter(classify, &stubResponder{name: ChildObservability}, child, store)
	}
	return NewRootRouter(classify, child, &stubResponder{name: ChildAlerting}, store)
}

func TestHandleRequestMissingTenant(t *testing.T) {
	store := &fakeTurnStore{}
	root := newTestRoot(&stubResponder{name: ChildObservability, outcome: Outcome{Text: "ok"}}, store)

	result := root.HandleRequest(context.Background(), "", "role-xyz", "user-999", "conv-1", "", "list flows")
	if result.Type != ResultTypeRefusal {
		t.Fatalf("got type %q, want %q", result.Type, ResultTypeRefusal)
	}
	if !strings.Contains(result.Content, "no organization") {
		t.Fatalf("unexpected refusal text: %q", result.Content)
	}
	root.persistWG.Wait()
	if len(store.recorded()) != 0 {
		t.Fatal("a refused request must not be persisted")
	}
}

func TestHandleRequestPersistsCompletedTurn(t *testing.T) {
	store := &fakeTurnStore{}
	root := newTestRoot(&stubResponder{name: ChildObservability, outcome: Outcome{Text: "the answer"}}, store)

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "list flows")
	if result.Type != ResultTypeAnswer {
		t.Fatalf("got type %q, want %q", result.Type, ResultTypeAnswer)
	}
	if result.Content != "the answer" {
		t.Fatalf("unexpected content: %q", result.Content)
	}

	root.persistWG.Wait()
	turns := store.recorded()
	if len(turns) != 2 {
		t.Fatalf("expected exactly one user and one assistant line, got %d", len(turns))
	}
	if turns[0].Role != "user" || turns[0].Content != "list flows" {
		t.Fatalf("user line wrong: %+v", turns[0])
	}
	if turns[1].Role != "assistant" || turns[1].Content != "the answer" {
		t.Fatalf("assistant line wrong: %+v", turns[1])
	}
	for _, turn := range turns {
		if turn.UserID != "user-999" || turn.ConversationID != "conv-1" {
			t.Fatalf("turn keyed wrongly: %+v", turn)
		}
	}
}

func TestHandleRequestPersistenceFailureNotSurfaced(t *testing.T) {
	store := &fakeTurnStore{err: fmt.Errorf("graph store down")}
	root := newTestRoot(&stubResponder{name: ChildObservability, outcome: Outcome{Text: "fine"}}, store)

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "list flows")
	root.persistWG.Wait()

	if result.Type != ResultTypeAnswer || result.Content != "fine" {
		t.Fatalf("persistence failure leaked into the reply: %+v", result)
	}
}

func TestHandleRequestDelegationFailureNotPersisted(t *testing.T) {
	store := &fakeTurnStore{}
	root := NewRootRouter(fixedClassifier(""), &stubResponder{name: ChildObservability}, &stubResponder{name: ChildAlerting}, store)

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "gibberish")
	if result.Type != ResultTypeRefusal {
		t.Fatalf("got type %q, want %q", result.Type, ResultTypeRefusal)
	}
	if result.Content != refusalNoDelegation {
		t.Fatalf("unexpected refusal text: %q", result.Content)
	}
	root.persistWG.Wait()
	if len(store.recorded()) != 0 {
		t.Fatal("a failed turn must not be persisted")
	}
}

func TestHandleRequestInternalFaultBecomesText(t *testing.T) {
	child := &stubResponder{name: ChildObservability, err: fmt.Errorf("unexpected provider fault")}
	root := newTestRoot(child, &fakeTurnStore{})

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "list flows")
	if result.Type != ResultTypeError {
		t.Fatalf("got type %q, want %q", result.Type, ResultTypeError)
	}
	if result.Content != refusalInternal {
		t.Fatalf("raw error leaked: %q", result.Content)
	}
}

// buildKeywordTree wires the full tree with deterministic classifiers and
// scripted leaf models, the offline configuration used below.
func buildKeywordTree(observability, alerting LLM, executor ToolExecutor, store TurnStore) *RootRouter {
	rootRules, domainRules := DefaultKeywordRules()
	return BuildTree(TreeDeps{
		ObservabilityModel: observability,
		AlertingModel:      alerting,
		Executor:           executor,
		Store:              store,
		RootClassifier:     NewKeywordClassifier(rootRules),
		DomainClassifier:   NewKeywordClassifier(domainRules),
	})
}

func TestTreeRoutesLookupToInsights(t *testing.T) {
	observability := &scriptedLLM{responses: []*adapter.Response{
		{ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolFlowLookup, Arguments: map[string]any{"device_id": "dev-7"}}}},
		{Content: "There are no flows for dev-7 in your organization."},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolFlowLookup: {Success: true, Message: "No flows for device_id=dev-7 in org_id=org-123"},
	}}
	store := &fakeTurnStore{}
	root := buildKeywordTree(observability, &scriptedLLM{}, executor, store)

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "list flows for dev-7")
	if result.Type != ResultTypeAnswer {
		t.Fatalf("got %+v", result)
	}
	if !strings.Contains(result.Content, "no flows for dev-7") {
		t.Fatalf("explicit no-results answer expected, got %q", result.Content)
	}
	if len(executor.calls) != 1 || executor.calls[0].Name != tools.ToolFlowLookup {
		t.Fatalf("expected one flow_lookup, got %+v", executor.calls)
	}
	if executor.lastSec.TenantID != "org-123" {
		t.Fatal("tenant must flow from the entry point to the tool")
	}
	root.persistWG.Wait()
	if len(store.recorded()) != 2 {
		t.Fatal("completed turn must be persisted")
	}
}

func TestTreeRoutesSemanticQueryToResearch(t *testing.T) {
	observability := &scriptedLLM{responses: []*adapter.Response{
		{ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolLogSearch, Arguments: map[string]any{"text": "DDoS"}}}},
		{Content: "Two critical DDoS-related traps stand out."},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolLogSearch: {Success: true, Message: "Semantic logs matches for org_id=org-123:\n  trap_id=trap-1, score=0.9100"},
	}}
	root := buildKeywordTree(observability, &scriptedLLM{}, executor, &fakeTurnStore{})

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "search logs about DDoS")
	if result.Type != ResultTypeAnswer {
		t.Fatalf("got %+v", result)
	}
	if len(executor.calls) != 1 || executor.calls[0].Name != tools.ToolLogSearch {
		t.Fatalf("expected one log_search, got %+v", executor.calls)
	}
}

func TestTreeRoutesAlertRequestToAlerting(t *testing.T) {
	alerting := &scriptedLLM{responses: []*adapter.Response{
		{ToolCalls: []adapter.ToolCall{{ID: "1", Name: tools.ToolCreateAlert, Arguments: map[string]any{"summary": "traffic spike on dev-1"}}}},
		{Content: "Alert created: /tmp/alerts/alert_org-123.html"},
	}}
	executor := &recordingExecutor{results: map[string]*tools.ToolResult{
		tools.ToolCreateAlert: {Success: true, Message: "Alert created at /tmp/alerts/alert_org-123.html"},
	}}
	observability := &scriptedLLM{}
	root := buildKeywordTree(observability, alerting, executor, &fakeTurnStore{})

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "alert the on-call team about the traffic spike on dev-1")
	if result.Type != ResultTypeAnswer {
		t.Fatalf("got %+v", result)
	}
	if len(executor.calls) != 1 || executor.calls[0].Name != tools.ToolCreateAlert {
		t.Fatalf("expected one create_alert, got %+v", executor.calls)
	}
	if observability.calls != 0 {
		t.Fatal("the observability branch must not run for an alert request")
	}
}

func TestTreeAmbiguousObservabilityTieBreaksToInsights(t *testing.T) {
	// "device dev-1 status" matches the root observability rule but neither
	// domain rule, so the domain router falls back to insights.
	observability := &scriptedLLM{responses: []*adapter.Response{
		{Content: "dev-1 looks healthy."},
	}}
	executor := &recordingExecutor{}
	root := buildKeywordTree(observability, &scriptedLLM{}, executor, &fakeTurnStore{})

	result := root.HandleRequest(context.Background(), "org-123", "role-xyz", "user-999", "conv-1", "", "device dev-1 status")
	if result.Type != ResultTypeAnswer {
		t.Fatalf("got %+v", result)
	}
	if observability.prompts[0] != insightsPrompt {
		t.Fatal("ambiguous observability requests must tie-break to insights")
	}
}
