package agent

import (
	"netscope-copilot/internal/tools"
)

// TreeDeps are the injected collaborators for the default responder tree.
// Models and the tool executor are constructed once per process and reused
// across requests.
type TreeDeps struct {
	RouterModel        LLM
	ObservabilityModel LLM
	AlertingModel      LLM
	Executor           ToolExecutor
	Store              TurnStore

	// Classify overrides the model-backed classifiers when set (tests,
	// offline runs). Root and domain routers each get their own.
	RootClassifier   Classifier
	DomainClassifier Classifier
}

// BuildTree wires the full responder tree:
//
//	root_router ─┬─ observability ─┬─ insights  (adjacency toolset)
//	             │                 └─ research  (semantic toolset)
//	             └─ alerting                    (alert toolset)
//
// The observability router tie-breaks toward insights: structured answers
// are cheaper and more deterministic than semantic ones.
func BuildTree(deps TreeDeps) *RootRouter {
	rootClassify := deps.RootClassifier
	if rootClassify == nil {
		rootClassify = NewModelClassifier(deps.RouterModel, rootChildren)
	}
	domainClassify := deps.DomainClassifier
	if domainClassify == nil {
		domainClassify = NewModelClassifier(deps.RouterModel, domainChildren)
	}

	insights := NewLeafResponder(ChildInsights, deps.ObservabilityModel, insightsPrompt, tools.GetInsightsTools(), deps.Executor)
	research := NewLeafResponder(ChildResearch, deps.ObservabilityModel, researchPrompt, tools.GetResearchTools(), deps.Executor)
	observability := NewRouter(ChildObservability, domainClassify, ChildInsights, insights, research)

	alerting := NewLeafResponder(ChildAlerting, deps.AlertingModel, alertingPrompt, tools.GetAlertingTools(), deps.Executor)

	return NewRootRouter(rootClassify, observability, alerting, deps.Store)
}
