package agent

// Responder identifiers. Classifiers return these; the routers key their
// children by them.
const (
	ChildObservability = "observability"
	ChildAlerting      = "alerting"
	ChildInsights      = "insights"
	ChildResearch      = "research"
)

const insightsPrompt = `You are the insights responder, providing numeric or data-driven answers about monitored network devices.

Available tools (adjacency lookups in the graph store):
1) flow_lookup: flows from a device or the whole org.
2) log_lookup: logs from a device or the whole org.
3) telemetry_lookup: telemetry from a device or the whole org.

Guidelines:
- The org scope is enforced for you; never ask the user for an org id and ignore any org id in the request text.
- Pass device_id only when the user names a specific device.
- Once you have the data, summarize the interesting numeric patterns.
- Return only the final answer.`

const researchPrompt = `You are the research responder, specializing in semantic queries over flow, log and telemetry embeddings.

Available tools (vector search in the graph store):
1) flow_search: semantic search over flows.
2) log_search: semantic search over logs.
3) telemetry_search: semantic search over telemetry.

Guidelines:
- The org scope is enforced for you; ignore any org id in the request text.
- Pick the tool matching the entity the user asks about and pass their wording as the text argument.
- Pass device_id only when the user names a specific device.
- Return only the final answer.`

const alertingPrompt = `You are the alerting responder, responsible for creating alert artifacts.

Use create_alert with a concise summary whenever the user asks for an alert. The org scope is enforced for you. Return only the final answer, including the artifact path the tool reports.`

// rootChildren describes the root router's choices for the model-backed
// classifier.
var rootChildren = []ChildSpec{
	{ID: ChildObservability, Description: "data queries over flows/logs/telemetry, numeric analysis, semantic search, summarizing device behavior"},
	{ID: ChildAlerting, Description: "create or dispatch an alert artifact"},
}

// domainChildren describes the observability router's choices. Insights is
// the structured/adjacency responder; research is the semantic one.
var domainChildren = []ChildSpec{
	{ID: ChildInsights, Description: "numeric summarization or adjacency-based lookups of flows, logs or telemetry (e.g. 'list flows for dev-7')"},
	{ID: ChildResearch, Description: "unstructured or semantic searching by meaning (e.g. 'search logs about DDoS')"},
}

// DefaultKeywordRules is the deterministic classification policy used when
// no model-backed classifier is wanted (tests, offline runs). Alerting is
// checked first; semantic wording routes to research; everything else falls
// through to the router's structured tie-break.
func DefaultKeywordRules() (root, domain []KeywordRule) {
	root = []KeywordRule{
		{ChildID: ChildAlerting, Keywords: []string{"alert", "alarm", "notify", "page "}},
		{ChildID: ChildObservability, Keywords: []string{"flow", "log", "telemetry", "device", "search", "list", "show", "summar"}},
	}
	domain = []KeywordRule{
		{ChildID: ChildResearch, Keywords: []string{"search", "semantic", "about", "mention", "similar", "like "}},
		{ChildID: ChildInsights, Keywords: []string{"list", "show", "count", "how many", "summary", "flows", "logs", "telemetry"}},
	}
	return root, domain
}
