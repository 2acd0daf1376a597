package tools

import (
	"netscope-copilot/internal/adapter"
)

// Tool names - Adjacency lookups (insights toolset)
const (
	ToolFlowLookup      = "flow_lookup"
	ToolLogLookup       = "log_lookup"
	ToolTelemetryLookup = "telemetry_lookup"
)

// Tool names - Semantic searches (research toolset)
const (
	ToolFlowSearch      = "flow_search"
	ToolLogSearch       = "log_search"
	ToolTelemetrySearch = "telemetry_search"
)

// Tool names - Alerting toolset
const (
	ToolCreateAlert = "create_alert"
)

// The three toolsets are disjoint: each leaf responder is bound to exactly
// one of them. Tool schemas expose only user-facing parameters; the tenant
// id always comes from the security context and is never a tool argument.

func lookupTool(name, entity string) adapter.Tool {
	return adapter.Tool{
		Type: "function",
		Function: adapter.FunctionDefinition{
			Name:        name,
			Description: "Adjacency-based " + entity + " data from the graph store, scoped to the requesting org. Optionally narrowed to a single device.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"device_id": map[string]any{
						"type":        "string",
						"description": "Look up " + entity + " from this device id only.",
					},
				},
			},
		},
	}
}

func searchTool(name, entity string) adapter.Tool {
	return adapter.Tool{
		Type: "function",
		Function: adapter.FunctionDefinition{
			Name:        name,
			Description: "Semantic vector search over " + entity + " embeddings in the graph store, scoped to the requesting org.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The semantic query text.",
					},
					"top_k": map[string]any{
						"type":        "integer",
						"description": "Number of results to return. Defaults to 3.",
					},
					"device_id": map[string]any{
						"type":        "string",
						"description": "Optional device id to filter by.",
					},
				},
				"required": []string{"text"},
			},
		},
	}
}

// GetInsightsTools returns the structured/adjacency toolset.
func GetInsightsTools() []adapter.Tool {
	return []adapter.Tool{
		lookupTool(ToolFlowLookup, "flow"),
		lookupTool(ToolLogLookup, "log"),
		lookupTool(ToolTelemetryLookup, "telemetry"),
	}
}

// GetResearchTools returns the semantic search toolset.
func GetResearchTools() []adapter.Tool {
	return []adapter.Tool{
		searchTool(ToolFlowSearch, "flow"),
		searchTool(ToolLogSearch, "log"),
		searchTool(ToolTelemetrySearch, "telemetry"),
	}
}

// GetAlertingTools returns the alerting toolset.
func GetAlertingTools() []adapter.Tool {
	return []adapter.Tool{
		{
			Type: "function",
			Function: adapter.FunctionDefinition{
				Name:        ToolCreateAlert,
				Description: "Create an alert artifact with the given summary text for the requesting org. Returns the artifact path.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"summary": map[string]any{
							"type":        "string",
							"description": "Alert summary text.",
						},
					},
					"required": []string{"summary"},
				},
			},
		},
	}
}
