package retrieval

import (
	"strings"
	"testing"

	"netscope-copilot/internal/graph"
)

func TestLookupQueryWalksPermissionChain(t *testing.T) {
	query := lookupQuery(graph.EntityFlow, false)

	for _, clause := range []string{
		"Org {id: $orgId}",
		"HAS_ROLE",
		"CONTROLS_ACCESS",
		"COLLECTS_FROM",
		"SENDS_FLOW",
		"OPTIONAL MATCH",
		"ORDER BY device_id, entity.flow_id",
	} {
		if !strings.Contains(query, clause) {
			t.Errorf("query missing %q:\n%s", clause, query)
		}
	}
	if strings.Contains(query, "$devId") {
		t.Error("device parameter must not appear without a device scope")
	}
}

func TestLookupQueryWithDeviceScope(t *testing.T) {
	query := lookupQuery(graph.EntityLog, true)
	if !strings.Contains(query, "dev_id: $devId") {
		t.Errorf("device scope not bound:\n%s", query)
	}
	if !strings.Contains(query, "SENDS_LOG") || !strings.Contains(query, "e:Log") {
		t.Errorf("wrong entity kind:\n%s", query)
	}
}

func TestSearchQueryUsesFixedIndexNames(t *testing.T) {
	tests := []struct {
		kind  graph.EntityKind
		index string
	}{
		{graph.EntityFlow, "flow_embeddings"},
		{graph.EntityLog, "log_embeddings"},
		{graph.EntityTelemetry, "telemetry_embeddings"},
	}
	for _, tt := range tests {
		query := searchQuery(tt.kind, false)
		if !strings.Contains(query, "vector_search.search('"+tt.index+"', $k, $emb)") {
			t.Errorf("%s: index name not fixed:\n%s", tt.kind, query)
		}
		// Tenant filtering happens in Go; the query is index-wide.
		if strings.Contains(query, "$orgId") {
			t.Errorf("%s: search query must not take a tenant parameter:\n%s", tt.kind, query)
		}
	}
}

func TestSearchQueryDeviceAdjacency(t *testing.T) {
	query := searchQuery(graph.EntityTelemetry, true)
	if !strings.Contains(query, "Device {dev_id: $devId}") || !strings.Contains(query, "SENDS_METRIC") {
		t.Errorf("device adjacency missing:\n%s", query)
	}
}
