package graph

import (
	"fmt"
	"testing"
)

func TestParseEntityKind(t *testing.T) {
	for _, s := range []string{"flow", "log", "telemetry"} {
		kind, err := ParseEntityKind(s)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if string(kind) != s {
			t.Fatalf("got %q, want %q", kind, s)
		}
	}
	if _, err := ParseEntityKind("metric"); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}

func TestEntityKindSchema(t *testing.T) {
	tests := []struct {
		kind  EntityKind
		label string
		rel   string
		index string
		id    string
	}{
		{EntityFlow, "Flow", "SENDS_FLOW", "flow_embeddings", "flow_id"},
		{EntityLog, "Log", "SENDS_LOG", "log_embeddings", "trap_id"},
		{EntityTelemetry, "Telemetry", "SENDS_METRIC", "telemetry_embeddings", "telemetry_id"},
	}
	for _, tt := range tests {
		if got := tt.kind.Label(); got != tt.label {
			t.Errorf("%s label: got %q, want %q", tt.kind, got, tt.label)
		}
		if got := tt.kind.Relationship(); got != tt.rel {
			t.Errorf("%s relationship: got %q, want %q", tt.kind, got, tt.rel)
		}
		if got := tt.kind.VectorIndex(); got != tt.index {
			t.Errorf("%s index: got %q, want %q", tt.kind, got, tt.index)
		}
		if got := tt.kind.IDProperty(); got != tt.id {
			t.Errorf("%s id property: got %q, want %q", tt.kind, got, tt.id)
		}
	}
}

func TestResultFailed(t *testing.T) {
	ok := Result{{Kind: EntityFlow, ID: "flow-001"}}
	if ok.Failed() {
		t.Fatal("a result without markers must not be failed")
	}
	failed := Result{ErrorRecord(EntityFlow, fmt.Errorf("store unavailable"))}
	if !failed.Failed() {
		t.Fatal("a marker record must mark the result failed")
	}
	if !failed[0].IsError() {
		t.Fatal("marker record must report IsError")
	}
	var empty Result
	if empty.Failed() {
		t.Fatal("an empty result is a successful zero-match result")
	}
}
