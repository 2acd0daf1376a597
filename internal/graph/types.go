package graph

import "fmt"

// EntityKind identifies one of the evidence node types a device emits.
type EntityKind string

const (
	EntityFlow      EntityKind = "flow"
	EntityLog       EntityKind = "log"
	EntityTelemetry EntityKind = "telemetry"
)

// ParseEntityKind maps a tool-facing name to an EntityKind.
func ParseEntityKind(s string) (EntityKind, error) {
	switch EntityKind(s) {
	case EntityFlow, EntityLog, EntityTelemetry:
		return EntityKind(s), nil
	}
	return "", fmt.Errorf("unknown entity kind: %q", s)
}

// Label returns the node label used in the graph schema.
func (k EntityKind) Label() string {
	switch k {
	case EntityFlow:
		return "Flow"
	case EntityLog:
		return "Log"
	case EntityTelemetry:
		return "Telemetry"
	}
	return ""
}

// Relationship returns the adjacency edge from a Device to this entity.
func (k EntityKind) Relationship() string {
	switch k {
	case EntityFlow:
		return "SENDS_FLOW"
	case EntityLog:
		return "SENDS_LOG"
	case EntityTelemetry:
		return "SENDS_METRIC"
	}
	return ""
}

// VectorIndex returns the similarity index name for this entity. Index
// names are fixed internally and never user-controlled.
func (k EntityKind) VectorIndex() string {
	switch k {
	case EntityFlow:
		return "flow_embeddings"
	case EntityLog:
		return "log_embeddings"
	case EntityTelemetry:
		return "telemetry_embeddings"
	}
	return ""
}

// IDProperty returns the node property holding the entity's primary id.
func (k EntityKind) IDProperty() string {
	switch k {
	case EntityFlow:
		return "flow_id"
	case EntityLog:
		return "trap_id"
	case EntityTelemetry:
		return "telemetry_id"
	}
	return ""
}

// Properties returns the node properties reported for this entity, in
// display order.
func (k EntityKind) Properties() []string {
	switch k {
	case EntityFlow:
		return []string{"flow_id", "src_ip", "dst_ip", "protocol", "src_port", "dst_port", "bytes", "packets", "start_time", "end_time", "application"}
	case EntityLog:
		return []string{"trap_id", "trap_type", "severity", "description", "timestamp", "device_ip", "collector_id", "additional_info"}
	case EntityTelemetry:
		return []string{"telemetry_id", "metric", "value", "unit", "timestamp", "additional_info", "device_ip", "collector_id"}
	}
	return nil
}

// Record is one retrieved entity row. In semantic mode Score holds the
// similarity; structured lookups leave it zero. A Record with Err set is an
// explicit error marker: callers must treat the whole result as a failed
// retrieval, not as zero matches.
type Record struct {
	Kind     EntityKind     `json:"kind"`
	ID       string         `json:"id"`
	DeviceID string         `json:"device_id,omitempty"`
	TenantID string         `json:"tenant_id"`
	Score    float64        `json:"score,omitempty"`
	Fields   map[string]any `json:"fields,omitempty"`
	Err      string         `json:"error,omitempty"`
}

// IsError reports whether this record is an error marker.
func (r Record) IsError() bool {
	return r.Err != ""
}

// ErrorRecord builds the single marker entry returned in place of a fault.
func ErrorRecord(kind EntityKind, err error) Record {
	return Record{Kind: kind, Err: err.Error()}
}

// Result is an ordered sequence of retrieved records.
type Result []Record

// Failed reports whether the result carries an error marker.
func (rs Result) Failed() bool {
	for _, r := range rs {
		if r.IsError() {
			return true
		}
	}
	return false
}

// TurnMessage is one persisted line of a conversation.
type TurnMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
