package tools

import (
	"fmt"
	"strings"

	"netscope-copilot/internal/graph"
)

// Result formatting. The lookup and search tools return human-readable
// multiline strings so the leaf model can summarize them directly.

func pluralName(kind graph.EntityKind) string {
	switch kind {
	case graph.EntityFlow:
		return "flows"
	case graph.EntityLog:
		return "logs"
	case graph.EntityTelemetry:
		return "telemetry"
	}
	return string(kind)
}

// noResultsText distinguishes "ran successfully, zero data" from a failure:
// callers always get an explicit statement instead of a silently empty value.
func noResultsText(kind graph.EntityKind, tenantID, deviceID string) string {
	if deviceID != "" {
		return fmt.Sprintf("No %s for device_id=%s in org_id=%s", pluralName(kind), deviceID, tenantID)
	}
	return fmt.Sprintf("No devices or %s found for org_id=%s.", pluralName(kind), tenantID)
}

func retrievalErrorText(kind graph.EntityKind, result graph.Result) string {
	for _, rec := range result {
		if rec.IsError() {
			return fmt.Sprintf("%s retrieval failed: %s", pluralName(kind), rec.Err)
		}
	}
	return fmt.Sprintf("%s retrieval failed", pluralName(kind))
}

func formatLookupResult(kind graph.EntityKind, tenantID, deviceID string, result graph.Result) string {
	var lines []string
	title := titleCase(pluralName(kind))
	if deviceID != "" {
		lines = append(lines, fmt.Sprintf("%s from device_id=%s in org_id=%s:", title, deviceID, tenantID))
	} else {
		lines = append(lines, fmt.Sprintf("%s for org_id=%s:", title, tenantID))
	}
	for _, rec := range result {
		lines = append(lines, formatRecord(kind, rec, deviceID == "", false))
	}
	return strings.Join(lines, "\n")
}

func formatSearchResult(kind graph.EntityKind, tenantID string, result graph.Result) string {
	lines := []string{fmt.Sprintf("Semantic %s matches for org_id=%s:", pluralName(kind), tenantID)}
	for _, rec := range result {
		lines = append(lines, formatRecord(kind, rec, true, true))
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatRecord(kind graph.EntityKind, rec graph.Record, withDevice, withScore bool) string {
	var parts []string
	if withDevice && rec.DeviceID != "" {
		parts = append(parts, "device_id="+rec.DeviceID)
	}
	for _, prop := range kind.Properties() {
		if val, ok := rec.Fields[prop]; ok && val != nil {
			parts = append(parts, prop+"="+graph.Stringify(val))
		}
	}
	if withScore {
		parts = append(parts, fmt.Sprintf("score=%.4f", rec.Score))
	}
	return "  " + strings.Join(parts, ", ")
}
