package graph

import "fmt"

// ============================================================================
// Row extraction helpers
// ============================================================================

func getStringFromRow(row map[string]any, key, defaultValue string) string {
	val, ok := row[key]
	if !ok || val == nil {
		return defaultValue
	}
	if str, ok := val.(string); ok {
		return str
	}
	return defaultValue
}

func getFloat64FromRow(row map[string]any, key string, defaultValue float64) float64 {
	val, ok := row[key]
	if !ok || val == nil {
		return defaultValue
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return defaultValue
}

func getMapFromRow(row map[string]any, key string) map[string]any {
	val, ok := row[key]
	if !ok || val == nil {
		return nil
	}
	if m, ok := val.(map[string]any); ok {
		return m
	}
	return nil
}

// Stringify renders a property value the way the lookup tools print it.
// Integers from the store arrive as int64; everything else falls through
// to fmt.
func Stringify(val any) string {
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case int64:
		return fmt.Sprintf("%d", v)
	case float64:
		return fmt.Sprintf("%g", v)
	case bool:
		return fmt.Sprintf("%t", v)
	}
	return fmt.Sprintf("%v", val)
}
