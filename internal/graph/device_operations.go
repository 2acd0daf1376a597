package graph

import "context"

// ============================================================================
// Device Operations
// ============================================================================

// ListDevices returns the device inventory visible to one tenant, following
// the permission chain from the org node. Results are ordered by device id.
func (s *Store) ListDevices(ctx context.Context, tenantID string, limit int) ([]map[string]any, error) {
	if limit < 1 {
		limit = 100
	}

	query := `
		MATCH (o:Org {id: $orgId})-[:HAS_ROLE]->(:Role)-[:CONTROLS_ACCESS]->(c:Collector)-[:COLLECTS_FROM]->(d:Device)
		RETURN d{.*, collector_id: c.id} AS properties
		ORDER BY properties.dev_id
		LIMIT $limit
	`

	rows, err := s.Run(ctx, query, map[string]any{
		"orgId": tenantID,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	devices := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		if props := getMapFromRow(row, "properties"); props != nil {
			devices = append(devices, props)
		}
	}
	return devices, nil
}
