package retrieval

import (
	"fmt"

	"netscope-copilot/internal/graph"
)

// Query builders. Entity labels, relationship types and index names are
// internal constants from graph.EntityKind; every user-supplied value is a
// bound parameter.

// lookupQuery walks the permission chain from the tenant node down to the
// requested entity kind:
//
//	(Org)-[:HAS_ROLE]->(Role)-[:CONTROLS_ACCESS]->(Collector)
//	     -[:COLLECTS_FROM]->(Device)-[:SENDS_*]->(entity)
//
// The entity match is OPTIONAL so a known device with zero entities still
// produces a row, letting callers distinguish "no data" from "no device".
func lookupQuery(kind graph.EntityKind, withDevice bool) string {
	deviceMatch := "(d:Device)"
	if withDevice {
		deviceMatch = "(d:Device {dev_id: $devId})"
	}
	return fmt.Sprintf(`
		MATCH (o:Org {id: $orgId})-[:HAS_ROLE]->(:Role)-[:CONTROLS_ACCESS]->(:Collector)-[:COLLECTS_FROM]->%s
		OPTIONAL MATCH (d)-[:%s]->(e:%s)
		RETURN d.dev_id AS device_id, e AS entity
		ORDER BY device_id, entity.%s
	`, deviceMatch, kind.Relationship(), kind.Label(), kind.IDProperty())
}

// searchQuery asks the shared (non-tenant-partitioned) similarity index for
// $k nearest neighbours. When a device scope applies, candidates must also
// be adjacent to that device. Tenant filtering happens in Go after this
// query returns.
func searchQuery(kind graph.EntityKind, withDevice bool) string {
	if withDevice {
		return fmt.Sprintf(`
			CALL vector_search.search('%s', $k, $emb)
			YIELD node, similarity
			MATCH (d:Device {dev_id: $devId})-[:%s]->(node)
			RETURN node, similarity AS score
		`, kind.VectorIndex(), kind.Relationship())
	}
	return fmt.Sprintf(`
		CALL vector_search.search('%s', $k, $emb)
		YIELD node, similarity
		RETURN node, similarity AS score
	`, kind.VectorIndex())
}
