// Package retrieval turns a request into either a structured adjacency
// query or a tenant-scoped semantic similarity query over the graph store.
//
// Both operations consume the security context built by the entry point and
// fail closed when it carries no tenant: no store query is ever issued for
// a tenant-less request. Store and embedding faults never escape as raw
// errors; they come back as a single error-marker record so the calling
// responder can compose an explanation instead of aborting the turn.
package retrieval

import (
	"context"
	"sort"

	"netscope-copilot/internal/graph"
	"netscope-copilot/internal/security"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// Store is the slice of the graph client the retrieval layer needs.
type Store interface {
	Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Embedder computes the query embedding. Its dimension must match the
// similarity index's configured dimension.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Options hold the retrieval policy constants. The oversampling bounds and
// the default top_k come from configuration; they are policy values with no
// documented derivation, so they are preserved rather than re-derived.
type Options struct {
	DefaultTopK      int
	OversampleFactor int
	MinCandidates    int
	MaxCandidates    int
}

// DefaultOptions returns the stock retrieval policy.
func DefaultOptions() Options {
	return Options{
		DefaultTopK:      3,
		OversampleFactor: 20,
		MinCandidates:    100,
		MaxCandidates:    1000,
	}
}

// Service executes both retrieval strategies over one injected store.
type Service struct {
	store    Store
	embedder Embedder
	opts     Options
	logger   *zap.Logger
}

// NewService creates a retrieval service.
func NewService(store Store, embedder Embedder, opts Options) *Service {
	if opts.DefaultTopK < 1 {
		opts = DefaultOptions()
	}
	return &Service{
		store:    store,
		embedder: embedder,
		opts:     opts,
		logger:   logger.Get(),
	}
}

// CandidateCount returns the number of nearest neighbours requested from
// the shared index before tenant/device filtering. Oversampling compensates
// for candidates the filter discards: the index is not tenant-partitioned,
// and an undersized multiplier silently starves the final result set.
func (s *Service) CandidateCount(topK int) int {
	if topK < 1 {
		topK = s.opts.DefaultTopK
	}
	count := topK * s.opts.OversampleFactor
	if count < s.opts.MinCandidates {
		count = s.opts.MinCandidates
	}
	if count > s.opts.MaxCandidates {
		count = s.opts.MaxCandidates
	}
	return count
}

// Lookup runs the structured adjacency query for one entity kind, optionally
// narrowed to a single device. Records are ordered by (device id, entity id)
// ascending. An empty result is returned as-is; the caller owns the explicit
// "no results" text.
func (s *Service) Lookup(ctx context.Context, kind graph.EntityKind, sec security.Context, deviceID string) (graph.Result, error) {
	if sec.TenantID == "" {
		return nil, errors.NewMissingTenant()
	}

	params := map[string]any{"orgId": sec.TenantID}
	if deviceID != "" {
		params["devId"] = deviceID
	}

	rows, err := s.store.Run(ctx, lookupQuery(kind, deviceID != ""), params)
	if err != nil {
		s.logger.Error("Adjacency lookup failed",
			zap.String("kind", string(kind)),
			zap.String("tenant_id", sec.TenantID),
			zap.Error(err),
		)
		return graph.Result{graph.ErrorRecord(kind, errors.NewRetrievalFault("adjacency lookup", err))}, nil
	}

	records := make(graph.Result, 0, len(rows))
	for _, row := range rows {
		entity, _ := row["entity"].(map[string]any)
		if entity == nil {
			// Device row without entities: OPTIONAL MATCH found nothing.
			continue
		}
		records = append(records, recordFromNode(kind, entity, sec.TenantID, stringProp(row, "device_id"), 0))
	}

	sortStructured(records)
	return records, nil
}

// Search runs the semantic similarity query. The shared index is
// oversampled, candidates are filtered to the requesting tenant (and, when
// a device scope applies, to graph adjacency from that device), re-ranked
// by score descending and truncated to topK. Faults come back as a single
// error-marker record.
func (s *Service) Search(ctx context.Context, kind graph.EntityKind, sec security.Context, queryText string, topK int, deviceID string) (graph.Result, error) {
	if sec.TenantID == "" {
		return nil, errors.NewMissingTenant()
	}
	if topK < 1 {
		topK = s.opts.DefaultTopK
	}
	// A device scope fixed at the entry point wins over a per-call argument.
	if sec.HasDevice() {
		deviceID = sec.DeviceID
	}

	embedding, err := s.embedder.Embed(ctx, queryText)
	if err != nil {
		s.logger.Error("Query embedding failed",
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return graph.Result{graph.ErrorRecord(kind, errors.NewRetrievalFault("query embedding", err))}, nil
	}

	params := map[string]any{
		"k":   s.CandidateCount(topK),
		"emb": toFloat64s(embedding),
	}
	if deviceID != "" {
		params["devId"] = deviceID
	}

	rows, err := s.store.Run(ctx, searchQuery(kind, deviceID != ""), params)
	if err != nil {
		s.logger.Error("Similarity query failed",
			zap.String("kind", string(kind)),
			zap.String("index", kind.VectorIndex()),
			zap.Error(err),
		)
		return graph.Result{graph.ErrorRecord(kind, errors.NewRetrievalFault("similarity search", err))}, nil
	}

	records := make(graph.Result, 0, topK)
	for _, row := range rows {
		node, _ := row["node"].(map[string]any)
		if node == nil {
			continue
		}
		// The index is shared across tenants; drop foreign candidates here.
		if stringProp(node, "org_id") != sec.TenantID {
			continue
		}
		score, _ := row["score"].(float64)
		records = append(records, recordFromNode(kind, node, sec.TenantID, stringProp(node, "dev_id"), score))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})
	if len(records) > topK {
		records = records[:topK]
	}

	s.logger.Debug("Semantic search completed",
		zap.String("kind", string(kind)),
		zap.String("tenant_id", sec.TenantID),
		zap.Int("candidates", len(rows)),
		zap.Int("returned", len(records)),
	)
	return records, nil
}

func recordFromNode(kind graph.EntityKind, node map[string]any, tenantID, deviceID string, score float64) graph.Record {
	if owner := stringProp(node, "org_id"); owner != "" {
		tenantID = owner
	}
	return graph.Record{
		Kind:     kind,
		ID:       graph.Stringify(node[kind.IDProperty()]),
		DeviceID: deviceID,
		TenantID: tenantID,
		Score:    score,
		Fields:   node,
	}
}

func sortStructured(records graph.Result) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].DeviceID != records[j].DeviceID {
			return records[i].DeviceID < records[j].DeviceID
		}
		return records[i].ID < records[j].ID
	})
}

func stringProp(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func toFloat64s(vec []float32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}
