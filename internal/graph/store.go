package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"netscope-copilot/pkg/errors"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
)

// Store wraps the Bolt driver shared by every request. It is constructed
// once per process, reused across requests and closed on shutdown; each
// call opens its own session, so there is no client-side transaction
// spanning a request.
type Store struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewStore connects to the graph store and verifies connectivity.
func NewStore(ctx context.Context, uri, user, password string) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.NewGraphConnectionFailed(uri, err)
	}
	return &Store{
		driver: driver,
		logger: logger.Get(),
	}, nil
}

// Close closes the underlying driver connection.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Run executes a read query and returns every record as a plain map.
// Node values are flattened to their property maps so callers never see
// driver types.
func (s *Store) Run(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return s.run(ctx, query, params, neo4j.AccessModeRead)
}

// RunWrite executes a write query. Used by the persistence hook and the
// seed command; request-path retrieval is read-only.
func (s *Store) RunWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return s.run(ctx, query, params, neo4j.AccessModeWrite)
}

func (s *Store) run(ctx context.Context, query string, params map[string]any, mode neo4j.AccessMode) ([]map[string]any, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode})
	defer session.Close(ctx)

	if params == nil {
		params = map[string]any{}
	}

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	var rows []map[string]any
	for result.Next(ctx) {
		row := result.Record().AsMap()
		for key, val := range row {
			row[key] = flattenValue(val)
		}
		rows = append(rows, row)
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed(query, err)
	}

	return rows, nil
}

// flattenValue replaces driver node/relationship values with their
// property maps, recursively for collections.
func flattenValue(val any) any {
	switch v := val.(type) {
	case neo4j.Node:
		return v.Props
	case neo4j.Relationship:
		return v.Props
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = flattenValue(item)
		}
		return out
	default:
		return val
	}
}
