// Seeds a development graph: schema constraints, vector indexes, one demo
// org with its permission chain, and a small set of devices with flow, log
// and telemetry entities (embedded via the configured provider).
package main

import (
	"context"
	"fmt"

	"netscope-copilot/internal/adapter"
	"netscope-copilot/internal/graph"
	"netscope-copilot/pkg/config"
	"netscope-copilot/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	demoOrgID       = "org-123"
	demoRoleID      = "role-xyz"
	demoUserID      = "user-999"
	demoCollectorID = "coll-1"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()
	log := logger.Get()

	ctx := context.Background()
	store, err := graph.NewStore(ctx, cfg.GraphURI, cfg.GraphUser, cfg.GraphPassword)
	if err != nil {
		log.Fatal("Failed to connect to graph store", zap.Error(err))
	}
	defer store.Close(context.Background())

	client, err := adapter.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to build provider client", zap.Error(err))
	}
	embedder := adapter.NewEmbedder(cfg, client)

	log.Info("Creating constraints and vector indexes...")
	if err := createSchema(ctx, store, embedder.Dimension()); err != nil {
		log.Fatal("Schema creation failed", zap.Error(err))
	}

	log.Info("Seeding permission chain...")
	if err := seedPermissionChain(ctx, store); err != nil {
		log.Fatal("Permission chain seeding failed", zap.Error(err))
	}

	log.Info("Seeding devices and entities...")
	if err := seedEntities(ctx, store, embedder); err != nil {
		log.Fatal("Entity seeding failed", zap.Error(err))
	}

	log.Info("Seed complete",
		zap.String("org_id", demoOrgID),
		zap.Int("embedding_dimension", embedder.Dimension()),
	)
}

func createSchema(ctx context.Context, store *graph.Store, dimension int) error {
	constraints := []string{
		"CREATE CONSTRAINT ON (o:Org) ASSERT o.id IS UNIQUE",
		"CREATE CONSTRAINT ON (r:Role) ASSERT r.id IS UNIQUE",
		"CREATE CONSTRAINT ON (u:User) ASSERT u.id IS UNIQUE",
		"CREATE CONSTRAINT ON (c:Collector) ASSERT c.id IS UNIQUE",
		"CREATE CONSTRAINT ON (d:Device) ASSERT d.dev_id IS UNIQUE",
		"CREATE CONSTRAINT ON (f:Flow) ASSERT f.flow_id IS UNIQUE",
		"CREATE CONSTRAINT ON (t:Telemetry) ASSERT t.telemetry_id IS UNIQUE",
		"CREATE CONSTRAINT ON (lg:Log) ASSERT lg.trap_id IS UNIQUE",
		"CREATE CONSTRAINT ON (c:Conversation) ASSERT c.conv_id IS UNIQUE",
	}
	for _, c := range constraints {
		// Re-runs hit "constraint already exists"; ignore like the store
		// being pre-seeded.
		_, _ = store.RunWrite(ctx, c, nil)
	}

	for _, kind := range []graph.EntityKind{graph.EntityFlow, graph.EntityLog, graph.EntityTelemetry} {
		ddl := fmt.Sprintf(`
			CREATE VECTOR INDEX %s
			ON :%s(embedding)
			WITH CONFIG {
			  "dimension": %d,
			  "capacity": 1000,
			  "metric": "cos"
			}
		`, kind.VectorIndex(), kind.Label(), dimension)
		_, _ = store.RunWrite(ctx, ddl, nil)
	}
	return nil
}

func seedPermissionChain(ctx context.Context, store *graph.Store) error {
	query := `
		MERGE (o:Org {id: $orgId})
		MERGE (r:Role {id: $roleId})
		ON CREATE SET r.name = 'netops'
		MERGE (o)-[:HAS_ROLE]->(r)
		MERGE (u:User {id: $userId})
		MERGE (r)-[:ASSIGNED_TO]->(u)
		MERGE (c:Collector {id: $collId})
		ON CREATE SET c.name = 'primary-collector'
		MERGE (r)-[:CONTROLS_ACCESS]->(c)
	`
	_, err := store.RunWrite(ctx, query, map[string]any{
		"orgId":  demoOrgID,
		"roleId": demoRoleID,
		"userId": demoUserID,
		"collId": demoCollectorID,
	})
	return err
}

type entityFixture struct {
	kind     graph.EntityKind
	deviceID string
	id       string
	text     string // embedded description
	props    map[string]any
}

func demoFixtures() []entityFixture {
	return []entityFixture{
		{graph.EntityFlow, "dev-1", "flow-001", "large HTTPS transfer from 10.0.0.4 to 203.0.113.9",
			map[string]any{"src_ip": "10.0.0.4", "dst_ip": "203.0.113.9", "protocol": "TCP", "src_port": 42312, "dst_port": 443, "bytes": 91822, "packets": 120, "application": "https"}},
		{graph.EntityFlow, "dev-2", "flow-002", "repeated small UDP probes toward 198.51.100.23",
			map[string]any{"src_ip": "10.0.0.7", "dst_ip": "198.51.100.23", "protocol": "UDP", "src_port": 53211, "dst_port": 53, "bytes": 312, "packets": 4, "application": "dns"}},
		{graph.EntityLog, "dev-1", "trap-001", "critical linkDown trap on interface eth0",
			map[string]any{"trap_type": "linkDown", "severity": "critical", "description": "Interface eth0 transitioned to down", "device_ip": "10.0.0.4"}},
		{graph.EntityLog, "dev-2", "trap-002", "authentication failure from unexpected source address",
			map[string]any{"trap_type": "authFailure", "severity": "warning", "description": "SNMP authentication failure", "device_ip": "10.0.0.7"}},
		{graph.EntityTelemetry, "dev-1", "tel-001", "cpu utilization spiked above ninety percent",
			map[string]any{"metric": "cpu_util", "value": 93.4, "unit": "percent", "device_ip": "10.0.0.4"}},
		{graph.EntityTelemetry, "dev-2", "tel-002", "memory usage steady at sixty percent",
			map[string]any{"metric": "mem_util", "value": 61.2, "unit": "percent", "device_ip": "10.0.0.7"}},
	}
}

func seedEntities(ctx context.Context, store *graph.Store, embedder *adapter.EmbeddingAdapter) error {
	for _, devID := range []string{"dev-1", "dev-2"} {
		query := `
			MATCH (c:Collector {id: $collId})
			MERGE (d:Device {dev_id: $devId})
			ON CREATE SET d.ip = $ip
			MERGE (c)-[:COLLECTS_FROM]->(d)
		`
		_, err := store.RunWrite(ctx, query, map[string]any{
			"collId": demoCollectorID,
			"devId":  devID,
			"ip":     "10.0.0." + devID[len(devID)-1:],
		})
		if err != nil {
			return err
		}
	}

	// Entities embed independently; bound the fan-out so a local embedder
	// is not flooded.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, fx := range demoFixtures() {
		fx := fx
		g.Go(func() error {
			emb, err := embedder.Embed(gctx, fx.text)
			if err != nil {
				return err
			}
			return mergeEntity(gctx, store, fx, emb)
		})
	}
	return g.Wait()
}

func mergeEntity(ctx context.Context, store *graph.Store, fx entityFixture, embedding []float32) error {
	props := map[string]any{
		"devId":     fx.deviceID,
		"entityId":  fx.id,
		"orgId":     demoOrgID,
		"embedding": toFloat64s(embedding),
		"props":     fx.props,
	}
	query := fmt.Sprintf(`
		MATCH (d:Device {dev_id: $devId})
		MERGE (e:%s {%s: $entityId})
		ON CREATE SET e += $props,
		              e.org_id = $orgId,
		              e.embedding = $embedding
		MERGE (d)-[:%s]->(e)
	`, fx.kind.Label(), fx.kind.IDProperty(), fx.kind.Relationship())
	_, err := store.RunWrite(ctx, query, props)
	return err
}

func toFloat64s(vec []float32) []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = float64(v)
	}
	return out
}
