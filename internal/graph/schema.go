package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/errors"
)

// schemaStatements declares the node types and indexed properties the
// catalog expects before any data is loaded. All statements are idempotent.
var schemaStatements = []string{
	"CREATE CONSTRAINT user_username_unique IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE",
	"CREATE CONSTRAINT category_name_unique IF NOT EXISTS FOR (c:Category) REQUIRE c.name IS UNIQUE",
	"CREATE RANGE INDEX product_price_range IF NOT EXISTS FOR (p:Product) ON (p.price)",
	"CREATE FULLTEXT INDEX product_name_fulltext IF NOT EXISTS FOR (p:Product) ON EACH [p.name]",
}

// EnsureSchema creates the constraints and indexes the loaders and queries
// rely on. Must run before the first load.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return errors.NewGraphQueryFailed("schema setup", err)
		}
	}

	r.logger.Info("Graph schema ready",
		zap.Int("statements", len(schemaStatements)),
	)
	return nil
}

// DropAll destroys every node and relationship in the store. Constraints and
// indexes are left in place.
func (r *Repository) DropAll(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if _, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return errors.NewGraphQueryFailed("drop all", err)
	}

	r.logger.Info("All graph data dropped")
	return nil
}
