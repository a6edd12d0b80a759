package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/logger"
)

// Relationship types used across the catalog graph.
const (
	RelPurchased  = "PURCHASED"
	RelFavorited  = "FAVORITED"
	RelFiled      = "FILED"
	RelInCategory = "IN_CATEGORY"
	RelOfProduct  = "OF_PRODUCT"
)

// IDMap maps a natural key from a source file to the element ID the store
// assigned for it. It is produced once per entity kind during a load run and
// never re-fetched from the store.
type IDMap map[string]string

// Pair is one relationship row from a source file, prior to ID resolution.
type Pair struct {
	SourceKey string
	TargetKey string
}

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}
