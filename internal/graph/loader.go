package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/errors"
)

// Entity loaders. Each takes the typed rows of one source file and issues a
// single all-or-nothing write transaction creating one node per row, then
// returns the map from each row's natural key to the element ID the store
// assigned. A failed transaction (duplicate key, connectivity) returns a nil
// map; callers must treat that as fatal to the whole load run.

// LoadUsers creates one User node per record
func (r *Repository) LoadUsers(ctx context.Context, records []UserRecord) (IDMap, error) {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]interface{}{
			"key":        rec.Key,
			"username":   rec.Username,
			"email":      rec.Email,
			"phone":      rec.Phone,
			"birthdate":  rec.Birthdate,
			"created_at": rec.CreatedAt,
		})
	}

	query := `
		UNWIND $rows AS row
		CREATE (u:User {
			username: row.username,
			email: row.email,
			phone: row.phone,
			birthdate: row.birthdate,
			created_at: row.created_at
		})
		RETURN row.key AS key, elementId(u) AS id
	`

	return r.createBatch(ctx, "load users", query, rows)
}

// LoadProducts creates one Product node per record. The external product key
// lives only in the returned map, not on the node.
func (r *Repository) LoadProducts(ctx context.Context, records []ProductRecord) (IDMap, error) {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]interface{}{
			"key":         rec.Key,
			"name":        rec.Name,
			"price":       rec.Price,
			"description": rec.Description,
			"stock":       rec.Stock,
		})
	}

	query := `
		UNWIND $rows AS row
		CREATE (p:Product {
			name: row.name,
			price: row.price,
			description: row.description,
			stock: row.stock
		})
		RETURN row.key AS key, elementId(p) AS id
	`

	return r.createBatch(ctx, "load products", query, rows)
}

// LoadCategories creates one Category node per record, keyed by the name
func (r *Repository) LoadCategories(ctx context.Context, records []CategoryRecord) (IDMap, error) {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]interface{}{
			"key":  rec.Name,
			"name": rec.Name,
		})
	}

	query := `
		UNWIND $rows AS row
		CREATE (c:Category {name: row.name})
		RETURN row.key AS key, elementId(c) AS id
	`

	return r.createBatch(ctx, "load categories", query, rows)
}

// LoadReturns creates one Return node per record
func (r *Repository) LoadReturns(ctx context.Context, records []ReturnRecord) (IDMap, error) {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		rows = append(rows, map[string]interface{}{
			"key":    rec.Key,
			"reason": rec.Reason,
		})
	}

	query := `
		UNWIND $rows AS row
		CREATE (ret:Return {reason: row.reason})
		RETURN row.key AS key, elementId(ret) AS id
	`

	return r.createBatch(ctx, "load returns", query, rows)
}

// createBatch runs one batched CREATE statement inside a single managed
// write transaction and collects the key -> element ID projection.
func (r *Repository) createBatch(ctx context.Context, op, query string, rows []map[string]interface{}) (IDMap, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	ids, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{"rows": rows})
		if err != nil {
			return nil, err
		}

		idMap := IDMap{}
		for result.Next(ctx) {
			record := result.Record()
			idMap[getStringFromRecord(record, "key")] = getStringFromRecord(record, "id")
		}
		if err := result.Err(); err != nil {
			return nil, err
		}
		return idMap, nil
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed(op, err)
	}

	idMap := ids.(IDMap)
	r.logger.Info("Entity batch loaded",
		zap.String("operation", op),
		zap.Int("rows", len(rows)),
		zap.Int("assigned_ids", len(idMap)),
	)
	return idMap, nil
}
