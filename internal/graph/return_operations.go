package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/errors"
)

// ============================================================================
// Return Operations
// ============================================================================

// ReturnsOfUser returns the user's filed returns with the returned product
// expanded, label filtered at every hop.
func (r *Repository) ReturnsOfUser(ctx context.Context, username string) ([]ReturnInfo, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})-[:FILED]->(ret:Return)
		RETURN ret.reason AS reason,
		       [(ret)-[:OF_PRODUCT]->(p:Product) | {name: p.name, price: p.price}] AS products
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("returns of user", err)
	}

	returns := []ReturnInfo{}
	for result.Next(ctx) {
		record := result.Record()
		products, _ := record.Get("products")
		returns = append(returns, ReturnInfo{
			Reason:   getStringFromRecord(record, "reason"),
			Products: productRefsFromList(products),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("returns of user", err)
	}

	return returns, nil
}

// FileReturn resolves the product and user, creates a Return node, then
// links user to return and return to product. The three mutations commit
// independently: a failure after the node was created can leave an orphaned
// Return with no owner or no product. That window is logged, not masked.
func (r *Repository) FileReturn(ctx context.Context, username, productName, reason string) (*ReturnInfo, error) {
	productID, err := r.resolveProductID(ctx, productName)
	if err != nil {
		return nil, err
	}

	userID, err := r.resolveUserID(ctx, username)
	if err != nil {
		return nil, err
	}

	returnID, err := r.createReturnNode(ctx, reason)
	if err != nil {
		return nil, err
	}

	if err := r.attachByID(ctx, "link user to return", RelFiled, userID, returnID); err != nil {
		r.logger.Warn("Return node created but not linked to user",
			zap.String("return_id", returnID),
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}

	if err := r.attachByID(ctx, "link return to product", RelOfProduct, returnID, productID); err != nil {
		r.logger.Warn("Return node linked to user but not to product",
			zap.String("return_id", returnID),
			zap.String("product", productName),
			zap.Error(err),
		)
		return nil, err
	}

	r.logger.Info("Return filed",
		zap.String("username", username),
		zap.String("product", productName),
	)
	return &ReturnInfo{
		Reason:   reason,
		Products: []ProductRef{{Name: productName}},
	}, nil
}

// createReturnNode creates the Return in its own committed transaction and
// returns its element ID.
func (r *Repository) createReturnNode(ctx context.Context, reason string) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		CREATE (ret:Return {id: $id, reason: $reason})
		RETURN elementId(ret) AS id
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":     uuid.New().String(),
		"reason": reason,
	})
	if err != nil {
		return "", errors.NewGraphQueryFailed("create return", err)
	}

	record, err := result.Single(ctx)
	if err != nil {
		return "", errors.NewGraphQueryFailed("create return", err)
	}

	return getStringFromRecord(record, "id"), nil
}

// attachByID merges one edge between two already-resolved nodes
func (r *Repository) attachByID(ctx context.Context, op, relType, sourceID, targetID string) error {
	if !validRelTypes[relType] {
		return errors.NewGraphQueryFailed(op, fmt.Errorf("unknown relationship type %q", relType))
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (s) WHERE elementId(s) = $sourceId
		MATCH (t) WHERE elementId(t) = $targetId
		MERGE (s)-[:` + relType + `]->(t)
	`

	if _, err := session.Run(ctx, query, map[string]interface{}{
		"sourceId": sourceID,
		"targetId": targetID,
	}); err != nil {
		return errors.NewGraphQueryFailed(op, err)
	}

	return nil
}
