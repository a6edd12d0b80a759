package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/errors"
)

// ============================================================================
// Product Operations
// ============================================================================

// FavoritesOfUser returns the products the user has favorited, label
// filtered at every hop. Unknown user or no favorites both yield an empty
// slice.
func (r *Repository) FavoritesOfUser(ctx context.Context, username string) ([]ProductInfo, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})-[:FAVORITED]->(p:Product)
		RETURN p.name AS name, p.price AS price,
		       p.description AS description, p.stock AS stock
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("favorites of user", err)
	}

	favorites := []ProductInfo{}
	for result.Next(ctx) {
		record := result.Record()
		favorites = append(favorites, ProductInfo{
			Name:        getStringFromRecord(record, "name"),
			Price:       getFloatFromRecord(record, "price"),
			Description: getStringFromRecord(record, "description"),
			Stock:       getIntFromRecord(record, "stock"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("favorites of user", err)
	}

	return favorites, nil
}

// AddFavorite resolves the product and user independently, then attaches the
// product to the user's favorites in one mutation. The MERGE keeps the edge
// set-valued: repeat calls issue a redundant write but leave one edge.
func (r *Repository) AddFavorite(ctx context.Context, username, productName string) error {
	productID, err := r.resolveProductID(ctx, productName)
	if err != nil {
		return err
	}

	userID, err := r.resolveUserID(ctx, username)
	if err != nil {
		return err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (u) WHERE elementId(u) = $userId
		MATCH (p) WHERE elementId(p) = $productId
		MERGE (u)-[:FAVORITED]->(p)
	`

	if _, err := session.Run(ctx, query, map[string]interface{}{
		"userId":    userID,
		"productId": productID,
	}); err != nil {
		return errors.NewGraphQueryFailed("add favorite", err)
	}

	r.logger.Info("Product favorited",
		zap.String("username", username),
		zap.String("product", productName),
	)
	return nil
}

// resolveProductID resolves an exact product name to its element ID
func (r *Repository) resolveProductID(ctx context.Context, name string) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (p:Product {name: $name})
		RETURN elementId(p) AS id
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		return "", errors.NewGraphQueryFailed("resolve product", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", errors.NewGraphQueryFailed("resolve product", err)
		}
		return "", errors.NewProductNotFound(name)
	}

	return getStringFromRecord(result.Record(), "id"), nil
}
