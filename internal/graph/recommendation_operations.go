package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"shopgraph/pkg/errors"
)

// ============================================================================
// Recommendation Operations
// ============================================================================

// RecommendationsByCategory implements the two-stage traversal: collect the
// categories reachable from the user's favorited products, then for each
// category walk the IN_CATEGORY edge in reverse and return up to limit
// products that are not already anywhere in the user's favorites set. A
// product favorited under one category never resurfaces under another.
func (r *Repository) RecommendationsByCategory(ctx context.Context, username string, limit int) ([]CategoryRecommendation, error) {
	if limit < 1 {
		limit = 2
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})-[:FAVORITED]->(f:Product)
		WITH collect(DISTINCT f) AS favs
		UNWIND favs AS fav
		MATCH (fav)-[:IN_CATEGORY]->(c:Category)
		WITH favs, collect(DISTINCT c) AS cats
		UNWIND cats AS c
		OPTIONAL MATCH (c)<-[:IN_CATEGORY]-(p:Product)
		WHERE NOT p IN favs
		WITH c, collect(DISTINCT p)[0..$limit] AS recs
		RETURN c.name AS category,
		       [p IN recs | {name: p.name, price: p.price,
		                     description: p.description, stock: p.stock}] AS products
		ORDER BY category
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
		"limit":    limit,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("recommendations", err)
	}

	recommendations := []CategoryRecommendation{}
	for result.Next(ctx) {
		record := result.Record()
		rec := CategoryRecommendation{
			Category: getStringFromRecord(record, "category"),
			Products: []ProductInfo{},
		}

		products, _ := record.Get("products")
		if list, ok := products.([]interface{}); ok {
			for _, item := range list {
				m, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				name := getStringFromMap(m, "name")
				if name == "" {
					continue
				}
				rec.Products = append(rec.Products, ProductInfo{
					Name:        name,
					Price:       getFloatFromMap(m, "price"),
					Description: getStringFromMap(m, "description"),
					Stock:       getIntFromMap(m, "stock"),
				})
			}
		}

		recommendations = append(recommendations, rec)
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("recommendations", err)
	}

	return recommendations, nil
}
