package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"shopgraph/pkg/errors"
)

// ============================================================================
// User Operations
// ============================================================================

// SearchUser returns the user with purchased, favorited and return subtrees
// expanded one level. An unknown username yields (nil, nil): not found is an
// outcome, not an error.
func (r *Repository) SearchUser(ctx context.Context, username string) (*UserProfile, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})
		OPTIONAL MATCH (u)-[:PURCHASED]->(pp:Product)
		OPTIONAL MATCH (u)-[:FAVORITED]->(fp:Product)
		OPTIONAL MATCH (u)-[:FILED]->(ret:Return)
		RETURN u.username AS username, u.email AS email, u.phone AS phone,
		       u.birthdate AS birthdate, u.created_at AS created_at,
		       collect(DISTINCT {name: pp.name, price: pp.price}) AS purchased,
		       collect(DISTINCT {name: fp.name, price: fp.price}) AS favorited,
		       collect(DISTINCT {reason: ret.reason,
		               products: [(ret)-[:OF_PRODUCT]->(rp:Product) | {name: rp.name, price: rp.price}]
		       }) AS returns
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("search user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, errors.NewGraphQueryFailed("search user", err)
		}
		return nil, nil
	}

	record := result.Record()
	profile := &UserProfile{
		Username:  getStringFromRecord(record, "username"),
		Email:     getStringFromRecord(record, "email"),
		Phone:     getStringFromRecord(record, "phone"),
		Birthdate: getStringFromRecord(record, "birthdate"),
		CreatedAt: getStringFromRecord(record, "created_at"),
		Purchased: []ProductRef{},
		Favorited: []ProductRef{},
		Returns:   []ReturnInfo{},
	}

	purchased, _ := record.Get("purchased")
	profile.Purchased = productRefsFromList(purchased)

	favorited, _ := record.Get("favorited")
	profile.Favorited = productRefsFromList(favorited)

	returnsVal, _ := record.Get("returns")
	if list, ok := returnsVal.([]interface{}); ok {
		for _, item := range list {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			reason := getStringFromMap(m, "reason")
			if reason == "" {
				continue
			}
			profile.Returns = append(profile.Returns, ReturnInfo{
				Reason:   reason,
				Products: productRefsFromList(m["products"]),
			})
		}
	}

	return profile, nil
}

// resolveUserID resolves a username to its element ID in its own read
// transaction, the first step of every interactive write sequence.
func (r *Repository) resolveUserID(ctx context.Context, username string) (string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (u:User {username: $username})
		RETURN elementId(u) AS id
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"username": username,
	})
	if err != nil {
		return "", errors.NewGraphQueryFailed("resolve user", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", errors.NewGraphQueryFailed("resolve user", err)
		}
		return "", errors.NewUserNotFound(username)
	}

	return getStringFromRecord(result.Record(), "id"), nil
}
