package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/pkg/errors"
)

// linkGroup is the set of target element IDs to attach to one source node
type linkGroup struct {
	sourceID  string
	targetIDs []string
}

// buildLinkGroups resolves (sourceKey, targetKey) pairs against the two
// identifier maps and groups target IDs by source ID. Pairs whose source or
// target key is absent from the corresponding map are dropped: linking is
// best-effort against partial source data, not strict referential integrity.
func buildLinkGroups(sourceMap, targetMap IDMap, pairs []Pair) []linkGroup {
	bySource := map[string][]string{}
	order := []string{}
	for _, pair := range pairs {
		sourceID, ok := sourceMap[pair.SourceKey]
		if !ok {
			continue
		}
		targetID, ok := targetMap[pair.TargetKey]
		if !ok {
			continue
		}
		if _, seen := bySource[sourceID]; !seen {
			order = append(order, sourceID)
		}
		bySource[sourceID] = append(bySource[sourceID], targetID)
	}

	groups := make([]linkGroup, 0, len(order))
	for _, sourceID := range order {
		groups = append(groups, linkGroup{sourceID: sourceID, targetIDs: bySource[sourceID]})
	}
	return groups
}

// validRelTypes guards the relationship type interpolated into Cypher, since
// relationship types cannot be bound as query parameters.
var validRelTypes = map[string]bool{
	RelPurchased:  true,
	RelFavorited:  true,
	RelFiled:      true,
	RelInCategory: true,
	RelOfProduct:  true,
}

// LinkRelation attaches target nodes to source nodes along relType, one
// update per distinct source, all inside a single write transaction. It
// returns the number of pairs actually applied, which is less than
// len(pairs) when rows referenced keys missing from either map. A failure
// rolls back only this relation; previously linked relations stay committed.
func (r *Repository) LinkRelation(ctx context.Context, relType string, sourceMap, targetMap IDMap, pairs []Pair) (int, error) {
	if !validRelTypes[relType] {
		return 0, errors.NewGraphQueryFailed("link "+relType, fmt.Errorf("unknown relationship type %q", relType))
	}

	groups := buildLinkGroups(sourceMap, targetMap, pairs)

	query := fmt.Sprintf(`
		MATCH (s) WHERE elementId(s) = $sourceId
		UNWIND $targetIds AS targetId
		MATCH (t) WHERE elementId(t) = targetId
		MERGE (s)-[:%s]->(t)
	`, relType)

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		for _, group := range groups {
			result, err := tx.Run(ctx, query, map[string]interface{}{
				"sourceId":  group.sourceID,
				"targetIds": group.targetIDs,
			})
			if err != nil {
				return nil, err
			}
			if _, err := result.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return 0, errors.NewGraphQueryFailed("link "+relType, err)
	}

	applied := 0
	for _, group := range groups {
		applied += len(group.targetIDs)
	}

	r.logger.Info("Relation linked",
		zap.String("relation", relType),
		zap.Int("pairs", len(pairs)),
		zap.Int("applied", applied),
		zap.Int("skipped", len(pairs)-applied),
	)
	return applied, nil
}
