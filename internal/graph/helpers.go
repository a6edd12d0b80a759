package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Record extraction helpers. Neo4j returns dynamically typed values; every
// query translates them into the typed structures from types.go at the edge.

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getFloatFromRecord(record *neo4j.Record, key string) float64 {
	val, ok := record.Get(key)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func getIntFromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if str, ok := m[key].(string); ok {
		return str
	}
	return ""
}

func getFloatFromMap(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

func getIntFromMap(m map[string]interface{}, key string) int64 {
	if i, ok := m[key].(int64); ok {
		return i
	}
	return 0
}

// productRefsFromList converts a collect() of {name, price} maps, dropping
// the null entry an OPTIONAL MATCH with no match contributes.
func productRefsFromList(val interface{}) []ProductRef {
	refs := []ProductRef{}
	list, ok := val.([]interface{})
	if !ok {
		return refs
	}
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := getStringFromMap(m, "name")
		if name == "" {
			continue
		}
		refs = append(refs, ProductRef{
			Name:  name,
			Price: getFloatFromMap(m, "price"),
		})
	}
	return refs
}
