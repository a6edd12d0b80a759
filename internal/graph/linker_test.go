package graph

import (
	"reflect"
	"testing"
)

func TestBuildLinkGroups_GroupsBySource(t *testing.T) {
	users := IDMap{"u1": "id-u1", "u2": "id-u2"}
	products := IDMap{"p1": "id-p1", "p2": "id-p2", "p3": "id-p3"}

	pairs := []Pair{
		{SourceKey: "u1", TargetKey: "p1"},
		{SourceKey: "u2", TargetKey: "p2"},
		{SourceKey: "u1", TargetKey: "p3"},
	}

	groups := buildLinkGroups(users, products, pairs)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].sourceID != "id-u1" {
		t.Errorf("Expected first group for id-u1, got %s", groups[0].sourceID)
	}
	if !reflect.DeepEqual(groups[0].targetIDs, []string{"id-p1", "id-p3"}) {
		t.Errorf("Unexpected targets for u1: %v", groups[0].targetIDs)
	}
	if !reflect.DeepEqual(groups[1].targetIDs, []string{"id-p2"}) {
		t.Errorf("Unexpected targets for u2: %v", groups[1].targetIDs)
	}
}

func TestBuildLinkGroups_DropsDanglingRows(t *testing.T) {
	users := IDMap{"u1": "id-u1"}
	products := IDMap{"p1": "id-p1"}

	pairs := []Pair{
		{SourceKey: "u1", TargetKey: "p1"},
		{SourceKey: "ghost", TargetKey: "p1"}, // source missing
		{SourceKey: "u1", TargetKey: "ghost"}, // target missing
	}

	groups := buildLinkGroups(users, products, pairs)

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if !reflect.DeepEqual(groups[0].targetIDs, []string{"id-p1"}) {
		t.Errorf("Expected only the valid pair applied, got %v", groups[0].targetIDs)
	}
}

func TestBuildLinkGroups_EmptyInputs(t *testing.T) {
	if groups := buildLinkGroups(IDMap{}, IDMap{}, nil); len(groups) != 0 {
		t.Errorf("Expected no groups for empty inputs, got %d", len(groups))
	}

	users := IDMap{"u1": "id-u1"}
	if groups := buildLinkGroups(users, IDMap{}, []Pair{{SourceKey: "u1", TargetKey: "p1"}}); len(groups) != 0 {
		t.Errorf("Expected no groups when target map is empty, got %d", len(groups))
	}
}
