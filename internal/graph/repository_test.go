package graph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// These tests require a running Neo4j instance at bolt://localhost:7687
// (user neo4j, password "password"). Run with -short to skip them. Every
// test namespaces its data with a unique suffix and cleans up after itself.

func createTestDriver() (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func testSuffix() string {
	return time.Now().Format("20060102150405.000")
}

func cleanupSuffix(t *testing.T, driver neo4j.DriverWithContext, suffix string) {
	t.Helper()
	ctx := context.Background()
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	_, _ = session.Run(ctx, `
		MATCH (n)
		WHERE n.username ENDS WITH $suffix
		   OR n.name ENDS WITH $suffix
		   OR n.reason ENDS WITH $suffix
		DETACH DELETE n
	`, map[string]interface{}{"suffix": suffix})
}

func setupRepo(t *testing.T) (*Repository, neo4j.DriverWithContext, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	driver, err := createTestDriver()
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}

	repo := NewRepository(driver)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	suffix := testSuffix()
	t.Cleanup(func() {
		cleanupSuffix(t, driver, suffix)
		driver.Close(context.Background())
	})

	return repo, driver, suffix
}

func TestLoadUsers_IDMapIsInjective(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	records := []UserRecord{
		{Key: "u1", Username: "amelia-" + suffix, Email: "a@example.com"},
		{Key: "u2", Username: "bruno-" + suffix, Email: "b@example.com"},
		{Key: "u3", Username: "carla-" + suffix, Email: "c@example.com"},
	}

	idMap, err := repo.LoadUsers(ctx, records)
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}

	if len(idMap) != len(records) {
		t.Fatalf("Expected %d map entries, got %d", len(records), len(idMap))
	}
	seen := map[string]string{}
	for key, id := range idMap {
		if id == "" {
			t.Errorf("Empty element ID for key %s", key)
		}
		if prev, dup := seen[id]; dup {
			t.Errorf("Keys %s and %s share element ID %s", prev, key, id)
		}
		seen[id] = key
	}
}

func TestLoadUsers_DuplicateUsernameFailsBatch(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	records := []UserRecord{
		{Key: "u1", Username: "twin-" + suffix},
		{Key: "u2", Username: "twin-" + suffix},
	}

	idMap, err := repo.LoadUsers(ctx, records)
	if err == nil {
		t.Fatal("Expected duplicate username to fail the batch")
	}
	if idMap != nil {
		t.Errorf("Expected no partial map on failure, got %d entries", len(idMap))
	}
}

func TestLinkRelation_DanglingRowsSkipped(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	username := "dana-" + suffix
	userIDs, err := repo.LoadUsers(ctx, []UserRecord{{Key: "u1", Username: username}})
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	productIDs, err := repo.LoadProducts(ctx, []ProductRecord{
		{Key: "p1", Name: "lamp-" + suffix, Price: 10, Stock: 1},
		{Key: "p2", Name: "vase-" + suffix, Price: 20, Stock: 1},
	})
	if err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}

	pairs := []Pair{
		{SourceKey: "u1", TargetKey: "p1"},
		{SourceKey: "u1", TargetKey: "p2"},
		{SourceKey: "u1", TargetKey: "missing-product"},
		{SourceKey: "missing-user", TargetKey: "p1"},
	}

	applied, err := repo.LinkRelation(ctx, RelFavorited, userIDs, productIDs, pairs)
	if err != nil {
		t.Fatalf("LinkRelation failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("Expected 2 applied pairs, got %d", applied)
	}

	favorites, err := repo.FavoritesOfUser(ctx, username)
	if err != nil {
		t.Fatalf("FavoritesOfUser failed: %v", err)
	}
	if len(favorites) != 2 {
		t.Errorf("Expected exactly the valid rows applied, got %d favorites", len(favorites))
	}
}

func TestRecommendations_ExcludesFavoritesAndCapsAtTwo(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	username := "elena-" + suffix
	books := "Books-" + suffix
	favorite := "fav-novel-" + suffix

	userIDs, err := repo.LoadUsers(ctx, []UserRecord{{Key: "u1", Username: username}})
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	productIDs, err := repo.LoadProducts(ctx, []ProductRecord{
		{Key: "p1", Name: favorite, Price: 10, Stock: 1},
		{Key: "p2", Name: "other-1-" + suffix, Price: 11, Stock: 1},
		{Key: "p3", Name: "other-2-" + suffix, Price: 12, Stock: 1},
		{Key: "p4", Name: "other-3-" + suffix, Price: 13, Stock: 1},
	})
	if err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}
	categoryIDs, err := repo.LoadCategories(ctx, []CategoryRecord{{Name: books}})
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}

	inCategory := []Pair{
		{SourceKey: "p1", TargetKey: books},
		{SourceKey: "p2", TargetKey: books},
		{SourceKey: "p3", TargetKey: books},
		{SourceKey: "p4", TargetKey: books},
	}
	if _, err := repo.LinkRelation(ctx, RelInCategory, productIDs, categoryIDs, inCategory); err != nil {
		t.Fatalf("LinkRelation IN_CATEGORY failed: %v", err)
	}
	if _, err := repo.LinkRelation(ctx, RelFavorited, userIDs, productIDs, []Pair{{SourceKey: "u1", TargetKey: "p1"}}); err != nil {
		t.Fatalf("LinkRelation FAVORITED failed: %v", err)
	}

	recommendations, err := repo.RecommendationsByCategory(ctx, username, 2)
	if err != nil {
		t.Fatalf("RecommendationsByCategory failed: %v", err)
	}

	if len(recommendations) != 1 {
		t.Fatalf("Expected 1 category, got %d", len(recommendations))
	}
	rec := recommendations[0]
	if rec.Category != books {
		t.Errorf("Expected category %s, got %s", books, rec.Category)
	}
	if len(rec.Products) == 0 || len(rec.Products) > 2 {
		t.Fatalf("Expected 1-2 recommended products, got %d", len(rec.Products))
	}
	for _, p := range rec.Products {
		if p.Name == favorite {
			t.Errorf("Favorited product %s must not be recommended", favorite)
		}
	}
}

func TestAddFavorite_RepeatedCallKeepsOneEdge(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	username := "felix-" + suffix
	product := "teapot-" + suffix

	if _, err := repo.LoadUsers(ctx, []UserRecord{{Key: "u1", Username: username}}); err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	if _, err := repo.LoadProducts(ctx, []ProductRecord{{Key: "p1", Name: product, Price: 25, Stock: 3}}); err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}

	if err := repo.AddFavorite(ctx, username, product); err != nil {
		t.Fatalf("First AddFavorite failed: %v", err)
	}
	if err := repo.AddFavorite(ctx, username, product); err != nil {
		t.Fatalf("Second AddFavorite failed: %v", err)
	}

	favorites, err := repo.FavoritesOfUser(ctx, username)
	if err != nil {
		t.Fatalf("FavoritesOfUser failed: %v", err)
	}
	if len(favorites) != 1 {
		t.Errorf("Expected exactly one favorite after repeated calls, got %d", len(favorites))
	}
}

func TestFileReturn_UnknownUserCreatesNothing(t *testing.T) {
	repo, driver, suffix := setupRepo(t)
	ctx := context.Background()

	product := "kettle-" + suffix
	reason := "leaked-" + suffix

	if _, err := repo.LoadProducts(ctx, []ProductRecord{{Key: "p1", Name: product, Price: 30, Stock: 2}}); err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}

	_, err := repo.FileReturn(ctx, "nobody-"+suffix, product, reason)
	if err == nil {
		t.Fatal("Expected not-found error for unknown username")
	}

	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)
	result, err := session.Run(ctx, "MATCH (ret:Return {reason: $reason}) RETURN count(ret) AS n",
		map[string]interface{}{"reason": reason})
	if err != nil {
		t.Fatalf("Count query failed: %v", err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		t.Fatalf("Count result failed: %v", err)
	}
	if n, _ := record.Get("n"); n.(int64) != 0 {
		t.Errorf("Expected no Return node created, found %d", n)
	}
}

func TestSearchUser_NoEdgesYieldsEmptySubtrees(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	buyer := "gina-" + suffix
	idle := "hugo-" + suffix
	toys := "Toys-" + suffix

	userIDs, err := repo.LoadUsers(ctx, []UserRecord{
		{Key: "u1", Username: buyer},
		{Key: "u2", Username: idle},
	})
	if err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	productIDs, err := repo.LoadProducts(ctx, []ProductRecord{
		{Key: "p1", Name: "kite-" + suffix, Price: 9, Stock: 4},
		{Key: "p2", Name: "drum-" + suffix, Price: 19, Stock: 2},
		{Key: "p3", Name: "mug-" + suffix, Price: 7, Stock: 9},
	})
	if err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}
	categoryIDs, err := repo.LoadCategories(ctx, []CategoryRecord{{Name: toys}})
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}

	if _, err := repo.LinkRelation(ctx, RelInCategory, productIDs, categoryIDs, []Pair{
		{SourceKey: "p1", TargetKey: toys},
		{SourceKey: "p2", TargetKey: toys},
	}); err != nil {
		t.Fatalf("LinkRelation IN_CATEGORY failed: %v", err)
	}
	if _, err := repo.LinkRelation(ctx, RelPurchased, userIDs, productIDs, []Pair{{SourceKey: "u1", TargetKey: "p1"}}); err != nil {
		t.Fatalf("LinkRelation PURCHASED failed: %v", err)
	}
	if _, err := repo.LinkRelation(ctx, RelFavorited, userIDs, productIDs, []Pair{{SourceKey: "u1", TargetKey: "p2"}}); err != nil {
		t.Fatalf("LinkRelation FAVORITED failed: %v", err)
	}

	profile, err := repo.SearchUser(ctx, idle)
	if err != nil {
		t.Fatalf("SearchUser failed: %v", err)
	}
	if profile == nil {
		t.Fatal("Expected the user to be found")
	}
	if len(profile.Purchased) != 0 || len(profile.Favorited) != 0 || len(profile.Returns) != 0 {
		t.Errorf("Expected empty subtrees, got purchased=%d favorited=%d returns=%d",
			len(profile.Purchased), len(profile.Favorited), len(profile.Returns))
	}

	missing, err := repo.SearchUser(ctx, "ghost-"+suffix)
	if err != nil {
		t.Fatalf("SearchUser for unknown user errored: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil profile for unknown user")
	}
}

func TestFileReturn_LinksUserAndProduct(t *testing.T) {
	repo, _, suffix := setupRepo(t)
	ctx := context.Background()

	username := "iris-" + suffix
	product := "scarf-" + suffix
	reason := fmt.Sprintf("wrong color %s", suffix)

	if _, err := repo.LoadUsers(ctx, []UserRecord{{Key: "u1", Username: username}}); err != nil {
		t.Fatalf("LoadUsers failed: %v", err)
	}
	if _, err := repo.LoadProducts(ctx, []ProductRecord{{Key: "p1", Name: product, Price: 15, Stock: 6}}); err != nil {
		t.Fatalf("LoadProducts failed: %v", err)
	}

	if _, err := repo.FileReturn(ctx, username, product, reason); err != nil {
		t.Fatalf("FileReturn failed: %v", err)
	}

	returns, err := repo.ReturnsOfUser(ctx, username)
	if err != nil {
		t.Fatalf("ReturnsOfUser failed: %v", err)
	}
	if len(returns) != 1 {
		t.Fatalf("Expected 1 return, got %d", len(returns))
	}
	if returns[0].Reason != reason {
		t.Errorf("Expected reason %q, got %q", reason, returns[0].Reason)
	}
	if len(returns[0].Products) != 1 || returns[0].Products[0].Name != product {
		t.Errorf("Expected return linked to %s, got %v", product, returns[0].Products)
	}
}
