package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"shopgraph/internal/graph"
)

// End-to-end seed test against a running Neo4j instance at
// bolt://localhost:7687 (user neo4j, password "password"). Skipped with
// -short. The generated CSVs namespace all values with a unique suffix so
// the test can clean up after itself.
func TestSeeder_Run(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := neo4j.NewDriverWithContext("bolt://localhost:7687", neo4j.BasicAuth("neo4j", "password", ""))
	if err != nil {
		t.Fatalf("Failed to create driver: %v", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		t.Fatalf("Failed to verify connectivity: %v", err)
	}
	defer driver.Close(ctx)

	suffix := time.Now().Format("20060102150405.000")
	defer func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		defer session.Close(ctx)
		_, _ = session.Run(ctx, `
			MATCH (n)
			WHERE n.username ENDS WITH $suffix
			   OR n.name ENDS WITH $suffix
			   OR n.reason ENDS WITH $suffix
			DETACH DELETE n
		`, map[string]interface{}{"suffix": suffix})
	}()

	dataDir := writeSeedFiles(t, suffix)

	repo := graph.NewRepository(driver)
	if err := repo.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	seeder := NewSeeder(repo, dataDir)
	if err := seeder.Run(ctx); err != nil {
		t.Fatalf("Seeder.Run failed: %v", err)
	}

	// The purchasing user has full subtrees
	profile, err := repo.SearchUser(ctx, "ana-"+suffix)
	if err != nil {
		t.Fatalf("SearchUser failed: %v", err)
	}
	if profile == nil {
		t.Fatal("Expected seeded user to be found")
	}
	if len(profile.Purchased) != 1 || len(profile.Favorited) != 1 || len(profile.Returns) != 1 {
		t.Errorf("Unexpected subtree sizes: purchased=%d favorited=%d returns=%d",
			len(profile.Purchased), len(profile.Favorited), len(profile.Returns))
	}

	// The second user was loaded but never linked
	idle, err := repo.SearchUser(ctx, "ben-"+suffix)
	if err != nil {
		t.Fatalf("SearchUser failed: %v", err)
	}
	if idle == nil {
		t.Fatal("Expected second seeded user to be found")
	}
	if len(idle.Purchased) != 0 || len(idle.Favorited) != 0 || len(idle.Returns) != 0 {
		t.Error("Expected second user to have empty subtrees")
	}
}

func writeSeedFiles(t *testing.T, suffix string) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		usersFile: fmt.Sprintf(`user_id,username,email,phone,birthdate,created_at
u1,ana-%s,ana@example.com,555-1,1990-01-01,2023-01-01T00:00:00Z
u2,ben-%s,ben@example.com,555-2,1992-02-02,2023-02-02T00:00:00Z
`, suffix, suffix),
		productsFile: fmt.Sprintf(`product_id,name,price,description,stock
p1,novel-%s,12.50,paperback,4
p2,puzzle-%s,18.00,alpine panorama,9
`, suffix, suffix),
		categoriesFile: fmt.Sprintf(`category
Books-%s
`, suffix),
		returnsFile: fmt.Sprintf(`return_id,reason
r1,damaged-%s
`, suffix),
		favoritesFile: `user_id,product_id
u1,p2
`,
		purchasesFile: `user_id,product_id
u1,p1
u1,missing-product
`,
		filedReturnsFile: `user_id,return_id
u1,r1
`,
		productCategoriesFile: fmt.Sprintf(`product_id,category
p1,Books-%s
`, suffix),
		returnProductsFile: `return_id,product_id
r1,p1
`,
	}

	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return dir
}
