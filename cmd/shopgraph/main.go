package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"shopgraph/internal/graph"
	"shopgraph/internal/seed"
	"shopgraph/pkg/config"
	"shopgraph/pkg/errors"
	"shopgraph/pkg/logger"
)

const menu = `
1 -- Seed catalog data
2 -- Search user
3 -- User favorites
4 -- User returns
5 -- Add favorite
6 -- File a return
7 -- Recommendations by category
8 -- Drop all data
9 -- Exit
`

func main() {
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity",
			zap.String("uri", cfg.Neo4jURI),
			zap.Error(errors.NewGraphConnectionFailed(cfg.Neo4jURI, err)),
		)
	}

	repo := graph.NewRepository(driver)
	seeder := seed.NewSeeder(repo, cfg.DataDir)

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to set up schema", zap.Error(err))
	}

	shell := &shell{
		repo:   repo,
		seeder: seeder,
		cfg:    cfg,
		in:     bufio.NewScanner(os.Stdin),
	}
	shell.run(ctx)
}

type shell struct {
	repo   *graph.Repository
	seeder *seed.Seeder
	cfg    *config.Config
	in     *bufio.Scanner
}

// run loops the menu until exit. Per-action errors print a message and
// return to the menu; only startup failures terminate the process.
func (s *shell) run(ctx context.Context) {
	for {
		fmt.Print(menu)
		choice := s.prompt("Enter your choice")

		switch choice {
		case "1":
			s.report(s.seeder.Run(ctx))
		case "2":
			s.searchUser(ctx)
		case "3":
			s.favorites(ctx)
		case "4":
			s.returns(ctx)
		case "5":
			s.addFavorite(ctx)
		case "6":
			s.fileReturn(ctx)
		case "7":
			s.recommendations(ctx)
		case "8":
			s.report(s.repo.DropAll(ctx))
		case "9", "":
			fmt.Println("Bye.")
			return
		default:
			fmt.Printf("Unknown option: %s\n", choice)
		}
	}
}

func (s *shell) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !s.in.Scan() {
		return ""
	}
	return strings.TrimSpace(s.in.Text())
}

func (s *shell) report(err error) {
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("Done.")
}

func (s *shell) searchUser(ctx context.Context) {
	username := s.prompt("Username")

	profile, err := s.repo.SearchUser(ctx, username)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if profile == nil {
		fmt.Printf("User %q not found.\n", username)
		return
	}

	fmt.Printf("\n%s  <%s>  %s\n", profile.Username, profile.Email, profile.Phone)
	fmt.Printf("  born %s, joined %s\n", profile.Birthdate, profile.CreatedAt)
	fmt.Printf("  Purchased (%d):\n", len(profile.Purchased))
	for _, p := range profile.Purchased {
		fmt.Printf("    - %s ($%.2f)\n", p.Name, p.Price)
	}
	fmt.Printf("  Favorited (%d):\n", len(profile.Favorited))
	for _, p := range profile.Favorited {
		fmt.Printf("    - %s ($%.2f)\n", p.Name, p.Price)
	}
	fmt.Printf("  Returns (%d):\n", len(profile.Returns))
	for _, ret := range profile.Returns {
		fmt.Printf("    - %q\n", ret.Reason)
		for _, p := range ret.Products {
			fmt.Printf("      for %s ($%.2f)\n", p.Name, p.Price)
		}
	}
}

func (s *shell) favorites(ctx context.Context) {
	username := s.prompt("Username")

	favorites, err := s.repo.FavoritesOfUser(ctx, username)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(favorites) == 0 {
		fmt.Printf("No favorites found for %q.\n", username)
		return
	}

	for _, p := range favorites {
		fmt.Printf("  - %s ($%.2f, stock %d): %s\n", p.Name, p.Price, p.Stock, p.Description)
	}
}

func (s *shell) returns(ctx context.Context) {
	username := s.prompt("Username")

	returns, err := s.repo.ReturnsOfUser(ctx, username)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(returns) == 0 {
		fmt.Printf("No returns found for %q.\n", username)
		return
	}

	for _, ret := range returns {
		fmt.Printf("  - %q\n", ret.Reason)
		for _, p := range ret.Products {
			fmt.Printf("    for %s ($%.2f)\n", p.Name, p.Price)
		}
	}
}

func (s *shell) addFavorite(ctx context.Context) {
	username := s.prompt("Username")
	product := s.prompt("Product name")

	if err := s.repo.AddFavorite(ctx, username, product); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Added %q to favorites of %q.\n", product, username)
}

func (s *shell) fileReturn(ctx context.Context) {
	username := s.prompt("Username")
	product := s.prompt("Product name to return")
	reason := s.prompt("Reason")

	if _, err := s.repo.FileReturn(ctx, username, product, reason); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("Return filed for %q by %q.\n", product, username)
}

func (s *shell) recommendations(ctx context.Context) {
	username := s.prompt("Username")

	recommendations, err := s.repo.RecommendationsByCategory(ctx, username, s.cfg.RecommendationLimit)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(recommendations) == 0 {
		fmt.Printf("No recommendations for %q; favorite something first.\n", username)
		return
	}

	for _, rec := range recommendations {
		fmt.Printf("  %s:\n", rec.Category)
		if len(rec.Products) == 0 {
			fmt.Println("    (nothing new in this category)")
		}
		for _, p := range rec.Products {
			fmt.Printf("    - %s ($%.2f, stock %d): %s\n", p.Name, p.Price, p.Stock, p.Description)
		}
	}
}
