package seed

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"shopgraph/internal/graph"
	"shopgraph/pkg/logger"
)

// Seed file names expected under the data directory.
const (
	usersFile             = "users.csv"
	productsFile          = "products.csv"
	categoriesFile        = "categories.csv"
	returnsFile           = "returns.csv"
	favoritesFile         = "favorites.csv"
	purchasesFile         = "purchases.csv"
	filedReturnsFile      = "filed_returns.csv"
	productCategoriesFile = "product_categories.csv"
	returnProductsFile    = "return_products.csv"
)

// Seeder brings the store from empty to fully populated: entities first,
// then the five relationship kinds. It never retries and never rolls back
// across stages; a failed stage aborts the run with whatever earlier stages
// already committed. Running against a non-empty store duplicates data, so
// drop the store first for a clean reload.
type Seeder struct {
	repo    *graph.Repository
	dataDir string
	logger  *zap.Logger
}

// NewSeeder creates a seeder reading CSV files from dataDir
func NewSeeder(repo *graph.Repository, dataDir string) *Seeder {
	return &Seeder{
		repo:    repo,
		dataDir: dataDir,
		logger:  logger.Get(),
	}
}

// Run executes the full load orchestration
func (s *Seeder) Run(ctx context.Context) error {
	s.logger.Info("Seeding catalog data", zap.String("data_dir", s.dataDir))

	// Stage 1: entities. The identifier maps produced here are the only
	// bridge to stage 2; they are never re-fetched from the store.
	userIDs, err := s.loadUsers(ctx)
	if err != nil {
		return err
	}
	productIDs, err := s.loadProducts(ctx)
	if err != nil {
		return err
	}
	categoryIDs, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}
	returnIDs, err := s.loadReturns(ctx)
	if err != nil {
		return err
	}

	// Stage 2: relationships, one transaction per kind. A failure stops the
	// run but keeps earlier relations committed.
	links := []struct {
		file         string
		relType      string
		sourceColumn string
		targetColumn string
		sourceMap    graph.IDMap
		targetMap    graph.IDMap
	}{
		{favoritesFile, graph.RelFavorited, "user_id", "product_id", userIDs, productIDs},
		{purchasesFile, graph.RelPurchased, "user_id", "product_id", userIDs, productIDs},
		{filedReturnsFile, graph.RelFiled, "user_id", "return_id", userIDs, returnIDs},
		{productCategoriesFile, graph.RelInCategory, "product_id", "category", productIDs, categoryIDs},
		{returnProductsFile, graph.RelOfProduct, "return_id", "product_id", returnIDs, productIDs},
	}

	for _, link := range links {
		pairs, err := s.parsePairs(link.file, link.sourceColumn, link.targetColumn)
		if err != nil {
			return err
		}
		if _, err := s.repo.LinkRelation(ctx, link.relType, link.sourceMap, link.targetMap, pairs); err != nil {
			return err
		}
	}

	s.logger.Info("Seed complete",
		zap.Int("users", len(userIDs)),
		zap.Int("products", len(productIDs)),
		zap.Int("categories", len(categoryIDs)),
		zap.Int("returns", len(returnIDs)),
	)
	return nil
}

func (s *Seeder) loadUsers(ctx context.Context) (graph.IDMap, error) {
	file, err := s.open(usersFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ParseUsers(usersFile, file)
	if err != nil {
		return nil, err
	}
	return s.repo.LoadUsers(ctx, records)
}

func (s *Seeder) loadProducts(ctx context.Context) (graph.IDMap, error) {
	file, err := s.open(productsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ParseProducts(productsFile, file)
	if err != nil {
		return nil, err
	}
	return s.repo.LoadProducts(ctx, records)
}

func (s *Seeder) loadCategories(ctx context.Context) (graph.IDMap, error) {
	file, err := s.open(categoriesFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ParseCategories(categoriesFile, file)
	if err != nil {
		return nil, err
	}
	return s.repo.LoadCategories(ctx, records)
}

func (s *Seeder) loadReturns(ctx context.Context) (graph.IDMap, error) {
	file, err := s.open(returnsFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := ParseReturns(returnsFile, file)
	if err != nil {
		return nil, err
	}
	return s.repo.LoadReturns(ctx, records)
}

func (s *Seeder) parsePairs(name, sourceColumn, targetColumn string) ([]graph.Pair, error) {
	file, err := s.open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParsePairs(name, file, sourceColumn, targetColumn)
}

func (s *Seeder) open(name string) (*os.File, error) {
	return os.Open(filepath.Join(s.dataDir, name))
}
