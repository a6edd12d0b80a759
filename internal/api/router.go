package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopgraph/internal/graph"
	"shopgraph/pkg/errors"
)

// Catalog is the slice of the graph repository the HTTP façade consumes
type Catalog interface {
	SearchUser(ctx context.Context, username string) (*graph.UserProfile, error)
	FavoritesOfUser(ctx context.Context, username string) ([]graph.ProductInfo, error)
	ReturnsOfUser(ctx context.Context, username string) ([]graph.ReturnInfo, error)
	RecommendationsByCategory(ctx context.Context, username string, limit int) ([]graph.CategoryRecommendation, error)
	AddFavorite(ctx context.Context, username, productName string) error
	FileReturn(ctx context.Context, username, productName, reason string) (*graph.ReturnInfo, error)
	DropAll(ctx context.Context) error
}

// SeedRunner runs the full load orchestration
type SeedRunner interface {
	Run(ctx context.Context) error
}

// Server wires the catalog operations onto HTTP routes
type Server struct {
	catalog             Catalog
	seeder              SeedRunner
	recommendationLimit int
	logger              *zap.Logger
}

// NewServer creates the HTTP façade over the catalog
func NewServer(catalog Catalog, seeder SeedRunner, recommendationLimit int, log *zap.Logger) *Server {
	return &Server{
		catalog:             catalog,
		seeder:              seeder,
		recommendationLimit: recommendationLimit,
		logger:              log,
	}
}

// Router builds the Gin engine with all routes registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/users/:username", s.handleSearchUser)
		api.GET("/users/:username/favorites", s.handleFavorites)
		api.GET("/users/:username/returns", s.handleReturns)
		api.GET("/users/:username/recommendations", s.handleRecommendations)
		api.POST("/users/:username/favorites", s.handleAddFavorite)
		api.POST("/users/:username/returns", s.handleFileReturn)

		api.POST("/admin/seed", s.handleSeed)
		api.DELETE("/admin/data", s.handleDropAll)
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// respondError maps the error taxonomy onto HTTP statuses: lookup misses to
// 404, data errors to 400, everything else to 500.
func (s *Server) respondError(c *gin.Context, err error) {
	if errors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if errors.IsErrorType(err, errors.ErrorTypeData) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.logger.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
