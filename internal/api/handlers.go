package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleSearchUser(c *gin.Context) {
	username := c.Param("username")

	profile, err := s.catalog.SearchUser(c.Request.Context(), username)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found: " + username})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleFavorites(c *gin.Context) {
	username := c.Param("username")

	favorites, err := s.catalog.FavoritesOfUser(c.Request.Context(), username)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "favorites": favorites})
}

func (s *Server) handleReturns(c *gin.Context) {
	username := c.Param("username")

	returns, err := s.catalog.ReturnsOfUser(c.Request.Context(), username)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "returns": returns})
}

func (s *Server) handleRecommendations(c *gin.Context) {
	username := c.Param("username")

	recommendations, err := s.catalog.RecommendationsByCategory(c.Request.Context(), username, s.recommendationLimit)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": username, "recommendations": recommendations})
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	username := c.Param("username")

	var req struct {
		Product string `json:"product" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.catalog.AddFavorite(c.Request.Context(), username, req.Product); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "favorited", "product": req.Product})
}

func (s *Server) handleFileReturn(c *gin.Context) {
	username := c.Param("username")

	var req struct {
		Product string `json:"product" binding:"required"`
		Reason  string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filed, err := s.catalog.FileReturn(c.Request.Context(), username, req.Product, req.Reason)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, filed)
}

func (s *Server) handleSeed(c *gin.Context) {
	if err := s.seeder.Run(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Info("Seed triggered over HTTP")
	c.JSON(http.StatusOK, gin.H{"status": "seeded"})
}

func (s *Server) handleDropAll(c *gin.Context) {
	if err := s.catalog.DropAll(c.Request.Context()); err != nil {
		s.respondError(c, err)
		return
	}

	s.logger.Warn("All data dropped over HTTP")
	c.JSON(http.StatusOK, gin.H{"status": "dropped"})
}
