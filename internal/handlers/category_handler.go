package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"luxury-catalog/internal/cache"
	"luxury-catalog/internal/repository"
)

type CategoryHandler struct {
	repo  *repository.CategoryRepository
	cache *cache.Cache
}

func NewCategoryHandler(repo *repository.CategoryRepository, c *cache.Cache) *CategoryHandler {
	return &CategoryHandler{repo: repo, cache: c}
}

// GET /api/categories
//
// Returns the category tree. Children are derived from parent
// back-references at read time.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	const cacheKey = "categories:tree"
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	tree, err := h.repo.Tree(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not fetch categories"})
		return
	}

	response := gin.H{"categories": tree}
	h.cache.Set(cacheKey, response, 5*time.Minute)
	c.JSON(http.StatusOK, response)
}
