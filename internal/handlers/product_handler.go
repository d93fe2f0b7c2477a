package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxury-catalog/internal/cache"
	"luxury-catalog/internal/catalog"
	"luxury-catalog/internal/models"
	"luxury-catalog/internal/repository"
)

const (
	listCacheTTL    = 2 * time.Minute
	productCacheTTL = 5 * time.Minute
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ProductListResponse struct {
	Total    int64            `json:"total"`
	Products []models.Product `json:"products"`
}

type ProductHandler struct {
	repo       *repository.ProductRepository
	categories *repository.CategoryRepository
	cache      *cache.Cache
}

func NewProductHandler(repo *repository.ProductRepository, categories *repository.CategoryRepository, c *cache.Cache) *ProductHandler {
	return &ProductHandler{repo: repo, categories: categories, cache: c}
}

// GET /api/products
//
// Query binding doubles as the upfront validation stage: ill-typed or
// out-of-range parameters come back 400 before any query is built.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filter catalog.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	cacheKey := "products:list:" + c.Request.URL.RawQuery
	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	var categoryIDs []primitive.ObjectID
	if filter.HasCategory() {
		pattern := catalog.CategoryPathPattern(filter.Category)
		ids, err := h.categories.FindIDsByPathPattern(c.Request.Context(), pattern)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not resolve category filter"})
			return
		}
		categoryIDs = ids
	}

	products, total, err := h.repo.FindWithSpec(c.Request.Context(), filter.Spec(categoryIDs))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not fetch products"})
		return
	}

	response := ProductListResponse{Total: total, Products: products}
	h.cache.Set(cacheKey, response, listCacheTTL)
	c.JSON(http.StatusOK, response)
}

// GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")
	cacheKey := fmt.Sprintf("product:%s", productID)

	if cached, found := h.cache.Get(cacheKey); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	product, err := h.repo.FindByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not fetch product"})
		return
	}

	h.cache.Set(cacheKey, product, productCacheTTL)
	c.JSON(http.StatusOK, product)
}

// POST /api/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if product.VisibilityInCatalog == "" {
		product.VisibilityInCatalog = models.VisibilityVisible
	}
	if product.TaxStatus == "" {
		product.TaxStatus = models.TaxStatusTaxable
	}

	if err := h.repo.Create(c.Request.Context(), &product); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not create product"})
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusCreated, product)
}

// PATCH /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	updateMap := buildUpdateMap(&update)
	if len(updateMap) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no valid fields to update"})
		return
	}

	if err := h.repo.Update(c.Request.Context(), productID, updateMap); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not update product"})
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

// DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not delete product"})
		return
	}

	h.cache.Delete(fmt.Sprintf("product:%s", productID))
	h.cache.DeleteByPrefix("products:list:")
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

func buildUpdateMap(u *models.ProductUpdate) bson.M {
	m := bson.M{}
	if u.Type != nil {
		m["type"] = *u.Type
	}
	if u.Name != nil {
		m["name"] = *u.Name
	}
	if u.Published != nil {
		m["published"] = *u.Published
	}
	if u.IsFeatured != nil {
		m["isFeatured"] = *u.IsFeatured
	}
	if u.VisibilityInCatalog != nil {
		m["visibilityInCatalog"] = *u.VisibilityInCatalog
	}
	if u.ShortDescription != nil {
		m["shortDescription"] = *u.ShortDescription
	}
	if u.Description != nil {
		m["description"] = *u.Description
	}
	if u.TaxStatus != nil {
		m["taxStatus"] = *u.TaxStatus
	}
	if u.InStock != nil {
		m["inStock"] = *u.InStock
	}
	if u.Stock != nil {
		m["stock"] = *u.Stock
	}
	if u.SalePrice != nil {
		m["salePrice"] = *u.SalePrice
	}
	if u.RegularPrice != nil {
		m["regularPrice"] = *u.RegularPrice
	}
	if u.Categories != nil {
		m["categories"] = u.Categories
	}
	if u.Tags != nil {
		m["tags"] = u.Tags
	}
	if u.Images != nil {
		m["images"] = u.Images
	}
	if u.Attributes != nil {
		m["attributes"] = u.Attributes
	}
	return m
}
