package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"luxury-catalog/internal/cache"
	"luxury-catalog/internal/catalog"
	"luxury-catalog/internal/handlers"
	"luxury-catalog/internal/repository"
)

// RegisterRoutes wires repositories, the import pipeline and handlers
// onto the router. importMode comes from deployment configuration.
func RegisterRoutes(router *gin.Engine, db *mongo.Database, store *cache.Cache, importMode catalog.Mode) {
	products := repository.NewProductRepository(db.Collection("products"))
	categories := repository.NewCategoryRepository(db.Collection("categories"))

	normalizer := catalog.NewNormalizer(catalog.SpreadsheetHeaders, nil)
	pipeline := catalog.NewPipeline(products, categories, normalizer, nil)

	productHandler := handlers.NewProductHandler(products, categories, store)
	importHandler := handlers.NewImportHandler(pipeline, importMode, catalog.SpreadsheetHeaders, store)
	categoryHandler := handlers.NewCategoryHandler(categories, store)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "luxury-catalog", "status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/products", productHandler.ListProducts)
		api.POST("/products", productHandler.CreateProduct)
		api.GET("/products/import/template", importHandler.ImportTemplate)
		api.POST("/products/import", importHandler.ImportProducts)
		api.GET("/products/:id", productHandler.GetProduct)
		api.PATCH("/products/:id", productHandler.UpdateProduct)
		api.DELETE("/products/:id", productHandler.DeleteProduct)
		api.GET("/categories", categoryHandler.GetCategories)
	}
}

// EnsureIndexes creates the indexes both repositories need.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	products := repository.NewProductRepository(db.Collection("products"))
	categories := repository.NewCategoryRepository(db.Collection("categories"))

	if err := products.EnsureIndexes(ctx); err != nil {
		return err
	}
	return categories.EnsureIndexes(ctx)
}
