package catalog

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxury-catalog/internal/models"
)

// ProductStore is the slice of the product repository the import
// pipeline needs.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	InsertMany(ctx context.Context, products []*models.Product) (int, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// CategoryStore persists categories during import. UpsertBySlug is
// find-or-create keyed on slug: an existing document gets its name,
// path and parent refreshed, and in either case the document ID comes
// back so products can reference it.
type CategoryStore interface {
	UpsertBySlug(ctx context.Context, category *models.Category) (primitive.ObjectID, error)
}
