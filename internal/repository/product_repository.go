package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxury-catalog/internal/catalog"
	"luxury-catalog/internal/models"
)

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("product not found")

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 3 * time.Second
	queryTimeout = 10 * time.Second
)

type ProductRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(collection *mongo.Collection) *ProductRepository {
	return &ProductRepository{collection: collection}
}

// EnsureIndexes creates the unique and text-search indexes the filter
// builder relies on. Safe to call on every startup.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "productId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sku", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "name", Value: "text"},
				{Key: "shortDescription", Value: "text"},
				{Key: "description", Value: "text"},
				{Key: "tags", Value: "text"},
				{Key: "attributes.value", Value: "text"},
			},
		},
	})
	return err
}

// Create inserts a new product, stamping ID and timestamps.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	product.ID = primitive.NewObjectID()
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// InsertMany bulk-inserts a batch, returning how many documents went in.
func (r *ProductRepository) InsertMany(ctx context.Context, products []*models.Product) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now()
	docs := make([]interface{}, len(products))
	for i, p := range products {
		p.ID = primitive.NewObjectID()
		p.CreatedAt = now
		p.UpdatedAt = now
		docs[i] = p
	}

	res, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// DeleteAll removes every product. Used by the replace-all import.
func (r *ProductRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID")
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindWithSpec runs the listing pipeline and its count form. The count
// runs in parallel; it applies the same predicates without pagination,
// so total always agrees with paging through every page.
func (r *ProductRepository) FindWithSpec(ctx context.Context, spec *catalog.FilterSpec) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)

	go func() {
		cursor, err := r.collection.Aggregate(ctx, spec.CountStages())
		if err != nil {
			errCh <- err
			return
		}
		defer cursor.Close(ctx)

		var counts []struct {
			Total int64 `bson:"total"`
		}
		if err := cursor.All(ctx, &counts); err != nil {
			errCh <- err
			return
		}
		if len(counts) == 0 {
			totalCh <- 0
			return
		}
		totalCh <- counts[0].Total
	}()

	cursor, err := r.collection.Aggregate(ctx, spec.Stages())
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	select {
	case total := <-totalCh:
		return products, total, nil
	case err := <-errCh:
		return products, 0, err
	case <-ctx.Done():
		return products, 0, ctx.Err()
	}
}

// Update applies a partial update and stamps updatedAt.
func (r *ProductRepository) Update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}

	update["updatedAt"] = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a product permanently. The catalog has no soft-delete.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid product ID")
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
