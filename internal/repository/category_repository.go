package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"luxury-catalog/internal/models"
)

type CategoryRepository struct {
	collection *mongo.Collection
}

func NewCategoryRepository(collection *mongo.Collection) *CategoryRepository {
	return &CategoryRepository{collection: collection}
}

func (r *CategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// UpsertBySlug finds or creates a category keyed on slug, refreshing
// name, path and parent on an existing document. Import runs call this
// repeatedly; resolving the same path twice never duplicates a node.
func (r *CategoryRepository) UpsertBySlug(ctx context.Context, category *models.Category) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":   category.Name,
		"path":   category.Path,
		"parent": category.Parent,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.Category
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"slug": category.Slug}, update, opts).Decode(&saved)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return saved.ID, nil
}

// FindIDsByPathPattern returns the IDs of categories whose path matches
// the given case-insensitive pattern. The filter builder feeds these
// into a membership predicate on Product.categories.
func (r *CategoryRepository) FindIDsByPathPattern(ctx context.Context, pattern string) ([]primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	filter := bson.M{"path": primitive.Regex{Pattern: pattern, Options: "i"}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "path", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Tree assembles the category hierarchy. Children are derived by
// reverse lookup on parent, never stored.
func (r *CategoryRepository) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	categories, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make(map[primitive.ObjectID]*models.CategoryNode, len(categories))
	for i := range categories {
		nodes[categories[i].ID] = &models.CategoryNode{
			Category: categories[i],
			Children: []*models.CategoryNode{},
		}
	}

	roots := make([]*models.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.Parent != nil {
			if parent, ok := nodes[*c.Parent]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots, nil
}
