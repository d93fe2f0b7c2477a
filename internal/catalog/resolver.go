package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"luxury-catalog/internal/models"
)

// PathDelimiter separates segments of a hierarchical category path,
// e.g. "Watches > Men > Automatic".
const PathDelimiter = ">"

// CategoryArena accumulates the category hierarchy seen across an
// import file. Phase one: AddPath for every row, which records one node
// per path prefix, first occurrence winning. Phase two: Persist, which
// upserts every node (parents before children) and returns the
// slug-to-ID mapping used to resolve product category references.
type CategoryArena struct {
	order []string
	nodes map[string]*arenaNode
}

type arenaNode struct {
	name       string
	path       string
	parentSlug string
}

func NewCategoryArena() *CategoryArena {
	return &CategoryArena{nodes: make(map[string]*arenaNode)}
}

// AddPath registers every prefix of a delimited category path and
// returns the slug of the leaf, or "" when the path is empty. An empty
// categories field is not an error; the product simply has no
// categories.
func (a *CategoryArena) AddPath(path string) string {
	segments := splitTrim(path, PathDelimiter)
	if len(segments) == 0 {
		return ""
	}

	var current string
	var parentSlug string
	for _, name := range segments {
		if current == "" {
			current = name
		} else {
			current += " " + PathDelimiter + " " + name
		}
		slug := Slugify(current)
		if _, seen := a.nodes[slug]; !seen {
			a.nodes[slug] = &arenaNode{name: name, path: current, parentSlug: parentSlug}
			a.order = append(a.order, slug)
		}
		parentSlug = slug
	}
	return parentSlug
}

// Len reports how many distinct categories the arena holds.
func (a *CategoryArena) Len() int { return len(a.nodes) }

// Persist upserts every arena node and returns slug → persisted ID.
// Nodes were registered prefix-first, so a parent's ID is always known
// by the time its child is written.
func (a *CategoryArena) Persist(ctx context.Context, store CategoryStore) (map[string]primitive.ObjectID, error) {
	ids := make(map[string]primitive.ObjectID, len(a.order))
	for _, slug := range a.order {
		node := a.nodes[slug]
		cat := &models.Category{
			Name: node.name,
			Slug: slug,
			Path: node.path,
		}
		if node.parentSlug != "" {
			parentID, ok := ids[node.parentSlug]
			if !ok {
				return nil, fmt.Errorf("category %q persisted before its parent %q", slug, node.parentSlug)
			}
			cat.Parent = &parentID
		}
		id, err := store.UpsertBySlug(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("upsert category %q: %w", slug, err)
		}
		ids[slug] = id
	}
	return ids, nil
}

// splitTrim splits on sep and trims each piece, dropping empties.
func splitTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
