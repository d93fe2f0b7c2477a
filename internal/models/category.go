package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is one node of the category tree. Slug is unique and derived
// from the full delimited path, so two branches sharing a leaf name never
// collide. Parent is a back-reference only; children are computed by
// reverse lookup, never stored.
type Category struct {
	ID     primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string              `json:"name" bson:"name"`
	Slug   string              `json:"slug" bson:"slug"`
	Path   string              `json:"path" bson:"path"`
	Parent *primitive.ObjectID `json:"parent,omitempty" bson:"parent,omitempty"`
}

// CategoryNode is a category with its children resolved, as returned by
// the category tree endpoint.
type CategoryNode struct {
	Category `bson:",inline"`
	Children []*CategoryNode `json:"children"`
}
