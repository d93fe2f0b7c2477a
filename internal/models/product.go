package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Catalog visibility values accepted by VisibilityInCatalog.
const (
	VisibilityVisible = "visible"
	VisibilityCatalog = "catalog"
	VisibilitySearch  = "search"
	VisibilityHidden  = "hidden"
)

// Tax status values accepted by TaxStatus.
const (
	TaxStatusTaxable  = "taxable"
	TaxStatusShipping = "shipping"
	TaxStatusNone     = "none"
)

// Attribute is a name/value pair owned by a product. Facet filters
// (brand, condition, gender, material) match against these entries.
type Attribute struct {
	Name    string `json:"name" bson:"name"`
	Value   string `json:"value" bson:"value"`
	Visible bool   `json:"visible" bson:"visible"`
	Global  bool   `json:"global" bson:"global"`
}

// Dimensions holds the physical size of a product. All sides are
// nullable; a CSV export frequently omits them.
type Dimensions struct {
	Length *float64 `json:"length,omitempty" bson:"length,omitempty"`
	Width  *float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height *float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// Product is the canonical catalog entity. ProductID and SKU are unique.
// Categories holds references into the categories collection.
type Product struct {
	ID                   primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	ProductID            int64                `json:"productId" bson:"productId" binding:"required"`
	Type                 string               `json:"type" bson:"type"`
	SKU                  string               `json:"sku" bson:"sku" binding:"required"`
	Name                 string               `json:"name" bson:"name" binding:"required"`
	Published            bool                 `json:"published" bson:"published"`
	IsFeatured           bool                 `json:"isFeatured" bson:"isFeatured"`
	VisibilityInCatalog  string               `json:"visibilityInCatalog" bson:"visibilityInCatalog"`
	ShortDescription     string               `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	Description          string               `json:"description,omitempty" bson:"description,omitempty"`
	DateOnSaleFrom       *time.Time           `json:"dateOnSaleFrom,omitempty" bson:"dateOnSaleFrom,omitempty"`
	DateOnSaleTo         *time.Time           `json:"dateOnSaleTo,omitempty" bson:"dateOnSaleTo,omitempty"`
	TaxStatus            string               `json:"taxStatus" bson:"taxStatus"`
	TaxClass             string               `json:"taxClass,omitempty" bson:"taxClass,omitempty"`
	InStock              bool                 `json:"inStock" bson:"inStock"`
	Stock                int64                `json:"stock" bson:"stock"`
	LowStockAmount       *int64               `json:"lowStockAmount,omitempty" bson:"lowStockAmount,omitempty"`
	BackordersAllowed    bool                 `json:"backordersAllowed" bson:"backordersAllowed"`
	SoldIndividually     bool                 `json:"soldIndividually" bson:"soldIndividually"`
	Weight               *float64             `json:"weight,omitempty" bson:"weight,omitempty"`
	Dimensions           Dimensions           `json:"dimensions" bson:"dimensions"`
	AllowCustomerReviews bool                 `json:"allowCustomerReviews" bson:"allowCustomerReviews"`
	PurchaseNote         string               `json:"purchaseNote,omitempty" bson:"purchaseNote,omitempty"`
	SalePrice            *float64             `json:"salePrice,omitempty" bson:"salePrice,omitempty"`
	RegularPrice         float64              `json:"regularPrice" bson:"regularPrice"`
	Categories           []primitive.ObjectID `json:"categories" bson:"categories"`
	Tags                 []string             `json:"tags" bson:"tags"`
	Images               []string             `json:"images" bson:"images"`
	Attributes           []Attribute          `json:"attributes" bson:"attributes"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// ProductUpdate holds the patchable fields of a product. Nil pointers
// mean "leave unchanged".
type ProductUpdate struct {
	Type                *string              `json:"type,omitempty"`
	Name                *string              `json:"name,omitempty"`
	Published           *bool                `json:"published,omitempty"`
	IsFeatured          *bool                `json:"isFeatured,omitempty"`
	VisibilityInCatalog *string              `json:"visibilityInCatalog,omitempty"`
	ShortDescription    *string              `json:"shortDescription,omitempty"`
	Description         *string              `json:"description,omitempty"`
	TaxStatus           *string              `json:"taxStatus,omitempty"`
	InStock             *bool                `json:"inStock,omitempty"`
	Stock               *int64               `json:"stock,omitempty"`
	SalePrice           *float64             `json:"salePrice,omitempty"`
	RegularPrice        *float64             `json:"regularPrice,omitempty"`
	Categories          []primitive.ObjectID `json:"categories,omitempty"`
	Tags                []string             `json:"tags,omitempty"`
	Images              []string             `json:"images,omitempty"`
	Attributes          []Attribute          `json:"attributes,omitempty"`
}
