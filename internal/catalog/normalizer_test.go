package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowFrom(fields map[string]string) Row {
	headers := make([]string, 0, len(fields))
	record := make([]string, 0, len(fields))
	for h, v := range fields {
		headers = append(headers, h)
		record = append(record, v)
	}
	return NewRow(headers, record, 2)
}

func TestNormalizeFullRow(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)

	rec, err := n.Normalize(rowFrom(map[string]string{
		"ID":                     "42",
		"Type":                   "simple",
		"SKU":                    "LUX-001",
		"Name":                   "Rolex Datejust",
		"Published":              "1",
		"Is featured?":           "0",
		"Visibility in catalog":  "visible",
		"Short description":      "A watch",
		"Description":            "A very nice watch",
		"Date sale price starts": "2024-03-01",
		"Tax status":             "taxable",
		"In stock?":              "1",
		"Stock":                  "3",
		"Low stock amount":       "1",
		"Backorders allowed?":    "0",
		"Sold individually?":     "1",
		"Weight (kg)":            "0.25",
		"Length (cm)":            "4.1",
		"Regular price":          "8999.50",
		"Sale price":             "7999",
		"Categories":             "Watches > Men, Watches > Luxury",
		"Tags":                   "rolex, datejust",
		"Images":                 "https://cdn.example.com/a.jpg , https://cdn.example.com/b.jpg",
		"Attribute 1 name":       "BRAND",
		"Attribute 1 value(s)":   "Rolex",
		"Attribute 1 visible":    "1",
		"Attribute 1 global":     "1",
		"Attribute 2 name":       "CONDITION",
		"Attribute 2 value(s)":   "Pre-owned",
	}))
	require.NoError(t, err)

	p := rec.Product
	assert.Equal(t, int64(42), p.ProductID)
	assert.Equal(t, "LUX-001", p.SKU)
	assert.True(t, p.Published)
	assert.False(t, p.IsFeatured)
	assert.True(t, p.InStock)
	assert.True(t, p.SoldIndividually)
	assert.False(t, p.BackordersAllowed)
	assert.Equal(t, int64(3), p.Stock)
	require.NotNil(t, p.LowStockAmount)
	assert.Equal(t, int64(1), *p.LowStockAmount)
	require.NotNil(t, p.Weight)
	assert.Equal(t, 0.25, *p.Weight)
	require.NotNil(t, p.Dimensions.Length)
	assert.Equal(t, 4.1, *p.Dimensions.Length)
	assert.Nil(t, p.Dimensions.Width)
	assert.Equal(t, 8999.50, p.RegularPrice)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, 7999.0, *p.SalePrice)
	require.NotNil(t, p.DateOnSaleFrom)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *p.DateOnSaleFrom)
	assert.Nil(t, p.DateOnSaleTo)
	assert.Equal(t, []string{"rolex", "datejust"}, p.Tags)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, p.Images)
	assert.Equal(t, []string{"Watches > Men", "Watches > Luxury"}, rec.CategoryPaths)

	require.Len(t, p.Attributes, 2)
	assert.Equal(t, "BRAND", p.Attributes[0].Name)
	assert.Equal(t, "Rolex", p.Attributes[0].Value)
	assert.True(t, p.Attributes[0].Visible)
	assert.True(t, p.Attributes[0].Global)
	assert.Equal(t, "CONDITION", p.Attributes[1].Name)
	assert.False(t, p.Attributes[1].Visible)
}

func TestNormalizeRejectsBadID(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)

	for _, id := range []string{"", "abc", "12.5"} {
		_, err := n.Normalize(rowFrom(map[string]string{"ID": id, "Name": "x"}))
		require.Error(t, err, "ID %q", id)
		var rowErr *RowError
		assert.ErrorAs(t, err, &rowErr)
		assert.Equal(t, 2, rowErr.Line)
	}
}

func TestNormalizeFlagDecoding(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)
	flagHeaders := []string{
		"Published", "Is featured?", "In stock?",
		"Backorders allowed?", "Sold individually?", "Allow customer reviews?",
	}

	read := func(p interface{}, header string) bool {
		rec := p.(*Record)
		switch header {
		case "Published":
			return rec.Product.Published
		case "Is featured?":
			return rec.Product.IsFeatured
		case "In stock?":
			return rec.Product.InStock
		case "Backorders allowed?":
			return rec.Product.BackordersAllowed
		case "Sold individually?":
			return rec.Product.SoldIndividually
		default:
			return rec.Product.AllowCustomerReviews
		}
	}

	for _, header := range flagHeaders {
		// "1" is true
		rec, err := n.Normalize(rowFrom(map[string]string{"ID": "1", header: "1"}))
		require.NoError(t, err)
		assert.True(t, read(rec, header), "%s=1", header)

		// "0", "", and absence are all false
		for _, v := range []string{"0", "", "true", "yes"} {
			rec, err = n.Normalize(rowFrom(map[string]string{"ID": "1", header: v}))
			require.NoError(t, err)
			assert.False(t, read(rec, header), "%s=%q", header, v)
		}
		rec, err = n.Normalize(rowFrom(map[string]string{"ID": "1"}))
		require.NoError(t, err)
		assert.False(t, read(rec, header), "%s absent", header)
	}
}

func TestNormalizeNumericFallbacks(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)

	rec, err := n.Normalize(rowFrom(map[string]string{
		"ID":               "7",
		"Stock":            "not-a-number",
		"Regular price":    "",
		"Sale price":       "junk",
		"Weight (kg)":      "",
		"Low stock amount": "x",
	}))
	require.NoError(t, err)

	assert.Equal(t, int64(0), rec.Product.Stock)
	assert.Equal(t, 0.0, rec.Product.RegularPrice)
	assert.Nil(t, rec.Product.SalePrice)
	assert.Nil(t, rec.Product.Weight)
	assert.Nil(t, rec.Product.LowStockAmount)
}

func TestNormalizeLegacyAttributeLabels(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)

	rec, err := n.Normalize(rowFrom(map[string]string{
		"ID":                   "9",
		"Attribute 1 value(s)": "Cartier",
		"Attribute 3 value(s)": "Ladies",
		// index 2 has no value: no CONDITION entry
	}))
	require.NoError(t, err)

	require.Len(t, rec.Product.Attributes, 2)
	assert.Equal(t, "BRAND", rec.Product.Attributes[0].Name)
	assert.Equal(t, "Cartier", rec.Product.Attributes[0].Value)
	assert.Equal(t, "GENDER", rec.Product.Attributes[1].Name)
	assert.Equal(t, "Ladies", rec.Product.Attributes[1].Value)
}

func TestNormalizeDefaults(t *testing.T) {
	n := NewNormalizer(SpreadsheetHeaders, nil)

	rec, err := n.Normalize(rowFrom(map[string]string{"ID": "3"}))
	require.NoError(t, err)

	assert.Equal(t, "visible", rec.Product.VisibilityInCatalog)
	assert.Equal(t, "taxable", rec.Product.TaxStatus)
	assert.Empty(t, rec.Product.Tags)
	assert.Empty(t, rec.CategoryPaths)
}

func TestRowTrimsHeadersAndValues(t *testing.T) {
	row := NewRow([]string{"  ID ", " Name"}, []string{" 5 ", " Watch "}, 2)
	assert.Equal(t, "5", row.Get("ID"))
	assert.Equal(t, "Watch", row.Get("Name"))
}
