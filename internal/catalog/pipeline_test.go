package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxury-catalog/internal/models"
)

type fakeProductStore struct {
	products   []models.Product
	deleteAlls int
	failOnSKU  string
}

func (s *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	if s.failOnSKU != "" && p.SKU == s.failOnSKU {
		return assert.AnError
	}
	s.products = append(s.products, *p)
	return nil
}

func (s *fakeProductStore) InsertMany(_ context.Context, ps []*models.Product) (int, error) {
	for _, p := range ps {
		s.products = append(s.products, *p)
	}
	return len(ps), nil
}

func (s *fakeProductStore) DeleteAll(_ context.Context) (int64, error) {
	s.deleteAlls++
	n := int64(len(s.products))
	s.products = nil
	return n, nil
}

func newTestPipeline(products *fakeProductStore, categories *fakeCategoryStore) *Pipeline {
	return NewPipeline(products, categories, NewNormalizer(SpreadsheetHeaders, nil), nil)
}

const importCSV = `ID,Type,SKU,Name,Published,In stock?,Stock,Regular price,Sale price,Categories,Attribute 1 name,Attribute 1 value(s)
1,simple,SKU-1,Test Product 1,1,1,10,100,90,Watches > Men,BRAND,Rolex
2,simple,SKU-2,Another Product,1,1,5,200,180,Watches > Men > Automatic,BRAND,Omega
oops,simple,SKU-3,Broken Row,1,1,1,50,,Watches,BRAND,Seiko
`

func TestUpsertStreamImportsRowsAndCategories(t *testing.T) {
	products := &fakeProductStore{}
	categories := newFakeCategoryStore()
	p := newTestPipeline(products, categories)

	result, err := p.UpsertStream(context.Background(), strings.NewReader(importCSV))
	require.NoError(t, err)

	// the bad-ID row counts as processed but not created
	assert.Equal(t, 3, result.TotalRowsProcessed)
	assert.Equal(t, 2, result.ProductsCreated)
	require.Len(t, products.products, 2)

	// category pass saw every row, including the one that later failed
	assert.Len(t, categories.bySlug, 3)
	assert.Contains(t, categories.bySlug, "watches")
	assert.Contains(t, categories.bySlug, "watches-men")
	assert.Contains(t, categories.bySlug, "watches-men-automatic")

	// products reference the leaf of their path
	first := products.products[0]
	require.Len(t, first.Categories, 1)
	assert.Equal(t, categories.bySlug["watches-men"], first.Categories[0])
}

func TestUpsertStreamIsolatesRowFailures(t *testing.T) {
	products := &fakeProductStore{failOnSKU: "SKU-1"}
	categories := newFakeCategoryStore()
	p := newTestPipeline(products, categories)

	result, err := p.UpsertStream(context.Background(), strings.NewReader(importCSV))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRowsProcessed)
	assert.Equal(t, 1, result.ProductsCreated)
	require.Len(t, products.products, 1)
	assert.Equal(t, "SKU-2", products.products[0].SKU)
}

func TestReplaceAllClearsThenInserts(t *testing.T) {
	products := &fakeProductStore{}
	products.products = []models.Product{{SKU: "OLD"}}
	categories := newFakeCategoryStore()
	p := newTestPipeline(products, categories)

	result, err := p.ReplaceAll(context.Background(), strings.NewReader(importCSV))
	require.NoError(t, err)

	assert.Equal(t, 1, products.deleteAlls)
	assert.Equal(t, 3, result.TotalRowsProcessed)
	assert.Equal(t, 2, result.ProductsCreated)

	skus := []string{products.products[0].SKU, products.products[1].SKU}
	assert.Equal(t, []string{"SKU-1", "SKU-2"}, skus)
}

func TestReplaceAllEmptyFileStillDeletes(t *testing.T) {
	products := &fakeProductStore{}
	products.products = []models.Product{{SKU: "OLD-1"}, {SKU: "OLD-2"}}
	p := newTestPipeline(products, newFakeCategoryStore())

	result, err := p.ReplaceAll(context.Background(), strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 1, products.deleteAlls)
	assert.Empty(t, products.products)
	assert.Equal(t, 0, result.TotalRowsProcessed)
	assert.Equal(t, 0, result.ProductsCreated)
}

func TestReplaceAllHeaderOnlyFile(t *testing.T) {
	products := &fakeProductStore{}
	products.products = []models.Product{{SKU: "OLD"}}
	p := newTestPipeline(products, newFakeCategoryStore())

	result, err := p.ReplaceAll(context.Background(), strings.NewReader("ID,Name\n"))
	require.NoError(t, err)

	assert.Empty(t, products.products)
	assert.Equal(t, Result{}, result)
}

func TestRunSelectsMode(t *testing.T) {
	products := &fakeProductStore{}
	p := newTestPipeline(products, newFakeCategoryStore())

	_, err := p.Run(context.Background(), strings.NewReader(importCSV), ModeReplace)
	require.NoError(t, err)
	assert.Equal(t, 1, products.deleteAlls)

	_, err = p.Run(context.Background(), strings.NewReader(importCSV), ModeUpsert)
	require.NoError(t, err)
	assert.Equal(t, 1, products.deleteAlls)
}

func TestRunRejectsUnknownMode(t *testing.T) {
	products := &fakeProductStore{}
	products.products = []models.Product{{SKU: "KEEP"}}
	p := newTestPipeline(products, newFakeCategoryStore())

	_, err := p.Run(context.Background(), strings.NewReader(importCSV), Mode("replac"))
	require.Error(t, err)

	// a misconfigured mode must never reach the destructive path
	assert.Equal(t, 0, products.deleteAlls)
	assert.Len(t, products.products, 1)
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, mode)

	mode, err = ParseMode("upsert")
	require.NoError(t, err)
	assert.Equal(t, ModeUpsert, mode)

	for _, bad := range []string{"", "Replace", "upserts", "all"} {
		_, err = ParseMode(bad)
		assert.Error(t, err, "mode %q", bad)
	}
}

func TestFirstOccurrenceWinsOnDuplicatePaths(t *testing.T) {
	csv := "ID,Name,Categories\n" +
		"1,A,Watches > Men\n" +
		"2,B,watches > men\n"

	categories := newFakeCategoryStore()
	p := newTestPipeline(&fakeProductStore{}, categories)

	_, err := p.UpsertStream(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	// the differently-cased duplicate folds onto the same slugs
	assert.Len(t, categories.bySlug, 2)
	names := map[string]bool{}
	for _, u := range categories.upserts {
		names[u.Name] = true
	}
	assert.True(t, names["Watches"])
	assert.True(t, names["Men"])
	assert.False(t, names["men"])
}
