package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxury-catalog/internal/catalog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestListProductsRejectsInvalidFilters(t *testing.T) {
	h := NewProductHandler(nil, nil, nil)
	router := gin.New()
	router.GET("/api/products", h.ListProducts)

	cases := []string{
		"minPrice=abc",
		"maxPrice=-5",
		"page=-2",
		"limit=9999",
		"sortOrder=sideways",
		"inStock=maybe",
	}
	for _, query := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/products?"+query, nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code, "query %q", query)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Error)
	}
}

func TestImportProductsRequiresFile(t *testing.T) {
	h := NewImportHandler(nil, catalog.ModeUpsert, catalog.SpreadsheetHeaders, nil)
	router := gin.New()
	router.POST("/api/products/import", h.ImportProducts)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/products/import", strings.NewReader(""))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no file uploaded")
}

func TestImportTemplateJSON(t *testing.T) {
	h := NewImportHandler(nil, catalog.ModeUpsert, catalog.SpreadsheetHeaders, nil)
	router := gin.New()
	router.GET("/api/products/import/template", h.ImportTemplate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/import/template", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Columns, "ID")
	assert.Contains(t, resp.Columns, "Regular price")
	assert.Contains(t, resp.Columns, "Attribute 9 global")
}

func TestImportTemplateCSV(t *testing.T) {
	h := NewImportHandler(nil, catalog.ModeUpsert, catalog.SpreadsheetHeaders, nil)
	router := gin.New()
	router.GET("/api/products/import/template", h.ImportTemplate)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/import/template?format=csv", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))

	header := strings.Split(strings.TrimSpace(strings.Split(w.Body.String(), "\n")[0]), ",")
	assert.Equal(t, "ID", header[0])
	assert.Contains(t, header, "Categories")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("client went away") }

func TestWriteCSVTemplateSurfacesWriterErrors(t *testing.T) {
	err := writeCSVTemplate(failingWriter{}, catalog.SpreadsheetHeaders.Columns())
	assert.Error(t, err)

	var ok strings.Builder
	assert.NoError(t, writeCSVTemplate(&ok, catalog.SpreadsheetHeaders.Columns()))
	assert.True(t, strings.HasPrefix(ok.String(), "ID,"))
}
