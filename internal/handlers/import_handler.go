package handlers

import (
	"encoding/csv"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"luxury-catalog/internal/cache"
	"luxury-catalog/internal/catalog"
)

type ImportHandler struct {
	pipeline *catalog.Pipeline
	mode     catalog.Mode
	headers  catalog.HeaderMap
	cache    *cache.Cache
}

func NewImportHandler(pipeline *catalog.Pipeline, mode catalog.Mode, headers catalog.HeaderMap, c *cache.Cache) *ImportHandler {
	return &ImportHandler{pipeline: pipeline, mode: mode, headers: headers, cache: c}
}

// POST /api/products/import
//
// Multipart upload, field "file" ("csv" accepted for older clients).
// Row-level failures are logged and skipped; only batch-level failures
// reject the operation.
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fileHeader, err = c.FormFile("csv")
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read uploaded file"})
		return
	}
	defer file.Close()

	result, err := h.pipeline.Run(c.Request.Context(), file, h.mode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	h.cache.DeleteByPrefix("products:list:")
	h.cache.DeleteByPrefix("product:")
	h.cache.DeleteByPrefix("categories:")

	c.JSON(http.StatusOK, gin.H{
		"message":            "Products imported successfully",
		"productsCreated":    result.ProductsCreated,
		"totalRowsProcessed": result.TotalRowsProcessed,
	})
}

// GET /api/products/import/template?format=json|csv|xlsx
//
// Returns the column layout an import file must follow.
func (h *ImportHandler) ImportTemplate(c *gin.Context) {
	columns := h.headers.Columns()

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")
		if err := writeCSVTemplate(c.Writer, columns); err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not generate template"})
		}
	case "xlsx":
		h.writeXLSXTemplate(c, columns)
	default:
		c.JSON(http.StatusOK, gin.H{"columns": columns})
	}
}

func writeCSVTemplate(w io.Writer, columns []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (h *ImportHandler) writeXLSXTemplate(c *gin.Context, columns []string) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
		f.SetCellStyle(sheet, cell, cell, style)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not generate template"})
	}
}
