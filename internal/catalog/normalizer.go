package catalog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"luxury-catalog/internal/models"
)

// HeaderMap is one version of the header translation table: it names the
// spreadsheet column that feeds each canonical product field. Alternate
// export formats become additional HeaderMap values, not code forks.
type HeaderMap struct {
	ID                  string
	Type                string
	SKU                 string
	Name                string
	Published           string
	IsFeatured          string
	VisibilityInCatalog string
	ShortDescription    string
	Description         string
	DateOnSaleFrom      string
	DateOnSaleTo        string
	TaxStatus           string
	TaxClass            string
	InStock             string
	Stock               string
	LowStockAmount      string
	BackordersAllowed   string
	SoldIndividually    string
	Weight              string
	Length              string
	Width               string
	Height              string
	AllowReviews        string
	PurchaseNote        string
	SalePrice           string
	RegularPrice        string
	Categories          string
	Tags                string
	Images              string

	// MaxAttributes bounds the indexed "Attribute i ..." column scan.
	MaxAttributes int
}

// AttributeName returns the header of the i-th attribute name column
// (1-based), and similarly for the other attribute column kinds.
func (h HeaderMap) AttributeName(i int) string    { return fmt.Sprintf("Attribute %d name", i) }
func (h HeaderMap) AttributeValue(i int) string   { return fmt.Sprintf("Attribute %d value(s)", i) }
func (h HeaderMap) AttributeVisible(i int) string { return fmt.Sprintf("Attribute %d visible", i) }
func (h HeaderMap) AttributeGlobal(i int) string  { return fmt.Sprintf("Attribute %d global", i) }

// Columns returns every header of this format in export order,
// including the indexed attribute columns. Used to generate import
// templates.
func (h HeaderMap) Columns() []string {
	cols := []string{
		h.ID, h.Type, h.SKU, h.Name, h.Published, h.IsFeatured,
		h.VisibilityInCatalog, h.ShortDescription, h.Description,
		h.DateOnSaleFrom, h.DateOnSaleTo, h.TaxStatus, h.TaxClass,
		h.InStock, h.Stock, h.LowStockAmount, h.BackordersAllowed,
		h.SoldIndividually, h.Weight, h.Length, h.Width, h.Height,
		h.AllowReviews, h.PurchaseNote, h.SalePrice, h.RegularPrice,
		h.Categories, h.Tags, h.Images,
	}
	for i := 1; i <= h.MaxAttributes; i++ {
		cols = append(cols,
			h.AttributeName(i), h.AttributeValue(i),
			h.AttributeVisible(i), h.AttributeGlobal(i))
	}
	return cols
}

// SpreadsheetHeaders is the stock export format this service ingests.
var SpreadsheetHeaders = HeaderMap{
	ID:                  "ID",
	Type:                "Type",
	SKU:                 "SKU",
	Name:                "Name",
	Published:           "Published",
	IsFeatured:          "Is featured?",
	VisibilityInCatalog: "Visibility in catalog",
	ShortDescription:    "Short description",
	Description:         "Description",
	DateOnSaleFrom:      "Date sale price starts",
	DateOnSaleTo:        "Date sale price ends",
	TaxStatus:           "Tax status",
	TaxClass:            "Tax class",
	InStock:             "In stock?",
	Stock:               "Stock",
	LowStockAmount:      "Low stock amount",
	BackordersAllowed:   "Backorders allowed?",
	SoldIndividually:    "Sold individually?",
	Weight:              "Weight (kg)",
	Length:              "Length (cm)",
	Width:               "Width (cm)",
	Height:              "Height (cm)",
	AllowReviews:        "Allow customer reviews?",
	PurchaseNote:        "Purchase note",
	SalePrice:           "Sale price",
	RegularPrice:        "Regular price",
	Categories:          "Categories",
	Tags:                "Tags",
	Images:              "Images",
	MaxAttributes:       9,
}

// legacyAttributeLabels names the unnamed attribute columns of older
// exports that carry values only, in column order.
var legacyAttributeLabels = []string{
	"BRAND", "CONDITION", "GENDER", "MOVEMENT", "GOLD COLOUR", "MATERIAL", "RETAIL",
}

// Row is one parsed CSV record addressed by trimmed column header.
type Row struct {
	Line   int
	fields map[string]string
}

// NewRow pairs a header row with a record. Headers are trimmed before
// lookup; short records leave trailing columns empty.
func NewRow(headers, record []string, line int) Row {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(record) {
			fields[strings.TrimSpace(h)] = record[i]
		}
	}
	return Row{Line: line, fields: fields}
}

// Get returns the trimmed value of the named column, "" when absent.
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.fields[header])
}

// RowError marks a row that failed normalization. The pipeline logs it
// and moves on; it never aborts the batch.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Record is a normalized row: the unsaved product plus the raw category
// paths still to be resolved against the category arena.
type Record struct {
	Product       models.Product
	CategoryPaths []string
}

// Normalizer maps spreadsheet rows onto canonical product records.
type Normalizer struct {
	headers HeaderMap
	logger  *slog.Logger
}

func NewNormalizer(headers HeaderMap, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{headers: headers, logger: logger}
}

// Normalize converts one row into a Record. Recoverable field issues
// are defaulted, never raised; the only hard failure is a missing or
// non-numeric ID, returned as *RowError so the caller skips the row.
func (n *Normalizer) Normalize(row Row) (*Record, error) {
	h := n.headers

	id, err := strconv.ParseInt(row.Get(h.ID), 10, 64)
	if err != nil {
		return nil, &RowError{Line: row.Line, Err: fmt.Errorf("invalid product ID %q", row.Get(h.ID))}
	}

	p := models.Product{
		ProductID:            id,
		Type:                 row.Get(h.Type),
		SKU:                  row.Get(h.SKU),
		Name:                 row.Get(h.Name),
		Published:            flag(row.Get(h.Published)),
		IsFeatured:           flag(row.Get(h.IsFeatured)),
		VisibilityInCatalog:  defaultStr(row.Get(h.VisibilityInCatalog), models.VisibilityVisible),
		ShortDescription:     row.Get(h.ShortDescription),
		Description:          row.Get(h.Description),
		DateOnSaleFrom:       parseDate(row.Get(h.DateOnSaleFrom)),
		DateOnSaleTo:         parseDate(row.Get(h.DateOnSaleTo)),
		TaxStatus:            defaultStr(row.Get(h.TaxStatus), models.TaxStatusTaxable),
		TaxClass:             row.Get(h.TaxClass),
		InStock:              flag(row.Get(h.InStock)),
		Stock:                intOrZero(row.Get(h.Stock)),
		LowStockAmount:       intPtr(row.Get(h.LowStockAmount)),
		BackordersAllowed:    flag(row.Get(h.BackordersAllowed)),
		SoldIndividually:     flag(row.Get(h.SoldIndividually)),
		Weight:               floatPtr(row.Get(h.Weight)),
		AllowCustomerReviews: flag(row.Get(h.AllowReviews)),
		PurchaseNote:         row.Get(h.PurchaseNote),
		SalePrice:            floatPtr(row.Get(h.SalePrice)),
		RegularPrice:         floatOrZero(row.Get(h.RegularPrice)),
		Tags:                 splitTrim(row.Get(h.Tags), ","),
		Images:               splitTrim(row.Get(h.Images), ","),
		Attributes:           n.attributes(row),
	}
	p.Dimensions = models.Dimensions{
		Length: floatPtr(row.Get(h.Length)),
		Width:  floatPtr(row.Get(h.Width)),
		Height: floatPtr(row.Get(h.Height)),
	}

	// Never validated by the upstream feeds either; surfaced so bad
	// exports are at least visible.
	if p.SalePrice != nil && *p.SalePrice > p.RegularPrice {
		n.logger.Warn("sale price above regular price",
			"productId", p.ProductID, "salePrice", *p.SalePrice, "regularPrice", p.RegularPrice)
	}

	return &Record{
		Product:       p,
		CategoryPaths: splitTrim(row.Get(h.Categories), ","),
	}, nil
}

// attributes collects the indexed attribute columns. A named column
// ("Attribute i name") wins; exports without names fall back to the
// legacy fixed labels. Entries with an empty value are dropped.
func (n *Normalizer) attributes(row Row) []models.Attribute {
	h := n.headers
	var attrs []models.Attribute
	for i := 1; i <= h.MaxAttributes; i++ {
		name := row.Get(h.AttributeName(i))
		if name == "" {
			if i > len(legacyAttributeLabels) {
				continue
			}
			name = legacyAttributeLabels[i-1]
		}
		value := row.Get(h.AttributeValue(i))
		if value == "" {
			continue
		}
		attrs = append(attrs, models.Attribute{
			Name:    name,
			Value:   value,
			Visible: flag(row.Get(h.AttributeVisible(i))),
			Global:  flag(row.Get(h.AttributeGlobal(i))),
		})
	}
	return attrs
}

// flag decodes spreadsheet booleans: the literal "1" is true, anything
// else (including empty) is false.
func flag(s string) bool { return s == "1" }

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func intOrZero(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func floatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func intPtr(s string) *int64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func floatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"1/2/2006",
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
