package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"luxury-catalog/internal/models"
)

// Mode selects the import policy. It is fixed by deployment
// configuration, not chosen per request.
type Mode string

const (
	// ModeReplace drops every existing product, then bulk-inserts the
	// normalized rows. Deletion and insertion are not transactional: a
	// persistence failure between the two leaves the collection empty.
	// Known failure window, kept as-is.
	ModeReplace Mode = "replace"

	// ModeUpsert processes rows one at a time with per-row failure
	// isolation, after a first pass that builds the category tree for
	// the whole file.
	ModeUpsert Mode = "upsert"
)

// Result is the pipeline's report. The two counts may differ; partial
// success is not an error.
type Result struct {
	TotalRowsProcessed int `json:"totalRowsProcessed"`
	ProductsCreated    int `json:"productsCreated"`
}

// Pipeline streams a CSV export into the catalog.
type Pipeline struct {
	products   ProductStore
	categories CategoryStore
	normalizer *Normalizer
	logger     *slog.Logger
}

func NewPipeline(products ProductStore, categories CategoryStore, normalizer *Normalizer, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		products:   products,
		categories: categories,
		normalizer: normalizer,
		logger:     logger,
	}
}

// ParseMode validates a configured import mode. Anything but the two
// known policies is rejected so a typo'd IMPORT_MODE can never select
// the destructive replace-all path by accident.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, ModeUpsert:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown import mode %q", s)
}

// Run executes the import under the given mode.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, mode Mode) (Result, error) {
	switch mode {
	case ModeUpsert:
		return p.UpsertStream(ctx, r)
	case ModeReplace:
		return p.ReplaceAll(ctx, r)
	default:
		return Result{}, fmt.Errorf("unknown import mode %q", mode)
	}
}

// ReplaceAll deletes every product, then batch-inserts all rows that
// normalized cleanly. Deletion happens even when the file holds no rows,
// so importing an empty file empties the catalog.
func (p *Pipeline) ReplaceAll(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := p.readRows(r)
	if err != nil {
		return Result{}, err
	}

	records := make([]*Record, 0, len(rows))
	for _, row := range rows {
		rec, err := p.normalizer.Normalize(row)
		if err != nil {
			p.logger.Warn("skipping row", "error", err)
			continue
		}
		records = append(records, rec)
	}

	if err := p.resolveCategories(ctx, records); err != nil {
		return Result{}, err
	}

	if _, err := p.products.DeleteAll(ctx); err != nil {
		return Result{}, fmt.Errorf("clear products: %w", err)
	}

	created := 0
	if len(records) > 0 {
		docs := make([]*models.Product, len(records))
		for i, rec := range records {
			docs[i] = &rec.Product
		}
		created, err = p.products.InsertMany(ctx, docs)
		if err != nil {
			return Result{TotalRowsProcessed: len(rows)}, fmt.Errorf("bulk insert: %w", err)
		}
	}

	p.logger.Info("replace-all import finished", "rows", len(rows), "created", created)
	return Result{TotalRowsProcessed: len(rows), ProductsCreated: created}, nil
}

// UpsertStream runs the two-pass import: pass one builds the full
// category tree from the whole file, pass two creates products row by
// row. A bad row is logged and skipped; the stream continues.
func (p *Pipeline) UpsertStream(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := p.readRows(r)
	if err != nil {
		return Result{}, err
	}

	// Pass one: the arena sees every row's category paths, including
	// rows that will later fail normalization. First occurrence wins.
	arena := NewCategoryArena()
	for _, row := range rows {
		for _, path := range splitTrim(row.Get(p.normalizer.headers.Categories), ",") {
			arena.AddPath(path)
		}
	}
	ids, err := arena.Persist(ctx, p.categories)
	if err != nil {
		return Result{}, err
	}

	// Pass two: sequential per-row creation with failure isolation.
	created := 0
	for _, row := range rows {
		rec, err := p.normalizer.Normalize(row)
		if err != nil {
			p.logger.Warn("skipping row", "error", err)
			continue
		}
		for _, path := range rec.CategoryPaths {
			if id, ok := ids[Slugify(path)]; ok {
				rec.Product.Categories = append(rec.Product.Categories, id)
			}
		}
		if err := p.products.Create(ctx, &rec.Product); err != nil {
			p.logger.Warn("skipping row", "line", row.Line, "sku", rec.Product.SKU, "error", err)
			continue
		}
		created++
	}

	p.logger.Info("streaming import finished",
		"rows", len(rows), "created", created, "categories", arena.Len())
	return Result{TotalRowsProcessed: len(rows), ProductsCreated: created}, nil
}

// resolveCategories builds and persists the arena for a batch, then
// rewrites each record's category paths into persisted IDs.
func (p *Pipeline) resolveCategories(ctx context.Context, records []*Record) error {
	arena := NewCategoryArena()
	for _, rec := range records {
		for _, path := range rec.CategoryPaths {
			arena.AddPath(path)
		}
	}
	if arena.Len() == 0 {
		return nil
	}
	ids, err := arena.Persist(ctx, p.categories)
	if err != nil {
		return err
	}
	for _, rec := range records {
		for _, path := range rec.CategoryPaths {
			if id, ok := ids[Slugify(path)]; ok {
				rec.Product.Categories = append(rec.Product.Categories, id)
			}
		}
	}
	return nil
}

// readRows parses the whole CSV payload up front. The row handlers run
// strictly after parsing completes, so completion is never signaled
// while rows are still in flight.
func (p *Pipeline) readRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", line+1, err)
		}
		line++
		rows = append(rows, NewRow(headers, record, line))
	}
	return rows, nil
}
