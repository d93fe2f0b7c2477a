package catalog

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Operator enumerates the predicate forms a filter condition may take.
// Conditions are validated against this set before being lowered to the
// driver's query form; nothing here is built by string substitution.
type Operator string

const (
	OpEq         Operator = "eq"
	OpGte        Operator = "gte"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpRegex      Operator = "regex"
	OpElemMatch  Operator = "elemMatch"
	OpTextSearch Operator = "textSearch"
)

// Condition is one predicate. For OpElemMatch, Field names the array
// field and AttributeName the fixed facet label to match inside it.
type Condition struct {
	Field         string
	Op            Operator
	Value         interface{}
	AttributeName string
}

// Pagination and sort defaults for product listings.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// FilterSpec is the structured description of a product listing query:
// an ordered list of predicate stages plus sort, pagination and an
// optional projection. CountStages yields the parallel count form with
// the same predicates and no pagination, so the reported total always
// matches what paging through every page would return.
type FilterSpec struct {
	Conditions []Condition
	SortField  string
	SortAsc    bool
	Page       int
	Limit      int
	Fields     []string
}

// Skip is the number of documents the page offset discards.
func (s *FilterSpec) Skip() int64 {
	return int64((s.Page - 1) * s.Limit)
}

// matchStages lowers the conditions to an ordered list of $match
// stages. Plain field predicates collapse into one combined stage
// (price bounds on the same field merge); each elemMatch facet becomes
// its own stage. A text-search predicate leads, as the driver requires.
func (s *FilterSpec) matchStages() []bson.D {
	var stages []bson.D

	combined := bson.M{}
	for _, c := range s.Conditions {
		switch c.Op {
		case OpTextSearch:
			// $text must appear in the first stage of the pipeline.
			stages = append(stages, bson.D{{Key: "$match", Value: bson.M{
				"$text": bson.M{"$search": c.Value},
			}}})
		case OpEq:
			combined[c.Field] = c.Value
		case OpIn:
			combined[c.Field] = bson.M{"$in": c.Value}
		case OpRegex:
			combined[c.Field] = primitive.Regex{Pattern: c.Value.(string), Options: "i"}
		case OpGte, OpLte:
			bounds, ok := combined[c.Field].(bson.M)
			if !ok {
				bounds = bson.M{}
				combined[c.Field] = bounds
			}
			bounds["$"+string(c.Op)] = c.Value
		}
	}
	if len(combined) > 0 {
		stages = append(stages, bson.D{{Key: "$match", Value: combined}})
	}

	for _, c := range s.Conditions {
		if c.Op != OpElemMatch {
			continue
		}
		stages = append(stages, bson.D{{Key: "$match", Value: bson.M{
			c.Field: bson.M{"$elemMatch": bson.M{
				"name":  c.AttributeName,
				"value": primitive.Regex{Pattern: c.Value.(string), Options: "i"},
			}},
		}}})
	}
	return stages
}

// Stages builds the full listing pipeline: predicates, sort, skip,
// limit, optional projection.
func (s *FilterSpec) Stages() mongo.Pipeline {
	var pipeline mongo.Pipeline
	pipeline = append(pipeline, s.matchStages()...)

	order := -1
	if s.SortAsc {
		order = 1
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: s.SortField, Value: order}}}},
		bson.D{{Key: "$skip", Value: s.Skip()}},
		bson.D{{Key: "$limit", Value: int64(s.Limit)}},
	)

	if len(s.Fields) > 0 {
		projection := bson.M{}
		for _, f := range s.Fields {
			projection[f] = 1
		}
		pipeline = append(pipeline, bson.D{{Key: "$project", Value: projection}})
	}
	return pipeline
}

// CountStages builds the count pipeline: every predicate stage, no
// sort or pagination, terminated by $count.
func (s *FilterSpec) CountStages() mongo.Pipeline {
	var pipeline mongo.Pipeline
	pipeline = append(pipeline, s.matchStages()...)
	return append(pipeline, bson.D{{Key: "$count", Value: "total"}})
}

// facetLabels maps filter parameters to the attribute name each one
// matches against.
var facetLabels = map[string]string{
	"brand":        "BRAND",
	"watchBrand":   "BRAND",
	"jewelryBrand": "BRAND JEWELLERY",
	"condition":    "CONDITION",
	"gender":       "GENDER",
	"material":     "MATERIAL",
	"movement":     "MOVEMENT",
}

// ListFilter carries the raw listing query parameters. Alias parameters
// kept by older clients (pageNum/pageSize, sort, watchBrand) bind next
// to their canonical names. Binding rejects ill-typed values with a 400
// before any query is built.
type ListFilter struct {
	Category     string   `form:"category"`
	MinPrice     *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	Gender       string   `form:"gender"`
	Condition    string   `form:"condition"`
	Brand        string   `form:"brand"`
	WatchBrand   string   `form:"watchBrand"`
	JewelryBrand string   `form:"jewelryBrand"`
	Material     string   `form:"material"`
	Movement     string   `form:"movement"`
	InStock      *bool    `form:"inStock"`
	Published    *bool    `form:"published"`
	Search       string   `form:"search"`
	Tags         string   `form:"tags"`
	SortBy       string   `form:"sortBy"`
	Sort         string   `form:"sort"`
	SortOrder    string   `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
	Fields       string   `form:"fields"`
	Page         int      `form:"page" binding:"omitempty,gte=1"`
	PageNum      int      `form:"pageNum" binding:"omitempty,gte=1"`
	Limit        int      `form:"limit" binding:"omitempty,gte=1,lte=500"`
	PageSize     int      `form:"pageSize" binding:"omitempty,gte=1,lte=500"`
}

// facets yields the active facet filters in a fixed order.
func (f *ListFilter) facets() []Condition {
	values := []struct{ param, value string }{
		{"brand", f.Brand},
		{"watchBrand", f.WatchBrand},
		{"jewelryBrand", f.JewelryBrand},
		{"condition", f.Condition},
		{"gender", f.Gender},
		{"material", f.Material},
		{"movement", f.Movement},
	}
	var conds []Condition
	for _, v := range values {
		if v.value == "" {
			continue
		}
		conds = append(conds, Condition{
			Field:         "attributes",
			Op:            OpElemMatch,
			Value:         regexp.QuoteMeta(v.value),
			AttributeName: facetLabels[v.param],
		})
	}
	return conds
}

// Spec lowers the raw parameters into a FilterSpec. categoryIDs is the
// resolved set of category references when a category filter is active;
// it may be empty, in which case the filter matches nothing.
func (f *ListFilter) Spec(categoryIDs []primitive.ObjectID) *FilterSpec {
	spec := &FilterSpec{
		SortField: "createdAt",
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}

	if f.Search != "" {
		spec.Conditions = append(spec.Conditions, Condition{Op: OpTextSearch, Value: f.Search})
	}
	if f.Category != "" {
		if categoryIDs == nil {
			categoryIDs = []primitive.ObjectID{}
		}
		spec.Conditions = append(spec.Conditions, Condition{Field: "categories", Op: OpIn, Value: categoryIDs})
	}
	if f.Published != nil {
		spec.Conditions = append(spec.Conditions, Condition{Field: "published", Op: OpEq, Value: *f.Published})
	}
	if f.MinPrice != nil {
		spec.Conditions = append(spec.Conditions, Condition{Field: "regularPrice", Op: OpGte, Value: *f.MinPrice})
	}
	if f.MaxPrice != nil {
		spec.Conditions = append(spec.Conditions, Condition{Field: "regularPrice", Op: OpLte, Value: *f.MaxPrice})
	}
	if f.InStock != nil {
		spec.Conditions = append(spec.Conditions, Condition{Field: "inStock", Op: OpEq, Value: *f.InStock})
	}
	if tags := splitTrim(f.Tags, ","); len(tags) > 0 {
		spec.Conditions = append(spec.Conditions, Condition{Field: "tags", Op: OpIn, Value: tags})
	}
	spec.Conditions = append(spec.Conditions, f.facets()...)

	if sortBy := defaultStr(f.SortBy, f.Sort); sortBy != "" {
		spec.SortField = sortBy
		spec.SortAsc = f.SortOrder == "asc"
	}
	if page := firstPositive(f.Page, f.PageNum); page > 0 {
		spec.Page = page
	}
	if limit := firstPositive(f.Limit, f.PageSize); limit > 0 {
		spec.Limit = limit
	}
	spec.Fields = splitTrim(f.Fields, ",")
	return spec
}

// HasCategory reports whether a category filter was requested.
func (f *ListFilter) HasCategory() bool { return f.Category != "" }

// CategoryPathPattern builds the anchored, case-insensitive pattern
// used to match a category filter against stored category paths. The
// match must align with a segment boundary (the ">" delimiter or the
// string edge), so "Men" matches "Watches > Men" but never "Women's".
func CategoryPathPattern(filter string) string {
	segments := splitTrim(filter, PathDelimiter)
	if len(segments) == 0 {
		return ""
	}
	quoted := make([]string, len(segments))
	for i, s := range segments {
		quoted[i] = regexp.QuoteMeta(s)
	}
	boundary := `\s*` + regexp.QuoteMeta(PathDelimiter) + `\s*`
	return `(^|` + boundary + `)` + strings.Join(quoted, boundary) + `(` + boundary + `|$)`
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
