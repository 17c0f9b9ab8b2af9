package substitute

import (
	"errors"
	"fmt"
	"strings"

	"diet-planner/internal/catalog"
)

// NotFoundMessage is shown when no substitute exists for an item.
const NotFoundMessage = "Substitute not found"

// Status tells which kind of Result a lookup produced.
type Status int

const (
	Found Status = iota
	NotFound
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrNoTable is reported when the resolver was built without a table.
var ErrNoTable = errors.New("substitute table not loaded")

// Result is the outcome of a lookup. Exactly one of Substitute or Err is set
// for Found and Failed respectively; NotFound carries neither.
type Result struct {
	Status     Status
	Item       string
	Substitute string
	Err        error
}

// String renders the result for display. It never fails.
func (r Result) String() string {
	switch r.Status {
	case Found:
		return r.Substitute
	case Failed:
		return fmt.Sprintf("Error occurred: %v", r.Err)
	}
	return NotFoundMessage
}

// Resolver looks up substitutes in a read-only table.
type Resolver struct {
	records []catalog.SubstituteRecord
}

// NewResolver creates a Resolver over the catalog's substitute table.
func NewResolver(cat *catalog.Catalog) *Resolver {
	if cat == nil {
		return &Resolver{}
	}
	return &Resolver{records: cat.Substitutes()}
}

// Resolve finds the substitute for item by case-insensitive exact match on
// the food item name. The first matching record wins. Resolve never panics:
// any failure is reported through a Failed result.
func (r *Resolver) Resolve(item string) (res Result) {
	res.Item = item
	defer func() {
		if p := recover(); p != nil {
			res = Result{Status: Failed, Item: item, Err: fmt.Errorf("lookup panicked: %v", p)}
		}
	}()

	if r == nil || r.records == nil {
		return Result{Status: Failed, Item: item, Err: ErrNoTable}
	}

	for _, rec := range r.records {
		if !strings.EqualFold(rec.FoodItem, item) {
			continue
		}
		if strings.TrimSpace(rec.Substitute) == "" {
			return Result{Status: Failed, Item: item, Err: fmt.Errorf("record for %q has no substitute", rec.FoodItem)}
		}
		return Result{Status: Found, Item: item, Substitute: rec.Substitute}
	}
	return Result{Status: NotFound, Item: item}
}
