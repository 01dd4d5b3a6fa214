package parser

import (
	"fmt"
	"strings"
)

// Unresolved marks a canonical field with no matching column
const Unresolved = -1

// HeaderMap maps each canonical semantic field to its column index in the
// header row, or Unresolved. Built once per file and never mutated afterward.
type HeaderMap struct {
	Description int
	Quantity    int
	Price       int
	Brand       int
	Category    int
	Condition   int
	RetailPrice int
	UPC         int
	SKU         int
	Location    int
	Notes       int
}

// headerVariants lists, per canonical field, the ordered case-insensitive
// substrings that identify a column. The first header containing any
// variant wins. The resolver matches retailPrice before price and skips
// already-claimed columns, so a "Retail Price" header is never consumed by
// plain "price".
var headerVariants = map[string][]string{
	"description": {"description", "desc", "item", "product", "title", "name"},
	"quantity":    {"quantity", "qty", "count", "amount", "units", "pieces", "pcs"},
	"price":       {"price", "cost", "value", "unit price", "wholesale"},
	"brand":       {"brand", "manufacturer", "make", "vendor"},
	"category":    {"category", "cat", "type", "department", "class"},
	"condition":   {"condition", "cond", "state", "grade", "status"},
	"retailPrice": {"retail", "msrp", "list price", "rrp", "srp"},
	"upc":         {"upc", "barcode", "ean", "gtin"},
	"sku":         {"sku", "item number", "item #", "part number", "model"},
	"location":    {"location", "loc", "warehouse", "bin", "pallet"},
	"notes":       {"notes", "note", "comments", "remarks"},
}

// ResolveHeaders maps user-supplied column names to canonical fields.
//
// Returns an error when any of the required fields (description, quantity,
// price) cannot be resolved; the error names the missing fields and echoes
// the headers actually seen so malformed files are debuggable.
func ResolveHeaders(headers []string) (HeaderMap, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	claimed := make(map[int]bool)

	resolve := func(field string) int {
		for _, variant := range headerVariants[field] {
			for idx, h := range normalized {
				if claimed[idx] {
					continue
				}
				if strings.Contains(h, variant) {
					claimed[idx] = true
					return idx
				}
			}
		}
		return Unresolved
	}

	hm := HeaderMap{}

	// retailPrice before price so "Retail Price" is not claimed by "price";
	// upc/sku before description so "Item Number" is not claimed by "item".
	hm.RetailPrice = resolve("retailPrice")
	hm.UPC = resolve("upc")
	hm.SKU = resolve("sku")
	hm.Quantity = resolve("quantity")
	hm.Price = resolve("price")
	hm.Description = resolve("description")
	hm.Brand = resolve("brand")
	hm.Category = resolve("category")
	hm.Condition = resolve("condition")
	hm.Location = resolve("location")
	hm.Notes = resolve("notes")

	var missing []string
	if hm.Description == Unresolved {
		missing = append(missing, "description")
	}
	if hm.Quantity == Unresolved {
		missing = append(missing, "quantity")
	}
	if hm.Price == Unresolved {
		missing = append(missing, "price")
	}

	if len(missing) > 0 {
		return hm, &ParseError{
			Code: ErrCodeMissingColumns,
			Message: fmt.Sprintf(
				"missing required columns: %s (headers found: %s)",
				strings.Join(missing, ", "),
				strings.Join(headers, ", "),
			),
		}
	}

	return hm, nil
}

// HasCondition reports whether an explicit condition column resolved.
// Controls which condition strategy the extractor uses.
func (h HeaderMap) HasCondition() bool {
	return h.Condition != Unresolved
}
