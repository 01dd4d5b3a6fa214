package validator

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"manifest-analyzer/internal/domains/manifest/model"
)

// Schema limits for a manifest item
const (
	MinDescriptionLen = 3
	MaxDescriptionLen = 500
	MaxPrice          = 1_000_000
	MinQuantity       = 1
	MaxQuantity       = 10_000
	MaxBrandLen       = 100
	MaxCategoryLen    = 50
	MaxSKULen         = 50
	MaxNotesLen       = 1000

	// Business-rule thresholds
	HighValuePrice      = 1000
	HighQuantity        = 100
	ThinDescriptionLen  = 10
	TotalPriceTolerance = 0.01
)

var upcPattern = regexp.MustCompile(`^\d{12}$`)

// ItemValidator validates normalized rows against the item schema and the
// business rules, accumulating findings across a batch.
//
// An instance is scoped to a single parse run: construct one per batch (or
// call Reset between runs). It is not safe for concurrent use by multiple
// in-flight parses.
type ItemValidator struct {
	errors   []model.ValidationError
	warnings []model.ValidationError
}

// NewItemValidator creates a fresh accumulator for one batch
func NewItemValidator() *ItemValidator {
	return &ItemValidator{}
}

// Reset clears the accumulator so the instance can be reused for another run
func (v *ItemValidator) Reset() {
	v.errors = nil
	v.warnings = nil
}

// Errors returns the accumulated row-rejecting findings
func (v *ItemValidator) Errors() []model.ValidationError {
	return v.errors
}

// Warnings returns the accumulated non-rejecting findings
func (v *ItemValidator) Warnings() []model.ValidationError {
	return v.warnings
}

func (v *ItemValidator) addError(rowIndex int, field, message, value, suggestion string) {
	row := rowIndex
	v.errors = append(v.errors, model.ValidationError{
		Type:       model.SeverityError,
		Field:      field,
		Message:    message,
		Value:      value,
		RowIndex:   &row,
		Suggestion: suggestion,
	})
}

func (v *ItemValidator) addWarning(severity string, rowIndex int, field, message, value, suggestion string) {
	row := rowIndex
	v.warnings = append(v.warnings, model.ValidationError{
		Type:       severity,
		Field:      field,
		Message:    message,
		Value:      value,
		RowIndex:   &row,
		Suggestion: suggestion,
	})
}

// Validate checks one candidate item. It returns the item when it passed the
// schema (possibly with warnings recorded), or nil when any schema constraint
// failed; every rejection leaves at least one error in the accumulator, so a
// row is never dropped without a recorded reason.
func (v *ItemValidator) Validate(item model.ManifestItem, rowIndex int) *model.ManifestItem {
	errCount := len(v.errors)

	v.checkSchema(item, rowIndex)

	if len(v.errors) > errCount {
		return nil
	}

	v.checkBusinessRules(item, rowIndex)
	return &item
}

// checkSchema enforces hard constraints; any finding rejects the row
func (v *ItemValidator) checkSchema(item model.ManifestItem, rowIndex int) {
	descLen := len(strings.TrimSpace(item.Description))
	if descLen < MinDescriptionLen {
		v.addError(rowIndex, "description",
			fmt.Sprintf("description too short (%d characters)", descLen),
			item.Description,
			fmt.Sprintf("Minimum length is %d characters", MinDescriptionLen))
	} else if descLen > MaxDescriptionLen {
		v.addError(rowIndex, "description",
			fmt.Sprintf("description too long (%d characters)", descLen),
			truncate(item.Description, 50),
			fmt.Sprintf("Maximum length is %d characters", MaxDescriptionLen))
	}

	if item.Price < 0 || item.Price > MaxPrice {
		v.addError(rowIndex, "price",
			fmt.Sprintf("price %.2f out of range", item.Price),
			fmt.Sprintf("%.2f", item.Price),
			fmt.Sprintf("Price must be between 0 and %d", MaxPrice))
	}

	if item.Quantity < MinQuantity || item.Quantity > MaxQuantity {
		v.addError(rowIndex, "quantity",
			fmt.Sprintf("quantity %d out of range", item.Quantity),
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("Quantity must be between %d and %d", MinQuantity, MaxQuantity))
	}

	if item.Brand != nil && len(*item.Brand) > MaxBrandLen {
		v.addError(rowIndex, "brand",
			"brand name too long",
			truncate(*item.Brand, 50),
			fmt.Sprintf("Maximum length is %d characters", MaxBrandLen))
	}

	if item.Category != nil && len(*item.Category) > MaxCategoryLen {
		v.addError(rowIndex, "category",
			"category name too long",
			truncate(*item.Category, 50),
			fmt.Sprintf("Maximum length is %d characters", MaxCategoryLen))
	}

	// The extractor always emits a canonical value, but hand-constructed
	// items still get gated here.
	if !item.Condition.IsValid() {
		v.addError(rowIndex, "condition",
			fmt.Sprintf("invalid condition %q", item.Condition),
			item.Condition.String(),
			"Valid options are: "+conditionOptions())
	}

	if item.RetailPrice != nil && *item.RetailPrice < 0 {
		v.addError(rowIndex, "retail_price",
			"retail price cannot be negative",
			fmt.Sprintf("%.2f", *item.RetailPrice),
			"Retail price must be 0 or greater")
	}

	if item.UPC != nil && !upcPattern.MatchString(*item.UPC) {
		v.addError(rowIndex, "upc",
			fmt.Sprintf("invalid UPC %q", *item.UPC),
			*item.UPC,
			"UPC must be exactly 12 digits")
	}

	if item.SKU != nil && (len(*item.SKU) < 1 || len(*item.SKU) > MaxSKULen) {
		v.addError(rowIndex, "sku",
			"SKU length out of range",
			truncate(*item.SKU, 50),
			fmt.Sprintf("SKU must be 1-%d characters", MaxSKULen))
	}

	if item.Notes != nil && len(*item.Notes) > MaxNotesLen {
		v.addError(rowIndex, "notes",
			"notes too long",
			truncate(*item.Notes, 50),
			fmt.Sprintf("Maximum length is %d characters", MaxNotesLen))
	}
}

// checkBusinessRules records warnings/info; the row stays accepted
func (v *ItemValidator) checkBusinessRules(item model.ManifestItem, rowIndex int) {
	if item.RetailPrice != nil && *item.RetailPrice < item.Price {
		v.addWarning(model.SeverityWarning, rowIndex, "retail_price",
			fmt.Sprintf("retail price %.2f is lower than cost %.2f", *item.RetailPrice, item.Price),
			fmt.Sprintf("%.2f", *item.RetailPrice),
			"Verify the retail price; items usually resell above unit cost")
	}

	if item.TotalPrice != nil {
		computed := item.Price * float64(item.Quantity)
		if math.Abs(*item.TotalPrice-computed) > TotalPriceTolerance {
			v.addWarning(model.SeverityWarning, rowIndex, "total_price",
				fmt.Sprintf("declared total %.2f does not match price x quantity (%.2f)", *item.TotalPrice, computed),
				fmt.Sprintf("%.2f", *item.TotalPrice),
				"Check the row total against unit price and quantity")
		}
	}

	if len(strings.TrimSpace(item.Description)) < ThinDescriptionLen {
		v.addWarning(model.SeverityWarning, rowIndex, "description",
			"description has very little detail",
			item.Description,
			fmt.Sprintf("Descriptions of %d+ characters improve analysis accuracy", ThinDescriptionLen))
	}

	if item.Brand != nil && *item.Brand == strings.ToLower(*item.Brand) {
		v.addWarning(model.SeverityWarning, rowIndex, "brand",
			fmt.Sprintf("brand %q appears uncapitalized", *item.Brand),
			*item.Brand,
			"Brand names are usually capitalized, e.g. \"Apple\" not \"apple\"")
	}

	if item.Price > HighValuePrice {
		v.addWarning(model.SeverityInfo, rowIndex, "price",
			fmt.Sprintf("high-value item (%.2f)", item.Price),
			fmt.Sprintf("%.2f", item.Price),
			"High-value items benefit from serial numbers in the notes field")
	}

	if item.Quantity > HighQuantity {
		v.addWarning(model.SeverityWarning, rowIndex, "quantity",
			fmt.Sprintf("high quantity (%d units)", item.Quantity),
			fmt.Sprintf("%d", item.Quantity),
			"Confirm bulk quantities; typos here skew the whole valuation")
	}
}

// Summary builds the aggregate report for a finished batch.
// isValid requires zero errors and at least one accepted item; the quality
// score is the accepted ratio as a percentage rounded to 2 decimals.
func (v *ItemValidator) Summary(totalItems, validItems int) model.ValidationSummary {
	score := 0.0
	if totalItems > 0 {
		score = math.Round(float64(validItems)/float64(totalItems)*100*100) / 100
	}

	return model.ValidationSummary{
		IsValid:          len(v.errors) == 0 && validItems > 0,
		TotalItems:       totalItems,
		ValidItems:       validItems,
		InvalidItems:     totalItems - validItems,
		Errors:           v.errors,
		Warnings:         v.warnings,
		Suggestions:      v.crossCuttingSuggestions(),
		DataQualityScore: score,
	}
}

// crossCuttingSuggestions synthesizes deduplicated, batch-level remediation
// hints from the per-row findings.
func (v *ItemValidator) crossCuttingSuggestions() []string {
	byField := make(map[string]bool)
	for _, e := range v.errors {
		byField[e.Field] = true
	}
	for _, w := range v.warnings {
		byField[w.Field] = true
	}

	var suggestions []string
	if byField["description"] {
		suggestions = append(suggestions, "Ensure all items have detailed descriptions (brand, model, size, color)")
	}
	if byField["price"] {
		suggestions = append(suggestions, "Double-check unit prices; strip currency formatting before upload")
	}
	if byField["quantity"] {
		suggestions = append(suggestions, "Verify quantities are whole numbers of at least 1")
	}
	if byField["condition"] {
		suggestions = append(suggestions, "Use standard condition values: "+conditionOptions())
	}
	if byField["upc"] {
		suggestions = append(suggestions, "UPC codes must be 12 digits with no spaces or dashes")
	}
	if byField["brand"] {
		suggestions = append(suggestions, "Provide properly capitalized brand names to improve brand matching")
	}
	return suggestions
}

func conditionOptions() string {
	all := model.AllConditions()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
