package parser

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
)

// Defaults substituted when a numeric cell cannot be parsed. Extraction never
// fails on a bad number; it recovers with the default and logs, so one
// garbage cell cannot take down the file.
const (
	DefaultQuantity = 1
	DefaultPrice    = 0
)

// stripWrappingQuotes removes one layer of surrounding quotes plus whitespace
func stripWrappingQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// cleanNumeric strips currency symbols, thousands separators and anything
// else that is not a digit, decimal point or minus sign.
func cleanNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == '$', r == '£', r == '€', r == '¥', r == '₹', r == ',', r == ' ':
			// currency symbols and separators dropped
		default:
			// any other noise dropped too
		}
	}
	return b.String()
}

// ParseFloat coerces a price-like cell. Returns (value, true) on success or
// (fallback, false) when the cell is unparseable.
func ParseFloat(raw string, fallback float64) (float64, bool) {
	cleaned := cleanNumeric(stripWrappingQuotes(raw))
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return fallback, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return fallback, false
	}
	return v, true
}

// ParseInt coerces a quantity-like cell, truncating decimals ("2.0" -> 2)
func ParseInt(raw string, fallback int) (int, bool) {
	v, ok := ParseFloat(raw, float64(fallback))
	if !ok {
		return fallback, false
	}
	return int(v), true
}

// fieldAt returns the trimmed, unquoted cell at idx, or "" when the column
// is unresolved or the row is short.
func fieldAt(fields []string, idx int) string {
	if idx == Unresolved || idx >= len(fields) {
		return ""
	}
	return stripWrappingQuotes(fields[idx])
}

// IsBlankRow reports whether a tokenized row carries no data at all.
// Blank rows are silently skipped, not counted as errors.
func IsBlankRow(fields []string) bool {
	if len(fields) == 0 {
		return true
	}
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// ExtractRow pulls the raw cells for one data row through the header map and
// normalizes them into a candidate ManifestItem. The result has not passed
// schema validation yet.
func ExtractRow(fields []string, hm HeaderMap, rowIndex int) model.ManifestItem {
	item := model.ManifestItem{
		RowIndex:    rowIndex,
		Description: fieldAt(fields, hm.Description),
	}

	qty, ok := ParseInt(fieldAt(fields, hm.Quantity), DefaultQuantity)
	if !ok {
		log.Debug().
			Int("row", rowIndex).
			Str("value", fieldAt(fields, hm.Quantity)).
			Msg("unparseable quantity, defaulting to 1")
	}
	item.Quantity = qty

	price, ok := ParseFloat(fieldAt(fields, hm.Price), DefaultPrice)
	if !ok {
		log.Debug().
			Int("row", rowIndex).
			Str("value", fieldAt(fields, hm.Price)).
			Msg("unparseable price, defaulting to 0")
	}
	item.Price = price

	if v := fieldAt(fields, hm.Brand); v != "" {
		item.Brand = &v
	}
	if v := fieldAt(fields, hm.Category); v != "" {
		item.Category = &v
	}

	// Condition strategy selection: exact synonym match on the explicit
	// column when one resolved, substring inference over the description
	// otherwise.
	if hm.HasCondition() {
		item.Condition = NormalizeExplicitCondition(fieldAt(fields, hm.Condition))
	} else {
		item.Condition = InferConditionFromText(item.Description)
	}

	if v := fieldAt(fields, hm.RetailPrice); v != "" {
		if retail, ok := ParseFloat(v, 0); ok && retail >= 0 {
			item.RetailPrice = &retail
		}
	}

	if v := fieldAt(fields, hm.UPC); v != "" {
		item.UPC = &v
	}
	if v := fieldAt(fields, hm.SKU); v != "" {
		item.SKU = &v
	}
	if v := fieldAt(fields, hm.Location); v != "" {
		item.Location = &v
	}
	if v := fieldAt(fields, hm.Notes); v != "" {
		item.Notes = &v
	}

	return item
}
