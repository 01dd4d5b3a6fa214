package parser

import (
	"strings"

	"manifest-analyzer/internal/domains/manifest/model"
)

// conditionSynonyms maps lowercased condition cell values to the canonical
// enum. Matching is exact on the full trimmed value, not substring, so a
// description-like cell ("new in open box packaging") cannot false-positive.
var conditionSynonyms = map[string]model.Condition{
	// identity mappings
	"new":         model.ConditionNew,
	"used":        model.ConditionUsed,
	"refurbished": model.ConditionRefurbished,
	"open box":    model.ConditionOpenBox,
	"damaged":     model.ConditionDamaged,
	"unknown":     model.ConditionUnknown,
	// marketplace variants
	"brand new":       model.ConditionNew,
	"new in box":      model.ConditionNew,
	"nib":             model.ConditionNew,
	"sealed":          model.ConditionNew,
	"factory sealed":  model.ConditionNew,
	"like new":        model.ConditionUsed,
	"pre-owned":       model.ConditionUsed,
	"preowned":        model.ConditionUsed,
	"pre owned":       model.ConditionUsed,
	"second hand":     model.ConditionUsed,
	"refurb":          model.ConditionRefurbished,
	"renewed":         model.ConditionRefurbished,
	"reconditioned":   model.ConditionRefurbished,
	"openbox":         model.ConditionOpenBox,
	"open-box":        model.ConditionOpenBox,
	"opened":          model.ConditionOpenBox,
	"broken":          model.ConditionDamaged,
	"defective":       model.ConditionDamaged,
	"for parts":      model.ConditionDamaged,
	"parts only":     model.ConditionDamaged,
	"salvage":         model.ConditionDamaged,
	"not working":     model.ConditionDamaged,
	"damaged box":     model.ConditionDamaged,
}

// NormalizeExplicitCondition maps the value of a dedicated condition column
// to the canonical enum. Anything unmapped normalizes to Unknown; this
// function never fails.
func NormalizeExplicitCondition(raw string) model.Condition {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return model.ConditionUnknown
	}
	if c, ok := conditionSynonyms[normalized]; ok {
		return c
	}
	return model.ConditionUnknown
}

// inferenceHints is scanned in order; earlier entries win so the more
// specific phrases come first ("open box" before "open", "like new" before
// "new").
var inferenceHints = []struct {
	hint      string
	condition model.Condition
}{
	{"open box", model.ConditionOpenBox},
	{"open-box", model.ConditionOpenBox},
	{"refurbished", model.ConditionRefurbished},
	{"refurb", model.ConditionRefurbished},
	{"renewed", model.ConditionRefurbished},
	{"damaged", model.ConditionDamaged},
	{"broken", model.ConditionDamaged},
	{"defective", model.ConditionDamaged},
	{"for parts", model.ConditionDamaged},
	{"like new", model.ConditionUsed},
	{"pre-owned", model.ConditionUsed},
	{"used", model.ConditionUsed},
	{"brand new", model.ConditionNew},
	{"sealed", model.ConditionNew},
	{"new", model.ConditionNew},
}

// InferConditionFromText is the looser strategy used only when the file has
// no explicit condition column: it substring-scans free text (normally the
// description) for condition hints. When an explicit column exists the exact
// NormalizeExplicitCondition strategy is authoritative and this path is never
// consulted.
func InferConditionFromText(text string) model.Condition {
	lowered := strings.ToLower(text)
	for _, h := range inferenceHints {
		if strings.Contains(lowered, h.hint) {
			return h.condition
		}
	}
	return model.ConditionUnknown
}
