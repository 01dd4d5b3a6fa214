package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"manifest-analyzer/internal/domains/manifest/model"
)

func TestNormalizeExplicitCondition(t *testing.T) {
	tests := []struct {
		raw  string
		want model.Condition
	}{
		{"New", model.ConditionNew},
		{"BRAND NEW", model.ConditionNew},
		{"  factory sealed  ", model.ConditionNew},
		{"pre-owned", model.ConditionUsed},
		{"Like New", model.ConditionUsed},
		{"refurb", model.ConditionRefurbished},
		{"Renewed", model.ConditionRefurbished},
		{"Open Box", model.ConditionOpenBox},
		{"open-box", model.ConditionOpenBox},
		{"broken", model.ConditionDamaged},
		{"Defective", model.ConditionDamaged},
		{"for parts", model.ConditionDamaged},
		{"", model.ConditionUnknown},
		{"grade B", model.ConditionUnknown},
		// exact match only: a sentence containing a synonym does not match
		{"new with some scratches", model.ConditionUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeExplicitCondition(tt.raw), "raw=%q", tt.raw)
	}
}

func TestInferConditionFromText(t *testing.T) {
	tests := []struct {
		text string
		want model.Condition
	}{
		{"Brand new Sony headphones", model.ConditionNew},
		{"Dyson V8 - open box, tested", model.ConditionOpenBox},
		{"Refurbished Lenovo ThinkPad", model.ConditionRefurbished},
		{"Screen broken, sold for parts", model.ConditionDamaged},
		{"Used office chair", model.ConditionUsed},
		{"Pallet of assorted electronics", model.ConditionUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferConditionFromText(tt.text), "text=%q", tt.text)
	}
}

func TestInferConditionFromText_SpecificHintsWin(t *testing.T) {
	// "open box" must win over the bare "new" also present in the text
	assert.Equal(t, model.ConditionOpenBox, InferConditionFromText("New-in-shrink open box Roomba"))
	// "like new" resolves to Used, not New
	assert.Equal(t, model.ConditionUsed, InferConditionFromText("iPad Air, like new"))
}
