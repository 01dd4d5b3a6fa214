package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-analyzer/internal/domains/manifest/model"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func validItem() model.ManifestItem {
	return model.ManifestItem{
		RowIndex:    1,
		Description: "Apple iPhone 14 Pro 128GB",
		Brand:       strPtr("Apple"),
		Condition:   model.ConditionNew,
		Quantity:    2,
		Price:       650,
	}
}

func TestValidate_AcceptsCleanItem(t *testing.T) {
	v := NewItemValidator()

	got := v.Validate(validItem(), 1)

	require.NotNil(t, got)
	assert.Empty(t, v.Errors())
	assert.Empty(t, v.Warnings())
}

func TestValidate_SchemaRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.ManifestItem)
		field  string
	}{
		{"description too short", func(i *model.ManifestItem) { i.Description = "TV" }, "description"},
		{"description too long", func(i *model.ManifestItem) { i.Description = strings.Repeat("x", 501) }, "description"},
		{"negative price", func(i *model.ManifestItem) { i.Price = -1 }, "price"},
		{"price above cap", func(i *model.ManifestItem) { i.Price = 1_000_001 }, "price"},
		{"zero quantity", func(i *model.ManifestItem) { i.Quantity = 0 }, "quantity"},
		{"quantity above cap", func(i *model.ManifestItem) { i.Quantity = 10_001 }, "quantity"},
		{"brand too long", func(i *model.ManifestItem) { i.Brand = strPtr(strings.Repeat("b", 101)) }, "brand"},
		{"category too long", func(i *model.ManifestItem) { i.Category = strPtr(strings.Repeat("c", 51)) }, "category"},
		{"bad condition", func(i *model.ManifestItem) { i.Condition = model.Condition("Mint") }, "condition"},
		{"bad upc", func(i *model.ManifestItem) { i.UPC = strPtr("12345") }, "upc"},
		{"sku too long", func(i *model.ManifestItem) { i.SKU = strPtr(strings.Repeat("s", 51)) }, "sku"},
		{"notes too long", func(i *model.ManifestItem) { i.Notes = strPtr(strings.Repeat("n", 1001)) }, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewItemValidator()
			item := validItem()
			tt.mutate(&item)

			got := v.Validate(item, 7)

			assert.Nil(t, got, "item should be rejected")
			require.NotEmpty(t, v.Errors())
			err := v.Errors()[0]
			assert.Equal(t, model.SeverityError, err.Type)
			assert.Equal(t, tt.field, err.Field)
			assert.NotEmpty(t, err.Suggestion)
			require.NotNil(t, err.RowIndex)
			assert.Equal(t, 7, *err.RowIndex)
		})
	}
}

func TestValidate_WarningsDoNotReject(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.ManifestItem)
		field    string
		severity string
	}{
		{"retail below cost", func(i *model.ManifestItem) { i.RetailPrice = floatPtr(500) }, "retail_price", model.SeverityWarning},
		{"total mismatch", func(i *model.ManifestItem) { i.TotalPrice = floatPtr(100) }, "total_price", model.SeverityWarning},
		{"lowercase brand", func(i *model.ManifestItem) { i.Brand = strPtr("apple") }, "brand", model.SeverityWarning},
		{"high value", func(i *model.ManifestItem) { i.Price = 1500 }, "price", model.SeverityInfo},
		{"high quantity", func(i *model.ManifestItem) { i.Quantity = 250 }, "quantity", model.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewItemValidator()
			item := validItem()
			tt.mutate(&item)

			got := v.Validate(item, 3)

			require.NotNil(t, got, "warnings must not reject the item")
			assert.Empty(t, v.Errors())
			require.NotEmpty(t, v.Warnings())
			w := v.Warnings()[0]
			assert.Equal(t, tt.severity, w.Type)
			assert.Equal(t, tt.field, w.Field)
		})
	}
}

func TestValidate_ThinDescriptionWarning(t *testing.T) {
	v := NewItemValidator()
	item := validItem()
	item.Description = "USB hub" // 7 chars: passes schema, warns on detail

	got := v.Validate(item, 2)

	require.NotNil(t, got)
	require.Len(t, v.Warnings(), 1)
	assert.Equal(t, "description", v.Warnings()[0].Field)
}

func TestValidate_TotalPriceWithinTolerance(t *testing.T) {
	v := NewItemValidator()
	item := validItem()
	item.TotalPrice = floatPtr(1300.005) // 650*2 within 0.01

	got := v.Validate(item, 1)

	require.NotNil(t, got)
	assert.Empty(t, v.Warnings())
}

func TestSummary(t *testing.T) {
	v := NewItemValidator()

	accepted := v.Validate(validItem(), 1)
	require.NotNil(t, accepted)

	bad := validItem()
	bad.Description = "x"
	rejected := v.Validate(bad, 2)
	require.Nil(t, rejected)

	thin := validItem()
	thin.Description = "USB cable" // accepted, warned
	require.NotNil(t, v.Validate(thin, 3))

	summary := v.Summary(3, 2)

	assert.False(t, summary.IsValid, "errors present")
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.ValidItems)
	assert.Equal(t, 1, summary.InvalidItems)
	assert.Equal(t, summary.ValidItems+summary.InvalidItems, summary.TotalItems)
	assert.InDelta(t, 66.67, summary.DataQualityScore, 0.001)
	assert.Contains(t, summary.Suggestions, "Ensure all items have detailed descriptions (brand, model, size, color)")
}

func TestSummary_CleanBatch(t *testing.T) {
	v := NewItemValidator()
	require.NotNil(t, v.Validate(validItem(), 1))

	summary := v.Summary(1, 1)

	assert.True(t, summary.IsValid)
	assert.Equal(t, 100.0, summary.DataQualityScore)
	assert.Empty(t, summary.Suggestions)
}

func TestSummary_NoValidItems(t *testing.T) {
	v := NewItemValidator()
	summary := v.Summary(0, 0)

	assert.False(t, summary.IsValid, "zero accepted items cannot be valid")
	assert.Equal(t, 0.0, summary.DataQualityScore)
}

func TestReset(t *testing.T) {
	v := NewItemValidator()
	bad := validItem()
	bad.Quantity = 0
	v.Validate(bad, 1)
	require.NotEmpty(t, v.Errors())

	v.Reset()

	assert.Empty(t, v.Errors())
	assert.Empty(t, v.Warnings())
}
