package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-analyzer/internal/domains/manifest/model"
)

func TestParseFloat_CurrencyFormats(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"999.00", 999, true},
		{"$1,299.99", 1299.99, true},
		{"£45.50", 45.5, true},
		{"€ 1 234,", 1234, true},
		{"₹2500", 2500, true},
		{"-12.5", -12.5, true},
		{`"$99"`, 99, true},
		{"abc", 0, false},
		{"", 0, false},
		{"$", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseFloat(tt.raw, 0)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
	}
}

func TestParseInt_Defaults(t *testing.T) {
	got, ok := ParseInt("ten", DefaultQuantity)
	assert.False(t, ok)
	assert.Equal(t, DefaultQuantity, got)

	got, ok = ParseInt("3.0", DefaultQuantity)
	assert.True(t, ok)
	assert.Equal(t, 3, got)
}

func TestExtractRow_FullRow(t *testing.T) {
	hm, err := ResolveHeaders([]string{"Description", "Brand", "Qty", "Unit Price", "MSRP", "Condition", "UPC"})
	require.NoError(t, err)

	fields := TokenizeLine(`"Apple iPhone 14 Pro 128GB",Apple,2,"$650.00","$999.00",Brand New,194253401179`)
	item := ExtractRow(fields, hm, 1)

	assert.Equal(t, "Apple iPhone 14 Pro 128GB", item.Description)
	require.NotNil(t, item.Brand)
	assert.Equal(t, "Apple", *item.Brand)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 650.0, item.Price)
	require.NotNil(t, item.RetailPrice)
	assert.Equal(t, 999.0, *item.RetailPrice)
	assert.Equal(t, model.ConditionNew, item.Condition)
	require.NotNil(t, item.UPC)
	assert.Equal(t, "194253401179", *item.UPC)
}

func TestExtractRow_BadNumbersNeverFail(t *testing.T) {
	hm, err := ResolveHeaders([]string{"Description", "Qty", "Price"})
	require.NoError(t, err)

	item := ExtractRow([]string{"USB Cable", "a few", "cheap"}, hm, 3)

	assert.Equal(t, DefaultQuantity, item.Quantity)
	assert.Equal(t, float64(DefaultPrice), item.Price)
}

func TestExtractRow_ShortRow(t *testing.T) {
	hm, err := ResolveHeaders([]string{"Description", "Qty", "Price", "Brand"})
	require.NoError(t, err)

	// row shorter than header: missing cells read as empty
	item := ExtractRow([]string{"Widget", "2"}, hm, 5)

	assert.Equal(t, "Widget", item.Description)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 0.0, item.Price)
	assert.Nil(t, item.Brand)
}

func TestExtractRow_ConditionStrategySelection(t *testing.T) {
	// Explicit column present: exact synonym match is authoritative, the
	// description is NOT scanned even though it mentions "damaged".
	withCol, err := ResolveHeaders([]string{"Description", "Qty", "Price", "Condition"})
	require.NoError(t, err)

	item := ExtractRow([]string{"Damaged box TV stand kit", "1", "25", "Brand New"}, withCol, 1)
	assert.Equal(t, model.ConditionNew, item.Condition)

	// Unrecognized explicit value maps to Unknown, still no fallback scan
	item = ExtractRow([]string{"Damaged box TV stand kit", "1", "25", "Mixed Lot"}, withCol, 2)
	assert.Equal(t, model.ConditionUnknown, item.Condition)

	// No condition column: the looser description inference runs
	noCol, err := ResolveHeaders([]string{"Description", "Qty", "Price"})
	require.NoError(t, err)

	item = ExtractRow([]string{"Refurbished Dyson V8 vacuum", "1", "120"}, noCol, 3)
	assert.Equal(t, model.ConditionRefurbished, item.Condition)
}

func TestIsBlankRow(t *testing.T) {
	assert.True(t, IsBlankRow([]string{}))
	assert.True(t, IsBlankRow([]string{"", "  ", ""}))
	assert.False(t, IsBlankRow([]string{"", "x"}))
}
