package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHeaders_CanonicalNames(t *testing.T) {
	hm, err := ResolveHeaders([]string{"Description", "Quantity", "Price"})
	require.NoError(t, err)

	assert.Equal(t, 0, hm.Description)
	assert.Equal(t, 1, hm.Quantity)
	assert.Equal(t, 2, hm.Price)
	assert.Equal(t, Unresolved, hm.Brand)
	assert.Equal(t, Unresolved, hm.Condition)
	assert.False(t, hm.HasCondition())
}

func TestResolveHeaders_Variants(t *testing.T) {
	headers := []string{"Item Description", "Qty", "Unit Cost", "Mfr Brand", "Cond.", "MSRP", "UPC Code"}
	hm, err := ResolveHeaders(headers)
	require.NoError(t, err)

	assert.Equal(t, 0, hm.Description)
	assert.Equal(t, 1, hm.Quantity)
	assert.Equal(t, 2, hm.Price)
	assert.Equal(t, 3, hm.Brand)
	assert.Equal(t, 4, hm.Condition)
	assert.Equal(t, 5, hm.RetailPrice)
	assert.Equal(t, 6, hm.UPC)
	assert.True(t, hm.HasCondition())
}

func TestResolveHeaders_RetailPriceNotShadowedByPrice(t *testing.T) {
	hm, err := ResolveHeaders([]string{"Retail Price", "Unit Price", "Qty", "Product"})
	require.NoError(t, err)

	assert.Equal(t, 0, hm.RetailPrice)
	assert.Equal(t, 1, hm.Price)
	assert.Equal(t, 3, hm.Description)
}

func TestResolveHeaders_MissingRequired(t *testing.T) {
	_, err := ResolveHeaders([]string{"Name", "Color"})
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, ErrCodeMissingColumns, parseErr.Code)
	assert.Contains(t, parseErr.Error(), "quantity")
	assert.Contains(t, parseErr.Error(), "price")
	// the headers seen are echoed for debugging
	assert.Contains(t, parseErr.Error(), "Name")
	assert.Contains(t, parseErr.Error(), "Color")
}

func TestResolveHeaders_Idempotent(t *testing.T) {
	headers := []string{"Product Name", "Qty", "Wholesale Price", "Brand", "Condition"}

	first, err1 := ResolveHeaders(headers)
	second, err2 := ResolveHeaders(headers)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}
