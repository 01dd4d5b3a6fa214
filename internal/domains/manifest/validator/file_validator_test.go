package validator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCSVStructure_ValidFile(t *testing.T) {
	content := "Description,Quantity,Price\nApple iPhone 14 Pro 128GB,1,999.00\nUSB Cable,10,5.00\n"

	result := ValidateCSVStructure(content)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 3, result.Metadata.TotalLines)
	assert.Equal(t, 3, result.Metadata.HeaderCount)
	assert.Equal(t, 2, result.Metadata.EstimatedRows)
	assert.Equal(t, len(content), result.Metadata.FileSize)
}

func TestValidateCSVStructure_EmptyFile(t *testing.T) {
	for _, content := range []string{"", "   \n  \n"} {
		result := ValidateCSVStructure(content)

		assert.False(t, result.IsValid)
		require.NotEmpty(t, result.Errors)
		assert.Contains(t, result.Errors[0], "empty")
		assert.Equal(t, 0, result.Metadata.TotalLines)
	}
}

func TestValidateCSVStructure_HeaderOnly(t *testing.T) {
	result := ValidateCSVStructure("Description,Quantity,Price\n")

	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "data row")
}

func TestValidateCSVStructure_TooFewColumns(t *testing.T) {
	result := ValidateCSVStructure("Description,Price\nitem,5\n")

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors[0], "columns")
}

func TestValidateCSVStructure_MissingRequiredColumns(t *testing.T) {
	// "Name,Cost" matches neither the field names nor their abbreviations
	result := ValidateCSVStructure("Name,Cost,Color\na,b,c\n")

	assert.False(t, result.IsValid)
	joined := strings.Join(result.Errors, "; ")
	assert.Contains(t, joined, "description")
	assert.Contains(t, joined, "quantity")
	assert.Contains(t, joined, "price")
}

func TestValidateCSVStructure_AbbreviationMatches(t *testing.T) {
	// "desc", "qua", "pri" abbreviations are enough at the structural level
	result := ValidateCSVStructure("Desc,Quant,Pricing\na,1,2\n")

	assert.True(t, result.IsValid, "errors: %v", result.Errors)
}

func TestValidateCSVStructure_HeaderWarnings(t *testing.T) {
	result := ValidateCSVStructure("Description,Quantity,Price,,Price\na,1,2,3,4\n")

	assert.True(t, result.IsValid, "warnings must not invalidate")
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "empty header")
	assert.Contains(t, result.Warnings[1], "duplicate")
}

func TestValidateCSVStructure_InconsistentColumnCounts(t *testing.T) {
	var b strings.Builder
	b.WriteString("Description,Quantity,Price\n")
	b.WriteString("good,1,2\n")
	b.WriteString("short,1\n")
	b.WriteString("long,1,2,3\n")

	result := ValidateCSVStructure(b.String())

	assert.True(t, result.IsValid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "2 of the first 3")
}

func TestValidateCSVStructure_SampleCapped(t *testing.T) {
	var b strings.Builder
	b.WriteString("Description,Quantity,Price\n")
	for i := 0; i < 150; i++ {
		b.WriteString(fmt.Sprintf("item %d,1\n", i)) // every row short
	}

	result := ValidateCSVStructure(b.String())

	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], fmt.Sprintf("first %d", RowSampleSize))
}

func TestValidateCSVStructure_LargeFileWarning(t *testing.T) {
	var b strings.Builder
	b.WriteString("Description,Quantity,Price\n")
	filler := strings.Repeat("x", 1024)
	for b.Len() <= LargeFileBytes {
		b.WriteString(filler + ",1,2\n")
	}

	result := ValidateCSVStructure(b.String())

	assert.True(t, result.IsValid)
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "5MB") {
			found = true
		}
	}
	assert.True(t, found, "expected large-file warning")
}
