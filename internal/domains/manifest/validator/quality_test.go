package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-analyzer/internal/domains/manifest/model"
)

func richItem(desc, brand, category string) model.ManifestItem {
	return model.ManifestItem{
		Description: desc,
		Brand:       strPtr(brand),
		Category:    strPtr(category),
		Condition:   model.ConditionNew,
		Quantity:    2,
		Price:       50,
		RetailPrice: floatPtr(120),
	}
}

func TestAnalyzeDataQuality_EmptyBatch(t *testing.T) {
	report := AnalyzeDataQuality(nil)

	assert.Equal(t, 0.0, report.OverallScore)
	assert.Equal(t, 0.0, report.CompletenessScore)
	assert.Equal(t, 0.0, report.ConsistencyScore)
	assert.Equal(t, 0.0, report.AccuracyScore)
	require.Len(t, report.Insights, 1)
	assert.Contains(t, report.Insights[0], "No valid items")
}

func TestAnalyzeDataQuality_FullyDetailedBatch(t *testing.T) {
	// brand cardinality must stay under 80% of the item count and category
	// cardinality under 50% for full consistency credit
	items := []model.ManifestItem{
		richItem("Apple iPhone 14 Pro 128GB", "Apple", "Electronics"),
		richItem("Apple AirPods Pro 2nd Gen", "Apple", "Electronics"),
		richItem("Samsung Galaxy S23 Ultra 256GB", "Samsung", "Electronics"),
		richItem("Samsung 55 inch QLED TV", "Samsung", "Electronics"),
		richItem("Dyson V8 Cordless Vacuum", "Dyson", "Home"),
	}

	report := AnalyzeDataQuality(items)

	// every presence ratio is 1.0, all cardinalities in range, all values plausible
	assert.Equal(t, 100.0, report.CompletenessScore)
	assert.Equal(t, 100.0, report.ConsistencyScore)
	assert.Equal(t, 100.0, report.AccuracyScore)
	assert.Equal(t, 100.0, report.OverallScore)

	require.NotEmpty(t, report.Insights)
	assert.Contains(t, report.Insights[0], "Excellent")
}

func TestAnalyzeDataQuality_SparseBatch(t *testing.T) {
	items := []model.ManifestItem{
		{Description: "thing", Condition: model.ConditionUnknown, Quantity: 1, Price: 5},
		{Description: "stuff", Condition: model.ConditionUnknown, Quantity: 1, Price: 5},
	}

	report := AnalyzeDataQuality(items)

	// no brand/category/retail, short descriptions, unknown condition
	assert.Equal(t, 0.0, report.CompletenessScore)
	assert.Less(t, report.OverallScore, 70.0)

	joined := ""
	for _, s := range report.Insights {
		joined += s + "\n"
	}
	assert.Contains(t, joined, "missing brand")
	assert.Contains(t, joined, "needs improvement")
}

func TestAnalyzeDataQuality_AccuracyPenalties(t *testing.T) {
	bad := richItem("Implausible pallet of mystery goods", "Acme", "Misc")
	bad.Price = 50000            // outside (0,10000)
	bad.Quantity = 5000          // outside (0,1000)
	bad.TotalPrice = floatPtr(1) // inconsistent with price*qty

	report := AnalyzeDataQuality([]model.ManifestItem{bad})

	assert.Equal(t, 0.0, report.AccuracyScore)
	joined := ""
	for _, s := range report.Insights {
		joined += s + "\n"
	}
	assert.Contains(t, joined, "plausible ranges")
}

func TestAnalyzeDataQuality_ConsistencyCardinality(t *testing.T) {
	// 5 items, 5 distinct brands: cardinality >= 80% of count, half credit.
	// 5 distinct categories: >= 50% of count, half credit.
	items := make([]model.ManifestItem, 5)
	brands := []string{"A", "B", "C", "D", "E"}
	for i := range items {
		items[i] = richItem("Well described product number "+brands[i], brands[i], "Cat"+brands[i])
	}

	report := AnalyzeDataQuality(items)

	// 0.5*0.4 + 0.5*0.4 + 1.0*0.2 = 0.6
	assert.Equal(t, 60.0, report.ConsistencyScore)
}
