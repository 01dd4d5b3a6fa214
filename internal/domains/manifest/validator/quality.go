package validator

import (
	"math"

	"manifest-analyzer/internal/domains/manifest/model"
)

// Sub-score weights for the overall data quality blend
const (
	weightCompleteness = 0.4
	weightConsistency  = 0.3
	weightAccuracy     = 0.3
)

// AnalyzeDataQuality scores a batch of accepted items on completeness,
// consistency and accuracy, blends them into an overall score and attaches
// threshold-based insight strings. An empty batch scores zero across the
// board with a single explanatory insight.
func AnalyzeDataQuality(items []model.ManifestItem) model.QualityReport {
	if len(items) == 0 {
		return model.QualityReport{
			Insights: []string{"No valid items to analyze; fix the validation errors and re-upload"},
		}
	}

	completeness := completenessScore(items)
	consistency := consistencyScore(items)
	accuracy := accuracyScore(items)
	overall := round2(weightCompleteness*completeness + weightConsistency*consistency + weightAccuracy*accuracy)

	return model.QualityReport{
		OverallScore:      overall,
		CompletenessScore: round2(completeness),
		ConsistencyScore:  round2(consistency),
		AccuracyScore:     round2(accuracy),
		Insights:          insights(overall, completeness, consistency, accuracy),
	}
}

// completenessScore rewards optional detail being present:
// detailed description 0.4, brand 0.2, category 0.2, known condition 0.1,
// retail price 0.1.
func completenessScore(items []model.ManifestItem) float64 {
	n := float64(len(items))
	var detailed, brand, category, condition, retail float64

	for _, it := range items {
		if len(it.Description) > 10 {
			detailed++
		}
		if it.Brand != nil && *it.Brand != "" {
			brand++
		}
		if it.Category != nil && *it.Category != "" {
			category++
		}
		if it.Condition != model.ConditionUnknown {
			condition++
		}
		if it.RetailPrice != nil && *it.RetailPrice > 0 {
			retail++
		}
	}

	return (detailed/n*0.4 + brand/n*0.2 + category/n*0.2 + condition/n*0.1 + retail/n*0.1) * 100
}

// consistencyScore penalizes suspicious cardinality: a manifest where nearly
// every row has a unique brand or category usually means the columns carry
// free text instead of real brand/category values.
func consistencyScore(items []model.ManifestItem) float64 {
	n := float64(len(items))

	brands := make(map[string]bool)
	categories := make(map[string]bool)
	conditions := make(map[model.Condition]bool)

	for _, it := range items {
		if it.Brand != nil && *it.Brand != "" {
			brands[*it.Brand] = true
		}
		if it.Category != nil && *it.Category != "" {
			categories[*it.Category] = true
		}
		conditions[it.Condition] = true
	}

	brandScore := 0.5
	if float64(len(brands)) < n*0.8 {
		brandScore = 1.0
	}

	categoryScore := 0.5
	if float64(len(categories)) < n*0.5 {
		categoryScore = 1.0
	}

	conditionScore := 0.5
	if len(conditions) <= 6 {
		conditionScore = 1.0
	}

	score := (brandScore*0.4 + categoryScore*0.4 + conditionScore*0.2) * 100
	return math.Min(score, 100)
}

// accuracyScore checks values against plausible ranges:
// price in (0,10000) 0.4, quantity in (0,1000) 0.3, total consistent 0.3.
func accuracyScore(items []model.ManifestItem) float64 {
	n := float64(len(items))
	var priceOK, qtyOK, totalOK float64

	for _, it := range items {
		if it.Price > 0 && it.Price < 10000 {
			priceOK++
		}
		if it.Quantity > 0 && it.Quantity < 1000 {
			qtyOK++
		}
		if it.TotalPrice == nil || math.Abs(*it.TotalPrice-it.Price*float64(it.Quantity)) <= TotalPriceTolerance {
			totalOK++
		}
	}

	return (priceOK/n*0.4 + qtyOK/n*0.3 + totalOK/n*0.3) * 100
}

func insights(overall, completeness, consistency, accuracy float64) []string {
	var out []string

	if completeness < 70 {
		out = append(out, "Many items are missing brand, category or condition details; filling them in will sharpen the analysis")
	}
	if consistency < 70 {
		out = append(out, "Brand and category values look inconsistent; use a fixed set of names instead of free text")
	}
	if accuracy < 70 {
		out = append(out, "Some prices or quantities fall outside plausible ranges; verify them against the source manifest")
	}

	switch {
	case overall >= 90:
		out = append(out, "Excellent data quality; this manifest is ready for full analysis")
	case overall >= 70:
		out = append(out, "Data quality is good enough for analysis")
	default:
		out = append(out, "Data quality needs improvement before the analysis results can be trusted")
	}

	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
