package model

// Verdict is the agent's buy/pass recommendation
type Verdict string

const (
	VerdictBuy        Verdict = "BUY"
	VerdictPass       Verdict = "PASS"
	VerdictBorderline Verdict = "BORDERLINE"
)

// ManifestRow is one usable line of a valuation manifest after parsing.
// Rows with msrp <= 0 or qty <= 0 never make it into this type.
type ManifestRow struct {
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	MSRP        float64 `json:"msrp"`
	Qty         int     `json:"qty"`
}

// ManifestSnapshot holds the deterministic aggregates of one valuation run.
// Computed once, immutable, never persisted beyond the request.
type ManifestSnapshot struct {
	TotalUniqueSKUs int     `json:"total_unique_skus"`
	TotalUnits      int     `json:"total_units"`
	AggregateMSRP   float64 `json:"aggregate_msrp"`
	AvgMSRPPerUnit  float64 `json:"avg_msrp_per_unit"`
	PurchaseCost    float64 `json:"purchase_cost"`
}

// BrandMarketComp is the estimated resale percentage for one brand that met
// the minimum-unit threshold.
type BrandMarketComp struct {
	Brand            string  `json:"brand"`
	UnitCount        int     `json:"unit_count"`
	ResalePctMSRPEst float64 `json:"resale_pct_msrp_est"`
}

// ProfitScenario is the pure-arithmetic outcome of selling at one target
// resale percentage of MSRP.
type ProfitScenario struct {
	SalePctMSRP float64 `json:"sale_pct_msrp"`
	GrossSales  float64 `json:"gross_sales"`
	TotalFees   float64 `json:"total_fees"`
	TotalShip   float64 `json:"total_ship"`
	NetProfit   float64 `json:"net_profit"`
	ROC         float64 `json:"roc"`
}

// ManifestValuationOutput is the full agent result
type ManifestValuationOutput struct {
	ManifestSnapshot ManifestSnapshot  `json:"manifest_snapshot"`
	BrandMarketComps []BrandMarketComp `json:"brand_market_comps"`
	ProfitScenarios  []ProfitScenario  `json:"profit_scenarios"`
	OperationalNotes []string          `json:"operational_notes"`
	Verdict          Verdict           `json:"verdict"`
}
