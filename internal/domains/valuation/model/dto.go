package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ManifestValuationInput is the request payload for one valuation run
type ManifestValuationInput struct {
	ManifestCSV       string    `json:"manifest_csv" binding:"required"`
	BuyPctMSRP        float64   `json:"buy_pct_msrp"`
	FeePct            float64   `json:"fee_pct"`
	ShipPct           float64   `json:"ship_pct"`
	ScenarioSalePcts  []float64 `json:"scenario_sale_pcts"`
	InboundFreightEst *float64  `json:"inbound_freight_est,omitempty"`
	MinUnitsForBrand  int       `json:"min_units_for_brand,omitempty"`
}

// Validate checks the request shape before the agent runs
func (r ManifestValuationInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ManifestCSV,
			validation.Required.Error("manifest_csv is required"),
		),
		validation.Field(&r.BuyPctMSRP,
			validation.Min(0.0), validation.Max(1.0),
		),
		validation.Field(&r.FeePct,
			validation.Min(0.0), validation.Max(1.0),
		),
		validation.Field(&r.ShipPct,
			validation.Min(0.0), validation.Max(1.0),
		),
		validation.Field(&r.ScenarioSalePcts,
			validation.Required.Error("at least one scenario sale percentage is required"),
			validation.Length(1, 0),
			validation.Each(validation.Min(0.0), validation.Max(1.0)),
		),
		validation.Field(&r.InboundFreightEst,
			validation.Min(0.0),
		),
		validation.Field(&r.MinUnitsForBrand,
			validation.Min(0),
		),
	)
}

// MinUnits returns the brand threshold with its default of 1 applied
func (r ManifestValuationInput) MinUnits() int {
	if r.MinUnitsForBrand <= 0 {
		return 1
	}
	return r.MinUnitsForBrand
}
