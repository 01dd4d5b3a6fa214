package service

import "strings"

// Brand tier bands: resale percentage of MSRP a brand typically commands on
// the secondary market. Values inside a band are jittered per run.
type tierBand struct {
	Low  float64
	High float64
}

var (
	highTierBand  = tierBand{Low: 0.45, High: 0.60}
	midTierBand   = tierBand{Low: 0.30, High: 0.45}
	otherTierBand = tierBand{Low: 0.20, High: 0.35}
)

// highTierBrands hold value well; strong demand even for open-box units
var highTierBrands = map[string]bool{
	"apple":      true,
	"dyson":      true,
	"sony":       true,
	"bose":       true,
	"samsung":    true,
	"lego":       true,
	"nintendo":   true,
	"dewalt":     true,
	"milwaukee":  true,
	"kitchenaid": true,
}

// midTierBrands move reliably but at a discount
var midTierBrands = map[string]bool{
	"lg":           true,
	"hp":           true,
	"dell":         true,
	"lenovo":       true,
	"shark":        true,
	"ninja":        true,
	"cuisinart":    true,
	"black+decker": true,
	"ryobi":        true,
	"jbl":          true,
	"logitech":     true,
	"philips":      true,
}

// bandForBrand picks the tier band by case-insensitive brand lookup
func bandForBrand(brand string) tierBand {
	key := strings.ToLower(strings.TrimSpace(brand))
	switch {
	case highTierBrands[key]:
		return highTierBand
	case midTierBrands[key]:
		return midTierBand
	default:
		return otherTierBand
	}
}
