package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manifest-analyzer/internal/domains/valuation/model"
)

const sampleManifest = "Brand,Description,MSRP,Qty\n" +
	"Apple,AirPods Pro 2nd Gen,100,2\n" +
	"Generic,Phone Case Assortment,50,4\n"

func fixedJitter(v float64) func() float64 {
	return func() float64 { return v }
}

func sampleInput() model.ManifestValuationInput {
	freight := 50.0
	return model.ManifestValuationInput{
		ManifestCSV:       sampleManifest,
		BuyPctMSRP:        0.25,
		FeePct:            0.10,
		ShipPct:           0.05,
		ScenarioSalePcts:  []float64{0.5},
		InboundFreightEst: &freight,
	}
}

func TestAgentRun_SnapshotArithmetic(t *testing.T) {
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))

	out, err := agent.Run(context.Background(), sampleInput())
	require.NoError(t, err)

	snap := out.ManifestSnapshot
	assert.Equal(t, 2, snap.TotalUniqueSKUs)
	assert.Equal(t, 6, snap.TotalUnits)
	assert.Equal(t, 400.0, snap.AggregateMSRP)
	assert.Equal(t, 66.67, snap.AvgMSRPPerUnit)
	assert.Equal(t, 100.0, snap.PurchaseCost)
}

func TestAgentRun_ScenarioArithmetic(t *testing.T) {
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))

	out, err := agent.Run(context.Background(), sampleInput())
	require.NoError(t, err)

	require.Len(t, out.ProfitScenarios, 1)
	s := out.ProfitScenarios[0]
	assert.Equal(t, 0.5, s.SalePctMSRP)
	assert.Equal(t, 200.0, s.GrossSales)
	assert.Equal(t, 20.0, s.TotalFees)
	assert.Equal(t, 10.0, s.TotalShip)
	assert.Equal(t, 20.0, s.NetProfit, "200 gross - 100 cost - 20 fees - 10 ship - 50 freight")
	assert.Equal(t, 0.2, s.ROC)
	assert.Equal(t, model.VerdictPass, out.Verdict)
}

func TestAgentRun_BrandComps(t *testing.T) {
	// fixed jitter of 0.5 lands each estimate on its band midpoint
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))

	out, err := agent.Run(context.Background(), sampleInput())
	require.NoError(t, err)

	require.Len(t, out.BrandMarketComps, 2)

	// sorted by unit count descending
	generic := out.BrandMarketComps[0]
	assert.Equal(t, "Generic", generic.Brand)
	assert.Equal(t, 4, generic.UnitCount)
	assert.Equal(t, 0.28, generic.ResalePctMSRPEst, "other-tier midpoint of [0.20, 0.35]")

	apple := out.BrandMarketComps[1]
	assert.Equal(t, "Apple", apple.Brand)
	assert.Equal(t, 2, apple.UnitCount)
	assert.Equal(t, 0.53, apple.ResalePctMSRPEst, "high-tier midpoint of [0.45, 0.60]")
}

func TestAgentRun_BrandCompsRespectBands(t *testing.T) {
	csv := "Brand,Description,MSRP,Qty\n" +
		"Dyson,V11 Cordless Vacuum,600,3\n" +
		"Shark,Navigator Upright,200,5\n" +
		"NoName,Assorted Gadgets,20,10\n"

	for _, jitter := range []float64{0.0, 0.25, 0.75, 1.0} {
		agent := NewAgent(nil, WithJitterSource(fixedJitter(jitter)))
		input := sampleInput()
		input.ManifestCSV = csv

		out, err := agent.Run(context.Background(), input)
		require.NoError(t, err)

		for _, comp := range out.BrandMarketComps {
			band := bandForBrand(comp.Brand)
			assert.GreaterOrEqual(t, comp.ResalePctMSRPEst, band.Low, comp.Brand)
			assert.LessOrEqual(t, comp.ResalePctMSRPEst, band.High, comp.Brand)
		}
	}
}

func TestAgentRun_MinUnitsFiltersBrands(t *testing.T) {
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))
	input := sampleInput()
	input.MinUnitsForBrand = 3

	out, err := agent.Run(context.Background(), input)
	require.NoError(t, err)

	require.Len(t, out.BrandMarketComps, 1)
	assert.Equal(t, "Generic", out.BrandMarketComps[0].Brand)
}

func TestAgentRun_SkipsUnusableRows(t *testing.T) {
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))
	input := sampleInput()
	input.ManifestCSV = "Brand,Description,MSRP,Qty\n" +
		"Apple,Working row,100,2\n" +
		"Sony,Zero msrp,0,5\n" +
		"Bose,Zero qty,80,0\n" +
		"LG,Garbage numerics,n/a,two\n"

	out, err := agent.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, out.ManifestSnapshot.TotalUniqueSKUs)
	assert.Equal(t, 2, out.ManifestSnapshot.TotalUnits)
	assert.Equal(t, 200.0, out.ManifestSnapshot.AggregateMSRP)
}

func TestAgentRun_ParseFailures(t *testing.T) {
	agent := NewAgent(nil)

	tests := []struct {
		name     string
		csv      string
		wantCode string
	}{
		{"empty content", "", ErrCodeInvalidCSV},
		{"header only", "Brand,Description,MSRP,Qty\n", ErrCodeInvalidCSV},
		{"missing columns", "SKU,Color\nA1,red\n", ErrCodeMissingColumns},
		{"all rows unusable", "Brand,Description,MSRP,Qty\nApple,Broken,0,0\n", ErrCodeEmptyManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleInput()
			input.ManifestCSV = tt.csv

			_, err := agent.Run(context.Background(), input)

			var agentErr *AgentError
			require.ErrorAs(t, err, &agentErr)
			assert.Equal(t, tt.wantCode, agentErr.Code)
		})
	}
}

func TestDecideVerdict(t *testing.T) {
	scen := func(rocs ...float64) []model.ProfitScenario {
		out := make([]model.ProfitScenario, len(rocs))
		for i, r := range rocs {
			out[i] = model.ProfitScenario{ROC: r}
		}
		return out
	}

	tests := []struct {
		name string
		rocs []model.ProfitScenario
		want model.Verdict
	}{
		{"all above buy threshold", scen(1.4, 1.8), model.VerdictBuy},
		{"exactly at buy threshold", scen(1.4), model.VerdictBuy},
		{"all below pass threshold", scen(0.2, 1.19), model.VerdictPass},
		{"straddles thresholds", scen(0.9, 1.6), model.VerdictBorderline},
		{"best just under buy", scen(1.3, 1.39), model.VerdictBorderline},
		{"max exactly at pass threshold", scen(0.5, 1.2), model.VerdictBorderline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decideVerdict(tt.rocs))
		})
	}
}

func TestEstimateInboundFreight(t *testing.T) {
	assert.Equal(t, 150.0, estimateInboundFreight(1))
	assert.Equal(t, 150.0, estimateInboundFreight(49))
	assert.Equal(t, 250.0, estimateInboundFreight(50))
	assert.Equal(t, 250.0, estimateInboundFreight(199))
	assert.Equal(t, 400.0, estimateInboundFreight(200))
	assert.Equal(t, 400.0, estimateInboundFreight(499))
	assert.Equal(t, 600.0, estimateInboundFreight(500))
}

func TestAgentRun_FreightStepUsedWithoutEstimate(t *testing.T) {
	agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))
	input := sampleInput()
	input.InboundFreightEst = nil // 6 units -> 150 step

	out, err := agent.Run(context.Background(), input)
	require.NoError(t, err)

	s := out.ProfitScenarios[0]
	assert.Equal(t, -80.0, s.NetProfit, "200 gross - 100 cost - 20 fees - 10 ship - 150 freight")
}

type failingNotes struct{}

func (failingNotes) OperationalNotes(context.Context, model.ManifestSnapshot, model.Verdict) ([]string, error) {
	return nil, errors.New("upstream unavailable")
}

type cannedNotes struct {
	notes []string
}

func (c cannedNotes) OperationalNotes(context.Context, model.ManifestSnapshot, model.Verdict) ([]string, error) {
	return c.notes, nil
}

func TestAgentRun_NotesFallback(t *testing.T) {
	t.Run("nil generator", func(t *testing.T) {
		agent := NewAgent(nil, WithJitterSource(fixedJitter(0.5)))

		out, err := agent.Run(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, fallbackNotes(), out.OperationalNotes)
	})

	t.Run("failing generator does not fail the run", func(t *testing.T) {
		agent := NewAgent(failingNotes{}, WithJitterSource(fixedJitter(0.5)))

		out, err := agent.Run(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, fallbackNotes(), out.OperationalNotes)
	})

	t.Run("generator notes pass through capped at six", func(t *testing.T) {
		notes := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
		agent := NewAgent(cannedNotes{notes: notes}, WithJitterSource(fixedJitter(0.5)))

		out, err := agent.Run(context.Background(), sampleInput())
		require.NoError(t, err)
		assert.Equal(t, notes[:6], out.OperationalNotes)
	})
}
