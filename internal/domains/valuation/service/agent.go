package service

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"manifest-analyzer/internal/domains/manifest/parser"
	"manifest-analyzer/internal/domains/valuation/model"
)

// Verdict thresholds on return-on-capital across scenarios
const (
	buyMinROC  = 1.4
	passMaxROC = 1.2
)

// Agent error codes (fatal, abort the run)
const (
	ErrCodeInvalidCSV     = "INVALID_CSV"
	ErrCodeMissingColumns = "MISSING_REQUIRED_COLUMNS"
	ErrCodeEmptyManifest  = "EMPTY_MANIFEST"
)

// AgentError is a fatal structural failure of a valuation run
type AgentError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AgentError) Error() string {
	return e.Message
}

// NotesGenerator produces short operational guidance strings for a lot.
// Implemented by the external AI collaborator; the agent always has a
// deterministic local fallback, so implementations may fail freely.
type NotesGenerator interface {
	OperationalNotes(ctx context.Context, snapshot model.ManifestSnapshot, verdict model.Verdict) ([]string, error)
}

// Agent runs manifest valuations. Steps 1-4 and 6 are deterministic
// arithmetic except the bounded brand-comp jitter, which draws from an
// injectable source so tests can pin exact values.
type Agent struct {
	notes        NotesGenerator
	jitter       func() float64
	notesTimeout time.Duration
}

// Option configures an Agent
type Option func(*Agent)

// WithJitterSource replaces the brand-comp randomness (tests pass a
// constant source)
func WithJitterSource(f func() float64) Option {
	return func(a *Agent) { a.jitter = f }
}

// WithNotesTimeout bounds how long the external notes call may take
func WithNotesTimeout(d time.Duration) Option {
	return func(a *Agent) { a.notesTimeout = d }
}

// NewAgent creates a valuation agent. notes may be nil; the local fallback
// is used then.
func NewAgent(notes NotesGenerator, opts ...Option) *Agent {
	a := &Agent{
		notes:        notes,
		jitter:       rand.Float64,
		notesTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one valuation: parse, snapshot, brand comps, profit
// scenarios, operational notes, verdict. Structural CSV problems abort with
// an *AgentError; a failing notes collaborator never does.
func (a *Agent) Run(ctx context.Context, input model.ManifestValuationInput) (*model.ManifestValuationOutput, error) {
	rows, err := parseValuationCSV(input.ManifestCSV)
	if err != nil {
		return nil, err
	}

	snapshot := buildSnapshot(rows, input.BuyPctMSRP)
	comps := a.brandComps(rows, input.MinUnits())
	scenarios := buildScenarios(snapshot, input)
	verdict := decideVerdict(scenarios)
	notes := a.operationalNotes(ctx, snapshot, verdict)

	log.Info().
		Int("skus", snapshot.TotalUniqueSKUs).
		Int("units", snapshot.TotalUnits).
		Float64("aggregate_msrp", snapshot.AggregateMSRP).
		Str("verdict", string(verdict)).
		Msg("valuation run completed")

	return &model.ManifestValuationOutput{
		ManifestSnapshot: snapshot,
		BrandMarketComps: comps,
		ProfitScenarios:  scenarios,
		OperationalNotes: notes,
		Verdict:          verdict,
	}, nil
}

// parseValuationCSV resolves the brand/description/msrp/qty columns by
// lowercase substring match and keeps only usable rows (msrp > 0, qty > 0).
func parseValuationCSV(content string) ([]model.ManifestRow, error) {
	lines := parser.SplitLines(content)
	if len(lines) < 2 {
		return nil, &AgentError{Code: ErrCodeInvalidCSV, Message: "invalid csv: need a header row and at least one data row"}
	}

	headers := parser.TokenizeLine(lines[0])
	brandIdx, descIdx, msrpIdx, qtyIdx := -1, -1, -1, -1

	for i, h := range headers {
		lowered := strings.ToLower(strings.TrimSpace(h))
		switch {
		case brandIdx == -1 && strings.Contains(lowered, "brand"):
			brandIdx = i
		case descIdx == -1 && strings.Contains(lowered, "description"):
			descIdx = i
		case msrpIdx == -1 && strings.Contains(lowered, "msrp"):
			msrpIdx = i
		case qtyIdx == -1 && (strings.Contains(lowered, "qty") || strings.Contains(lowered, "quantity")):
			qtyIdx = i
		}
	}

	if brandIdx == -1 || descIdx == -1 || msrpIdx == -1 || qtyIdx == -1 {
		return nil, &AgentError{
			Code:    ErrCodeMissingColumns,
			Message: fmt.Sprintf("missing required columns (need brand, description, msrp, qty; got: %s)", strings.Join(headers, ", ")),
		}
	}

	var rows []model.ManifestRow
	for _, line := range lines[1:] {
		fields := parser.TokenizeLine(line)
		if parser.IsBlankRow(fields) {
			continue
		}

		get := func(idx int) string {
			if idx < len(fields) {
				return strings.TrimSpace(fields[idx])
			}
			return ""
		}

		msrp, _ := parser.ParseFloat(get(msrpIdx), 0)
		qty, _ := parser.ParseInt(get(qtyIdx), 0)
		if msrp <= 0 || qty <= 0 {
			// unusable for valuation, silently skipped
			continue
		}

		rows = append(rows, model.ManifestRow{
			Brand:       get(brandIdx),
			Description: get(descIdx),
			MSRP:        msrp,
			Qty:         qty,
		})
	}

	if len(rows) == 0 {
		return nil, &AgentError{Code: ErrCodeEmptyManifest, Message: "empty manifest: no rows with positive msrp and qty"}
	}

	return rows, nil
}

// buildSnapshot computes the deterministic lot aggregates
func buildSnapshot(rows []model.ManifestRow, buyPctMSRP float64) model.ManifestSnapshot {
	totalUnits := 0
	aggregate := decimal.Zero

	for _, r := range rows {
		totalUnits += r.Qty
		aggregate = aggregate.Add(decimal.NewFromFloat(r.MSRP).Mul(decimal.NewFromInt(int64(r.Qty))))
	}

	avg := decimal.Zero
	if totalUnits > 0 {
		avg = aggregate.Div(decimal.NewFromInt(int64(totalUnits)))
	}
	purchase := aggregate.Mul(decimal.NewFromFloat(buyPctMSRP))

	return model.ManifestSnapshot{
		TotalUniqueSKUs: len(rows),
		TotalUnits:      totalUnits,
		AggregateMSRP:   toFloat2(aggregate),
		AvgMSRPPerUnit:  toFloat2(avg),
		PurchaseCost:    toFloat2(purchase),
	}
}

// brandComps groups units by brand, drops brands under the threshold and
// estimates a resale percentage inside the brand's tier band.
func (a *Agent) brandComps(rows []model.ManifestRow, minUnits int) []model.BrandMarketComp {
	units := make(map[string]int)
	for _, r := range rows {
		brand := strings.TrimSpace(r.Brand)
		if brand == "" {
			brand = "Unknown"
		}
		units[brand] += r.Qty
	}

	comps := make([]model.BrandMarketComp, 0, len(units))
	for brand, count := range units {
		if count < minUnits {
			continue
		}
		band := bandForBrand(brand)
		low := decimal.NewFromFloat(band.Low)
		width := decimal.NewFromFloat(band.High).Sub(low)
		pct := low.Add(decimal.NewFromFloat(a.jitter()).Mul(width))
		comps = append(comps, model.BrandMarketComp{
			Brand:            brand,
			UnitCount:        count,
			ResalePctMSRPEst: toFloat2(pct),
		})
	}

	sort.Slice(comps, func(i, j int) bool {
		if comps[i].UnitCount != comps[j].UnitCount {
			return comps[i].UnitCount > comps[j].UnitCount
		}
		return comps[i].Brand < comps[j].Brand
	})

	return comps
}

// estimateInboundFreight is the step function used when the caller does not
// supply an estimate.
func estimateInboundFreight(totalUnits int) float64 {
	switch {
	case totalUnits < 50:
		return 150
	case totalUnits < 200:
		return 250
	case totalUnits < 500:
		return 400
	default:
		return 600
	}
}

// buildScenarios computes the profit table, one row per target sale
// percentage. Pure arithmetic over the snapshot.
func buildScenarios(snapshot model.ManifestSnapshot, input model.ManifestValuationInput) []model.ProfitScenario {
	freight := decimal.NewFromFloat(estimateInboundFreight(snapshot.TotalUnits))
	if input.InboundFreightEst != nil {
		freight = decimal.NewFromFloat(*input.InboundFreightEst)
	}

	aggregate := decimal.NewFromFloat(snapshot.AggregateMSRP)
	purchase := decimal.NewFromFloat(snapshot.PurchaseCost)
	feePct := decimal.NewFromFloat(input.FeePct)
	shipPct := decimal.NewFromFloat(input.ShipPct)

	scenarios := make([]model.ProfitScenario, 0, len(input.ScenarioSalePcts))
	for _, salePct := range input.ScenarioSalePcts {
		gross := aggregate.Mul(decimal.NewFromFloat(salePct))
		fees := gross.Mul(feePct)
		ship := gross.Mul(shipPct)
		totalCost := purchase.Add(fees).Add(ship).Add(freight)
		net := gross.Sub(totalCost)

		roc := decimal.Zero
		if !purchase.IsZero() {
			roc = net.Div(purchase)
		}

		scenarios = append(scenarios, model.ProfitScenario{
			SalePctMSRP: salePct,
			GrossSales:  toFloat2(gross),
			TotalFees:   toFloat2(fees),
			TotalShip:   toFloat2(ship),
			NetProfit:   toFloat2(net),
			ROC:         toFloat2(roc),
		})
	}

	return scenarios
}

// decideVerdict applies the ROC thresholds across all scenarios
func decideVerdict(scenarios []model.ProfitScenario) model.Verdict {
	if len(scenarios) == 0 {
		return model.VerdictBorderline
	}

	minROC := scenarios[0].ROC
	maxROC := scenarios[0].ROC
	for _, s := range scenarios[1:] {
		if s.ROC < minROC {
			minROC = s.ROC
		}
		if s.ROC > maxROC {
			maxROC = s.ROC
		}
	}

	switch {
	case minROC >= buyMinROC:
		return model.VerdictBuy
	case maxROC < passMaxROC:
		return model.VerdictPass
	default:
		return model.VerdictBorderline
	}
}

// operationalNotes asks the external collaborator, falling back to the fixed
// local list on any failure so the run always returns a complete result.
func (a *Agent) operationalNotes(ctx context.Context, snapshot model.ManifestSnapshot, verdict model.Verdict) []string {
	if a.notes == nil {
		return fallbackNotes()
	}

	notesCtx, cancel := context.WithTimeout(ctx, a.notesTimeout)
	defer cancel()

	notes, err := a.notes.OperationalNotes(notesCtx, snapshot, verdict)
	if err != nil || len(notes) < 3 {
		log.Warn().Err(err).Int("notes", len(notes)).Msg("notes generator unavailable, using fallback notes")
		return fallbackNotes()
	}

	// keep the output short
	if len(notes) > 6 {
		notes = notes[:6]
	}
	return notes
}

func fallbackNotes() []string {
	return []string{
		"Verify pallet count and carton condition at delivery before signing the BOL",
		"Spot-check 10% of high-value units against the manifest before listing",
		"List high-tier brands first; they fund the carrying cost of slower stock",
		"Budget labor for testing and photographing each unique SKU",
		"Track realized resale percentages per brand to refine future bids",
	}
}

func toFloat2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
