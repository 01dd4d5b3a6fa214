package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	valuation "manifest-analyzer/internal/domains/valuation/model"
)

// GeminiClient talks to Google's Gemini API for the advisory parts of the
// product: operational notes on a valuation and plain-language manifest
// insights. Everything it produces is optional; callers must keep working
// when it fails.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// OperationalNotes asks the model for short handling recommendations for a
// valued lot. Satisfies the valuation service's NotesGenerator.
func (c *GeminiClient) OperationalNotes(ctx context.Context, snapshot valuation.ManifestSnapshot, verdict valuation.Verdict) ([]string, error) {
	prompt := fmt.Sprintf(
		"You advise a liquidation reseller. A manifest has %d unique SKUs, "+
			"%d total units, aggregate MSRP $%.2f, purchase cost $%.2f. "+
			"The valuation verdict is %s. "+
			"Give 3 to 6 short operational recommendations for receiving, "+
			"inspecting and reselling this lot. One recommendation per line, "+
			"no numbering, no markdown.",
		snapshot.TotalUniqueSKUs,
		snapshot.TotalUnits,
		snapshot.AggregateMSRP,
		snapshot.PurchaseCost,
		verdict,
	)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return splitNotes(text), nil
}

// AnalysisSummary produces a short prose summary of a parsed manifest for
// the async analysis job.
func (c *GeminiClient) AnalysisSummary(ctx context.Context, fileName string, totalItems int, qualityScore float64, insights []string) (string, error) {
	prompt := fmt.Sprintf(
		"You advise a liquidation reseller. Summarize this manifest in 2-3 "+
			"sentences for a buyer deciding whether to bid. File: %s. "+
			"Items: %d. Data quality score: %.1f/100. Observations: %s. "+
			"Plain prose, no markdown.",
		fileName, totalItems, qualityScore, strings.Join(insights, "; "),
	)

	return c.generate(ctx, prompt)
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	result, err := c.client.Models.GenerateContent(ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.4)),
		},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("Gemini returned an empty response")
	}

	return text, nil
}

// splitNotes turns the model's line-per-note reply into a clean slice,
// tolerating stray bullets or numbering.
func splitNotes(text string) []string {
	var notes []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*•0123456789. ")
		if line != "" {
			notes = append(notes, line)
		}
	}
	return notes
}
