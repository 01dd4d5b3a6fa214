package service

import (
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/parser"
	"manifest-analyzer/internal/domains/manifest/validator"
)

// ParseManifest runs the full ingestion pipeline over raw CSV text:
// normalize, tokenize the header, resolve columns, then per data row
// extract+normalize and validate, accumulating findings. Returns the
// best-effort partial result (accepted items plus diagnostics) unless the
// file has a structural problem, in which case a *parser.ParseError is
// returned and nothing else.
//
// Pure CPU-bound text processing: no I/O, no shared state. Each call builds
// its own validator accumulator, so concurrent calls are independent.
func ParseManifest(content string) (*model.ParseResult, error) {
	lines := parser.SplitLines(content)

	if len(lines) == 0 {
		return nil, parser.NewParseError(parser.ErrCodeEmptyFile, "file is empty")
	}
	if len(lines) < 2 {
		return nil, parser.NewParseError(parser.ErrCodeTooFewLines,
			"file must contain a header row and at least one data row")
	}

	headers := parser.TokenizeLine(lines[0])
	headerMap, err := parser.ResolveHeaders(headers)
	if err != nil {
		return nil, err
	}

	itemValidator := validator.NewItemValidator()

	var items []model.ManifestItem
	total := 0

	for i, line := range lines[1:] {
		rowIndex := i + 1 // 1-based data row index, header excluded

		fields := parser.TokenizeLine(line)
		if parser.IsBlankRow(fields) {
			continue
		}
		total++

		candidate := parser.ExtractRow(fields, headerMap, rowIndex)
		if accepted := itemValidator.Validate(candidate, rowIndex); accepted != nil {
			items = append(items, *accepted)
		}
	}

	summary := itemValidator.Summary(total, len(items))
	quality := validator.AnalyzeDataQuality(items)

	log.Debug().
		Int("total_rows", total).
		Int("accepted", len(items)).
		Int("errors", len(summary.Errors)).
		Int("warnings", len(summary.Warnings)).
		Float64("quality", quality.OverallScore).
		Msg("manifest parsed")

	return &model.ParseResult{
		Items:   items,
		Summary: summary,
		Quality: quality,
	}, nil
}
