package validator

import (
	"fmt"
	"strings"

	"manifest-analyzer/internal/domains/manifest/model"
	"manifest-analyzer/internal/domains/manifest/parser"
)

const (
	// MinColumns is the fewest header cells a usable manifest can have
	MinColumns = 3

	// RowSampleSize bounds the column-count consistency scan
	RowSampleSize = 100

	// LargeFileBytes triggers a processing-time warning (5000 KB)
	LargeFileBytes = 5000 * 1024
)

// requiredStructuralColumns are checked by name or first-3-letter
// abbreviation against the lowercased header cells.
var requiredStructuralColumns = []string{"description", "quantity", "price"}

// ValidateCSVStructure runs the whole-file structural pre-check. It never
// fails: every problem is appended to errors (file unusable) or warnings
// (file usable with caveats), and IsValid reflects the error list.
func ValidateCSVStructure(content string) model.FileValidationResult {
	result := model.FileValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, "file is empty")
		return finish(result)
	}

	lines := parser.SplitLines(content)
	result.Metadata = model.FileMetadata{
		TotalLines:    len(lines),
		FileSize:      len(content),
		EstimatedRows: len(lines) - 1,
	}

	if len(lines) < 2 {
		result.Errors = append(result.Errors, "file must contain a header row and at least one data row")
		return finish(result)
	}

	headers := parser.TokenizeLine(lines[0])
	result.Metadata.HeaderCount = len(headers)

	if len(headers) < MinColumns {
		result.Errors = append(result.Errors,
			fmt.Sprintf("header row has only %d columns; at least %d are required", len(headers), MinColumns))
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, required := range requiredStructuralColumns {
		abbrev := required[:3]
		found := false
		for _, h := range lowered {
			if strings.Contains(h, required) || strings.Contains(h, abbrev) {
				found = true
				break
			}
		}
		if !found {
			result.Errors = append(result.Errors,
				fmt.Sprintf("no column matching required field %q", required))
		}
	}

	emptyHeaders := 0
	for _, h := range lowered {
		if h == "" {
			emptyHeaders++
		}
	}
	if emptyHeaders > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d empty header cell(s)", emptyHeaders))
	}

	seen := make(map[string]bool)
	var duplicates []string
	for _, h := range lowered {
		if h == "" {
			continue
		}
		if seen[h] && !contains(duplicates, h) {
			duplicates = append(duplicates, h)
		}
		seen[h] = true
	}
	if len(duplicates) > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("duplicate header(s): %s", strings.Join(duplicates, ", ")))
	}

	inconsistent := 0
	sample := lines[1:]
	if len(sample) > RowSampleSize {
		sample = sample[:RowSampleSize]
	}
	for _, line := range sample {
		if len(parser.TokenizeLine(line)) != len(headers) {
			inconsistent++
		}
	}
	if inconsistent > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d of the first %d data rows have a column count different from the header", inconsistent, len(sample)))
	}

	if len(content) > LargeFileBytes {
		result.Warnings = append(result.Warnings,
			"file is larger than 5MB; processing may take a while")
	}

	return finish(result)
}

func finish(result model.FileValidationResult) model.FileValidationResult {
	result.IsValid = len(result.Errors) == 0
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
