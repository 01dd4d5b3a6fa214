package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"manifest-analyzer/internal/shared/utils"
)

// ContentFromUpload turns an uploaded file into the CSV text the pipeline
// consumes. XLSX workbooks are flattened from their first sheet; everything
// else is treated as CSV text as-is.
func ContentFromUpload(filename string, data []byte) (string, error) {
	if utils.FileExtension(filename) == "xlsx" {
		return xlsxToCSV(data)
	}
	return string(data), nil
}

// xlsxToCSV reads the first sheet of a workbook and renders it as CSV lines
// with the same quoting rules the tokenizer understands.
func xlsxToCSV(data []byte) (string, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to open xlsx workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("xlsx workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteCSVField(cell))
		}
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func quoteCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}
