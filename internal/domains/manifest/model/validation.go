package model

// Severity levels for validation findings
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ValidationError is a single finding against one field of one row.
// Type "error" means the row was rejected; "warning"/"info" annotate an
// accepted row.
type ValidationError struct {
	Type       string `json:"type"` // error/warning/info
	Field      string `json:"field"`
	Message    string `json:"message"`
	Value      string `json:"value,omitempty"`
	RowIndex   *int   `json:"row_index,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ValidationSummary aggregates one parse run.
// IsValid is true iff there are zero errors AND at least one accepted item.
type ValidationSummary struct {
	IsValid          bool              `json:"is_valid"`
	TotalItems       int               `json:"total_items"`
	ValidItems       int               `json:"valid_items"`
	InvalidItems     int               `json:"invalid_items"`
	Errors           []ValidationError `json:"errors"`
	Warnings         []ValidationError `json:"warnings"`
	Suggestions      []string          `json:"suggestions"`
	DataQualityScore float64           `json:"data_quality_score"`
}

// FileMetadata holds structural facts about the raw CSV text
type FileMetadata struct {
	TotalLines    int `json:"total_lines"`
	HeaderCount   int `json:"header_count"`
	EstimatedRows int `json:"estimated_rows"`
	FileSize      int `json:"file_size"`
}

// FileValidationResult is the whole-file structural pre-check, independent of
// item-level validation.
type FileValidationResult struct {
	IsValid  bool         `json:"is_valid"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
	Metadata FileMetadata `json:"metadata"`
}

// QualityReport is the output of the data quality scorer
type QualityReport struct {
	OverallScore      float64  `json:"overall_score"`
	CompletenessScore float64  `json:"completeness_score"`
	ConsistencyScore  float64  `json:"consistency_score"`
	AccuracyScore     float64  `json:"accuracy_score"`
	Insights          []string `json:"insights"`
}

// ParseResult bundles everything one ingestion run produces
type ParseResult struct {
	Items   []ManifestItem    `json:"items"`
	Summary ValidationSummary `json:"summary"`
	Quality QualityReport     `json:"quality"`
}
