package parser

// Structural error codes. These are fatal for the whole parse run; row-level
// problems never surface through ParseError.
const (
	ErrCodeEmptyFile      = "EMPTY_FILE"
	ErrCodeTooFewLines    = "TOO_FEW_LINES"
	ErrCodeMissingColumns = "MISSING_COLUMNS"
	ErrCodeNoValidRows    = "NO_VALID_ROWS"
)

// ParseError is a fatal structural failure of an ingestion run
type ParseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a structural parse error
func NewParseError(code, message string) *ParseError {
	return &ParseError{Code: code, Message: message}
}
