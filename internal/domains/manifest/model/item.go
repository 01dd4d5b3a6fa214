package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Condition represents the normalized item condition
type Condition string

const (
	ConditionNew         Condition = "New"
	ConditionUsed        Condition = "Used"
	ConditionRefurbished Condition = "Refurbished"
	ConditionOpenBox     Condition = "Open Box"
	ConditionDamaged     Condition = "Damaged"
	ConditionUnknown     Condition = "Unknown"
)

func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurbished, ConditionOpenBox, ConditionDamaged, ConditionUnknown:
		return true
	}
	return false
}

func (c Condition) String() string {
	return string(c)
}

// AllConditions lists valid values in display order (used for suggestion text)
func AllConditions() []Condition {
	return []Condition{
		ConditionNew,
		ConditionUsed,
		ConditionRefurbished,
		ConditionOpenBox,
		ConditionDamaged,
		ConditionUnknown,
	}
}

// ManifestItem is one normalized row extracted from an uploaded manifest.
// Optional fields use pointers; required fields are always populated by the
// extractor (quantity defaults to 1, price to 0 when the source cell is
// unparseable).
type ManifestItem struct {
	RowIndex int `json:"row_index"`

	Description string    `json:"description"`
	Brand       *string   `json:"brand,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Condition   Condition `json:"condition"`

	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`

	RetailPrice *float64 `json:"retail_price,omitempty"`
	TotalPrice  *float64 `json:"total_price,omitempty"`

	UPC      *string `json:"upc,omitempty"`
	SKU      *string `json:"sku,omitempty"`
	Location *string `json:"location,omitempty"`
	Notes    *string `json:"notes,omitempty"`
}

// ExtendedValue returns quantity * price for the row
func (i *ManifestItem) ExtendedValue() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Manifest status constants
const (
	ManifestStatusPending  = "pending"
	ManifestStatusAnalyzed = "analyzed"
	ManifestStatusFailed   = "failed"
)

// Manifest is the persisted record of one uploaded file plus its parse run.
type Manifest struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	FileName      string    `json:"file_name" db:"file_name"`
	FileSizeBytes int64     `json:"file_size_bytes" db:"file_size_bytes"`
	StorageKey    *string   `json:"storage_key,omitempty" db:"storage_key"`

	Status string `json:"status" db:"status"`

	TotalItems   int     `json:"total_items" db:"total_items"`
	ValidItems   int     `json:"valid_items" db:"valid_items"`
	InvalidItems int     `json:"invalid_items" db:"invalid_items"`
	QualityScore float64 `json:"quality_score" db:"quality_score"`

	CompletenessScore float64        `json:"completeness_score" db:"completeness_score"`
	ConsistencyScore  float64        `json:"consistency_score" db:"consistency_score"`
	AccuracyScore     float64        `json:"accuracy_score" db:"accuracy_score"`
	Insights          pq.StringArray `json:"insights" db:"insights"`

	AnalysisSummary *string `json:"analysis_summary,omitempty" db:"analysis_summary"`

	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	AnalyzedAt *time.Time `json:"analyzed_at,omitempty" db:"analyzed_at"`
}
