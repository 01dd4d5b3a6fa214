package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateManifestRequest is the body of the dry-run validation endpoint:
// raw CSV content in, validation report out, nothing persisted.
type ValidateManifestRequest struct {
	Content string `json:"content" binding:"required"`
}

func (r ValidateManifestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.Length(1, 10*1024*1024),
		),
	)
}

// UploadManifestResponse is returned by the upload endpoint once the file
// has been parsed and persisted. Analysis continues asynchronously.
type UploadManifestResponse struct {
	Manifest *Manifest          `json:"manifest"`
	Summary  *ValidationSummary `json:"summary"`
	Quality  *QualityReport     `json:"quality"`
}

// ManifestDetailResponse is the full read model for one manifest
type ManifestDetailResponse struct {
	Manifest *Manifest      `json:"manifest"`
	Items    []ManifestItem `json:"items"`
}

// ListManifestsRequest carries pagination and filtering for the list endpoint
type ListManifestsRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

func (r ListManifestsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Limit, validation.Min(0), validation.Max(100)),
		validation.Field(&r.Status, validation.In("", ManifestStatusPending, ManifestStatusAnalyzed, ManifestStatusFailed)),
	)
}

// Normalize applies pagination defaults
func (r *ListManifestsRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
}
