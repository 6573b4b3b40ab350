// Package dto provides data transfer objects for object storage HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// CopyObjectRequest contains the parameters for a server-side copy. When
// DestinationScope is empty the copy stays within the source bucket.
type CopyObjectRequest struct {
	SourceKey        string `json:"source_key"`
	DestinationScope string `json:"destination_scope"`
	DestinationKey   string `json:"destination_key"`
}

// Validate checks if the copy request is valid.
func (r *CopyObjectRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SourceKey,
			validation.Required,
			customValidation.ObjectKey,
		),
		validation.Field(&r.DestinationScope,
			validation.When(r.DestinationScope != "", customValidation.ScopeName),
		),
		validation.Field(&r.DestinationKey,
			validation.Required,
			customValidation.ObjectKey,
		),
	)
}
