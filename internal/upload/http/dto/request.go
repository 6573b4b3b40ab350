// Package dto provides data transfer objects for multipart upload HTTP handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// CreateUploadRequest contains the parameters for opening a multipart session.
type CreateUploadRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
}

// Validate checks if the create upload request is valid.
func (r *CreateUploadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Key,
			validation.Required,
			customValidation.ObjectKey,
		),
		validation.Field(&r.ContentType,
			validation.Length(0, 255),
		),
	)
}

// CompletePartRequest references one uploaded part by number and etag.
type CompletePartRequest struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

// CompleteUploadRequest lists the parts to assemble. The list must name every
// uploaded part in ascending order with the etags their uploads returned;
// whether it does is checked by the tracker, not here.
type CompleteUploadRequest struct {
	Parts []CompletePartRequest `json:"parts"`
}

// Validate checks if the complete upload request is valid.
func (r *CompleteUploadRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Parts,
			validation.Required,
			validation.Each(validation.By(validateCompletePart)),
		),
	)
}

func validateCompletePart(value interface{}) error {
	part, ok := value.(CompletePartRequest)
	if !ok {
		return validation.NewError("validation_part_type", "must be a part reference")
	}

	return validation.ValidateStruct(&part,
		validation.Field(&part.PartNumber,
			validation.Required,
			validation.Min(1),
			validation.Max(10000),
		),
		validation.Field(&part.ETag,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
