// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	customValidation "github.com/edgegate/edgegate/internal/validation"
)

// GrantRequest is the wire form of a permission grant.
type GrantRequest struct {
	Family string   `json:"family"`
	Scope  string   `json:"scope"`
	Levels []string `json:"levels"`
}

// Validate checks a single grant: a known family, a valid scope name and at
// least one known operation level.
func (r GrantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Family,
			validation.Required,
			validation.By(validateFamily),
		),
		validation.Field(&r.Scope,
			validation.Required,
			customValidation.ScopeName,
		),
		validation.Field(&r.Levels,
			validation.Required,
			validation.Each(validation.By(validateLevel)),
		),
	)
}

func validateFamily(value interface{}) error {
	family, ok := value.(string)
	if !ok || !authDomain.ResourceFamily(family).Valid() {
		return validation.NewError("validation_grant_family", "must be bucket or database")
	}
	return nil
}

func validateLevel(value interface{}) error {
	level, ok := value.(string)
	if !ok || !authDomain.OperationLevel(level).Valid() {
		return validation.NewError("validation_grant_level", "must be one of read, write, delete, admin")
	}
	return nil
}

// ToDomain converts the wire grant into its domain form.
func (r GrantRequest) ToDomain() authDomain.PermissionGrant {
	levels := make([]authDomain.OperationLevel, 0, len(r.Levels))
	for _, level := range r.Levels {
		levels = append(levels, authDomain.OperationLevel(level))
	}
	return authDomain.PermissionGrant{
		Family: authDomain.ResourceFamily(r.Family),
		Scope:  r.Scope,
		Levels: levels,
	}
}

// CreateCredentialRequest contains the parameters for creating a new credential.
type CreateCredentialRequest struct {
	Name     string         `json:"name"`
	IsActive bool           `json:"is_active"`
	Grants   []GrantRequest `json:"grants"`
}

// Validate checks if the create credential request is valid.
func (r *CreateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Grants,
			validation.Required,
		),
	)
}

// PresignRequest contains the parameters for issuing a pre-signed URL.
type PresignRequest struct {
	Scope      string `json:"scope"`
	Key        string `json:"key"`
	Method     string `json:"method"`
	TTLSeconds int64  `json:"ttl_seconds"`
}

// Validate checks if the presign request is valid. The TTL itself is clamped
// by the signer, so only negative values are rejected here.
func (r *PresignRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Scope,
			validation.Required,
			customValidation.ScopeName,
		),
		validation.Field(&r.Key,
			validation.Required,
			customValidation.ObjectKey,
		),
		validation.Field(&r.Method,
			validation.Required,
			customValidation.HTTPMethod,
		),
		validation.Field(&r.TTLSeconds,
			validation.Min(int64(0)),
		),
	)
}
