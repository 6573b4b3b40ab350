package dto

import (
	"time"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

// GrantResponse is the wire form of a permission grant in responses.
type GrantResponse struct {
	Family string   `json:"family"`
	Scope  string   `json:"scope"`
	Levels []string `json:"levels"`
}

// CredentialResponse represents a credential in API responses. The secret
// hash is never included.
type CredentialResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	IsActive  bool            `json:"is_active"`
	Grants    []GrantResponse `json:"grants"`
	RevokedAt *time.Time      `json:"revoked_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CredentialListResponse wraps a page of credentials.
type CredentialListResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
}

// CreateCredentialResponse is returned once at creation time. The api_key is
// the only copy of the secret and is never shown again.
type CreateCredentialResponse struct {
	ID     string `json:"id"`
	APIKey string `json:"api_key"`
}

// RotateCredentialResponse describes the outcome of a rotation.
type RotateCredentialResponse struct {
	ID        string `json:"id"`
	APIKey    string `json:"api_key"`
	RevokedID string `json:"revoked_id"`
}

// PresignResponse carries an issued pre-signed URL.
type PresignResponse struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapCredentialToResponse converts a domain credential to its response form.
func MapCredentialToResponse(credential *authDomain.Credential) CredentialResponse {
	grants := make([]GrantResponse, 0, len(credential.Grants))
	for _, grant := range credential.Grants {
		levels := make([]string, 0, len(grant.Levels))
		for _, level := range grant.Levels {
			levels = append(levels, string(level))
		}
		grants = append(grants, GrantResponse{
			Family: string(grant.Family),
			Scope:  grant.Scope,
			Levels: levels,
		})
	}

	return CredentialResponse{
		ID:        credential.ID.String(),
		Name:      credential.Name,
		IsActive:  credential.IsActive,
		Grants:    grants,
		RevokedAt: credential.RevokedAt,
		CreatedAt: credential.CreatedAt,
	}
}

// MapCredentialsToListResponse converts a page of credentials.
func MapCredentialsToListResponse(credentials []*authDomain.Credential) CredentialListResponse {
	response := CredentialListResponse{
		Credentials: make([]CredentialResponse, 0, len(credentials)),
	}
	for _, credential := range credentials {
		response.Credentials = append(response.Credentials, MapCredentialToResponse(credential))
	}
	return response
}
