package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCredential_IsAllowed(t *testing.T) {
	tests := []struct {
		name     string
		grants   []PermissionGrant
		family   ResourceFamily
		scope    string
		level    OperationLevel
		expected bool
	}{
		{
			name: "exact scope and level",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelRead}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    LevelRead,
			expected: true,
		},
		{
			name: "wildcard scope",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "*", Levels: []OperationLevel{LevelWrite}},
			},
			family:   FamilyBucket,
			scope:    "anything",
			level:    LevelWrite,
			expected: true,
		},
		{
			name: "family mismatch",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelRead}},
			},
			family:   FamilyDatabase,
			scope:    "media",
			level:    LevelRead,
			expected: false,
		},
		{
			name: "scope mismatch",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelRead}},
			},
			family:   FamilyBucket,
			scope:    "backups",
			level:    LevelRead,
			expected: false,
		},
		{
			name: "delete does not imply write",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelDelete}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    LevelWrite,
			expected: false,
		},
		{
			name: "delete does not imply read",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelDelete}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    LevelRead,
			expected: false,
		},
		{
			name: "delete allows delete",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelDelete}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    LevelDelete,
			expected: true,
		},
		{
			name: "admin does not imply lower levels",
			grants: []PermissionGrant{
				{Family: FamilyDatabase, Scope: "reports", Levels: []OperationLevel{LevelAdmin}},
			},
			family:   FamilyDatabase,
			scope:    "reports",
			level:    LevelRead,
			expected: false,
		},
		{
			name: "level found in later grant",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelRead}},
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelDelete}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    LevelDelete,
			expected: true,
		},
		{
			name: "empty scope rejected",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "*", Levels: []OperationLevel{LevelRead}},
			},
			family:   FamilyBucket,
			scope:    "",
			level:    LevelRead,
			expected: false,
		},
		{
			name: "invalid level rejected",
			grants: []PermissionGrant{
				{Family: FamilyBucket, Scope: "media", Levels: []OperationLevel{LevelRead}},
			},
			family:   FamilyBucket,
			scope:    "media",
			level:    OperationLevel("superuser"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cred := &Credential{ID: uuid.New(), Grants: tt.grants}
			assert.Equal(t, tt.expected, cred.IsAllowed(tt.family, tt.scope, tt.level))
		})
	}
}

func TestCredential_CanAuthenticate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name     string
		cred     Credential
		expected bool
	}{
		{
			name:     "active and live",
			cred:     Credential{IsActive: true},
			expected: true,
		},
		{
			name:     "inactive",
			cred:     Credential{IsActive: false},
			expected: false,
		},
		{
			name:     "revoked",
			cred:     Credential{IsActive: true, RevokedAt: &now},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cred.CanAuthenticate())
		})
	}
}

func TestOperationLevel_Valid(t *testing.T) {
	for _, level := range Levels {
		assert.True(t, level.Valid())
	}
	assert.False(t, OperationLevel("").Valid())
	assert.False(t, OperationLevel("root").Valid())
}
