// Package repository implements data persistence for API credentials.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID and JSONB types, MySQL uses
// BINARY(16) and JSON types. Permission grants are stored as a JSON document
// alongside the credential row.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	"github.com/edgegate/edgegate/internal/database"
	apperrors "github.com/edgegate/edgegate/internal/errors"
)

// PostgreSQLCredentialRepository implements Credential persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new Credential into the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Create(
	ctx context.Context,
	credential *authDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	grantsJSON, err := json.Marshal(credential.Grants)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential grants")
	}

	query := `INSERT INTO credentials (id, secret_hash, name, is_active, grants, revoked_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.SecretHash,
		credential.Name,
		credential.IsActive,
		grantsJSON,
		credential.RevokedAt,
		credential.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// Update modifies an existing Credential in the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Update(
	ctx context.Context,
	credential *authDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)

	grantsJSON, err := json.Marshal(credential.Grants)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential grants")
	}

	query := `UPDATE credentials
			  SET secret_hash = $1,
			  	  name = $2,
				  is_active = $3,
				  grants = $4,
				  revoked_at = $5
			  WHERE id = $6`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.SecretHash,
		credential.Name,
		credential.IsActive,
		grantsJSON,
		credential.RevokedAt,
		credential.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	return nil
}

// Get retrieves a Credential by ID from the PostgreSQL database.
func (p *PostgreSQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret_hash, name, is_active, grants, revoked_at, created_at
			  FROM credentials WHERE id = $1`

	var credential authDomain.Credential
	var grantsJSON []byte

	err := querier.QueryRowContext(ctx, query, credentialID).Scan(
		&credential.ID,
		&credential.SecretHash,
		&credential.Name,
		&credential.IsActive,
		&grantsJSON,
		&credential.RevokedAt,
		&credential.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get credential")
	}

	if err := json.Unmarshal(grantsJSON, &credential.Grants); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential grants")
	}

	return &credential, nil
}

// List retrieves credentials ordered by ID descending with pagination support.
// Returns empty slice if no credentials found.
func (p *PostgreSQLCredentialRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret_hash, name, is_active, grants, revoked_at, created_at
			  FROM credentials
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer func() {
		_ = rows.Close()
	}()

	// Initialize empty slice to avoid returning nil for empty results
	credentials := make([]*authDomain.Credential, 0)
	for rows.Next() {
		var credential authDomain.Credential
		var grantsJSON []byte

		err := rows.Scan(
			&credential.ID,
			&credential.SecretHash,
			&credential.Name,
			&credential.IsActive,
			&grantsJSON,
			&credential.RevokedAt,
			&credential.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential row")
		}

		if err := json.Unmarshal(grantsJSON, &credential.Grants); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal credential grants")
		}

		credentials = append(credentials, &credential)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating credential rows")
	}

	return credentials, nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL Credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}
