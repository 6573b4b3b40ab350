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

// MySQLCredentialRepository implements Credential persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db *sql.DB
}

// Create inserts a new Credential into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLCredentialRepository) Create(
	ctx context.Context,
	credential *authDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	grantsJSON, err := json.Marshal(credential.Grants)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential grants")
	}

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `INSERT INTO credentials (id, secret_hash, name, is_active, grants, revoked_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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

// Update modifies an existing Credential in the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLCredentialRepository) Update(
	ctx context.Context,
	credential *authDomain.Credential,
) error {
	querier := database.GetTx(ctx, m.db)

	grantsJSON, err := json.Marshal(credential.Grants)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential grants")
	}

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	query := `UPDATE credentials
			  SET secret_hash = ?,
			  	  name = ?,
				  is_active = ?,
				  grants = ?,
				  revoked_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		credential.SecretHash,
		credential.Name,
		credential.IsActive,
		grantsJSON,
		credential.RevokedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	return nil
}

// Get retrieves a Credential by ID from the MySQL database using BINARY(16) for UUIDs.
// Returns ErrCredentialNotFound if the credential doesn't exist.
func (m *MySQLCredentialRepository) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret_hash, name, is_active, grants, revoked_at, created_at
			  FROM credentials WHERE id = ?`

	id, err := credentialID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal credential id")
	}

	var credential authDomain.Credential
	var idBytes []byte
	var grantsJSON []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}

	if err := json.Unmarshal(grantsJSON, &credential.Grants); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential grants")
	}

	return &credential, nil
}

// List retrieves credentials ordered by ID descending with pagination support
// using BINARY(16) for UUIDs. Returns empty slice if no credentials found.
func (m *MySQLCredentialRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret_hash, name, is_active, grants, revoked_at, created_at
			  FROM credentials
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

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
		var idBytes []byte
		var grantsJSON []byte

		err := rows.Scan(
			&idBytes,
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

		if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
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

// NewMySQLCredentialRepository creates a new MySQL Credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}
