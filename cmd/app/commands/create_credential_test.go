package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
)

type mockCredentialUseCase struct {
	mock.Mock
}

func (m *mockCredentialUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateCredentialInput,
) (*authDomain.CreateCredentialOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateCredentialOutput), args.Error(1)
}

func (m *mockCredentialUseCase) Rotate(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.RotateCredentialOutput, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.RotateCredentialOutput), args.Error(1)
}

func (m *mockCredentialUseCase) Revoke(ctx context.Context, credentialID uuid.UUID) error {
	args := m.Called(ctx, credentialID)
	return args.Error(0)
}

func (m *mockCredentialUseCase) Get(
	ctx context.Context,
	credentialID uuid.UUID,
) (*authDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Credential), args.Error(1)
}

func (m *mockCredentialUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*authDomain.Credential, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Credential), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateCredential(t *testing.T) {
	ctx := context.Background()
	logger := testLogger()
	credentialID := uuid.New()
	plainSecret := "test-secret"

	t.Run("non-interactive-text", func(t *testing.T) {
		mockUseCase := &mockCredentialUseCase{}
		input := &authDomain.CreateCredentialInput{
			Name:     "test-credential",
			IsActive: true,
			Grants: []authDomain.PermissionGrant{
				{
					Family: authDomain.FamilyBucket,
					Scope:  "*",
					Levels: []authDomain.OperationLevel{authDomain.LevelRead},
				},
			},
		}
		output := &authDomain.CreateCredentialOutput{
			ID:          credentialID,
			PlainSecret: plainSecret,
		}

		mockUseCase.On("Create", ctx, input).Return(output, nil)

		var out bytes.Buffer
		io := IOTuple{
			Reader: nil,
			Writer: &out,
		}

		err := RunCreateCredential(
			ctx,
			mockUseCase,
			logger,
			"test-credential",
			true,
			`[{"family":"bucket","scope":"*","levels":["read"]}]`,
			"text",
			io,
		)

		require.NoError(t, err)
		require.Contains(t, out.String(), credentialID.String())
		require.Contains(t, out.String(), plainSecret)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("interactive-json", func(t *testing.T) {
		mockUseCase := &mockCredentialUseCase{}
		input := &authDomain.CreateCredentialInput{
			Name:     "test-credential",
			IsActive: true,
			Grants: []authDomain.PermissionGrant{
				{
					Family: authDomain.FamilyDatabase,
					Scope:  "analytics",
					Levels: []authDomain.OperationLevel{authDomain.LevelRead, authDomain.LevelWrite},
				},
			},
		}
		output := &authDomain.CreateCredentialOutput{
			ID:          credentialID,
			PlainSecret: plainSecret,
		}

		mockUseCase.On("Create", ctx, input).Return(output, nil)

		// Simulate interactive input:
		// 1. Family: database
		// 2. Scope: analytics
		// 3. Levels: read,write
		// 4. Add another: n
		userInput := "database\nanalytics\nread,write\nn\n"
		var out bytes.Buffer
		io := IOTuple{
			Reader: bytes.NewBufferString(userInput),
			Writer: &out,
		}

		err := RunCreateCredential(ctx, mockUseCase, logger, "test-credential", true, "", "json", io)

		require.NoError(t, err)
		require.Contains(t, out.String(), credentialID.String())
		require.Contains(t, out.String(), plainSecret)
		require.Contains(t, out.String(), "{") // Should be JSON
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-grants-json", func(t *testing.T) {
		mockUseCase := &mockCredentialUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateCredential(ctx, mockUseCase, logger, "test-credential", true, `invalid-json`, "text", io)

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to parse grants JSON")
	})

	t.Run("invalid-family", func(t *testing.T) {
		mockUseCase := &mockCredentialUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateCredential(
			ctx,
			mockUseCase,
			logger,
			"test-credential",
			true,
			`[{"family":"filesystem","scope":"*","levels":["read"]}]`,
			"text",
			io,
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid resource family")
	})

	t.Run("invalid-level", func(t *testing.T) {
		mockUseCase := &mockCredentialUseCase{}
		io := IOTuple{
			Reader: nil,
			Writer: &bytes.Buffer{},
		}

		err := RunCreateCredential(
			ctx,
			mockUseCase,
			logger,
			"test-credential",
			true,
			`[{"family":"bucket","scope":"*","levels":["superuser"]}]`,
			"text",
			io,
		)

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid operation level")
	})
}
