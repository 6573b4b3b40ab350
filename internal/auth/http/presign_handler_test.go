package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	apperrors "github.com/edgegate/edgegate/internal/errors"
	"github.com/edgegate/edgegate/internal/httputil"
)

type mockCapabilitySigner struct {
	mock.Mock
}

func (m *mockCapabilitySigner) Issue(
	scope, key, method string,
	ttl time.Duration,
) (*authDomain.SignedCapability, error) {
	args := m.Called(scope, key, method, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SignedCapability), args.Error(1)
}

func (m *mockCapabilitySigner) Verify(
	params authDomain.CapabilityParams,
	requestMethod string,
	now time.Time,
) (*authDomain.SignedCapability, error) {
	args := m.Called(params, requestMethod, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.SignedCapability), args.Error(1)
}

func newPresignRouter(gate *mockGateUseCase, signer *mockCapabilitySigner, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewPresignHandler(gate, signer, testLogger())

	router := gin.New()
	router.POST("/v1/presign", func(c *gin.Context) {
		if authenticated {
			ctx := WithCredential(c.Request.Context(), testCredential())
			c.Request = c.Request.WithContext(ctx)
		}
	}, handler.PresignURLHandler)
	return router
}

func TestPresignHandler_Issue(t *testing.T) {
	gate := &mockGateUseCase{}
	signer := &mockCapabilitySigner{}

	expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	capability := &authDomain.SignedCapability{
		Scope:     "media",
		Key:       "photos/a.jpg",
		Method:    http.MethodGet,
		ExpiresAt: expiresAt,
		Nonce:     "abc123",
		Signature: []byte{0xde, 0xad, 0xbe, 0xef},
	}

	gate.On("Authorize", mock.Anything, authDomain.FamilyBucket, "media", authDomain.LevelAdmin).Return(nil)
	signer.On("Issue", "media", "photos/a.jpg", http.MethodGet, time.Hour).Return(capability, nil)

	body := `{"scope": "media", "key": "photos/a.jpg", "method": "GET", "ttl_seconds": 3600}`
	router := newPresignRouter(gate, signer, true)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/presign", bytes.NewBufferString(body))
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)
	var envelope httputil.Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	data := envelope.Data.(map[string]any)

	assert.Equal(t, http.MethodGet, data["method"])
	url := data["url"].(string)
	assert.Contains(t, url, "/v1/buckets/media/objects/photos/a.jpg?")
	assert.Contains(t, url, "signature=deadbeef")
	assert.Contains(t, url, "nonce=abc123")
	assert.Contains(t, url, "expires=")

	gate.AssertExpectations(t)
	signer.AssertExpectations(t)
}

func TestPresignHandler_RequiresAdminGrant(t *testing.T) {
	gate := &mockGateUseCase{}
	signer := &mockCapabilitySigner{}
	gate.On("Authorize", mock.Anything, authDomain.FamilyBucket, "media", authDomain.LevelAdmin).
		Return(apperrors.ErrForbidden)

	body := `{"scope": "media", "key": "a.jpg", "method": "PUT", "ttl_seconds": 60}`
	router := newPresignRouter(gate, signer, true)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/presign", bytes.NewBufferString(body))
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	signer.AssertNotCalled(t, "Issue")
}

func TestPresignHandler_RequiresCredential(t *testing.T) {
	gate := &mockGateUseCase{}
	signer := &mockCapabilitySigner{}

	body := `{"scope": "media", "key": "a.jpg", "method": "GET", "ttl_seconds": 60}`
	router := newPresignRouter(gate, signer, false)
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/presign", bytes.NewBufferString(body))
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestPresignHandler_Validation(t *testing.T) {
	gate := &mockGateUseCase{}
	signer := &mockCapabilitySigner{}
	router := newPresignRouter(gate, signer, true)

	tests := []struct {
		name string
		body string
	}{
		{"missing scope", `{"key": "a.jpg", "method": "GET"}`},
		{"bad method", `{"scope": "media", "key": "a.jpg", "method": "DELETE"}`},
		{"traversal key", `{"scope": "media", "key": "../etc/passwd", "method": "GET"}`},
		{"negative ttl", `{"scope": "media", "key": "a.jpg", "method": "GET", "ttl_seconds": -5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/presign", bytes.NewBufferString(tt.body))
			router.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
		})
	}
	signer.AssertNotCalled(t, "Issue")
}
