package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/edgegate/edgegate/internal/errors"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var envelope Envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

func TestRespondGin(t *testing.T) {
	c, recorder := newTestContext(t)
	MarkRequestStart(c)

	RespondGin(c, http.StatusOK, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.True(t, envelope.Success)
	assert.Nil(t, envelope.Error)
	assert.Equal(t, map[string]any{"key": "value"}, envelope.Data)
	assert.GreaterOrEqual(t, envelope.Meta.DurationMS, int64(0))
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "AUTHENTICATION_FAILED"},
		{"signature invalid", apperrors.ErrSignatureInvalid, http.StatusUnauthorized, "SIGNATURE_INVALID"},
		{"capability expired", apperrors.ErrCapabilityExpired, http.StatusUnauthorized, "CAPABILITY_EXPIRED"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{"method mismatch", apperrors.ErrMethodMismatch, http.StatusForbidden, "METHOD_MISMATCH"},
		{"session terminal", apperrors.ErrSessionTerminal, http.StatusConflict, "SESSION_TERMINAL"},
		{"invalid part", apperrors.ErrInvalidPart, http.StatusBadRequest, "INVALID_PART"},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperrors.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"invalid input", apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"backend", apperrors.ErrBackend, http.StatusBadGateway, "BACKEND_ERROR"},
		{"unknown", apperrors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext(t)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			envelope := decodeEnvelope(t, recorder)
			assert.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.expectedCode, envelope.Error.Code)
		})
	}
}

func TestHandleErrorGin_WrappedErrorsKeepTheirCode(t *testing.T) {
	c, recorder := newTestContext(t)

	err := apperrors.Wrap(apperrors.ErrSignatureInvalid, "capability check failed")
	HandleErrorGin(c, err, nil)

	envelope := decodeEnvelope(t, recorder)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "SIGNATURE_INVALID", envelope.Error.Code)
}

func TestHandleErrorGin_BackendCauseNotExposed(t *testing.T) {
	c, recorder := newTestContext(t)

	err := apperrors.Wrapf(apperrors.ErrBackend, "failed to put object: %v", apperrors.New("dial tcp: connection refused"))
	HandleErrorGin(c, err, nil)

	envelope := decodeEnvelope(t, recorder)
	require.NotNil(t, envelope.Error)
	assert.NotContains(t, envelope.Error.Message, "connection refused")
}

func TestHandleErrorGin_NilError(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleErrorGin(c, nil, nil)

	assert.Empty(t, recorder.Body.String())
}

func TestHandleBadRequestGin(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleBadRequestGin(c, apperrors.New("malformed json"), nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "BAD_REQUEST", envelope.Error.Code)
	assert.Equal(t, "malformed json", envelope.Error.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	c, recorder := newTestContext(t)

	HandleValidationErrorGin(c, apperrors.New("name: must not be blank"), nil)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}
