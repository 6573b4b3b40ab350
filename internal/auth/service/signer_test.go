package service

import (
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/edgegate/edgegate/internal/auth/domain"
	apperrors "github.com/edgegate/edgegate/internal/errors"
)

func newTestSigner(t *testing.T) CapabilitySigner {
	t.Helper()
	signer, err := NewCapabilitySigner([]byte("test-signing-secret"), 7*24*time.Hour, 30*time.Second)
	require.NoError(t, err)
	return signer
}

func paramsFor(cap *authDomain.SignedCapability) authDomain.CapabilityParams {
	return authDomain.CapabilityParams{
		Scope:     cap.Scope,
		Key:       cap.Key,
		Method:    cap.Method,
		ExpiresAt: cap.ExpiresAt.Unix(),
		Nonce:     cap.Nonce,
		Signature: hex.EncodeToString(cap.Signature),
	}
}

func TestNewCapabilitySigner(t *testing.T) {
	t.Run("empty secret rejected", func(t *testing.T) {
		_, err := NewCapabilitySigner(nil, time.Hour, 30*time.Second)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("same secret derives same signature", func(t *testing.T) {
		a, err := NewCapabilitySigner([]byte("secret"), time.Hour, 0)
		require.NoError(t, err)
		b, err := NewCapabilitySigner([]byte("secret"), time.Hour, 0)
		require.NoError(t, err)

		cap, err := a.Issue("media", "photo.jpg", "GET", time.Hour)
		require.NoError(t, err)

		_, err = b.Verify(paramsFor(cap), "GET", time.Now().UTC())
		assert.NoError(t, err)
	})
}

func TestCapabilitySigner_Issue(t *testing.T) {
	signer := newTestSigner(t)

	t.Run("success", func(t *testing.T) {
		cap, err := signer.Issue("media", "photos/cat.jpg", "GET", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "media", cap.Scope)
		assert.Equal(t, "photos/cat.jpg", cap.Key)
		assert.Equal(t, "GET", cap.Method)
		assert.Len(t, cap.Nonce, 32)
		assert.NotEmpty(t, cap.Signature)
		assert.WithinDuration(t, time.Now().Add(time.Hour), cap.ExpiresAt, 5*time.Second)
	})

	t.Run("ttl clamped to maximum", func(t *testing.T) {
		cap, err := signer.Issue("media", "big.bin", "PUT", 30*24*time.Hour)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), cap.ExpiresAt, 5*time.Second)
	})

	t.Run("unique nonces", func(t *testing.T) {
		a, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)
		b, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)
		assert.NotEqual(t, a.Nonce, b.Nonce)
	})

	t.Run("disallowed method", func(t *testing.T) {
		_, err := signer.Issue("media", "x", "DELETE", time.Hour)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("missing scope", func(t *testing.T) {
		_, err := signer.Issue("", "x", "GET", time.Hour)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := signer.Issue("media", "x", "GET", 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestCapabilitySigner_Verify(t *testing.T) {
	signer := newTestSigner(t)

	t.Run("round trip", func(t *testing.T) {
		cap, err := signer.Issue("media", "photos/cat.jpg", "GET", time.Hour)
		require.NoError(t, err)

		verified, err := signer.Verify(paramsFor(cap), "GET", time.Now().UTC().Add(time.Second))
		require.NoError(t, err)
		assert.Equal(t, cap.Scope, verified.Scope)
		assert.Equal(t, cap.Key, verified.Key)
		assert.Equal(t, cap.Nonce, verified.Nonce)
	})

	t.Run("tampered fields invalidate signature", func(t *testing.T) {
		cap, err := signer.Issue("media", "photos/cat.jpg", "GET", time.Hour)
		require.NoError(t, err)

		mutations := map[string]func(p *authDomain.CapabilityParams){
			"scope":   func(p *authDomain.CapabilityParams) { p.Scope = "backups" },
			"key":     func(p *authDomain.CapabilityParams) { p.Key = "photos/dog.jpg" },
			"method":  func(p *authDomain.CapabilityParams) { p.Method = "PUT" },
			"expires": func(p *authDomain.CapabilityParams) { p.ExpiresAt += 3600 },
			"nonce":   func(p *authDomain.CapabilityParams) { p.Nonce = "00000000000000000000000000000000" },
		}

		for field, mutate := range mutations {
			t.Run(field, func(t *testing.T) {
				params := paramsFor(cap)
				mutate(&params)
				_, err := signer.Verify(params, params.Method, time.Now().UTC())
				assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
			})
		}
	})

	t.Run("field shifting across boundaries rejected", func(t *testing.T) {
		cap, err := signer.Issue("media", "ax", "GET", time.Hour)
		require.NoError(t, err)

		// Same concatenation, different field split.
		params := paramsFor(cap)
		params.Scope = "mediaa"
		params.Key = "x"
		_, err = signer.Verify(params, "GET", time.Now().UTC())
		assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
	})

	t.Run("signature not hex", func(t *testing.T) {
		cap, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)

		params := paramsFor(cap)
		params.Signature = "not-hex!"
		_, err = signer.Verify(params, "GET", time.Now().UTC())
		assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
	})

	t.Run("expired beyond skew", func(t *testing.T) {
		cap, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)

		at := cap.ExpiresAt.Add(31 * time.Second)
		_, err = signer.Verify(paramsFor(cap), "GET", at)
		assert.ErrorIs(t, err, apperrors.ErrCapabilityExpired)
	})

	t.Run("expired within skew still accepted", func(t *testing.T) {
		cap, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)

		at := cap.ExpiresAt.Add(29 * time.Second)
		_, err = signer.Verify(paramsFor(cap), "GET", at)
		assert.NoError(t, err)
	})

	t.Run("method mismatch", func(t *testing.T) {
		cap, err := signer.Issue("media", "x", "PUT", time.Hour)
		require.NoError(t, err)

		_, err = signer.Verify(paramsFor(cap), "GET", time.Now().UTC())
		assert.ErrorIs(t, err, apperrors.ErrMethodMismatch)
	})

	t.Run("forged signature checked before expiry", func(t *testing.T) {
		cap, err := signer.Issue("media", "x", "GET", time.Hour)
		require.NoError(t, err)

		params := paramsFor(cap)
		params.Signature = hex.EncodeToString(make([]byte, 32))
		at := cap.ExpiresAt.Add(time.Hour)
		_, err = signer.Verify(params, "GET", at)
		assert.ErrorIs(t, err, apperrors.ErrSignatureInvalid)
	})
}
