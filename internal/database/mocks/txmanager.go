// Package mocks provides test doubles for database interfaces.
package mocks

import (
	"context"
	"testing"
)

// MockTxManager is a TxManager test double that runs the callback directly
// without opening a real transaction.
type MockTxManager struct {
	// WithTxErr, when set, is returned without invoking the callback.
	WithTxErr error
}

// NewMockTxManager creates a new MockTxManager.
func NewMockTxManager(t *testing.T) *MockTxManager {
	t.Helper()
	return &MockTxManager{}
}

// WithTx executes the function with the given context, simulating a committed
// transaction.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.WithTxErr != nil {
		return m.WithTxErr
	}
	return fn(ctx)
}
