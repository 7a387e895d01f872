package mocks

import (
	"errors"

	"github.com/phrazzld/taskward/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier when configured to fail.
var ErrPasswordMismatch = errors.New("password does not match")

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed controls whether Compare succeeds or fails
	ShouldSucceed bool

	// CompareFn overrides the default behavior when set
	CompareFn func(hashedPassword, password string) error
}

// Ensure MockPasswordVerifier implements auth.PasswordVerifier
var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}
