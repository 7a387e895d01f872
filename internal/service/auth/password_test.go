package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	hashed, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct horse", hashed)

	assert.NoError(t, verifier.Compare(hashed, "correct horse"))
	assert.Error(t, verifier.Compare(hashed, "wrong horse"))
}

func TestBcryptHasherSaltsEachHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	first, err := hasher.Hash("hunter2")
	require.NoError(t, err)
	second, err := hasher.Hash("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestNewBcryptHasherClampsCost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cost int
		want int
	}{
		{name: "valid cost kept", cost: 12, want: 12},
		{name: "zero falls back to default", cost: 0, want: bcrypt.DefaultCost},
		{name: "negative falls back to default", cost: -1, want: bcrypt.DefaultCost},
		{name: "above max falls back to default", cost: 99, want: bcrypt.DefaultCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hasher := NewBcryptHasher(tt.cost)
			assert.Equal(t, tt.want, hasher.cost)
		})
	}
}
