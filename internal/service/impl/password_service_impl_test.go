package impl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	t.Parallel()

	pw := NewPasswordServiceBcrypt(bcrypt.MinCost)

	h1, err := pw.Hash("s3cret!")
	require.NoError(t, err)
	h2, err := pw.Hash("s3cret!")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret!", h1)
	assert.NotEqual(t, h1, h2, "hashes must be salted")
	assert.True(t, pw.Verify("s3cret!", h1))
	assert.True(t, pw.Verify("s3cret!", h2))
	assert.False(t, pw.Verify("wrong", h1))
	assert.False(t, pw.Verify("s3cret!", "not-a-hash"))
}

func TestPasswordHashRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordServiceBcrypt(bcrypt.MinCost).Hash("")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestPasswordCostFallback(t *testing.T) {
	t.Parallel()

	pw := NewPasswordServiceBcrypt(99)
	assert.Equal(t, DefaultBcryptCost, pw.cost)

	h, err := NewPasswordServiceBcrypt(DefaultBcryptCost).Hash("x")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}
