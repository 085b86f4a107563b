package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashAndCheck(t *testing.T) {
	hasher := NewPasswordHasher()

	hashed, err := hasher.Hash("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, "correct horse battery staple", hashed)

	assert.True(t, hasher.Check("correct horse battery staple", hashed))
	assert.False(t, hasher.Check("wrong password", hashed))
}

func TestPasswordHashIsSalted(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("secret123")
	assert.NoError(t, err)
	second, err := hasher.Hash("secret123")
	assert.NoError(t, err)

	// Each hash carries its own salt, so the stored values differ while
	// both still verify against the original plaintext.
	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("secret123", first))
	assert.True(t, hasher.Check("secret123", second))
}

func TestPasswordCheckMalformedHash(t *testing.T) {
	hasher := NewPasswordHasher()

	assert.False(t, hasher.Check("secret123", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Check("secret123", ""))
}
