package dao

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash := GenPasswordHash("s3cret")
	assert.True(t, strings.HasPrefix(hash, "pbkdf2_sha256$260000$"))

	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("s3cret", "garbage"))

	// Соль уникальна для каждого хеша
	assert.NotEqual(t, hash, GenPasswordHash("s3cret"))
}

func TestGenPassword(t *testing.T) {
	password := GenPassword()
	require.NotEmpty(t, password)
	assert.NotEqual(t, password, GenPassword())
}
