package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionID(t *testing.T) {
	id, err := GenerateSessionID()
	require.NoError(t, err)

	// 32 random bytes in unpadded url-safe base64.
	assert.Len(t, id, 43)
	assert.NotContains(t, id, "=")
	assert.NotContains(t, id, "+")
	assert.NotContains(t, id, "/")
}

func TestGenerateSessionIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := GenerateSessionID()
		require.NoError(t, err)
		require.False(t, seen[id], "duplicate session id")
		seen[id] = true
	}
}
