package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokenGenerator_Generate(t *testing.T) {
	gen := NewRefreshTokenGenerator()

	t.Run("generates valid token format", func(t *testing.T) {
		token, familyID, err := gen.Generate()

		require.NoError(t, err)

		// Token format: twrt_{familyID}_{random}
		parts := strings.Split(token, "_")
		require.Len(t, parts, 3)
		assert.Equal(t, "twrt", parts[0])
		assert.Equal(t, familyID, parts[1])
		assert.Len(t, parts[1], 16)
		assert.Len(t, parts[2], 32)
	})

	t.Run("generates unique tokens", func(t *testing.T) {
		token1, familyID1, _ := gen.Generate()
		token2, familyID2, _ := gen.Generate()

		assert.NotEqual(t, token1, token2)
		assert.NotEqual(t, familyID1, familyID2)
	})
}

func TestRefreshTokenGenerator_GenerateWithFamily(t *testing.T) {
	gen := NewRefreshTokenGenerator()
	familyID := "1234567890abcdef"

	token1, err := gen.GenerateWithFamily(familyID)
	require.NoError(t, err)
	token2, err := gen.GenerateWithFamily(familyID)
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
	for _, token := range []string{token1, token2} {
		extracted, err := gen.ExtractFamilyID(token)
		require.NoError(t, err)
		assert.Equal(t, familyID, extracted)
	}
}

func TestRefreshTokenGenerator_ExtractFamilyID(t *testing.T) {
	gen := NewRefreshTokenGenerator()

	t.Run("extracts family ID from valid token", func(t *testing.T) {
		familyID, err := gen.ExtractFamilyID("twrt_1234567890abcdef_fedcba0987654321fedcba0987654321")

		require.NoError(t, err)
		assert.Equal(t, "1234567890abcdef", familyID)
	})

	malformed := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong prefix", "rt_1234567890abcdef_fedcba0987654321fedcba0987654321"},
		{"too few parts", "twrt_onlyonepart"},
		{"short family", "twrt_short_fedcba0987654321fedcba0987654321"},
		{"short random", "twrt_1234567890abcdef_abc"},
		{"non-hex family", "twrt_ghij567890abcdef_fedcba0987654321fedcba0987654321"},
		{"extra separator", "twrt_1234567890abcdef_fedcba098765432_fedcba0987654321"},
		{"access token", "eyJhbGciOiJIUzI1NiJ9.e30.sig"},
	}
	for _, tt := range malformed {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gen.ExtractFamilyID(tt.token)

			assert.ErrorIs(t, err, ErrMalformedRefreshToken)
		})
	}
}

func TestRefreshTokenGenerator_Hash(t *testing.T) {
	gen := NewRefreshTokenGenerator()
	token := "twrt_1234567890abcdef_fedcba0987654321fedcba0987654321"

	assert.Equal(t, gen.Hash(token), gen.Hash(token))
	assert.NotEqual(t, gen.Hash(token), gen.Hash(token+"0"))
	assert.Len(t, gen.Hash(token), 64)
	assert.NotContains(t, gen.Hash(token), token)
}

func TestRefreshTokenGenerator_CompareHashes(t *testing.T) {
	gen := NewRefreshTokenGenerator()
	hash := gen.Hash("twrt_1234567890abcdef_fedcba0987654321fedcba0987654321")

	assert.True(t, gen.CompareHashes(hash, hash))
	assert.False(t, gen.CompareHashes(hash, gen.Hash("other")))
	assert.False(t, gen.CompareHashes(hash, ""))
}
