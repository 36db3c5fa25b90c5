package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedRefreshToken is returned for tokens this package did not issue.
var ErrMalformedRefreshToken = errors.New("malformed refresh token")

// RefreshTokenGenerator issues opaque refresh tokens of the form
// twrt_<family>_<secret>. Every token rotated from the same login shares
// the family, which is the key of the server-side session record.
type RefreshTokenGenerator interface {
	// Generate starts a new family and returns its first token.
	Generate() (token string, familyID string, err error)
	// GenerateWithFamily returns a fresh token for an existing family.
	GenerateWithFamily(familyID string) (string, error)
	ExtractFamilyID(token string) (string, error)
	// Hash is what gets stored; raw tokens never leave the response.
	Hash(token string) string
	CompareHashes(a, b string) bool
}

const (
	refreshTokenPrefix = "twrt"
	familyBytes        = 8
	secretBytes        = 16
)

type refreshTokenGenerator struct{}

// NewRefreshTokenGenerator returns the crypto/rand backed generator.
func NewRefreshTokenGenerator() RefreshTokenGenerator {
	return refreshTokenGenerator{}
}

func (g refreshTokenGenerator) Generate() (string, string, error) {
	familyID, err := randomHex(familyBytes)
	if err != nil {
		return "", "", fmt.Errorf("refresh token family: %w", err)
	}
	token, err := g.GenerateWithFamily(familyID)
	if err != nil {
		return "", "", err
	}
	return token, familyID, nil
}

func (refreshTokenGenerator) GenerateWithFamily(familyID string) (string, error) {
	secret, err := randomHex(secretBytes)
	if err != nil {
		return "", fmt.Errorf("refresh token secret: %w", err)
	}
	return refreshTokenPrefix + "_" + familyID + "_" + secret, nil
}

func (refreshTokenGenerator) ExtractFamilyID(token string) (string, error) {
	rest, ok := strings.CutPrefix(token, refreshTokenPrefix+"_")
	if !ok {
		return "", ErrMalformedRefreshToken
	}
	familyID, secret, ok := strings.Cut(rest, "_")
	if !ok || len(familyID) != 2*familyBytes || len(secret) != 2*secretBytes {
		return "", ErrMalformedRefreshToken
	}
	for _, part := range []string{familyID, secret} {
		if _, err := hex.DecodeString(part); err != nil {
			return "", ErrMalformedRefreshToken
		}
	}
	return familyID, nil
}

func (refreshTokenGenerator) Hash(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (refreshTokenGenerator) CompareHashes(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
