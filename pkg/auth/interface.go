package auth

import "time"

//go:generate mockgen -destination=mocks/mock_auth.go -package=mocks teamwork/pkg/auth TokenManager,RefreshTokenGenerator

// TokenManager issues and verifies access tokens.
type TokenManager interface {
	// GenerateToken creates an access token for a user.
	GenerateToken(userID, email string) (string, error)
	// ValidateToken parses and validates an access token, returning its claims.
	ValidateToken(tokenString string) (*Claims, error)
	// Expiry is the lifetime of issued tokens.
	Expiry() time.Duration
}

// Ensure JWTManager implements TokenManager interface
var _ TokenManager = (*JWTManager)(nil)
