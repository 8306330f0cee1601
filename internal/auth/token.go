package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scholarspace/user-service/internal/models"
)

// TokenManager issues and validates the signed access tokens carried on every
// authenticated request. Tokens are HS256 JWTs: subject is the account email,
// claims carry the plain role string, the numeric user id and display name.
type TokenManager struct {
	secret   []byte
	tokenTTL time.Duration
}

// NewTokenManager creates a TokenManager signing with the given secret.
func NewTokenManager(secret string, tokenTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Generate builds and signs a token for the given user. No side effects.
func (tm *TokenManager) Generate(user *models.User) (string, error) {
	now := time.Now()

	claims := &models.TokenClaims{
		Role:   user.Role.String(),
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string. Any failure means the token
// must not be trusted in any part: claims are only returned on full success.
// Expiry is reported as ErrTokenExpired, every other failure as
// ErrTokenInvalid.
func (tm *TokenManager) Validate(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, models.ErrTokenExpired
		}
		return nil, models.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, models.ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, models.ErrTokenInvalid
	}

	return claims, nil
}

// IsExpired reports whether a token has passed its expiry. Malformed or
// unverifiable tokens count as expired: they are never usable.
func (tm *TokenManager) IsExpired(tokenString string) bool {
	_, err := tm.Validate(tokenString)
	return err != nil
}
