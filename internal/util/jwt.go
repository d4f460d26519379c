package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTokenMaxAge is how long a password reset token stays valid.
const ResetTokenMaxAge = 1800 * time.Second

// Claims is the JWT payload for both session and reset tokens.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// GenerateToken signs a JWT for the given user with the given lifetime.
func GenerateToken(secret, userID string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken parses and verifies a JWT, returning its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// GenerateResetToken signs a short-lived password reset token.
// Validity is carried entirely by the signature and issue time; nothing is
// stored server side.
func GenerateResetToken(secret, userID string) (string, error) {
	return GenerateToken(secret, userID, ResetTokenMaxAge)
}

// ParseResetToken verifies a reset token and its 1800s age window.
func ParseResetToken(secret, tokenStr string) (*Claims, error) {
	claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.IssuedAt == nil || time.Since(claims.IssuedAt.Time) > ResetTokenMaxAge {
		return nil, jwt.ErrTokenExpired
	}
	return claims, nil
}
