package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "user-42", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-42")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := GenerateToken(testSecret, "user-42", time.Hour)

	if _, err := ParseToken("another-secret", token); err == nil {
		t.Error("ParseToken() with wrong secret error = nil, want error")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken(testSecret, "not.a.token"); err == nil {
		t.Error("ParseToken() with garbage error = nil, want error")
	}
}

func TestParseResetToken_Fresh(t *testing.T) {
	token, err := GenerateResetToken(testSecret, "user-7")
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}

	claims, err := ParseResetToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseResetToken() error = %v", err)
	}
	if claims.UserID != "user-7" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-7")
	}
}

// TestParseResetToken_TooOld crafts a token issued 1801s ago; the signature
// is valid but the age window has passed.
func TestParseResetToken_TooOld(t *testing.T) {
	issued := time.Now().Add(-1801 * time.Second)
	claims := &Claims{
		UserID: "user-7",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ParseResetToken(testSecret, token); err == nil {
		t.Error("ParseResetToken() on 1801s old token error = nil, want error")
	}
}

func TestParseResetToken_MissingIssuedAt(t *testing.T) {
	claims := &Claims{
		UserID: "user-7",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := ParseResetToken(testSecret, token); err == nil {
		t.Error("ParseResetToken() without iat error = nil, want error")
	}
}
