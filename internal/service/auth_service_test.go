package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret []byte, subject string, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "brightsteps",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestValidateParentToken(t *testing.T) {
	secret := []byte("test-secret")
	svc := &AuthService{tokenSecret: secret, tokenTTL: time.Minute}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid token", signToken(t, secret, "parent", time.Minute), false},
		{"expired token", signToken(t, secret, "parent", -time.Minute), true},
		{"wrong secret", signToken(t, []byte("other-secret"), "parent", time.Minute), true},
		{"wrong subject", signToken(t, secret, "kid", time.Minute), true},
		{"garbage", "not.a.token", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateParentToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParentToken() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
