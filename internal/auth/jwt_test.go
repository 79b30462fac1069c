package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"safeTrip/internal/config"
	"safeTrip/pkg/e"
)

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v := NewVerifier(config.AuthConfig{JWTSecret: "s3cret", Issuer: "safetrip"})
	user := uuid.NewString()

	token, err := v.Issue(user, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got != user {
		t.Fatalf("expected %s got %s", user, got)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	t.Parallel()

	v := NewVerifier(config.AuthConfig{JWTSecret: "s3cret", Issuer: "safetrip"})
	user := uuid.NewString()

	expired, _ := v.Issue(user, -time.Minute)
	otherKey, _ := NewVerifier(config.AuthConfig{JWTSecret: "other", Issuer: "safetrip"}).Issue(user, time.Minute)
	otherIssuer, _ := NewVerifier(config.AuthConfig{JWTSecret: "s3cret", Issuer: "someone"}).Issue(user, time.Minute)
	badSubject, _ := v.Issue("not-a-uuid", time.Minute)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user, Issuer: "safetrip"}).SignedString([]byte("s3cret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject: user, Issuer: "safetrip", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("s3cret"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "abc.def.ghi"},
		{"expired", expired},
		{"wrong key", otherKey},
		{"wrong issuer", otherIssuer},
		{"subject not uuid", badSubject},
		{"no expiry", noExpiry},
		{"wrong alg", hs512},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := v.Verify(tt.token); !errors.Is(err, e.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated got %v", err)
			}
		})
	}
}

func TestUserID_Context(t *testing.T) {
	t.Parallel()

	if got := UserID(context.Background()); got != "" {
		t.Fatalf("expected anonymous, got %q", got)
	}
	ctx := WithUserID(context.Background(), "abc")
	if got := UserID(ctx); got != "abc" {
		t.Fatalf("expected abc got %q", got)
	}
}
