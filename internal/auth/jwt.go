package auth

import (
	"context"
	"errors"
	"time"

	"safeTrip/internal/config"
	"safeTrip/pkg/e"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verifier checks HS256 bearer tokens and yields the caller's user id from the sub claim.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

func (v *Verifier) Verify(token string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", e.Wrap("auth.Verify", errors.Join(e.ErrUnauthenticated, err))
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return "", e.Wrap("auth.Verify: subject", e.ErrUnauthenticated)
	}
	return id.String(), nil
}

// Issue signs a token for userID; used by local tooling and tests.
func (v *Verifier) Issue(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

type ctxKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated caller or "" for anonymous requests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
