// internal/auth/token.go
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/unclebandit/campaign-access-backend/internal/errors"
)

const tokenInvalidMessage = "Token invalid or expired"

// Config is injected once at construction.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	Now      func() time.Time
}

type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(cfg Config) (*TokenIssuer, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &TokenIssuer{secret: secret, ttl: cfg.TokenTTL, now: now}, nil
}

// Issue signs a session token for identityID.
func (t *TokenIssuer) Issue(identityID string) (string, error) {
	now := t.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", appErrors.Wrap(appErrors.KindInternal, "could not issue token", err)
	}
	return signed, nil
}

// Verify returns the identity id carried by a valid, unexpired token.
func (t *TokenIssuer) Verify(token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", appErrors.Unauthenticated(tokenInvalidMessage)
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return "", appErrors.Wrap(appErrors.KindUnauthenticated, tokenInvalidMessage, err)
	}
	if claims.Subject == "" {
		return "", appErrors.Unauthenticated(tokenInvalidMessage)
	}
	return claims.Subject, nil
}
