package api

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

// DefaultTokenLifetime applies when the configured expiration is not positive.
const DefaultTokenLifetime = 24 * time.Hour

// IssueOperatorToken signs a bearer token accepted by AuthMiddleware.
func IssueOperatorToken(secret, operator string, lifetime time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}
	if operator == "" {
		return "", time.Time{}, errors.New("operator name is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}

	now := time.Now()
	expiresAt := now.Add(lifetime)
	claims := operatorClaims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "gymdesk",
			Subject:   operator,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign operator token")
	}
	return signed, expiresAt, nil
}
