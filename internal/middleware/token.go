package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// jwt発行（マスタ保守用。AuthJWTで検証できる形）
func IssueToken(secret string, subject string, role string, ttl time.Duration, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("secret required")
	}
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("subject required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be positive")
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
