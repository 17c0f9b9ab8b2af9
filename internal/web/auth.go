package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

// NewAdminToken signs an HS256 token that grants access to the admin routes.
func NewAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("ADMIN_TOKEN_SECRET not set")
	}
	if subject == "" {
		return "", errors.New("empty subject passed to NewAdminToken")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyAdminToken checks the signature, expiry and role of a token and
// returns its subject.
func VerifyAdminToken(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", errors.New("ADMIN_TOKEN_SECRET not set")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != adminRole {
		return "", errors.New("token does not grant admin access")
	}
	subject, _ := claims["sub"].(string)
	return subject, nil
}

// requireAdmin rejects requests without a valid "Bearer <token>" header.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminSecret == "" {
			writeJSONError(w, http.StatusNotFound, "admin routes are disabled")
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSONError(w, http.StatusUnauthorized, "authorization header required")
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSONError(w, http.StatusUnauthorized, "invalid authorization format, use 'Bearer <token>'")
			return
		}

		if _, err := VerifyAdminToken(s.adminSecret, parts[1]); err != nil {
			writeJSONError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r)
	}
}
