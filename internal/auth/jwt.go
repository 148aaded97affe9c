package auth

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	UserID json.Number `json:"userId"`
	Roles  []string    `json:"roles"`
	jwt.RegisteredClaims
}

// ParseToken verifies an HMAC-signed token and extracts the acting identity.
// Token issuance belongs to the auth service; only verification happens here.
func ParseToken(tokenString, secret string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token claims")
	}

	userID, err := strconv.ParseInt(c.UserID.String(), 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("user id claim missing or malformed: %w", err)
	}

	return Identity{UserID: userID, Roles: c.Roles}, nil
}
