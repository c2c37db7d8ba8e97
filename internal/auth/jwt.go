package auth

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = 24 * time.Hour

// Claims carried by console tokens.
type Claims struct {
	ClientID string `json:"client_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator mints and validates HS256 tokens for the console endpoint.
// The secret comes from configuration; an empty secret disables auth.
type Authenticator struct {
	secret []byte
}

// New creates an authenticator with the given shared secret.
func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Enabled reports whether a secret is configured.
func (a *Authenticator) Enabled() bool {
	return len(a.secret) > 0
}

// Matches compares a presented secret against the configured one in
// constant time.
func (a *Authenticator) Matches(secret string) bool {
	return a.Enabled() && subtle.ConstantTimeCompare(a.secret, []byte(secret)) == 1
}

// GenerateConsoleToken mints a token granting console access.
func (a *Authenticator) GenerateConsoleToken(clientID string) (string, error) {
	if !a.Enabled() {
		return "", fmt.Errorf("no auth secret configured")
	}

	claims := &Claims{
		ClientID: clientID,
		Role:     "console",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and verifies a token, returning its claims.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrInvalidKey
}
