package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	jwtSecret   = []byte("change-me-in-production")
	jwtIssuer   = "kosame"
	jwtAudience = "kosame"
)

func ConfigureJWT(secret, issuer, audience string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
	if issuer != "" {
		jwtIssuer = issuer
	}
	if audience != "" {
		jwtAudience = audience
	}
}

// GenerateToken issues the permanent bearer token for a username. The token
// carries no expiry: it is pasted once into upload tools like ShareX and must
// keep working until the user resets it. Authentication is a lookup of the
// stored token, so replacing it on the user row invalidates the old one.
func GenerateToken(username string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  username,
		Issuer:   jwtIssuer,
		Audience: jwt.ClaimStrings{jwtAudience},
		IssuedAt: jwt.NewNumericDate(time.Now()),
		ID:       uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(jwtSecret)
}
