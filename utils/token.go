package authUtils

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// GenerateToken signs a bearer token for an admin dashboard session
func GenerateToken(username, secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour * 72).Unix(), // Token expires in 72 hours
	})

	return token.SignedString([]byte(secret))
}
