package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultDisplayName = "User"

type displayClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// DisplayName достает claim name из bearer-токена без проверки подписи.
// Значение годится только для отображения.
func DisplayName(authorization string) string {
	token := strings.TrimSpace(authorization)
	if len(token) > len("Bearer ") && strings.EqualFold(token[:len("Bearer ")], "Bearer ") {
		token = strings.TrimSpace(token[len("Bearer "):])
	}
	if token == "" {
		return DefaultDisplayName
	}

	claims := &displayClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return DefaultDisplayName
	}

	name := strings.TrimSpace(claims.Name)
	if name == "" {
		return DefaultDisplayName
	}

	return name
}
