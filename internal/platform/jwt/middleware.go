// Package jwtmw verifies the bearer tokens that API clients present.
package jwtmw

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret is the environment variable holding the HMAC secret.
	EnvKeyJWTSecret = "JWT_SECRET"

	// ContextSubject is the gin context key for the token subject (client ID).
	ContextSubject = "subject"

	// ScopeMealsDetect is the scope required to call the meal endpoints.
	ScopeMealsDetect = "meals:detect"
)

// AuthRequired returns a Gin middleware function that validates JWT tokens
// signed with secret and restricts access to clients holding one of scopes.
// With no scopes given, any valid token is accepted.
func AuthRequired(secret string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		if secret == "" {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		// 2. Parse and verify JWT signature (only HMAC allowed)
		var claims clientClaims
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. Check scope
		if len(scopes) > 0 && !claims.hasAnyScope(scopes) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient scope"})
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

// clientClaims are the claims carried by API client tokens.
type clientClaims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

func (c clientClaims) hasAnyScope(want []string) bool {
	granted := strings.Fields(c.Scope)
	for _, s := range want {
		if slices.Contains(granted, s) {
			return true
		}
	}
	return false
}
