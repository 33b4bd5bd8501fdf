package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearer(c, secret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			c.Abort()
			return
		}
		applyClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the caller's identity when a valid token is present
// but never rejects the request. Public listings use it so owners can be
// distinguished without forcing login.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseBearer(c, secret); ok {
			applyClaims(c, claims)
		}
		c.Next()
	}
}

func parseBearer(c *gin.Context, secret string) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return nil, false
	}

	tokenString := strings.TrimSpace(authHeader[7:])

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	if _, ok := claims["user_id"].(float64); !ok {
		return nil, false
	}
	return claims, true
}

func applyClaims(c *gin.Context, claims jwt.MapClaims) {
	userID := claims["user_id"].(float64)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	c.Set("userID", int64(userID))
	c.Set("email", email)
	c.Set("name", name)
}
