package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs HS256 credentials carrying the user's id, email, and
// display name.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

func (i *TokenIssuer) Issue(userID int64, email, name string) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"name":    name,
		"iat":     now.Unix(),
		"exp":     now.Add(i.ttl).Unix(),
	})
	return token.SignedString(i.secret)
}
