package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of tokens issued by GenerateToken.
const DefaultTTL = 7 * 24 * time.Hour

var ErrInvalidSubject = errors.New("token subject is not a user id")

// GenerateToken creates a new JWT for a given user ID.
func GenerateToken(secret string, userID uint, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates an HS256 token and returns the user ID in its "sub"
// claim. The claim may be a number or a decimal string.
func ParseToken(secret, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}

	switch sub := claims["sub"].(type) {
	case float64:
		if sub < 1 || sub != float64(uint(sub)) {
			return 0, ErrInvalidSubject
		}
		return uint(sub), nil
	case string:
		id, err := strconv.ParseUint(sub, 10, 64)
		if err != nil || id == 0 {
			return 0, ErrInvalidSubject
		}
		return uint(id), nil
	}
	return 0, ErrInvalidSubject
}
