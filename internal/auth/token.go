package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const customerIDClaim = "customer_id"

var ErrInvalidToken = errors.New("invalid access token")

// ExtractAccessToken reads the access_token cookie, falling back to a bearer header.
func ExtractAccessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}

// ParseCustomerToken validates tokenStr and returns its customer id.
func ParseCustomerToken(tokenStr, secret string) (int64, error) {
	if tokenStr == "" || secret == "" {
		return 0, ErrInvalidToken
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	// JSON numbers decode as float64.
	uid, ok := claims[customerIDClaim].(float64)
	if !ok || uid <= 0 {
		return 0, fmt.Errorf("%w: missing %s claim", ErrInvalidToken, customerIDClaim)
	}
	return int64(uid), nil
}
