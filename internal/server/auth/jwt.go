// Package auth issues and verifies the HS256 access tokens sent as
// "Authorization: Bearer <token>".
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims: стандартные утверждения плюс идентификатор и имя пользователя.
// UserName is carried so the author of a post can be taken from the token
// without a user lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"uid"`
	UserName string `json:"username"`
}

func GenerateToken(userID, userName string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:   userID,
		UserName: userName,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken validates tokenString and returns its claims. An expired token
// yields common.ErrTokenExpired, anything else common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
