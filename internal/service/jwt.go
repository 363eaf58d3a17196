package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const tokenTTL = 24 * time.Hour

var jwtSecret []byte

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT_SECRET is not set")
	}
	jwtSecret = []byte(secret)
}

func GenerateJWT(playerID int64) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"player_id": playerID,
		"exp":       now.Add(tokenTTL).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseJWT validates the signature and time claims and returns the player id.
// Every failure wraps ErrInvalidToken.
func ParseJWT(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	playerID, ok := claims["player_id"].(float64)
	if !ok || playerID <= 0 {
		return 0, fmt.Errorf("%w: player_id not found", ErrInvalidToken)
	}

	return int64(playerID), nil
}
