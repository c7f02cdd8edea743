package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidToken = errors.New("invalid token")

const playerIDClaim = "player_id"

type AuthService interface {
	GenerateToken(playerID string) (string, error)
	ParseToken(tokenString string) (string, error)
}

type authServiceImpl struct {
	secretKey string
	ttl       time.Duration
}

func NewAuthService(secretKey string, ttl time.Duration) AuthService {
	return &authServiceImpl{
		secretKey: secretKey,
		ttl:       ttl,
	}
}

func (that *authServiceImpl) GenerateToken(playerID string) (string, error) {
	claims := jwt.MapClaims{}
	claims[playerIDClaim] = playerID
	claims["exp"] = time.Now().Add(that.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the player id claim.
func (that *authServiceImpl) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, token.Header["alg"])
		}

		return []byte(that.secretKey), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", errors.Join(ErrInvalidToken, err))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	playerID, ok := claims[playerIDClaim].(string)
	if !ok || playerID == "" {
		return "", fmt.Errorf("%w: missing %s claim", ErrInvalidToken, playerIDClaim)
	}

	return playerID, nil
}
