package utils

import (
	"time"

	"lms-resource-center/internal/config"

	"github.com/golang-jwt/jwt/v4"
)

// GenerateToken mints a signed HS256 token for the given user.
func GenerateToken(userID uint, cfg *config.Config) (string, error) {
	expiration, err := time.ParseDuration(cfg.JWT.Expiration)
	if err != nil {
		expiration = 24 * time.Hour
	}

	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}
