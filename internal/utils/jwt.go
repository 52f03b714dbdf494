package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"midwife-booking-server/internal/config"
	"midwife-booking-server/internal/models"
)

// Claims represents the JWT claims of a demo session.
type Claims struct {
	UserID string      `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a session token for the stored profile.
func GenerateSessionToken(profile models.UserProfile, cfg *config.Config) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(time.Duration(cfg.JWTExpirationMinutes) * time.Minute)
	role := profile.Role
	if role == "" {
		role = models.RoleGuest
	}
	claims := &Claims{
		UserID: profile.ID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   profile.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken validates a JWT token.
func ValidateToken(tokenString string, secretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
