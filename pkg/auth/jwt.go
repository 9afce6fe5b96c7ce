package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/seikotsu/booking-api/internal/model"
)

type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	ExpiryHours        int
	RefreshExpiryHours int
}

type JWTService struct {
	cfg JWTConfig
}

func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{cfg: cfg}
}

func (s *JWTService) AccessExpiry() time.Duration {
	return time.Duration(s.cfg.ExpiryHours) * time.Hour
}

func (s *JWTService) RefreshExpiry() time.Duration {
	return time.Duration(s.cfg.RefreshExpiryHours) * time.Hour
}

func (s *JWTService) GenerateAccessToken(user *model.User) (string, error) {
	return s.generate(user, s.cfg.Secret, s.AccessExpiry())
}

func (s *JWTService) GenerateRefreshToken(user *model.User) (string, error) {
	return s.generate(user, s.cfg.RefreshSecret, s.RefreshExpiry())
}

func (s *JWTService) generate(user *model.User, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		// The jti keeps tokens minted within the same second distinct,
		// so revoking the stored refresh token actually invalidates it.
		"jti":     uuid.NewString(),
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.validate(token, s.cfg.Secret)
}

func (s *JWTService) ValidateRefreshToken(token string) (*model.TokenClaims, error) {
	return s.validate(token, s.cfg.RefreshSecret)
}

func (s *JWTService) validate(tokenStr, secret string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	return &model.TokenClaims{UserID: userID, Email: email}, nil
}
