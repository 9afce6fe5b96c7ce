package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/seikotsu/booking-api/internal/email"
	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
	"github.com/seikotsu/booking-api/pkg/auth"
	"github.com/seikotsu/booking-api/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	bcryptCost       = 12
	resetTokenBytes  = 32
	resetTokenExpiry = time.Hour
)

type Service struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   repository.TokenRepository
	jwt      *auth.JWTService
	mailer   email.Sender
	logger   *logger.Logger
}

func NewService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	tokens repository.TokenRepository,
	jwt *auth.JWTService,
	mailer email.Sender,
	logger *logger.Logger,
) *Service {
	return &Service{
		users:    users,
		profiles: profiles,
		tokens:   tokens,
		jwt:      jwt,
		mailer:   mailer,
		logger:   logger,
	}
}

// Register creates the user and seeds their profile with the sign-up
// name, then issues a token pair so registration doubles as login.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, *model.TokenResponse, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.profiles.Upsert(ctx, &model.Profile{ID: u.ID, Name: req.Name}); err != nil {
		s.logger.Error(err, "failed to seed profile on registration", "user_id", u.ID)
	}

	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.User, *model.TokenResponse, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, tokens, nil
}

// Refresh exchanges a refresh token for a new pair. The token must both
// verify and still be on record; logout revokes the record, so a
// replayed token fails here even before it expires.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	valid, err := s.tokens.IsRefreshTokenValid(ctx, claims.UserID, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !valid {
		return nil, ErrInvalidToken
	}

	u, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.tokens.RevokeRefreshTokens(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return s.issueTokens(ctx, u)
}

func (s *Service) Logout(ctx context.Context, claims *model.TokenClaims) error {
	if err := s.tokens.RevokeRefreshTokens(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a reset token and mails it. An unknown
// email gets the same nil response as a known one so the endpoint does
// not leak which addresses are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	u, err := s.users.GetByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := randomToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.tokens.StoreResetToken(ctx, u.ID, token, time.Now().Add(resetTokenExpiry)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordReset(u.Email, token); err != nil {
		s.logger.Error(err, "failed to send password reset mail", "user_id", u.ID)
	}
	return nil
}

// ConfirmPasswordReset consumes the token, sets the new password, and
// revokes all refresh tokens so stolen sessions die with the old
// password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, req *model.PasswordResetConfirmRequest) error {
	userID, err := s.tokens.ConsumeResetToken(ctx, req.Token)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.tokens.RevokeRefreshTokens(ctx, userID); err != nil {
		s.logger.Error(err, "failed to revoke refresh tokens after reset", "user_id", userID)
	}
	return nil
}

func (s *Service) ValidateToken(token string) (*model.TokenClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *Service) issueTokens(ctx context.Context, u *model.User) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(u)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.tokens.StoreRefreshToken(ctx, u.ID, refresh, time.Now().Add(s.jwt.RefreshExpiry())); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwt.AccessExpiry().Seconds()),
	}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
