package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seikotsu/booking-api/internal/model"
	"github.com/seikotsu/booking-api/internal/repository"
	"github.com/seikotsu/booking-api/pkg/auth"
	"github.com/seikotsu/booking-api/pkg/logger"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeProfileRepo struct {
	profiles map[uuid.UUID]*model.Profile
}

func (r *fakeProfileRepo) Get(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	p, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, p *model.Profile) error {
	r.profiles[p.ID] = p
	return nil
}

type storedToken struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type fakeTokenRepo struct {
	refresh map[string]storedToken
	reset   map[string]storedToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		refresh: make(map[string]storedToken),
		reset:   make(map[string]storedToken),
	}
}

func (r *fakeTokenRepo) StoreRefreshToken(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.refresh[token] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeTokenRepo) IsRefreshTokenValid(_ context.Context, userID uuid.UUID, token string) (bool, error) {
	st, ok := r.refresh[token]
	return ok && st.userID == userID && st.expiresAt.After(time.Now()), nil
}

func (r *fakeTokenRepo) RevokeRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for token, st := range r.refresh {
		if st.userID == userID {
			delete(r.refresh, token)
		}
	}
	return nil
}

func (r *fakeTokenRepo) StoreResetToken(_ context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.reset[token] = storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (r *fakeTokenRepo) ConsumeResetToken(_ context.Context, token string) (uuid.UUID, error) {
	st, ok := r.reset[token]
	if !ok || st.expiresAt.Before(time.Now()) {
		return uuid.Nil, repository.ErrNotFound
	}
	delete(r.reset, token)
	return st.userID, nil
}

type fakeMailer struct {
	sent []string // reset tokens
	to   []string
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	m.to = append(m.to, to)
	m.sent = append(m.sent, token)
	return nil
}

func newTestService() (*Service, *fakeUserRepo, *fakeProfileRepo, *fakeTokenRepo, *fakeMailer) {
	users := &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
	profiles := &fakeProfileRepo{profiles: make(map[uuid.UUID]*model.Profile)}
	tokens := newFakeTokenRepo()
	mailer := &fakeMailer{}
	jwt := auth.NewJWTService(auth.JWTConfig{
		Secret:             "access-secret",
		RefreshSecret:      "refresh-secret",
		ExpiryHours:        1,
		RefreshExpiryHours: 24,
	})
	svc := NewService(users, profiles, tokens, jwt, mailer, logger.NewLogger(nil))
	return svc, users, profiles, tokens, mailer
}

func register(t *testing.T, svc *Service) (*model.User, *model.TokenResponse) {
	t.Helper()
	u, tokens, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:           "taro@example.com",
		Password:        "hunter2x",
		ConfirmPassword: "hunter2x",
		Name:            "山田太郎",
	})
	require.NoError(t, err)
	return u, tokens
}

func TestRegisterSeedsProfileAndIssuesTokens(t *testing.T) {
	svc, _, profiles, _, _ := newTestService()

	u, tokens := register(t, svc)
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.EqualValues(t, 3600, tokens.ExpiresIn)

	p, ok := profiles.profiles[u.ID]
	require.True(t, ok)
	assert.Equal(t, "山田太郎", p.Name)

	claims, err := svc.ValidateToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	register(t, svc)

	_, _, err := svc.Register(context.Background(), &model.RegisterRequest{
		Email:           "TARO@example.com",
		Password:        "hunter2x",
		ConfirmPassword: "hunter2x",
		Name:            "別人",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	registered, _ := register(t, svc)
	ctx := context.Background()

	u, tokens, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "taro@example.com",
		Password: "hunter2x",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, tokens.AccessToken)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "taro@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2x",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, tokens := register(t, svc)
	ctx := context.Background()

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	// The old refresh token was revoked by the rotation.
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLogoutRevokesRefresh(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	u, tokens := register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, &model.TokenClaims{UserID: u.ID, Email: u.Email}))

	_, err := svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, _, _, mailer := newTestService()
	register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, "taro@example.com"))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"taro@example.com"}, mailer.to)

	token := mailer.sent[0]
	require.NoError(t, svc.ConfirmPasswordReset(ctx, &model.PasswordResetConfirmRequest{
		Token:    token,
		Password: "newpass99",
	}))

	// Old password no longer works, new one does.
	_, _, err := svc.Login(ctx, &model.LoginRequest{Email: "taro@example.com", Password: "hunter2x"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, &model.LoginRequest{Email: "taro@example.com", Password: "newpass99"})
	assert.NoError(t, err)

	// The token is single-use.
	err = svc.ConfirmPasswordReset(ctx, &model.PasswordResetConfirmRequest{
		Token:    token,
		Password: "another99",
	})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, _, _, mailer := newTestService()

	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, mailer.sent)
}

func TestPasswordResetRevokesSessions(t *testing.T) {
	svc, _, _, _, mailer := newTestService()
	_, tokens := register(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, "taro@example.com"))
	require.NoError(t, svc.ConfirmPasswordReset(ctx, &model.PasswordResetConfirmRequest{
		Token:    mailer.sent[0],
		Password: "newpass99",
	}))

	_, err := svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
