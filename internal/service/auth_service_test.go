package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
)

// mockUserRepository реализует UserRepository для тестов.
type mockUserRepository struct {
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	sessions     map[string]*models.Session
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.IsActive = true
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func (m *mockUserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockUserRepository) GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	if session, ok := m.sessions[refreshToken]; ok && session.ExpiresAt.After(time.Now()) {
		return session, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockUserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	delete(m.sessions, refreshToken)
	return nil
}

func newTestAuthService() (*AuthService, *mockUserRepository) {
	repo := newMockUserRepository()
	tokens := NewTokenManager("access-secret-for-tests-0123456789", "refresh-secret-for-tests-0123456789", 15*time.Minute, 24*time.Hour)
	return NewAuthService(repo, tokens), repo
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Email:    "Client@Example.com",
		Username: "client_one",
		Password: "strongpassword",
		Role:     "client",
	}, SessionMeta{})

	assert.NoError(t, err)
	assert.Equal(t, "client@example.com", user.Email)
	assert.Equal(t, models.RoleClient, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Len(t, repo.sessions, 1)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	input := RegisterInput{
		Email:    "dup@example.com",
		Username: "first_user",
		Password: "strongpassword",
		Role:     "freelancer",
	}
	_, _, err := svc.Register(ctx, input, SessionMeta{})
	assert.NoError(t, err)

	input.Username = "second_user"
	_, _, err = svc.Register(ctx, input, SessionMeta{})
	assert.Error(t, err)
	appErr, ok := apperror.As(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.ErrCodeConflict, appErr.Code)
}

func TestAuthService_Register_InvalidRole(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{
		Email:    "admin@example.com",
		Username: "wannabe_admin",
		Password: "strongpassword",
		Role:     "admin",
	}, SessionMeta{})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{
		Email:    "login@example.com",
		Username: "login_user",
		Password: "strongpassword",
		Role:     "freelancer",
	}, SessionMeta{})
	assert.NoError(t, err)

	user, tokens, err := svc.Login(ctx, "login@example.com", "strongpassword", SessionMeta{})

	assert.NoError(t, err)
	assert.NotNil(t, user.LastLoginAt)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{
		Email:    "wrongpass@example.com",
		Username: "wrongpass_user",
		Password: "strongpassword",
		Role:     "client",
	}, SessionMeta{})
	assert.NoError(t, err)

	_, _, err = svc.Login(ctx, "wrongpass@example.com", "другой-пароль", SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "strongpassword", SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesSession(t *testing.T) {
	svc, repo := newTestAuthService()
	ctx := context.Background()

	_, tokens, err := svc.Register(ctx, RegisterInput{
		Email:    "refresh@example.com",
		Username: "refresh_user",
		Password: "strongpassword",
		Role:     "client",
	}, SessionMeta{})
	assert.NoError(t, err)

	newTokens, err := svc.Refresh(ctx, tokens.RefreshToken, SessionMeta{})
	assert.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, newTokens.RefreshToken)

	// Старый refresh токен больше не действует.
	_, err = svc.Refresh(ctx, tokens.RefreshToken, SessionMeta{})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
	assert.Len(t, repo.sessions, 1)
}

func TestTokenManager_ParseAccess_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("access-secret-for-tests-0123456789", "refresh-secret-for-tests-0123456789", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleFreelancer}

	pair, _, err := tokens.GeneratePair(user)
	assert.NoError(t, err)

	userID, role, err := tokens.ParseAccess(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleFreelancer, role)

	// Access токен не проходит как refresh и наоборот.
	_, err = tokens.ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
	_, _, err = tokens.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
