package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/gigmarket-backend/internal/models"
	"github.com/ignatzorin/gigmarket-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigmarket-backend/internal/repository"
	"github.com/ignatzorin/gigmarket-backend/internal/validation"
)

// UserRepository описывает работу с пользователями и сессиями.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByToken(ctx context.Context, refreshToken string) (*models.Session, error)
	DeleteSession(ctx context.Context, refreshToken string) error
}

// AuthService реализует регистрацию и вход пользователей.
type AuthService struct {
	users  UserRepository
	tokens *TokenManager
}

func NewAuthService(users UserRepository, tokens *TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// RegisterInput содержит данные для регистрации.
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Role     string
}

// SessionMeta содержит метаданные клиента для сохранения сессии.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

// Register создаёт нового пользователя и выдаёт токены.
func (s *AuthService) Register(ctx context.Context, input RegisterInput, meta SessionMeta) (*models.User, *TokenPair, error) {
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if len(input.Password) < 8 {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "пароль должен быть не менее 8 символов")
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role != models.RoleClient && role != models.RoleFreelancer {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "роль должна быть client или freelancer")
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, apperror.New(apperror.ErrCodeConflict, "пользователь с таким email уже существует")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось проверить email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось захешировать пароль")
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать пользователя")
	}

	pair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login проверяет учётные данные и выдаёт токены.
func (s *AuthService) Login(ctx context.Context, email, password string, meta SessionMeta) (*models.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, apperror.ErrInvalidCredentials
		}
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить пользователя")
	}
	if !user.IsActive {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "учётная запись деактивирована")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, apperror.ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLoginAt(ctx, user.ID); err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить время входа")
	}

	pair, err := s.issueSession(ctx, user, meta)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh обменивает refresh токен на новую пару.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, meta SessionMeta) (*TokenPair, error) {
	userID, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	session, err := s.users.GetSessionByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить сессию")
	}
	if session.UserID != userID {
		return nil, apperror.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить пользователя")
	}

	if err := s.users.DeleteSession(ctx, refreshToken); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось обновить сессию")
	}
	return s.issueSession(ctx, user, meta)
}

// Logout завершает сессию refresh токена.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if err := s.users.DeleteSession(ctx, refreshToken); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось завершить сессию")
	}
	return nil
}

// GetProfile возвращает профиль текущего пользователя.
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось получить профиль")
	}
	return user, nil
}

func (s *AuthService) issueSession(ctx context.Context, user *models.User, meta SessionMeta) (*TokenPair, error) {
	pair, refreshExp, err := s.tokens.GeneratePair(user)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось выпустить токены")
	}

	session := &models.Session{
		UserID:       user.ID,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    refreshExp,
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}
	if err := s.users.CreateSession(ctx, session); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сохранить сессию")
	}
	return pair, nil
}
