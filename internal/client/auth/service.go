// Package auth реализует клиентский сервис аутентификации: login,
// register, подтверждение email, сброс пароля и управление локальной
// сессией (токены + закешированный профиль).
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pkgapi "github.com/bigschool/authkit/pkg/api"

	"github.com/bigschool/authkit/internal/apierr"
	"github.com/bigschool/authkit/internal/client/storage"
	"github.com/bigschool/authkit/internal/models"
	"github.com/bigschool/authkit/internal/validation"
)

// ErrNoSession возвращается, когда локальная сессия отсутствует
var ErrNoSession = errors.New("no stored session")

//go:generate moq -out api_client_mock.go . APIClient

// APIClient defines the transport operations the auth service depends on
type APIClient interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.LoginResponse, error)
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.RegisterResponse, error)
	VerifyEmail(ctx context.Context, token string) (*pkgapi.VerifyEmailResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, req pkgapi.PasswordResetConfirmRequest) error
	Logout(ctx context.Context) error
	RefreshSession(ctx context.Context) error
}

// service реализует Service поверх транспорта и локального хранилища
type service struct {
	api   APIClient
	store storage.Store
}

var _ Service = (*service)(nil)

// NewService создает новый сервис авторизации
func NewService(apiClient APIClient, store storage.Store) Service {
	return &service{
		api:   apiClient,
		store: store,
	}
}

// RegisterInput содержит данные формы регистрации
type RegisterInput struct {
	Email                string
	Password             string
	PasswordConfirmation string
	FirstName            string
	LastName             string
	AcceptTerms          bool
}

// RegisterResult содержит результат регистрации
type RegisterResult struct {
	User                      *models.User
	RequiresEmailVerification bool
	// VerificationToken заполнен только в non-production окружениях
	VerificationToken string
}

// LoginResult содержит результат авторизации
type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // время жизни access token в секундах
}

// Login выполняет аутентификацию пользователя
// Сохраняет access/refresh токены и профиль атомарно
func (s *service) Login(ctx context.Context, email, password string, rememberMe bool) (*LoginResult, error) {
	// Валидация email до сетевого вызова
	addr, err := models.NewEmail(email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}

	// 1. Отправляем запрос на логин
	resp, err := s.api.Login(ctx, pkgapi.LoginRequest{
		Email:      addr.String(),
		Password:   password,
		RememberMe: rememberMe,
	})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	user, err := userFromPayload(resp.User)
	if err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}

	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user profile: %w", err)
	}

	// 2. Сохраняем токены и профиль одной атомарной записью:
	// частично записанная сессия хуже отсутствующей
	err = s.store.SetMany(ctx, map[string]string{
		storage.KeyAccessToken:  resp.Tokens.AccessToken,
		storage.KeyRefreshToken: resp.Tokens.RefreshToken,
		storage.KeyUser:         string(userJSON),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	slog.Debug("session established", "user_id", user.ID.String())

	return &LoginResult{
		User:         user,
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
		ExpiresIn:    resp.Tokens.ExpiresIn,
	}, nil
}

// Register регистрирует нового пользователя
// Токены НЕ сохраняются: сессия начинается только после Login
func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	// Валидация входных данных до сетевого вызова
	addr, err := models.NewEmail(input.Email)
	if err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	if check := validation.CheckPassword(input.Password); !check.Valid {
		return nil, apierr.NewWeakPassword(check.MissingRequirements)
	}
	if input.Password != input.PasswordConfirmation {
		return nil, apierr.NewPasswordMismatch()
	}
	if !input.AcceptTerms {
		return nil, apierr.NewTermsNotAccepted()
	}

	resp, err := s.api.Register(ctx, pkgapi.RegisterRequest{
		Email:                addr.String(),
		Password:             input.Password,
		PasswordConfirmation: input.PasswordConfirmation,
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		AcceptTerms:          input.AcceptTerms,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	user, err := userFromPayload(resp.User)
	if err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}

	return &RegisterResult{
		User:                      user,
		RequiresEmailVerification: resp.RequiresEmailVerification,
		VerificationToken:         resp.VerificationToken,
	}, nil
}

// VerifyEmail подтверждает email по токену из письма
// Обновляет закешированный профиль, если он есть
func (s *service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	resp, err := s.api.VerifyEmail(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("email verification failed: %w", err)
	}

	user, err := userFromPayload(resp.User)
	if err != nil {
		return nil, fmt.Errorf("invalid user payload: %w", err)
	}

	// Профиль обновляется только если сессия уже есть:
	// verify-email работает и без логина
	if _, getErr := s.store.Get(ctx, storage.KeyUser); getErr == nil {
		userJSON, marshalErr := json.Marshal(resp.User)
		if marshalErr != nil {
			return nil, fmt.Errorf("failed to encode user profile: %w", marshalErr)
		}
		if setErr := s.store.Set(ctx, storage.KeyUser, string(userJSON)); setErr != nil {
			return nil, fmt.Errorf("failed to update cached profile: %w", setErr)
		}
	}

	return user, nil
}

// RequestPasswordReset запрашивает письмо для сброса пароля.
// Сервер отвечает 200 независимо от существования аккаунта, поэтому
// единственная клиентская проверка — формат email.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	addr, err := models.NewEmail(email)
	if err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	if err := s.api.RequestPasswordReset(ctx, addr.String()); err != nil {
		return fmt.Errorf("password reset request failed: %w", err)
	}
	return nil
}

// ConfirmPasswordReset устанавливает новый пароль по reset токену
func (s *service) ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmation string) error {
	if newPassword != confirmation {
		return apierr.NewPasswordMismatch()
	}
	if check := validation.CheckPassword(newPassword); !check.Valid {
		return apierr.NewWeakPassword(check.MissingRequirements)
	}

	err := s.api.ConfirmPasswordReset(ctx, pkgapi.PasswordResetConfirmRequest{
		Token:                token,
		NewPassword:          newPassword,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return fmt.Errorf("password reset failed: %w", err)
	}
	return nil
}

// Logout отзывает сессию на сервере и затем удаляет локальные данные.
// Порядок важен: при ошибке отзыва локальная сессия сохраняется,
// чтобы повторный logout мог отозвать refresh token на сервере.
func (s *service) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	slog.Debug("session terminated")
	return nil
}

// RefreshSession явно обновляет пару токенов
func (s *service) RefreshSession(ctx context.Context) error {
	return s.api.RefreshSession(ctx)
}

// CurrentUser возвращает закешированный профиль пользователя
func (s *service) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, err := s.store.Get(ctx, storage.KeyUser)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var payload pkgapi.UserPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}
	return userFromPayload(payload)
}

// IsAuthenticated checks if a stored session exists
func (s *service) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.store.Get(ctx, storage.KeyAccessToken)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read session: %w", err)
	}
	return token != "", nil
}

// userFromPayload превращает wire-представление пользователя в доменную модель
func userFromPayload(payload pkgapi.UserPayload) (*models.User, error) {
	id, err := models.NewUserID(payload.ID)
	if err != nil {
		return nil, err
	}
	email, err := models.NewEmail(payload.Email)
	if err != nil {
		return nil, err
	}
	status, err := models.ParseUserStatus(payload.Status)
	if err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339, payload.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339, payload.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid updatedAt: %w", err)
	}

	emailVerifiedAt, err := parseOptionalTime(payload.EmailVerifiedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid emailVerifiedAt: %w", err)
	}
	lastLoginAt, err := parseOptionalTime(payload.LastLoginAt)
	if err != nil {
		return nil, fmt.Errorf("invalid lastLoginAt: %w", err)
	}

	user := models.UserFromPersistence(
		id, email,
		payload.FirstName, payload.LastName,
		status,
		emailVerifiedAt, lastLoginAt,
		createdAt, updatedAt,
	)
	return user, nil
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
