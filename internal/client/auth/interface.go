package auth

import (
	"context"

	"github.com/bigschool/authkit/internal/models"
)

//go:generate moq -out service_mock.go . Service

// Service defines the main interface for authentication session operations.
// It owns the local session store: tokens and the cached profile are written
// and cleared here, the transport only reads them.
type Service interface {
	// Login выполняет аутентификацию пользователя
	// Сохраняет access/refresh токены и профиль атомарно
	Login(ctx context.Context, email, password string, rememberMe bool) (*LoginResult, error)

	// Register регистрирует нового пользователя
	// Токены НЕ сохраняются: сессия начинается только после Login
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)

	// VerifyEmail подтверждает email по токену из письма
	// Обновляет закешированный профиль, если он есть
	VerifyEmail(ctx context.Context, token string) (*models.User, error)

	// RequestPasswordReset запрашивает письмо для сброса пароля
	// Всегда успешен для корректного email, существует аккаунт или нет
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset устанавливает новый пароль по reset токену
	ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmation string) error

	// Logout отзывает сессию на сервере и затем удаляет локальные данные
	// При ошибке отзыва локальная сессия сохраняется для повтора
	Logout(ctx context.Context) error

	// RefreshSession явно обновляет пару токенов
	RefreshSession(ctx context.Context) error

	// CurrentUser возвращает закешированный профиль пользователя
	CurrentUser(ctx context.Context) (*models.User, error)

	// IsAuthenticated checks if a stored session exists
	IsAuthenticated(ctx context.Context) (bool, error)
}
