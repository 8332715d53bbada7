// Package apierr содержит закрытую таксономию доменных ошибок клиента
// и отображение транспортных ошибок в нее. Все вызывающие слои видят
// только *Error — сырые HTTP ошибки не покидают транспорт.
package apierr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind представляет вид доменной ошибки
type Kind string

const (
	// Ошибки учетных данных
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindAccountLocked      Kind = "ACCOUNT_LOCKED"
	KindUserNotActive      Kind = "USER_NOT_ACTIVE"

	// Ошибки регистрации
	KindUserAlreadyExists Kind = "USER_ALREADY_EXISTS"
	KindWeakPassword      Kind = "WEAK_PASSWORD"
	KindPasswordMismatch  Kind = "PASSWORD_MISMATCH"
	KindTermsNotAccepted  Kind = "TERMS_NOT_ACCEPTED"

	// Ошибки токенов подтверждения и сброса пароля
	KindInvalidVerificationToken      Kind = "INVALID_VERIFICATION_TOKEN"
	KindVerificationTokenExpired      Kind = "VERIFICATION_TOKEN_EXPIRED"
	KindEmailAlreadyVerified          Kind = "EMAIL_ALREADY_VERIFIED"
	KindInvalidPasswordResetToken     Kind = "INVALID_PASSWORD_RESET_TOKEN"
	KindPasswordResetTokenExpired     Kind = "PASSWORD_RESET_TOKEN_EXPIRED"
	KindPasswordResetTokenAlreadyUsed Kind = "PASSWORD_RESET_TOKEN_ALREADY_USED"

	// Ошибки refresh token
	KindRefreshTokenExpired       Kind = "REFRESH_TOKEN_EXPIRED"
	KindRefreshTokenReuseDetected Kind = "REFRESH_TOKEN_REUSE_DETECTED"

	// Транспортные ошибки
	KindNetwork  Kind = "NETWORK_ERROR"
	KindInternal Kind = "INTERNAL_SERVER_ERROR"
	KindUnknown  Kind = "UNKNOWN_ERROR"
)

// Error представляет доменную ошибку с tagged-дискриминатором Kind.
// Дополнительные поля заполнены только для соответствующих видов.
type Error struct {
	Kind    Kind
	Message string

	// Сырые данные ответа сервера (для KindUnknown и диагностики)
	Status int
	Code   string

	// Поля конкретных видов
	Email               string   // USER_ALREADY_EXISTS
	UserStatus          string   // USER_NOT_ACTIVE
	RemainingSeconds    int64    // ACCOUNT_LOCKED
	MissingRequirements []string // WEAK_PASSWORD
	Timeout             bool     // NETWORK_ERROR: таймаут vs недоступность
}

func (e *Error) Error() string {
	return e.Message
}

// Is позволяет сравнивать ошибки через errors.Is по виду
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// KindOf возвращает вид доменной ошибки или KindUnknown
// для ошибок вне таксономии
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}

// IsKind проверяет, что ошибка принадлежит данному виду
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Конструкторы. Тексты сообщений фиксированы — CLI показывает их как есть.

func NewInvalidCredentials() *Error {
	return &Error{Kind: KindInvalidCredentials, Message: "Invalid email or password"}
}

func NewAccountLocked(remainingSeconds int64) *Error {
	return &Error{
		Kind:             KindAccountLocked,
		Message:          fmt.Sprintf("Account locked. Try again in %d seconds", remainingSeconds),
		RemainingSeconds: remainingSeconds,
	}
}

func NewUserNotActive(status string) *Error {
	return &Error{
		Kind:       KindUserNotActive,
		Message:    fmt.Sprintf("User account is %s", strings.ToLower(status)),
		UserStatus: status,
	}
}

func NewUserAlreadyExists(email string) *Error {
	return &Error{
		Kind:    KindUserAlreadyExists,
		Message: fmt.Sprintf("User with email %s already exists", email),
		Email:   email,
	}
}

func NewWeakPassword(missingRequirements []string) *Error {
	return &Error{
		Kind:                KindWeakPassword,
		Message:             "Weak password. Missing requirements: " + strings.Join(missingRequirements, ", "),
		MissingRequirements: missingRequirements,
	}
}

func NewPasswordMismatch() *Error {
	return &Error{Kind: KindPasswordMismatch, Message: "Passwords do not match"}
}

func NewTermsNotAccepted() *Error {
	return &Error{Kind: KindTermsNotAccepted, Message: "You must accept the terms and conditions"}
}

func NewInvalidVerificationToken() *Error {
	return &Error{Kind: KindInvalidVerificationToken, Message: "Invalid verification token"}
}

func NewVerificationTokenExpired() *Error {
	return &Error{Kind: KindVerificationTokenExpired, Message: "Verification token has expired"}
}

func NewEmailAlreadyVerified() *Error {
	return &Error{Kind: KindEmailAlreadyVerified, Message: "Email is already verified"}
}

func NewInvalidPasswordResetToken() *Error {
	return &Error{Kind: KindInvalidPasswordResetToken, Message: "Invalid password reset token"}
}

func NewPasswordResetTokenExpired() *Error {
	return &Error{Kind: KindPasswordResetTokenExpired, Message: "Password reset token has expired"}
}

func NewPasswordResetTokenAlreadyUsed() *Error {
	return &Error{Kind: KindPasswordResetTokenAlreadyUsed, Message: "Password reset token has already been used"}
}

func NewRefreshTokenExpired() *Error {
	return &Error{Kind: KindRefreshTokenExpired, Message: "Refresh token has expired. Please log in again"}
}

func NewRefreshTokenReuseDetected() *Error {
	return &Error{
		Kind:    KindRefreshTokenReuseDetected,
		Message: "Refresh token reuse detected. All sessions have been revoked for security",
	}
}

// NewTimeout сетевой таймаут (запрос не уложился в лимит транспорта)
func NewTimeout() *Error {
	return &Error{Kind: KindNetwork, Message: "Request timed out. Please try again", Timeout: true}
}

// NewNetworkUnreachable полная недоступность сервера
func NewNetworkUnreachable() *Error {
	return &Error{Kind: KindNetwork, Message: "Cannot reach server. Please check your connection"}
}

func NewInternal(message string) *Error {
	if message == "" {
		message = "An unexpected error occurred. Please try again later"
	}
	return &Error{Kind: KindInternal, Message: message}
}
