package apierr

import (
	"context"
	"errors"
	"net"
	"regexp"

	"github.com/bigschool/authkit/pkg/api"
)

// Машинные коды ошибок бэкенда. Классификация всегда идет по паре
// (HTTP статус + код), текст сообщения используется только как
// fallback для извлечения email.
const (
	codeInvalidCredentials            = "INVALID_CREDENTIALS"
	codeRefreshTokenExpired           = "REFRESH_TOKEN_EXPIRED"
	codeRefreshTokenReuseDetected     = "REFRESH_TOKEN_REUSE_DETECTED"
	codeUserNotActive                 = "USER_NOT_ACTIVE"
	codeUserAlreadyExists             = "USER_ALREADY_EXISTS"
	codeEmailAlreadyVerified          = "EMAIL_ALREADY_VERIFIED"
	codeAccountLocked                 = "ACCOUNT_LOCKED"
	codeWeakPassword                  = "WEAK_PASSWORD"
	codePasswordMismatch              = "PASSWORD_MISMATCH"
	codeTermsNotAccepted              = "TERMS_NOT_ACCEPTED"
	codeInvalidVerificationToken      = "INVALID_VERIFICATION_TOKEN"
	codeVerificationTokenExpired      = "VERIFICATION_TOKEN_EXPIRED"
	codeInvalidPasswordResetToken     = "INVALID_PASSWORD_RESET_TOKEN"
	codePasswordResetTokenExpired     = "PASSWORD_RESET_TOKEN_EXPIRED"
	codePasswordResetTokenAlreadyUsed = "PASSWORD_RESET_TOKEN_ALREADY_USED"
)

// defaultLockSeconds значение remainingSeconds когда сервер его не прислал
const defaultLockSeconds = 900

// IsReuseDetectedCode проверяет код конверта на сигнал reuse detection.
// Транспорт проверяет его ДО обработки 401 — reuse фатален для сессии
// независимо от состояния refresh.
func IsReuseDetectedCode(envelope *api.ErrorResponse) bool {
	return envelope != nil && envelope.Error.Code == codeRefreshTokenReuseDetected
}

// Map отображает не-2xx ответ сервера в доменную ошибку по закрытой
// таблице (статус, код). Чистая функция: одинаковый вход всегда дает
// ошибку того же вида с теми же извлеченными полями. Отсутствующий или
// нечитаемый конверт не приводит к панике — срабатывают default ветки.
func Map(status int, envelope *api.ErrorResponse) *Error {
	var code, message string
	var details map[string]any
	if envelope != nil {
		code = envelope.Error.Code
		message = envelope.Error.Message
		details = envelope.Error.Details
	}

	switch status {
	case 401:
		switch code {
		case codeRefreshTokenExpired:
			return NewRefreshTokenExpired()
		case codeRefreshTokenReuseDetected:
			return NewRefreshTokenReuseDetected()
		default:
			// включая INVALID_CREDENTIALS и неизвестные коды
			return NewInvalidCredentials()
		}

	case 403:
		if code == codeUserNotActive {
			return NewUserNotActive(detailString(details, "status", "inactive"))
		}

	case 409:
		switch code {
		case codeUserAlreadyExists:
			return NewUserAlreadyExists(extractEmail(details, message))
		case codeEmailAlreadyVerified:
			return NewEmailAlreadyVerified()
		}

	case 423:
		if code == codeAccountLocked {
			return NewAccountLocked(detailInt(details, "remainingSeconds", defaultLockSeconds))
		}

	case 400:
		switch code {
		case codeWeakPassword:
			return NewWeakPassword(detailStrings(details, "missingRequirements"))
		case codePasswordMismatch:
			return NewPasswordMismatch()
		case codeTermsNotAccepted:
			return NewTermsNotAccepted()
		case codeInvalidVerificationToken:
			return NewInvalidVerificationToken()
		case codeVerificationTokenExpired:
			return NewVerificationTokenExpired()
		case codeInvalidPasswordResetToken:
			return NewInvalidPasswordResetToken()
		case codePasswordResetTokenExpired:
			return NewPasswordResetTokenExpired()
		case codePasswordResetTokenAlreadyUsed:
			return NewPasswordResetTokenAlreadyUsed()
		}
	}

	if status >= 500 {
		return NewInternal(message)
	}

	// Вне таблицы: generic ошибка с сырыми статусом/кодом/сообщением
	if message == "" {
		message = "An error occurred"
	}
	return &Error{Kind: KindUnknown, Message: message, Status: status, Code: code}
}

// MapTransport отображает ошибку сетевого уровня (ответ не получен).
// Таймаут отличим от полной недоступности сервера.
func MapTransport(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeout()
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeout()
	}

	return NewNetworkUnreachable()
}

// emailInMessage запасной вариант извлечения email из текста вида
// "User with email xxx@example.com already exists"
var emailInMessage = regexp.MustCompile(`(?i)email\s+(\S+)`)

func extractEmail(details map[string]any, message string) string {
	if email := detailString(details, "email", ""); email != "" {
		return email
	}
	if m := emailInMessage.FindStringSubmatch(message); m != nil {
		return m[1]
	}
	return "unknown"
}

func detailString(details map[string]any, key, fallback string) string {
	if value, ok := details[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func detailInt(details map[string]any, key string, fallback int64) int64 {
	switch value := details[key].(type) {
	case float64: // encoding/json декодирует числа в float64
		return int64(value)
	case int64:
		return value
	case int:
		return int64(value)
	default:
		return fallback
	}
}

func detailStrings(details map[string]any, key string) []string {
	items, ok := details[key].([]any)
	if !ok {
		return nil
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
