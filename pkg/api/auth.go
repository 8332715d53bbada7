package api

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Email      string `json:"email"`                // email пользователя
	Password   string `json:"password"`             // пароль (plaintext, только по HTTPS)
	RememberMe bool   `json:"rememberMe,omitempty"` // продлённая сессия
}

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	AcceptTerms          bool   `json:"acceptTerms"`
}

// RefreshRequest представляет запрос на обновление пары токенов
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// VerifyEmailRequest представляет запрос на подтверждение email
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// PasswordResetRequest представляет запрос на сброс пароля
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest представляет подтверждение сброса пароля
type PasswordResetConfirmRequest struct {
	Token                string `json:"token"`
	NewPassword          string `json:"newPassword"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// TokenPair представляет пару токенов, выданную сервером
type TokenPair struct {
	AccessToken      string `json:"accessToken"`      // bearer credential (TTL 5 часов)
	RefreshToken     string `json:"refreshToken"`     // ротируется при каждом использовании
	TokenType        string `json:"tokenType"`        // всегда "Bearer"
	ExpiresIn        int64  `json:"expiresIn"`        // TTL access token в секундах
	ExpiresAt        string `json:"expiresAt"`        // RFC3339 момент истечения access token
	RefreshExpiresIn int64  `json:"refreshExpiresIn"` // TTL refresh token в секундах
}

// UserPayload представляет пользователя в ответах сервера
type UserPayload struct {
	ID              string  `json:"id"`
	Email           string  `json:"email"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Status          string  `json:"status"`
	EmailVerified   bool    `json:"emailVerified"`
	EmailVerifiedAt *string `json:"emailVerifiedAt,omitempty"`
	LastLoginAt     *string `json:"lastLoginAt,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// LoginResponse представляет ответ на успешный логин
type LoginResponse struct {
	User   UserPayload `json:"user"`
	Tokens TokenPair   `json:"tokens"`
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	User                      UserPayload `json:"user"`
	RequiresEmailVerification bool        `json:"requiresEmailVerification"`
	// VerificationToken присутствует только в non-production окружениях
	VerificationToken string `json:"verificationToken,omitempty"`
}

// RefreshResponse представляет ответ на обновление токенов
type RefreshResponse struct {
	Tokens TokenPair `json:"tokens"`
}

// VerifyEmailResponse представляет ответ на подтверждение email
type VerifyEmailResponse struct {
	User UserPayload `json:"user"`
}

// MeResponse представляет ответ GET /api/users/me
type MeResponse struct {
	User UserPayload `json:"user"`
}

// ErrorPayload описывает ошибку внутри конверта ErrorResponse
type ErrorPayload struct {
	Code       string         `json:"code"`                 // машинный код ошибки
	Message    string         `json:"message"`              // человекочитаемое описание
	Details    map[string]any `json:"details,omitempty"`    // доп. поля (remainingSeconds, missingRequirements...)
	RetryAfter int64          `json:"retryAfter,omitempty"` // секунды до повторной попытки
}

// ErrorResponse представляет конверт ошибки для всех не-2xx ответов
type ErrorResponse struct {
	Success bool         `json:"success"` // всегда false
	Error   ErrorPayload `json:"error"`
}
