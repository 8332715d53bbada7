package models

import (
	"errors"
	"strings"
)

// Ошибки конструирования токенов
var (
	// ErrEmptyAccessToken access token пустой после trim
	ErrEmptyAccessToken = errors.New("access token cannot be empty")
	// ErrEmptyRefreshToken refresh token пустой после trim
	ErrEmptyRefreshToken = errors.New("refresh token cannot be empty")
)

// SessionTokens представляет пару credential'ов сессии.
// Access token короткоживущий (5 часов), refresh token живет 3 дня
// и ротируется при каждом использовании. Оба значения непрозрачны
// для клиента и никогда не разбираются.
type SessionTokens struct {
	Access  string
	Refresh string
}

// NewSessionTokens нормализует и проверяет пару токенов.
// Оба токена должны быть непустыми после trim — пара хранится
// и заменяется только целиком.
func NewSessionTokens(access, refresh string) (SessionTokens, error) {
	access = strings.TrimSpace(access)
	refresh = strings.TrimSpace(refresh)

	if access == "" {
		return SessionTokens{}, ErrEmptyAccessToken
	}
	if refresh == "" {
		return SessionTokens{}, ErrEmptyRefreshToken
	}

	return SessionTokens{Access: access, Refresh: refresh}, nil
}
