package storage

import "context"

// Фиксированные ключи хранилища сессии. Значения ключей совпадают
// с теми, что использует web-клиент платформы — это позволяет
// инструментам диагностики читать оба хранилища одинаково.
const (
	// KeyAccessToken короткоживущий bearer credential
	KeyAccessToken = "big_school_access_token"
	// KeyRefreshToken ротируемый refresh credential
	KeyRefreshToken = "big_school_refresh_token"
	// KeyUser кешированный профиль пользователя (JSON blob)
	KeyUser = "big_school_user"
)

//go:generate moq -out store_mock.go . Store

// Store defines durable key/value persistence for session state.
// Implementations are synchronous and never touch the network.
//
// Инвариант токенов: access и refresh token записываются только парой
// через SetMany — никогда по одному, чтобы другой читатель не увидел
// половину ротации.
type Store interface {
	// Get returns the stored value for key.
	// Returns ErrKeyNotFound if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// SetMany stores all pairs atomically: a concurrent reader sees
	// either none or all of the writes.
	SetMany(ctx context.Context, values map[string]string) error

	// Clear removes all session state as a unit (logout, expiry, reuse).
	Clear(ctx context.Context) error
}
