// Package session управляет жизненным циклом refresh токена:
// не более одного сетевого refresh одновременно на логическую сессию,
// атомарная ротация пары токенов, полная зачистка хранилища при
// невосстановимом отказе (истечение, reuse detection).
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/bigschool/authkit/internal/client/storage"
	"github.com/bigschool/authkit/internal/models"
)

// ErrNoRefreshToken indicates that a refresh was attempted with no
// refresh token in the store. The refresh endpoint is never called
// with an empty token.
var ErrNoRefreshToken = errors.New("no refresh token available")

// refreshKey единственный ключ дедупликации: сессия одна на процесс
const refreshKey = "session-refresh"

// RefreshFunc выполняет сетевой вызов refresh endpoint и возвращает
// новую пару токенов. Ошибка должна быть уже доменной (см. apierr).
type RefreshFunc func(ctx context.Context, refreshToken string) (models.SessionTokens, error)

// Coordinator serializes token refresh attempts for the single logical
// session. Construct one per application lifetime and share it between
// every transport that can observe a 401.
type Coordinator struct {
	store storage.Store
	group singleflight.Group
}

// NewCoordinator creates a Coordinator over the given session store
func NewCoordinator(store storage.Store) *Coordinator {
	return &Coordinator{store: store}
}

// Refresh performs (or joins) the single in-flight refresh attempt.
// Конкурентные вызовы не порождают второй сетевой запрос: опоздавшие
// ждут исход уже идущего refresh и разделяют его результат.
func (c *Coordinator) Refresh(ctx context.Context, call RefreshFunc) error {
	_, err, shared := c.group.Do(refreshKey, func() (interface{}, error) {
		return nil, c.refresh(ctx, call)
	})
	if shared {
		slog.Debug("joined in-flight token refresh")
	}
	return err
}

// Reset забывает накопленное состояние дедупликации.
// Нужен только для изоляции тестов, в бою не вызывается.
func (c *Coordinator) Reset() {
	c.group = singleflight.Group{}
}

func (c *Coordinator) refresh(ctx context.Context, call RefreshFunc) error {
	current, err := c.store.Get(ctx, storage.KeyRefreshToken)
	if err != nil || strings.TrimSpace(current) == "" {
		// Нечем обновляться: сессия уже потеряна, сетевой вызов не делаем
		c.clear(ctx)
		return ErrNoRefreshToken
	}

	tokens, err := call(ctx, current)
	if err != nil {
		// Неудачный refresh фатален для локальной сессии:
		// истекший или украденный refresh token бесполезно хранить
		c.clear(ctx)
		return err
	}

	// Ротация: пара записывается атомарно, чтобы никакой читатель
	// не увидел новый access со старым refresh
	if err := c.store.SetMany(ctx, map[string]string{
		storage.KeyAccessToken:  tokens.Access,
		storage.KeyRefreshToken: tokens.Refresh,
	}); err != nil {
		return err
	}

	slog.Debug("session tokens rotated")
	return nil
}

func (c *Coordinator) clear(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		slog.Error("failed to clear session store", "error", err)
	}
}
