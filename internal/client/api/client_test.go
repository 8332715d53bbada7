package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigschool/authkit/internal/apierr"
	"github.com/bigschool/authkit/internal/client/session"
	"github.com/bigschool/authkit/internal/client/storage"
	"github.com/bigschool/authkit/internal/client/storage/memory"
	"github.com/bigschool/authkit/pkg/api"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memory.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := memory.New()
	return NewClient(server.URL, store, session.NewCoordinator(store)), store
}

func seedSession(t *testing.T, store storage.Store, access, refresh string) {
	t.Helper()
	require.NoError(t, store.SetMany(context.Background(), map[string]string{
		storage.KeyAccessToken:  access,
		storage.KeyRefreshToken: refresh,
	}))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Success: false,
		Error:   api.ErrorPayload{Code: code, Message: message},
	})
}

func writeTokens(w http.ResponseWriter, access, refresh string) {
	_ = json.NewEncoder(w).Encode(api.RefreshResponse{
		Tokens: api.TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
			TokenType:    "Bearer",
			ExpiresIn:    18000,
		},
	})
}

func TestClient_Login(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathLogin, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// Публичный endpoint: без Authorization
		assert.Empty(t, r.Header.Get("Authorization"))

		var req api.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)
		assert.Equal(t, "Password123!", req.Password)

		_ = json.NewEncoder(w).Encode(api.LoginResponse{
			User: api.UserPayload{
				ID:     "6f1f39f4-8a1d-4a54-9017-0b1a2cd7a2b1",
				Email:  "user@example.com",
				Status: "ACTIVE",
			},
			Tokens: api.TokenPair{AccessToken: "A1", RefreshToken: "R1", TokenType: "Bearer", ExpiresIn: 18000},
		})
	})

	client, _ := newTestClient(t, handler)

	resp, err := client.Login(context.Background(), api.LoginRequest{
		Email:    "user@example.com",
		Password: "Password123!",
	})

	require.NoError(t, err)
	assert.Equal(t, "A1", resp.Tokens.AccessToken)
	assert.Equal(t, "R1", resp.Tokens.RefreshToken)
}

func TestClient_BearerReadAtSendTime(t *testing.T) {
	var gotAuth atomic.Value
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(api.MeResponse{User: api.UserPayload{ID: "u1"}})
	})

	client, store := newTestClient(t, handler)

	// Токен записан ПОСЛЕ создания клиента — транспорт обязан
	// прочитать его из хранилища в момент отправки
	seedSession(t, store, "A-late", "R-late")

	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer A-late", gotAuth.Load())
}

func TestClient_PublicEndpointsWithoutBearer(t *testing.T) {
	var requests sync.Map
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Store(r.URL.Path, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")
	ctx := context.Background()

	require.NoError(t, client.RequestPasswordReset(ctx, "user@example.com"))
	require.NoError(t, client.ConfirmPasswordReset(ctx, api.PasswordResetConfirmRequest{
		Token:                "tok",
		NewPassword:          "Password123!",
		PasswordConfirmation: "Password123!",
	}))

	auth, ok := requests.Load(PathPasswordReset)
	require.True(t, ok)
	assert.Empty(t, auth)

	auth, ok = requests.Load(PathPasswordResetConfirm)
	require.True(t, ok)
	assert.Empty(t, auth)
}

func TestClient_401TriggersSingleRefresh(t *testing.T) {
	var meCalls, refreshCalls atomic.Int64

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathMe:
			meCalls.Add(1)
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "token expired")
		case PathRefresh:
			refreshCalls.Add(1)
			var req api.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "R1", req.RefreshToken)
			writeTokens(w, "A2", "R2")
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")
	ctx := context.Background()

	_, err := client.Me(ctx)

	// Исходная ошибка 401 все равно возвращается вызывающему:
	// повтор запроса — обязанность вызывающего
	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindInvalidCredentials))

	// Но токены уже ротированы
	assert.Equal(t, int64(1), refreshCalls.Load())
	access, getErr := store.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, getErr)
	refresh, getErr := store.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, getErr)
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)
}

func TestClient_ConcurrentUnauthorizedSharesOneRefresh(t *testing.T) {
	var refreshCalls atomic.Int64

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathMe:
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "token expired")
		case PathRefresh:
			refreshCalls.Add(1)
			// Придерживаем refresh, чтобы остальные 401 успели прийти
			time.Sleep(100 * time.Millisecond)
			writeTokens(w, "A2", "R2")
		}
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")

	const concurrent = 8
	var wg sync.WaitGroup
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = client.Me(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), refreshCalls.Load(), "N конкурентных 401 дают ровно один refresh")
}

func TestClient_RefreshEndpoint401NoLoop(t *testing.T) {
	var refreshCalls atomic.Int64

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathRefresh, r.URL.Path)
		refreshCalls.Add(1)
		writeError(w, http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "expired")
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")

	_, err := client.Refresh(context.Background(), "R1")

	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindRefreshTokenExpired))
	// 401 от самого refresh endpoint'а не порождает новых refresh вызовов
	assert.Equal(t, int64(1), refreshCalls.Load())
}

func TestClient_ExpiredRefreshClearsSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathMe:
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "token expired")
		case PathRefresh:
			writeError(w, http.StatusUnauthorized, "REFRESH_TOKEN_EXPIRED", "expired")
		}
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")
	ctx := context.Background()

	_, err := client.Me(ctx)

	// Вызывающий видит именно RefreshTokenExpired, а не исходный 401
	assert.True(t, apierr.IsKind(err, apierr.KindRefreshTokenExpired))

	_, getErr := store.Get(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, getErr, storage.ErrKeyNotFound)
	_, getErr = store.Get(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, getErr, storage.ErrKeyNotFound)
}

func TestClient_ReuseDetectedClearsSessionImmediately(t *testing.T) {
	var refreshCalls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathMe:
			// Reuse сигнал приходит на обычный запрос
			writeError(w, http.StatusUnauthorized, "REFRESH_TOKEN_REUSE_DETECTED", "reuse detected")
		case PathRefresh:
			refreshCalls.Add(1)
			writeTokens(w, "A2", "R2")
		}
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")
	ctx := context.Background()

	_, err := client.Me(ctx)

	assert.True(t, apierr.IsKind(err, apierr.KindRefreshTokenReuseDetected))
	// Reuse имеет приоритет над generic 401-refresh путем
	assert.Equal(t, int64(0), refreshCalls.Load())

	_, getErr := store.Get(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, getErr, storage.ErrKeyNotFound)
}

func TestClient_RotatedTokenReplayIsFatal(t *testing.T) {
	// Сценарий ротации: R1 -> R2, повтор R1 означает кражу
	var current atomic.Value
	current.Store("R1")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, PathRefresh, r.URL.Path)
		var req api.RefreshRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.RefreshToken != current.Load() {
			writeError(w, http.StatusUnauthorized, "REFRESH_TOKEN_REUSE_DETECTED", "reuse detected")
			return
		}
		current.Store("R2")
		writeTokens(w, "A2", "R2")
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")
	ctx := context.Background()

	require.NoError(t, client.RefreshSession(ctx))

	refresh, err := store.Get(ctx, storage.KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "R2", refresh)

	// Повтор уже ротированного R1
	_, replayErr := client.Refresh(ctx, "R1")
	assert.True(t, apierr.IsKind(replayErr, apierr.KindRefreshTokenReuseDetected))

	_, getErr := store.Get(ctx, storage.KeyRefreshToken)
	assert.ErrorIs(t, getErr, storage.ErrKeyNotFound)
}

func TestClient_NoRefreshTokenShortCircuit(t *testing.T) {
	var refreshCalls atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathMe:
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "token expired")
		case PathRefresh:
			refreshCalls.Add(1)
			writeTokens(w, "A2", "R2")
		}
	})

	client, store := newTestClient(t, handler)
	// Только access token, refresh отсутствует
	require.NoError(t, store.Set(context.Background(), storage.KeyAccessToken, "A1"))

	_, err := client.Me(context.Background())

	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindInternal))
	assert.Equal(t, int64(0), refreshCalls.Load(), "refresh endpoint не вызывается с пустым токеном")

	_, getErr := store.Get(context.Background(), storage.KeyAccessToken)
	assert.ErrorIs(t, getErr, storage.ErrKeyNotFound)
}

func TestClient_Timeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	client, _ := newTestClient(t, handler)
	// Укорачиваем таймаут, чтобы не ждать полные 10 секунд
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Get(context.Background(), PathMe)

	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindNetwork))

	var domainErr *apierr.Error
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, domainErr.Timeout)
}

func TestClient_ConnectionFailure(t *testing.T) {
	store := memory.New()
	// Сервер не слушает на этом порту
	client := NewClient("http://127.0.0.1:1", store, session.NewCoordinator(store))

	_, err := client.Get(context.Background(), PathMe)

	require.Error(t, err)
	assert.True(t, apierr.IsKind(err, apierr.KindNetwork))

	var domainErr *apierr.Error
	require.ErrorAs(t, err, &domainErr)
	assert.False(t, domainErr.Timeout)
}

func TestClient_ServerErrorMapped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json at all"))
	})

	client, store := newTestClient(t, handler)
	seedSession(t, store, "A1", "R1")

	_, err := client.Me(context.Background())

	assert.True(t, apierr.IsKind(err, apierr.KindInternal))
}
