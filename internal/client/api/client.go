// Package api содержит HTTP транспорт к backend API: выполнение
// запросов, подстановку bearer token, нормализацию ошибок и
// автоматический refresh сессии при 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/bigschool/authkit/internal/apierr"
	"github.com/bigschool/authkit/internal/client/session"
	"github.com/bigschool/authkit/internal/client/storage"
	"github.com/bigschool/authkit/internal/models"
	"github.com/bigschool/authkit/pkg/api"
)

// Пути auth endpoint'ов
const (
	PathLogin                = "/api/auth/login"
	PathRegister             = "/api/auth/register"
	PathRefresh              = "/api/auth/refresh"
	PathVerifyEmail          = "/api/auth/verify-email"
	PathPasswordReset        = "/api/auth/password-reset"
	PathPasswordResetConfirm = "/api/auth/password-reset/confirm"
	PathLogout               = "/api/auth/logout"
	PathMe                   = "/api/users/me"
)

// requestTimeout фиксированный лимит на запрос
const requestTimeout = 10 * time.Second

// publicEndpoints не требуют Authorization и не запускают refresh при 401
var publicEndpoints = []string{
	PathLogin,
	PathRegister,
	PathPasswordReset,
	PathPasswordResetConfirm,
}

// Response представляет нормализованный ответ сервера для generic методов
type Response struct {
	Header http.Header
	Body   []byte
	Status int
}

// Client представляет HTTP клиент для взаимодействия с backend API.
// Bearer token читается из хранилища в момент отправки каждого запроса,
// а не кешируется при создании клиента.
type Client struct {
	httpClient *http.Client
	store      storage.Store
	refresher  *session.Coordinator
	baseURL    string
}

// NewClient создает новый API клиент. Координатор refresh создается
// один раз на время жизни приложения и передается сюда извне.
func NewClient(baseURL string, store storage.Store, refresher *session.Coordinator) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		store:     store,
		refresher: refresher,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Сохраняем Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Generic методы транспорта

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	var resp api.LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.RegisterResponse, error) {
	var resp api.RegisterResponse
	if err := c.doJSON(ctx, http.MethodPost, PathRegister, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новую пару токенов
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doJSON(ctx, http.MethodPost, PathRefresh, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail подтверждает email по токену из письма
func (c *Client) VerifyEmail(ctx context.Context, token string) (*api.VerifyEmailResponse, error) {
	var resp api.VerifyEmailResponse
	req := api.VerifyEmailRequest{Token: token}
	if err := c.doJSON(ctx, http.MethodPost, PathVerifyEmail, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestPasswordReset запрашивает письмо для сброса пароля
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	req := api.PasswordResetRequest{Email: email}
	return c.doJSON(ctx, http.MethodPost, PathPasswordReset, req, nil)
}

// ConfirmPasswordReset устанавливает новый пароль по reset токену
func (c *Client) ConfirmPasswordReset(ctx context.Context, req api.PasswordResetConfirmRequest) error {
	return c.doJSON(ctx, http.MethodPost, PathPasswordResetConfirm, req, nil)
}

// Logout отзывает сессию на сервере
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, PathLogout, nil, nil)
}

// Me возвращает профиль текущего пользователя
func (c *Client) Me(ctx context.Context) (*api.MeResponse, error) {
	var resp api.MeResponse
	if err := c.doJSON(ctx, http.MethodGet, PathMe, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshSession выполняет явный refresh через координатор.
// Конкурентные вызовы разделяют один сетевой запрос.
func (c *Client) RefreshSession(ctx context.Context) error {
	return c.refresher.Refresh(ctx, c.refreshCall)
}

// refreshCall сетевой вызов для координатора: POST на refresh endpoint
// и валидация полученной пары
func (c *Client) refreshCall(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	resp, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		return models.SessionTokens{}, err
	}
	return models.NewSessionTokens(resp.Tokens.AccessToken, resp.Tokens.RefreshToken)
}

// doJSON выполняет запрос и декодирует успешный ответ в result
func (c *Client) doJSON(ctx context.Context, method, path string, body, result any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if result != nil {
		if err := json.Unmarshal(resp.Body, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// do выполняет HTTP запрос и нормализует исход: любой не-2xx ответ
// превращается в доменную ошибку, 401 на защищенном endpoint'е
// запускает refresh сессии
func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Bearer token читается из хранилища при каждой отправке
	if !isPublicEndpoint(path) {
		if accessToken, err := c.store.Get(ctx, storage.KeyAccessToken); err == nil && accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierr.MapTransport(err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apierr.MapTransport(err)
	}

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		return &Response{
			Status: httpResp.StatusCode,
			Header: httpResp.Header,
			Body:   respBody,
		}, nil
	}

	return nil, c.mapFailure(ctx, path, httpResp.StatusCode, respBody)
}

// mapFailure обрабатывает не-2xx ответ: reuse detection, 401-refresh
// и отображение в доменную ошибку
func (c *Client) mapFailure(ctx context.Context, path string, status int, body []byte) error {
	var envelope *api.ErrorResponse
	var decoded api.ErrorResponse
	if err := json.Unmarshal(body, &decoded); err == nil {
		envelope = &decoded
	}

	// Reuse detection проверяется ПЕРВЫМ, до любой refresh логики:
	// украденный refresh token фатален независимо от состояния сессии
	if apierr.IsReuseDetectedCode(envelope) {
		if err := c.store.Clear(ctx); err != nil {
			slog.Error("failed to clear session store", "error", err)
		}
		return apierr.NewRefreshTokenReuseDetected()
	}

	if status == http.StatusUnauthorized && shouldTriggerRefresh(path) {
		slog.Debug("401 on protected endpoint, refreshing session", "path", path)

		if refreshErr := c.refresher.Refresh(ctx, c.refreshCall); refreshErr != nil {
			return asDomainError(refreshErr)
		}

		// Refresh удался, но исходный запрос все равно завершается
		// своей ошибкой: вызывающий повторяет его сам, уже с новым
		// access token
		return apierr.Map(status, envelope)
	}

	return apierr.Map(status, envelope)
}

// shouldTriggerRefresh определяет, должен ли 401 запускать refresh
func shouldTriggerRefresh(path string) bool {
	// 401 от самого refresh endpoint'а не перезапускает refresh (защита от цикла)
	if strings.Contains(path, PathRefresh) {
		return false
	}
	return !isPublicEndpoint(path)
}

func isPublicEndpoint(path string) bool {
	for _, endpoint := range publicEndpoints {
		if strings.Contains(path, endpoint) {
			return true
		}
	}
	return false
}

// asDomainError пропускает доменные ошибки как есть, остальное
// (включая session.ErrNoRefreshToken) сводит к generic внутренней ошибке
func asDomainError(err error) error {
	var domainErr *apierr.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return apierr.NewInternal(err.Error())
}
