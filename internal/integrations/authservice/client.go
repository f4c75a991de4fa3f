// Package authservice клиент внешнего сервиса авторизации.
// Роли и права живут снаружи: этот сервис видит только булевы предикаты
// способностей. Недоступность сервиса авторизации никогда не трактуется
// как разрешение.
package authservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с сервисом авторизации
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса авторизации
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CanApprove проверяет, может ли пользователь принимать решения по бронированиям
func (c *Client) CanApprove(ctx context.Context, userID int64) (bool, error) {
	return c.checkCapability(ctx, userID, CapabilityApprove)
}

// CanCancelAny проверяет, может ли пользователь отменять чужие бронирования
func (c *Client) CanCancelAny(ctx context.Context, userID int64) (bool, error) {
	return c.checkCapability(ctx, userID, CapabilityCancelAny)
}

// checkCapability запрашивает предикат способности у сервиса авторизации
func (c *Client) checkCapability(ctx context.Context, userID int64, capability Capability) (bool, error) {
	url := fmt.Sprintf("%s/internal/users/%d/capabilities/%s", c.baseURL, userID, capability)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("authservice: capability check failed for user=%d capability=%s: %v", userID, capability, err)
		return false, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return false, ErrUserNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload capabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return payload.Allowed, nil
}
