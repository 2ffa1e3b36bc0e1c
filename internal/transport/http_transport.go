package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"currency-converter-live/internal/model"

	"go.uber.org/zap"
)

// Transport - интерфейс для тестирования клиента без сети
type Transport interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

type HTTPTransport struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

func NewHTTPTransport(timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
		logger:  logger,
	}
}

func (t *HTTPTransport) Timeout() time.Duration {
	return t.timeout
}

// BuildURL собирает {baseURL}/{amount}-{from}/{to}/latest.
// Каждая часть пути экранируется отдельно.
func BuildURL(baseURL string, req model.ConversionRequest) string {
	return fmt.Sprintf("%s/%s-%s/%s/latest",
		strings.TrimRight(baseURL, "/"),
		url.PathEscape(req.Amount.String()),
		url.PathEscape(req.From.String()),
		url.PathEscape(req.To.String()),
	)
}

// Get выполняет GET и возвращает тело ответа. Любой не-2xx статус - ошибка.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		t.logger.Error("Failed to create HTTP request",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || isTimeout(err) {
			t.logger.Error("API request timeout",
				zap.String("url", rawURL),
				zap.Duration("timeout", t.timeout),
			)
			return nil, fmt.Errorf("API request timeout after %v: %w", t.timeout, err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			t.logger.Debug("API request canceled",
				zap.String("url", rawURL),
			)
			return nil, fmt.Errorf("API request canceled: %w", ctx.Err())
		}

		t.logger.Error("API request failed",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		t.logger.Error("API returned error status",
			zap.String("url", rawURL),
			zap.Int("status_code", resp.StatusCode),
			zap.String("status", resp.Status),
			zap.String("response", string(body)),
		)
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.logger.Error("Failed to read API response",
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	t.logger.Debug("API response received",
		zap.String("url", rawURL),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("bytes", len(data)),
	)
	return data, nil
}

// StatusError - ответ с кодом вне 2xx
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.Code, e.Status)
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

var _ Transport = (*HTTPTransport)(nil)
