// Package httpclient содержит единый настроенный HTTP-клиент к бэкенду.
//
// Каждый исходящий запрос получает X-Request-Id и, если токен сохранён,
// заголовок Authorization: Bearer. Ответ 401 передаётся в session.Expiry,
// которое очищает токен и показывает ровно одно уведомление.
// Клиент не повторяет запросы и не различает таймаут и обрыв соединения.
package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/milk-customer/internal/lib/sl"
)

// TokenSource отдаёт сохранённый токен.
type TokenSource interface {
	Token(ctx context.Context) (token string, ok bool, err error)
}

// Expirer обрабатывает отказ бэкенда в авторизации.
type Expirer interface {
	Expire(ctx context.Context) bool
}

// Options настройки клиента.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // запросов в секунду, 0 без ограничения
	RateBurst int
	UserAgent string
}

// Response тело и метаданные успешного ответа.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// StatusError возвращается для любого ответа вне диапазона 2xx.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// IsUnauthorized сообщает, что err является ответом 401.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// Client выполняет запросы к бэкенду относительно BaseURL.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	log       *slog.Logger
}

// New собирает клиент с цепочкой транспортов.
func New(opts Options, tokens TokenSource, expiry Expirer, metrics *Metrics, log *slog.Logger) (*Client, error) {
	const op = "httpclient.New"
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, opts.BaseURL)
	}

	var transport http.RoundTripper = http.DefaultTransport.(*http.Transport).Clone()
	if metrics != nil {
		transport = metrics.instrument(transport)
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		transport = &rateLimitTransport{next: transport, limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst)}
	}
	transport = &unauthorizedTransport{next: transport, expiry: expiry, metrics: metrics}
	transport = &bearerTransport{next: transport, tokens: tokens}
	transport = &requestIDTransport{next: transport}

	return &Client{
		base: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		userAgent: opts.UserAgent,
		log:       log,
	}, nil
}

// URL возвращает абсолютный адрес для пути относительно BaseURL.
func (c *Client) URL(path string, query url.Values) string {
	u := c.base.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// Get выполняет GET-запрос.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil, "")
}

// Post выполняет POST-запрос с телом body типа contentType.
func (c *Client) Post(ctx context.Context, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body, contentType)
}

// Do выполняет один запрос. Ответ вне 2xx возвращается как *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*Response, error) {
	const op = "httpclient.Do"
	log := c.log.With(sl.Op(op), slog.String("method", method), slog.String("path", path))

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path, query), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "*/*")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("request failed", sl.Err(err))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("failed to read response body", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("unexpected status", slog.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: data}
	}

	log.Debug("request completed", slog.Int("status", resp.StatusCode))
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
