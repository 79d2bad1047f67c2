package httpclient

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-Id"

type requestIDTransport struct {
	next http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(RequestIDHeader) != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return t.next.RoundTrip(req)
}

// bearerTransport перед каждым запросом читает токен из хранилища.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	const op = "httpclient.bearer"
	if t.tokens == nil {
		return t.next.RoundTrip(req)
	}
	token, ok, err := t.tokens.Token(req.Context())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+token)
	return t.next.RoundTrip(req)
}

// unauthorizedTransport передаёт ответы 401 в Expirer. Сам ответ возвращается
// вызывающему без изменений.
type unauthorizedTransport struct {
	next    http.RoundTripper
	expiry  Expirer
	metrics *Metrics
}

func (t *unauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	if resp.StatusCode == http.StatusUnauthorized && t.expiry != nil {
		if t.expiry.Expire(req.Context()) && t.metrics != nil {
			t.metrics.SessionExpired.Inc()
		}
	}
	return resp, nil
}

type rateLimitTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
