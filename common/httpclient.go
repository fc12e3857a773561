package common

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// HttpClient is the request-issuing transport used by the endpoint wrapper
// modules, with optional retry logic. Keeping it an interface allows mocking
// or custom transport layers in testing.
type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
	Get(url string) (*http.Response, error)
	Post(url, contentType string, body io.Reader) (*http.Response, error)
	CloseIdleConnections()
	RetryWithExponentialBackoff(operation func() (interface{}, error)) (interface{}, error)
	SetRandAndSleepForTest(sleep func(d time.Duration), seed int64)
}

// HTTPError is a custom error that captures unexpected status codes and
// response bodies.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status code: %d, body: %s", e.StatusCode, string(e.Body))
}

// userAgentRoundTripper is a custom RoundTripper that adds a User-Agent header.
type userAgentRoundTripper struct {
	Wrapped   http.RoundTripper
	UserAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone request to avoid mutating the original
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.UserAgent)
	return rt.Wrapped.RoundTrip(clone)
}

// httpClient wraps a standard *http.Client with retry logic.
type httpClient struct {
	client    *http.Client
	sleepFunc func(d time.Duration)
	rnd       *rand.Rand
}

// NewHoopHttpClient returns an HttpClient with the given timeout (10s when
// non-positive) and a custom User-Agent on every request.
func NewHoopHttpClient(userAgent string, timeout time.Duration, base *http.Client) HttpClient {
	if base == nil {
		base = &http.Client{}
	}
	if base.Transport == nil {
		base.Transport = http.DefaultTransport
	}
	base.Transport = &userAgentRoundTripper{
		Wrapped:   base.Transport,
		UserAgent: userAgent,
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base.Timeout = timeout

	return &httpClient{
		client:    base,
		sleepFunc: time.Sleep,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (h *httpClient) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req)
}

func (h *httpClient) Get(url string) (*http.Response, error) {
	return h.client.Get(url)
}

func (h *httpClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	return h.client.Post(url, contentType, body)
}

func (h *httpClient) CloseIdleConnections() {
	h.client.CloseIdleConnections()
}

// Exponential backoff constants
const (
	maxRetries = 5
	baseDelay  = 1 * time.Second
	maxDelay   = 32 * time.Second
)

// RetryWithExponentialBackoff attempts the given operation() multiple times
// when it fails with a retryable HTTPError (5xx family). Other errors break
// out immediately: a failed fetch is the caller's problem, never retried
// past this policy.
func (h *httpClient) RetryWithExponentialBackoff(operation func() (interface{}, error)) (interface{}, error) {
	var result interface{}
	var err error
	delay := baseDelay

	for i := 0; i < maxRetries; i++ {
		if result, err = operation(); err == nil {
			return result, nil
		}

		var httpErr *HTTPError
		if !errors.As(err, &httpErr) || !isRetryableStatus(httpErr.StatusCode) {
			break
		}
		if i == maxRetries-1 {
			break
		}

		// apply jitter
		jitter := time.Duration(h.rnd.Int63n(int64(delay)))
		h.sleepFunc(delay + jitter)

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return nil, err
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (h *httpClient) SetRandAndSleepForTest(sleep func(d time.Duration), seed int64) {
	h.sleepFunc = sleep
	h.rnd = rand.New(rand.NewSource(seed))
}
