package basketball

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/courtside/hoopapi/apicache"
	"github.com/courtside/hoopapi/common"
	"github.com/courtside/hoopapi/common/model"
)

// BasketClient defines lower-level HTTP operations against the basketball
// backend: GET with response caching, POST/DELETE for mutations, token
// refresh checks and cache invalidation.
type BasketClient interface {
	GetJSON(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]any, ttl time.Duration) error
	GetBytes(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error)
	PostJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error)
	DeleteJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error)
	DoRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error)
	Invalidate(endpoint string, params map[string]any) error
}

// Verify the canonical cache satisfies the interface modules consume.
var _ common.ResponseCache = (*apicache.Cache)(nil)

type basketClient struct {
	baseURL    string
	httpClient common.HttpClient
	cache      common.ResponseCache
	authClient common.AuthClient

	// inflight collapses concurrent fetches for the same canonical key
	// into one network call whose result every waiter shares.
	inflight singleflight.Group

	// call counters
	totalCalls    int64
	notFoundCount int64
	successCount  int64
	failCount     int64
}

// NewBasketClient creates a BasketClient talking to the given base URL.
// authClient may be nil when the deployment uses plain API-key auth.
func NewBasketClient(baseURL string, httpClient common.HttpClient, cache common.ResponseCache, authClient common.AuthClient) BasketClient {
	return &basketClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		cache:      cache,
		authClient: authClient,
	}
}

// GetJSON retrieves JSON from an endpoint and unmarshals into entity.
func (c *basketClient) GetJSON(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]any, ttl time.Duration) error {
	data, err := c.GetBytes(ctx, endpoint, token, params, ttl)
	if err != nil {
		return err
	}
	return model.JSONUnmarshal(data, entity)
}

// GetBytes retrieves raw bytes from an endpoint, consulting the cache first.
// On a miss the fetched payload is stored with the given ttl; a failed fetch
// leaves the cache untouched.
func (c *basketClient) GetBytes(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error) {
	// the canonical key doubles as the singleflight key; it also validates
	// the parameter mapping up front
	cacheKey, err := apicache.EncodeKey(endpoint, params)
	if err != nil {
		return nil, err
	}
	if cached, found := c.cache.Get(endpoint, params); found {
		return cached, nil
	}

	urlStr, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	result, err, _ := c.inflight.Do(cacheKey, func() (interface{}, error) {
		operation := func() (interface{}, error) {
			data, err := c.DoRequest(ctx, http.MethodGet, urlStr, token, nil)
			if err != nil {
				return nil, err
			}
			if err := c.cache.Set(endpoint, data, params, ttl); err != nil {
				return nil, err
			}
			return data, nil
		}
		return c.httpClient.RetryWithExponentialBackoff(operation)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// PostJSON sends a POST with optional expected status codes.
func (c *basketClient) PostJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
	urlStr, err := c.buildURL(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.DoRequest(ctx, http.MethodPost, urlStr, token, body, expectedStatusCodes...)
}

// DeleteJSON sends a DELETE with optional expected status codes.
func (c *basketClient) DeleteJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
	urlStr, err := c.buildURL(endpoint, nil)
	if err != nil {
		return nil, err
	}
	return c.DoRequest(ctx, http.MethodDelete, urlStr, token, body, expectedStatusCodes...)
}

// Invalidate drops cached entries for an endpoint: one variant when params
// is given, every variant when it is nil. Services call this after mutations.
func (c *basketClient) Invalidate(endpoint string, params map[string]any) error {
	return c.cache.Clear(endpoint, params)
}

// DoRequest is the core method that actually performs the HTTP request.
func (c *basketClient) DoRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error) {
	if len(expectedStatus) == 0 {
		expectedStatus = []int{http.StatusOK}
	}

	// read the entire body so retries can replay it
	var bodyBytes []byte
	if body != nil {
		b, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		bodyBytes = b
	}

	data, status, err := c.executeRequest(ctx, method, urlStr, token, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	// if unauthorized/forbidden and we have refresh capability, try refresh
	if (status == http.StatusUnauthorized || status == http.StatusForbidden) && canRefresh(token, c.authClient) {
		newToken, refreshErr := c.authClient.RefreshToken(token.RefreshToken)
		if refreshErr != nil || newToken == nil {
			return nil, fmt.Errorf("token refresh failed: %w", refreshErr)
		}
		token = newToken
		data, status, err = c.executeRequest(ctx, method, urlStr, token, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
	}

	atomic.AddInt64(&c.totalCalls, 1)
	switch {
	case status == http.StatusNotFound:
		atomic.AddInt64(&c.notFoundCount, 1)
	case status >= 200 && status < 300:
		atomic.AddInt64(&c.successCount, 1)
	default:
		atomic.AddInt64(&c.failCount, 1)
	}

	if !statusMatches(status, expectedStatus) {
		return nil, &common.HTTPError{
			StatusCode: status,
			Body:       data,
		}
	}
	return data, nil
}

// executeRequest actually does the low-level HTTP
func (c *basketClient) executeRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, urlStr, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if token != nil && token.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %v", readErr)
	}
	return data, resp.StatusCode, nil
}

// buildURL merges baseURL + endpoint + params
func (c *basketClient) buildURL(endpoint string, params map[string]any) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	path, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	fullURL := base.ResolveReference(path)
	q := fullURL.Query()
	for k, v := range params {
		s, err := apicache.FormatValue(v)
		if err != nil {
			return "", fmt.Errorf("parameter %q: %w", k, err)
		}
		q.Set(k, s)
	}
	fullURL.RawQuery = q.Encode()
	return fullURL.String(), nil
}

func statusMatches(statusCode int, expected []int) bool {
	for _, s := range expected {
		if statusCode == s {
			return true
		}
	}
	return false
}

func canRefresh(token *oauth2.Token, auth common.AuthClient) bool {
	return token != nil && token.RefreshToken != "" && auth != nil
}
