package leagues

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/courtside/hoopapi/apicache"
	"github.com/courtside/hoopapi/common"
	"github.com/courtside/hoopapi/common/model"
	"github.com/courtside/hoopapi/config"
)

// LeagueClient is a lower-level interface for fetching the league catalog:
// competitions, their seasons and raw standings rows. Catalog data changes
// slowly, so everything here is cached with the catalog/static TTL tiers.
type LeagueClient interface {
	GetLeagues(ctx context.Context) ([]model.League, error)
	GetSeasons(ctx context.Context, leagueID int64) ([]model.Season, error)
	GetStandingRows(ctx context.Context, leagueID, seasonID int64) ([]model.StandingRow, error)
	RemoveCacheEntry(endpoint string, params map[string]any) error
}

// leagueClient implements LeagueClient.
type leagueClient struct {
	BaseURL string
	Client  common.HttpClient
	Cache   common.ResponseCache
	TTL     config.TTLConfig
}

// NewLeagueClient constructs a leagueClient.
func NewLeagueClient(baseURL string, client common.HttpClient, cache common.ResponseCache, ttl config.TTLConfig) LeagueClient {
	return &leagueClient{
		BaseURL: baseURL,
		Client:  client,
		Cache:   cache,
		TTL:     ttl,
	}
}

// RemoveCacheEntry forcibly removes cached entries for an endpoint; nil
// params drops every parameter variant.
func (lc *leagueClient) RemoveCacheEntry(endpoint string, params map[string]any) error {
	return lc.Cache.Clear(endpoint, params)
}

// GetLeagues fetches the league catalog.
func (lc *leagueClient) GetLeagues(ctx context.Context) ([]model.League, error) {
	var leagues []model.League
	if err := lc.fetchList(ctx, "leagues", nil, "leagues", lc.TTL.Catalog, &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// GetSeasons fetches the seasons of one league.
func (lc *leagueClient) GetSeasons(ctx context.Context, leagueID int64) ([]model.Season, error) {
	endpoint := fmt.Sprintf("leagues/%d/seasons", leagueID)
	var seasons []model.Season
	if err := lc.fetchList(ctx, endpoint, nil, "seasons", lc.TTL.Static, &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// GetStandingRows fetches the flat standings rows for a league season.
func (lc *leagueClient) GetStandingRows(ctx context.Context, leagueID, seasonID int64) ([]model.StandingRow, error) {
	endpoint := fmt.Sprintf("leagues/%d/standings", leagueID)
	params := map[string]any{"season": seasonID}
	var rows []model.StandingRow
	if err := lc.fetchList(ctx, endpoint, params, "standings", lc.TTL.Catalog, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// fetchList is the shared cache-then-fetch path: try the cache, otherwise do
// an HTTP GET, unwrap the envelope and store the extracted payload. A failed
// fetch never touches the cache.
func (lc *leagueClient) fetchList(ctx context.Context, endpoint string, params map[string]any, field string, ttl time.Duration, out interface{}) error {
	if cached, found := lc.Cache.Get(endpoint, params); found {
		if err := model.JSONUnmarshal(cached, out); err == nil {
			return nil
		}
		// corrupt cached bytes fall through to a fresh fetch
	}

	urlStr, err := lc.buildURL(endpoint, params)
	if err != nil {
		return err
	}
	body, err := lc.doGet(ctx, urlStr)
	if err != nil {
		return err
	}

	env, err := common.ExtractField(body, field)
	if err != nil {
		return err
	}
	if err := model.JSONUnmarshal(env.Raw, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", field, err)
	}

	_ = lc.Cache.Set(endpoint, env.Raw, params, ttl)
	return nil
}

// buildURL merges BaseURL + endpoint + query params.
func (lc *leagueClient) buildURL(endpoint string, params map[string]any) (string, error) {
	base, err := url.Parse(lc.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	rel, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint: %w", err)
	}

	fullURL := base.ResolveReference(rel)
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

// doGet executes the HTTP request and returns the raw body.
func (lc *leagueClient) doGet(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := lc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &common.HTTPError{StatusCode: resp.StatusCode, Body: data}
	}
	return data, nil
}
