package basketball_test

import (
	"context"
	"io"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/courtside/hoopapi/common/model"
	"github.com/courtside/hoopapi/config"
	"github.com/courtside/hoopapi/modules/basketball"
)

type mockBasketClient struct {
	getJSONFunc    func(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]any, ttl time.Duration) error
	getBytesFunc   func(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error)
	postJSONFunc   func(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error)
	deleteJSONFunc func(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error)
	doRequestFunc  func(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error)
	invalidated    []string
}

func (m *mockBasketClient) GetJSON(ctx context.Context, endpoint string, entity interface{}, token *oauth2.Token, params map[string]any, ttl time.Duration) error {
	return m.getJSONFunc(ctx, endpoint, entity, token, params, ttl)
}
func (m *mockBasketClient) GetBytes(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error) {
	return m.getBytesFunc(ctx, endpoint, token, params, ttl)
}
func (m *mockBasketClient) PostJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
	return m.postJSONFunc(ctx, endpoint, token, body, expectedStatusCodes...)
}
func (m *mockBasketClient) DeleteJSON(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
	return m.deleteJSONFunc(ctx, endpoint, token, body, expectedStatusCodes...)
}
func (m *mockBasketClient) DoRequest(ctx context.Context, method, urlStr string, token *oauth2.Token, body io.Reader, expectedStatus ...int) ([]byte, error) {
	return m.doRequestFunc(ctx, method, urlStr, token, body, expectedStatus...)
}
func (m *mockBasketClient) Invalidate(endpoint string, params map[string]any) error {
	m.invalidated = append(m.invalidated, endpoint)
	return nil
}

func testTTLs() config.TTLConfig {
	return config.Default().TTL
}

func TestBasketballService_GetGames(t *testing.T) {
	var gotEndpoint string
	var gotParams map[string]any
	var gotTTL time.Duration
	mClient := &mockBasketClient{
		getBytesFunc: func(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error) {
			gotEndpoint = endpoint
			gotParams = params
			gotTTL = ttl
			return []byte(`{"data":{"games":[{"id":9,"status":"finished"}]}}`), nil
		},
	}

	svc := basketball.NewBasketballService(mClient, testTTLs(), nil)

	games, err := svc.GetGames(context.Background(), "2026-03-01", 12, model.PageParams{Page: 2, Limit: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotEndpoint != "games" {
		t.Errorf("endpoint = %q", gotEndpoint)
	}
	if gotParams["date"] != "2026-03-01" || gotParams["league"] != int64(12) {
		t.Errorf("params = %v", gotParams)
	}
	if gotParams["page"] != 2 || gotParams["limit"] != 25 {
		t.Errorf("pagination params = %v", gotParams)
	}
	if gotTTL != 60*time.Second {
		t.Errorf("ttl = %v, want the scores tier", gotTTL)
	}
	if len(games) != 1 || games[0].ID != 9 {
		t.Errorf("games = %+v", games)
	}
}

func TestBasketballService_GetLiveGames(t *testing.T) {
	var gotTTL time.Duration
	mClient := &mockBasketClient{
		getBytesFunc: func(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error) {
			if endpoint != "games/live" {
				t.Errorf("endpoint = %q", endpoint)
			}
			gotTTL = ttl
			// bare-array shape, no wrapper
			return []byte(`[{"id":1,"status":"live"}]`), nil
		},
	}

	svc := basketball.NewBasketballService(mClient, testTTLs(), nil)
	games, err := svc.GetLiveGames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotTTL != 30*time.Second {
		t.Errorf("ttl = %v, want the live tier", gotTTL)
	}
	if len(games) != 1 || games[0].Status != model.StatusLive {
		t.Errorf("games = %+v", games)
	}
}

func TestBasketballService_GetGame(t *testing.T) {
	mClient := &mockBasketClient{
		getBytesFunc: func(ctx context.Context, endpoint string, token *oauth2.Token, params map[string]any, ttl time.Duration) ([]byte, error) {
			if endpoint != "games/42" {
				t.Errorf("endpoint = %q", endpoint)
			}
			return []byte(`{"game":{"id":42,"venue":"The Garden"}}`), nil
		},
	}

	svc := basketball.NewBasketballService(mClient, testTTLs(), nil)
	game, err := svc.GetGame(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if game.ID != 42 || game.Venue != "The Garden" {
		t.Errorf("game = %+v", game)
	}
}

func TestBasketballService_SubmitPick(t *testing.T) {
	mClient := &mockBasketClient{
		postJSONFunc: func(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
			if endpoint != "picks" {
				t.Errorf("endpoint = %q", endpoint)
			}
			return []byte(`{"pick":{"id":7,"game_id":42,"winner":"home"}}`), nil
		},
	}

	svc := basketball.NewBasketballService(mClient, testTTLs(), nil)
	token := &oauth2.Token{AccessToken: "abc"}

	created, err := svc.SubmitPick(context.Background(), token, model.Pick{GameID: 42, Winner: "home"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 7 {
		t.Errorf("created = %+v", created)
	}

	// the mutation must drop every cached picks listing
	if len(mClient.invalidated) != 1 || mClient.invalidated[0] != "picks" {
		t.Errorf("invalidated = %v", mClient.invalidated)
	}
}

func TestBasketballService_SubmitPick_NoToken(t *testing.T) {
	svc := basketball.NewBasketballService(&mockBasketClient{}, testTTLs(), nil)
	if _, err := svc.SubmitPick(context.Background(), nil, model.Pick{}); err == nil {
		t.Error("expected error without token")
	}
}

func TestBasketballService_DeletePick(t *testing.T) {
	mClient := &mockBasketClient{
		deleteJSONFunc: func(ctx context.Context, endpoint string, token *oauth2.Token, body io.Reader, expectedStatusCodes ...int) ([]byte, error) {
			if endpoint != "picks/7" {
				t.Errorf("endpoint = %q", endpoint)
			}
			return nil, nil
		},
	}

	svc := basketball.NewBasketballService(mClient, testTTLs(), nil)
	token := &oauth2.Token{AccessToken: "abc"}

	if err := svc.DeletePick(context.Background(), token, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mClient.invalidated) != 1 || mClient.invalidated[0] != "picks" {
		t.Errorf("invalidated = %v", mClient.invalidated)
	}
}
