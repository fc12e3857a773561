package basketball

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/courtside/hoopapi/common"
	"github.com/courtside/hoopapi/common/model"
	"github.com/courtside/hoopapi/config"
)

// BasketballService is a higher-level interface for retrieving games, teams
// and user picks.
type BasketballService interface {
	GetGames(ctx context.Context, date string, leagueID int64, page model.PageParams) ([]model.Game, error)
	GetLiveGames(ctx context.Context) ([]model.Game, error)
	GetGame(ctx context.Context, gameID int64) (*model.Game, error)
	GetTeams(ctx context.Context, leagueID int64) ([]model.Team, error)
	GetPicks(ctx context.Context, token *oauth2.Token, page model.PageParams) ([]model.Pick, error)
	SubmitPick(ctx context.Context, token *oauth2.Token, pick model.Pick) (*model.Pick, error)
	DeletePick(ctx context.Context, token *oauth2.Token, pickID int64) error
}

// basketballService is the concrete implementation that uses BasketClient.
type basketballService struct {
	client BasketClient
	ttl    config.TTLConfig
	logger *slog.Logger
}

// NewBasketballService constructs a BasketballService with the given TTL
// tiers. A nil logger falls back to slog.Default().
func NewBasketballService(client BasketClient, ttl config.TTLConfig, logger *slog.Logger) BasketballService {
	if logger == nil {
		logger = slog.Default()
	}
	return &basketballService{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetGames lists games for a date, optionally filtered by league. Zero
// leagueID means all leagues; zero page values fall back to page 1 / 50.
func (s *basketballService) GetGames(ctx context.Context, date string, leagueID int64, page model.PageParams) ([]model.Game, error) {
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 50
	}
	params := map[string]any{
		"page":  page.Page,
		"limit": page.Limit,
	}
	if date != "" {
		params["date"] = date
	}
	if leagueID != 0 {
		params["league"] = leagueID
	}

	data, err := s.client.GetBytes(ctx, "games", nil, params, s.ttl.Scores)
	if err != nil {
		return nil, err
	}
	return decodeGames(data)
}

// GetLiveGames lists in-progress games with the short live TTL.
func (s *basketballService) GetLiveGames(ctx context.Context) ([]model.Game, error) {
	data, err := s.client.GetBytes(ctx, "games/live", nil, nil, s.ttl.Live)
	if err != nil {
		return nil, err
	}
	return decodeGames(data)
}

// GetGame fetches one game by ID.
func (s *basketballService) GetGame(ctx context.Context, gameID int64) (*model.Game, error) {
	endpoint := fmt.Sprintf("games/%d", gameID)
	data, err := s.client.GetBytes(ctx, endpoint, nil, nil, s.ttl.Scores)
	if err != nil {
		return nil, err
	}

	env, err := common.ExtractField(data, "game")
	if err != nil {
		return nil, err
	}
	var game model.Game
	if err := model.JSONUnmarshal(env.Raw, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// GetTeams lists teams, optionally scoped to a league.
func (s *basketballService) GetTeams(ctx context.Context, leagueID int64) ([]model.Team, error) {
	var params map[string]any
	if leagueID != 0 {
		params = map[string]any{"league": leagueID}
	}
	data, err := s.client.GetBytes(ctx, "teams", nil, params, s.ttl.Catalog)
	if err != nil {
		return nil, err
	}

	env, err := common.ExtractField(data, "teams")
	if err != nil {
		return nil, err
	}
	var teams []model.Team
	if err := model.JSONUnmarshal(env.Raw, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// GetPicks lists the authenticated user's picks.
func (s *basketballService) GetPicks(ctx context.Context, token *oauth2.Token, page model.PageParams) ([]model.Pick, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("no token provided")
	}
	if page.Page <= 0 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = 50
	}
	params := map[string]any{
		"page":  page.Page,
		"limit": page.Limit,
	}

	data, err := s.client.GetBytes(ctx, "picks", token, params, s.ttl.Scores)
	if err != nil {
		return nil, err
	}

	env, err := common.ExtractField(data, "picks")
	if err != nil {
		return nil, err
	}
	var picks []model.Pick
	if err := model.JSONUnmarshal(env.Raw, &picks); err != nil {
		return nil, err
	}
	return picks, nil
}

// SubmitPick posts a new pick, then drops every cached picks listing so the
// next read reflects the mutation.
func (s *basketballService) SubmitPick(ctx context.Context, token *oauth2.Token, pick model.Pick) (*model.Pick, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("no token provided")
	}

	body, err := json.Marshal(pick)
	if err != nil {
		return nil, fmt.Errorf("marshal pick: %w", err)
	}
	data, err := s.client.PostJSON(ctx, "picks", token, bytes.NewReader(body), http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}

	if err := s.client.Invalidate("picks", nil); err != nil {
		s.logger.Warn("invalidate picks after submit", "error", err)
	}

	env, err := common.ExtractField(data, "pick")
	if err != nil {
		return nil, err
	}
	var created model.Pick
	if err := model.JSONUnmarshal(env.Raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeletePick removes a pick and invalidates cached picks listings.
func (s *basketballService) DeletePick(ctx context.Context, token *oauth2.Token, pickID int64) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("no token provided")
	}

	endpoint := fmt.Sprintf("picks/%d", pickID)
	_, err := s.client.DeleteJSON(ctx, endpoint, token, nil, http.StatusNoContent, http.StatusOK)
	if err != nil {
		return err
	}

	if err := s.client.Invalidate("picks", nil); err != nil {
		s.logger.Warn("invalidate picks after delete", "error", err)
	}
	return nil
}

// decodeGames unwraps whichever envelope the feed used and decodes the list.
func decodeGames(data []byte) ([]model.Game, error) {
	env, err := common.ExtractField(data, "games")
	if err != nil {
		return nil, err
	}
	var games []model.Game
	if err := model.JSONUnmarshal(env.Raw, &games); err != nil {
		return nil, err
	}
	return games, nil
}
