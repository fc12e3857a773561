package leagues

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/courtside/hoopapi/common/model"
)

// LeagueService is a higher-level interface that uses LeagueClient to browse
// the league catalog and assemble standings tables.
type LeagueService interface {
	GetLeagues(ctx context.Context) ([]model.League, error)
	GetSeasons(ctx context.Context, leagueID int64) ([]model.Season, error)
	GetCurrentSeason(ctx context.Context, leagueID int64) (*model.Season, error)
	GetStandings(ctx context.Context, leagueID, seasonID int64) ([]model.StandingsTable, error)
	InvalidateLeague(leagueID int64) error
}

// leagueService is the concrete struct implementing LeagueService.
type leagueService struct {
	LeagueClient
	logger *slog.Logger
}

// NewLeagueService constructs a leagueService using the given client.
func NewLeagueService(client LeagueClient, logger *slog.Logger) LeagueService {
	if logger == nil {
		logger = slog.Default()
	}
	return &leagueService{
		LeagueClient: client,
		logger:       logger,
	}
}

// GetCurrentSeason picks the season flagged current, falling back to the
// latest by year when the backend flags none.
func (svc *leagueService) GetCurrentSeason(ctx context.Context, leagueID int64) (*model.Season, error) {
	seasons, err := svc.LeagueClient.GetSeasons(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return nil, fmt.Errorf("league %d has no seasons", leagueID)
	}

	latest := seasons[0]
	for _, s := range seasons {
		if s.Current {
			return &s, nil
		}
		if s.Year > latest.Year {
			latest = s
		}
	}
	return &latest, nil
}

// GetStandings fetches the flat standing rows for a season and groups them
// into per-conference/division tables, rows ordered by position.
func (svc *leagueService) GetStandings(ctx context.Context, leagueID, seasonID int64) ([]model.StandingsTable, error) {
	rows, err := svc.LeagueClient.GetStandingRows(ctx, leagueID, seasonID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]model.StandingRow)
	for _, row := range rows {
		grouped[row.GroupName] = append(grouped[row.GroupName], row)
	}

	groupNames := make([]string, 0, len(grouped))
	for name := range grouped {
		groupNames = append(groupNames, name)
	}
	sort.Strings(groupNames)

	tables := make([]model.StandingsTable, 0, len(groupNames))
	for _, name := range groupNames {
		groupRows := grouped[name]
		sort.Slice(groupRows, func(i, j int) bool {
			return groupRows[i].Position < groupRows[j].Position
		})
		tables = append(tables, model.StandingsTable{
			LeagueID:  leagueID,
			SeasonID:  seasonID,
			GroupName: name,
			Rows:      groupRows,
		})
	}
	return tables, nil
}

// InvalidateLeague drops every cached variant of the league's seasons and
// standings, typically after the backend announces a correction.
func (svc *leagueService) InvalidateLeague(leagueID int64) error {
	endpoints := []string{
		fmt.Sprintf("leagues/%d/seasons", leagueID),
		fmt.Sprintf("leagues/%d/standings", leagueID),
	}
	for _, endpoint := range endpoints {
		if err := svc.RemoveCacheEntry(endpoint, nil); err != nil {
			return err
		}
	}
	svc.logger.Debug("invalidated league caches", "league_id", leagueID)
	return nil
}
