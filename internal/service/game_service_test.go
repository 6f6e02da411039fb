package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/service"
)

func TestGameService_CreateGame_Validation(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		in    service.GameInput
		field string
	}{
		{"missing date", service.GameInput{Opponent: "X", Location: "Home"}, "date"},
		{"bad date", service.GameInput{Date: "May 1st", Opponent: "X", Location: "Home"}, "date"},
		{"empty opponent", service.GameInput{Date: "2024-05-01", Opponent: "  ", Location: "Home"}, "opponent"},
		{"bad location", service.GameInput{Date: "2024-05-01", Opponent: "X", Location: "Neutral"}, "location"},
		{"negative score", service.GameInput{Date: "2024-05-01", Opponent: "X", Location: "Away", GoalsAgainst: -1}, "goals_against"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.games.CreateGame(context.Background(), tc.in)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.Contains(t, fieldNames(err), tc.field)
		})
	}

	list, err := e.games.ListGamesWithDetail(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list, "invalid input must not reach the store")
}

func TestGameService_CreateAndUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	g, err := e.games.CreateGame(ctx, service.GameInput{Date: "2024-05-01T15:00:00Z", Opponent: "Rivals FC", Location: "away"})
	require.NoError(t, err)
	assert.Equal(t, model.LocationAway, g.Location)
	assert.Equal(t, time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC), g.Date)

	up, err := e.games.UpdateGame(ctx, g.ID, service.GameInput{Date: "2024-05-02", Opponent: "Rivals FC", Location: "Home", GoalsFor: 3, GoalsAgainst: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, up.GoalsFor)
	assert.Equal(t, model.LocationHome, up.Location)

	_, err = e.games.UpdateGame(ctx, 999, service.GameInput{Date: "2024-05-02", Opponent: "Y", Location: "Home"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGameService_DeleteGameCascade_NoOrphans(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.account(t, "coach")
	a := e.player(t, owner, "A")
	doomed := e.game(t, "2024-05-01", "Doomed")
	kept := e.game(t, "2024-05-08", "Kept")
	require.NoError(t, e.stats.SubmitGameStats(ctx, owner, doomed, []model.StatsRow{{PlayerID: a, Goals: 2, Played: true}}))
	require.NoError(t, e.stats.SubmitGameStats(ctx, owner, kept, []model.StatsRow{{PlayerID: a, Goals: 1, Played: true}}))

	require.NoError(t, e.games.DeleteGameCascade(ctx, doomed))

	_, err := e.games.GetGameDetail(ctx, doomed)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := e.store.Stats().ListAllLines(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, kept, all[0].GameID)

	totals, err := e.stats.GetPlayerSeasonTotals(ctx, owner, a)
	require.NoError(t, err)
	assert.Equal(t, 1, totals.Goals)
	assert.Equal(t, 1, totals.GamesPlayed)

	assert.ErrorIs(t, e.games.DeleteGameCascade(ctx, doomed), repository.ErrNotFound)
	assert.Equal(t, 1, e.metrics.Tx("delete_game", metrics.OutcomeCommit))
	assert.Equal(t, 1, e.metrics.Tx("delete_game", metrics.OutcomeRollback))
}

// failingGames makes Delete fail after the stat rows were already removed.
type failingGames struct {
	repository.GameRepository
}

func (f failingGames) Delete(context.Context, int64) error { return errors.New("disk on fire") }

func TestGameService_DeleteGameCascade_RollsBackStatRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.account(t, "coach")
	a := e.player(t, owner, "A")
	gid := e.game(t, "2024-05-01", "Opp")
	require.NoError(t, e.stats.SubmitGameStats(ctx, owner, gid, []model.StatsRow{{PlayerID: a, Goals: 2}}))

	svc := service.NewGameService(failingGames{e.store.Games()}, e.store.Stats(), e.store.TxManager(), e.metrics, zerolog.New(io.Discard))
	require.Error(t, svc.DeleteGameCascade(ctx, gid))

	lines, err := e.games.GetGameDetail(ctx, gid)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestGameService_ListGamesWithDetail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.account(t, "coach")
	a := e.player(t, owner, "A")
	older := e.game(t, "2024-04-01", "Older")
	newer := e.game(t, "2024-05-01", "Newer")
	require.NoError(t, e.stats.SubmitGameStats(ctx, owner, older, []model.StatsRow{{PlayerID: a, Goals: 1}}))

	list, err := e.games.ListGamesWithDetail(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[int64]model.GameDetail{}
	for _, d := range list {
		byID[d.ID] = d
	}
	assert.NotNil(t, byID[newer].PlayerStats)
	assert.Empty(t, byID[newer].PlayerStats)
	assert.Empty(t, byID[newer].Scorers)
	assert.Equal(t, []model.Scorer{{PlayerID: a, PlayerName: "A", Goals: 1}}, byID[older].Scorers)
}

func TestGameService_GetGameDetail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.games.GetGameDetail(ctx, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = e.games.GetGameDetail(ctx, 12)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	gid := e.game(t, "2024-05-01", "Opp")
	lines, err := e.games.GetGameDetail(ctx, gid)
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Empty(t, lines)
}
