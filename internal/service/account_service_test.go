package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/service"
)

func TestAccountService_DeleteAccountCascade(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.account(t, "x")
	y := e.account(t, "y")
	p1 := e.player(t, x, "One", "one.jpg")
	p2 := e.player(t, x, "Two", "two.jpg")
	e.player(t, x, "NoPhoto")
	survivor := e.player(t, y, "Survivor")
	gid := e.game(t, "2024-05-01", "Opp")
	require.NoError(t, e.stats.SubmitGameStats(ctx, x, gid, []model.StatsRow{{PlayerID: p1, Goals: 1}, {PlayerID: p2}}))
	require.NoError(t, e.stats.SubmitGameStats(ctx, y, gid, []model.StatsRow{{PlayerID: survivor, Goals: 2}}))

	e.remover.On("Remove", mock.Anything, "one.jpg").Return(nil).Once()
	e.remover.On("Remove", mock.Anything, "two.jpg").Return(nil).Once()

	require.NoError(t, e.accounts.DeleteAccountCascade(ctx, x, x))

	_, err := e.store.Accounts().GetByID(ctx, x)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	players, err := e.store.Players().ListByAccount(ctx, x)
	require.NoError(t, err)
	assert.Empty(t, players)

	lines, err := e.games.GetGameDetail(ctx, gid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, survivor, lines[0].PlayerID)
	e.remover.AssertExpectations(t)

	assert.ErrorIs(t, e.accounts.DeleteAccountCascade(ctx, x, x), repository.ErrNotFound)
}

func TestAccountService_DeleteAccountCascade_Forbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	x := e.account(t, "x")
	y := e.account(t, "y")
	e.player(t, y, "Theirs")

	require.ErrorIs(t, e.accounts.DeleteAccountCascade(ctx, x, y), repository.ErrForbidden)

	players, err := e.store.Players().ListByAccount(ctx, y)
	require.NoError(t, err)
	assert.Len(t, players, 1)

	assert.ErrorIs(t, e.accounts.DeleteAccountCascade(ctx, x, 0), service.ErrInvalidInput)
}
