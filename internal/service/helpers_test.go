package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository/memory"
	"github.com/maxviazov/football-stats-service/internal/service"
)

type mockRemover struct{ mock.Mock }

func (m *mockRemover) Remove(ctx context.Context, filename string) error {
	return m.Called(ctx, filename).Error(0)
}

// env wires every service over one memory store.
type env struct {
	store    *memory.Store
	metrics  *metrics.Mock
	remover  *mockRemover
	games    service.GameService
	stats    service.StatsService
	players  service.PlayerService
	accounts service.AccountService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	st := memory.New()
	m := metrics.NewMock()
	rm := &mockRemover{}
	log := zerolog.New(io.Discard)
	tx := st.TxManager()
	return &env{
		store:    st,
		metrics:  m,
		remover:  rm,
		games:    service.NewGameService(st.Games(), st.Stats(), tx, m, log),
		stats:    service.NewStatsService(st.Stats(), st.Players(), st.Games(), tx, m, log),
		players:  service.NewPlayerService(st.Players(), st.Stats(), tx, rm, m, log),
		accounts: service.NewAccountService(st.Accounts(), st.Players(), st.Stats(), tx, rm, m, log),
	}
}

func (e *env) account(t *testing.T, name string) int64 {
	t.Helper()
	a, err := e.store.Accounts().Create(context.Background(), model.Account{Username: name, TeamName: name})
	require.NoError(t, err)
	return a.ID
}

func (e *env) player(t *testing.T, owner int64, name string, photo ...string) int64 {
	t.Helper()
	in := service.PlayerInput{Name: name, Position: "forward"}
	if len(photo) > 0 {
		in.Photo = &photo[0]
	}
	p, err := e.players.CreatePlayer(context.Background(), owner, in)
	require.NoError(t, err)
	return p.ID
}

func (e *env) game(t *testing.T, date, opponent string) int64 {
	t.Helper()
	g, err := e.games.CreateGame(context.Background(), service.GameInput{Date: date, Opponent: opponent, Location: "Home"})
	require.NoError(t, err)
	return g.ID
}

func fieldNames(err error) []string {
	var out []string
	for _, fe := range service.FieldErrors(err) {
		out = append(out, fe.Field)
	}
	return out
}
