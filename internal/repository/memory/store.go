// Package memory is an in-process implementation of the repository contracts.
// Writes are serialized by one mutex; WithinTx holds that mutex for the whole
// unit of work and restores a snapshot when fn fails.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type state struct {
	accounts map[int64]model.Account
	players  map[int64]model.Player
	games    map[int64]model.Game
	stats    map[int64]model.PlayerMatchStats

	nextAccountID int64
	nextPlayerID  int64
	nextGameID    int64
	nextStatID    int64
}

func newState() state {
	return state{
		accounts: make(map[int64]model.Account),
		players:  make(map[int64]model.Player),
		games:    make(map[int64]model.Game),
		stats:    make(map[int64]model.PlayerMatchStats),
	}
}

func (s state) clone() state {
	out := s
	out.accounts = maps.Clone(s.accounts)
	out.players = maps.Clone(s.players)
	out.games = maps.Clone(s.games)
	out.stats = maps.Clone(s.stats)
	return out
}

// Store owns the data shared by every repository it hands out.
type Store struct {
	mu   sync.Mutex
	data state
	now  func() time.Time
}

func New() *Store {
	return &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
}

type txKey struct{}

// inTx reports whether ctx belongs to a WithinTx call on this store, in which
// case the mutex is already held.
func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// lock acquires the store mutex unless ctx already holds it.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) Accounts() repository.AccountRepository { return &accountRepository{s: s} }
func (s *Store) Players() repository.PlayerRepository   { return &playerRepository{s: s} }
func (s *Store) Games() repository.GameRepository       { return &gameRepository{s: s} }
func (s *Store) Stats() repository.StatsRepository      { return &statsRepository{s: s} }
func (s *Store) TxManager() repository.TxManager        { return &txManager{s: s} }
func (s *Store) Pinger() repository.Pinger              { return pinger{} }

type txManager struct{ s *Store }

func (m *txManager) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	if m.s.inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	snapshot := m.s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, m.s)); err != nil {
		m.s.data = snapshot
		return err
	}
	return nil
}

type pinger struct{}

func (pinger) Ping(ctx context.Context) error { return ctx.Err() }

var (
	_ repository.TxManager = (*txManager)(nil)
	_ repository.Pinger    = pinger{}
)
