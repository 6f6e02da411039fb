package service

import (
	"context"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/storage"
	"github.com/rs/zerolog"
)

type accountService struct {
	accounts repository.AccountRepository
	players  repository.PlayerRepository
	stats    repository.StatsRepository
	tx       repository.TxManager
	metrics  metrics.Metrics
	photos   photoCleaner
	log      zerolog.Logger
}

func NewAccountService(accounts repository.AccountRepository, players repository.PlayerRepository, stats repository.StatsRepository, tx repository.TxManager, remover storage.PhotoRemover, m metrics.Metrics, logger zerolog.Logger) AccountService {
	l := logger.With().Str("module", "service").Str("component", "account").Logger()
	return &accountService{accounts: accounts, players: players, stats: stats, tx: tx, metrics: m, photos: newPhotoCleaner(remover, m, l), log: l}
}

// DeleteAccountCascade removes stat rows, players and the account as one
// transaction. Photo files are removed concurrently once it has committed.
func (s *accountService) DeleteAccountCascade(ctx context.Context, caller, accountID int64) error {
	if err := newInvalidInput(requirePositive("id", accountID)); err != nil {
		return err
	}
	if caller != accountID {
		return repository.ErrForbidden
	}

	var roster []model.Player
	var statRows int64
	err := runTx(ctx, s.tx, s.metrics, "delete_account", func(ctx context.Context) error {
		if _, err := s.accounts.GetByID(ctx, accountID); err != nil {
			return err
		}
		players, err := s.players.ListByAccount(ctx, accountID)
		if err != nil {
			return err
		}
		ids := make([]int64, 0, len(players))
		for _, p := range players {
			ids = append(ids, p.ID)
		}
		if statRows, err = s.stats.DeleteByPlayers(ctx, ids); err != nil {
			return err
		}
		if _, err := s.players.DeleteByAccount(ctx, accountID); err != nil {
			return err
		}
		roster = players
		return s.accounts.Delete(ctx, accountID)
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("account_id", accountID).Msg("account cascade rolled back")
		return err
	}

	s.photos.remove(ctx, photosOf(roster...)...)
	s.log.Info().
		Int64("account_id", accountID).
		Int("players", len(roster)).
		Int64("stat_rows", statRows).
		Msg("account deleted")
	return nil
}
