package service

import (
	"context"
	"time"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

// runTx wraps WithinTx and records the outcome under op.
func runTx(ctx context.Context, tx repository.TxManager, m metrics.Metrics, op string, fn repository.TxFunc) error {
	start := time.Now()
	err := tx.WithinTx(ctx, fn)
	outcome := metrics.OutcomeCommit
	if err != nil {
		outcome = metrics.OutcomeRollback
	}
	m.ObserveTx(op, outcome, time.Since(start).Seconds())
	return err
}

// ownedPlayer loads a player and checks that caller owns it.
func ownedPlayer(ctx context.Context, players repository.PlayerRepository, caller, id int64) (model.Player, error) {
	p, err := players.GetByID(ctx, id)
	if err != nil {
		return model.Player{}, err
	}
	if p.AccountID != caller {
		return model.Player{}, repository.ErrForbidden
	}
	return p, nil
}
