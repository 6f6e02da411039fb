package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type statsService struct {
	stats   repository.StatsRepository
	players repository.PlayerRepository
	games   repository.GameRepository
	tx      repository.TxManager
	metrics metrics.Metrics
	log     zerolog.Logger
}

func NewStatsService(stats repository.StatsRepository, players repository.PlayerRepository, games repository.GameRepository, tx repository.TxManager, m metrics.Metrics, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, players: players, games: games, tx: tx, metrics: m, log: l}
}

// checkRoster verifies every row references an existing player owned by caller.
// Missing players are reported as field errors; foreign ones as ErrForbidden.
func (s *statsService) checkRoster(ctx context.Context, caller int64, rows []model.StatsRow) error {
	var ferrs []FieldError
	for i, r := range rows {
		p, err := s.players.GetByID(ctx, r.PlayerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				ferrs = append(ferrs, FieldError{Field: fmt.Sprintf("stats[%d].player_id", i), Message: "player does not exist"})
				continue
			}
			return err
		}
		if p.AccountID != caller {
			return repository.ErrForbidden
		}
	}
	return newInvalidInput(ferrs)
}

// SubmitGameStats records the first stats sheet of a game with a single bulk
// insert. An empty sheet is accepted and writes nothing.
func (s *statsService) SubmitGameStats(ctx context.Context, caller, gameID int64, rows []model.StatsRow) error {
	ferrs := append(requirePositive("game_id", gameID), validateStatsRows(rows)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Int64("game_id", gameID).Msg("stats validation failed")
		return err
	}

	err := runTx(ctx, s.tx, s.metrics, "submit_stats", func(ctx context.Context) error {
		if _, err := s.games.GetByID(ctx, gameID); err != nil {
			return err
		}
		if err := s.checkRoster(ctx, caller, rows); err != nil {
			return err
		}
		return s.stats.InsertBatch(ctx, gameID, rows)
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Info().Int64("game_id", gameID).Msg("stats already submitted for a player of this game")
		}
		return err
	}
	s.metrics.AddStatRowsWritten(len(rows))
	s.log.Info().Int64("game_id", gameID).Int("rows", len(rows)).Msg("game stats submitted")
	return nil
}

// ApplyStatsEdit overwrites existing stat lines of a game. The first line that
// matches no row aborts the whole edit with a *ConflictError and nothing changes.
func (s *statsService) ApplyStatsEdit(ctx context.Context, caller, gameID int64, rows []model.StatsRow) error {
	ferrs := append(requirePositive("game_id", gameID), validateStatsRows(rows)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Int64("game_id", gameID).Msg("stats validation failed")
		return err
	}

	err := runTx(ctx, s.tx, s.metrics, "edit_stats", func(ctx context.Context) error {
		if _, err := s.games.GetByID(ctx, gameID); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := ownedPlayer(ctx, s.players, caller, r.PlayerID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return &ConflictError{GameID: gameID, PlayerID: r.PlayerID}
				}
				return err
			}
			n, err := s.stats.UpdateLine(ctx, gameID, r)
			if err != nil {
				return err
			}
			if n == 0 {
				return &ConflictError{GameID: gameID, PlayerID: r.PlayerID}
			}
		}
		return nil
	})
	if err != nil {
		var ce *ConflictError
		if errors.As(err, &ce) {
			s.log.Info().Int64("game_id", ce.GameID).Int64("player_id", ce.PlayerID).Msg("stats edit rolled back: unmatched line")
		}
		return err
	}
	s.metrics.AddStatRowsWritten(len(rows))
	return nil
}

func (s *statsService) DeleteStatsRow(ctx context.Context, caller, gameID, playerID int64) error {
	ferrs := append(requirePositive("game_id", gameID), requirePositive("player_id", playerID)...)
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	if _, err := ownedPlayer(ctx, s.players, caller, playerID); err != nil {
		return err
	}
	return s.stats.DeleteLine(ctx, gameID, playerID)
}

// GetPlayerSeasonTotals returns ErrNotFound both for unknown players and for
// players without any stat rows.
func (s *statsService) GetPlayerSeasonTotals(ctx context.Context, caller, playerID int64) (model.SeasonTotals, error) {
	if err := newInvalidInput(requirePositive("id", playerID)); err != nil {
		return model.SeasonTotals{}, err
	}
	if _, err := ownedPlayer(ctx, s.players, caller, playerID); err != nil {
		return model.SeasonTotals{}, err
	}
	totals, found, err := s.stats.SeasonTotals(ctx, playerID)
	if err != nil {
		s.log.Error().Err(err).Int64("player_id", playerID).Msg("season totals failed")
		return model.SeasonTotals{}, err
	}
	if !found {
		return model.SeasonTotals{}, fmt.Errorf("player %d has no stat rows: %w", playerID, repository.ErrNotFound)
	}
	return totals, nil
}

// ListRosterTotals returns every player of caller with zero-filled totals for
// players that have not appeared yet.
func (s *statsService) ListRosterTotals(ctx context.Context, caller int64) ([]model.RosterEntry, error) {
	players, err := s.players.ListByAccount(ctx, caller)
	if err != nil {
		return nil, err
	}
	totals, err := s.stats.SeasonTotalsByAccount(ctx, caller)
	if err != nil {
		s.log.Error().Err(err).Int64("account_id", caller).Msg("roster totals failed")
		return nil, err
	}
	out := make([]model.RosterEntry, 0, len(players))
	for _, p := range players {
		t, ok := totals[p.ID]
		if !ok {
			t = model.SeasonTotals{PlayerID: p.ID}
		}
		out = append(out, model.RosterEntry{Player: p, Totals: t, MinutesPerContribution: t.MinutesPerContribution()})
	}
	return out, nil
}
