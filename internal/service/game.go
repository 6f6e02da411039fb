package service

import (
	"context"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/rs/zerolog"
)

type gameService struct {
	games   repository.GameRepository
	stats   repository.StatsRepository
	tx      repository.TxManager
	metrics metrics.Metrics
	log     zerolog.Logger
}

func NewGameService(games repository.GameRepository, stats repository.StatsRepository, tx repository.TxManager, m metrics.Metrics, logger zerolog.Logger) GameService {
	l := logger.With().Str("module", "service").Str("component", "game").Logger()
	return &gameService{games: games, stats: stats, tx: tx, metrics: m, log: l}
}

func (s *gameService) CreateGame(ctx context.Context, in GameInput) (model.Game, error) {
	g, ferrs := validateGame(in)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("game validation failed")
		return model.Game{}, err
	}
	out, err := s.games.Create(ctx, g)
	if err != nil {
		s.log.Error().Err(err).Str("opponent", g.Opponent).Msg("create game failed")
		return model.Game{}, err
	}
	s.log.Info().Int64("game_id", out.ID).Msg("game created")
	return out, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id int64, in GameInput) (model.Game, error) {
	g, ferrs := validateGame(in)
	ferrs = append(requirePositive("id", id), ferrs...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("game validation failed")
		return model.Game{}, err
	}
	g.ID = id
	out, err := s.games.Update(ctx, g)
	if err != nil {
		return model.Game{}, err
	}
	return out, nil
}

// DeleteGameCascade deletes stat rows first so the game row is never left
// with dangling references; both steps commit or roll back together.
func (s *gameService) DeleteGameCascade(ctx context.Context, id int64) error {
	if err := newInvalidInput(requirePositive("id", id)); err != nil {
		return err
	}
	var removed int64
	err := runTx(ctx, s.tx, s.metrics, "delete_game", func(ctx context.Context) error {
		n, err := s.stats.DeleteByGame(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return s.games.Delete(ctx, id)
	})
	if err != nil {
		s.log.Debug().Err(err).Int64("game_id", id).Msg("delete game rolled back")
		return err
	}
	s.log.Info().Int64("game_id", id).Int64("stat_rows", removed).Msg("game deleted")
	return nil
}

func (s *gameService) ListGamesWithDetail(ctx context.Context) ([]model.GameDetail, error) {
	games, err := s.games.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list games failed")
		return nil, err
	}
	lines, err := s.stats.ListAllLines(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list stat lines failed")
		return nil, err
	}
	return ComposeGameDetails(games, lines), nil
}

func (s *gameService) GetGameDetail(ctx context.Context, id int64) ([]model.MatchStatLine, error) {
	if err := newInvalidInput(requirePositive("id", id)); err != nil {
		return nil, err
	}
	if _, err := s.games.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.stats.ListByGame(ctx, id)
}
