package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/storage"
	"github.com/rs/zerolog"
)

type playerService struct {
	players repository.PlayerRepository
	stats   repository.StatsRepository
	tx      repository.TxManager
	metrics metrics.Metrics
	photos  photoCleaner
	log     zerolog.Logger
}

func NewPlayerService(players repository.PlayerRepository, stats repository.StatsRepository, tx repository.TxManager, remover storage.PhotoRemover, m metrics.Metrics, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{players: players, stats: stats, tx: tx, metrics: m, photos: newPhotoCleaner(remover, m, l), log: l}
}

func photoRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *playerService) CreatePlayer(ctx context.Context, caller int64, in PlayerInput) (model.Player, error) {
	start := time.Now()
	p := model.Player{AccountID: caller, Notes: in.Notes, Photo: photoRef(in.Photo)}
	ferrs := validatePlayer(in, &p)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}
	out, err := s.players.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int64("account_id", caller).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) ListPlayers(ctx context.Context, caller int64) ([]model.Player, error) {
	return s.players.ListByAccount(ctx, caller)
}

func (s *playerService) ListInjured(ctx context.Context, caller int64) ([]model.Player, error) {
	return s.players.ListInjuredByAccount(ctx, caller)
}

// UpdatePlayer rewrites the profile fields. When the photo reference changes,
// the previous file is removed after commit.
func (s *playerService) UpdatePlayer(ctx context.Context, caller, id int64, in PlayerInput) (model.Player, error) {
	var next model.Player
	ferrs := append(requirePositive("id", id), validatePlayer(in, &next)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	var out model.Player
	var stale string
	err := runTx(ctx, s.tx, s.metrics, "update_player", func(ctx context.Context) error {
		cur, err := ownedPlayer(ctx, s.players, caller, id)
		if err != nil {
			return err
		}
		next.ID = id
		next.Photo = cur.Photo
		if in.Photo != nil {
			next.Photo = photoRef(in.Photo)
		}
		updated, err := s.players.Update(ctx, next)
		if err != nil {
			return err
		}
		out = updated
		if cur.Photo != nil && (next.Photo == nil || *next.Photo != *cur.Photo) {
			stale = *cur.Photo
		}
		return nil
	})
	if err != nil {
		return model.Player{}, err
	}
	s.photos.remove(ctx, stale)
	return out, nil
}

func (s *playerService) SetInjury(ctx context.Context, caller, id int64, injured bool, notes string) error {
	ferrs := requirePositive("id", id)
	if utf8.RuneCountInString(notes) > maxNotesLen {
		ferrs = append(ferrs, FieldError{Field: "notes", Message: fmt.Sprintf("length must be <= %d", maxNotesLen)})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return err
	}
	return runTx(ctx, s.tx, s.metrics, "set_injury", func(ctx context.Context) error {
		if _, err := ownedPlayer(ctx, s.players, caller, id); err != nil {
			return err
		}
		return s.players.SetInjury(ctx, id, injured, notes)
	})
}

// DeletePlayer removes the player's stat rows and the player in one
// transaction, then its photo. A foreign player is Forbidden and left intact.
func (s *playerService) DeletePlayer(ctx context.Context, caller, id int64) error {
	if err := newInvalidInput(requirePositive("id", id)); err != nil {
		return err
	}
	var victim model.Player
	err := runTx(ctx, s.tx, s.metrics, "delete_player", func(ctx context.Context) error {
		p, err := ownedPlayer(ctx, s.players, caller, id)
		if err != nil {
			return err
		}
		victim = p
		if _, err := s.stats.DeleteByPlayers(ctx, []int64{id}); err != nil {
			return err
		}
		return s.players.Delete(ctx, id)
	})
	if err != nil {
		s.log.Debug().Err(err).Int64("player_id", id).Int64("caller", caller).Msg("delete player rolled back")
		return err
	}
	s.photos.remove(ctx, photosOf(victim)...)
	s.log.Info().Int64("player_id", id).Msg("player deleted")
	return nil
}
