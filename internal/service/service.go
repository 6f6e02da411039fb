// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: use-case coordination, validation, transaction
// boundaries and domain error shaping.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error, or nil when fe is empty.
// Handlers use it for path and body errors caught before the service is called.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

func newInvalidInput(fe []FieldError) error { return NewInvalidInputError(fe) }

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	var v feIface
	if errors.As(err, &v) && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// ConflictError reports the stat line a batch edit could not match.
// It unwraps to repository.ErrConflict.
type ConflictError struct {
	GameID   int64
	PlayerID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("no stats row for game %d and player %d", e.GameID, e.PlayerID)
}

func (e *ConflictError) Unwrap() error { return repository.ErrConflict }

// GameInput carries the writable fields of a game as received from clients.
type GameInput struct {
	Date         string
	Opponent     string
	Location     string
	GoalsFor     int
	GoalsAgainst int
}

// PlayerInput carries the writable fields of a player. A nil Photo on update
// keeps the stored photo; an empty one clears it.
type PlayerInput struct {
	Name        string
	BirthDate   string
	Position    string
	PhoneNumber string
	Mail        string
	Notes       string
	Photo       *string
}

// GameService defines game-oriented use cases, including the composed read views.
type GameService interface {
	CreateGame(ctx context.Context, in GameInput) (model.Game, error)
	UpdateGame(ctx context.Context, id int64, in GameInput) (model.Game, error)
	// DeleteGameCascade removes the game and all of its stat rows in one transaction.
	DeleteGameCascade(ctx context.Context, id int64) error
	ListGamesWithDetail(ctx context.Context) ([]model.GameDetail, error)
	GetGameDetail(ctx context.Context, id int64) ([]model.MatchStatLine, error)
}

// StatsService defines stat entry and aggregation use cases. caller is the
// authenticated account id; players outside its roster are Forbidden.
type StatsService interface {
	SubmitGameStats(ctx context.Context, caller, gameID int64, rows []model.StatsRow) error
	ApplyStatsEdit(ctx context.Context, caller, gameID int64, rows []model.StatsRow) error
	DeleteStatsRow(ctx context.Context, caller, gameID, playerID int64) error
	GetPlayerSeasonTotals(ctx context.Context, caller, playerID int64) (model.SeasonTotals, error)
	ListRosterTotals(ctx context.Context, caller int64) ([]model.RosterEntry, error)
}

// PlayerService defines roster use cases scoped to the calling account.
type PlayerService interface {
	CreatePlayer(ctx context.Context, caller int64, in PlayerInput) (model.Player, error)
	ListPlayers(ctx context.Context, caller int64) ([]model.Player, error)
	ListInjured(ctx context.Context, caller int64) ([]model.Player, error)
	UpdatePlayer(ctx context.Context, caller, id int64, in PlayerInput) (model.Player, error)
	SetInjury(ctx context.Context, caller, id int64, injured bool, notes string) error
	DeletePlayer(ctx context.Context, caller, id int64) error
}

// AccountService covers the account-level cascade.
type AccountService interface {
	DeleteAccountCascade(ctx context.Context, caller, accountID int64) error
}
