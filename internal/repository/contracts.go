package repository

import (
	"context"

	"github.com/maxviazov/football-stats-service/internal/model"
)

// Pinger is the readiness check each storage implementation provides.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary. Its ctx
// carries the transaction and the caller's deadline.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Repositories called with the ctx handed to fn join the transaction; any error
// returned by fn rolls back every write made through that ctx.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// AccountRepository declares persistence operations for accounts.
// Registration and profile edits live elsewhere; this is what cascades need.
type AccountRepository interface {
	Create(ctx context.Context, a model.Account) (model.Account, error)
	GetByID(ctx context.Context, id int64) (model.Account, error)
	Delete(ctx context.Context, id int64) error
}

// PlayerRepository declares persistence operations for players.
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	ListByAccount(ctx context.Context, accountID int64) ([]model.Player, error)
	ListInjuredByAccount(ctx context.Context, accountID int64) ([]model.Player, error)
	Update(ctx context.Context, p model.Player) (model.Player, error)
	SetInjury(ctx context.Context, id int64, injured bool, notes string) error
	Delete(ctx context.Context, id int64) error
	// DeleteByAccount removes every player owned by the account and returns how many were removed.
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}

// GameRepository declares persistence operations for games.
type GameRepository interface {
	Create(ctx context.Context, g model.Game) (model.Game, error)
	GetByID(ctx context.Context, id int64) (model.Game, error)
	List(ctx context.Context) ([]model.Game, error)
	Update(ctx context.Context, g model.Game) (model.Game, error)
	// Delete removes the game row only. Stat rows must be removed first.
	Delete(ctx context.Context, id int64) error
}

// StatsRepository declares operations for per-game player stat rows.
type StatsRepository interface {
	// InsertBatch writes all rows for one game in a single statement. An empty
	// batch is a no-op.
	InsertBatch(ctx context.Context, gameID int64, rows []model.StatsRow) error
	// UpdateLine overwrites the row matched by (gameID, row.PlayerID) and
	// reports how many rows were affected.
	UpdateLine(ctx context.Context, gameID int64, row model.StatsRow) (int64, error)
	DeleteLine(ctx context.Context, gameID, playerID int64) error
	DeleteByGame(ctx context.Context, gameID int64) (int64, error)
	DeleteByPlayers(ctx context.Context, playerIDs []int64) (int64, error)
	// ListByGame returns the game's rows with player names attached.
	ListByGame(ctx context.Context, gameID int64) ([]model.MatchStatLine, error)
	// ListAllLines returns every row with player names, used to compose game views.
	ListAllLines(ctx context.Context) ([]model.MatchStatLine, error)
	// SeasonTotals sums a player's rows; found is false when the player has none.
	SeasonTotals(ctx context.Context, playerID int64) (totals model.SeasonTotals, found bool, err error)
	// SeasonTotalsByAccount sums rows for every player of the account that has any.
	SeasonTotalsByAccount(ctx context.Context, accountID int64) (map[int64]model.SeasonTotals, error)
}
