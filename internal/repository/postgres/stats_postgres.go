package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

const statsInsertColumns = 9

type statsRepository struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

// InsertBatch issues one multi-row INSERT so the batch lands or fails as a whole
// even outside an explicit transaction.
func (r *statsRepository) InsertBatch(ctx context.Context, gameID int64, rows []model.StatsRow) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ensurePool(r.pool); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO player_match_stats
		(game_id, player_id, goals, assists, minutes_played, yellow_cards, red_cards, started, played) VALUES `)
	args := make([]any, 0, len(rows)*statsInsertColumns)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 1; c <= statsInsertColumns; c++ {
			if c > 1 {
				sb.WriteString(", ")
			}
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(i*statsInsertColumns + c))
		}
		sb.WriteByte(')')
		args = append(args, gameID, row.PlayerID, row.Goals, row.Assists, row.MinutesPlayed,
			row.YellowCards, row.RedCards, row.Started, row.Played)
	}

	if _, err := getQ(ctx, r.pool).Exec(ctx, sb.String(), args...); err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

func (r *statsRepository) UpdateLine(ctx context.Context, gameID int64, row model.StatsRow) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`UPDATE player_match_stats
		 SET goals = $3, assists = $4, minutes_played = $5, yellow_cards = $6, red_cards = $7,
		     started = $8, played = $9, updated_at = NOW()
		 WHERE game_id = $1 AND player_id = $2`,
		gameID, row.PlayerID, row.Goals, row.Assists, row.MinutesPlayed, row.YellowCards, row.RedCards, row.Started, row.Played,
	)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

func (r *statsRepository) DeleteLine(ctx context.Context, gameID, playerID int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx,
		`DELETE FROM player_match_stats WHERE game_id = $1 AND player_id = $2`, gameID, playerID)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *statsRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM player_match_stats WHERE game_id = $1`, gameID)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

func (r *statsRepository) DeleteByPlayers(ctx context.Context, playerIDs []int64) (int64, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM player_match_stats WHERE player_id = ANY($1)`, playerIDs)
	if err != nil {
		return 0, repository.MapPgError(err)
	}
	return tag.RowsAffected(), nil
}

const lineSelect = `SELECT pms.id, pms.game_id, pms.player_id, pms.goals, pms.assists, pms.minutes_played,
		pms.yellow_cards, pms.red_cards, pms.started, pms.played, pms.created_at, pms.updated_at, p.name
	FROM player_match_stats pms
	JOIN players p ON p.id = pms.player_id`

func (r *statsRepository) listLines(ctx context.Context, sql string, args ...any) ([]model.MatchStatLine, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make([]model.MatchStatLine, 0, 16)
	for rows.Next() {
		var it model.MatchStatLine
		if err := rows.Scan(&it.ID, &it.GameID, &it.PlayerID, &it.Goals, &it.Assists, &it.MinutesPlayed,
			&it.YellowCards, &it.RedCards, &it.Started, &it.Played, &it.CreatedAt, &it.UpdatedAt, &it.PlayerName); err != nil {
			return nil, repository.MapPgError(err)
		}
		res = append(res, it)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

func (r *statsRepository) ListByGame(ctx context.Context, gameID int64) ([]model.MatchStatLine, error) {
	return r.listLines(ctx, lineSelect+` WHERE pms.game_id = $1 ORDER BY pms.id`, gameID)
}

func (r *statsRepository) ListAllLines(ctx context.Context) ([]model.MatchStatLine, error) {
	return r.listLines(ctx, lineSelect+` ORDER BY pms.game_id, pms.id`)
}

const totalsSelect = `SELECT
		pms.player_id,
		COALESCE(SUM(pms.goals), 0) AS goals,
		COALESCE(SUM(pms.assists), 0) AS assists,
		COALESCE(SUM(pms.minutes_played), 0) AS minutes_played,
		COALESCE(SUM(pms.yellow_cards), 0) AS yellow_cards,
		COALESCE(SUM(pms.red_cards), 0) AS red_cards,
		COUNT(*) FILTER (WHERE pms.played) AS games_played,
		COUNT(*) FILTER (WHERE pms.started) AS games_started
	FROM player_match_stats pms`

func scanTotals(row pgx.Row) (model.SeasonTotals, error) {
	var t model.SeasonTotals
	err := row.Scan(&t.PlayerID, &t.Goals, &t.Assists, &t.MinutesPlayed, &t.YellowCards, &t.RedCards, &t.GamesPlayed, &t.GamesStarted)
	return t, err
}

// SeasonTotals groups by player, so a player without rows yields no row at all.
func (r *statsRepository) SeasonTotals(ctx context.Context, playerID int64) (model.SeasonTotals, bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.SeasonTotals{}, false, err
	}
	row := getQ(ctx, r.pool).QueryRow(ctx, totalsSelect+` WHERE pms.player_id = $1 GROUP BY pms.player_id`, playerID)
	t, err := scanTotals(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SeasonTotals{}, false, nil
		}
		return model.SeasonTotals{}, false, repository.MapPgError(err)
	}
	return t, true, nil
}

func (r *statsRepository) SeasonTotalsByAccount(ctx context.Context, accountID int64) (map[int64]model.SeasonTotals, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		totalsSelect+` JOIN players p ON p.id = pms.player_id WHERE p.account_id = $1 GROUP BY pms.player_id`, accountID)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	res := make(map[int64]model.SeasonTotals)
	for rows.Next() {
		t, err := scanTotals(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		res[t.PlayerID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return res, nil
}

var _ repository.StatsRepository = (*statsRepository)(nil)
