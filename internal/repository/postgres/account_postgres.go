package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type accountRepository struct{ pool *pgxpool.Pool }

func NewAccountRepository(pool *pgxpool.Pool) repository.AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Account{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO accounts (username, team_name) VALUES ($1, $2)
		 RETURNING id, username, team_name, created_at`,
		a.Username, a.TeamName,
	)
	var out model.Account
	if err := row.Scan(&out.ID, &out.Username, &out.TeamName, &out.CreatedAt); err != nil {
		return model.Account{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (model.Account, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Account{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT id, username, team_name, created_at FROM accounts WHERE id = $1`, id)
	var out model.Account
	if err := row.Scan(&out.ID, &out.Username, &out.TeamName, &out.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Account{}, repository.ErrNotFound
		}
		return model.Account{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	tag, err := getQ(ctx, r.pool).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return repository.MapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*accountRepository)(nil)
