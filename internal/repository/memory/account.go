package memory

import (
	"context"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type accountRepository struct{ s *Store }

func (r *accountRepository) Create(ctx context.Context, a model.Account) (model.Account, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	d.nextAccountID++
	a.ID = d.nextAccountID
	a.CreatedAt = r.s.now()
	d.accounts[a.ID] = a
	return a, nil
}

func (r *accountRepository) GetByID(ctx context.Context, id int64) (model.Account, error) {
	defer r.s.lock(ctx)()
	a, ok := r.s.data.accounts[id]
	if !ok {
		return model.Account{}, repository.ErrNotFound
	}
	return a, nil
}

// Delete refuses while players still reference the account, like the FK does.
func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	d := &r.s.data
	if _, ok := d.accounts[id]; !ok {
		return repository.ErrNotFound
	}
	for _, p := range d.players {
		if p.AccountID == id {
			return repository.ErrConflict
		}
	}
	delete(d.accounts, id)
	return nil
}

var _ repository.AccountRepository = (*accountRepository)(nil)
