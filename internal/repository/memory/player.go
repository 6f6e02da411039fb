package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type playerRepository struct{ s *Store }

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	if _, ok := d.accounts[p.AccountID]; !ok {
		return model.Player{}, repository.ErrConflict
	}
	d.nextPlayerID++
	p.ID = d.nextPlayerID
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	d.players[p.ID] = p
	return p, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.data.players[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *playerRepository) filter(ctx context.Context, keep func(model.Player) bool) []model.Player {
	defer r.s.lock(ctx)()
	out := make([]model.Player, 0, len(r.s.data.players))
	for _, p := range r.s.data.players {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b model.Player) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (r *playerRepository) ListByAccount(ctx context.Context, accountID int64) ([]model.Player, error) {
	return r.filter(ctx, func(p model.Player) bool { return p.AccountID == accountID }), nil
}

func (r *playerRepository) ListInjuredByAccount(ctx context.Context, accountID int64) ([]model.Player, error) {
	return r.filter(ctx, func(p model.Player) bool { return p.AccountID == accountID && p.IsInjured }), nil
}

func (r *playerRepository) Update(ctx context.Context, p model.Player) (model.Player, error) {
	defer r.s.lock(ctx)()
	cur, ok := r.s.data.players[p.ID]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	cur.Name = p.Name
	cur.BirthDate = p.BirthDate
	cur.Position = p.Position
	cur.PhoneNumber = p.PhoneNumber
	cur.Mail = p.Mail
	cur.Photo = p.Photo
	cur.UpdatedAt = r.s.now()
	r.s.data.players[p.ID] = cur
	return cur, nil
}

func (r *playerRepository) SetInjury(ctx context.Context, id int64, injured bool, notes string) error {
	defer r.s.lock(ctx)()
	cur, ok := r.s.data.players[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.IsInjured = injured
	cur.Notes = notes
	cur.UpdatedAt = r.s.now()
	r.s.data.players[id] = cur
	return nil
}

// Delete refuses while stat rows still reference the player, like the FK does.
func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	d := &r.s.data
	if _, ok := d.players[id]; !ok {
		return repository.ErrNotFound
	}
	for _, st := range d.stats {
		if st.PlayerID == id {
			return repository.ErrConflict
		}
	}
	delete(d.players, id)
	return nil
}

func (r *playerRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	owned := make(map[int64]struct{})
	for id, p := range d.players {
		if p.AccountID == accountID {
			owned[id] = struct{}{}
		}
	}
	for _, st := range d.stats {
		if _, ok := owned[st.PlayerID]; ok {
			return 0, repository.ErrConflict
		}
	}
	for id := range owned {
		delete(d.players, id)
	}
	return int64(len(owned)), nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
