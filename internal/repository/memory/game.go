package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type gameRepository struct{ s *Store }

func (r *gameRepository) Create(ctx context.Context, g model.Game) (model.Game, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	d.nextGameID++
	g.ID = d.nextGameID
	g.CreatedAt = r.s.now()
	g.UpdatedAt = g.CreatedAt
	d.games[g.ID] = g
	return g, nil
}

func (r *gameRepository) GetByID(ctx context.Context, id int64) (model.Game, error) {
	defer r.s.lock(ctx)()
	g, ok := r.s.data.games[id]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	return g, nil
}

// List orders by date then id, newest first.
func (r *gameRepository) List(ctx context.Context) ([]model.Game, error) {
	defer r.s.lock(ctx)()
	out := make([]model.Game, 0, len(r.s.data.games))
	for _, g := range r.s.data.games {
		out = append(out, g)
	}
	slices.SortFunc(out, func(a, b model.Game) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r *gameRepository) Update(ctx context.Context, g model.Game) (model.Game, error) {
	defer r.s.lock(ctx)()
	cur, ok := r.s.data.games[g.ID]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	cur.Date = g.Date
	cur.Opponent = g.Opponent
	cur.Location = g.Location
	cur.GoalsFor = g.GoalsFor
	cur.GoalsAgainst = g.GoalsAgainst
	cur.UpdatedAt = r.s.now()
	r.s.data.games[g.ID] = cur
	return cur, nil
}

// Delete refuses while stat rows still reference the game, like the FK does.
func (r *gameRepository) Delete(ctx context.Context, id int64) error {
	defer r.s.lock(ctx)()
	d := &r.s.data
	if _, ok := d.games[id]; !ok {
		return repository.ErrNotFound
	}
	for _, st := range d.stats {
		if st.GameID == id {
			return repository.ErrConflict
		}
	}
	delete(d.games, id)
	return nil
}

var _ repository.GameRepository = (*gameRepository)(nil)
