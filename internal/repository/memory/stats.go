package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

type statsRepository struct{ s *Store }

// InsertBatch checks every row before writing any, so a failing batch leaves
// no partial rows behind.
func (r *statsRepository) InsertBatch(ctx context.Context, gameID int64, rows []model.StatsRow) error {
	if len(rows) == 0 {
		return nil
	}
	defer r.s.lock(ctx)()
	d := &r.s.data
	if _, ok := d.games[gameID]; !ok {
		return repository.ErrConflict
	}

	taken := make(map[int64]struct{})
	for _, st := range d.stats {
		if st.GameID == gameID {
			taken[st.PlayerID] = struct{}{}
		}
	}
	for _, row := range rows {
		if _, ok := d.players[row.PlayerID]; !ok {
			return repository.ErrConflict
		}
		if _, dup := taken[row.PlayerID]; dup {
			return repository.ErrAlreadyExists
		}
		taken[row.PlayerID] = struct{}{}
	}

	now := r.s.now()
	for _, row := range rows {
		d.nextStatID++
		d.stats[d.nextStatID] = model.PlayerMatchStats{
			ID:            d.nextStatID,
			GameID:        gameID,
			PlayerID:      row.PlayerID,
			Goals:         row.Goals,
			Assists:       row.Assists,
			MinutesPlayed: row.MinutesPlayed,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
			Started:       row.Started,
			Played:        row.Played,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	return nil
}

func (r *statsRepository) UpdateLine(ctx context.Context, gameID int64, row model.StatsRow) (int64, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	for id, st := range d.stats {
		if st.GameID != gameID || st.PlayerID != row.PlayerID {
			continue
		}
		st.Goals = row.Goals
		st.Assists = row.Assists
		st.MinutesPlayed = row.MinutesPlayed
		st.YellowCards = row.YellowCards
		st.RedCards = row.RedCards
		st.Started = row.Started
		st.Played = row.Played
		st.UpdatedAt = r.s.now()
		d.stats[id] = st
		return 1, nil
	}
	return 0, nil
}

func (r *statsRepository) DeleteLine(ctx context.Context, gameID, playerID int64) error {
	n := r.deleteWhere(ctx, func(st model.PlayerMatchStats) bool {
		return st.GameID == gameID && st.PlayerID == playerID
	})
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *statsRepository) DeleteByGame(ctx context.Context, gameID int64) (int64, error) {
	return r.deleteWhere(ctx, func(st model.PlayerMatchStats) bool { return st.GameID == gameID }), nil
}

func (r *statsRepository) DeleteByPlayers(ctx context.Context, playerIDs []int64) (int64, error) {
	if len(playerIDs) == 0 {
		return 0, nil
	}
	return r.deleteWhere(ctx, func(st model.PlayerMatchStats) bool { return slices.Contains(playerIDs, st.PlayerID) }), nil
}

func (r *statsRepository) deleteWhere(ctx context.Context, match func(model.PlayerMatchStats) bool) int64 {
	defer r.s.lock(ctx)()
	var n int64
	for id, st := range r.s.data.stats {
		if match(st) {
			delete(r.s.data.stats, id)
			n++
		}
	}
	return n
}

func (r *statsRepository) lines(ctx context.Context, match func(model.PlayerMatchStats) bool) []model.MatchStatLine {
	defer r.s.lock(ctx)()
	d := &r.s.data
	out := make([]model.MatchStatLine, 0)
	for _, st := range d.stats {
		if !match(st) {
			continue
		}
		// Stat rows always reference an existing player, mirroring the inner join.
		p, ok := d.players[st.PlayerID]
		if !ok {
			continue
		}
		out = append(out, model.MatchStatLine{PlayerMatchStats: st, PlayerName: p.Name})
	}
	slices.SortFunc(out, func(a, b model.MatchStatLine) int {
		if c := cmp.Compare(a.GameID, b.GameID); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func (r *statsRepository) ListByGame(ctx context.Context, gameID int64) ([]model.MatchStatLine, error) {
	return r.lines(ctx, func(st model.PlayerMatchStats) bool { return st.GameID == gameID }), nil
}

func (r *statsRepository) ListAllLines(ctx context.Context) ([]model.MatchStatLine, error) {
	return r.lines(ctx, func(model.PlayerMatchStats) bool { return true }), nil
}

func addRow(t *model.SeasonTotals, st model.PlayerMatchStats) {
	t.Goals += st.Goals
	t.Assists += st.Assists
	t.MinutesPlayed += st.MinutesPlayed
	t.YellowCards += st.YellowCards
	t.RedCards += st.RedCards
	if st.Played {
		t.GamesPlayed++
	}
	if st.Started {
		t.GamesStarted++
	}
}

func (r *statsRepository) SeasonTotals(ctx context.Context, playerID int64) (model.SeasonTotals, bool, error) {
	defer r.s.lock(ctx)()
	t := model.SeasonTotals{PlayerID: playerID}
	found := false
	for _, st := range r.s.data.stats {
		if st.PlayerID == playerID {
			addRow(&t, st)
			found = true
		}
	}
	if !found {
		return model.SeasonTotals{}, false, nil
	}
	return t, true, nil
}

func (r *statsRepository) SeasonTotalsByAccount(ctx context.Context, accountID int64) (map[int64]model.SeasonTotals, error) {
	defer r.s.lock(ctx)()
	d := &r.s.data
	out := make(map[int64]model.SeasonTotals)
	for _, st := range d.stats {
		p, ok := d.players[st.PlayerID]
		if !ok || p.AccountID != accountID {
			continue
		}
		t := out[st.PlayerID]
		t.PlayerID = st.PlayerID
		addRow(&t, st)
		out[st.PlayerID] = t
	}
	return out, nil
}

var _ repository.StatsRepository = (*statsRepository)(nil)
