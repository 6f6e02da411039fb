package contract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository"
)

// Fixture bundles repositories that share one backing store.
type Fixture struct {
	Accounts repository.AccountRepository
	Players  repository.PlayerRepository
	Games    repository.GameRepository
	Stats    repository.StatsRepository
	Tx       repository.TxManager
	Pinger   repository.Pinger
}

// Factory returns a fixture over an empty store and a cleanup func.
type Factory func(t *testing.T) (Fixture, func())

func fresh(t *testing.T, mk Factory) Fixture {
	t.Helper()
	f, cleanup := mk(t)
	t.Cleanup(cleanup)
	return f
}

func seedAccount(t *testing.T, f Fixture, name string) int64 {
	t.Helper()
	a, err := f.Accounts.Create(context.Background(), model.Account{Username: name, TeamName: name + " FC"})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return a.ID
}

func seedPlayer(t *testing.T, f Fixture, accountID int64, name string) int64 {
	t.Helper()
	p, err := f.Players.Create(context.Background(), model.Player{AccountID: accountID, Name: name, Position: model.PositionForward})
	if err != nil {
		t.Fatalf("seed player: %v", err)
	}
	return p.ID
}

func seedGame(t *testing.T, f Fixture, opponent string, date time.Time) int64 {
	t.Helper()
	g, err := f.Games.Create(context.Background(), model.Game{Date: date, Opponent: opponent, Location: model.LocationHome})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return g.ID
}

func day(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func RunAccountRepositoryContract(t *testing.T, mk Factory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		created, err := f.Accounts.Create(ctx, model.Account{Username: "coach", TeamName: "Lions"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := f.Accounts.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Username != "coach" || got.TeamName != "Lions" {
			t.Fatalf("mismatch: %+v", got)
		}
	})

	t.Run("delete_twice_not_found", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		id := seedAccount(t, f, "gone")
		if err := f.Accounts.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := f.Accounts.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_with_players_conflict", func(t *testing.T) {
		f := fresh(t, mk)
		id := seedAccount(t, f, "owner")
		seedPlayer(t, f, id, "Keeper")
		if err := f.Accounts.Delete(context.Background(), id); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func RunPlayerRepositoryContract(t *testing.T, mk Factory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		accountID := seedAccount(t, f, "x")
		photo := "p1.jpg"
		born := day("2001-02-03")
		created, err := f.Players.Create(ctx, model.Player{
			AccountID: accountID, Name: "Ada", Position: model.PositionDefender, BirthDate: &born, Photo: &photo,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		got, err := f.Players.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.AccountID != accountID || got.Name != "Ada" || got.Photo == nil || *got.Photo != photo {
			t.Fatalf("mismatch: %+v", got)
		}
		if got.BirthDate == nil || !got.BirthDate.Equal(born) {
			t.Fatalf("birth date mismatch: %v", got.BirthDate)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		f := fresh(t, mk)
		if _, err := f.Players.GetByID(context.Background(), 42424242); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list_scoped_to_account", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		y := seedAccount(t, f, "y")
		seedPlayer(t, f, x, "X1")
		seedPlayer(t, f, x, "X2")
		seedPlayer(t, f, y, "Y1")
		list, err := f.Players.ListByAccount(ctx, x)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].Name != "X1" || list[1].Name != "X2" {
			t.Fatalf("unexpected roster: %+v", list)
		}
	})

	t.Run("injury_flag_and_notes", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		hurt := seedPlayer(t, f, x, "Hurt")
		seedPlayer(t, f, x, "Fit")
		if err := f.Players.SetInjury(ctx, hurt, true, "hamstring"); err != nil {
			t.Fatalf("set injury: %v", err)
		}
		injured, err := f.Players.ListInjuredByAccount(ctx, x)
		if err != nil {
			t.Fatalf("list injured: %v", err)
		}
		if len(injured) != 1 || injured[0].ID != hurt || injured[0].Notes != "hamstring" {
			t.Fatalf("unexpected injured list: %+v", injured)
		}
		if err := f.Players.SetInjury(ctx, 999999, true, ""); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		id := seedPlayer(t, f, seedAccount(t, f, "x"), "Old")
		p, err := f.Players.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		p.Name = "New"
		p.Position = model.PositionGoalkeeper
		out, err := f.Players.Update(ctx, p)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if out.Name != "New" || out.Position != model.PositionGoalkeeper {
			t.Fatalf("update not applied: %+v", out)
		}
		p.ID = 999999
		if _, err := f.Players.Update(ctx, p); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_by_account", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		y := seedAccount(t, f, "y")
		seedPlayer(t, f, x, "X1")
		seedPlayer(t, f, x, "X2")
		keep := seedPlayer(t, f, y, "Y1")
		n, err := f.Players.DeleteByAccount(ctx, x)
		if err != nil {
			t.Fatalf("delete by account: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 deleted, got %d", n)
		}
		if _, err := f.Players.GetByID(ctx, keep); err != nil {
			t.Fatalf("other account's player must survive: %v", err)
		}
	})

	t.Run("delete_with_stats_conflict", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		pid := seedPlayer(t, f, seedAccount(t, f, "x"), "P")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: pid, Played: true}}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := f.Players.Delete(ctx, pid); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("create_fk_violation_conflict", func(t *testing.T) {
		f := fresh(t, mk)
		_, err := f.Players.Create(context.Background(), model.Player{AccountID: 9999999, Name: "X", Position: model.PositionForward})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict on FK violation, got %v", err)
		}
	})
}

func RunGameRepositoryContract(t *testing.T, mk Factory) {
	t.Helper()

	t.Run("create_get_list", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		older := seedGame(t, f, "Early", day("2024-04-01"))
		newer := seedGame(t, f, "Late", day("2024-05-01"))
		got, err := f.Games.GetByID(ctx, newer)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Opponent != "Late" || got.Location != model.LocationHome {
			t.Fatalf("mismatch: %+v", got)
		}
		list, err := f.Games.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 || list[0].ID != newer || list[1].ID != older {
			t.Fatalf("unexpected order: %+v", list)
		}
	})

	t.Run("update_and_not_found", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		id := seedGame(t, f, "Opp", day("2024-05-01"))
		g, _ := f.Games.GetByID(ctx, id)
		g.GoalsFor, g.GoalsAgainst, g.Location = 3, 1, model.LocationAway
		out, err := f.Games.Update(ctx, g)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if out.GoalsFor != 3 || out.GoalsAgainst != 1 || out.Location != model.LocationAway {
			t.Fatalf("update not applied: %+v", out)
		}
		g.ID = 7777777
		if _, err := f.Games.Update(ctx, g); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_twice_not_found", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		id := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Games.Delete(ctx, id); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := f.Games.Delete(ctx, id); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete_with_stats_conflict", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		pid := seedPlayer(t, f, seedAccount(t, f, "x"), "P")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: pid}}); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if err := f.Games.Delete(ctx, gid); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})
}

func RunStatsRepositoryContract(t *testing.T, mk Factory) {
	t.Helper()

	t.Run("insert_batch_round_trip_sums", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		a := seedPlayer(t, f, x, "A")
		b := seedPlayer(t, f, x, "B")
		g1 := seedGame(t, f, "Rivals FC", day("2024-05-01"))
		g2 := seedGame(t, f, "Others", day("2024-05-08"))
		if err := f.Stats.InsertBatch(ctx, g1, []model.StatsRow{
			{PlayerID: a, Goals: 2, Assists: 1, MinutesPlayed: 90, Started: true, Played: true},
			{PlayerID: b, Goals: 1, MinutesPlayed: 45, YellowCards: 1, Played: true},
		}); err != nil {
			t.Fatalf("insert g1: %v", err)
		}
		if err := f.Stats.InsertBatch(ctx, g2, []model.StatsRow{
			{PlayerID: a, Goals: 1, MinutesPlayed: 30, RedCards: 1, Played: true},
		}); err != nil {
			t.Fatalf("insert g2: %v", err)
		}

		tot, found, err := f.Stats.SeasonTotals(ctx, a)
		if err != nil || !found {
			t.Fatalf("season totals: found=%v err=%v", found, err)
		}
		want := model.SeasonTotals{PlayerID: a, Goals: 3, Assists: 1, MinutesPlayed: 120, RedCards: 1, GamesPlayed: 2, GamesStarted: 1}
		if tot != want {
			t.Fatalf("totals mismatch: got %+v want %+v", tot, want)
		}

		lines, err := f.Stats.ListByGame(ctx, g1)
		if err != nil {
			t.Fatalf("list by game: %v", err)
		}
		if len(lines) != 2 || lines[0].PlayerName != "A" || lines[1].PlayerName != "B" {
			t.Fatalf("unexpected lines: %+v", lines)
		}

		all, err := f.Stats.ListAllLines(ctx)
		if err != nil {
			t.Fatalf("list all: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(all))
		}

		byAccount, err := f.Stats.SeasonTotalsByAccount(ctx, x)
		if err != nil {
			t.Fatalf("totals by account: %v", err)
		}
		if len(byAccount) != 2 || byAccount[a] != want || byAccount[b].YellowCards != 1 {
			t.Fatalf("unexpected account totals: %+v", byAccount)
		}
	})

	t.Run("season_totals_without_rows", func(t *testing.T) {
		f := fresh(t, mk)
		pid := seedPlayer(t, f, seedAccount(t, f, "x"), "Bench")
		_, found, err := f.Stats.SeasonTotals(context.Background(), pid)
		if err != nil {
			t.Fatalf("season totals: %v", err)
		}
		if found {
			t.Fatalf("expected no rows for player")
		}
	})

	t.Run("empty_batch_noop", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, nil); err != nil {
			t.Fatalf("empty batch: %v", err)
		}
		lines, err := f.Stats.ListByGame(ctx, gid)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(lines) != 0 {
			t.Fatalf("expected empty list, got %d", len(lines))
		}
	})

	t.Run("duplicate_pair_writes_nothing", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		a := seedPlayer(t, f, x, "A")
		b := seedPlayer(t, f, x, "B")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: a, Goals: 1}}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: b, Goals: 4}, {PlayerID: a, Goals: 9}})
		if !errors.Is(err, repository.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
		lines, _ := f.Stats.ListByGame(ctx, gid)
		if len(lines) != 1 || lines[0].PlayerID != a || lines[0].Goals != 1 {
			t.Fatalf("batch partially applied: %+v", lines)
		}
	})

	t.Run("insert_unknown_game_conflict", func(t *testing.T) {
		f := fresh(t, mk)
		pid := seedPlayer(t, f, seedAccount(t, f, "x"), "A")
		err := f.Stats.InsertBatch(context.Background(), 8888888, []model.StatsRow{{PlayerID: pid}})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("update_line_rows_affected", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		a := seedPlayer(t, f, x, "A")
		b := seedPlayer(t, f, x, "B")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: a, Goals: 1}}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		n, err := f.Stats.UpdateLine(ctx, gid, model.StatsRow{PlayerID: a, Goals: 5, Played: true})
		if err != nil || n != 1 {
			t.Fatalf("update existing: n=%d err=%v", n, err)
		}
		n, err = f.Stats.UpdateLine(ctx, gid, model.StatsRow{PlayerID: b, Goals: 5})
		if err != nil || n != 0 {
			t.Fatalf("update missing: n=%d err=%v", n, err)
		}
		lines, _ := f.Stats.ListByGame(ctx, gid)
		if len(lines) != 1 || lines[0].Goals != 5 || !lines[0].Played {
			t.Fatalf("update not applied: %+v", lines)
		}
	})

	t.Run("delete_line_twice_not_found", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		a := seedPlayer(t, f, x, "A")
		b := seedPlayer(t, f, x, "B")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: a}, {PlayerID: b}}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := f.Stats.DeleteLine(ctx, gid, a); err != nil {
			t.Fatalf("first delete: %v", err)
		}
		if err := f.Stats.DeleteLine(ctx, gid, a); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		lines, _ := f.Stats.ListByGame(ctx, gid)
		if len(lines) != 1 || lines[0].PlayerID != b {
			t.Fatalf("unexpected remaining rows: %+v", lines)
		}
	})

	t.Run("bulk_deletes", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		x := seedAccount(t, f, "x")
		a := seedPlayer(t, f, x, "A")
		b := seedPlayer(t, f, x, "B")
		g1 := seedGame(t, f, "One", day("2024-05-01"))
		g2 := seedGame(t, f, "Two", day("2024-05-08"))
		for _, gid := range []int64{g1, g2} {
			if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: a}, {PlayerID: b}}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		n, err := f.Stats.DeleteByGame(ctx, g1)
		if err != nil || n != 2 {
			t.Fatalf("delete by game: n=%d err=%v", n, err)
		}
		n, err = f.Stats.DeleteByPlayers(ctx, []int64{a})
		if err != nil || n != 1 {
			t.Fatalf("delete by players: n=%d err=%v", n, err)
		}
		all, _ := f.Stats.ListAllLines(ctx)
		if len(all) != 1 || all[0].GameID != g2 || all[0].PlayerID != b {
			t.Fatalf("unexpected remaining rows: %+v", all)
		}
		if n, err := f.Stats.DeleteByPlayers(ctx, nil); err != nil || n != 0 {
			t.Fatalf("empty delete: n=%d err=%v", n, err)
		}
	})
}

func RunTxManagerContract(t *testing.T, mk Factory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		var createdID int64
		err := f.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := f.Games.Create(ctx, model.Game{Date: day("2024-05-01"), Opponent: "TxCommit", Location: model.LocationAway})
			if err != nil {
				return err
			}
			createdID = out.ID
			return nil
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		if _, err := f.Games.GetByID(ctx, createdID); err != nil {
			t.Fatalf("expected committed row visible, got err=%v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		pid := seedPlayer(t, f, seedAccount(t, f, "x"), "A")
		gid := seedGame(t, f, "Opp", day("2024-05-01"))
		if err := f.Stats.InsertBatch(ctx, gid, []model.StatsRow{{PlayerID: pid, Goals: 1}}); err != nil {
			t.Fatalf("seed: %v", err)
		}

		var createdID int64
		errMarker := errors.New("boom")
		err := f.Tx.WithinTx(ctx, func(ctx context.Context) error {
			out, err := f.Games.Create(ctx, model.Game{Date: day("2024-05-02"), Opponent: "TxRollback", Location: model.LocationHome})
			if err != nil {
				return err
			}
			createdID = out.ID
			if _, err := f.Stats.UpdateLine(ctx, gid, model.StatsRow{PlayerID: pid, Goals: 7}); err != nil {
				return err
			}
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := f.Games.GetByID(ctx, createdID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after rollback, got %v", err)
		}
		lines, _ := f.Stats.ListByGame(ctx, gid)
		if len(lines) != 1 || lines[0].Goals != 1 {
			t.Fatalf("update leaked out of rolled back tx: %+v", lines)
		}
	})

	t.Run("nested_joins_outer", func(t *testing.T) {
		f := fresh(t, mk)
		ctx := context.Background()
		var innerID int64
		errMarker := errors.New("outer failed")
		err := f.Tx.WithinTx(ctx, func(ctx context.Context) error {
			if err := f.Tx.WithinTx(ctx, func(ctx context.Context) error {
				out, err := f.Games.Create(ctx, model.Game{Date: day("2024-05-03"), Opponent: "Inner", Location: model.LocationHome})
				innerID = out.ID
				return err
			}); err != nil {
				return err
			}
			return errMarker
		})
		if !errors.Is(err, errMarker) {
			t.Fatalf("expected marker error, got %v", err)
		}
		if _, err := f.Games.GetByID(ctx, innerID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("inner write must roll back with outer, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, mk Factory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		f := fresh(t, mk)
		if err := f.Pinger.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// RunAll runs every suite against the factory.
func RunAll(t *testing.T, mk Factory) {
	t.Run("accounts", func(t *testing.T) { RunAccountRepositoryContract(t, mk) })
	t.Run("players", func(t *testing.T) { RunPlayerRepositoryContract(t, mk) })
	t.Run("games", func(t *testing.T) { RunGameRepositoryContract(t, mk) })
	t.Run("stats", func(t *testing.T) { RunStatsRepositoryContract(t, mk) })
	t.Run("tx", func(t *testing.T) { RunTxManagerContract(t, mk) })
	t.Run("pinger", func(t *testing.T) { RunPingerContract(t, mk) })
}
