package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/handler"
	"github.com/maxviazov/football-stats-service/internal/metrics"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/repository/memory"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/internal/storage"
	"github.com/maxviazov/football-stats-service/pkg/response"
)

type api struct {
	t      *testing.T
	r      *gin.Engine
	store  *memory.Store
	caller int64
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := memory.New()
	reg := prometheus.NewRegistry()
	m := metrics.NewService(reg)
	log := zerolog.New(io.Discard)
	tx := st.TxManager()
	rm := storage.NewDiskRemover(t.TempDir())

	r := gin.New()
	handler.Register(r, handler.Deps{
		Pinger:   st.Pinger(),
		Games:    service.NewGameService(st.Games(), st.Stats(), tx, m, log),
		Stats:    service.NewStatsService(st.Stats(), st.Players(), st.Games(), tx, m, log),
		Players:  service.NewPlayerService(st.Players(), st.Stats(), tx, rm, m, log),
		Accounts: service.NewAccountService(st.Accounts(), st.Players(), st.Stats(), tx, rm, m, log),
		Metrics:  metrics.NewMetricsHandler(reg),
	})

	acc, err := st.Accounts().Create(context.Background(), model.Account{Username: "coach", TeamName: "Home United"})
	require.NoError(t, err)
	return &api{t: t, r: r, store: st, caller: acc.ID}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, handler.APIV1Prefix+path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.HeaderAccountID, strconv.FormatInt(a.caller, 10))
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	return w
}

func (a *api) createPlayer(name string) int64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/players", map[string]any{"name": name, "position": "Forward"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var p model.Player
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &p))
	return p.ID
}

func (a *api) createGame(opponent string) int64 {
	a.t.Helper()
	w := a.do(http.MethodPost, "/games", map[string]any{"date": "2024-05-01", "opponent": opponent, "location": "Home", "goals_for": 3, "goals_against": 1})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var g model.Game
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &g))
	require.NotZero(a.t, g.ID)
	return g.ID
}

func gamePath(id int64, rest string) string {
	return "/games/" + strconv.FormatInt(id, 10) + rest
}

func TestAPI_SecuredRoutesNeedAccount(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, handler.APIV1Prefix+"/players", nil)
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "unauthenticated", payload.Error)
}

func TestAPI_SubmitThenReadBack(t *testing.T) {
	a := newAPI(t)
	alice := a.createPlayer("Alice")
	bea := a.createPlayer("Bea")
	gid := a.createGame("Rivals FC")

	w := a.do(http.MethodPost, gamePath(gid, "/player-stats"), map[string]any{"stats": []map[string]any{
		{"player_id": alice, "goals": 2, "assists": 1, "minutes_played": 90, "started": true},
		{"player_id": bea, "goals": 1, "minutes_played": 45, "yellow_cards": 1},
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, gamePath(gid, "/stats"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var lines []model.MatchStatLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.True(t, l.Played, "played defaults to true")
	}

	w = a.do(http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var details []model.GameDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &details))
	require.Len(t, details, 1)
	assert.Equal(t, []model.Scorer{
		{PlayerID: alice, PlayerName: "Alice", Goals: 2},
		{PlayerID: bea, PlayerName: "Bea", Goals: 1},
	}, details[0].Scorers)

	w = a.do(http.MethodGet, "/players/"+strconv.FormatInt(alice, 10)+"/season-totals", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Totals                 model.SeasonTotals `json:"totals"`
		MinutesPerContribution float64            `json:"minutes_per_contribution"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Totals.Goals)
	assert.Equal(t, 1, body.Totals.GamesStarted)
	assert.InDelta(t, 30.0, body.MinutesPerContribution, 1e-9)
}

func TestAPI_SubmitDuplicateIsAlreadyExists(t *testing.T) {
	a := newAPI(t)
	p := a.createPlayer("Alice")
	gid := a.createGame("Rivals FC")
	batch := map[string]any{"stats": []map[string]any{{"player_id": p, "goals": 1}}}

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, gamePath(gid, "/player-stats"), batch).Code)
	w := a.do(http.MethodPost, gamePath(gid, "/player-stats"), batch)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already_exists")
}

func TestAPI_StatsBodyValidation(t *testing.T) {
	a := newAPI(t)
	p := a.createPlayer("Alice")
	gid := a.createGame("Rivals FC")

	cases := []struct {
		name      string
		body      any
		wantField string
	}{
		{"missing stats key", `{}`, "stats"},
		{"stats not a list", `{"stats": 3}`, "stats"},
		{"malformed json", `{"stats": [`, "stats"},
		{"negative goals", map[string]any{"stats": []map[string]any{{"player_id": p, "goals": -1}}}, "stats[0].goals"},
		{"goals beyond column range", map[string]any{"stats": []map[string]any{{"player_id": p, "goals": 3000000000}}}, "stats[0].goals"},
		{"second red card", map[string]any{"stats": []map[string]any{{"player_id": p, "red_cards": 2}}}, "stats[0].red_cards"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := a.do(http.MethodPost, gamePath(gid, "/player-stats"), tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			var payload response.ErrorPayload
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
			require.NotEmpty(t, payload.FieldErrors)
			assert.Equal(t, tc.wantField, payload.FieldErrors[0].Field)
		})
	}
}

func TestAPI_EmptyBatchIsAccepted(t *testing.T) {
	a := newAPI(t)
	gid := a.createGame("Rivals FC")

	w := a.do(http.MethodPost, gamePath(gid, "/player-stats"), map[string]any{"stats": []any{}})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAPI_EditConflictReportsLine(t *testing.T) {
	a := newAPI(t)
	p1 := a.createPlayer("Alice")
	p2 := a.createPlayer("Bea")
	gid := a.createGame("Rivals FC")
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, gamePath(gid, "/player-stats"),
		map[string]any{"stats": []map[string]any{{"player_id": p1, "goals": 1}}}).Code)

	w := a.do(http.MethodPut, gamePath(gid, "/player-stats"), map[string]any{"stats": []map[string]any{
		{"player_id": p1, "goals": 4},
		{"player_id": p2, "goals": 2},
	}})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	var payload response.ErrorPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "conflict", payload.Error)
	assert.EqualValues(t, gid, payload.Details["game_id"])
	assert.EqualValues(t, p2, payload.Details["player_id"])

	lines, err := a.store.Stats().ListByGame(context.Background(), gid)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Goals, "edit must not be partially applied")
}

func TestAPI_DeleteStatsRowTwice(t *testing.T) {
	a := newAPI(t)
	p := a.createPlayer("Alice")
	gid := a.createGame("Rivals FC")
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, gamePath(gid, "/player-stats"),
		map[string]any{"stats": []map[string]any{{"player_id": p, "goals": 1}}}).Code)

	path := gamePath(gid, "/player-stats/"+strconv.FormatInt(p, 10))
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, path, nil).Code)
}

func TestAPI_DeleteGameCascade(t *testing.T) {
	a := newAPI(t)
	p := a.createPlayer("Alice")
	gid := a.createGame("Rivals FC")
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, gamePath(gid, "/player-stats"),
		map[string]any{"stats": []map[string]any{{"player_id": p, "goals": 1}}}).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, gamePath(gid, ""), nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, gamePath(gid, "/stats"), nil).Code)

	lines, err := a.store.Stats().ListAllLines(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAPI_ForeignPlayerIsForbidden(t *testing.T) {
	a := newAPI(t)
	p := a.createPlayer("Alice")

	other, err := a.store.Accounts().Create(context.Background(), model.Account{Username: "rival", TeamName: "Rivals FC"})
	require.NoError(t, err)
	owner := a.caller
	a.caller = other.ID

	w := a.do(http.MethodDelete, "/players/"+strconv.FormatInt(p, 10), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodDelete, "/accounts/"+strconv.FormatInt(owner, 10), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, err = a.store.Players().GetByID(context.Background(), p)
	assert.NoError(t, err, "forbidden delete must leave the player intact")
}

func TestAPI_PlayerInjuryAndRosterTotals(t *testing.T) {
	a := newAPI(t)
	alice := a.createPlayer("Alice")
	a.createPlayer("Bea")

	w := a.do(http.MethodPut, "/players/"+strconv.FormatInt(alice, 10)+"/injury", map[string]any{"is_injured": true, "notes": "hamstring"})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = a.do(http.MethodPut, "/players/"+strconv.FormatInt(alice, 10)+"/injury", map[string]any{"notes": "no flag"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/players/injured", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var injured []model.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &injured))
	require.Len(t, injured, 1)
	assert.Equal(t, alice, injured[0].ID)

	w = a.do(http.MethodGet, "/players/roster-totals", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var roster []model.RosterEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roster))
	assert.Len(t, roster, 2)
	for _, e := range roster {
		assert.Zero(t, e.Totals.Goals)
		assert.Zero(t, e.MinutesPerContribution)
	}
}

func TestAPI_BadPathID(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/games/abc/stats", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"id"`)
}

func TestAPI_MetricsEndpoint(t *testing.T) {
	a := newAPI(t)
	a.createGame("Rivals FC")
	gid := a.createGame("Town")
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, gamePath(gid, ""), nil).Code)

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `football_tx_total{operation="delete_game",outcome="commit"} 1`)
}
