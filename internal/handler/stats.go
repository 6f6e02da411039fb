package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/football-stats-service/internal/model"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/pkg/response"
	"github.com/rs/zerolog/log"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games")
	{
		g.POST("/:id/player-stats", h.submit)
		g.PUT("/:id/player-stats", h.edit)
		g.DELETE("/:id/player-stats/:player_id", h.deleteRow)
	}
	p := r.Group("/players")
	{
		p.GET("/:id/season-totals", h.seasonTotals)
		p.GET("/roster-totals", h.rosterTotals)
	}
}

type statLineRequest struct {
	PlayerID      int64 `json:"player_id"`
	Goals         int   `json:"goals"`
	Assists       int   `json:"assists"`
	MinutesPlayed int   `json:"minutes_played"`
	YellowCards   int   `json:"yellow_cards"`
	RedCards      int   `json:"red_cards"`
	Started       bool  `json:"started"`
	Played        *bool `json:"played"` // defaults to true
}

// statsBatchRequest requires the stats key; an empty list is a valid batch.
type statsBatchRequest struct {
	Stats []statLineRequest `json:"stats" binding:"required"`
}

func (r statsBatchRequest) rows() []model.StatsRow {
	rows := make([]model.StatsRow, 0, len(r.Stats))
	for _, l := range r.Stats {
		played := true
		if l.Played != nil {
			played = *l.Played
		}
		rows = append(rows, model.StatsRow{
			PlayerID:      l.PlayerID,
			Goals:         l.Goals,
			Assists:       l.Assists,
			MinutesPlayed: l.MinutesPlayed,
			YellowCards:   l.YellowCards,
			RedCards:      l.RedCards,
			Started:       l.Started,
			Played:        played,
		})
	}
	return rows
}

func (h *StatsHandler) bindBatch(c *gin.Context) (int64, []model.StatsRow, bool) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return 0, nil, false
	}
	var req statsBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "stats", Message: "must be a list of stat lines"}}))
		return 0, nil, false
	}
	return gameID, req.rows(), true
}

func (h *StatsHandler) submit(c *gin.Context) {
	gameID, rows, ok := h.bindBatch(c)
	if !ok {
		return
	}
	if err := h.svc.SubmitGameStats(c.Request.Context(), callerID(c), gameID, rows); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, gin.H{"game_id": gameID, "rows": len(rows)})
}

func (h *StatsHandler) edit(c *gin.Context) {
	gameID, rows, ok := h.bindBatch(c)
	if !ok {
		return
	}
	if err := h.svc.ApplyStatsEdit(c.Request.Context(), callerID(c), gameID, rows); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"game_id": gameID, "rows": len(rows)})
}

func (h *StatsHandler) deleteRow(c *gin.Context) {
	gameID, ok := pathID(c, "id")
	if !ok {
		return
	}
	playerID, ok := pathID(c, "player_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteStatsRow(c.Request.Context(), callerID(c), gameID, playerID); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StatsHandler) seasonTotals(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	totals, err := h.svc.GetPlayerSeasonTotals(ctx, callerID(c), id)
	if err != nil {
		status, _ := response.MapError(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Int64("player_id", id).Int("status", status).Msg("failed to get season totals")
		}
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{
		"totals":                   totals,
		"minutes_per_contribution": totals.MinutesPerContribution(),
	})
}

func (h *StatsHandler) rosterTotals(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), serviceTimeout)
	defer cancel()

	entries, err := h.svc.ListRosterTotals(ctx, callerID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, entries)
}
