package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/pkg/response"
)

type PlayerHandler struct {
	svc service.PlayerService
}

func NewPlayerHandler(svc service.PlayerService) *PlayerHandler { return &PlayerHandler{svc: svc} }

func (h *PlayerHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/players")
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.GET("/injured", h.injured)
		g.PUT("/:id", h.update)
		g.PUT("/:id/injury", h.setInjury)
		g.DELETE("/:id", h.delete)
	}
}

type playerRequest struct {
	Name        string  `json:"name"`
	BirthDate   string  `json:"birth_date"` // YYYY-MM-DD
	Position    string  `json:"position"`
	PhoneNumber string  `json:"phone_number"`
	Mail        string  `json:"mail"`
	Notes       string  `json:"notes"`
	Photo       *string `json:"photo"`
}

func (r playerRequest) input() service.PlayerInput {
	return service.PlayerInput{
		Name:        r.Name,
		BirthDate:   r.BirthDate,
		Position:    r.Position,
		PhoneNumber: r.PhoneNumber,
		Mail:        r.Mail,
		Notes:       r.Notes,
		Photo:       r.Photo,
	}
}

type injuryRequest struct {
	IsInjured *bool  `json:"is_injured" binding:"required"`
	Notes     string `json:"notes"`
}

func (h *PlayerHandler) create(c *gin.Context) {
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.CreatePlayer(c.Request.Context(), callerID(c), req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, player)
}

func (h *PlayerHandler) list(c *gin.Context) {
	players, err := h.svc.ListPlayers(c.Request.Context(), callerID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *PlayerHandler) injured(c *gin.Context) {
	players, err := h.svc.ListInjured(c.Request.Context(), callerID(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, players)
}

func (h *PlayerHandler) update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req playerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	player, err := h.svc.UpdatePlayer(c.Request.Context(), callerID(c), id, req.input())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, player)
}

func (h *PlayerHandler) setInjury(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req injuryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "is_injured", Message: "must be set"}}))
		return
	}
	if err := h.svc.SetInjury(c.Request.Context(), callerID(c), id, *req.IsInjured, req.Notes); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlayerHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeletePlayer(c.Request.Context(), callerID(c), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
