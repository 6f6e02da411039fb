package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/pkg/response"
)

type AccountHandler struct {
	svc service.AccountService
}

func NewAccountHandler(svc service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

func (h *AccountHandler) Register(r *gin.RouterGroup) {
	r.Group("/accounts").DELETE("/:id", h.delete)
}

// delete removes the account with its roster and stat rows. Only the account
// itself may do this.
func (h *AccountHandler) delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteAccountCascade(c.Request.Context(), callerID(c), id); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
