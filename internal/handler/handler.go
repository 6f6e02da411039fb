package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/football-stats-service/internal/service"
)

// Deps groups what Register needs to mount the API. Nil services leave their
// routes unmounted, which keeps health-only engines cheap to build in tests.
type Deps struct {
	Pinger   Pinger
	Games    service.GameService
	Stats    service.StatsService
	Players  service.PlayerService
	Accounts service.AccountService
	Metrics  http.Handler
}

// Register mounts all public routes on the given engine. Health checks and
// /metrics are open; everything else requires X-Account-ID.
func Register(r *gin.Engine, d Deps) {
	h := NewHealthHandler(d.Pinger)

	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	api := r.Group(APIV1Prefix)
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}

		secured := api.Group("", AccountIDMiddleware())
		if d.Games != nil {
			NewGameHandler(d.Games).Register(secured)
		}
		if d.Stats != nil {
			NewStatsHandler(d.Stats).Register(secured)
		}
		if d.Players != nil {
			NewPlayerHandler(d.Players).Register(secured)
		}
		if d.Accounts != nil {
			NewAccountHandler(d.Accounts).Register(secured)
		}
	}
}
