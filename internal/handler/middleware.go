package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maxviazov/football-stats-service/pkg/response"
	"github.com/rs/zerolog"
)

const (
	ctxAccountID = "account_id"
	ctxRequestID = "request_id"
)

// ErrUnauthenticated is re-exported so callers need not import pkg/response.
var ErrUnauthenticated = response.ErrUnauthenticated

// RequestID reuses an incoming X-Request-ID or generates a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger writes one line per request once the handler chain is done.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	l := logger.With().Str("module", "http").Logger()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var evt *zerolog.Event
		switch {
		case status >= 500:
			evt = l.Error()
		case status >= 400:
			evt = l.Warn()
		default:
			evt = l.Info()
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			evt = evt.Str("errors", errs.String())
		}
		evt.Str("request_id", c.GetString(ctxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	}
}

// AccountIDMiddleware resolves the caller from X-Account-ID. Requests without
// a positive integer id are rejected with 401.
func AccountIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderAccountID))
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.WriteError(c, ErrUnauthenticated)
			return
		}
		c.Set(ctxAccountID, id)
		c.Next()
	}
}

// callerID returns the account id stored by AccountIDMiddleware.
func callerID(c *gin.Context) int64 {
	return c.GetInt64(ctxAccountID)
}
