package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/football-stats-service/internal/handler"
)

func newMiddlewareEngine(buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handler.RequestID(), handler.RequestLogger(zerolog.New(buf)))
	r.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/secured", handler.AccountIDMiddleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	var buf bytes.Buffer
	r := newMiddlewareEngine(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	generated := w.Header().Get(handler.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Contains(t, buf.String(), generated)

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(handler.HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(handler.HeaderRequestID))
}

func TestAccountIDMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not a number", "coach", http.StatusUnauthorized},
		{"zero", "0", http.StatusUnauthorized},
		{"negative", "-4", http.StatusUnauthorized},
		{"ok", "7", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := newMiddlewareEngine(&buf)
			req := httptest.NewRequest(http.MethodGet, "/secured", nil)
			if tc.header != "" {
				req.Header.Set(handler.HeaderAccountID, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code, w.Body.String())
			if tc.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "unauthenticated")
				assert.Contains(t, buf.String(), `"level":"warn"`)
			}
		})
	}
}
