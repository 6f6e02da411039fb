package response_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/maxviazov/football-stats-service/internal/repository"
	"github.com/maxviazov/football-stats-service/internal/service"
	"github.com/maxviazov/football-stats-service/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	invalid := service.NewInvalidInputError([]service.FieldError{{Field: "stats[0].goals", Message: "must be >= 0"}})
	cases := []struct {
		name     string
		in       error
		wantCode int
		wantErr  string
	}{
		{"invalid_input", invalid, http.StatusBadRequest, "invalid_input"},
		{"not_found", repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped_not_found", fmt.Errorf("player 3: %w", repository.ErrNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unauthenticated", response.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
		{"already_exists", repository.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{"conflict", repository.ErrConflict, http.StatusConflict, "conflict"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, payload := response.MapError(tc.in)
			if code != tc.wantCode || payload.Error != tc.wantErr {
				t.Fatalf("unexpected mapping: got (%d,%s) want (%d,%s)", code, payload.Error, tc.wantCode, tc.wantErr)
			}
			if tc.wantErr == "invalid_input" && len(payload.FieldErrors) == 0 {
				t.Fatalf("expected field errors in payload")
			}
		})
	}
}

func TestMapError_ConflictCarriesLine(t *testing.T) {
	err := fmt.Errorf("edit: %w", &service.ConflictError{GameID: 4, PlayerID: 9})

	code, payload := response.MapError(err)

	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", payload.Error)
	require.NotNil(t, payload.Details)
	assert.Equal(t, int64(4), payload.Details["game_id"])
	assert.Equal(t, int64(9), payload.Details["player_id"])
}

func TestMapError_Nil(t *testing.T) {
	code, payload := response.MapError(nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", payload.Error)
}
