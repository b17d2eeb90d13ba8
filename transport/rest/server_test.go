package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/repository"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionID = "session-1"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	server, _ := newTestServerWithUseCase(t)

	return server
}

func newTestServerWithUseCase(t *testing.T) (*httptest.Server, usecase.GameUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameUseCase := usecase.NewGameUseCase(logger, repository.NewMemorySessionRepository(0), config.Game{FleetAttempts: 10},
		usecase.WithRand(rand.New(rand.NewSource(7))), //nolint: gosec // it's ok
		usecase.WithIDGenerator(func() string { return sessionID }),
	)

	server := httptest.NewServer(New(logger, gameUseCase).Handler())
	t.Cleanup(server.Close)

	return server, gameUseCase
}

func do(t *testing.T, server *httptest.Server, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestServer_Ping(t *testing.T) {
	server := newTestServer(t)

	resp, err := server.Client().Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_SessionSetup(t *testing.T) {
	t.Run("New session hides the enemy fleet", func(t *testing.T) {
		server := newTestServer(t)

		// When: a session is created
		var view battleship.SessionView
		status := do(t, server, http.MethodPost, "/sessions", nil, &view)

		// Then: it is in setup and the enemy ships are counted but not shown
		assert.Equal(t, http.StatusCreated, status)
		assert.Equal(t, sessionID, view.ID)
		assert.Equal(t, battleship.StatusSetup, view.Status)
		assert.Equal(t, len(battleship.Fleet), view.EnemyBoard.Total)
		assert.Empty(t, view.EnemyBoard.Ships)
		assert.Zero(t, view.PlayerBoard.Total)
	})

	t.Run("Places ships manually", func(t *testing.T) {
		// Given: a session
		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)

		// When: a ship is placed and then an overlapping one
		var placed, rejected placeShipResponse
		placedStatus := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships",
			placeShipRequest{X: 0, Y: 0, Length: 3, Direction: "horizontal"}, &placed)
		rejectedStatus := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships",
			placeShipRequest{X: 2, Y: 0, Length: 2, Direction: "vertical"}, &rejected)

		// Then: the first is accepted and the second reported
		assert.Equal(t, http.StatusCreated, placedStatus)
		assert.True(t, placed.Placement.Success)
		assert.Equal(t, 1, placed.Session.PlayerBoard.Total)

		assert.Equal(t, http.StatusUnprocessableEntity, rejectedStatus)
		assert.False(t, rejected.Placement.Success)
		assert.NotEmpty(t, rejected.Placement.Error)
		assert.Equal(t, 1, rejected.Session.PlayerBoard.Total)
	})

	t.Run("Rejects an unknown direction", func(t *testing.T) {
		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)

		var resp errorResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships",
			placeShipRequest{X: 0, Y: 0, Length: 3, Direction: "diagonal"}, &resp)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid argument", resp.Error)
	})

	t.Run("Auto places and resets the fleet", func(t *testing.T) {
		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)

		var placed, reset battleship.SessionView
		assert.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships/auto", nil, &placed))
		assert.Equal(t, http.StatusOK, do(t, server, http.MethodDelete, "/sessions/"+sessionID+"/ships", nil, &reset))

		assert.Equal(t, len(battleship.Fleet), placed.PlayerBoard.Total)
		assert.Zero(t, reset.PlayerBoard.Total)
	})

	t.Run("Start needs a fleet", func(t *testing.T) {
		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)

		var resp errorResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/start", nil, &resp)

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "ships are not placed", resp.Error)
	})

	t.Run("Unknown session is not found", func(t *testing.T) {
		server := newTestServer(t)

		var resp errorResponse
		status := do(t, server, http.MethodGet, "/sessions/missing", nil, &resp)

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "session not found", resp.Error)
	})
}

func TestServer_Attack(t *testing.T) {
	newStarted := func(t *testing.T) *httptest.Server {
		t.Helper()

		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships/auto", nil, nil))
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/start", nil, nil))

		return server
	}

	t.Run("Attack is answered by the computer", func(t *testing.T) {
		// Given: a started game
		server := newStarted(t)

		// When: the player fires
		var resp attackResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 3, Y: 4}, &resp)

		// Then: both shots are reported and it is the player's turn again
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 3, resp.Player.X)
		assert.Equal(t, 4, resp.Player.Y)
		require.NotNil(t, resp.Computer)
		assert.Equal(t, battleship.SidePlayer, resp.Session.Turn)

		shots := len(resp.Session.PlayerBoard.Hits) + len(resp.Session.PlayerBoard.Missed)
		assert.Equal(t, 1, shots)
	})

	t.Run("Repeated attack is a conflict", func(t *testing.T) {
		server := newStarted(t)
		do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 3, Y: 4}, nil)

		var resp errorResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 3, Y: 4}, &resp)

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "move already made", resp.Error)
	})

	t.Run("Off board attack is a bad request", func(t *testing.T) {
		server := newStarted(t)

		var resp errorResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 10, Y: 0}, &resp)

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "coordinate is out of bounds", resp.Error)
	})

	t.Run("Ended session is gone", func(t *testing.T) {
		server := newStarted(t)

		assert.Equal(t, http.StatusNoContent, do(t, server, http.MethodDelete, "/sessions/"+sessionID, nil, nil))
		assert.Equal(t, http.StatusNotFound, do(t, server, http.MethodGet, "/sessions/"+sessionID, nil, nil))
	})
}

func TestServer_ComputerAttack(t *testing.T) {
	t.Run("Resumes a computer turn left pending", func(t *testing.T) {
		// Given: a started game whose computer reply never ran
		server, gameUseCase := newTestServerWithUseCase(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships/auto", nil, nil))
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/start", nil, nil))

		_, _, err := gameUseCase.PlayerAttack(context.Background(), sessionID, 3, 4)
		require.NoError(t, err)

		var blocked errorResponse
		require.Equal(t, http.StatusConflict, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 5, Y: 5}, &blocked))
		assert.Equal(t, "it's not your turn", blocked.Error)

		// When: the computer turn is requested
		var resp computerAttackResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/computer", nil, &resp)

		// Then: the computer fired and the player can attack again
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, battleship.SidePlayer, resp.Session.Turn)
		assert.Equal(t, 1, len(resp.Session.PlayerBoard.Hits)+len(resp.Session.PlayerBoard.Missed))

		assert.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/attack", attackRequest{X: 5, Y: 5}, nil))
	})

	t.Run("Rejected on the player's turn", func(t *testing.T) {
		server := newTestServer(t)
		do(t, server, http.MethodPost, "/sessions", nil, nil)
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/ships/auto", nil, nil))
		require.Equal(t, http.StatusOK, do(t, server, http.MethodPost, "/sessions/"+sessionID+"/start", nil, nil))

		var resp errorResponse
		status := do(t, server, http.MethodPost, "/sessions/"+sessionID+"/computer", nil, &resp)

		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "it's not your turn", resp.Error)
	})
}
