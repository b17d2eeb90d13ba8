package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/repository"
	"github.com/rocketscienceinc/battleship-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionID = "session-1"

func dial(t *testing.T) *websocket.Conn {
	t.Helper()

	conn, _ := dialWithUseCase(t)

	return conn
}

func dialWithUseCase(t *testing.T) (*websocket.Conn, usecase.GameUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gameUseCase := usecase.NewGameUseCase(logger, repository.NewMemorySessionRepository(0), config.Game{FleetAttempts: 10},
		usecase.WithRand(rand.New(rand.NewSource(3))), //nolint: gosec // it's ok
		usecase.WithIDGenerator(func() string { return sessionID }),
	)

	ctx, cancel := context.WithCancel(context.Background())

	server := httptest.NewServer(New(logger, gameUseCase, 10*time.Millisecond).Handler(ctx))
	t.Cleanup(server.Close)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, gameUseCase
}

func request(t *testing.T, conn *websocket.Conn, action string, req RequestPayload) {
	t.Helper()

	raw, err := json.Marshal(req)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: raw}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload ResponsePayload
	if len(message.Payload) > 0 {
		require.NoError(t, json.Unmarshal(message.Payload, &payload))
	}

	return message.Action, payload
}

func TestServer_GameFlow(t *testing.T) {
	// Given: a connected client
	conn := dial(t)

	// When: it creates a session
	request(t, conn, actionNew, RequestPayload{})
	action, payload := receive(t, conn)

	// Then: the session is in setup with the enemy fleet hidden
	require.Equal(t, actionNew, action)
	require.Empty(t, payload.Error)
	require.NotNil(t, payload.Session)
	assert.Equal(t, sessionID, payload.Session.ID)
	assert.Equal(t, battleship.StatusSetup, payload.Session.Status)
	assert.Empty(t, payload.Session.EnemyBoard.Ships)

	// When: it places a fleet and starts
	request(t, conn, actionAuto, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)
	require.Equal(t, actionAuto, action)
	assert.Equal(t, len(battleship.Fleet), payload.Session.PlayerBoard.Total)

	request(t, conn, actionStart, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)
	require.Equal(t, actionStart, action)
	assert.Equal(t, battleship.StatusInProgress, payload.Session.Status)

	// When: it attacks
	request(t, conn, actionAttack, RequestPayload{SessionID: sessionID, X: 4, Y: 2})

	// Then: its shot comes back first and the computer's reply follows
	action, payload = receive(t, conn)
	require.Equal(t, actionAttack, action)
	require.NotNil(t, payload.Attack)
	assert.Equal(t, 4, payload.Attack.X)
	assert.Equal(t, 2, payload.Attack.Y)
	assert.Equal(t, battleship.SideComputer, payload.Session.Turn)

	action, payload = receive(t, conn)
	require.Equal(t, actionComputer, action)
	require.NotNil(t, payload.Attack)
	assert.Equal(t, battleship.SidePlayer, payload.Session.Turn)

	// When: it leaves
	request(t, conn, actionLeave, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)
	require.Equal(t, actionLeave, action)
	assert.Empty(t, payload.Error)

	// Then: the session is gone
	request(t, conn, actionState, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)
	assert.Equal(t, actionState, action)
	assert.Equal(t, "session not found", payload.Error)
}

func TestServer_Errors(t *testing.T) {
	t.Run("Invalid json", func(t *testing.T) {
		conn := dial(t)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
		action, payload := receive(t, conn)

		assert.Equal(t, actionError, action)
		assert.NotEmpty(t, payload.Error)
	})

	t.Run("Unknown action", func(t *testing.T) {
		conn := dial(t)

		request(t, conn, "game:fly", RequestPayload{})
		action, payload := receive(t, conn)

		assert.Equal(t, "game:fly", action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Attack before start", func(t *testing.T) {
		conn := dial(t)
		request(t, conn, actionNew, RequestPayload{})
		receive(t, conn)

		request(t, conn, actionAttack, RequestPayload{SessionID: sessionID, X: 0, Y: 0})
		action, payload := receive(t, conn)

		assert.Equal(t, actionAttack, action)
		assert.Equal(t, "game is not started", payload.Error)
	})

	t.Run("Rejected placement", func(t *testing.T) {
		conn := dial(t)
		request(t, conn, actionNew, RequestPayload{})
		receive(t, conn)

		request(t, conn, actionPlace, RequestPayload{SessionID: sessionID, X: 8, Y: 0, Length: 4, Direction: "horizontal"})
		action, payload := receive(t, conn)

		assert.Equal(t, actionPlace, action)
		require.NotNil(t, payload.Placement)
		assert.False(t, payload.Placement.Success)
		assert.Contains(t, payload.Placement.Error, "out of bounds")
	})
}

func TestServer_ComputerAttack(t *testing.T) {
	// Given: a started game whose computer reply never ran
	conn, gameUseCase := dialWithUseCase(t)
	request(t, conn, actionNew, RequestPayload{})
	receive(t, conn)
	request(t, conn, actionAuto, RequestPayload{SessionID: sessionID})
	receive(t, conn)
	request(t, conn, actionStart, RequestPayload{SessionID: sessionID})
	receive(t, conn)

	_, _, err := gameUseCase.PlayerAttack(context.Background(), sessionID, 4, 2)
	require.NoError(t, err)

	request(t, conn, actionAttack, RequestPayload{SessionID: sessionID, X: 6, Y: 6})
	action, payload := receive(t, conn)
	require.Equal(t, actionAttack, action)
	assert.Equal(t, "it's not your turn", payload.Error)

	// When: the client asks for the computer turn
	request(t, conn, actionComputer, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)

	// Then: the computer fired and the turn is back with the player
	require.Equal(t, actionComputer, action)
	require.Empty(t, payload.Error)
	require.NotNil(t, payload.Attack)
	assert.Equal(t, battleship.SidePlayer, payload.Session.Turn)

	// And: a second request is refused until the player fires
	request(t, conn, actionComputer, RequestPayload{SessionID: sessionID})
	action, payload = receive(t, conn)
	assert.Equal(t, actionComputer, action)
	assert.Equal(t, "it's not your turn", payload.Error)
}
