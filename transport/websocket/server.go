package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	NewSession(ctx context.Context) (*battleship.Session, error)
	GetSession(ctx context.Context, sessionID string) (*battleship.Session, error)
	RestartSession(ctx context.Context, sessionID string) (*battleship.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	PlaceShip(ctx context.Context, sessionID string, x, y, length int, direction entity.Direction) (battleship.PlacementResult, *battleship.Session, error)
	AutoPlaceShips(ctx context.Context, sessionID string) (*battleship.Session, error)
	ResetShips(ctx context.Context, sessionID string) (*battleship.Session, error)

	StartGame(ctx context.Context, sessionID string) (*battleship.Session, error)
	PlayerAttack(ctx context.Context, sessionID string, x, y int) (battleship.AttackOutcome, *battleship.Session, error)
	ComputerAttack(ctx context.Context, sessionID string) (battleship.AttackOutcome, *battleship.Session, error)
}

type handlerFunc func(ctx context.Context, conn *connection, req RequestPayload) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	// computerDelay paces the computer's reply after a player attack
	computerDelay time.Duration

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase, computerDelay time.Duration) *Server {
	server := &Server{
		logger:        logger.With("component", "websocket"),
		gameUseCase:   gameUseCase,
		computerDelay: computerDelay,

		upgrader: websocket.Upgrader{
			HandshakeTimeout: 5 * time.Second,
			ReadBufferSize:   2048,
			WriteBufferSize:  2048,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
	}

	server.handlers = map[string]handlerFunc{
		actionNew:      server.handleNewSession,
		actionState:    server.handleState,
		actionPlace:    server.handlePlaceShip,
		actionAuto:     server.handleAutoPlaceShips,
		actionReset:    server.handleResetShips,
		actionRestart:  server.handleRestart,
		actionStart:    server.handleStartGame,
		actionAttack:   server.handleAttack,
		actionComputer: server.handleComputerAttack,
		actionLeave:    server.handleLeave,
	}

	return server
}

// Handler - serves the websocket endpoint on /ws, ctx bounds every connection.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveWs(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWs(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWs")

	ws, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	conn := &connection{ws: ws}

	// Shutdown doesn't track hijacked connections, closing unblocks the read loop
	stop := context.AfterFunc(ctx, func() {
		_ = ws.Close()
	})

	defer func() {
		stop()
		cancel()
		_ = ws.Close()
		log.Info("connection closed", "remote", ws.RemoteAddr().String())
	}()

	log.Info("WebSocket connection established", "remote", ws.RemoteAddr().String())

	that.handleMessages(ctx, conn)
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, conn *connection) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, raw, err := conn.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(raw, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			if err = conn.send(actionError, ResponsePayload{Error: "message must be json with an action"}); err != nil {
				return
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			if err = conn.send(message.Action, ResponsePayload{Error: "unknown action"}); err != nil {
				return
			}
			continue
		}

		var req RequestPayload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &req); err != nil {
				if err = conn.send(message.Action, ResponsePayload{Error: "malformed payload"}); err != nil {
					return
				}
				continue
			}
		}

		if err = handler(ctx, conn, req); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

// connection is written to only from its read loop, gorilla allows one writer at a time.
type connection struct {
	ws *websocket.Conn
}

func (that *connection) send(action string, payload ResponsePayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = that.ws.WriteJSON(Message{Action: action, Payload: raw}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
