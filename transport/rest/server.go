package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

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

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
	}
}

// Handler - routes of the REST api.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", that.handlePing)

	mux.HandleFunc("POST /sessions", that.handleNewSession)
	mux.HandleFunc("GET /sessions/{id}", that.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", that.handleEndSession)
	mux.HandleFunc("POST /sessions/{id}/restart", that.handleRestartSession)

	mux.HandleFunc("POST /sessions/{id}/ships", that.handlePlaceShip)
	mux.HandleFunc("POST /sessions/{id}/ships/auto", that.handleAutoPlaceShips)
	mux.HandleFunc("DELETE /sessions/{id}/ships", that.handleResetShips)

	mux.HandleFunc("POST /sessions/{id}/start", that.handleStartGame)
	mux.HandleFunc("POST /sessions/{id}/attack", that.handleAttack)
	mux.HandleFunc("POST /sessions/{id}/computer", that.handleComputerAttack)

	return mux
}

// Start - serves the REST api until ctx is cancelled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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
