package websocket

import (
	"context"
	"errors"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
)

// clientErrors are reported to the client by name, anything else is hidden behind a generic message.
var clientErrors = []error{
	apperror.ErrSessionNotFound,
	apperror.ErrInvalidArgument,
	apperror.ErrOutOfBounds,
	apperror.ErrOverlap,
	apperror.ErrAlreadyMoved,
	apperror.ErrWrongTurn,
	apperror.ErrGameAlreadyOver,
	apperror.ErrGameNotStarted,
	apperror.ErrGameStarted,
	apperror.ErrFleetNotPlaced,
}

// sendError - answers a failed request. The returned error is only set when the client can't be reached.
func (that *Server) sendError(conn *connection, action string, err error) error {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			that.logger.Debug("request rejected", "action", action, "error", err)
			return conn.send(action, ResponsePayload{Error: known.Error()})
		}
	}

	that.logger.Error("request failed", "action", action, "error", err)

	return conn.send(action, ResponsePayload{Error: "internal error"})
}

func (that *Server) handleNewSession(ctx context.Context, conn *connection, _ RequestPayload) error {
	session, err := that.gameUseCase.NewSession(ctx)
	if err != nil {
		return that.sendError(conn, actionNew, err)
	}

	return conn.send(actionNew, sessionPayload(session))
}

func (that *Server) handleState(ctx context.Context, conn *connection, req RequestPayload) error {
	session, err := that.gameUseCase.GetSession(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionState, err)
	}

	return conn.send(actionState, sessionPayload(session))
}

func (that *Server) handlePlaceShip(ctx context.Context, conn *connection, req RequestPayload) error {
	if !req.Direction.IsValid() {
		return that.sendError(conn, actionPlace, apperror.ErrInvalidArgument)
	}

	result, session, err := that.gameUseCase.PlaceShip(ctx, req.SessionID, req.X, req.Y, req.Length, req.Direction)
	if err != nil {
		return that.sendError(conn, actionPlace, err)
	}

	payload := sessionPayload(session)
	payload.Placement = &result

	return conn.send(actionPlace, payload)
}

func (that *Server) handleAutoPlaceShips(ctx context.Context, conn *connection, req RequestPayload) error {
	session, err := that.gameUseCase.AutoPlaceShips(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionAuto, err)
	}

	return conn.send(actionAuto, sessionPayload(session))
}

func (that *Server) handleResetShips(ctx context.Context, conn *connection, req RequestPayload) error {
	session, err := that.gameUseCase.ResetShips(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionReset, err)
	}

	return conn.send(actionReset, sessionPayload(session))
}

func (that *Server) handleRestart(ctx context.Context, conn *connection, req RequestPayload) error {
	session, err := that.gameUseCase.RestartSession(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionRestart, err)
	}

	return conn.send(actionRestart, sessionPayload(session))
}

func (that *Server) handleStartGame(ctx context.Context, conn *connection, req RequestPayload) error {
	session, err := that.gameUseCase.StartGame(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionStart, err)
	}

	return conn.send(actionStart, sessionPayload(session))
}

// handleAttack - reports the player's shot at once and pushes the computer's reply after the delay.
func (that *Server) handleAttack(ctx context.Context, conn *connection, req RequestPayload) error {
	outcome, session, err := that.gameUseCase.PlayerAttack(ctx, req.SessionID, req.X, req.Y)
	if err != nil {
		return that.sendError(conn, actionAttack, err)
	}

	payload := sessionPayload(session)
	payload.Attack = &outcome

	if err = conn.send(actionAttack, payload); err != nil {
		return err
	}

	if outcome.GameOver || session.Game.CurrentTurn() != battleship.SideComputer {
		return nil
	}

	if err = wait(ctx, that.computerDelay); err != nil {
		return err
	}

	return that.handleComputerAttack(ctx, conn, req)
}

// handleComputerAttack - plays the computer turn. Clients also send it to resume a turn whose reply never came.
func (that *Server) handleComputerAttack(ctx context.Context, conn *connection, req RequestPayload) error {
	reply, session, err := that.gameUseCase.ComputerAttack(ctx, req.SessionID)
	if err != nil {
		return that.sendError(conn, actionComputer, err)
	}

	payload := sessionPayload(session)
	payload.Attack = &reply

	return conn.send(actionComputer, payload)
}

func (that *Server) handleLeave(ctx context.Context, conn *connection, req RequestPayload) error {
	if err := that.gameUseCase.EndSession(ctx, req.SessionID); err != nil {
		return that.sendError(conn, actionLeave, err)
	}

	return conn.send(actionLeave, ResponsePayload{})
}

func wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
