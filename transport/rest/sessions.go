package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type placeShipRequest struct {
	X         int              `json:"x"`
	Y         int              `json:"y"`
	Length    int              `json:"length"`
	Direction entity.Direction `json:"direction"`
}

type placeShipResponse struct {
	Placement battleship.PlacementResult `json:"placement"`
	Session   battleship.SessionView     `json:"session"`
}

type attackRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type attackResponse struct {
	Player   battleship.AttackOutcome  `json:"player"`
	Computer *battleship.AttackOutcome `json:"computer,omitempty"`
	Session  battleship.SessionView    `json:"session"`
}

type computerAttackResponse struct {
	Computer battleship.AttackOutcome `json:"computer"`
	Session  battleship.SessionView   `json:"session"`
}

func (that *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.NewSession(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, session.View())
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.GetSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session.View())
}

func (that *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndSession(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleRestartSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.RestartSession(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session.View())
}

func (that *Server) handlePlaceShip(w http.ResponseWriter, r *http.Request) {
	var req placeShipRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	if !req.Direction.IsValid() {
		that.writeError(w, r, fmt.Errorf("%w: direction %q", apperror.ErrInvalidArgument, req.Direction))
		return
	}

	result, session, err := that.gameUseCase.PlaceShip(r.Context(), r.PathValue("id"), req.X, req.Y, req.Length, req.Direction)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	that.writeJSON(w, status, placeShipResponse{Placement: result, Session: session.View()})
}

func (that *Server) handleAutoPlaceShips(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.AutoPlaceShips(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session.View())
}

func (that *Server) handleResetShips(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.ResetShips(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session.View())
}

func (that *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.gameUseCase.StartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, session.View())
}

// handleAttack - fires the player's shot and, unless it ended the game, the computer's reply.
func (that *Server) handleAttack(w http.ResponseWriter, r *http.Request) {
	var req attackRequest
	if err := decodeBody(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	sessionID := r.PathValue("id")

	outcome, session, err := that.gameUseCase.PlayerAttack(r.Context(), sessionID, req.X, req.Y)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	resp := attackResponse{Player: outcome}

	if !outcome.GameOver {
		reply, updated, replyErr := that.gameUseCase.ComputerAttack(r.Context(), sessionID)
		if replyErr != nil {
			that.writeError(w, r, replyErr)
			return
		}

		resp.Computer = &reply
		session = updated
	}

	resp.Session = session.View()

	that.writeJSON(w, http.StatusOK, resp)
}

// handleComputerAttack - plays a computer turn left pending, e.g. when the reply after an attack failed.
func (that *Server) handleComputerAttack(w http.ResponseWriter, r *http.Request) {
	outcome, session, err := that.gameUseCase.ComputerAttack(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	that.writeJSON(w, http.StatusOK, computerAttackResponse{Computer: outcome, Session: session.View()})
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed body: %w", apperror.ErrInvalidArgument, err)
	}

	return nil
}
