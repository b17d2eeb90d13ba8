package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{apperror.ErrSessionNotFound, http.StatusNotFound},

	{apperror.ErrInvalidArgument, http.StatusBadRequest},
	{apperror.ErrOutOfBounds, http.StatusBadRequest},
	{apperror.ErrOverlap, http.StatusBadRequest},

	{apperror.ErrAlreadyMoved, http.StatusConflict},
	{apperror.ErrWrongTurn, http.StatusConflict},
	{apperror.ErrGameAlreadyOver, http.StatusConflict},
	{apperror.ErrGameNotStarted, http.StatusConflict},
	{apperror.ErrGameStarted, http.StatusConflict},
	{apperror.ErrFleetNotPlaced, http.StatusConflict},
}

// statusOf - maps a use case error onto a status and a message safe to show the client.
func statusOf(err error) (int, string) {
	for _, known := range errorStatuses {
		if errors.Is(err, known.err) {
			return known.status, known.err.Error()
		}
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := statusOf(err)

	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		that.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
