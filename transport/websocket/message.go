package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const (
	actionNew      = "game:new"
	actionState    = "game:state"
	actionPlace    = "game:place"
	actionAuto     = "game:auto"
	actionReset    = "game:reset"
	actionRestart  = "game:restart"
	actionStart    = "game:start"
	actionAttack   = "game:attack"
	actionComputer = "game:computer"
	actionLeave    = "game:leave"
	actionError    = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RequestPayload struct {
	SessionID string           `json:"session_id"`
	X         int              `json:"x"`
	Y         int              `json:"y"`
	Length    int              `json:"length"`
	Direction entity.Direction `json:"direction"`
}

type ResponsePayload struct {
	Session   *battleship.SessionView     `json:"session,omitempty"`
	Placement *battleship.PlacementResult `json:"placement,omitempty"`
	Attack    *battleship.AttackOutcome   `json:"attack,omitempty"`
	Error     string                      `json:"error,omitempty"`
}

func sessionPayload(session *battleship.Session) ResponsePayload {
	view := session.View()
	return ResponsePayload{Session: &view}
}
