package battleship

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

// Session is one caller-owned game: the human, the computer and the turn machine between them.
type Session struct {
	ID        string
	Human     *entity.Player
	Computer  *entity.Player
	Game      *GameManager
	CreatedAt time.Time
}

type sessionJSON struct {
	ID        string         `json:"id"`
	Human     *entity.Player `json:"human"`
	Computer  *entity.Player `json:"computer"`
	Game      State          `json:"game"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewSession(id string, human, computer *entity.Player) *Session {
	return &Session{
		ID:        id,
		Human:     human,
		Computer:  computer,
		Game:      NewGameManager(),
		CreatedAt: time.Now().UTC(),
	}
}

// Start - begins the game once the human has a fleet on the board.
func (that *Session) Start() error {
	if that.Game.Status() != StatusSetup {
		return fmt.Errorf("%w: session %s is %s", apperror.ErrGameStarted, that.ID, that.Game.Status())
	}

	if that.Human.Board().ShipCount() == 0 {
		return apperror.ErrFleetNotPlaced
	}

	if err := that.Game.InitGame(that.Human, that.Computer); err != nil {
		return fmt.Errorf("failed to init game: %w", err)
	}

	return nil
}

func (that *Session) IsSetup() bool {
	return that.Game.Status() == StatusSetup
}

func (that *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		ID:        that.ID,
		Human:     that.Human,
		Computer:  that.Computer,
		Game:      that.Game.State(),
		CreatedAt: that.CreatedAt,
	})
}

func (that *Session) UnmarshalJSON(raw []byte) error {
	var data sessionJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if data.Human == nil || data.Computer == nil {
		return fmt.Errorf("%w: session %s is missing a player", apperror.ErrInvalidArgument, data.ID)
	}

	game, err := RestoreGameManager(data.Human, data.Computer, data.Game)
	if err != nil {
		return fmt.Errorf("failed to restore game: %w", err)
	}

	that.ID = data.ID
	that.Human = data.Human
	that.Computer = data.Computer
	that.Game = game
	that.CreatedAt = data.CreatedAt

	return nil
}
