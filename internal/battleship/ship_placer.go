package battleship

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const DefaultPlacementAttempts = 100

// Fleet - lengths of the ships every side has to place.
var Fleet = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

type PlacementResult struct {
	Success bool   `json:"success"`
	ShipID  int    `json:"ship_id"`
	Error   string `json:"error,omitempty"`
}

type ShipPlacer struct {
	rnd      entity.Randomizer
	attempts int
}

func NewShipPlacer(rnd entity.Randomizer, attempts int) *ShipPlacer {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	if attempts <= 0 {
		attempts = DefaultPlacementAttempts
	}

	return &ShipPlacer{
		rnd:      rnd,
		attempts: attempts,
	}
}

// AutoPlace - places the whole fleet at random positions.
// A ship that can't be placed within the attempt budget aborts the run with ErrFleetPlacement,
// ships placed before it stay on the board.
func (that *ShipPlacer) AutoPlace(board *entity.Gameboard) error {
	for _, length := range Fleet {
		if err := that.placeRandomly(board, length); err != nil {
			return err
		}
	}

	return nil
}

func (that *ShipPlacer) placeRandomly(board *entity.Gameboard, length int) error {
	size := board.Size()
	if length > size {
		return fmt.Errorf("%w: ship of length %d does not fit a board of size %d", apperror.ErrFleetPlacement, length, size)
	}

	var lastErr error
	for range that.attempts {
		direction := entity.Horizontal
		if that.rnd.Intn(2) == 0 {
			direction = entity.Vertical
		}

		// the start is bounded so the ship never sticks out along its direction
		var x, y int
		if direction == entity.Horizontal {
			x, y = that.rnd.Intn(size-length+1), that.rnd.Intn(size)
		} else {
			x, y = that.rnd.Intn(size), that.rnd.Intn(size-length+1)
		}

		_, err := board.PlaceShip(x, y, length, direction)
		if err == nil {
			return nil
		}

		lastErr = err
	}

	return fmt.Errorf("%w: ship of length %d after %d attempts: %w", apperror.ErrFleetPlacement, length, that.attempts, lastErr)
}

// PlaceManually - places a ship where the caller asked and reports the outcome instead of failing.
func (that *ShipPlacer) PlaceManually(board *entity.Gameboard, x, y, length int, direction entity.Direction) PlacementResult {
	shipID, err := board.PlaceShip(x, y, length, direction)
	if err != nil {
		return PlacementResult{Success: false, Error: err.Error()}
	}

	return PlacementResult{Success: true, ShipID: shipID}
}
