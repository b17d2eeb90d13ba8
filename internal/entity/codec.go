package entity

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

type shipJSON struct {
	Hits   int          `json:"hits"`
	Coords []Coordinate `json:"coords"`
}

type gameboardJSON struct {
	Size   int          `json:"size"`
	Ships  []shipJSON   `json:"ships"`
	Missed []Coordinate `json:"missed"`
	Struck []Coordinate `json:"struck"`
}

type playerJSON struct {
	Kind         string       `json:"kind"`
	Board        *Gameboard   `json:"board"`
	Moves        []Coordinate `json:"moves"`
	MoveAttempts int          `json:"move_attempts"`
}

func (that *Gameboard) MarshalJSON() ([]byte, error) {
	data := gameboardJSON{
		Size:   that.size,
		Ships:  make([]shipJSON, 0, len(that.ships)),
		Missed: that.GetMissedShots(),
		Struck: that.GetHitShots(),
	}

	for _, placed := range that.ships {
		data.Ships = append(data.Ships, shipJSON{Hits: placed.ship.Hits(), Coords: placed.coords})
	}

	return json.Marshal(data)
}

func (that *Gameboard) UnmarshalJSON(raw []byte) error {
	var data gameboardJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal board: %w", err)
	}

	board, err := NewGameboard(data.Size)
	if err != nil {
		return err
	}

	for _, stored := range data.Ships {
		if err = board.restoreShip(stored); err != nil {
			return err
		}
	}

	for _, coord := range data.Missed {
		if !board.InBounds(coord.X, coord.Y) {
			return fmt.Errorf("%w: missed shot %s", apperror.ErrOutOfBounds, coord)
		}
		if _, ok := board.cells[coord]; ok {
			return fmt.Errorf("%w: missed shot %s hits a ship", apperror.ErrInvalidArgument, coord)
		}
		board.missed[coord] = struct{}{}
	}

	for _, coord := range data.Struck {
		if _, ok := board.cells[coord]; !ok {
			return fmt.Errorf("%w: struck cell %s holds no ship", apperror.ErrInvalidArgument, coord)
		}
		board.struck[coord] = struct{}{}
	}

	*that = *board

	return nil
}

func (that *Gameboard) restoreShip(stored shipJSON) error {
	ship, err := NewShip(len(stored.Coords))
	if err != nil {
		return err
	}

	if stored.Hits < 0 {
		return fmt.Errorf("%w: negative hit count %d", apperror.ErrInvalidArgument, stored.Hits)
	}
	ship.hits = stored.Hits

	shipID := len(that.ships)
	for offset, coord := range stored.Coords {
		if !that.InBounds(coord.X, coord.Y) {
			return fmt.Errorf("%w: ship cell %s", apperror.ErrOutOfBounds, coord)
		}

		if _, ok := that.cells[coord]; ok {
			return fmt.Errorf("%w: cell %s", apperror.ErrOverlap, coord)
		}

		that.cells[coord] = cellRef{shipID: shipID, offset: offset}
	}

	that.ships = append(that.ships, placedShip{ship: ship, coords: stored.Coords})

	return nil
}

func (that *Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		Kind:         that.kind,
		Board:        that.board,
		Moves:        that.MovesMade(),
		MoveAttempts: that.moveAttempts,
	})
}

func (that *Player) UnmarshalJSON(raw []byte) error {
	var data playerJSON
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to unmarshal player: %w", err)
	}

	if data.Board == nil {
		return fmt.Errorf("%w: player without board", apperror.ErrInvalidArgument)
	}

	player, err := NewPlayer(data.Kind, WithMoveAttempts(data.MoveAttempts), WithBoardSize(data.Board.Size()))
	if err != nil {
		return err
	}

	player.board = data.Board
	for _, coord := range data.Moves {
		if _, err = player.MakeMove(coord.X, coord.Y); err != nil {
			return err
		}
	}

	*that = *player

	return nil
}
