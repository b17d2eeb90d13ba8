package entity

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	DefaultBoardSize = 10

	// NoShip is the ShipID of a miss.
	NoShip = -1
)

type AttackResult struct {
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Hit    bool `json:"hit"`
	ShipID int  `json:"ship_id"`
	Sunk   bool `json:"sunk"`
}

// ShipView is a read-only projection of a placed ship.
type ShipView struct {
	ID     int          `json:"id"`
	Length int          `json:"length"`
	Hits   int          `json:"hits"`
	Sunk   bool         `json:"sunk"`
	Coords []Coordinate `json:"coords"`
}

type placedShip struct {
	ship   *Ship
	coords []Coordinate
}

// cellRef locates a ship cell: which ship and how far from its start.
type cellRef struct {
	shipID int
	offset int
}

type Gameboard struct {
	size   int
	ships  []placedShip
	cells  map[Coordinate]cellRef
	missed map[Coordinate]struct{}
	struck map[Coordinate]struct{}
}

func NewGameboard(size int) (*Gameboard, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: board size must be positive, got %d", apperror.ErrInvalidArgument, size)
	}

	return &Gameboard{
		size:   size,
		cells:  make(map[Coordinate]cellRef),
		missed: make(map[Coordinate]struct{}),
		struck: make(map[Coordinate]struct{}),
	}, nil
}

func (that *Gameboard) Size() int {
	return that.size
}

func (that *Gameboard) InBounds(x, y int) bool {
	return x >= 0 && x < that.size && y >= 0 && y < that.size
}

// PlaceShip - lays a ship of the given length from (x, y) along direction and returns its id.
func (that *Gameboard) PlaceShip(x, y, length int, direction Direction) (int, error) {
	if !direction.IsValid() {
		return 0, fmt.Errorf("%w: direction %q", apperror.ErrInvalidArgument, direction)
	}

	if length <= 0 {
		return 0, fmt.Errorf("%w: ship length must be positive, got %d", apperror.ErrInvalidArgument, length)
	}

	dx, dy := direction.step()
	coords := make([]Coordinate, 0, length)
	for i := range length {
		coord := Coordinate{X: x + dx*i, Y: y + dy*i}
		if !that.InBounds(coord.X, coord.Y) {
			return 0, fmt.Errorf("%w: ship cell %s", apperror.ErrOutOfBounds, coord)
		}

		if _, ok := that.cells[coord]; ok {
			return 0, fmt.Errorf("%w: cell %s", apperror.ErrOverlap, coord)
		}

		coords = append(coords, coord)
	}

	ship, err := NewShip(length)
	if err != nil {
		return 0, err
	}

	shipID := len(that.ships)
	that.ships = append(that.ships, placedShip{ship: ship, coords: coords})
	for offset, coord := range coords {
		that.cells[coord] = cellRef{shipID: shipID, offset: offset}
	}

	return shipID, nil
}

func (that *Gameboard) ReceiveAttack(x, y int) (AttackResult, error) {
	if !that.InBounds(x, y) {
		return AttackResult{}, fmt.Errorf("%w: attack at %d,%d", apperror.ErrOutOfBounds, x, y)
	}

	coord := Coordinate{X: x, Y: y}
	ref, ok := that.cells[coord]
	if !ok {
		that.missed[coord] = struct{}{}
		return AttackResult{X: x, Y: y, ShipID: NoShip}, nil
	}

	ship := that.ships[ref.shipID].ship
	ship.Hit()
	that.struck[coord] = struct{}{}

	return AttackResult{X: x, Y: y, Hit: true, ShipID: ref.shipID, Sunk: ship.IsSunk()}, nil
}

// ShipAt - returns the ship occupying (x, y) and the cell's offset from the ship's start.
func (that *Gameboard) ShipAt(x, y int) (int, int, bool) {
	ref, ok := that.cells[Coordinate{X: x, Y: y}]
	if !ok {
		return NoShip, 0, false
	}

	return ref.shipID, ref.offset, true
}

func (that *Gameboard) AllShipsSunk() bool {
	if len(that.ships) == 0 {
		return false
	}

	for _, placed := range that.ships {
		if !placed.ship.IsSunk() {
			return false
		}
	}

	return true
}

// GetMissedShots - returns the missed coordinates in row-major order.
func (that *Gameboard) GetMissedShots() []Coordinate {
	return sortedCoords(that.missed)
}

// GetHitShots - returns the ship cells that have been struck at least once, in row-major order.
func (that *Gameboard) GetHitShots() []Coordinate {
	return sortedCoords(that.struck)
}

func sortedCoords(set map[Coordinate]struct{}) []Coordinate {
	coords := make([]Coordinate, 0, len(set))
	for coord := range set {
		coords = append(coords, coord)
	}

	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Y != coords[j].Y {
			return coords[i].Y < coords[j].Y
		}
		return coords[i].X < coords[j].X
	})

	return coords
}

func (that *Gameboard) GetShips() []ShipView {
	views := make([]ShipView, 0, len(that.ships))
	for id, placed := range that.ships {
		coords := make([]Coordinate, len(placed.coords))
		copy(coords, placed.coords)

		views = append(views, ShipView{
			ID:     id,
			Length: placed.ship.Length(),
			Hits:   placed.ship.Hits(),
			Sunk:   placed.ship.IsSunk(),
			Coords: coords,
		})
	}

	return views
}

func (that *Gameboard) ShipCount() int {
	return len(that.ships)
}

func (that *Gameboard) SunkCount() int {
	sunk := 0
	for _, placed := range that.ships {
		if placed.ship.IsSunk() {
			sunk++
		}
	}

	return sunk
}
