package entity

import (
	"fmt"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

type Ship struct {
	length int
	hits   int
}

func NewShip(length int) (*Ship, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: ship length must be positive, got %d", apperror.ErrInvalidArgument, length)
	}

	return &Ship{length: length}, nil
}

// Hit - registers a hit. Hits past sinking are counted but change nothing.
func (that *Ship) Hit() {
	that.hits++
}

func (that *Ship) IsSunk() bool {
	return that.hits >= that.length
}

func (that *Ship) Hits() int {
	return that.hits
}

func (that *Ship) Length() int {
	return that.length
}
