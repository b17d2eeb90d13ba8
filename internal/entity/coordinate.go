package entity

import "fmt"

type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (that Coordinate) String() string {
	return fmt.Sprintf("%d,%d", that.X, that.Y)
}

type Direction string

const (
	Horizontal Direction = "horizontal"
	Vertical   Direction = "vertical"
)

func (that Direction) IsValid() bool {
	return that == Horizontal || that == Vertical
}

// step - returns the offset between two consecutive cells of a ship laid in this direction.
func (that Direction) step() (int, int) {
	if that == Horizontal {
		return 1, 0
	}
	return 0, 1
}
