package entity

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
)

const (
	HumanPlayer    = "human"
	ComputerPlayer = "computer"

	DefaultMoveAttempts = 1000
)

// Randomizer is the source of the computer's choices. *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

type Player struct {
	kind         string
	board        *Gameboard
	moves        map[Coordinate]struct{}
	rnd          Randomizer
	moveAttempts int
	boardSize    int
}

type PlayerOption func(*Player)

func WithRand(rnd Randomizer) PlayerOption {
	return func(that *Player) {
		that.rnd = rnd
	}
}

// WithMoveAttempts - sets how many random samples the computer tries before scanning the board in order.
func WithMoveAttempts(attempts int) PlayerOption {
	return func(that *Player) {
		if attempts >= 0 {
			that.moveAttempts = attempts
		}
	}
}

func WithBoardSize(size int) PlayerOption {
	return func(that *Player) {
		that.boardSize = size
	}
}

func NewPlayer(kind string, opts ...PlayerOption) (*Player, error) {
	if kind != HumanPlayer && kind != ComputerPlayer {
		return nil, fmt.Errorf("%w: player kind must be %s or %s, got %q", apperror.ErrInvalidArgument, HumanPlayer, ComputerPlayer, kind)
	}

	player := &Player{
		kind:         kind,
		moves:        make(map[Coordinate]struct{}),
		moveAttempts: DefaultMoveAttempts,
		boardSize:    DefaultBoardSize,
	}

	for _, opt := range opts {
		opt(player)
	}

	if player.rnd == nil {
		player.rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	if err := player.ResetBoard(); err != nil {
		return nil, err
	}

	return player, nil
}

func (that *Player) Kind() string {
	return that.kind
}

func (that *Player) IsComputer() bool {
	return that.kind == ComputerPlayer
}

func (that *Player) Board() *Gameboard {
	return that.board
}

// ResetBoard - replaces the owned board with an empty one, ships can't be removed one by one.
func (that *Player) ResetBoard() error {
	board, err := NewGameboard(that.boardSize)
	if err != nil {
		return fmt.Errorf("failed to create board: %w", err)
	}

	that.board = board

	return nil
}

func (that *Player) MakeMove(x, y int) (Coordinate, error) {
	coord := Coordinate{X: x, Y: y}
	if _, ok := that.moves[coord]; ok {
		return Coordinate{}, fmt.Errorf("%w: %s", apperror.ErrAlreadyMoved, coord)
	}

	that.moves[coord] = struct{}{}

	return coord, nil
}

func (that *Player) HasMoved(x, y int) bool {
	_, ok := that.moves[Coordinate{X: x, Y: y}]
	return ok
}

// MovesMade - returns the coordinates this player has attacked, in row-major order.
func (that *Player) MovesMade() []Coordinate {
	return sortedCoords(that.moves)
}

func (that *Player) PlayComputerMove() (Coordinate, error) {
	if !that.IsComputer() {
		return Coordinate{}, apperror.ErrWrongPlayerKind
	}

	coord, ok := that.randomMove()
	if !ok {
		return Coordinate{}, apperror.ErrNoMovesLeft
	}

	return that.MakeMove(coord.X, coord.Y)
}

// randomMove - samples unused cells uniformly, then falls back to the first unused cell in row-major order.
func (that *Player) randomMove() (Coordinate, bool) {
	size := that.board.Size()

	for range that.moveAttempts {
		coord := Coordinate{X: that.rnd.Intn(size), Y: that.rnd.Intn(size)}
		if _, ok := that.moves[coord]; !ok {
			return coord, true
		}
	}

	for y := range size {
		for x := range size {
			coord := Coordinate{X: x, Y: y}
			if _, ok := that.moves[coord]; !ok {
				return coord, true
			}
		}
	}

	return Coordinate{}, false
}
