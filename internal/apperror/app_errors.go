package apperror

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfBounds     = errors.New("coordinate is out of bounds")
	ErrOverlap         = errors.New("overlap with existing ship")
	ErrAlreadyMoved    = errors.New("move already made")
	ErrWrongPlayerKind = errors.New("not a computer player")
	ErrNoMovesLeft     = errors.New("no moves left")

	ErrWrongTurn       = errors.New("it's not your turn")
	ErrGameAlreadyOver = errors.New("game is already over")
	ErrGameNotStarted  = errors.New("game is not started")
	ErrGameStarted     = errors.New("game is already started")

	ErrFleetPlacement  = errors.New("failed to place fleet")
	ErrFleetNotPlaced  = errors.New("ships are not placed")
	ErrSessionNotFound = errors.New("session not found")
)
