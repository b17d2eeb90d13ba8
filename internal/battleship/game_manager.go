package battleship

import (
	"fmt"

	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

const (
	StatusSetup      = "setup"
	StatusInProgress = "in_progress"
	StatusGameOver   = "game_over"

	SidePlayer   = "player"
	SideComputer = "computer"
	SideNone     = ""
)

type AttackOutcome struct {
	entity.AttackResult
	GameOver bool   `json:"game_over"`
	Winner   string `json:"winner,omitempty"`
}

// State is the serialisable part of a GameManager, the players are kept by the session.
type State struct {
	Status string `json:"status"`
	Turn   string `json:"turn"`
	Winner string `json:"winner"`
}

type GameManager struct {
	player   *entity.Player
	computer *entity.Player

	status string
	turn   string
	winner string
}

func NewGameManager() *GameManager {
	return &GameManager{
		status: StatusSetup,
		turn:   SidePlayer,
		winner: SideNone,
	}
}

// RestoreGameManager - rebuilds a manager from a saved state and its two players.
func RestoreGameManager(player, computer *entity.Player, state State) (*GameManager, error) {
	if state.Status == StatusSetup {
		return NewGameManager(), nil
	}

	manager := NewGameManager()
	if err := manager.InitGame(player, computer); err != nil {
		return nil, err
	}

	if state.Status != StatusInProgress && state.Status != StatusGameOver {
		return nil, fmt.Errorf("%w: unknown game status %q", apperror.ErrInvalidArgument, state.Status)
	}

	if state.Turn != SidePlayer && state.Turn != SideComputer {
		return nil, fmt.Errorf("%w: unknown turn %q", apperror.ErrInvalidArgument, state.Turn)
	}

	if (state.Status == StatusGameOver) != (state.Winner != SideNone) {
		return nil, fmt.Errorf("%w: status %q with winner %q", apperror.ErrInvalidArgument, state.Status, state.Winner)
	}

	manager.status = state.Status
	manager.turn = state.Turn
	manager.winner = state.Winner

	return manager, nil
}

// InitGame - starts a fresh game between the two players with the human to move.
func (that *GameManager) InitGame(player, computer *entity.Player) error {
	if player == nil || computer == nil {
		return fmt.Errorf("%w: both players are required", apperror.ErrInvalidArgument)
	}

	if player.IsComputer() || !computer.IsComputer() {
		return fmt.Errorf("%w: expected a human and a computer, got %s and %s", apperror.ErrInvalidArgument, player.Kind(), computer.Kind())
	}

	if player.Board().Size() != computer.Board().Size() {
		return fmt.Errorf("%w: board sizes differ: %d and %d", apperror.ErrInvalidArgument, player.Board().Size(), computer.Board().Size())
	}

	that.player = player
	that.computer = computer
	that.status = StatusInProgress
	that.turn = SidePlayer
	that.winner = SideNone

	return nil
}

// PlayerAttack - fires the human's shot at the computer's board.
func (that *GameManager) PlayerAttack(x, y int) (AttackOutcome, error) {
	if err := that.confirmTurn(SidePlayer); err != nil {
		return AttackOutcome{}, err
	}

	board := that.computer.Board()
	if !board.InBounds(x, y) {
		return AttackOutcome{}, fmt.Errorf("%w: attack at %d,%d", apperror.ErrOutOfBounds, x, y)
	}

	if _, err := that.player.MakeMove(x, y); err != nil {
		return AttackOutcome{}, err
	}

	return that.resolve(board, x, y, SidePlayer)
}

// ComputerAttack - lets the computer pick a random unused cell and fire at the human's board.
func (that *GameManager) ComputerAttack() (AttackOutcome, error) {
	if err := that.confirmTurn(SideComputer); err != nil {
		return AttackOutcome{}, err
	}

	move, err := that.computer.PlayComputerMove()
	if err != nil {
		return AttackOutcome{}, fmt.Errorf("computer failed to pick a move: %w", err)
	}

	return that.resolve(that.player.Board(), move.X, move.Y, SideComputer)
}

func (that *GameManager) resolve(board *entity.Gameboard, x, y int, attacker string) (AttackOutcome, error) {
	result, err := board.ReceiveAttack(x, y)
	if err != nil {
		return AttackOutcome{}, fmt.Errorf("failed to resolve attack: %w", err)
	}

	outcome := AttackOutcome{AttackResult: result}

	if board.AllShipsSunk() {
		that.status = StatusGameOver
		that.winner = attacker

		outcome.GameOver = true
		outcome.Winner = attacker

		return outcome, nil
	}

	that.turn = opponentOf(attacker)

	return outcome, nil
}

func (that *GameManager) confirmTurn(side string) error {
	switch {
	case that.status == StatusSetup:
		return apperror.ErrGameNotStarted
	case that.status == StatusGameOver:
		return apperror.ErrGameAlreadyOver
	case that.turn != side:
		return apperror.ErrWrongTurn
	default:
		return nil
	}
}

func opponentOf(side string) string {
	if side == SidePlayer {
		return SideComputer
	}
	return SidePlayer
}

func (that *GameManager) IsGameOver() bool {
	return that.status == StatusGameOver
}

func (that *GameManager) Winner() string {
	return that.winner
}

func (that *GameManager) CurrentTurn() string {
	return that.turn
}

func (that *GameManager) Status() string {
	return that.status
}

func (that *GameManager) State() State {
	return State{
		Status: that.status,
		Turn:   that.turn,
		Winner: that.winner,
	}
}
