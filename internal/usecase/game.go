package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/battleship-backend/internal/apperror"
	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/config"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
)

type GameUseCase interface {
	NewSession(ctx context.Context) (*battleship.Session, error)
	GetSession(ctx context.Context, sessionID string) (*battleship.Session, error)
	RestartSession(ctx context.Context, sessionID string) (*battleship.Session, error)
	EndSession(ctx context.Context, sessionID string) error

	PlaceShip(ctx context.Context, sessionID string, x, y, length int, direction entity.Direction) (battleship.PlacementResult, *battleship.Session, error)
	AutoPlaceShips(ctx context.Context, sessionID string) (*battleship.Session, error)
	ResetShips(ctx context.Context, sessionID string) (*battleship.Session, error)

	StartGame(ctx context.Context, sessionID string) (*battleship.Session, error)
	PlayerAttack(ctx context.Context, sessionID string, x, y int) (battleship.AttackOutcome, *battleship.Session, error)
	ComputerAttack(ctx context.Context, sessionID string) (battleship.AttackOutcome, *battleship.Session, error)
}

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *battleship.Session) error
	GetByID(ctx context.Context, id string) (*battleship.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type Option func(*gameUseCase)

// WithRand - sets the source used to place fleets.
func WithRand(rnd entity.Randomizer) Option {
	return func(that *gameUseCase) {
		that.rnd = rnd
	}
}

// WithIDGenerator - sets how new session ids are made.
func WithIDGenerator(newID func() string) Option {
	return func(that *gameUseCase) {
		that.newID = newID
	}
}

type gameUseCase struct {
	logger      *slog.Logger
	sessionRepo sessionRepo
	conf        config.Game

	rnd    entity.Randomizer
	placer *battleship.ShipPlacer
	newID  func() string

	// sessions are loaded, mutated and saved back, so mutations must not interleave
	mu sync.Mutex
}

func NewGameUseCase(logger *slog.Logger, sessionRepo sessionRepo, conf config.Game, opts ...Option) GameUseCase {
	that := &gameUseCase{
		logger:      logger,
		sessionRepo: sessionRepo,
		conf:        conf,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(that)
	}

	if that.rnd == nil {
		that.rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // it's ok
	}

	that.placer = battleship.NewShipPlacer(that.rnd, conf.PlacementAttempts)

	return that
}

// NewSession - creates both players, hides the computer fleet and stores the session in setup.
func (that *gameUseCase) NewSession(ctx context.Context) (*battleship.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.createSession(that.newID())
	if err != nil {
		return nil, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session created", "session_id", session.ID)

	return session, nil
}

func (that *gameUseCase) GetSession(ctx context.Context, sessionID string) (*battleship.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// RestartSession - throws both fleets away and starts over in setup under the same id.
func (that *gameUseCase) RestartSession(ctx context.Context, sessionID string) (*battleship.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, err := that.sessionRepo.GetByID(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	session, err := that.createSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("session restarted", "session_id", sessionID)

	return session, nil
}

func (that *gameUseCase) EndSession(ctx context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "session_id", sessionID)

	return nil
}

// PlaceShip - places one human ship. A rejected placement is reported in the result, not as an error.
func (that *gameUseCase) PlaceShip(ctx context.Context, sessionID string, x, y, length int, direction entity.Direction) (battleship.PlacementResult, *battleship.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSetupSession(ctx, sessionID)
	if err != nil {
		return battleship.PlacementResult{}, nil, err
	}

	result := that.placer.PlaceManually(session.Human.Board(), x, y, length, direction)
	if !result.Success {
		that.logger.Debug("ship placement rejected", "session_id", sessionID, "reason", result.Error)
		return result, session, nil
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return battleship.PlacementResult{}, nil, fmt.Errorf("failed to save session: %w", err)
	}

	return result, session, nil
}

// AutoPlaceShips - replaces whatever the human placed with a random fleet.
func (that *gameUseCase) AutoPlaceShips(ctx context.Context, sessionID string) (*battleship.Session, error) {
	return that.updateSetup(ctx, sessionID, that.placeFleet)
}

func (that *gameUseCase) ResetShips(ctx context.Context, sessionID string) (*battleship.Session, error) {
	return that.updateSetup(ctx, sessionID, (*entity.Player).ResetBoard)
}

func (that *gameUseCase) StartGame(ctx context.Context, sessionID string) (*battleship.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if err = session.Start(); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	that.logger.Info("game started", "session_id", sessionID)

	return session, nil
}

func (that *gameUseCase) PlayerAttack(ctx context.Context, sessionID string, x, y int) (battleship.AttackOutcome, *battleship.Session, error) {
	return that.attack(ctx, sessionID, battleship.SidePlayer, func(manager *battleship.GameManager) (battleship.AttackOutcome, error) {
		return manager.PlayerAttack(x, y)
	})
}

func (that *gameUseCase) ComputerAttack(ctx context.Context, sessionID string) (battleship.AttackOutcome, *battleship.Session, error) {
	return that.attack(ctx, sessionID, battleship.SideComputer, (*battleship.GameManager).ComputerAttack)
}

func (that *gameUseCase) attack(
	ctx context.Context,
	sessionID, side string,
	fire func(*battleship.GameManager) (battleship.AttackOutcome, error),
) (battleship.AttackOutcome, *battleship.Session, error) {
	log := that.logger.With("method", "attack", "session_id", sessionID, "side", side)

	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return battleship.AttackOutcome{}, nil, fmt.Errorf("failed to get session: %w", err)
	}

	outcome, err := fire(session.Game)
	if err != nil {
		return battleship.AttackOutcome{}, nil, fmt.Errorf("%s attack rejected: %w", side, err)
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return battleship.AttackOutcome{}, nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Debug("attack resolved", "x", outcome.X, "y", outcome.Y, "hit", outcome.Hit, "sunk", outcome.Sunk)

	if outcome.GameOver {
		log.Info("game over", "winner", outcome.Winner)
	}

	return outcome, session, nil
}

func (that *gameUseCase) updateSetup(ctx context.Context, sessionID string, update func(*entity.Player) error) (*battleship.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	session, err := that.getSetupSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err = update(session.Human); err != nil {
		return nil, err
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

func (that *gameUseCase) getSetupSession(ctx context.Context, sessionID string) (*battleship.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !session.IsSetup() {
		return nil, fmt.Errorf("ships can't be changed: %w", apperror.ErrGameStarted)
	}

	return session, nil
}

func (that *gameUseCase) createSession(sessionID string) (*battleship.Session, error) {
	human, err := entity.NewPlayer(entity.HumanPlayer)
	if err != nil {
		return nil, fmt.Errorf("failed to create human player: %w", err)
	}

	computer, err := entity.NewPlayer(entity.ComputerPlayer, entity.WithMoveAttempts(that.conf.ComputerMoveAttempts))
	if err != nil {
		return nil, fmt.Errorf("failed to create computer player: %w", err)
	}

	if err = that.placeFleet(computer); err != nil {
		return nil, fmt.Errorf("failed to place computer fleet: %w", err)
	}

	return battleship.NewSession(sessionID, human, computer), nil
}

// placeFleet - auto places a whole fleet on a fresh board, starting over when a run gets stuck.
func (that *gameUseCase) placeFleet(player *entity.Player) error {
	log := that.logger.With("method", "placeFleet", "player", player.Kind())

	tries := max(that.conf.FleetAttempts, 1)

	var err error
	for try := 1; try <= tries; try++ {
		if err = player.ResetBoard(); err != nil {
			return err
		}

		err = that.placer.AutoPlace(player.Board())
		if err == nil {
			return nil
		}

		if !errors.Is(err, apperror.ErrFleetPlacement) {
			return err
		}

		log.Debug("fleet placement got stuck, starting over", "try", try, "error", err)
	}

	return fmt.Errorf("gave up after %d tries: %w", tries, err)
}
