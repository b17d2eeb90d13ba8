package repository

import (
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/battleship"
	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

// newStartedSession - a session where the human has fired one hit at the computer.
func newStartedSession(t *testing.T, id string) *battleship.Session {
	t.Helper()

	human, err := entity.NewPlayer(entity.HumanPlayer)
	require.NoError(t, err)
	computer, err := entity.NewPlayer(entity.ComputerPlayer)
	require.NoError(t, err)

	_, err = human.Board().PlaceShip(0, 0, 3, entity.Horizontal)
	require.NoError(t, err)
	_, err = computer.Board().PlaceShip(4, 4, 2, entity.Vertical)
	require.NoError(t, err)

	session := battleship.NewSession(id, human, computer)
	require.NoError(t, session.Start())

	_, err = session.Game.PlayerAttack(4, 4)
	require.NoError(t, err)

	return session
}
