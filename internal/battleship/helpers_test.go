package battleship

import (
	"testing"

	"github.com/rocketscienceinc/battleship-backend/internal/entity"
	"github.com/stretchr/testify/require"
)

// seqRand replays a fixed sequence of values, wrapping around at the end.
type seqRand struct {
	values []int
	next   int
}

func (that *seqRand) Intn(n int) int {
	value := that.values[that.next%len(that.values)]
	that.next++
	return value % n
}

func newHuman(t *testing.T) *entity.Player {
	t.Helper()

	player, err := entity.NewPlayer(entity.HumanPlayer)
	require.NoError(t, err)

	return player
}

func newComputer(t *testing.T, opts ...entity.PlayerOption) *entity.Player {
	t.Helper()

	player, err := entity.NewPlayer(entity.ComputerPlayer, opts...)
	require.NoError(t, err)

	return player
}

func placeShip(t *testing.T, player *entity.Player, x, y, length int, direction entity.Direction) {
	t.Helper()

	_, err := player.Board().PlaceShip(x, y, length, direction)
	require.NoError(t, err)
}
