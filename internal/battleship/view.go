package battleship

import "github.com/rocketscienceinc/battleship-backend/internal/entity"

type BoardView struct {
	Size   int                 `json:"size"`
	Ships  []entity.ShipView   `json:"ships"`
	Hits   []entity.Coordinate `json:"hits"`
	Missed []entity.Coordinate `json:"missed"`
	Total  int                 `json:"ships_total"`
	Sunk   int                 `json:"ships_sunk"`
}

// SessionView is what a client gets to draw: its own board in full and the enemy board masked.
type SessionView struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Turn        string    `json:"turn"`
	Winner      string    `json:"winner"`
	PlayerBoard BoardView `json:"player_board"`
	EnemyBoard  BoardView `json:"enemy_board"`
}

func (that *Session) View() SessionView {
	// the enemy fleet is revealed once the game is over
	reveal := that.Game.IsGameOver()

	return SessionView{
		ID:          that.ID,
		Status:      that.Game.Status(),
		Turn:        that.Game.CurrentTurn(),
		Winner:      that.Game.Winner(),
		PlayerBoard: boardView(that.Human.Board(), true),
		EnemyBoard:  boardView(that.Computer.Board(), reveal),
	}
}

// boardView - projects a board, hiding ships that are still afloat unless reveal is set.
func boardView(board *entity.Gameboard, reveal bool) BoardView {
	ships := board.GetShips()
	visible := make([]entity.ShipView, 0, len(ships))
	for _, ship := range ships {
		if reveal || ship.Sunk {
			visible = append(visible, ship)
		}
	}

	return BoardView{
		Size:   board.Size(),
		Ships:  visible,
		Hits:   board.GetHitShots(),
		Missed: board.GetMissedShots(),
		Total:  board.ShipCount(),
		Sunk:   board.SunkCount(),
	}
}
