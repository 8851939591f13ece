package game

// CheckVictory returns the player who owns every territory, or "".
func CheckVictory(w *World) PlayerID {
	var winner PlayerID
	for _, id := range w.board.order {
		owner := w.territories[id].owner
		if owner == "" {
			return ""
		}
		if winner == "" {
			winner = owner
		} else if owner != winner {
			return ""
		}
	}
	return winner
}
