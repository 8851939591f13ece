package game

const (
	MinPlayers = 2
	MaxPlayers = 6

	// MinReinforcements is the floor on armies granted per turn regardless of territory count.
	MinReinforcements = 1
	// TerritoriesPerArmy is how many owned territories earn one reinforcement army.
	TerritoriesPerArmy = 3
)

// StartingArmies returns the classic initial army allowance for a game of n players.
func StartingArmies(n int) int {
	switch n {
	case 2:
		return 40
	case 3:
		return 35
	case 4:
		return 30
	case 5:
		return 25
	default:
		return 20
	}
}

// Reinforcements calculates the armies p receives on entering its reinforcement
// phase: one per three territories (at least one), plus the bonus of every
// continent p owns entirely.
func Reinforcements(w *World, p PlayerID) int {
	armies := max(MinReinforcements, w.TerritoryCount(p)/TerritoriesPerArmy)
	for _, cid := range w.board.cOrder {
		if ContinentOwner(w, cid) == p {
			armies += w.bonuses[cid]
		}
	}
	return armies
}

// ContinentOwner returns the player who owns all territories of a continent, or "" if split.
func ContinentOwner(w *World, c ContinentID) PlayerID {
	def, ok := w.board.continents[c]
	if !ok || len(def.Territories) == 0 {
		return ""
	}
	owner := w.territories[def.Territories[0]].owner
	for _, id := range def.Territories[1:] {
		if w.territories[id].owner != owner {
			return ""
		}
	}
	return owner
}
