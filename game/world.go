package game

import "slices"

// Player is a participant in turn order. Color is opaque to the rules.
type Player struct {
	ID    PlayerID `json:"id"`
	Color string   `json:"color"`
}

// Territory is a read-only view of a territory's static and dynamic state.
type Territory struct {
	ID        TerritoryID
	Name      string
	Continent ContinentID
	Owner     PlayerID // empty when unowned
	Armies    int
	Neighbors []TerritoryID
}

type territory struct {
	owner  PlayerID
	armies int
}

// World is the authoritative model of a game: ownership, armies, turn order and
// army pools. Fields are only mutated by the rule components of this package;
// everything else reads through the accessors, which return copies.
type World struct {
	board          *Board
	players        []Player
	territories    map[TerritoryID]*territory
	bonuses        map[ContinentID]int
	remaining      map[PlayerID]int
	reinforcements map[PlayerID]int
	current        int
	turn           int
	deployed       bool // initial deployment complete
	fortified      bool // fortification used this turn
	winner         PlayerID
}

func newWorld(board *Board, players []Player) *World {
	w := &World{
		board:          board,
		players:        slices.Clone(players),
		territories:    make(map[TerritoryID]*territory, len(board.order)),
		bonuses:        make(map[ContinentID]int, len(board.cOrder)),
		remaining:      make(map[PlayerID]int, len(players)),
		reinforcements: make(map[PlayerID]int, len(players)),
		turn:           1,
	}
	for _, id := range board.order {
		w.territories[id] = &territory{}
	}
	for _, cid := range board.cOrder {
		w.bonuses[cid] = board.continents[cid].Bonus
	}
	for _, p := range players {
		w.remaining[p.ID] = 0
		w.reinforcements[p.ID] = 0
	}
	return w
}

func validateRoster(players []Player) error {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return newError(CodeInvalidRoster, "need %d to %d players, got %d", MinPlayers, MaxPlayers, len(players))
	}
	seen := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if p.ID == "" {
			return newError(CodeInvalidRoster, "player id cannot be empty")
		}
		if seen[p.ID] {
			return newError(CodeInvalidRoster, "duplicate player %s", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}

// Board returns the static map the world is played on.
func (w *World) Board() *Board {
	return w.board
}

// Players returns the players in turn order.
func (w *World) Players() []Player {
	return slices.Clone(w.players)
}

// Player looks up a player by id.
func (w *World) Player(id PlayerID) (Player, bool) {
	i := w.playerIndex(id)
	if i < 0 {
		return Player{}, false
	}
	return w.players[i], true
}

func (w *World) playerIndex(id PlayerID) int {
	return slices.IndexFunc(w.players, func(p Player) bool { return p.ID == id })
}

// CurrentPlayer returns the player whose turn it is.
func (w *World) CurrentPlayer() PlayerID {
	return w.players[w.current].ID
}

// CurrentIndex returns the turn-order index of the current player.
func (w *World) CurrentIndex() int {
	return w.current
}

// Turn returns the turn number, starting at 1. It increments each time turn
// order wraps back to the first player.
func (w *World) Turn() int {
	return w.turn
}

// InitialDeploymentComplete reports whether the startup phase has finished.
func (w *World) InitialDeploymentComplete() bool {
	return w.deployed
}

// FortificationUsed reports whether the current player has fortified this turn.
func (w *World) FortificationUsed() bool {
	return w.fortified
}

// Winner returns the player owning every territory, once the game is decided.
func (w *World) Winner() PlayerID {
	return w.winner
}

// Territory returns a view of a single territory.
func (w *World) Territory(id TerritoryID) (Territory, bool) {
	t, ok := w.territories[id]
	if !ok {
		return Territory{}, false
	}
	def := w.board.territories[id]
	return Territory{
		ID:        id,
		Name:      def.Name,
		Continent: def.Continent,
		Owner:     t.owner,
		Armies:    t.armies,
		Neighbors: slices.Clone(def.Neighbors),
	}, true
}

// Territories returns every territory in board order.
func (w *World) Territories() []Territory {
	out := make([]Territory, 0, len(w.board.order))
	for _, id := range w.board.order {
		t, _ := w.Territory(id)
		out = append(out, t)
	}
	return out
}

// Owner returns the owner of a territory, or "" if unowned or unknown.
func (w *World) Owner(id TerritoryID) PlayerID {
	if t, ok := w.territories[id]; ok {
		return t.owner
	}
	return ""
}

// Armies returns the army count of a territory.
func (w *World) Armies(id TerritoryID) int {
	if t, ok := w.territories[id]; ok {
		return t.armies
	}
	return 0
}

// TerritoriesOwnedBy returns the territories owned by p in board order.
func (w *World) TerritoriesOwnedBy(p PlayerID) []TerritoryID {
	var owned []TerritoryID
	for _, id := range w.board.order {
		if w.territories[id].owner == p {
			owned = append(owned, id)
		}
	}
	return owned
}

// TerritoryCount returns how many territories p owns.
func (w *World) TerritoryCount(p PlayerID) int {
	n := 0
	for _, t := range w.territories {
		if t.owner == p {
			n++
		}
	}
	return n
}

// TotalArmies returns the armies p has on the board.
func (w *World) TotalArmies(p PlayerID) int {
	n := 0
	for _, t := range w.territories {
		if t.owner == p {
			n += t.armies
		}
	}
	return n
}

// RemainingArmies returns the armies p still has to place this phase.
func (w *World) RemainingArmies(p PlayerID) int {
	return w.remaining[p]
}

// ReinforcementsFor returns the armies granted to p at its last reinforcement phase.
func (w *World) ReinforcementsFor(p PlayerID) int {
	return w.reinforcements[p]
}

// ContinentBonus returns the bonus in effect for a continent.
func (w *World) ContinentBonus(c ContinentID) int {
	return w.bonuses[c]
}

// IsEliminated reports whether p no longer owns any territory.
func (w *World) IsEliminated(p PlayerID) bool {
	for _, t := range w.territories {
		if t.owner == p {
			return false
		}
	}
	return true
}

// ArmySupply is the sum of all armies on the board and all armies still to be
// placed. It only changes when reinforcements are granted or combat removes armies.
func (w *World) ArmySupply() int {
	n := 0
	for _, t := range w.territories {
		n += t.armies
	}
	for _, r := range w.remaining {
		n += r
	}
	return n
}

// checkTerritories verifies the per-territory invariants. except names a
// territory allowed to hold zero armies while owned (a conquest in progress).
func (w *World) checkTerritories(except TerritoryID) error {
	for _, id := range w.board.order {
		t := w.territories[id]
		if t.armies < 0 {
			return newError(CodeInvalidSnapshot, "territory %s has negative armies", id)
		}
		if t.owner != "" && t.armies < 1 && id != except {
			return newError(CodeInvalidSnapshot, "territory %s is owned by %s with no armies", id, t.owner)
		}
		if t.owner != "" && w.playerIndex(t.owner) < 0 {
			return newError(CodeInvalidSnapshot, "territory %s is owned by unknown player %s", id, t.owner)
		}
	}
	return nil
}

func (w *World) lookup(id TerritoryID) (*territory, error) {
	t, ok := w.territories[id]
	if !ok {
		return nil, newError(CodeUnknownTerritory, "unknown territory %s", id)
	}
	return t, nil
}

// nextActive returns the index of the next non-eliminated player after from,
// and whether turn order wrapped past the end of the roster.
func (w *World) nextActive(from int) (int, bool) {
	n := len(w.players)
	for step := 1; step <= n; step++ {
		i := (from + step) % n
		if !w.IsEliminated(w.players[i].ID) {
			return i, i <= from
		}
	}
	return from, false
}

// nextWithArmies returns the index of the next player after from who still
// has armies to place, or -1.
func (w *World) nextWithArmies(from int) int {
	n := len(w.players)
	for step := 1; step < n; step++ {
		i := (from + step) % n
		if w.remaining[w.players[i].ID] > 0 {
			return i
		}
	}
	return -1
}
