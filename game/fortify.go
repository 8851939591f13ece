package game

// FortifyResult reports a completed fortification move.
type FortifyResult struct {
	Source       TerritoryID
	Destination  TerritoryID
	Moved        int
	SourceArmies int
	DestArmies   int
}

// Fortifier validates the single army move a player may make per turn.
//
// Execution is restricted to directly adjacent territories, while
// HasAnyValidMove and ReachableFrom follow chains of owned territories. The
// former decides legality; the latter only tells callers whether fortifying
// is worth offering at all.
type Fortifier struct {
	world  *World
	phases *PhaseMachine
	events *bus
}

// Move transfers count armies from source to an adjacent destination owned by
// the current player.
func (f *Fortifier) Move(source, dest TerritoryID, count int) (FortifyResult, error) {
	if err := f.phases.require("fortify", PhaseFortification); err != nil {
		return FortifyResult{}, err
	}
	src, err := f.world.lookup(source)
	if err != nil {
		return FortifyResult{}, err
	}
	dst, err := f.world.lookup(dest)
	if err != nil {
		return FortifyResult{}, err
	}
	player := f.world.CurrentPlayer()
	if f.world.fortified {
		return FortifyResult{}, newError(CodeAlreadyUsed, "%s already fortified this turn", player)
	}
	if src.owner != player || dst.owner != player {
		return FortifyResult{}, newError(CodeNotOwner, "%s must own both %s and %s", player, source, dest)
	}
	if !f.world.board.AreAdjacent(source, dest) {
		return FortifyResult{}, newError(CodeNotAdjacent, "%s does not border %s", source, dest)
	}
	if count < 1 || count >= src.armies {
		return FortifyResult{}, newError(CodeInvalidCount, "must move between 1 and %d armies, got %d", src.armies-1, count)
	}

	src.armies -= count
	dst.armies += count
	f.world.fortified = true

	f.events.emit(
		ArmyCountChanged{Territory: source, Armies: src.armies},
		ArmyCountChanged{Territory: dest, Armies: dst.armies},
	)
	return FortifyResult{
		Source:       source,
		Destination:  dest,
		Moved:        count,
		SourceArmies: src.armies,
		DestArmies:   dst.armies,
	}, nil
}

// Used reports whether the current player has already fortified this turn.
func (f *Fortifier) Used() bool {
	return f.world.fortified
}

func (f *Fortifier) reset() {
	f.world.fortified = false
}

// HasAnyValidMove reports whether p owns a territory with spare armies that is
// connected, through territories p owns, to another territory p owns.
func (f *Fortifier) HasAnyValidMove(p PlayerID) bool {
	for _, id := range f.world.TerritoriesOwnedBy(p) {
		if f.world.territories[id].armies > 1 && len(f.ReachableFrom(id)) > 0 {
			return true
		}
	}
	return false
}

// ReachableFrom returns the territories connected to source through a chain of
// territories with the same owner, excluding source itself.
func (f *Fortifier) ReachableFrom(source TerritoryID) []TerritoryID {
	return connected(f.world, source)
}

// AreConnected reports whether two territories are linked by a chain of
// territories owned by the owner of from.
func (f *Fortifier) AreConnected(from, to TerritoryID) bool {
	if from == to {
		return true
	}
	for _, id := range connected(f.world, from) {
		if id == to {
			return true
		}
	}
	return false
}

// Just BFS
func connected(w *World, source TerritoryID) []TerritoryID {
	start, ok := w.territories[source]
	if !ok || start.owner == "" {
		return nil
	}
	owner := start.owner
	visited := map[TerritoryID]bool{source: true}
	queue := []TerritoryID{source}
	var reached []TerritoryID

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, adj := range w.board.neighbors(current) {
			if visited[adj] || w.territories[adj].owner != owner {
				continue
			}
			visited[adj] = true
			reached = append(reached, adj)
			queue = append(queue, adj)
		}
	}
	return reached
}
