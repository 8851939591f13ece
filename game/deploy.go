package game

// DeployResult reports a completed placement.
type DeployResult struct {
	Territory TerritoryID
	Armies    int
	Remaining int
}

// Deploy places count of player's remaining armies on a territory it owns.
// Only legal for the current player during startup and reinforcement.
func (g *Game) Deploy(player PlayerID, id TerritoryID, count int) (DeployResult, error) {
	w := g.world
	if err := g.phases.require("deploy", PhaseStartup, PhaseReinforcement); err != nil {
		return DeployResult{}, err
	}
	if _, ok := w.Player(player); !ok {
		return DeployResult{}, newError(CodeUnknownPlayer, "unknown player %s", player)
	}
	if player != w.CurrentPlayer() {
		return DeployResult{}, newError(CodeNotCurrentPlayer, "it is %s's turn, not %s's", w.CurrentPlayer(), player)
	}
	t, err := w.lookup(id)
	if err != nil {
		return DeployResult{}, err
	}
	if t.owner != player {
		return DeployResult{}, newError(CodeNotOwner, "%s does not own %s", player, id)
	}
	if count < 1 {
		return DeployResult{}, newError(CodeInvalidCount, "must deploy at least one army, got %d", count)
	}
	if count > w.remaining[player] {
		return DeployResult{}, newError(CodeInsufficientReinforcements, "%s has %d armies to place, asked for %d", player, w.remaining[player], count)
	}

	t.armies += count
	w.remaining[player] -= count

	g.events.emit(ArmyCountChanged{Territory: id, Armies: t.armies})
	return DeployResult{Territory: id, Armies: t.armies, Remaining: w.remaining[player]}, nil
}
