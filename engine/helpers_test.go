package engine

import (
	"context"
	"testing"

	"conquest/game"

	"github.com/stretchr/testify/require"
)

const (
	alice game.PlayerID = "alice"
	bob   game.PlayerID = "bob"
)

// inOrder deals territories in board order.
type inOrder struct{}

func (inOrder) Shuffle(int, func(i, j int)) {}

// squareBoard is a-b-c-d in a line; west = {a, b}, east = {c, d}.
func squareBoard(t *testing.T) *game.Board {
	t.Helper()
	b := game.NewBoard("square")
	for _, id := range []game.TerritoryID{"a", "b", "c", "d"} {
		b.AddTerritory(id, string(id))
	}
	require.NoError(t, b.AddContinent("west", "West", 1, "a", "b"))
	require.NoError(t, b.AddContinent("east", "East", 1, "c", "d"))
	require.NoError(t, b.AddBorder("a", "b"))
	require.NoError(t, b.AddBorder("b", "c"))
	require.NoError(t, b.AddBorder("c", "d"))
	return b
}

func roster() []game.Player {
	return []game.Player{{ID: alice, Color: "red"}, {ID: bob, Color: "blue"}}
}

// openSession starts a game where alice holds a and c, bob holds b and d,
// and each has startingArmies-2 armies left to place.
func openSession(t *testing.T, store Store, startingArmies int, opts ...Option) *Session {
	t.Helper()
	s, err := Open(context.Background(), store, Setup{
		Mode:    ModeNew,
		Board:   squareBoard(t),
		Roster:  roster(),
		Options: []game.Option{game.WithShuffler(inOrder{}), game.WithStartingArmies(startingArmies)},
	}, opts...)
	require.NoError(t, err)
	return s
}

// endgame is alice's attack phase with bob down to d.
func endgame() game.Snapshot {
	return game.Snapshot{
		Players: []game.PlayerID{alice, bob},
		Territories: map[game.TerritoryID]game.TerritoryState{
			"a": {Owner: alice, Armies: 1},
			"b": {Owner: alice, Armies: 1},
			"c": {Owner: alice, Armies: 6},
			"d": {Owner: bob, Armies: 1},
		},
		Phase:                     game.PhaseAttack,
		TurnNumber:                3,
		Reinforcements:            map[game.PlayerID]int{},
		RemainingArmies:           map[game.PlayerID]int{},
		PlayerColors:              map[game.PlayerID]string{alice: "red", bob: "blue"},
		InitialDeploymentComplete: true,
	}
}
