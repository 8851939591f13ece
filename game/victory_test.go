package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckVictory(t *testing.T) {
	all := layout{}
	for _, id := range []TerritoryID{"a", "b", "c", "d", "e", "f", "g"} {
		all[id] = own(alice, 1)
	}
	g := fixture(t, lineBoard(t), PhaseAttack, 0, all)
	require.Equal(t, alice, g.CheckVictory())

	g = fixture(t, lineBoard(t), PhaseAttack, 0, split())
	require.Empty(t, g.CheckVictory())

	w := newWorld(lineBoard(t), roster(alice, bob))
	require.Empty(t, CheckVictory(w), "Nobody wins an undealt map")
}
