package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	g := fixture(t, lineBoard(t), PhaseReinforcement, 0, split())
	g.world.remaining[alice] = 3

	var first, second []Event
	cancel := g.Subscribe(func(e Event) { first = append(first, e) })
	g.Subscribe(func(e Event) { second = append(second, e) })

	_, err := g.Deploy(alice, "a", 1)
	require.NoError(t, err)
	cancel()
	_, err = g.Deploy(alice, "a", 1)
	require.NoError(t, err)

	require.Len(t, first, 1, "Cancelled listener stops receiving")
	require.Len(t, second, 2)
	require.Equal(t, KindArmyCountChanged, second[1].Kind())
	require.Equal(t, ArmyCountChanged{Territory: "a", Armies: 3}, second[1])
}

func TestEventsFollowState(t *testing.T) {
	g := fixture(t, lineBoard(t), PhaseAttack, 0, split())
	var seen []int
	g.Subscribe(func(e Event) {
		if c, ok := e.(ArmyCountChanged); ok {
			require.Equal(t, c.Armies, g.World().Armies(c.Territory), "Event is emitted after the change")
			seen = append(seen, c.Armies)
		}
	})

	_, err := g.Attack("c", "d")
	require.NoError(t, err)
	_, err = g.ResolveRound(3, 2)
	require.NoError(t, err)
	require.Equal(t, []int{3, 2}, seen)
}
