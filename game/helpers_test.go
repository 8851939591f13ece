package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	alice PlayerID = "alice"
	bob   PlayerID = "bob"
	carol PlayerID = "carol"
)

// lineBoard is a-b-c-d-e-f-g with north = {a, b, c} worth 5 and
// south = {d, e, f, g} worth 2.
func lineBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard("line")
	for _, id := range []TerritoryID{"a", "b", "c", "d", "e", "f", "g"} {
		b.AddTerritory(id, strings.ToUpper(string(id)))
	}
	require.NoError(t, b.AddContinent("north", "North", 5, "a", "b", "c"))
	require.NoError(t, b.AddContinent("south", "South", 2, "d", "e", "f", "g"))
	for _, e := range [][2]TerritoryID{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}, {"e", "f"}, {"f", "g"}} {
		require.NoError(t, b.AddBorder(e[0], e[1]))
	}
	return b
}

type layout map[TerritoryID]TerritoryState

func own(p PlayerID, armies int) TerritoryState {
	return TerritoryState{Owner: p, Armies: armies}
}

// fixture resumes a game on board with the given territories, phase and
// current player. Players are taken in the order given.
func fixture(t *testing.T, board *Board, phase Phase, current int, territories layout, players ...PlayerID) *Game {
	t.Helper()
	if len(players) == 0 {
		players = []PlayerID{alice, bob}
	}
	s := Snapshot{
		Players:                   players,
		Territories:               map[TerritoryID]TerritoryState(territories),
		CurrentPlayerIndex:        current,
		Phase:                     phase,
		TurnNumber:                1,
		RemainingArmies:           map[PlayerID]int{},
		PlayerColors:              map[PlayerID]string{},
		InitialDeploymentComplete: phase != PhaseStartup,
	}
	for _, p := range players {
		s.PlayerColors[p] = "color-" + string(p)
	}
	g, err := ResumeGame(board, s)
	require.NoError(t, err)
	return g
}

// classicLayout gives p the listed territories with one army each and every
// other territory to other.
func classicLayout(board *Board, p PlayerID, owned []TerritoryID, other PlayerID) layout {
	l := layout{}
	for _, id := range board.TerritoryIDs() {
		l[id] = own(other, 1)
	}
	for _, id := range owned {
		l[id] = own(p, 1)
	}
	return l
}

func record(g *Game) *[]Event {
	var events []Event
	g.Subscribe(func(e Event) {
		events = append(events, e)
	})
	return &events
}

func roster(ids ...PlayerID) []Player {
	players := make([]Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, Player{ID: id, Color: "color-" + string(id)})
	}
	return players
}
