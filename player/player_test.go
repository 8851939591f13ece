package player

import (
	"context"
	"testing"

	"conquest/engine"
	"conquest/game"
	"conquest/metrics"

	"github.com/stretchr/testify/require"
)

func TestRefereeRound(t *testing.T) {
	r := NewReferee(42)
	for attacker := 2; attacker <= 8; attacker++ {
		for defender := 1; defender <= 6; defender++ {
			for range 50 {
				a, d := r.Round(attacker, defender)
				losses := (attacker - a) + (defender - d)
				require.Equal(t, min(3, attacker-1, 2, defender), losses, "one loss per compared die")
				require.GreaterOrEqual(t, a, 1)
				require.GreaterOrEqual(t, d, 0)
				if d == 0 {
					require.GreaterOrEqual(t, a, 2, "a conquering attacker can always move in")
				}
			}
		}
	}
}

func autoplay(t *testing.T, seed uint64, actions int) (game.PlayerID, game.Snapshot, metrics.SessionMetric) {
	t.Helper()
	ctx := context.Background()
	roster := []game.Player{{ID: "red", Color: "red"}, {ID: "blue", Color: "blue"}, {ID: "green", Color: "green"}}
	s, err := engine.Open(ctx, engine.NewMemoryStore(), engine.Setup{
		Mode:    engine.ModeNew,
		Board:   game.MustClassicBoard(),
		Roster:  roster,
		Options: []game.Option{game.WithSeed(seed)},
	}, engine.WithCollector(metrics.NewCollector()))
	require.NoError(t, err)

	policies := make(map[game.PlayerID]engine.Policy)
	for i, p := range roster {
		policies[p.ID] = NewRandom(seed + uint64(i)*100)
	}
	winner, err := engine.LocalEngine(s, policies, actions).Run(ctx)
	require.NoError(t, err)
	return winner, s.Snapshot(), s.Metrics()
}

func TestRandomAutoplay(t *testing.T) {
	t.Run("only proposes legal intents", func(t *testing.T) {
		winner, snap, m := autoplay(t, 1, 3000)
		require.Zero(t, m.Rejected)
		require.Zero(t, m.Failed)
		require.Equal(t, snap.Winner, winner)
		if winner == "" {
			require.Equal(t, 3000, m.Accepted)
		}
		require.Positive(t, m.Conquests)
	})

	t.Run("same seeds replay the same game", func(t *testing.T) {
		_, first, _ := autoplay(t, 9, 500)
		_, second, _ := autoplay(t, 9, 500)
		require.Equal(t, first, second)
	})
}

// misfire returns an intent the rules must reject.
func misfire(g *game.Game, i int) engine.Intent {
	p := g.CurrentPlayer()
	owned := g.TerritoriesOwnedBy(p)
	switch i % 4 {
	case 0:
		return engine.Intent{Kind: engine.KindDeploy, Player: p, Territory: owned[0], Count: g.RemainingArmies(p) + 1}
	case 1:
		return engine.Intent{Kind: engine.KindFortify, Player: p, From: owned[0], To: owned[0], Count: 1}
	case 2:
		return engine.Intent{Kind: engine.KindConquer, Player: p, Count: 1 << 20}
	default:
		return engine.Intent{Kind: engine.KindBattle, Player: p, AttackerRemaining: 1 << 20, DefenderRemaining: 0}
	}
}

// checkTerritories asserts every owned territory holds an army, except the
// defender of a battle waiting to be occupied.
func checkTerritories(t *testing.T, g *game.Game) {
	t.Helper()
	var pending game.TerritoryID
	if b, ok := g.Combat().Current(); ok && b.State == game.CombatConquered {
		pending = b.Defender
	}
	for _, terr := range g.Territories() {
		if terr.Owner == "" || terr.ID == pending {
			continue
		}
		require.GreaterOrEqual(t, terr.Armies, 1, "%s owned by %s", terr.ID, terr.Owner)
	}
}

func TestArmyConservation(t *testing.T) {
	for seed := uint64(1); seed <= 8; seed++ {
		roster := []game.Player{{ID: "red", Color: "red"}, {ID: "blue", Color: "blue"}, {ID: "green", Color: "green"}}
		g, err := game.NewGame(game.MustClassicBoard(), roster, game.WithSeed(seed))
		require.NoError(t, err)
		policies := map[game.PlayerID]*Random{}
		for i, p := range roster {
			policies[p.ID] = NewRandom(seed*31 + uint64(i))
		}

		for step := 0; step < 2500 && g.Winner() == ""; step++ {
			w := g.World()
			supply := w.ArmySupply()

			if step%5 == 4 {
				_, err := misfire(g, step).Apply(g)
				require.Error(t, err, "seed %d step %d", seed, step)
				require.Equal(t, supply, w.ArmySupply(), "Rejected intents change nothing")
				continue
			}

			in := policies[g.CurrentPlayer()].Next(g)
			before := g.Phase()
			_, err := in.Apply(g)
			require.NoError(t, err, "seed %d step %d: %+v", seed, step, in)
			after := w.ArmySupply()

			switch in.Kind {
			case engine.KindBattle:
				require.LessOrEqual(t, after, supply, "Battles only remove armies")
			case engine.KindAdvance, engine.KindSkip:
				granted := 0
				if g.Phase() == game.PhaseReinforcement && before != game.PhaseReinforcement {
					granted = g.ReinforcementsFor(g.CurrentPlayer())
				}
				require.Equal(t, supply+granted, after, "Only a new reinforcement phase adds armies")
			default:
				require.Equal(t, supply, after, "%s moves armies without creating them", in.Kind)
			}
			checkTerritories(t, g)
		}
	}
}
