// Package player holds simple automated players for autoplay and tests.
package player

import (
	"conquest/engine"
	"conquest/game"

	"golang.org/x/exp/rand"
)

// Random is a seeded policy that only proposes legal intents. It places
// armies on its borders, attacks mostly where it outnumbers the defender and
// fortifies between random neighbors.
type Random struct {
	rng     *rand.Rand
	referee *Referee
	// Aggression is the chance of starting an attack when a favourable one exists.
	Aggression float64
}

func NewRandom(seed uint64) *Random {
	return &Random{
		rng:        rand.New(rand.NewSource(seed)),
		referee:    NewReferee(seed + 1),
		Aggression: 0.8,
	}
}

type move struct {
	from, to game.TerritoryID
}

// Next picks the current player's next intent.
func (r *Random) Next(g *game.Game) engine.Intent {
	p := g.CurrentPlayer()
	advance := engine.Intent{Kind: engine.KindAdvance, Player: p}

	switch g.Phase() {
	case game.PhaseStartup, game.PhaseReinforcement:
		remaining := g.RemainingArmies(p)
		if remaining == 0 {
			return advance
		}
		return engine.Intent{
			Kind:      engine.KindDeploy,
			Player:    p,
			Territory: r.pick(frontier(g, p)),
			Count:     1 + r.rng.Intn(remaining),
		}
	case game.PhaseAttack:
		if b, ok := g.Combat().Current(); ok {
			return r.fight(g, p, b)
		}
		return r.attack(g, p)
	case game.PhaseFortification:
		if g.Fortifier().Used() || r.rng.Float64() < 0.5 {
			return advance
		}
		moves := fortifications(g, p)
		if len(moves) == 0 {
			return advance
		}
		m := moves[r.rng.Intn(len(moves))]
		armies := g.World().Armies(m.from)
		return engine.Intent{Kind: engine.KindFortify, Player: p, From: m.from, To: m.to, Count: 1 + r.rng.Intn(armies-1)}
	}
	return advance
}

func (r *Random) fight(g *game.Game, p game.PlayerID, b game.Battle) engine.Intent {
	w := g.World()
	a, d := w.Armies(b.Attacker), w.Armies(b.Defender)
	switch {
	case b.State == game.CombatConquered:
		return engine.Intent{Kind: engine.KindConquer, Player: p, Count: 1 + r.rng.Intn(a-1)}
	case a < 2 || (a <= d && r.rng.Float64() < 0.5):
		return engine.Intent{Kind: engine.KindEndCombat, Player: p}
	}
	ar, dr := r.referee.Round(a, d)
	return engine.Intent{Kind: engine.KindBattle, Player: p, AttackerRemaining: ar, DefenderRemaining: dr}
}

func (r *Random) attack(g *game.Game, p game.PlayerID) engine.Intent {
	w := g.World()
	var all, favourable []move
	for _, from := range g.TerritoriesOwnedBy(p) {
		for _, to := range g.Combat().AttackableTargetsFrom(from) {
			m := move{from: from, to: to}
			all = append(all, m)
			if w.Armies(from) > w.Armies(to)+1 {
				favourable = append(favourable, m)
			}
		}
	}
	var m move
	switch {
	case len(favourable) > 0 && r.rng.Float64() < r.Aggression:
		m = favourable[r.rng.Intn(len(favourable))]
	case len(all) > 0 && r.rng.Float64() < 0.1:
		m = all[r.rng.Intn(len(all))]
	default:
		return engine.Intent{Kind: engine.KindAdvance, Player: p}
	}
	return engine.Intent{Kind: engine.KindAttack, Player: p, From: m.from, To: m.to}
}

func (r *Random) pick(ids []game.TerritoryID) game.TerritoryID {
	return ids[r.rng.Intn(len(ids))]
}

// frontier returns p's territories bordering an opponent, or all of them when
// none do.
func frontier(g *game.Game, p game.PlayerID) []game.TerritoryID {
	w := g.World()
	owned := g.TerritoriesOwnedBy(p)
	var border []game.TerritoryID
	for _, id := range owned {
		t, _ := w.Territory(id)
		for _, n := range t.Neighbors {
			if w.Owner(n) != p {
				border = append(border, id)
				break
			}
		}
	}
	if len(border) == 0 {
		return owned
	}
	return border
}

func fortifications(g *game.Game, p game.PlayerID) []move {
	w := g.World()
	var moves []move
	for _, from := range g.TerritoriesOwnedBy(p) {
		if w.Armies(from) < 2 {
			continue
		}
		t, _ := w.Territory(from)
		for _, n := range t.Neighbors {
			if w.Owner(n) == p {
				moves = append(moves, move{from: from, to: n})
			}
		}
	}
	return moves
}
