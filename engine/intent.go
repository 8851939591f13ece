package engine

import "conquest/game"

// Kind names an action on the wire.
type Kind string

const (
	KindDeploy    Kind = "deploy"
	KindAdvance   Kind = "advance"
	KindSkip      Kind = "skip"
	KindAttack    Kind = "attack"
	KindBattle    Kind = "battle"
	KindConquer   Kind = "conquer"
	KindEndCombat Kind = "end_combat"
	KindFortify   Kind = "fortify"
)

const CodeInvalidIntent game.Code = "INVALID_INTENT"

var ErrInvalidIntent = &game.Error{Code: CodeInvalidIntent}

// Intent is a plain-data request by a player to perform one action. Which
// fields are read depends on Kind:
//
//	deploy      Territory, Count
//	attack      From, To
//	battle      AttackerRemaining, DefenderRemaining
//	conquer     Count
//	fortify     From, To, Count
type Intent struct {
	Kind              Kind             `json:"kind"`
	Player            game.PlayerID    `json:"player"`
	Territory         game.TerritoryID `json:"territory,omitempty"`
	From              game.TerritoryID `json:"from,omitempty"`
	To                game.TerritoryID `json:"to,omitempty"`
	Count             int              `json:"count,omitempty"`
	AttackerRemaining int              `json:"attackerRemaining,omitempty"`
	DefenderRemaining int              `json:"defenderRemaining,omitempty"`
}

// Outcome carries the result of an applied intent. At most one field is set.
type Outcome struct {
	Deploy    *game.DeployResult   `json:"deploy,omitempty"`
	Battle    *game.Battle         `json:"battle,omitempty"`
	Round     *game.RoundResult    `json:"round,omitempty"`
	Conquest  *game.ConquestResult `json:"conquest,omitempty"`
	Fortify   *game.FortifyResult  `json:"fortify,omitempty"`
	Conquered bool                 `json:"conquered,omitempty"`
}

// Apply performs the intent on g. Only the current player may act.
func (in Intent) Apply(g *game.Game) (Outcome, error) {
	if _, ok := g.World().Player(in.Player); !ok {
		return Outcome{}, &game.Error{Code: game.CodeUnknownPlayer, Message: "unknown player " + string(in.Player)}
	}
	if in.Player != g.CurrentPlayer() {
		return Outcome{}, &game.Error{Code: game.CodeNotCurrentPlayer, Message: "it is " + string(g.CurrentPlayer()) + "'s turn"}
	}

	switch in.Kind {
	case KindDeploy:
		res, err := g.Deploy(in.Player, in.Territory, in.Count)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Deploy: &res}, nil
	case KindAdvance:
		return Outcome{}, g.Advance()
	case KindSkip:
		return Outcome{}, g.Skip()
	case KindAttack:
		b, err := g.Attack(in.From, in.To)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Battle: &b}, nil
	case KindBattle:
		res, err := g.ResolveRound(in.AttackerRemaining, in.DefenderRemaining)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Round: &res}, nil
	case KindConquer:
		res, err := g.CompleteConquest(in.Count)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Conquest: &res}, nil
	case KindEndCombat:
		conquered, err := g.EndCombat()
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Conquered: conquered}, nil
	case KindFortify:
		res, err := g.Fortify(in.From, in.To, in.Count)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Fortify: &res}, nil
	}
	return Outcome{}, &game.Error{Code: CodeInvalidIntent, Message: "unknown intent kind " + string(in.Kind)}
}
