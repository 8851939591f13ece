package game

import "fmt"

// CombatState is the lifecycle of a single attack between two territories.
type CombatState int

const (
	CombatIdle CombatState = iota
	CombatEngaged
	CombatResolved
	CombatConquered
)

func (s CombatState) String() string {
	switch s {
	case CombatIdle:
		return "idle"
	case CombatEngaged:
		return "engaged"
	case CombatResolved:
		return "resolved"
	case CombatConquered:
		return "conquered"
	}
	return "unknown"
}

func (s CombatState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *CombatState) UnmarshalText(b []byte) error {
	for _, candidate := range []CombatState{CombatIdle, CombatEngaged, CombatResolved, CombatConquered} {
		if candidate.String() == string(b) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown combat state %q", b)
}

// Battle is an attack in progress. Outcomes of each round are supplied by the
// caller and validated; the engine never rolls dice.
type Battle struct {
	Attacker              TerritoryID `json:"attacker"`
	Defender              TerritoryID `json:"defender"`
	State                 CombatState `json:"state"`
	InitialAttackerArmies int         `json:"initialAttackerArmies"`
	InitialDefenderArmies int         `json:"initialDefenderArmies"`
	AttackerLosses        int         `json:"attackerLosses"`
	DefenderLosses        int         `json:"defenderLosses"`
}

// RoundResult reports the outcome of one validated battle round.
type RoundResult struct {
	AttackerLosses      int
	DefenderLosses      int
	TotalAttackerLosses int
	TotalDefenderLosses int
	AttackerArmies      int
	DefenderArmies      int
	State               CombatState
	// CanContinue is true while the attacker has at least two armies and a target.
	CanContinue bool
}

// ConquestResult reports the occupation of a conquered territory.
type ConquestResult struct {
	Territory      TerritoryID
	NewOwner       PlayerID
	PreviousOwner  PlayerID
	Armies         int
	AttackerArmies int
	Eliminated     bool
	Winner         PlayerID
}

// Combat validates and applies attacks. At most one battle exists at a time.
type Combat struct {
	world  *World
	phases *PhaseMachine
	events *bus
	battle *Battle
}

// Current returns a copy of the battle in progress, if any.
func (c *Combat) Current() (Battle, bool) {
	if c.battle == nil {
		return Battle{}, false
	}
	return *c.battle, true
}

// Pending reports whether a conquered territory is waiting to be occupied.
func (c *Combat) Pending() bool {
	return c.battle != nil && c.battle.State == CombatConquered
}

// Initiate starts a battle from attacker into defender for the current player.
// An engaged battle is abandoned by starting another; a conquered one is not.
func (c *Combat) Initiate(attacker, defender TerritoryID) (Battle, error) {
	if err := c.phases.require("attack", PhaseAttack); err != nil {
		return Battle{}, err
	}
	if c.Pending() {
		return Battle{}, newError(CodeConquestPending, "occupy %s before starting another battle", c.battle.Defender)
	}
	a, err := c.world.lookup(attacker)
	if err != nil {
		return Battle{}, err
	}
	d, err := c.world.lookup(defender)
	if err != nil {
		return Battle{}, err
	}
	player := c.world.CurrentPlayer()
	if a.owner != player {
		return Battle{}, newError(CodeNotOwner, "%s does not own %s", player, attacker)
	}
	if a.owner == d.owner {
		return Battle{}, newError(CodeSameOwner, "%s and %s are both owned by %s", attacker, defender, a.owner)
	}
	if !c.world.board.AreAdjacent(attacker, defender) {
		return Battle{}, newError(CodeNotAdjacent, "%s does not border %s", attacker, defender)
	}
	if a.armies < 2 {
		return Battle{}, newError(CodeInsufficientAttackArmies, "%s has %d armies, need at least 2", attacker, a.armies)
	}

	c.battle = &Battle{
		Attacker:              attacker,
		Defender:              defender,
		State:                 CombatEngaged,
		InitialAttackerArmies: a.armies,
		InitialDefenderArmies: d.armies,
	}
	return *c.battle, nil
}

// ResolveRound applies an externally decided round outcome. Armies may only
// decrease, the attacker always keeps at least one army, and a round that
// empties the defender must leave the attacker able to move in. A round
// without losses is accepted and changes nothing.
func (c *Combat) ResolveRound(attackerRemaining, defenderRemaining int) (RoundResult, error) {
	if err := c.phases.require("battle", PhaseAttack); err != nil {
		return RoundResult{}, err
	}
	b := c.battle
	if b == nil {
		return RoundResult{}, newError(CodeNoActiveCombat, "no battle in progress")
	}
	if b.State != CombatEngaged {
		return RoundResult{}, newError(CodeCombatNotEngaged, "battle is %s", b.State)
	}
	a := c.world.territories[b.Attacker]
	d := c.world.territories[b.Defender]
	if a.armies < 2 {
		return RoundResult{}, newError(CodeInsufficientAttackArmies, "%s has %d armies left and cannot keep fighting", b.Attacker, a.armies)
	}

	switch {
	case attackerRemaining < 0 || defenderRemaining < 0:
		return RoundResult{}, newError(CodeInvalidBattleResult, "army counts cannot be negative")
	case attackerRemaining > a.armies:
		return RoundResult{}, newError(CodeInvalidBattleResult, "attacker cannot grow from %d to %d", a.armies, attackerRemaining)
	case defenderRemaining > d.armies:
		return RoundResult{}, newError(CodeInvalidBattleResult, "defender cannot grow from %d to %d", d.armies, defenderRemaining)
	case attackerRemaining < 1:
		return RoundResult{}, newError(CodeInvalidBattleResult, "attacker must keep at least one army")
	case defenderRemaining == 0 && attackerRemaining < 2:
		return RoundResult{}, newError(CodeInvalidBattleResult, "a conquering attacker needs at least 2 armies to occupy")
	}

	attackerLosses := a.armies - attackerRemaining
	defenderLosses := d.armies - defenderRemaining
	a.armies = attackerRemaining
	d.armies = defenderRemaining
	b.AttackerLosses += attackerLosses
	b.DefenderLosses += defenderLosses

	canContinue := false
	if defenderRemaining == 0 {
		b.State = CombatConquered
	} else {
		canContinue = a.armies >= 2 && len(c.AttackableTargetsFrom(b.Attacker)) > 0
	}

	c.events.emit(
		ArmyCountChanged{Territory: b.Attacker, Armies: a.armies},
		ArmyCountChanged{Territory: b.Defender, Armies: d.armies},
	)
	return RoundResult{
		AttackerLosses:      attackerLosses,
		DefenderLosses:      defenderLosses,
		TotalAttackerLosses: b.AttackerLosses,
		TotalDefenderLosses: b.DefenderLosses,
		AttackerArmies:      a.armies,
		DefenderArmies:      d.armies,
		State:               b.State,
		CanContinue:         canContinue,
	}, nil
}

// CompleteConquest moves armiesToMove into the conquered territory and
// transfers its ownership. The attacker must keep at least one army.
func (c *Combat) CompleteConquest(armiesToMove int) (ConquestResult, error) {
	if err := c.phases.require("conquest", PhaseAttack); err != nil {
		return ConquestResult{}, err
	}
	if !c.Pending() {
		return ConquestResult{}, newError(CodeNoConquestPending, "no conquered territory to occupy")
	}
	b := c.battle
	a := c.world.territories[b.Attacker]
	d := c.world.territories[b.Defender]
	if armiesToMove < 1 || armiesToMove >= a.armies {
		return ConquestResult{}, newError(CodeInvalidTransferCount, "must move between 1 and %d armies, got %d", a.armies-1, armiesToMove)
	}

	previous := d.owner
	d.owner = a.owner
	d.armies = armiesToMove
	a.armies -= armiesToMove
	b.State = CombatResolved
	c.battle = nil

	res := ConquestResult{
		Territory:      b.Defender,
		NewOwner:       d.owner,
		PreviousOwner:  previous,
		Armies:         d.armies,
		AttackerArmies: a.armies,
	}
	events := []Event{
		TerritoryConquered{Territory: b.Defender, NewOwner: d.owner, PreviousOwner: previous, Armies: d.armies},
		ArmyCountChanged{Territory: b.Attacker, Armies: a.armies},
		ArmyCountChanged{Territory: b.Defender, Armies: d.armies},
	}
	if previous != "" && c.world.IsEliminated(previous) {
		res.Eliminated = true
		events = append(events, PlayerEliminated{Player: previous, By: d.owner})
	}
	if winner := CheckVictory(c.world); winner != "" {
		c.world.winner = winner
		res.Winner = winner
		events = append(events, GameWon{Winner: winner})
	}
	c.events.emit(events...)
	return res, nil
}

// EndCombat discards the current battle and reports whether it had reached
// conquest. A conquered territory cannot be abandoned unoccupied, so in that
// case the battle is kept and ErrConquestPending is returned.
func (c *Combat) EndCombat() (bool, error) {
	if err := c.phases.require("end combat", PhaseAttack); err != nil {
		return false, err
	}
	if c.Pending() {
		return true, newError(CodeConquestPending, "occupy %s before ending combat", c.battle.Defender)
	}
	c.discard()
	return false, nil
}

func (c *Combat) discard() {
	c.battle = nil
}

// AttackableTargetsFrom returns the neighbors of a territory owned by someone
// else, or nothing when the territory cannot attack.
func (c *Combat) AttackableTargetsFrom(id TerritoryID) []TerritoryID {
	return attackableTargets(c.world, id)
}

// CanAttack reports whether p has any legal attack.
func (c *Combat) CanAttack(p PlayerID) bool {
	for _, id := range c.world.TerritoriesOwnedBy(p) {
		if len(attackableTargets(c.world, id)) > 0 {
			return true
		}
	}
	return false
}

func attackableTargets(w *World, id TerritoryID) []TerritoryID {
	t, ok := w.territories[id]
	if !ok || t.armies <= 1 {
		return nil
	}
	var targets []TerritoryID
	for _, n := range w.board.neighbors(id) {
		if w.territories[n].owner != t.owner {
			targets = append(targets, n)
		}
	}
	return targets
}
