package game

import "fmt"

type Phase int

const (
	PhaseStartup Phase = iota
	PhaseReinforcement
	PhaseAttack
	PhaseFortification
)

var phaseNames = [...]string{"startup", "reinforcement", "attack", "fortification"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// ParsePhase returns the phase with the given name.
func ParsePhase(s string) (Phase, error) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

func (p Phase) MarshalText() ([]byte, error) {
	if p < 0 || int(p) >= len(phaseNames) {
		return nil, fmt.Errorf("invalid phase %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	parsed, err := ParsePhase(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// transitions is the complete table of legal phase transitions.
var transitions = map[Phase]Phase{
	PhaseStartup:       PhaseReinforcement,
	PhaseReinforcement: PhaseAttack,
	PhaseAttack:        PhaseFortification,
	PhaseFortification: PhaseReinforcement,
}

// Skippable reports whether a phase may be ended without taking any action.
func (p Phase) Skippable() bool {
	return p == PhaseAttack || p == PhaseFortification
}

// PhaseMachine owns the current phase. It is the only place the phase is
// stored; every other component reads it through Phase.
type PhaseMachine struct {
	phase     Phase
	world     *World
	combat    *Combat
	fortifier *Fortifier
	events    *bus
}

// Phase returns the current phase.
func (m *PhaseMachine) Phase() Phase {
	return m.phase
}

// CanAdvance reports whether the current phase's completion requirement is met.
// Placement phases require the current player to have placed every army;
// attack and fortification are optional.
func (m *PhaseMachine) CanAdvance() bool {
	switch m.phase {
	case PhaseStartup, PhaseReinforcement:
		return m.world.remaining[m.world.CurrentPlayer()] == 0
	default:
		return true
	}
}

// Advance moves to the next phase. In startup, a player who has placed every
// army hands the turn to the next player still holding armies; once nobody
// does, the game enters the first reinforcement phase.
func (m *PhaseMachine) Advance() error {
	if err := m.ready(); err != nil {
		return err
	}
	if !m.CanAdvance() {
		p := m.world.CurrentPlayer()
		return newError(CodeIllegalTransition, "cannot leave %s: %s still has %d armies to place",
			m.phase, p, m.world.remaining[p])
	}
	if m.phase == PhaseStartup {
		if next := m.world.nextWithArmies(m.world.current); next >= 0 {
			m.handOff(next, false)
			return nil
		}
	}
	m.transition()
	return nil
}

// Skip ends an optional phase without acting. Skipping fortification still
// hands the turn to the next player.
func (m *PhaseMachine) Skip() error {
	if err := m.ready(); err != nil {
		return err
	}
	if !m.phase.Skippable() {
		return newError(CodeNotSkippable, "%s cannot be skipped", m.phase)
	}
	m.transition()
	return nil
}

func (m *PhaseMachine) ready() error {
	if m.world.winner != "" {
		return newError(CodeGameOver, "game won by %s", m.world.winner)
	}
	if m.phase == PhaseAttack && m.combat.Pending() {
		return newError(CodeConquestPending, "a conquered territory must be occupied before leaving attack")
	}
	return nil
}

func (m *PhaseMachine) transition() {
	from := m.phase
	to := transitions[from]

	m.exit(from)
	switch from {
	case PhaseStartup:
		m.world.deployed = true
		if first, _ := m.world.nextActive(len(m.world.players) - 1); first != m.world.current {
			m.handOff(first, false)
		}
	case PhaseFortification:
		next, wrapped := m.world.nextActive(m.world.current)
		if wrapped {
			m.world.turn++
		}
		m.handOff(next, wrapped)
	}
	m.phase = to
	m.enter(to)

	m.events.emit(PhaseChanged{From: from, To: to, Turn: m.world.turn, Player: m.world.CurrentPlayer()})
}

func (m *PhaseMachine) exit(p Phase) {
	switch p {
	case PhaseAttack:
		m.combat.discard()
	case PhaseFortification:
		m.fortifier.reset()
	}
}

func (m *PhaseMachine) enter(p Phase) {
	if p == PhaseReinforcement {
		player := m.world.CurrentPlayer()
		armies := Reinforcements(m.world, player)
		m.world.reinforcements[player] = armies
		m.world.remaining[player] = armies
	}
}

func (m *PhaseMachine) handOff(next int, turnComplete bool) {
	old := m.world.CurrentPlayer()
	m.world.current = next
	m.events.emit(PlayerChanged{OldPlayer: old, NewPlayer: m.world.CurrentPlayer(), TurnComplete: turnComplete})
}

// require rejects actions attempted outside the phases that allow them.
func (m *PhaseMachine) require(action string, allowed ...Phase) error {
	if m.world.winner != "" {
		return newError(CodeGameOver, "game won by %s", m.world.winner)
	}
	for _, p := range allowed {
		if m.phase == p {
			return nil
		}
	}
	return newError(CodeWrongPhase, "%s is not allowed during %s", action, m.phase)
}
