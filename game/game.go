package game

import "fmt"

type settings struct {
	shuffler       Shuffler
	startingArmies int
	bonuses        map[ContinentID]int
}

type Option func(s *settings)

// WithShuffler sets the source used to deal territories in a new game.
func WithShuffler(shuffler Shuffler) Option {
	return func(s *settings) {
		if shuffler != nil {
			s.shuffler = shuffler
		}
	}
}

// WithSeed deals territories from a deterministic shuffler.
func WithSeed(seed uint64) Option {
	return func(s *settings) {
		s.shuffler = NewShuffler(seed)
	}
}

// WithStartingArmies overrides the classic starting army table.
func WithStartingArmies(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.startingArmies = n
		}
	}
}

// WithContinentBonus overrides the board's bonus for one continent.
func WithContinentBonus(c ContinentID, bonus int) Option {
	return func(s *settings) {
		if s.bonuses == nil {
			s.bonuses = make(map[ContinentID]int)
		}
		s.bonuses[c] = bonus
	}
}

// Game is the turn controller: it owns the world, the phase machine, the rule
// components and the event stream of one game session.
type Game struct {
	world     *World
	phases    *PhaseMachine
	combat    *Combat
	fortifier *Fortifier
	events    *bus
}

func assemble(w *World, phase Phase) *Game {
	events := newBus()
	phases := &PhaseMachine{phase: phase, world: w, events: events}
	combat := &Combat{world: w, phases: phases, events: events}
	fortifier := &Fortifier{world: w, phases: phases, events: events}
	phases.combat = combat
	phases.fortifier = fortifier
	return &Game{
		world:     w,
		phases:    phases,
		combat:    combat,
		fortifier: fortifier,
		events:    events,
	}
}

// NewGame creates a fresh game: territories are shuffled, dealt round-robin in
// turn order with one army each, and every player receives the rest of its
// starting armies to place during startup.
func NewGame(board *Board, roster []Player, opts ...Option) (*Game, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}
	if s.shuffler == nil {
		seed, err := NewSeed()
		if err != nil {
			return nil, fmt.Errorf("new game: %w", err)
		}
		s.shuffler = NewShuffler(seed)
	}
	if s.startingArmies == 0 {
		s.startingArmies = StartingArmies(len(roster))
	}

	w := newWorld(board, roster)
	for cid, bonus := range s.bonuses {
		if _, ok := board.continents[cid]; !ok {
			return nil, newError(CodeInvalidBoard, "bonus for unknown continent %s", cid)
		}
		w.bonuses[cid] = bonus
	}

	ids := board.TerritoryIDs()
	s.shuffler.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	for i, id := range ids {
		t := w.territories[id]
		t.owner = roster[i%len(roster)].ID
		t.armies = 1
	}
	for _, p := range roster {
		w.remaining[p.ID] = max(0, s.startingArmies-w.TerritoryCount(p.ID))
	}

	return assemble(w, PhaseStartup), nil
}

// World returns the read-only model.
func (g *Game) World() *World { return g.world }

// Phases returns the phase machine.
func (g *Game) Phases() *PhaseMachine { return g.phases }

// Combat returns the combat engine.
func (g *Game) Combat() *Combat { return g.combat }

// Fortifier returns the fortification validator.
func (g *Game) Fortifier() *Fortifier { return g.fortifier }

func (g *Game) Phase() Phase { return g.phases.Phase() }

func (g *Game) CurrentPlayer() PlayerID { return g.world.CurrentPlayer() }

func (g *Game) Turn() int { return g.world.Turn() }

func (g *Game) Winner() PlayerID { return g.world.Winner() }

func (g *Game) Players() []Player { return g.world.Players() }

func (g *Game) Territory(id TerritoryID) (Territory, bool) { return g.world.Territory(id) }

func (g *Game) Territories() []Territory { return g.world.Territories() }

func (g *Game) TerritoriesOwnedBy(p PlayerID) []TerritoryID { return g.world.TerritoriesOwnedBy(p) }

func (g *Game) TotalArmies(p PlayerID) int { return g.world.TotalArmies(p) }

func (g *Game) RemainingArmies(p PlayerID) int { return g.world.RemainingArmies(p) }

func (g *Game) ReinforcementsFor(p PlayerID) int { return g.world.ReinforcementsFor(p) }

// Subscribe registers a listener for every event and returns a function that
// removes it.
func (g *Game) Subscribe(l Listener) func() {
	return g.events.subscribe(l)
}

// Advance moves to the next phase.
func (g *Game) Advance() error { return g.phases.Advance() }

// Skip ends an optional phase without acting.
func (g *Game) Skip() error { return g.phases.Skip() }

// AdvanceTurn ends the current player's turn, passing through any remaining
// optional phases, and stops at the next player's reinforcement phase. In
// startup it behaves like Advance.
func (g *Game) AdvanceTurn() error {
	if g.phases.phase == PhaseStartup {
		return g.phases.Advance()
	}
	if err := g.phases.ready(); err != nil {
		return err
	}
	if !g.phases.CanAdvance() {
		return g.phases.Advance()
	}
	for {
		from := g.phases.phase
		if err := g.phases.Advance(); err != nil {
			return err
		}
		if from == PhaseFortification {
			return nil
		}
	}
}

// Attack starts a battle between two territories.
func (g *Game) Attack(attacker, defender TerritoryID) (Battle, error) {
	return g.combat.Initiate(attacker, defender)
}

// ResolveRound applies an externally decided round outcome to the current battle.
func (g *Game) ResolveRound(attackerRemaining, defenderRemaining int) (RoundResult, error) {
	return g.combat.ResolveRound(attackerRemaining, defenderRemaining)
}

// CompleteConquest occupies the conquered territory.
func (g *Game) CompleteConquest(armiesToMove int) (ConquestResult, error) {
	return g.combat.CompleteConquest(armiesToMove)
}

// EndCombat discards the current battle.
func (g *Game) EndCombat() (bool, error) {
	return g.combat.EndCombat()
}

// Fortify performs the current player's fortification move.
func (g *Game) Fortify(source, dest TerritoryID, count int) (FortifyResult, error) {
	return g.fortifier.Move(source, dest, count)
}

// CheckVictory returns the player owning every territory, or "".
func (g *Game) CheckVictory() PlayerID {
	return CheckVictory(g.world)
}
