package game

// TerritoryState is the dynamic part of a territory in a snapshot.
type TerritoryState struct {
	Owner  PlayerID `json:"owner"`
	Armies int      `json:"armies"`
}

// Snapshot is the plain-data form of a game, used to persist and resume
// sessions. Combat is set only while a battle is in progress.
type Snapshot struct {
	Players                   []PlayerID                     `json:"players"`
	Territories               map[TerritoryID]TerritoryState `json:"territories"`
	CurrentPlayerIndex        int                            `json:"currentPlayerIndex"`
	Phase                     Phase                          `json:"phase"`
	TurnNumber                int                            `json:"turnNumber"`
	Reinforcements            map[PlayerID]int               `json:"reinforcements"`
	RemainingArmies           map[PlayerID]int               `json:"remainingArmies"`
	PlayerColors              map[PlayerID]string            `json:"playerColors"`
	ContinentBonuses          map[ContinentID]int            `json:"continentBonuses"`
	InitialDeploymentComplete bool                           `json:"initialDeploymentComplete"`
	FortificationUsed         bool                           `json:"fortificationUsed"`
	Winner                    PlayerID                       `json:"winner,omitempty"`
	Combat                    *Battle                        `json:"combat,omitempty"`
}

// Snapshot captures the complete state of the game.
func (g *Game) Snapshot() Snapshot {
	w := g.world
	s := Snapshot{
		Players:                   make([]PlayerID, 0, len(w.players)),
		Territories:               make(map[TerritoryID]TerritoryState, len(w.territories)),
		CurrentPlayerIndex:        w.current,
		Phase:                     g.phases.Phase(),
		TurnNumber:                w.turn,
		Reinforcements:            make(map[PlayerID]int, len(w.players)),
		RemainingArmies:           make(map[PlayerID]int, len(w.players)),
		PlayerColors:              make(map[PlayerID]string, len(w.players)),
		ContinentBonuses:          make(map[ContinentID]int, len(w.bonuses)),
		InitialDeploymentComplete: w.deployed,
		FortificationUsed:         w.fortified,
		Winner:                    w.winner,
	}
	for _, p := range w.players {
		s.Players = append(s.Players, p.ID)
		s.PlayerColors[p.ID] = p.Color
		s.Reinforcements[p.ID] = w.reinforcements[p.ID]
		s.RemainingArmies[p.ID] = w.remaining[p.ID]
	}
	for id, t := range w.territories {
		s.Territories[id] = TerritoryState{Owner: t.owner, Armies: t.armies}
	}
	for cid, bonus := range w.bonuses {
		s.ContinentBonuses[cid] = bonus
	}
	if b, ok := g.combat.Current(); ok {
		s.Combat = &b
	}
	return s
}

// ResumeGame restores a game from a snapshot. Territories are taken as they
// are; nothing is shuffled or dealt.
func ResumeGame(board *Board, s Snapshot) (*Game, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}
	roster := make([]Player, 0, len(s.Players))
	for _, id := range s.Players {
		roster = append(roster, Player{ID: id, Color: s.PlayerColors[id]})
	}
	if err := validateRoster(roster); err != nil {
		return nil, err
	}
	if s.Phase < PhaseStartup || s.Phase > PhaseFortification {
		return nil, newError(CodeInvalidSnapshot, "invalid phase %d", int(s.Phase))
	}
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(roster) {
		return nil, newError(CodeInvalidSnapshot, "current player index %d out of range", s.CurrentPlayerIndex)
	}
	if s.TurnNumber < 1 {
		return nil, newError(CodeInvalidSnapshot, "turn number %d must be at least 1", s.TurnNumber)
	}
	if s.InitialDeploymentComplete == (s.Phase == PhaseStartup) {
		return nil, newError(CodeInvalidSnapshot, "phase %s contradicts initialDeploymentComplete=%t", s.Phase, s.InitialDeploymentComplete)
	}

	w := newWorld(board, roster)
	w.current = s.CurrentPlayerIndex
	w.turn = s.TurnNumber
	w.deployed = s.InitialDeploymentComplete
	w.fortified = s.FortificationUsed

	if len(s.Territories) != len(board.order) {
		return nil, newError(CodeInvalidSnapshot, "snapshot has %d territories, board has %d", len(s.Territories), len(board.order))
	}
	for id, ts := range s.Territories {
		t, ok := w.territories[id]
		if !ok {
			return nil, newError(CodeInvalidSnapshot, "territory %s is not on board %q", id, board.Name)
		}
		t.owner = ts.Owner
		t.armies = ts.Armies
	}
	for cid, bonus := range s.ContinentBonuses {
		if _, ok := board.continents[cid]; !ok {
			return nil, newError(CodeInvalidSnapshot, "bonus for unknown continent %s", cid)
		}
		w.bonuses[cid] = bonus
	}
	if err := restoreCounts(w, s.RemainingArmies, w.remaining, "remaining armies"); err != nil {
		return nil, err
	}
	if err := restoreCounts(w, s.Reinforcements, w.reinforcements, "reinforcements"); err != nil {
		return nil, err
	}

	var except TerritoryID
	if s.Combat != nil {
		if err := checkBattle(w, s.Phase, *s.Combat); err != nil {
			return nil, err
		}
		if s.Combat.State == CombatConquered {
			except = s.Combat.Defender
		}
	}
	if err := w.checkTerritories(except); err != nil {
		return nil, err
	}
	if w.IsEliminated(w.CurrentPlayer()) {
		return nil, newError(CodeInvalidSnapshot, "current player %s owns no territory", w.CurrentPlayer())
	}
	if s.Winner != "" && CheckVictory(w) != s.Winner {
		return nil, newError(CodeInvalidSnapshot, "%s is recorded as winner but does not own every territory", s.Winner)
	}
	w.winner = s.Winner

	g := assemble(w, s.Phase)
	if s.Combat != nil {
		b := *s.Combat
		g.combat.battle = &b
	}
	return g, nil
}

func restoreCounts(w *World, from, into map[PlayerID]int, what string) error {
	for p, n := range from {
		if w.playerIndex(p) < 0 {
			return newError(CodeInvalidSnapshot, "%s for unknown player %s", what, p)
		}
		if n < 0 {
			return newError(CodeInvalidSnapshot, "%s for %s is negative", what, p)
		}
		into[p] = n
	}
	return nil
}

func checkBattle(w *World, phase Phase, b Battle) error {
	if phase != PhaseAttack {
		return newError(CodeInvalidSnapshot, "battle recorded during %s", phase)
	}
	a, ok := w.territories[b.Attacker]
	if !ok {
		return newError(CodeInvalidSnapshot, "battle attacker %s is not on the board", b.Attacker)
	}
	d, ok := w.territories[b.Defender]
	if !ok {
		return newError(CodeInvalidSnapshot, "battle defender %s is not on the board", b.Defender)
	}
	if !w.board.AreAdjacent(b.Attacker, b.Defender) {
		return newError(CodeInvalidSnapshot, "battle between %s and %s which do not border", b.Attacker, b.Defender)
	}
	if a.owner != w.CurrentPlayer() || d.owner == a.owner {
		return newError(CodeInvalidSnapshot, "battle %s -> %s does not match territory owners", b.Attacker, b.Defender)
	}
	switch b.State {
	case CombatEngaged:
		if d.armies < 1 {
			return newError(CodeInvalidSnapshot, "engaged defender %s has no armies", b.Defender)
		}
	case CombatConquered:
		if d.armies != 0 || a.armies < 2 {
			return newError(CodeInvalidSnapshot, "conquered battle %s -> %s has inconsistent armies", b.Attacker, b.Defender)
		}
	default:
		return newError(CodeInvalidSnapshot, "battle in state %s cannot be resumed", b.State)
	}
	return nil
}
