package game

import "slices"

// EventKind names a domain event on the wire.
type EventKind string

const (
	KindArmyCountChanged   EventKind = "armyCountChanged"
	KindTerritoryConquered EventKind = "territoryConquered"
	KindPhaseChanged       EventKind = "phaseChanged"
	KindPlayerChanged      EventKind = "playerChanged"
	KindPlayerEliminated   EventKind = "playerEliminated"
	KindGameWon            EventKind = "gameWon"
)

// Event is a state change observed by the presentation and network layers.
type Event interface {
	Kind() EventKind
}

type ArmyCountChanged struct {
	Territory TerritoryID `json:"territoryId"`
	Armies    int         `json:"armies"`
}

type TerritoryConquered struct {
	Territory     TerritoryID `json:"territoryId"`
	NewOwner      PlayerID    `json:"newOwner"`
	PreviousOwner PlayerID    `json:"previousOwner"`
	Armies        int         `json:"armies"`
}

type PhaseChanged struct {
	From   Phase    `json:"from"`
	To     Phase    `json:"to"`
	Turn   int      `json:"turn"`
	Player PlayerID `json:"player"`
}

type PlayerChanged struct {
	OldPlayer    PlayerID `json:"oldPlayer"`
	NewPlayer    PlayerID `json:"newPlayer"`
	TurnComplete bool     `json:"turnComplete"`
}

type PlayerEliminated struct {
	Player PlayerID `json:"player"`
	By     PlayerID `json:"by"`
}

type GameWon struct {
	Winner PlayerID `json:"winner"`
}

func (ArmyCountChanged) Kind() EventKind   { return KindArmyCountChanged }
func (TerritoryConquered) Kind() EventKind { return KindTerritoryConquered }
func (PhaseChanged) Kind() EventKind       { return KindPhaseChanged }
func (PlayerChanged) Kind() EventKind      { return KindPlayerChanged }
func (PlayerEliminated) Kind() EventKind   { return KindPlayerEliminated }
func (GameWon) Kind() EventKind            { return KindGameWon }

// Listener receives events synchronously, after the change they describe has
// been applied. Listeners must not call mutating methods of the game.
type Listener func(Event)

type bus struct {
	next      int
	listeners map[int]Listener
	order     []int
}

func newBus() *bus {
	return &bus{listeners: make(map[int]Listener)}
}

// subscribe registers l and returns a function that removes it.
func (b *bus) subscribe(l Listener) func() {
	id := b.next
	b.next++
	b.listeners[id] = l
	b.order = append(b.order, id)
	return func() {
		delete(b.listeners, id)
		if i := slices.Index(b.order, id); i >= 0 {
			b.order = slices.Delete(b.order, i, i+1)
		}
	}
}

func (b *bus) emit(events ...Event) {
	for _, e := range events {
		for _, id := range slices.Clone(b.order) {
			if l, ok := b.listeners[id]; ok {
				l(e)
			}
		}
	}
}
