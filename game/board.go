package game

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

type (
	PlayerID    string
	TerritoryID string
	ContinentID string
)

// TerritoryDef is the static part of a territory: its name, continent and borders.
type TerritoryDef struct {
	ID        TerritoryID
	Name      string
	Continent ContinentID
	Neighbors []TerritoryID
}

// ContinentDef is a named group of territories worth a bonus when fully owned.
type ContinentDef struct {
	ID          ContinentID
	Name        string
	Bonus       int
	Territories []TerritoryID
}

// Board represents the static map graph. It is shared by every game played on it
// and must not be modified once a game has been created.
type Board struct {
	Name        string
	territories map[TerritoryID]*TerritoryDef
	continents  map[ContinentID]*ContinentDef
	order       []TerritoryID
	cOrder      []ContinentID
}

// NewBoard creates and returns an empty Board.
func NewBoard(name string) *Board {
	return &Board{
		Name:        name,
		territories: make(map[TerritoryID]*TerritoryDef),
		continents:  make(map[ContinentID]*ContinentDef),
	}
}

// AddTerritory adds a territory to the board. Adding an existing id renames it.
func (b *Board) AddTerritory(id TerritoryID, name string) {
	if t, ok := b.territories[id]; ok {
		t.Name = name
		return
	}
	b.territories[id] = &TerritoryDef{ID: id, Name: name}
	b.order = append(b.order, id)
}

// AddBorder adds a bidirectional border between two territories.
func (b *Board) AddBorder(id1, id2 TerritoryID) error {
	t1, ok1 := b.territories[id1]
	t2, ok2 := b.territories[id2]
	if !ok1 || !ok2 {
		return newError(CodeInvalidBoard, "border %s-%s references an unknown territory", id1, id2)
	}
	if id1 == id2 {
		return newError(CodeInvalidBoard, "territory %s cannot border itself", id1)
	}
	if !slices.Contains(t1.Neighbors, id2) {
		t1.Neighbors = append(t1.Neighbors, id2)
	}
	if !slices.Contains(t2.Neighbors, id1) {
		t2.Neighbors = append(t2.Neighbors, id1)
	}
	return nil
}

// AddContinent groups territories into a continent worth bonus armies.
func (b *Board) AddContinent(id ContinentID, name string, bonus int, members ...TerritoryID) error {
	if _, ok := b.continents[id]; ok {
		return newError(CodeInvalidBoard, "duplicate continent %s", id)
	}
	for _, tid := range members {
		t, ok := b.territories[tid]
		if !ok {
			return newError(CodeInvalidBoard, "continent %s references unknown territory %s", id, tid)
		}
		if t.Continent != "" {
			return newError(CodeInvalidBoard, "territory %s already belongs to %s", tid, t.Continent)
		}
		t.Continent = id
	}
	b.continents[id] = &ContinentDef{ID: id, Name: name, Bonus: bonus, Territories: slices.Clone(members)}
	b.cOrder = append(b.cOrder, id)
	return nil
}

// Validate checks that borders are symmetric and that continents partition the territories.
func (b *Board) Validate() error {
	if len(b.territories) == 0 {
		return newError(CodeInvalidBoard, "board %q has no territories", b.Name)
	}
	for _, id := range b.order {
		t := b.territories[id]
		if t.Continent == "" {
			return newError(CodeInvalidBoard, "territory %s belongs to no continent", id)
		}
		for _, n := range t.Neighbors {
			other, ok := b.territories[n]
			if !ok {
				return newError(CodeInvalidBoard, "territory %s borders unknown %s", id, n)
			}
			if !slices.Contains(other.Neighbors, id) {
				return newError(CodeInvalidBoard, "border %s-%s is not symmetric", id, n)
			}
		}
	}
	for _, cid := range b.cOrder {
		if len(b.continents[cid].Territories) == 0 {
			return newError(CodeInvalidBoard, "continent %s is empty", cid)
		}
	}
	return nil
}

// Territory returns the definition of a territory.
func (b *Board) Territory(id TerritoryID) (TerritoryDef, bool) {
	t, ok := b.territories[id]
	if !ok {
		return TerritoryDef{}, false
	}
	def := *t
	def.Neighbors = slices.Clone(t.Neighbors)
	return def, true
}

// Continent returns the definition of a continent.
func (b *Board) Continent(id ContinentID) (ContinentDef, bool) {
	c, ok := b.continents[id]
	if !ok {
		return ContinentDef{}, false
	}
	def := *c
	def.Territories = slices.Clone(c.Territories)
	return def, true
}

// TerritoryIDs returns territory ids in insertion order.
func (b *Board) TerritoryIDs() []TerritoryID {
	return slices.Clone(b.order)
}

// ContinentIDs returns continent ids in insertion order.
func (b *Board) ContinentIDs() []ContinentID {
	return slices.Clone(b.cOrder)
}

// AreAdjacent checks if two territories share a border.
func (b *Board) AreAdjacent(id1, id2 TerritoryID) bool {
	t, ok := b.territories[id1]
	return ok && slices.Contains(t.Neighbors, id2)
}

func (b *Board) neighbors(id TerritoryID) []TerritoryID {
	if t, ok := b.territories[id]; ok {
		return t.Neighbors
	}
	return nil
}

// boardFile is the YAML layout of a board definition.
type boardFile struct {
	Name       string `yaml:"name"`
	Continents []struct {
		ID          ContinentID `yaml:"id"`
		Name        string      `yaml:"name"`
		Bonus       int         `yaml:"bonus"`
		Territories []struct {
			ID   TerritoryID `yaml:"id"`
			Name string      `yaml:"name"`
		} `yaml:"territories"`
	} `yaml:"continents"`
	Borders [][2]TerritoryID `yaml:"borders"`
}

// LoadBoard reads a YAML board definition and validates it.
func LoadBoard(r io.Reader) (*Board, error) {
	var f boardFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}

	b := NewBoard(f.Name)
	for _, c := range f.Continents {
		members := make([]TerritoryID, 0, len(c.Territories))
		for _, t := range c.Territories {
			b.AddTerritory(t.ID, t.Name)
			members = append(members, t.ID)
		}
		if err := b.AddContinent(c.ID, c.Name, c.Bonus, members...); err != nil {
			return nil, err
		}
	}
	for _, border := range f.Borders {
		if err := b.AddBorder(border[0], border[1]); err != nil {
			return nil, err
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

//go:embed boards/classic.yaml
var classicYAML []byte

// ClassicBoard returns the standard 42-territory world map.
func ClassicBoard() (*Board, error) {
	return LoadBoard(bytes.NewReader(classicYAML))
}

// MustClassicBoard is like ClassicBoard but panics on error. The embedded map is
// covered by tests, so a failure here is a build defect.
func MustClassicBoard() *Board {
	b, err := ClassicBoard()
	if err != nil {
		panic(err)
	}
	return b
}
