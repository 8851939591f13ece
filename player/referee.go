package player

import (
	"slices"

	"golang.org/x/exp/rand"
)

// Referee decides battle rounds outside the rules engine by rolling classic
// dice: up to three for the attacker (keeping one army home), up to two for
// the defender, highest against highest with ties to the defender.
type Referee struct {
	rng *rand.Rand
}

func NewReferee(seed uint64) *Referee {
	return &Referee{rng: rand.New(rand.NewSource(seed))}
}

// Round returns the army counts left after one round. attacker must be at
// least 2 and defender at least 1.
func (r *Referee) Round(attacker, defender int) (int, int) {
	ad := r.roll(min(3, attacker-1))
	dd := r.roll(min(2, defender))
	for i := range min(len(ad), len(dd)) {
		if ad[i] > dd[i] {
			defender--
		} else {
			attacker--
		}
	}
	return attacker, defender
}

// roll returns n dice, highest first.
func (r *Referee) roll(n int) []int {
	dice := make([]int, n)
	for i := range dice {
		dice[i] = r.rng.Intn(6) + 1
	}
	slices.Sort(dice)
	slices.Reverse(dice)
	return dice
}
