package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

const (
	// NumDice is the number of dice in a roll.
	NumDice = 5
	// MaxRolls is the roll budget per turn, counting the automatic first
	// roll.
	MaxRolls = 3
)

// Dice holds one roll of five die faces, each 1-6.
type Dice [NumDice]int

// HoldMask marks dice that are kept unchanged on the next re-roll.
type HoldMask [NumDice]bool

// Sum returns the total of all five faces.
func (d Dice) Sum() int {
	total := 0
	for _, face := range d {
		total += face
	}
	return total
}

// Counts returns how many dice show each face, indexed 1-6.
func (d Dice) Counts() [7]int {
	var counts [7]int
	for _, face := range d {
		counts[face]++
	}
	return counts
}

// Roller draws die faces from a server-local random source. Clients never
// influence it.
type Roller struct {
	rng *rand.Rand
}

// NewRoller builds a roller over the given source. Tests pass a seeded
// source for determinism.
func NewRoller(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// NewEntropyRoller builds a roller seeded from the operating system's
// entropy source.
func NewEntropyRoller() *Roller {
	var seed [16]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// Entropy failure is unrecoverable for a dice server.
		panic("failed to read entropy for dice roller: " + err.Error())
	}

	src := rand.NewPCG(
		binary.LittleEndian.Uint64(seed[:8]),
		binary.LittleEndian.Uint64(seed[8:]),
	)
	return &Roller{rng: rand.New(src)}
}

// Roll replaces every die not marked held with a fresh uniform draw in 1-6.
// Held dice are copied from prev unchanged.
func (r *Roller) Roll(prev Dice, hold HoldMask) Dice {
	next := prev
	for i := range next {
		if !hold[i] {
			next[i] = r.rng.IntN(6) + 1
		}
	}
	return next
}

// Perm returns a random permutation of [0, n), used to fix the turn order
// at game start.
func (r *Roller) Perm(n int) []int {
	return r.rng.Perm(n)
}
