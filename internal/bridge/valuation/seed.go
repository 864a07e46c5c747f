package valuation

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// Rand is the subset of *math/rand.Rand the engine draws bonuses from.
type Rand interface {
	Int63n(n int64) int64
}

// RandFactory builds a random source for one valuation.
type RandFactory func(seed int64) Rand

func MathRandFactory(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// NewSeed generates a rule set seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func eventSeed(setSeed int64, event domain.DomainEvent) int64 {
	h := fnv.New64a()
	h.Write([]byte(event.ID))
	h.Write([]byte{0})
	h.Write([]byte(event.Kind.String()))
	h.Write([]byte{0})
	h.Write([]byte(domain.NormalizeSpecies(event.Creature.Species)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(event.Creature.Level)))
	if event.Creature.Shiny {
		h.Write([]byte{1})
	}

	return setSeed ^ int64(h.Sum64())
}
