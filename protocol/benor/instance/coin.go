package instance

import (
	"math/rand/v2"
	"sync"

	"github.com/ssvlabs/benor/protocol/benor/types"
)

// Coin breaks ties when a round produced no concrete phase-two vote.
type Coin interface {
	Flip() types.Value
}

// RandomCoin is a seedable uniform coin.
type RandomCoin struct {
	lock sync.Mutex
	rng  *rand.Rand
}

func NewRandomCoin(seed uint64) *RandomCoin {
	return &RandomCoin{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (c *RandomCoin) Flip() types.Value {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.rng.IntN(2) == 0 {
		return types.Zero
	}
	return types.One
}

// FixedCoin returns its values in order and repeats the last one.
// An empty FixedCoin always returns Zero.
type FixedCoin struct {
	lock   sync.Mutex
	values []types.Value
	flips  int
}

func NewFixedCoin(values ...types.Value) *FixedCoin {
	return &FixedCoin{values: values}
}

func (c *FixedCoin) Flip() types.Value {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.flips++
	if len(c.values) == 0 {
		return types.Zero
	}
	i := min(c.flips, len(c.values)) - 1
	return c.values[i]
}

// Flips returns how many times the coin was flipped.
func (c *FixedCoin) Flips() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.flips
}
