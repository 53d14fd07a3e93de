package streamhash

import (
	"math"
	"math/rand"
)

// Geometric draws non-negative skip counts from a Geometric(p) distribution
// via inverse-transform sampling. There is no probability-distribution
// package anywhere in this lineage; the standard library's math/rand is
// used directly here the same way it is used for Zipf-distributed
// synthetic load elsewhere in this family of codebases.
type Geometric struct {
	p   float64
	rng *rand.Rand
}

// NewGeometric builds a sampler for Geometric(p), 0 < p <= 1. A seed of 0
// seeds from a fixed, reproducible source; any other seed is passed through
// to rand.NewSource so that two Geometric samplers built from the same
// non-zero seed draw identical sequences.
func NewGeometric(p float64, seed int64) *Geometric {
	if p <= 0 || p > 1 {
		panic("streamhash: geometric probability must be in (0, 1]")
	}
	return &Geometric{p: p, rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// Next draws the number of trials to skip before the next success: 0 means
// "the very next update succeeds". The result is a skip count, not a scale:
// callers unbias with Factor, not with this value.
func (g *Geometric) Next() int {
	if g.p >= 1 {
		return 0
	}
	u := g.rng.Float64()
	for u == 0 {
		u = g.rng.Float64()
	}
	skip := int(math.Log(u) / math.Log(1-g.p))
	if skip < 0 {
		return 0
	}
	return skip
}

// Factor returns the unbiasing scale factor round(1/p) for the sampler's
// probability.
func (g *Geometric) Factor() uint64 {
	return uint64(math.Round(1 / g.p))
}
