// internal/pool/pool.go
//
// Type sequence generation for the bubble grid.
// Responsibilities:
//   - Generate runs of bubble types whose run length is controlled by a change rate.
//   - Shuffle a generated batch with a single Fisher-Yates pass.
//   - Hand out types front-first (FIFO) and regenerate before a caller can run dry.
//
// Notes:
//   - All randomness comes from the *rand.Rand handed in by the caller, so a seeded
//     session (daily mode) reproduces the exact same sequence.
//   - Drawing from an empty pool is an invariant violation and panics.

package pool

import (
	"errors"
	"math/rand"
)

// ErrExhausted is the panic value raised when a type is drawn from an empty pool.
var ErrExhausted = errors.New("type pool exhausted")

// Options are the generator tunables.
type Options struct {
	Length     int     // entries per generated batch
	ChangeRate float64 // probability threshold; a draw above it switches type
	MaxType    int     // generated types are in [0, MaxType)
}

// Generator produces batches of types with controllable homogeneity.
// The last emitted type carries over between batches.
type Generator struct {
	rng  *rand.Rand
	opts Options
	last int
}

// NewGenerator seeds the running type with a uniform draw.
func NewGenerator(rng *rand.Rand, opts Options) *Generator {
	g := &Generator{rng: rng, opts: opts}
	g.last = g.randomType()
	return g
}

// Generate returns opts.Length types. For every entry a fraction in [0,1) is drawn;
// if it exceeds ChangeRate the running type is redrawn, then the running type is appended.
func (g *Generator) Generate() []int {
	out := make([]int, 0, g.opts.Length)
	for i := 0; i < g.opts.Length; i++ {
		if g.rng.Float64() > g.opts.ChangeRate {
			g.last = g.randomType()
		}
		out = append(out, g.last)
	}
	return out
}

func (g *Generator) randomType() int {
	if g.opts.MaxType <= 0 {
		return 0
	}
	return g.rng.Intn(g.opts.MaxType)
}

// Shuffle permutes types in place: walking from the last element down to the
// second, each element is swapped with a uniformly chosen index at or before it.
func Shuffle(rng *rand.Rand, types []int) {
	for n := len(types); n > 1; {
		n--
		k := rng.Intn(n + 1)
		types[k], types[n] = types[n], types[k]
	}
}

// Pool is the front-consumable sequence of pending types.
type Pool struct {
	gen     *Generator
	rng     *rand.Rand
	items   []int
	batches int
}

// New builds a pool holding one generated and shuffled batch.
func New(rng *rand.Rand, opts Options) *Pool {
	p := &Pool{gen: NewGenerator(rng, opts), rng: rng}
	p.refill()
	return p
}

// Len is the number of pending types.
func (p *Pool) Len() int { return len(p.items) }

// Batches reports how many batches have been generated so far.
func (p *Pool) Batches() int { return p.batches }

// peek returns the head without consuming it.
func (p *Pool) peek() (int, bool) {
	if len(p.items) == 0 {
		return 0, false
	}
	return p.items[0], true
}

// Draw removes and returns the head of the pool.
func (p *Pool) Draw() int {
	if len(p.items) == 0 {
		panic(ErrExhausted)
	}
	t := p.items[0]
	p.items = p.items[1:]
	return t
}

// Discard drops the head of the pool without using it.
func (p *Pool) Discard() { _ = p.Draw() }

// Reserve guarantees at least n pending types, appending freshly generated
// batches when needed. It reports whether a batch was generated.
func (p *Pool) Reserve(n int) bool {
	grew := false
	for len(p.items) < n {
		p.refill()
		grew = true
	}
	return grew
}

func (p *Pool) refill() {
	batch := p.gen.Generate()
	if len(batch) == 0 {
		// a zero-length generator can never satisfy Reserve
		panic(ErrExhausted)
	}
	Shuffle(p.rng, batch)
	// copy so the consumed prefix of the old backing array is released
	items := make([]int, 0, len(p.items)+len(batch))
	items = append(items, p.items...)
	p.items = append(items, batch...)
	p.batches++
}
