package pool

import (
	"math/rand"
	"sort"
	"testing"
)

func TestShuffleIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	gen := NewGenerator(rng, Options{Length: 500, ChangeRate: 0.5, MaxType: 4})
	generated := gen.Generate()

	shuffled := append([]int(nil), generated...)
	Shuffle(rng, shuffled)

	if len(shuffled) != len(generated) {
		t.Fatalf("length changed: %d -> %d", len(generated), len(shuffled))
	}
	a := append([]int(nil), generated...)
	b := append([]int(nil), shuffled...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("multiset differs at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateRange(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "four types", opts: Options{Length: 200, ChangeRate: 0.3, MaxType: 4}},
		{name: "single type", opts: Options{Length: 50, ChangeRate: 0, MaxType: 1}},
		{name: "zero max type", opts: Options{Length: 50, ChangeRate: 0.5, MaxType: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewGenerator(rand.New(rand.NewSource(1)), tt.opts)
			out := gen.Generate()
			if len(out) != tt.opts.Length {
				t.Fatalf("want %d entries, got %d", tt.opts.Length, len(out))
			}
			hi := tt.opts.MaxType
			if hi < 1 {
				hi = 1
			}
			for i, v := range out {
				if v < 0 || v >= hi {
					t.Fatalf("entry %d out of range: %d", i, v)
				}
			}
		})
	}
}

func TestChangeRateOneNeverSwitches(t *testing.T) {
	// Float64 is in [0,1) so it never exceeds a rate of 1.
	gen := NewGenerator(rand.New(rand.NewSource(3)), Options{Length: 100, ChangeRate: 1, MaxType: 5})
	out := gen.Generate()
	for i := 1; i < len(out); i++ {
		if out[i] != out[0] {
			t.Fatalf("type switched at %d: %v", i, out[:i+1])
		}
	}
}

func TestSeededPoolsMatch(t *testing.T) {
	opts := Options{Length: 64, ChangeRate: 0.5, MaxType: 4}
	a := New(rand.New(rand.NewSource(99)), opts)
	b := New(rand.New(rand.NewSource(99)), opts)
	for i := 0; i < opts.Length; i++ {
		if x, y := a.Draw(), b.Draw(); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}

func TestDrawAndReserve(t *testing.T) {
	p := New(rand.New(rand.NewSource(5)), Options{Length: 10, ChangeRate: 0.5, MaxType: 3})
	if p.Len() != 10 || p.Batches() != 1 {
		t.Fatalf("fresh pool: len=%d batches=%d", p.Len(), p.Batches())
	}
	head, _ := p.peek()
	if got := p.Draw(); got != head {
		t.Fatalf("draw returned %d, head was %d", got, head)
	}
	p.Discard()
	if p.Len() != 8 {
		t.Fatalf("want 8 pending, got %d", p.Len())
	}
	if p.Reserve(8) {
		t.Fatal("reserve within length should not regenerate")
	}
	if !p.Reserve(25) {
		t.Fatal("reserve beyond length should regenerate")
	}
	if p.Len() < 25 {
		t.Fatalf("reserve left only %d", p.Len())
	}
}

func TestDrawEmptyPanics(t *testing.T) {
	p := New(rand.New(rand.NewSource(5)), Options{Length: 2, ChangeRate: 0.5, MaxType: 3})
	p.Draw()
	p.Draw()
	defer func() {
		if r := recover(); r != ErrExhausted {
			t.Fatalf("want ErrExhausted panic, got %v", r)
		}
	}()
	p.Draw()
}
