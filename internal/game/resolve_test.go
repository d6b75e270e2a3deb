package game

import "testing"

func TestResolvePairMerge(t *testing.T) {
	g := gridFrom(t,
		"2 . 5 6",
		". . . .",
	)
	rec, out := attach(t, g, 0, 1, 2)

	assertGrid(t, g,
		"3 . 5 6",
		". . . .",
	)
	if got := ScoreTotal(rec.Events()); got != 8 {
		t.Fatalf("score %d, want 8", got)
	}
	if got := destroyed(rec.Events()); !equalPos(got, []Pos{{0, 1}}) {
		t.Fatalf("destroyed %v", got)
	}
	if out.Combo != 1 || out.Perfect {
		t.Fatalf("outcome %+v", out)
	}
	if labels := Labels(rec.Events()); len(labels) != 0 {
		t.Fatalf("single merge should not show a combo, got %v", labels)
	}
	last := rec.Events()[len(rec.Events())-1]
	if last.Kind != EventReenable {
		t.Fatalf("last event %v, want reenable", last.Kind)
	}
}

func TestResolveClusterOfThree(t *testing.T) {
	g := gridFrom(t,
		"2 2 . 7",
		". . . .",
	)
	rec, out := attach(t, g, 0, 2, 2)

	// promoted by the cluster size onto the last member
	assertGrid(t, g,
		"5 . . 7",
		". . . .",
	)
	evs := rec.Events()
	if evs[0].Kind != EventScore || evs[0].Amount != 24 {
		t.Fatalf("first event %+v, want score 24", evs[0])
	}
	if got := destroyed(evs); !equalPos(got, []Pos{{0, 2}, {0, 1}, {0, 0}}) {
		t.Fatalf("destroyed %v", got)
	}
	if ScoreTotal(evs) != 24 || out.Combo != 1 {
		t.Fatalf("score %d combo %d", ScoreTotal(evs), out.Combo)
	}
}

func TestResolveSurvivorProbeChains(t *testing.T) {
	g := gridFrom(t,
		"2 2 . 5",
		". . . .",
	)
	rec, out := attach(t, g, 0, 2, 2)

	// (0,2) is kept because at type 5 it pairs with (0,3), which then becomes 6
	assertGrid(t, g,
		". . . 6",
		". . . .",
	)
	if got := ScoreTotal(rec.Events()); got != 24+64 {
		t.Fatalf("score %d, want 88", got)
	}
	if out.Combo != 2 {
		t.Fatalf("combo %d, want 2", out.Combo)
	}
	if labels := Labels(rec.Events()); len(labels) != 1 || labels[0] != "2X" {
		t.Fatalf("labels %v", labels)
	}
}

func TestResolveOverflowExplosion(t *testing.T) {
	g := gridFrom(t,
		"9 . 3",
		"4 . .",
	)
	rec, out := attach(t, g, 0, 1, 9)

	assertGrid(t, g,
		". . 3",
		". . .",
	)
	evs := rec.Events()
	if got := destroyed(evs); !equalPos(got, []Pos{{0, 1}, {0, 0}, {1, 0}}) {
		t.Fatalf("destroyed %v", got)
	}
	exploded := 0
	for _, e := range evs {
		if e.Kind == EventExplode {
			exploded++
			if *e.At != (Pos{0, 0}) {
				t.Fatalf("explosion at %v", *e.At)
			}
		}
	}
	if exploded != 1 {
		t.Fatalf("%d explosions", exploded)
	}
	// pair delta for the assimilated 9, then the exploded 9 and its neighbour 4
	if got := ScoreTotal(evs); got != 1024+1024+32 {
		t.Fatalf("score %d", got)
	}
	g.Each(func(c *Cell) {
		if c.Active && c.Type >= 10 {
			t.Fatalf("%v reached max rank", c.Pos())
		}
	})
	if out.Combo != 1 || out.Perfect {
		t.Fatalf("outcome %+v", out)
	}
}

func TestResolveClusterOverflow(t *testing.T) {
	g := gridFrom(t,
		"8 8 . 1",
		". 4 . .",
	)
	rec, _ := attach(t, g, 0, 2, 8)

	// 8+3 would pass max rank: the survivor (0,0) explodes with its neighbours;
	// (1,1) is adjacent to (0,0) so it goes too, and (0,3) stays hanging from row 0
	assertGrid(t, g,
		". . . 1",
		". . . .",
	)
	if got := ScoreTotal(rec.Events()); got != 512*3+32 {
		t.Fatalf("score %d", got)
	}
}

func TestResolvePerfect(t *testing.T) {
	g := gridFrom(t,
		"9 .",
		"2 .",
	)
	rec, out := attach(t, g, 0, 1, 9)

	if !g.RowEmpty(0) || g.ActiveCount() != 0 {
		t.Fatalf("grid not cleared: %q", dump(g))
	}
	labels := Labels(rec.Events())
	if len(labels) != 1 || labels[0] != LabelPerfect {
		t.Fatalf("labels %v, want exactly one PERFECT", labels)
	}
	if !out.Perfect {
		t.Fatal("outcome should be perfect")
	}
}

func TestResolveNoMatchPrunesDisconnected(t *testing.T) {
	g := gridFrom(t,
		"1 . .",
		". . .",
		". . .",
		". . 4",
	)
	rec, out := attach(t, g, 0, 1, 3)

	assertGrid(t, g,
		"1 3 .",
		". . .",
		". . .",
		". . .",
	)
	evs := rec.Events()
	want := []EventKind{EventNoMatch, EventDestroy, EventScore, EventReenable}
	if len(evs) != len(want) {
		t.Fatalf("events %+v", evs)
	}
	for i, k := range want {
		if evs[i].Kind != k {
			t.Fatalf("event %d is %v, want %v", i, evs[i].Kind, k)
		}
	}
	if evs[2].Amount != 32 {
		t.Fatalf("pruned value %d, want 32", evs[2].Amount)
	}
	if out.Combo != 0 {
		t.Fatalf("combo %d", out.Combo)
	}
}

func TestPruneSingleForwardSweep(t *testing.T) {
	// (1,0) hangs from row 0 through (2,0) -> (3,1) -> (2,2) -> (1,2) -> (0,2),
	// but that path is only discovered after row 1 has been swept.
	g := gridFrom(t,
		". . 1 .",
		"2 . 3 .",
		"4 . 5 .",
		". 6 . .",
	)
	rec := &Recorder{}
	if got := g.PruneDisconnected(rec); got != 8 {
		t.Fatalf("pruned value %d, want 8", got)
	}
	if got := destroyed(rec.Events()); !equalPos(got, []Pos{{1, 0}}) {
		t.Fatalf("destroyed %v", got)
	}
	if !g.At(2, 0).Active {
		t.Fatal("(2,0) was reached by propagation and must stay")
	}
}

func TestResolutionSteps(t *testing.T) {
	g := gridFrom(t,
		"2 . 5 6",
		". . . .",
	)
	g.Set(0, 1, 2)
	rec := &Recorder{}
	r := newResolution(g, g.At(0, 1), 10, rec)

	var batches [][]Event
	for i := 0; i < 10; i++ {
		done := r.Step()
		batches = append(batches, rec.Drain())
		if done {
			break
		}
	}
	// merge, no match, settle, release
	if len(batches) != 4 || !r.Done() {
		t.Fatalf("%d steps, done=%v", len(batches), r.Done())
	}
	if ScoreTotal(batches[0]) != 8 || len(batches[1]) != 0 {
		t.Fatalf("unexpected step events: %+v", batches)
	}
	if len(batches[3]) != 1 || batches[3][0].Kind != EventReenable {
		t.Fatalf("release step %+v", batches[3])
	}
	if r.Step() != true || len(rec.Events()) != 0 {
		t.Fatal("stepping a finished resolution must be a no-op")
	}
}
