// internal/game/resolve.go
//
// Post-attach reaction loop.
// Responsibilities:
//   - Detect the cluster around the current bubble and merge it (cluster or pair).
//   - Promote the survivor, or explode it with its neighbours when it would reach max rank.
//   - Prune bubbles no longer hanging from row 0 after every iteration.
//   - Report combo, perfect and re-enable once the grid settles.
//
// State machine:
//   scanning → (cluster | pair | no match) → pruning → scanning | settling
//   settling → releasing → done
//
// Each Step performs one transition so the caller owns the pacing between them.

package game

import "fmt"

type phase int

const (
	phaseScanning phase = iota
	phaseSettling
	phaseReleasing
	phaseDone
)

// Outcome summarises a finished resolution.
type Outcome struct {
	Combo   int // merges chained in this resolution
	Perfect bool
}

// Resolution is the step machine started by attaching a bubble.
type Resolution struct {
	g       *Grid
	sink    Sink
	maxRank int

	// onSettle, when set, runs at the end of the settle step.
	onSettle func(Outcome)

	phase   phase
	current *Cell
	combo   int
	merges  int
	outcome Outcome
}

func newResolution(g *Grid, start *Cell, maxRank int, sink Sink) *Resolution {
	return &Resolution{g: g, sink: sink, maxRank: maxRank, current: start}
}

// Done reports whether the input has been re-enabled.
func (r *Resolution) Done() bool { return r.phase == phaseDone }

// Outcome is only meaningful once Done.
func (r *Resolution) Outcome() Outcome { return r.outcome }

// Step advances one transition and reports whether the resolution is finished.
func (r *Resolution) Step() bool {
	switch r.phase {
	case phaseScanning:
		r.iterate()
	case phaseSettling:
		r.settle()
		r.phase = phaseReleasing
	case phaseReleasing:
		r.sink.ReenableInput()
		r.phase = phaseDone
	}
	return r.phase == phaseDone
}

// Run drives the resolution to completion.
func (r *Resolution) Run() Outcome {
	for !r.Step() {
	}
	return r.outcome
}

func (r *Resolution) iterate() {
	cluster := r.g.CollectCluster(r.current)

	var survivor *Cell
	merged := false
	switch {
	case len(cluster) > 2:
		survivor = r.g.mergeCluster(cluster, r.maxRank, r.sink)
		merged = true
	case len(cluster) == 2:
		survivor = r.g.mergePair(r.current, cluster[1], r.maxRank, r.sink)
		merged = true
	default:
		if r.merges == 0 {
			r.sink.NoMatch()
		}
	}
	if merged {
		r.combo++
		r.merges++
	}

	r.g.PruneDisconnected(r.sink)

	// a survivor pruned in the same iteration has nothing left to chain from
	if merged && survivor != nil && survivor.Active {
		r.current = survivor
		return
	}
	r.phase = phaseSettling
}

func (r *Resolution) settle() {
	if r.combo > 1 {
		r.sink.Combo(fmt.Sprintf("%dX", r.combo))
	}
	r.outcome.Combo = r.combo
	r.combo = 0
	if r.g.RowEmpty(0) {
		r.outcome.Perfect = true
		r.sink.Combo(LabelPerfect)
	}
	if r.onSettle != nil {
		r.onSettle(r.outcome)
	}
}

// mergePair folds assimilated into assimilator. It returns the promoted
// assimilator, or nil when the promotion would reach maxRank and the
// assimilator exploded instead.
func (g *Grid) mergePair(assimilated, assimilator *Cell, maxRank int, sink Sink) *Cell {
	sink.ScoreDelta(assimilated.Value())
	g.destroy(assimilated, sink)

	if assimilator.Type+1 >= maxRank {
		g.explode(assimilator, sink)
		return nil
	}
	assimilator.Type++
	return assimilator
}

// mergeCluster collapses a cluster of three or more into one survivor promoted
// by len(cluster) ranks. The survivor is the last member that would still match
// a neighbour after that promotion, else the last member. It returns nil when the
// promotion would reach maxRank and the survivor exploded instead.
func (g *Grid) mergeCluster(cluster []*Cell, maxRank int, sink Sink) *Cell {
	n := len(cluster)
	sink.ScoreDelta(cluster[0].Value() * n)

	survivor := cluster[n-1]
	for _, m := range cluster {
		if len(g.matchesOf(m, n)) > 1 {
			survivor = m
		}
	}
	for _, m := range cluster {
		g.destroy(m, sink)
	}

	promoted := survivor.Type + n
	if promoted >= maxRank {
		g.explode(survivor, sink)
		return nil
	}
	survivor.Type = promoted
	survivor.Active = true
	return survivor
}

// explode destroys center (when still active) and every active neighbour,
// reporting the value of what it removed.
func (g *Grid) explode(center *Cell, sink Sink) {
	neighbours := g.ActiveNeighbors(center)
	total := 0
	if center.Active {
		total += center.Value()
		g.destroy(center, sink)
	}
	sink.ClusterExploded(center.Pos())
	for _, n := range neighbours {
		total += n.Value()
		g.destroy(n, sink)
	}
	if total > 0 {
		sink.ScoreDelta(total)
	}
}

// markConnected flags cells hanging from row 0. Row 0 actives are connected;
// then rows 1..n-1 are swept once in order: an active cell with a connected
// neighbour becomes connected and marks all its active neighbours connected.
// A path that only closes through a row scanned later is not revisited.
func (g *Grid) markConnected() {
	for i := range g.cells {
		g.cells[i].connected = false
	}
	for c := 0; c < g.cols; c++ {
		if cell := g.At(0, c); cell.Active {
			cell.connected = true
		}
	}
	for r := 1; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := g.At(r, c)
			if !cell.Active {
				continue
			}
			neighbours := g.ActiveNeighbors(cell)
			linked := false
			for _, n := range neighbours {
				if n.connected {
					linked = true
					break
				}
			}
			if !linked {
				continue
			}
			cell.connected = true
			for _, n := range neighbours {
				n.connected = true
			}
		}
	}
}

// PruneDisconnected destroys every active cell left unconnected by the sweep
// and returns their combined value, scored when non-zero.
func (g *Grid) PruneDisconnected(sink Sink) int {
	g.markConnected()
	total := 0
	for i := range g.cells {
		c := &g.cells[i]
		if c.Active && !c.connected {
			total += c.Value()
			g.destroy(c, sink)
		}
	}
	if total > 0 {
		sink.ScoreDelta(total)
	}
	return total
}
