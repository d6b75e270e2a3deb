package game

import "github.com/zyedidia/generic/mapset"

// matchesOf returns c followed by every active neighbour whose type equals
// c.Type+offset, and marks c visited. offset 0 is the plain same-type match;
// a positive offset asks whether c would still match after promotion.
func (g *Grid) matchesOf(c *Cell, offset int) []*Cell {
	c.visited = true
	out := []*Cell{c}
	for _, n := range g.ActiveNeighbors(c) {
		if n.Type == c.Type+offset {
			out = append(out, n)
		}
	}
	return out
}

// CollectCluster returns the same-type cluster reachable from seed, seed first,
// in first-insertion order. Each pass walks the current list from its end back to
// the start and expands every member not yet visited; members appended during a
// pass wait for the next one. It stops after a pass that expands nothing.
func (g *Grid) CollectCluster(seed *Cell) []*Cell {
	for i := range g.cells {
		g.cells[i].visited = false
	}

	members := mapset.New[Pos]()
	var list []*Cell
	add := func(cells []*Cell) {
		for _, c := range cells {
			if members.Has(c.Pos()) {
				continue
			}
			members.Put(c.Pos())
			list = append(list, c)
		}
	}

	add(g.matchesOf(seed, 0))
	for {
		expanded := false
		for i := len(list) - 1; i >= 0; i-- {
			if m := list[i]; !m.visited {
				add(g.matchesOf(m, 0))
				expanded = true
			}
		}
		if !expanded {
			return list
		}
	}
}
