package game

import "math"

// attachReach is the largest distance between a shot and a free slot that still
// snaps the shot into that slot.
const attachReach = 2.0

// Layout maps grid slots to world coordinates. The grid is centred on the origin
// and even columns sit half a tile lower than odd ones.
type Layout struct {
	Rows int
	Cols int
	Tile float64
}

// Position returns the world centre of p.
func (l Layout) Position(p Pos) (x, y float64) {
	offX := float64(l.Cols)*l.Tile*0.5 - l.Tile*0.5
	offY := float64(l.Rows)*l.Tile*0.5 - l.Tile*0.5
	x = float64(p.Col)*l.Tile - offX
	y = offY - float64(p.Row)*l.Tile
	if p.Col%2 == 0 {
		y -= l.Tile * 0.5
	}
	return x, y
}

// Nearest picks the candidate closest to (x, y) within attachReach.
// Ties keep the earlier candidate.
func (l Layout) Nearest(cands []Pos, x, y float64) (Pos, bool) {
	best, found := Pos{}, false
	min := attachReach
	for _, p := range cands {
		px, py := l.Position(p)
		if d := math.Hypot(px-x, py-y); d < min {
			min, best, found = d, p, true
		}
	}
	return best, found
}
