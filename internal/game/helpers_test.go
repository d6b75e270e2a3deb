package game

import (
	"strconv"
	"strings"
	"testing"
)

// gridFrom builds a grid from rows of space-separated tokens: "." is an empty
// slot, a number is an active bubble of that type.
func gridFrom(t *testing.T, rows ...string) *Grid {
	t.Helper()
	cols := len(strings.Fields(rows[0]))
	g := NewGrid(len(rows), cols)
	for r, line := range rows {
		fields := strings.Fields(line)
		if len(fields) != cols {
			t.Fatalf("row %d has %d columns, want %d", r, len(fields), cols)
		}
		for c, tok := range fields {
			if tok == "." {
				continue
			}
			n, err := strconv.Atoi(tok)
			if err != nil {
				t.Fatalf("row %d col %d: %v", r, c, err)
			}
			g.Set(r, c, n)
		}
	}
	return g
}

// dump renders g in the gridFrom format.
func dump(g *Grid) []string {
	out := make([]string, g.Rows())
	for r := 0; r < g.Rows(); r++ {
		toks := make([]string, g.Columns())
		for c := 0; c < g.Columns(); c++ {
			if cell := g.At(r, c); cell.Active {
				toks[c] = strconv.Itoa(cell.Type)
			} else {
				toks[c] = "."
			}
		}
		out[r] = strings.Join(toks, " ")
	}
	return out
}

func assertGrid(t *testing.T, g *Grid, want ...string) {
	t.Helper()
	got := dump(g)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("grid mismatch at row %d\n got: %q\nwant: %q", i, got, want)
		}
	}
}

// attach places t at (row, col) and runs a full resolution with the default max rank.
func attach(t *testing.T, g *Grid, row, col, typ int) (*Recorder, Outcome) {
	t.Helper()
	g.Set(row, col, typ)
	rec := &Recorder{}
	out := newResolution(g, g.At(row, col), 10, rec).Run()
	return rec, out
}

func positions(cells []*Cell) []Pos {
	out := make([]Pos, len(cells))
	for i, c := range cells {
		out[i] = c.Pos()
	}
	return out
}

func destroyed(evs []Event) []Pos {
	var out []Pos
	for _, e := range evs {
		if e.Kind == EventDestroy {
			out = append(out, *e.At)
		}
	}
	return out
}

func equalPos(a, b []Pos) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StepDelay = 0
	return cfg
}
