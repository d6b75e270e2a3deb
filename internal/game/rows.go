package game

import (
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bubbles/internal/pool"
)

// addNewLine pushes a fresh row in at the top. When row 0 holds anything, every
// row moves down by one first; one pool entry is discarded per bubble moved so the
// pool advances exactly as many times as bubbles were spawned. Row 0 is then refilled
// from the pool. If the restart line ends up occupied, the bottom rowsDeleted rows are
// cleared without score. It reports whether that overflow happened.
func (g *Grid) addNewLine(p *pool.Pool, restartLine, rowsDeleted int, sink Sink) bool {
	if !g.RowEmpty(0) {
		for r := g.rows - 2; r >= 0; r-- {
			for c := 0; c < g.cols; c++ {
				src, dst := g.At(r, c), g.At(r+1, c)
				if src.Active {
					dst.Type = src.Type
					dst.Active = true
					p.Discard()
				} else {
					dst.Active = false
				}
			}
		}
	}

	for c := 0; c < g.cols; c++ {
		g.Set(0, c, p.Draw())
	}

	if g.RowEmpty(restartLine) {
		return false
	}
	log.Debug().Int("restartLine", restartLine).Int("rowsDeleted", rowsDeleted).Msg("restart line reached")
	g.destroyBottomRows(rowsDeleted, sink)
	return true
}

// destroyBottomRows clears the last n rows. Nothing is scored.
func (g *Grid) destroyBottomRows(n int, sink Sink) {
	for r := g.rows - n; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if cell := g.At(r, c); cell.Active {
				g.destroy(cell, sink)
			}
		}
	}
	sink.Combo(LabelKeepOn)
}
