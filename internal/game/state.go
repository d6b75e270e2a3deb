package game

// CellState is one occupied slot in a snapshot.
type CellState struct {
	Row   int     `json:"row"   msgpack:"row"`
	Col   int     `json:"col"   msgpack:"col"`
	Type  int     `json:"type"  msgpack:"type"`
	Value int     `json:"value" msgpack:"value"`
	X     float64 `json:"x"     msgpack:"x"`
	Y     float64 `json:"y"     msgpack:"y"`
}

// State is a read-only view of a session between resolutions.
type State struct {
	ID          string      `json:"gameId"      msgpack:"gameId"`
	Mode        string      `json:"mode"        msgpack:"mode"`
	Player      string      `json:"player"      msgpack:"player"`
	Rows        int         `json:"rows"        msgpack:"rows"`
	Cols        int         `json:"cols"        msgpack:"cols"`
	Cells       []CellState `json:"cells"       msgpack:"cells"`
	Loaded      int         `json:"loaded"      msgpack:"loaded"`
	LoadedValue int         `json:"loadedValue" msgpack:"loadedValue"`
	Shots       int         `json:"shots"       msgpack:"shots"`
	Busy        bool        `json:"busy"        msgpack:"busy"`
	Score       int         `json:"score"       msgpack:"score"`
	Level       int         `json:"level"       msgpack:"level"`
	NextLevel   int         `json:"nextLevel"   msgpack:"nextLevel"`
	BestCombo   int         `json:"bestCombo"   msgpack:"bestCombo"`
	Perfects    int         `json:"perfects"    msgpack:"perfects"`
}

// Snapshot copies the visible state of the session.
func (s *Session) Snapshot() State {
	st := State{
		ID:          s.ID,
		Mode:        s.Mode,
		Player:      s.Player,
		Rows:        s.cfg.Rows,
		Cols:        s.cfg.Columns,
		Cells:       make([]CellState, 0, s.grid.ActiveCount()),
		Loaded:      s.loaded,
		LoadedValue: Value(s.loaded),
		Shots:       s.shots,
		Busy:        s.active != nil,
		Score:       s.progress.Total,
		Level:       s.progress.Level,
		NextLevel:   s.progress.Next,
		BestCombo:   s.bestCombo,
		Perfects:    s.perfects,
	}
	s.grid.Each(func(c *Cell) {
		if !c.Active {
			return
		}
		x, y := s.layout.Position(c.Pos())
		st.Cells = append(st.Cells, CellState{Row: c.Row, Col: c.Col, Type: c.Type, Value: c.Value(), X: x, Y: y})
	})
	return st
}
