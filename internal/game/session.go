// internal/game/session.go
//
// A single game: grid, type pool, shooter and score, owned by one Session.
// Responsibilities:
//   - Build the grid from a validated Config and fill the initial visible rows.
//   - Accept attach / fire / add-line input, refusing it while a resolution runs.
//   - Advance the active resolution one step at a time (the caller paces steps).
//   - Load the next shot after every settled resolution and add a line every
//     ShotsBeforeNewLine shots.
//
// Notes:
//   - A Session is not safe for concurrent use; callers hold Lock while using it.
//   - Every random draw comes from one seeded source, so a seed replays a game.

package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bubbles/internal/pool"
)

// Game modes.
const (
	ModeClassic = "classic"
	ModeDaily   = "daily"
)

// Session owns all the state of one game.
type Session struct {
	sync.Mutex

	ID      string
	Mode    string
	Seed    int64
	Player  string // display name for the score ledger, set by the caller
	Created time.Time

	cfg      Config
	rng      *rand.Rand
	grid     *Grid
	pool     *pool.Pool
	layout   Layout
	progress *Progress
	rec      Recorder
	sink     *sessionSink
	active   *Resolution

	loaded    int
	shots     int
	bestCombo int
	perfects  int
}

// sessionSink records events and credits score to the session progress.
type sessionSink struct {
	*Recorder
	progress *Progress
}

func (k *sessionSink) ScoreDelta(amount int) {
	k.Recorder.ScoreDelta(amount)
	if k.progress.Add(amount) {
		k.Recorder.Combo(LabelLevelUp)
	}
}

// NewSession validates cfg and builds a filled grid. The same cfg and seed
// always produce the same game.
func NewSession(cfg Config, mode string, seed int64) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	s := &Session{
		ID:      uuid.NewString(),
		Mode:    mode,
		Seed:    seed,
		Created: time.Now().UTC(),
		cfg:     cfg,
		rng:     rng,
		grid:    NewGrid(cfg.Rows, cfg.Columns),
		pool: pool.New(rng, pool.Options{
			Length:     cfg.TypePoolLength,
			ChangeRate: cfg.ChangeTypeRate,
			MaxType:    cfg.MaxGeneratedBubbleType,
		}),
		layout:   Layout{Rows: cfg.Rows, Cols: cfg.Columns, Tile: cfg.TileSize},
		progress: NewProgress(cfg.LevelScore),
	}
	s.sink = &sessionSink{Recorder: &s.rec, progress: s.progress}

	s.reserve(cfg.InitialVisibleRows * cfg.Columns)
	for r := 0; r < cfg.InitialVisibleRows; r++ {
		for c := 0; c < cfg.Columns; c++ {
			s.grid.Set(r, c, s.pool.Draw())
		}
	}
	s.loaded = s.nextShot()
	return s, nil
}

// Busy reports whether a resolution is running.
func (s *Session) Busy() bool { return s.active != nil }

// Loaded is the type the next Fire will attach.
func (s *Session) Loaded() int { return s.loaded }

// Progress returns the score accumulator.
func (s *Session) Progress() Progress { return *s.progress }

// Attach places a bubble of type t at (row, col) and starts a resolution.
func (s *Session) Attach(row, col, t int) error {
	switch {
	case s.active != nil:
		return ErrBusy
	case !s.grid.InBounds(row, col):
		return ErrOutOfBounds
	case s.grid.At(row, col).Active:
		return ErrOccupied
	case t < 0 || t >= s.cfg.MaxRank:
		return ErrBadType
	}
	s.grid.Set(row, col, t)
	s.active = newResolution(s.grid, s.grid.At(row, col), s.cfg.MaxRank, s.sink)
	s.active.onSettle = s.settled
	return nil
}

// Fire attaches the loaded shot at (row, col).
func (s *Session) Fire(row, col int) error { return s.Attach(row, col, s.loaded) }

// FireNear attaches the loaded shot in the free neighbour of the hit cell closest
// to the shot's world position (x, y), and returns the slot it used.
func (s *Session) FireNear(hitRow, hitCol int, x, y float64) (Pos, error) {
	if s.active != nil {
		return Pos{}, ErrBusy
	}
	if !s.grid.InBounds(hitRow, hitCol) {
		return Pos{}, ErrOutOfBounds
	}
	if !s.grid.At(hitRow, hitCol).Active {
		// shots only snap against a bubble they actually hit
		return Pos{}, ErrNoSlot
	}
	p, ok := s.layout.Nearest(s.grid.EmptyNeighbors(hitRow, hitCol), x, y)
	if !ok {
		return Pos{}, ErrNoSlot
	}
	return p, s.Fire(p.Row, p.Col)
}

// Step advances the running resolution by one transition and returns the
// events it produced. done is true once input is re-enabled (or when nothing
// was running).
func (s *Session) Step() (events []Event, done bool) {
	if s.active == nil {
		return nil, true
	}
	if s.active.Step() {
		s.active = nil
	}
	return s.rec.Drain(), s.active == nil
}

// Resolve runs the active resolution to completion, one event batch per step.
func (s *Session) Resolve() [][]Event {
	var steps [][]Event
	for {
		evs, done := s.Step()
		if evs != nil {
			steps = append(steps, evs)
		}
		if done {
			return steps
		}
	}
}

// AddLine inserts a new row at the top on request.
func (s *Session) AddLine() ([]Event, error) {
	if s.active != nil {
		return nil, ErrBusy
	}
	s.addLine()
	return s.rec.Drain(), nil
}

// settled runs inside the settle step, before input is re-enabled, so the
// events of an automatic new line land in that step.
func (s *Session) settled(o Outcome) {
	if o.Combo > s.bestCombo {
		s.bestCombo = o.Combo
	}
	if o.Perfect {
		s.perfects++
	}
	log.Debug().Str("gameId", s.ID).Int("combo", o.Combo).Bool("perfect", o.Perfect).
		Int("score", s.progress.Total).Msg("resolution settled")

	s.loaded = s.nextShot()
	s.shots++
	if s.shots > s.cfg.ShotsBeforeNewLine {
		s.shots = 0
		s.addLine()
	}
}

func (s *Session) addLine() {
	s.reserve(s.cfg.Rows * s.cfg.Columns)
	s.grid.addNewLine(s.pool, s.cfg.RestartLine, s.cfg.RowsDeletedOnReset, s.sink)
}

// reserve tops the pool up so the next operation cannot draw past its end.
func (s *Session) reserve(n int) {
	if s.pool.Reserve(n) {
		log.Debug().Str("gameId", s.ID).Int("pending", s.pool.Len()).Msg("type pool regenerated")
	}
}

func (s *Session) nextShot() int {
	if s.cfg.MaxShooterBubbleType <= 0 {
		return 0
	}
	return s.rng.Intn(s.cfg.MaxShooterBubbleType)
}
