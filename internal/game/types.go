// internal/game/types.go
//
// Core type definitions for the bubble merge engine.
// Defines:
//   - Pos: a (row, column) slot on the grid.
//   - Cell: one grid slot and its transient scratch marks.
//   - Config: grid dimensions and tunables, validated before any grid is built.

package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig wraps every configuration rejection.
var ErrInvalidConfig = errors.New("invalid config")

// Runtime refusals. None of these mutate the grid.
var (
	ErrBusy        = errors.New("resolution in progress")
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrOccupied    = errors.New("cell already occupied")
	ErrNoSlot      = errors.New("no empty slot near hit")
	ErrBadType     = errors.New("bubble type out of range")
)

// Pos addresses a grid slot.
type Pos struct {
	Row int `json:"row" msgpack:"row"`
	Col int `json:"col" msgpack:"col"`
}

// Value is the displayed number of a bubble of type t: 2^(t+1).
func Value(t int) int { return 1 << (t + 1) }

// Cell is one grid slot. Row and Col never change after the grid is built.
// visited and connected are scratch marks, reset at the start of the pass that reads them.
type Cell struct {
	Row    int
	Col    int
	Type   int
	Active bool

	visited   bool
	connected bool
}

// Pos returns the slot coordinates.
func (c *Cell) Pos() Pos { return Pos{Row: c.Row, Col: c.Col} }

// Value is the displayed number of the bubble in this slot.
func (c *Cell) Value() int { return Value(c.Type) }

// Config holds grid dimensions and tunables. Field tags let internal/config
// populate it from the environment.
type Config struct {
	Rows                   int           `env:"BUBBLES_ROWS"                  envDefault:"8"`
	Columns                int           `env:"BUBBLES_COLUMNS"               envDefault:"6"`
	MaxRank                int           `env:"BUBBLES_MAX_RANK"              envDefault:"10"`
	TypePoolLength         int           `env:"BUBBLES_TYPE_POOL_LENGTH"      envDefault:"1000"`
	ChangeTypeRate         float64       `env:"BUBBLES_CHANGE_TYPE_RATE"      envDefault:"0.5"`
	RestartLine            int           `env:"BUBBLES_RESTART_LINE"          envDefault:"7"`
	RowsDeletedOnReset     int           `env:"BUBBLES_ROWS_DELETED_ON_RESET" envDefault:"3"`
	InitialVisibleRows     int           `env:"BUBBLES_INITIAL_VISIBLE_ROWS"  envDefault:"5"`
	MaxGeneratedBubbleType int           `env:"BUBBLES_MAX_GENERATED_TYPE"    envDefault:"4"`
	MaxShooterBubbleType   int           `env:"BUBBLES_MAX_SHOOTER_TYPE"      envDefault:"6"`
	ShotsBeforeNewLine     int           `env:"BUBBLES_SHOTS_BEFORE_NEW_LINE" envDefault:"10"`
	LevelScore             int           `env:"BUBBLES_LEVEL_SCORE"           envDefault:"1000"`
	TileSize               float64       `env:"BUBBLES_TILE_SIZE"             envDefault:"0.68"`
	StepDelay              time.Duration `env:"BUBBLES_STEP_DELAY"            envDefault:"500ms"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		Rows:                   8,
		Columns:                6,
		MaxRank:                10,
		TypePoolLength:         1000,
		ChangeTypeRate:         0.5,
		RestartLine:            7,
		RowsDeletedOnReset:     3,
		InitialVisibleRows:     5,
		MaxGeneratedBubbleType: 4,
		MaxShooterBubbleType:   6,
		ShotsBeforeNewLine:     10,
		LevelScore:             1000,
		TileSize:               0.68,
		StepDelay:              500 * time.Millisecond,
	}
}

// Validate rejects configurations that would let a grid operation index
// outside the grid or run the type pool dry.
func (c Config) Validate() error {
	switch {
	case c.Rows < 2 || c.Columns < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Rows, c.Columns)
	case c.MaxRank < 1:
		return fmt.Errorf("%w: max rank %d", ErrInvalidConfig, c.MaxRank)
	case c.RestartLine < 1 || c.RestartLine >= c.Rows:
		return fmt.Errorf("%w: restart line %d outside [1,%d)", ErrInvalidConfig, c.RestartLine, c.Rows)
	case c.RowsDeletedOnReset < 1 || c.RowsDeletedOnReset > c.Rows:
		return fmt.Errorf("%w: rows deleted on reset %d outside [1,%d]", ErrInvalidConfig, c.RowsDeletedOnReset, c.Rows)
	case c.InitialVisibleRows < 0 || c.InitialVisibleRows >= c.Rows:
		return fmt.Errorf("%w: initial visible rows %d outside [0,%d)", ErrInvalidConfig, c.InitialVisibleRows, c.Rows)
	case c.ChangeTypeRate < 0 || c.ChangeTypeRate > 1:
		return fmt.Errorf("%w: change type rate %v outside [0,1]", ErrInvalidConfig, c.ChangeTypeRate)
	case c.MaxGeneratedBubbleType < 0 || c.MaxGeneratedBubbleType > c.MaxRank:
		return fmt.Errorf("%w: max generated type %d outside [0,%d]", ErrInvalidConfig, c.MaxGeneratedBubbleType, c.MaxRank)
	case c.MaxShooterBubbleType < 0 || c.MaxShooterBubbleType > c.MaxRank:
		return fmt.Errorf("%w: max shooter type %d outside [0,%d]", ErrInvalidConfig, c.MaxShooterBubbleType, c.MaxRank)
	case c.TypePoolLength < c.Rows*c.Columns:
		// one addNewLine can consume a full grid worth of types
		return fmt.Errorf("%w: type pool length %d below %d", ErrInvalidConfig, c.TypePoolLength, c.Rows*c.Columns)
	case c.ShotsBeforeNewLine < 1:
		return fmt.Errorf("%w: shots before new line %d", ErrInvalidConfig, c.ShotsBeforeNewLine)
	case c.LevelScore < 1:
		return fmt.Errorf("%w: level score %d", ErrInvalidConfig, c.LevelScore)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %v", ErrInvalidConfig, c.TileSize)
	}
	return nil
}
