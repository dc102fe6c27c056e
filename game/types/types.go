package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Game constants
const (
	CanvasPixels    = 400                       // Drawing surface edge in pixels
	CellPixels      = 20                        // One cell edge in pixels
	BoardSize       = CanvasPixels / CellPixels // Board edge in cells
	InitialLength   = 4                         // Segments of a fresh snake
	FoodReward      = 10                        // Points per food eaten
	MaxFoodAttempts = 100                       // Random draws before the food fallback
	TickInterval    = 100 * time.Millisecond    // Default game speed
)

// ErrUnknownDirection is returned by ParseDirection for names outside the enum.
var ErrUnknownDirection = errors.New("unknown direction")

// Point is a board cell. (0,0) is the top-left corner, Y grows downward.
type Point struct {
	X, Y int
}

// Add returns p moved by delta.
func (p Point) Add(delta Point) Point {
	return Point{X: p.X + delta.X, Y: p.Y + delta.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Grid represents the game grid dimensions
type Grid struct {
	Width  int
	Height int
}

// NewBoard returns the square board derived from the canvas and cell sizes.
func NewBoard() Grid {
	return Grid{Width: BoardSize, Height: BoardSize}
}

// InBounds reports whether p lies on the grid.
func (g Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Cells returns the number of cells on the grid.
func (g Grid) Cells() int {
	return g.Width * g.Height
}

// Direction is one of the four cardinal moves.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = [...]Direction{Up, Down, Left, Right}

// Delta returns the displacement of a single step.
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	case Right:
		return Point{X: 1, Y: 0}
	default:
		return Point{}
	}
}

// Opposite returns the direction whose delta cancels d.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return d
	}
}

// IsOpposite reports whether the deltas of d and other sum to zero.
func (d Direction) IsOpposite(other Direction) bool {
	a, b := d.Delta(), other.Delta()
	if a == (Point{}) || b == (Point{}) {
		return false
	}
	return a.X+b.X == 0 && a.Y+b.Y == 0
}

// TurnLeft returns the direction after a 90° counter-clockwise turn.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Down
	case Down:
		return Right
	case Right:
		return Up
	default:
		return d
	}
}

// TurnRight returns the direction after a 90° clockwise turn.
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	default:
		return d
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection maps a case-insensitive name to a Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Status is the lifecycle state of a session.
type Status int

const (
	Ready Status = iota
	Running
	Paused
	Over
)

func (s Status) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Over:
		return "over"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case NoCollision:
		return "none"
	case WallCollision:
		return "out of bounds"
	case SelfCollision:
		return "self collision"
	default:
		return fmt.Sprintf("CollisionType(%d)", int(c))
	}
}

// Snapshot is the committed state handed to renderers. Slices are copies.
type Snapshot struct {
	SessionID string
	Grid      Grid
	Snake     []Point // head first
	Food      Point
	HasFood   bool
	Direction Direction
	Status    Status
	Score     int
	HighScore int
	Reason    CollisionType // why the last session ended, NoCollision otherwise
}

// Head returns the first snake segment, if any.
func (s Snapshot) Head() (Point, bool) {
	if len(s.Snake) == 0 {
		return Point{}, false
	}
	return s.Snake[0], true
}
