package entity

import (
	"classic-snake/game/types"

	"golang.org/x/exp/slices"
)

// Snake is an ordered body, head first. Body order is the physical order
// along the snake.
type Snake struct {
	Body []types.Point
}

// NewSnake builds a straight snake of length segments whose head is startPos
// and whose body extends away from dir.
func NewSnake(length int, startPos types.Point, dir types.Direction) *Snake {
	if length < 1 {
		length = 1
	}
	back := dir.Opposite().Delta()
	body := make([]types.Point, length)
	for i := range body {
		body[i] = types.Point{X: startPos.X + back.X*i, Y: startPos.Y + back.Y*i}
	}
	return &Snake{Body: body}
}

// PeekNextHead returns where the head would be after one step in dir.
// The second result is false when the snake has no head.
func (s *Snake) PeekNextHead(dir types.Direction) (types.Point, bool) {
	if len(s.Body) == 0 {
		return types.Point{}, false
	}
	return s.Body[0].Add(dir.Delta()), true
}

// CommitMove prepends newHead and, unless grew is set, drops the tail.
func (s *Snake) CommitMove(newHead types.Point, grew bool) {
	if grew || len(s.Body) == 0 {
		s.Body = slices.Insert(s.Body, 0, newHead)
		return
	}
	// Shift in place: length is unchanged.
	copy(s.Body[1:], s.Body[:len(s.Body)-1])
	s.Body[0] = newHead
}

func (s *Snake) GetHead() types.Point {
	return s.Body[0]
}

func (s *Snake) GetTail() types.Point {
	return s.Body[len(s.Body)-1]
}

func (s *Snake) Len() int {
	return len(s.Body)
}

// Contains reports whether any segment sits on p.
func (s *Snake) Contains(p types.Point) bool {
	return slices.Contains(s.Body, p)
}

// OccupiesFrom reports whether a segment at index >= from sits on p.
func (s *Snake) OccupiesFrom(p types.Point, from int) bool {
	if from >= len(s.Body) {
		return false
	}
	if from < 0 {
		from = 0
	}
	return slices.Contains(s.Body[from:], p)
}

// Segments returns a copy of the body.
func (s *Snake) Segments() []types.Point {
	return slices.Clone(s.Body)
}
