// Package ai steers the snake without a player, for the demo mode and for
// long simulated runs.
package ai

import (
	"classic-snake/game/types"

	"golang.org/x/exp/slices"
)

// Steerer receives the pilot's choice. input.Controller satisfies it.
type Steerer interface {
	OnDirectionRequest(d types.Direction) bool
}

// Pilot picks turn-left, straight or turn-right each tick. It never asks for
// a reversal, so its requests always pass the input guard.
type Pilot struct {
	grid types.Grid
}

func NewPilot(grid types.Grid) *Pilot {
	return &Pilot{grid: grid}
}

// option is one relative move with its sensor readings.
type option struct {
	dir      types.Direction
	safe     bool
	space    int // cells reachable from the new head
	foodDist int
}

// Choose returns the direction to request for the next tick.
func (p *Pilot) Choose(snap types.Snapshot) types.Direction {
	head, ok := snap.Head()
	if !ok {
		return snap.Direction
	}

	current := snap.Direction
	var best *option
	for _, d := range []types.Direction{current.TurnLeft(), current, current.TurnRight()} {
		opt := p.sense(snap, head, d)
		if best == nil || better(opt, *best, len(snap.Snake)) {
			o := opt
			best = &o
		}
	}
	return best.dir
}

// Drive asks s for the pilot's choice.
func (p *Pilot) Drive(s Steerer, snap types.Snapshot) {
	s.OnDirectionRequest(p.Choose(snap))
}

func (p *Pilot) sense(snap types.Snapshot, head types.Point, d types.Direction) option {
	next := head.Add(d.Delta())
	opt := option{dir: d, foodDist: manhattanDistance(next, snap.Food)}
	if !p.grid.InBounds(next) || slices.Contains(snap.Snake[1:], next) {
		return opt
	}
	opt.safe = true
	opt.space = p.reachable(next, snap.Snake)
	return opt
}

// better orders options: safe first, then enough room for the body, then
// closest to food, then most room.
func better(a, b option, length int) bool {
	if a.safe != b.safe {
		return a.safe
	}
	roomA, roomB := a.space >= length, b.space >= length
	if roomA != roomB {
		return roomA
	}
	if a.foodDist != b.foodDist {
		return a.foodDist < b.foodDist
	}
	return a.space > b.space
}

// reachable flood-fills from start over cells not covered by the body, with
// the tail treated as free since it moves away on the next step.
func (p *Pilot) reachable(start types.Point, body []types.Point) int {
	blocked := make(map[types.Point]bool, len(body))
	for _, b := range body[:len(body)-1] {
		blocked[b] = true
	}
	seen := map[types.Point]bool{start: true}
	queue := []types.Point{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range types.Directions {
			n := cur.Add(d.Delta())
			if !p.grid.InBounds(n) || blocked[n] || seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return len(seen)
}

func manhattanDistance(p1, p2 types.Point) int {
	return abs(p1.X-p2.X) + abs(p1.Y-p2.Y)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
