package ai

import "classic-snake/game/types"

// Renderer matches game.Renderer.
type Renderer interface {
	Render(snap types.Snapshot)
}

// Autopilot sits between the game and its renderer. After every rendered
// running state it asks Steer for the pilot's next direction, so the choice
// is always made against the state the next tick starts from.
//
// Steer may be set after the game is built, since the controller needs the
// game first.
type Autopilot struct {
	Pilot *Pilot
	Steer Steerer
	Next  Renderer
}

func (a *Autopilot) Render(snap types.Snapshot) {
	if a.Next != nil {
		a.Next.Render(snap)
	}
	if a.Steer != nil && snap.Status == types.Running {
		a.Pilot.Drive(a.Steer, snap)
	}
}
