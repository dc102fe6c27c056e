// Package input turns player intent into session commands.
package input

import (
	"log/slog"

	"classic-snake/game/types"
)

// Session is the part of the game loop the controller drives.
type Session interface {
	Direction() types.Direction
	SetPending(d types.Direction)
	TogglePause()
	Start()
	Status() types.Status
}

type Controller struct {
	session Session
	logger  *slog.Logger
}

func NewController(session Session, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{session: session, logger: logger}
}

// OnDirectionRequest sets the pending direction unless it would reverse the
// committed one. The check is against the committed direction, not the
// pending one, so several requests between two ticks cannot fold the snake
// back onto its neck. It reports whether the request was taken.
func (c *Controller) OnDirectionRequest(requested types.Direction) bool {
	if requested.IsOpposite(c.session.Direction()) {
		c.logger.Debug("reversal ignored", "requested", requested.String(), "committed", c.session.Direction().String())
		return false
	}
	c.session.SetPending(requested)
	return true
}

// OnPauseToggle pauses or resumes. Nothing happens once the game is over.
func (c *Controller) OnPauseToggle() {
	if c.session.Status() == types.Over {
		return
	}
	c.session.TogglePause()
}

// OnStart starts a fresh session whatever the current status.
func (c *Controller) OnStart() {
	c.session.Start()
}

// Handle dispatches a bound action. It reports true when the player asked
// to quit.
func (c *Controller) Handle(a Action) bool {
	if d, ok := a.Direction(); ok {
		c.OnDirectionRequest(d)
		return false
	}
	switch a {
	case ActionPause:
		c.OnPauseToggle()
	case ActionStart:
		c.OnStart()
	case ActionQuit:
		return true
	}
	return false
}
