package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"classic-snake/game/types"
)

// ErrUnknownAction is returned when a binding names no known action.
var ErrUnknownAction = errors.New("unknown action")

// Action is something the player can ask for.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionPause
	ActionStart
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:  "none",
	ActionUp:    "up",
	ActionDown:  "down",
	ActionLeft:  "left",
	ActionRight: "right",
	ActionPause: "pause",
	ActionStart: "start",
	ActionQuit:  "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Direction maps the four movement actions onto directions.
func (a Action) Direction() (types.Direction, bool) {
	switch a {
	case ActionUp:
		return types.Up, true
	case ActionDown:
		return types.Down, true
	case ActionLeft:
		return types.Left, true
	case ActionRight:
		return types.Right, true
	default:
		return 0, false
	}
}

func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Bindings maps frontend-neutral key names ("up", "w", "enter", ...) to
// actions. Frontends translate their own key codes into these names.
type Bindings map[string]Action

// DefaultBindings are arrows and WASD to steer, P to pause, Enter or Space to
// start and Escape or Q to quit.
func DefaultBindings() Bindings {
	return Bindings{
		"up":     ActionUp,
		"w":      ActionUp,
		"down":   ActionDown,
		"s":      ActionDown,
		"left":   ActionLeft,
		"a":      ActionLeft,
		"right":  ActionRight,
		"d":      ActionRight,
		"p":      ActionPause,
		"enter":  ActionStart,
		"space":  ActionStart,
		"escape": ActionQuit,
		"q":      ActionQuit,
	}
}

// Lookup returns the action bound to key, ActionNone if unbound.
func (b Bindings) Lookup(key string) Action {
	return b[strings.ToLower(key)]
}

// Override applies key -> action-name pairs on top of b. An action name of
// "none" unbinds the key.
func (b Bindings) Override(overrides map[string]string) error {
	for key, name := range overrides {
		a, err := ParseAction(name)
		if err != nil {
			return fmt.Errorf("binding %q: %w", key, err)
		}
		key = strings.ToLower(key)
		if a == ActionNone {
			delete(b, key)
			continue
		}
		b[key] = a
	}
	return nil
}

// Keys lists the keys bound to a, for help text.
func (b Bindings) Keys(a Action) []string {
	var keys []string
	for k, v := range b {
		if v == a {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
