package terminal

import (
	"strings"
	"testing"

	"classic-snake/game/input"
	"classic-snake/game/types"
	"classic-snake/logging"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 30)
	t.Cleanup(s.Fini)
	return s
}

func runeAt(s tcell.SimulationScreen, x, y int) rune {
	cells, width, _ := s.GetContents()
	c := cells[y*width+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func screenText(s tcell.SimulationScreen) string {
	cells, width, height := s.GetContents()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := cells[y*width+x]
			if len(c.Runes) == 0 {
				b.WriteByte(' ')
				continue
			}
			b.WriteRune(c.Runes[0])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRender_DrawsBoard(t *testing.T) {
	s := newScreen(t)
	term := New(s, types.NewBoard(), input.DefaultBindings(), nil, logging.Discard())

	term.ShowScores(30, 90)
	term.Render(types.Snapshot{
		Grid:      types.NewBoard(),
		Snake:     []types.Point{{X: 5, Y: 10}, {X: 4, Y: 10}},
		Food:      types.Point{X: 12, Y: 3},
		HasFood:   true,
		Direction: types.Right,
		Status:    types.Running,
	})

	assert.Equal(t, '┌', runeAt(s, 0, 0))
	assert.Equal(t, '┘', runeAt(s, 41, 21))

	x, y := CellOrigin(types.Point{X: 5, Y: 10})
	assert.Equal(t, '▶', runeAt(s, x, y))
	x, y = CellOrigin(types.Point{X: 4, Y: 10})
	assert.Equal(t, '█', runeAt(s, x, y))
	x, y = CellOrigin(types.Point{X: 12, Y: 3})
	assert.Equal(t, '●', runeAt(s, x, y))

	text := screenText(s)
	assert.Contains(t, text, "Score: 30  Best: 90")
	assert.Contains(t, text, "No games yet")
	assert.NotContains(t, text, "PAUSED")
}

func TestRender_Overlays(t *testing.T) {
	s := newScreen(t)
	term := New(s, types.NewBoard(), input.DefaultBindings(), nil, logging.Discard())

	term.Render(types.Snapshot{Grid: types.NewBoard(), Status: types.Paused})
	assert.Contains(t, screenText(s), "PAUSED")

	term.Render(types.Snapshot{Grid: types.NewBoard(), Status: types.Over, Reason: types.SelfCollision})
	text := screenText(s)
	assert.Contains(t, text, "GAME OVER")
	assert.Contains(t, text, "Self collision")
}

func TestKeyName(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "up"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "escape"},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space"},
		{tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModNone), "w"},
		{tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeyName(tt.ev))
	}
}

type fakeSession struct {
	direction types.Direction
	pending   types.Direction
	status    types.Status
	starts    int
}

func (f *fakeSession) Direction() types.Direction {
	return f.direction
}

func (f *fakeSession) SetPending(d types.Direction) {
	f.pending = d
}

func (f *fakeSession) TogglePause() {}

func (f *fakeSession) Start() {
	f.starts++
}

func (f *fakeSession) Status() types.Status {
	return f.status
}

func TestRun_DispatchesKeysAndPostedCallbacksInOrder(t *testing.T) {
	s := newScreen(t)
	term := New(s, types.NewBoard(), input.DefaultBindings(), nil, logging.Discard())
	session := &fakeSession{direction: types.Right, status: types.Running}
	ctrl := input.NewController(session, logging.Discard())

	var seen []types.Direction
	s.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	term.Post(func() { seen = append(seen, session.pending) })
	s.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	term.Post(func() { t.Error("callbacks after quit must not run") })

	term.Run(ctrl)

	assert.Equal(t, []types.Direction{types.Up}, seen)
	assert.Equal(t, 1, session.starts)
}
