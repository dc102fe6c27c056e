// Package terminal is the text-mode frontend. Ticks and key presses arrive
// on the same tcell event queue, so the game state is only ever touched by
// the goroutine running Run.
package terminal

import (
	"log/slog"
	"strings"

	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/types"
	"classic-snake/ui/view"

	"github.com/gdamore/tcell/v2"
)

const historyWindow = 50 // Sessions summarised in the side panel

var (
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBody    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleFood    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleOverlay = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// Terminal draws the board two columns per cell so it looks square.
type Terminal struct {
	screen   tcell.Screen
	grid     types.Grid
	bindings input.Bindings
	history  func(n int) []manager.SessionRecord
	logger   *slog.Logger

	snap      types.Snapshot
	score     int
	highScore int
	summary   manager.Summary
}

func New(screen tcell.Screen, grid types.Grid, bindings input.Bindings, history func(n int) []manager.SessionRecord, logger *slog.Logger) *Terminal {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Terminal{
		screen:   screen,
		grid:     grid,
		bindings: bindings,
		history:  history,
		logger:   logger,
		snap:     types.Snapshot{Grid: grid, Status: types.Ready},
	}
	t.refreshHistory()
	return t
}

// Post queues fn onto the event loop. It is the post function for
// clock.NewTicker.
func (t *Terminal) Post(fn func()) {
	if err := t.screen.PostEvent(tcell.NewEventInterrupt(fn)); err != nil {
		t.logger.Debug("tick dropped", "error", err)
	}
}

func (t *Terminal) Render(snap types.Snapshot) {
	t.snap = snap
	if snap.Status == types.Over {
		t.refreshHistory()
	}
	t.redraw()
}

func (t *Terminal) ShowScores(score, highScore int) {
	t.score = score
	t.highScore = highScore
}

// Run processes events until the player quits or the screen is finalised.
func (t *Terminal) Run(ctrl *input.Controller) {
	t.redraw()
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
			t.redraw()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return
			}
			if ctrl.Handle(t.bindings.Lookup(KeyName(ev))) {
				return
			}
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		}
	}
}

// KeyName translates a key event to a binding name.
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "escape"
	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			return "space"
		}
		return strings.ToLower(string(ev.Rune()))
	}
	return ""
}

func (t *Terminal) refreshHistory() {
	if t.history == nil {
		return
	}
	t.summary = manager.Summarize(t.history(historyWindow))
}

func (t *Terminal) redraw() {
	t.screen.Clear()
	t.drawBorder()
	t.drawSnake()
	if t.snap.HasFood {
		t.setCell(t.snap.Food, '●', styleFood)
	}
	t.drawStats()
	t.drawOverlay()
	t.screen.Show()
}

// CellOrigin is the screen column and row of a board cell.
func CellOrigin(p types.Point) (int, int) {
	return 1 + p.X*2, 1 + p.Y
}

func (t *Terminal) setCell(p types.Point, r rune, style tcell.Style) {
	x, y := CellOrigin(p)
	t.screen.SetContent(x, y, r, nil, style)
	t.screen.SetContent(x+1, y, ' ', nil, style)
}

func (t *Terminal) drawBorder() {
	right := t.grid.Width*2 + 1
	bottom := t.grid.Height + 1
	for x := 1; x < right; x++ {
		t.screen.SetContent(x, 0, '─', nil, styleBorder)
		t.screen.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := 1; y < bottom; y++ {
		t.screen.SetContent(0, y, '│', nil, styleBorder)
		t.screen.SetContent(right, y, '│', nil, styleBorder)
	}
	t.screen.SetContent(0, 0, '┌', nil, styleBorder)
	t.screen.SetContent(right, 0, '┐', nil, styleBorder)
	t.screen.SetContent(0, bottom, '└', nil, styleBorder)
	t.screen.SetContent(right, bottom, '┘', nil, styleBorder)
}

func (t *Terminal) drawSnake() {
	for i, p := range t.snap.Snake {
		if i == 0 {
			t.setCell(p, view.HeadGlyph(t.snap.Direction), styleHead)
			continue
		}
		x, y := CellOrigin(p)
		t.screen.SetContent(x, y, '█', nil, styleBody)
		t.screen.SetContent(x+1, y, '█', nil, styleBody)
	}
}

func (t *Terminal) drawStats() {
	x := t.grid.Width*2 + 4
	y := 1
	t.writeText(x, y, view.Title, styleTitle)
	y += 2
	t.writeText(x, y, view.ScoreLine(t.score, t.highScore), styleText)
	y += 2
	t.writeText(x, y, "History:", styleText)
	y++
	for _, line := range view.StatsLines(t.summary) {
		t.writeText(x+1, y, line, styleDim)
		y++
	}
}

func (t *Terminal) drawOverlay() {
	overlay, ok := view.OverlayFor(t.snap, t.bindings)
	if !ok {
		return
	}
	lines := append([]string{overlay.Title, ""}, overlay.Lines...)
	centerX := 1 + t.grid.Width
	y := 1 + (t.grid.Height-len(lines))/2
	for i, line := range lines {
		style := styleDim
		if i == 0 {
			style = styleOverlay
		}
		x := centerX - len([]rune(line))/2
		t.writeText(x, y+i, line, style)
	}
}

func (t *Terminal) writeText(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}
