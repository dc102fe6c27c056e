package ui

import (
	"time"

	"classic-snake/game/clock"
	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/types"
	"classic-snake/ui/view"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	maxScores     = 50  // Sessions plotted in the graph
	borderPadding = 10  // Padding around the board
	statsWidth    = 220 // Width of the side panel before scaling
	targetFPS     = 60
)

// Window draws the game with raylib and feeds its keys to a controller.
// Render and ShowScores only cache state; drawing happens once per frame.
type Window struct {
	grid     types.Grid
	scale    int32
	bindings input.Bindings
	history  func(n int) []manager.SessionRecord

	cellSize     int32
	screenWidth  int32
	screenHeight int32
	gameWidth    int32
	statsPanel   int32
	graphWidth   int32
	graphHeight  int32
	offsetX      int32
	offsetY      int32

	snap      types.Snapshot
	score     int
	highScore int
	summary   manager.Summary
	recent    []manager.SessionRecord
}

// NewWindow prepares a renderer for grid. history supplies the finished
// sessions shown in the stats panel; it may be nil.
func NewWindow(grid types.Grid, scale int, bindings input.Bindings, history func(n int) []manager.SessionRecord) *Window {
	if scale < 1 {
		scale = 1
	}
	w := &Window{
		grid:     grid,
		scale:    int32(scale),
		bindings: bindings,
		history:  history,
		snap:     types.Snapshot{Grid: grid, Status: types.Ready},
	}
	w.refreshHistory()
	return w
}

// Open creates the OS window sized for the board plus the stats panel.
func (w *Window) Open() {
	board := int32(types.CellPixels) * w.scale
	width := board*int32(w.grid.Width) + borderPadding*2 + statsWidth*w.scale/2
	height := board*int32(w.grid.Height) + borderPadding*2
	rl.InitWindow(width, height, "Snake")
	rl.SetExitKey(0)
	rl.SetTargetFPS(targetFPS)
	w.UpdateDimensions()
}

func (w *Window) Close() {
	rl.CloseWindow()
}

// Run polls keys, advances clk by the frame time and draws, until the window
// closes or the player quits.
func (w *Window) Run(ctrl *input.Controller, clk *clock.Manual) {
	for !rl.WindowShouldClose() {
		for _, key := range PressedKeys() {
			if ctrl.Handle(w.bindings.Lookup(key)) {
				return
			}
		}
		clk.Advance(time.Duration(rl.GetFrameTime() * float32(time.Second)))
		w.Draw()
	}
}

func (w *Window) Render(snap types.Snapshot) {
	w.snap = snap
	if snap.Status == types.Over {
		w.refreshHistory()
	}
}

func (w *Window) ShowScores(score, highScore int) {
	w.score = score
	w.highScore = highScore
}

func (w *Window) refreshHistory() {
	if w.history == nil {
		return
	}
	w.recent = w.history(maxScores)
	w.summary = manager.Summarize(w.recent)
}

func (w *Window) UpdateDimensions() {
	w.screenWidth = int32(rl.GetScreenWidth())
	w.screenHeight = int32(rl.GetScreenHeight())

	w.statsPanel = statsWidth * w.scale / 2
	w.gameWidth = w.screenWidth - w.statsPanel

	w.graphWidth = w.statsPanel - 20
	w.graphHeight = w.screenHeight / 5

	availableWidth := w.gameWidth - borderPadding*2
	availableHeight := w.screenHeight - borderPadding*2
	w.cellSize = min(availableWidth/int32(w.grid.Width), availableHeight/int32(w.grid.Height))

	w.offsetX = borderPadding
	w.offsetY = (w.screenHeight - w.cellSize*int32(w.grid.Height)) / 2
}

func (w *Window) Draw() {
	if rl.IsWindowResized() {
		w.UpdateDimensions()
	}
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(w.screenHeight/30, w.statsPanel/12)
	lineHeight := fontSize + fontSize/3

	w.drawBoard()
	w.drawSnake()
	if w.snap.HasFood {
		w.drawCell(w.snap.Food, rl.Red)
	}
	w.drawStatsPanel(fontSize, lineHeight)
	w.drawOverlay(fontSize, lineHeight)

	rl.EndDrawing()
}

func (w *Window) drawBoard() {
	gridWidth := w.cellSize * int32(w.grid.Width)
	gridHeight := w.cellSize * int32(w.grid.Height)
	rl.DrawRectangle(w.offsetX-1, w.offsetY-1, gridWidth+2, gridHeight+2, rl.DarkGray)
	rl.DrawRectangle(w.offsetX, w.offsetY, gridWidth, gridHeight, rl.Black)

	for x := 0; x < w.grid.Width; x++ {
		for y := 0; y < w.grid.Height; y++ {
			rl.DrawRectangleLines(
				w.offsetX+int32(x)*w.cellSize,
				w.offsetY+int32(y)*w.cellSize,
				w.cellSize, w.cellSize, rl.Fade(rl.Gray, 0.2))
		}
	}
}

func (w *Window) drawCell(p types.Point, color rl.Color) {
	rl.DrawRectangle(
		w.offsetX+int32(p.X)*w.cellSize,
		w.offsetY+int32(p.Y)*w.cellSize,
		w.cellSize, w.cellSize, color)
}

func (w *Window) drawSnake() {
	body := w.snap.Snake
	for i := len(body) - 1; i >= 0; i-- {
		color := rl.Green
		if i == 0 {
			color = rl.Lime
		}
		w.drawCell(body[i], color)
	}
	if head, ok := w.snap.Head(); ok {
		w.drawHeadMarker(head, w.snap.Direction)
	}
}

// drawHeadMarker draws a triangle on the head pointing where the snake goes.
func (w *Window) drawHeadMarker(head types.Point, dir types.Direction) {
	headX := float32(w.offsetX + int32(head.X)*w.cellSize)
	headY := float32(w.offsetY + int32(head.Y)*w.cellSize)
	cell := float32(w.cellSize)
	half := cell / 2

	var a, b, c rl.Vector2
	switch dir {
	case types.Right:
		a = rl.Vector2{X: headX + cell, Y: headY + half}
		b = rl.Vector2{X: headX + half, Y: headY}
		c = rl.Vector2{X: headX + half, Y: headY + cell}
	case types.Left:
		a = rl.Vector2{X: headX, Y: headY + half}
		b = rl.Vector2{X: headX + half, Y: headY + cell}
		c = rl.Vector2{X: headX + half, Y: headY}
	case types.Down:
		a = rl.Vector2{X: headX + half, Y: headY + cell}
		b = rl.Vector2{X: headX + cell, Y: headY + half}
		c = rl.Vector2{X: headX, Y: headY + half}
	default:
		a = rl.Vector2{X: headX + half, Y: headY}
		b = rl.Vector2{X: headX, Y: headY + half}
		c = rl.Vector2{X: headX + cell, Y: headY + half}
	}
	// raylib wants counter-clockwise vertices.
	rl.DrawTriangle(a, b, c, rl.Yellow)
}

func (w *Window) drawStatsPanel(fontSize, lineHeight int32) {
	statsX := w.gameWidth + 5
	statsY := int32(10)

	rl.DrawRectangle(statsX-5, 0, w.statsPanel+5, w.screenHeight, rl.DarkGray)

	rl.DrawText(view.Title, statsX, statsY, fontSize*2, rl.Green)
	statsY += lineHeight * 2

	rl.DrawText(view.ScoreLine(w.score, w.highScore), statsX, statsY, fontSize, rl.White)
	statsY += lineHeight * 2

	rl.DrawText("History:", statsX, statsY, fontSize, rl.White)
	statsY += lineHeight
	for _, line := range view.StatsLines(w.summary) {
		rl.DrawText(line, statsX+5, statsY, fontSize, rl.LightGray)
		statsY += lineHeight
	}

	w.drawScoreGraph(statsX, fontSize)
}

// drawScoreGraph plots recent session scores oldest to newest, with the
// average as a dashed line.
func (w *Window) drawScoreGraph(graphX, fontSize int32) {
	graphHeight := w.graphHeight
	graphY := w.screenHeight - graphHeight - fontSize*2

	rl.DrawRectangleLines(graphX, graphY, w.graphWidth, graphHeight, rl.White)
	rl.DrawText("Scores", graphX, graphY-fontSize-5, fontSize, rl.White)

	scores := make([]int, 0, len(w.recent))
	for i := len(w.recent) - 1; i >= 0; i-- {
		scores = append(scores, w.recent[i].Score)
	}
	if len(scores) < 2 {
		return
	}

	maxScore := max(w.summary.MaxScore, 1)
	point := func(i, score int) (int32, int32) {
		x := graphX + int32(float32(w.graphWidth)*float32(i)/float32(maxScores))
		y := graphY + graphHeight - int32(float32(graphHeight)*float32(score)/float32(maxScore))
		return x, y
	}
	for j := 1; j < len(scores); j++ {
		x1, y1 := point(j-1, scores[j-1])
		x2, y2 := point(j, scores[j])
		rl.DrawLine(x1, y1, x2, y2, rl.Green)
	}

	avgY := graphY + graphHeight - int32(float32(graphHeight)*float32(w.summary.AverageScore)/float32(maxScore))
	for x := graphX; x < graphX+w.graphWidth; x += 5 {
		rl.DrawLine(x, avgY, x+2, avgY, rl.Yellow)
	}
}

func (w *Window) drawOverlay(fontSize, lineHeight int32) {
	overlay, ok := view.OverlayFor(w.snap, w.bindings)
	if !ok {
		return
	}
	gridWidth := w.cellSize * int32(w.grid.Width)
	gridHeight := w.cellSize * int32(w.grid.Height)
	rl.DrawRectangle(w.offsetX, w.offsetY, gridWidth, gridHeight, rl.Fade(rl.Black, 0.6))

	centerX := w.offsetX + gridWidth/2
	y := w.offsetY + gridHeight/2 - lineHeight*int32(len(overlay.Lines)+2)/2

	titleSize := fontSize * 2
	rl.DrawText(overlay.Title, centerX-rl.MeasureText(overlay.Title, titleSize)/2, y, titleSize, rl.RayWhite)
	y += lineHeight * 2
	for _, line := range overlay.Lines {
		rl.DrawText(line, centerX-rl.MeasureText(line, fontSize)/2, y, fontSize, rl.LightGray)
		y += lineHeight
	}
}

var keyNames = map[int32]string{
	rl.KeyUp:     "up",
	rl.KeyDown:   "down",
	rl.KeyLeft:   "left",
	rl.KeyRight:  "right",
	rl.KeyEnter:  "enter",
	rl.KeySpace:  "space",
	rl.KeyEscape: "escape",
}

// KeyName translates a raylib key code to a binding name. Letters map to
// their lower-case character.
func KeyName(key int32) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	if key >= rl.KeyA && key <= rl.KeyZ {
		return string(rune('a' + key - rl.KeyA))
	}
	return ""
}

// PressedKeys drains the keys pressed since the last frame, in order.
func PressedKeys() []string {
	var keys []string
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if name := KeyName(key); name != "" {
			keys = append(keys, name)
		}
	}
	return keys
}
