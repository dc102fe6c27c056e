// Package game runs a single snake session: the tick-driven state machine
// that moves the snake, applies the collision and food rules, keeps score,
// and hands the committed state to a renderer.
package game

import (
	"log/slog"
	"time"

	"classic-snake/game/clock"
	"classic-snake/game/entity"
	"classic-snake/game/manager"
	"classic-snake/game/types"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// Renderer draws committed state. It is called once per successful tick and
// once per start, pause, resume and game over.
type Renderer interface {
	Render(snap types.Snapshot)
}

// ScoreDisplay shows the current score and high score after every change.
type ScoreDisplay interface {
	ShowScores(score, highScore int)
}

// Options wires a Game to its collaborators. Zero values fall back to the
// defaults of the classic game.
type Options struct {
	Grid         types.Grid
	TickInterval time.Duration
	Clock        clock.Clock
	Rand         *rand.Rand
	Store        manager.Store
	Renderer     Renderer
	Scores       ScoreDisplay
	Logger       *slog.Logger
	Now          func() time.Time
}

// Game owns every piece of mutable session state. Nothing outside reads or
// writes it except through the methods below, and all of them must be called
// from the same goroutine as the clock callbacks.
type Game struct {
	grid     types.Grid
	interval time.Duration
	clock    clock.Clock
	timer    clock.Timer

	collisionMgr *manager.CollisionManager
	foodMgr      *manager.FoodManager
	stateMgr     *manager.StateManager

	renderer Renderer
	scores   ScoreDisplay
	logger   *slog.Logger
	now      func() time.Time

	sessionID string
	startTime time.Time
	snake     *entity.Snake
	food      types.Point
	hasFood   bool
	score     int
	direction types.Direction
	pending   types.Direction
	status    types.Status
	reason    types.CollisionType
	ticks     int
}

func NewGame(opts Options) *Game {
	grid := opts.Grid
	if grid.Width <= 0 || grid.Height <= 0 {
		grid = types.NewBoard()
	}
	interval := opts.TickInterval
	if interval <= 0 {
		interval = types.TickInterval
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewManual()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(uint64(now().UnixNano())))
	}

	collisionMgr := manager.NewCollisionManager(grid, logger)
	g := &Game{
		grid:         grid,
		interval:     interval,
		clock:        clk,
		collisionMgr: collisionMgr,
		foodMgr:      manager.NewFoodManager(grid, collisionMgr, rng, logger),
		stateMgr:     manager.NewStateManager(opts.Store, logger),
		renderer:     opts.Renderer,
		scores:       opts.Scores,
		logger:       logger,
		now:          now,
		direction:    types.Right,
		pending:      types.Right,
		status:       types.Ready,
	}
	return g
}

// Start begins a fresh session from any status. A running timer is cancelled
// before the new one is armed, so there is never more than one tick stream.
func (g *Game) Start() {
	g.stopTimer()

	g.sessionID = uuid.New().String()
	g.startTime = g.now()
	startPos := types.Point{X: g.grid.Width / 4, Y: g.grid.Height / 2}
	g.snake = entity.NewSnake(types.InitialLength, startPos, types.Right)
	g.score = 0
	g.ticks = 0
	g.direction = types.Right
	g.pending = types.Right
	g.reason = types.NoCollision
	g.placeFood()
	g.status = types.Running

	g.timer = g.clock.Every(g.interval, g.Tick)

	g.logger.Info("game started", "session", g.sessionID, "interval", g.interval)
	g.showScores()
	g.render()
}

// TogglePause flips between Running and Paused. While paused no timer is
// armed; resuming arms a fresh one without catching up missed ticks. It does
// nothing in Ready or Over.
func (g *Game) TogglePause() {
	switch g.status {
	case types.Running:
		g.stopTimer()
		g.status = types.Paused
		g.logger.Info("game paused", "session", g.sessionID)
	case types.Paused:
		g.status = types.Running
		g.timer = g.clock.Every(g.interval, g.Tick)
		g.logger.Info("game resumed", "session", g.sessionID)
	default:
		return
	}
	g.render()
}

// Tick advances the session by one step. It is a no-op unless Running.
func (g *Game) Tick() {
	if g.status != types.Running {
		return
	}
	g.ticks++

	g.direction = g.pending
	var candidate *types.Point
	if head, ok := g.snake.PeekNextHead(g.direction); ok {
		candidate = &head
	}

	// The collision check sees the body before the tail moves.
	result := g.collisionMgr.EvaluateMove(g.snake, candidate)
	if result.Collided {
		g.gameOver(result.Reason)
		return
	}
	if candidate == nil {
		return
	}

	ate := g.hasFood && g.collisionMgr.EvaluateEat(*candidate, g.food)
	g.snake.CommitMove(*candidate, ate)
	if ate {
		g.score += types.FoodReward
		g.placeFood()
		g.showScores()
	}

	g.render()
}

// Stop cancels the tick timer without changing the status. Used on shutdown.
func (g *Game) Stop() {
	g.stopTimer()
}

// SetPending records the direction to adopt on the next tick. The reversal
// guard lives in the input controller.
func (g *Game) SetPending(d types.Direction) {
	g.pending = d
}

// Direction is the committed direction of the most recent tick.
func (g *Game) Direction() types.Direction {
	return g.direction
}

func (g *Game) Pending() types.Direction {
	return g.pending
}

func (g *Game) Status() types.Status {
	return g.status
}

func (g *Game) Score() int {
	return g.score
}

func (g *Game) HighScore() int {
	return g.stateMgr.GetHighScore()
}

func (g *Game) Grid() types.Grid {
	return g.grid
}

// Ticks counts steps taken in the current session.
func (g *Game) Ticks() int {
	return g.ticks
}

// History returns up to n finished sessions, newest first.
func (g *Game) History(n int) []manager.SessionRecord {
	return g.stateMgr.History(n)
}

// Snapshot copies the committed state.
func (g *Game) Snapshot() types.Snapshot {
	snap := types.Snapshot{
		SessionID: g.sessionID,
		Grid:      g.grid,
		Food:      g.food,
		HasFood:   g.hasFood,
		Direction: g.direction,
		Status:    g.status,
		Score:     g.score,
		HighScore: g.stateMgr.GetHighScore(),
		Reason:    g.reason,
	}
	if g.snake != nil {
		snap.Snake = g.snake.Segments()
	}
	return snap
}

func (g *Game) placeFood() {
	g.hasFood = false
	g.food = g.foodMgr.GenerateFood(g.snake)
	g.hasFood = true
}

func (g *Game) gameOver(reason types.CollisionType) {
	g.stopTimer()
	g.status = types.Over
	g.reason = reason

	rec := manager.SessionRecord{
		ID:        g.sessionID,
		Score:     g.score,
		Length:    g.snake.Len(),
		Reason:    reason.String(),
		StartTime: g.startTime,
		EndTime:   g.now(),
	}
	g.stateMgr.EndSession(rec)

	g.logger.Info("game over", "session", g.sessionID, "score", g.score, "reason", reason.String(), "ticks", g.ticks)
	g.showScores()
	g.render()
}

func (g *Game) stopTimer() {
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Game) render() {
	if g.renderer != nil {
		g.renderer.Render(g.Snapshot())
	}
}

func (g *Game) showScores() {
	if g.scores != nil {
		g.scores.ShowScores(g.score, g.stateMgr.GetHighScore())
	}
}
