package game

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"classic-snake/ai"
	"classic-snake/game/clock"
	"classic-snake/game/entity"
	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/types"
	"classic-snake/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// recorder keeps every snapshot and score pair handed out by the game.
type recorder struct {
	snaps  []types.Snapshot
	scores [][2]int
}

func (r *recorder) Render(snap types.Snapshot) {
	r.snaps = append(r.snaps, snap)
}

func (r *recorder) ShowScores(score, highScore int) {
	r.scores = append(r.scores, [2]int{score, highScore})
}

type fixture struct {
	game  *Game
	clock *clock.Manual
	rec   *recorder
	store *manager.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		clock: clock.NewManual(),
		rec:   &recorder{},
		store: manager.NewMemoryStore(),
	}
	f.game = NewGame(Options{
		Clock:    f.clock,
		Rand:     rand.New(rand.NewSource(3)),
		Store:    f.store,
		Renderer: f.rec,
		Scores:   f.rec,
		Logger:   logging.Discard(),
	})
	return f
}

// tick fires exactly one scheduled tick.
func (f *fixture) tick() {
	f.clock.Advance(types.TickInterval)
}

// parkFood moves the food somewhere the default run along row 10 never goes.
func (f *fixture) parkFood() {
	f.game.food = types.Point{X: 0, Y: 0}
	f.game.hasFood = true
}

func dumpBoard(snap types.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "status=%s score=%d dir=%s food=%v\n", snap.Status, snap.Score, snap.Direction, snap.Food)
	for y := 0; y < snap.Grid.Height; y++ {
		for x := 0; x < snap.Grid.Width; x++ {
			p := types.Point{X: x, Y: y}
			switch {
			case len(snap.Snake) > 0 && snap.Snake[0] == p:
				b.WriteByte('H')
			case slices.Contains(snap.Snake, p):
				b.WriteByte('s')
			case snap.HasFood && snap.Food == p:
				b.WriteByte('*')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func body(coords ...int) []types.Point {
	out := make([]types.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, types.Point{X: coords[i], Y: coords[i+1]})
	}
	return out
}

func TestNewGame_IsReady(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, types.Ready, f.game.Status())
	assert.Equal(t, 0, f.clock.Active())

	f.clock.Advance(time.Second)
	assert.Empty(t, f.rec.snaps, "nothing ticks before Start")
}

func TestStart_FreshSession(t *testing.T) {
	f := newFixture(t)
	f.game.Start()

	snap := f.game.Snapshot()
	assert.Equal(t, types.Running, snap.Status)
	assert.Equal(t, body(5, 10, 4, 10, 3, 10, 2, 10), snap.Snake)
	assert.Equal(t, types.Right, snap.Direction)
	assert.Equal(t, 0, snap.Score)
	assert.True(t, snap.HasFood)
	assert.NotContains(t, snap.Snake, snap.Food)
	assert.NotEmpty(t, snap.SessionID)
	assert.Equal(t, 1, f.clock.Active())
	require.Len(t, f.rec.snaps, 1)
}

func TestTick_MovesOneCell(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()

	f.tick()
	assert.Equal(t, body(6, 10, 5, 10, 4, 10, 3, 10), f.game.Snapshot().Snake)
	assert.Equal(t, 1, f.game.Ticks())
	assert.Len(t, f.rec.snaps, 2)
}

func TestTick_WallEndsSession(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()

	for i := 0; i < 14; i++ {
		f.tick()
	}
	head, _ := f.game.Snapshot().Head()
	require.Equal(t, types.Point{X: 19, Y: 10}, head, dumpBoard(f.game.Snapshot()))
	require.Equal(t, types.Running, f.game.Status())

	f.tick()
	snap := f.game.Snapshot()
	assert.Equal(t, types.Over, snap.Status)
	assert.Equal(t, types.WallCollision, snap.Reason)
	head, _ = snap.Head()
	assert.Equal(t, types.Point{X: 19, Y: 10}, head, "the losing move is not committed")
	assert.Equal(t, 0, f.clock.Active(), "no timer survives game over")

	renders := len(f.rec.snaps)
	f.clock.Advance(time.Second)
	assert.Len(t, f.rec.snaps, renders, "an over session is inert")
}

func TestTick_EatingGrowsAndScores(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.game.food = types.Point{X: 6, Y: 10}

	f.tick()
	snap := f.game.Snapshot()
	assert.Equal(t, body(6, 10, 5, 10, 4, 10, 3, 10, 2, 10), snap.Snake)
	assert.Equal(t, types.FoodReward, snap.Score)
	assert.True(t, snap.HasFood)
	assert.NotContains(t, snap.Snake, snap.Food)
	assert.Equal(t, [2]int{10, 0}, f.rec.scores[len(f.rec.scores)-1])
}

func TestTick_SelfCollision(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()
	f.game.snake = entity.NewSnake(5, types.Point{X: 10, Y: 10}, types.Right)

	for _, d := range []types.Direction{types.Down, types.Left} {
		f.game.SetPending(d)
		f.tick()
		require.Equal(t, types.Running, f.game.Status(), dumpBoard(f.game.Snapshot()))
	}
	f.game.SetPending(types.Up)
	f.tick()

	snap := f.game.Snapshot()
	assert.Equal(t, types.Over, snap.Status, dumpBoard(snap))
	assert.Equal(t, types.SelfCollision, snap.Reason)
}

func TestTick_MovingOntoTailIsACollision(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()
	f.game.snake = &entity.Snake{Body: body(5, 5, 5, 6, 6, 6, 6, 5)}
	f.game.direction = types.Up
	f.game.SetPending(types.Right)

	f.tick()
	assert.Equal(t, types.Over, f.game.Status())
	assert.Equal(t, types.SelfCollision, f.game.Snapshot().Reason)
}

func TestTick_MissingHeadIsSkipped(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.game.snake = &entity.Snake{}
	renders := len(f.rec.snaps)

	f.tick()
	assert.Equal(t, types.Running, f.game.Status())
	assert.Empty(t, f.game.Snapshot().Snake)
	assert.Len(t, f.rec.snaps, renders)
}

func TestPause_FreezesState(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()
	f.tick()

	f.game.TogglePause()
	require.Equal(t, types.Paused, f.game.Status())
	assert.Equal(t, 0, f.clock.Active())
	before := f.game.Snapshot()
	ticks := f.game.Ticks()

	f.clock.Advance(10 * time.Second)
	assert.Equal(t, before, f.game.Snapshot())
	assert.Equal(t, ticks, f.game.Ticks())

	f.game.TogglePause()
	require.Equal(t, types.Running, f.game.Status())
	f.clock.Advance(types.TickInterval)
	assert.Equal(t, ticks+1, f.game.Ticks(), "no catch-up for ticks missed while paused")
	assert.Equal(t, body(7, 10, 6, 10, 5, 10, 4, 10), f.game.Snapshot().Snake)
}

func TestTogglePause_IgnoredWhenNotPlaying(t *testing.T) {
	f := newFixture(t)
	f.game.TogglePause()
	assert.Equal(t, types.Ready, f.game.Status())
	assert.Empty(t, f.rec.snaps)
}

func TestStart_WhilePausedResets(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	first := f.game.Snapshot().SessionID
	f.game.food = types.Point{X: 6, Y: 10}
	f.tick()
	require.Equal(t, 10, f.game.Score())
	f.game.TogglePause()

	f.game.Start()
	snap := f.game.Snapshot()
	assert.Equal(t, types.Running, snap.Status)
	assert.Equal(t, 0, snap.Score)
	assert.Equal(t, body(5, 10, 4, 10, 3, 10, 2, 10), snap.Snake)
	assert.NotEqual(t, first, snap.SessionID)
	assert.Equal(t, 1, f.clock.Active())
}

func TestStart_WhileRunningKeepsOneTickStream(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.game.Start()
	f.game.Start()
	f.parkFood()

	assert.Equal(t, 1, f.clock.Active())
	f.tick()
	assert.Equal(t, 1, f.game.Ticks())
}

func TestGameOver_RecordsSessionAndHighScore(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.game.food = types.Point{X: 6, Y: 10}
	f.tick()
	f.parkFood()
	for f.game.Status() == types.Running {
		f.tick()
	}

	assert.Equal(t, 10, f.game.HighScore())
	high, err := f.store.LoadHighScore()
	require.NoError(t, err)
	assert.Equal(t, 10, high)

	recs := f.game.History(0)
	require.Len(t, recs, 1)
	assert.Equal(t, 10, recs[0].Score)
	assert.Equal(t, 5, recs[0].Length)
	assert.Equal(t, "out of bounds", recs[0].Reason)

	// A worse second session leaves the record alone.
	f.game.Start()
	f.parkFood()
	for f.game.Status() == types.Running {
		f.tick()
	}
	assert.Equal(t, 10, f.game.HighScore())
	assert.Len(t, f.game.History(0), 2)
}

func TestRenderer_CalledOnEveryTransition(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	f.parkFood()
	f.tick()
	f.game.TogglePause()
	f.game.TogglePause()
	for f.game.Status() == types.Running {
		f.tick()
	}

	statuses := make([]types.Status, 0, len(f.rec.snaps))
	for _, s := range f.rec.snaps {
		statuses = append(statuses, s.Status)
	}
	// start, 14 moves, pause, resume, over
	require.Len(t, statuses, 18)
	assert.Equal(t, types.Paused, statuses[2])
	assert.Equal(t, types.Running, statuses[3])
	assert.Equal(t, types.Over, statuses[17])
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newFixture(t)
	f.game.Start()
	snap := f.game.Snapshot()
	snap.Snake[0] = types.Point{X: 0, Y: 0}
	head, _ := f.game.Snapshot().Head()
	assert.Equal(t, types.Point{X: 5, Y: 10}, head)
}

// invariantChecker verifies the per-tick properties of a running session.
type invariantChecker struct {
	t    *testing.T
	prev *types.Snapshot
	fail bool
}

func (c *invariantChecker) Render(snap types.Snapshot) {
	defer func() { c.prev = &snap }()
	if c.fail {
		return
	}
	for i, p := range snap.Snake {
		if slices.Contains(snap.Snake[i+1:], p) {
			c.fail = true
			c.t.Errorf("duplicate segment %v\n%s", p, dumpBoard(snap))
			return
		}
	}
	if snap.Status != types.Running {
		return
	}
	// Placement may fall back onto the body only on a crowded board.
	if free := snap.Grid.Cells() - len(snap.Snake); free*2 >= snap.Grid.Cells() && slices.Contains(snap.Snake, snap.Food) {
		c.fail = true
		c.t.Errorf("food on snake with %d free cells\n%s", free, dumpBoard(snap))
	}
	if want := (len(snap.Snake) - types.InitialLength) * types.FoodReward; snap.Score != want {
		c.fail = true
		c.t.Errorf("score %d, want %d for length %d", snap.Score, want, len(snap.Snake))
	}
	if c.prev != nil && c.prev.Status == types.Running && c.prev.SessionID == snap.SessionID {
		grew := len(snap.Snake) - len(c.prev.Snake)
		if grew != 0 && grew != 1 {
			c.fail = true
			c.t.Errorf("length changed by %d in one tick", grew)
		}
	}
}

func TestAutopilot_LongRunKeepsInvariants(t *testing.T) {
	clk := clock.NewManual()
	checker := &invariantChecker{t: t}
	pilot := &ai.Autopilot{Pilot: ai.NewPilot(types.NewBoard()), Next: checker}
	g := NewGame(Options{
		Clock:    clk,
		Rand:     rand.New(rand.NewSource(11)),
		Renderer: pilot,
		Logger:   logging.Discard(),
	})
	pilot.Steer = input.NewController(g, logging.Discard())

	sessions := 0
	for i := 0; i < 5000 && !checker.fail; i++ {
		if g.Status() != types.Running {
			g.Start()
			sessions++
		}
		clk.Step()
	}
	assert.False(t, checker.fail)
	assert.Greater(t, g.HighScore(), 0, "the pilot should eat at least once")
	t.Logf("%d sessions, best %d", sessions, g.HighScore())
}
