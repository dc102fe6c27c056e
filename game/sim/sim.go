// Package sim plays autopilot sessions without a frontend, on simulated
// clocks, spread over a pool of workers.
package sim

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"classic-snake/ai"
	"classic-snake/game"
	"classic-snake/game/clock"
	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/types"

	"golang.org/x/exp/rand"
)

// ReasonTickLimit marks a session stopped because it ran too long.
const ReasonTickLimit = "tick limit"

type Options struct {
	Grid         types.Grid
	TickInterval time.Duration
	Workers      int    // defaults to GOMAXPROCS
	Seed         uint64 // session i uses Seed+i
	MaxTicks     int    // per session, defaults to 50 ticks per cell
	Logger       *slog.Logger
}

// Report is what a batch of sessions produced.
type Report struct {
	Records   []manager.SessionRecord // in completion order
	Summary   manager.Summary
	NewRecord bool
}

// Runner feeds finished sessions into one StateManager so the high score and
// history end up in the real store.
type Runner struct {
	opts     Options
	stateMgr *manager.StateManager
	logger   *slog.Logger
}

func NewRunner(opts Options, stateMgr *manager.StateManager) *Runner {
	if opts.Grid.Width <= 0 || opts.Grid.Height <= 0 {
		opts.Grid = types.NewBoard()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = types.TickInterval
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxTicks <= 0 {
		opts.MaxTicks = opts.Grid.Cells() * 50
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{opts: opts, stateMgr: stateMgr, logger: opts.Logger}
}

// Run plays n sessions. Cancelling ctx stops handing out new sessions;
// sessions already running finish.
func (r *Runner) Run(ctx context.Context, n int) Report {
	jobs := make(chan int)
	results := make(chan manager.SessionRecord)

	var wg sync.WaitGroup
	for w := 0; w < r.opts.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- r.playOne(i)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var report Report
	for rec := range results {
		if r.stateMgr.EndSession(rec) {
			report.NewRecord = true
		}
		report.Records = append(report.Records, rec)
		r.logger.Debug("session finished", "session", rec.ID, "score", rec.Score, "reason", rec.Reason)
	}
	report.Summary = manager.Summarize(report.Records)
	return report
}

// playOne runs session i to completion on its own game and clock.
func (r *Runner) playOne(i int) manager.SessionRecord {
	clk := clock.NewManual()
	base := time.Now()
	pilot := &ai.Autopilot{Pilot: ai.NewPilot(r.opts.Grid)}

	g := game.NewGame(game.Options{
		Grid:         r.opts.Grid,
		TickInterval: r.opts.TickInterval,
		Clock:        clk,
		Rand:         rand.New(rand.NewSource(r.opts.Seed + uint64(i))),
		Store:        manager.NewMemoryStore(),
		Renderer:     pilot,
		Logger:       r.logger.With("worker_session", i),
		Now:          func() time.Time { return base.Add(clk.Elapsed()) },
	})
	pilot.Steer = input.NewController(g, r.logger)

	g.Start()
	for g.Status() == types.Running && g.Ticks() < r.opts.MaxTicks {
		clk.Step()
	}

	if g.Status() == types.Over {
		if recs := g.History(1); len(recs) == 1 {
			return recs[0]
		}
	}

	g.Stop()
	snap := g.Snapshot()
	return manager.SessionRecord{
		ID:        snap.SessionID,
		Score:     snap.Score,
		Length:    len(snap.Snake),
		Reason:    ReasonTickLimit,
		StartTime: base,
		EndTime:   base.Add(clk.Elapsed()),
	}
}
