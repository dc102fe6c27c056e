package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"classic-snake/ai"
	"classic-snake/config"
	"classic-snake/game"
	"classic-snake/game/clock"
	"classic-snake/game/input"
	"classic-snake/game/manager"
	"classic-snake/game/sim"
	"classic-snake/game/types"
	"classic-snake/logging"
	"classic-snake/storage"
	"classic-snake/ui"
	"classic-snake/ui/terminal"
	"classic-snake/ui/view"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/exp/rand"
)

const logFileName = "snake.log"

type flags struct {
	configPath string
	frontend   string
	tickMS     int
	seed       uint64
	store      string
	dataDir    string
	logLevel   string
	autopilot  bool
	headless   int
	workers    int
	history    int
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml (default ~/.config/classic-snake/config.yaml)")
	flag.StringVar(&f.frontend, "frontend", "", "window or terminal")
	flag.IntVar(&f.tickMS, "tick", 0, "Tick interval in milliseconds")
	flag.Uint64Var(&f.seed, "seed", 0, "Food placement seed (0 = random)")
	flag.StringVar(&f.store, "store", "", "Score store: json, sqlite or memory")
	flag.StringVar(&f.dataDir, "data-dir", "", "Directory for scores and logs")
	flag.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	flag.BoolVar(&f.autopilot, "autopilot", false, "Let the computer steer")
	flag.IntVar(&f.headless, "headless", 0, "Play N autopilot sessions without a window and print a summary")
	flag.IntVar(&f.workers, "workers", 0, "Parallel sessions in headless mode (default GOMAXPROCS)")
	flag.IntVar(&f.history, "history", 0, "Print the last N sessions and exit")
	flag.Parse()

	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "snake: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	bindings := input.DefaultBindings()
	if err := bindings.Override(cfg.Keys); err != nil {
		return fmt.Errorf("%w: keys: %v", config.ErrInvalidConfig, err)
	}

	logOut, closeLog, err := logOutput(cfg, f)
	if err != nil {
		return err
	}
	defer closeLog()
	logger, err := logging.New(logOut, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	slog.SetDefault(logger)

	store, err := storage.Open(cfg.Store, cfg.DataDir)
	if err != nil {
		logger.Warn("score store unavailable, scores will not be kept", "store", cfg.Store, "error", err)
		store = manager.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	logger.Debug("starting", "frontend", cfg.Frontend, "store", cfg.Store, "data_dir", cfg.DataDir, "seed", seed)

	switch {
	case f.history > 0:
		return printHistory(os.Stdout, store, f.history)
	case f.headless > 0:
		return runHeadless(os.Stdout, cfg, store, seed, f, logger)
	case cfg.Frontend == config.FrontendTerminal:
		return runTerminal(cfg, bindings, store, seed, f.autopilot, logger)
	default:
		runWindow(cfg, bindings, store, seed, f.autopilot, logger)
		return nil
	}
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cfg *config.Config, f flags) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "frontend":
			cfg.Frontend = f.frontend
		case "tick":
			cfg.TickMS = f.tickMS
		case "seed":
			cfg.Seed = f.seed
		case "store":
			cfg.Store = f.store
		case "data-dir":
			cfg.DataDir = f.dataDir
		case "log-level":
			cfg.Log.Level = f.logLevel
		}
	})
}

// logOutput picks where logs go. The terminal frontend owns stdout and
// stderr, so it logs to a file in the data directory.
func logOutput(cfg config.Config, f flags) (io.Writer, func(), error) {
	path := cfg.Log.File
	if path == "" && cfg.Frontend == config.FrontendTerminal && f.headless == 0 && f.history == 0 {
		path = filepath.Join(cfg.DataDir, logFileName)
	}
	if path == "" {
		return os.Stderr, func() {}, nil
	}
	file, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}

func historyFunc(store manager.Store, logger *slog.Logger) func(n int) []manager.SessionRecord {
	return func(n int) []manager.SessionRecord {
		recs, err := store.RecentSessions(n)
		if err != nil {
			logger.Warn("failed to load history", "error", err)
		}
		return recs
	}
}

// withAutopilot wraps r so the pilot steers after every rendered tick. The
// returned function attaches the controller once it exists.
func withAutopilot(enabled bool, grid types.Grid, r game.Renderer) (game.Renderer, func(*input.Controller)) {
	if !enabled {
		return r, func(*input.Controller) {}
	}
	ap := &ai.Autopilot{Pilot: ai.NewPilot(grid), Next: r}
	return ap, func(c *input.Controller) { ap.Steer = c }
}

func runWindow(cfg config.Config, bindings input.Bindings, store manager.Store, seed uint64, autopilot bool, logger *slog.Logger) {
	grid := types.NewBoard()
	clk := clock.NewManual()
	win := ui.NewWindow(grid, cfg.WindowScale, bindings, historyFunc(store, logger))
	renderer, attach := withAutopilot(autopilot, grid, win)

	g := game.NewGame(game.Options{
		Grid:         grid,
		TickInterval: cfg.TickInterval(),
		Clock:        clk,
		Rand:         rand.New(rand.NewSource(seed)),
		Store:        store,
		Renderer:     renderer,
		Scores:       win,
		Logger:       logger,
	})
	ctrl := input.NewController(g, logger)
	attach(ctrl)

	win.Open()
	defer win.Close()
	win.ShowScores(g.Score(), g.HighScore())
	if autopilot {
		g.Start()
	}
	win.Run(ctrl, clk)
	g.Stop()
}

func runTerminal(cfg config.Config, bindings input.Bindings, store manager.Store, seed uint64, autopilot bool, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	grid := types.NewBoard()
	term := terminal.New(screen, grid, bindings, historyFunc(store, logger), logger)
	renderer, attach := withAutopilot(autopilot, grid, term)

	g := game.NewGame(game.Options{
		Grid:         grid,
		TickInterval: cfg.TickInterval(),
		Clock:        clock.NewTicker(term.Post),
		Rand:         rand.New(rand.NewSource(seed)),
		Store:        store,
		Renderer:     renderer,
		Scores:       term,
		Logger:       logger,
	})
	ctrl := input.NewController(g, logger)
	attach(ctrl)

	term.ShowScores(g.Score(), g.HighScore())
	if autopilot {
		g.Start()
	}
	term.Run(ctrl)
	g.Stop()
	return nil
}

func runHeadless(w io.Writer, cfg config.Config, store manager.Store, seed uint64, f flags, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stateMgr := manager.NewStateManager(store, logger)
	runner := sim.NewRunner(sim.Options{
		Grid:         types.NewBoard(),
		TickInterval: cfg.TickInterval(),
		Workers:      f.workers,
		Seed:         seed,
		Logger:       logger,
	}, stateMgr)

	started := time.Now()
	report := runner.Run(ctx, f.headless)

	fmt.Fprintf(w, "Played %d of %d sessions in %s\n", len(report.Records), f.headless, time.Since(started).Round(time.Millisecond))
	for _, line := range view.StatsLines(report.Summary) {
		fmt.Fprintf(w, "  %s\n", line)
	}
	fmt.Fprintf(w, "  Best ever: %d", stateMgr.GetHighScore())
	if report.NewRecord {
		fmt.Fprint(w, " (new record)")
	}
	fmt.Fprintln(w)
	return nil
}

func printHistory(w io.Writer, store manager.Store, n int) error {
	recs, err := store.RecentSessions(n)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	high, err := store.LoadHighScore()
	if err != nil {
		return fmt.Errorf("failed to load high score: %w", err)
	}

	fmt.Fprintf(w, "High score: %d\n", high)
	if len(recs) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return nil
	}
	now := time.Now()
	for _, rec := range recs {
		fmt.Fprintln(w, view.HistoryLine(rec, now))
	}
	fmt.Fprintln(w)
	for _, line := range view.StatsLines(manager.Summarize(recs)) {
		fmt.Fprintln(w, line)
	}
	return nil
}
