package manager

import (
	"log/slog"

	"classic-snake/game/entity"
	"classic-snake/game/types"

	"golang.org/x/exp/rand"
)

type FoodManager struct {
	grid         types.Grid
	rng          *rand.Rand
	maxAttempts  int
	collisionMgr *CollisionManager
	logger       *slog.Logger
}

// NewFoodManager returns a food placer drawing from rng. A nil rng gets a
// fixed seed.
func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng *rand.Rand, logger *slog.Logger) *FoodManager {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		maxAttempts:  types.MaxFoodAttempts,
		collisionMgr: collisionMgr,
		logger:       logger,
	}
}

// GenerateFood draws uniform random cells until one is off the snake, giving
// up after maxAttempts draws. On give-up the last draw is returned even if it
// is occupied; callers tolerate that on a nearly full board.
func (fm *FoodManager) GenerateFood(snake *entity.Snake) types.Point {
	var food types.Point
	for attempt := 0; attempt < fm.maxAttempts; attempt++ {
		food = types.Point{
			X: fm.rng.Intn(fm.grid.Width),
			Y: fm.rng.Intn(fm.grid.Height),
		}

		if fm.collisionMgr.ValidateSpawnPosition(food, snake) {
			fm.logger.Debug("food generated", "pos", food.String(), "attempts", attempt+1)
			return food
		}
	}

	fm.logger.Warn("food placed without a free cell", "pos", food.String(), "attempts", fm.maxAttempts)
	return food
}
