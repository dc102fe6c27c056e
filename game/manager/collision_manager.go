package manager

import (
	"log/slog"

	"classic-snake/game/entity"
	"classic-snake/game/types"
)

// MoveResult is the verdict for a candidate head.
type MoveResult struct {
	Collided bool
	Reason   types.CollisionType
}

type CollisionManager struct {
	grid   types.Grid
	logger *slog.Logger
}

func NewCollisionManager(grid types.Grid, logger *slog.Logger) *CollisionManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &CollisionManager{
		grid:   grid,
		logger: logger,
	}
}

// EvaluateMove checks a candidate head against the walls and against the
// body as it is before the move. Every segment from index 1 counts,
// including the tail that may be vacated this tick.
//
// A nil candidate means the caller could not compute a head. That is a
// defect, not a game event: it is logged and reported as no collision.
func (cm *CollisionManager) EvaluateMove(snake *entity.Snake, candidate *types.Point) MoveResult {
	if candidate == nil {
		cm.logger.Error("invalid snake head", "reason", "missing coordinates")
		return MoveResult{Reason: types.NoCollision}
	}

	if cm.isWallCollision(*candidate) {
		cm.logger.Info("border collision", "head", candidate.String())
		return MoveResult{Collided: true, Reason: types.WallCollision}
	}

	if cm.isSelfCollision(*candidate, snake) {
		cm.logger.Info("body collision", "head", candidate.String())
		return MoveResult{Collided: true, Reason: types.SelfCollision}
	}

	return MoveResult{Reason: types.NoCollision}
}

// EvaluateEat reports whether the candidate head lands on the food.
func (cm *CollisionManager) EvaluateEat(candidate, food types.Point) bool {
	return candidate == food
}

// isWallCollision checks if a position collides with walls
func (cm *CollisionManager) isWallCollision(pos types.Point) bool {
	return !cm.grid.InBounds(pos)
}

// isSelfCollision checks the body excluding the head
func (cm *CollisionManager) isSelfCollision(pos types.Point, snake *entity.Snake) bool {
	if snake == nil {
		return false
	}
	return snake.OccupiesFrom(pos, 1)
}

// ValidateSpawnPosition checks if a position is free for food
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, snake *entity.Snake) bool {
	if cm.isWallCollision(pos) {
		return false
	}
	return snake == nil || !snake.Contains(pos)
}
