package schedule

import (
	"context"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type RuleRepository interface {
	ListRules(
		ctx context.Context,
	) ([]models.ScheduleRule, error)

	// ReplaceRules deletes every rule and inserts rules in one transaction.
	ReplaceRules(
		ctx context.Context,
		rules []models.ScheduleRule,
	) error
}

type BlockRepository interface {
	// CreateBlocks inserts rows in order and reports how many were stored,
	// also when it fails part way.
	CreateBlocks(
		ctx context.Context,
		blocks []models.Block,
	) (int, error)

	ListBlocksForDate(
		ctx context.Context,
		date string,
	) ([]models.Block, error)

	GetBlock(
		ctx context.Context,
		id uint,
	) (*models.Block, error)

	DeleteBlock(
		ctx context.Context,
		id uint,
	) error
}
