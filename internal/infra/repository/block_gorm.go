package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// blockInsertChunk bounds one INSERT statement of a recurring series.
const blockInsertChunk = 50

type BlockGormRepository struct {
	db *gorm.DB
}

func NewBlockGormRepository(db *gorm.DB) *BlockGormRepository {
	return &BlockGormRepository{db: db}
}

// CreateBlocks inserts in chunks without a surrounding transaction: rows of
// chunks that went through stay when a later chunk fails.
func (r *BlockGormRepository) CreateBlocks(
	ctx context.Context,
	blocks []models.Block,
) (int, error) {

	created := 0
	for start := 0; start < len(blocks); start += blockInsertChunk {
		end := min(start+blockInsertChunk, len(blocks))

		chunk := blocks[start:end]
		if err := r.db.WithContext(ctx).Create(&chunk).Error; err != nil {
			return created, err
		}
		created += len(chunk)
	}

	return created, nil
}

func (r *BlockGormRepository) ListBlocksForDate(
	ctx context.Context,
	date string,
) ([]models.Block, error) {
	return listBlocksForDate(ctx, r.db, date)
}

func (r *BlockGormRepository) GetBlock(
	ctx context.Context,
	id uint,
) (*models.Block, error) {

	var b models.Block
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BlockGormRepository) DeleteBlock(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Block{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func listBlocksForDate(ctx context.Context, db *gorm.DB, date string) ([]models.Block, error) {
	var blocks []models.Block
	if err := db.WithContext(ctx).
		Where("date = ?", date).
		Order("start_time ASC, id ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// Compile-time check
var _ schedule.BlockRepository = (*BlockGormRepository)(nil)
