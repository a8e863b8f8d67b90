package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

type ScheduleRuleGormRepository struct {
	db *gorm.DB
}

func NewScheduleRuleGormRepository(db *gorm.DB) *ScheduleRuleGormRepository {
	return &ScheduleRuleGormRepository{db: db}
}

func (r *ScheduleRuleGormRepository) ListRules(
	ctx context.Context,
) ([]models.ScheduleRule, error) {

	var rules []models.ScheduleRule
	if err := r.db.WithContext(ctx).
		Order("weekday ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *ScheduleRuleGormRepository) ReplaceRules(
	ctx context.Context,
	rules []models.ScheduleRule,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.ScheduleRule{}).Error; err != nil {
			return err
		}

		if len(rules) == 0 {
			return nil
		}
		return tx.Create(&rules).Error
	})
}

// Compile-time check
var _ schedule.RuleRepository = (*ScheduleRuleGormRepository)(nil)
